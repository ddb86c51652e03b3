package keys

import (
	"errors"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"

	"github.com/helioswallet/helios/internal/walleterr"
)

// deriveSecp256k1 walks a BIP32 derivation path from the master seed.
// Both hardened and non-hardened segments are supported.
func deriveSecp256k1(seed []byte, path DerivationPath) ([]byte, []byte, error) {
	const op = "keys.deriveSecp256k1"

	// Network params only affect xprv/xpub serialization, which we never
	// emit; mainnet is used for all key types on this curve.
	key, err := hdkeychain.NewMaster(seed, &chaincfg.MainNetParams)
	if err != nil {
		return nil, nil, walleterr.E(walleterr.KeyDerivation, op, err)
	}

	for _, idx := range path {
		key, err = key.Derive(idx)
		if err != nil {
			// Includes hdkeychain.ErrInvalidChild for the ~1/2^127
			// case of an out-of-range intermediate key.
			return nil, nil, walleterr.E(walleterr.KeyDerivation, op, err)
		}
	}

	privKey, err := key.ECPrivKey()
	if err != nil {
		return nil, nil, walleterr.E(walleterr.KeyDerivation, op, err)
	}

	priv := privKey.Serialize()
	pub := privKey.PubKey().SerializeCompressed()
	key.Zero()
	return priv, pub, nil
}

// secp256k1FromBytes validates raw private key bytes as a secp256k1 scalar.
func secp256k1FromBytes(b []byte) ([]byte, []byte, error) {
	const op = "keys.secp256k1FromBytes"

	if len(b) != 32 {
		return nil, nil, walleterr.Errorf(walleterr.InvalidPrivateKey, op,
			"private key is %d bytes, want 32", len(b))
	}

	var scalar btcec.ModNScalar
	if overflow := scalar.SetByteSlice(b); overflow {
		return nil, nil, walleterr.E(walleterr.InvalidPrivateKey, op,
			errors.New("private key exceeds curve order"))
	}
	if scalar.IsZero() {
		return nil, nil, walleterr.E(walleterr.InvalidPrivateKey, op,
			errors.New("private key is zero"))
	}
	scalar.Zero()

	privKey, _ := btcec.PrivKeyFromBytes(b)
	priv := privKey.Serialize()
	pub := privKey.PubKey().SerializeCompressed()
	privKey.Zero()
	return priv, pub, nil
}
