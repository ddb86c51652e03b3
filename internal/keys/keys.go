package keys

import (
	"github.com/helioswallet/helios/internal/chain"
	"github.com/helioswallet/helios/internal/walleterr"
)

// KeyPair holds derived key material tagged with the chain family it belongs
// to. The tag is authoritative: signing and address encoding dispatch on it,
// and using a pair against another chain's transaction is rejected outright.
//
// PrivateKey layout depends on the curve: 32 bytes for secp256k1, 64 bytes
// (seed || public key) for Ed25519. PublicKey is 33-byte compressed SEC1 for
// secp256k1 and the raw 32-byte point for Ed25519.
type KeyPair struct {
	KeyType    chain.KeyType
	PrivateKey []byte
	PublicKey  []byte
	Path       string
}

// DeriveKeyPair derives a key pair from a master seed along a path, using
// the derivation scheme of the key type's curve: BIP32 for secp256k1 chains,
// SLIP-10 (hardened-only) for Ed25519 chains.
func DeriveKeyPair(seed []byte, keyType chain.KeyType, path string) (*KeyPair, error) {
	const op = "keys.DeriveKeyPair"

	if !keyType.Valid() {
		return nil, walleterr.Errorf(walleterr.KeyDerivation, op,
			"unsupported key type %q", keyType)
	}
	if len(seed) < 16 || len(seed) > SeedSize {
		return nil, walleterr.Errorf(walleterr.KeyDerivation, op,
			"seed is %d bytes, want 16 to %d", len(seed), SeedSize)
	}

	parsed, err := ParsePath(path)
	if err != nil {
		return nil, err
	}

	var priv, pub []byte
	switch keyType.Curve() {
	case chain.CurveSecp256k1:
		priv, pub, err = deriveSecp256k1(seed, parsed)
	case chain.CurveEd25519:
		priv, pub, err = deriveEd25519(seed, parsed)
	}
	if err != nil {
		return nil, err
	}

	return &KeyPair{
		KeyType:    keyType,
		PrivateKey: priv,
		PublicKey:  pub,
		Path:       parsed.String(),
	}, nil
}

// FromPrivateKey builds a key pair from raw private key bytes, validating
// them against the key type's curve.
func FromPrivateKey(keyType chain.KeyType, priv []byte) (*KeyPair, error) {
	const op = "keys.FromPrivateKey"

	if !keyType.Valid() {
		return nil, walleterr.Errorf(walleterr.InvalidPrivateKey, op,
			"unsupported key type %q", keyType)
	}

	var err error
	var privCopy, pub []byte
	switch keyType.Curve() {
	case chain.CurveSecp256k1:
		privCopy, pub, err = secp256k1FromBytes(priv)
	case chain.CurveEd25519:
		privCopy, pub, err = ed25519FromBytes(priv)
	}
	if err != nil {
		return nil, err
	}

	return &KeyPair{
		KeyType:    keyType,
		PrivateKey: privCopy,
		PublicKey:  pub,
	}, nil
}

// Address encodes the public key as an address in the key type's native
// format. The network selects Bitcoin version bytes; Ethereum and Solana
// addresses are network-independent.
func (kp *KeyPair) Address(network chain.Network) (string, error) {
	const op = "keys.KeyPair.Address"

	switch kp.KeyType {
	case chain.KeyTypeEthereum:
		return EthereumAddress(kp.PublicKey)
	case chain.KeyTypeBitcoin:
		params, ok := chain.Get(chain.KeyTypeBitcoin, network)
		if !ok {
			return "", walleterr.Errorf(walleterr.InvalidAddress, op,
				"no bitcoin params for network %q", network)
		}
		return BitcoinAddress(kp.PublicKey, params)
	case chain.KeyTypeSolana:
		return SolanaAddress(kp.PublicKey)
	}
	return "", walleterr.Errorf(walleterr.InvalidAddress, op,
		"unsupported key type %q", kp.KeyType)
}

// ValidateAddress checks an address against the key type's encoding rules.
func ValidateAddress(keyType chain.KeyType, network chain.Network, address string) error {
	const op = "keys.ValidateAddress"

	switch keyType {
	case chain.KeyTypeEthereum:
		return ValidateEthereumAddress(address)
	case chain.KeyTypeBitcoin:
		params, ok := chain.Get(chain.KeyTypeBitcoin, network)
		if !ok {
			return walleterr.Errorf(walleterr.InvalidAddress, op,
				"no bitcoin params for network %q", network)
		}
		return ValidateBitcoinAddress(address, params)
	case chain.KeyTypeSolana:
		return ValidateSolanaAddress(address)
	}
	return walleterr.Errorf(walleterr.InvalidAddress, op,
		"unsupported key type %q", keyType)
}

// Wipe zeroes the private key bytes. The pair is unusable afterwards.
func (kp *KeyPair) Wipe() {
	SecureClear(kp.PrivateKey)
}

// SecureClear overwrites sensitive byte slices with zeros.
func SecureClear(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
