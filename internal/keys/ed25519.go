package keys

import (
	"crypto/ed25519"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/binary"
	"errors"

	"github.com/helioswallet/helios/internal/walleterr"
)

// slip10MasterKey is the HMAC personalization for Ed25519 master key
// generation per SLIP-10.
const slip10MasterKey = "ed25519 seed"

// deriveEd25519 walks a SLIP-10 derivation path from the master seed.
// Ed25519 has no public parent to child derivation, so every segment must
// be hardened; a non-hardened segment is a path error, not a crypto error.
func deriveEd25519(seed []byte, path DerivationPath) ([]byte, []byte, error) {
	const op = "keys.deriveEd25519"

	if !path.AllHardened() {
		return nil, nil, walleterr.E(walleterr.InvalidDerivationPath, op,
			errors.New("ed25519 derivation requires all segments hardened"))
	}

	key, chainCode := slip10Master(seed)
	for _, idx := range path {
		key, chainCode = slip10Child(key, chainCode, idx)
	}
	SecureClear(chainCode)

	priv := ed25519.NewKeyFromSeed(key)
	SecureClear(key)
	pub := make([]byte, ed25519.PublicKeySize)
	copy(pub, priv[ed25519.SeedSize:])
	return priv, pub, nil
}

// slip10Master derives the master key and chain code from a seed.
func slip10Master(seed []byte) (key, chainCode []byte) {
	mac := hmac.New(sha512.New, []byte(slip10MasterKey))
	mac.Write(seed)
	sum := mac.Sum(nil)
	return sum[:32], sum[32:]
}

// slip10Child derives one hardened child. The index already carries the
// hardened bit.
func slip10Child(key, chainCode []byte, index uint32) (childKey, childChainCode []byte) {
	data := make([]byte, 1+32+4)
	copy(data[1:], key)
	binary.BigEndian.PutUint32(data[33:], index)

	mac := hmac.New(sha512.New, chainCode)
	mac.Write(data)
	sum := mac.Sum(nil)

	SecureClear(key)
	SecureClear(chainCode)
	return sum[:32], sum[32:]
}

// ed25519FromBytes validates raw Ed25519 private key bytes. Both the 32-byte
// seed form and the 64-byte expanded form (seed || public key) are accepted.
func ed25519FromBytes(b []byte) ([]byte, []byte, error) {
	const op = "keys.ed25519FromBytes"

	switch len(b) {
	case ed25519.SeedSize:
		priv := ed25519.NewKeyFromSeed(b)
		pub := make([]byte, ed25519.PublicKeySize)
		copy(pub, priv[ed25519.SeedSize:])
		return priv, pub, nil

	case ed25519.PrivateKeySize:
		derived := ed25519.NewKeyFromSeed(b[:ed25519.SeedSize])
		if !derived.Equal(ed25519.PrivateKey(b)) {
			return nil, nil, walleterr.E(walleterr.InvalidPrivateKey, op,
				errors.New("public key half does not match seed"))
		}
		priv := make([]byte, ed25519.PrivateKeySize)
		copy(priv, b)
		pub := make([]byte, ed25519.PublicKeySize)
		copy(pub, b[ed25519.SeedSize:])
		return priv, pub, nil
	}

	return nil, nil, walleterr.Errorf(walleterr.InvalidPrivateKey, op,
		"private key is %d bytes, want %d or %d", len(b), ed25519.SeedSize, ed25519.PrivateKeySize)
}
