package keys

import (
	"crypto/ed25519"

	"filippo.io/edwards25519"
	"github.com/mr-tron/base58"

	"github.com/helioswallet/helios/internal/walleterr"
)

// SolanaAddress encodes a raw 32-byte Ed25519 public key as a Base58 string.
// Solana addresses carry no checksum or version byte.
func SolanaAddress(pub []byte) (string, error) {
	const op = "keys.SolanaAddress"

	if len(pub) != ed25519.PublicKeySize {
		return "", walleterr.Errorf(walleterr.InvalidAddress, op,
			"public key is %d bytes, want %d", len(pub), ed25519.PublicKeySize)
	}
	return base58.Encode(pub), nil
}

// ValidateSolanaAddress checks that an address decodes to exactly 32 bytes.
// Off-curve keys are accepted: program derived addresses (token accounts
// included) are deliberately off-curve but are valid transfer destinations.
func ValidateSolanaAddress(address string) error {
	const op = "keys.ValidateSolanaAddress"

	decoded, err := base58.Decode(address)
	if err != nil {
		return walleterr.E(walleterr.InvalidAddress, op, err)
	}
	if len(decoded) != ed25519.PublicKeySize {
		return walleterr.Errorf(walleterr.InvalidAddress, op,
			"address decodes to %d bytes, want %d", len(decoded), ed25519.PublicKeySize)
	}
	return nil
}

// IsOnCurve reports whether a 32-byte public key is a valid edwards25519
// point. Signers must be on-curve; destinations need not be.
func IsOnCurve(pub []byte) bool {
	if len(pub) != ed25519.PublicKeySize {
		return false
	}
	_, err := new(edwards25519.Point).SetBytes(pub)
	return err == nil
}
