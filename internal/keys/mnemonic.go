// Package keys implements the mnemonic engine, hierarchical deterministic key
// derivation, and per-chain key/address adapters. Everything in this package
// is pure and deterministic: no I/O, no logging, no retries.
package keys

import (
	"errors"
	"strings"

	bip39 "github.com/tyler-smith/go-bip39"

	"github.com/helioswallet/helios/internal/walleterr"
)

// SeedSize is the byte length of a BIP39 master seed.
const SeedSize = 64

var validWordCounts = map[int]bool{12: true, 15: true, 18: true, 21: true, 24: true}

// GenerateMnemonic creates a new BIP39 mnemonic phrase. bits must be a
// multiple of 32 between 128 and 256 (128 -> 12 words, 256 -> 24 words).
func GenerateMnemonic(bits int) (string, error) {
	entropy, err := bip39.NewEntropy(bits)
	if err != nil {
		return "", walleterr.E(walleterr.InvalidMnemonic, "keys.GenerateMnemonic", err)
	}
	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", walleterr.E(walleterr.InvalidMnemonic, "keys.GenerateMnemonic", err)
	}
	return mnemonic, nil
}

// ValidateMnemonic checks word count, wordlist membership, and the embedded
// checksum of a BIP39 phrase.
func ValidateMnemonic(phrase string) error {
	const op = "keys.ValidateMnemonic"

	words := strings.Fields(phrase)
	if !validWordCounts[len(words)] {
		return walleterr.Errorf(walleterr.InvalidMnemonic, op,
			"mnemonic has %d words, want 12, 15, 18, 21, or 24", len(words))
	}
	if !bip39.IsMnemonicValid(normalizeMnemonic(phrase)) {
		return walleterr.E(walleterr.InvalidMnemonic, op,
			errors.New("word not in wordlist or checksum mismatch"))
	}
	return nil
}

// MnemonicToSeed converts a validated BIP39 phrase into a 64-byte master
// seed via PBKDF2-HMAC-SHA512 (2048 iterations, salt "mnemonic"+passphrase).
// An empty passphrase is valid and is the common case.
func MnemonicToSeed(phrase, passphrase string) ([]byte, error) {
	if err := ValidateMnemonic(phrase); err != nil {
		return nil, err
	}
	return bip39.NewSeed(normalizeMnemonic(phrase), passphrase), nil
}

// normalizeMnemonic collapses whitespace so phrases pasted with extra spacing
// still hash identically.
func normalizeMnemonic(phrase string) string {
	return strings.Join(strings.Fields(phrase), " ")
}
