// Package walleterr defines the error taxonomy shared by the key derivation,
// transaction, and provider layers. Every failure is classified by a Kind so
// callers can decide retry eligibility without string matching: Network errors
// are retryable, everything else is a per-call rejection.
package walleterr

import (
	"errors"
	"fmt"
)

// Kind classifies a wallet error.
type Kind string

const (
	// InvalidMnemonic covers bad word count, out-of-wordlist words, and
	// checksum mismatches.
	InvalidMnemonic Kind = "invalid_mnemonic"

	// InvalidDerivationPath covers malformed path strings, out-of-range
	// indices, and non-hardened segments on curves that require hardening.
	InvalidDerivationPath Kind = "invalid_derivation_path"

	// KeyDerivation covers cryptographic derivation failures such as
	// invalid intermediate key material.
	KeyDerivation Kind = "key_derivation"

	// InvalidAddress covers addresses that fail chain-specific decode,
	// length, or checksum validation.
	InvalidAddress Kind = "invalid_address"

	// InvalidPrivateKey covers key bytes that fail chain-specific
	// validation (wrong length, not on curve).
	InvalidPrivateKey Kind = "invalid_private_key"

	// Signing covers key-type/chain mismatches and signature algorithm
	// failures.
	Signing Kind = "signing"

	// Transaction covers malformed transaction requests, insufficient
	// funds, and missing required fee fields.
	Transaction Kind = "transaction"

	// Network covers broadcast and status-query transport failures.
	// Network errors are the only retryable kind.
	Network Kind = "network"
)

// Error is a classified wallet error. Op names the operation that failed.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// E wraps err with a kind and operation name.
func E(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Errorf builds a classified error from a format string.
func Errorf(kind Kind, op, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Op: op, Err: fmt.Errorf(format, args...)}
}

// KindOf returns the kind of err, or the empty string if err carries none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Is reports whether err is classified with the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// Retryable reports whether the caller may retry the failed operation.
// Only transport failures qualify; validation and signing failures are
// deterministic and will fail again.
func Retryable(err error) bool {
	return KindOf(err) == Network
}
