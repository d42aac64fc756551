// Package errors defines the failure taxonomy shared by every coldstar
// component. Error messages may mention lengths and encoding details but
// never key bytes, derived keys, or decrypted seeds.
package errors

import (
	"errors"
	"fmt"
)

// Kind classifies a signer failure.
type Kind string

const (
	// KindMemoryLock means memory pinning was unavailable under strict policy.
	KindMemoryLock Kind = "memory_lock_failed"
	// KindKeyDerivation means the KDF rejected its parameters or failed to run.
	KindKeyDerivation Kind = "key_derivation_failed"
	// KindDecryption means AEAD authentication failed. Wrong passphrase and
	// corrupted ciphertext are intentionally indistinguishable.
	KindDecryption Kind = "decryption_failed"
	// KindInvalidKey means a key or seed had an unusable length.
	KindInvalidKey Kind = "invalid_key_format"
	// KindSigning means a signature or encryption primitive failed for a
	// reason other than authentication.
	KindSigning Kind = "signing_failed"
	// KindInvalidTransaction is reserved for payload-shape problems.
	KindInvalidTransaction Kind = "invalid_transaction"
	// KindSerialization means structured encode/decode failed.
	KindSerialization Kind = "serialization_error"
	// KindContainer means an at-rest container could not be parsed or validated.
	KindContainer Kind = "container_error"
	// KindBase58 means base58 decoding failed.
	KindBase58 Kind = "base58_error"
	// KindBase64 means base64 decoding failed.
	KindBase64 Kind = "base64_error"
	// KindIO surfaces an external read/write failure.
	KindIO Kind = "io_error"
)

// Error is a classified signer failure.
type Error struct {
	Kind   Kind
	Detail string
	Err    error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindDecryption:
		// Fixed text: never hint whether the passphrase or the ciphertext
		// was at fault.
		return "decryption failed: invalid passphrase or corrupted container"
	case KindMemoryLock:
		return "failed to lock memory: " + e.detail()
	case KindKeyDerivation:
		return "key derivation failed: " + e.detail()
	case KindInvalidKey:
		return "invalid key format: " + e.detail()
	case KindSigning:
		return "signing failed: " + e.detail()
	case KindInvalidTransaction:
		return "invalid transaction format: " + e.detail()
	case KindSerialization:
		return "serialization error: " + e.detail()
	case KindContainer:
		return "invalid container format: " + e.detail()
	case KindBase58:
		return "base58 decoding error: " + e.detail()
	case KindBase64:
		return "base64 decoding error: " + e.detail()
	case KindIO:
		return "i/o error: " + e.detail()
	}
	return string(e.Kind) + ": " + e.detail()
}

func (e *Error) detail() string {
	if e.Detail != "" {
		return e.Detail
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown"
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New builds an Error of the given kind with a free-form detail string.
func New(kind Kind, detail string) *Error {
	return &Error{Kind: kind, Detail: detail}
}

// Newf is New with formatting.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

// Wrap builds an Error of the given kind around an underlying cause.
func Wrap(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

// MemoryLock reports a pinning failure under strict policy.
func MemoryLock(detail string) *Error {
	return New(KindMemoryLock, detail)
}

// Decryption reports an AEAD authentication failure. It carries no detail.
func Decryption() *Error {
	return &Error{Kind: KindDecryption}
}

// InvalidKeyLength reports a seed or keypair of unusable length. Only the
// length is recorded, never the bytes.
func InvalidKeyLength(got int) *Error {
	return Newf(KindInvalidKey, "expected 32 or 64 bytes, got %d", got)
}

// KindOf extracts the Kind from err, or "" if err is not a signer Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Is reports whether err is a signer Error of the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
