package signer

import (
	"encoding/json"

	cserrors "github.com/devsyrem/coldstar/internal/errors"
)

// Result is the output of a signing operation. Either all fields are
// populated consistently or the operation failed outright; no partial
// result is ever returned.
type Result struct {
	// Signature over the exact payload bytes (base58).
	Signature string `json:"signature"`
	// SignedTransaction is a best-effort single-signature wrapping of the
	// payload (base64), present only when the payload length made the
	// wrapping plausible. See wrapPayload.
	SignedTransaction string `json:"signed_transaction,omitempty"`
	// PublicKey of the signer (base58).
	PublicKey string `json:"public_key"`
}

// ToJSON serializes the result for the CLI and FFI surfaces.
func (r *Result) ToJSON() (string, error) {
	out, err := json.Marshal(r)
	if err != nil {
		return "", cserrors.Wrap(cserrors.KindSerialization, err)
	}
	return string(out), nil
}

// minWrappablePayload is the smallest payload the wrapping heuristic
// accepts. Anything shorter is returned unwrapped: the heuristic is a
// convenience for transaction-shaped messages, not a transaction codec.
const minWrappablePayload = 3

// wrapPayload builds the minimal signed-payload framing: a one-byte
// signature count, the 64-byte signature, then the payload verbatim.
// Returns nil when the payload is too short to plausibly be a transaction.
func wrapPayload(signature, payload []byte) []byte {
	if len(payload) < minWrappablePayload {
		return nil
	}
	wrapped := make([]byte, 0, 1+len(signature)+len(payload))
	wrapped = append(wrapped, 1)
	wrapped = append(wrapped, signature...)
	wrapped = append(wrapped, payload...)
	return wrapped
}
