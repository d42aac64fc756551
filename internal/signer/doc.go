// Package signer implements the decrypt-sign-zeroize pipeline: passphrase
// key derivation (Argon2id), the AES-256-GCM encrypted container format for
// Ed25519 seeds at rest, and signing itself.
//
// Every operation is a self-contained call. Secret intermediates, from the
// derived key to the decrypted seed and the expanded private key, live in
// securemem buffers or under securemem guards and are zeroized before the
// call returns, on success and on every error path. The plaintext seed never
// appears in a value that outlives the call.
//
// The memory-pinning policy and the warning logger are carried explicitly by
// the Engine; the package holds no global state.
package signer
