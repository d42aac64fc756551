// Package secure holds caller-supplied credentials (passphrases and
// base58-encoded private keys arriving via flags, environment variables, or
// the stdin command loop) in memguard enclaves between parse time and point
// of use.
//
// This is a different concern from securemem: securemem buffers are
// short-lived pinned scratch space inside a single signing call, while a
// Credential may live for the whole run of a command (or across many stdin
// commands) and is therefore kept encrypted at rest in memory
// (XSalsa20Poly1305 via memguard), not merely pinned.
//
//	cred := secure.NewCredential([]byte(passphrase))
//	defer cred.Destroy()
//
//	view, err := cred.Open()
//	if err != nil {
//	    return err
//	}
//	defer view.Destroy()
//	engine.DecryptAndSign(containerJSON, string(view.Bytes()), payload)
//
// Call memguard.Purge() on process exit (main does) to scrub every enclave
// at once.
package secure
