// Package securemem provides byte buffers for secret material that are
// pinned against swapping and zeroized before their memory is released.
//
// A Buffer is created under an explicit Mode: Strict fails outright when the
// OS refuses to pin the memory, Permissive proceeds and records the outcome
// in the buffer's lock state. The mode is always a parameter, never package
// state, so callers decide policy once and thread it down.
//
// Every Buffer must be destroyed when its scope ends:
//
//	buf, err := securemem.FromBytes(seed, securemem.Strict)
//	if err != nil {
//	    return err
//	}
//	defer buf.Destroy()
//
// Destroy zeroizes the contents, unpins the memory, and drops the
// allocation, in that order. The zeroizing store cannot be elided by the
// compiler. Rendering a Buffer with any fmt verb reveals only its length and
// lock state.
//
// Guard offers the same zeroize-on-exit discipline for byte slices the
// buffer does not own, such as decrypted plaintext returned by an AEAD.
package securemem
