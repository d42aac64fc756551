package securemem

// Guard zeroizes a byte view when released. It covers slices the Buffer does
// not own, such as AEAD plaintext output, so they get the same wipe-on-exit
// discipline:
//
//	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
//	...
//	guard := securemem.NewGuard(plaintext)
//	defer guard.Release()
type Guard struct {
	view     []byte
	released bool
}

// NewGuard wraps view. The guard does not copy; Release wipes the caller's
// memory in place.
func NewGuard(view []byte) *Guard {
	return &Guard{view: view}
}

// Bytes returns the guarded view.
func (g *Guard) Bytes() []byte {
	if g.released {
		return nil
	}
	return g.view
}

// Release wipes the view. Only the first call wipes; later calls are no-ops
// so the guard is safe to release early and still defer.
func (g *Guard) Release() {
	if g.released {
		return
	}
	Wipe(g.view)
	g.released = true
}
