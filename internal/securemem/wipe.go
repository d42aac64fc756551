package securemem

import (
	"runtime"
	"sync/atomic"
)

var wipeBarrier uint32

// Wipe overwrites b with zeros. The function is kept out of line and the
// slice is held live past the store loop, so the zeroing stores survive
// optimization even when the memory is never read again. The trailing atomic
// store orders the zeros before any later release of the backing memory.
//
//go:noinline
func Wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
	runtime.KeepAlive(&b)
	atomic.StoreUint32(&wipeBarrier, 1)
}
