package securemem

import (
	"fmt"

	cserrors "github.com/devsyrem/coldstar/internal/errors"
)

// Mode is the memory-pinning policy applied when a Buffer is created or
// grown.
type Mode int

const (
	// Strict fails buffer creation when the memory cannot be pinned.
	Strict Mode = iota
	// Permissive proceeds without pinning; the failure is recorded in the
	// buffer's lock state so the caller can warn.
	Permissive
)

func (m Mode) String() string {
	if m == Permissive {
		return "permissive"
	}
	return "strict"
}

// Buffer owns a pinned, zero-initialized byte region for secret material.
// It is not safe for concurrent use; each signing call works on its own
// buffers.
type Buffer struct {
	// raw is the full allocation and the pin/unpin target. data is the
	// live view into it; shrinking narrows data without moving raw.
	raw    []byte
	data   []byte
	locked bool
}

// Allocate creates a buffer of n zero bytes and attempts to pin it.
func Allocate(n int, mode Mode) (*Buffer, error) {
	raw := make([]byte, n)
	locked, err := pin(raw)
	if !locked && mode == Strict {
		return nil, cserrors.MemoryLock(fmt.Sprintf(
			"mlock failed for %d bytes: %v (check ulimit -l or grant CAP_IPC_LOCK)", n, err))
	}
	return &Buffer{raw: raw, data: raw, locked: locked}, nil
}

// FromBytes allocates a pinned buffer and copies src into it. The source
// slice is left untouched; wiping it remains the caller's responsibility.
func FromBytes(src []byte, mode Mode) (*Buffer, error) {
	buf, err := Allocate(len(src), mode)
	if err != nil {
		return nil, err
	}
	copy(buf.data, src)
	return buf, nil
}

// Len returns the current length of the buffer.
func (b *Buffer) Len() int { return len(b.data) }

// Locked reports whether the OS honored the pin request.
func (b *Buffer) Locked() bool { return b.locked }

// Bytes exposes the buffer contents. The returned slice aliases pinned
// memory; callers must not retain it beyond the buffer's lifetime.
func (b *Buffer) Bytes() []byte { return b.data }

// Zeroize overwrites the contents with zeros immediately. Safe to call any
// number of times; Destroy zeroizes again regardless.
func (b *Buffer) Zeroize() {
	Wipe(b.raw)
}

// Resize changes the buffer length. Growing allocates and pins a fresh
// region before the old one is wiped and released; under Strict a pin
// failure aborts with the original buffer intact. Shrinking wipes the
// truncated tail and narrows in place.
func (b *Buffer) Resize(n int, mode Mode) error {
	if n > len(b.data) {
		raw := make([]byte, n)
		locked, err := pin(raw)
		if !locked && mode == Strict {
			return cserrors.MemoryLock(fmt.Sprintf(
				"mlock failed while growing to %d bytes: %v", n, err))
		}
		copy(raw, b.data)
		old := b.raw
		oldLocked := b.locked
		b.raw = raw
		b.data = raw
		b.locked = locked
		Wipe(old)
		if oldLocked {
			unpin(old)
		}
		return nil
	}
	Wipe(b.data[n:])
	b.data = b.data[:n]
	return nil
}

// Destroy zeroizes the contents, unpins the memory, and releases the
// allocation, in that order. Idempotent; intended for defer.
func (b *Buffer) Destroy() {
	if b.raw == nil {
		return
	}
	Wipe(b.raw)
	if b.locked {
		unpin(b.raw)
		b.locked = false
	}
	b.raw = nil
	b.data = nil
}

// String renders the buffer without revealing contents.
func (b *Buffer) String() string {
	return fmt.Sprintf("securemem.Buffer{len:%d locked:%t data:[REDACTED]}", len(b.data), b.locked)
}

// GoString mirrors String for %#v.
func (b *Buffer) GoString() string { return b.String() }

// Format routes every fmt verb through the redacted rendering.
func (b *Buffer) Format(f fmt.State, verb rune) {
	fmt.Fprint(f, b.String())
}
