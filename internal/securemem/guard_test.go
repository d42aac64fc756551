package securemem

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWipe(t *testing.T) {
	t.Parallel()

	b := []byte{1, 2, 3, 4}
	Wipe(b)
	assert.Equal(t, []byte{0, 0, 0, 0}, b)

	Wipe(nil) // must not panic
}

func TestGuardReleaseWipesView(t *testing.T) {
	t.Parallel()

	view := []byte{0xAA, 0xBB, 0xCC}
	g := NewGuard(view)
	assert.Equal(t, []byte{0xAA, 0xBB, 0xCC}, g.Bytes())

	g.Release()
	assert.Equal(t, []byte{0, 0, 0}, view)
	assert.Nil(t, g.Bytes())
}

func TestGuardReleaseIsIdempotent(t *testing.T) {
	t.Parallel()

	view := []byte{1, 1}
	g := NewGuard(view)
	g.Release()
	view[0] = 7 // caller reuses the memory
	g.Release() // second release must not wipe again
	assert.EqualValues(t, 7, view[0])
}

func TestGuardDeferPattern(t *testing.T) {
	t.Parallel()

	view := []byte{5, 6, 7}
	func() {
		g := NewGuard(view)
		defer g.Release()
		_ = g.Bytes()
	}()
	assert.Equal(t, []byte{0, 0, 0}, view)
}
