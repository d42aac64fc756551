//go:build unix

package securemem

import "golang.org/x/sys/unix"

// pin asks the OS to keep b out of swap. Returns whether the request was
// honored; the error explains a refusal (typically RLIMIT_MEMLOCK).
func pin(b []byte) (bool, error) {
	if len(b) == 0 {
		return true, nil
	}
	if err := unix.Mlock(b); err != nil {
		return false, err
	}
	return true, nil
}

func unpin(b []byte) {
	if len(b) == 0 {
		return
	}
	// Nothing actionable on failure; the memory is already zeroed.
	_ = unix.Munlock(b)
}
