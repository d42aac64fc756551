//go:build !unix && !windows

package securemem

import "errors"

func pin(b []byte) (bool, error) {
	return false, errors.New("memory pinning not supported on this platform")
}

func unpin(b []byte) {}
