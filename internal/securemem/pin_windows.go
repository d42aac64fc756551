//go:build windows

package securemem

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

func pin(b []byte) (bool, error) {
	if len(b) == 0 {
		return true, nil
	}
	if err := windows.VirtualLock(uintptr(unsafe.Pointer(&b[0])), uintptr(len(b))); err != nil {
		return false, err
	}
	return true, nil
}

func unpin(b []byte) {
	if len(b) == 0 {
		return
	}
	_ = windows.VirtualUnlock(uintptr(unsafe.Pointer(&b[0])), uintptr(len(b)))
}
