//go:build windows

package sim

import (
	"syscall"

	"golang.org/x/sys/windows"
)

// reuseAddr enables SO_REUSEADDR before bind so the responder can
// share the search port with other discovery stacks on the host.
func reuseAddr(network, address string, c syscall.RawConn) error {
	var opErr error
	err := c.Control(func(fd uintptr) {
		opErr = windows.SetsockoptInt(windows.Handle(fd), windows.SOL_SOCKET, windows.SO_REUSEADDR, 1)
	})
	if err != nil {
		return err
	}
	return opErr
}
