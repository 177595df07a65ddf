//go:build !unix && !windows

package socket

import "syscall"

var (
	defaultPending    []syscall.Errno
	defaultConnected  []syscall.Errno
	defaultWouldBlock []syscall.Errno
)
