//go:build unix

package socket

import "syscall"

var (
	defaultPending    = []syscall.Errno{syscall.EINPROGRESS, syscall.EALREADY, syscall.EAGAIN, syscall.EWOULDBLOCK, syscall.EINTR}
	defaultConnected  = []syscall.Errno{syscall.EISCONN}
	defaultWouldBlock = []syscall.Errno{syscall.EAGAIN, syscall.EWOULDBLOCK, syscall.EINTR}
)
