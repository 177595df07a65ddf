package stream

import (
	"syscall"

	E "github.com/sagernet/netstream/common/exceptions"
)

var (
	ErrPeerClosed    = E.New("peer closed")
	ErrClosed        = E.New("stream closed")
	ErrFrameTooLarge = E.New("frame too large")
)

// FatalError is an operating system failure that forced the stream closed.
type FatalError struct {
	Op    string
	Errno syscall.Errno
}

func (e *FatalError) Error() string {
	return e.Op + ": " + e.Errno.Error()
}

func (e *FatalError) Unwrap() error {
	return e.Errno
}
