package socket

import (
	"errors"
	"syscall"
)

type Class uint8

const (
	ClassFatal Class = iota
	ClassPending
	ClassConnected
	ClassWouldBlock
)

func (c Class) String() string {
	switch c {
	case ClassPending:
		return "pending"
	case ClassConnected:
		return "connected"
	case ClassWouldBlock:
		return "would-block"
	default:
		return "fatal"
	}
}

// Classifier maps OS error codes to the outcome classes the stream state machine
// acts on. The sets may overlap: EAGAIN is both a pending connect and a would-block
// read. Codes in no set are fatal.
type Classifier struct {
	pending    map[syscall.Errno]struct{}
	connected  map[syscall.Errno]struct{}
	wouldBlock map[syscall.Errno]struct{}
}

func NewClassifier(pending, connected, wouldBlock []syscall.Errno) *Classifier {
	return &Classifier{
		pending:    errnoSet(pending),
		connected:  errnoSet(connected),
		wouldBlock: errnoSet(wouldBlock),
	}
}

var defaultClassifier = NewClassifier(defaultPending, defaultConnected, defaultWouldBlock)

// DefaultClassifier returns the table for the running platform.
func DefaultClassifier() *Classifier {
	return defaultClassifier
}

// Override returns a copy of c with each non-empty list replacing the matching set.
func (c *Classifier) Override(pending, connected, wouldBlock []syscall.Errno) *Classifier {
	override := &Classifier{
		pending:    c.pending,
		connected:  c.connected,
		wouldBlock: c.wouldBlock,
	}
	if len(pending) > 0 {
		override.pending = errnoSet(pending)
	}
	if len(connected) > 0 {
		override.connected = errnoSet(connected)
	}
	if len(wouldBlock) > 0 {
		override.wouldBlock = errnoSet(wouldBlock)
	}
	return override
}

func (c *Classifier) IsPending(err error) bool {
	return c.match(c.pending, err)
}

func (c *Classifier) IsConnected(err error) bool {
	return c.match(c.connected, err)
}

func (c *Classifier) IsWouldBlock(err error) bool {
	return c.match(c.wouldBlock, err)
}

// ClassifyConnect classifies the answer of a connect attempt or probe.
func (c *Classifier) ClassifyConnect(err error) Class {
	if err == nil || c.IsConnected(err) {
		return ClassConnected
	}
	if c.IsPending(err) {
		return ClassPending
	}
	return ClassFatal
}

// ClassifyIO classifies the answer of a read, write or accept.
func (c *Classifier) ClassifyIO(err error) Class {
	if c.IsWouldBlock(err) {
		return ClassWouldBlock
	}
	return ClassFatal
}

func (c *Classifier) match(set map[syscall.Errno]struct{}, err error) bool {
	errno, loaded := ErrnoOf(err)
	if !loaded {
		return false
	}
	_, loaded = set[errno]
	return loaded
}

func ErrnoOf(err error) (syscall.Errno, bool) {
	var errno syscall.Errno
	if err == nil || !errors.As(err, &errno) {
		return 0, false
	}
	return errno, true
}

func errnoSet(codes []syscall.Errno) map[syscall.Errno]struct{} {
	set := make(map[syscall.Errno]struct{}, len(codes))
	for _, code := range codes {
		set[code] = struct{}{}
	}
	return set
}
