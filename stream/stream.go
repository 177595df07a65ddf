// Package stream implements one non-blocking TCP connection as an explicit state
// machine with FIFO read and write buffers and a length-prefixed framing codec.
//
// A Stream never blocks. Process advances it by one step and is meant to be called
// from a tick loop; Send queues a frame and flushes eagerly; Recv hands out complete
// frames only.
package stream

import (
	"net/netip"
	"syscall"
	"time"

	"github.com/sagernet/netstream/common/buf"
	"github.com/sagernet/netstream/common/log"
	"github.com/sagernet/netstream/transport/socket"

	"github.com/benbjohnson/clock"
	"github.com/sirupsen/logrus"
)

type State uint8

const (
	StateClosed State = iota
	StateConnecting
	StateConnected
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	default:
		return "closed"
	}
}

type Stream struct {
	transport    socket.Transport
	classifier   *socket.Classifier
	clock        clock.Clock
	logger       logrus.FieldLogger
	maxFrameSize int
	chunkSize    int

	fd          int
	state       State
	remote      netip.AddrPort
	readBuffer  *buf.Buffer
	writeBuffer *buf.Buffer
	chunk       []byte
	err         error
	errno       syscall.Errno
	tag         int64
	lastActive  time.Time
}

func New(options ...Option) *Stream {
	s := &Stream{
		maxFrameSize: DefaultMaxFrameSize,
		chunkSize:    buf.ChunkSize,
		fd:           -1,
		readBuffer:   buf.New(),
		writeBuffer:  buf.New(),
	}
	for _, option := range options {
		option(s)
	}
	if s.transport == nil {
		s.transport = new(socket.System)
	}
	if s.classifier == nil {
		s.classifier = socket.DefaultClassifier()
	}
	if s.clock == nil {
		s.clock = clock.New()
	}
	if s.logger == nil {
		s.logger = log.NewLogger("stream")
	}
	return s
}

// Connect starts an asynchronous connect. A stream that is not closed is closed
// first, so one Stream value may be reused for successive connections.
func (s *Stream) Connect(address string, port uint16) error {
	if s.state != StateClosed {
		s.Close()
	}
	s.reset()
	destination, err := socket.Resolve(address, port)
	if err != nil {
		return err
	}
	fd, err := s.transport.Open(socket.FamilyOf(destination.Addr()))
	if err != nil {
		s.err = s.record("open", err)
		return s.err
	}
	s.fd = fd
	s.remote = destination
	s.acquireChunk()
	err = s.transport.SetOption(fd, socket.OptionKeepAlive, 1)
	if err != nil {
		s.logger.Debug("enable keep-alive for ", destination, ": ", err)
	}
	err = s.transport.Connect(fd, destination)
	switch s.classifier.ClassifyConnect(err) {
	case socket.ClassPending:
		s.state = StateConnecting
		s.lastActive = s.clock.Now()
	case socket.ClassConnected:
		s.connected()
	default:
		return s.fail("connect", err)
	}
	return nil
}

// Assign adopts an already connected descriptor, typically one returned by accept.
func (s *Stream) Assign(fd int, remote netip.AddrPort) {
	if s.state != StateClosed {
		s.Close()
	}
	s.reset()
	s.fd = fd
	s.remote = remote
	s.state = StateConnected
	s.acquireChunk()
	s.lastActive = s.clock.Now()
}

// Close releases the descriptor at once. Unflushed writes and undecoded reads are
// discarded.
func (s *Stream) Close() error {
	s.readBuffer.Reset()
	if s.fd == -1 {
		s.state = StateClosed
		return nil
	}
	if s.err == nil {
		s.err = ErrClosed
	}
	return s.release()
}

// Process runs one step of the active phase: the connect check while connecting,
// a drain of the socket followed by one flush while connected. It returns the reason
// when the stream closed during this step.
func (s *Stream) Process() error {
	switch s.state {
	case StateConnecting:
		return s.tryConnect()
	case StateConnected:
		err := s.tryRecv()
		if err != nil {
			return err
		}
		return s.trySend()
	default:
		return nil
	}
}

func (s *Stream) tryConnect() error {
	err := s.transport.Probe(s.fd, s.remote)
	switch s.classifier.ClassifyConnect(err) {
	case socket.ClassPending:
		return nil
	case socket.ClassConnected:
		s.connected()
		return nil
	default:
		return s.fail("connect", err)
	}
}

func (s *Stream) connected() {
	s.state = StateConnected
	s.readBuffer.Reset()
	s.lastActive = s.clock.Now()
	s.logger.Debug("connected to ", s.remote)
}

func (s *Stream) tryRecv() error {
	for {
		n, err := s.transport.Read(s.fd, s.chunk)
		if err != nil {
			if s.classifier.IsWouldBlock(err) {
				return nil
			}
			return s.fail("read", err)
		}
		if n == 0 {
			return s.shutdown()
		}
		s.readBuffer.Write(s.chunk[:n])
		s.lastActive = s.clock.Now()
	}
}

func (s *Stream) trySend() error {
	if s.writeBuffer.IsEmpty() {
		return nil
	}
	n, err := s.transport.Write(s.fd, s.writeBuffer.Bytes())
	if err != nil {
		if s.classifier.IsWouldBlock(err) {
			return nil
		}
		return s.fail("write", err)
	}
	s.writeBuffer.Advance(n)
	return nil
}

// Send queues payload as one frame and flushes immediately.
func (s *Stream) Send(payload []byte) error {
	if len(payload) > s.maxFrameSize {
		return ErrFrameTooLarge
	}
	if s.state == StateClosed {
		return ErrClosed
	}
	putHeader(s.writeBuffer.Extend(FrameHeaderSize), len(payload))
	s.writeBuffer.Write(payload)
	return s.Process()
}

// Recv returns the next complete frame. Nothing is consumed unless the whole frame
// is buffered, so it is safe to call any number of times.
func (s *Stream) Recv() ([]byte, bool) {
	size, ok := PeekFrame(s.readBuffer.Bytes())
	if !ok {
		return nil, false
	}
	if size < 0 || size > s.maxFrameSize {
		s.fail("decode", syscall.EMSGSIZE)
		return nil, false
	}
	if s.readBuffer.Len()-FrameHeaderSize < size {
		return nil, false
	}
	payload := make([]byte, size)
	copy(payload, s.readBuffer.Range(FrameHeaderSize, FrameHeaderSize+size))
	s.readBuffer.Advance(FrameHeaderSize + size)
	return payload, true
}

func (s *Stream) SetNoDelay(enabled bool) error {
	return s.setOption(socket.OptionNoDelay, enabled)
}

func (s *Stream) SetKeepAlive(enabled bool) error {
	return s.setOption(socket.OptionKeepAlive, enabled)
}

func (s *Stream) setOption(option socket.Option, enabled bool) error {
	if s.fd == -1 {
		return ErrClosed
	}
	value := 0
	if enabled {
		value = 1
	}
	return s.transport.SetOption(s.fd, option, value)
}

func (s *Stream) State() State {
	return s.state
}

// FD returns the owned descriptor, or -1 when closed.
func (s *Stream) FD() int {
	return s.fd
}

func (s *Stream) Remote() netip.AddrPort {
	return s.remote
}

// Err returns why the stream last closed: ErrPeerClosed, ErrClosed or a *FatalError.
func (s *Stream) Err() error {
	return s.err
}

// Errno returns the last fatal operating system error, zero if none. It survives
// Close and is cleared by the next Connect or Assign.
func (s *Stream) Errno() syscall.Errno {
	return s.errno
}

func (s *Stream) Tag() int64 {
	return s.tag
}

func (s *Stream) SetTag(tag int64) {
	s.tag = tag
}

// LastActive returns the time of the last successful read.
func (s *Stream) LastActive() time.Time {
	return s.lastActive
}

// Pending returns the number of queued bytes not yet accepted by the kernel.
func (s *Stream) Pending() int {
	return s.writeBuffer.Len()
}

func (s *Stream) MaxFrameSize() int {
	return s.maxFrameSize
}

// Buffered returns the number of received bytes not yet decoded into frames.
func (s *Stream) Buffered() int {
	return s.readBuffer.Len()
}

// shutdown handles a graceful end of stream. Received bytes stay buffered so frames
// that arrived before the close can still be decoded.
func (s *Stream) shutdown() error {
	s.err = ErrPeerClosed
	s.release()
	s.logger.Debug("peer ", s.remote, " closed")
	return ErrPeerClosed
}

func (s *Stream) fail(op string, err error) error {
	fatal := s.record(op, err)
	s.err = fatal
	s.release()
	s.readBuffer.Reset()
	s.logger.Debug(op, " ", s.remote, ": ", fatal)
	return fatal
}

func (s *Stream) record(op string, err error) error {
	errno, loaded := socket.ErrnoOf(err)
	if !loaded {
		return err
	}
	s.errno = errno
	return &FatalError{Op: op, Errno: errno}
}

func (s *Stream) release() error {
	var err error
	if s.fd != -1 {
		err = s.transport.Close(s.fd)
		s.fd = -1
	}
	s.state = StateClosed
	s.writeBuffer.Reset()
	if s.chunk != nil {
		buf.PutChunk(s.chunk)
		s.chunk = nil
	}
	return err
}

func (s *Stream) reset() {
	s.err = nil
	s.errno = 0
	s.tag = 0
	s.remote = netip.AddrPort{}
	s.readBuffer.Reset()
	s.writeBuffer.Reset()
}

func (s *Stream) acquireChunk() {
	if s.chunkSize == buf.ChunkSize {
		s.chunk = buf.GetChunk()
	} else {
		s.chunk = make([]byte, s.chunkSize)
	}
}
