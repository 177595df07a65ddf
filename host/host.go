// Package host multiplexes many streams behind one listening socket. All progress
// happens in Process, which accepts, drives, reaps and fires the timer in that order
// and reports everything through a FIFO of events.
//
// A Host is not safe for concurrent use.
package host

import (
	"errors"
	"net/netip"
	"syscall"
	"time"

	E "github.com/sagernet/netstream/common/exceptions"
	"github.com/sagernet/netstream/common/log"
	"github.com/sagernet/netstream/common/metrics"
	"github.com/sagernet/netstream/common/poll"
	"github.com/sagernet/netstream/common/x/list"
	"github.com/sagernet/netstream/stream"
	"github.com/sagernet/netstream/transport/socket"

	"github.com/benbjohnson/clock"
	"github.com/sirupsen/logrus"
)

var (
	ErrNotFound   = E.New("connection not found")
	ErrBindFailed = E.New("bind failed")
)

// Handle identifies one accepted connection. Handles start at 1 and are not reused
// until Shutdown.
type Handle uint32

type client struct {
	handle Handle
	stream *stream.Stream
}

type Host struct {
	transport    socket.Transport
	classifier   *socket.Classifier
	clock        clock.Clock
	logger       logrus.FieldLogger
	metrics      *metrics.Host
	address      netip.Addr
	idleTimeout  time.Duration
	noDelay      bool
	keepAlive    bool
	maxFrameSize int

	listener    int
	port        uint16
	clients     map[Handle]*list.Element[*client]
	order       list.List[*client]
	nextHandle  Handle
	queue       Queue
	departed    map[Handle]syscall.Errno
	timerPeriod time.Duration
	nextTimer   time.Time

	poller  *poll.Poller
	watched map[int]Handle
}

func NewHost(options ...Option) *Host {
	h := &Host{
		address:     netip.IPv4Unspecified(),
		idleTimeout: DefaultIdleTimeout,
		listener:    -1,
		clients:     make(map[Handle]*list.Element[*client]),
		departed:    make(map[Handle]syscall.Errno),
	}
	for _, option := range options {
		option(h)
	}
	if h.transport == nil {
		h.transport = new(socket.System)
	}
	if h.classifier == nil {
		h.classifier = socket.DefaultClassifier()
	}
	if h.clock == nil {
		h.clock = clock.New()
	}
	if h.logger == nil {
		h.logger = log.NewLogger("host")
	}
	return h
}

// Startup opens the listening socket. A prior listener is closed first; existing
// connections are kept. Port zero binds an ephemeral port, see Port.
func (h *Host) Startup(port uint16) error {
	err := h.closeListener()
	if err != nil {
		h.logger.Debug("close listener: ", err)
	}
	address := netip.AddrPortFrom(h.address, port)
	fd, err := h.transport.Open(socket.FamilyOf(h.address))
	if err != nil {
		return E.Cause(err, "open listener")
	}
	err = h.transport.SetOption(fd, socket.OptionReuseAddr, 1)
	if err != nil {
		return h.abort(fd, E.Cause(err, "set reuse-addr"))
	}
	err = h.transport.Bind(fd, address)
	if err != nil {
		return h.abort(fd, E.Cause1(ErrBindFailed, E.Cause(err, address.String())))
	}
	err = h.transport.Listen(fd, ListenBacklog)
	if err != nil {
		return h.abort(fd, E.Cause(err, "listen ", address))
	}
	localPort, err := h.transport.LocalPort(fd)
	if err != nil {
		return h.abort(fd, E.Cause(err, "read listener port"))
	}
	h.listener = fd
	h.port = localPort
	h.logger.Info("listening on ", netip.AddrPortFrom(h.address, localPort))
	return nil
}

func (h *Host) abort(fd int, err error) error {
	closeErr := h.transport.Close(fd)
	if closeErr != nil {
		err = E.Append(err, E.Cause(closeErr, "close listener"))
	}
	return err
}

// Shutdown closes the listener and every connection without emitting events, and
// resets handles and the event queue. The timer is left running. Close failures are
// combined into the result.
func (h *Host) Shutdown() error {
	var closeErrors []error
	if err := h.closeListener(); err != nil {
		closeErrors = append(closeErrors, E.Cause(err, "close listener"))
	}
	for element := h.order.Front(); element != nil; element = element.Next() {
		c := element.Value
		if err := c.stream.Close(); err != nil {
			closeErrors = append(closeErrors, E.Cause(err, "close ", c.handle))
		}
	}
	h.clients = make(map[Handle]*list.Element[*client])
	h.order.Init()
	h.nextHandle = 0
	h.queue.Clear()
	h.departed = make(map[Handle]syscall.Errno)
	h.metrics.Reset()
	if h.poller != nil {
		if err := h.poller.Close(); err != nil {
			closeErrors = append(closeErrors, E.Cause(err, "close poller"))
		}
		h.poller = nil
		h.watched = nil
	}
	return E.Errors(closeErrors...)
}

// Process runs one tick.
func (h *Host) Process() {
	if len(h.departed) > 0 {
		h.departed = make(map[Handle]syscall.Errno)
	}
	h.accept()
	h.drive()
	h.reap()
	h.fireTimer()
}

func (h *Host) accept() {
	if h.listener == -1 {
		return
	}
	fd, remote, err := h.transport.Accept(h.listener)
	if err != nil {
		if !h.classifier.IsWouldBlock(err) {
			h.logger.Warn("accept: ", err)
		}
		return
	}
	h.nextHandle++
	handle := h.nextHandle
	s := stream.New(
		stream.WithTransport(h.transport),
		stream.WithClassifier(h.classifier),
		stream.WithClock(h.clock),
		stream.WithLogger(h.logger),
		stream.WithMaxFrameSize(h.maxFrameSize),
	)
	s.Assign(fd, remote)
	if h.noDelay {
		if err = s.SetNoDelay(true); err != nil {
			h.logger.Debug("set no-delay for ", remote, ": ", err)
		}
	}
	if h.keepAlive {
		if err = s.SetKeepAlive(true); err != nil {
			h.logger.Debug("set keep-alive for ", remote, ": ", err)
		}
	}
	h.clients[handle] = h.order.PushBack(&client{handle: handle, stream: s})
	h.metrics.Accepted()
	h.logger.Debug("accepted ", remote, " as ", handle)
	h.queue.Push(Event{Kind: EventNew, Handle: handle, Payload: []byte(remote.String())})
}

func (h *Host) drive() {
	for element := h.order.Front(); element != nil; element = element.Next() {
		c := element.Value
		c.stream.Process()
		for {
			payload, ok := c.stream.Recv()
			if !ok {
				break
			}
			h.metrics.Received(len(payload))
			h.queue.Push(Event{Kind: EventData, Handle: c.handle, Tag: c.stream.Tag(), Payload: payload})
		}
	}
}

func (h *Host) reap() {
	now := h.clock.Now()
	for element := h.order.Front(); element != nil; {
		next := element.Next()
		c := element.Value
		if c.stream.State() == stream.StateClosed {
			h.remove(element, reasonOf(c.stream.Err()), c.stream.Errno())
		} else if h.idleTimeout > 0 && now.Sub(c.stream.LastActive()) > h.idleTimeout {
			h.remove(element, metrics.ReasonTimeout, syscall.ETIMEDOUT)
		}
		element = next
	}
}

func (h *Host) remove(element *list.Element[*client], reason string, errno syscall.Errno) {
	c := h.order.Remove(element)
	delete(h.clients, c.handle)
	h.departed[c.handle] = errno
	remote := c.stream.Remote()
	c.stream.Close()
	h.metrics.Disconnected(reason)
	h.logger.Debug("leave ", c.handle, " ", remote, ": ", reason)
	h.queue.Push(Event{Kind: EventLeave, Handle: c.handle, Tag: c.stream.Tag(), Payload: []byte(remote.String())})
}

func (h *Host) fireTimer() {
	if h.timerPeriod <= 0 {
		return
	}
	now := h.clock.Now()
	for !now.Before(h.nextTimer) {
		h.metrics.Timer()
		h.queue.Push(Event{Kind: EventTimer})
		h.nextTimer = h.nextTimer.Add(h.timerPeriod)
	}
}

// Read pops the oldest event.
func (h *Host) Read() (Event, bool) {
	return h.queue.Pop()
}

// SetTimer schedules a Timer event every period starting one period from now. Ticks
// missed between two Process calls are all delivered. Zero disables the timer.
func (h *Host) SetTimer(period time.Duration) {
	h.timerPeriod = period
	if period > 0 {
		h.nextTimer = h.clock.Now().Add(period)
	}
}

// Send queues payload to the connection and flushes what the socket accepts.
// Transport failures are reported later as a Leave event.
func (h *Host) Send(handle Handle, payload []byte) error {
	c, err := h.lookup(handle)
	if err != nil {
		return err
	}
	err = c.stream.Send(payload)
	if errors.Is(err, stream.ErrFrameTooLarge) {
		return err
	}
	if err != nil {
		h.logger.Debug("send to ", handle, ": ", err)
		return nil
	}
	h.metrics.Sent(len(payload))
	return nil
}

// Close closes the connection at once, discarding unsent data. Its Leave event is
// emitted by the next Process.
func (h *Host) Close(handle Handle) error {
	c, err := h.lookup(handle)
	if err != nil {
		return err
	}
	return c.stream.Close()
}

func (h *Host) SetTag(handle Handle, tag int64) error {
	c, err := h.lookup(handle)
	if err != nil {
		return err
	}
	c.stream.SetTag(tag)
	return nil
}

func (h *Host) Tag(handle Handle) (int64, error) {
	c, err := h.lookup(handle)
	if err != nil {
		return 0, err
	}
	return c.stream.Tag(), nil
}

func (h *Host) SetNoDelay(handle Handle, enabled bool) error {
	c, err := h.lookup(handle)
	if err != nil {
		return err
	}
	return c.stream.SetNoDelay(enabled)
}

// Error returns the last OS error of the connection. Connections reaped by the most
// recent Process are still answered, so a Leave can be inspected.
func (h *Host) Error(handle Handle) (syscall.Errno, error) {
	c, err := h.lookup(handle)
	if err == nil {
		return c.stream.Errno(), nil
	}
	if errno, loaded := h.departed[handle]; loaded {
		return errno, nil
	}
	return 0, err
}

func (h *Host) Remote(handle Handle) (netip.AddrPort, error) {
	c, err := h.lookup(handle)
	if err != nil {
		return netip.AddrPort{}, err
	}
	return c.stream.Remote(), nil
}

func (h *Host) Port() uint16 {
	return h.port
}

func (h *Host) Listening() bool {
	return h.listener != -1
}

// Count returns the number of registered connections, including closed ones not
// yet reaped.
func (h *Host) Count() int {
	return len(h.clients)
}

func (h *Host) lookup(handle Handle) (*client, error) {
	element, loaded := h.clients[handle]
	if !loaded {
		return nil, ErrNotFound
	}
	return element.Value, nil
}

func (h *Host) closeListener() error {
	if h.listener == -1 {
		return nil
	}
	if h.poller != nil {
		h.poller.Remove(h.listener)
		delete(h.watched, h.listener)
	}
	err := h.transport.Close(h.listener)
	h.listener = -1
	h.port = 0
	return err
}

func reasonOf(err error) string {
	switch {
	case errors.Is(err, stream.ErrPeerClosed):
		return metrics.ReasonPeerClosed
	case errors.Is(err, stream.ErrClosed):
		return metrics.ReasonClosed
	default:
		return metrics.ReasonError
	}
}
