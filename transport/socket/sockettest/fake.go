// Package sockettest provides an in-memory socket.Transport for exercising the
// stream and host state machines with scripted partial reads and writes.
package sockettest

import (
	"net/netip"
	"sort"
	"syscall"

	"github.com/sagernet/netstream/transport/socket"
)

var _ socket.Transport = (*Fake)(nil)

// Fake hands out descriptors starting at 3. The exported error fields are returned
// by the matching operation while set.
type Fake struct {
	OpenErr    error
	BindErr    error
	ListenErr  error
	ConnectErr error
	ProbeErr   error
	AcceptErr  error
	CloseErr   error

	nextFD  int
	sockets map[int]*Socket
	backlog []*Socket
}

func NewFake() *Fake {
	return &Fake{
		nextFD:  3,
		sockets: make(map[int]*Socket),
	}
}

// Socket is one fake descriptor. Inbound bytes are queued with Feed, outbound bytes
// accumulate until Drain.
type Socket struct {
	FD        int
	Family    socket.Family
	Local     netip.AddrPort
	Peer      netip.AddrPort
	Listening bool
	Closed    bool
	Options   map[socket.Option]int

	// ReadLimit and WriteLimit cap the bytes moved per call; zero means unlimited.
	ReadLimit    int
	WriteLimit   int
	WriteBlocked bool
	ReadErr      error
	WriteErr     error

	inbound  []byte
	eof      bool
	outbound []byte
}

func (s *Socket) Feed(data []byte) {
	s.inbound = append(s.inbound, data...)
}

// Shutdown makes reads return end of stream once the queued bytes are consumed.
func (s *Socket) Shutdown() {
	s.eof = true
}

func (s *Socket) Written() []byte {
	return s.outbound
}

func (s *Socket) Drain() []byte {
	data := s.outbound
	s.outbound = nil
	return data
}

func (f *Fake) Socket(fd int) *Socket {
	return f.sockets[fd]
}

// Dial queues an incoming connection for the next Accept.
func (f *Fake) Dial(peer netip.AddrPort) *Socket {
	conn := &Socket{
		FD:      -1,
		Family:  socket.FamilyOf(peer.Addr()),
		Peer:    peer,
		Options: make(map[socket.Option]int),
	}
	f.backlog = append(f.backlog, conn)
	return conn
}

func (f *Fake) Open(family socket.Family) (int, error) {
	if f.OpenErr != nil {
		return -1, f.OpenErr
	}
	return f.add(&Socket{
		Family:  family,
		Options: make(map[socket.Option]int),
	}), nil
}

// Descriptors returns the descriptors that are not closed, in ascending order.
func (f *Fake) Descriptors() []int {
	var descriptors []int
	for fd, conn := range f.sockets {
		if !conn.Closed {
			descriptors = append(descriptors, fd)
		}
	}
	sort.Ints(descriptors)
	return descriptors
}

func (f *Fake) Bind(fd int, address netip.AddrPort) error {
	conn, err := f.lookup(fd)
	if err != nil {
		return err
	}
	if f.BindErr != nil {
		return f.BindErr
	}
	if address.Port() == 0 {
		address = netip.AddrPortFrom(address.Addr(), uint16(40000+fd))
	}
	conn.Local = address
	return nil
}

func (f *Fake) Listen(fd int, backlog int) error {
	conn, err := f.lookup(fd)
	if err != nil {
		return err
	}
	if f.ListenErr != nil {
		return f.ListenErr
	}
	conn.Listening = true
	return nil
}

func (f *Fake) Connect(fd int, address netip.AddrPort) error {
	conn, err := f.lookup(fd)
	if err != nil {
		return err
	}
	conn.Peer = address
	return f.ConnectErr
}

func (f *Fake) Probe(fd int, address netip.AddrPort) error {
	_, err := f.lookup(fd)
	if err != nil {
		return err
	}
	return f.ProbeErr
}

func (f *Fake) Accept(fd int) (int, netip.AddrPort, error) {
	conn, err := f.lookup(fd)
	if err != nil {
		return -1, netip.AddrPort{}, err
	}
	if !conn.Listening {
		return -1, netip.AddrPort{}, syscall.EINVAL
	}
	if f.AcceptErr != nil {
		return -1, netip.AddrPort{}, f.AcceptErr
	}
	if len(f.backlog) == 0 {
		return -1, netip.AddrPort{}, syscall.EAGAIN
	}
	accepted := f.backlog[0]
	f.backlog = f.backlog[1:]
	accepted.Local = conn.Local
	return f.add(accepted), accepted.Peer, nil
}

func (f *Fake) Read(fd int, p []byte) (int, error) {
	conn, err := f.lookup(fd)
	if err != nil {
		return 0, err
	}
	if conn.ReadErr != nil {
		return 0, conn.ReadErr
	}
	if len(conn.inbound) == 0 {
		if conn.eof {
			return 0, nil
		}
		return 0, syscall.EAGAIN
	}
	size := len(p)
	if conn.ReadLimit > 0 && size > conn.ReadLimit {
		size = conn.ReadLimit
	}
	n := copy(p[:size], conn.inbound)
	conn.inbound = conn.inbound[n:]
	return n, nil
}

func (f *Fake) Write(fd int, p []byte) (int, error) {
	conn, err := f.lookup(fd)
	if err != nil {
		return 0, err
	}
	if conn.WriteErr != nil {
		return 0, conn.WriteErr
	}
	if conn.WriteBlocked {
		return 0, syscall.EAGAIN
	}
	n := len(p)
	if conn.WriteLimit > 0 && n > conn.WriteLimit {
		n = conn.WriteLimit
	}
	conn.outbound = append(conn.outbound, p[:n]...)
	return n, nil
}

func (f *Fake) Close(fd int) error {
	conn, err := f.lookup(fd)
	if err != nil {
		return err
	}
	conn.Closed = true
	return f.CloseErr
}

func (f *Fake) SetOption(fd int, option socket.Option, value int) error {
	conn, err := f.lookup(fd)
	if err != nil {
		return err
	}
	conn.Options[option] = value
	return nil
}

func (f *Fake) LocalPort(fd int) (uint16, error) {
	conn, err := f.lookup(fd)
	if err != nil {
		return 0, err
	}
	return conn.Local.Port(), nil
}

func (f *Fake) PeerAddress(fd int) (netip.AddrPort, error) {
	conn, err := f.lookup(fd)
	if err != nil {
		return netip.AddrPort{}, err
	}
	if !conn.Peer.IsValid() {
		return netip.AddrPort{}, syscall.ENOTCONN
	}
	return conn.Peer, nil
}

func (f *Fake) add(conn *Socket) int {
	conn.FD = f.nextFD
	f.nextFD++
	f.sockets[conn.FD] = conn
	return conn.FD
}

func (f *Fake) lookup(fd int) (*Socket, error) {
	conn, loaded := f.sockets[fd]
	if !loaded || conn.Closed {
		return nil, syscall.EBADF
	}
	return conn, nil
}
