//go:build unix

package socket

import (
	"net/netip"

	"github.com/sagernet/netstream/common/control"
	E "github.com/sagernet/netstream/common/exceptions"

	"golang.org/x/sys/unix"
)

var _ Transport = (*System)(nil)

// System implements Transport with raw non-blocking descriptors.
type System struct {
	// Control, when set, runs on every descriptor opened or accepted.
	Control control.Func
}

func (s *System) Open(family Family) (int, error) {
	domain := unix.AF_INET
	if family == FamilyIPv6 {
		domain = unix.AF_INET6
	}
	fd, err := openStream(domain)
	if err != nil {
		return -1, err
	}
	if s.Control != nil {
		err = s.Control(fd)
		if err != nil {
			unix.Close(fd)
			return -1, err
		}
	}
	return fd, nil
}

func (s *System) Bind(fd int, address netip.AddrPort) error {
	return unix.Bind(fd, toSockaddr(address))
}

func (s *System) Listen(fd int, backlog int) error {
	return unix.Listen(fd, backlog)
}

func (s *System) Connect(fd int, address netip.AddrPort) error {
	return unix.Connect(fd, toSockaddr(address))
}

// Probe reports the state of an in-progress connect. A pending socket error is
// returned as is; otherwise connect is issued again so the kernel answers with
// EALREADY while the handshake runs and EISCONN once it completed.
func (s *System) Probe(fd int, address netip.AddrPort) error {
	soError, err := unix.GetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_ERROR)
	if err != nil {
		return err
	}
	if soError != 0 {
		return unix.Errno(soError)
	}
	return unix.Connect(fd, toSockaddr(address))
}

func (s *System) Accept(fd int) (int, netip.AddrPort, error) {
	conn, sa, err := acceptStream(fd)
	if err != nil {
		return -1, netip.AddrPort{}, err
	}
	if s.Control != nil {
		err = s.Control(conn)
		if err != nil {
			unix.Close(conn)
			return -1, netip.AddrPort{}, err
		}
	}
	return conn, fromSockaddr(sa), nil
}

func (s *System) Read(fd int, p []byte) (int, error) {
	n, err := unix.Read(fd, p)
	if err != nil {
		return 0, err
	}
	return n, nil
}

func (s *System) Write(fd int, p []byte) (int, error) {
	n, err := unix.Write(fd, p)
	if err != nil {
		return 0, err
	}
	return n, nil
}

func (s *System) Close(fd int) error {
	return unix.Close(fd)
}

func (s *System) SetOption(fd int, option Option, value int) error {
	switch option {
	case OptionKeepAlive:
		return control.KeepAlive(value != 0)(fd)
	case OptionNoDelay:
		return control.NoDelay(value != 0)(fd)
	case OptionReuseAddr:
		if value == 0 {
			return unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEADDR, 0)
		}
		return control.ReuseAddr()(fd)
	default:
		return E.New("unknown socket option: ", option)
	}
}

func (s *System) LocalPort(fd int) (uint16, error) {
	sa, err := unix.Getsockname(fd)
	if err != nil {
		return 0, err
	}
	return fromSockaddr(sa).Port(), nil
}

func (s *System) PeerAddress(fd int) (netip.AddrPort, error) {
	sa, err := unix.Getpeername(fd)
	if err != nil {
		return netip.AddrPort{}, err
	}
	return fromSockaddr(sa), nil
}

func toSockaddr(address netip.AddrPort) unix.Sockaddr {
	addr := address.Addr()
	if addr.Is4() {
		return &unix.SockaddrInet4{Port: int(address.Port()), Addr: addr.As4()}
	}
	sa := &unix.SockaddrInet6{Port: int(address.Port()), Addr: addr.As16()}
	if zone := addr.Zone(); zone != "" {
		if index, err := interfaceIndex(zone); err == nil {
			sa.ZoneId = uint32(index)
		}
	}
	return sa
}

func fromSockaddr(sa unix.Sockaddr) netip.AddrPort {
	switch addr := sa.(type) {
	case *unix.SockaddrInet4:
		return netip.AddrPortFrom(netip.AddrFrom4(addr.Addr), uint16(addr.Port))
	case *unix.SockaddrInet6:
		return netip.AddrPortFrom(netip.AddrFrom16(addr.Addr).Unmap(), uint16(addr.Port))
	default:
		return netip.AddrPort{}
	}
}
