// Package socket is the platform layer beneath stream and host: non-blocking TCP
// descriptors addressed by plain integers, and the errno classification table used
// to tell would-block and in-progress answers apart from real failures.
package socket

import (
	"net"
	"net/netip"
	"strconv"

	E "github.com/sagernet/netstream/common/exceptions"
)

var ErrUnsupported = E.New("socket: unsupported platform")

type Family uint8

const (
	FamilyIPv4 Family = iota
	FamilyIPv6
)

func FamilyOf(addr netip.Addr) Family {
	if addr.Is4() || addr.Is4In6() {
		return FamilyIPv4
	}
	return FamilyIPv6
}

type Option uint8

const (
	OptionKeepAlive Option = iota
	OptionNoDelay
	OptionReuseAddr
)

func (o Option) String() string {
	switch o {
	case OptionKeepAlive:
		return "keepalive"
	case OptionNoDelay:
		return "nodelay"
	case OptionReuseAddr:
		return "reuseaddr"
	default:
		return "option(" + strconv.Itoa(int(o)) + ")"
	}
}

// Transport is the set of non-blocking socket primitives the core is written against.
// Every method reports failure only through its error; counts are zero on failure.
// Read returns (0, nil) at end of stream.
type Transport interface {
	Open(family Family) (int, error)
	Bind(fd int, address netip.AddrPort) error
	Listen(fd int, backlog int) error
	Connect(fd int, address netip.AddrPort) error
	Probe(fd int, address netip.AddrPort) error
	Accept(fd int) (int, netip.AddrPort, error)
	Read(fd int, p []byte) (int, error)
	Write(fd int, p []byte) (int, error)
	Close(fd int) error
	SetOption(fd int, option Option, value int) error
	LocalPort(fd int) (uint16, error)
	PeerAddress(fd int) (netip.AddrPort, error)
}

// Resolve turns a host name or literal address into a connectable address.
func Resolve(address string, port uint16) (netip.AddrPort, error) {
	if addr, err := netip.ParseAddr(address); err == nil {
		return netip.AddrPortFrom(addr.Unmap(), port), nil
	}
	tcpAddr, err := net.ResolveTCPAddr("tcp", net.JoinHostPort(address, strconv.Itoa(int(port))))
	if err != nil {
		return netip.AddrPort{}, E.Cause(err, "resolve ", address)
	}
	addrPort := tcpAddr.AddrPort()
	return netip.AddrPortFrom(addrPort.Addr().Unmap(), addrPort.Port()), nil
}
