//go:build !unix

package socket

import (
	"net/netip"

	"github.com/sagernet/netstream/common/control"
)

var _ Transport = (*System)(nil)

// System is unavailable on this platform; every operation fails with ErrUnsupported.
type System struct {
	Control control.Func
}

func (s *System) Open(family Family) (int, error)                  { return -1, ErrUnsupported }
func (s *System) Bind(fd int, address netip.AddrPort) error        { return ErrUnsupported }
func (s *System) Listen(fd int, backlog int) error                 { return ErrUnsupported }
func (s *System) Connect(fd int, address netip.AddrPort) error     { return ErrUnsupported }
func (s *System) Probe(fd int, address netip.AddrPort) error       { return ErrUnsupported }
func (s *System) Read(fd int, p []byte) (int, error)               { return 0, ErrUnsupported }
func (s *System) Write(fd int, p []byte) (int, error)              { return 0, ErrUnsupported }
func (s *System) Close(fd int) error                               { return ErrUnsupported }
func (s *System) SetOption(fd int, option Option, value int) error { return ErrUnsupported }
func (s *System) LocalPort(fd int) (uint16, error)                 { return 0, ErrUnsupported }
func (s *System) PeerAddress(fd int) (netip.AddrPort, error)       { return netip.AddrPort{}, ErrUnsupported }

func (s *System) Accept(fd int) (int, netip.AddrPort, error) {
	return -1, netip.AddrPort{}, ErrUnsupported
}
