//go:build unix && !linux

package socket

import (
	"net"
	"syscall"

	"golang.org/x/sys/unix"
)

func openStream(domain int) (int, error) {
	syscall.ForkLock.RLock()
	fd, err := unix.Socket(domain, unix.SOCK_STREAM, unix.IPPROTO_TCP)
	if err == nil {
		unix.CloseOnExec(fd)
	}
	syscall.ForkLock.RUnlock()
	if err != nil {
		return -1, err
	}
	err = unix.SetNonblock(fd, true)
	if err != nil {
		unix.Close(fd)
		return -1, err
	}
	return fd, nil
}

func acceptStream(fd int) (int, unix.Sockaddr, error) {
	syscall.ForkLock.RLock()
	conn, sa, err := unix.Accept(fd)
	if err == nil {
		unix.CloseOnExec(conn)
	}
	syscall.ForkLock.RUnlock()
	if err != nil {
		return -1, nil, err
	}
	err = unix.SetNonblock(conn, true)
	if err != nil {
		unix.Close(conn)
		return -1, nil, err
	}
	return conn, sa, nil
}

func interfaceIndex(zone string) (int, error) {
	iface, err := net.InterfaceByName(zone)
	if err != nil {
		return 0, err
	}
	return iface.Index, nil
}
