package socket

import (
	"net"

	"golang.org/x/sys/unix"
)

func openStream(domain int) (int, error) {
	return unix.Socket(domain, unix.SOCK_STREAM|unix.SOCK_NONBLOCK|unix.SOCK_CLOEXEC, unix.IPPROTO_TCP)
}

func acceptStream(fd int) (int, unix.Sockaddr, error) {
	return unix.Accept4(fd, unix.SOCK_NONBLOCK|unix.SOCK_CLOEXEC)
}

func interfaceIndex(zone string) (int, error) {
	iface, err := net.InterfaceByName(zone)
	if err != nil {
		return 0, err
	}
	return iface.Index, nil
}
