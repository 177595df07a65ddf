//go:build unix

package control

import (
	"time"

	E "github.com/sagernet/netstream/common/exceptions"

	"golang.org/x/sys/unix"
)

func ReuseAddr() Func {
	return func(fd int) error {
		return wrap(unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEADDR, 1), "set SO_REUSEADDR")
	}
}

func NoDelay(enabled bool) Func {
	return func(fd int) error {
		return wrap(unix.SetsockoptInt(fd, unix.IPPROTO_TCP, unix.TCP_NODELAY, boolInt(enabled)), "set TCP_NODELAY")
	}
}

func KeepAlive(enabled bool) Func {
	return func(fd int) error {
		return wrap(unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_KEEPALIVE, boolInt(enabled)), "set SO_KEEPALIVE")
	}
}

func wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return E.Cause(err, message)
}

func boolInt(value bool) int {
	if value {
		return 1
	}
	return 0
}

func roundSeconds(d time.Duration) int {
	return int((d + time.Second - 1) / time.Second)
}
