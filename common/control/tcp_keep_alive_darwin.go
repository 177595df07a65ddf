package control

import (
	"time"

	E "github.com/sagernet/netstream/common/exceptions"

	"golang.org/x/sys/unix"
)

func SetKeepAlivePeriod(idle time.Duration, interval time.Duration) Func {
	return func(fd int) error {
		return wrap(E.Errors(
			unix.SetsockoptInt(fd, unix.IPPROTO_TCP, unix.TCP_KEEPALIVE, roundSeconds(idle)),
			unix.SetsockoptInt(fd, unix.IPPROTO_TCP, unix.TCP_KEEPINTVL, roundSeconds(interval)),
		), "set keep-alive period")
	}
}
