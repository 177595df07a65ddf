//go:build !unix

package control

import (
	"time"

	E "github.com/sagernet/netstream/common/exceptions"
)

var errUnsupported = E.New("socket options: unsupported platform")

func ReuseAddr() Func {
	return func(fd int) error { return errUnsupported }
}

func NoDelay(enabled bool) Func {
	return func(fd int) error { return errUnsupported }
}

func KeepAlive(enabled bool) Func {
	return func(fd int) error { return errUnsupported }
}

func SetKeepAlivePeriod(idle time.Duration, interval time.Duration) Func {
	return nil
}
