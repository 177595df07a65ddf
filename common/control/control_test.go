//go:build unix

package control_test

import (
	"testing"
	"time"

	"github.com/sagernet/netstream/common/control"

	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func newSocket(t *testing.T) int {
	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_STREAM, 0)
	require.NoError(t, err)
	t.Cleanup(func() {
		unix.Close(fd)
	})
	return fd
}

func TestSocketOptions(t *testing.T) {
	t.Parallel()
	fd := newSocket(t)

	require.NoError(t, control.Apply(fd, control.ReuseAddr(), control.NoDelay(true), control.KeepAlive(true)))
	value, err := unix.GetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEADDR)
	require.NoError(t, err)
	require.NotZero(t, value)
	value, err = unix.GetsockoptInt(fd, unix.IPPROTO_TCP, unix.TCP_NODELAY)
	require.NoError(t, err)
	require.NotZero(t, value)
	value, err = unix.GetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_KEEPALIVE)
	require.NoError(t, err)
	require.NotZero(t, value)

	require.NoError(t, control.NoDelay(false)(fd))
	value, err = unix.GetsockoptInt(fd, unix.IPPROTO_TCP, unix.TCP_NODELAY)
	require.NoError(t, err)
	require.Zero(t, value)

	require.NoError(t, control.Apply(fd, control.SetKeepAlivePeriod(30*time.Second, 1500*time.Millisecond)))
}

func TestAppend(t *testing.T) {
	t.Parallel()
	var calls []string
	first := func(fd int) error {
		calls = append(calls, "first")
		return nil
	}
	second := func(fd int) error {
		calls = append(calls, "second")
		return nil
	}
	require.Nil(t, control.Append(nil, nil))
	require.NoError(t, control.Append(first, nil)(0))
	require.NoError(t, control.Append(nil, second)(0))
	require.NoError(t, control.Append(first, second)(0))
	require.Equal(t, []string{"first", "second", "first", "second"}, calls)

	fd := newSocket(t)
	require.Error(t, control.Apply(-1, control.NoDelay(true)))
	require.NoError(t, control.Apply(fd, nil))
}
