package socket_test

import (
	"io"
	"syscall"
	"testing"

	E "github.com/sagernet/netstream/common/exceptions"
	"github.com/sagernet/netstream/transport/socket"

	"github.com/stretchr/testify/require"
)

func TestClassifier(t *testing.T) {
	t.Parallel()
	classifier := socket.NewClassifier(
		[]syscall.Errno{1, 2},
		[]syscall.Errno{3},
		[]syscall.Errno{2, 4},
	)
	require.Equal(t, socket.ClassConnected, classifier.ClassifyConnect(nil))
	require.Equal(t, socket.ClassPending, classifier.ClassifyConnect(syscall.Errno(1)))
	require.Equal(t, socket.ClassPending, classifier.ClassifyConnect(syscall.Errno(2)))
	require.Equal(t, socket.ClassConnected, classifier.ClassifyConnect(syscall.Errno(3)))
	require.Equal(t, socket.ClassFatal, classifier.ClassifyConnect(syscall.Errno(4)))
	require.Equal(t, socket.ClassFatal, classifier.ClassifyConnect(io.EOF))

	require.Equal(t, socket.ClassWouldBlock, classifier.ClassifyIO(syscall.Errno(2)))
	require.Equal(t, socket.ClassWouldBlock, classifier.ClassifyIO(E.Cause(syscall.Errno(4), "read")))
	require.Equal(t, socket.ClassFatal, classifier.ClassifyIO(syscall.Errno(1)))
	require.False(t, classifier.IsWouldBlock(nil))
}

func TestClassifierOverride(t *testing.T) {
	t.Parallel()
	base := socket.NewClassifier([]syscall.Errno{1}, []syscall.Errno{2}, []syscall.Errno{3})
	override := base.Override(nil, []syscall.Errno{5}, nil)
	require.True(t, override.IsPending(syscall.Errno(1)))
	require.True(t, override.IsConnected(syscall.Errno(5)))
	require.False(t, override.IsConnected(syscall.Errno(2)))
	require.True(t, override.IsWouldBlock(syscall.Errno(3)))
	require.True(t, base.IsConnected(syscall.Errno(2)))
}

func TestErrnoOf(t *testing.T) {
	t.Parallel()
	errno, loaded := socket.ErrnoOf(E.Cause(syscall.Errno(42), "write"))
	require.True(t, loaded)
	require.Equal(t, syscall.Errno(42), errno)
	_, loaded = socket.ErrnoOf(io.EOF)
	require.False(t, loaded)
	_, loaded = socket.ErrnoOf(nil)
	require.False(t, loaded)
}

func TestOptionString(t *testing.T) {
	t.Parallel()
	require.Equal(t, "nodelay", socket.OptionNoDelay.String())
	require.Equal(t, "option(9)", socket.Option(9).String())
	require.Equal(t, "would-block", socket.ClassWouldBlock.String())
}
