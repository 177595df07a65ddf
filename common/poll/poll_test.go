//go:build unix

package poll_test

import (
	"testing"
	"time"

	"github.com/sagernet/netstream/common/poll"

	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestPoller(t *testing.T) {
	t.Parallel()
	poller, err := poll.New()
	require.NoError(t, err)
	defer poller.Close()

	var fds [2]int
	require.NoError(t, unix.Pipe(fds[:]))
	defer unix.Close(fds[0])
	defer unix.Close(fds[1])

	require.NoError(t, poller.Add(fds[0]))
	require.NoError(t, poller.Add(fds[0]))
	require.Equal(t, 1, poller.Len())

	start := time.Now()
	n, err := poller.Wait(20 * time.Millisecond)
	require.NoError(t, err)
	require.Zero(t, n)
	require.GreaterOrEqual(t, time.Since(start), 15*time.Millisecond)

	_, err = unix.Write(fds[1], []byte{1})
	require.NoError(t, err)
	n, err = poller.Wait(time.Second)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	n, err = poller.Wait(0)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	poller.Remove(fds[0])
	require.Zero(t, poller.Len())

	require.NoError(t, poller.Close())
	require.NoError(t, poller.Close())
	_, err = poller.Wait(0)
	require.ErrorIs(t, err, poll.ErrClosed)
	require.ErrorIs(t, poller.Add(fds[0]), poll.ErrClosed)
}
