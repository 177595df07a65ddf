//go:build unix

package host_test

import (
	"net/netip"
	"testing"
	"time"

	"github.com/sagernet/netstream/host"
	"github.com/sagernet/netstream/stream"

	"github.com/stretchr/testify/require"
)

func loopbackHost(t *testing.T) *host.Host {
	h := host.NewHost(host.WithListenAddress(netip.MustParseAddr("127.0.0.1")), host.WithNoDelay(true))
	require.NoError(t, h.Startup(0))
	t.Cleanup(func() {
		h.Shutdown()
	})
	require.NotZero(t, h.Port())
	return h
}

func nextEvent(t *testing.T, h *host.Host, peers ...*stream.Stream) host.Event {
	deadline := time.Now().Add(5 * time.Second)
	for {
		if event, ok := h.Read(); ok {
			return event
		}
		for _, peer := range peers {
			peer.Process()
		}
		require.NoError(t, h.Wait(10*time.Millisecond))
		h.Process()
		require.False(t, time.Now().After(deadline), "no event")
	}
}

func TestHostLoopback(t *testing.T) {
	t.Parallel()
	h := loopbackHost(t)

	client := stream.New()
	defer client.Close()
	require.NoError(t, client.Connect("127.0.0.1", h.Port()))
	require.NoError(t, client.Send([]byte("Hello")))

	event := nextEvent(t, h, client)
	require.Equal(t, host.EventNew, event.Kind)
	require.Equal(t, host.Handle(1), event.Handle)
	handle := event.Handle

	event = nextEvent(t, h, client)
	require.Equal(t, host.EventData, event.Kind)
	require.Equal(t, handle, event.Handle)
	require.Equal(t, "Hello", string(event.Payload))

	require.NoError(t, h.Send(handle, []byte("Hi")))
	deadline := time.Now().Add(5 * time.Second)
	var reply []byte
	for reply == nil {
		require.NoError(t, client.Process())
		reply, _ = client.Recv()
		require.False(t, time.Now().After(deadline), "no reply")
		time.Sleep(time.Millisecond)
	}
	require.Equal(t, "Hi", string(reply))

	require.NoError(t, client.Send([]byte("exit")))
	event = nextEvent(t, h, client)
	require.Equal(t, host.EventData, event.Kind)
	require.Equal(t, "exit", string(event.Payload))
	require.NoError(t, h.Close(handle))

	event = nextEvent(t, h, client)
	require.Equal(t, host.EventLeave, event.Kind)
	require.Equal(t, handle, event.Handle)
	for i := 0; i < 10; i++ {
		client.Process()
		h.Process()
		_, ok := h.Read()
		require.False(t, ok)
	}
	require.Zero(t, h.Count())

	deadline = time.Now().Add(5 * time.Second)
	for client.State() != stream.StateClosed {
		client.Process()
		require.False(t, time.Now().After(deadline), "close not observed")
		time.Sleep(time.Millisecond)
	}
}

func TestHostWait(t *testing.T) {
	t.Parallel()
	h := loopbackHost(t)

	start := time.Now()
	require.NoError(t, h.Wait(20*time.Millisecond))
	require.Less(t, time.Since(start), 2*time.Second)

	h.SetTimer(10 * time.Millisecond)
	start = time.Now()
	require.NoError(t, h.Wait(time.Minute))
	require.Less(t, time.Since(start), 5*time.Second)
	require.Equal(t, host.EventTimer, nextEvent(t, h).Kind)

	h.SetTimer(0)
	client := stream.New()
	defer client.Close()
	require.NoError(t, client.Connect("127.0.0.1", h.Port()))
	start = time.Now()
	for h.Count() == 0 {
		client.Process()
		require.NoError(t, h.Wait(time.Minute))
		h.Process()
		require.Less(t, time.Since(start), 5*time.Second)
	}
}
