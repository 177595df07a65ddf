package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestHostMetrics(t *testing.T) {
	t.Parallel()
	registry := prometheus.NewRegistry()
	h, err := NewHost("netstream", registry)
	require.NoError(t, err)

	h.Accepted()
	h.Accepted()
	h.Received(5)
	h.Sent(2)
	h.Sent(3)
	h.Timer()
	h.Disconnected(ReasonTimeout)

	require.Equal(t, float64(2), testutil.ToFloat64(h.accepted))
	require.Equal(t, float64(1), testutil.ToFloat64(h.active))
	require.Equal(t, float64(1), testutil.ToFloat64(h.disconnects.WithLabelValues(ReasonTimeout)))
	require.Equal(t, float64(1), testutil.ToFloat64(h.framesIn))
	require.Equal(t, float64(5), testutil.ToFloat64(h.bytesIn))
	require.Equal(t, float64(2), testutil.ToFloat64(h.framesOut))
	require.Equal(t, float64(5), testutil.ToFloat64(h.bytesOut))
	require.Equal(t, float64(1), testutil.ToFloat64(h.timers))

	h.Reset()
	require.Zero(t, testutil.ToFloat64(h.active))

	count, err := testutil.GatherAndCount(registry, "netstream_host_connections_accepted_total")
	require.NoError(t, err)
	require.Equal(t, 1, count)

	_, err = NewHost("netstream", registry)
	require.Error(t, err)
}

func TestNilHostMetrics(t *testing.T) {
	t.Parallel()
	var h *Host
	h.Accepted()
	h.Disconnected(ReasonClosed)
	h.Received(1)
	h.Sent(1)
	h.Timer()
	h.Reset()
}
