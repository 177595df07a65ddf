// Package metrics exports host activity as prometheus collectors. A nil *Host is
// valid and records nothing.
package metrics

import (
	E "github.com/sagernet/netstream/common/exceptions"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	ReasonPeerClosed = "peer_closed"
	ReasonError      = "error"
	ReasonTimeout    = "timeout"
	ReasonClosed     = "closed"
)

type Host struct {
	accepted    prometheus.Counter
	active      prometheus.Gauge
	disconnects *prometheus.CounterVec
	framesIn    prometheus.Counter
	framesOut   prometheus.Counter
	bytesIn     prometheus.Counter
	bytesOut    prometheus.Counter
	timers      prometheus.Counter
}

func NewHost(namespace string, registerer prometheus.Registerer) (*Host, error) {
	h := &Host{
		accepted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "host",
			Name:      "connections_accepted_total",
			Help:      "Connections accepted by the listener.",
		}),
		active: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "host",
			Name:      "connections_active",
			Help:      "Connections currently registered.",
		}),
		disconnects: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "host",
			Name:      "disconnects_total",
			Help:      "Connections reaped, by reason.",
		}, []string{"reason"}),
		framesIn: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "host",
			Name:      "frames_received_total",
			Help:      "Frames decoded from peers.",
		}),
		framesOut: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "host",
			Name:      "frames_sent_total",
			Help:      "Frames queued to peers.",
		}),
		bytesIn: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "host",
			Name:      "payload_received_bytes_total",
			Help:      "Payload bytes decoded from peers.",
		}),
		bytesOut: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "host",
			Name:      "payload_sent_bytes_total",
			Help:      "Payload bytes queued to peers.",
		}),
		timers: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "host",
			Name:      "timer_events_total",
			Help:      "Timer events emitted.",
		}),
	}
	if registerer != nil {
		for _, collector := range h.collectors() {
			if err := registerer.Register(collector); err != nil {
				return nil, E.Cause(err, "register host metrics")
			}
		}
	}
	return h, nil
}

func (h *Host) collectors() []prometheus.Collector {
	return []prometheus.Collector{h.accepted, h.active, h.disconnects, h.framesIn, h.framesOut, h.bytesIn, h.bytesOut, h.timers}
}

func (h *Host) Accepted() {
	if h == nil {
		return
	}
	h.accepted.Inc()
	h.active.Inc()
}

func (h *Host) Disconnected(reason string) {
	if h == nil {
		return
	}
	h.active.Dec()
	h.disconnects.WithLabelValues(reason).Inc()
}

// Reset zeroes the active gauge after the host dropped every connection at once.
func (h *Host) Reset() {
	if h == nil {
		return
	}
	h.active.Set(0)
}

func (h *Host) Received(size int) {
	if h == nil {
		return
	}
	h.framesIn.Inc()
	h.bytesIn.Add(float64(size))
}

func (h *Host) Sent(size int) {
	if h == nil {
		return
	}
	h.framesOut.Inc()
	h.bytesOut.Add(float64(size))
}

func (h *Host) Timer() {
	if h == nil {
		return
	}
	h.timers.Inc()
}
