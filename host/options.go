package host

import (
	"net/netip"
	"time"

	"github.com/sagernet/netstream/common/metrics"
	"github.com/sagernet/netstream/transport/socket"

	"github.com/benbjohnson/clock"
	"github.com/sirupsen/logrus"
)

const (
	DefaultIdleTimeout = 70 * time.Second
	ListenBacklog      = 1024
)

type Option func(*Host)

func WithTransport(transport socket.Transport) Option {
	return func(h *Host) {
		h.transport = transport
	}
}

func WithClassifier(classifier *socket.Classifier) Option {
	return func(h *Host) {
		h.classifier = classifier
	}
}

func WithClock(clock clock.Clock) Option {
	return func(h *Host) {
		h.clock = clock
	}
}

func WithLogger(logger logrus.FieldLogger) Option {
	return func(h *Host) {
		h.logger = logger
	}
}

// WithIdleTimeout sets how long a connection may go without receiving bytes before
// it is evicted. Zero disables eviction.
func WithIdleTimeout(timeout time.Duration) Option {
	return func(h *Host) {
		h.idleTimeout = timeout
	}
}

// WithListenAddress sets the local address Startup binds to. The default is the
// IPv4 wildcard.
func WithListenAddress(address netip.Addr) Option {
	return func(h *Host) {
		h.address = address
	}
}

func WithNoDelay(enabled bool) Option {
	return func(h *Host) {
		h.noDelay = enabled
	}
}

func WithKeepAlive(enabled bool) Option {
	return func(h *Host) {
		h.keepAlive = enabled
	}
}

func WithMaxFrameSize(size int) Option {
	return func(h *Host) {
		h.maxFrameSize = size
	}
}

func WithMetrics(metrics *metrics.Host) Option {
	return func(h *Host) {
		h.metrics = metrics
	}
}
