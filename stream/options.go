package stream

import (
	"github.com/sagernet/netstream/transport/socket"

	"github.com/benbjohnson/clock"
	"github.com/sirupsen/logrus"
)

type Option func(*Stream)

func WithTransport(transport socket.Transport) Option {
	return func(s *Stream) {
		s.transport = transport
	}
}

func WithClassifier(classifier *socket.Classifier) Option {
	return func(s *Stream) {
		s.classifier = classifier
	}
}

func WithClock(clock clock.Clock) Option {
	return func(s *Stream) {
		s.clock = clock
	}
}

func WithLogger(logger logrus.FieldLogger) Option {
	return func(s *Stream) {
		s.logger = logger
	}
}

// WithMaxFrameSize bounds the payload accepted by Send and Recv. Sizes above
// FrameSizeLimit are clamped.
func WithMaxFrameSize(size int) Option {
	return func(s *Stream) {
		if size > FrameSizeLimit {
			size = FrameSizeLimit
		}
		if size > 0 {
			s.maxFrameSize = size
		}
	}
}

// WithChunkSize sets the size of each read issued while draining the socket.
func WithChunkSize(size int) Option {
	return func(s *Stream) {
		if size > 0 {
			s.chunkSize = size
		}
	}
}
