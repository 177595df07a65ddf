package stream

import (
	"encoding/binary"
	"math"
)

const (
	FrameHeaderSize     = 4
	DefaultMaxFrameSize = 16 * 1024 * 1024
	// FrameSizeLimit is the largest payload the length prefix can declare that
	// also fits an int.
	FrameSizeLimit = min(math.MaxUint32, math.MaxInt)
)

// AppendFrame appends the length prefix and payload to dst.
func AppendFrame(dst []byte, payload []byte) []byte {
	dst = binary.BigEndian.AppendUint32(dst, uint32(len(payload)))
	return append(dst, payload...)
}

// PeekFrame returns the declared payload size of the frame at the head of data.
// ok is false while the header is incomplete. The size is negative when it does not
// fit an int.
func PeekFrame(data []byte) (size int, ok bool) {
	if len(data) < FrameHeaderSize {
		return 0, false
	}
	return int(binary.BigEndian.Uint32(data[:FrameHeaderSize])), true
}

func putHeader(header []byte, size int) {
	binary.BigEndian.PutUint32(header, uint32(size))
}
