package buf

import "sync"

const (
	BufferSize = 64 * 1024
	ChunkSize  = 16 * 1024
)

var pool = sync.Pool{
	New: func() any {
		buffer := make([]byte, ChunkSize)
		return &buffer
	},
}

// GetChunk returns a ChunkSize scratch slice for socket reads.
func GetChunk() []byte {
	return *pool.Get().(*[]byte)
}

func PutChunk(chunk []byte) {
	if cap(chunk) != ChunkSize {
		return
	}
	chunk = chunk[:ChunkSize]
	pool.Put(&chunk)
}

// Make rounds size up to an allocation class.
func Make(size int) []byte {
	var buffer []byte
	if size <= 64 {
		buffer = make([]byte, 64)
	} else if size <= 256 {
		buffer = make([]byte, 256)
	} else if size <= 1024 {
		buffer = make([]byte, 1024)
	} else if size <= 4*1024 {
		buffer = make([]byte, 4*1024)
	} else if size <= 16*1024 {
		buffer = make([]byte, 16*1024)
	} else if size <= BufferSize {
		buffer = make([]byte, BufferSize)
	} else {
		return make([]byte, size)
	}
	return buffer[:size]
}
