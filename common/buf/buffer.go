package buf

import (
	"fmt"
	"io"
)

// Buffer is a byte queue: Write appends to the back, Advance consumes from the front.
// Storage grows geometrically and consumed space is reclaimed by compaction, so the
// amortized cost of both ends is constant.
type Buffer struct {
	data  []byte
	start int
	end   int
}

func New() *Buffer {
	return new(Buffer)
}

func NewSize(size int) *Buffer {
	return &Buffer{data: Make(size)}
}

func (b *Buffer) Len() int {
	return b.end - b.start
}

func (b *Buffer) Cap() int {
	return len(b.data)
}

func (b *Buffer) IsEmpty() bool {
	return b.end == b.start
}

func (b *Buffer) Bytes() []byte {
	return b.data[b.start:b.end]
}

func (b *Buffer) To(n int) []byte {
	return b.data[b.start : b.start+n]
}

func (b *Buffer) From(n int) []byte {
	return b.data[b.start+n : b.end]
}

func (b *Buffer) Range(start, end int) []byte {
	return b.data[b.start+start : b.start+end]
}

// Advance drops n bytes from the front.
func (b *Buffer) Advance(n int) {
	if n > b.Len() {
		panic(fmt.Sprint("buffer underflow: length ", b.Len(), ", advance ", n))
	}
	b.start += n
	if b.start == b.end {
		b.start = 0
		b.end = 0
	}
}

// Extend reserves n bytes at the back and returns them for the caller to fill.
func (b *Buffer) Extend(n int) []byte {
	b.grow(n)
	ext := b.data[b.end : b.end+n]
	b.end += n
	return ext
}

func (b *Buffer) Write(data []byte) (n int, err error) {
	if len(data) == 0 {
		return
	}
	n = copy(b.Extend(len(data)), data)
	return
}

func (b *Buffer) WriteString(s string) (n int, err error) {
	if len(s) == 0 {
		return
	}
	n = copy(b.Extend(len(s)), s)
	return
}

func (b *Buffer) WriteByte(d byte) error {
	b.Extend(1)[0] = d
	return nil
}

// Read copies and consumes up to len(data) bytes from the front.
func (b *Buffer) Read(data []byte) (n int, err error) {
	if b.IsEmpty() {
		if len(data) == 0 {
			return 0, nil
		}
		return 0, io.EOF
	}
	n = copy(data, b.Bytes())
	b.Advance(n)
	return
}

func (b *Buffer) Reset() {
	b.start = 0
	b.end = 0
}

// Release resets the buffer and drops its storage.
func (b *Buffer) Release() {
	*b = Buffer{}
}

func (b *Buffer) grow(n int) {
	if b.end+n <= len(b.data) {
		return
	}
	length := b.Len()
	if length+n <= len(b.data)/2 {
		copy(b.data, b.data[b.start:b.end])
	} else {
		size := 2 * len(b.data)
		if size < length+n {
			size = length + n
		}
		data := Make(size)
		copy(data, b.data[b.start:b.end])
		b.data = data[:cap(data)]
	}
	b.start = 0
	b.end = length
}
