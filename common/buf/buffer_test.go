package buf_test

import (
	"bytes"
	"crypto/rand"
	"io"
	"testing"

	"github.com/sagernet/netstream/common/buf"

	"github.com/stretchr/testify/require"
)

func TestBufferFIFO(t *testing.T) {
	t.Parallel()
	buffer := buf.New()
	require.True(t, buffer.IsEmpty())

	buffer.WriteString("hello ")
	buffer.Write([]byte("world"))
	require.Equal(t, 11, buffer.Len())
	require.Equal(t, []byte("hello"), buffer.To(5))
	require.Equal(t, []byte("world"), buffer.From(6))
	require.Equal(t, []byte("lo w"), buffer.Range(3, 7))

	buffer.Advance(6)
	require.Equal(t, "world", string(buffer.Bytes()))
	buffer.WriteByte('!')
	require.Equal(t, "world!", string(buffer.Bytes()))

	data := make([]byte, 3)
	n, err := buffer.Read(data)
	require.NoError(t, err)
	require.Equal(t, 3, n)
	require.Equal(t, "wor", string(data))
	require.Equal(t, "ld!", string(buffer.Bytes()))

	buffer.Advance(3)
	require.True(t, buffer.IsEmpty())
	_, err = buffer.Read(data)
	require.ErrorIs(t, err, io.EOF)
}

func TestBufferGrowth(t *testing.T) {
	t.Parallel()
	source := make([]byte, 3*buf.BufferSize+17)
	_, err := io.ReadFull(rand.Reader, source)
	require.NoError(t, err)

	buffer := buf.New()
	var consumed []byte
	for offset := 0; offset < len(source); {
		step := 1000
		if offset+step > len(source) {
			step = len(source) - offset
		}
		buffer.Write(source[offset : offset+step])
		offset += step
		if buffer.Len() > 700 {
			consumed = append(consumed, buffer.To(700)...)
			buffer.Advance(700)
		}
	}
	consumed = append(consumed, buffer.Bytes()...)
	require.True(t, bytes.Equal(source, consumed))
}

func TestBufferCompaction(t *testing.T) {
	t.Parallel()
	buffer := buf.NewSize(64)
	buffer.Write(bytes.Repeat([]byte{1}, 60))
	buffer.Advance(50)
	capacity := buffer.Cap()
	buffer.Write(bytes.Repeat([]byte{2}, 20))
	require.Equal(t, capacity, buffer.Cap())
	require.Equal(t, append(bytes.Repeat([]byte{1}, 10), bytes.Repeat([]byte{2}, 20)...), buffer.Bytes())
}

func TestBufferAdvanceUnderflow(t *testing.T) {
	t.Parallel()
	buffer := buf.New()
	buffer.WriteString("ab")
	require.Panics(t, func() {
		buffer.Advance(3)
	})
}

func TestChunkPool(t *testing.T) {
	t.Parallel()
	chunk := buf.GetChunk()
	require.Len(t, chunk, buf.ChunkSize)
	buf.PutChunk(chunk[:10])
	buf.PutChunk(make([]byte, 5))
	require.Len(t, buf.GetChunk(), buf.ChunkSize)
}
