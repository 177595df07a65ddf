package exceptions_test

import (
	"errors"
	"io"
	"syscall"
	"testing"

	E "github.com/sagernet/netstream/common/exceptions"

	"github.com/stretchr/testify/require"
)

func TestCause(t *testing.T) {
	t.Parallel()
	err := E.Cause(syscall.ECONNRESET, "read stream")
	require.Equal(t, "read stream: "+syscall.ECONNRESET.Error(), err.Error())
	require.ErrorIs(t, err, syscall.ECONNRESET)
	require.Equal(t, syscall.ECONNRESET, err.Cause())
}

func TestCause1(t *testing.T) {
	t.Parallel()
	errBind := E.New("bind failed")
	err := E.Cause1(errBind, syscall.EADDRINUSE)
	require.ErrorIs(t, err, errBind)
	require.ErrorIs(t, err, syscall.EADDRINUSE)
	var errno syscall.Errno
	require.True(t, errors.As(err, &errno))
	require.Equal(t, syscall.EADDRINUSE, errno)
	require.Same(t, errBind, E.Cause1(errBind, nil))
}

func TestErrors(t *testing.T) {
	t.Parallel()
	require.NoError(t, E.Errors(nil, nil))
	err := E.Errors(nil, io.EOF)
	require.ErrorIs(t, err, io.EOF)
	require.True(t, E.IsMulti(E.Errors(io.EOF, io.EOF), io.EOF))
	require.False(t, E.IsMulti(E.Errors(io.EOF, io.ErrUnexpectedEOF), io.ErrClosedPipe))
	require.False(t, E.IsMulti(nil, io.EOF))
}
