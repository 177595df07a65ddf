package config

import (
	"net/netip"
	"os"
	"path/filepath"
	"syscall"
	"testing"
	"time"

	"github.com/sagernet/netstream/stream"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	file := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(file, []byte(content), 0o644))
	return file
}

func TestConfig(t *testing.T) {
	require := require.New(t)

	custom, err := Initialize("./testdata/config.example.toml")
	require.Nil(err)

	address, err := custom.ListenAddress()
	require.Nil(err)
	require.Equal(netip.MustParseAddr("127.0.0.1"), address)
	require.Equal(7301, custom.Host.Port)
	require.Equal(30*time.Second, custom.IdleTimeout())
	require.Equal(500*time.Millisecond, custom.TimerPeriod())
	require.True(custom.Host.NoDelay)
	require.True(custom.Host.KeepAlive)
	require.Equal(stream.DefaultMaxFrameSize, custom.Host.MaxFrameSize)
	require.Equal("debug", custom.Log.Level)
	require.Equal("127.0.0.1:9300", custom.Metrics.Listen)

	classifier := custom.Classifier()
	require.True(classifier.IsPending(syscall.Errno(115)))
	require.True(classifier.IsPending(syscall.Errno(114)))
	require.False(classifier.IsPending(syscall.Errno(11)))

	require.Equal(45, custom.Host.KeepAlivePeriod)
	options, err := custom.HostOptions()
	require.Nil(err)
	if custom.Control() != nil {
		require.Len(options, 7)
	} else {
		require.Len(options, 6)
	}
}

func TestConfigDefaults(t *testing.T) {
	t.Parallel()
	custom, err := Initialize(writeConfig(t, ""))
	require.NoError(t, err)
	require.Equal(t, Default(), custom)
	require.Equal(t, DefaultPort, custom.Host.Port)
	require.Equal(t, 70*time.Second, custom.IdleTimeout())
	require.Zero(t, custom.TimerPeriod())
	require.Equal(t, DefaultLogLevel, custom.Log.Level)
	address, err := custom.ListenAddress()
	require.NoError(t, err)
	require.Equal(t, netip.IPv4Unspecified(), address)
	require.Nil(t, custom.Control())

	custom, err = Initialize(writeConfig(t, "[host]\nidle-timeout = -1\n"))
	require.NoError(t, err)
	require.Zero(t, custom.IdleTimeout())
	require.Equal(t, DefaultPort, custom.Host.Port)

	custom, err = Initialize(writeConfig(t, "[host]\nport = 0\n"))
	require.NoError(t, err)
	require.Zero(t, custom.Host.Port)
}

func TestConfigInvalid(t *testing.T) {
	t.Parallel()
	_, err := Initialize(filepath.Join(t.TempDir(), "missing.toml"))
	require.ErrorIs(t, err, os.ErrNotExist)

	for _, content := range []string{
		"[host\n",
		"[host]\nport = 70000\n",
		"[host]\naddress = \"localhost\"\n",
		"[host]\ntimer-period = -5\n",
		"[host]\nmax-frame-size = -1\n",
		"[host]\nmax-frame-size = 8589934592\n",
		"[host]\nkeep-alive-period = -1\n",
	} {
		_, err = Initialize(writeConfig(t, content))
		require.Error(t, err, content)
	}
}
