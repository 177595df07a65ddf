package log

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestTaggedHook(t *testing.T) {
	entry := NewLogger("host").WithField("handle", 1)
	entry.Message = "host: connection accepted"
	entry.Level = logrus.InfoLevel
	require.NoError(t, new(TaggedHook).Fire(entry))
	require.Equal(t, "[host]: connection accepted", entry.Message)
	require.NotContains(t, entry.Data, "tag")
	require.Equal(t, 1, entry.Data["handle"])
}

func TestSetLevel(t *testing.T) {
	defer logrus.SetLevel(logrus.GetLevel())
	require.NoError(t, SetLevel("debug"))
	require.Equal(t, logrus.DebugLevel, logrus.GetLevel())
	require.NoError(t, SetLevel(""))
	require.Equal(t, logrus.DebugLevel, logrus.GetLevel())
	require.Error(t, SetLevel("loud"))
}
