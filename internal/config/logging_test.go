package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	t.Parallel()

	cases := map[string]LogLevel{
		"off":     LogLevelOff,
		"none":    LogLevelOff,
		"ERROR":   LogLevelError,
		" info ":  LogLevelInfo,
		"debug":   LogLevelDebug,
		"unknown": LogLevelError,
		"":        LogLevelError,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseLogLevel(in), in)
	}
}

func TestLogger_WritesLeveledLines(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "warden.log")
	logger, err := NewLogger(LogLevelDebug, path)
	require.NoError(t, err)

	logger.Error("connect failed: %s", "timeout")
	logger.Info("wallet %s created", "wlt_abc")
	logger.Debug("rpc call %s", "eth_blockNumber")
	require.NoError(t, logger.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, "[ERROR] connect failed: timeout")
	assert.Contains(t, out, "[INFO] wallet wlt_abc created")
	assert.Contains(t, out, "[DEBUG] rpc call eth_blockNumber")
}

func TestLogger_LevelFiltering(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "warden.log")
	logger, err := NewLogger(LogLevelError, path)
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("also hidden")
	logger.Error("visible")
	require.NoError(t, logger.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hidden")
	assert.Contains(t, string(data), "visible")
}

func TestNullLogger(t *testing.T) {
	t.Parallel()

	logger := NullLogger()
	logger.Error("nothing happens")
	assert.Equal(t, LogLevelOff, logger.Level())
	assert.NoError(t, logger.Close())
}

func TestLogger_Writer(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "warden.log")
	logger, err := NewLogger(LogLevelDebug, path)
	require.NoError(t, err)

	_, err = logger.Writer(LogLevelDebug).Write([]byte("piped line\n"))
	require.NoError(t, err)
	require.NoError(t, logger.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "piped line")
}
