package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/texuddy/texuddy/internal/config"
)

func TestNewWritesFileAndConsole(t *testing.T) {
	path := filepath.Join(t.TempDir(), "texuddy.log")
	var console bytes.Buffer
	logger, closer := New(config.LogConfig{Level: "debug", File: path}, &console)

	logger.Debug("debug line")
	logger.Warn("warn line")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"debug line"`)
	assert.Contains(t, string(data), `"msg":"warn line"`)

	assert.Contains(t, console.String(), "warn line")
	assert.False(t, strings.Contains(console.String(), "debug line"))
}

func TestNewFallsBackToInfo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "texuddy.log")
	logger, closer := New(config.LogConfig{Level: "loud", File: path}, nil)
	logger.Debug("hidden")
	logger.Info("shown")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hidden")
	assert.Contains(t, string(data), "shown")
}
