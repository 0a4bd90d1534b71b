package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := NewWriter(&buf, LevelWarn)

	log.Info("hidden %d", 1)
	log.Warn("shown %d", 2)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "[WARN] shown 2")
}

func TestNamedComponent(t *testing.T) {
	var buf bytes.Buffer
	log := NewWriter(&buf, LevelDebug).Named("provider").Named("yts")

	log.Debug("query %q", "Alpha")

	assert.Contains(t, buf.String(), `[DEBUG] provider.yts: query "Alpha"`)
}

func TestWriteAdapter(t *testing.T) {
	var buf bytes.Buffer
	log := NewWriter(&buf, LevelInfo)

	n, err := log.Write([]byte("GET /health 200\n"))
	require.NoError(t, err)
	assert.Equal(t, 16, n)
	assert.Contains(t, buf.String(), "[INFO] GET /health 200")
}

func TestNewAppendsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reelscout.log")

	log, err := New(path, LevelInfo, false)
	require.NoError(t, err)
	log.Error("boom")
	require.NoError(t, log.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[ERROR] boom")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, LevelWarn, ParseLevel("warning"))
	assert.Equal(t, LevelError, ParseLevel("error"))
	assert.Equal(t, LevelInfo, ParseLevel("bogus"))
}
