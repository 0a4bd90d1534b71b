package engine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileWriterAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.mp4")
	fw := NewFileWriter()

	require.NoError(t, fw.Append("run1", path, []byte("a")))
	require.NoError(t, fw.Append("run1", path, []byte("b")))
	require.NoError(t, fw.CloseFile("run1"))

	// Reopening appends rather than truncating
	require.NoError(t, fw.Append("run1", path, []byte("c")))
	fw.CloseAll()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "abc", string(data))
	assert.Zero(t, openHandles(fw))
}

func TestFileWriterKeysAreIndependent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.mp4")
	fw := NewFileWriter()

	require.NoError(t, fw.Append("old", path, []byte("a")))
	require.NoError(t, fw.Append("new", path, []byte("b")))

	// Closing the old run leaves the new run's handle writable
	require.NoError(t, fw.CloseFile("old"))
	require.NoError(t, fw.Append("new", path, []byte("c")))
	assert.Equal(t, 1, openHandles(fw))
	fw.CloseAll()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "abc", string(data))
}

func TestFileWriterCloseUnknownKey(t *testing.T) {
	fw := NewFileWriter()
	assert.NoError(t, fw.CloseFile("missing"))
}

func TestFileWriterOpenError(t *testing.T) {
	fw := NewFileWriter()
	err := fw.Append("run1", filepath.Join(t.TempDir(), "missing", "out.mp4"), []byte("a"))
	assert.ErrorContains(t, err, "could not open output file")
}

func openHandles(fw *FileWriter) int {
	fw.mu.RLock()
	defer fw.mu.RUnlock()
	return len(fw.handles)
}
