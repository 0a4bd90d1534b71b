package library

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datallboy/reelscout/internal/domain"
	"github.com/datallboy/reelscout/internal/infra/logger"
)

func TestListFiltersByExtension(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Alpha_1080p.mp4"), []byte("abc"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.mp4"), 0755))

	got := NewScanner(dir, "/watch", ".mp4", logger.Discard()).List()

	require.Len(t, got, 1)
	assert.Equal(t, domain.CompletedArtifact{
		Name:     "Alpha_1080p.mp4",
		Path:     "/watch/Alpha_1080p.mp4",
		Status:   domain.StatusCompleted,
		Progress: 100,
		Title:    "Alpha",
		Quality:  domain.Quality1080p,
		Size:     3,
	}, got[0])
}

func TestListCreatesMissingDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "watch")

	got := NewScanner(dir, "/watch", ".mp4", logger.Discard()).List()

	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.DirExists(t, dir)
}

func TestListUnreadableDir(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))

	got := NewScanner(filepath.Join(blocker, "watch"), "/watch", ".mp4", logger.Discard()).List()

	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestListRecoversQuality(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "The_Matrix_4K.mp4"), nil, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Up_Download.mp4"), nil, 0644))

	got := NewScanner(dir, "/watch", ".mp4", logger.Discard()).List()

	require.Len(t, got, 2)
	assert.Equal(t, "The Matrix", got[0].Title)
	assert.Equal(t, domain.Quality4K, got[0].Quality)
	assert.Equal(t, "Up", got[1].Title)
	assert.Equal(t, domain.QualityGeneric, got[1].Quality)
}
