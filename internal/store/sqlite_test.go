package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datallboy/reelscout/internal/domain"
	"github.com/datallboy/reelscout/internal/infra/config"
)

func newTestStore(t *testing.T) *PersistentStore {
	t.Helper()
	s, err := NewPersistentStore(filepath.Join(t.TempDir(), "data", "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestMigrationsAreIdempotent(t *testing.T) {
	s := newTestStore(t)
	assert.NoError(t, s.RunMigrations())
}

func TestSaveAndSearchSources(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveSources(ctx, "Alpha", []domain.SourceCandidate{
		{Quality: domain.Quality1080p, Magnet: "magnet:?a", Title: "Alpha 1080p", Source: "yts"},
		{Quality: domain.Quality720p, Magnet: "magnet:?b", Title: "Alpha 720p", Source: "tpb"},
	}))
	// Same locator again updates in place
	require.NoError(t, s.SaveSources(ctx, "Alpha", []domain.SourceCandidate{
		{Quality: domain.Quality1080p, Magnet: "magnet:?a", Title: "Alpha 1080p REPACK", Source: "yts"},
	}))
	require.NoError(t, s.SaveSources(ctx, "Beta", nil))

	got, err := s.SearchSources(ctx, "alpha", 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	titles := map[string]string{}
	for _, r := range got {
		titles[r.Magnet] = r.Title
	}
	assert.Equal(t, map[string]string{
		"magnet:?a": "Alpha 1080p REPACK",
		"magnet:?b": "Alpha 720p",
	}, titles)

	got, err = s.SearchSources(ctx, "Gamma", 10)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRecordAndListJobs(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	start := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	rec := domain.JobRecord{
		RunID:     "run-1",
		JobID:     "Alpha-1080p",
		Title:     "Alpha",
		Quality:   domain.Quality1080p,
		Magnet:    "magnet:?a",
		Status:    domain.StatusDownloading,
		FilePath:  "/watch/Alpha_1080p.mp4",
		StartedAt: start,
	}
	require.NoError(t, s.RecordJob(ctx, rec))

	done := start.Add(10 * time.Second)
	rec.Status = domain.StatusCompleted
	rec.CompletedAt = &done
	require.NoError(t, s.RecordJob(ctx, rec))

	later := rec
	later.RunID = "run-2"
	later.Status = domain.StatusDownloading
	later.StartedAt = start.Add(time.Minute)
	later.CompletedAt = nil
	require.NoError(t, s.RecordJob(ctx, later))

	jobs, err := s.ListJobs(ctx, 10)
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, "run-2", jobs[0].RunID)
	assert.Nil(t, jobs[0].CompletedAt)
	assert.Equal(t, domain.StatusCompleted, jobs[1].Status)
	require.NotNil(t, jobs[1].CompletedAt)
	assert.True(t, done.Equal(*jobs[1].CompletedAt))

	jobs, err = s.ListJobs(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, jobs, 1)
}

func TestOpenDisabled(t *testing.T) {
	s, err := Open(context.Background(), config.StoreConfig{})
	require.NoError(t, err)
	assert.Nil(t, s)

	_, err = Open(context.Background(), config.StoreConfig{Driver: "mongo"})
	assert.Error(t, err)
}
