package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDownloadJobAdvance(t *testing.T) {
	job := DownloadJob{ID: "Alpha-1080p", Status: StatusDownloading}
	now := time.Now()

	last := 0
	for tick := 1; tick <= 9; tick++ {
		require.False(t, job.Advance(10, now), "tick %d completed early", tick)
		assert.Greater(t, job.Progress, last)
		assert.Equal(t, StatusDownloading, job.Status)
		last = job.Progress
	}

	assert.True(t, job.Advance(10, now))
	assert.Equal(t, MaxProgress, job.Progress)
	assert.Equal(t, StatusCompleted, job.Status)
	require.NotNil(t, job.CompletedAt)

	// Completion is reported exactly once.
	assert.False(t, job.Advance(10, now))
	assert.Equal(t, MaxProgress, job.Progress)
}

func TestDownloadJobAdvanceClampsOvershoot(t *testing.T) {
	job := DownloadJob{Status: StatusDownloading, Progress: 95}
	assert.True(t, job.Advance(10, time.Now()))
	assert.Equal(t, MaxProgress, job.Progress)
}

func TestDownloadJobAdvanceIgnoresNonPositiveStep(t *testing.T) {
	job := DownloadJob{Status: StatusDownloading, Progress: 40}
	assert.False(t, job.Advance(0, time.Now()))
	assert.False(t, job.Advance(-10, time.Now()))
	assert.Equal(t, 40, job.Progress)
}
