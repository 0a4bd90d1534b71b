package domain

import "time"

type JobStatus string

const (
	StatusDownloading JobStatus = "downloading"
	StatusCompleted   JobStatus = "completed"
)

// MaxProgress is the terminal progress value of a job.
const MaxProgress = 100

// DownloadJob is the mutable progress record of one simulated download.
// It is owned by the engine registry; callers only ever see copies.
type DownloadJob struct {
	ID          string     `json:"id"`
	RunID       string     `json:"runId"`
	Title       string     `json:"movieTitle"`
	Quality     Quality    `json:"quality"`
	Magnet      string     `json:"magnetLink,omitempty"`
	Progress    int        `json:"progress"`
	Status      JobStatus  `json:"status"`
	FilePath    string     `json:"filePath"`
	StartedAt   time.Time  `json:"startedAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// Advance moves the job forward by step. Progress never decreases and never
// exceeds MaxProgress. It reports true only on the call that completes the job.
func (j *DownloadJob) Advance(step int, now time.Time) bool {
	if j.Status == StatusCompleted || step <= 0 {
		return false
	}

	j.Progress += step
	if j.Progress < MaxProgress {
		return false
	}

	j.Progress = MaxProgress
	j.Status = StatusCompleted
	j.CompletedAt = &now
	return true
}

// CompletedArtifact is a finished output file discovered on disk.
type CompletedArtifact struct {
	Name     string    `json:"name"`
	Path     string    `json:"path"`
	Status   JobStatus `json:"status"`
	Progress int       `json:"progress"`
	Title    string    `json:"movieTitle,omitempty"`
	Quality  Quality   `json:"quality,omitempty"`
	Size     int64     `json:"size"`
}

// JobRecord is the persisted history entry of one driver run.
type JobRecord struct {
	RunID       string     `json:"runId"`
	JobID       string     `json:"id"`
	Title       string     `json:"movieTitle"`
	Quality     Quality    `json:"quality"`
	Magnet      string     `json:"magnetLink"`
	Status      JobStatus  `json:"status"`
	FilePath    string     `json:"filePath"`
	StartedAt   time.Time  `json:"startedAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// Record converts the live job into its history entry.
func (j DownloadJob) Record() JobRecord {
	return JobRecord{
		RunID:       j.RunID,
		JobID:       j.ID,
		Title:       j.Title,
		Quality:     j.Quality,
		Magnet:      j.Magnet,
		Status:      j.Status,
		FilePath:    j.FilePath,
		StartedAt:   j.StartedAt,
		CompletedAt: j.CompletedAt,
	}
}
