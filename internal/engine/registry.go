package engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/segmentio/ksuid"

	"github.com/datallboy/reelscout/internal/domain"
	"github.com/datallboy/reelscout/internal/infra/logger"
)

// ErrClosed is returned by Start after Close.
var ErrClosed = errors.New("registry closed")

// JobRecorder persists job history. Optional.
type JobRecorder interface {
	RecordJob(ctx context.Context, rec domain.JobRecord) error
}

type Options struct {
	OutDir       string // where artifacts are written
	PublicPrefix string // URL prefix reported in FilePath
	Extension    string
	TickInterval time.Duration
	Step         int
	GracePeriod  time.Duration
	Chunk        []byte
}

type entry struct {
	job    domain.DownloadJob
	cancel context.CancelFunc
}

// Registry owns every active simulated download. Each job is advanced by
// exactly one driver goroutine; the map is only touched under mu.
type Registry struct {
	mu   sync.RWMutex
	jobs map[string]*entry

	opts     Options
	writer   *FileWriter
	recorder JobRecorder
	log      *logger.Logger
	now      func() time.Time

	base   context.Context
	stop   context.CancelFunc
	wg     sync.WaitGroup
	closed bool
}

func NewRegistry(opts Options, log *logger.Logger) *Registry {
	if opts.TickInterval <= 0 {
		opts.TickInterval = time.Second
	}
	if opts.Step <= 0 {
		opts.Step = 10
	}
	if opts.Extension == "" {
		opts.Extension = ".mp4"
	}
	if opts.PublicPrefix == "" {
		opts.PublicPrefix = "/"
	}

	base, stop := context.WithCancel(context.Background())
	return &Registry{
		jobs:   make(map[string]*entry),
		opts:   opts,
		writer: NewFileWriter(),
		log:    log,
		now:    time.Now,
		base:   base,
		stop:   stop,
	}
}

// WithRecorder makes the registry record job starts and completions.
func (r *Registry) WithRecorder(rec JobRecorder) *Registry {
	r.recorder = rec
	return r
}

// Start registers a job for title/quality and returns its id without waiting.
// A job with the same id is replaced: its driver is cancelled and a new one
// starts from zero, writing into the same artifact.
func (r *Registry) Start(title string, quality domain.Quality, magnet string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" || quality == "" || magnet == "" {
		return "", fmt.Errorf("%w: title, quality and magnet are required", domain.ErrInvalidInput)
	}
	if !quality.Valid() {
		return "", fmt.Errorf("%w: unknown quality %q", domain.ErrInvalidInput, quality)
	}

	if err := os.MkdirAll(r.opts.OutDir, 0755); err != nil {
		// Keep going, the driver logs every failed write
		r.log.Error("Failed to create output dir %s: %v", r.opts.OutDir, err)
	}

	name := domain.ArtifactName(title, quality, r.opts.Extension)
	job := domain.DownloadJob{
		ID:        domain.JobID(title, quality),
		RunID:     ksuid.New().String(),
		Title:     title,
		Quality:   quality,
		Magnet:    magnet,
		Progress:  0,
		Status:    domain.StatusDownloading,
		FilePath:  path.Join(r.opts.PublicPrefix, name),
		StartedAt: r.now(),
	}
	diskPath := filepath.Join(r.opts.OutDir, name)

	// closed and wg.Add share mu with Close
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return "", ErrClosed
	}
	ctx, cancel := context.WithCancel(r.base)
	if prev, ok := r.jobs[job.ID]; ok {
		prev.cancel()
		r.log.Warn("Replacing job %s (run %s -> %s)", job.ID, prev.job.RunID, job.RunID)
	}
	r.jobs[job.ID] = &entry{job: job, cancel: cancel}
	r.wg.Add(1)
	r.mu.Unlock()

	r.log.Info("Starting simulated download for %s (%s).", title, quality)
	r.record(job)

	go r.drive(ctx, job.ID, job.RunID, diskPath)

	return job.ID, nil
}

// Get returns a copy of the job with id.
func (r *Registry) Get(id string) (domain.DownloadJob, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.jobs[id]
	if !ok {
		return domain.DownloadJob{}, false
	}
	return e.job, true
}

// ListActive returns a snapshot of downloading and recently completed jobs,
// oldest first.
func (r *Registry) ListActive() []domain.DownloadJob {
	r.mu.RLock()
	jobs := make([]domain.DownloadJob, 0, len(r.jobs))
	for _, e := range r.jobs {
		jobs = append(jobs, e.job)
	}
	r.mu.RUnlock()

	sort.Slice(jobs, func(i, j int) bool {
		if jobs[i].StartedAt.Equal(jobs[j].StartedAt) {
			return jobs[i].ID < jobs[j].ID
		}
		return jobs[i].StartedAt.Before(jobs[j].StartedAt)
	})
	return jobs
}

// Close stops every driver and releases open files. Jobs stay listed.
func (r *Registry) Close() {
	r.mu.Lock()
	r.closed = true
	r.stop()
	r.mu.Unlock()

	r.wg.Wait()
	r.writer.CloseAll()
}

// advance moves the job one step if runID still owns it.
func (r *Registry) advance(id, runID string) (domain.DownloadJob, bool, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.jobs[id]
	if !ok || e.job.RunID != runID {
		return domain.DownloadJob{}, false, false
	}
	completed := e.job.Advance(r.opts.Step, r.now())
	return e.job, completed, true
}

// remove drops the job unless it was replaced by a newer run.
func (r *Registry) remove(id, runID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.jobs[id]
	if !ok || e.job.RunID != runID {
		return
	}
	e.cancel()
	delete(r.jobs, id)
	r.log.Debug("Removed job %s from active set", id)
}

func (r *Registry) record(job domain.DownloadJob) {
	if r.recorder == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := r.recorder.RecordJob(ctx, job.Record()); err != nil {
		r.log.Warn("Failed to record job %s: %v", job.ID, err)
	}
}
