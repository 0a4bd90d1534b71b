package engine

import (
	"context"
	"time"
)

// drive advances one job run per tick until it completes, is replaced or the
// registry closes. After completion the job stays visible for GracePeriod.
func (r *Registry) drive(ctx context.Context, id, runID, diskPath string) {
	defer r.wg.Done()
	defer func() { _ = r.writer.CloseFile(runID) }()

	ticker := time.NewTicker(r.opts.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.log.Debug("Driver for %s (run %s) stopped", id, runID)
			return

		case <-ticker.C:
			job, completed, ok := r.advance(id, runID)
			if !ok {
				return
			}

			// Simulated data arrival, failure does not stop progress
			if err := r.writer.Append(runID, diskPath, r.opts.Chunk); err != nil {
				r.log.Error("Error writing simulated data for %s: %v", job.Title, err)
			}

			if !completed {
				continue
			}

			if err := r.writer.CloseFile(runID); err != nil {
				r.log.Warn("Failed to close %s: %v", diskPath, err)
			}
			r.log.Info("Simulated download complete for %s (%s). File: %s", job.Title, job.Quality, job.FilePath)
			r.record(job)

			r.linger(ctx, id, runID)
			return
		}
	}
}

// linger keeps a completed job listed for the grace window, then removes it.
func (r *Registry) linger(ctx context.Context, id, runID string) {
	timer := time.NewTimer(r.opts.GracePeriod)
	defer timer.Stop()

	select {
	case <-timer.C:
		r.remove(id, runID)
	case <-ctx.Done():
	}
}
