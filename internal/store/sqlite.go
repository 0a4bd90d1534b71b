package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/datallboy/reelscout/internal/domain"

	_ "modernc.org/sqlite"
)

type PersistentStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewPersistentStore(dbPath string) (*PersistentStore, error) {
	// Ensure the database directory exists
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}

	// Ping makes sure the file is actually accessible and the DSN is valid
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to sqlite: %w", err)
	}

	store := &PersistentStore{db: db, now: time.Now}

	if err := store.RunMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("could not migrate database: %w", err)
	}

	return store, nil
}

func (s *PersistentStore) SaveSources(ctx context.Context, query string, sources []domain.SourceCandidate) error {
	if len(sources) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO sources (query, magnet, title, quality, source, found_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(query, magnet) DO UPDATE SET
			title = excluded.title,
			quality = excluded.quality,
			source = excluded.source,
			found_at = excluded.found_at`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := s.now().UnixMilli()
	for _, src := range sources {
		if _, err := stmt.ExecContext(ctx, query, src.Magnet, src.Title, string(src.Quality), src.Source, now); err != nil {
			return fmt.Errorf("failed to save source: %w", err)
		}
	}

	return tx.Commit()
}

// SearchSources matches previously found releases by query or release title.
func (s *PersistentStore) SearchSources(ctx context.Context, query string, limit int) ([]domain.Release, error) {
	pattern := "%" + query + "%"
	rows, err := s.db.QueryContext(ctx, `
		SELECT magnet, title, source FROM sources
		WHERE query LIKE ? OR title LIKE ?
		GROUP BY magnet
		ORDER BY MAX(found_at) DESC
		LIMIT ?`, pattern, pattern, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Release
	for rows.Next() {
		var r domain.Release
		if err := rows.Scan(&r.Magnet, &r.Title, &r.Source); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *PersistentStore) RecordJob(ctx context.Context, rec domain.JobRecord) error {
	var completed sql.NullInt64
	if rec.CompletedAt != nil {
		completed = sql.NullInt64{Int64: rec.CompletedAt.UnixMilli(), Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO jobs (run_id, job_id, title, quality, magnet, status, file_path, started_at, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id) DO UPDATE SET
			status = excluded.status,
			completed_at = excluded.completed_at`,
		rec.RunID, rec.JobID, rec.Title, string(rec.Quality), rec.Magnet, string(rec.Status),
		rec.FilePath, rec.StartedAt.UnixMilli(), completed)
	if err != nil {
		return fmt.Errorf("failed to record job: %w", err)
	}
	return nil
}

// ListJobs returns the newest runs first.
func (s *PersistentStore) ListJobs(ctx context.Context, limit int) ([]domain.JobRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, job_id, title, quality, magnet, status, file_path, started_at, completed_at
		FROM jobs ORDER BY started_at DESC, run_id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.JobRecord{}
	for rows.Next() {
		var (
			rec       domain.JobRecord
			quality   string
			status    string
			started   int64
			completed sql.NullInt64
		)
		if err := rows.Scan(&rec.RunID, &rec.JobID, &rec.Title, &quality, &rec.Magnet, &status,
			&rec.FilePath, &started, &completed); err != nil {
			return nil, err
		}
		rec.Quality = domain.Quality(quality)
		rec.Status = domain.JobStatus(status)
		rec.StartedAt = time.UnixMilli(started)
		if completed.Valid {
			t := time.UnixMilli(completed.Int64)
			rec.CompletedAt = &t
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *PersistentStore) Close() error {
	return s.db.Close()
}
