package store

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/datallboy/reelscout/internal/domain"
)

//go:embed postgres_schema/*.sql
var postgresSchema embed.FS

type PostgresStore struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	store := &PostgresStore{pool: pool, now: time.Now}
	if err := store.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("could not migrate database: %w", err)
	}
	return store, nil
}

// ensureSchema applies every embedded schema file in name order. The files
// are idempotent.
func (p *PostgresStore) ensureSchema(ctx context.Context) error {
	entries, err := fs.ReadDir(postgresSchema, "postgres_schema")
	if err != nil {
		return err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		sqlBytes, err := postgresSchema.ReadFile("postgres_schema/" + name)
		if err != nil {
			return err
		}
		if _, err := p.pool.Exec(ctx, string(sqlBytes)); err != nil {
			return fmt.Errorf("apply %s: %w", name, err)
		}
	}
	return nil
}

func (p *PostgresStore) SaveSources(ctx context.Context, query string, sources []domain.SourceCandidate) error {
	if len(sources) == 0 {
		return nil
	}

	now := p.now().UnixMilli()
	batch := &pgx.Batch{}
	for _, src := range sources {
		batch.Queue(`
			INSERT INTO sources (query, magnet, title, quality, source, found_at)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (query, magnet) DO UPDATE SET
				title = EXCLUDED.title,
				quality = EXCLUDED.quality,
				source = EXCLUDED.source,
				found_at = EXCLUDED.found_at`,
			query, src.Magnet, src.Title, string(src.Quality), src.Source, now)
	}

	if err := p.pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to save sources: %w", err)
	}
	return nil
}

func (p *PostgresStore) SearchSources(ctx context.Context, query string, limit int) ([]domain.Release, error) {
	pattern := "%" + query + "%"
	rows, err := p.pool.Query(ctx, `
		SELECT magnet, title, source FROM (
			SELECT DISTINCT ON (magnet) magnet, title, source, found_at FROM sources
			WHERE query ILIKE $1 OR title ILIKE $1
			ORDER BY magnet, found_at DESC
		) latest
		ORDER BY found_at DESC
		LIMIT $2`, pattern, limit)
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

func (p *PostgresStore) RecordJob(ctx context.Context, rec domain.JobRecord) error {
	var completed *int64
	if rec.CompletedAt != nil {
		ms := rec.CompletedAt.UnixMilli()
		completed = &ms
	}

	_, err := p.pool.Exec(ctx, `
		INSERT INTO jobs (run_id, job_id, title, quality, magnet, status, file_path, started_at, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (run_id) DO UPDATE SET
			status = EXCLUDED.status,
			completed_at = EXCLUDED.completed_at`,
		rec.RunID, rec.JobID, rec.Title, string(rec.Quality), rec.Magnet, string(rec.Status),
		rec.FilePath, rec.StartedAt.UnixMilli(), completed)
	if err != nil {
		return fmt.Errorf("failed to record job: %w", err)
	}
	return nil
}

func (p *PostgresStore) ListJobs(ctx context.Context, limit int) ([]domain.JobRecord, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT run_id, job_id, title, quality, magnet, status, file_path, started_at, completed_at
		FROM jobs ORDER BY started_at DESC, run_id DESC LIMIT $1`, limit)
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
			completed *int64
		)
		if err := rows.Scan(&rec.RunID, &rec.JobID, &rec.Title, &quality, &rec.Magnet, &status,
			&rec.FilePath, &started, &completed); err != nil {
			return nil, err
		}
		rec.Quality = domain.Quality(quality)
		rec.Status = domain.JobStatus(status)
		rec.StartedAt = time.UnixMilli(started)
		if completed != nil {
			t := time.UnixMilli(*completed)
			rec.CompletedAt = &t
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (p *PostgresStore) Close() error {
	p.pool.Close()
	return nil
}
