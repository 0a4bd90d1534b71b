// Package store persists found sources and job history.
package store

import (
	"context"
	"fmt"

	"github.com/datallboy/reelscout/internal/domain"
	"github.com/datallboy/reelscout/internal/infra/config"
)

// Store is implemented by the sqlite and postgres backends.
type Store interface {
	SaveSources(ctx context.Context, query string, sources []domain.SourceCandidate) error
	SearchSources(ctx context.Context, query string, limit int) ([]domain.Release, error)
	RecordJob(ctx context.Context, rec domain.JobRecord) error
	ListJobs(ctx context.Context, limit int) ([]domain.JobRecord, error)
	Close() error
}

// Open returns the backend selected by cfg.Driver, or nil when persistence
// is disabled.
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	switch cfg.Driver {
	case "":
		return nil, nil
	case "sqlite":
		s, err := NewPersistentStore(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "postgres":
		s, err := NewPostgresStore(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}
