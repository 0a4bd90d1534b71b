// Package catalog resolves movie identifiers and lists titles from the
// metadata collaborator.
package catalog

import (
	"context"
	"time"

	"github.com/datallboy/reelscout/internal/domain"
)

// Catalog is the contract the aggregation service needs from a metadata source.
// Implementations return domain.ErrUpstreamUnavailable when the source cannot be
// reached and domain.ErrNotFound for unknown ids.
type Catalog interface {
	LookupTitle(ctx context.Context, id string) (string, error)
	Search(ctx context.Context, query string) ([]domain.Movie, error)
	Releases(ctx context.Context, from, to time.Time) ([]domain.Movie, error)
	Popular(ctx context.Context) ([]domain.Movie, error)
}
