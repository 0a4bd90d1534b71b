package provider

import (
	"context"

	"github.com/datallboy/reelscout/internal/domain"
)

// Provider is the contract any content index (Torznab, YTS, apibay) must fulfill.
type Provider interface {
	Name() string
	Search(ctx context.Context, query string) ([]domain.Release, error)
}
