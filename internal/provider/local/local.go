// Package local serves previously found sources from the store as a provider.
package local

import (
	"context"

	"github.com/datallboy/reelscout/internal/domain"
)

type storeClient interface {
	SearchSources(ctx context.Context, query string, limit int) ([]domain.Release, error)
}

type Provider struct {
	store storeClient
	limit int
}

func New(s storeClient, limit int) *Provider {
	if limit <= 0 {
		limit = 20
	}
	return &Provider{store: s, limit: limit}
}

func (p *Provider) Name() string {
	return "local"
}

func (p *Provider) Search(ctx context.Context, query string) ([]domain.Release, error) {
	return p.store.SearchSources(ctx, query, p.limit)
}
