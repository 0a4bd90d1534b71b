package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/datallboy/reelscout/internal/cache"
	"github.com/datallboy/reelscout/internal/domain"
	"github.com/datallboy/reelscout/internal/infra/logger"
)

// CachedCatalog decorates a Catalog with a title cache. Listings always go
// to the inner catalog.
type CachedCatalog struct {
	inner Catalog
	cache cache.Cache
	log   *logger.Logger
}

func NewCachedCatalog(inner Catalog, c cache.Cache, log *logger.Logger) *CachedCatalog {
	return &CachedCatalog{inner: inner, cache: c, log: log}
}

func (c *CachedCatalog) LookupTitle(ctx context.Context, id string) (string, error) {
	key := "title:" + id

	// 1. Check the cache first
	data, err := c.cache.Get(ctx, key)
	if err == nil && len(data) > 0 {
		c.log.Debug("Cache hit for title %s", id)
		return string(data), nil
	}
	if err != nil && !errors.Is(err, cache.ErrMiss) {
		c.log.Warn("Title cache read failed for %s: %v", id, err)
	}

	// 2. Cache miss: ask the real catalog
	title, err := c.inner.LookupTitle(ctx, id)
	if err != nil {
		return "", err
	}

	// 3. Save for next time, empty titles are not worth keeping
	if title != "" {
		if err := c.cache.Put(ctx, key, []byte(title)); err != nil {
			c.log.Warn("Title cache write failed for %s: %v", id, err)
		}
	}
	return title, nil
}

func (c *CachedCatalog) Search(ctx context.Context, query string) ([]domain.Movie, error) {
	return c.inner.Search(ctx, query)
}

func (c *CachedCatalog) Releases(ctx context.Context, from, to time.Time) ([]domain.Movie, error) {
	return c.inner.Releases(ctx, from, to)
}

func (c *CachedCatalog) Popular(ctx context.Context) ([]domain.Movie, error) {
	return c.inner.Popular(ctx)
}
