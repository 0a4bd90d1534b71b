package provider

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/datallboy/reelscout/internal/domain"
	"github.com/datallboy/reelscout/internal/infra/logger"
)

// SourceStore persists classified candidates. Optional.
type SourceStore interface {
	SaveSources(ctx context.Context, query string, sources []domain.SourceCandidate) error
}

type Options struct {
	MaxResults      int
	MaxConcurrency  int
	ProviderTimeout time.Duration // zero disables the per-provider deadline
}

// Manager fans a title out to an ordered, fixed set of providers.
type Manager struct {
	providers []Provider
	opts      Options
	store     SourceStore
	log       *logger.Logger
}

func NewManager(providers []Provider, opts Options, log *logger.Logger) *Manager {
	if opts.MaxResults <= 0 {
		opts.MaxResults = 20
	}
	if opts.MaxConcurrency <= 0 {
		opts.MaxConcurrency = len(providers)
	}
	return &Manager{
		providers: providers,
		opts:      opts,
		log:       log,
	}
}

// WithStore makes FindSources persist its results on a best-effort basis.
func (m *Manager) WithStore(s SourceStore) *Manager {
	m.store = s
	return m
}

// Providers returns the configured provider names in query order.
func (m *Manager) Providers() []string {
	names := make([]string, len(m.providers))
	for i, p := range m.providers {
		names[i] = p.Name()
	}
	return names
}

// FindSources queries every provider for title. A failing provider is logged
// and skipped, it never fails the call. Results keep the order in which the
// providers answered and are capped at MaxResults.
func (m *Manager) FindSources(ctx context.Context, title string) ([]domain.SourceCandidate, error) {
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}

	m.log.Info("Searching %d providers for %q", len(m.providers), title)

	var (
		mu       sync.Mutex
		releases []domain.Release
	)

	g := new(errgroup.Group)
	g.SetLimit(m.opts.MaxConcurrency)

	for _, p := range m.providers {
		g.Go(func() error {
			res, err := m.query(ctx, p, title)
			if err != nil {
				m.log.Warn("Provider %s failed for %q: %v", p.Name(), title, err)
				return nil
			}

			mu.Lock()
			releases = append(releases, res...)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	if len(releases) > m.opts.MaxResults {
		releases = releases[:m.opts.MaxResults]
	}

	sources := make([]domain.SourceCandidate, 0, len(releases))
	for _, r := range releases {
		sources = append(sources, domain.NewSourceCandidate(r))
	}

	m.log.Info("Found %d sources for %q", len(sources), title)

	if m.store != nil && len(sources) > 0 {
		if err := m.store.SaveSources(ctx, title, sources); err != nil {
			m.log.Warn("Failed to persist sources for %q: %v", title, err)
		}
	}

	return sources, nil
}

type outcome struct {
	releases []domain.Release
	err      error
}

// query runs a single provider under its own deadline. A provider that ignores
// its context is abandoned once the deadline passes. Panics become errors.
func (m *Manager) query(ctx context.Context, p Provider, title string) ([]domain.Release, error) {
	if m.opts.ProviderTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.opts.ProviderTimeout)
		defer cancel()
	}

	start := time.Now()
	done := make(chan outcome, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: fmt.Errorf("panic: %v", r)}
			}
		}()
		res, err := p.Search(ctx, title)
		done <- outcome{releases: res, err: err}
	}()

	select {
	case o := <-done:
		m.log.Debug("Provider %s answered in %s (%d results)", p.Name(), time.Since(start), len(o.releases))
		return o.releases, o.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
