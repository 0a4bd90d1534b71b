package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/datallboy/reelscout/internal/cache"
	"github.com/datallboy/reelscout/internal/catalog"
	"github.com/datallboy/reelscout/internal/catalog/tmdb"
	"github.com/datallboy/reelscout/internal/engine"
	"github.com/datallboy/reelscout/internal/infra/config"
	"github.com/datallboy/reelscout/internal/infra/logger"
	"github.com/datallboy/reelscout/internal/library"
	"github.com/datallboy/reelscout/internal/provider"
	"github.com/datallboy/reelscout/internal/provider/local"
	"github.com/datallboy/reelscout/internal/service"
	"github.com/datallboy/reelscout/internal/store"
)

// Context holds the core environment and shared resources of the service.
type Context struct {
	Config *config.Config
	Logger *logger.Logger

	Store    store.Store // nil when persistence is disabled
	Manager  *provider.Manager
	Registry *engine.Registry
	Scanner  *library.Scanner
	Service  *service.Service

	closers []func() error
}

// NewContext initializes the base environment.
func NewContext(cfg *config.Config, log *logger.Logger) *Context {
	return &Context{
		Config: cfg,
		Logger: log,
	}
}

// Build wires every component from the configuration. Close releases what
// Build opened.
func Build(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Context, error) {
	a := NewContext(cfg, log)

	st, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("store: %w", err)
	}
	if st != nil {
		a.Store = st
		a.closers = append(a.closers, st.Close)
		log.Info("Persistence enabled (%s)", cfg.Store.Driver)
	}

	httpClient := &http.Client{Timeout: cfg.Search.ProviderTimeout}
	providers, err := provider.Build(cfg.Providers, httpClient)
	if err != nil {
		a.Close()
		return nil, err
	}
	if cfg.Search.IncludeLocal && a.Store != nil {
		providers = append(providers, local.New(a.Store, cfg.Search.MaxResults))
	}

	a.Manager = provider.NewManager(providers, provider.Options{
		MaxResults:      cfg.Search.MaxResults,
		MaxConcurrency:  cfg.Search.MaxConcurrency,
		ProviderTimeout: cfg.Search.ProviderTimeout,
	}, log.Named("provider"))
	if a.Store != nil {
		a.Manager.WithStore(a.Store)
	}

	a.Registry = engine.NewRegistry(engine.Options{
		OutDir:       cfg.Download.OutDir,
		PublicPrefix: cfg.Download.PublicPrefix,
		Extension:    cfg.Download.Extension,
		TickInterval: cfg.Download.TickInterval,
		Step:         cfg.Download.ProgressStep,
		GracePeriod:  cfg.Download.GracePeriod,
		Chunk:        []byte(cfg.Download.Chunk),
	}, log.Named("engine"))
	if a.Store != nil {
		a.Registry.WithRecorder(a.Store)
	}
	a.closers = append(a.closers, func() error { a.Registry.Close(); return nil })

	a.Scanner = library.NewScanner(cfg.Download.OutDir, cfg.Download.PublicPrefix, cfg.Download.Extension, log.Named("library"))

	cat := a.buildCatalog(cfg)

	a.Service = service.New(cat, a.Manager, a.Registry, a.Scanner, log.Named("service"))
	if a.Store != nil {
		a.Service.WithHistory(a.Store)
	}

	return a, nil
}

func (a *Context) buildCatalog(cfg *config.Config) catalog.Catalog {
	var cat catalog.Catalog = tmdb.New(cfg.Catalog.BaseUrl, cfg.Catalog.ApiKey, cfg.Catalog.Language,
		&http.Client{Timeout: cfg.Catalog.Timeout})
	if cfg.Catalog.ApiKey == "" {
		a.Logger.Warn("catalog.api_key is empty, TMDb requests will be rejected")
	}

	switch cfg.Cache.Driver {
	case "file":
		cat = catalog.NewCachedCatalog(cat, &cache.FileCache{Dir: cfg.Cache.Dir, TTL: cfg.Cache.TTL}, a.Logger.Named("cache"))
	case "redis":
		rc := cache.NewRedisCache(cache.NewRedisClient(cfg.Cache.RedisAddr, cfg.Cache.RedisPassword, cfg.Cache.RedisDB), "reelscout:", cfg.Cache.TTL)
		a.closers = append(a.closers, rc.Close)
		cat = catalog.NewCachedCatalog(cat, rc, a.Logger.Named("cache"))
	}
	return cat
}

// Close releases resources in reverse order of acquisition.
func (a *Context) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.Logger.Warn("Shutdown: %v", err)
		}
	}
	a.closers = nil
}
