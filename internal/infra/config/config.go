package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Provider kinds understood by provider.Build.
const (
	KindTorznab = "torznab"
	KindYTS     = "yts"
	KindAPIBay  = "apibay"
)

type Config struct {
	Providers []ProviderConfig `mapstructure:"providers" yaml:"providers"`
	Search    SearchConfig     `mapstructure:"search" yaml:"search"`
	Catalog   CatalogConfig    `mapstructure:"catalog" yaml:"catalog"`
	Download  DownloadConfig   `mapstructure:"download" yaml:"download"`
	Log       LogConfig        `mapstructure:"log" yaml:"log"`
	Cache     CacheConfig      `mapstructure:"cache" yaml:"cache"`
	Store     StoreConfig      `mapstructure:"store" yaml:"store"`

	Port string `mapstructure:"port" yaml:"port"`
}

type ProviderConfig struct {
	ID         string   `mapstructure:"id" yaml:"id"`
	Kind       string   `mapstructure:"kind" yaml:"kind"`
	BaseUrl    string   `mapstructure:"base_url" yaml:"base_url"`
	ApiKey     string   `mapstructure:"api_key" yaml:"api_key"`
	Categories []string `mapstructure:"categories" yaml:"categories"`
	Trackers   []string `mapstructure:"trackers" yaml:"trackers"`
	Disabled   bool     `mapstructure:"disabled" yaml:"disabled"`
}

type SearchConfig struct {
	MaxResults      int           `mapstructure:"max_results" yaml:"max_results"`
	MaxConcurrency  int           `mapstructure:"max_concurrency" yaml:"max_concurrency"`
	ProviderTimeout time.Duration `mapstructure:"provider_timeout" yaml:"provider_timeout"`
	IncludeLocal    bool          `mapstructure:"include_local" yaml:"include_local"` // query saved sources too, needs a store
}

type CatalogConfig struct {
	BaseUrl  string        `mapstructure:"base_url" yaml:"base_url"`
	ApiKey   string        `mapstructure:"api_key" yaml:"api_key"`
	Language string        `mapstructure:"language" yaml:"language"`
	Timeout  time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

type DownloadConfig struct {
	OutDir       string        `mapstructure:"out_dir" yaml:"out_dir"`
	PublicPrefix string        `mapstructure:"public_prefix" yaml:"public_prefix"`
	Extension    string        `mapstructure:"extension" yaml:"extension"`
	TickInterval time.Duration `mapstructure:"tick_interval" yaml:"tick_interval"`
	ProgressStep int           `mapstructure:"progress_step" yaml:"progress_step"`
	GracePeriod  time.Duration `mapstructure:"grace_period" yaml:"grace_period"`
	Chunk        string        `mapstructure:"chunk" yaml:"chunk"`
}

type LogConfig struct {
	Path          string `mapstructure:"path" yaml:"path"`
	Level         string `mapstructure:"level" yaml:"level"`
	IncludeStdout bool   `mapstructure:"include_stdout" yaml:"include_stdout"`
}

type CacheConfig struct {
	Driver        string        `mapstructure:"driver" yaml:"driver"` // "", "file" or "redis"
	Dir           string        `mapstructure:"dir" yaml:"dir"`
	RedisAddr     string        `mapstructure:"redis_addr" yaml:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password" yaml:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db" yaml:"redis_db"`
	TTL           time.Duration `mapstructure:"ttl" yaml:"ttl"`
}

type StoreConfig struct {
	Driver      string `mapstructure:"driver" yaml:"driver"` // "", "sqlite" or "postgres"
	SQLitePath  string `mapstructure:"sqlite_path" yaml:"sqlite_path"`
	PostgresDSN string `mapstructure:"postgres_dsn" yaml:"postgres_dsn"`
}

// DefaultProviders are used when the config file lists none. Both speak
// public JSON APIs and need no credentials.
func DefaultProviders() []ProviderConfig {
	return []ProviderConfig{
		{ID: "yts", Kind: KindYTS, BaseUrl: "https://yts.mx"},
		{ID: "thepiratebay", Kind: KindAPIBay, BaseUrl: "https://apibay.org"},
	}
}

// Load reads path (YAML) on top of the defaults. A missing default
// config.yaml is not an error, the service runs on defaults and env vars.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if path == "" {
		path = "config.yaml"
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		switch {
		case explicit:
			return nil, fmt.Errorf("config file not found: %s", path)
		case fileExists("/config/config.yaml"):
			// Docker images mount the config here
			path = "/config/config.yaml"
		default:
			path = ""
		}
	}

	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")

		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", path, err)
		}
	}

	// Support Environment Variables
	v.SetEnvPrefix("REELSCOUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "4000")

	v.SetDefault("search.max_results", 20)
	v.SetDefault("search.max_concurrency", 8)
	v.SetDefault("search.provider_timeout", 10*time.Second)
	v.SetDefault("search.include_local", false)

	v.SetDefault("catalog.base_url", "https://api.themoviedb.org/3")
	v.SetDefault("catalog.api_key", "")
	v.SetDefault("catalog.language", "en-US")
	v.SetDefault("catalog.timeout", 10*time.Second)

	v.SetDefault("download.out_dir", "./watch")
	v.SetDefault("download.public_prefix", "/watch")
	v.SetDefault("download.extension", ".mp4")
	v.SetDefault("download.tick_interval", time.Second)
	v.SetDefault("download.progress_step", 10)
	v.SetDefault("download.grace_period", 5*time.Second)
	v.SetDefault("download.chunk", "simulated data ")

	v.SetDefault("log.path", "reelscout.log")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.include_stdout", true)

	v.SetDefault("cache.driver", "")
	v.SetDefault("cache.dir", "./cache")
	v.SetDefault("cache.redis_addr", "localhost:6379")
	v.SetDefault("cache.redis_db", 0)
	v.SetDefault("cache.ttl", 24*time.Hour)

	v.SetDefault("store.driver", "")
	v.SetDefault("store.sqlite_path", "./data/reelscout.db")
}

func (c *Config) validate() error {
	if len(c.Providers) == 0 {
		c.Providers = DefaultProviders()
	}

	seen := make(map[string]struct{}, len(c.Providers))
	for i, p := range c.Providers {
		if p.ID == "" {
			return fmt.Errorf("provider[%d] requires a unique ID", i)
		}
		if _, dup := seen[p.ID]; dup {
			return fmt.Errorf("provider %s: duplicate ID", p.ID)
		}
		seen[p.ID] = struct{}{}

		switch p.Kind {
		case KindTorznab, KindYTS, KindAPIBay:
		case "":
			return fmt.Errorf("provider %s: kind is required", p.ID)
		default:
			return fmt.Errorf("provider %s: unknown kind %q", p.ID, p.Kind)
		}

		if p.BaseUrl == "" {
			return fmt.Errorf("provider %s: base_url is required", p.ID)
		}
		c.Providers[i].BaseUrl = strings.TrimRight(p.BaseUrl, "/")
	}

	if c.Search.MaxResults <= 0 {
		c.Search.MaxResults = 20
	}
	if c.Search.MaxConcurrency <= 0 {
		c.Search.MaxConcurrency = 8
	}

	if c.Download.OutDir == "" {
		return errors.New("download.out_dir is required")
	}
	if c.Download.Extension != "" && !strings.HasPrefix(c.Download.Extension, ".") {
		c.Download.Extension = "." + c.Download.Extension
	}
	if c.Download.ProgressStep <= 0 || c.Download.ProgressStep > 100 {
		return fmt.Errorf("download.progress_step must be within 1..100, got %d", c.Download.ProgressStep)
	}
	if c.Download.TickInterval <= 0 {
		return errors.New("download.tick_interval must be positive")
	}
	c.Download.PublicPrefix = "/" + strings.Trim(c.Download.PublicPrefix, "/")

	switch c.Cache.Driver {
	case "", "file", "redis":
	default:
		return fmt.Errorf("cache.driver: unknown driver %q", c.Cache.Driver)
	}

	if c.Search.IncludeLocal && c.Store.Driver == "" {
		return errors.New("search.include_local requires a store driver")
	}

	switch c.Store.Driver {
	case "", "sqlite":
	case "postgres":
		if c.Store.PostgresDSN == "" {
			return errors.New("store.postgres_dsn is required for the postgres driver")
		}
	default:
		return fmt.Errorf("store.driver: unknown driver %q", c.Store.Driver)
	}

	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
