package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/datallboy/reelscout/internal/domain"
)

// FileCache stores one file per key under Dir. Entries older than TTL are
// treated as misses; a zero TTL never expires.
type FileCache struct {
	Dir string
	TTL time.Duration
}

func (f *FileCache) Get(_ context.Context, key string) ([]byte, error) {
	path := f.path(key)

	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, err
	}
	if f.TTL > 0 && time.Since(info.ModTime()) > f.TTL {
		return nil, ErrMiss
	}

	return os.ReadFile(path)
}

func (f *FileCache) Put(_ context.Context, key string, data []byte) error {
	// Ensure the directory exists
	if err := os.MkdirAll(f.Dir, 0755); err != nil {
		return err
	}

	// Write then rename so readers never see a partial entry
	tmp, err := os.CreateTemp(f.Dir, ".put-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), f.path(key))
}

func (f *FileCache) path(key string) string {
	return filepath.Join(f.Dir, domain.SanitizeTitle(key)+".json")
}
