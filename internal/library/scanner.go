package library

import (
	"os"
	"path"
	"sort"
	"strings"

	"github.com/datallboy/reelscout/internal/domain"
	"github.com/datallboy/reelscout/internal/infra/logger"
)

// Scanner lists finished artifacts in the output directory. Every call reads
// the directory again.
type Scanner struct {
	dir    string
	prefix string
	ext    string
	log    *logger.Logger
}

func NewScanner(dir, publicPrefix, ext string, log *logger.Logger) *Scanner {
	if publicPrefix == "" {
		publicPrefix = "/"
	}
	return &Scanner{dir: dir, prefix: publicPrefix, ext: ext, log: log}
}

// List returns every file with the artifact extension. A missing directory is
// created, an unreadable one yields an empty list.
func (s *Scanner) List() []domain.CompletedArtifact {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		s.log.Error("Failed to create output dir %s: %v", s.dir, err)
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		s.log.Error("Failed to read output dir %s: %v", s.dir, err)
		return []domain.CompletedArtifact{}
	}

	out := make([]domain.CompletedArtifact, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(path.Ext(e.Name()), s.ext) {
			continue
		}

		title, quality := domain.ParseArtifactName(e.Name(), path.Ext(e.Name()))
		art := domain.CompletedArtifact{
			Name:     e.Name(),
			Path:     path.Join(s.prefix, e.Name()),
			Status:   domain.StatusCompleted,
			Progress: domain.MaxProgress,
			Title:    title,
			Quality:  quality,
		}
		if info, err := e.Info(); err == nil {
			art.Size = info.Size()
		}
		out = append(out, art)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
