// Package service composes the catalog, the provider manager, the job
// registry and the library scanner into the operations the API exposes.
package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/datallboy/reelscout/internal/catalog"
	"github.com/datallboy/reelscout/internal/domain"
	"github.com/datallboy/reelscout/internal/infra/logger"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 500
)

type SourceFinder interface {
	FindSources(ctx context.Context, title string) ([]domain.SourceCandidate, error)
}

type JobRegistry interface {
	Start(title string, quality domain.Quality, magnet string) (string, error)
	Get(id string) (domain.DownloadJob, bool)
	ListActive() []domain.DownloadJob
}

type ArtifactLister interface {
	List() []domain.CompletedArtifact
}

type JobHistory interface {
	ListJobs(ctx context.Context, limit int) ([]domain.JobRecord, error)
}

type DownloadRequest struct {
	Magnet  string
	Title   string
	Quality domain.Quality
}

// DownloadsView is the combined state of in-flight jobs and finished files.
// A job still inside its grace window shows up in both lists.
type DownloadsView struct {
	Downloading []domain.DownloadJob       `json:"downloading"`
	Completed   []domain.CompletedArtifact `json:"completed"`
}

type Service struct {
	catalog   catalog.Catalog
	sources   SourceFinder
	jobs      JobRegistry
	artifacts ArtifactLister
	history   JobHistory
	log       *logger.Logger
	now       func() time.Time
}

func New(cat catalog.Catalog, sources SourceFinder, jobs JobRegistry, artifacts ArtifactLister, log *logger.Logger) *Service {
	return &Service{
		catalog:   cat,
		sources:   sources,
		jobs:      jobs,
		artifacts: artifacts,
		log:       log,
		now:       time.Now,
	}
}

// WithHistory enables History. Without it History returns an empty list.
func (s *Service) WithHistory(h JobHistory) *Service {
	s.history = h
	return s
}

// SourcesForMovie resolves movieID to a title and aggregates sources for it.
// Providers that fail are skipped, so an empty list is a valid answer.
func (s *Service) SourcesForMovie(ctx context.Context, movieID string) ([]domain.SourceCandidate, error) {
	movieID = strings.TrimSpace(movieID)
	if movieID == "" {
		return nil, fmt.Errorf("%w: movie id is required", domain.ErrInvalidInput)
	}

	title, err := s.catalog.LookupTitle(ctx, movieID)
	if err != nil {
		s.log.Error("Error fetching movie title for ID %s: %v", movieID, err)
		return nil, upstream(err)
	}

	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: movie title not found for %s", domain.ErrNotFound, movieID)
	}

	sources, err := s.sources.FindSources(ctx, title)
	if err != nil {
		return nil, err
	}
	if sources == nil {
		sources = []domain.SourceCandidate{}
	}
	return sources, nil
}

// StartDownload launches a simulated download and returns its job id.
func (s *Service) StartDownload(_ context.Context, req DownloadRequest) (string, error) {
	if req.Magnet == "" || strings.TrimSpace(req.Title) == "" || req.Quality == "" {
		return "", fmt.Errorf("%w: missing magnetLink, movieTitle, or quality", domain.ErrInvalidInput)
	}
	if !req.Quality.Valid() {
		return "", fmt.Errorf("%w: unknown quality %q", domain.ErrInvalidInput, req.Quality)
	}
	return s.jobs.Start(req.Title, req.Quality, req.Magnet)
}

func (s *Service) Downloads(_ context.Context) DownloadsView {
	return DownloadsView{
		Downloading: s.jobs.ListActive(),
		Completed:   s.artifacts.List(),
	}
}

// Job returns the live view of one job.
func (s *Service) Job(_ context.Context, id string) (domain.DownloadJob, error) {
	job, ok := s.jobs.Get(id)
	if !ok {
		return domain.DownloadJob{}, fmt.Errorf("%w: download %s", domain.ErrNotFound, id)
	}
	return job, nil
}

// RecentMovies lists releases from the first day of the current month
// through today, newest first.
func (s *Service) RecentMovies(ctx context.Context) ([]domain.Movie, error) {
	now := s.now()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	s.log.Info("Fetching recent movies for %s to %s", from.Format("2006-01-02"), now.Format("2006-01-02"))

	movies, err := s.catalog.Releases(ctx, from, now)
	if err != nil {
		s.log.Error("Error fetching recent movies: %v", err)
		return nil, upstream(err)
	}

	sort.SliceStable(movies, func(i, j int) bool {
		return movies[i].ReleaseDate > movies[j].ReleaseDate
	})
	return nonNil(movies), nil
}

func (s *Service) SearchMovies(ctx context.Context, query string) ([]domain.Movie, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: query parameter is required", domain.ErrInvalidInput)
	}

	movies, err := s.catalog.Search(ctx, query)
	if err != nil {
		s.log.Error("Error searching movies for %q: %v", query, err)
		return nil, upstream(err)
	}
	return nonNil(movies), nil
}

func (s *Service) PopularMovies(ctx context.Context) ([]domain.Movie, error) {
	movies, err := s.catalog.Popular(ctx)
	if err != nil {
		s.log.Error("Error fetching popular movies: %v", err)
		return nil, upstream(err)
	}
	return nonNil(movies), nil
}

// History returns recorded job runs, newest first. limit <= 0 selects the
// default.
func (s *Service) History(ctx context.Context, limit int) ([]domain.JobRecord, error) {
	if s.history == nil {
		return []domain.JobRecord{}, nil
	}

	switch {
	case limit <= 0:
		limit = defaultHistoryLimit
	case limit > maxHistoryLimit:
		limit = maxHistoryLimit
	}

	return s.history.ListJobs(ctx, limit)
}

// upstream keeps taxonomy errors as they are and folds everything else into
// ErrUpstreamUnavailable.
func upstream(err error) error {
	if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrInvalidInput) || errors.Is(err, domain.ErrUpstreamUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
}

func nonNil(movies []domain.Movie) []domain.Movie {
	if movies == nil {
		return []domain.Movie{}
	}
	return movies
}
