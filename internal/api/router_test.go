package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datallboy/reelscout/internal/app"
	"github.com/datallboy/reelscout/internal/infra/config"
	"github.com/datallboy/reelscout/internal/infra/logger"
	"github.com/datallboy/reelscout/internal/service"
)

func tmdbHandler(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/movie/1":
		_, _ = w.Write([]byte(`{"id":1,"title":"Alpha"}`))
	case "/movie/42":
		_, _ = w.Write([]byte(`{"id":42,"title":"Nope"}`))
	case "/movie/7":
		_, _ = w.Write([]byte(`{"id":7,"title":""}`))
	case "/discover/movie", "/movie/popular", "/search/movie":
		_, _ = w.Write([]byte(`{"page":1,"results":[{"id":1,"title":"Alpha","release_date":"2024-05-02"}]}`))
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func ytsHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("query_term") != "Alpha" {
		_, _ = w.Write([]byte(`{"status":"ok","data":{"movie_count":0}}`))
		return
	}
	_, _ = w.Write([]byte(`{"status":"ok","data":{"movie_count":1,"movies":[
		{"title":"Alpha","title_long":"Alpha (2024)","torrents":[
			{"hash":"aaa","quality":"1080p","type":"web"},
			{"hash":"bbb","quality":"2160p","type":"bluray"}
		]}]}}`))
}

type testServer struct {
	e      *echo.Echo
	app    *app.Context
	outDir string
}

func newTestServer(t *testing.T, tmdb http.HandlerFunc) *testServer {
	t.Helper()

	tmdbSrv := httptest.NewServer(tmdb)
	t.Cleanup(tmdbSrv.Close)
	ytsSrv := httptest.NewServer(http.HandlerFunc(ytsHandler))
	t.Cleanup(ytsSrv.Close)

	outDir := filepath.Join(t.TempDir(), "watch")
	cfg := &config.Config{
		Providers: []config.ProviderConfig{{ID: "yts", Kind: config.KindYTS, BaseUrl: ytsSrv.URL}},
		Search:    config.SearchConfig{MaxResults: 20, MaxConcurrency: 4, ProviderTimeout: 2 * time.Second},
		Catalog:   config.CatalogConfig{BaseUrl: tmdbSrv.URL, ApiKey: "k", Language: "en-US", Timeout: 2 * time.Second},
		Download: config.DownloadConfig{
			OutDir:       outDir,
			PublicPrefix: "/watch",
			Extension:    ".mp4",
			TickInterval: 5 * time.Millisecond,
			ProgressStep: 10,
			GracePeriod:  time.Hour,
			Chunk:        "x",
		},
	}

	a, err := app.Build(t.Context(), cfg, logger.Discard())
	require.NoError(t, err)
	t.Cleanup(a.Close)

	e := echo.New()
	RegisterRoutes(e, a)
	return &testServer{e: e, app: a, outDir: outDir}
}

func (s *testServer) do(method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestDownloadRequiresAllFields(t *testing.T) {
	s := newTestServer(t, tmdbHandler)

	for _, prefix := range []string{"", "/api"} {
		rec := s.do(http.MethodPost, prefix+"/download", `{"movieTitle":"Alpha","quality":"1080p"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "Missing magnetLink")
	}

	view := decode[service.DownloadsView](t, s.do(http.MethodGet, "/downloaded-movies", ""))
	assert.Empty(t, view.Downloading)
}

func TestDownloadRejectsUnknownQuality(t *testing.T) {
	s := newTestServer(t, tmdbHandler)

	for _, quality := range []string{"x/../../escaped", "../escaped", "Generic"} {
		body := `{"magnetLink":"magnet:?x","movieTitle":"Alpha","quality":"` + quality + `"}`
		rec := s.do(http.MethodPost, "/api/download", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, quality)
	}

	assert.Empty(t, s.app.Registry.ListActive())
	time.Sleep(50 * time.Millisecond)
	_, err := os.Stat(filepath.Join(filepath.Dir(s.outDir), "escaped.mp4"))
	assert.True(t, os.IsNotExist(err))
}

func TestDownloadLifecycle(t *testing.T) {
	s := newTestServer(t, tmdbHandler)

	rec := s.do(http.MethodPost, "/api/download", `{"magnetLink":"magnet:?xt=urn:btih:AAA","movieTitle":"Alpha","quality":"1080p"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"message":"Download initiated","downloadId":"Alpha-1080p"}`, rec.Body.String())

	require.Eventually(t, func() bool {
		view := decode[service.DownloadsView](t, s.do(http.MethodGet, "/downloaded-movies", ""))
		return len(view.Completed) == 1 && len(view.Downloading) == 1 && view.Downloading[0].Progress == 100
	}, 3*time.Second, 10*time.Millisecond)

	rec = s.do(http.MethodGet, "/downloads/Alpha-1080p", "")
	require.Equal(t, http.StatusOK, rec.Code)
	job := decode[map[string]any](t, rec)
	assert.Equal(t, "completed", job["status"])
	assert.Equal(t, "/watch/Alpha_1080p.mp4", job["filePath"])

	// The reported filePath is served
	rec = s.do(http.MethodGet, "/watch/Alpha_1080p.mp4", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, strings.Repeat("x", 10), rec.Body.String())

	rec = s.do(http.MethodGet, "/downloads/Missing-720p", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDownloadOverwriteKeepsOneArtifact(t *testing.T) {
	s := newTestServer(t, tmdbHandler)

	first := `{"magnetLink":"magnet:?xt=urn:btih:AAA","movieTitle":"Alpha","quality":"1080p"}`
	second := `{"magnetLink":"magnet:?xt=urn:btih:BBB","movieTitle":"Alpha","quality":"1080p"}`
	require.Equal(t, http.StatusOK, s.do(http.MethodPost, "/download", first).Code)
	require.Equal(t, http.StatusOK, s.do(http.MethodPost, "/download", second).Code)

	view := decode[service.DownloadsView](t, s.do(http.MethodGet, "/downloaded-movies", ""))
	require.Len(t, view.Downloading, 1)
	assert.Equal(t, "magnet:?xt=urn:btih:BBB", view.Downloading[0].Magnet)

	require.Eventually(t, func() bool {
		job, ok := s.app.Registry.Get("Alpha-1080p")
		return ok && job.Progress == 100
	}, 3*time.Second, 5*time.Millisecond)

	entries, err := os.ReadDir(s.outDir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestSourcesForMovie(t *testing.T) {
	s := newTestServer(t, tmdbHandler)

	rec := s.do(http.MethodGet, "/sources/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	sources := decode[[]map[string]string](t, rec)
	require.Len(t, sources, 2)
	assert.Equal(t, "1080p", sources[0]["quality"])
	assert.Equal(t, "4K", sources[1]["quality"])
	assert.True(t, strings.HasPrefix(sources[0]["magnet"], "magnet:?xt=urn:btih:AAA"))

	rec = s.do(http.MethodGet, "/api/sources/42", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestSourcesForMovieErrors(t *testing.T) {
	s := newTestServer(t, tmdbHandler)

	rec := s.do(http.MethodGet, "/sources/7", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Movie title not found.")

	rec = s.do(http.MethodGet, "/sources/999", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	down := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	rec = down.do(http.MethodGet, "/sources/1", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decode[map[string]string](t, rec)
	assert.Equal(t, "Error fetching movie title", body["message"])
	assert.NotEmpty(t, body["error"])
}

func TestMovieListings(t *testing.T) {
	s := newTestServer(t, tmdbHandler)

	for _, target := range []string{"/recent-movies", "/popular-movies", "/search?query=Alpha", "/api/search?query=Alpha"} {
		rec := s.do(http.MethodGet, target, "")
		require.Equal(t, http.StatusOK, rec.Code, target)
		movies := decode[[]map[string]any](t, rec)
		require.Len(t, movies, 1, target)
		assert.Equal(t, "Alpha", movies[0]["title"])
	}

	rec := s.do(http.MethodGet, "/search", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Query parameter is required")
}

func TestRecentMoviesUpstreamDown(t *testing.T) {
	s := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	rec := s.do(http.MethodGet, "/recent-movies", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decode[map[string]string](t, rec)
	assert.Equal(t, "Error fetching recent movies", body["message"])
	assert.Contains(t, body["error"], "upstream unavailable")
}

func TestHealthAndHistory(t *testing.T) {
	s := newTestServer(t, tmdbHandler)

	rec := s.do(http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","providers":["yts"]}`, rec.Body.String())

	rec = s.do(http.MethodGet, "/history", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"jobs":[]}`, rec.Body.String())

	rec = s.do(http.MethodGet, "/history?limit=abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRequestIDHeader(t *testing.T) {
	s := newTestServer(t, tmdbHandler)

	rec := s.do(http.MethodGet, "/health", "")
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
}

func TestTorznabFeed(t *testing.T) {
	s := newTestServer(t, tmdbHandler)

	rec := s.do(http.MethodGet, "/torznab/api?t=caps", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `<caps>`)
	assert.Contains(t, rec.Body.String(), `movie-search available="yes"`)

	rec = s.do(http.MethodGet, "/torznab/api?t=movie&q=Alpha", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, strings.Count(rec.Body.String(), "<item>"))
	assert.Contains(t, rec.Body.String(), `name="magneturl"`)

	rec = s.do(http.MethodGet, "/torznab/api?t=search", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "<item>")

	rec = s.do(http.MethodGet, "/torznab/api?t=tvsearch", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
