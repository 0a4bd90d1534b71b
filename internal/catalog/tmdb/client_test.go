package tmdb

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datallboy/reelscout/internal/domain"
)

func TestLookupTitle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/movie/42", r.URL.Path)
		assert.Equal(t, "key", r.URL.Query().Get("api_key"))
		assert.Equal(t, "en-US", r.URL.Query().Get("language"))
		_, _ = w.Write([]byte(`{"id":42,"title":"Alpha"}`))
	}))
	defer srv.Close()

	title, err := New(srv.URL, "key", "", srv.Client()).LookupTitle(context.Background(), "42")
	require.NoError(t, err)
	assert.Equal(t, "Alpha", title)
}

func TestLookupTitleNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"status_code":34}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL, "key", "", srv.Client()).LookupTitle(context.Background(), "999")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpstreamFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/movie/popular":
			w.WriteHeader(http.StatusUnauthorized)
		default:
			_, _ = w.Write([]byte(`not json`))
		}
	}))

	c := New(srv.URL, "bad", "", srv.Client())

	_, err := c.Popular(context.Background())
	assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)

	_, err = c.Search(context.Background(), "Alpha")
	assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)

	srv.Close()
	_, err = c.LookupTitle(context.Background(), "42")
	assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
}

func TestReleasesQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "/discover/movie", r.URL.Path)
		assert.Equal(t, "primary_release_date.desc", q.Get("sort_by"))
		assert.Equal(t, "2024-05-01", q.Get("primary_release_date.gte"))
		assert.Equal(t, "2024-05-17", q.Get("primary_release_date.lte"))
		_, _ = w.Write([]byte(`{"page":1,"results":[{"id":1,"title":"B","release_date":"2024-05-10"}]}`))
	}))
	defer srv.Close()

	from := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 5, 17, 12, 0, 0, 0, time.UTC)

	movies, err := New(srv.URL, "key", "", srv.Client()).Releases(context.Background(), from, to)
	require.NoError(t, err)
	require.Len(t, movies, 1)
	assert.Equal(t, "B", movies[0].Title)
}

func TestSearchEmptyResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Nope", r.URL.Query().Get("query"))
		_, _ = w.Write([]byte(`{"page":1}`))
	}))
	defer srv.Close()

	movies, err := New(srv.URL, "key", "", srv.Client()).Search(context.Background(), "Nope")
	require.NoError(t, err)
	assert.NotNil(t, movies)
	assert.Empty(t, movies)
}
