// Package tmdb talks to The Movie Database v3 API.
package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/datallboy/reelscout/internal/domain"
)

const dateLayout = "2006-01-02"

type Client struct {
	BaseURL  string
	Language string

	apiKey string
	http   *http.Client
}

func New(baseURL, apiKey, language string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if language == "" {
		language = "en-US"
	}
	return &Client{
		BaseURL:  strings.TrimRight(baseURL, "/"),
		Language: language,
		apiKey:   apiKey,
		http:     httpClient,
	}
}

type pageResponse struct {
	Page         int            `json:"page"`
	Results      []domain.Movie `json:"results"`
	TotalPages   int            `json:"total_pages"`
	TotalResults int            `json:"total_results"`
}

// LookupTitle returns the display title of movie id. The title can be empty
// when the catalog has the record but no title.
func (c *Client) LookupTitle(ctx context.Context, id string) (string, error) {
	if strings.TrimSpace(id) == "" {
		return "", fmt.Errorf("%w: movie id is required", domain.ErrInvalidInput)
	}

	var m domain.Movie
	if err := c.get(ctx, "/movie/"+url.PathEscape(id), nil, &m); err != nil {
		return "", err
	}
	return m.Title, nil
}

func (c *Client) Search(ctx context.Context, query string) ([]domain.Movie, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("page", "1")
	return c.list(ctx, "/search/movie", params)
}

// Releases lists movies with a primary release date in [from, to], newest first.
func (c *Client) Releases(ctx context.Context, from, to time.Time) ([]domain.Movie, error) {
	params := url.Values{}
	params.Set("sort_by", "primary_release_date.desc")
	params.Set("primary_release_date.gte", from.Format(dateLayout))
	params.Set("primary_release_date.lte", to.Format(dateLayout))
	params.Set("page", "1")
	return c.list(ctx, "/discover/movie", params)
}

func (c *Client) Popular(ctx context.Context) ([]domain.Movie, error) {
	params := url.Values{}
	params.Set("page", "1")
	return c.list(ctx, "/movie/popular", params)
}

func (c *Client) list(ctx context.Context, path string, params url.Values) ([]domain.Movie, error) {
	var page pageResponse
	if err := c.get(ctx, path, params, &page); err != nil {
		return nil, err
	}
	if page.Results == nil {
		return []domain.Movie{}, nil
	}
	return page.Results, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.apiKey)
	params.Set("language", c.Language)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: tmdb %s", domain.ErrNotFound, path)
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("%w: tmdb returned status %d", domain.ErrUpstreamUnavailable, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode tmdb response: %v", domain.ErrUpstreamUnavailable, err)
	}
	return nil
}
