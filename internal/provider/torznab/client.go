package torznab

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/datallboy/reelscout/internal/domain"
)

// MovieCategory is the Newznab/Torznab top-level movies category.
const MovieCategory = "2000"

type Client struct {
	BaseURL    string
	APIKey     string
	Categories []string
	Trackers   []string

	name string
	http *http.Client
}

func New(name, baseURL, apiKey string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		name:       name,
		BaseURL:    strings.TrimRight(baseURL, "/"),
		APIKey:     apiKey,
		Categories: []string{MovieCategory},
		http:       httpClient,
	}
}

func (c *Client) Name() string { return c.name }

func (c *Client) Search(ctx context.Context, query string) ([]domain.Release, error) {
	params := url.Values{}
	params.Set("t", "search")
	params.Set("q", query)
	if c.APIKey != "" {
		params.Set("apikey", c.APIKey)
	}
	if len(c.Categories) > 0 {
		params.Set("cat", strings.Join(c.Categories, ","))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/api?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("indexer returned status: %d", resp.StatusCode)
	}

	var rss RSSResponse
	if err := xml.NewDecoder(resp.Body).Decode(&rss); err != nil {
		return nil, fmt.Errorf("decode torznab feed: %w", err)
	}

	if rss.Error != nil {
		return nil, fmt.Errorf("indexer error %d: %s", rss.Error.Code, rss.Error.Description)
	}

	results := make([]domain.Release, 0, len(rss.Channel.Items))
	for _, item := range rss.Channel.Items {
		rel, ok := item.ToRelease(c.name, c.Trackers)
		if !ok {
			continue
		}
		results = append(results, rel)
	}
	return results, nil
}
