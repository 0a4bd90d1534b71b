// Package yts queries the YTS movie API. Every movie carries one torrent per
// encoded quality, each becomes its own release.
package yts

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/datallboy/reelscout/internal/domain"
)

// DefaultTrackers are appended to assembled magnet links, YTS only publishes hashes.
var DefaultTrackers = []string{
	"udp://open.demonii.com:1337/announce",
	"udp://tracker.openbittorrent.com:80",
	"udp://tracker.coppersurfer.tk:6969",
	"udp://glotorrents.pw:6969/announce",
	"udp://tracker.opentrackr.org:1337/announce",
	"udp://torrent.gresille.org:80/announce",
	"udp://p4p.arenabg.com:1337",
	"udp://tracker.leechers-paradise.org:6969",
}

type Client struct {
	BaseURL  string
	Limit    int
	Trackers []string

	name string
	http *http.Client
}

func New(name, baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		name:     name,
		BaseURL:  strings.TrimRight(baseURL, "/"),
		Limit:    20,
		Trackers: DefaultTrackers,
		http:     httpClient,
	}
}

func (c *Client) Name() string { return c.name }

type listResponse struct {
	Status        string `json:"status"`
	StatusMessage string `json:"status_message"`
	Data          struct {
		MovieCount int     `json:"movie_count"`
		Movies     []movie `json:"movies"`
	} `json:"data"`
}

type movie struct {
	Title     string    `json:"title"`
	TitleLong string    `json:"title_long"`
	Year      int       `json:"year"`
	Torrents  []torrent `json:"torrents"`
}

type torrent struct {
	Hash      string `json:"hash"`
	Quality   string `json:"quality"`
	Type      string `json:"type"`
	Seeds     int    `json:"seeds"`
	SizeBytes int64  `json:"size_bytes"`
}

func (c *Client) Search(ctx context.Context, query string) ([]domain.Release, error) {
	params := url.Values{}
	params.Set("query_term", query)
	params.Set("limit", strconv.Itoa(c.Limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/api/v2/list_movies.json?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yts returned status: %d", resp.StatusCode)
	}

	var body listResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode yts response: %w", err)
	}
	if body.Status != "ok" {
		return nil, fmt.Errorf("yts error: %s", body.StatusMessage)
	}

	var results []domain.Release
	for _, m := range body.Data.Movies {
		name := m.TitleLong
		if name == "" {
			name = m.Title
		}
		for _, t := range m.Torrents {
			if t.Hash == "" {
				continue
			}
			results = append(results, domain.Release{
				Title:   strings.TrimSpace(name + " " + t.Quality + " " + t.Type),
				Magnet:  domain.MagnetURI(t.Hash, name, c.Trackers),
				Source:  c.name,
				Seeders: t.Seeds,
				Size:    t.SizeBytes,
			})
		}
	}
	return results, nil
}
