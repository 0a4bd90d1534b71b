package apibay

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

// VideoCategory covers all of the "Video" subcategories.
const VideoCategory = "200"

// noResultsHash is what apibay returns in place of an empty array.
const noResultsHash = "0000000000000000000000000000000000000000"

var DefaultTrackers = []string{
	"udp://tracker.opentrackr.org:1337",
	"udp://open.stealth.si:80/announce",
	"udp://tracker.torrent.eu.org:451/announce",
	"udp://tracker.bittor.pw:1337/announce",
	"udp://public.popcorn-tracker.org:6969/announce",
}

type Client struct {
	BaseURL  string
	Category string
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
		Category: VideoCategory,
		Trackers: DefaultTrackers,
		http:     httpClient,
	}
}

func (c *Client) Name() string { return c.name }

type entry struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	InfoHash string `json:"info_hash"`
	Seeders  string `json:"seeders"`
	Size     string `json:"size"`
}

func (c *Client) Search(ctx context.Context, query string) ([]domain.Release, error) {
	params := url.Values{}
	params.Set("q", query)
	if c.Category != "" {
		params.Set("cat", c.Category)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/q.php?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("apibay returned status: %d", resp.StatusCode)
	}

	var entries []entry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("decode apibay response: %w", err)
	}

	results := make([]domain.Release, 0, len(entries))
	for _, e := range entries {
		if e.ID == "0" || e.InfoHash == "" || e.InfoHash == noResultsHash {
			continue
		}
		seeders, _ := strconv.Atoi(e.Seeders)
		size, _ := strconv.ParseInt(e.Size, 10, 64)

		results = append(results, domain.Release{
			Title:   e.Name,
			Magnet:  domain.MagnetURI(e.InfoHash, e.Name, c.Trackers),
			Source:  c.name,
			Seeders: seeders,
			Size:    size,
		})
	}
	return results, nil
}
