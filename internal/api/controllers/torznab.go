package controllers

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v5"

	"github.com/datallboy/reelscout/internal/app"
	"github.com/datallboy/reelscout/internal/domain"
)

const torznabMovies = 2000

// TorznabController republishes the aggregated sources as a single Torznab
// indexer, so Prowlarr or Radarr can use the service directly.
type TorznabController struct {
	App *app.Context
}

func (ctrl *TorznabController) Handle(c *echo.Context) error {
	switch c.QueryParam("t") {
	case "caps":
		return ctrl.handleCaps(c)
	case "search", "movie":
		return ctrl.handleSearch(c)
	default:
		return c.String(http.StatusBadRequest, "Unknown type")
	}
}

func (ctrl *TorznabController) handleCaps(c *echo.Context) error {
	limit := ctrl.App.Config.Search.MaxResults
	caps := TorznabCaps{
		Server: ServerInfo{Version: "1.0", Title: "ReelScout"},
		Limits: Limits{Max: limit, Default: limit},
		Searching: Searching{
			Search:      SearchMode{Available: "yes", SupportedParams: "q"},
			MovieSearch: SearchMode{Available: "yes", SupportedParams: "q"},
		},
		Categories: []CapCategory{
			{ID: torznabMovies, Name: "Movies", SubCats: []CapSubCat{{ID: 2040, Name: "Movies/HD"}, {ID: 2045, Name: "Movies/UHD"}}},
		},
	}
	return c.XML(http.StatusOK, caps)
}

func (ctrl *TorznabController) handleSearch(c *echo.Context) error {
	query := c.QueryParam("q")

	rss := TorznabRSS{
		Version: "2.0",
		NS:      "http://torznab.com/schemas/2015/feed",
		Channel: Channel{
			Title:       "ReelScout Search Results",
			Description: "Aggregated torrent search",
			Link:        fmt.Sprintf("%s://%s", c.Scheme(), c.Request().Host),
			Items:       make([]RSSItem, 0),
		},
	}

	// Indexer managers probe with an empty query, answer with an empty feed
	if query == "" {
		return c.XML(http.StatusOK, rss)
	}

	sources, err := ctrl.App.Manager.FindSources(c.Request().Context(), query)
	if err != nil {
		return c.String(http.StatusInternalServerError, err.Error())
	}

	for _, s := range sources {
		rss.Channel.Items = append(rss.Channel.Items, toItem(s))
	}

	return c.XML(http.StatusOK, rss)
}

func toItem(s domain.SourceCandidate) RSSItem {
	title := s.Title
	if title == "" {
		title = string(s.Quality)
	}
	return RSSItem{
		Title:    title,
		GUID:     RSSGUID{Value: s.Magnet},
		Link:     s.Magnet,
		Category: torznabMovies,
		Enclosure: Enclosure{
			URL:  s.Magnet,
			Type: "application/x-bittorrent;x-scheme-handler/magnet",
		},
		Attributes: []Attr{
			{Name: "magneturl", Value: s.Magnet},
			{Name: "category", Value: fmt.Sprint(torznabMovies)},
			{Name: "indexer", Value: s.Source},
		},
	}
}
