package controllers

import (
	"encoding/xml"
	"errors"
	"net/http"

	"github.com/labstack/echo/v5"

	"github.com/datallboy/reelscout/internal/domain"
)

type ErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// statusFor maps the error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *echo.Context, message string, err error) error {
	return c.JSON(statusFor(err), ErrorResponse{Message: message, Error: err.Error()})
}

// -- TORZNAB CAPABILITIES (t=caps) ---
type TorznabCaps struct {
	XMLName    xml.Name      `xml:"caps"`
	Server     ServerInfo    `xml:"server"`
	Limits     Limits        `xml:"limits"`
	Searching  Searching     `xml:"searching"`
	Categories []CapCategory `xml:"categories>category"`
}

type ServerInfo struct {
	Version string `xml:"version,attr"`
	Title   string `xml:"title,attr"`
}

type Limits struct {
	Max     int `xml:"max,attr"`
	Default int `xml:"default,attr"`
}

type Searching struct {
	Search      SearchMode `xml:"search"`
	MovieSearch SearchMode `xml:"movie-search"`
}

type SearchMode struct {
	Available       string `xml:"available,attr"`
	SupportedParams string `xml:"supportedParams,attr"`
}

type CapCategory struct {
	ID      int         `xml:"id,attr"`
	Name    string      `xml:"name,attr"`
	SubCats []CapSubCat `xml:"subcat"`
}

type CapSubCat struct {
	ID   int    `xml:"id,attr"`
	Name string `xml:"name,attr"`
}

// -- SEARCH RESULTS (t=search/movie)
type TorznabRSS struct {
	XMLName xml.Name `xml:"rss"`
	Version string   `xml:"version,attr"`
	NS      string   `xml:"xmlns:torznab,attr"`
	Channel Channel  `xml:"channel"`
}

type Channel struct {
	Title       string    `xml:"title"`
	Description string    `xml:"description"`
	Link        string    `xml:"link"`
	Items       []RSSItem `xml:"item"`
}

type RSSItem struct {
	Title      string    `xml:"title"`
	GUID       RSSGUID   `xml:"guid"`
	Link       string    `xml:"link"`
	Category   int       `xml:"category"`
	Enclosure  Enclosure `xml:"enclosure"`
	Attributes []Attr    `xml:"torznab:attr"`
}

type RSSGUID struct {
	Value       string `xml:",chardata"`
	IsPermaLink bool   `xml:"isPermaLink,attr"`
}

type Enclosure struct {
	URL    string `xml:"url,attr"`
	Length int64  `xml:"length,attr"`
	Type   string `xml:"type,attr"`
}

type Attr struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}
