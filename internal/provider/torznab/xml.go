package torznab

import (
	"encoding/xml"
	"strconv"
	"strings"

	"github.com/datallboy/reelscout/internal/domain"
)

type RSSResponse struct {
	XMLName xml.Name `xml:"rss"`
	Version string   `xml:"version,attr"`
	Channel Channel  `xml:"channel"`

	// Torznab servers answer errors with a bare <error> document
	Error *ErrorResponse `xml:"-"`
}

// UnmarshalXML accepts both <rss> feeds and <error code=".." description=".."/>.
func (r *RSSResponse) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	if start.Name.Local == "error" {
		var e ErrorResponse
		if err := d.DecodeElement(&e, &start); err != nil {
			return err
		}
		r.Error = &e
		return nil
	}

	type plain RSSResponse
	var p plain
	if err := d.DecodeElement(&p, &start); err != nil {
		return err
	}
	*r = RSSResponse(p)
	return nil
}

type ErrorResponse struct {
	Code        int    `xml:"code,attr"`
	Description string `xml:"description,attr"`
}

type Channel struct {
	Title string `xml:"title"`
	Items []Item `xml:"item"`
}

type Item struct {
	Title      string      `xml:"title"`
	GUID       string      `xml:"guid"`
	Link       string      `xml:"link"`
	PubDate    string      `xml:"pubDate"`
	Size       int64       `xml:"size"`
	Enclosure  Enclosure   `xml:"enclosure"`
	Attributes []Attribute `xml:"attr"`
}

type Enclosure struct {
	URL    string `xml:"url,attr"`
	Length int64  `xml:"length,attr"`
	Type   string `xml:"type,attr"`
}

type Attribute struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}

func (i Item) getAttribute(name string) string {
	for _, a := range i.Attributes {
		if a.Name == name {
			return a.Value
		}
	}
	return ""
}

func (i Item) getSize() int64 {
	if size := i.getAttribute("size"); size != "" {
		val, _ := strconv.ParseInt(size, 10, 64)
		return val
	}
	if i.Size > 0 {
		return i.Size
	}
	return i.Enclosure.Length
}

// magnet picks the first usable locator: magneturl attribute, info hash,
// then a magnet link in <link> or the enclosure.
func (i Item) magnet(trackers []string) string {
	if m := i.getAttribute("magneturl"); m != "" {
		return m
	}
	if h := i.getAttribute("infohash"); h != "" {
		return domain.MagnetURI(h, i.Title, trackers)
	}
	for _, candidate := range []string{i.Link, i.Enclosure.URL, i.GUID} {
		if strings.HasPrefix(candidate, "magnet:") {
			return candidate
		}
	}
	return ""
}

// ToRelease converts the item. Items without a peer-to-peer locator are dropped.
func (i Item) ToRelease(sourceName string, trackers []string) (domain.Release, bool) {
	m := i.magnet(trackers)
	if m == "" {
		return domain.Release{}, false
	}

	seeders, _ := strconv.Atoi(i.getAttribute("seeders"))

	return domain.Release{
		Title:   i.Title,
		Magnet:  m,
		Source:  sourceName,
		Seeders: seeders,
		Size:    i.getSize(),
	}, true
}
