package domain

import (
	"net/url"
	"strings"
)

// JobID derives the registry key of a download. Two requests for the same
// title and quality share an id.
func JobID(title string, quality Quality) string {
	return strings.TrimSpace(title) + "-" + string(quality)
}

// SanitizeTitle replaces every byte outside [A-Za-z0-9] with an underscore.
func SanitizeTitle(title string) string {
	b := []byte(title)
	for i, c := range b {
		if !isAlnum(c) {
			b[i] = '_'
		}
	}
	return string(b)
}

// ArtifactName is the on-disk file name of a finished download.
func ArtifactName(title string, quality Quality, ext string) string {
	return SanitizeTitle(title) + "_" + SanitizeTitle(string(quality)) + ext
}

// ParseArtifactName recovers the title and quality from an artifact name.
// Underscores in the title come back as spaces, the sanitization is lossy.
func ParseArtifactName(name, ext string) (string, Quality) {
	base := strings.TrimSuffix(name, ext)
	idx := strings.LastIndex(base, "_")
	if idx < 0 {
		return base, ""
	}
	title := strings.Join(strings.FieldsFunc(base[:idx], func(r rune) bool { return r == '_' }), " ")
	return title, Quality(base[idx+1:])
}

// MagnetURI assembles a BitTorrent magnet link for an info hash.
func MagnetURI(infoHash, name string, trackers []string) string {
	if infoHash == "" {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("magnet:?xt=urn:btih:")
	sb.WriteString(strings.ToUpper(infoHash))
	if name != "" {
		sb.WriteString("&dn=")
		sb.WriteString(url.QueryEscape(name))
	}
	for _, tr := range trackers {
		sb.WriteString("&tr=")
		sb.WriteString(url.QueryEscape(tr))
	}
	return sb.String()
}

func isAlnum(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
