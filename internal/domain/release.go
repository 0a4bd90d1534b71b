package domain

// Release is a raw result returned by a single provider before classification.
type Release struct {
	Title   string // free-text label as published by the index
	Magnet  string // peer-to-peer resource locator
	Source  string // provider name
	Seeders int
	Size    int64
}

// SourceCandidate is a classified release offered to the client. It has no
// identity beyond its locator and is never mutated once produced.
type SourceCandidate struct {
	Quality Quality `json:"quality"`
	Magnet  string  `json:"magnet"`
	Title   string  `json:"title,omitempty"`
	Source  string  `json:"source,omitempty"`
}

// NewSourceCandidate classifies a release.
func NewSourceCandidate(r Release) SourceCandidate {
	return SourceCandidate{
		Quality: Classify(r.Title),
		Magnet:  r.Magnet,
		Title:   r.Title,
		Source:  r.Source,
	}
}
