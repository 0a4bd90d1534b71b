package domain

import "strings"

// Quality is the coarse resolution tier derived from a free-text release label.
type Quality string

const (
	Quality4K      Quality = "4K"
	Quality1080p   Quality = "1080p"
	Quality720p    Quality = "720p"
	Quality480p    Quality = "480p"
	QualityGeneric Quality = "Download"
)

// qualityRules are evaluated in order, first match wins.
var qualityRules = []struct {
	markers []string
	quality Quality
}{
	{[]string{"2160p", "4k"}, Quality4K},
	{[]string{"1080p"}, Quality1080p},
	{[]string{"720p"}, Quality720p},
	{[]string{"480p"}, Quality480p},
}

// Classify maps a release label to a Quality. It never fails; labels without a
// known resolution marker (including the empty label) are QualityGeneric.
func Classify(label string) Quality {
	if label == "" {
		return QualityGeneric
	}

	lower := strings.ToLower(label)
	for _, rule := range qualityRules {
		for _, m := range rule.markers {
			if strings.Contains(lower, m) {
				return rule.quality
			}
		}
	}
	return QualityGeneric
}

func (q Quality) String() string { return string(q) }

// Valid reports whether q is one of the known tiers.
func (q Quality) Valid() bool {
	switch q {
	case Quality4K, Quality1080p, Quality720p, Quality480p, QualityGeneric:
		return true
	}
	return false
}
