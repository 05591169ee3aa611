package catalog

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// maxTypoDistance is the largest edit distance still treated as a typo.
const maxTypoDistance = 2

// Suggest returns the option input most plausibly meant, or "". An input
// whose letters appear in order inside an option ("prime", "tv") wins over
// a near-miss spelling ("netflx").
func Suggest(input string, options []string) string {
	input = strings.ToLower(strings.TrimSpace(input))
	if input == "" {
		return ""
	}

	if ranks := fuzzy.RankFindNormalizedFold(input, options); len(ranks) > 0 {
		sort.Stable(ranks)
		return ranks[0].Target
	}

	best, bestDist := "", maxTypoDistance+1
	for _, o := range options {
		if d := fuzzy.LevenshteinDistance(input, o); d < bestDist {
			best, bestDist = o, d
		}
	}
	return best
}
