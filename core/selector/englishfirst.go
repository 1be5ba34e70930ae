package selector

import (
	"sort"
	"strings"

	"github.com/unfoldingword/twl/core/model"
)

// ResolveEnglishFirst picks one article among the candidates a trie match
// carried and reports the disambiguation set, for the English-first
// pipeline (§4.G step 2), which has no Strong's id to run the full §4.F
// staged matcher against.
//
// It implements the "orphan god" rule (§4.F, English-first mode only):
// when surface equals "god" case-insensitively and both kt/god and
// kt/falsegod are candidates, a capitalized surface chooses kt/god and a
// lowercase surface chooses kt/falsegod; both stay in the disambiguation
// set regardless. Any other multi-article tie falls back to the tier-1
// slug-substring preference from §4.F step 2 (with no Strong's prior),
// then alphabetical order.
func ResolveEnglishFirst(surface string, candidates []model.Article) (chosen model.Article, disambiguation []model.Article) {
	switch len(candidates) {
	case 0:
		return "", nil
	case 1:
		return candidates[0], nil
	}

	sorted := append([]model.Article(nil), candidates...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	if strings.EqualFold(surface, "god") && has(sorted, "kt/god") && has(sorted, "kt/falsegod") {
		if len(surface) > 0 && surface[0] >= 'A' && surface[0] <= 'Z' {
			return "kt/god", sorted
		}
		return "kt/falsegod", sorted
	}

	prioritized := prioritize(sorted, surface)
	return prioritized[0], sorted
}

func has(articles []model.Article, target model.Article) bool {
	for _, a := range articles {
		if a == target {
			return true
		}
	}
	return false
}
