package classify

import (
	"strings"

	"github.com/llehouerou/starchart/internal/taxonomy"
)

const (
	// Tags beyond this position all weigh 1.
	maxTagPositions = 5

	// Match strengths, multiplied by entry weight and tag position weight.
	primaryMatch   = 3
	keywordMatch   = 2
	substringMatch = 1

	// Shorter strings never take part in substring matching.
	minSubstringLen = 3
)

type weightedEntry struct {
	genre    taxonomy.Genre
	primary  string
	keywords []string
	weight   float64
}

// TagWeighted classifies ordered folksonomy tags. Earlier tags weigh more.
type TagWeighted struct {
	fallback taxonomy.Genre
	entries  []weightedEntry
}

// NewTagWeighted builds a tag classifier over tax's entries.
func NewTagWeighted(tax *taxonomy.Taxonomy) *TagWeighted {
	entries := make([]weightedEntry, len(tax.Entries))
	for i, e := range tax.Entries {
		kws := make([]string, 0, len(e.Keywords))
		for _, kw := range e.Keywords {
			if n := taxonomy.Normalize(kw); n != "" {
				kws = append(kws, n)
			}
		}
		entries[i] = weightedEntry{
			genre:    e.Genre,
			primary:  taxonomy.Normalize(string(e.Genre)),
			keywords: kws,
			weight:   float64(e.Weight),
		}
	}
	return &TagWeighted{fallback: tax.Default, entries: entries}
}

// positionWeight is max(1, 5 - index).
func positionWeight(index int) float64 {
	return float64(max(1, maxTagPositions-index))
}

// Classify scores every entry over all tags and returns the highest scoring
// genre. Ties go to the entry declared first. Confidence is the score over
// the best achievable score for that entry (five exact primary matches).
func (c *TagWeighted) Classify(tags []string) Result {
	scores := make([]float64, len(c.entries))
	for i, raw := range tags {
		tag := taxonomy.Normalize(raw)
		if tag == "" {
			continue
		}
		pw := positionWeight(i)
		for j := range c.entries {
			if m := matchStrength(tag, &c.entries[j]); m > 0 {
				scores[j] += c.entries[j].weight * float64(m) * pw
			}
		}
	}

	best := -1
	bestScore := 0.0
	for j, s := range scores {
		if s > bestScore {
			best, bestScore = j, s
		}
	}
	if best < 0 {
		return Result{Genre: c.fallback}
	}

	e := c.entries[best]
	ceiling := e.weight * primaryMatch * maxTagPositions
	return Result{Genre: e.genre, Confidence: clamp01(bestScore / ceiling)}
}

// matchStrength returns the strongest way tag matches e, or 0.
func matchStrength(tag string, e *weightedEntry) int {
	if tag == e.primary {
		return primaryMatch
	}
	best := 0
	for _, kw := range e.keywords {
		if tag == kw {
			return keywordMatch
		}
		if best == 0 && substringOf(tag, kw) {
			best = substringMatch
		}
	}
	return best
}

// substringOf reports containment in either direction.
func substringOf(a, b string) bool {
	if len(a) < minSubstringLen || len(b) < minSubstringLen {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}
