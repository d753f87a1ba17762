package classify

import (
	"cmp"
	"slices"
	"strings"

	"github.com/llehouerou/starchart/internal/taxonomy"
)

type keywordSet struct {
	genre    taxonomy.Genre
	keywords []string
}

// Substring classifies coarse genre strings by first-match substring lookup
// over the taxonomy categories, then over the heuristic rules.
type Substring struct {
	tax        *taxonomy.Taxonomy
	categories []keywordSet
	heuristics []keywordSet
}

// NewSubstring builds a substring classifier over tax's categories.
func NewSubstring(tax *taxonomy.Taxonomy) *Substring {
	c := &Substring{tax: tax}
	for _, cat := range tax.Categories {
		c.categories = append(c.categories, keywordSet{genre: cat.Genre, keywords: normalizeAll(cat.Keywords)})
	}
	for _, r := range tax.Heuristics {
		c.heuristics = append(c.heuristics, keywordSet{genre: r.Genre, keywords: normalizeAll(r.Contains)})
	}
	return c
}

func normalizeAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if n := taxonomy.Normalize(s); n != "" {
			out = append(out, n)
		}
	}
	return out
}

func firstMatch(sets []keywordSet, s string) (taxonomy.Genre, bool) {
	for _, set := range sets {
		for _, kw := range set.keywords {
			if strings.Contains(s, kw) {
				return set.genre, true
			}
		}
	}
	return "", false
}

// Category returns the canonical genre of a single genre string, or false
// when neither a category nor a heuristic matches.
func (c *Substring) Category(raw string) (taxonomy.Genre, bool) {
	s := taxonomy.Normalize(raw)
	if s == "" {
		return "", false
	}
	if g, ok := firstMatch(c.categories, s); ok {
		return g, true
	}
	return firstMatch(c.heuristics, s)
}

// Tally counts the categories of all strings.
func (c *Substring) Tally(raw []string) Tally {
	t := Tally{Counts: make(map[taxonomy.Genre]int)}
	c.addTo(&t, raw)
	return t
}

func (c *Substring) addTo(t *Tally, raw []string) {
	for _, s := range raw {
		if strings.TrimSpace(s) == "" {
			continue
		}
		t.Total++
		if g, ok := c.Category(s); ok {
			t.Counts[g]++
			t.Matched++
		}
	}
}

// Classify returns the most frequent category among raw. Confidence is that
// category's share of the non-empty strings.
func (c *Substring) Classify(raw []string) Result {
	t := c.Tally(raw)
	ranked := t.Ranked(c.tax)
	if len(ranked) == 0 {
		return Result{Genre: c.tax.Default}
	}
	return Result{
		Genre:      ranked[0].Genre,
		Confidence: clamp01(float64(ranked[0].N) / float64(t.Total)),
	}
}

// Tally is a per-category count of classified genre strings.
type Tally struct {
	Counts  map[taxonomy.Genre]int
	Matched int // strings that mapped to a category
	Total   int // non-empty strings seen
}

// Count is one category of a ranked tally.
type Count struct {
	Genre taxonomy.Genre
	N     int
}

// Ranked returns the categories by count descending, ties in taxonomy
// declaration order.
func (t Tally) Ranked(tax *taxonomy.Taxonomy) []Count {
	counts := make([]Count, 0, len(t.Counts))
	for g, n := range t.Counts {
		if n > 0 {
			counts = append(counts, Count{Genre: g, N: n})
		}
	}
	slices.SortFunc(counts, func(a, b Count) int {
		if c := cmp.Compare(b.N, a.N); c != 0 {
			return c
		}
		ia, _ := tax.Index(a.Genre)
		ib, _ := tax.Index(b.Genre)
		return cmp.Compare(ia, ib)
	})
	return counts
}

// TallyArtists counts the categories of every genre string of every artist.
func (c *Substring) TallyArtists(genres [][]string) Tally {
	t := Tally{Counts: make(map[taxonomy.Genre]int)}
	for _, raw := range genres {
		c.addTo(&t, raw)
	}
	return t
}
