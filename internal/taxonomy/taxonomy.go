// Package taxonomy holds the canonical genre vocabulary and the lookup tables
// used to map raw tag and genre strings onto it.
package taxonomy

import (
	"fmt"
	"strings"
)

// Genre is a canonical genre label.
type Genre string

// Entry is a canonical genre with the keywords that identify it in
// folksonomy tags. Weight is the relative authority of the entry.
type Entry struct {
	Genre    Genre    `koanf:"genre"`
	Keywords []string `koanf:"keywords"`
	Weight   int      `koanf:"weight"`
}

// Category maps coarse genre strings onto a canonical genre by substring
// containment. Categories are tested in declaration order.
type Category struct {
	Genre    Genre    `koanf:"genre"`
	Keywords []string `koanf:"keywords"`
}

// Rule is a heuristic applied to genre strings no category matched.
type Rule struct {
	Contains []string `koanf:"contains"`
	Genre    Genre    `koanf:"genre"`
}

// Pair overrides the sign when the two leading categories are A and B, in
// either order.
type Pair struct {
	A     Genre `koanf:"a"`
	B     Genre `koanf:"b"`
	Label Genre `koanf:"label"`
}

// Matches reports whether the pair covers x and y.
func (p Pair) Matches(x, y Genre) bool {
	return (p.A == x && p.B == y) || (p.A == y && p.B == x)
}

// SignRules configures single-sign derivation for listening profiles.
type SignRules struct {
	// DominantShare is the share of matched strings above which the top
	// category becomes the sign outright.
	DominantShare float64 `koanf:"dominant_share"`
	Pairs         []Pair  `koanf:"pairs"`

	// Quadrant fallback used when no genre string matched.
	HighDiversity  float64 `koanf:"high_diversity"`
	LowDiversity   float64 `koanf:"low_diversity"`
	HighPopularity float64 `koanf:"high_popularity"`
	LowPopularity  float64 `koanf:"low_popularity"`
	BroadAppeal    Genre   `koanf:"broad_appeal"`
	Niche          Genre   `koanf:"niche"`
	Specific       Genre   `koanf:"specific"`
	General        Genre   `koanf:"general"`
}

// Taxonomy is the full, read-only genre configuration.
type Taxonomy struct {
	Default    Genre      `koanf:"default"`
	Entries    []Entry    `koanf:"entries"`
	Categories []Category `koanf:"categories"`
	Heuristics []Rule     `koanf:"heuristics"`
	Signs      SignRules  `koanf:"signs"`

	index map[Genre]int
}

// ConfigError reports a malformed taxonomy or position table.
type ConfigError struct {
	Table   string
	Problem string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s configuration: %s", e.Table, e.Problem)
}

func defect(format string, args ...any) error {
	return &ConfigError{Table: "taxonomy", Problem: fmt.Sprintf(format, args...)}
}

// Validate checks the taxonomy for structural defects and builds the genre
// index. It must be called before the taxonomy is used.
func (t *Taxonomy) Validate() error {
	if len(t.Entries) == 0 {
		return defect("no genre entries")
	}

	index := make(map[Genre]int, len(t.Entries))
	for i, e := range t.Entries {
		if strings.TrimSpace(string(e.Genre)) == "" {
			return defect("entry %d has no genre label", i)
		}
		if _, dup := index[e.Genre]; dup {
			return defect("duplicate genre %q", e.Genre)
		}
		if e.Weight <= 0 {
			return defect("genre %q has non-positive weight %d", e.Genre, e.Weight)
		}
		index[e.Genre] = i
	}

	known := func(g Genre, what string) error {
		if _, ok := index[g]; !ok {
			return defect("%s refers to unknown genre %q", what, g)
		}
		return nil
	}

	if err := known(t.Default, "default"); err != nil {
		return err
	}
	for i, c := range t.Categories {
		if err := known(c.Genre, fmt.Sprintf("category %d", i)); err != nil {
			return err
		}
		if len(c.Keywords) == 0 {
			return defect("category %q has no keywords", c.Genre)
		}
	}
	for i, r := range t.Heuristics {
		if err := known(r.Genre, fmt.Sprintf("heuristic %d", i)); err != nil {
			return err
		}
		if len(r.Contains) == 0 {
			return defect("heuristic %d has no patterns", i)
		}
	}
	for i, p := range t.Signs.Pairs {
		for _, g := range []Genre{p.A, p.B, p.Label} {
			if err := known(g, fmt.Sprintf("sign pair %d", i)); err != nil {
				return err
			}
		}
	}
	for name, g := range map[string]Genre{
		"broad_appeal": t.Signs.BroadAppeal,
		"niche":        t.Signs.Niche,
		"specific":     t.Signs.Specific,
		"general":      t.Signs.General,
	} {
		if err := known(g, "sign "+name); err != nil {
			return err
		}
	}
	if t.Signs.DominantShare <= 0 || t.Signs.DominantShare >= 1 {
		return defect("dominant_share must be in (0,1), got %v", t.Signs.DominantShare)
	}

	t.index = index
	return nil
}

// Index returns the declaration position of g.
func (t *Taxonomy) Index(g Genre) (int, bool) {
	i, ok := t.index[g]
	return i, ok
}

// Genres returns the canonical genres in declaration order.
func (t *Taxonomy) Genres() []Genre {
	genres := make([]Genre, len(t.Entries))
	for i, e := range t.Entries {
		genres[i] = e.Genre
	}
	return genres
}

// Has reports whether g is a canonical genre.
func (t *Taxonomy) Has(g Genre) bool {
	_, ok := t.index[g]
	return ok
}
