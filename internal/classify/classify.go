// Package classify maps raw tag and genre strings onto canonical genres.
//
// Two strategies share the Classifier capability. TagWeighted scores ordered
// folksonomy tags against the taxonomy entries and yields a confidence.
// Substring performs a first-match category lookup over coarse genre strings
// and is the basis of genre tallies. Both are total: when nothing matches they
// return the taxonomy default with zero confidence.
package classify

import (
	"fmt"

	"github.com/llehouerou/starchart/internal/taxonomy"
)

// Result is a classification outcome. Confidence is in [0,1].
type Result struct {
	Genre      taxonomy.Genre
	Confidence float64
}

// Classifier maps an artist's raw strings to a canonical genre.
type Classifier interface {
	Classify(raw []string) Result
}

// Source identifies which kind of upstream data produced the raw strings.
type Source string

const (
	// SourceTags is ordered folksonomy tags (most voted first).
	SourceTags Source = "tags"
	// SourceGenres is unordered coarse genre strings.
	SourceGenres Source = "genres"
)

// ParseSource parses a source kind name.
func ParseSource(s string) (Source, error) {
	switch Source(s) {
	case SourceTags, SourceGenres:
		return Source(s), nil
	case "":
		return SourceTags, nil
	}
	return "", fmt.Errorf("unknown source kind %q", s)
}

// ForSource returns the classifier suited to src.
func ForSource(src Source, tax *taxonomy.Taxonomy) Classifier {
	if src == SourceGenres {
		return NewSubstring(tax)
	}
	return NewTagWeighted(tax)
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
