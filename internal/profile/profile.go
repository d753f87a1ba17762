// Package profile summarizes a set of artists from their coarse genre strings
// into diversity and popularity scores and a single dominant sign.
//
// Blend is the only non-deterministic operation in the chart pipeline: when
// two artist sets disagree on their sign it picks one at random, weighted
// toward the first set. The random source is injectable for tests.
package profile

import (
	"math"
	"math/rand/v2"

	"github.com/llehouerou/starchart/internal/classify"
	"github.com/llehouerou/starchart/internal/music"
	"github.com/llehouerou/starchart/internal/taxonomy"
)

// followerDecades is the log10 follower count that maps to a score of 1
// (10 million followers or listeners).
const followerDecades = 7.0

// Rand is the random source used by Blend.
type Rand interface {
	Float64() float64
}

type globalRand struct{}

func (globalRand) Float64() float64 {
	return rand.Float64() //nolint:gosec // not security-sensitive
}

// Summary is the profile of one artist set.
type Summary struct {
	Tally      classify.Tally
	Ranked     []classify.Count
	Diversity  float64 // 1 - top category share, 0 when nothing matched
	Popularity float64 // mean per-artist popularity in [0,1]
	Sign       taxonomy.Genre
}

// Dominant returns the most frequent category.
func (s Summary) Dominant() (taxonomy.Genre, bool) {
	if len(s.Ranked) == 0 {
		return "", false
	}
	return s.Ranked[0].Genre, true
}

// Summarizer computes profiles against a taxonomy.
type Summarizer struct {
	tax *taxonomy.Taxonomy
	sub *classify.Substring
	rng Rand
}

// New creates a Summarizer. A nil rng uses the global math/rand source.
func New(tax *taxonomy.Taxonomy, rng Rand) *Summarizer {
	if rng == nil {
		rng = globalRand{}
	}
	return &Summarizer{tax: tax, sub: classify.NewSubstring(tax), rng: rng}
}

// Summarize tallies the genre strings of artists and derives the sign.
func (s *Summarizer) Summarize(artists []music.RawArtist) Summary {
	genres := make([][]string, len(artists))
	for i, a := range artists {
		genres[i] = a.Tags
	}

	sum := Summary{Tally: s.sub.TallyArtists(genres)}
	sum.Ranked = sum.Tally.Ranked(s.tax)
	if sum.Tally.Matched > 0 {
		sum.Diversity = 1 - float64(sum.Ranked[0].N)/float64(sum.Tally.Matched)
	}
	sum.Popularity = popularity(artists)
	sum.Sign = s.sign(sum)
	return sum
}

func (s *Summarizer) sign(sum Summary) taxonomy.Genre {
	rules := s.tax.Signs
	if sum.Tally.Matched == 0 {
		return quadrant(rules, sum.Diversity, sum.Popularity)
	}

	top := sum.Ranked[0]
	if float64(top.N)/float64(sum.Tally.Matched) > rules.DominantShare {
		return top.Genre
	}
	if len(sum.Ranked) > 1 {
		second := sum.Ranked[1].Genre
		for _, p := range rules.Pairs {
			if p.Matches(top.Genre, second) {
				return p.Label
			}
		}
	}
	return top.Genre
}

func quadrant(r taxonomy.SignRules, diversity, popularity float64) taxonomy.Genre {
	highDiv := diversity >= r.HighDiversity
	lowDiv := diversity <= r.LowDiversity
	highPop := popularity >= r.HighPopularity
	lowPop := popularity <= r.LowPopularity

	switch {
	case highDiv && highPop:
		return r.BroadAppeal
	case highDiv && lowPop:
		return r.Niche
	case lowDiv && highPop:
		return r.BroadAppeal
	case lowDiv && lowPop:
		return r.Specific
	default:
		return r.General
	}
}

// Blend returns the sign of the union of two listening periods. If either
// set is empty the other decides. Agreeing dominant categories win outright.
// Otherwise each set's sign is computed and, when they differ, the first is
// chosen with probability firstWeight.
func (s *Summarizer) Blend(first, second []music.RawArtist, firstWeight float64) taxonomy.Genre {
	if len(first) == 0 {
		return s.Summarize(second).Sign
	}
	if len(second) == 0 {
		return s.Summarize(first).Sign
	}

	a := s.Summarize(first)
	b := s.Summarize(second)
	da, okA := a.Dominant()
	db, okB := b.Dominant()
	if okA && okB && da == db {
		return da
	}
	if a.Sign == b.Sign {
		return a.Sign
	}
	if s.rng.Float64() < firstWeight {
		return a.Sign
	}
	return b.Sign
}

// popularity averages the per-artist scores. Each artist's score is the mean
// of whichever signals it carries: raw popularity (0-100) and a log10
// follower transform.
func popularity(artists []music.RawArtist) float64 {
	if len(artists) == 0 {
		return 0
	}
	total := 0.0
	for _, a := range artists {
		total += artistPopularity(a)
	}
	return total / float64(len(artists))
}

func artistPopularity(a music.RawArtist) float64 {
	sum, n := 0.0, 0
	if a.Popularity > 0 {
		sum += math.Min(float64(a.Popularity)/100, 1)
		n++
	}
	if a.Followers > 0 {
		sum += math.Min(math.Log10(float64(a.Followers)+1)/followerDecades, 1)
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
