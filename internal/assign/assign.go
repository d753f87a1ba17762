// Package assign distributes genre buckets across the chart positions.
//
// Each position, in priority order, scores every eligible genre and takes up
// to MaxArtists unused artists from the best one. A second pass backfills
// positions the scored pass left empty, and positions still empty are dropped.
// An artist is never placed on more than one position.
package assign

import (
	"slices"

	"github.com/llehouerou/starchart/internal/group"
	"github.com/llehouerou/starchart/internal/music"
	"github.com/llehouerou/starchart/internal/position"
	"github.com/llehouerou/starchart/internal/taxonomy"
)

// Passes recorded on assignments.
const (
	PassScored   = 1
	PassBackfill = 2
)

// Assignment is a filled chart position.
type Assignment struct {
	Position position.ID       `json:"position"`
	Genre    taxonomy.Genre    `json:"genre"`
	Artists  []music.ArtistRef `json:"artists"`
	Pass     int               `json:"pass"`
}

// Chart maps each filled position to its assignment.
type Chart map[position.ID]Assignment

// Filled returns the number of filled positions.
func (c Chart) Filled() int {
	return len(c)
}

// InOrder returns the assignments in position priority order.
func (c Chart) InOrder() []Assignment {
	out := make([]Assignment, 0, len(c))
	for _, id := range position.Order {
		if a, ok := c[id]; ok {
			out = append(out, a)
		}
	}
	return out
}

// Engine assigns genres and artists to positions. It holds only read-only
// configuration and is safe for concurrent use.
type Engine struct {
	positions position.Table
	tax       *taxonomy.Taxonomy
	weights   Weights
}

// New creates an Engine.
func New(positions position.Table, tax *taxonomy.Taxonomy, w Weights) *Engine {
	return &Engine{positions: positions, tax: tax, weights: w}
}

// scan is the per-invocation accumulator.
type scan struct {
	used  map[string]bool
	usage map[taxonomy.Genre]int
}

func newScan() *scan {
	return &scan{used: make(map[string]bool), usage: make(map[taxonomy.Genre]int)}
}

func (s *scan) unused(b *group.Bucket) int {
	n := 0
	for _, a := range b.Artists {
		if !s.used[a.ID()] {
			n++
		}
	}
	return n
}

// take marks up to limit unused artists of b as used and returns them in
// bucket order.
func (s *scan) take(b *group.Bucket, limit int) []music.ArtistRef {
	refs := make([]music.ArtistRef, 0, limit)
	for _, a := range b.Artists {
		if len(refs) == limit {
			break
		}
		if s.used[a.ID()] {
			continue
		}
		s.used[a.ID()] = true
		refs = append(refs, a.Ref())
	}
	s.usage[b.Genre]++
	return refs
}

// Assign builds a chart from buckets.
func (e *Engine) Assign(buckets group.Buckets) Chart {
	eligible := e.eligible(buckets)
	st := newScan()
	slots := make(map[position.ID]Assignment, len(e.positions))

	for _, p := range e.positions {
		b, ok := e.best(p, eligible, st)
		if !ok {
			continue
		}
		slots[p.ID] = Assignment{
			Position: p.ID,
			Genre:    b.Genre,
			Artists:  st.take(b, e.weights.MaxArtists),
			Pass:     PassScored,
		}
	}

	for _, p := range e.positions {
		if _, filled := slots[p.ID]; filled {
			continue
		}
		for _, b := range eligible {
			if st.unused(b) == 0 {
				continue
			}
			slots[p.ID] = Assignment{
				Position: p.ID,
				Genre:    b.Genre,
				Artists:  st.take(b, e.weights.MaxArtists),
				Pass:     PassBackfill,
			}
			break
		}
	}

	chart := make(Chart, len(slots))
	for id, a := range slots {
		if a.Genre == "" || len(a.Artists) == 0 {
			continue
		}
		chart[id] = a
	}
	return chart
}

// best returns the strictly highest positive scoring genre for p, or false
// when none scores above zero or the winner has no unused artist left.
func (e *Engine) best(p position.Position, eligible []*group.Bucket, st *scan) (*group.Bucket, bool) {
	var winner *group.Bucket
	top := 0.0
	for _, b := range eligible {
		if s := e.score(p, b, st); s > top {
			winner, top = b, s
		}
	}
	if winner == nil || st.unused(winner) == 0 {
		return nil, false
	}
	return winner, true
}

func (e *Engine) score(p position.Position, b *group.Bucket, st *scan) float64 {
	w := e.weights
	score := 0.0
	if p.Likes(b.Genre) {
		score = w.Affinity
	}
	if p.Avoids(b.Genre) {
		score -= w.Avoid
	}
	score += b.MeanConfidence * w.Confidence
	score += min(float64(len(b.Artists))*w.PerArtist, w.VolumeCap)
	score -= float64(st.usage[b.Genre]) * w.Repeat
	if st.unused(b) >= w.DepthMin {
		score += w.Depth
	}
	return score
}

// eligible returns the non-empty buckets above the confidence floor in
// taxonomy declaration order. If none clears the floor, every non-empty bucket
// is eligible.
func (e *Engine) eligible(buckets group.Buckets) []*group.Bucket {
	var all, confident []*group.Bucket
	for _, g := range e.order(buckets) {
		b := buckets[g]
		if len(b.Artists) == 0 {
			continue
		}
		all = append(all, b)
		if b.MeanConfidence > e.weights.ConfidenceFloor {
			confident = append(confident, b)
		}
	}
	if len(confident) == 0 {
		return all
	}
	return confident
}

// order lists bucket genres by taxonomy index; genres outside the taxonomy
// follow alphabetically.
func (e *Engine) order(buckets group.Buckets) []taxonomy.Genre {
	known := make([]taxonomy.Genre, 0, len(buckets))
	var unknown []taxonomy.Genre
	for _, g := range e.tax.Genres() {
		if _, ok := buckets[g]; ok {
			known = append(known, g)
		}
	}
	for g := range buckets {
		if !e.tax.Has(g) {
			unknown = append(unknown, g)
		}
	}
	slices.Sort(unknown)
	return append(known, unknown...)
}
