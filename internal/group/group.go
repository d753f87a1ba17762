// Package group partitions a pooled artist list into canonical genre buckets.
package group

import (
	"math"

	"github.com/llehouerou/starchart/internal/classify"
	"github.com/llehouerou/starchart/internal/music"
	"github.com/llehouerou/starchart/internal/taxonomy"
)

// tieWindow is the confidence difference under which source priority decides
// the order inside a bucket.
const tieWindow = 0.1

// Classified is a pooled artist with its genre and confidence.
type Classified struct {
	music.Ranked
	Genre      taxonomy.Genre
	Confidence float64
}

// Bucket holds the artists classified into one genre, best first.
type Bucket struct {
	Genre          taxonomy.Genre
	Artists        []Classified
	MeanConfidence float64
}

// Buckets maps each genre that has at least one artist to its bucket.
type Buckets map[taxonomy.Genre]*Bucket

// ArtistCount returns the number of artists across all buckets.
func (b Buckets) ArtistCount() int {
	n := 0
	for _, bucket := range b {
		n += len(bucket.Artists)
	}
	return n
}

// Group classifies every artist of pool and buckets it by genre.
func Group(pool []music.Ranked, c classify.Classifier) Buckets {
	buckets := make(Buckets)
	for _, a := range pool {
		res := c.Classify(a.Tags)
		b, ok := buckets[res.Genre]
		if !ok {
			b = &Bucket{Genre: res.Genre}
			buckets[res.Genre] = b
		}
		b.insert(Classified{Ranked: a, Genre: res.Genre, Confidence: res.Confidence})
	}

	for _, b := range buckets {
		sum := 0.0
		for _, a := range b.Artists {
			sum += a.Confidence
		}
		b.MeanConfidence = sum / float64(len(b.Artists))
	}
	return buckets
}

// ranksBefore orders by confidence descending, except that confidences within
// tieWindow of each other are ordered by ascending priority.
func ranksBefore(a, b Classified) bool {
	if math.Abs(a.Confidence-b.Confidence) <= tieWindow {
		return a.Priority < b.Priority
	}
	return a.Confidence > b.Confidence
}

// insert places a before the first member it ranks ahead of. The rule is not
// transitive, so a stable insertion keeps the result a function of pool order.
func (b *Bucket) insert(a Classified) {
	at := len(b.Artists)
	for i, existing := range b.Artists {
		if ranksBefore(a, existing) {
			at = i
			break
		}
	}
	b.Artists = append(b.Artists, Classified{})
	copy(b.Artists[at+1:], b.Artists[at:])
	b.Artists[at] = a
}
