package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/starchart/internal/music"
	"github.com/llehouerou/starchart/internal/taxonomy"
)

type constRand float64

func (r constRand) Float64() float64 { return float64(r) }

func artist(name string, genres ...string) music.RawArtist {
	return music.RawArtist{Name: name, Tags: genres}
}

func TestSummarize_DominantSign(t *testing.T) {
	s := New(taxonomy.Default(), constRand(0))

	sum := s.Summarize([]music.RawArtist{
		artist("A", "trap", "pop rap"),
		artist("B", "drill"),
		artist("C", "indie rock"),
	})

	assert.Equal(t, 4, sum.Tally.Matched)
	assert.Equal(t, taxonomy.HipHop, sum.Sign)
	assert.InDelta(t, 0.25, sum.Diversity, 1e-9)

	dom, ok := sum.Dominant()
	require.True(t, ok)
	assert.Equal(t, taxonomy.HipHop, dom)
}

func TestSummarize_PairOverride(t *testing.T) {
	s := New(taxonomy.Default(), nil)

	// Hip Hop 2, R&B 2, Jazz 1: no share above 0.4, so the leading pair decides.
	sum := s.Summarize([]music.RawArtist{
		artist("A", "rap", "r&b"),
		artist("B", "trap", "neo soul"),
		artist("C", "jazz"),
	})

	assert.Equal(t, taxonomy.Soul, sum.Sign)
}

func TestSummarize_TopWithoutPair(t *testing.T) {
	s := New(taxonomy.Default(), nil)

	sum := s.Summarize([]music.RawArtist{
		artist("A", "jazz", "metal"),
		artist("B", "latin"),
		artist("C", "country"),
	})

	// Every category has one string; ties rank by declaration, Metal first
	// and Jazz second, which is not a sign pair.
	assert.Equal(t, taxonomy.Metal, sum.Sign)
}

func TestSummarize_QuadrantFallback(t *testing.T) {
	s := New(taxonomy.Default(), nil)

	tests := []struct {
		name    string
		artists []music.RawArtist
		want    taxonomy.Genre
	}{
		{
			name:    "popular",
			artists: []music.RawArtist{{Name: "A", Popularity: 90}},
			want:    taxonomy.Pop,
		},
		{
			name:    "obscure",
			artists: []music.RawArtist{{Name: "A", Popularity: 10}},
			want:    taxonomy.Folk,
		},
		{
			name:    "middling",
			artists: []music.RawArtist{{Name: "A", Popularity: 50}},
			want:    taxonomy.Rock,
		},
		{
			name:    "no data",
			artists: []music.RawArtist{{Name: "A", Tags: []string{"zydeco"}}},
			want:    taxonomy.Folk,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.Summarize(tt.artists).Sign)
		})
	}
}

func TestQuadrant(t *testing.T) {
	r := taxonomy.Default().Signs

	assert.Equal(t, taxonomy.Pop, quadrant(r, 0.8, 0.9))
	assert.Equal(t, taxonomy.Alternative, quadrant(r, 0.8, 0.1))
	assert.Equal(t, taxonomy.Pop, quadrant(r, 0.1, 0.9))
	assert.Equal(t, taxonomy.Folk, quadrant(r, 0.1, 0.1))
	assert.Equal(t, taxonomy.Rock, quadrant(r, 0.5, 0.5))
}

func TestPopularity(t *testing.T) {
	assert.Zero(t, popularity(nil))
	assert.InDelta(t, 0.5, artistPopularity(music.RawArtist{Popularity: 50}), 1e-9)
	assert.InDelta(t, 1.0, artistPopularity(music.RawArtist{Followers: 50_000_000}), 1e-9)

	both := artistPopularity(music.RawArtist{Popularity: 100, Followers: 9})
	assert.InDelta(t, (1.0+1.0/7)/2, both, 1e-9)

	assert.Zero(t, artistPopularity(music.RawArtist{}))
}

func TestBlend_EmptySide(t *testing.T) {
	s := New(taxonomy.Default(), constRand(0.99))
	jazz := []music.RawArtist{artist("A", "jazz"), artist("B", "bebop")}

	assert.Equal(t, taxonomy.Jazz, s.Blend(nil, jazz, 0.7))
	assert.Equal(t, taxonomy.Jazz, s.Blend(jazz, nil, 0.7))
}

func TestBlend_AgreeingDominant(t *testing.T) {
	s := New(taxonomy.Default(), constRand(0.99))
	a := []music.RawArtist{artist("A", "metal"), artist("B", "doom")}
	b := []music.RawArtist{artist("C", "death metal", "black metal", "rock")}

	assert.Equal(t, taxonomy.Metal, s.Blend(a, b, 0.7))
}

func TestBlend_WeightedChoice(t *testing.T) {
	recent := []music.RawArtist{artist("A", "jazz")}
	older := []music.RawArtist{artist("B", "reggae")}

	low := New(taxonomy.Default(), constRand(0.1))
	high := New(taxonomy.Default(), constRand(0.9))

	assert.Equal(t, taxonomy.Jazz, low.Blend(recent, older, 0.7))
	assert.Equal(t, taxonomy.Reggae, high.Blend(recent, older, 0.7))
}

func TestBlend_Reproducible(t *testing.T) {
	recent := []music.RawArtist{artist("A", "jazz"), artist("B", "salsa")}
	older := []music.RawArtist{artist("C", "reggae"), artist("D", "country")}

	s := New(taxonomy.Default(), constRand(0.5))
	first := s.Blend(recent, older, 0.7)
	for range 20 {
		assert.Equal(t, first, s.Blend(recent, older, 0.7))
	}
}
