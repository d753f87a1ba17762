//nolint:goconst // test cases intentionally repeat tag strings
package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/starchart/internal/taxonomy"
)

func TestTagWeighted_Classify(t *testing.T) {
	c := NewTagWeighted(taxonomy.Default())

	tests := []struct {
		name           string
		tags           []string
		wantGenre      taxonomy.Genre
		wantConfidence float64
	}{
		{"keywords clamp to full confidence", []string{"hip-hop", "rap", "seen live"}, taxonomy.HipHop, 1},
		{"single primary tag", []string{"jazz"}, taxonomy.Jazz, 1},
		{"primary beats substring hits", []string{"rock"}, taxonomy.Rock, 1},
		{"late tag weighs one", []string{"x1", "x2", "x3", "x4", "blues"}, taxonomy.Blues, 0.2},
		{"empty falls back", nil, taxonomy.Alternative, 0},
		{"unknown tags fall back", []string{"seen live", "favorites"}, taxonomy.Alternative, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.tags)
			assert.Equal(t, tt.wantGenre, got.Genre)
			assert.InDelta(t, tt.wantConfidence, got.Confidence, 1e-9)
		})
	}
}

func TestTagWeighted_OrderMatters(t *testing.T) {
	c := NewTagWeighted(taxonomy.Default())

	assert.Equal(t, taxonomy.Soul, c.Classify([]string{"soul", "jazz"}).Genre)
	assert.Equal(t, taxonomy.Jazz, c.Classify([]string{"jazz", "soul"}).Genre)
}

func TestTagWeighted_ConfidenceBounded(t *testing.T) {
	c := NewTagWeighted(taxonomy.Default())

	inputs := [][]string{
		{"rock", "rock", "rock", "rock", "rock", "rock", "rock", "rock"},
		{"indie", "indie rock", "rock", "punk"},
		{"Música Latina", "reggaeton"},
		{"", "  ", "a"},
	}
	for _, tags := range inputs {
		got := c.Classify(tags)
		assert.GreaterOrEqual(t, got.Confidence, 0.0, tags)
		assert.LessOrEqual(t, got.Confidence, 1.0, tags)
		assert.NotEmpty(t, got.Genre)
	}
}

func TestSubstringOf_ShortStrings(t *testing.T) {
	assert.False(t, substringOf("ro", "rock"))
	assert.True(t, substringOf("rock", "punk rock"))
	assert.True(t, substringOf("punk rock", "rock"))
}

func TestSubstring_Category(t *testing.T) {
	c := NewSubstring(taxonomy.Default())

	tests := []struct {
		input string
		want  taxonomy.Genre
		ok    bool
	}{
		{"Pop Rap", taxonomy.HipHop, true},
		{"Latin Pop", taxonomy.Latin, true},
		{"indie rock", taxonomy.Alternative, true},
		{"dubstep", taxonomy.Electronic, true},
		{"dancehall", taxonomy.Reggae, true},
		{"chillwave", taxonomy.Electronic, true},
		{"ambient", taxonomy.Electronic, true},
		{"neo soul", taxonomy.RnB, true},
		{"zydeco", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := c.Category(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSubstring_Tally(t *testing.T) {
	c := NewSubstring(taxonomy.Default())

	tally := c.Tally([]string{"pop rap", "trap", "indie rock", "zydeco", ""})
	assert.Equal(t, 4, tally.Total)
	assert.Equal(t, 3, tally.Matched)
	assert.Equal(t, 2, tally.Counts[taxonomy.HipHop])
	assert.Equal(t, 1, tally.Counts[taxonomy.Alternative])

	ranked := tally.Ranked(taxonomy.Default())
	require.Len(t, ranked, 2)
	assert.Equal(t, Count{Genre: taxonomy.HipHop, N: 2}, ranked[0])
}

func TestTally_RankedTiesByDeclaration(t *testing.T) {
	tally := Tally{Counts: map[taxonomy.Genre]int{
		taxonomy.Pop:         2,
		taxonomy.Alternative: 2,
		taxonomy.HipHop:      2,
		taxonomy.Jazz:        0,
	}}

	ranked := tally.Ranked(taxonomy.Default())
	require.Len(t, ranked, 3)
	assert.Equal(t, taxonomy.HipHop, ranked[0].Genre)
	assert.Equal(t, taxonomy.Pop, ranked[1].Genre)
	assert.Equal(t, taxonomy.Alternative, ranked[2].Genre)
}

func TestSubstring_Classify(t *testing.T) {
	c := NewSubstring(taxonomy.Default())

	got := c.Classify([]string{"pop rap", "trap", "indie rock", "zydeco", ""})
	assert.Equal(t, taxonomy.HipHop, got.Genre)
	assert.InDelta(t, 0.5, got.Confidence, 1e-9)

	empty := c.Classify(nil)
	assert.Equal(t, Result{Genre: taxonomy.Alternative}, empty)

	unmatched := c.Classify([]string{"zydeco"})
	assert.Equal(t, Result{Genre: taxonomy.Alternative}, unmatched)
}

func TestForSource(t *testing.T) {
	tax := taxonomy.Default()

	_, ok := ForSource(SourceGenres, tax).(*Substring)
	assert.True(t, ok)
	_, ok = ForSource(SourceTags, tax).(*TagWeighted)
	assert.True(t, ok)
}

func TestParseSource(t *testing.T) {
	src, err := ParseSource("")
	require.NoError(t, err)
	assert.Equal(t, SourceTags, src)

	src, err = ParseSource("genres")
	require.NoError(t, err)
	assert.Equal(t, SourceGenres, src)

	_, err = ParseSource("spotify")
	assert.Error(t, err)
}
