package group

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/starchart/internal/classify"
	"github.com/llehouerou/starchart/internal/music"
	"github.com/llehouerou/starchart/internal/taxonomy"
)

// fixed classifies by the first tag, which must be "<genre>|<confidence key>".
type fixed map[string]classify.Result

func (f fixed) Classify(raw []string) classify.Result {
	if len(raw) == 0 {
		return classify.Result{Genre: taxonomy.Alternative}
	}
	return f[raw[0]]
}

func ranked(name, tag string, priority int) music.Ranked {
	return music.Ranked{
		RawArtist: music.RawArtist{Name: name, Tags: []string{tag}},
		Priority:  priority,
	}
}

func bucketNames(b *Bucket) []string {
	out := make([]string, len(b.Artists))
	for i, a := range b.Artists {
		out[i] = a.Name
	}
	return out
}

func TestGroup_Buckets(t *testing.T) {
	c := fixed{
		"rock-hi": {Genre: taxonomy.Rock, Confidence: 0.9},
		"rock-lo": {Genre: taxonomy.Rock, Confidence: 0.3},
		"jazz":    {Genre: taxonomy.Jazz, Confidence: 0.6},
	}
	pool := []music.Ranked{
		ranked("A", "rock-lo", 0),
		ranked("B", "jazz", 1),
		ranked("C", "rock-hi", 2),
		{RawArtist: music.RawArtist{Name: "D"}, Priority: 3},
	}

	buckets := Group(pool, c)

	require.Len(t, buckets, 3)
	assert.Equal(t, 4, buckets.ArtistCount())
	assert.Equal(t, []string{"C", "A"}, bucketNames(buckets[taxonomy.Rock]))
	assert.InDelta(t, 0.6, buckets[taxonomy.Rock].MeanConfidence, 1e-9)
	assert.Equal(t, []string{"D"}, bucketNames(buckets[taxonomy.Alternative]))
	assert.Zero(t, buckets[taxonomy.Alternative].MeanConfidence)
}

func TestGroup_PriorityWithinTieWindow(t *testing.T) {
	c := fixed{
		"a": {Genre: taxonomy.Pop, Confidence: 0.55},
		"b": {Genre: taxonomy.Pop, Confidence: 0.60},
		"c": {Genre: taxonomy.Pop, Confidence: 0.50},
	}
	pool := []music.Ranked{
		ranked("late", "b", 7),
		ranked("early", "a", 2),
		ranked("earliest", "c", 0),
	}

	buckets := Group(pool, c)
	assert.Equal(t, []string{"earliest", "early", "late"}, bucketNames(buckets[taxonomy.Pop]))
}

func TestGroup_ConfidenceOutsideTieWindow(t *testing.T) {
	c := fixed{
		"weak":   {Genre: taxonomy.Pop, Confidence: 0.2},
		"strong": {Genre: taxonomy.Pop, Confidence: 0.9},
	}
	pool := []music.Ranked{
		ranked("first", "weak", 0),
		ranked("second", "strong", 1),
	}

	buckets := Group(pool, c)
	assert.Equal(t, []string{"second", "first"}, bucketNames(buckets[taxonomy.Pop]))
}

func TestGroup_Empty(t *testing.T) {
	buckets := Group(nil, fixed{})
	assert.Empty(t, buckets)
	assert.Zero(t, buckets.ArtistCount())
}

func TestGroup_Deterministic(t *testing.T) {
	c := classify.NewTagWeighted(taxonomy.Default())
	pool := []music.Ranked{
		ranked("A", "rock", 0),
		ranked("B", "jazz", 1),
		ranked("C", "punk", 2),
		ranked("D", "hard rock", 3),
	}

	first := Group(pool, c)
	for range 10 {
		again := Group(pool, c)
		for g, b := range first {
			assert.Equal(t, bucketNames(b), bucketNames(again[g]))
		}
	}
}
