package render

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/llehouerou/starchart/internal/assign"
	"github.com/llehouerou/starchart/internal/chart"
	"github.com/llehouerou/starchart/internal/music"
	"github.com/llehouerou/starchart/internal/position"
	"github.com/llehouerou/starchart/internal/state"
	"github.com/llehouerou/starchart/internal/taxonomy"
)

var fixedNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestRenderer() *Renderer {
	r := New(position.Default())
	r.now = func() time.Time { return fixedNow }
	return r
}

func TestRenderer_Chart(t *testing.T) {
	c := &chart.Chart{
		Listener:   "alice",
		ComputedAt: fixedNow.Add(-2 * time.Hour),
		Positions: []assign.Assignment{
			{
				Position: position.Sun,
				Genre:    taxonomy.Jazz,
				Artists:  []music.ArtistRef{{ID: "1", Name: "Miles Davis"}, {ID: "2", Name: "Bill Evans"}},
				Pass:     assign.PassScored,
			},
			{
				Position: position.Pluto,
				Genre:    taxonomy.Blues,
				Artists:  []music.ArtistRef{{ID: "3", Name: "Muddy Waters"}},
				Pass:     assign.PassBackfill,
			},
		},
		Profile: chart.Profile{Sign: taxonomy.Jazz, Diversity: 0.25, Popularity: 0.5},
		Counts:  chart.Counts{Artists: 1200, Tracks: 50, Genres: 6},
	}

	out := newTestRenderer().Chart(c)

	assert.Contains(t, out, "Chart for alice")
	assert.Contains(t, out, "Sun")
	assert.Contains(t, out, "Miles Davis, Bill Evans")
	assert.Contains(t, out, "Pluto")
	assert.Contains(t, out, "(backfill)")
	assert.Contains(t, out, "2/11 positions")
	assert.Contains(t, out, "1,200 artists")
	assert.Contains(t, out, "2 hours ago")
}

func TestRenderer_Summaries(t *testing.T) {
	r := newTestRenderer()

	assert.Contains(t, r.Summaries(nil), "No charts stored yet.")

	out := r.Summaries([]state.ChartSummary{
		{Listener: "alice", Sign: "Jazz", Filled: 9, ComputedAt: fixedNow.Add(-time.Minute)},
		{Listener: "bob", Sign: "Metal", Filled: 6, ComputedAt: fixedNow.Add(-72 * time.Hour)},
	})
	assert.Contains(t, out, "alice")
	assert.Contains(t, out, "9 positions")
	assert.Contains(t, out, "1 minute ago")
	assert.Contains(t, out, "3 days ago")
}

func TestRenderer_UnknownPositionUsesID(t *testing.T) {
	r := New(nil)
	assert.Equal(t, "comet", r.title("comet"))
}
