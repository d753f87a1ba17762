// Package chart runs the full chart pipeline for one listener: guard the raw
// input, pool the artists, classify and group them, assign positions and
// derive the profile sign. Service wires the pipeline to a listening-data
// fetcher and a store.
package chart

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/llehouerou/starchart/internal/assign"
	"github.com/llehouerou/starchart/internal/classify"
	"github.com/llehouerou/starchart/internal/music"
	"github.com/llehouerou/starchart/internal/state"
	"github.com/llehouerou/starchart/internal/taxonomy"
)

// Inputs is everything fetched for one listener. Primary holds the recent
// windows, Secondary the longer ones. Kind selects the classifier.
type Inputs struct {
	Listener  string            `json:"listener"`
	Kind      classify.Source   `json:"kind"`
	Primary   []music.RawArtist `json:"primary"`
	Secondary []music.RawArtist `json:"secondary"`
	Tracks    []music.Track     `json:"tracks"`
}

// Profile is the summarized listening profile.
type Profile struct {
	Sign       taxonomy.Genre `json:"sign"`
	Diversity  float64        `json:"diversity"`
	Popularity float64        `json:"popularity"`
}

// Counts are the data volumes the chart was computed from.
type Counts struct {
	Artists int `json:"artists"`
	Tracks  int `json:"tracks"`
	Genres  int `json:"genres"`
}

// Chart is a computed chart. Positions are in priority order and only
// filled positions are present.
type Chart struct {
	Listener   string              `json:"listener"`
	RunID      string              `json:"run_id"`
	Kind       classify.Source     `json:"kind"`
	ComputedAt time.Time           `json:"computed_at"`
	Positions  []assign.Assignment `json:"positions"`
	Profile    Profile             `json:"profile"`
	Counts     Counts              `json:"counts"`
}

// Filled returns the number of filled positions.
func (c *Chart) Filled() int {
	return len(c.Positions)
}

// Backfilled returns the number of positions filled by the backfill pass.
func (c *Chart) Backfilled() int {
	n := 0
	for _, p := range c.Positions {
		if p.Pass == assign.PassBackfill {
			n++
		}
	}
	return n
}

// Record converts the chart to its stored form.
func (c *Chart) Record() (state.ChartRecord, error) {
	payload, err := json.Marshal(c)
	if err != nil {
		return state.ChartRecord{}, fmt.Errorf("encode chart: %w", err)
	}

	rec := state.ChartRecord{
		Listener:   c.Listener,
		RunID:      c.RunID,
		Kind:       string(c.Kind),
		Sign:       string(c.Profile.Sign),
		ComputedAt: c.ComputedAt,
		Payload:    payload,
		Positions:  make([]state.PositionRecord, len(c.Positions)),
	}
	for i, p := range c.Positions {
		names := make([]string, len(p.Artists))
		for j, a := range p.Artists {
			names[j] = a.Name
		}
		rec.Positions[i] = state.PositionRecord{
			Position: string(p.Position),
			Rank:     i,
			Genre:    string(p.Genre),
			Pass:     p.Pass,
			Artists:  names,
		}
	}
	return rec, nil
}

// Decode restores a chart from its stored form.
func Decode(rec *state.ChartRecord) (*Chart, error) {
	var c Chart
	if err := json.Unmarshal(rec.Payload, &c); err != nil {
		return nil, fmt.Errorf("decode chart of %s: %w", rec.Listener, err)
	}
	return &c, nil
}
