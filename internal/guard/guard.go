// Package guard holds the insufficient-data checkpoints of the chart
// pipeline. Each failing checkpoint returns a *Error carrying the counts seen
// so far.
package guard

import (
	"errors"
	"fmt"
)

// ErrInsufficientData matches every *Error with errors.Is.
var ErrInsufficientData = errors.New("insufficient listening data")

// Stage identifies the checkpoint that failed.
type Stage int

const (
	StageRaw Stage = iota
	StageAggregated
	StageGrouped
	StageAssigned
)

func (s Stage) String() string {
	switch s {
	case StageRaw:
		return "raw"
	case StageAggregated:
		return "aggregated"
	case StageGrouped:
		return "grouped"
	case StageAssigned:
		return "assigned"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// Error is an insufficient-data failure.
type Error struct {
	Stage   Stage
	Artists int
	Tracks  int
	Genres  int
}

func (e *Error) Error() string {
	return fmt.Sprintf("%v at %s stage (artists=%d tracks=%d genres=%d)",
		ErrInsufficientData, e.Stage, e.Artists, e.Tracks, e.Genres)
}

// Is reports whether target is ErrInsufficientData.
func (e *Error) Is(target error) bool {
	return target == ErrInsufficientData
}

// Thresholds are the minimum counts each checkpoint requires.
type Thresholds struct {
	MinArtists   int `koanf:"min_artists"`   // raw top artists
	MinTracks    int `koanf:"min_tracks"`    // raw top tracks, alternative to MinArtists
	MinPooled    int `koanf:"min_pooled"`    // distinct artists after aggregation
	MinGenres    int `koanf:"min_genres"`    // genre buckets
	MinPositions int `koanf:"min_positions"` // filled positions
}

// DefaultThresholds returns the standard checkpoint minimums.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MinArtists:   5,
		MinTracks:    10,
		MinPooled:    5,
		MinGenres:    3,
		MinPositions: 5,
	}
}

// Guard evaluates checkpoints against its thresholds.
type Guard struct {
	t Thresholds
}

// New creates a Guard.
func New(t Thresholds) *Guard {
	return &Guard{t: t}
}

// Thresholds returns the configured minimums.
func (g *Guard) Thresholds() Thresholds {
	return g.t
}

// CheckRaw fails when both the raw artist and track counts are short.
func (g *Guard) CheckRaw(artists, tracks int) error {
	if artists < g.t.MinArtists && tracks < g.t.MinTracks {
		return &Error{Stage: StageRaw, Artists: artists, Tracks: tracks}
	}
	return nil
}

// CheckPool fails when aggregation left too few distinct artists.
func (g *Guard) CheckPool(pooled, tracks int) error {
	if pooled < g.t.MinPooled {
		return &Error{Stage: StageAggregated, Artists: pooled, Tracks: tracks}
	}
	return nil
}

// CheckGenres fails when grouping produced too few buckets.
func (g *Guard) CheckGenres(artists, tracks, genres int) error {
	if genres < g.t.MinGenres {
		return &Error{Stage: StageGrouped, Artists: artists, Tracks: tracks, Genres: genres}
	}
	return nil
}

// CheckChart fails when too few positions were filled.
func (g *Guard) CheckChart(filled, artists, tracks, genres int) error {
	if filled < g.t.MinPositions {
		return &Error{Stage: StageAssigned, Artists: artists, Tracks: tracks, Genres: genres}
	}
	return nil
}
