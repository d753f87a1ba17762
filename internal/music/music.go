// Package music defines the listening data exchanged between the data
// sources and the chart pipeline.
package music

import "strings"

// Window is a listening observation period.
type Window string

// Observation windows, in the Last.fm period vocabulary.
const (
	Week     Window = "7day"
	Month    Window = "1month"
	Quarter  Window = "3month"
	HalfYear Window = "6month"
	Year     Window = "12month"
	Overall  Window = "overall"
)

// Valid reports whether w is a known window.
func (w Window) Valid() bool {
	switch w {
	case Week, Month, Quarter, HalfYear, Year, Overall:
		return true
	}
	return false
}

// RawArtist is an artist as returned by a listening-data source.
type RawArtist struct {
	ExternalID string   `json:"id,omitempty"`
	Name       string   `json:"name"`
	Tags       []string `json:"genres,omitempty"`     // ordered, most significant first
	Popularity int      `json:"popularity,omitempty"` // 0-100, 0 when unknown
	Followers  int64    `json:"followers,omitempty"`  // followers or listeners
}

// ID returns the artist's external id, falling back to its name.
func (a RawArtist) ID() string {
	if a.ExternalID != "" {
		return a.ExternalID
	}
	return a.Name
}

// Ref returns the reference stored on a chart position.
func (a RawArtist) Ref() ArtistRef {
	return ArtistRef{ID: a.ID(), Name: a.Name}
}

// Track is a top-track record. Only its artist feeds the pipeline.
type Track struct {
	Name   string    `json:"name"`
	Artist RawArtist `json:"artist"`
}

// Ranked is a pooled artist with its source priority (lower is more
// significant).
type Ranked struct {
	RawArtist
	Priority int
}

// ArtistRef identifies an artist on a chart.
type ArtistRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ArtistsFromTracks returns the distinct artists of tracks in order of first
// appearance. Artists are compared by lowercase name.
func ArtistsFromTracks(tracks []Track) []RawArtist {
	seen := make(map[string]bool, len(tracks))
	artists := make([]RawArtist, 0, len(tracks))
	for _, t := range tracks {
		key := strings.ToLower(strings.TrimSpace(t.Artist.Name))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		artists = append(artists, t.Artist)
	}
	return artists
}
