// Package aggregate merges artist lists from several sources and windows into
// one de-duplicated, priority-ordered pool.
package aggregate

import (
	"strings"
	"unicode"

	"github.com/llehouerou/starchart/internal/music"
)

// Key derives the identity under which artists are de-duplicated. An empty
// key drops the artist.
type Key func(music.RawArtist) string

// ByName keys artists by normalized name.
func ByName(a music.RawArtist) string {
	return normalizeName(a.Name)
}

// ByID keys artists by external id, falling back to normalized name.
func ByID(a music.RawArtist) string {
	if id := strings.TrimSpace(a.ExternalID); id != "" {
		return id
	}
	return ByName(a)
}

// Merge returns primary followed by the secondary artists whose key is not
// already present. First occurrence wins. Primary entries keep their index as
// priority; secondary entries get len(primary) plus their index.
func Merge(primary, secondary []music.RawArtist, key Key) []music.Ranked {
	seen := make(map[string]bool, len(primary)+len(secondary))
	pool := make([]music.Ranked, 0, len(primary)+len(secondary))

	add := func(a music.RawArtist, priority int) {
		k := key(a)
		if k == "" || seen[k] {
			return
		}
		seen[k] = true
		pool = append(pool, music.Ranked{RawArtist: a, Priority: priority})
	}

	for i, a := range primary {
		add(a, i)
	}
	for i, a := range secondary {
		add(a, len(primary)+i)
	}
	return pool
}

// Concat flattens lists in order, keeping the first occurrence of each key.
func Concat(key Key, lists ...[]music.RawArtist) []music.RawArtist {
	var out []music.RawArtist
	for _, list := range lists {
		for _, r := range Merge(out, list, key)[len(out):] {
			out = append(out, r.RawArtist)
		}
	}
	return out
}

// Artists strips priorities from a pool.
func Artists(pool []music.Ranked) []music.RawArtist {
	out := make([]music.RawArtist, len(pool))
	for i, r := range pool {
		out[i] = r.RawArtist
	}
	return out
}

// normalizeName lowercases, removes punctuation and collapses whitespace.
func normalizeName(s string) string {
	s = strings.ToLower(s)

	var result strings.Builder
	lastWasSpace := true // trims leading spaces

	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			result.WriteRune(r)
			lastWasSpace = false
		} else if unicode.IsSpace(r) || r == '-' || r == '_' {
			if !lastWasSpace {
				result.WriteRune(' ')
				lastWasSpace = true
			}
		}
	}

	return strings.TrimSpace(result.String())
}
