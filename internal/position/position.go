// Package position defines the eleven chart positions and their genre
// affinities.
package position

import (
	"fmt"
	"slices"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/llehouerou/starchart/internal/taxonomy"
)

// ID identifies a chart position.
type ID string

// Chart positions.
const (
	Sun     ID = "sun"
	Moon    ID = "moon"
	Rising  ID = "rising"
	Venus   ID = "venus"
	Mars    ID = "mars"
	Mercury ID = "mercury"
	Jupiter ID = "jupiter"
	Saturn  ID = "saturn"
	Uranus  ID = "uranus"
	Neptune ID = "neptune"
	Pluto   ID = "pluto"
)

// Order is the assignment priority order.
var Order = []ID{Sun, Moon, Rising, Venus, Mars, Mercury, Jupiter, Saturn, Uranus, Neptune, Pluto}

// Position is a chart slot. Title and Theme are descriptive only.
type Position struct {
	ID         ID               `koanf:"id"`
	Title      string           `koanf:"title"`
	Theme      string           `koanf:"theme"`
	Affinities []taxonomy.Genre `koanf:"affinities"`
	Avoid      []taxonomy.Genre `koanf:"avoid"`
}

// Likes reports whether g is one of the position's affinities.
func (p Position) Likes(g taxonomy.Genre) bool {
	return slices.Contains(p.Affinities, g)
}

// Avoids reports whether g is penalized for the position.
func (p Position) Avoids(g taxonomy.Genre) bool {
	return slices.Contains(p.Avoid, g)
}

// Table is the position configuration in priority order.
type Table []Position

// Get returns the position with the given id.
func (t Table) Get(id ID) (Position, bool) {
	for _, p := range t {
		if p.ID == id {
			return p, true
		}
	}
	return Position{}, false
}

func defect(format string, args ...any) error {
	return &taxonomy.ConfigError{Table: "position", Problem: fmt.Sprintf(format, args...)}
}

// Validate checks that the table holds exactly the eleven positions in
// priority order and only references genres known to tax.
func (t Table) Validate(tax *taxonomy.Taxonomy) error {
	if len(t) != len(Order) {
		return defect("expected %d positions, got %d", len(Order), len(t))
	}
	for i, p := range t {
		if p.ID != Order[i] {
			return defect("position %d is %q, want %q", i, p.ID, Order[i])
		}
		for _, g := range p.Affinities {
			if !tax.Has(g) {
				return defect("%s affinity %q is not a canonical genre", p.ID, g)
			}
			if p.Avoids(g) {
				return defect("%s both favors and avoids %q", p.ID, g)
			}
		}
		for _, g := range p.Avoid {
			if !tax.Has(g) {
				return defect("%s avoids unknown genre %q", p.ID, g)
			}
		}
	}
	return nil
}

// Load reads a position table from a TOML file with a top-level
// [[positions]] array. An empty path returns the built-in table.
func Load(path string, tax *taxonomy.Taxonomy) (Table, error) {
	if path == "" {
		return Default(), nil
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
		return nil, defect("read %s: %v", path, err)
	}

	var t Table
	if err := k.Unmarshal("positions", &t); err != nil {
		return nil, defect("decode %s: %v", path, err)
	}
	if err := t.Validate(tax); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}
