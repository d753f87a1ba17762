package taxonomy

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_Valid(t *testing.T) {
	tax := Default()

	genres := tax.Genres()
	require.Len(t, genres, 16)
	assert.Equal(t, HipHop, genres[0])
	assert.Equal(t, Alternative, genres[len(genres)-1])

	i, ok := tax.Index(Jazz)
	require.True(t, ok)
	assert.Equal(t, 6, i)
	assert.True(t, tax.Has(Folk))
	assert.False(t, tax.Has("Polka"))
}

func TestValidate_Defects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Taxonomy)
		want   string
	}{
		{
			name:   "no entries",
			mutate: func(t *Taxonomy) { t.Entries = nil },
			want:   "no genre entries",
		},
		{
			name:   "duplicate genre",
			mutate: func(t *Taxonomy) { t.Entries = append(t.Entries, Entry{Genre: Rock, Weight: 1}) },
			want:   `duplicate genre "Rock"`,
		},
		{
			name:   "zero weight",
			mutate: func(t *Taxonomy) { t.Entries[0].Weight = 0 },
			want:   "non-positive weight",
		},
		{
			name:   "unknown default",
			mutate: func(t *Taxonomy) { t.Default = "Polka" },
			want:   `default refers to unknown genre "Polka"`,
		},
		{
			name:   "unknown category genre",
			mutate: func(t *Taxonomy) { t.Categories[0].Genre = "Polka" },
			want:   "category 0",
		},
		{
			name:   "empty heuristic",
			mutate: func(t *Taxonomy) { t.Heuristics[1].Contains = nil },
			want:   "heuristic 1 has no patterns",
		},
		{
			name:   "unknown pair label",
			mutate: func(t *Taxonomy) { t.Signs.Pairs[0].Label = "Polka" },
			want:   "sign pair 0",
		},
		{
			name:   "dominant share out of range",
			mutate: func(t *Taxonomy) { t.Signs.DominantShare = 1 },
			want:   "dominant_share",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tax := Default()
			tt.mutate(tax)

			err := tax.Validate()
			var cerr *ConfigError
			require.ErrorAs(t, err, &cerr)
			assert.Equal(t, "taxonomy", cerr.Table)
			assert.Contains(t, cerr.Problem, tt.want)
		})
	}
}

func TestPair_Matches(t *testing.T) {
	p := Pair{A: HipHop, B: RnB, Label: Soul}
	assert.True(t, p.Matches(HipHop, RnB))
	assert.True(t, p.Matches(RnB, HipHop))
	assert.False(t, p.Matches(HipHop, Rock))
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Hip-Hop", "hip-hop"},
		{"  Música   Latina ", "musica latina"},
		{"Drum_and_Bass", "drum and bass"},
		{"R&B", "r&b"},
		{"Beyoncé", "beyonce"},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := Normalize(tt.input); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestLoad_EmptyPathReturnsDefault(t *testing.T) {
	tax, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().Genres(), tax.Genres())
}

func TestLoad_File(t *testing.T) {
	tax, err := Load(filepath.Join("testdata", "small.toml"))
	require.NoError(t, err)

	assert.Equal(t, []Genre{"Rock", "Jazz", "Other"}, tax.Genres())
	assert.Equal(t, Genre("Other"), tax.Default)
	require.Len(t, tax.Categories, 2)
	assert.Equal(t, []string{"jazz", "bebop"}, tax.Categories[1].Keywords)
	require.Len(t, tax.Signs.Pairs, 1)
	assert.Equal(t, Genre("Jazz"), tax.Signs.Pairs[0].Label)
	assert.InDelta(t, 0.5, tax.Signs.DominantShare, 1e-9)
}

func TestLoad_Invalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.toml")
	content := `
default = "Missing"

[[entries]]
genre = "Rock"
weight = 1
keywords = ["rock"]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	_, err := Load(path)
	var cerr *ConfigError
	require.True(t, errors.As(err, &cerr))
	assert.Contains(t, err.Error(), "Missing")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	var cerr *ConfigError
	require.ErrorAs(t, err, &cerr)
}
