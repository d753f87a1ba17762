package render

import (
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"clean", "Sigur Rós", "Sigur Rós"},
		{"control chars", "Bur\x00ial\x1b", "Burial"},
		{"tab kept", "a\tb", "a\tb"},
		{"nbsp", "Four\u00a0Tet", "Four Tet"},
		{"invalid utf8", "Bon\xffobo", "Bonobo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sanitize(tt.in))
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "Burial", truncate("Burial", 10))
	assert.Equal(t, "Massive...", truncate("Massive Attack", 10))

	wide := truncate(strings.Repeat("坂本", 10), 9)
	assert.LessOrEqual(t, runewidth.StringWidth(wide), 9)
	assert.True(t, strings.HasSuffix(wide, "..."))
}

func TestPad(t *testing.T) {
	assert.Equal(t, "ab   ", pad("ab", 5))
	assert.Equal(t, "abcdef", pad("abcdef", 3))
	assert.Equal(t, 6, runewidth.StringWidth(pad("坂本", 6)))
}
