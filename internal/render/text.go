package render

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

// artistWidth bounds the artist column of a chart line.
const artistWidth = 60

// sanitize drops control characters and invalid UTF-8 from upstream names
// and turns non-breaking spaces into plain ones.
func sanitize(s string) string {
	if !needsSanitize(s) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		switch {
		case r == utf8.RuneError && size <= 1:
			i++
			continue
		case r != '\t' && unicode.IsControl(r):
		case r == '\u00a0':
			b.WriteByte(' ')
		default:
			b.WriteString(s[i : i+size])
		}
		i += size
	}
	return b.String()
}

func needsSanitize(s string) bool {
	if !utf8.ValidString(s) {
		return true
	}
	for _, r := range s {
		if (r != '\t' && unicode.IsControl(r)) || r == '\u00a0' {
			return true
		}
	}
	return false
}

// truncate shortens s to maxWidth cells, wide characters included.
func truncate(s string, maxWidth int) string {
	return runewidth.Truncate(sanitize(s), maxWidth, "...")
}

// pad fills s with spaces up to width cells.
func pad(s string, width int) string {
	return runewidth.FillRight(s, width)
}
