// Package render formats charts for the terminal.
package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"

	"github.com/llehouerou/starchart/internal/assign"
	"github.com/llehouerou/starchart/internal/chart"
	"github.com/llehouerou/starchart/internal/position"
	"github.com/llehouerou/starchart/internal/state"
)

// Renderer formats charts with a fixed style set.
type Renderer struct {
	s         Styles
	positions position.Table
	now       func() time.Time
}

// New creates a Renderer. positions provides the display titles.
func New(positions position.Table) *Renderer {
	return &Renderer{s: DefaultTheme.Styles(), positions: positions, now: time.Now}
}

// Chart renders a computed chart as a bordered panel.
func (r *Renderer) Chart(c *chart.Chart) string {
	titleWidth := 0
	for _, p := range c.Positions {
		titleWidth = max(titleWidth, runewidth.StringWidth(r.title(p.Position)))
	}

	var sb strings.Builder
	sb.WriteString(r.s.Title.Render(fmt.Sprintf("Chart for %s", sanitize(c.Listener))))
	sb.WriteString("  ")
	sb.WriteString(r.s.Muted.Render("sign "))
	sb.WriteString(r.s.Genre.Render(string(c.Profile.Sign)))
	sb.WriteString("\n\n")

	for _, p := range c.Positions {
		sb.WriteString(r.s.Position.Render(pad(r.title(p.Position), titleWidth)))
		sb.WriteString("  ")
		sb.WriteString(r.s.Genre.Render(string(p.Genre)))
		sb.WriteString(r.s.Subtle.Render(" · "))
		sb.WriteString(r.s.Base.Render(truncate(artistNames(p), artistWidth)))
		if p.Pass == assign.PassBackfill {
			sb.WriteString(r.s.Backfill.Render(" (backfill)"))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(r.s.Subtle.Render(fmt.Sprintf(
		"%d/%d positions · %s artists · %d tracks · %d genres · diversity %.2f · popularity %.2f · %s",
		c.Filled(), len(r.positions),
		humanize.Comma(int64(c.Counts.Artists)), c.Counts.Tracks, c.Counts.Genres,
		c.Profile.Diversity, c.Profile.Popularity,
		humanize.RelTime(c.ComputedAt, r.now(), "ago", "from now"),
	)))

	return r.s.Panel.Render(sb.String())
}

// Summaries renders the stored chart list, one line per listener.
func (r *Renderer) Summaries(list []state.ChartSummary) string {
	if len(list) == 0 {
		return r.s.Muted.Render("No charts stored yet.")
	}

	nameWidth := 0
	for _, s := range list {
		nameWidth = max(nameWidth, runewidth.StringWidth(s.Listener))
	}

	var sb strings.Builder
	for i, s := range list {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(r.s.Title.Render(pad(s.Listener, nameWidth)))
		sb.WriteString("  ")
		sb.WriteString(r.s.Genre.Render(s.Sign))
		sb.WriteString(r.s.Muted.Render(fmt.Sprintf("  %d positions  ", s.Filled)))
		sb.WriteString(r.s.Subtle.Render(humanize.RelTime(s.ComputedAt, r.now(), "ago", "from now")))
	}
	return sb.String()
}

func (r *Renderer) title(id position.ID) string {
	if p, ok := r.positions.Get(id); ok && p.Title != "" {
		return p.Title
	}
	return string(id)
}

func artistNames(a assign.Assignment) string {
	names := make([]string, len(a.Artists))
	for i, ref := range a.Artists {
		names[i] = ref.Name
	}
	return strings.Join(names, ", ")
}
