package render

import "github.com/charmbracelet/lipgloss"

// Theme is the color palette of terminal output.
type Theme struct {
	Primary   lipgloss.Color // position titles
	Secondary lipgloss.Color // genres and the sign

	FgBase   lipgloss.Color
	FgMuted  lipgloss.Color
	FgSubtle lipgloss.Color

	Border  lipgloss.Color
	Warning lipgloss.Color // backfilled positions
}

// Styles are the lipgloss styles built from a Theme.
type Styles struct {
	Title    lipgloss.Style
	Position lipgloss.Style
	Genre    lipgloss.Style
	Base     lipgloss.Style
	Muted    lipgloss.Style
	Subtle   lipgloss.Style
	Backfill lipgloss.Style
	Panel    lipgloss.Style
}

// DefaultTheme is the built-in palette.
var DefaultTheme = Theme{
	Primary:   lipgloss.Color("#a78bfa"),
	Secondary: lipgloss.Color("#f1a208"),

	FgBase:   lipgloss.Color("#c0c0c0"),
	FgMuted:  lipgloss.Color("#808080"),
	FgSubtle: lipgloss.Color("#585858"),

	Border:  lipgloss.Color("#585858"),
	Warning: lipgloss.Color("#e0af68"),
}

// Styles builds the styles of t.
func (t Theme) Styles() Styles {
	return Styles{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(t.FgBase),
		Position: lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		Genre:    lipgloss.NewStyle().Foreground(t.Secondary),
		Base:     lipgloss.NewStyle().Foreground(t.FgBase),
		Muted:    lipgloss.NewStyle().Foreground(t.FgMuted),
		Subtle:   lipgloss.NewStyle().Foreground(t.FgSubtle),
		Backfill: lipgloss.NewStyle().Foreground(t.Warning),
		Panel: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 1),
	}
}
