package cli

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines the colour palette for report output.
type Theme struct {
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Muted     lipgloss.Color
	Positive  lipgloss.Color
	Negative  lipgloss.Color
	Warning   lipgloss.Color
}

// DefaultTheme returns the default colour theme.
func DefaultTheme() *Theme {
	return &Theme{
		Primary:   lipgloss.Color("#7C3AED"), // Purple
		Secondary: lipgloss.Color("#06B6D4"), // Cyan
		Muted:     lipgloss.Color("#6C7086"), // Medium gray
		Positive:  lipgloss.Color("#A6E3A1"), // Green
		Negative:  lipgloss.Color("#F38BA8"), // Red
		Warning:   lipgloss.Color("#F9E2AF"), // Yellow
	}
}

// Styles contains the lipgloss styles used by report output.
// Colours are only emitted when the writer is a colour terminal.
type Styles struct {
	Title    lipgloss.Style
	Section  lipgloss.Style
	Label    lipgloss.Style
	Muted    lipgloss.Style
	Positive lipgloss.Style
	Negative lipgloss.Style
	Warning  lipgloss.Style
	Bar      lipgloss.Style
}

// newStyles creates styles that render for w.
func newStyles(w io.Writer, theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}
	r := lipgloss.NewRenderer(w)

	return &Styles{
		Title: r.NewStyle().
			Bold(true).
			Foreground(theme.Primary),

		Section: r.NewStyle().
			Bold(true).
			Foreground(theme.Secondary),

		Label: r.NewStyle().
			Width(22),

		Muted: r.NewStyle().
			Foreground(theme.Muted),

		Positive: r.NewStyle().
			Foreground(theme.Positive),

		Negative: r.NewStyle().
			Foreground(theme.Negative),

		Warning: r.NewStyle().
			Foreground(theme.Warning),

		Bar: r.NewStyle().
			Foreground(theme.Primary),
	}
}
