// Package styles provides the colour palette used by the run summary when
// stdout is a terminal.
package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/docgen-cli/internal/core/domain"
)

// Palette holds the summary colours.
type Palette struct {
	// Accent is used for headings.
	Accent lipgloss.Color

	// Muted is for paths and secondary text.
	Muted lipgloss.Color

	// Success marks generated modules.
	Success lipgloss.Color

	// Warning marks declaration warnings and medium findings.
	Warning lipgloss.Color

	// Error marks failed files and high findings.
	Error lipgloss.Color
}

// DefaultPalette returns the default colours.
func DefaultPalette() *Palette {
	return &Palette{
		Accent:  lipgloss.Color("#7C3AED"), // Purple
		Muted:   lipgloss.Color("#6C7086"), // Medium gray
		Success: lipgloss.Color("#A6E3A1"), // Green
		Warning: lipgloss.Color("#F9E2AF"), // Yellow
		Error:   lipgloss.Color("#F38BA8"), // Red
	}
}

// Styles contains pre-configured lipgloss styles for the summary.
type Styles struct {
	palette *Palette

	Heading lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
}

// New creates styles from a palette. A nil palette uses the defaults.
func New(p *Palette) *Styles {
	if p == nil {
		p = DefaultPalette()
	}

	return &Styles{
		palette: p,

		Heading: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Accent),

		Muted: lipgloss.NewStyle().
			Foreground(p.Muted),

		Success: lipgloss.NewStyle().
			Foreground(p.Success),

		Warning: lipgloss.NewStyle().
			Foreground(p.Warning),

		Error: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Error),
	}
}

// Severity returns the style for a finding bucket.
func (s *Styles) Severity(sev domain.Severity) lipgloss.Style {
	switch sev {
	case domain.SeverityHigh:
		return s.Error
	case domain.SeverityMedium:
		return s.Warning
	default:
		return s.Muted
	}
}

// Palette returns the palette used by these styles.
func (s *Styles) Palette() *Palette {
	return s.palette
}
