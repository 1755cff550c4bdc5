// Package tui is the interactive drop target.
//
// Terminals deliver a drag-and-drop of files as a bracketed paste of their
// paths, so a paste while no input field is focused is treated as a drop.
// All state lives in a session.Session; the model only renders it and
// forwards key presses.
package tui

import "github.com/charmbracelet/lipgloss"

// Palette is the set of colors a theme is built from.
type Palette struct {
	Primary   lipgloss.Color
	Success   lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color
	Muted     lipgloss.Color
	Highlight lipgloss.Color
	Text      lipgloss.Color
}

// Themes.
var (
	DarkPalette = Palette{
		Primary:   lipgloss.Color("#7C3AED"), // Purple
		Success:   lipgloss.Color("#10B981"), // Green
		Warning:   lipgloss.Color("#F59E0B"), // Amber
		Error:     lipgloss.Color("#EF4444"), // Red
		Muted:     lipgloss.Color("#6B7280"), // Gray
		Highlight: lipgloss.Color("#3B82F6"), // Blue
		Text:      lipgloss.Color("#FFFFFF"),
	}
	LightPalette = Palette{
		Primary:   lipgloss.Color("#5B21B6"),
		Success:   lipgloss.Color("#047857"),
		Warning:   lipgloss.Color("#B45309"),
		Error:     lipgloss.Color("#B91C1C"),
		Muted:     lipgloss.Color("#4B5563"),
		Highlight: lipgloss.Color("#1D4ED8"),
		Text:      lipgloss.Color("#111827"),
	}
)

// Styles for TUI components.
type Styles struct {
	Title   lipgloss.Style
	Label   lipgloss.Style
	Value   lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Box     lipgloss.Style
	Focused lipgloss.Style
	Status  lipgloss.Style
}

// NewStyles builds the styles for a theme name ("dark" or "light").
// Unknown names fall back to dark.
func NewStyles(theme string) Styles {
	p := DarkPalette
	if theme == "light" {
		p = LightPalette
	}

	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Primary),
		Label: lipgloss.NewStyle().
			Foreground(p.Muted),
		Value: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Text),
		Muted: lipgloss.NewStyle().
			Foreground(p.Muted),
		Success: lipgloss.NewStyle().
			Foreground(p.Success),
		Warning: lipgloss.NewStyle().
			Foreground(p.Warning),
		Error: lipgloss.NewStyle().
			Foreground(p.Error),
		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Muted).
			Padding(0, 1),
		Focused: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Highlight).
			Padding(0, 1),
		Status: lipgloss.NewStyle().
			Foreground(p.Highlight).
			Italic(true),
	}
}

// DeviceStyle picks the style for the device status line.
func (s Styles) DeviceStyle(valid bool) lipgloss.Style {
	if valid {
		return s.Success
	}
	return s.Warning
}
