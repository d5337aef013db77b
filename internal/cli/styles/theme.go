// Package styles provides the lipgloss theme and reusable bubbles
// components of the terminal shell.
package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Palette is the set of base colors a Theme is built from.
type Palette struct {
	Background     string
	Surface        string
	SurfaceVariant string
	Text           string
	Muted          string
	Accent         string
	Border         string
	Error          string
	Success        string
}

// Theme holds the colors and the pre-built styles of every view.
type Theme struct {
	Background     lipgloss.Color
	Surface        lipgloss.Color
	SurfaceVariant lipgloss.Color
	Text           lipgloss.Color
	Muted          lipgloss.Color
	Accent         lipgloss.Color
	Border         lipgloss.Color
	Error          lipgloss.Color
	Success        lipgloss.Color

	Title        lipgloss.Style
	Subtitle     lipgloss.Style
	Normal       lipgloss.Style
	Subtle       lipgloss.Style
	Highlight    lipgloss.Style
	ErrorStyle   lipgloss.Style
	SuccessStyle lipgloss.Style

	// Tab grid
	Card         lipgloss.Style
	CardSelected lipgloss.Style
	CardTitle    lipgloss.Style
	CardURL      lipgloss.Style

	// Detail chrome
	AddressBar        lipgloss.Style
	AddressBarCompact lipgloss.Style
	Toolbar           lipgloss.Style
	ToolbarItem       lipgloss.Style
	ToolbarDisabled   lipgloss.Style
	Content           lipgloss.Style

	// Back/forward list and address suggestions
	Overlay         lipgloss.Style
	OverlayItem     lipgloss.Style
	OverlaySelected lipgloss.Style

	Badge        lipgloss.Style
	BadgeMuted   lipgloss.Style
	Input        lipgloss.Style
	InputFocused lipgloss.Style
}

// DefaultDarkPalette is the palette of NewTheme.
func DefaultDarkPalette() Palette {
	return Palette{
		Background:     "#0a0a0b",
		Surface:        "#1a1a1b",
		SurfaceVariant: "#2d2d2d",
		Text:           "#f5f5f5",
		Muted:          "#8b8b8f",
		Accent:         "#60a5fa",
		Border:         "#333336",
		Error:          "#f87171",
		Success:        "#4ade80",
	}
}

// NewTheme creates the dark theme.
func NewTheme() *Theme {
	return NewThemeFromPalette(DefaultDarkPalette())
}

// NewThemeFromPalette derives every style from p.
func NewThemeFromPalette(p Palette) *Theme {
	t := &Theme{
		Background:     lipgloss.Color(p.Background),
		Surface:        lipgloss.Color(p.Surface),
		SurfaceVariant: lipgloss.Color(p.SurfaceVariant),
		Text:           lipgloss.Color(p.Text),
		Muted:          lipgloss.Color(p.Muted),
		Accent:         lipgloss.Color(p.Accent),
		Border:         lipgloss.Color(p.Border),
		Error:          lipgloss.Color(p.Error),
		Success:        lipgloss.Color(p.Success),
	}
	t.buildStyles()
	return t
}

func (t *Theme) buildStyles() {
	fg := func(c lipgloss.Color) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }
	rounded := func(border lipgloss.Color) lipgloss.Style {
		return lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(border).Padding(0, 1)
	}

	t.Title = fg(t.Text).Bold(true)
	t.Subtitle = fg(t.Muted).Bold(true)
	t.Normal = fg(t.Text)
	t.Subtle = fg(t.Muted)
	t.Highlight = fg(t.Accent).Bold(true)
	t.ErrorStyle = fg(t.Error)
	t.SuccessStyle = fg(t.Success)

	t.Card = rounded(t.Border)
	t.CardSelected = rounded(t.Accent)
	t.CardTitle = t.Title
	t.CardURL = t.Subtle

	t.AddressBar = rounded(t.Border).Foreground(t.Text).Background(t.Surface)
	t.AddressBarCompact = t.Subtle.Align(lipgloss.Center)
	t.Toolbar = lipgloss.NewStyle().BorderStyle(lipgloss.NormalBorder()).BorderTop(true).BorderForeground(t.Border)
	t.ToolbarItem = fg(t.Text).Padding(0, 1)
	t.ToolbarDisabled = fg(t.SurfaceVariant).Padding(0, 1)
	t.Content = fg(t.Text).Padding(1, 2)

	t.Overlay = rounded(t.Accent)
	t.OverlayItem = fg(t.Text).PaddingLeft(2)
	t.OverlaySelected = fg(t.Accent).Background(t.SurfaceVariant).PaddingLeft(2).Bold(true)

	t.Badge = fg(t.Background).Background(t.Accent).Padding(0, 1)
	t.BadgeMuted = fg(t.Text).Background(t.SurfaceVariant).Padding(0, 1)
	t.Input = rounded(t.Border).Foreground(t.Text).Background(t.Surface)
	t.InputFocused = t.Input.BorderForeground(t.Accent)
}

// AddressBarFor picks the address bar style for a collapse progress:
// 0 is fully expanded, 1 fully collapsed, and the compact bar takes over
// past the midpoint.
func (t *Theme) AddressBarFor(progress float64) lipgloss.Style {
	if progress >= 0.5 {
		return t.AddressBarCompact
	}
	return t.AddressBar
}
