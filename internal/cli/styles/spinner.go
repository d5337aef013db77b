package styles

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
)

// NewLoadingSpinner creates the themed spinner shown while a page loads.
func NewLoadingSpinner(theme *Theme) spinner.Model {
	s := spinner.New()
	s.Spinner = spinner.MiniDot
	s.Style = lipgloss.NewStyle().Foreground(theme.Accent)
	return s
}
