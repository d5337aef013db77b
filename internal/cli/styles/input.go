package styles

import (
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
)

// addressCharLimit bounds what the address bar accepts.
const addressCharLimit = 2048

// NewAddressInput creates the detail view's address input.
func NewAddressInput(theme *Theme) textinput.Model {
	in := textinput.New()
	in.Prompt = IconArrow + " "
	in.Placeholder = "Search or enter address"
	in.CharLimit = addressCharLimit
	in.PromptStyle = lipgloss.NewStyle().Foreground(theme.Accent)
	in.PlaceholderStyle = theme.Subtle
	in.TextStyle = theme.Normal
	in.Cursor.Style = lipgloss.NewStyle().Foreground(theme.Accent)
	return in
}

// InputBox frames a rendered input, highlighted while focused.
func (t *Theme) InputBox(input string, focused bool) string {
	if focused {
		return t.InputFocused.Render(input)
	}
	return t.Input.Render(input)
}
