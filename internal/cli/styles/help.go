package styles

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

// KeyMap defines keybindings that can be rendered as help.
type KeyMap interface {
	ShortHelp() []key.Binding
	FullHelp() [][]key.Binding
}

// GridKeyMap defines keybindings for the tab grid.
type GridKeyMap struct {
	Left   key.Binding
	Right  key.Binding
	Up     key.Binding
	Down   key.Binding
	Open   key.Binding
	NewTab key.Binding
	Close  key.Binding
	Help   key.Binding
	Quit   key.Binding
}

// ShortHelp returns keybindings to show in compact help.
func (k GridKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Open, k.NewTab, k.Close, k.Help, k.Quit}
}

// FullHelp returns keybindings for expanded help.
func (k GridKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.Up, k.Down},
		{k.Open, k.NewTab, k.Close},
		{k.Help, k.Quit},
	}
}

// DefaultGridKeyMap returns the default grid keybindings.
func DefaultGridKeyMap() GridKeyMap {
	return GridKeyMap{
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "right"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		NewTab: key.NewBinding(
			key.WithKeys("n", "t"),
			key.WithHelp("n", "new tab"),
		),
		Close: key.NewBinding(
			key.WithKeys("x", "d"),
			key.WithHelp("x", "close"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// DetailKeyMap defines keybindings for a focused tab.
type DetailKeyMap struct {
	Grid        key.Binding
	Address     key.Binding
	Back        key.Binding
	Forward     key.Binding
	BackList    key.Binding
	ForwardList key.Binding
	Reload      key.Binding
	Mode        key.Binding
	CopyURL     key.Binding
	PrevTab     key.Binding
	NextTab     key.Binding
	ScrollDown  key.Binding
	ScrollUp    key.Binding
	Top         key.Binding
	Help        key.Binding
	Quit        key.Binding
}

// ShortHelp returns keybindings to show in compact help.
func (k DetailKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Grid, k.Address, k.Back, k.Forward, k.Mode, k.Help}
}

// FullHelp returns keybindings for expanded help.
func (k DetailKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Grid, k.Address, k.Reload, k.Mode, k.CopyURL},
		{k.Back, k.Forward, k.BackList, k.ForwardList},
		{k.PrevTab, k.NextTab},
		{k.ScrollDown, k.ScrollUp, k.Top},
		{k.Help, k.Quit},
	}
}

// DefaultDetailKeyMap returns the default detail keybindings.
func DefaultDetailKeyMap() DetailKeyMap {
	return DetailKeyMap{
		Grid: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "tabs"),
		),
		Address: key.NewBinding(
			key.WithKeys("/", "ctrl+l"),
			key.WithHelp("/", "address"),
		),
		Back: key.NewBinding(
			key.WithKeys("b", "alt+left"),
			key.WithHelp("b", "back"),
		),
		Forward: key.NewBinding(
			key.WithKeys("f", "alt+right"),
			key.WithHelp("f", "forward"),
		),
		BackList: key.NewBinding(
			key.WithKeys("B"),
			key.WithHelp("B", "back list"),
		),
		ForwardList: key.NewBinding(
			key.WithKeys("F"),
			key.WithHelp("F", "forward list"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r", "ctrl+r"),
			key.WithHelp("r", "reload"),
		),
		Mode: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "mobile/desktop"),
		),
		CopyURL: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy url"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "prev tab"),
		),
		NextTab: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "next tab"),
		),
		ScrollDown: key.NewBinding(
			key.WithKeys("j", "down", "pgdown"),
			key.WithHelp("j", "scroll down"),
		),
		ScrollUp: key.NewBinding(
			key.WithKeys("k", "up", "pgup"),
			key.WithHelp("k", "scroll up"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "top"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}

// ListKeyMap defines keybindings for pickers: the address suggestions
// and the back/forward overlays.
type ListKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Accept   key.Binding
	Complete key.Binding
	Cancel   key.Binding
}

// ShortHelp returns keybindings to show in compact help.
func (k ListKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Accept, k.Complete, k.Cancel}
}

// FullHelp returns keybindings for expanded help.
func (k ListKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.Accept, k.Complete, k.Cancel},
	}
}

// DefaultListKeyMap returns the default picker keybindings.
func DefaultListKeyMap() ListKeyMap {
	return ListKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "ctrl+p"),
			key.WithHelp("↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "ctrl+n"),
			key.WithHelp("↓", "down"),
		),
		Accept: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "go"),
		),
		Complete: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "complete"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc", "ctrl+c"),
			key.WithHelp("esc", "cancel"),
		),
	}
}

// NewStyledHelp creates a themed help model.
func NewStyledHelp(theme *Theme) help.Model {
	h := help.New()
	h.Styles.ShortKey = lipgloss.NewStyle().Foreground(theme.Accent)
	h.Styles.ShortDesc = lipgloss.NewStyle().Foreground(theme.Muted)
	h.Styles.ShortSeparator = lipgloss.NewStyle().Foreground(theme.Border)
	h.Styles.FullKey = lipgloss.NewStyle().Foreground(theme.Accent)
	h.Styles.FullDesc = lipgloss.NewStyle().Foreground(theme.Text)
	h.Styles.FullSeparator = lipgloss.NewStyle().Foreground(theme.Border)
	return h
}
