package styles

import (
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/spaced/internal/domain/entity"
)

// NewStyledTable creates a themed table model.
func NewStyledTable(theme *Theme, columns []table.Column, rows []table.Row, width, height int) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(false),
		table.WithHeight(height),
		table.WithWidth(width),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(theme.Border).
		BorderBottom(true).
		Foreground(theme.Accent).
		Bold(true)
	s.Selected = s.Cell.
		Foreground(theme.Text)
	s.Cell = s.Cell.
		Foreground(theme.Text)

	t.SetStyles(s)
	return t
}

// HistoryTableColumns returns columns for history list table.
func HistoryTableColumns() []table.Column {
	return []table.Column{
		{Title: "Title", Width: 36},
		{Title: "URL", Width: 44},
		{Title: "Visits", Width: 8},
		{Title: "Last Visit", Width: 16},
	}
}

// HistoryRow converts a history entry to a table row.
func HistoryRow(e *entity.HistoryEntry, now time.Time) table.Row {
	return table.Row{e.Title, e.URL, formatInt(e.VisitCount), RelativeTime(e.LastVisited, now)}
}

// RenderHistoryTable renders entries as a static table.
func RenderHistoryTable(theme *Theme, entries []*entity.HistoryEntry, now time.Time) string {
	rows := make([]table.Row, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, HistoryRow(e, now))
	}
	width := 0
	for _, c := range HistoryTableColumns() {
		width += c.Width + 2
	}
	// Header takes two lines.
	t := NewStyledTable(theme, HistoryTableColumns(), rows, width, len(rows)+2)
	return t.View()
}

// RelativeTime formats t as a short age relative to now.
func RelativeTime(t, now time.Time) string {
	if t.IsZero() {
		return "never"
	}
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return strconv.Itoa(int(d/time.Minute)) + "m ago"
	case d < 24*time.Hour:
		return strconv.Itoa(int(d/time.Hour)) + "h ago"
	case d < 7*24*time.Hour:
		return strconv.Itoa(int(d/(24*time.Hour))) + "d ago"
	default:
		return t.Format("2006-01-02")
	}
}

// formatInt formats a count for display.
func formatInt(n int64) string {
	switch {
	case n >= 1000000:
		return formatFloat(float64(n)/1000000) + "M"
	case n >= 1000:
		return formatFloat(float64(n)/1000) + "K"
	default:
		return strconv.FormatInt(n, 10)
	}
}

// formatFloat formats a float with one decimal, dropping a trailing .0.
func formatFloat(f float64) string {
	i := int64(f * 10)
	whole, dec := i/10, i%10
	if dec == 0 {
		return strconv.FormatInt(whole, 10)
	}
	return strconv.FormatInt(whole, 10) + "." + strconv.FormatInt(dec, 10)
}
