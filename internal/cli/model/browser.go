// Package model holds the Bubble Tea models of the terminal shell.
package model

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/spaced/internal/application/port"
	"github.com/bnema/spaced/internal/cli/styles"
	"github.com/bnema/spaced/internal/domain/autocomplete"
	"github.com/bnema/spaced/internal/domain/entity"
	"github.com/bnema/spaced/internal/logging"
	"github.com/bnema/spaced/internal/ui/coordinator"
)

const (
	// Simulated page geometry for keyboard scrolling.
	pageHeight     = 4000.0
	viewportHeight = 800.0
	scrollStep     = 60.0

	// scrollIdle is how long without a scroll key before the gesture ends.
	scrollIdle = 180 * time.Millisecond

	cardWidth  = 30
	cardHeight = 6
)

// Shell is the running browser as seen by the model.
// Do and DoTab post to the main loop and never block.
type Shell interface {
	Do(fn func(ctx context.Context, c *coordinator.TabCoordinator)) bool
	DoTab(id entity.TabID, fn func(ctx context.Context, t *coordinator.Tab)) bool
	Suggest(ctx context.Context, query string) ([]entity.HistoryMatch, error)
}

// SnapshotMsg delivers a coordinator snapshot.
type SnapshotMsg struct {
	Snapshot coordinator.Snapshot
}

// ConfigMsg delivers reloadable presentation settings.
type ConfigMsg struct {
	AnimationDuration time.Duration
}

type transitionDoneMsg struct {
	seq uint64
}

type scrollIdleMsg struct {
	tab entity.TabID
	gen int
}

type clipboardMsg struct {
	err error
}

type suggestionsMsg struct {
	query   string
	matches []entity.HistoryMatch
	err     error
}

// BrowserModel renders the tab grid and the detail view and forwards
// input to the shell.
type BrowserModel struct {
	ctx   context.Context
	shell Shell
	theme *styles.Theme
	clip  port.Clipboard

	// UI components
	help    help.Model
	spinner spinner.Model
	address textinput.Model

	gridKeys   styles.GridKeyMap
	detailKeys styles.DetailKeyMap
	listKeys   styles.ListKeyMap

	// State
	snap         coordinator.Snapshot
	animDuration time.Duration
	scheduledSeq uint64
	cursor       int
	editing      bool
	suggestions  []entity.HistoryMatch
	suggestIdx   int
	ghost        string
	overlayIdx   int
	offsets      map[entity.TabID]float64
	scrollGen    int
	width        int
	height       int
	status       string
	statusErr    bool
	err          error
}

// NewBrowserModel creates the browser model.
func NewBrowserModel(ctx context.Context, theme *styles.Theme, shell Shell, animDuration time.Duration) BrowserModel {
	return BrowserModel{
		ctx:          logging.WithComponent(ctx, "tui"),
		shell:        shell,
		theme:        theme,
		help:         styles.NewStyledHelp(theme),
		spinner:      styles.NewLoadingSpinner(theme),
		address:      styles.NewAddressInput(theme),
		gridKeys:     styles.DefaultGridKeyMap(),
		detailKeys:   styles.DefaultDetailKeyMap(),
		listKeys:     styles.DefaultListKeyMap(),
		animDuration: animDuration,
		suggestIdx:   -1,
		offsets:      make(map[entity.TabID]float64),
		width:        80,
		height:       24,
	}
}

// WithClipboard enables copying the current address.
func (m BrowserModel) WithClipboard(clip port.Clipboard) BrowserModel {
	m.clip = clip
	return m
}

// Init implements tea.Model.
func (m BrowserModel) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update implements tea.Model.
func (m BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.address.Width = max(10, msg.Width-8)
		return m, nil

	case SnapshotMsg:
		return m.applySnapshot(msg.Snapshot)

	case ConfigMsg:
		m.animDuration = msg.AnimationDuration
		return m, nil

	case transitionDoneMsg:
		seq := msg.seq
		m.shell.Do(func(ctx context.Context, c *coordinator.TabCoordinator) {
			c.CompleteTransition(ctx, seq)
		})
		return m, nil

	case scrollIdleMsg:
		if msg.gen == m.scrollGen {
			m.shell.DoTab(msg.tab, func(_ context.Context, t *coordinator.Tab) {
				t.OnDragEnd(false)
			})
		}
		return m, nil

	case suggestionsMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		if m.editing && msg.query == strings.TrimSpace(m.address.Value()) {
			m.suggestions = msg.matches
			m.suggestIdx = -1
			m.ghost = ghostCompletion(m.address.Value(), msg.matches)
		}
		return m, nil

	case clipboardMsg:
		m.statusErr = msg.err != nil
		if m.statusErr {
			m.status = "copy failed: " + msg.err.Error()
		} else {
			m.status = "copied"
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		m.status = ""
		switch {
		case m.editing:
			return m.updateAddress(msg)
		case m.inDetail():
			return m.updateDetail(msg)
		default:
			return m.updateGrid(msg)
		}
	}

	if m.editing {
		var cmd tea.Cmd
		m.address, cmd = m.address.Update(msg)
		return m, cmd
	}
	return m, nil
}

// applySnapshot stores snap and schedules the completion of a new transition.
func (m BrowserModel) applySnapshot(snap coordinator.Snapshot) (tea.Model, tea.Cmd) {
	prevOverlay := m.selectedState().Overlay
	m.snap = snap

	if idx := m.indexOf(snap.SelectedID); idx >= 0 {
		m.cursor = idx
	}
	m.cursor = min(m.cursor, max(0, len(snap.Tabs)-1))

	sel := m.selectedState()
	if sel.Overlay != prevOverlay {
		m.overlayIdx = 0
	}
	for id := range m.offsets {
		if _, ok := snap.Tab(id); !ok {
			delete(m.offsets, id)
		}
	}
	if m.editing && sel.ID == "" {
		m.stopEditing()
	}

	tr := snap.Transition
	if tr.Phase == coordinator.PhaseIdle || tr.Seq == m.scheduledSeq {
		return m, nil
	}
	m.scheduledSeq = tr.Seq
	seq := tr.Seq
	return m, tea.Tick(m.animDuration, func(time.Time) tea.Msg {
		return transitionDoneMsg{seq: seq}
	})
}

func (m BrowserModel) updateGrid(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cols := m.gridColumns()
	switch {
	case key.Matches(msg, m.gridKeys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.gridKeys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.gridKeys.Left):
		m.moveCursor(-1)
	case key.Matches(msg, m.gridKeys.Right):
		m.moveCursor(1)
	case key.Matches(msg, m.gridKeys.Up):
		m.moveCursor(-cols)
	case key.Matches(msg, m.gridKeys.Down):
		m.moveCursor(cols)
	case key.Matches(msg, m.gridKeys.Open):
		if id := m.cursorID(); id != "" {
			m.shell.Do(func(ctx context.Context, c *coordinator.TabCoordinator) {
				c.Open(ctx, id)
			})
		}
	case key.Matches(msg, m.gridKeys.NewTab):
		m.shell.Do(func(ctx context.Context, c *coordinator.TabCoordinator) {
			if _, err := c.NewTab(ctx); err != nil {
				logging.FromContext(ctx).Error().Err(err).Msg("failed to open new tab")
			}
		})
	case key.Matches(msg, m.gridKeys.Close):
		if id := m.cursorID(); id != "" {
			m.shell.Do(func(ctx context.Context, c *coordinator.TabCoordinator) {
				c.Close(ctx, id)
			})
		}
	}
	return m, nil
}

func (m BrowserModel) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	sel := m.selectedState()
	if sel.Overlay != entity.HistoryNone {
		return m.updateOverlay(msg, sel)
	}
	id := sel.ID

	switch {
	case key.Matches(msg, m.detailKeys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.detailKeys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.detailKeys.Grid):
		m.shell.Do(func(ctx context.Context, c *coordinator.TabCoordinator) {
			c.ShowGrid(ctx)
		})
	case key.Matches(msg, m.detailKeys.Address):
		if id == "" {
			return m, nil
		}
		m.editing = true
		m.address.SetValue(addressValue(sel.Navigation.URL))
		m.address.CursorEnd()
		m.suggestions = nil
		m.suggestIdx = -1
		m.ghost = ""
		cmd := m.address.Focus()
		return m, cmd
	case key.Matches(msg, m.detailKeys.Back):
		m.doTab(id, "back", func(ctx context.Context, t *coordinator.Tab) error { return t.Back(ctx) })
	case key.Matches(msg, m.detailKeys.Forward):
		m.doTab(id, "forward", func(ctx context.Context, t *coordinator.Tab) error { return t.Forward(ctx) })
	case key.Matches(msg, m.detailKeys.BackList):
		if sel.Navigation.CanGoBack {
			m.shell.DoTab(id, func(_ context.Context, t *coordinator.Tab) { t.ShowBackList() })
		}
	case key.Matches(msg, m.detailKeys.ForwardList):
		if sel.Navigation.CanGoFwd {
			m.shell.DoTab(id, func(_ context.Context, t *coordinator.Tab) { t.ShowForwardList() })
		}
	case key.Matches(msg, m.detailKeys.Reload):
		m.doTab(id, "reload", func(ctx context.Context, t *coordinator.Tab) error { return t.Reload(ctx) })
	case key.Matches(msg, m.detailKeys.Mode):
		m.doTab(id, "toggle content mode", func(ctx context.Context, t *coordinator.Tab) error {
			return t.ToggleContentMode(ctx)
		})
	case key.Matches(msg, m.detailKeys.CopyURL):
		return m, m.copyURL(sel.Navigation.URL)
	case key.Matches(msg, m.detailKeys.PrevTab):
		m.swipe(id, (*coordinator.TabCoordinator).PrecedingTab)
	case key.Matches(msg, m.detailKeys.NextTab):
		m.swipe(id, (*coordinator.TabCoordinator).FollowingTab)
	case key.Matches(msg, m.detailKeys.ScrollDown):
		return m.scroll(id, scrollStep)
	case key.Matches(msg, m.detailKeys.ScrollUp):
		return m.scroll(id, -scrollStep)
	case key.Matches(msg, m.detailKeys.Top):
		m.offsets[id] = 0
		m.scrollGen++
		m.shell.DoTab(id, func(_ context.Context, t *coordinator.Tab) {
			t.OnScroll(pageHeight, viewportHeight, 0)
			t.OnScrollToTop()
		})
	}
	return m, nil
}

func (m BrowserModel) updateOverlay(msg tea.KeyMsg, sel coordinator.TabState) (tea.Model, tea.Cmd) {
	items := overlayItems(sel)
	id := sel.ID

	switch {
	case key.Matches(msg, m.listKeys.Cancel):
		m.shell.DoTab(id, func(_ context.Context, t *coordinator.Tab) { t.DismissOverlay() })
	case key.Matches(msg, m.listKeys.Up):
		if m.overlayIdx > 0 {
			m.overlayIdx--
		}
	case key.Matches(msg, m.listKeys.Down):
		if m.overlayIdx < len(items)-1 {
			m.overlayIdx++
		}
	case key.Matches(msg, m.listKeys.Accept):
		if m.overlayIdx >= len(items) {
			return m, nil
		}
		item := items[m.overlayIdx]
		if sel.Overlay == entity.HistoryBack {
			m.doTab(id, "go back", func(ctx context.Context, t *coordinator.Tab) error { return t.GoBack(ctx, item) })
		} else {
			m.doTab(id, "go forward", func(ctx context.Context, t *coordinator.Tab) error { return t.GoForward(ctx, item) })
		}
	}
	return m, nil
}

func (m BrowserModel) updateAddress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.listKeys.Cancel):
		m.stopEditing()
		return m, nil
	case key.Matches(msg, m.listKeys.Up):
		if m.suggestIdx >= 0 {
			m.suggestIdx--
		}
		return m, nil
	case key.Matches(msg, m.listKeys.Down):
		if m.suggestIdx < len(m.suggestions)-1 {
			m.suggestIdx++
		}
		return m, nil
	case key.Matches(msg, m.listKeys.Complete):
		if m.ghost == "" {
			return m, nil
		}
		m.address.SetValue(m.address.Value() + m.ghost)
		m.address.CursorEnd()
		m.ghost = ""
		return m, m.suggest(strings.TrimSpace(m.address.Value()))
	case key.Matches(msg, m.listKeys.Accept):
		input := m.address.Value()
		if m.suggestIdx >= 0 && m.suggestIdx < len(m.suggestions) {
			input = m.suggestions[m.suggestIdx].Entry.URL
		}
		id := m.snap.SelectedID
		m.stopEditing()
		m.shell.DoTab(id, func(ctx context.Context, t *coordinator.Tab) {
			if !t.Submit(ctx, input) {
				logging.FromContext(ctx).Debug().Str("input", input).Msg("address ignored")
			}
		})
		return m, nil
	}

	before := m.address.Value()
	var cmd tea.Cmd
	m.address, cmd = m.address.Update(msg)
	if m.address.Value() == before {
		return m, cmd
	}
	m.ghost = ""
	return m, tea.Batch(cmd, m.suggest(strings.TrimSpace(m.address.Value())))
}

func (m *BrowserModel) stopEditing() {
	m.editing = false
	m.address.Blur()
	m.suggestions = nil
	m.suggestIdx = -1
	m.ghost = ""
}

// suggest queries history off the loop.
func (m BrowserModel) suggest(query string) tea.Cmd {
	if query == "" {
		return func() tea.Msg { return suggestionsMsg{query: query} }
	}
	ctx, shell := m.ctx, m.shell
	return func() tea.Msg {
		matches, err := shell.Suggest(ctx, query)
		return suggestionsMsg{query: query, matches: matches, err: err}
	}
}

// copyURL writes raw to the clipboard off the loop.
func (m BrowserModel) copyURL(raw string) tea.Cmd {
	if m.clip == nil || raw == "" {
		return nil
	}
	ctx, clip := m.ctx, m.clip
	return func() tea.Msg {
		return clipboardMsg{err: clip.WriteText(ctx, raw)}
	}
}

// scroll moves the simulated offset and ends the gesture once keys stop.
func (m BrowserModel) scroll(id entity.TabID, delta float64) (tea.Model, tea.Cmd) {
	if id == "" {
		return m, nil
	}
	offset := min(max(m.offsets[id]+delta, 0), pageHeight-viewportHeight)
	m.offsets[id] = offset
	m.scrollGen++
	m.shell.DoTab(id, func(_ context.Context, t *coordinator.Tab) {
		t.OnScroll(pageHeight, viewportHeight, offset)
	})
	gen := m.scrollGen
	return m, tea.Tick(scrollIdle, func(time.Time) tea.Msg {
		return scrollIdleMsg{tab: id, gen: gen}
	})
}

// swipe changes to the sibling tab as an interactive drag.
func (m BrowserModel) swipe(id entity.TabID, sibling func(*coordinator.TabCoordinator, entity.TabID) *coordinator.Tab) {
	if id == "" {
		return
	}
	m.shell.Do(func(ctx context.Context, c *coordinator.TabCoordinator) {
		next := sibling(c, id)
		if next == nil {
			return
		}
		c.SwipeTo(ctx, next.ID())
	})
}

func (m BrowserModel) doTab(id entity.TabID, what string, fn func(ctx context.Context, t *coordinator.Tab) error) {
	if id == "" {
		return
	}
	m.shell.DoTab(id, func(ctx context.Context, t *coordinator.Tab) {
		if err := fn(ctx, t); err != nil {
			logging.FromContext(ctx).Warn().Err(err).Msg(what + " failed")
		}
	})
}

func (m *BrowserModel) moveCursor(delta int) {
	if len(m.snap.Tabs) == 0 {
		return
	}
	m.cursor = min(max(m.cursor+delta, 0), len(m.snap.Tabs)-1)
}

func (m BrowserModel) cursorID() entity.TabID {
	if m.cursor < 0 || m.cursor >= len(m.snap.Tabs) {
		return ""
	}
	return m.snap.Tabs[m.cursor].ID
}

func (m BrowserModel) indexOf(id entity.TabID) int {
	if id == "" {
		return -1
	}
	for i, ts := range m.snap.Tabs {
		if ts.ID == id {
			return i
		}
	}
	return -1
}

func (m BrowserModel) selectedState() coordinator.TabState {
	ts, _ := m.snap.Tab(m.snap.SelectedID)
	return ts
}

// inDetail reports whether the detail view is shown or animating in.
func (m BrowserModel) inDetail() bool {
	return m.snap.SelectedID != "" && (m.snap.AnimateView || m.snap.ShowDetailView)
}

func (m BrowserModel) gridColumns() int {
	return max(1, m.width/(cardWidth+2))
}

// Snapshot returns the last snapshot received.
func (m BrowserModel) Snapshot() coordinator.Snapshot {
	return m.snap
}

// Completion returns the inline completion shown after the address input.
func (m BrowserModel) Completion() string {
	return m.ghost
}

// Err returns the last suggestion error, if any.
func (m BrowserModel) Err() error {
	return m.err
}

// View implements tea.Model.
func (m BrowserModel) View() string {
	if m.inDetail() {
		return m.viewDetail()
	}
	return m.viewGrid()
}

func (m BrowserModel) viewGrid() string {
	t := m.theme
	header := lipgloss.JoinHorizontal(lipgloss.Center,
		t.Title.Render(styles.IconTab+" spaced"),
		"  ",
		t.BadgeMuted.Render(fmt.Sprintf("%d tabs", len(m.snap.Tabs))),
	)

	var body string
	if len(m.snap.Tabs) == 0 {
		body = t.Subtle.Render("No tabs open")
	} else {
		cols := m.gridColumns()
		rows := make([]string, 0, len(m.snap.Tabs)/cols+1)
		for start := 0; start < len(m.snap.Tabs); start += cols {
			end := min(start+cols, len(m.snap.Tabs))
			cards := make([]string, 0, end-start)
			for i := start; i < end; i++ {
				cards = append(cards, m.renderCard(m.snap.Tabs[i], i == m.cursor))
			}
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
		}
		body = lipgloss.JoinVertical(lipgloss.Left, rows...)
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, "", body, "", m.help.View(m.gridKeys))
}

func (m BrowserModel) renderCard(ts coordinator.TabState, focused bool) string {
	t := m.theme
	style := t.Card
	if focused {
		style = t.CardSelected
	}
	inner := cardWidth - 2

	lines := []string{
		t.CardTitle.Render(truncate(ts.Navigation.DisplayTitle(), inner)),
		t.CardURL.Render(truncate(ts.Navigation.URL, inner)),
	}
	status := modeBadge(t, ts.Navigation.ContentMode)
	if ts.Navigation.IsLoading {
		status += " " + m.spinner.View()
	}
	if th := ts.Thumbnail; !th.IsEmpty() {
		status += " " + t.Subtle.Render(fmt.Sprintf("%dx%d", th.Width, th.Height))
	}
	lines = append(lines, status)
	switch ts.ID {
	case m.snap.SelectedID:
		lines = append(lines, t.Highlight.Render("selected"))
	case m.snap.PreviousID:
		lines = append(lines, t.Subtle.Render(styles.IconClock+" recent"))
	}

	return style.Width(inner).Height(cardHeight - 2).Render(strings.Join(lines, "\n"))
}

func (m BrowserModel) viewDetail() string {
	t := m.theme
	sel := m.selectedState()
	nav := sel.Navigation

	parts := []string{m.renderAddressBar(sel)}
	if m.editing {
		parts = append(parts, m.renderSuggestions())
	}

	var content string
	switch {
	case sel.UseThumbnail && (m.snap.Transition.Phase == coordinator.PhaseShowing || m.snap.IsDragging):
		content = t.Subtle.Render("restoring snapshot...")
	default:
		content = lipgloss.JoinVertical(lipgloss.Left,
			t.Title.Render(nav.DisplayTitle()),
			t.Subtle.Render(nav.URL),
			"",
			t.Subtle.Render(fmt.Sprintf("scrolled %d%%", int(m.offsets[sel.ID]*100/(pageHeight-viewportHeight)))),
		)
	}
	parts = append(parts, t.Content.Render(content))

	if sel.Overlay != entity.HistoryNone {
		parts = append(parts, m.renderOverlay(sel))
	}
	if sel.Progress < 1 {
		parts = append(parts, m.renderToolbar(sel))
	}
	if m.status != "" {
		style := t.Subtle
		if m.statusErr {
			style = t.ErrorStyle
		}
		parts = append(parts, style.Render(m.status))
	}

	var keys styles.KeyMap = m.detailKeys
	if m.editing || sel.Overlay != entity.HistoryNone {
		keys = m.listKeys
	}
	parts = append(parts, m.help.View(keys))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// renderAddressBar shows the full bar while expanded and only the host once
// the chrome collapsed.
func (m BrowserModel) renderAddressBar(sel coordinator.TabState) string {
	t := m.theme
	if m.editing {
		view := m.address.View()
		if m.ghost != "" {
			view = lipgloss.JoinHorizontal(lipgloss.Top, view, t.Subtle.Render(m.ghost))
		}
		return t.InputBox(view, true)
	}

	nav := sel.Navigation
	width := max(20, m.width-4)
	if sel.Progress >= 0.5 {
		return t.AddressBarFor(sel.Progress).Width(width).Render(hostOf(nav.URL))
	}

	icon := styles.IconGlobe
	if strings.HasPrefix(nav.URL, "https://") {
		icon = styles.IconLock
	}
	line := icon + " " + truncate(nav.URL, max(10, width-16))
	if nav.IsLoading {
		line += " " + m.spinner.View()
	}
	line += " " + modeBadge(t, nav.ContentMode)
	return t.AddressBarFor(sel.Progress).Width(width).Render(line)
}

func (m BrowserModel) renderSuggestions() string {
	t := m.theme
	if len(m.suggestions) == 0 {
		return ""
	}
	lines := make([]string, 0, len(m.suggestions))
	for i, s := range m.suggestions {
		label := truncate(s.Entry.Title+"  "+s.Entry.URL, max(20, m.width-8))
		if i == m.suggestIdx {
			lines = append(lines, t.OverlaySelected.Render(styles.IconCursor+" "+label))
		} else {
			lines = append(lines, t.OverlayItem.Render(label))
		}
	}
	return strings.Join(lines, "\n")
}

func (m BrowserModel) renderOverlay(sel coordinator.TabState) string {
	t := m.theme
	items := overlayItems(sel)
	lines := make([]string, 0, len(items)+1)
	lines = append(lines, t.Subtitle.Render(sel.Overlay.String()))
	for i, item := range items {
		label := truncate(item.Label(), 48)
		if i == m.overlayIdx {
			lines = append(lines, t.OverlaySelected.Render(label))
		} else {
			lines = append(lines, t.OverlayItem.Render(label))
		}
	}
	return t.Overlay.Render(strings.Join(lines, "\n"))
}

func (m BrowserModel) renderToolbar(sel coordinator.TabState) string {
	t := m.theme
	item := func(label string, enabled bool) string {
		if enabled {
			return t.ToolbarItem.Render(label)
		}
		return t.ToolbarDisabled.Render(label)
	}
	nav := sel.Navigation
	bar := lipgloss.JoinHorizontal(lipgloss.Center,
		item(styles.IconBack, nav.CanGoBack),
		item(styles.IconArrow, nav.CanGoFwd),
		item(styles.IconReload, true),
		item(fmt.Sprintf("%s %d", styles.IconTab, len(m.snap.Tabs)), true),
	)
	return t.Toolbar.Width(max(20, m.width-2)).Render(bar)
}

// ghostCompletion returns the inline completion of input from the
// suggestion URLs, best match first.
func ghostCompletion(input string, matches []entity.HistoryMatch) string {
	if input == "" || strings.TrimSpace(input) != input {
		return ""
	}
	urls := make([]string, 0, len(matches))
	for _, match := range matches {
		urls = append(urls, match.Entry.URL)
	}
	suffix, _, ok := autocomplete.BestURLCompletion(input, urls)
	if !ok {
		return ""
	}
	return suffix
}

func overlayItems(sel coordinator.TabState) []entity.HistoryItem {
	switch sel.Overlay {
	case entity.HistoryBack:
		return sel.BackList
	case entity.HistoryForward:
		return sel.ForwardList
	default:
		return nil
	}
}

func modeBadge(t *styles.Theme, mode entity.ContentMode) string {
	if mode == entity.ContentModeDesktop {
		return t.BadgeMuted.Render(styles.IconDesktop)
	}
	return t.Badge.Render(styles.IconMobile)
}

// addressValue hides the blank page from the editable address.
func addressValue(raw string) string {
	if raw == coordinator.BlankURL {
		return ""
	}
	return raw
}

func hostOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Hostname() == "" {
		return raw
	}
	return strings.TrimPrefix(u.Hostname(), "www.")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}

// Ensure interface compliance.
var _ tea.Model = (*BrowserModel)(nil)
