package coordinator

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/bnema/spaced/internal/application/port"
	"github.com/bnema/spaced/internal/application/usecase"
	"github.com/bnema/spaced/internal/domain/entity"
	"github.com/bnema/spaced/internal/logging"
	"github.com/bnema/spaced/internal/ui/mainloop"
)

const publishKey = "snapshot"

// HistoryRecorder receives committed navigations. *usecase.RecordHistoryUseCase implements it.
type HistoryRecorder interface {
	Record(ctx context.Context, tabID entity.TabID, rawURL string)
	UpdateTitle(ctx context.Context, rawURL, title string)
	Forget(tabID entity.TabID)
}

// Timing holds the delays of the staged sequences.
type Timing struct {
	// CreateDelay runs before the default tab is added to an empty grid.
	CreateDelay time.Duration
	// NavigateDelay runs between adding the default tab and opening it.
	NavigateDelay time.Duration
	// ThumbnailRelease is how long the cached snapshot stays up after the
	// detail view appeared.
	ThumbnailRelease time.Duration
}

// DefaultTiming returns the stock delays.
func DefaultTiming() Timing {
	return Timing{
		CreateDelay:      250 * time.Millisecond,
		NavigateDelay:    350 * time.Millisecond,
		ThumbnailRelease: 300 * time.Millisecond,
	}
}

// Snapshot is the read-only view of the coordinator for the presentation layer.
type Snapshot struct {
	Tabs           []TabState
	SelectedID     entity.TabID
	PreviousID     entity.TabID
	PendingID      entity.TabID
	Path           []entity.TabID
	AnimateView    bool
	ShowDetailView bool
	IsDragging     bool
	Transition     Transition
}

// Tab returns the state of id from the snapshot.
func (s Snapshot) Tab(id entity.TabID) (TabState, bool) {
	for _, ts := range s.Tabs {
		if ts.ID == id {
			return ts, true
		}
	}
	return TabState{}, false
}

// TabCoordinator owns the tab collection, the selection relations, the
// navigation path and the grid/detail transition.
// All methods must be called on the main loop.
type TabCoordinator struct {
	ctx        context.Context
	tabsUC     *usecase.ManageTabsUseCase
	engines    port.EngineFactory
	sched      Scheduler
	history    HistoryRecorder
	defaultURL string
	scroll     entity.ScrollTunables
	timing     Timing

	tabs     *entity.TabList
	sessions map[entity.TabID]*Tab
	unsubs   map[entity.TabID][]func()
	path     []entity.TabID

	animateView    bool
	showDetailView bool
	isDragging     bool
	dragSeq        uint64
	transition     Transition
	defaultTab     defaultTabStage

	publisher *mainloop.Coalescer[string]
	observers observers[Snapshot]
}

// TabCoordinatorConfig holds configuration for TabCoordinator.
type TabCoordinatorConfig struct {
	TabsUC     *usecase.ManageTabsUseCase
	Engines    port.EngineFactory
	Scheduler  Scheduler
	History    HistoryRecorder // optional
	DefaultURL string
	Scroll     entity.ScrollTunables
	Timing     Timing
}

// NewTabCoordinator creates a new TabCoordinator with an empty collection.
func NewTabCoordinator(ctx context.Context, cfg TabCoordinatorConfig) (*TabCoordinator, error) {
	if cfg.TabsUC == nil || cfg.Engines == nil || cfg.Scheduler == nil {
		return nil, fmt.Errorf("tabs use case, engine factory and scheduler are required")
	}
	ctx = logging.WithComponent(ctx, "tab-coordinator")
	logging.FromContext(ctx).Debug().Msg("creating tab coordinator")

	c := &TabCoordinator{
		ctx:        ctx,
		tabsUC:     cfg.TabsUC,
		engines:    cfg.Engines,
		sched:      cfg.Scheduler,
		history:    cfg.History,
		defaultURL: cfg.DefaultURL,
		scroll:     cfg.Scroll,
		timing:     cfg.Timing,
		tabs:       entity.NewTabList(),
		sessions:   make(map[entity.TabID]*Tab),
		unsubs:     make(map[entity.TabID][]func()),
	}
	if c.defaultURL == "" {
		c.defaultURL = BlankURL
	}
	c.publisher = mainloop.NewCoalescer[string](cfg.Scheduler.Post)
	return c, nil
}

// --- Queries ---

// Tabs returns the tabs in display order.
func (c *TabCoordinator) Tabs() []*Tab {
	out := make([]*Tab, 0, c.tabs.Count())
	for _, rec := range c.tabs.Tabs {
		out = append(out, c.sessions[rec.ID])
	}
	return out
}

// Count returns the number of tabs.
func (c *TabCoordinator) Count() int { return c.tabs.Count() }

// Tab returns the tab with id, or nil.
func (c *TabCoordinator) Tab(id entity.TabID) *Tab { return c.sessions[id] }

// SelectedTab returns the tab shown full-screen, or nil on the grid.
func (c *TabCoordinator) SelectedTab() *Tab { return c.sessions[c.tabs.SelectedID] }

// PreviousTab returns the most recently viewed tab, or nil.
func (c *TabCoordinator) PreviousTab() *Tab { return c.sessions[c.tabs.PreviousID] }

// PendingTab returns the last added tab not yet opened, or nil.
func (c *TabCoordinator) PendingTab() *Tab { return c.sessions[c.tabs.PendingID] }

// Path returns a copy of the navigation path.
func (c *TabCoordinator) Path() []entity.TabID { return slices.Clone(c.path) }

// AnimateView reports whether the detail transition is running or done.
func (c *TabCoordinator) AnimateView() bool { return c.animateView }

// ShowDetailView reports whether the detail view is fully shown.
func (c *TabCoordinator) ShowDetailView() bool { return c.showDetailView }

// IsDragging reports whether the user is swiping between tabs.
func (c *TabCoordinator) IsDragging() bool { return c.isDragging }

// PrecedingTab returns the tab before id, or nil at the first tab.
func (c *TabCoordinator) PrecedingTab(id entity.TabID) *Tab {
	return c.sessions[c.tabsUC.Neighbor(c.tabs, id, -1)]
}

// FollowingTab returns the tab after id, or nil at the last tab.
func (c *TabCoordinator) FollowingTab(id entity.TabID) *Tab {
	return c.sessions[c.tabsUC.Neighbor(c.tabs, id, 1)]
}

// Snapshot returns the current read-only view.
func (c *TabCoordinator) Snapshot() Snapshot {
	states := make([]TabState, 0, c.tabs.Count())
	for _, rec := range c.tabs.Tabs {
		if tab := c.sessions[rec.ID]; tab != nil {
			states = append(states, tab.State())
		}
	}
	return Snapshot{
		Tabs:           states,
		SelectedID:     c.tabs.SelectedID,
		PreviousID:     c.tabs.PreviousID,
		PendingID:      c.tabs.PendingID,
		Path:           slices.Clone(c.path),
		AnimateView:    c.animateView,
		ShowDetailView: c.showDetailView,
		IsDragging:     c.isDragging,
		Transition:     c.transition,
	}
}

// Subscribe registers fn for snapshots. Bursts of changes inside one loop
// turn are published once.
func (c *TabCoordinator) Subscribe(fn func(Snapshot)) func() {
	return c.observers.add(fn)
}

func (c *TabCoordinator) publish() {
	c.publisher.Post(publishKey, func() {
		c.observers.notify(c.Snapshot())
	})
}

// --- Collection edits ---

// AddTab creates a tab loading rawURL (the default URL when empty), appends
// it and makes it the pending selection target.
func (c *TabCoordinator) AddTab(ctx context.Context, rawURL string) (*Tab, error) {
	log := logging.FromContext(ctx)
	if rawURL == "" {
		rawURL = c.defaultURL
	}

	engine, err := c.engines.Create(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to create engine")
		return nil, fmt.Errorf("create engine: %w", err)
	}

	rec, err := c.tabsUC.Create(ctx, c.tabs)
	if err != nil {
		engine.Destroy()
		log.Error().Err(err).Msg("failed to create tab")
		return nil, err
	}

	tab, err := NewTab(ctx, TabConfig{
		ID:         rec.ID,
		InitialURL: rawURL,
		Engine:     engine,
		Scheduler:  c.sched,
		Scroll:     c.scroll,
	})
	if err != nil {
		_, _ = c.tabsUC.Close(ctx, c.tabs, rec.ID)
		engine.Destroy()
		return nil, err
	}

	c.sessions[tab.ID()] = tab
	c.unsubs[tab.ID()] = []func(){
		tab.Subscribe(func(TabState) { c.publish() }),
		tab.SubscribeEvents(func(e Event) { c.recordHistory(tab, e) }),
	}
	c.publish()

	log.Debug().Str("tab_id", string(tab.ID())).Int("count", c.tabs.Count()).Msg("tab added")
	return tab, nil
}

// NewTab adds a tab and navigates into it right away.
func (c *TabCoordinator) NewTab(ctx context.Context) (*Tab, error) {
	tab, err := c.AddTab(ctx, "")
	if err != nil {
		return nil, err
	}
	c.Open(ctx, tab.ID())
	return tab, nil
}

// Open pushes id onto the navigation path, selects it and starts the
// detail transition. Unknown tabs are ignored.
func (c *TabCoordinator) Open(ctx context.Context, id entity.TabID) {
	if c.sessions[id] == nil {
		logging.FromContext(ctx).Debug().Str("tab_id", string(id)).Msg("open ignored, tab not found")
		return
	}
	c.path = append(c.path, id)
	c.tabsUC.Select(ctx, c.tabs, id)
	c.publish()

	if !c.showDetailView || c.transition.Phase == PhaseHiding {
		c.ToggleView(ctx, true)
	}
}

// ChangeTab replaces the top of the navigation path with id and selects it.
// The path depth does not grow, except from an empty path.
func (c *TabCoordinator) ChangeTab(ctx context.Context, id entity.TabID) {
	if c.sessions[id] == nil {
		logging.FromContext(ctx).Debug().Str("tab_id", string(id)).Msg("change ignored, tab not found")
		return
	}
	if len(c.path) == 0 {
		c.path = append(c.path, id)
	} else {
		c.path[len(c.path)-1] = id
	}
	c.tabsUC.Select(ctx, c.tabs, id)
	c.publish()
}

// Close removes the tab with id. Closing an absent tab is a no-op.
// When the last tab goes, a default tab is scheduled.
func (c *TabCoordinator) Close(ctx context.Context, id entity.TabID) {
	log := logging.FromContext(ctx)

	removed, err := c.tabsUC.Close(ctx, c.tabs, id)
	if err != nil {
		log.Error().Err(err).Msg("failed to close tab")
		return
	}
	if !removed {
		return
	}

	for _, unsub := range c.unsubs[id] {
		unsub()
	}
	delete(c.unsubs, id)
	if tab := c.sessions[id]; tab != nil {
		tab.Close()
	}
	delete(c.sessions, id)
	if c.history != nil {
		c.history.Forget(id)
	}

	c.path = slices.DeleteFunc(c.path, func(p entity.TabID) bool { return p == id })
	switch {
	case len(c.path) == 0 && (c.animateView || c.showDetailView):
		c.resetView()
	case len(c.path) > 0 && c.tabs.SelectedID == "" && (c.animateView || c.showDetailView):
		// The detail view falls back to the tab underneath.
		c.tabsUC.Select(ctx, c.tabs, c.path[len(c.path)-1])
	}
	c.publish()

	log.Debug().
		Str("tab_id", string(id)).
		Str("previous", string(c.tabs.PreviousID)).
		Int("remaining", c.tabs.Count()).
		Msg("tab closed")

	if c.tabs.IsEmpty() {
		c.EnsureDefaultTab(ctx)
	}
}

// SetDragging records whether the user is swiping between tabs.
func (c *TabCoordinator) SetDragging(dragging bool) {
	if c.isDragging == dragging {
		return
	}
	c.isDragging = dragging
	c.publish()
}

// SwipeTo changes to id as an interactive drag. IsDragging stays set and
// the destination draws its cached snapshot until the gesture settles
// after Timing.ThumbnailRelease. A newer swipe restarts the wait.
func (c *TabCoordinator) SwipeTo(ctx context.Context, id entity.TabID) {
	tab := c.sessions[id]
	if tab == nil || id == c.tabs.SelectedID {
		return
	}
	c.dragSeq++
	seq := c.dragSeq
	c.SetDragging(true)
	if !tab.Thumbnail().IsEmpty() {
		tab.SetUseThumbnail(true)
	}
	c.ChangeTab(ctx, id)

	c.sched.AfterFunc(c.timing.ThumbnailRelease, func() {
		if seq != c.dragSeq {
			return
		}
		c.SetDragging(false)
		if !tab.Closed() && c.transition.Phase == PhaseIdle {
			tab.SetUseThumbnail(false)
		}
	})
}

// SetScrollTunables applies new scroll tunables to every tab and to tabs created later.
func (c *TabCoordinator) SetScrollTunables(tunables entity.ScrollTunables) {
	c.scroll = tunables
	for _, tab := range c.sessions {
		tab.SetScrollTunables(tunables)
	}
}

// SetTiming replaces the staged-sequence delays.
func (c *TabCoordinator) SetTiming(timing Timing) {
	c.timing = timing
}

// ShowGrid captures the selected tab's thumbnail, then leaves the detail view.
// The thumbnail stands in for live content during the exit transition.
func (c *TabCoordinator) ShowGrid(ctx context.Context) {
	tab := c.SelectedTab()
	if tab == nil {
		c.ToggleView(ctx, false)
		return
	}
	tab.CaptureThumbnail(ctx, func(captured bool) {
		if captured || !tab.Thumbnail().IsEmpty() {
			tab.SetUseThumbnail(true)
		}
		c.ToggleView(ctx, false)
	})
}

// Shutdown closes every tab. The coordinator must not be used afterwards.
func (c *TabCoordinator) Shutdown(ctx context.Context) {
	for _, id := range c.tabs.IDs() {
		for _, unsub := range c.unsubs[id] {
			unsub()
		}
		if tab := c.sessions[id]; tab != nil {
			tab.Close()
		}
	}
	c.publisher.Stop()
	c.observers.reset()
	logging.FromContext(ctx).Debug().Int("tabs", c.tabs.Count()).Msg("tab coordinator shut down")
}

func (c *TabCoordinator) recordHistory(tab *Tab, e Event) {
	if c.history == nil {
		return
	}
	switch e.Kind {
	case EventCommitted:
		c.history.Record(tab.ctx, tab.ID(), e.URL)
	case EventTitleChanged:
		c.history.UpdateTitle(tab.ctx, tab.Navigation().URL, e.Title)
	}
}
