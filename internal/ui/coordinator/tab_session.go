package coordinator

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"golang.org/x/sync/singleflight"

	"github.com/bnema/spaced/internal/application/port"
	"github.com/bnema/spaced/internal/domain/entity"
	"github.com/bnema/spaced/internal/logging"
)

var (
	// ErrEmptyAddress is returned by Load for an empty address.
	ErrEmptyAddress = errors.New("empty address")
	// ErrTabClosed is returned by commands on a closed tab.
	ErrTabClosed = errors.New("tab closed")
)

// BlankURL is loaded by tabs created without an address.
const BlankURL = "about:blank"

const snapshotKey = "snapshot"

// TabConfig holds the collaborators of a Tab.
type TabConfig struct {
	ID         entity.TabID
	InitialURL string
	Engine     port.Engine
	Scheduler  Scheduler
	Scroll     entity.ScrollTunables
}

// TabState is a copy of a tab's observable state for the presentation layer.
type TabState struct {
	ID           entity.TabID
	Navigation   entity.NavigationState
	Progress     float64
	Thumbnail    *entity.Thumbnail
	UseThumbnail bool
	Overlay      entity.HistoryDirection
	BackList     []entity.HistoryItem
	ForwardList  []entity.HistoryItem
}

// Tab is one browsing session wrapping exactly one engine instance.
//
// All methods must be called on the main loop. Engine callbacks are turned
// into Events and posted to the loop; only policy decisions are answered
// synchronously, from the lock-protected ContentModePolicy.
type Tab struct {
	id     entity.TabID
	ctx    context.Context
	engine port.Engine
	sched  Scheduler

	policy  *entity.ContentModePolicy
	scroll  *entity.ScrollProgress
	overlay entity.HistoryOverlaySelector

	nav          entity.NavigationState
	backList     []entity.HistoryItem
	forwardList  []entity.HistoryItem
	thumbnail    *entity.Thumbnail
	useThumbnail bool

	// loadGen is the newest navigation this tab started itself; commitGen the
	// newest commit applied. Commits older than either are stale.
	loadGen   port.NavigationID
	commitGen port.NavigationID

	snapshots singleflight.Group
	closed    bool

	stateObservers observers[TabState]
	eventObservers observers[Event]
}

// NewTab creates a tab and starts loading its initial URL right away.
// A failing initial load is logged; the tab is still returned.
func NewTab(ctx context.Context, cfg TabConfig) (*Tab, error) {
	if cfg.Engine == nil {
		return nil, fmt.Errorf("engine is required")
	}
	if cfg.Scheduler == nil {
		return nil, fmt.Errorf("scheduler is required")
	}
	if cfg.ID == "" {
		return nil, fmt.Errorf("tab id is required")
	}

	initial := cfg.InitialURL
	if initial == "" {
		initial = BlankURL
	}

	ctx = logging.WithTabID(ctx, string(cfg.ID))
	t := &Tab{
		id:     cfg.ID,
		ctx:    ctx,
		engine: cfg.Engine,
		sched:  cfg.Scheduler,
		policy: entity.NewContentModePolicy(),
		scroll: entity.NewScrollProgress(cfg.Scroll),
	}

	cfg.Engine.SetCallbacks(&port.EngineCallbacks{
		OnCommitted: func(nav port.NavigationID, url string, mode entity.ContentMode) {
			t.post(Event{Kind: EventCommitted, Nav: nav, URL: url, Mode: mode})
		},
		OnFinished: func(nav port.NavigationID) {
			t.post(Event{Kind: EventFinished, Nav: nav})
		},
		OnTitleChanged: func(nav port.NavigationID, title string) {
			t.post(Event{Kind: EventTitleChanged, Nav: nav, Title: title})
		},
		OnFailed: func(nav port.NavigationID, err error) {
			t.post(Event{Kind: EventFailed, Nav: nav, Err: err})
		},
		OnPolicyDecision: t.decidePolicy,
	})

	logging.FromContext(ctx).Info().Str("url", initial).Msg("tab created")

	if err := t.Load(ctx, initial); err != nil {
		logging.FromContext(ctx).Warn().Err(err).Msg("initial load failed")
	}
	return t, nil
}

// ID returns the tab's immutable identifier.
func (t *Tab) ID() entity.TabID { return t.id }

// Navigation returns the current navigation state.
func (t *Tab) Navigation() entity.NavigationState { return t.nav }

// Progress returns the scroll collapse progress in [0,1].
func (t *Tab) Progress() float64 { return t.scroll.Progress() }

// Thumbnail returns the cached snapshot, or nil.
func (t *Tab) Thumbnail() *entity.Thumbnail { return t.thumbnail }

// UseThumbnail reports whether presentation should draw the cached snapshot
// instead of live content.
func (t *Tab) UseThumbnail() bool { return t.useThumbnail }

// Overlay returns the history overlay selector state.
func (t *Tab) Overlay() entity.HistoryOverlaySelector { return t.overlay }

// Policy returns the tab's content-mode policy.
func (t *Tab) Policy() *entity.ContentModePolicy { return t.policy }

// Closed reports whether Close was called.
func (t *Tab) Closed() bool { return t.closed }

// State returns a snapshot of the observable state.
func (t *Tab) State() TabState {
	return TabState{
		ID:           t.id,
		Navigation:   t.nav,
		Progress:     t.scroll.Progress(),
		Thumbnail:    t.thumbnail,
		UseThumbnail: t.useThumbnail,
		Overlay:      t.overlay.Shown(),
		BackList:     slices.Clone(t.backList),
		ForwardList:  slices.Clone(t.forwardList),
	}
}

// Subscribe registers fn for state changes and returns the unsubscribe function.
func (t *Tab) Subscribe(fn func(TabState)) func() {
	return t.stateObservers.add(fn)
}

// SubscribeEvents registers fn for engine events that were applied.
// Stale events are not delivered.
func (t *Tab) SubscribeEvents(fn func(Event)) func() {
	return t.eventObservers.add(fn)
}

// SetUseThumbnail toggles drawing the cached snapshot.
func (t *Tab) SetUseThumbnail(use bool) {
	if t.useThumbnail == use {
		return
	}
	t.useThumbnail = use
	t.publish()
}

// SetScrollTunables replaces the scroll tunables; progress is kept.
func (t *Tab) SetScrollTunables(tunables entity.ScrollTunables) {
	t.scroll.SetTunables(tunables)
}

// Close detaches and destroys the engine. Pending events are dropped.
func (t *Tab) Close() {
	if t.closed {
		return
	}
	t.closed = true
	t.engine.SetCallbacks(nil)
	t.engine.Destroy()
	t.stateObservers.reset()
	t.eventObservers.reset()
	logging.FromContext(t.ctx).Info().Msg("tab closed")
}

// --- Engine events ---

func (t *Tab) post(e Event) {
	if !t.sched.Post(func() { t.handleEvent(e) }) {
		logging.FromContext(t.ctx).Debug().Stringer("event", e.Kind).Msg("event dropped, loop stopped")
	}
}

// decidePolicy runs on the engine's goroutine. It only reads the policy.
func (t *Tab) decidePolicy(requestedURL string, prefs *port.NavigationPreferences) port.PolicyAction {
	if prefs == nil {
		return port.PolicyAllow
	}
	key, ok := policyKey(requestedURL)
	if !ok {
		return port.PolicyAllow
	}
	if mode, found := t.policy.Lookup(key); found {
		prefs.ContentMode = mode
	}
	return port.PolicyAllow
}

func (t *Tab) isStale(nav port.NavigationID) bool {
	return nav < t.loadGen || nav < t.commitGen
}

func (t *Tab) handleEvent(e Event) {
	if t.closed {
		return
	}
	log := logging.FromContext(t.ctx)

	switch e.Kind {
	case EventCommitted:
		if t.isStale(e.Nav) {
			log.Debug().Uint64("nav", uint64(e.Nav)).Str("url", e.URL).Msg("stale commit ignored")
			return
		}
		t.commitGen = e.Nav
		t.nav.URL = e.URL
		t.nav.ContentMode = e.Mode
		t.nav.Title = t.engine.Title()
		t.refreshHistory()
		log.Debug().
			Uint64("nav", uint64(e.Nav)).
			Str("url", e.URL).
			Stringer("mode", e.Mode).
			Msg("navigation committed")

	case EventFinished:
		if t.isStale(e.Nav) {
			return
		}
		t.nav.IsLoading = false
		t.refreshHistory()
		t.CaptureThumbnail(t.ctx, nil)

	case EventTitleChanged:
		if t.isStale(e.Nav) || t.nav.Title == e.Title {
			return
		}
		t.nav.Title = e.Title

	case EventFailed:
		if t.isStale(e.Nav) {
			return
		}
		t.nav.IsLoading = false
		log.Warn().Err(e.Err).Uint64("nav", uint64(e.Nav)).Msg("navigation failed")

	case EventSnapshotReady:
		thumb := e.Thumbnail
		t.thumbnail = &thumb

	case EventSnapshotFailed:
		log.Warn().Err(e.Err).Msg("thumbnail capture failed, keeping previous")
		return
	}

	t.eventObservers.notify(e)
	t.publish()
}

func (t *Tab) refreshHistory() {
	t.nav.CanGoBack = t.engine.CanGoBack()
	t.nav.CanGoFwd = t.engine.CanGoForward()
	t.backList = t.engine.BackList()
	t.forwardList = t.engine.ForwardList()
}

// supersede marks nav as the newest navigation started by this tab.
func (t *Tab) supersede(nav port.NavigationID) {
	if nav > t.loadGen {
		t.loadGen = nav
	}
}

func (t *Tab) publish() {
	if t.closed {
		return
	}
	t.stateObservers.notify(t.State())
}

// --- Thumbnail ---

// CaptureThumbnail snapshots the tab off the loop. done, when non-nil, is
// always called on the loop: with true once the new thumbnail is stored,
// with false when capture failed (the previous thumbnail is kept) or the
// tab is closed. Concurrent captures share one engine snapshot.
func (t *Tab) CaptureThumbnail(ctx context.Context, done func(captured bool)) {
	finish := func(captured bool) {
		if done != nil {
			done(captured)
		}
	}
	if t.closed {
		finish(false)
		return
	}

	engine := t.engine
	ch := t.snapshots.DoChan(snapshotKey, func() (any, error) {
		return engine.Snapshot(ctx)
	})

	go func() {
		res := <-ch
		t.sched.Post(func() {
			if t.closed {
				finish(false)
				return
			}
			if res.Err != nil {
				t.handleEvent(Event{Kind: EventSnapshotFailed, Err: res.Err})
				finish(false)
				return
			}
			thumb, _ := res.Val.(entity.Thumbnail)
			if thumb.IsEmpty() {
				t.handleEvent(Event{Kind: EventSnapshotFailed, Err: errors.New("empty snapshot")})
				finish(false)
				return
			}
			t.handleEvent(Event{Kind: EventSnapshotReady, Thumbnail: thumb})
			finish(true)
		})
	}()
}

// --- Scroll ---

// OnScroll feeds a scroll position of the tab's content.
func (t *Tab) OnScroll(contentHeight, viewportHeight, offsetY float64) {
	if t.scroll.OnScroll(contentHeight, viewportHeight, offsetY) {
		t.publish()
	}
}

// OnDragEnd settles progress unless the gesture keeps decelerating.
func (t *Tab) OnDragEnd(willDecelerate bool) (entity.Settle, bool) {
	settle, ok := t.scroll.OnDragEnd(willDecelerate)
	if ok {
		t.publish()
	}
	return settle, ok
}

// OnDecelerationEnd settles progress.
func (t *Tab) OnDecelerationEnd() entity.Settle {
	settle := t.scroll.OnDecelerationEnd()
	t.publish()
	return settle
}

// OnScrollToTop expands the chrome.
func (t *Tab) OnScrollToTop() entity.Settle {
	settle := t.scroll.OnScrollToTop()
	t.publish()
	return settle
}
