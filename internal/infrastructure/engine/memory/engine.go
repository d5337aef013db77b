// Package memory provides an in-process engine that keeps a back/forward
// list and reports navigations without rendering anything. It backs
// headless runs and tests.
package memory

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bnema/spaced/internal/application/port"
	"github.com/bnema/spaced/internal/domain/entity"
)

var lastEngineID atomic.Uint64

// Options configures an Engine.
type Options struct {
	// DefaultMode is the content mode negotiated when no policy overrides it.
	DefaultMode entity.ContentMode
	// Async delivers callbacks from a dedicated goroutine instead of inline.
	Async bool
	// Manual buffers callbacks until Flush is called.
	Manual bool
	// Titles maps a URL to the title reported after commit.
	// URLs without an entry report their host.
	Titles map[string]string
	// FailURLs makes navigations to these URLs fail after commit.
	FailURLs map[string]error
	// SnapshotErr makes every Snapshot fail with this error.
	SnapshotErr error
	// SnapshotWidth and SnapshotHeight size the placeholder image.
	SnapshotWidth  int
	SnapshotHeight int
	// Script is loaded one URL at a time, each after the previous finished.
	Script []string
	// ScriptDelay separates scripted navigations.
	ScriptDelay time.Duration
}

// Engine is an in-memory port.Engine.
type Engine struct {
	id   port.EngineID
	opts Options

	mu         sync.Mutex
	callbacks  *port.EngineCallbacks
	entries    []entity.HistoryItem
	current    int
	nextNav    port.NavigationID
	nextItemID int64
	destroyed  bool
	script     []string
	pending    []func()
	reloads    int
	bypassed   int

	deliveries chan func()
	stop       chan struct{}
	wg         sync.WaitGroup
}

var _ port.Engine = (*Engine)(nil)

// New creates an engine with an empty history.
func New(opts Options) *Engine {
	if opts.SnapshotWidth <= 0 {
		opts.SnapshotWidth = 390
	}
	if opts.SnapshotHeight <= 0 {
		opts.SnapshotHeight = 844
	}
	e := &Engine{
		id:      port.EngineID(lastEngineID.Add(1)),
		opts:    opts,
		current: -1,
		script:  append([]string(nil), opts.Script...),
		stop:    make(chan struct{}),
	}
	if opts.Async {
		e.deliveries = make(chan func(), 64)
		e.wg.Add(1)
		go e.deliverLoop()
	}
	return e
}

// ID returns the unique identifier for this engine.
func (e *Engine) ID() port.EngineID { return e.id }

// SetCallbacks registers callback handlers. Pass nil to clear them.
func (e *Engine) SetCallbacks(callbacks *port.EngineCallbacks) {
	e.mu.Lock()
	e.callbacks = callbacks
	e.mu.Unlock()
}

// Load pushes rawURL onto the history, dropping forward entries.
func (e *Engine) Load(_ context.Context, rawURL string) (port.NavigationID, error) {
	return e.navigate(rawURL, func() { e.push(rawURL) })
}

// Navigate simulates a navigation started by the page itself (link, script).
func (e *Engine) Navigate(rawURL string) (port.NavigationID, error) {
	return e.Load(context.Background(), rawURL)
}

// Reload recommits the current entry.
func (e *Engine) Reload(_ context.Context) (port.NavigationID, error) {
	e.mu.Lock()
	e.reloads++
	e.mu.Unlock()
	return e.recommit()
}

// ReloadBypassingCache recommits the current entry, renegotiating the mode.
func (e *Engine) ReloadBypassingCache(_ context.Context) (port.NavigationID, error) {
	e.mu.Lock()
	e.bypassed++
	e.mu.Unlock()
	return e.recommit()
}

// GoTo moves to the history entry with item.ID.
func (e *Engine) GoTo(_ context.Context, item entity.HistoryItem) (port.NavigationID, error) {
	e.mu.Lock()
	index := -1
	for i, entry := range e.entries {
		if entry.ID == item.ID {
			index = i
			break
		}
	}
	e.mu.Unlock()
	if index < 0 {
		return 0, fmt.Errorf("history item %d: %w", item.ID, port.ErrNoHistoryEntry)
	}
	return e.goToIndex(index)
}

// GoBack moves one entry back.
func (e *Engine) GoBack(_ context.Context) (port.NavigationID, error) {
	e.mu.Lock()
	index := e.current - 1
	e.mu.Unlock()
	return e.goToIndex(index)
}

// GoForward moves one entry forward.
func (e *Engine) GoForward(_ context.Context) (port.NavigationID, error) {
	e.mu.Lock()
	index := e.current + 1
	e.mu.Unlock()
	return e.goToIndex(index)
}

// URL returns the committed URL, or "".
func (e *Engine) URL() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.current < 0 {
		return ""
	}
	return e.entries[e.current].URL
}

// Title returns the committed page title.
func (e *Engine) Title() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.current < 0 {
		return ""
	}
	return e.entries[e.current].Title
}

// BackList returns back entries, nearest first.
func (e *Engine) BackList() []entity.HistoryItem {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.current <= 0 {
		return nil
	}
	out := make([]entity.HistoryItem, 0, e.current)
	for i := e.current - 1; i >= 0; i-- {
		out = append(out, e.entries[i])
	}
	return out
}

// ForwardList returns forward entries, nearest first.
func (e *Engine) ForwardList() []entity.HistoryItem {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.current < 0 || e.current+1 >= len(e.entries) {
		return nil
	}
	return append([]entity.HistoryItem(nil), e.entries[e.current+1:]...)
}

// CanGoBack reports whether a back entry exists.
func (e *Engine) CanGoBack() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current > 0
}

// CanGoForward reports whether a forward entry exists.
func (e *Engine) CanGoForward() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current >= 0 && e.current+1 < len(e.entries)
}

// Reloads returns how many plain and cache-bypassing reloads were issued.
func (e *Engine) Reloads() (plain, bypassing int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.reloads, e.bypassed
}

// Destroyed reports whether Destroy was called.
func (e *Engine) Destroyed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.destroyed
}

// Destroy releases the engine. Buffered callbacks are dropped.
func (e *Engine) Destroy() {
	e.mu.Lock()
	if e.destroyed {
		e.mu.Unlock()
		return
	}
	e.destroyed = true
	e.callbacks = nil
	e.pending = nil
	e.mu.Unlock()

	close(e.stop)
	e.wg.Wait()
}

// Flush delivers callbacks buffered in Manual mode, oldest first.
func (e *Engine) Flush() int {
	e.mu.Lock()
	pending := e.pending
	e.pending = nil
	e.mu.Unlock()

	for _, fn := range pending {
		fn()
	}
	return len(pending)
}

// Pending returns the callbacks buffered in Manual mode without delivering
// them, so a caller can deliver them in any order.
func (e *Engine) Pending() []func() {
	e.mu.Lock()
	defer e.mu.Unlock()
	pending := e.pending
	e.pending = nil
	return pending
}

// LastNavigation returns the most recently started navigation.
func (e *Engine) LastNavigation() port.NavigationID {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.nextNav
}

// Emit delivers fn with the current callbacks through the engine's
// delivery path. It simulates events the page raises by itself.
func (e *Engine) Emit(fn func(cb *port.EngineCallbacks)) {
	e.deliver(func() {
		if cb := e.currentCallbacks(); cb != nil {
			fn(cb)
		}
	})
}

// --- internals ---

// navigate runs one navigation: policy decision, history edit, then commit,
// title and finish callbacks.
func (e *Engine) navigate(rawURL string, apply func()) (port.NavigationID, error) {
	e.mu.Lock()
	if e.destroyed {
		e.mu.Unlock()
		return 0, port.ErrEngineDestroyed
	}
	e.nextNav++
	nav := e.nextNav
	cb := e.callbacks
	e.mu.Unlock()

	prefs := &port.NavigationPreferences{ContentMode: e.opts.DefaultMode}
	if cb != nil && cb.OnPolicyDecision != nil {
		// The decision only adjusts the mode; the navigation always proceeds.
		_ = cb.OnPolicyDecision(rawURL, prefs)
	}

	e.mu.Lock()
	apply()
	title := e.titleFor(rawURL)
	if e.current >= 0 {
		e.entries[e.current].Title = title
	}
	e.mu.Unlock()

	mode := prefs.ContentMode
	failErr := e.opts.FailURLs[rawURL]
	e.deliver(func() {
		cb := e.currentCallbacks()
		if cb == nil {
			cb = &port.EngineCallbacks{}
		}
		if cb.OnCommitted != nil {
			cb.OnCommitted(nav, rawURL, mode)
		}
		if cb.OnTitleChanged != nil && title != "" {
			cb.OnTitleChanged(nav, title)
		}
		if failErr != nil {
			if cb.OnFailed != nil {
				cb.OnFailed(nav, failErr)
			}
			return
		}
		if cb.OnFinished != nil {
			cb.OnFinished(nav)
		}
		e.scheduleScript()
	})
	return nav, nil
}

func (e *Engine) recommit() (port.NavigationID, error) {
	rawURL := e.URL()
	if rawURL == "" {
		return 0, fmt.Errorf("reload: %w", port.ErrNoHistoryEntry)
	}
	return e.navigate(rawURL, func() {})
}

func (e *Engine) goToIndex(index int) (port.NavigationID, error) {
	e.mu.Lock()
	if index < 0 || index >= len(e.entries) {
		e.mu.Unlock()
		return 0, port.ErrNoHistoryEntry
	}
	rawURL := e.entries[index].URL
	e.mu.Unlock()
	return e.navigate(rawURL, func() { e.current = index })
}

// push must be called with mu held.
func (e *Engine) push(rawURL string) {
	e.entries = e.entries[:e.current+1]
	e.nextItemID++
	e.entries = append(e.entries, entity.HistoryItem{ID: e.nextItemID, URL: rawURL})
	e.current = len(e.entries) - 1
}

// titleFor must be called with mu held.
func (e *Engine) titleFor(rawURL string) string {
	if title, ok := e.opts.Titles[rawURL]; ok {
		return title
	}
	if u, err := url.Parse(rawURL); err == nil && u.Hostname() != "" {
		return u.Hostname()
	}
	return ""
}

func (e *Engine) currentCallbacks() *port.EngineCallbacks {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.destroyed {
		return nil
	}
	return e.callbacks
}

func (e *Engine) deliver(fn func()) {
	switch {
	case e.opts.Manual:
		e.mu.Lock()
		if !e.destroyed {
			e.pending = append(e.pending, fn)
		}
		e.mu.Unlock()
	case e.opts.Async:
		select {
		case e.deliveries <- fn:
		case <-e.stop:
		}
	default:
		fn()
	}
}

func (e *Engine) deliverLoop() {
	defer e.wg.Done()
	for {
		select {
		case fn := <-e.deliveries:
			fn()
		case <-e.stop:
			return
		}
	}
}

func (e *Engine) scheduleScript() {
	e.mu.Lock()
	if len(e.script) == 0 || e.destroyed {
		e.mu.Unlock()
		return
	}
	next := e.script[0]
	e.script = e.script[1:]
	e.mu.Unlock()

	time.AfterFunc(e.opts.ScriptDelay, func() {
		// A destroyed engine simply ends the script.
		_, _ = e.Navigate(next)
	})
}
