package cdp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/png" // screenshot dimensions
	"sync"
	"sync/atomic"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/bnema/spaced/internal/application/port"
	"github.com/bnema/spaced/internal/domain/entity"
	"github.com/bnema/spaced/internal/logging"
	"github.com/bnema/spaced/internal/ui/mainloop"
)

var lastEngineID atomic.Uint64

// Engine is a port.Engine backed by one Chrome page target.
//
// Commands run in order on a private worker so the caller never waits for
// the browser. Target events are forwarded from the chromedp listener to a
// second worker, which may issue follow-up CDP calls before invoking the
// callbacks.
type Engine struct {
	id        port.EngineID
	ctx       context.Context
	tabCtx    context.Context
	cancelTab context.CancelFunc
	opts      Options
	forget    func(port.EngineID)

	commands    *mainloop.Loop
	events      *mainloop.Loop
	stopWorkers context.CancelFunc
	workers     sync.WaitGroup

	mu           sync.Mutex
	callbacks    *port.EngineCallbacks
	nextNav      port.NavigationID
	pendingNav   port.NavigationID
	committedNav port.NavigationID
	mainFrame    cdp.FrameID
	mode         entity.ContentMode
	url          string
	title        string
	back         []entity.HistoryItem
	forward      []entity.HistoryItem
	destroyed    bool
}

var _ port.Engine = (*Engine)(nil)

func newEngine(ctx context.Context, tabCtx context.Context, cancelTab context.CancelFunc, opts Options, forget func(port.EngineID)) *Engine {
	id := port.EngineID(lastEngineID.Add(1))
	workerCtx, stop := context.WithCancel(context.WithoutCancel(ctx))

	e := &Engine{
		id:          id,
		ctx:         logging.WithEngineID(ctx, uint64(id)),
		tabCtx:      tabCtx,
		cancelTab:   cancelTab,
		opts:        opts,
		forget:      forget,
		commands:    mainloop.New(),
		events:      mainloop.New(),
		stopWorkers: stop,
	}
	for _, loop := range []*mainloop.Loop{e.commands, e.events} {
		e.workers.Add(1)
		go func() {
			defer e.workers.Done()
			_ = loop.Run(workerCtx)
		}()
	}

	chromedp.ListenTarget(tabCtx, e.onTargetEvent)
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

// Load navigates the main frame to rawURL.
func (e *Engine) Load(_ context.Context, rawURL string) (port.NavigationID, error) {
	return e.command("load", func(ctx context.Context) error {
		if err := e.applyMode(ctx, rawURL); err != nil {
			return err
		}
		_, _, errorText, _, err := page.Navigate(rawURL).Do(ctx)
		if err != nil {
			return err
		}
		if errorText != "" {
			return errors.New(errorText)
		}
		return nil
	})
}

// Reload reloads the current page.
func (e *Engine) Reload(_ context.Context) (port.NavigationID, error) {
	return e.reload(false)
}

// ReloadBypassingCache reloads from origin so a new content mode is negotiated.
func (e *Engine) ReloadBypassingCache(_ context.Context) (port.NavigationID, error) {
	return e.reload(true)
}

func (e *Engine) reload(ignoreCache bool) (port.NavigationID, error) {
	return e.command("reload", func(ctx context.Context) error {
		if err := e.applyMode(ctx, e.URL()); err != nil {
			return err
		}
		return page.Reload().WithIgnoreCache(ignoreCache).Do(ctx)
	})
}

// GoTo moves to a back or forward entry.
func (e *Engine) GoTo(_ context.Context, item entity.HistoryItem) (port.NavigationID, error) {
	e.mu.Lock()
	known := containsItem(e.back, item.ID) || containsItem(e.forward, item.ID)
	e.mu.Unlock()
	if !known {
		return 0, fmt.Errorf("history item %d: %w", item.ID, port.ErrNoHistoryEntry)
	}
	return e.command("go to history entry", func(ctx context.Context) error {
		if err := e.applyMode(ctx, item.URL); err != nil {
			return err
		}
		return page.NavigateToHistoryEntry(item.ID).Do(ctx)
	})
}

// GoBack moves one entry back.
func (e *Engine) GoBack(ctx context.Context) (port.NavigationID, error) {
	e.mu.Lock()
	var item *entity.HistoryItem
	if len(e.back) > 0 {
		item = &e.back[0]
	}
	e.mu.Unlock()
	if item == nil {
		return 0, port.ErrNoHistoryEntry
	}
	return e.GoTo(ctx, *item)
}

// GoForward moves one entry forward.
func (e *Engine) GoForward(ctx context.Context) (port.NavigationID, error) {
	e.mu.Lock()
	var item *entity.HistoryItem
	if len(e.forward) > 0 {
		item = &e.forward[0]
	}
	e.mu.Unlock()
	if item == nil {
		return 0, port.ErrNoHistoryEntry
	}
	return e.GoTo(ctx, *item)
}

// URL returns the last committed URL.
func (e *Engine) URL() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.url
}

// Title returns the last known page title.
func (e *Engine) Title() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.title
}

// BackList returns back entries, nearest first.
func (e *Engine) BackList() []entity.HistoryItem {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]entity.HistoryItem(nil), e.back...)
}

// ForwardList returns forward entries, nearest first.
func (e *Engine) ForwardList() []entity.HistoryItem {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]entity.HistoryItem(nil), e.forward...)
}

// CanGoBack reports whether a back entry exists.
func (e *Engine) CanGoBack() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.back) > 0
}

// CanGoForward reports whether a forward entry exists.
func (e *Engine) CanGoForward() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.forward) > 0
}

// Snapshot captures the visible viewport as PNG.
func (e *Engine) Snapshot(ctx context.Context) (entity.Thumbnail, error) {
	e.mu.Lock()
	destroyed := e.destroyed
	e.mu.Unlock()
	if destroyed {
		return entity.Thumbnail{}, port.ErrEngineDestroyed
	}

	runCtx, cancel := context.WithCancel(e.tabCtx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	var buf []byte
	if err := chromedp.Run(runCtx, chromedp.CaptureScreenshot(&buf)); err != nil {
		return entity.Thumbnail{}, fmt.Errorf("capture screenshot: %w", err)
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(buf))
	if err != nil {
		return entity.Thumbnail{}, fmt.Errorf("decode screenshot: %w", err)
	}
	return entity.Thumbnail{
		PNG:        buf,
		Width:      cfg.Width,
		Height:     cfg.Height,
		CapturedAt: time.Now(),
	}, nil
}

// Destroy closes the target. Pending commands and events are dropped.
func (e *Engine) Destroy() {
	e.mu.Lock()
	if e.destroyed {
		e.mu.Unlock()
		return
	}
	e.destroyed = true
	e.callbacks = nil
	e.mu.Unlock()

	// Closing the target first unblocks commands still waiting on the browser.
	e.cancelTab()
	e.stopWorkers()
	e.workers.Wait()
	if e.forget != nil {
		e.forget(e.id)
	}
	logging.FromContext(e.ctx).Debug().Msg("cdp target closed")
}

// --- commands ---

// begin numbers a navigation this engine was asked to start.
func (e *Engine) begin() (port.NavigationID, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.destroyed {
		return 0, port.ErrEngineDestroyed
	}
	e.nextNav++
	e.pendingNav = e.nextNav
	return e.nextNav, nil
}

// claim returns the navigation a main-frame commit belongs to: the pending
// command, or a fresh ID for navigations the page started itself.
// Must be called with mu held.
func (e *Engine) claim() port.NavigationID {
	if e.pendingNav != 0 {
		nav := e.pendingNav
		e.pendingNav = 0
		return nav
	}
	e.nextNav++
	return e.nextNav
}

func (e *Engine) command(what string, fn func(ctx context.Context) error) (port.NavigationID, error) {
	nav, err := e.begin()
	if err != nil {
		return 0, err
	}
	log := logging.FromContext(e.ctx)

	posted := e.commands.Post(func() {
		err := chromedp.Run(e.tabCtx, chromedp.ActionFunc(fn))
		if err == nil {
			return
		}
		log.Debug().Err(err).Uint64("nav", uint64(nav)).Msg(what + " failed")
		e.events.Post(func() { e.failed(nav, err) })
	})
	if !posted {
		return 0, port.ErrEngineDestroyed
	}
	return nav, nil
}

// applyMode asks the owner which content mode rawURL should get and
// switches the device emulation when it differs from the current one.
func (e *Engine) applyMode(ctx context.Context, rawURL string) error {
	return e.emulate(ctx, rawURL, e.decideMode(rawURL))
}

// decideMode runs the policy decision for rawURL.
func (e *Engine) decideMode(rawURL string) entity.ContentMode {
	prefs := &port.NavigationPreferences{ContentMode: e.opts.DefaultMode}
	if cb := e.currentCallbacks(); cb != nil && cb.OnPolicyDecision != nil {
		_ = cb.OnPolicyDecision(rawURL, prefs)
	}
	if prefs.ContentMode == entity.ContentModeUnset {
		return e.opts.DefaultMode
	}
	return prefs.ContentMode
}

func (e *Engine) sameMode(mode entity.ContentMode) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mode == mode
}

func (e *Engine) emulate(ctx context.Context, rawURL string, mode entity.ContentMode) error {
	if e.sameMode(mode) {
		return nil
	}

	d := e.opts.device(mode)
	if err := emulation.SetUserAgentOverride(d.userAgent).Do(ctx); err != nil {
		return fmt.Errorf("set user agent: %w", err)
	}
	if err := emulation.SetDeviceMetricsOverride(d.width, d.height, d.scale, d.mobile).Do(ctx); err != nil {
		return fmt.Errorf("set device metrics: %w", err)
	}

	e.mu.Lock()
	e.mode = mode
	e.mu.Unlock()
	logging.FromContext(e.ctx).Debug().Stringer("mode", mode).Str("url", rawURL).Msg("content mode applied")
	return nil
}

// --- events ---

// onTargetEvent runs inside chromedp's event dispatch and must not block.
func (e *Engine) onTargetEvent(ev any) {
	switch ev := ev.(type) {
	case *page.EventFrameNavigated:
		if ev.Frame == nil || ev.Frame.ParentID != "" {
			return
		}
		frameID, url := ev.Frame.ID, ev.Frame.URL+ev.Frame.URLFragment
		e.events.Post(func() { e.committed(frameID, url) })
	case *page.EventNavigatedWithinDocument:
		frameID, url := ev.FrameID, ev.URL
		e.events.Post(func() {
			if !e.isMainFrame(frameID) {
				return
			}
			e.committed(frameID, url)
			e.finished()
		})
	case *page.EventLoadEventFired:
		e.events.Post(e.finished)
	case *page.EventFrameRequestedNavigation:
		// Link clicks, form posts and script navigations.
		frameID, url := ev.FrameID, ev.URL
		e.commands.Post(func() { e.pageNavigation(frameID, url) })
	case *network.EventRequestWillBeSent:
		if ev.Type != network.ResourceTypeDocument || ev.RedirectResponse == nil || ev.Request == nil {
			return
		}
		frameID, url := ev.FrameID, ev.Request.URL
		e.commands.Post(func() { e.pageNavigation(frameID, url) })
	}
}

// pageNavigation runs the policy decision for a main-frame navigation the
// engine did not start through a command, including redirects.
func (e *Engine) pageNavigation(frameID cdp.FrameID, rawURL string) {
	if !e.isMainFrame(frameID) {
		return
	}
	mode := e.decideMode(rawURL)
	if e.sameMode(mode) {
		return
	}
	err := chromedp.Run(e.tabCtx, chromedp.ActionFunc(func(ctx context.Context) error {
		return e.emulate(ctx, rawURL, mode)
	}))
	if err != nil {
		logging.FromContext(e.ctx).Debug().Err(err).Str("url", rawURL).Msg("content mode for page navigation failed")
	}
}

func (e *Engine) isMainFrame(id cdp.FrameID) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mainFrame == "" || e.mainFrame == id
}

func (e *Engine) committed(frameID cdp.FrameID, url string) {
	e.mu.Lock()
	e.mainFrame = frameID
	nav := e.claim()
	e.committedNav = nav
	e.url = url
	mode := e.mode
	e.mu.Unlock()

	e.refreshHistory()

	if cb := e.currentCallbacks(); cb != nil && cb.OnCommitted != nil {
		cb.OnCommitted(nav, url, mode)
	}
}

func (e *Engine) finished() {
	var title string
	if err := chromedp.Run(e.tabCtx, chromedp.Title(&title)); err != nil {
		logging.FromContext(e.ctx).Debug().Err(err).Msg("read title failed")
	}

	e.mu.Lock()
	nav := e.committedNav
	changed := title != "" && title != e.title
	if changed {
		e.title = title
	}
	e.mu.Unlock()

	cb := e.currentCallbacks()
	if cb == nil {
		return
	}
	if changed && cb.OnTitleChanged != nil {
		cb.OnTitleChanged(nav, title)
	}
	if cb.OnFinished != nil {
		cb.OnFinished(nav)
	}
}

func (e *Engine) failed(nav port.NavigationID, err error) {
	e.mu.Lock()
	if e.pendingNav == nav {
		e.pendingNav = 0
	}
	e.mu.Unlock()

	if cb := e.currentCallbacks(); cb != nil && cb.OnFailed != nil {
		cb.OnFailed(nav, err)
	}
}

func (e *Engine) refreshHistory() {
	var (
		current int64
		entries []*page.NavigationEntry
	)
	err := chromedp.Run(e.tabCtx, chromedp.ActionFunc(func(ctx context.Context) error {
		var err error
		current, entries, err = page.GetNavigationHistory().Do(ctx)
		return err
	}))
	if err != nil {
		logging.FromContext(e.ctx).Debug().Err(err).Msg("read navigation history failed")
		return
	}

	back, forward := splitHistory(current, entries)
	e.mu.Lock()
	e.back, e.forward = back, forward
	if current >= 0 && int(current) < len(entries) && entries[current].Title != "" {
		e.title = entries[current].Title
	}
	e.mu.Unlock()
}

func (e *Engine) currentCallbacks() *port.EngineCallbacks {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.destroyed {
		return nil
	}
	return e.callbacks
}

// splitHistory turns a CDP navigation history into back and forward lists,
// both ordered nearest first.
func splitHistory(current int64, entries []*page.NavigationEntry) (back, forward []entity.HistoryItem) {
	if current < 0 || int(current) >= len(entries) {
		return nil, nil
	}
	for i := int(current) - 1; i >= 0; i-- {
		back = append(back, toItem(entries[i]))
	}
	for i := int(current) + 1; i < len(entries); i++ {
		forward = append(forward, toItem(entries[i]))
	}
	return back, forward
}

func toItem(entry *page.NavigationEntry) entity.HistoryItem {
	if entry == nil {
		return entity.HistoryItem{}
	}
	return entity.HistoryItem{ID: entry.ID, URL: entry.URL, Title: entry.Title}
}

func containsItem(items []entity.HistoryItem, id int64) bool {
	for _, item := range items {
		if item.ID == id {
			return true
		}
	}
	return false
}
