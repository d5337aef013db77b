package cdp

import (
	"context"
	"sync"
	"testing"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/spaced/internal/application/port"
	"github.com/bnema/spaced/internal/domain/entity"
	"github.com/bnema/spaced/internal/ui/mainloop"
)

func TestSplitHistory(t *testing.T) {
	entries := []*page.NavigationEntry{
		{ID: 1, URL: "https://a.test", Title: "A"},
		{ID: 2, URL: "https://b.test"},
		{ID: 3, URL: "https://c.test", Title: "C"},
		{ID: 4, URL: "https://d.test"},
	}

	tests := []struct {
		name        string
		current     int64
		wantBack    []int64
		wantForward []int64
	}{
		{name: "at start", current: 0, wantForward: []int64{2, 3, 4}},
		{name: "in the middle", current: 2, wantBack: []int64{2, 1}, wantForward: []int64{4}},
		{name: "at end", current: 3, wantBack: []int64{3, 2, 1}},
		{name: "out of range", current: 9},
		{name: "negative", current: -1},
	}

	ids := func(items []entity.HistoryItem) []int64 {
		var out []int64
		for _, item := range items {
			out = append(out, item.ID)
		}
		return out
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			back, forward := splitHistory(tt.current, entries)
			assert.Equal(t, tt.wantBack, ids(back))
			assert.Equal(t, tt.wantForward, ids(forward))
		})
	}
}

func TestSplitHistory_KeepsTitles(t *testing.T) {
	back, _ := splitHistory(1, []*page.NavigationEntry{
		{ID: 7, URL: "https://a.test", Title: "A"},
		{ID: 8, URL: "https://b.test"},
	})
	require.Len(t, back, 1)
	assert.Equal(t, entity.HistoryItem{ID: 7, URL: "https://a.test", Title: "A"}, back[0])
}

func TestEngine_ClaimNumbersNavigations(t *testing.T) {
	e := &Engine{}

	nav, err := e.begin()
	require.NoError(t, err)
	assert.Equal(t, port.NavigationID(1), nav)

	e.mu.Lock()
	assert.Equal(t, nav, e.claim(), "the commit belongs to the pending command")
	assert.Equal(t, port.NavigationID(2), e.claim(), "page-initiated commits get a fresh id")
	e.mu.Unlock()

	next, err := e.begin()
	require.NoError(t, err)
	assert.Equal(t, port.NavigationID(3), next)
}

func TestEngine_BeginAfterDestroyFails(t *testing.T) {
	e := &Engine{destroyed: true}
	_, err := e.begin()
	assert.ErrorIs(t, err, port.ErrEngineDestroyed)
}

func TestEngine_FailedClearsPending(t *testing.T) {
	e := &Engine{}
	var failed []port.NavigationID
	e.SetCallbacks(&port.EngineCallbacks{
		OnFailed: func(nav port.NavigationID, _ error) { failed = append(failed, nav) },
	})

	nav, err := e.begin()
	require.NoError(t, err)
	e.failed(nav, assert.AnError)

	assert.Equal(t, []port.NavigationID{nav}, failed)
	e.mu.Lock()
	defer e.mu.Unlock()
	assert.Equal(t, port.NavigationID(0), e.pendingNav)
}

func TestEngine_HistoryQueriesUseCache(t *testing.T) {
	e := &Engine{
		url:     "https://b.test",
		title:   "B",
		back:    []entity.HistoryItem{{ID: 1, URL: "https://a.test"}},
		forward: nil,
	}

	assert.Equal(t, "https://b.test", e.URL())
	assert.Equal(t, "B", e.Title())
	assert.True(t, e.CanGoBack())
	assert.False(t, e.CanGoForward())

	_, err := e.GoForward(t.Context())
	assert.ErrorIs(t, err, port.ErrNoHistoryEntry)
	_, err = e.GoTo(t.Context(), entity.HistoryItem{ID: 42})
	assert.ErrorIs(t, err, port.ErrNoHistoryEntry)
}

func TestOptions_Device(t *testing.T) {
	opts := Options{ViewportWidth: 400, ViewportHeight: 800}.withDefaults()

	mobile := opts.device(entity.ContentModeMobile)
	assert.True(t, mobile.mobile)
	assert.Equal(t, int64(400), mobile.width)
	assert.Equal(t, DefaultMobileUserAgent, mobile.userAgent)

	desktop := opts.device(entity.ContentModeDesktop)
	assert.False(t, desktop.mobile)
	assert.Equal(t, DefaultDesktopUserAgent, desktop.userAgent)
	assert.Greater(t, desktop.width, mobile.width)

	assert.Equal(t, mobile, opts.device(entity.ContentModeUnset), "unset follows the default mode")

	desktopFirst := Options{DefaultMode: entity.ContentModeDesktop}.withDefaults()
	assert.False(t, desktopFirst.device(entity.ContentModeUnset).mobile)
}

// eventEngine is an Engine without a browser whose command worker runs
// until the test ends.
func eventEngine(t *testing.T, mode entity.ContentMode) (*Engine, *[]string) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	loop := mainloop.New()
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = loop.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	var (
		mu        sync.Mutex
		requested []string
	)
	e := &Engine{
		ctx:       context.Background(),
		tabCtx:    context.Background(),
		commands:  loop,
		mainFrame: "main",
		mode:      mode,
	}
	e.SetCallbacks(&port.EngineCallbacks{
		OnPolicyDecision: func(url string, prefs *port.NavigationPreferences) port.PolicyAction {
			mu.Lock()
			requested = append(requested, url)
			mu.Unlock()
			prefs.ContentMode = entity.ContentModeDesktop
			return port.PolicyAllow
		},
	})
	return e, &requested
}

func TestEngine_PageNavigationsConsultPolicy(t *testing.T) {
	e, requested := eventEngine(t, entity.ContentModeDesktop)

	e.onTargetEvent(&page.EventFrameRequestedNavigation{FrameID: "main", URL: "https://clicked.test"})
	e.onTargetEvent(&page.EventFrameRequestedNavigation{FrameID: "child", URL: "https://iframe.test"})
	e.onTargetEvent(&network.EventRequestWillBeSent{
		FrameID:          "main",
		Type:             network.ResourceTypeDocument,
		Request:          &network.Request{URL: "https://redirected.test"},
		RedirectResponse: &network.Response{Status: 302},
	})
	e.onTargetEvent(&network.EventRequestWillBeSent{
		FrameID: "main",
		Type:    network.ResourceTypeDocument,
		Request: &network.Request{URL: "https://plain-request.test"},
	})
	e.onTargetEvent(&network.EventRequestWillBeSent{
		FrameID:          "main",
		Type:             network.ResourceTypeImage,
		Request:          &network.Request{URL: "https://image.test"},
		RedirectResponse: &network.Response{Status: 302},
	})
	require.NoError(t, e.commands.Call(context.Background(), func() {}))

	assert.Equal(t, []string{"https://clicked.test", "https://redirected.test"}, *requested)
	assert.Equal(t, entity.ContentModeDesktop, e.mode)
}

func TestEngine_PageNavigationEmulationFailureKeepsMode(t *testing.T) {
	e, requested := eventEngine(t, entity.ContentModeMobile)

	e.onTargetEvent(&page.EventFrameRequestedNavigation{FrameID: "main", URL: "https://desk.test"})
	require.NoError(t, e.commands.Call(context.Background(), func() {}))

	assert.Equal(t, []string{"https://desk.test"}, *requested)
	e.mu.Lock()
	defer e.mu.Unlock()
	assert.Equal(t, entity.ContentModeMobile, e.mode, "no browser attached, emulation cannot switch")
}
