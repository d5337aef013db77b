// Package port defines application-layer interfaces for external capabilities.
// Ports abstract infrastructure concerns, allowing the browser core to remain
// independent of a specific rendering engine.
package port

import (
	"context"
	"errors"

	"github.com/bnema/spaced/internal/domain/entity"
)

var (
	// ErrNoHistoryEntry is returned when a back/forward target does not exist.
	ErrNoHistoryEntry = errors.New("no such history entry")
	// ErrEngineDestroyed is returned by commands issued after Destroy.
	ErrEngineDestroyed = errors.New("engine destroyed")
)

// EngineID uniquely identifies an engine instance.
type EngineID uint64

// NavigationID numbers the navigations an engine starts.
// IDs increase monotonically per engine, including page-initiated navigations,
// so a lower ID always belongs to an older navigation.
type NavigationID uint64

// PolicyAction is the answer to a navigation policy decision.
type PolicyAction int

const (
	// PolicyAllow lets the navigation proceed.
	PolicyAllow PolicyAction = iota
)

// NavigationPreferences are the per-navigation settings a policy decision may adjust.
type NavigationPreferences struct {
	ContentMode entity.ContentMode
}

// EngineCallbacks defines handlers for engine events.
// Engines may invoke them from any goroutine; receivers must hand them to
// their own execution context.
type EngineCallbacks struct {
	// OnCommitted is called once per committed navigation with the URL and
	// the content mode the engine negotiated.
	OnCommitted func(nav NavigationID, url string, mode entity.ContentMode)
	// OnFinished is called when a navigation finished loading.
	OnFinished func(nav NavigationID)
	// OnTitleChanged is called when the page title of navigation nav changes.
	OnTitleChanged func(nav NavigationID, title string)
	// OnFailed is called when a navigation failed.
	OnFailed func(nav NavigationID, err error)
	// OnPolicyDecision is called synchronously before every navigation,
	// redirects included. It may adjust prefs and must return PolicyAllow.
	OnPolicyDecision func(requestedURL string, prefs *NavigationPreferences) PolicyAction
}

// Engine is the capability interface of one rendering engine instance.
// A Tab owns exactly one Engine.
type Engine interface {
	// ID returns the unique identifier for this engine.
	ID() EngineID

	// --- Navigation ---

	// Load starts loading url and returns the navigation it started.
	Load(ctx context.Context, url string) (NavigationID, error)
	// Reload reloads the current page.
	Reload(ctx context.Context) (NavigationID, error)
	// ReloadBypassingCache reloads the current page from origin.
	ReloadBypassingCache(ctx context.Context) (NavigationID, error)
	// GoTo navigates to a specific back/forward list entry.
	GoTo(ctx context.Context, item entity.HistoryItem) (NavigationID, error)
	// GoBack navigates one entry back.
	GoBack(ctx context.Context) (NavigationID, error)
	// GoForward navigates one entry forward.
	GoForward(ctx context.Context) (NavigationID, error)

	// --- State Queries ---

	URL() string
	Title() string
	// BackList returns back entries, nearest first.
	BackList() []entity.HistoryItem
	// ForwardList returns forward entries, nearest first.
	ForwardList() []entity.HistoryItem
	CanGoBack() bool
	CanGoForward() bool

	// --- Callbacks ---

	// SetCallbacks registers callback handlers. Pass nil to clear them.
	SetCallbacks(callbacks *EngineCallbacks)

	// --- Snapshot ---

	// Snapshot renders the current content into a PNG.
	// It blocks; callers run it off their UI context.
	Snapshot(ctx context.Context) (entity.Thumbnail, error)

	// --- Lifecycle ---

	// Destroy releases the engine. Commands fail afterwards.
	Destroy()
}

//go:generate mockery --name EngineFactory --with-expecter --output mocks --outpkg mocks

// EngineFactory creates engine instances, one per tab.
type EngineFactory interface {
	Create(ctx context.Context) (Engine, error)
}
