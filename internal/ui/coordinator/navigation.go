package coordinator

import (
	"context"
	"fmt"

	"github.com/bnema/spaced/internal/application/port"
	"github.com/bnema/spaced/internal/domain/entity"
	domainurl "github.com/bnema/spaced/internal/domain/url"
	"github.com/bnema/spaced/internal/logging"
)

func policyKey(rawURL string) (string, bool) {
	return domainurl.PolicyKey(rawURL)
}

// Load sets the URL optimistically and asks the engine to load it.
// Only the empty address is rejected; anything else is the engine's call.
func (t *Tab) Load(ctx context.Context, rawURL string) error {
	if rawURL == "" {
		return ErrEmptyAddress
	}
	if t.closed {
		return ErrTabClosed
	}
	log := logging.FromContext(ctx)

	t.overlay.Dismiss()
	t.nav.URL = rawURL
	t.nav.IsLoading = true
	t.publish()

	nav, err := t.engine.Load(ctx, rawURL)
	if err != nil {
		return t.commandFailed(ctx, "load", err)
	}
	t.supersede(nav)

	log.Debug().Str("url", rawURL).Uint64("nav", uint64(nav)).Msg("load requested")
	return nil
}

// Submit handles address-bar input. The input is normalized first; input
// that still does not parse, or equals the current URL, is dropped.
// Returns true when a load was issued.
func (t *Tab) Submit(ctx context.Context, input string) bool {
	log := logging.FromContext(ctx)

	target, ok := domainurl.NormalizeAddress(input)
	if !ok {
		log.Debug().Str("input", input).Msg("address dropped, not a url")
		return false
	}
	if target == t.engine.URL() {
		log.Debug().Str("url", target).Msg("address unchanged, not reloading")
		return false
	}
	if err := t.Load(ctx, target); err != nil {
		log.Warn().Err(err).Str("url", target).Msg("address submit failed")
		return false
	}
	return true
}

// GoBack navigates to an entry of the back list. The overlay is dismissed
// before the navigation is requested.
func (t *Tab) GoBack(ctx context.Context, item entity.HistoryItem) error {
	return t.goTo(ctx, item)
}

// GoForward navigates to an entry of the forward list. The overlay is
// dismissed before the navigation is requested.
func (t *Tab) GoForward(ctx context.Context, item entity.HistoryItem) error {
	return t.goTo(ctx, item)
}

func (t *Tab) goTo(ctx context.Context, item entity.HistoryItem) error {
	if t.closed {
		return ErrTabClosed
	}
	t.overlay.Dismiss()
	t.publish()

	return t.start(ctx, "go to history item", func() (port.NavigationID, error) {
		return t.engine.GoTo(ctx, item)
	})
}

// Back is the toolbar back button: it closes an open overlay, otherwise
// steps one entry back.
func (t *Tab) Back(ctx context.Context) error {
	if t.closed {
		return ErrTabClosed
	}
	if t.overlay.IsOpen() {
		t.DismissOverlay()
		return nil
	}
	if !t.engine.CanGoBack() {
		return nil
	}
	return t.start(ctx, "go back", func() (port.NavigationID, error) {
		return t.engine.GoBack(ctx)
	})
}

// Forward is the toolbar forward button, see Back.
func (t *Tab) Forward(ctx context.Context) error {
	if t.closed {
		return ErrTabClosed
	}
	if t.overlay.IsOpen() {
		t.DismissOverlay()
		return nil
	}
	if !t.engine.CanGoForward() {
		return nil
	}
	return t.start(ctx, "go forward", func() (port.NavigationID, error) {
		return t.engine.GoForward(ctx)
	})
}

// Reload reloads the current page.
func (t *Tab) Reload(ctx context.Context) error {
	if t.closed {
		return ErrTabClosed
	}
	if t.overlay.IsOpen() {
		t.overlay.Dismiss()
		t.publish()
	}
	return t.start(ctx, "reload", func() (port.NavigationID, error) {
		return t.engine.Reload(ctx)
	})
}

// ToggleContentMode flips between mobile and desktop rendering for the
// current host, remembers the choice for the rest of the tab's life and
// reloads from origin so the new mode is negotiated.
func (t *Tab) ToggleContentMode(ctx context.Context) error {
	if t.closed {
		return ErrTabClosed
	}
	log := logging.FromContext(ctx)

	current := t.engine.URL()
	if current == "" {
		current = t.nav.URL
	}
	next := t.nav.ContentMode.Toggled()

	key, ok := policyKey(current)
	if ok {
		t.policy.Record(key, next)
	} else {
		log.Debug().Str("url", current).Msg("no policy key for url, mode not remembered")
	}

	t.nav.ContentMode = next
	t.overlay.Dismiss()
	t.publish()

	log.Info().
		Str("host", key).
		Stringer("mode", next).
		Msg("content mode toggled")

	return t.start(ctx, "reload bypassing cache", func() (port.NavigationID, error) {
		return t.engine.ReloadBypassingCache(ctx)
	})
}

// ShowBackList opens the back overlay, closing the forward one.
func (t *Tab) ShowBackList() {
	if len(t.backList) == 0 {
		return
	}
	t.overlay.ShowBack()
	t.publish()
}

// ShowForwardList opens the forward overlay, closing the back one.
func (t *Tab) ShowForwardList() {
	if len(t.forwardList) == 0 {
		return
	}
	t.overlay.ShowForward()
	t.publish()
}

// DismissOverlay closes any open history overlay.
func (t *Tab) DismissOverlay() {
	if !t.overlay.IsOpen() {
		return
	}
	t.overlay.Dismiss()
	t.publish()
}

// start issues an engine navigation command and records its generation.
func (t *Tab) start(ctx context.Context, what string, cmd func() (port.NavigationID, error)) error {
	t.nav.IsLoading = true
	t.publish()

	nav, err := cmd()
	if err != nil {
		return t.commandFailed(ctx, what, err)
	}
	t.supersede(nav)
	logging.FromContext(ctx).Debug().Uint64("nav", uint64(nav)).Msg(what + " requested")
	return nil
}

func (t *Tab) commandFailed(ctx context.Context, what string, err error) error {
	t.nav.IsLoading = false
	t.publish()
	logging.FromContext(ctx).Warn().Err(err).Msg(what + " failed")
	return fmt.Errorf("%s: %w", what, err)
}
