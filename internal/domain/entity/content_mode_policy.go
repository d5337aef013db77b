package entity

import (
	"net/url"
	"sync"
)

// LocalContentKey is the policy key reserved for content without a host
// (file:// documents).
const LocalContentKey = ""

// ContentModePolicy maps a policy key (exact hostname, or LocalContentKey)
// to the rendering mode the user asked for on that host.
// Absence of an entry means "use the engine default".
//
// Writes happen on the owning tab's loop; reads may come from engine
// callbacks on other goroutines, hence the lock.
type ContentModePolicy struct {
	mu    sync.RWMutex
	modes map[string]ContentMode
}

// NewContentModePolicy creates an empty policy.
func NewContentModePolicy() *ContentModePolicy {
	return &ContentModePolicy{modes: make(map[string]ContentMode)}
}

// Lookup returns the requested mode for key, if any.
func (p *ContentModePolicy) Lookup(key string) (ContentMode, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	mode, ok := p.modes[key]
	return mode, ok
}

// Record stores the requested mode for key.
// Unset is never stored: once a host has a preference it only flips.
func (p *ContentModePolicy) Record(key string, mode ContentMode) {
	if mode == ContentModeUnset {
		return
	}
	p.mu.Lock()
	p.modes[key] = mode
	p.mu.Unlock()
}

// Len returns the number of hosts with a recorded preference.
func (p *ContentModePolicy) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.modes)
}

func hostOf(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
