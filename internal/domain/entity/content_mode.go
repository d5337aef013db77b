package entity

// ContentMode is the rendering mode negotiated with a site.
type ContentMode int

const (
	// ContentModeUnset lets the engine pick its default.
	ContentModeUnset ContentMode = iota
	// ContentModeMobile requests the mobile rendering of a site.
	ContentModeMobile
	// ContentModeDesktop requests the desktop rendering of a site.
	ContentModeDesktop
)

// String returns a human-readable representation of the content mode.
func (m ContentMode) String() string {
	switch m {
	case ContentModeMobile:
		return "mobile"
	case ContentModeDesktop:
		return "desktop"
	default:
		return "unset"
	}
}

// Toggled returns the mode a user toggle switches to.
// Desktop flips to mobile; mobile and unset both flip to desktop.
func (m ContentMode) Toggled() ContentMode {
	if m == ContentModeDesktop {
		return ContentModeMobile
	}
	return ContentModeDesktop
}

// ParseContentMode converts a config or CLI string into a ContentMode.
// Unknown values map to ContentModeUnset.
func ParseContentMode(s string) ContentMode {
	switch s {
	case "mobile":
		return ContentModeMobile
	case "desktop":
		return ContentModeDesktop
	default:
		return ContentModeUnset
	}
}
