package entity

// HistoryDirection identifies which back/forward overlay is shown.
type HistoryDirection int

const (
	// HistoryNone means no overlay is shown.
	HistoryNone HistoryDirection = iota
	// HistoryBack is the back-list overlay.
	HistoryBack
	// HistoryForward is the forward-list overlay.
	HistoryForward
)

// String returns a human-readable representation of the direction.
func (d HistoryDirection) String() string {
	switch d {
	case HistoryBack:
		return "back"
	case HistoryForward:
		return "forward"
	default:
		return "none"
	}
}

// HistoryOverlaySelector gates the back/forward list popovers.
// A single direction field backs both flags, so they can never both be true.
type HistoryOverlaySelector struct {
	shown HistoryDirection
}

// ShowBack opens the back overlay and closes the forward one.
func (h *HistoryOverlaySelector) ShowBack() { h.shown = HistoryBack }

// ShowForward opens the forward overlay and closes the back one.
func (h *HistoryOverlaySelector) ShowForward() { h.shown = HistoryForward }

// Dismiss closes both overlays.
func (h *HistoryOverlaySelector) Dismiss() { h.shown = HistoryNone }

// BackShown reports whether the back overlay is open.
func (h HistoryOverlaySelector) BackShown() bool { return h.shown == HistoryBack }

// ForwardShown reports whether the forward overlay is open.
func (h HistoryOverlaySelector) ForwardShown() bool { return h.shown == HistoryForward }

// IsOpen reports whether either overlay is open.
func (h HistoryOverlaySelector) IsOpen() bool { return h.shown != HistoryNone }

// Shown returns the open direction.
func (h HistoryOverlaySelector) Shown() HistoryDirection { return h.shown }
