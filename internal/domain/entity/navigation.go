package entity

// NavigationState is the per-tab view of what the engine last committed.
// URL is updated optimistically on load and authoritatively on commit;
// Title may lag behind URL.
type NavigationState struct {
	URL         string
	Title       string
	ContentMode ContentMode
	CanGoBack   bool
	CanGoFwd    bool
	IsLoading   bool
}

// DisplayTitle returns the title to show on a tab card.
// Falls back to the host, then the raw URL.
func (s NavigationState) DisplayTitle() string {
	if s.Title != "" {
		return s.Title
	}
	if host := hostOf(s.URL); host != "" {
		return host
	}
	return s.URL
}

// HistoryItem is one entry of an engine's back/forward list.
type HistoryItem struct {
	ID    int64
	URL   string
	Title string
}

// Label returns the text shown for the item in a history overlay.
func (h HistoryItem) Label() string {
	if h.Title != "" {
		return h.Title
	}
	return h.URL
}
