package entity

import "time"

// HistoryEntry is a visited URL in browsing history.
// Only canonicalized committed URLs are recorded.
type HistoryEntry struct {
	ID          int64     `json:"id"`
	URL         string    `json:"url"`
	Title       string    `json:"title"`
	VisitCount  int64     `json:"visit_count"`
	LastVisited time.Time `json:"last_visited"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewHistoryEntry creates a new history entry for a URL.
func NewHistoryEntry(url, title string) *HistoryEntry {
	now := time.Now()
	return &HistoryEntry{
		URL:         url,
		Title:       title,
		VisitCount:  1,
		LastVisited: now,
		CreatedAt:   now,
	}
}

// IncrementVisit updates the entry for a new visit.
func (h *HistoryEntry) IncrementVisit() {
	h.VisitCount++
	h.LastVisited = time.Now()
}

// Host returns the entry's hostname.
func (h *HistoryEntry) Host() string {
	return hostOf(h.URL)
}

// HistoryMatch is a history entry that matched an address-bar query.
type HistoryMatch struct {
	Entry *HistoryEntry
	Score int // Higher is better
}
