// Package entity defines the browser shell's core domain state.
// These are pure value types with no infrastructure dependencies.
package entity

import "time"

// TabID uniquely identifies a tab. It never changes after creation.
type TabID string

// Tab is the collection record of a browsing session.
// Navigation and rendering state live with the session that wraps the engine.
type Tab struct {
	ID        TabID
	Position  int // Display position (0-indexed)
	CreatedAt time.Time
}

// NewTab creates a tab record.
func NewTab(id TabID) *Tab {
	return &Tab{
		ID:        id,
		CreatedAt: time.Now(),
	}
}

// TabList is the ordered tab collection with its selection relations.
// Insertion order is display order; tabs are never reordered implicitly.
// SelectedID, PreviousID and PendingID are lookups into Tabs, never owners,
// and are cleared or reassigned when their tab is removed.
type TabList struct {
	Tabs []*Tab

	// SelectedID is the tab shown full-screen; empty while the grid is active.
	SelectedID TabID
	// PreviousID is the most recently viewed tab (recently-viewed marker, transition anchor).
	PreviousID TabID
	// PendingID is the selection target of the last added tab, resolved on open.
	PendingID TabID
}

// NewTabList creates an empty tab list.
func NewTabList() *TabList {
	return &TabList{
		Tabs: make([]*Tab, 0),
	}
}

// Add appends a tab to the list.
func (tl *TabList) Add(tab *Tab) {
	tab.Position = len(tl.Tabs)
	tl.Tabs = append(tl.Tabs, tab)
}

// Remove removes a tab by ID and reindexes positions.
// A removed previous tab is replaced by the new last tab; a removed selected
// or pending tab is cleared. Returns false if the tab was not in the list.
func (tl *TabList) Remove(id TabID) bool {
	i := tl.Index(id)
	if i < 0 {
		return false
	}

	tl.Tabs = append(tl.Tabs[:i], tl.Tabs[i+1:]...)
	for j := i; j < len(tl.Tabs); j++ {
		tl.Tabs[j].Position = j
	}

	if tl.PreviousID == id {
		tl.PreviousID = ""
		if last := tl.Last(); last != nil {
			tl.PreviousID = last.ID
		}
	}
	if tl.SelectedID == id {
		tl.SelectedID = ""
	}
	if tl.PendingID == id {
		tl.PendingID = ""
	}
	return true
}

// Find returns a tab by ID.
func (tl *TabList) Find(id TabID) *Tab {
	if i := tl.Index(id); i >= 0 {
		return tl.Tabs[i]
	}
	return nil
}

// Index returns the position of id, or -1.
func (tl *TabList) Index(id TabID) int {
	if id == "" {
		return -1
	}
	for i, tab := range tl.Tabs {
		if tab.ID == id {
			return i
		}
	}
	return -1
}

// Count returns the number of tabs.
func (tl *TabList) Count() int {
	return len(tl.Tabs)
}

// IsEmpty reports whether the list has no tabs.
func (tl *TabList) IsEmpty() bool {
	return len(tl.Tabs) == 0
}

// Last returns the last tab, or nil.
func (tl *TabList) Last() *Tab {
	if len(tl.Tabs) == 0 {
		return nil
	}
	return tl.Tabs[len(tl.Tabs)-1]
}

// Before returns the tab immediately before id, or nil at the boundary.
func (tl *TabList) Before(id TabID) *Tab {
	i := tl.Index(id)
	if i <= 0 {
		return nil
	}
	return tl.Tabs[i-1]
}

// After returns the tab immediately after id, or nil at the boundary.
func (tl *TabList) After(id TabID) *Tab {
	i := tl.Index(id)
	if i < 0 || i+1 >= len(tl.Tabs) {
		return nil
	}
	return tl.Tabs[i+1]
}

// Select makes id both the selected and the previous tab.
// Unknown IDs are ignored.
func (tl *TabList) Select(id TabID) bool {
	if tl.Index(id) < 0 {
		return false
	}
	tl.SelectedID = id
	tl.PreviousID = id
	tl.PendingID = ""
	return true
}

// ClearSelection returns to the grid; the previous tab is kept.
func (tl *TabList) ClearSelection() {
	tl.SelectedID = ""
	tl.PendingID = ""
}

// IDs returns the tab IDs in display order.
func (tl *TabList) IDs() []TabID {
	ids := make([]TabID, len(tl.Tabs))
	for i, tab := range tl.Tabs {
		ids[i] = tab.ID
	}
	return ids
}
