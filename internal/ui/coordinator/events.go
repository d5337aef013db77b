package coordinator

import (
	"github.com/bnema/spaced/internal/application/port"
	"github.com/bnema/spaced/internal/domain/entity"
)

// EventKind enumerates what an engine can report to its Tab.
type EventKind int

const (
	EventCommitted EventKind = iota
	EventFinished
	EventTitleChanged
	EventFailed
	EventSnapshotReady
	EventSnapshotFailed
)

func (k EventKind) String() string {
	switch k {
	case EventCommitted:
		return "committed"
	case EventFinished:
		return "finished"
	case EventTitleChanged:
		return "title-changed"
	case EventFailed:
		return "failed"
	case EventSnapshotReady:
		return "snapshot-ready"
	case EventSnapshotFailed:
		return "snapshot-failed"
	default:
		return "unknown"
	}
}

// Event is one engine notification. Engines may report from any goroutine;
// the Tab posts each Event to the main loop in arrival order.
type Event struct {
	Kind      EventKind
	Nav       port.NavigationID
	URL       string
	Mode      entity.ContentMode
	Title     string
	Err       error
	Thumbnail entity.Thumbnail
}
