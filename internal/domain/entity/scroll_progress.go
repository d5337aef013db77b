package entity

// Default scroll tunables.
const (
	// DefaultCollapseDistance is the scroll distance that takes progress from 0 to 1.
	DefaultCollapseDistance = 80.0
	// DefaultSettleThreshold splits settle decisions: below it chrome expands, otherwise collapses.
	DefaultSettleThreshold = 0.4
	// DefaultMinOverscroll is how much taller than the viewport content must be before chrome collapses.
	DefaultMinOverscroll = 200.0
)

// ScrollTunables holds the constants of the collapse behavior.
type ScrollTunables struct {
	CollapseDistance float64
	SettleThreshold  float64
	MinOverscroll    float64
}

// DefaultScrollTunables returns the stock tunables.
func DefaultScrollTunables() ScrollTunables {
	return ScrollTunables{
		CollapseDistance: DefaultCollapseDistance,
		SettleThreshold:  DefaultSettleThreshold,
		MinOverscroll:    DefaultMinOverscroll,
	}
}

// normalized fills invalid fields with defaults. A zero value means all defaults.
func (t ScrollTunables) normalized() ScrollTunables {
	d := DefaultScrollTunables()
	if t == (ScrollTunables{}) {
		return d
	}
	if t.CollapseDistance <= 0 {
		t.CollapseDistance = d.CollapseDistance
	}
	if t.SettleThreshold <= 0 || t.SettleThreshold > 1 {
		t.SettleThreshold = d.SettleThreshold
	}
	if t.MinOverscroll < 0 {
		t.MinOverscroll = d.MinOverscroll
	}
	return t
}

// Settle describes a snap of progress to a resting value.
// Presentation animates From -> To.
type Settle struct {
	From float64
	To   float64
}

// ScrollProgress turns scroll offsets into a collapse progress in [0,1]
// and snaps it to 0 or 1 when the gesture ends.
type ScrollProgress struct {
	tunables       ScrollTunables
	progress       float64
	previousOffset float64
	currentOffset  float64
}

// NewScrollProgress creates a controller at progress 0.
func NewScrollProgress(t ScrollTunables) *ScrollProgress {
	return &ScrollProgress{tunables: t.normalized()}
}

// Progress returns the current collapse progress.
func (s *ScrollProgress) Progress() float64 {
	return s.progress
}

// Tunables returns the active tunables.
func (s *ScrollProgress) Tunables() ScrollTunables {
	return s.tunables
}

// SetTunables replaces the tunables; progress is kept.
func (s *ScrollProgress) SetTunables(t ScrollTunables) {
	s.tunables = t.normalized()
}

// OnScroll feeds one scroll position. Returns true when progress changed.
// Pages shorter than MinOverscroll beyond the viewport and offsets outside
// [0, contentHeight-viewportHeight] (bounce) are ignored.
func (s *ScrollProgress) OnScroll(contentHeight, viewportHeight, offsetY float64) bool {
	scrollable := contentHeight - viewportHeight
	if scrollable < s.tunables.MinOverscroll {
		return false
	}
	maxOffset := max(0, scrollable)
	if offsetY < 0 || offsetY > maxOffset {
		return false
	}

	s.previousOffset = s.currentOffset
	s.currentOffset = offsetY

	delta := s.currentOffset - s.previousOffset
	before := s.progress
	s.progress = clamp01(s.progress + delta/s.tunables.CollapseDistance)
	return s.progress != before
}

// OnDragEnd settles immediately unless the gesture will keep decelerating.
func (s *ScrollProgress) OnDragEnd(willDecelerate bool) (Settle, bool) {
	if willDecelerate {
		return Settle{}, false
	}
	return s.settle(), true
}

// OnDecelerationEnd always settles.
func (s *ScrollProgress) OnDecelerationEnd() Settle {
	return s.settle()
}

// OnScrollToTop expands the chrome unconditionally.
func (s *ScrollProgress) OnScrollToTop() Settle {
	from := s.progress
	s.progress = 0
	return Settle{From: from, To: 0}
}

func (s *ScrollProgress) settle() Settle {
	from := s.progress
	if s.progress < s.tunables.SettleThreshold {
		s.progress = 0
	} else {
		s.progress = 1
	}
	return Settle{From: from, To: s.progress}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
