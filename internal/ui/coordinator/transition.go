package coordinator

import (
	"context"

	"github.com/bnema/spaced/internal/logging"
)

// TransitionPhase is the stage of the grid/detail transition.
type TransitionPhase int

const (
	// PhaseIdle means no transition is waiting for completion.
	PhaseIdle TransitionPhase = iota
	// PhaseShowing waits for the entry animation.
	PhaseShowing
	// PhaseHiding waits for the exit animation.
	PhaseHiding
)

func (p TransitionPhase) String() string {
	switch p {
	case PhaseShowing:
		return "showing"
	case PhaseHiding:
		return "hiding"
	default:
		return "idle"
	}
}

// Transition identifies the running transition. Seq grows with every
// ToggleView; a completion carrying an older Seq is ignored.
type Transition struct {
	Seq   uint64
	Phase TransitionPhase
}

// ToggleView starts phase one of the grid/detail transition and returns
// the sequence number the presentation must hand back to CompleteTransition
// once its animation finished.
//
// Show sets AnimateView; ShowDetailView flips only on completion.
// Hide clears ShowDetailView and AnimateView first; the selection is cleared
// and the path popped only on completion.
func (c *TabCoordinator) ToggleView(ctx context.Context, show bool) uint64 {
	c.transition.Seq++
	if show {
		c.animateView = true
		c.transition.Phase = PhaseShowing
		if tab := c.SelectedTab(); tab != nil && !tab.Thumbnail().IsEmpty() {
			tab.SetUseThumbnail(true)
		}
	} else {
		c.showDetailView = false
		c.animateView = false
		c.transition.Phase = PhaseHiding
	}
	c.publish()

	logging.FromContext(ctx).Debug().
		Bool("show", show).
		Uint64("seq", c.transition.Seq).
		Msg("view transition started")
	return c.transition.Seq
}

// CompleteTransition runs phase two of the transition started with seq.
// Stale or repeated completions are no-ops.
func (c *TabCoordinator) CompleteTransition(ctx context.Context, seq uint64) {
	log := logging.FromContext(ctx)
	if seq != c.transition.Seq || c.transition.Phase == PhaseIdle {
		log.Debug().Uint64("seq", seq).Uint64("current", c.transition.Seq).Msg("stale transition completion ignored")
		return
	}

	switch c.transition.Phase {
	case PhaseShowing:
		c.showDetailView = true
		if tab := c.SelectedTab(); tab != nil && tab.UseThumbnail() {
			c.releaseThumbnail(tab)
		}
	case PhaseHiding:
		c.tabs.ClearSelection()
		c.path = c.path[:0]
	}
	log.Debug().Stringer("phase", c.transition.Phase).Uint64("seq", seq).Msg("view transition completed")

	c.transition.Phase = PhaseIdle
	c.publish()
}

// releaseThumbnail switches the tab back to live content after a short delay.
func (c *TabCoordinator) releaseThumbnail(tab *Tab) {
	seq := c.transition.Seq
	c.sched.AfterFunc(c.timing.ThumbnailRelease, func() {
		if seq != c.transition.Seq || tab.Closed() {
			return
		}
		tab.SetUseThumbnail(false)
	})
}

// resetView drops any transition when the path empties underneath it.
func (c *TabCoordinator) resetView() {
	c.transition.Seq++
	c.transition.Phase = PhaseIdle
	c.animateView = false
	c.showDetailView = false
	c.tabs.ClearSelection()
}
