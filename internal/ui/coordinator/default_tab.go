package coordinator

import (
	"context"

	"github.com/bnema/spaced/internal/domain/entity"
	"github.com/bnema/spaced/internal/logging"
)

type defaultTabStage int

const (
	defaultTabIdle defaultTabStage = iota
	defaultTabCreating
	defaultTabOpening
)

// EnsureDefaultTab schedules a default tab when the collection is empty.
//
// The sequence has two stages so the empty grid renders before anything
// animates: after CreateDelay the tab is added to the grid, and after
// NavigateDelay it is opened. Each stage schedules the next. Calls while a
// sequence is running are no-ops.
func (c *TabCoordinator) EnsureDefaultTab(ctx context.Context) {
	if !c.tabs.IsEmpty() || c.defaultTab != defaultTabIdle {
		return
	}
	c.defaultTab = defaultTabCreating
	logging.FromContext(ctx).Debug().Dur("delay", c.timing.CreateDelay).Msg("default tab scheduled")

	c.sched.AfterFunc(c.timing.CreateDelay, func() { c.createDefaultTab(ctx) })
}

func (c *TabCoordinator) createDefaultTab(ctx context.Context) {
	log := logging.FromContext(ctx)
	if !c.tabs.IsEmpty() {
		log.Debug().Msg("default tab no longer needed")
		c.defaultTab = defaultTabIdle
		return
	}

	tab, err := c.AddTab(ctx, "")
	if err != nil {
		log.Error().Err(err).Msg("failed to create default tab")
		c.defaultTab = defaultTabIdle
		return
	}

	c.defaultTab = defaultTabOpening
	id := tab.ID()
	c.sched.AfterFunc(c.timing.NavigateDelay, func() { c.openDefaultTab(ctx, id) })
}

func (c *TabCoordinator) openDefaultTab(ctx context.Context, id entity.TabID) {
	c.defaultTab = defaultTabIdle
	if c.tabs.IsEmpty() {
		c.EnsureDefaultTab(ctx)
		return
	}
	if c.SelectedTab() != nil || len(c.path) > 0 {
		logging.FromContext(ctx).Debug().Msg("default tab open skipped, a tab is already open")
		return
	}
	c.Open(ctx, id)
}
