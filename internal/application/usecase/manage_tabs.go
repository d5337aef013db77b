package usecase

import (
	"context"
	"fmt"

	"github.com/bnema/spaced/internal/domain/entity"
	"github.com/bnema/spaced/internal/logging"
)

// IDGenerator is a function type for generating unique IDs.
type IDGenerator func() string

// ManageTabsUseCase handles edits of the tab collection.
// Every edit is applied fully before it returns; callers serialize edits on
// the main loop.
type ManageTabsUseCase struct {
	idGenerator IDGenerator
}

// NewManageTabsUseCase creates a new tab management use case.
func NewManageTabsUseCase(idGenerator IDGenerator) *ManageTabsUseCase {
	return &ManageTabsUseCase{
		idGenerator: idGenerator,
	}
}

// Create appends a new tab record and marks it as the pending selection target.
func (uc *ManageTabsUseCase) Create(ctx context.Context, tabs *entity.TabList) (*entity.Tab, error) {
	log := logging.FromContext(ctx)

	if tabs == nil {
		return nil, fmt.Errorf("tab list is required")
	}

	tabID := entity.TabID(uc.idGenerator())
	if tabID == "" {
		return nil, fmt.Errorf("id generator returned an empty id")
	}
	if tabs.Find(tabID) != nil {
		return nil, fmt.Errorf("duplicate tab id: %s", tabID)
	}

	tab := entity.NewTab(tabID)
	tabs.Add(tab)
	tabs.PendingID = tabID

	log.Debug().
		Str("tab_id", string(tabID)).
		Int("position", tab.Position).
		Msg("tab record created")

	return tab, nil
}

// Close removes a tab from the list.
// Removing an absent tab is a no-op and reports removed=false.
func (uc *ManageTabsUseCase) Close(ctx context.Context, tabs *entity.TabList, tabID entity.TabID) (removed bool, err error) {
	ctx = logging.WithTabID(ctx, string(tabID))
	log := logging.FromContext(ctx)

	if tabs == nil {
		return false, fmt.Errorf("tab list is required")
	}

	if !tabs.Remove(tabID) {
		log.Debug().Msg("tab not found")
		return false, nil
	}

	log.Debug().
		Str("previous", string(tabs.PreviousID)).
		Int("remaining", tabs.Count()).
		Msg("tab record removed")

	return true, nil
}

// Select makes tabID the selected and previous tab.
// Unknown tabs are ignored.
func (uc *ManageTabsUseCase) Select(ctx context.Context, tabs *entity.TabList, tabID entity.TabID) bool {
	log := logging.FromContext(ctx)

	if tabs == nil {
		return false
	}

	from := tabs.SelectedID
	if !tabs.Select(tabID) {
		log.Debug().Str("tab_id", string(tabID)).Msg("select ignored, tab not found")
		return false
	}

	log.Debug().
		Str("from", string(from)).
		Str("to", string(tabID)).
		Msg("tab selected")
	return true
}

// Neighbor returns the tab next to tabID in the given direction.
// direction: 1 for following, -1 for preceding. There is no wrap-around:
// the boundaries and unknown tabs yield "".
func (uc *ManageTabsUseCase) Neighbor(tabs *entity.TabList, tabID entity.TabID, direction int) entity.TabID {
	if tabs == nil {
		return ""
	}

	var tab *entity.Tab
	switch {
	case direction < 0:
		tab = tabs.Before(tabID)
	case direction > 0:
		tab = tabs.After(tabID)
	}
	if tab == nil {
		return ""
	}
	return tab.ID
}
