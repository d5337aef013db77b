package coordinator

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bnema/spaced/internal/application/port"
	portmocks "github.com/bnema/spaced/internal/application/port/mocks"
	"github.com/bnema/spaced/internal/application/usecase"
	"github.com/bnema/spaced/internal/domain/entity"
	"github.com/bnema/spaced/internal/infrastructure/engine/memory"
)

func assertEmptyImpliesNoSelection(t *testing.T, c *TabCoordinator) {
	t.Helper()
	if c.Count() == 0 {
		assert.Nil(t, c.SelectedTab())
		assert.Nil(t, c.PreviousTab())
	}
}

func TestNewTabCoordinator_RequiresCollaborators(t *testing.T) {
	_, err := NewTabCoordinator(context.Background(), TabCoordinatorConfig{})
	require.Error(t, err)
}

func TestTabCoordinator_StartsEmpty(t *testing.T) {
	f := newFixture(t, memory.Options{})

	assert.Equal(t, 0, f.coord.Count())
	assert.Empty(t, f.coord.Path())
	assert.False(t, f.coord.AnimateView())
	assert.False(t, f.coord.ShowDetailView())
	assertEmptyImpliesNoSelection(t, f.coord)
}

func TestTabCoordinator_AddTabAppendsInOrder(t *testing.T) {
	f := newFixture(t, memory.Options{})

	first, err := f.coord.AddTab(f.ctx, "https://one.test")
	require.NoError(t, err)
	second, err := f.coord.AddTab(f.ctx, "")
	require.NoError(t, err)
	f.sched.drain()

	assert.Equal(t, []entity.TabID{"tab-1", "tab-2"}, f.ids())
	assert.Equal(t, "https://one.test", first.Navigation().URL)
	assert.Equal(t, "https://start.test", second.Navigation().URL)
	assert.Same(t, second, f.coord.PendingTab())
	assert.Nil(t, f.coord.SelectedTab(), "adding does not navigate")
	assert.Empty(t, f.coord.Path())
}

func TestTabCoordinator_AddTabEngineFailure(t *testing.T) {
	factory := portmocks.NewMockEngineFactory(t)
	factory.EXPECT().Create(mock.Anything).Return(nil, errors.New("no display"))

	c, err := NewTabCoordinator(context.Background(), TabCoordinatorConfig{
		TabsUC:    usecase.NewManageTabsUseCase(sequentialIDs()),
		Engines:   factory,
		Scheduler: &manualScheduler{},
		Timing:    DefaultTiming(),
	})
	require.NoError(t, err)

	tab, err := c.AddTab(context.Background(), "https://a.test")
	require.Error(t, err)
	assert.Nil(t, tab)
	assert.Equal(t, 0, c.Count())
}

func TestTabCoordinator_AddTabDuplicateIDDestroysEngine(t *testing.T) {
	factory := memory.NewFactory(memory.Options{})
	c, err := NewTabCoordinator(context.Background(), TabCoordinatorConfig{
		TabsUC:    usecase.NewManageTabsUseCase(func() string { return "same" }),
		Engines:   factory,
		Scheduler: &manualScheduler{},
		Timing:    DefaultTiming(),
	})
	require.NoError(t, err)
	t.Cleanup(func() { c.Shutdown(context.Background()) })

	_, err = c.AddTab(context.Background(), "")
	require.NoError(t, err)
	_, err = c.AddTab(context.Background(), "")
	require.Error(t, err)

	engines := factory.Engines()
	require.Len(t, engines, 2)
	assert.False(t, engines[0].Destroyed())
	assert.True(t, engines[1].Destroyed())
	assert.Equal(t, 1, c.Count())
}

func TestTabCoordinator_CloseFirstOfTwo(t *testing.T) {
	f := newFixture(t, memory.Options{})

	_, err := f.coord.AddTab(f.ctx, "")
	require.NoError(t, err)
	_, err = f.coord.AddTab(f.ctx, "")
	require.NoError(t, err)

	f.coord.Close(f.ctx, f.coord.Tabs()[0].ID())

	assert.Equal(t, 1, f.coord.Count())
	assert.Equal(t, []entity.TabID{"tab-2"}, f.ids())
}

func TestTabCoordinator_ClosePreviousReassignsToLast(t *testing.T) {
	f := newFixture(t, memory.Options{})
	for range 3 {
		_, err := f.coord.AddTab(f.ctx, "")
		require.NoError(t, err)
	}
	f.coord.Open(f.ctx, "tab-1")
	require.Equal(t, entity.TabID("tab-1"), f.coord.PreviousTab().ID())

	f.coord.Close(f.ctx, "tab-1")

	require.NotNil(t, f.coord.PreviousTab())
	assert.Equal(t, entity.TabID("tab-3"), f.coord.PreviousTab().ID())
	assert.Nil(t, f.coord.SelectedTab())
	assert.Empty(t, f.coord.Path())
	assert.False(t, f.coord.AnimateView(), "emptied path resets the view")
}

func TestTabCoordinator_CloseDestroysEngine(t *testing.T) {
	f := newFixture(t, memory.Options{})
	tab, err := f.coord.AddTab(f.ctx, "")
	require.NoError(t, err)

	f.coord.Close(f.ctx, tab.ID())

	assert.True(t, tab.Closed())
	assert.True(t, f.factory.Engines()[0].Destroyed())
	assert.Nil(t, f.coord.Tab(tab.ID()))
}

func TestTabCoordinator_CloseIsIdempotent(t *testing.T) {
	f := newFixture(t, memory.Options{})
	for range 2 {
		_, err := f.coord.AddTab(f.ctx, "")
		require.NoError(t, err)
	}
	f.coord.Open(f.ctx, "tab-2")

	f.coord.Close(f.ctx, "tab-1")
	once := f.coord.Snapshot()
	f.coord.Close(f.ctx, "tab-1")
	twice := f.coord.Snapshot()

	assert.Equal(t, once.SelectedID, twice.SelectedID)
	assert.Equal(t, once.PreviousID, twice.PreviousID)
	assert.Equal(t, once.Path, twice.Path)
	assert.Equal(t, f.ids(), []entity.TabID{"tab-2"})

	f.coord.Close(f.ctx, "never-existed")
	assert.Equal(t, 1, f.coord.Count())
}

func TestTabCoordinator_CloseLastSchedulesDefaultTab(t *testing.T) {
	f := newFixture(t, memory.Options{})
	tab, err := f.coord.NewTab(f.ctx)
	require.NoError(t, err)

	f.coord.Close(f.ctx, tab.ID())
	assert.Equal(t, 0, f.coord.Count())
	assertEmptyImpliesNoSelection(t, f.coord)

	f.sched.advance(DefaultTiming().CreateDelay)
	assert.Equal(t, 1, f.coord.Count())
	assert.Nil(t, f.coord.SelectedTab())

	f.sched.advance(DefaultTiming().NavigateDelay)
	require.NotNil(t, f.coord.SelectedTab())
	assert.Equal(t, entity.TabID("tab-2"), f.coord.SelectedTab().ID())
}

func TestTabCoordinator_EnsureDefaultTabStages(t *testing.T) {
	f := newFixture(t, memory.Options{})
	timing := DefaultTiming()

	var counts, depths []int
	f.coord.Subscribe(func(s Snapshot) {
		counts = append(counts, len(s.Tabs))
		depths = append(depths, len(s.Path))
	})
	depthBefore := len(f.coord.Path())

	f.coord.EnsureDefaultTab(f.ctx)
	f.coord.EnsureDefaultTab(f.ctx)
	f.sched.drain()
	assert.Equal(t, 0, f.coord.Count(), "the empty grid renders first")

	f.sched.advance(timing.CreateDelay - 1)
	assert.Equal(t, 0, f.coord.Count())

	f.sched.advance(1)
	require.Equal(t, 1, f.coord.Count(), "a single sequence runs")
	assert.Nil(t, f.coord.SelectedTab(), "the tab appears in the grid before it is opened")
	assert.Empty(t, f.coord.Path())

	f.sched.advance(timing.NavigateDelay)
	tab := f.coord.Tabs()[0]
	require.NotNil(t, f.coord.SelectedTab())
	assert.Same(t, tab, f.coord.SelectedTab())
	assert.Same(t, tab, f.coord.PreviousTab())
	assert.Len(t, f.coord.Path(), depthBefore+1)
	assert.Equal(t, "https://start.test", tab.Navigation().URL)

	require.NotEmpty(t, counts)
	assert.Equal(t, 1, counts[len(counts)-1])
	assert.Equal(t, depthBefore+1, depths[len(depths)-1])
}

func TestTabCoordinator_EnsureDefaultTabNoopWhenNotEmpty(t *testing.T) {
	f := newFixture(t, memory.Options{})
	_, err := f.coord.AddTab(f.ctx, "")
	require.NoError(t, err)

	f.coord.EnsureDefaultTab(f.ctx)
	f.sched.advance(DefaultTiming().CreateDelay + DefaultTiming().NavigateDelay)

	assert.Equal(t, 1, f.coord.Count())
	assert.Nil(t, f.coord.SelectedTab())
}

func TestTabCoordinator_DefaultTabSkipsOpenWhenUserOpenedOne(t *testing.T) {
	f := newFixture(t, memory.Options{})
	f.coord.EnsureDefaultTab(f.ctx)
	f.sched.advance(DefaultTiming().CreateDelay)

	other, err := f.coord.NewTab(f.ctx)
	require.NoError(t, err)
	f.sched.advance(DefaultTiming().NavigateDelay)

	assert.Same(t, other, f.coord.SelectedTab())
	assert.Len(t, f.coord.Path(), 1)
}

func TestTabCoordinator_NewTabNavigatesIn(t *testing.T) {
	f := newFixture(t, memory.Options{})

	tab, err := f.coord.NewTab(f.ctx)
	require.NoError(t, err)

	assert.Same(t, tab, f.coord.SelectedTab())
	assert.Same(t, tab, f.coord.PreviousTab())
	assert.Nil(t, f.coord.PendingTab())
	assert.Equal(t, []entity.TabID{tab.ID()}, f.coord.Path())
	assert.True(t, f.coord.AnimateView())
	assert.False(t, f.coord.ShowDetailView())
}

func TestTabCoordinator_ToggleViewShowIsTwoPhase(t *testing.T) {
	f := newFixture(t, memory.Options{})
	_, err := f.coord.AddTab(f.ctx, "")
	require.NoError(t, err)
	f.coord.Open(f.ctx, "tab-1")

	snap := f.coord.Snapshot()
	require.Equal(t, PhaseShowing, snap.Transition.Phase)
	assert.True(t, snap.AnimateView)
	assert.False(t, snap.ShowDetailView, "detail flag waits for the entry animation")

	f.coord.CompleteTransition(f.ctx, snap.Transition.Seq)
	assert.True(t, f.coord.ShowDetailView())
	assert.Equal(t, PhaseIdle, f.coord.Snapshot().Transition.Phase)

	// Repeated completions are ignored.
	f.coord.CompleteTransition(f.ctx, snap.Transition.Seq)
	assert.True(t, f.coord.ShowDetailView())
}

func TestTabCoordinator_ToggleViewHideIsTwoPhase(t *testing.T) {
	f := newFixture(t, memory.Options{})
	tab, err := f.coord.NewTab(f.ctx)
	require.NoError(t, err)
	f.coord.CompleteTransition(f.ctx, f.coord.Snapshot().Transition.Seq)

	seq := f.coord.ToggleView(f.ctx, false)
	assert.False(t, f.coord.ShowDetailView(), "detail hides first")
	assert.False(t, f.coord.AnimateView())
	assert.Same(t, tab, f.coord.SelectedTab(), "selection is kept during the exit animation")

	f.coord.CompleteTransition(f.ctx, seq)
	assert.Nil(t, f.coord.SelectedTab())
	assert.Same(t, tab, f.coord.PreviousTab(), "previous anchors the next transition")
	assert.Empty(t, f.coord.Path())
}

func TestTabCoordinator_StaleTransitionCompletionIgnored(t *testing.T) {
	f := newFixture(t, memory.Options{})
	tab, err := f.coord.NewTab(f.ctx)
	require.NoError(t, err)
	showSeq := f.coord.Snapshot().Transition.Seq

	hideSeq := f.coord.ToggleView(f.ctx, false)
	f.coord.CompleteTransition(f.ctx, showSeq)
	assert.False(t, f.coord.ShowDetailView(), "the superseded show must not complete")
	assert.Same(t, tab, f.coord.SelectedTab())

	f.coord.CompleteTransition(f.ctx, hideSeq)
	assert.Nil(t, f.coord.SelectedTab())
}

func TestTabCoordinator_ThumbnailReleasedAfterShow(t *testing.T) {
	f := newFixture(t, memory.Options{})
	tab, err := f.coord.AddTab(f.ctx, "")
	require.NoError(t, err)
	f.sched.settle(t, func() bool { return tab.Thumbnail() != nil })

	f.coord.Open(f.ctx, tab.ID())
	assert.True(t, tab.UseThumbnail(), "the snapshot stands in during the entry animation")

	f.coord.CompleteTransition(f.ctx, f.coord.Snapshot().Transition.Seq)
	f.sched.advance(DefaultTiming().ThumbnailRelease - 1)
	assert.True(t, tab.UseThumbnail())

	f.sched.advance(1)
	assert.False(t, tab.UseThumbnail())
}

func TestTabCoordinator_ShowGrid(t *testing.T) {
	f := newFixture(t, memory.Options{})
	tab, err := f.coord.NewTab(f.ctx)
	require.NoError(t, err)
	f.coord.CompleteTransition(f.ctx, f.coord.Snapshot().Transition.Seq)
	f.sched.advance(DefaultTiming().ThumbnailRelease)

	f.coord.ShowGrid(f.ctx)
	f.sched.settle(t, func() bool { return f.coord.Snapshot().Transition.Phase == PhaseHiding })

	assert.True(t, tab.UseThumbnail())
	assert.NotNil(t, tab.Thumbnail())
	assert.Same(t, tab, f.coord.SelectedTab())

	f.coord.CompleteTransition(f.ctx, f.coord.Snapshot().Transition.Seq)
	assert.Nil(t, f.coord.SelectedTab())
}

func TestTabCoordinator_ShowGridWithoutThumbnail(t *testing.T) {
	f := newFixture(t, memory.Options{SnapshotErr: errors.New("no surface")})
	tab, err := f.coord.NewTab(f.ctx)
	require.NoError(t, err)
	f.coord.CompleteTransition(f.ctx, f.coord.Snapshot().Transition.Seq)

	f.coord.ShowGrid(f.ctx)
	f.sched.settle(t, func() bool { return f.coord.Snapshot().Transition.Phase == PhaseHiding })

	assert.False(t, tab.UseThumbnail(), "no snapshot to stand in")
}

func TestTabCoordinator_ChangeTabKeepsDepth(t *testing.T) {
	f := newFixture(t, memory.Options{})
	for range 3 {
		_, err := f.coord.AddTab(f.ctx, "")
		require.NoError(t, err)
	}

	f.coord.ChangeTab(f.ctx, "tab-1")
	assert.Equal(t, []entity.TabID{"tab-1"}, f.coord.Path(), "an empty path gets its first entry")

	f.coord.ChangeTab(f.ctx, "tab-2")
	f.coord.ChangeTab(f.ctx, "tab-3")
	assert.Equal(t, []entity.TabID{"tab-3"}, f.coord.Path())
	assert.Equal(t, entity.TabID("tab-3"), f.coord.SelectedTab().ID())
	assert.Equal(t, entity.TabID("tab-3"), f.coord.PreviousTab().ID())

	f.coord.ChangeTab(f.ctx, "missing")
	assert.Equal(t, []entity.TabID{"tab-3"}, f.coord.Path())
}

func TestTabCoordinator_SwipeKeepsDraggingUntilSettled(t *testing.T) {
	f := newFixture(t, memory.Options{})
	first, err := f.coord.AddTab(f.ctx, "https://one.test")
	require.NoError(t, err)
	second, err := f.coord.AddTab(f.ctx, "https://two.test")
	require.NoError(t, err)
	f.sched.settle(t, func() bool { return !first.Thumbnail().IsEmpty() && !second.Thumbnail().IsEmpty() })

	f.coord.Open(f.ctx, first.ID())
	f.coord.CompleteTransition(f.ctx, f.coord.Snapshot().Transition.Seq)
	f.sched.advance(DefaultTiming().ThumbnailRelease)

	var last Snapshot
	f.coord.Subscribe(func(s Snapshot) { last = s })

	f.coord.SwipeTo(f.ctx, second.ID())
	f.sched.drain()

	assert.True(t, last.IsDragging)
	assert.Equal(t, second.ID(), last.SelectedID)
	state, ok := last.Tab(second.ID())
	require.True(t, ok)
	assert.True(t, state.UseThumbnail, "the destination draws its snapshot mid-gesture")
	assert.Equal(t, []entity.TabID{second.ID()}, last.Path)

	f.sched.advance(DefaultTiming().ThumbnailRelease)
	assert.False(t, last.IsDragging)
	state, _ = last.Tab(second.ID())
	assert.False(t, state.UseThumbnail)
}

func TestTabCoordinator_SwipeRestartsSettleWait(t *testing.T) {
	f := newFixture(t, memory.Options{})
	for range 2 {
		_, err := f.coord.AddTab(f.ctx, "")
		require.NoError(t, err)
	}
	f.coord.ChangeTab(f.ctx, "tab-1")
	release := DefaultTiming().ThumbnailRelease

	f.coord.SwipeTo(f.ctx, "tab-2")
	f.sched.advance(release - 1)
	f.coord.SwipeTo(f.ctx, "tab-1")
	f.sched.advance(1)
	assert.True(t, f.coord.IsDragging(), "the first gesture's timer is superseded")

	f.sched.advance(release)
	assert.False(t, f.coord.IsDragging())

	f.coord.SwipeTo(f.ctx, "tab-1")
	assert.False(t, f.coord.IsDragging(), "swiping to the selected tab is a no-op")
	f.coord.SwipeTo(f.ctx, "missing")
	assert.False(t, f.coord.IsDragging())
}

func TestTabCoordinator_CloseSelectedFallsBackToPathTop(t *testing.T) {
	f := newFixture(t, memory.Options{})
	for range 2 {
		_, err := f.coord.AddTab(f.ctx, "")
		require.NoError(t, err)
	}
	f.coord.Open(f.ctx, "tab-1")
	f.coord.CompleteTransition(f.ctx, f.coord.Snapshot().Transition.Seq)
	f.coord.Open(f.ctx, "tab-2")
	require.Equal(t, []entity.TabID{"tab-1", "tab-2"}, f.coord.Path())

	f.coord.Close(f.ctx, "tab-2")

	assert.Equal(t, []entity.TabID{"tab-1"}, f.coord.Path())
	require.NotNil(t, f.coord.SelectedTab())
	assert.Equal(t, entity.TabID("tab-1"), f.coord.SelectedTab().ID())
	assert.True(t, f.coord.ShowDetailView())
}

func TestTabCoordinator_Siblings(t *testing.T) {
	f := newFixture(t, memory.Options{})
	for range 3 {
		_, err := f.coord.AddTab(f.ctx, "")
		require.NoError(t, err)
	}

	assert.Nil(t, f.coord.PrecedingTab("tab-1"))
	assert.Equal(t, entity.TabID("tab-1"), f.coord.PrecedingTab("tab-2").ID())
	assert.Equal(t, entity.TabID("tab-3"), f.coord.FollowingTab("tab-2").ID())
	assert.Nil(t, f.coord.FollowingTab("tab-3"))
	assert.Nil(t, f.coord.FollowingTab("missing"))
}

func TestTabCoordinator_SubscribersGetCoalescedSnapshots(t *testing.T) {
	f := newFixture(t, memory.Options{Manual: true})

	var snaps []Snapshot
	f.coord.Subscribe(func(s Snapshot) { snaps = append(snaps, s) })

	for range 3 {
		_, err := f.coord.AddTab(f.ctx, "")
		require.NoError(t, err)
	}
	f.coord.SetDragging(true)
	f.sched.drain()

	require.Len(t, snaps, 1)
	assert.Len(t, snaps[0].Tabs, 3)
	assert.True(t, snaps[0].IsDragging)
	state, ok := snaps[0].Tab("tab-2")
	require.True(t, ok)
	assert.Equal(t, "https://start.test", state.Navigation.URL)
}

func TestTabCoordinator_TabChangesArePublished(t *testing.T) {
	f := newFixture(t, memory.Options{})
	tab, err := f.coord.AddTab(f.ctx, "")
	require.NoError(t, err)
	f.sched.drain()

	var last Snapshot
	f.coord.Subscribe(func(s Snapshot) { last = s })
	require.NoError(t, tab.Load(f.ctx, "https://next.test"))
	f.sched.drain()

	state, ok := last.Tab(tab.ID())
	require.True(t, ok)
	assert.Equal(t, "https://next.test", state.Navigation.URL)
}

func TestTabCoordinator_SetScrollTunables(t *testing.T) {
	f := newFixture(t, memory.Options{})
	tab, err := f.coord.AddTab(f.ctx, "")
	require.NoError(t, err)

	f.coord.SetScrollTunables(entity.ScrollTunables{CollapseDistance: 10, SettleThreshold: 0.5, MinOverscroll: 0})
	tab.OnScroll(1000, 800, 5)
	assert.InDelta(t, 0.5, tab.Progress(), 1e-9)

	later, err := f.coord.AddTab(f.ctx, "")
	require.NoError(t, err)
	later.OnScroll(1000, 800, 10)
	assert.InDelta(t, 1.0, later.Progress(), 1e-9)
}

type recorderCall struct {
	kind  string
	tabID entity.TabID
	url   string
	title string
}

type fakeRecorder struct {
	mu    sync.Mutex
	calls []recorderCall
}

func (r *fakeRecorder) Record(_ context.Context, tabID entity.TabID, rawURL string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, recorderCall{kind: "record", tabID: tabID, url: rawURL})
}

func (r *fakeRecorder) UpdateTitle(_ context.Context, rawURL, title string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, recorderCall{kind: "title", url: rawURL, title: title})
}

func (r *fakeRecorder) Forget(tabID entity.TabID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, recorderCall{kind: "forget", tabID: tabID})
}

func TestTabCoordinator_RecordsHistory(t *testing.T) {
	recorder := &fakeRecorder{}
	sched := &manualScheduler{}
	c, err := NewTabCoordinator(context.Background(), TabCoordinatorConfig{
		TabsUC:     usecase.NewManageTabsUseCase(sequentialIDs()),
		Engines:    memory.NewFactory(memory.Options{Titles: map[string]string{"https://a.test": "A"}}),
		Scheduler:  sched,
		History:    recorder,
		DefaultURL: "https://a.test",
		Timing:     DefaultTiming(),
	})
	require.NoError(t, err)
	t.Cleanup(func() { c.Shutdown(context.Background()) })

	tab, err := c.AddTab(context.Background(), "")
	require.NoError(t, err)
	sched.drain()
	c.Close(context.Background(), tab.ID())

	assert.Equal(t, []recorderCall{
		{kind: "record", tabID: "tab-1", url: "https://a.test"},
		{kind: "forget", tabID: "tab-1"},
	}, recorder.calls, "an unchanged title is not reported twice")
}

func TestTabCoordinator_RecordsTitleChanges(t *testing.T) {
	recorder := &fakeRecorder{}
	sched := &manualScheduler{}
	factory := memory.NewFactory(memory.Options{})
	c, err := NewTabCoordinator(context.Background(), TabCoordinatorConfig{
		TabsUC:     usecase.NewManageTabsUseCase(sequentialIDs()),
		Engines:    factory,
		Scheduler:  sched,
		History:    recorder,
		DefaultURL: "https://a.test",
		Timing:     DefaultTiming(),
	})
	require.NoError(t, err)
	t.Cleanup(func() { c.Shutdown(context.Background()) })

	_, err = c.AddTab(context.Background(), "")
	require.NoError(t, err)
	sched.drain()
	engine := factory.Engines()[0]
	engine.Emit(func(cb *port.EngineCallbacks) { cb.OnTitleChanged(engine.LastNavigation(), "Late title") })
	sched.drain()

	require.NotEmpty(t, recorder.calls)
	assert.Equal(t, recorderCall{kind: "title", url: "https://a.test", title: "Late title"}, recorder.calls[len(recorder.calls)-1])
}

func TestTabCoordinator_ShutdownClosesEverything(t *testing.T) {
	f := newFixture(t, memory.Options{})
	for range 2 {
		_, err := f.coord.AddTab(f.ctx, "")
		require.NoError(t, err)
	}

	f.coord.Shutdown(f.ctx)

	for _, engine := range f.factory.Engines() {
		assert.True(t, engine.Destroyed())
	}
}
