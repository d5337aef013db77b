package coordinator

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bnema/spaced/internal/application/usecase"
	"github.com/bnema/spaced/internal/domain/entity"
	"github.com/bnema/spaced/internal/infrastructure/engine/memory"
)

// manualScheduler is a deterministic Scheduler: nothing runs until the test
// drains the queue or advances the clock.
type manualScheduler struct {
	mu     sync.Mutex
	now    time.Duration
	queue  []func()
	timers []*manualTimer
}

type manualTimer struct {
	at      time.Duration
	fn      func()
	done    bool
	created int
}

func (s *manualScheduler) Post(fn func()) bool {
	s.mu.Lock()
	s.queue = append(s.queue, fn)
	s.mu.Unlock()
	return true
}

func (s *manualScheduler) AfterFunc(d time.Duration, fn func()) func() bool {
	s.mu.Lock()
	t := &manualTimer{at: s.now + d, fn: fn, created: len(s.timers)}
	s.timers = append(s.timers, t)
	s.mu.Unlock()
	return func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		if t.done {
			return false
		}
		t.done = true
		return true
	}
}

// drain runs queued closures, including ones they post, until the queue is empty.
func (s *manualScheduler) drain() {
	for {
		s.mu.Lock()
		if len(s.queue) == 0 {
			s.mu.Unlock()
			return
		}
		fn := s.queue[0]
		s.queue = s.queue[1:]
		s.mu.Unlock()
		fn()
	}
}

// advance moves the clock, firing due timers in deadline order.
func (s *manualScheduler) advance(d time.Duration) {
	s.drain()
	target := s.now + d
	for {
		s.mu.Lock()
		var due []*manualTimer
		for _, t := range s.timers {
			if !t.done && t.at <= target {
				due = append(due, t)
			}
		}
		if len(due) == 0 {
			s.now = target
			s.mu.Unlock()
			s.drain()
			return
		}
		sort.Slice(due, func(i, j int) bool {
			if due[i].at == due[j].at {
				return due[i].created < due[j].created
			}
			return due[i].at < due[j].at
		})
		next := due[0]
		next.done = true
		s.now = next.at
		s.queue = append(s.queue, next.fn)
		s.mu.Unlock()
		s.drain()
	}
}

// settle drains until cond holds, giving off-loop work (snapshots) time to post back.
func (s *manualScheduler) settle(t *testing.T, cond func() bool) {
	t.Helper()
	require.Eventually(t, func() bool {
		s.drain()
		return cond()
	}, time.Second, time.Millisecond)
}

func sequentialIDs() usecase.IDGenerator {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("tab-%d", n)
	}
}

type fixture struct {
	ctx     context.Context
	sched   *manualScheduler
	factory *memory.Factory
	coord   *TabCoordinator
}

func newFixture(t *testing.T, opts memory.Options) *fixture {
	t.Helper()
	ctx := context.Background()
	sched := &manualScheduler{}
	factory := memory.NewFactory(opts)
	coord, err := NewTabCoordinator(ctx, TabCoordinatorConfig{
		TabsUC:     usecase.NewManageTabsUseCase(sequentialIDs()),
		Engines:    factory,
		Scheduler:  sched,
		DefaultURL: "https://start.test",
		Scroll:     entity.DefaultScrollTunables(),
		Timing:     DefaultTiming(),
	})
	require.NoError(t, err)
	t.Cleanup(func() { coord.Shutdown(ctx) })
	return &fixture{ctx: ctx, sched: sched, factory: factory, coord: coord}
}

func (f *fixture) ids() []entity.TabID {
	var out []entity.TabID
	for _, tab := range f.coord.Tabs() {
		out = append(out, tab.ID())
	}
	return out
}

// newTestTab creates a standalone Tab on a memory engine.
func newTestTab(t *testing.T, opts memory.Options, initialURL string) (*Tab, *memory.Engine, *manualScheduler) {
	t.Helper()
	sched := &manualScheduler{}
	engine := memory.New(opts)
	tab, err := NewTab(context.Background(), TabConfig{
		ID:         "tab-1",
		InitialURL: initialURL,
		Engine:     engine,
		Scheduler:  sched,
		Scroll:     entity.DefaultScrollTunables(),
	})
	require.NoError(t, err)
	t.Cleanup(tab.Close)
	return tab, engine, sched
}
