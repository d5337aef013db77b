// Package browser assembles a running shell: the main loop, the engine
// backend, visit history and the tab coordinator.
package browser

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/bnema/spaced/internal/application/port"
	"github.com/bnema/spaced/internal/application/usecase"
	"github.com/bnema/spaced/internal/domain/entity"
	"github.com/bnema/spaced/internal/domain/repository"
	domainurl "github.com/bnema/spaced/internal/domain/url"
	"github.com/bnema/spaced/internal/infrastructure/config"
	"github.com/bnema/spaced/internal/infrastructure/engine/cdp"
	"github.com/bnema/spaced/internal/infrastructure/engine/memory"
	"github.com/bnema/spaced/internal/logging"
	"github.com/bnema/spaced/internal/ui/coordinator"
	"github.com/bnema/spaced/internal/ui/mainloop"
)

// EngineFactory is an engine backend the runtime owns and closes.
type EngineFactory interface {
	port.EngineFactory
	Close() error
}

// Options configures a Runtime.
type Options struct {
	Config *config.Config
	// InitialURL is opened in the first tab. Empty runs the default-tab sequence.
	InitialURL string
	// History stores visits. Nil disables recording and suggestions.
	History repository.HistoryRepository
	// Engines overrides the backend selected by engine.kind.
	Engines EngineFactory
	// IDs overrides the tab ID generator.
	IDs usecase.IDGenerator
}

// Runtime owns the loop and everything that must only be touched from it.
type Runtime struct {
	ctx      context.Context
	initial  string
	loop     *mainloop.Loop
	engines  EngineFactory
	coord    *coordinator.TabCoordinator
	recorder *usecase.RecordHistoryUseCase
	search   *usecase.SearchHistoryUseCase

	suggestionLimit atomic.Int64
	running         atomic.Bool
	shutdownOnce    sync.Once
}

// New builds a runtime. Nothing runs until Run is called.
func New(ctx context.Context, opts Options) (*Runtime, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	ctx = logging.WithComponent(ctx, "runtime")
	log := logging.FromContext(ctx)

	engines := opts.Engines
	if engines == nil {
		var err error
		if engines, err = NewEngineFactory(ctx, cfg); err != nil {
			return nil, err
		}
	}

	ids := opts.IDs
	if ids == nil {
		ids = uuid.NewString
	}

	r := &Runtime{
		ctx:     ctx,
		initial: opts.InitialURL,
		loop:    mainloop.New(),
		engines: engines,
	}

	r.suggestionLimit.Store(int64(cfg.History.SuggestionLimit))

	var recorder coordinator.HistoryRecorder
	if opts.History != nil {
		r.search = usecase.NewSearchHistoryUseCase(opts.History)
		if cfg.History.Enabled {
			hopts := usecase.DefaultHistoryOptions()
			hopts.StripTrackingParams = cfg.History.StripTrackingParams
			r.recorder = usecase.NewRecordHistoryUseCase(ctx, opts.History, hopts)
			recorder = r.recorder
		}
	}

	coord, err := coordinator.NewTabCoordinator(ctx, coordinator.TabCoordinatorConfig{
		TabsUC:     usecase.NewManageTabsUseCase(ids),
		Engines:    engines,
		Scheduler:  r.loop,
		History:    recorder,
		DefaultURL: cfg.DefaultURL,
		Scroll:     cfg.ScrollTunables(),
		Timing:     timingFrom(cfg),
	})
	if err != nil {
		if r.recorder != nil {
			r.recorder.Close()
		}
		return nil, fmt.Errorf("create tab coordinator: %w", err)
	}
	r.coord = coord

	log.Debug().
		Str("engine", string(cfg.Engine.Kind)).
		Bool("history", r.recorder != nil).
		Msg("runtime created")
	return r, nil
}

// NewEngineFactory creates the backend named by engine.kind.
func NewEngineFactory(ctx context.Context, cfg *config.Config) (EngineFactory, error) {
	switch cfg.Engine.Kind {
	case config.EngineKindCDP, "":
		return cdp.NewFactory(ctx, cdp.Options{
			ExecPath:         cfg.Engine.ExecPath,
			Headless:         cfg.Engine.Headless,
			DefaultMode:      cfg.ContentMode(),
			MobileUserAgent:  cfg.Engine.MobileUserAgent,
			DesktopUserAgent: cfg.Engine.DesktopUserAgent,
			ViewportWidth:    cfg.Engine.ViewportWidth,
			ViewportHeight:   cfg.Engine.ViewportHeight,
		}), nil
	case config.EngineKindMemory:
		return memory.NewFactory(memory.Options{
			DefaultMode:    cfg.ContentMode(),
			Async:          true,
			SnapshotWidth:  cfg.Engine.ViewportWidth,
			SnapshotHeight: cfg.Engine.ViewportHeight,
			Script:         demoScript(ctx, cfg.Engine.DemoScript),
			ScriptDelay:    cfg.DemoScriptDelay(),
		}), nil
	default:
		return nil, fmt.Errorf("unknown engine kind %q", cfg.Engine.Kind)
	}
}

// demoScript normalizes the scripted addresses and drops unloadable ones.
func demoScript(ctx context.Context, addresses []string) []string {
	script := make([]string, 0, len(addresses))
	for _, address := range addresses {
		target, ok := domainurl.NormalizeAddress(address)
		if !ok {
			logging.FromContext(ctx).Warn().Str("address", address).Msg("demo script entry dropped")
			continue
		}
		script = append(script, target)
	}
	return script
}

func timingFrom(cfg *config.Config) coordinator.Timing {
	return coordinator.Timing{
		CreateDelay:      cfg.CreateDelay(),
		NavigateDelay:    cfg.NavigateDelay(),
		ThumbnailRelease: cfg.ThumbnailReleaseDelay(),
	}
}

// Context returns the runtime's logger-carrying context.
func (r *Runtime) Context() context.Context { return r.ctx }

// Loop returns the main loop.
func (r *Runtime) Loop() *mainloop.Loop { return r.loop }

// Run starts the first tab and drains the loop until ctx is cancelled.
func (r *Runtime) Run(ctx context.Context) error {
	r.running.Store(true)
	r.loop.Post(r.start)
	return r.loop.Run(ctx)
}

func (r *Runtime) start() {
	log := logging.FromContext(r.ctx)
	if r.initial == "" {
		r.coord.EnsureDefaultTab(r.ctx)
		return
	}
	target, ok := domainurl.NormalizeAddress(r.initial)
	if !ok {
		log.Warn().Str("input", r.initial).Msg("initial address dropped, opening default tab")
		r.coord.EnsureDefaultTab(r.ctx)
		return
	}
	tab, err := r.coord.AddTab(r.ctx, target)
	if err != nil {
		log.Error().Err(err).Msg("failed to open initial tab")
		r.coord.EnsureDefaultTab(r.ctx)
		return
	}
	r.coord.Open(r.ctx, tab.ID())
}

// Do posts fn to the loop with the coordinator. Returns false once the loop stopped.
func (r *Runtime) Do(fn func(ctx context.Context, c *coordinator.TabCoordinator)) bool {
	return r.loop.Post(func() { fn(r.ctx, r.coord) })
}

// DoTab posts fn to the loop with the tab id. Missing tabs are skipped.
func (r *Runtime) DoTab(id entity.TabID, fn func(ctx context.Context, t *coordinator.Tab)) bool {
	return r.Do(func(ctx context.Context, c *coordinator.TabCoordinator) {
		if tab := c.Tab(id); tab != nil {
			fn(logging.WithTabID(ctx, string(id)), tab)
		}
	})
}

// Subscribe registers fn for coordinator snapshots and delivers the current one.
// fn runs on the loop.
func (r *Runtime) Subscribe(ctx context.Context, fn func(coordinator.Snapshot)) (func(), error) {
	var unsubscribe func()
	err := r.loop.Call(ctx, func() {
		unsubscribe = r.coord.Subscribe(fn)
		fn(r.coord.Snapshot())
	})
	if err != nil {
		return nil, err
	}
	return func() { r.loop.Post(unsubscribe) }, nil
}

// ApplyConfig pushes reloadable settings to the running shell.
// Engine settings take effect on the next start.
func (r *Runtime) ApplyConfig(cfg *config.Config) {
	if cfg == nil {
		return
	}
	r.suggestionLimit.Store(int64(cfg.History.SuggestionLimit))
	r.loop.Post(func() {
		r.coord.SetScrollTunables(cfg.ScrollTunables())
		r.coord.SetTiming(timingFrom(cfg))
		logging.FromContext(r.ctx).Info().Msg("configuration applied")
	})
}

// Suggest ranks history for an address-bar query. Returns nil without history.
func (r *Runtime) Suggest(ctx context.Context, query string) ([]entity.HistoryMatch, error) {
	if r.search == nil {
		return nil, nil
	}
	return r.search.Suggest(ctx, query, int(r.suggestionLimit.Load()))
}

// Shutdown closes every tab, flushes history and stops the engine backend.
// Call it before cancelling Run's context. When the loop never ran or has
// stopped, the tabs are closed directly.
func (r *Runtime) Shutdown(ctx context.Context) error {
	var err error
	r.shutdownOnce.Do(func() {
		log := logging.FromContext(r.ctx)
		var callErr error
		if r.running.Load() {
			callErr = r.loop.Call(ctx, func() { r.coord.Shutdown(r.ctx) })
		} else {
			callErr = mainloop.ErrStopped
		}
		switch {
		case errors.Is(callErr, mainloop.ErrStopped):
			r.coord.Shutdown(r.ctx)
		case callErr != nil:
			log.Warn().Err(callErr).Msg("tab shutdown interrupted")
		}
		if r.recorder != nil {
			r.recorder.Close()
		}
		if r.engines != nil {
			err = r.engines.Close()
		}
		log.Debug().Msg("runtime shut down")
	})
	return err
}
