package cdp

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"

	"github.com/bnema/spaced/internal/application/port"
	"github.com/bnema/spaced/internal/logging"
)

// Factory owns the browser process and opens one page target per engine.
type Factory struct {
	opts Options

	mu           sync.Mutex
	allocCtx     context.Context
	cancelAlloc  context.CancelFunc
	browserCtx   context.Context
	cancelBrowse context.CancelFunc
	engines      map[port.EngineID]*Engine
	closed       bool

	start    sync.Once
	startErr error
}

var _ port.EngineFactory = (*Factory)(nil)

// NewFactory prepares the allocator. The browser starts with the first engine.
func NewFactory(ctx context.Context, opts Options) *Factory {
	opts = opts.withDefaults()

	allocOpts := append([]chromedp.ExecAllocatorOption(nil), chromedp.DefaultExecAllocatorOptions[:]...)
	allocOpts = append(allocOpts,
		chromedp.Flag("headless", opts.Headless),
		chromedp.WindowSize(opts.ViewportWidth, opts.ViewportHeight),
		chromedp.UserAgent(opts.MobileUserAgent),
	)
	if opts.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(opts.ExecPath))
	}

	// The browser outlives the caller's request context; only Close ends it.
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.WithoutCancel(ctx), allocOpts...)
	log := logging.FromContext(ctx)
	browserCtx, cancelBrowse := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(func(format string, args ...any) {
			log.Debug().Msgf(format, args...)
		}),
	)

	return &Factory{
		opts:         opts,
		allocCtx:     allocCtx,
		cancelAlloc:  cancelAlloc,
		browserCtx:   browserCtx,
		cancelBrowse: cancelBrowse,
		engines:      make(map[port.EngineID]*Engine),
	}
}

// Create opens a new page target.
func (f *Factory) Create(ctx context.Context) (port.Engine, error) {
	log := logging.FromContext(ctx)

	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return nil, fmt.Errorf("cdp factory closed")
	}
	browserCtx := f.browserCtx
	f.mu.Unlock()

	// Running the browser context itself starts the process and its first target.
	f.start.Do(func() {
		log.Info().Bool("headless", f.opts.Headless).Msg("starting browser")
		f.startErr = chromedp.Run(browserCtx)
	})
	if f.startErr != nil {
		return nil, fmt.Errorf("start browser: %w", f.startErr)
	}

	tabCtx, cancel := chromedp.NewContext(browserCtx)
	// Network events carry the document redirects the policy decision sees.
	if err := chromedp.Run(tabCtx, network.Enable()); err != nil {
		cancel()
		return nil, fmt.Errorf("open target: %w", err)
	}

	e := newEngine(ctx, tabCtx, cancel, f.opts, f.forget)

	f.mu.Lock()
	f.engines[e.ID()] = e
	f.mu.Unlock()

	log.Debug().Uint64("engine_id", uint64(e.ID())).Msg("cdp target opened")
	return e, nil
}

func (f *Factory) forget(id port.EngineID) {
	f.mu.Lock()
	delete(f.engines, id)
	f.mu.Unlock()
}

// Close destroys every engine and stops the browser.
func (f *Factory) Close() error {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return nil
	}
	f.closed = true
	engines := make([]*Engine, 0, len(f.engines))
	for _, e := range f.engines {
		engines = append(engines, e)
	}
	f.mu.Unlock()

	for _, e := range engines {
		e.Destroy()
	}
	err := chromedp.Cancel(f.browserCtx)
	f.cancelBrowse()
	f.cancelAlloc()
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("close browser: %w", err)
	}
	return nil
}
