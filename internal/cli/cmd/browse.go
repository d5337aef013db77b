package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/bnema/spaced/internal/app/browser"
	"github.com/bnema/spaced/internal/cli/model"
	"github.com/bnema/spaced/internal/infrastructure/clipboard"
	"github.com/bnema/spaced/internal/infrastructure/config"
	"github.com/bnema/spaced/internal/logging"
	"github.com/bnema/spaced/internal/ui/coordinator"
)

const shutdownTimeout = 5 * time.Second

var (
	browseEngine   string
	browseHeadless bool
	browseDesktop  bool
)

var browseCmd = &cobra.Command{
	Use:   "browse [url]",
	Short: "Open the browser shell",
	Long: `Open the tab grid in the terminal.

If a URL is provided, it opens in the first tab. Otherwise a tab with the
configured default URL is created.

Examples:
  spaced browse                  # Open the default tab
  spaced browse example.com      # Open a tab on https://example.com
  spaced browse --engine memory  # Run without Chrome`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBrowse,
}

func init() {
	rootCmd.AddCommand(browseCmd)

	browseCmd.Flags().StringVar(&browseEngine, "engine", "", "engine backend (cdp or memory)")
	browseCmd.Flags().BoolVar(&browseHeadless, "headless", false, "run Chrome without a window")
	browseCmd.Flags().BoolVar(&browseDesktop, "desktop", false, "request desktop content by default")
}

func runBrowse(cmd *cobra.Command, args []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}

	cfg := app.Config
	if cmd.Flags().Changed("engine") {
		cfg.Engine.Kind = config.EngineKind(browseEngine)
	}
	if cmd.Flags().Changed("headless") {
		cfg.Engine.Headless = browseHeadless
	}
	if browseDesktop {
		cfg.Engine.DefaultMode = "desktop"
	}

	var initialURL string
	if len(args) > 0 {
		initialURL = args[0]
	}

	ctx, stop := signal.NotifyContext(app.TUIContext(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	log := logging.FromContext(ctx)

	rt, err := browser.New(ctx, browser.Options{
		Config:     cfg,
		InitialURL: initialURL,
		History:    app.History,
	})
	if err != nil {
		return fmt.Errorf("start browser: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	runCtx, cancelRun := context.WithCancel(gctx)
	defer cancelRun()

	m := model.NewBrowserModel(ctx, app.Theme, rt, cfg.AnimationDuration())
	if clip := clipboard.New(); clip.Available() {
		m = m.WithClipboard(clip)
	}
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(gctx))

	watchConfig(ctx, app.Manager, rt, p)

	g.Go(func() error {
		return rt.Run(runCtx)
	})

	// The loop must never wait on the TUI, so snapshots go through a
	// one-slot mailbox that keeps only the newest.
	snapshots := make(chan coordinator.Snapshot, 1)
	g.Go(func() error {
		for {
			select {
			case s := <-snapshots:
				p.Send(model.SnapshotMsg{Snapshot: s})
			case <-runCtx.Done():
				return nil
			}
		}
	})

	g.Go(func() error {
		defer cancelRun()

		unsubscribe, err := rt.Subscribe(runCtx, func(s coordinator.Snapshot) {
			offerLatest(snapshots, s)
		})
		if err != nil {
			return fmt.Errorf("subscribe: %w", err)
		}

		_, runErr := p.Run()
		unsubscribe()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := rt.Shutdown(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("engine shutdown failed")
		}

		if errors.Is(runErr, tea.ErrProgramKilled) {
			return nil
		}
		return runErr
	})

	return g.Wait()
}

// offerLatest puts v in the one-slot mailbox, replacing an unread value.
// Only one goroutine may offer.
func offerLatest[T any](mailbox chan T, v T) {
	for {
		select {
		case mailbox <- v:
			return
		default:
			select {
			case <-mailbox:
			default:
			}
		}
	}
}

// watchConfig pushes reloadable settings to the running shell.
func watchConfig(ctx context.Context, mgr *config.Manager, rt *browser.Runtime, p *tea.Program) {
	log := logging.FromContext(ctx)
	if mgr == nil {
		return
	}
	if err := mgr.Watch(); err != nil {
		log.Debug().Err(err).Msg("config watch disabled")
		return
	}
	mgr.OnConfigChange(func(cfg *config.Config) {
		rt.ApplyConfig(cfg)
		p.Send(model.ConfigMsg{AnimationDuration: cfg.AnimationDuration()})
	})
}
