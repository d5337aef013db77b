// Package cli provides CLI commands using Bubble Tea TUI.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/bnema/spaced/internal/application/usecase"
	"github.com/bnema/spaced/internal/cli/styles"
	"github.com/bnema/spaced/internal/domain/build"
	"github.com/bnema/spaced/internal/domain/repository"
	"github.com/bnema/spaced/internal/infrastructure/config"
	"github.com/bnema/spaced/internal/infrastructure/persistence/sqlite"
	"github.com/bnema/spaced/internal/logging"
)

const (
	dataDirPerm = 0o755
	logFileName = "spaced.log"
)

// App holds CLI dependencies.
type App struct {
	Config    *config.Config
	Manager   *config.Manager
	Theme     *styles.Theme
	BuildInfo build.Info

	// The database opens on first use
	LazyDB          *sqlite.LazyDB
	History         repository.HistoryRepository
	SearchHistoryUC *usecase.SearchHistoryUseCase

	// Context with logger
	ctx       context.Context
	fileLog   bool
	logConfig logging.Config
	logCloser io.Closer
}

// NewApp loads the configuration and sets up logging.
// The database is opened by the first history query.
func NewApp() (*App, error) {
	mgr, cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	logCfg := logging.ConfigFromEnv(logging.Config{
		Level:      logging.ParseLevel(cfg.Logging.Level),
		Format:     cfg.Logging.Format,
		TimeFormat: "15:04:05",
	})

	app := &App{
		Config:    cfg,
		Manager:   mgr,
		Theme:     styles.NewTheme(),
		logConfig: logCfg,
	}

	var logger zerolog.Logger
	if cfg.Logging.EnableFileLog {
		path, pathErr := logFilePath(cfg)
		if pathErr != nil {
			return nil, pathErr
		}
		logger, app.logCloser = logging.NewWithFile(logCfg, logging.FileConfig{
			Path:       path,
			MaxSizeMB:  cfg.Logging.MaxSizeMB,
			MaxBackups: cfg.Logging.MaxBackups,
			MaxAgeDays: cfg.Logging.MaxAge,
			Compress:   cfg.Logging.Compress,
		})
		app.fileLog = true
	} else {
		logger = logging.New(logCfg)
	}
	app.ctx = logging.WithContext(context.Background(), logger)

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), dataDirPerm); err != nil {
		app.closeLog()
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	app.LazyDB = sqlite.NewLazyDB(cfg.Database.Path)
	app.History = sqlite.NewLazyHistoryRepository(app.LazyDB)
	app.SearchHistoryUC = usecase.NewSearchHistoryUseCase(app.History)

	logger.Debug().Str("config", mgr.GetConfigFile()).Msg("configuration loaded")
	return app, nil
}

// loadConfig loads the configuration file, creating it on first run.
func loadConfig() (*config.Manager, *config.Config, error) {
	if err := config.Init(); err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	mgr := config.GetManager()
	if mgr == nil {
		return nil, nil, fmt.Errorf("load config: manager not initialized")
	}
	return mgr, mgr.Get(), nil
}

func logFilePath(cfg *config.Config) (string, error) {
	dir := cfg.Logging.LogDir
	if dir == "" {
		var err error
		if dir, err = config.GetLogDir(); err != nil {
			return "", fmt.Errorf("resolve log dir: %w", err)
		}
	}
	if err := os.MkdirAll(dir, dataDirPerm); err != nil {
		return "", fmt.Errorf("create log dir: %w", err)
	}
	return filepath.Join(dir, logFileName), nil
}

// Ctx returns the application context with logger.
func (a *App) Ctx() context.Context {
	return a.ctx
}

// TUIContext returns a context whose logger never writes to the terminal.
// Without file logging, log lines are dropped while the TUI owns the screen.
func (a *App) TUIContext() context.Context {
	if a.fileLog {
		return a.ctx
	}
	return logging.WithContext(context.Background(), logging.NewWithWriter(io.Discard, a.logConfig))
}

// Close releases all resources.
func (a *App) Close() error {
	var err error
	if a.LazyDB != nil {
		err = a.LazyDB.Close()
	}
	if closeErr := a.closeLog(); err == nil {
		err = closeErr
	}
	return err
}

func (a *App) closeLog() error {
	if a.logCloser == nil {
		return nil
	}
	err := a.logCloser.Close()
	a.logCloser = nil
	return err
}
