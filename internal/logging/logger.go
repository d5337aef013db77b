package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config holds logging configuration
type Config struct {
	Level      zerolog.Level
	Format     string // "json" or "console"
	TimeFormat string
}

// FileConfig describes the optional rotating log file.
type FileConfig struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Level:      zerolog.InfoLevel,
		Format:     "console",
		TimeFormat: time.RFC3339,
	}
}

// ParseLevel maps a level name to a zerolog level, falling back to info.
func ParseLevel(name string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

// New creates a new zerolog logger writing to stderr.
func New(cfg Config) zerolog.Logger {
	return newLogger(os.Stderr, cfg)
}

// NewWithWriter creates a logger on an arbitrary writer.
// The TUI uses it to keep log lines off the terminal it draws on.
func NewWithWriter(w io.Writer, cfg Config) zerolog.Logger {
	return newLogger(w, cfg)
}

// NewWithFile creates a logger writing JSON lines to a rotating file.
// The returned closer flushes and closes the file.
func NewWithFile(cfg Config, file FileConfig) (zerolog.Logger, io.Closer) {
	sink := &lumberjack.Logger{
		Filename:   file.Path,
		MaxSize:    file.MaxSizeMB,
		MaxBackups: file.MaxBackups,
		MaxAge:     file.MaxAgeDays,
		Compress:   file.Compress,
	}
	fileCfg := cfg
	fileCfg.Format = "json"
	return newLogger(sink, fileCfg), sink
}

func newLogger(w io.Writer, cfg Config) zerolog.Logger {
	output := w
	if cfg.Format == "console" {
		output = zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: cfg.TimeFormat,
		}
	}

	return zerolog.New(output).
		Level(cfg.Level).
		With().
		Timestamp().
		Logger()
}

// NewFromEnv creates a logger based on environment variables
// SPACED_LOG_LEVEL: trace, debug, info, warn, error (default: info)
// SPACED_LOG_FORMAT: json, console (default: console)
func NewFromEnv() zerolog.Logger {
	return New(ConfigFromEnv(DefaultConfig()))
}

// ConfigFromEnv overlays SPACED_LOG_* variables on base.
func ConfigFromEnv(base Config) Config {
	cfg := base
	if level := os.Getenv("SPACED_LOG_LEVEL"); level != "" {
		cfg.Level = ParseLevel(level)
	}
	if format := os.Getenv("SPACED_LOG_FORMAT"); format != "" {
		switch format {
		case "json", "console":
			cfg.Format = format
		}
	}
	return cfg
}
