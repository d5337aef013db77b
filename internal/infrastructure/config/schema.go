package config

import (
	"time"

	"github.com/bnema/spaced/internal/domain/entity"
)

// Config represents the complete configuration for spaced.
type Config struct {
	// DefaultURL is loaded by the tab created when the grid becomes empty.
	DefaultURL string           `mapstructure:"default_url" yaml:"default_url" toml:"default_url" json:"default_url"`
	Scroll     ScrollConfig     `mapstructure:"scroll" yaml:"scroll" toml:"scroll" json:"scroll"`
	Transition TransitionConfig `mapstructure:"transition" yaml:"transition" toml:"transition" json:"transition"`
	DefaultTab DefaultTabConfig `mapstructure:"default_tab" yaml:"default_tab" toml:"default_tab" json:"default_tab"`
	Engine     EngineConfig     `mapstructure:"engine" yaml:"engine" toml:"engine" json:"engine"`
	Database   DatabaseConfig   `mapstructure:"database" yaml:"database" toml:"database" json:"database"`
	History    HistoryConfig    `mapstructure:"history" yaml:"history" toml:"history" json:"history"`
	Logging    LoggingConfig    `mapstructure:"logging" yaml:"logging" toml:"logging" json:"logging"`
}

// ScrollConfig tunes the collapsing address bar.
type ScrollConfig struct {
	// CollapseDistance is the scroll distance in points that fully collapses the chrome.
	CollapseDistance float64 `mapstructure:"collapse_distance" yaml:"collapse_distance" toml:"collapse_distance" json:"collapse_distance" jsonschema:"exclusiveMinimum=0"` //nolint:lll // struct tags must stay on one line
	// SettleThreshold splits the resting decision: below it the chrome expands.
	SettleThreshold float64 `mapstructure:"settle_threshold" yaml:"settle_threshold" toml:"settle_threshold" json:"settle_threshold" jsonschema:"exclusiveMinimum=0,maximum=1"` //nolint:lll // struct tags must stay on one line
	// MinOverscroll is how much taller than the viewport a page must be before it collapses.
	MinOverscroll float64 `mapstructure:"min_overscroll" yaml:"min_overscroll" toml:"min_overscroll" json:"min_overscroll" jsonschema:"minimum=0"` //nolint:lll // struct tags must stay on one line
}

// TransitionConfig holds the grid/detail animation timings.
type TransitionConfig struct {
	AnimationDurationMs     int `mapstructure:"animation_duration_ms" yaml:"animation_duration_ms" toml:"animation_duration_ms" json:"animation_duration_ms" jsonschema:"minimum=0"`                         //nolint:lll // struct tags must stay on one line
	ThumbnailReleaseDelayMs int `mapstructure:"thumbnail_release_delay_ms" yaml:"thumbnail_release_delay_ms" toml:"thumbnail_release_delay_ms" json:"thumbnail_release_delay_ms" jsonschema:"minimum=0"` //nolint:lll // struct tags must stay on one line
}

// DefaultTabConfig holds the delays of the empty-grid sequence.
type DefaultTabConfig struct {
	CreateDelayMs   int `mapstructure:"create_delay_ms" yaml:"create_delay_ms" toml:"create_delay_ms" json:"create_delay_ms" jsonschema:"minimum=0"`         //nolint:lll // struct tags must stay on one line
	NavigateDelayMs int `mapstructure:"navigate_delay_ms" yaml:"navigate_delay_ms" toml:"navigate_delay_ms" json:"navigate_delay_ms" jsonschema:"minimum=0"` //nolint:lll // struct tags must stay on one line
}

// EngineKind selects the rendering engine backend.
type EngineKind string

const (
	EngineKindCDP    EngineKind = "cdp"
	EngineKindMemory EngineKind = "memory"
)

// EngineConfig controls the rendering engine.
type EngineConfig struct {
	Kind EngineKind `mapstructure:"kind" yaml:"kind" toml:"kind" json:"kind" jsonschema:"enum=cdp,enum=memory"`
	// Headless runs Chrome without a window.
	Headless bool `mapstructure:"headless" yaml:"headless" toml:"headless" json:"headless"`
	// ExecPath overrides the Chrome binary lookup.
	ExecPath string `mapstructure:"exec_path" yaml:"exec_path" toml:"exec_path" json:"exec_path,omitempty"`
	// DefaultMode is the content mode of hosts without a stored preference.
	DefaultMode      string `mapstructure:"default_mode" yaml:"default_mode" toml:"default_mode" json:"default_mode" jsonschema:"enum=mobile,enum=desktop"`
	MobileUserAgent  string `mapstructure:"mobile_user_agent" yaml:"mobile_user_agent" toml:"mobile_user_agent" json:"mobile_user_agent,omitempty"`     //nolint:lll // struct tags must stay on one line
	DesktopUserAgent string `mapstructure:"desktop_user_agent" yaml:"desktop_user_agent" toml:"desktop_user_agent" json:"desktop_user_agent,omitempty"` //nolint:lll // struct tags must stay on one line
	ViewportWidth    int    `mapstructure:"viewport_width" yaml:"viewport_width" toml:"viewport_width" json:"viewport_width" jsonschema:"minimum=0"`
	ViewportHeight   int    `mapstructure:"viewport_height" yaml:"viewport_height" toml:"viewport_height" json:"viewport_height" jsonschema:"minimum=0"`
	// DemoScript is played in the first memory-engine tab, one address after each finished load.
	DemoScript        []string `mapstructure:"demo_script" yaml:"demo_script" toml:"demo_script,omitempty" json:"demo_script,omitempty"`                                        //nolint:lll // struct tags must stay on one line
	DemoScriptDelayMs int      `mapstructure:"demo_script_delay_ms" yaml:"demo_script_delay_ms" toml:"demo_script_delay_ms" json:"demo_script_delay_ms" jsonschema:"minimum=0"` //nolint:lll // struct tags must stay on one line
}

// DatabaseConfig holds database configuration.
type DatabaseConfig struct {
	Path string `mapstructure:"path" yaml:"path" toml:"path" json:"path"`
}

// HistoryConfig holds visit history configuration.
type HistoryConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled" toml:"enabled" json:"enabled"`
	// StripTrackingParams drops utm_* style query parameters before storing a visit.
	StripTrackingParams bool `mapstructure:"strip_tracking_params" yaml:"strip_tracking_params" toml:"strip_tracking_params" json:"strip_tracking_params"` //nolint:lll // struct tags must stay on one line
	SuggestionLimit     int  `mapstructure:"suggestion_limit" yaml:"suggestion_limit" toml:"suggestion_limit" json:"suggestion_limit" jsonschema:"minimum=0"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level" toml:"level" json:"level" jsonschema:"enum=trace,enum=debug,enum=info,enum=warn,enum=error"`
	Format string `mapstructure:"format" yaml:"format" toml:"format" json:"format" jsonschema:"enum=console,enum=json"`

	// File output configuration
	EnableFileLog bool   `mapstructure:"enable_file_log" yaml:"enable_file_log" toml:"enable_file_log" json:"enable_file_log"`
	LogDir        string `mapstructure:"log_dir" yaml:"log_dir" toml:"log_dir" json:"log_dir,omitempty"`
	MaxSizeMB     int    `mapstructure:"max_size_mb" yaml:"max_size_mb" toml:"max_size_mb" json:"max_size_mb" jsonschema:"minimum=0"`
	MaxBackups    int    `mapstructure:"max_backups" yaml:"max_backups" toml:"max_backups" json:"max_backups" jsonschema:"minimum=0"`
	MaxAge        int    `mapstructure:"max_age" yaml:"max_age" toml:"max_age" json:"max_age" jsonschema:"minimum=0"`
	Compress      bool   `mapstructure:"compress" yaml:"compress" toml:"compress" json:"compress"`
}

// ScrollTunables converts the scroll section to domain tunables.
func (c *Config) ScrollTunables() entity.ScrollTunables {
	return entity.ScrollTunables{
		CollapseDistance: c.Scroll.CollapseDistance,
		SettleThreshold:  c.Scroll.SettleThreshold,
		MinOverscroll:    c.Scroll.MinOverscroll,
	}
}

// AnimationDuration returns the grid/detail animation length.
func (c *Config) AnimationDuration() time.Duration {
	return time.Duration(c.Transition.AnimationDurationMs) * time.Millisecond
}

// ThumbnailReleaseDelay returns how long the cached snapshot stays up after a show.
func (c *Config) ThumbnailReleaseDelay() time.Duration {
	return time.Duration(c.Transition.ThumbnailReleaseDelayMs) * time.Millisecond
}

// CreateDelay returns the delay before the default tab is added.
func (c *Config) CreateDelay() time.Duration {
	return time.Duration(c.DefaultTab.CreateDelayMs) * time.Millisecond
}

// NavigateDelay returns the delay between adding the default tab and opening it.
func (c *Config) NavigateDelay() time.Duration {
	return time.Duration(c.DefaultTab.NavigateDelayMs) * time.Millisecond
}

// DemoScriptDelay returns the pause between scripted demo navigations.
func (c *Config) DemoScriptDelay() time.Duration {
	return time.Duration(c.Engine.DemoScriptDelayMs) * time.Millisecond
}

// ContentMode returns the configured default content mode.
func (c *Config) ContentMode() entity.ContentMode {
	if mode := entity.ParseContentMode(c.Engine.DefaultMode); mode != entity.ContentModeUnset {
		return mode
	}
	return entity.ContentModeMobile
}
