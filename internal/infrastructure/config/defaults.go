package config

import (
	"github.com/bnema/spaced/internal/domain/entity"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// Default configuration constants
const (
	defaultURL = "about:blank"

	// Transition defaults
	defaultAnimationDurationMs     = 400
	defaultThumbnailReleaseDelayMs = 300

	// Default tab sequence
	defaultCreateDelayMs   = 250
	defaultNavigateDelayMs = 350

	// Engine defaults
	defaultViewportWidth     = 390
	defaultViewportHeight    = 844
	defaultDemoScriptDelayMs = 1500

	// History defaults
	defaultSuggestionLimit = 8

	// Logging defaults
	defaultLogMaxSizeMB  = 10 // megabytes
	defaultLogMaxBackups = 3
	defaultLogMaxAgeDays = 7 // days
)

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		DefaultURL: defaultURL,
		Scroll: ScrollConfig{
			CollapseDistance: entity.DefaultCollapseDistance,
			SettleThreshold:  entity.DefaultSettleThreshold,
			MinOverscroll:    entity.DefaultMinOverscroll,
		},
		Transition: TransitionConfig{
			AnimationDurationMs:     defaultAnimationDurationMs,
			ThumbnailReleaseDelayMs: defaultThumbnailReleaseDelayMs,
		},
		DefaultTab: DefaultTabConfig{
			CreateDelayMs:   defaultCreateDelayMs,
			NavigateDelayMs: defaultNavigateDelayMs,
		},
		Engine: EngineConfig{
			Kind:           EngineKindCDP,
			Headless:       false,
			DefaultMode:    entity.ContentModeMobile.String(),
			ViewportWidth:  defaultViewportWidth,
			ViewportHeight: defaultViewportHeight,

			DemoScriptDelayMs: defaultDemoScriptDelayMs,
		},
		Database: DatabaseConfig{
			Path: "", // resolved to the XDG data dir on load
		},
		History: HistoryConfig{
			Enabled:             true,
			StripTrackingParams: true,
			SuggestionLimit:     defaultSuggestionLimit,
		},
		Logging: LoggingConfig{
			Level:         "info",
			Format:        "console",
			EnableFileLog: false,
			MaxSizeMB:     defaultLogMaxSizeMB,
			MaxBackups:    defaultLogMaxBackups,
			MaxAge:        defaultLogMaxAgeDays,
			Compress:      true,
		},
	}
}
