package config

import (
	"fmt"
	"strings"

	domainvalidation "github.com/bnema/spaced/internal/domain/validation"
)

// validateConfig collects every problem instead of stopping at the first.
func validateConfig(config *Config) error {
	var validationErrors []string

	validationErrors = append(validationErrors, domainvalidation.ValidateAddress("default_url", config.DefaultURL)...)
	validationErrors = append(validationErrors, validateScroll(config)...)
	validationErrors = append(validationErrors, validateTimings(config)...)
	validationErrors = append(validationErrors, validateEngine(config)...)
	validationErrors = append(validationErrors, validateHistory(config)...)
	validationErrors = append(validationErrors, validateLogging(config)...)

	if len(validationErrors) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(validationErrors, "\n  - "))
	}
	return nil
}

func validateScroll(config *Config) []string {
	var validationErrors []string
	if config.Scroll.CollapseDistance <= 0 {
		validationErrors = append(validationErrors, "scroll.collapse_distance must be greater than 0")
	}
	if config.Scroll.SettleThreshold <= 0 || config.Scroll.SettleThreshold > 1 {
		validationErrors = append(validationErrors, "scroll.settle_threshold must be in (0, 1]")
	}
	if config.Scroll.MinOverscroll < 0 {
		validationErrors = append(validationErrors, "scroll.min_overscroll must be non-negative")
	}
	return validationErrors
}

func validateTimings(config *Config) []string {
	var validationErrors []string
	validationErrors = append(validationErrors,
		domainvalidation.ValidateNonNegative("transition.animation_duration_ms", config.Transition.AnimationDurationMs)...)
	validationErrors = append(validationErrors,
		domainvalidation.ValidateNonNegative("transition.thumbnail_release_delay_ms", config.Transition.ThumbnailReleaseDelayMs)...)
	validationErrors = append(validationErrors,
		domainvalidation.ValidateNonNegative("default_tab.create_delay_ms", config.DefaultTab.CreateDelayMs)...)
	validationErrors = append(validationErrors,
		domainvalidation.ValidateNonNegative("default_tab.navigate_delay_ms", config.DefaultTab.NavigateDelayMs)...)
	return validationErrors
}

func validateEngine(config *Config) []string {
	var validationErrors []string
	validationErrors = append(validationErrors,
		domainvalidation.ValidateOneOf("engine.kind", string(config.Engine.Kind), string(EngineKindCDP), string(EngineKindMemory))...)
	validationErrors = append(validationErrors,
		domainvalidation.ValidateOneOf("engine.default_mode", config.Engine.DefaultMode, "mobile", "desktop")...)
	validationErrors = append(validationErrors,
		domainvalidation.ValidateUserAgent("engine.mobile_user_agent", config.Engine.MobileUserAgent)...)
	validationErrors = append(validationErrors,
		domainvalidation.ValidateUserAgent("engine.desktop_user_agent", config.Engine.DesktopUserAgent)...)
	validationErrors = append(validationErrors,
		domainvalidation.ValidateNonNegative("engine.viewport_width", config.Engine.ViewportWidth)...)
	validationErrors = append(validationErrors,
		domainvalidation.ValidateNonNegative("engine.viewport_height", config.Engine.ViewportHeight)...)
	validationErrors = append(validationErrors,
		domainvalidation.ValidateNonNegative("engine.demo_script_delay_ms", config.Engine.DemoScriptDelayMs)...)
	for i, address := range config.Engine.DemoScript {
		validationErrors = append(validationErrors,
			domainvalidation.ValidateAddress(fmt.Sprintf("engine.demo_script[%d]", i), address)...)
	}
	return validationErrors
}

func validateHistory(config *Config) []string {
	return domainvalidation.ValidateNonNegative("history.suggestion_limit", config.History.SuggestionLimit)
}

func validateLogging(config *Config) []string {
	var validationErrors []string
	validationErrors = append(validationErrors,
		domainvalidation.ValidateOneOf("logging.level", config.Logging.Level, "trace", "debug", "info", "warn", "error")...)
	validationErrors = append(validationErrors,
		domainvalidation.ValidateOneOf("logging.format", config.Logging.Format, "console", "json")...)
	validationErrors = append(validationErrors,
		domainvalidation.ValidateNonNegative("logging.max_size_mb", config.Logging.MaxSizeMB)...)
	validationErrors = append(validationErrors,
		domainvalidation.ValidateNonNegative("logging.max_backups", config.Logging.MaxBackups)...)
	validationErrors = append(validationErrors,
		domainvalidation.ValidateNonNegative("logging.max_age", config.Logging.MaxAge)...)
	return validationErrors
}
