package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bnema/spaced/internal/domain/entity"
)

func TestDefaultConfig_Timings(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 400*time.Millisecond, cfg.AnimationDuration())
	assert.Equal(t, 300*time.Millisecond, cfg.ThumbnailReleaseDelay())
	assert.Equal(t, 250*time.Millisecond, cfg.CreateDelay())
	assert.Equal(t, 350*time.Millisecond, cfg.NavigateDelay())
}

func TestDefaultConfig_ScrollTunablesMatchDomain(t *testing.T) {
	assert.Equal(t, entity.DefaultScrollTunables(), DefaultConfig().ScrollTunables())
}

func TestConfig_ContentMode(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, entity.ContentModeMobile, cfg.ContentMode())

	cfg.Engine.DefaultMode = "desktop"
	assert.Equal(t, entity.ContentModeDesktop, cfg.ContentMode())

	cfg.Engine.DefaultMode = "bogus"
	assert.Equal(t, entity.ContentModeMobile, cfg.ContentMode())
}
