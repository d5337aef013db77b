// Package cdp drives Chrome through the DevTools protocol. Each engine is
// one page target of a shared browser process.
package cdp

import (
	"github.com/bnema/spaced/internal/domain/entity"
)

const (
	// DefaultMobileUserAgent is sent while a site renders in mobile mode.
	DefaultMobileUserAgent = "Mozilla/5.0 (iPhone; CPU iPhone OS 18_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/18.0 Mobile/15E148 Safari/604.1"
	// DefaultDesktopUserAgent is sent while a site renders in desktop mode.
	DefaultDesktopUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 14_0) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/18.0 Safari/605.1.15"

	defaultViewportWidth  = 390
	defaultViewportHeight = 844
	desktopViewportWidth  = 1280
	mobileScaleFactor     = 3
)

// Options configures the browser process and the emulated device.
type Options struct {
	// ExecPath points at the Chrome binary; empty lets chromedp find one.
	ExecPath string
	Headless bool
	// DefaultMode is used when neither the user nor a policy picked one.
	// Unset means mobile.
	DefaultMode      entity.ContentMode
	MobileUserAgent  string
	DesktopUserAgent string
	ViewportWidth    int
	ViewportHeight   int
}

func (o Options) withDefaults() Options {
	if o.MobileUserAgent == "" {
		o.MobileUserAgent = DefaultMobileUserAgent
	}
	if o.DesktopUserAgent == "" {
		o.DesktopUserAgent = DefaultDesktopUserAgent
	}
	if o.ViewportWidth <= 0 {
		o.ViewportWidth = defaultViewportWidth
	}
	if o.ViewportHeight <= 0 {
		o.ViewportHeight = defaultViewportHeight
	}
	if o.DefaultMode == entity.ContentModeUnset {
		o.DefaultMode = entity.ContentModeMobile
	}
	return o
}

// device describes the emulation applied for a content mode.
type device struct {
	userAgent string
	width     int64
	height    int64
	scale     float64
	mobile    bool
}

func (o Options) device(mode entity.ContentMode) device {
	if mode == entity.ContentModeUnset {
		mode = o.DefaultMode
	}
	if mode == entity.ContentModeDesktop {
		return device{
			userAgent: o.DesktopUserAgent,
			width:     desktopViewportWidth,
			height:    int64(o.ViewportHeight),
			scale:     1,
		}
	}
	return device{
		userAgent: o.MobileUserAgent,
		width:     int64(o.ViewportWidth),
		height:    int64(o.ViewportHeight),
		scale:     mobileScaleFactor,
		mobile:    true,
	}
}
