// Package clipboard provides a clipboard adapter over the system tools
// (wl-clipboard on Wayland, xclip or xsel on X11).
package clipboard

import (
	"context"
	"errors"

	"github.com/atotto/clipboard"

	"github.com/bnema/spaced/internal/application/port"
	"github.com/bnema/spaced/internal/logging"
)

// ErrUnavailable is returned when no clipboard tool is installed.
var ErrUnavailable = errors.New("no clipboard tool available (install wl-clipboard or xclip)")

// Adapter implements port.Clipboard.
type Adapter struct {
	unsupported bool
	write       func(string) error
	read        func() (string, error)
}

var _ port.Clipboard = (*Adapter)(nil)

// New creates a new clipboard adapter.
func New() *Adapter {
	return &Adapter{
		unsupported: clipboard.Unsupported,
		write:       clipboard.WriteAll,
		read:        clipboard.ReadAll,
	}
}

// Available reports whether a clipboard tool was found.
func (a *Adapter) Available() bool {
	return !a.unsupported
}

// WriteText copies text to the clipboard.
func (a *Adapter) WriteText(ctx context.Context, text string) error {
	log := logging.FromContext(ctx)
	if a.unsupported {
		log.Error().Err(ErrUnavailable).Msg("clipboard write failed")
		return ErrUnavailable
	}
	if err := a.write(text); err != nil {
		log.Error().Err(err).Msg("clipboard write failed")
		return err
	}
	log.Debug().Int("len", len(text)).Msg("clipboard write success")
	return nil
}

// ReadText reads text from the clipboard.
func (a *Adapter) ReadText(ctx context.Context) (string, error) {
	log := logging.FromContext(ctx)
	if a.unsupported {
		return "", ErrUnavailable
	}
	text, err := a.read()
	if err != nil {
		log.Debug().Err(err).Msg("clipboard read failed (may be empty)")
		return "", err
	}
	return text, nil
}
