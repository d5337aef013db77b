// Package mainloop provides the single serial execution context that owns
// all browser state. Engine callbacks, timers and background work post
// closures here instead of touching state directly.
package mainloop

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bnema/spaced/internal/logging"
)

// ErrStopped is returned by Call once the loop has stopped.
var ErrStopped = errors.New("main loop stopped")

// Loop runs posted closures one at a time, in FIFO order, on a single goroutine.
type Loop struct {
	mu      sync.Mutex
	queue   []func()
	wake    chan struct{}
	stopped bool
}

// New creates a loop. Closures posted before Run are kept and run once Run starts.
func New() *Loop {
	return &Loop{wake: make(chan struct{}, 1)}
}

// Post enqueues fn. It never blocks and is safe from any goroutine.
// Returns false when the loop has stopped and fn was dropped.
func (l *Loop) Post(fn func()) bool {
	if fn == nil {
		return false
	}
	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		return false
	}
	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
	return true
}

// AfterFunc posts fn once d has elapsed. The returned function cancels the
// timer and reports whether it stopped it before firing.
func (l *Loop) AfterFunc(d time.Duration, fn func()) func() bool {
	t := time.AfterFunc(d, func() { l.Post(fn) })
	return t.Stop
}

// Call runs fn on the loop and waits for it to return.
// Must not be called from the loop goroutine itself.
func (l *Loop) Call(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	if !l.Post(func() {
		defer close(done)
		fn()
	}) {
		return ErrStopped
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run drains the queue until ctx is cancelled. Pending closures are dropped on exit.
func (l *Loop) Run(ctx context.Context) error {
	log := logging.FromContext(ctx).With().Str("component", "mainloop").Logger()
	log.Debug().Msg("main loop started")
	defer func() {
		l.mu.Lock()
		dropped := len(l.queue)
		l.stopped = true
		l.queue = nil
		l.mu.Unlock()
		log.Debug().Int("dropped", dropped).Msg("main loop stopped")
	}()

	for {
		l.mu.Lock()
		batch := l.queue
		l.queue = nil
		l.mu.Unlock()

		for i, fn := range batch {
			if ctx.Err() != nil {
				l.requeue(batch[i:])
				return nil
			}
			if err := l.runOne(fn); err != nil {
				log.Error().Err(err).Msg("main loop task panicked")
			}
		}

		select {
		case <-ctx.Done():
			return nil
		case <-l.wake:
		}
	}
}

// Stopped reports whether Run has returned.
func (l *Loop) Stopped() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stopped
}

func (l *Loop) requeue(rest []func()) {
	l.mu.Lock()
	l.queue = append(rest, l.queue...)
	l.mu.Unlock()
}

func (*Loop) runOne(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	fn()
	return nil
}
