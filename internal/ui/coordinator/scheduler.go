package coordinator

import "time"

// Scheduler runs closures on the main loop. *mainloop.Loop implements it.
// Every Tab and TabCoordinator mutation happens inside a closure run by
// the same Scheduler.
type Scheduler interface {
	// Post enqueues fn; it must never run fn synchronously.
	Post(fn func()) bool
	// AfterFunc posts fn once d has elapsed and returns a cancel function.
	AfterFunc(d time.Duration, fn func()) func() bool
}
