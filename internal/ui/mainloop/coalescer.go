package mainloop

import "sync"

// Coalescer merges bursts of same-key tasks into one posted closure.
// Only the most recent fn for a key runs.
type Coalescer[K comparable] struct {
	mu      sync.Mutex
	latest  map[K]func()
	post    func(func()) bool
	stopped bool
}

// NewCoalescer wraps a post function, typically Loop.Post.
func NewCoalescer[K comparable](post func(func()) bool) *Coalescer[K] {
	if post == nil {
		panic("mainloop.NewCoalescer: post function cannot be nil")
	}
	return &Coalescer[K]{latest: make(map[K]func()), post: post}
}

// Post schedules fn under key, replacing any not-yet-run fn for that key.
func (c *Coalescer[K]) Post(key K, fn func()) {
	if fn == nil {
		return
	}

	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		return
	}
	_, scheduled := c.latest[key]
	c.latest[key] = fn
	c.mu.Unlock()
	if scheduled {
		return
	}

	if !c.post(func() { c.flush(key) }) {
		c.mu.Lock()
		delete(c.latest, key)
		c.mu.Unlock()
	}
}

// Pending reports how many keys are waiting to run.
func (c *Coalescer[K]) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.latest)
}

// Stop drops queued work; later posts are ignored.
func (c *Coalescer[K]) Stop() {
	c.mu.Lock()
	c.stopped = true
	clear(c.latest)
	c.mu.Unlock()
}

func (c *Coalescer[K]) flush(key K) {
	c.mu.Lock()
	fn, ok := c.latest[key]
	delete(c.latest, key)
	stopped := c.stopped
	c.mu.Unlock()

	if ok && !stopped {
		fn()
	}
}
