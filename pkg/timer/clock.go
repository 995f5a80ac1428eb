package timer

import (
	"sync"
	"time"
)

// Clock is a Service backed by time.AfterFunc. Expired callbacks are passed
// to post, which must run them on the goroutine that owns the timer state.
type Clock struct {
	mu     sync.Mutex
	gen    uint64
	timers map[uint64]*time.Timer
	post   func(func())
}

// NewClock creates a Clock that delivers expiries through post.
func NewClock(post func(func())) *Clock {
	return &Clock{
		timers: make(map[uint64]*time.Timer),
		post:   post,
	}
}

// Create arms a timer that posts fn after d.
func (c *Clock) Create(d time.Duration, fn Func) Handle {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gen++
	h := Handle{gen: c.gen}
	c.timers[h.gen] = time.AfterFunc(d, func() {
		c.mu.Lock()
		delete(c.timers, h.gen)
		c.mu.Unlock()

		c.post(func() { fn(h) })
	})
	return h
}

// Delete stops h. An expiry that has already been posted still runs.
func (c *Clock) Delete(h Handle) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if t, ok := c.timers[h.gen]; ok {
		t.Stop()
		delete(c.timers, h.gen)
	}
}

// Pending returns the number of armed timers.
func (c *Clock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.timers)
}

// Stop disarms every timer.
func (c *Clock) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for gen, t := range c.timers {
		t.Stop()
		delete(c.timers, gen)
	}
}

// Compile-time interface satisfaction check.
var _ Service = (*Clock)(nil)
