package timer

import (
	"sort"
	"time"
)

// Manual is a Service whose time moves only when Advance is called.
// Callbacks run synchronously on the caller's goroutine. It is not safe for
// concurrent use.
type Manual struct {
	now     time.Duration
	gen     uint64
	pending []*manualTimer
	funcs   map[uint64]Func
}

type manualTimer struct {
	h  Handle
	at time.Duration
	fn Func
}

// NewManual creates a Manual service at time zero.
func NewManual() *Manual {
	return &Manual{funcs: make(map[uint64]Func)}
}

// Create arms a timer due at Now()+d.
func (m *Manual) Create(d time.Duration, fn Func) Handle {
	m.gen++
	h := Handle{gen: m.gen}
	m.funcs[h.gen] = fn
	m.pending = append(m.pending, &manualTimer{h: h, at: m.now + d, fn: fn})
	sort.SliceStable(m.pending, func(i, j int) bool {
		return m.pending[i].at < m.pending[j].at
	})
	return h
}

// Delete disarms h.
func (m *Manual) Delete(h Handle) {
	for i, t := range m.pending {
		if t.h == h {
			m.pending = append(m.pending[:i], m.pending[i+1:]...)
			return
		}
	}
}

// Advance moves time forward by d, running due callbacks in deadline order.
// Timers armed by a callback run in the same call if they fall due.
func (m *Manual) Advance(d time.Duration) {
	target := m.now + d
	for len(m.pending) > 0 && m.pending[0].at <= target {
		t := m.pending[0]
		m.pending = m.pending[1:]
		m.now = t.at
		t.fn(t.h)
	}
	m.now = target
}

// Now returns the elapsed manual time.
func (m *Manual) Now() time.Duration {
	return m.now
}

// Pending returns the number of armed timers.
func (m *Manual) Pending() int {
	return len(m.pending)
}

// Remaining returns the time left on h, and false if h is not armed.
func (m *Manual) Remaining(h Handle) (time.Duration, bool) {
	for _, t := range m.pending {
		if t.h == h {
			return t.at - m.now, true
		}
	}
	return 0, false
}

// Deliver invokes the callback h was created with, whether or not h is
// still armed. It models an expiry that was already queued when the timer
// was deleted. It reports false for a handle this service never created.
func (m *Manual) Deliver(h Handle) bool {
	fn, ok := m.funcs[h.gen]
	if !ok {
		return false
	}
	m.Delete(h)
	fn(h)
	return true
}

// Compile-time interface satisfaction check.
var _ Service = (*Manual)(nil)
