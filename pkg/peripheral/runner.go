package peripheral

import (
	"context"
	"errors"
	"sync"

	"github.com/htp-ble/htp-go/pkg/ble"
)

// ErrStopped is returned by Post after Run has returned.
var ErrStopped = errors.New("peripheral: runner stopped")

type item struct {
	ev ble.Event
	fn func()
}

// Runner is the serial event loop. Posting never blocks, so an engine may
// post confirmations from inside a request made by the loop itself.
type Runner struct {
	mu      sync.Mutex
	items   []item
	stopped bool
	wake    chan struct{}
}

// NewRunner creates an idle runner.
func NewRunner() *Runner {
	return &Runner{wake: make(chan struct{}, 1)}
}

// Post queues ev for the machine.
func (r *Runner) Post(ev ble.Event) error {
	return r.push(item{ev: ev})
}

// PostFunc queues fn to run on the loop. It is the post function for a
// timer.Clock.
func (r *Runner) PostFunc(fn func()) {
	_ = r.push(item{fn: fn})
}

func (r *Runner) push(it item) error {
	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return ErrStopped
	}
	r.items = append(r.items, it)
	r.mu.Unlock()

	select {
	case r.wake <- struct{}{}:
	default:
	}
	return nil
}

func (r *Runner) pop() (item, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.items) == 0 {
		return item{}, false
	}
	it := r.items[0]
	r.items[0] = item{}
	r.items = r.items[1:]
	return it, true
}

// Pending returns the number of queued items.
func (r *Runner) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

func (r *Runner) stop() {
	r.mu.Lock()
	r.stopped = true
	r.items = nil
	r.mu.Unlock()
}

// Run boots m and then feeds it queued items until ctx is done or the
// machine halts. A halt returns the *FatalError.
func (r *Runner) Run(ctx context.Context, m *Machine) error {
	defer r.stop()

	if err := m.Start(); err != nil {
		return err
	}
	for {
		for ctx.Err() == nil {
			it, ok := r.pop()
			if !ok {
				break
			}
			if it.ev != nil {
				_ = m.Handle(it.ev)
			} else {
				it.fn()
			}
			if err := m.Err(); err != nil {
				return err
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-r.wake:
		}
	}
}
