package sim

import (
	"sync"

	"github.com/htp-ble/htp-go/pkg/ble"
)

// Queue buffers delivered events for a test to feed to a handler one at a
// time.
type Queue struct {
	mu     sync.Mutex
	events []ble.Event
}

// Push appends ev. It is a valid Config.Deliver.
func (q *Queue) Push(ev ble.Event) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.events = append(q.events, ev)
}

// Pop removes the oldest event.
func (q *Queue) Pop() (ble.Event, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.events) == 0 {
		return nil, false
	}
	ev := q.events[0]
	q.events = q.events[1:]
	return ev, true
}

// Len returns the number of buffered events.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.events)
}

// Drain feeds events to handle until the queue is empty, including events
// pushed while handling. It stops at the first error.
func (q *Queue) Drain(handle func(ble.Event) error) error {
	for {
		ev, ok := q.Pop()
		if !ok {
			return nil
		}
		if err := handle(ev); err != nil {
			return err
		}
	}
}
