package timer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlotArmReplacesPrevious(t *testing.T) {
	m := NewManual()
	s := NewSlot(m, PurposeConnParams)

	var fired []Handle
	cb := func(h Handle) {
		if s.Claim(h) {
			fired = append(fired, h)
		}
	}

	first := s.Arm(5*time.Second, cb)
	second := s.Arm(1*time.Second, cb)

	assert.NotEqual(t, first, second)
	assert.Equal(t, 1, m.Pending(), "arming must cancel the previous timer")
	assert.Equal(t, second, s.Current())

	m.Advance(10 * time.Second)
	assert.Equal(t, []Handle{second}, fired)
	assert.False(t, s.Active())
}

func TestSlotIgnoresStaleHandle(t *testing.T) {
	m := NewManual()
	s := NewSlot(m, PurposeAdvertising)

	calls := 0
	cb := func(h Handle) {
		if !s.Claim(h) {
			return
		}
		calls++
	}

	stale := s.Arm(time.Second, cb)
	current := s.Arm(time.Second, cb)

	// The old callback was already queued when it was replaced.
	require.True(t, m.Deliver(stale))
	assert.Equal(t, 0, calls)
	assert.True(t, s.Active())

	require.True(t, m.Deliver(current))
	assert.Equal(t, 1, calls)

	// Delivering the same handle twice is also stale.
	require.True(t, m.Deliver(current))
	assert.Equal(t, 1, calls)
}

func TestSlotCancel(t *testing.T) {
	m := NewManual()
	s := NewSlot(m, PurposeBondingChance)

	assert.False(t, s.Cancel())
	h := s.Arm(time.Second, func(Handle) {})
	assert.True(t, s.Cancel())
	assert.False(t, s.Claim(h))
	assert.Equal(t, 0, m.Pending())
	assert.False(t, s.Claim(Handle{}))
	assert.Equal(t, PurposeBondingChance, s.Purpose())
}

func TestManualAdvanceOrder(t *testing.T) {
	m := NewManual()
	var order []string

	m.Create(3*time.Second, func(Handle) { order = append(order, "c") })
	m.Create(1*time.Second, func(Handle) {
		order = append(order, "a")
		m.Create(1*time.Second, func(Handle) { order = append(order, "b") })
	})

	m.Advance(2500 * time.Millisecond)
	assert.Equal(t, []string{"a", "b"}, order)
	assert.Equal(t, 2500*time.Millisecond, m.Now())

	m.Advance(time.Second)
	assert.Equal(t, []string{"a", "b", "c"}, order)
	assert.Equal(t, 0, m.Pending())
}

func TestManualRemaining(t *testing.T) {
	m := NewManual()
	h := m.Create(30*time.Second, func(Handle) {})
	m.Advance(20 * time.Second)

	left, ok := m.Remaining(h)
	require.True(t, ok)
	assert.Equal(t, 10*time.Second, left)

	m.Delete(h)
	_, ok = m.Remaining(h)
	assert.False(t, ok)
	assert.False(t, m.Deliver(Handle{gen: 99}))
}

func TestClockPostsExpiry(t *testing.T) {
	queue := make(chan func(), 4)
	c := NewClock(func(fn func()) { queue <- fn })
	defer c.Stop()

	got := make(chan Handle, 1)
	h := c.Create(10*time.Millisecond, func(h Handle) { got <- h })

	select {
	case fn := <-queue:
		fn()
	case <-time.After(2 * time.Second):
		t.Fatal("expiry was not posted")
	}
	assert.Equal(t, h, <-got)
	assert.Equal(t, 0, c.Pending())
}

func TestClockDelete(t *testing.T) {
	queue := make(chan func(), 4)
	c := NewClock(func(fn func()) { queue <- fn })

	h := c.Create(time.Hour, func(Handle) {})
	assert.Equal(t, 1, c.Pending())
	c.Delete(h)
	assert.Equal(t, 0, c.Pending())

	c.Create(time.Hour, func(Handle) {})
	c.Stop()
	assert.Equal(t, 0, c.Pending())
}

func TestHandleString(t *testing.T) {
	assert.Equal(t, "none", Handle{}.String())
	assert.Equal(t, "#3", Handle{gen: 3}.String())
	assert.Equal(t, "MEASUREMENT", PurposeMeasurement.String())
}

func TestSlotObserver(t *testing.T) {
	m := NewManual()
	s := NewSlot(m, PurposeBondingChance)

	var actions []Action
	s.Observe(func(p Purpose, a Action, h Handle, d time.Duration) {
		assert.Equal(t, PurposeBondingChance, p)
		if a == ActionArmed {
			assert.Equal(t, 30*time.Second, d)
		}
		actions = append(actions, a)
	})

	first := s.Arm(30*time.Second, func(Handle) {})
	s.Arm(30*time.Second, func(Handle) {})
	s.Claim(first)
	s.Claim(s.Current())

	assert.Equal(t, []Action{ActionArmed, ActionCancelled, ActionArmed, ActionStale, ActionFired}, actions)
	assert.Equal(t, "STALE", ActionStale.String())
}
