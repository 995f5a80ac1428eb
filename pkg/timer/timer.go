package timer

import (
	"fmt"
	"time"
)

// Handle identifies one armed timer. Each Create returns a handle with a new
// generation, so handle equality tells whether a callback belongs to the
// latest arming. The zero Handle is never armed.
type Handle struct {
	gen uint64
}

// Valid reports whether h refers to an armed timer.
func (h Handle) Valid() bool {
	return h.gen != 0
}

// String returns the handle generation, or "none".
func (h Handle) String() string {
	if !h.Valid() {
		return "none"
	}
	return fmt.Sprintf("#%d", h.gen)
}

// Func is invoked on expiry with the handle it was armed under.
type Func func(h Handle)

// Service schedules one-shot callbacks.
type Service interface {
	// Create arms a timer that invokes fn after d.
	Create(d time.Duration, fn Func) Handle

	// Delete disarms h. Deleting an expired or unknown handle is a no-op.
	Delete(h Handle)
}

// Purpose names what a Slot's timer is for.
type Purpose uint8

const (
	// PurposeAdvertising bounds how long an advertising mode runs.
	PurposeAdvertising Purpose = iota + 1

	// PurposeConnParams drives connection-parameter negotiation.
	PurposeConnParams

	// PurposeBondingChance waits for a bonded central to re-encrypt.
	PurposeBondingChance

	// PurposeMeasurement paces periodic measurement notifications.
	PurposeMeasurement
)

// String returns the purpose name.
func (p Purpose) String() string {
	switch p {
	case PurposeAdvertising:
		return "ADVERTISING"
	case PurposeConnParams:
		return "CONN_PARAMS"
	case PurposeBondingChance:
		return "BONDING_CHANCE"
	case PurposeMeasurement:
		return "MEASUREMENT"
	default:
		return "UNKNOWN"
	}
}

// Action is a slot lifecycle step reported to an Observer.
type Action uint8

const (
	ActionArmed Action = iota + 1
	ActionCancelled
	ActionFired
	ActionStale
)

// String returns the action name.
func (a Action) String() string {
	switch a {
	case ActionArmed:
		return "ARMED"
	case ActionCancelled:
		return "CANCELLED"
	case ActionFired:
		return "FIRED"
	case ActionStale:
		return "STALE"
	default:
		return "UNKNOWN"
	}
}

// Observer is told about every arm, cancel and claim on a slot. d is the
// armed duration for ActionArmed and zero otherwise.
type Observer func(p Purpose, a Action, h Handle, d time.Duration)

// Slot holds at most one outstanding timer for a purpose.
type Slot struct {
	svc      Service
	purpose  Purpose
	current  Handle
	observer Observer
}

// NewSlot creates an empty slot for purpose backed by svc.
func NewSlot(svc Service, purpose Purpose) *Slot {
	return &Slot{svc: svc, purpose: purpose}
}

// Observe installs o. A nil o removes the observer.
func (s *Slot) Observe(o Observer) {
	s.observer = o
}

func (s *Slot) notify(a Action, h Handle, d time.Duration) {
	if s.observer != nil {
		s.observer(s.purpose, a, h, d)
	}
}

// Arm cancels any outstanding timer and arms a new one.
func (s *Slot) Arm(d time.Duration, fn Func) Handle {
	s.Cancel()
	s.current = s.svc.Create(d, fn)
	s.notify(ActionArmed, s.current, d)
	return s.current
}

// Cancel disarms the outstanding timer. It reports whether one was armed.
func (s *Slot) Cancel() bool {
	if !s.current.Valid() {
		return false
	}
	h := s.current
	s.svc.Delete(h)
	s.current = Handle{}
	s.notify(ActionCancelled, h, 0)
	return true
}

// Claim reports whether h is the slot's current handle, and if so
// releases it. Callbacks return without acting when Claim reports false.
func (s *Slot) Claim(h Handle) bool {
	if !h.Valid() || h != s.current {
		s.notify(ActionStale, h, 0)
		return false
	}
	s.current = Handle{}
	s.notify(ActionFired, h, 0)
	return true
}

// Active reports whether a timer is outstanding.
func (s *Slot) Active() bool {
	return s.current.Valid()
}

// Current returns the outstanding handle, or the zero Handle.
func (s *Slot) Current() Handle {
	return s.current
}

// Purpose returns the slot's purpose.
func (s *Slot) Purpose() Purpose {
	return s.purpose
}
