// Package peripheral implements the connection lifecycle of the thermometer.
//
// A Machine owns the link context and the components that act on it: the
// bonding coordinator, the connection-parameter negotiator, the advertising
// controller and the attribute services. Every engine notification enters
// through Machine.Handle and every timer expiry runs on the same goroutine,
// so no component needs locking against the others.
//
// The lifecycle states are:
//
//	Init -> FastAdvertising <-> SlowAdvertising -> Idle
//	FastAdvertising, SlowAdvertising -> Connected -> Disconnecting
//	Disconnecting -> FastAdvertising, Idle
//
// An event that is not valid in the current state, or a rejected mandatory
// engine request, halts the machine with a FatalError. The device is expected
// to be restarted by its supervisor.
//
// Runner serializes events posted from any goroutine, together with timer
// expiries from a timer.Clock, onto a single loop.
package peripheral
