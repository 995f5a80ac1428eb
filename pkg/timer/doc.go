// Package timer provides one-shot timers with generation-tagged handles.
//
// A Service creates and deletes timers. Deleting a timer that has already
// expired does not recall a callback that is already queued, so every
// callback receives the Handle it was armed under and must check it against
// the owner's current handle before acting. Slot packages that check: it
// holds at most one outstanding timer for a logical purpose, cancels the
// previous timer whenever it is re-armed, and Claim reports whether an
// expiring handle is still the current one.
//
// Two services are provided. Clock uses wall-clock time and hands expiries
// to a post function so they run on the event-loop goroutine. Manual only
// moves when told to and is used by tests.
package timer
