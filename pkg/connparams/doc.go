// Package connparams negotiates connection parameters with the central.
//
// When a link comes up outside the preferred envelope the Negotiator waits
// out a peripheral pause, then a central pause that every attribute access
// restarts, and only then requests an update. Failed requests are retried at
// the link-layer minimum spacing until the attempt budget is spent. The
// first attempts ask for the preferred profile; later ones fall back to a
// profile that stricter centrals accept.
//
// All timers share the context's connection-parameter slot, so at most one
// is outstanding and a stale expiry is recognised by its handle.
package connparams
