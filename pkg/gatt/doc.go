// Package gatt routes peer attribute accesses to the service that owns
// the handle.
//
// Each service claims one contiguous handle range with a Registration. A
// Dispatcher holds the registrations in priority order, rejects overlapping
// ranges at construction, and delegates each read or write to the first
// registration containing the handle. A handle no registration claims gets
// the "not permitted" status for the direction of the access.
package gatt
