// Package bonding keeps the single bond slot of the device.
//
// The Record is persisted at the start of the word store behind a sanity
// word; a store without it is treated as blank and reinitialized. The
// Coordinator applies the pairing policy: pairing is authorized only while
// unbonded, a successful pairing persists the peer and whitelists it when its
// address is stable, and a failed re-pairing by the bonded peer gets a
// bounded chance to re-encrypt with the old keys before the link is dropped.
package bonding
