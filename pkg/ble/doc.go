// Package ble defines the vocabulary shared between the peripheral
// application and the Bluetooth Low Energy protocol engine.
//
// The protocol engine owns the radio, the attribute transport and the
// security manager. The application only issues requests to it through the
// Engine interface and reacts to the notifications it delivers as Event
// values. Every request is fire-and-forget: an accepted request returns nil and
// its outcome, if any, arrives later as a distinct Event.
//
// Addresses, connection parameters and status codes use the units and
// encodings of the Bluetooth Core Specification:
//   - connection interval in units of 1.25 ms
//   - supervision timeout in units of 10 ms
//   - MAC octets in little-endian order
package ble
