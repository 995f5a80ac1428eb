// Package services implements the GATT services of the thermometer: Generic
// Access, Health Thermometer, Battery and Device Information.
//
// Services never talk to the protocol engine. Accesses arrive through the
// gatt.Dispatcher and the service answers with a gatt.Response, optionally
// carrying notifications for the caller to send after the response.
// Spontaneous values (a new reading, a battery change) are returned the same
// way so the lifecycle machine stays the only component issuing requests.
//
// Each service owns a block of persistent words, reserved in a fixed order
// after the bonding record. Configuration descriptors are persisted only
// while the device is bonded.
package services
