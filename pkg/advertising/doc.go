// Package advertising builds advertising payloads and runs the fast and
// slow advertising modes.
//
// A payload is a sequence of AD structures, each a length octet, a type octet
// and data, limited to MaxDataLength octets per packet. The device name goes
// wherever it fits first: complete in the advertisement, complete in the scan
// response, shortened in the advertisement, shortened to fill the scan
// response.
//
// The Controller owns the advertising timer slot. Each Start issues one
// engine request and arms the mode's timeout; on expiry it asks the engine to
// cancel advertising, whose confirmation drives the next lifecycle step.
package advertising
