package ble

import (
	"errors"
	"fmt"
	"strings"
)

// AddressWords is the number of 16-bit words an Address occupies when persisted.
const AddressWords = 4

// AddressType distinguishes public from random device addresses.
type AddressType uint8

const (
	// AddressPublic is an IEEE-assigned public device address.
	AddressPublic AddressType = 0

	// AddressRandom is a random device address (static or private).
	AddressRandom AddressType = 1
)

// String returns the address type name.
func (t AddressType) String() string {
	switch t {
	case AddressPublic:
		return "PUBLIC"
	case AddressRandom:
		return "RANDOM"
	default:
		return "UNKNOWN"
	}
}

// MAC is a 48-bit device address in little-endian octet order.
type MAC [6]byte

// ErrInvalidMAC is returned when a MAC string cannot be parsed.
var ErrInvalidMAC = errors.New("ble: invalid MAC address")

// ParseMAC parses a MAC address in 11:22:33:AA:BB:CC format, most significant
// octet first. Hex digits may be upper or lower case.
func ParseMAC(s string) (MAC, error) {
	var mac MAC
	parts := strings.Split(s, ":")
	if len(parts) != len(mac) {
		return MAC{}, ErrInvalidMAC
	}
	for i, p := range parts {
		if len(p) != 2 {
			return MAC{}, ErrInvalidMAC
		}
		var b byte
		for j := 0; j < 2; j++ {
			n, ok := hexNibble(p[j])
			if !ok {
				return MAC{}, ErrInvalidMAC
			}
			b = b<<4 | n
		}
		mac[len(mac)-1-i] = b
	}
	return mac, nil
}

func hexNibble(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

// String returns the address in 11:22:33:AA:BB:CC format.
func (m MAC) String() string {
	return fmt.Sprintf("%02X:%02X:%02X:%02X:%02X:%02X", m[5], m[4], m[3], m[2], m[1], m[0])
}

// Address is a typed device address.
type Address struct {
	Type AddressType
	MAC  MAC
}

// ParseAddress parses "11:22:33:AA:BB:CC" or "11:22:33:AA:BB:CC/random".
// The type defaults to public.
func ParseAddress(s string) (Address, error) {
	var a Address
	macPart, typePart, hasType := strings.Cut(s, "/")
	if hasType {
		switch strings.ToLower(typePart) {
		case "public":
			a.Type = AddressPublic
		case "random":
			a.Type = AddressRandom
		default:
			return Address{}, fmt.Errorf("ble: unknown address type %q", typePart)
		}
	}
	mac, err := ParseMAC(macPart)
	if err != nil {
		return Address{}, err
	}
	a.MAC = mac
	return a, nil
}

// String returns the address with its type suffix.
func (a Address) String() string {
	return a.MAC.String() + "/" + strings.ToLower(a.Type.String())
}

// IsZero reports whether a is the zero address.
func (a Address) IsZero() bool {
	return a == Address{}
}

// IsResolvablePrivate reports whether a is a resolvable private address:
// a random address whose two most significant bits are 0b01.
func (a Address) IsResolvablePrivate() bool {
	return a.Type == AddressRandom && a.MAC[5]&0xC0 == 0x40
}

// IsStaticRandom reports whether a is a static random address.
func (a Address) IsStaticRandom() bool {
	return a.Type == AddressRandom && a.MAC[5]&0xC0 == 0xC0
}

// Words encodes a for word-addressed storage: the type followed by the
// MAC as three little-endian octet pairs.
func (a Address) Words() [AddressWords]uint16 {
	return [AddressWords]uint16{
		uint16(a.Type),
		uint16(a.MAC[0]) | uint16(a.MAC[1])<<8,
		uint16(a.MAC[2]) | uint16(a.MAC[3])<<8,
		uint16(a.MAC[4]) | uint16(a.MAC[5])<<8,
	}
}

// AddressFromWords decodes an address written by Address.Words.
func AddressFromWords(w [AddressWords]uint16) Address {
	return Address{
		Type: AddressType(w[0]),
		MAC: MAC{
			byte(w[1]), byte(w[1] >> 8),
			byte(w[2]), byte(w[2] >> 8),
			byte(w[3]), byte(w[3] >> 8),
		},
	}
}
