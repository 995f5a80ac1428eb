package ble

import (
	"crypto/aes"
	"encoding/hex"
	"errors"
)

// IdentityKeyWords is the number of 16-bit words in an IdentityKey.
const IdentityKeyWords = 8

// IdentityKey is an identity resolving key (IRK) held as eight words,
// least significant word first.
type IdentityKey [IdentityKeyWords]uint16

// ErrInvalidIdentityKey is returned when an identity key string cannot be parsed.
var ErrInvalidIdentityKey = errors.New("ble: invalid identity key")

// ParseIdentityKey parses a 32 digit hex string, most significant octet first.
func ParseIdentityKey(s string) (IdentityKey, error) {
	raw, err := hex.DecodeString(s)
	if err != nil || len(raw) != 16 {
		return IdentityKey{}, ErrInvalidIdentityKey
	}
	var k IdentityKey
	for i := range k {
		lo := raw[15-2*i]
		hi := raw[14-2*i]
		k[i] = uint16(lo) | uint16(hi)<<8
	}
	return k, nil
}

// Bytes returns the key most significant octet first, the order AES expects.
func (k IdentityKey) Bytes() [16]byte {
	var b [16]byte
	for i, w := range k {
		b[15-2*i] = byte(w)
		b[14-2*i] = byte(w >> 8)
	}
	return b
}

// IsZero reports whether no key has been stored.
func (k IdentityKey) IsZero() bool {
	return k == IdentityKey{}
}

// Resolves reports whether addr is a resolvable private address generated
// from k. The 24-bit hash in the low half of the address must equal
// ah(k, prand) where prand is the high half.
func (k IdentityKey) Resolves(addr Address) bool {
	if !addr.IsResolvablePrivate() {
		return false
	}
	key := k.Bytes()
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return false
	}

	var in, out [16]byte
	in[13] = addr.MAC[5]
	in[14] = addr.MAC[4]
	in[15] = addr.MAC[3]
	block.Encrypt(out[:], in[:])

	return out[13] == addr.MAC[2] && out[14] == addr.MAC[1] && out[15] == addr.MAC[0]
}
