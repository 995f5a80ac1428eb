package nvm

import (
	"errors"
	"fmt"
)

// ErrExhausted is returned when a reservation does not fit in the store.
var ErrExhausted = errors.New("nvm: store exhausted")

// Region is a block of words in a Store reserved by an Allocator.
type Region struct {
	store  Store
	name   string
	offset uint16
	words  uint16
}

// Name returns the owner's name for the region.
func (r Region) Name() string { return r.name }

// Offset returns the absolute offset of the region.
func (r Region) Offset() uint16 { return r.offset }

// Words returns the region size.
func (r Region) Words() uint16 { return r.words }

// Read fills dst from the word at index at within the region.
func (r Region) Read(at uint16, dst []uint16) error {
	if err := checkRange(at, len(dst), int(r.words)); err != nil {
		return fmt.Errorf("%s: %w", r.name, err)
	}
	return r.store.Read(r.offset+at, dst)
}

// Write stores src at index at within the region.
func (r Region) Write(at uint16, src []uint16) error {
	if err := checkRange(at, len(src), int(r.words)); err != nil {
		return fmt.Errorf("%s: %w", r.name, err)
	}
	return r.store.Write(r.offset+at, src)
}

// Allocator reserves consecutive regions of a Store.
type Allocator struct {
	store   Store
	next    uint16
	regions []Region
}

// NewAllocator creates an allocator whose first region starts at start.
func NewAllocator(s Store, start uint16) *Allocator {
	return &Allocator{store: s, next: start}
}

// Reserve claims the next words words under name.
func (a *Allocator) Reserve(name string, words uint16) (Region, error) {
	if words == 0 {
		return Region{}, fmt.Errorf("%w: %s", ErrEmptyField, name)
	}
	if uint32(a.next)+uint32(words) > uint32(a.store.Size()) {
		return Region{}, fmt.Errorf("%w: %s needs %d words at %d", ErrExhausted, name, words, a.next)
	}
	r := Region{store: a.store, name: name, offset: a.next, words: words}
	a.next += words
	a.regions = append(a.regions, r)
	return r, nil
}

// Next returns the offset the next reservation will receive.
func (a *Allocator) Next() uint16 {
	return a.next
}

// Regions returns the reservations made so far, in order.
func (a *Allocator) Regions() []Region {
	return append([]Region(nil), a.regions...)
}
