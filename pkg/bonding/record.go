package bonding

import (
	"errors"
	"fmt"

	"github.com/htp-ble/htp-go/pkg/ble"
	"github.com/htp-ble/htp-go/pkg/nvm"
)

// SanityWord marks an initialized store.
const SanityWord uint16 = 0xAB08

// Record field names.
const (
	FieldSanity      = "sanity"
	FieldBonded      = "bonded"
	FieldAddress     = "bonded_address"
	FieldDiversifier = "diversifier"
	FieldIdentityKey = "identity_key"
)

// Record errors.
var (
	ErrLoad    = errors.New("bonding: load record")
	ErrPersist = errors.New("bonding: persist record")
)

// Record is the persisted bond.
type Record struct {
	Bonded      bool
	Address     ble.Address
	Diversifier uint16
	IdentityKey ble.IdentityKey
}

// ResolvablePeer reports whether the bonded peer uses resolvable private
// addresses.
func (r Record) ResolvablePeer() bool {
	return r.Bonded && r.Address.IsResolvablePrivate()
}

// Whitelisted reports whether the bonded peer belongs on the whitelist.
func (r Record) Whitelisted() bool {
	return r.Bonded && !r.Address.IsResolvablePrivate()
}

// NewRecordLayout returns the record layout at offset 0.
func NewRecordLayout() (*nvm.Layout, error) {
	return nvm.NewLayout(0,
		nvm.Field{Name: FieldSanity, Words: 1},
		nvm.Field{Name: FieldBonded, Words: 1},
		nvm.Field{Name: FieldAddress, Words: ble.AddressWords},
		nvm.Field{Name: FieldDiversifier, Words: 1},
		nvm.Field{Name: FieldIdentityKey, Words: ble.IdentityKeyWords},
	)
}

// RecordStore reads and writes a Record in a word store.
type RecordStore struct {
	store  nvm.Store
	layout *nvm.Layout
}

// NewRecordStore checks the layout fits s.
func NewRecordStore(s nvm.Store) (*RecordStore, error) {
	l, err := NewRecordLayout()
	if err != nil {
		return nil, err
	}
	if err := l.Fits(s.Size()); err != nil {
		return nil, err
	}
	return &RecordStore{store: s, layout: l}, nil
}

// Layout returns the record layout.
func (s *RecordStore) Layout() *nvm.Layout {
	return s.layout
}

// End returns the first offset after the record.
func (s *RecordStore) End() uint16 {
	return s.layout.End()
}

// Load reads the record. A store without the sanity word is initialized
// with an unbonded record and zero diversifier, and fresh is true.
func (s *RecordStore) Load() (rec Record, fresh bool, err error) {
	var w [1]uint16
	if err := s.read(FieldSanity, w[:]); err != nil {
		return Record{}, false, err
	}
	if w[0] != SanityWord {
		if err := s.initialize(); err != nil {
			return Record{}, false, err
		}
		return Record{}, true, nil
	}

	if err := s.read(FieldBonded, w[:]); err != nil {
		return Record{}, false, err
	}
	rec.Bonded = w[0] == 1
	if rec.Bonded {
		var a [ble.AddressWords]uint16
		if err := s.read(FieldAddress, a[:]); err != nil {
			return Record{}, false, err
		}
		rec.Address = ble.AddressFromWords(a)
		if rec.Address.IsResolvablePrivate() {
			var k ble.IdentityKey
			if err := s.read(FieldIdentityKey, k[:]); err != nil {
				return Record{}, false, err
			}
			rec.IdentityKey = k
		}
	}
	if err := s.read(FieldDiversifier, w[:]); err != nil {
		return Record{}, false, err
	}
	rec.Diversifier = w[0]
	return rec, false, nil
}

func (s *RecordStore) initialize() error {
	if err := s.write(FieldSanity, []uint16{SanityWord}); err != nil {
		return err
	}
	if err := s.SaveBonded(false); err != nil {
		return err
	}
	return s.SaveDiversifier(0)
}

// SaveBonded persists the bonded flag.
func (s *RecordStore) SaveBonded(bonded bool) error {
	var v uint16
	if bonded {
		v = 1
	}
	return s.write(FieldBonded, []uint16{v})
}

// SaveAddress persists the bonded peer address.
func (s *RecordStore) SaveAddress(a ble.Address) error {
	w := a.Words()
	return s.write(FieldAddress, w[:])
}

// SaveDiversifier persists the diversifier.
func (s *RecordStore) SaveDiversifier(div uint16) error {
	return s.write(FieldDiversifier, []uint16{div})
}

// SaveIdentityKey persists the peer identity resolving key.
func (s *RecordStore) SaveIdentityKey(k ble.IdentityKey) error {
	return s.write(FieldIdentityKey, k[:])
}

func (s *RecordStore) read(field string, dst []uint16) error {
	if err := s.layout.Read(s.store, field, dst); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrLoad, field, err)
	}
	return nil
}

func (s *RecordStore) write(field string, src []uint16) error {
	if err := s.layout.Write(s.store, field, src); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrPersist, field, err)
	}
	return nil
}
