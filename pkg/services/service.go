package services

import (
	"github.com/htp-ble/htp-go/pkg/gatt"
	"github.com/htp-ble/htp-go/pkg/nvm"
)

// BondState reports whether the device is bonded to a peer.
type BondState interface {
	Bonded() bool
}

// Service is the contract between a GATT service and the lifecycle machine.
type Service interface {
	gatt.Service

	// Name identifies the service in logs and storage regions.
	Name() string

	// StorageWords is the size of the service's persistent block. Zero
	// means the service persists nothing.
	StorageWords() uint16

	// Restore binds the service to its block. On a fresh store the service
	// writes its defaults; otherwise it loads what it persisted.
	Restore(region nvm.Region, fresh bool) error

	// BondingNotify persists volatile configuration after a bond is made.
	BondingNotify() error

	// DataInit clears per-connection state.
	DataInit()
}

// writeClientConfig validates a descriptor write. Only notification and
// none are accepted.
func writeClientConfig(value []byte) (gatt.ClientConfig, bool) {
	c, ok := gatt.ParseClientConfig(value)
	if !ok {
		return 0, false
	}
	if c != gatt.ConfigNotification && c != gatt.ConfigNone {
		return 0, false
	}
	return c, true
}

// clientConfigStore persists a single descriptor word.
type clientConfigStore struct {
	region nvm.Region
	bound  bool
}

func (s *clientConfigStore) bind(r nvm.Region) {
	s.region = r
	s.bound = true
}

func (s *clientConfigStore) load() (gatt.ClientConfig, error) {
	var w [1]uint16
	if err := s.region.Read(0, w[:]); err != nil {
		return gatt.ConfigNone, err
	}
	// An erased or corrupted word leaves the descriptor disabled.
	c := gatt.ClientConfig(w[0])
	if c != gatt.ConfigNotification {
		c = gatt.ConfigNone
	}
	return c, nil
}

func (s *clientConfigStore) save(c gatt.ClientConfig) error {
	if !s.bound {
		return nil
	}
	return s.region.Write(0, []uint16{uint16(c)})
}
