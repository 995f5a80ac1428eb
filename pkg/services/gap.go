package services

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/htp-ble/htp-go/pkg/ble"
	"github.com/htp-ble/htp-go/pkg/gatt"
	"github.com/htp-ble/htp-go/pkg/nvm"
)

// Device name limits.
const (
	MaxDeviceNameLength = 20
	DefaultDeviceName   = "CSR Thermometer"
)

// GAPStorageWords holds the name length followed by one octet per word.
const GAPStorageWords = 1 + MaxDeviceNameLength

// ErrNameCorrupted is returned when the persisted name length is out of range.
var ErrNameCorrupted = errors.New("services: persisted device name is corrupted")

// GAP is the Generic Access service.
type GAP struct {
	mu         sync.Mutex
	name       []byte
	appearance uint16
	store      nvm.Region
	bound      bool
}

// NewGAP creates the service with an initial device name, truncated to
// MaxDeviceNameLength octets.
func NewGAP(name string) *GAP {
	return &GAP{
		name:       truncateName([]byte(name)),
		appearance: ble.AppearanceThermometer,
	}
}

func truncateName(b []byte) []byte {
	if len(b) > MaxDeviceNameLength {
		b = b[:MaxDeviceNameLength]
	}
	return append([]byte(nil), b...)
}

// Name implements Service.
func (g *GAP) Name() string { return "gap" }

// StorageWords implements Service.
func (g *GAP) StorageWords() uint16 { return GAPStorageWords }

// DeviceName returns a copy of the current device name.
func (g *GAP) DeviceName() []byte {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]byte(nil), g.name...)
}

// Restore implements Service. The name is persisted regardless of bonding.
func (g *GAP) Restore(region nvm.Region, fresh bool) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.store = region
	g.bound = true
	if fresh {
		return g.persist()
	}

	var n [1]uint16
	if err := region.Read(0, n[:]); err != nil {
		return fmt.Errorf("read name length: %w", err)
	}
	if n[0] > MaxDeviceNameLength {
		return fmt.Errorf("%w: length %d", ErrNameCorrupted, n[0])
	}
	words := make([]uint16, n[0])
	if err := region.Read(1, words); err != nil {
		return fmt.Errorf("read name: %w", err)
	}
	name := make([]byte, len(words))
	for i, w := range words {
		name[i] = byte(w)
	}
	g.name = name
	return nil
}

func (g *GAP) persist() error {
	if !g.bound {
		return nil
	}
	words := make([]uint16, 1+len(g.name))
	words[0] = uint16(len(g.name))
	for i, b := range g.name {
		words[1+i] = uint16(b)
	}
	return g.store.Write(0, words)
}

// BondingNotify implements Service.
func (g *GAP) BondingNotify() error { return nil }

// DataInit implements Service.
func (g *GAP) DataInit() {}

// Registration implements gatt.Service.
func (g *GAP) Registration() gatt.Registration {
	return gatt.Registration{
		Name:  g.Name(),
		Low:   gatt.HandleGAPService,
		High:  gatt.HandleGAPEnd,
		Read:  g.read,
		Write: g.write,
	}
}

func (g *GAP) read(req gatt.Request) gatt.Response {
	g.mu.Lock()
	defer g.mu.Unlock()

	switch req.Handle {
	case gatt.HandleDeviceName:
		if int(req.Offset) >= len(g.name) {
			return gatt.Reply(ble.StatusInvalidOffset, nil)
		}
		return gatt.Reply(ble.StatusSuccess, append([]byte(nil), g.name[req.Offset:]...))
	case gatt.HandleAppearance:
		return gatt.Reply(ble.StatusSuccess, binary.LittleEndian.AppendUint16(nil, g.appearance))
	default:
		return gatt.Reply(ble.StatusProceed, nil)
	}
}

func (g *GAP) write(req gatt.Request) gatt.Response {
	if req.Handle != gatt.HandleDeviceName {
		return gatt.Reply(ble.StatusWriteNotPermitted, nil)
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.name = truncateName(req.Value)
	resp := gatt.Reply(ble.StatusSuccess, nil)
	if err := g.persist(); err != nil {
		resp.Err = fmt.Errorf("persist device name: %w", err)
	}
	return resp
}
