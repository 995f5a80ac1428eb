package services

import (
	"fmt"
	"sync"

	"github.com/htp-ble/htp-go/pkg/ble"
	"github.com/htp-ble/htp-go/pkg/gatt"
	"github.com/htp-ble/htp-go/pkg/nvm"
)

// Default battery voltage window.
const (
	DefaultFlatMillivolts = 1800
	DefaultFullMillivolts = 3000
)

// levelUnknown forces the next update to report the level.
const levelUnknown = 0xFF

// VoltageSensor reads the supply voltage.
type VoltageSensor interface {
	Millivolts() uint32
}

// FixedVoltage is a VoltageSensor returning a constant.
type FixedVoltage uint32

// Millivolts implements VoltageSensor.
func (v FixedVoltage) Millivolts() uint32 { return uint32(v) }

// BatteryConfig configures a Battery service.
type BatteryConfig struct {
	Sensor         VoltageSensor
	FlatMillivolts uint32
	FullMillivolts uint32
}

// Battery is the Battery service.
type Battery struct {
	mu     sync.Mutex
	bond   BondState
	cfg    BatteryConfig
	config gatt.ClientConfig
	store  clientConfigStore
	level  uint8
}

// NewBattery creates the service. Zero voltage limits take the defaults.
func NewBattery(bond BondState, cfg BatteryConfig) *Battery {
	if cfg.FlatMillivolts == 0 {
		cfg.FlatMillivolts = DefaultFlatMillivolts
	}
	if cfg.FullMillivolts <= cfg.FlatMillivolts {
		cfg.FullMillivolts = DefaultFullMillivolts
	}
	if cfg.Sensor == nil {
		cfg.Sensor = FixedVoltage(cfg.FullMillivolts)
	}
	return &Battery{bond: bond, cfg: cfg}
}

// Name implements Service.
func (b *Battery) Name() string { return "battery" }

// StorageWords implements Service.
func (b *Battery) StorageWords() uint16 { return 1 }

// Restore implements Service. The descriptor is only loaded when bonded.
func (b *Battery) Restore(region nvm.Region, fresh bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.store.bind(region)
	if fresh || !b.bond.Bonded() {
		return nil
	}
	c, err := b.store.load()
	if err != nil {
		return fmt.Errorf("read level config: %w", err)
	}
	b.config = c
	return nil
}

// BondingNotify implements Service.
func (b *Battery) BondingNotify() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.bond.Bonded() {
		return nil
	}
	return b.store.save(b.config)
}

// DataInit implements Service.
func (b *Battery) DataInit() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.bond.Bonded() {
		b.config = gatt.ConfigNone
	}
}

// ClientConfig returns the level descriptor value.
func (b *Battery) ClientConfig() gatt.ClientConfig {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.config
}

// Level returns the current charge in percent.
func (b *Battery) Level() uint8 {
	mv := b.cfg.Sensor.Millivolts()
	if mv < b.cfg.FlatMillivolts {
		mv = b.cfg.FlatMillivolts
	}
	pct := (mv - b.cfg.FlatMillivolts) * 100 / (b.cfg.FullMillivolts - b.cfg.FlatMillivolts)
	if pct > 100 {
		pct = 100
	}
	return uint8(pct)
}

// Update samples the level and returns a notification when it changed, the
// device is connected and notifications are enabled. The reported level is
// only recorded once a notification goes out.
func (b *Battery) Update(connected bool) (gatt.Notification, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.updateLocked(connected)
}

func (b *Battery) updateLocked(connected bool) (gatt.Notification, bool) {
	cur := b.Level()
	if cur == b.level || !connected || b.config&gatt.ConfigNotification == 0 {
		return gatt.Notification{}, false
	}
	b.level = cur
	return gatt.Notification{Handle: gatt.HandleBatteryLevel, Value: []byte{cur}}, true
}

// Registration implements gatt.Service.
func (b *Battery) Registration() gatt.Registration {
	return gatt.Registration{
		Name:  b.Name(),
		Low:   gatt.HandleBatteryService,
		High:  gatt.HandleBatteryEnd,
		Read:  b.read,
		Write: b.write,
	}
}

func (b *Battery) read(req gatt.Request) gatt.Response {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch req.Handle {
	case gatt.HandleBatteryLevel:
		b.level = b.Level()
		return gatt.Reply(ble.StatusSuccess, []byte{b.level})
	case gatt.HandleBatteryLevelConfig:
		return gatt.Reply(ble.StatusSuccess, b.config.Bytes())
	default:
		return gatt.Reply(ble.StatusReadNotPermitted, nil)
	}
}

func (b *Battery) write(req gatt.Request) gatt.Response {
	if req.Handle != gatt.HandleBatteryLevelConfig {
		return gatt.Reply(ble.StatusWriteNotPermitted, nil)
	}
	c, ok := writeClientConfig(req.Value)
	if !ok {
		return gatt.Reply(ble.StatusImproperClientConfig, nil)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.config = c
	resp := gatt.Reply(ble.StatusSuccess, nil)
	if b.bond.Bonded() {
		if err := b.store.save(c); err != nil {
			resp.Err = fmt.Errorf("persist level config: %w", err)
		}
	}
	if c == gatt.ConfigNotification {
		b.level = levelUnknown
		if n, ok := b.updateLocked(true); ok {
			resp.Notify = append(resp.Notify, n)
		}
	}
	return resp
}
