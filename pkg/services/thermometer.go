package services

import (
	"fmt"
	"math"
	"sync"

	"github.com/htp-ble/htp-go/pkg/ble"
	"github.com/htp-ble/htp-go/pkg/gatt"
	"github.com/htp-ble/htp-go/pkg/nvm"
)

// ReadingSize is the length of a temperature measurement value.
const ReadingSize = 5

// Reading is one measurement snapshot. Octet 0 carries the send counter.
type Reading [ReadingSize]byte

// NewReading encodes celsius as an IEEE 11073 FLOAT with two decimals in
// octets 1 to 4. Octet 0 is left for the send counter.
func NewReading(celsius float64) Reading {
	m := int32(math.Round(celsius * 100))
	var r Reading
	r[1] = byte(m)
	r[2] = byte(m >> 8)
	r[3] = byte(m >> 16)
	r[4] = 0xFE // exponent -2
	return r
}

// Celsius decodes the temperature in octets 1 to 4.
func (r Reading) Celsius() float64 {
	m := int32(uint32(r[1]) | uint32(r[2])<<8 | uint32(r[3])<<16)
	if m&0x800000 != 0 {
		m -= 1 << 24
	}
	return float64(m) * math.Pow10(int(int8(r[4])))
}

// Thermometer is the Health Thermometer service.
type Thermometer struct {
	mu      sync.Mutex
	bond    BondState
	config  gatt.ClientConfig
	store   clientConfigStore
	reading Reading
	counter uint8
}

// NewThermometer creates the service. bond decides whether descriptor
// writes are persisted.
func NewThermometer(bond BondState) *Thermometer {
	return &Thermometer{bond: bond}
}

// Name implements Service.
func (t *Thermometer) Name() string { return "thermometer" }

// StorageWords implements Service.
func (t *Thermometer) StorageWords() uint16 { return 1 }

// Restore implements Service. The descriptor is only loaded when bonded.
func (t *Thermometer) Restore(region nvm.Region, fresh bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.store.bind(region)
	if fresh || !t.bond.Bonded() {
		return nil
	}
	c, err := t.store.load()
	if err != nil {
		return fmt.Errorf("read measurement config: %w", err)
	}
	t.config = c
	return nil
}

// BondingNotify implements Service.
func (t *Thermometer) BondingNotify() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.bond.Bonded() {
		return nil
	}
	return t.store.save(t.config)
}

// DataInit implements Service.
func (t *Thermometer) DataInit() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.bond.Bonded() {
		t.config = gatt.ConfigNone
	}
}

// ClientConfig returns the measurement descriptor value.
func (t *Thermometer) ClientConfig() gatt.ClientConfig {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.config
}

// Snapshot returns the last stored reading.
func (t *Thermometer) Snapshot() Reading {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.reading
}

// Send stores r as the current snapshot with octet 0 replaced by the next
// value of the wrapping send counter. It returns the notification to send
// when connected and notifications are enabled.
func (t *Thermometer) Send(r Reading, connected bool) (gatt.Notification, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.counter++
	r[0] = t.counter
	t.reading = r
	return t.notificationLocked(connected)
}

// Notification returns the current snapshot as a notification when
// connected and notifications are enabled.
func (t *Thermometer) Notification(connected bool) (gatt.Notification, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.notificationLocked(connected)
}

func (t *Thermometer) notificationLocked(connected bool) (gatt.Notification, bool) {
	if !connected || t.config&gatt.ConfigNotification == 0 {
		return gatt.Notification{}, false
	}
	return gatt.Notification{
		Handle: gatt.HandleTemperatureMeasurement,
		Value:  append([]byte(nil), t.reading[:]...),
	}, true
}

// Registration implements gatt.Service.
func (t *Thermometer) Registration() gatt.Registration {
	return gatt.Registration{
		Name:  t.Name(),
		Low:   gatt.HandleThermometerService,
		High:  gatt.HandleThermometerEnd,
		Read:  t.read,
		Write: t.write,
	}
}

func (t *Thermometer) read(req gatt.Request) gatt.Response {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch req.Handle {
	case gatt.HandleTemperatureMeasurement:
		return gatt.Reply(ble.StatusSuccess, append([]byte(nil), t.reading[:]...))
	case gatt.HandleTemperatureConfig:
		return gatt.Reply(ble.StatusSuccess, t.config.Bytes())
	default:
		return gatt.Reply(ble.StatusProceed, nil)
	}
}

func (t *Thermometer) write(req gatt.Request) gatt.Response {
	if req.Handle != gatt.HandleTemperatureConfig {
		return gatt.Reply(ble.StatusWriteNotPermitted, nil)
	}
	c, ok := writeClientConfig(req.Value)
	if !ok {
		return gatt.Reply(ble.StatusImproperClientConfig, nil)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.config = c
	resp := gatt.Reply(ble.StatusSuccess, nil)
	if t.bond.Bonded() {
		if err := t.store.save(c); err != nil {
			resp.Err = fmt.Errorf("persist measurement config: %w", err)
		}
	}
	return resp
}
