package gatt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/htp-ble/htp-go/pkg/ble"
)

func named(name string, low, high uint16, write bool) Registration {
	r := Registration{
		Name: name,
		Low:  low,
		High: high,
		Read: func(req Request) Response {
			return Reply(ble.StatusSuccess, []byte(name))
		},
	}
	if write {
		r.Write = func(req Request) Response {
			return Reply(ble.StatusSuccess, []byte("w:"+name))
		}
	}
	return r
}

func deviceTable(t *testing.T) *Dispatcher {
	t.Helper()
	d, err := NewDispatcher(
		named("gap", HandleGAPService, HandleGAPEnd, true),
		named("thermometer", HandleThermometerService, HandleThermometerEnd, true),
		named("battery", HandleBatteryService, HandleBatteryEnd, true),
		named("devinfo", HandleDeviceInfoService, HandleDeviceInfoEnd, false),
	)
	require.NoError(t, err)
	return d
}

func TestDispatcherRoutesByRange(t *testing.T) {
	d := deviceTable(t)

	tests := []struct {
		handle uint16
		owner  string
	}{
		{HandleDeviceName, "gap"},
		{HandleGAPEnd, "gap"},
		{HandleThermometerService, "thermometer"},
		{HandleTemperatureConfig, "thermometer"},
		{HandleBatteryLevel, "battery"},
		{HandleSystemID, "devinfo"},
		{HandleDeviceInfoEnd, "devinfo"},
	}
	for _, tt := range tests {
		resp := d.Read(Request{Handle: tt.handle})
		assert.Equal(t, ble.StatusSuccess, resp.Status)
		assert.Equal(t, tt.owner, string(resp.Value), "handle 0x%04X", tt.handle)
	}

	resp := d.Write(Request{Handle: HandleBatteryLevelConfig})
	assert.Equal(t, "w:battery", string(resp.Value))
}

func TestDispatcherNotPermitted(t *testing.T) {
	d := deviceTable(t)

	assert.Equal(t, ble.StatusReadNotPermitted, d.Read(Request{Handle: 0x0100}).Status)
	assert.Equal(t, ble.StatusWriteNotPermitted, d.Write(Request{Handle: 0x0100}).Status)

	// Device information has no write handler.
	assert.Equal(t, ble.StatusWriteNotPermitted, d.Write(Request{Handle: HandleSystemID}).Status)
}

func TestDispatcherIsTotalAndUnambiguous(t *testing.T) {
	d := deviceTable(t)
	regs := d.Registrations()

	for h := 0; h <= 0xFFFF; h++ {
		matches := 0
		for _, r := range regs {
			if r.Contains(uint16(h)) {
				matches++
			}
		}
		require.LessOrEqual(t, matches, 1, "handle 0x%04X", h)

		resp := d.Read(Request{Handle: uint16(h)})
		if matches == 0 {
			require.Equal(t, ble.StatusReadNotPermitted, resp.Status)
		}
	}
}

func TestDispatcherIsDeterministic(t *testing.T) {
	d := deviceTable(t)
	req := Request{Handle: HandleBatteryLevel}
	assert.Equal(t, d.Read(req), d.Read(req))
}

func TestNewDispatcherValidation(t *testing.T) {
	_, err := NewDispatcher(named("a", 1, 5, false), named("b", 5, 9, false))
	assert.ErrorIs(t, err, ErrRangeOverlap)

	_, err = NewDispatcher(named("a", 10, 20, false), named("b", 1, 30, false))
	assert.ErrorIs(t, err, ErrRangeOverlap)

	_, err = NewDispatcher(named("a", 9, 5, false))
	assert.ErrorIs(t, err, ErrEmptyRange)

	_, err = NewDispatcher(named("a", 0, 5, false))
	assert.ErrorIs(t, err, ErrEmptyRange)

	_, err = NewDispatcher(Registration{Name: "a", Low: 1, High: 2})
	assert.ErrorIs(t, err, ErrNoHandler)
}

type fixedService struct{ reg Registration }

func (f fixedService) Registration() Registration { return f.reg }

func TestNewServiceDispatcher(t *testing.T) {
	d, err := NewServiceDispatcher(fixedService{named("gap", 1, 7, true)})
	require.NoError(t, err)
	r, ok := d.Lookup(3)
	assert.True(t, ok)
	assert.Equal(t, "gap", r.Name)
}

func TestClientConfig(t *testing.T) {
	c, ok := ParseClientConfig([]byte{0x01, 0x00})
	assert.True(t, ok)
	assert.Equal(t, ConfigNotification, c)
	assert.Equal(t, []byte{0x02, 0x00}, ConfigIndication.Bytes())

	_, ok = ParseClientConfig([]byte{0x01})
	assert.False(t, ok)
	assert.Equal(t, "NONE", ConfigNone.String())
}
