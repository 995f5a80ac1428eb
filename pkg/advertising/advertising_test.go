package advertising

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/htp-ble/htp-go/pkg/ble"
	"github.com/htp-ble/htp-go/pkg/ble/mocks"
	"github.com/htp-ble/htp-go/pkg/timer"
)

func thermometerSpec(name string) PayloadSpec {
	return PayloadSpec{
		Services:   []ble.UUID16{ble.ServiceHealthThermometer},
		Appearance: ble.AppearanceThermometer,
		TxPower:    -4,
		Name:       []byte(name),
	}
}

func uuidList(n int) []ble.UUID16 {
	out := make([]ble.UUID16, n)
	for i := range out {
		out[i] = ble.UUID16(0x1800 + i)
	}
	return out
}

func TestBuildDefaultNameFillsAdvertisement(t *testing.T) {
	p, placement, err := Build(thermometerSpec("CSR Thermometer"))
	require.NoError(t, err)

	want := []byte{
		0x02, 0x01, 0x06,
		0x03, 0x03, 0x09, 0x18,
		0x03, 0x19, 0x00, 0x03,
		0x02, 0x0A, 0xFC,
		0x10, 0x09,
	}
	want = append(want, "CSR Thermometer"...)

	assert.Equal(t, want, p.Data)
	assert.Len(t, p.Data, MaxDataLength)
	assert.Empty(t, p.ScanResponse)
	assert.Equal(t, NameCompleteInData, placement)
}

func TestBuildNamePlacement(t *testing.T) {
	tests := []struct {
		name      string
		services  int
		devName   string
		placement NamePlacement
		check     func(t *testing.T, p Payload)
	}{
		{
			name:      "complete in scan response",
			services:  1,
			devName:   "CSR Thermometer X",
			placement: NameCompleteInScanResponse,
			check: func(t *testing.T, p Payload) {
				assert.Equal(t, byte(18), p.ScanResponse[0])
				assert.Equal(t, ADCompleteName, p.ScanResponse[1])
				assert.Equal(t, "CSR Thermometer X", string(p.ScanResponse[2:]))
			},
		},
		{
			name:      "shortened in advertisement",
			services:  4,
			devName:   strings.Repeat("n", 30),
			placement: NameShortenedInData,
			check: func(t *testing.T, p Payload) {
				tail := p.Data[len(p.Data)-9:]
				assert.Equal(t, []byte{0x08, ADShortenedName}, tail[:2])
				assert.Equal(t, "nnnnnnn", string(tail[2:]))
				assert.Empty(t, p.ScanResponse)
			},
		},
		{
			name:      "shortened in scan response",
			services:  5,
			devName:   strings.Repeat("s", 30),
			placement: NameShortenedInScanResponse,
			check: func(t *testing.T, p Payload) {
				assert.Len(t, p.ScanResponse, MaxDataLength)
				assert.Equal(t, ADShortenedName, p.ScanResponse[1])
				assert.Equal(t, strings.Repeat("s", 29), string(p.ScanResponse[2:]))
			},
		},
		{
			name:      "no name",
			services:  1,
			placement: NameOmitted,
			check: func(t *testing.T, p Payload) {
				assert.Len(t, p.Data, 14)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := thermometerSpec(tt.devName)
			spec.Services = uuidList(tt.services)
			p, placement, err := Build(spec)
			require.NoError(t, err)
			assert.Equal(t, tt.placement, placement)
			assert.LessOrEqual(t, len(p.Data), MaxDataLength)
			assert.LessOrEqual(t, len(p.ScanResponse), MaxDataLength)
			tt.check(t, p)
		})
	}
}

func TestBuildDataFull(t *testing.T) {
	spec := thermometerSpec("x")
	spec.Services = uuidList(10)
	_, _, err := Build(spec)
	assert.ErrorIs(t, err, ErrDataFull)
}

func newController(t *testing.T, eng ble.Engine, active func() bool) (*Controller, *timer.Manual, *timer.Slot) {
	t.Helper()
	clock := timer.NewManual()
	slot := timer.NewSlot(clock, timer.PurposeAdvertising)
	c := NewController(Config{Engine: eng, Slot: slot, Active: active})
	return c, clock, slot
}

func TestControllerFastThenTimeout(t *testing.T) {
	eng := mocks.NewMockEngine(t)
	eng.EXPECT().TxPowerLevel().Return(int8(0), nil)
	eng.EXPECT().StartAdvertising(mock.MatchedBy(func(req ble.AdvertisingRequest) bool {
		return req.Fast && req.Interval == ble.NewAdvertisingInterval(60*time.Millisecond) &&
			req.Filter == ble.FilterWhitelist
	})).Return(nil).Once()

	c, clock, slot := newController(t, eng, nil)
	require.NoError(t, c.Start(true, []byte("CSR Thermometer"), ble.FilterWhitelist))
	assert.True(t, slot.Active())
	assert.True(t, c.Fast())

	clock.Advance(29 * time.Second)
	eng.AssertNotCalled(t, "CancelAdvertising")

	eng.EXPECT().CancelAdvertising().Return(nil).Once()
	clock.Advance(time.Second)
	assert.False(t, slot.Active())
}

func TestControllerSlowTimeout(t *testing.T) {
	eng := mocks.NewMockEngine(t)
	eng.EXPECT().TxPowerLevel().Return(int8(-8), nil)
	eng.EXPECT().StartAdvertising(mock.MatchedBy(func(req ble.AdvertisingRequest) bool {
		return !req.Fast && req.Interval.Duration() == 1280*time.Millisecond
	})).Return(nil).Once()
	eng.EXPECT().CancelAdvertising().Return(errors.New("busy")).Once()

	c, clock, _ := newController(t, eng, nil)
	require.NoError(t, c.Start(false, []byte("t"), ble.FilterNone))

	payload, placement := c.LastPayload()
	assert.Equal(t, NameCompleteInData, placement)
	assert.Contains(t, string(payload.Data), "t")

	// A failed cancel is only logged.
	clock.Advance(time.Minute)
}

func TestControllerTimeoutOutsideAdvertising(t *testing.T) {
	eng := mocks.NewMockEngine(t)
	eng.EXPECT().TxPowerLevel().Return(int8(0), nil)
	eng.EXPECT().StartAdvertising(mock.Anything).Return(nil)

	advertising := true
	c, clock, _ := newController(t, eng, func() bool { return advertising })
	require.NoError(t, c.Start(true, nil, ble.FilterNone))

	advertising = false
	clock.Advance(DefaultFastTimeout)
	eng.AssertNotCalled(t, "CancelAdvertising")
}

func TestControllerStaleTimeoutIgnored(t *testing.T) {
	eng := mocks.NewMockEngine(t)
	eng.EXPECT().TxPowerLevel().Return(int8(0), nil)
	eng.EXPECT().StartAdvertising(mock.Anything).Return(nil)

	c, clock, slot := newController(t, eng, nil)
	require.NoError(t, c.Start(true, nil, ble.FilterNone))
	old := slot.Current()
	c.Exit()
	assert.False(t, slot.Active())

	// The callback was already queued when the slot was cancelled.
	require.True(t, clock.Deliver(old))
	eng.AssertNotCalled(t, "CancelAdvertising")
}

func TestControllerStartErrors(t *testing.T) {
	t.Run("tx power", func(t *testing.T) {
		eng := mocks.NewMockEngine(t)
		eng.EXPECT().TxPowerLevel().Return(int8(0), errors.New("radio off"))
		c, _, slot := newController(t, eng, nil)
		err := c.Start(true, nil, ble.FilterNone)
		assert.ErrorIs(t, err, ErrTxPower)
		assert.False(t, slot.Active())
	})

	t.Run("rejected", func(t *testing.T) {
		eng := mocks.NewMockEngine(t)
		eng.EXPECT().TxPowerLevel().Return(int8(0), nil)
		eng.EXPECT().StartAdvertising(mock.Anything).Return(errors.New("bad params"))
		c, _, slot := newController(t, eng, nil)
		err := c.Start(false, nil, ble.FilterNone)
		assert.ErrorIs(t, err, ErrRejected)
		assert.False(t, slot.Active())
	})
}
