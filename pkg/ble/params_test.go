package ble

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConnParamsValidate(t *testing.T) {
	tests := []struct {
		name   string
		params ConnParams
		want   error
	}{
		{"preferred", ConnParams{MinInterval: 27, MaxInterval: 27, Latency: 4, Timeout: 1000}, nil},
		{"fallback", ConnParams{MinInterval: 6, MaxInterval: 27, Latency: 4, Timeout: 600}, nil},
		{"interval too small", ConnParams{MinInterval: 5, MaxInterval: 27, Latency: 0, Timeout: 600}, ErrIntervalRange},
		{"min above max", ConnParams{MinInterval: 30, MaxInterval: 27, Latency: 0, Timeout: 600}, ErrIntervalOrder},
		{"latency", ConnParams{MinInterval: 6, MaxInterval: 27, Latency: 500, Timeout: 600}, ErrLatencyRange},
		{"timeout range", ConnParams{MinInterval: 6, MaxInterval: 27, Latency: 0, Timeout: 5}, ErrTimeoutRange},
		{"timeout short", ConnParams{MinInterval: 6, MaxInterval: 800, Latency: 10, Timeout: 100}, ErrTimeoutShort},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.params.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestAdvertisingInterval(t *testing.T) {
	fast := NewAdvertisingInterval(60 * time.Millisecond)
	assert.Equal(t, AdvertisingInterval(96), fast)
	assert.Equal(t, 60*time.Millisecond, fast.Duration())

	slow := NewAdvertisingInterval(1280 * time.Millisecond)
	assert.Equal(t, AdvertisingInterval(2048), slow)

	assert.Equal(t, uint16(27), IntervalUnits(33750*time.Microsecond))
}
