package ble

import (
	"errors"
	"fmt"
	"time"
)

// Connection parameter limits from the Core Specification.
const (
	MinConnInterval       = 0x0006
	MaxConnInterval       = 0x0C80
	MaxPeripheralLatency  = 0x01F3
	MinSupervisionTimeout = 0x000A
	MaxSupervisionTimeout = 0x0C80
)

// Connection parameter validation errors.
var (
	ErrIntervalRange = errors.New("ble: connection interval out of range")
	ErrIntervalOrder = errors.New("ble: minimum interval exceeds maximum")
	ErrLatencyRange  = errors.New("ble: peripheral latency out of range")
	ErrTimeoutRange  = errors.New("ble: supervision timeout out of range")
	ErrTimeoutShort  = errors.New("ble: supervision timeout too short for interval and latency")
)

// LinkParams are the parameters in effect on an established link.
type LinkParams struct {
	// Interval in units of 1.25 ms.
	Interval uint16

	// Latency is the number of connection events the peripheral may skip.
	Latency uint16

	// Timeout is the supervision timeout in units of 10 ms.
	Timeout uint16
}

// IsZero reports whether no parameters have been reported yet.
func (p LinkParams) IsZero() bool {
	return p == LinkParams{}
}

// String returns a human readable form of p.
func (p LinkParams) String() string {
	return fmt.Sprintf("interval=%d latency=%d timeout=%d", p.Interval, p.Latency, p.Timeout)
}

// ConnParams is a connection-parameter update profile.
type ConnParams struct {
	// MinInterval and MaxInterval in units of 1.25 ms.
	MinInterval uint16 `yaml:"min_interval"`
	MaxInterval uint16 `yaml:"max_interval"`

	// Latency is the peripheral latency in connection events.
	Latency uint16 `yaml:"latency"`

	// Timeout is the supervision timeout in units of 10 ms.
	Timeout uint16 `yaml:"timeout"`
}

// Validate checks p against the Core Specification limits.
func (p ConnParams) Validate() error {
	if p.MinInterval < MinConnInterval || p.MaxInterval > MaxConnInterval {
		return ErrIntervalRange
	}
	if p.MinInterval > p.MaxInterval {
		return ErrIntervalOrder
	}
	if p.Latency > MaxPeripheralLatency {
		return ErrLatencyRange
	}
	if p.Timeout < MinSupervisionTimeout || p.Timeout > MaxSupervisionTimeout {
		return ErrTimeoutRange
	}
	// timeout must exceed (1 + latency) * max interval * 2
	if uint32(p.Timeout)*10*1000 <= (1+uint32(p.Latency))*uint32(p.MaxInterval)*1250*2 {
		return ErrTimeoutShort
	}
	return nil
}

// String returns a human readable form of p.
func (p ConnParams) String() string {
	return fmt.Sprintf("min=%d max=%d latency=%d timeout=%d", p.MinInterval, p.MaxInterval, p.Latency, p.Timeout)
}

// IntervalUnits converts d to connection interval units, rounding down.
func IntervalUnits(d time.Duration) uint16 {
	return uint16(d / (1250 * time.Microsecond))
}

// AdvertisingInterval is an advertising interval in units of 0.625 ms.
type AdvertisingInterval uint16

// NewAdvertisingInterval converts d to advertising interval units.
func NewAdvertisingInterval(d time.Duration) AdvertisingInterval {
	return AdvertisingInterval(d / (625 * time.Microsecond))
}

// Duration returns the interval as a time.Duration.
func (i AdvertisingInterval) Duration() time.Duration {
	return time.Duration(i) * 625 * time.Microsecond
}
