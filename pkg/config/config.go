// Package config loads the device configuration from YAML.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/htp-ble/htp-go/pkg/advertising"
	"github.com/htp-ble/htp-go/pkg/ble"
	"github.com/htp-ble/htp-go/pkg/bonding"
	"github.com/htp-ble/htp-go/pkg/connparams"
	"github.com/htp-ble/htp-go/pkg/peripheral"
	"github.com/htp-ble/htp-go/pkg/services"
)

// DefaultNVMWords is the size of a new NVM image.
const DefaultNVMWords = 128

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("config: invalid")

// Config is the device configuration file.
type Config struct {
	Device      Device      `yaml:"device"`
	Advertising Advertising `yaml:"advertising"`
	Connection  Connection  `yaml:"connection"`
	Bonding     Bonding     `yaml:"bonding"`
	Measurement Measurement `yaml:"measurement"`
	Battery     Battery     `yaml:"battery"`
	Storage     Storage     `yaml:"storage"`
	Logging     Logging     `yaml:"logging"`
}

// Device identifies the device.
type Device struct {
	Name    string `yaml:"name"`
	Address string `yaml:"address"`

	services.DeviceInfo `yaml:",inline"`
}

type Advertising struct {
	FastInterval time.Duration `yaml:"fast_interval"`
	FastTimeout  time.Duration `yaml:"fast_timeout"`
	SlowInterval time.Duration `yaml:"slow_interval"`
	SlowTimeout  time.Duration `yaml:"slow_timeout"`
}

// Connection configures parameter negotiation.
type Connection struct {
	Preferred         ble.ConnParams `yaml:"preferred"`
	Fallback          ble.ConnParams `yaml:"fallback"`
	MaxAttempts       uint8          `yaml:"max_attempts"`
	PreferredAttempts uint8          `yaml:"preferred_attempts"`

	// PeripheralPause is the quiet time before the device asks for new
	// parameters, CentralPause the quiet time after the central's own
	// configuration traffic.
	PeripheralPause time.Duration `yaml:"peripheral_pause"`
	CentralPause    time.Duration `yaml:"central_pause"`
	RetryInterval   time.Duration `yaml:"retry_interval"`
}

type Bonding struct {
	ChanceTimeout time.Duration `yaml:"chance_timeout"`
}

type Measurement struct {
	Interval time.Duration `yaml:"interval"`
}

// Battery configures the level computation and the simulated supply.
type Battery struct {
	FlatMillivolts uint32 `yaml:"flat_mv"`
	FullMillivolts uint32 `yaml:"full_mv"`
	Millivolts     uint32 `yaml:"supply_mv"`
}

type Storage struct {
	NVMPath  string `yaml:"nvm_path"`
	NVMWords uint16 `yaml:"nvm_words"`
}

type Logging struct {
	Level       string `yaml:"level"`
	ProtocolLog string `yaml:"protocol_log"`
	Monitor     string `yaml:"monitor"`
}

// Default returns the firmware defaults.
func Default() *Config {
	return &Config{
		Device: Device{
			Name:    services.DefaultDeviceName,
			Address: "00:02:5B:00:15:10",
			DeviceInfo: services.DeviceInfo{
				Manufacturer:     "Cambridge Silicon Radio",
				ModelNumber:      "HTP-1",
				SerialNumber:     "0001",
				HardwareRevision: "1.0",
				FirmwareRevision: "1.0",
				SoftwareRevision: "1.0",
			},
		},
		Advertising: Advertising{
			FastInterval: advertising.DefaultFastInterval,
			FastTimeout:  advertising.DefaultFastTimeout,
			SlowInterval: advertising.DefaultSlowInterval,
			SlowTimeout:  advertising.DefaultSlowTimeout,
		},
		Connection: Connection{
			Preferred:         connparams.DefaultPreferred,
			Fallback:          connparams.DefaultFallback,
			MaxAttempts:       connparams.DefaultMaxAttempts,
			PreferredAttempts: connparams.DefaultPreferredAttempts,
			PeripheralPause:   connparams.DefaultPeripheralPause,
			CentralPause:      connparams.DefaultCentralPause,
			RetryInterval:     connparams.DefaultRetryInterval,
		},
		Bonding:     Bonding{ChanceTimeout: bonding.DefaultChanceTimeout},
		Measurement: Measurement{Interval: peripheral.DefaultMeasurementInterval},
		Battery: Battery{
			FlatMillivolts: services.DefaultFlatMillivolts,
			FullMillivolts: services.DefaultFullMillivolts,
			Millivolts:     services.DefaultFullMillivolts,
		},
		Storage: Storage{NVMWords: DefaultNVMWords},
		Logging: Logging{Level: "info"},
	}
}

// Parse overlays YAML data onto the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load reads and parses the file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
		}
	}

	check(c.Device.Name != "", "device.name is empty")
	check(len(c.Device.Name) <= services.MaxDeviceNameLength,
		"device.name longer than %d octets", services.MaxDeviceNameLength)
	if _, err := ble.ParseMAC(c.Device.Address); err != nil {
		check(false, "device.address %q: %v", c.Device.Address, err)
	}

	check(c.Advertising.FastInterval > 0 && c.Advertising.SlowInterval > 0, "advertising intervals must be positive")
	check(c.Advertising.FastTimeout > 0 && c.Advertising.SlowTimeout > 0, "advertising timeouts must be positive")

	if err := c.Connection.Preferred.Validate(); err != nil {
		check(false, "connection.preferred: %v", err)
	}
	if err := c.Connection.Fallback.Validate(); err != nil {
		check(false, "connection.fallback: %v", err)
	}
	check(c.Connection.MaxAttempts > 0, "connection.max_attempts must be positive")
	check(c.Connection.PreferredAttempts <= c.Connection.MaxAttempts,
		"connection.preferred_attempts exceeds max_attempts")
	check(c.Connection.PeripheralPause > 0 && c.Connection.CentralPause > 0 && c.Connection.RetryInterval > 0,
		"connection pauses must be positive")

	check(c.Bonding.ChanceTimeout > 0, "bonding.chance_timeout must be positive")
	check(c.Measurement.Interval > 0, "measurement.interval must be positive")
	check(c.Battery.FullMillivolts > c.Battery.FlatMillivolts, "battery.full_mv must exceed battery.flat_mv")
	check(c.Storage.NVMWords > 0, "storage.nvm_words must be positive")
	if _, err := ParseLevel(c.Logging.Level); err != nil {
		check(false, "logging.level: %v", err)
	}

	return errors.Join(errs...)
}

// ParseLevel maps a level name to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("unknown level %q", s)
}

// Apply copies the configured timing, identity and profiles into pc. The
// engine, timers and store are left to the caller.
func (c *Config) Apply(pc *peripheral.Config) error {
	mac, err := ble.ParseMAC(c.Device.Address)
	if err != nil {
		return fmt.Errorf("device.address: %w", err)
	}
	pc.DeviceName = c.Device.Name
	pc.LocalAddress = mac
	pc.DeviceInfo = c.Device.DeviceInfo
	pc.Battery.FlatMillivolts = c.Battery.FlatMillivolts
	pc.Battery.FullMillivolts = c.Battery.FullMillivolts
	pc.Advertising = peripheral.AdvertisingTiming{
		FastInterval: c.Advertising.FastInterval,
		FastTimeout:  c.Advertising.FastTimeout,
		SlowInterval: c.Advertising.SlowInterval,
		SlowTimeout:  c.Advertising.SlowTimeout,
	}
	pc.ConnParams = peripheral.Negotiation{
		Preferred:         c.Connection.Preferred,
		Fallback:          c.Connection.Fallback,
		MaxAttempts:       c.Connection.MaxAttempts,
		PreferredAttempts: c.Connection.PreferredAttempts,
		PeripheralPause:   c.Connection.PeripheralPause,
		CentralPause:      c.Connection.CentralPause,
		RetryInterval:     c.Connection.RetryInterval,
	}
	pc.BondingChanceTimeout = c.Bonding.ChanceTimeout
	pc.MeasurementInterval = c.Measurement.Interval
	return nil
}
