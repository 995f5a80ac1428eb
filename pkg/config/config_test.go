package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/htp-ble/htp-go/pkg/ble"
	"github.com/htp-ble/htp-go/pkg/peripheral"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "CSR Thermometer", cfg.Device.Name)
	assert.Equal(t, 30*time.Second, cfg.Advertising.FastTimeout)
	assert.Equal(t, time.Minute, cfg.Advertising.SlowTimeout)
	assert.Equal(t, uint8(4), cfg.Connection.MaxAttempts)
	assert.Equal(t, 40*time.Second, cfg.Measurement.Interval)
}

func TestParseOverlaysDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
device:
  name: Kitchen
  manufacturer: Acme
advertising:
  fast_timeout: 10s
connection:
  preferred:
    min_interval: 40
    max_interval: 40
    latency: 2
    timeout: 800
  central_pause: 2s
logging:
  level: debug
`))
	require.NoError(t, err)

	assert.Equal(t, "Kitchen", cfg.Device.Name)
	assert.Equal(t, "Acme", cfg.Device.Manufacturer)
	assert.Equal(t, "HTP-1", cfg.Device.ModelNumber, "unset fields keep defaults")
	assert.Equal(t, 10*time.Second, cfg.Advertising.FastTimeout)
	assert.Equal(t, time.Minute, cfg.Advertising.SlowTimeout)
	assert.Equal(t, ble.ConnParams{MinInterval: 40, MaxInterval: 40, Latency: 2, Timeout: 800}, cfg.Connection.Preferred)
	assert.Equal(t, 2*time.Second, cfg.Connection.CentralPause)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty name", func(c *Config) { c.Device.Name = "" }},
		{"long name", func(c *Config) { c.Device.Name = "a thermometer name that is too long" }},
		{"bad address", func(c *Config) { c.Device.Address = "00:11" }},
		{"zero fast timeout", func(c *Config) { c.Advertising.FastTimeout = 0 }},
		{"bad preferred profile", func(c *Config) { c.Connection.Preferred.MinInterval = 1 }},
		{"fallback timeout too short", func(c *Config) { c.Connection.Fallback.Timeout = 10 }},
		{"no attempts", func(c *Config) { c.Connection.MaxAttempts = 0 }},
		{"preferred attempts exceed max", func(c *Config) { c.Connection.PreferredAttempts = 5 }},
		{"battery window", func(c *Config) { c.Battery.FullMillivolts = c.Battery.FlatMillivolts }},
		{"no storage", func(c *Config) { c.Storage.NVMWords = 0 }},
		{"log level", func(c *Config) { c.Logging.Level = "loud" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalid)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "device.yaml")
	require.NoError(t, os.WriteFile(path, []byte("measurement:\n  interval: 5s\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, cfg.Measurement.Interval)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	require.NoError(t, os.WriteFile(path, []byte("device: [1, 2"), 0o600))
	_, err = Load(path)
	assert.Error(t, err)
}

func TestApply(t *testing.T) {
	cfg := Default()
	cfg.Device.Name = "Nursery"
	cfg.Bonding.ChanceTimeout = 12 * time.Second

	var pc peripheral.Config
	require.NoError(t, cfg.Apply(&pc))

	assert.Equal(t, "Nursery", pc.DeviceName)
	assert.Equal(t, ble.MAC{0x10, 0x15, 0x00, 0x5B, 0x02, 0x00}, pc.LocalAddress)
	assert.Equal(t, "Cambridge Silicon Radio", pc.DeviceInfo.Manufacturer)
	assert.Equal(t, 12*time.Second, pc.BondingChanceTimeout)
	assert.Equal(t, cfg.Connection.Preferred, pc.ConnParams.Preferred)
	assert.Equal(t, uint32(1800), pc.Battery.FlatMillivolts)
	assert.Equal(t, 60*time.Millisecond, pc.Advertising.FastInterval)
}

func TestParseLevel(t *testing.T) {
	for _, s := range []string{"debug", "INFO", "warn", "error", ""} {
		_, err := ParseLevel(s)
		assert.NoError(t, err, s)
	}
	_, err := ParseLevel("trace")
	assert.Error(t, err)
}
