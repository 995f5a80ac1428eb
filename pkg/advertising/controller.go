package advertising

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/htp-ble/htp-go/pkg/ble"
	"github.com/htp-ble/htp-go/pkg/timer"
)

// Default advertising timing.
const (
	DefaultFastInterval = 60 * time.Millisecond
	DefaultFastTimeout  = 30 * time.Second
	DefaultSlowInterval = 1280 * time.Millisecond
	DefaultSlowTimeout  = 1 * time.Minute
)

// Start errors. Build errors are returned unwrapped.
var (
	ErrTxPower  = errors.New("advertising: read transmit power")
	ErrRejected = errors.New("advertising: request rejected")
)

// Config configures a Controller.
type Config struct {
	Engine ble.Engine

	// Slot is the advertising timer slot.
	Slot *timer.Slot

	FastInterval time.Duration
	FastTimeout  time.Duration
	SlowInterval time.Duration
	SlowTimeout  time.Duration

	// Services is the 16-bit service UUID list to advertise.
	Services []ble.UUID16

	Appearance uint16

	// Active reports whether the device is still in an advertising state
	// when the timeout fires. Nil means always.
	Active func() bool

	Logger *slog.Logger
}

// Controller starts advertising and bounds each mode with a timeout.
type Controller struct {
	cfg  Config
	log  *slog.Logger
	fast bool

	last      Payload
	placement NamePlacement
}

// NewController creates a controller. Zero timings take the defaults.
func NewController(cfg Config) *Controller {
	if cfg.FastInterval == 0 {
		cfg.FastInterval = DefaultFastInterval
	}
	if cfg.FastTimeout == 0 {
		cfg.FastTimeout = DefaultFastTimeout
	}
	if cfg.SlowInterval == 0 {
		cfg.SlowInterval = DefaultSlowInterval
	}
	if cfg.SlowTimeout == 0 {
		cfg.SlowTimeout = DefaultSlowTimeout
	}
	if cfg.Services == nil {
		cfg.Services = []ble.UUID16{ble.ServiceHealthThermometer}
	}
	if cfg.Appearance == 0 {
		cfg.Appearance = ble.AppearanceThermometer
	}
	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Controller{cfg: cfg, log: log.With("component", "advertising")}
}

// Start builds the payload for name, requests connectable advertising and
// arms the mode timeout.
func (c *Controller) Start(fast bool, name []byte, filter ble.FilterPolicy) error {
	tx, err := c.cfg.Engine.TxPowerLevel()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrTxPower, err)
	}

	payload, placement, err := Build(PayloadSpec{
		Services:   c.cfg.Services,
		Appearance: c.cfg.Appearance,
		TxPower:    tx,
		Name:       name,
	})
	if err != nil {
		return err
	}

	interval, timeout := c.cfg.SlowInterval, c.cfg.SlowTimeout
	if fast {
		interval, timeout = c.cfg.FastInterval, c.cfg.FastTimeout
	}
	req := ble.AdvertisingRequest{
		Fast:         fast,
		Interval:     ble.NewAdvertisingInterval(interval),
		Filter:       filter,
		Data:         payload.Data,
		ScanResponse: payload.ScanResponse,
	}
	if err := c.cfg.Engine.StartAdvertising(req); err != nil {
		return fmt.Errorf("%w: %w", ErrRejected, err)
	}

	c.fast = fast
	c.last = payload
	c.placement = placement
	c.cfg.Slot.Arm(timeout, c.expired)

	c.log.Debug("advertising started",
		"fast", fast,
		"filter", filter,
		"interval", interval,
		"timeout", timeout,
		"name", placement)
	return nil
}

func (c *Controller) expired(h timer.Handle) {
	if !c.cfg.Slot.Claim(h) {
		c.log.Debug("stale advertising timeout", "handle", h)
		return
	}
	if c.cfg.Active != nil && !c.cfg.Active() {
		return
	}
	if err := c.Stop(); err != nil {
		c.log.Warn("cancel advertising failed", "error", err)
	}
}

// Stop asks the engine to cancel advertising.
func (c *Controller) Stop() error {
	return c.cfg.Engine.CancelAdvertising()
}

// Exit cancels the mode timeout.
func (c *Controller) Exit() {
	c.cfg.Slot.Cancel()
}

// Fast reports whether the last started mode was fast.
func (c *Controller) Fast() bool {
	return c.fast
}

// LastPayload returns the payload of the last successful Start and where the
// name was placed.
func (c *Controller) LastPayload() (Payload, NamePlacement) {
	return c.last, c.placement
}
