package connparams

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/htp-ble/htp-go/pkg/ble"
	"github.com/htp-ble/htp-go/pkg/link"
	"github.com/htp-ble/htp-go/pkg/timer"
)

// Default negotiation settings.
const (
	DefaultMaxAttempts       = 4
	DefaultPreferredAttempts = 2
	DefaultPeripheralPause   = 5 * time.Second
	DefaultCentralPause      = 1 * time.Second
	DefaultRetryInterval     = 30 * time.Second
)

// Default profiles, in 1.25 ms interval and 10 ms timeout units.
var (
	DefaultPreferred = ble.ConnParams{MinInterval: 27, MaxInterval: 27, Latency: 4, Timeout: 1000}
	DefaultFallback  = ble.ConnParams{MinInterval: 6, MaxInterval: 27, Latency: 4, Timeout: 600}
)

// ErrRejected is reported when the engine refuses an update request.
var ErrRejected = errors.New("connparams: update request rejected")

// Config configures a Negotiator.
type Config struct {
	Engine ble.Engine
	Link   *link.Context

	// Preferred also defines the envelope: an interval within
	// [MinInterval, MaxInterval] and a latency of at least Latency.
	Preferred ble.ConnParams
	Fallback  ble.ConnParams

	MaxAttempts       uint8
	PreferredAttempts uint8

	PeripheralPause time.Duration
	CentralPause    time.Duration
	RetryInterval   time.Duration

	// Fatal receives request rejections.
	Fatal func(err error)

	// Changed reports stage changes for tracing.
	Changed func(old, new link.Stage, reason string)

	Logger *slog.Logger
}

// Negotiator runs connection-parameter negotiation on the link context.
type Negotiator struct {
	cfg  Config
	link *link.Context
	slot *timer.Slot
	log  *slog.Logger
}

// NewNegotiator creates a negotiator. Zero settings take the defaults.
func NewNegotiator(cfg Config) *Negotiator {
	if cfg.Preferred == (ble.ConnParams{}) {
		cfg.Preferred = DefaultPreferred
	}
	if cfg.Fallback == (ble.ConnParams{}) {
		cfg.Fallback = DefaultFallback
	}
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	if cfg.PreferredAttempts == 0 {
		cfg.PreferredAttempts = DefaultPreferredAttempts
	}
	if cfg.PeripheralPause == 0 {
		cfg.PeripheralPause = DefaultPeripheralPause
	}
	if cfg.CentralPause == 0 {
		cfg.CentralPause = DefaultCentralPause
	}
	if cfg.RetryInterval == 0 {
		cfg.RetryInterval = DefaultRetryInterval
	}
	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Negotiator{
		cfg:  cfg,
		link: cfg.Link,
		slot: cfg.Link.ConnParamTimer,
		log:  log.With("component", "connparams"),
	}
}

// OutOfEnvelope reports whether p should be renegotiated.
func (n *Negotiator) OutOfEnvelope(p ble.LinkParams) bool {
	env := n.cfg.Preferred
	return p.Interval < env.MinInterval || p.Interval > env.MaxInterval || p.Latency < env.Latency
}

// Profile returns the parameters requested on attempt, counted from 1.
func (n *Negotiator) Profile(attempt uint8) ble.ConnParams {
	if attempt <= n.cfg.PreferredAttempts {
		return n.cfg.Preferred
	}
	return n.cfg.Fallback
}

// Begin starts negotiation for a new link when no negotiation timer is
// outstanding and the link parameters are out of the envelope.
func (n *Negotiator) Begin() {
	if n.slot.Active() || !n.OutOfEnvelope(n.link.Params) {
		return
	}
	n.restart("link out of envelope")
}

func (n *Negotiator) restart(reason string) {
	n.link.UpdateAttempts = 0
	n.setStage(link.StagePeripheralPause, reason)
	n.slot.Arm(n.cfg.PeripheralPause, n.peripheralPauseExpired)
}

// Access restarts the central pause while it is outstanding.
func (n *Negotiator) Access() {
	if n.link.Stage != link.StageCentralPause || !n.slot.Active() {
		return
	}
	n.slot.Arm(n.cfg.CentralPause, n.requestExpired)
}

// Confirmed handles the engine's answer to an update request. A failure is
// retried after RetryInterval while attempts remain.
func (n *Negotiator) Confirmed(success bool) {
	if success {
		return
	}
	if n.link.UpdateAttempts >= n.cfg.MaxAttempts {
		n.log.Info("update attempts exhausted, keeping central parameters",
			"attempts", n.link.UpdateAttempts,
			"params", n.link.Params)
		return
	}
	n.setStage(link.StageRetry, "update failed")
	n.slot.Arm(n.cfg.RetryInterval, n.requestExpired)
}

// Completed handles an update completion, whoever initiated it. The link
// parameters must already hold the new values.
func (n *Negotiator) Completed() {
	n.slot.Cancel()
	n.setStage(link.StageNone, "update completed")
	if n.OutOfEnvelope(n.link.Params) {
		n.restart("update still out of envelope")
	}
}

func (n *Negotiator) peripheralPauseExpired(h timer.Handle) {
	if !n.slot.Claim(h) {
		n.log.Debug("stale peripheral pause", "handle", h)
		return
	}
	n.setStage(link.StageCentralPause, "peripheral pause elapsed")
	n.slot.Arm(n.cfg.CentralPause, n.requestExpired)
}

func (n *Negotiator) requestExpired(h timer.Handle) {
	if !n.slot.Claim(h) {
		n.log.Debug("stale update timer", "handle", h)
		return
	}
	n.setStage(link.StageNone, "requesting update")
	if n.link.State != link.StateConnected {
		return
	}

	n.link.UpdateAttempts++
	params := n.Profile(n.link.UpdateAttempts)
	n.log.Info("requesting parameter update",
		"attempt", n.link.UpdateAttempts,
		"params", params,
		"current", n.link.Params)
	if err := n.cfg.Engine.RequestConnParamUpdate(n.link.Peer, params); err != nil {
		n.fatal(fmt.Errorf("%w: %w", ErrRejected, err))
	}
}

func (n *Negotiator) fatal(err error) {
	if n.cfg.Fatal != nil {
		n.cfg.Fatal(err)
		return
	}
	n.log.Error("negotiation failed", "error", err)
}

func (n *Negotiator) setStage(s link.Stage, reason string) {
	old := n.link.Stage
	n.link.Stage = s
	if old != s && n.cfg.Changed != nil {
		n.cfg.Changed(old, s, reason)
	}
}
