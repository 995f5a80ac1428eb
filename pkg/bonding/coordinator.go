package bonding

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/htp-ble/htp-go/pkg/ble"
	"github.com/htp-ble/htp-go/pkg/link"
	"github.com/htp-ble/htp-go/pkg/timer"
)

// DefaultChanceTimeout is how long a bonded peer whose re-pairing failed may
// take to re-encrypt with its old keys.
const DefaultChanceTimeout = 30 * time.Second

// ErrWhitelist is returned when the bonded peer cannot be whitelisted.
var ErrWhitelist = errors.New("bonding: whitelist update")

// Notifier is told when a bond has been made so it can persist its
// configuration.
type Notifier interface {
	BondingNotify() error
}

// Config configures a Coordinator.
type Config struct {
	Engine ble.Engine
	Store  *RecordStore
	Link   *link.Context

	ChanceTimeout time.Duration

	// Disconnect moves the lifecycle to disconnecting. It is called when a
	// pairing is abusive or the bonding chance runs out.
	Disconnect func()

	// Changed reports bond changes for tracing.
	Changed func(bonded bool, reason string)

	Logger *slog.Logger
}

// Coordinator owns the bond record and the bonding chance timer.
type Coordinator struct {
	cfg       Config
	log       *slog.Logger
	rec       Record
	notifiers []Notifier
}

// NewCoordinator creates a coordinator with an empty record. Call Restore
// before use.
func NewCoordinator(cfg Config) *Coordinator {
	if cfg.ChanceTimeout == 0 {
		cfg.ChanceTimeout = DefaultChanceTimeout
	}
	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Coordinator{cfg: cfg, log: log.With("component", "bonding")}
}

// Subscribe adds notifiers told after every successful pairing.
func (c *Coordinator) Subscribe(n ...Notifier) {
	c.notifiers = append(c.notifiers, n...)
}

// Restore loads the record, initializing a blank store.
func (c *Coordinator) Restore() (fresh bool, err error) {
	rec, fresh, err := c.cfg.Store.Load()
	if err != nil {
		return false, err
	}
	c.rec = rec
	c.log.Info("bond record loaded",
		"fresh", fresh,
		"bonded", rec.Bonded,
		"peer", rec.Address,
		"diversifier", rec.Diversifier)
	return fresh, nil
}

// Bonded reports whether the device is bonded.
func (c *Coordinator) Bonded() bool {
	return c.rec.Bonded
}

// Record returns a copy of the bond record.
func (c *Coordinator) Record() Record {
	return c.rec
}

// FilterPolicy returns the advertising filter for the current bond.
func (c *Coordinator) FilterPolicy() ble.FilterPolicy {
	if c.rec.Whitelisted() {
		return ble.FilterWhitelist
	}
	return ble.FilterNone
}

// ConfigureWhitelist adds the bonded peer to the whitelist when its address
// is stable.
func (c *Coordinator) ConfigureWhitelist() error {
	if !c.rec.Whitelisted() {
		return nil
	}
	if err := c.cfg.Engine.AddWhitelist(c.rec.Address); err != nil {
		return fmt.Errorf("%w: %w", ErrWhitelist, err)
	}
	return nil
}

// PeerMismatch reports whether peer must be rejected: the bond is with a
// resolvable-address peer and the stored identity key does not resolve peer.
func (c *Coordinator) PeerMismatch(peer ble.Address) bool {
	return c.rec.ResolvablePeer() && !c.rec.IdentityKey.Resolves(peer)
}

// AuthorizePairing answers a pairing request: accept only while unbonded.
func (c *Coordinator) AuthorizePairing(id ble.ConnectionID) {
	accept := !c.rec.Bonded
	if err := c.cfg.Engine.RespondPairingAuth(id, accept); err != nil {
		c.log.Warn("pairing response failed", "accept", accept, "error", err)
	}
}

// PairingComplete applies the outcome of a pairing.
func (c *Coordinator) PairingComplete(ev ble.PairingComplete) error {
	if ev.Status == ble.PairingSuccess {
		return c.bond(ev.Peer)
	}

	switch {
	case ev.Status == ble.PairingRepeatedAttempts:
		c.log.Info("pairing abuse, disconnecting", "status", ev.Status)
		c.cfg.Disconnect()
	case c.rec.Bonded:
		c.cfg.Link.Encrypted = false
		c.cfg.Link.BondingChanceTimer.Arm(c.cfg.ChanceTimeout, c.chanceExpired)
		c.log.Info("re-pairing failed, waiting for re-encryption",
			"status", ev.Status,
			"timeout", c.cfg.ChanceTimeout)
	default:
		c.log.Info("pairing failed", "status", ev.Status)
	}
	return nil
}

func (c *Coordinator) bond(peer ble.Address) error {
	c.rec.Bonded = true
	c.rec.Address = peer
	c.changed("paired")

	if err := c.cfg.Store.SaveBonded(true); err != nil {
		return err
	}
	if err := c.cfg.Store.SaveAddress(peer); err != nil {
		return err
	}
	if err := c.ConfigureWhitelist(); err != nil {
		return err
	}
	for _, n := range c.notifiers {
		if err := n.BondingNotify(); err != nil {
			return fmt.Errorf("%w: %w", ErrPersist, err)
		}
	}
	return nil
}

func (c *Coordinator) chanceExpired(h timer.Handle) {
	if !c.cfg.Link.BondingChanceTimer.Claim(h) {
		c.log.Debug("stale bonding chance timer", "handle", h)
		return
	}
	c.log.Info("bonding chance expired, disconnecting")
	c.cfg.Disconnect()
}

// KeysDistributed persists the diversifier and, for a resolvable-address
// peer, the identity key.
func (c *Coordinator) KeysDistributed(ev ble.KeysDistributed) error {
	if ev.HasDiversifier {
		c.rec.Diversifier = ev.Diversifier
		if err := c.cfg.Store.SaveDiversifier(ev.Diversifier); err != nil {
			return err
		}
	}
	if ev.HasIdentityKey && c.cfg.Link.Peer.IsResolvablePrivate() {
		c.rec.IdentityKey = ev.IdentityKey
		if err := c.cfg.Store.SaveIdentityKey(ev.IdentityKey); err != nil {
			return err
		}
	}
	return nil
}

// ApproveDiversifier grants a diversifier only while bonded and only when it
// matches the persisted one.
func (c *Coordinator) ApproveDiversifier(ev ble.DiversifierRequest) {
	approve := c.rec.Bonded && c.rec.Diversifier == ev.Diversifier
	if err := c.cfg.Engine.RespondDiversifier(ev.ID, approve); err != nil {
		c.log.Warn("diversifier response failed", "approve", approve, "error", err)
	}
}

// EncryptionEnabled ends any bonding chance.
func (c *Coordinator) EncryptionEnabled() {
	c.cfg.Link.BondingChanceTimer.Cancel()
}

// RemoveBond clears and persists the bonded flag. The address and keys are
// left in place and ignored while unbonded.
func (c *Coordinator) RemoveBond() error {
	c.rec.Bonded = false
	c.changed("removed")
	return c.cfg.Store.SaveBonded(false)
}

func (c *Coordinator) changed(reason string) {
	if c.cfg.Changed != nil {
		c.cfg.Changed(c.rec.Bonded, reason)
	}
}
