// Package link holds the state shared by the components that manage the
// single BLE connection: the lifecycle state, the connection identity and
// parameters, and the timer slots each component arms.
package link

import (
	"github.com/google/uuid"

	"github.com/htp-ble/htp-go/pkg/ble"
	"github.com/htp-ble/htp-go/pkg/timer"
)

// State is the application lifecycle state.
type State uint8

const (
	// StateInit is the boot state, left when the database is registered.
	StateInit State = iota

	// StateFastAdvertising advertises at the high-duty interval.
	StateFastAdvertising

	// StateSlowAdvertising advertises at the reduced-power interval.
	StateSlowAdvertising

	// StateConnected has an established link.
	StateConnected

	// StateDisconnecting waits for a requested disconnect to complete.
	StateDisconnecting

	// StateIdle is neither advertising nor connected.
	StateIdle
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateInit:
		return "INIT"
	case StateFastAdvertising:
		return "FAST_ADVERTISING"
	case StateSlowAdvertising:
		return "SLOW_ADVERTISING"
	case StateConnected:
		return "CONNECTED"
	case StateDisconnecting:
		return "DISCONNECTING"
	case StateIdle:
		return "IDLE"
	default:
		return "UNKNOWN"
	}
}

// Advertising reports whether s is one of the advertising states.
func (s State) Advertising() bool {
	return s == StateFastAdvertising || s == StateSlowAdvertising
}

// Linked reports whether s holds a connection.
func (s State) Linked() bool {
	return s == StateConnected || s == StateDisconnecting
}

// Stage is the active step of connection-parameter negotiation.
type Stage uint8

const (
	// StageNone means no negotiation timer is armed.
	StageNone Stage = iota

	// StagePeripheralPause is quiescence timer A, during which the
	// peripheral must not request an update.
	StagePeripheralPause

	// StageCentralPause is quiescence timer B, restarted by every
	// attribute access while the central is still discovering.
	StageCentralPause

	// StageRetry spaces a repeated update request.
	StageRetry
)

// String returns the stage name.
func (s Stage) String() string {
	switch s {
	case StageNone:
		return "NONE"
	case StagePeripheralPause:
		return "PERIPHERAL_PAUSE"
	case StageCentralPause:
		return "CENTRAL_PAUSE"
	case StageRetry:
		return "RETRY"
	default:
		return "UNKNOWN"
	}
}

// Context is the connection context. There is exactly one per device, and it
// is reinitialized rather than replaced between connections.
type Context struct {
	// State is the current lifecycle state.
	State State

	// Peer is the connected central. Valid only while a connection is held.
	Peer ble.Address

	// Params are the last reported link parameters; zero until a
	// connection completes.
	Params ble.LinkParams

	// Encrypted reports whether the link is currently encrypted.
	Encrypted bool

	// UpdateAttempts counts connection-parameter update requests issued
	// since the last reset.
	UpdateAttempts uint8

	// Stage is the negotiation step ConnParamTimer is armed for.
	Stage Stage

	// PairingRemovalPending is set when advertising is being cancelled so
	// the whitelist can be cleared. It survives Reset.
	PairingRemovalPending bool

	// SessionID tags protocol log events for the current connection.
	SessionID uuid.UUID

	ConnParamTimer     *timer.Slot
	AdvertisingTimer   *timer.Slot
	BondingChanceTimer *timer.Slot
	MeasurementTimer   *timer.Slot

	id        ble.ConnectionID
	connected bool
}

// NewContext creates a context in StateInit with its timer slots on svc.
func NewContext(svc timer.Service) *Context {
	return &Context{
		State:              StateInit,
		ConnParamTimer:     timer.NewSlot(svc, timer.PurposeConnParams),
		AdvertisingTimer:   timer.NewSlot(svc, timer.PurposeAdvertising),
		BondingChanceTimer: timer.NewSlot(svc, timer.PurposeBondingChance),
		MeasurementTimer:   timer.NewSlot(svc, timer.PurposeMeasurement),
	}
}

// Attach records an established connection and mints a new session ID.
func (c *Context) Attach(id ble.ConnectionID, peer ble.Address) {
	c.id = id
	c.connected = true
	c.Peer = peer
	c.SessionID = uuid.New()
}

// Detach forgets the connection identity.
func (c *Context) Detach() {
	c.id = 0
	c.connected = false
}

// Connection returns the connection ID and whether one is held.
func (c *Context) Connection() (ble.ConnectionID, bool) {
	return c.id, c.connected
}

// ResetParams clears the link parameters.
func (c *Context) ResetParams() {
	c.Params = ble.LinkParams{}
}

// Reset cancels every timer and clears the connection data. State and
// PairingRemovalPending are kept.
func (c *Context) Reset() {
	c.AdvertisingTimer.Cancel()
	c.MeasurementTimer.Cancel()
	c.ConnParamTimer.Cancel()
	c.Stage = StageNone
	c.BondingChanceTimer.Cancel()

	c.Detach()
	c.Encrypted = false
	c.ResetParams()
	c.UpdateAttempts = 0
}

// Slots returns every timer slot, for invariant checks.
func (c *Context) Slots() []*timer.Slot {
	return []*timer.Slot{c.ConnParamTimer, c.AdvertisingTimer, c.BondingChanceTimer, c.MeasurementTimer}
}
