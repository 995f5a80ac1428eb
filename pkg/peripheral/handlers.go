package peripheral

import (
	"errors"
	"fmt"

	"github.com/htp-ble/htp-go/pkg/ble"
	"github.com/htp-ble/htp-go/pkg/gatt"
	"github.com/htp-ble/htp-go/pkg/link"
	"github.com/htp-ble/htp-go/pkg/services"
	"github.com/htp-ble/htp-go/pkg/timer"
)

// Handle applies one engine or system event. It returns the *FatalError if
// the event halted the machine, and ErrHalted for every later call.
func (m *Machine) Handle(ev ble.Event) error {
	if m.halted != nil {
		return ErrHalted
	}
	m.trace.inbound(ev)
	m.event = ev.Name()
	defer func() { m.event = "" }()

	switch e := ev.(type) {
	case ble.DatabaseRegistered:
		m.onDatabaseRegistered(e)
	case ble.AdvertisingCancelled:
		m.onAdvertisingCancelled()
	case ble.ConnectionComplete:
		m.link.Params = e.Params
	case ble.Connected:
		m.onConnected(e)
	case ble.LinkParamsUpdated:
		if m.expect(link.StateConnected, link.StateDisconnecting) {
			m.link.Params = e.Params
		}
	case ble.PairingAuthRequest:
		if m.expect(link.StateConnected) {
			m.bond.AuthorizePairing(e.ID)
		}
	case ble.PairingComplete:
		m.onPairingComplete(e)
	case ble.KeysDistributed:
		if m.expect(link.StateConnected) {
			if err := m.bond.KeysDistributed(e); err != nil {
				m.fatal(FatalNVMWrite, err)
			}
		}
	case ble.EncryptionChanged:
		m.onEncryptionChanged(e)
	case ble.DiversifierRequest:
		if m.expect(link.StateConnected) {
			m.bond.ApproveDiversifier(e)
		}
	case ble.ParamUpdateConfirmed:
		if m.expect(link.StateConnected) {
			m.neg.Confirmed(e.Success)
		}
	case ble.ParamUpdateCompleted:
		if m.expect(link.StateConnected) {
			m.neg.Completed()
		}
	case ble.AttributeAccess:
		m.onAccess(e)
	case ble.Disconnected:
		m.onDisconnected(e)
	case ble.BondRemovalRequested:
		m.onBondRemoval()
	case ble.MeasurementTaken:
		m.onMeasurement(services.Reading(e.Reading))
	case ble.BatteryLow:
		if m.link.State == link.StateConnected {
			m.notifyBattery()
		}
	default:
		m.fatal(FatalInvalidState, fmt.Errorf("unhandled event %T", ev))
	}
	return m.Err()
}

func (m *Machine) onDatabaseRegistered(e ble.DatabaseRegistered) {
	if !m.expect(link.StateInit) {
		return
	}
	if !e.Success {
		m.fatal(FatalDatabaseRegistration, errors.New("registration refused"))
		return
	}
	m.setState(link.StateFastAdvertising, "database registered")
}

func (m *Machine) onAdvertisingCancelled() {
	if !m.expect(link.StateFastAdvertising, link.StateSlowAdvertising) {
		return
	}

	if m.link.PairingRemovalPending {
		m.link.PairingRemovalPending = false
		m.resetWhitelist()
		if m.link.State == link.StateFastAdvertising {
			m.startAdvertising(true)
			return
		}
		m.setState(link.StateFastAdvertising, "pairing removed")
		return
	}

	if m.link.State == link.StateFastAdvertising {
		m.setState(link.StateSlowAdvertising, "fast advertising timed out")
		return
	}
	m.setState(link.StateIdle, "slow advertising timed out")
}

func (m *Machine) onConnected(e ble.Connected) {
	if !m.expect(link.StateFastAdvertising, link.StateSlowAdvertising) {
		return
	}

	if !e.Success {
		if m.link.State == link.StateSlowAdvertising {
			m.setState(link.StateFastAdvertising, "connection failed")
			return
		}
		m.startAdvertising(true)
		return
	}

	m.link.Attach(e.ID, e.Peer)
	if m.bond.Bonded() && m.bond.PeerMismatch(e.Peer) {
		m.log.Info("peer does not resolve to bonded identity", "peer", e.Peer)
		m.setState(link.StateDisconnecting, "unknown resolvable peer")
		return
	}
	m.setState(link.StateConnected, "connected")
	m.neg.Begin()
}

func (m *Machine) onPairingComplete(e ble.PairingComplete) {
	if m.link.State != link.StateConnected {
		m.log.Info("pairing completion ignored", "state", m.link.State, "status", e.Status)
		return
	}
	if err := m.bond.PairingComplete(e); err != nil {
		m.fatal(storageCode(err), err)
	}
}

func (m *Machine) onEncryptionChanged(e ble.EncryptionChanged) {
	if !m.expect(link.StateConnected) || !e.Success {
		return
	}
	m.link.Encrypted = e.Enabled
	if !e.Enabled {
		return
	}
	m.bond.EncryptionEnabled()
	m.notifyBattery()
	m.startMeasurement()
}

func (m *Machine) onAccess(e ble.AttributeAccess) {
	if !m.expect(link.StateConnected) {
		return
	}
	m.neg.Access()

	req := gatt.Request{Conn: e.ID, Handle: e.Handle, Offset: e.Offset, Value: e.Value}
	switch e.Op {
	case ble.AccessWrite:
		resp := m.db.Write(req)
		m.respond(e, resp)
		if resp.Err != nil {
			m.fatal(FatalNVMWrite, resp.Err)
			return
		}
		if m.link.Encrypted {
			m.startMeasurement()
		}
	case ble.AccessRead:
		m.respond(e, m.db.Read(req))
	default:
		m.respond(e, gatt.Reply(ble.StatusRequestNotSupported, nil))
	}
}

// respond answers an access, then sends any notifications it produced.
func (m *Machine) respond(e ble.AttributeAccess, resp gatt.Response) {
	if err := m.engine.RespondAccess(e.ID, e.Handle, resp.Status, resp.Value); err != nil {
		m.log.Warn("access response failed", "handle", e.Handle, "status", resp.Status, "error", err)
	}
	for _, n := range resp.Notify {
		m.notify(n)
	}
}

func (m *Machine) onDisconnected(e ble.Disconnected) {
	if !m.expect(link.StateConnected, link.StateDisconnecting) {
		return
	}
	prev := m.link.State
	next := m.nextAfterDisconnect(prev, e.Reason)

	m.link.BondingChanceTimer.Cancel()
	m.link.ResetParams()
	if prev == link.StateConnected {
		m.dataInit()
	}
	m.setState(next, "disconnected: "+e.Reason.String())
}

// nextAfterDisconnect resolves the state entered when the link drops.
func (m *Machine) nextAfterDisconnect(prev link.State, reason ble.DisconnectReason) link.State {
	bonded := m.bond.Bonded()
	switch {
	case reason == ble.ReasonConnTimeout:
		return link.StateFastAdvertising
	case reason == ble.ReasonLocalHost && prev == link.StateConnected:
		return link.StateFastAdvertising
	case reason == ble.ReasonLocalHost:
		// A bonded resolvable peer that no longer resolves is another host.
		if bonded && !m.bond.PeerMismatch(m.link.Peer) {
			return link.StateIdle
		}
		return link.StateFastAdvertising
	case bonded:
		return link.StateIdle
	default:
		return link.StateFastAdvertising
	}
}

func (m *Machine) onBondRemoval() {
	m.cue(CueBeepThrice)
	if m.halted != nil {
		return
	}
	if err := m.bond.RemoveBond(); err != nil {
		m.fatal(FatalNVMWrite, err)
		return
	}

	switch m.link.State {
	case link.StateConnected:
		m.link.MeasurementTimer.Cancel()
		m.setState(link.StateDisconnecting, "pairing removed")
		m.resetWhitelist()
	case link.StateFastAdvertising, link.StateSlowAdvertising:
		m.dataInit()
		m.link.PairingRemovalPending = true
		if err := m.adv.Stop(); err != nil {
			m.log.Warn("cancel advertising failed", "error", err)
		}
	case link.StateDisconnecting:
		m.resetWhitelist()
	case link.StateIdle:
		m.dataInit()
		m.resetWhitelist()
		m.setState(link.StateFastAdvertising, "pairing removed")
	case link.StateInit:
		m.resetWhitelist()
	}
}

func (m *Machine) onMeasurement(r services.Reading) {
	if n, ok := m.thermo.Send(r, m.link.State == link.StateConnected); ok {
		m.notify(n)
	}
}

func (m *Machine) notifyBattery() {
	if n, ok := m.battery.Update(m.link.State == link.StateConnected); ok {
		m.notify(n)
	}
}

// startMeasurement sends the current snapshot and restarts the periodic
// measurement timer.
func (m *Machine) startMeasurement() {
	if n, ok := m.thermo.Notification(true); ok {
		m.notify(n)
	}
	m.link.MeasurementTimer.Arm(m.cfg.MeasurementInterval, m.measurementExpired)
}

func (m *Machine) measurementExpired(h timer.Handle) {
	if !m.link.MeasurementTimer.Claim(h) {
		return
	}
	if m.link.State != link.StateConnected {
		return
	}
	if m.link.Encrypted {
		if n, ok := m.thermo.Notification(true); ok {
			m.notify(n)
		}
	}
	m.link.MeasurementTimer.Arm(m.cfg.MeasurementInterval, m.measurementExpired)
}

func (m *Machine) notify(n gatt.Notification) {
	id, ok := m.link.Connection()
	if !ok {
		return
	}
	if err := m.engine.Notify(id, n.Handle, n.Value); err != nil {
		m.log.Warn("notification failed", "handle", n.Handle, "error", err)
	}
}

// startAdvertising requests advertising in the given mode. It reports
// false after a fatal rejection.
func (m *Machine) startAdvertising(fast bool) bool {
	m.link.Detach()
	if err := m.adv.Start(fast, m.gap.DeviceName(), m.bond.FilterPolicy()); err != nil {
		m.fatal(advertisingCode(err), err)
		return false
	}
	return true
}

func (m *Machine) resetWhitelist() {
	if err := m.engine.ResetWhitelist(); err != nil {
		m.log.Warn("whitelist reset failed", "error", err)
	}
}

func (m *Machine) cue(c Cue) {
	err := m.indicator.Play(c)
	switch {
	case errors.Is(err, ErrUnknownCue):
		m.fatal(FatalUnexpectedBeepType, fmt.Errorf("%s: %w", c, err))
	case err != nil:
		m.log.Warn("cue failed", "cue", c, "error", err)
	}
}

// dataInit reinitializes the connection context and every service's
// volatile state.
func (m *Machine) dataInit() {
	m.link.Reset()
	for _, svc := range m.services {
		svc.DataInit()
	}
}
