package peripheral

import (
	"fmt"
	"time"

	"github.com/htp-ble/htp-go/pkg/ble"
	"github.com/htp-ble/htp-go/pkg/link"
	"github.com/htp-ble/htp-go/pkg/log"
	"github.com/htp-ble/htp-go/pkg/timer"
)

// tracer writes protocol log events tagged with the current connection.
type tracer struct {
	logger log.Logger
	link   *link.Context
}

func (t *tracer) emit(ev log.Event) {
	if t.logger == nil {
		return
	}
	ev.Timestamp = time.Now()
	if _, ok := t.link.Connection(); ok {
		ev.ConnectionID = t.link.SessionID.String()
		ev.PeerAddr = t.link.Peer.String()
	}
	t.logger.Log(ev)
}

func (t *tracer) message(dir log.Direction, msg *log.MessageEvent) {
	t.emit(log.Event{
		Direction: dir,
		Layer:     log.LayerEngine,
		Category:  log.CategoryMessage,
		Message:   msg,
	})
}

func (t *tracer) state(entity log.StateEntity, old, next, reason string) {
	t.emit(log.Event{
		Direction: log.DirectionInternal,
		Layer:     log.LayerApp,
		Category:  log.CategoryState,
		StateChange: &log.StateChangeEvent{
			Entity:   entity,
			OldState: old,
			NewState: next,
			Reason:   reason,
		},
	})
}

var timerActions = map[timer.Action]log.TimerAction{
	timer.ActionArmed:     log.TimerArmed,
	timer.ActionCancelled: log.TimerCancelled,
	timer.ActionFired:     log.TimerFired,
	timer.ActionStale:     log.TimerStale,
}

func (t *tracer) timer(p timer.Purpose, a timer.Action, h timer.Handle, d time.Duration) {
	te := &log.TimerEvent{
		Purpose: p.String(),
		Action:  timerActions[a],
		Handle:  h.String(),
	}
	if a == timer.ActionArmed {
		te.Duration = &d
	}
	t.emit(log.Event{
		Direction: log.DirectionInternal,
		Layer:     log.LayerTimer,
		Category:  log.CategoryTimer,
		Timer:     te,
	})
}

func (t *tracer) fatal(fe *FatalError) {
	code := int(fe.Code)
	t.emit(log.Event{
		Direction: log.DirectionInternal,
		Layer:     log.LayerApp,
		Category:  log.CategoryError,
		Error: &log.ErrorEventData{
			Layer:   log.LayerApp,
			Message: fe.Error(),
			Code:    &code,
			Context: fe.Code.String(),
		},
	})
}

// inbound logs an engine notification before it is handled.
func (t *tracer) inbound(ev ble.Event) {
	msg := &log.MessageEvent{Name: ev.Name()}
	switch e := ev.(type) {
	case ble.DatabaseRegistered:
		msg.Detail = fmt.Sprintf("success=%t", e.Success)
	case ble.ConnectionComplete:
		msg.Detail = e.Params.String()
	case ble.Connected:
		msg.Detail = fmt.Sprintf("success=%t id=%d peer=%s", e.Success, e.ID, e.Peer)
	case ble.LinkParamsUpdated:
		msg.Detail = e.Params.String()
	case ble.PairingComplete:
		msg.Status = e.Status.String()
		msg.Detail = "peer=" + e.Peer.String()
	case ble.KeysDistributed:
		msg.Detail = fmt.Sprintf("diversifier=%t irk=%t", e.HasDiversifier, e.HasIdentityKey)
	case ble.EncryptionChanged:
		msg.Detail = fmt.Sprintf("success=%t enabled=%t", e.Success, e.Enabled)
	case ble.DiversifierRequest:
		msg.Detail = fmt.Sprintf("diversifier=0x%04X", e.Diversifier)
	case ble.ParamUpdateConfirmed:
		msg.Detail = fmt.Sprintf("success=%t", e.Success)
	case ble.AttributeAccess:
		handle := e.Handle
		msg.Handle = &handle
		msg.Payload = e.Value
		msg.Detail = fmt.Sprintf("op=%s offset=%d", e.Op, e.Offset)
	case ble.Disconnected:
		msg.Status = e.Reason.String()
	case ble.MeasurementTaken:
		msg.Payload = e.Reading[:]
	}
	t.message(log.DirectionIn, msg)
}

// tracedEngine logs every request to the wrapped engine as an outbound
// protocol message.
type tracedEngine struct {
	engine ble.Engine
	t      *tracer
}

func (e *tracedEngine) out(name, detail string, err error) {
	msg := &log.MessageEvent{Name: name, Detail: detail}
	if err != nil {
		msg.Err = err.Error()
	}
	e.t.message(log.DirectionOut, msg)
}

func (e *tracedEngine) RegisterDatabase() error {
	err := e.engine.RegisterDatabase()
	e.out("REGISTER_DATABASE", "", err)
	return err
}

func (e *tracedEngine) InitSecurity(diversifier uint16) error {
	err := e.engine.InitSecurity(diversifier)
	e.out("INIT_SECURITY", fmt.Sprintf("diversifier=0x%04X", diversifier), err)
	return err
}

func (e *tracedEngine) TxPowerLevel() (int8, error) {
	tx, err := e.engine.TxPowerLevel()
	e.out("READ_TX_POWER", fmt.Sprintf("dbm=%d", tx), err)
	return tx, err
}

func (e *tracedEngine) StartAdvertising(req ble.AdvertisingRequest) error {
	err := e.engine.StartAdvertising(req)
	msg := &log.MessageEvent{
		Name:    "START_ADVERTISING",
		Payload: append(append([]byte(nil), req.Data...), req.ScanResponse...),
		Detail: fmt.Sprintf("fast=%t interval=%s filter=%s data=%d scan_rsp=%d",
			req.Fast, req.Interval.Duration(), req.Filter, len(req.Data), len(req.ScanResponse)),
	}
	if err != nil {
		msg.Err = err.Error()
	}
	e.t.message(log.DirectionOut, msg)
	return err
}

func (e *tracedEngine) CancelAdvertising() error {
	err := e.engine.CancelAdvertising()
	e.out("CANCEL_ADVERTISING", "", err)
	return err
}

func (e *tracedEngine) RequestSecurity(peer ble.Address) error {
	err := e.engine.RequestSecurity(peer)
	e.out("REQUEST_SECURITY", "peer="+peer.String(), err)
	return err
}

func (e *tracedEngine) RespondAccess(id ble.ConnectionID, handle uint16, status ble.Status, value []byte) error {
	err := e.engine.RespondAccess(id, handle, status, value)
	msg := &log.MessageEvent{
		Name:    "ACCESS_RESPONSE",
		Handle:  &handle,
		Status:  status.String(),
		Payload: value,
	}
	if err != nil {
		msg.Err = err.Error()
	}
	e.t.message(log.DirectionOut, msg)
	return err
}

func (e *tracedEngine) Notify(id ble.ConnectionID, handle uint16, value []byte) error {
	err := e.engine.Notify(id, handle, value)
	msg := &log.MessageEvent{Name: "NOTIFY", Handle: &handle, Payload: value}
	if err != nil {
		msg.Err = err.Error()
	}
	e.t.message(log.DirectionOut, msg)
	return err
}

func (e *tracedEngine) RequestConnParamUpdate(peer ble.Address, params ble.ConnParams) error {
	err := e.engine.RequestConnParamUpdate(peer, params)
	e.out("CONN_PARAM_UPDATE", params.String(), err)
	return err
}

func (e *tracedEngine) Disconnect(id ble.ConnectionID) error {
	err := e.engine.Disconnect(id)
	e.out("DISCONNECT", fmt.Sprintf("id=%d", id), err)
	return err
}

func (e *tracedEngine) AddWhitelist(addr ble.Address) error {
	err := e.engine.AddWhitelist(addr)
	e.out("ADD_WHITELIST", addr.String(), err)
	return err
}

func (e *tracedEngine) ResetWhitelist() error {
	err := e.engine.ResetWhitelist()
	e.out("RESET_WHITELIST", "", err)
	return err
}

func (e *tracedEngine) RespondPairingAuth(id ble.ConnectionID, accept bool) error {
	err := e.engine.RespondPairingAuth(id, accept)
	e.out("PAIRING_AUTH_RESPONSE", fmt.Sprintf("accept=%t", accept), err)
	return err
}

func (e *tracedEngine) RespondDiversifier(id ble.ConnectionID, approve bool) error {
	err := e.engine.RespondDiversifier(id, approve)
	e.out("DIVERSIFIER_RESPONSE", fmt.Sprintf("approve=%t", approve), err)
	return err
}

// Compile-time interface satisfaction check.
var _ ble.Engine = (*tracedEngine)(nil)
