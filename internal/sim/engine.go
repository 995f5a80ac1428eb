// Package sim provides a simulated protocol engine and the central on the
// other end of its link.
//
// Requests return immediately. Confirmations are handed to the deliver
// function as separate events, which must queue them rather than feed them
// back into the caller synchronously.
package sim

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/htp-ble/htp-go/pkg/ble"
)

// Request operation names.
const (
	OpRegisterDatabase   = "RegisterDatabase"
	OpInitSecurity       = "InitSecurity"
	OpTxPowerLevel       = "TxPowerLevel"
	OpStartAdvertising   = "StartAdvertising"
	OpCancelAdvertising  = "CancelAdvertising"
	OpRequestSecurity    = "RequestSecurity"
	OpRespondAccess      = "RespondAccess"
	OpNotify             = "Notify"
	OpConnParamUpdate    = "RequestConnParamUpdate"
	OpDisconnect         = "Disconnect"
	OpAddWhitelist       = "AddWhitelist"
	OpResetWhitelist     = "ResetWhitelist"
	OpRespondPairingAuth = "RespondPairingAuth"
	OpRespondDiversifier = "RespondDiversifier"
)

// Engine and central errors.
var (
	ErrNotAdvertising = errors.New("sim: not advertising")
	ErrNoConnection   = errors.New("sim: no connection")
	ErrFiltered       = errors.New("sim: central not on whitelist")
	ErrConnected      = errors.New("sim: already connected")
)

// DefaultTxPower is the transmit power reported when none is configured.
const DefaultTxPower int8 = -4

// Config configures an Engine.
type Config struct {
	// Deliver receives every event the engine or central produces.
	Deliver func(ble.Event)

	TxPower int8

	Logger *slog.Logger
}

// Request is one recorded engine request.
type Request struct {
	Op     string
	Detail string
}

// Connection is the simulated link.
type Connection struct {
	ID      ble.ConnectionID
	Peer    ble.Address
	Params  ble.LinkParams
	Session uuid.UUID
}

// Response is a recorded access response.
type Response struct {
	Handle uint16
	Status ble.Status
	Value  []byte
}

// Notification is a recorded characteristic notification.
type Notification struct {
	Handle uint16
	Value  []byte
}

// Keys is the key material the central distributes when it pairs.
type Keys struct {
	Diversifier uint16
	IdentityKey ble.IdentityKey
}

// Engine implements ble.Engine and drives the central side of the link.
// It is safe for concurrent use.
type Engine struct {
	mu      sync.Mutex
	deliver func(ble.Event)
	log     *slog.Logger
	txPower int8

	failures      map[string]error
	rejectUpdates bool
	refuseDB      bool

	requests      []Request
	advertising   *ble.AdvertisingRequest
	whitelist     []ble.Address
	conn          *Connection
	nextID        ble.ConnectionID
	pairing       bool
	keys          Keys
	responses     []Response
	notifications []Notification
	updates       []ble.ConnParams
}

// New creates an engine.
func New(cfg Config) *Engine {
	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	tx := cfg.TxPower
	if tx == 0 {
		tx = DefaultTxPower
	}
	deliver := cfg.Deliver
	if deliver == nil {
		deliver = func(ble.Event) {}
	}
	return &Engine{
		deliver:  deliver,
		log:      log.With("component", "sim"),
		txPower:  tx,
		failures: make(map[string]error),
		keys:     Keys{Diversifier: 0x1234},
	}
}

// Fail makes every later request op return err. A nil err clears it.
func (e *Engine) Fail(op string, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err == nil {
		delete(e.failures, op)
		return
	}
	e.failures[op] = err
}

// RejectUpdates makes the central refuse connection-parameter requests.
func (e *Engine) RejectUpdates(reject bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rejectUpdates = reject
}

// RefuseDatabase makes the next registration confirm with failure.
func (e *Engine) RefuseDatabase() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.refuseDB = true
}

// SetKeys sets the keys the central distributes on its next pairing.
func (e *Engine) SetKeys(k Keys) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.keys = k
}

// request records op and returns any injected failure. e.mu must be held.
func (e *Engine) request(op, detail string) error {
	e.requests = append(e.requests, Request{Op: op, Detail: detail})
	e.log.Debug("request", "op", op, "detail", detail)
	if err, ok := e.failures[op]; ok {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// emit hands events to deliver after e.mu has been released.
func (e *Engine) emit(events ...ble.Event) {
	for _, ev := range events {
		e.deliver(ev)
	}
}

func (e *Engine) connection(id ble.ConnectionID) error {
	if e.conn == nil || e.conn.ID != id {
		return ErrNoConnection
	}
	return nil
}

func (e *Engine) RegisterDatabase() error {
	e.mu.Lock()
	if err := e.request(OpRegisterDatabase, ""); err != nil {
		e.mu.Unlock()
		return err
	}
	success := !e.refuseDB
	e.refuseDB = false
	e.mu.Unlock()

	e.emit(ble.DatabaseRegistered{Success: success})
	return nil
}

func (e *Engine) InitSecurity(diversifier uint16) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.request(OpInitSecurity, fmt.Sprintf("0x%04X", diversifier))
}

func (e *Engine) TxPowerLevel() (int8, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.request(OpTxPowerLevel, ""); err != nil {
		return 0, err
	}
	return e.txPower, nil
}

func (e *Engine) StartAdvertising(req ble.AdvertisingRequest) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.request(OpStartAdvertising, fmt.Sprintf("fast=%t filter=%s", req.Fast, req.Filter)); err != nil {
		return err
	}
	if e.conn != nil {
		return ErrConnected
	}
	req.Data = append([]byte(nil), req.Data...)
	req.ScanResponse = append([]byte(nil), req.ScanResponse...)
	e.advertising = &req
	return nil
}

func (e *Engine) CancelAdvertising() error {
	e.mu.Lock()
	if err := e.request(OpCancelAdvertising, ""); err != nil {
		e.mu.Unlock()
		return err
	}
	if e.advertising == nil {
		e.mu.Unlock()
		return ErrNotAdvertising
	}
	e.advertising = nil
	e.mu.Unlock()

	e.emit(ble.AdvertisingCancelled{})
	return nil
}

func (e *Engine) RequestSecurity(peer ble.Address) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.request(OpRequestSecurity, peer.String())
}

func (e *Engine) RespondAccess(id ble.ConnectionID, handle uint16, status ble.Status, value []byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.request(OpRespondAccess, fmt.Sprintf("handle=0x%04X status=%s", handle, status)); err != nil {
		return err
	}
	if err := e.connection(id); err != nil {
		return err
	}
	e.responses = append(e.responses, Response{Handle: handle, Status: status, Value: append([]byte(nil), value...)})
	return nil
}

func (e *Engine) Notify(id ble.ConnectionID, handle uint16, value []byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.request(OpNotify, fmt.Sprintf("handle=0x%04X", handle)); err != nil {
		return err
	}
	if err := e.connection(id); err != nil {
		return err
	}
	e.notifications = append(e.notifications, Notification{Handle: handle, Value: append([]byte(nil), value...)})
	return nil
}

func (e *Engine) RequestConnParamUpdate(peer ble.Address, params ble.ConnParams) error {
	e.mu.Lock()
	if err := e.request(OpConnParamUpdate, params.String()); err != nil {
		e.mu.Unlock()
		return err
	}
	if e.conn == nil {
		e.mu.Unlock()
		return ErrNoConnection
	}
	e.updates = append(e.updates, params)
	if e.rejectUpdates {
		e.mu.Unlock()
		e.emit(ble.ParamUpdateConfirmed{Success: false})
		return nil
	}
	e.conn.Params = ble.LinkParams{
		Interval: params.MaxInterval,
		Latency:  params.Latency,
		Timeout:  params.Timeout,
	}
	applied := e.conn.Params
	e.mu.Unlock()

	e.emit(
		ble.ParamUpdateConfirmed{Success: true},
		ble.LinkParamsUpdated{Params: applied},
		ble.ParamUpdateCompleted{},
	)
	return nil
}

func (e *Engine) Disconnect(id ble.ConnectionID) error {
	e.mu.Lock()
	if err := e.request(OpDisconnect, fmt.Sprintf("id=%d", id)); err != nil {
		e.mu.Unlock()
		return err
	}
	if err := e.connection(id); err != nil {
		e.mu.Unlock()
		return err
	}
	e.conn = nil
	e.pairing = false
	e.mu.Unlock()

	e.emit(ble.Disconnected{Reason: ble.ReasonLocalHost})
	return nil
}

func (e *Engine) AddWhitelist(addr ble.Address) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.request(OpAddWhitelist, addr.String()); err != nil {
		return err
	}
	if !e.whitelisted(addr) {
		e.whitelist = append(e.whitelist, addr)
	}
	return nil
}

func (e *Engine) ResetWhitelist() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.request(OpResetWhitelist, ""); err != nil {
		return err
	}
	e.whitelist = nil
	return nil
}

func (e *Engine) whitelisted(addr ble.Address) bool {
	for _, a := range e.whitelist {
		if a == addr {
			return true
		}
	}
	return false
}

func (e *Engine) RespondPairingAuth(id ble.ConnectionID, accept bool) error {
	e.mu.Lock()
	if err := e.request(OpRespondPairingAuth, fmt.Sprintf("accept=%t", accept)); err != nil {
		e.mu.Unlock()
		return err
	}
	if err := e.connection(id); err != nil {
		e.mu.Unlock()
		return err
	}
	if !e.pairing {
		e.mu.Unlock()
		return nil
	}
	e.pairing = false
	peer := e.conn.Peer
	keys := e.keys
	e.mu.Unlock()

	if !accept {
		e.emit(ble.PairingComplete{Status: ble.PairingNotSupported, Peer: peer})
		return nil
	}
	e.emit(
		ble.KeysDistributed{
			HasDiversifier: true,
			Diversifier:    keys.Diversifier,
			HasIdentityKey: peer.IsResolvablePrivate(),
			IdentityKey:    keys.IdentityKey,
		},
		ble.PairingComplete{Status: ble.PairingSuccess, Peer: peer},
		ble.EncryptionChanged{Success: true, Enabled: true},
	)
	return nil
}

func (e *Engine) RespondDiversifier(id ble.ConnectionID, approve bool) error {
	e.mu.Lock()
	if err := e.request(OpRespondDiversifier, fmt.Sprintf("approve=%t", approve)); err != nil {
		e.mu.Unlock()
		return err
	}
	if err := e.connection(id); err != nil {
		e.mu.Unlock()
		return err
	}
	e.mu.Unlock()

	e.emit(ble.EncryptionChanged{Success: approve, Enabled: approve})
	return nil
}

// Compile-time interface satisfaction check.
var _ ble.Engine = (*Engine)(nil)
