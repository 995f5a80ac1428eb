package sim

import (
	"slices"

	"github.com/google/uuid"

	"github.com/htp-ble/htp-go/pkg/ble"
)

// DefaultLinkParams are the parameters a central picks when it connects:
// 25 ms interval, no latency, 2 s supervision timeout.
var DefaultLinkParams = ble.LinkParams{Interval: 20, Latency: 0, Timeout: 200}

// Connect accepts the current advertisement from peer.
func (e *Engine) Connect(peer ble.Address, params ble.LinkParams) (Connection, error) {
	e.mu.Lock()
	if e.conn != nil {
		e.mu.Unlock()
		return Connection{}, ErrConnected
	}
	if e.advertising == nil {
		e.mu.Unlock()
		return Connection{}, ErrNotAdvertising
	}
	if e.advertising.Filter == ble.FilterWhitelist && !e.whitelisted(peer) {
		e.mu.Unlock()
		return Connection{}, ErrFiltered
	}
	e.advertising = nil
	e.nextID++
	e.conn = &Connection{
		ID:      e.nextID,
		Peer:    peer,
		Params:  params,
		Session: uuid.New(),
	}
	conn := *e.conn
	e.mu.Unlock()

	e.log.Info("central connected", "peer", peer, "id", conn.ID, "params", params)
	e.emit(
		ble.ConnectionComplete{Params: params},
		ble.Connected{Success: true, ID: conn.ID, Peer: peer},
	)
	return conn, nil
}

// FailConnect reports a connection attempt that did not complete. The
// advertisement it interrupted is stopped.
func (e *Engine) FailConnect() error {
	e.mu.Lock()
	if e.advertising == nil {
		e.mu.Unlock()
		return ErrNotAdvertising
	}
	e.advertising = nil
	e.mu.Unlock()

	e.emit(ble.Connected{Success: false})
	return nil
}

// Pair starts pairing from the central.
func (e *Engine) Pair() error {
	e.mu.Lock()
	if e.conn == nil {
		e.mu.Unlock()
		return ErrNoConnection
	}
	e.pairing = true
	id := e.conn.ID
	e.mu.Unlock()

	e.emit(ble.PairingAuthRequest{ID: id})
	return nil
}

// FailPairing reports a pairing that ended with status.
func (e *Engine) FailPairing(status ble.PairingStatus) error {
	e.mu.Lock()
	if e.conn == nil {
		e.mu.Unlock()
		return ErrNoConnection
	}
	e.pairing = false
	peer := e.conn.Peer
	e.mu.Unlock()

	e.emit(ble.PairingComplete{Status: status, Peer: peer})
	return nil
}

// Encrypt asks to encrypt the link with the central's stored diversifier.
func (e *Engine) Encrypt() error {
	e.mu.Lock()
	if e.conn == nil {
		e.mu.Unlock()
		return ErrNoConnection
	}
	ev := ble.DiversifierRequest{ID: e.conn.ID, Diversifier: e.keys.Diversifier}
	e.mu.Unlock()

	e.emit(ev)
	return nil
}

// Read reads handle at offset.
func (e *Engine) Read(handle, offset uint16) error {
	return e.access(ble.AccessRead, handle, offset, nil)
}

// Write writes value to handle.
func (e *Engine) Write(handle uint16, value []byte) error {
	return e.access(ble.AccessWrite, handle, 0, value)
}

// Access delivers an access of any kind.
func (e *Engine) Access(op ble.AccessOp, handle, offset uint16, value []byte) error {
	return e.access(op, handle, offset, value)
}

func (e *Engine) access(op ble.AccessOp, handle, offset uint16, value []byte) error {
	e.mu.Lock()
	if e.conn == nil {
		e.mu.Unlock()
		return ErrNoConnection
	}
	id := e.conn.ID
	e.mu.Unlock()

	e.emit(ble.AttributeAccess{
		ID:     id,
		Handle: handle,
		Op:     op,
		Offset: offset,
		Value:  append([]byte(nil), value...),
	})
	return nil
}

// UpdateParams applies a central-initiated connection update.
func (e *Engine) UpdateParams(params ble.LinkParams) error {
	e.mu.Lock()
	if e.conn == nil {
		e.mu.Unlock()
		return ErrNoConnection
	}
	e.conn.Params = params
	e.mu.Unlock()

	e.emit(ble.LinkParamsUpdated{Params: params}, ble.ParamUpdateCompleted{})
	return nil
}

// RemoteDisconnect terminates the link from the central.
func (e *Engine) RemoteDisconnect() error {
	return e.drop(ble.ReasonRemoteUser)
}

// LinkLoss drops the link with a supervision timeout.
func (e *Engine) LinkLoss() error {
	return e.drop(ble.ReasonConnTimeout)
}

func (e *Engine) drop(reason ble.DisconnectReason) error {
	e.mu.Lock()
	if e.conn == nil {
		e.mu.Unlock()
		return ErrNoConnection
	}
	e.conn = nil
	e.pairing = false
	e.mu.Unlock()

	e.log.Info("link dropped", "reason", reason)
	e.emit(ble.Disconnected{Reason: reason})
	return nil
}

// Requests returns the recorded requests.
func (e *Engine) Requests() []Request {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.requests)
}

// Ops returns the operation name of each recorded request.
func (e *Engine) Ops() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	ops := make([]string, len(e.requests))
	for i, r := range e.requests {
		ops[i] = r.Op
	}
	return ops
}

// Count returns how many times op was requested.
func (e *Engine) Count(op string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	n := 0
	for _, r := range e.requests {
		if r.Op == op {
			n++
		}
	}
	return n
}

// ClearRequests forgets the recorded requests.
func (e *Engine) ClearRequests() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.requests = nil
}

// Advertising returns the active advertising request.
func (e *Engine) Advertising() (ble.AdvertisingRequest, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.advertising == nil {
		return ble.AdvertisingRequest{}, false
	}
	return *e.advertising, true
}

// Connection returns the current link.
func (e *Engine) Connection() (Connection, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.conn == nil {
		return Connection{}, false
	}
	return *e.conn, true
}

// Whitelist returns the whitelisted addresses.
func (e *Engine) Whitelist() []ble.Address {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.whitelist)
}

// Responses returns the recorded access responses.
func (e *Engine) Responses() []Response {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.responses)
}

// LastResponse returns the most recent access response.
func (e *Engine) LastResponse() (Response, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.responses) == 0 {
		return Response{}, false
	}
	return e.responses[len(e.responses)-1], true
}

// Notifications returns the recorded notifications.
func (e *Engine) Notifications() []Notification {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.notifications)
}

// Updates returns the connection-parameter profiles requested so far.
func (e *Engine) Updates() []ble.ConnParams {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.updates)
}
