package sim

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/htp-ble/htp-go/pkg/ble"
)

var (
	central = ble.Address{Type: ble.AddressPublic, MAC: ble.MAC{0x01, 0x02, 0x03, 0x04, 0x05, 0x06}}
	other   = ble.Address{Type: ble.AddressPublic, MAC: ble.MAC{0x0A, 0x0B, 0x0C, 0x0D, 0x0E, 0x0F}}
)

func newEngine() (*Engine, *Queue) {
	q := &Queue{}
	return New(Config{Deliver: q.Push}), q
}

func drain(q *Queue) []ble.Event {
	var out []ble.Event
	_ = q.Drain(func(ev ble.Event) error {
		out = append(out, ev)
		return nil
	})
	return out
}

func advertise(t *testing.T, e *Engine, filter ble.FilterPolicy) {
	t.Helper()
	require.NoError(t, e.StartAdvertising(ble.AdvertisingRequest{Fast: true, Filter: filter}))
}

func TestRegisterDatabaseConfirmsLater(t *testing.T) {
	e, q := newEngine()

	require.NoError(t, e.RegisterDatabase())
	assert.Equal(t, []ble.Event{ble.DatabaseRegistered{Success: true}}, drain(q))

	e.RefuseDatabase()
	require.NoError(t, e.RegisterDatabase())
	assert.Equal(t, []ble.Event{ble.DatabaseRegistered{Success: false}}, drain(q))
}

func TestConnectRequiresAdvertising(t *testing.T) {
	e, q := newEngine()

	_, err := e.Connect(central, DefaultLinkParams)
	assert.ErrorIs(t, err, ErrNotAdvertising)

	advertise(t, e, ble.FilterNone)
	conn, err := e.Connect(central, DefaultLinkParams)
	require.NoError(t, err)
	assert.Equal(t, ble.ConnectionID(1), conn.ID)

	assert.Equal(t, []ble.Event{
		ble.ConnectionComplete{Params: DefaultLinkParams},
		ble.Connected{Success: true, ID: 1, Peer: central},
	}, drain(q))

	_, advertising := e.Advertising()
	assert.False(t, advertising)
}

func TestWhitelistFilter(t *testing.T) {
	e, _ := newEngine()
	require.NoError(t, e.AddWhitelist(central))
	require.NoError(t, e.AddWhitelist(central))
	assert.Len(t, e.Whitelist(), 1)

	advertise(t, e, ble.FilterWhitelist)
	_, err := e.Connect(other, DefaultLinkParams)
	assert.ErrorIs(t, err, ErrFiltered)

	_, err = e.Connect(central, DefaultLinkParams)
	assert.NoError(t, err)

	require.NoError(t, e.ResetWhitelist())
	assert.Empty(t, e.Whitelist())
}

func TestPairingAccepted(t *testing.T) {
	e, q := newEngine()
	advertise(t, e, ble.FilterNone)
	conn, err := e.Connect(central, DefaultLinkParams)
	require.NoError(t, err)
	drain(q)

	require.NoError(t, e.Pair())
	assert.Equal(t, []ble.Event{ble.PairingAuthRequest{ID: conn.ID}}, drain(q))

	require.NoError(t, e.RespondPairingAuth(conn.ID, true))
	assert.Equal(t, []ble.Event{
		ble.KeysDistributed{HasDiversifier: true, Diversifier: 0x1234},
		ble.PairingComplete{Status: ble.PairingSuccess, Peer: central},
		ble.EncryptionChanged{Success: true, Enabled: true},
	}, drain(q))
}

func TestPairingRejected(t *testing.T) {
	e, q := newEngine()
	advertise(t, e, ble.FilterNone)
	conn, err := e.Connect(central, DefaultLinkParams)
	require.NoError(t, err)
	require.NoError(t, e.Pair())
	drain(q)

	require.NoError(t, e.RespondPairingAuth(conn.ID, false))
	assert.Equal(t, []ble.Event{
		ble.PairingComplete{Status: ble.PairingNotSupported, Peer: central},
	}, drain(q))
}

func TestParamUpdate(t *testing.T) {
	e, q := newEngine()
	advertise(t, e, ble.FilterNone)
	_, err := e.Connect(central, DefaultLinkParams)
	require.NoError(t, err)
	drain(q)

	p := ble.ConnParams{MinInterval: 27, MaxInterval: 27, Latency: 4, Timeout: 1000}
	require.NoError(t, e.RequestConnParamUpdate(central, p))
	applied := ble.LinkParams{Interval: 27, Latency: 4, Timeout: 1000}
	assert.Equal(t, []ble.Event{
		ble.ParamUpdateConfirmed{Success: true},
		ble.LinkParamsUpdated{Params: applied},
		ble.ParamUpdateCompleted{},
	}, drain(q))

	e.RejectUpdates(true)
	require.NoError(t, e.RequestConnParamUpdate(central, p))
	assert.Equal(t, []ble.Event{ble.ParamUpdateConfirmed{Success: false}}, drain(q))
	assert.Len(t, e.Updates(), 2)
}

func TestDisconnectReasons(t *testing.T) {
	e, q := newEngine()
	advertise(t, e, ble.FilterNone)
	conn, err := e.Connect(central, DefaultLinkParams)
	require.NoError(t, err)
	drain(q)

	assert.ErrorIs(t, e.Disconnect(conn.ID+1), ErrNoConnection)
	require.NoError(t, e.Disconnect(conn.ID))
	assert.Equal(t, []ble.Event{ble.Disconnected{Reason: ble.ReasonLocalHost}}, drain(q))
	assert.ErrorIs(t, e.LinkLoss(), ErrNoConnection)

	advertise(t, e, ble.FilterNone)
	_, err = e.Connect(central, DefaultLinkParams)
	require.NoError(t, err)
	drain(q)
	require.NoError(t, e.LinkLoss())
	assert.Equal(t, []ble.Event{ble.Disconnected{Reason: ble.ReasonConnTimeout}}, drain(q))
}

func TestFailInjection(t *testing.T) {
	e, _ := newEngine()
	boom := errors.New("boom")

	e.Fail(OpTxPowerLevel, boom)
	_, err := e.TxPowerLevel()
	assert.ErrorIs(t, err, boom)

	e.Fail(OpTxPowerLevel, nil)
	tx, err := e.TxPowerLevel()
	require.NoError(t, err)
	assert.Equal(t, DefaultTxPower, tx)

	assert.Equal(t, 2, e.Count(OpTxPowerLevel))
	assert.Equal(t, []string{OpTxPowerLevel, OpTxPowerLevel}, e.Ops())
}

func TestAccessRecordsResponses(t *testing.T) {
	e, q := newEngine()
	advertise(t, e, ble.FilterNone)
	conn, err := e.Connect(central, DefaultLinkParams)
	require.NoError(t, err)
	drain(q)

	require.NoError(t, e.Write(0x0B, []byte{0x01, 0x00}))
	assert.Equal(t, []ble.Event{ble.AttributeAccess{
		ID: conn.ID, Handle: 0x0B, Op: ble.AccessWrite, Value: []byte{0x01, 0x00},
	}}, drain(q))

	require.NoError(t, e.RespondAccess(conn.ID, 0x0B, ble.StatusSuccess, nil))
	r, ok := e.LastResponse()
	require.True(t, ok)
	assert.Equal(t, ble.StatusSuccess, r.Status)
	assert.Equal(t, uint16(0x0B), r.Handle)
}
