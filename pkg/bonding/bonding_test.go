package bonding

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/htp-ble/htp-go/pkg/ble"
	"github.com/htp-ble/htp-go/pkg/ble/mocks"
	"github.com/htp-ble/htp-go/pkg/link"
	"github.com/htp-ble/htp-go/pkg/nvm"
	"github.com/htp-ble/htp-go/pkg/timer"
)

var (
	publicPeer = ble.Address{Type: ble.AddressPublic, MAC: ble.MAC{1, 2, 3, 4, 5, 6}}
	rpaPeer    = ble.Address{Type: ble.AddressRandom, MAC: ble.MAC{0xaa, 0xfb, 0x0d, 0x94, 0x81, 0x70}}
)

func sampleKey(t *testing.T) ble.IdentityKey {
	t.Helper()
	k, err := ble.ParseIdentityKey("ec0234a357c8ad05341010a60a397d9b")
	require.NoError(t, err)
	return k
}

func TestRecordStoreFreshAndReload(t *testing.T) {
	mem := nvm.NewMemory(64)
	s, err := NewRecordStore(mem)
	require.NoError(t, err)
	assert.Equal(t, uint16(15), s.End())

	rec, fresh, err := s.Load()
	require.NoError(t, err)
	assert.True(t, fresh)
	assert.False(t, rec.Bonded)

	words := mem.Words()
	assert.Equal(t, SanityWord, words[0])
	assert.Equal(t, uint16(0), words[1])
	assert.Equal(t, uint16(0), words[6], "diversifier")

	require.NoError(t, s.SaveBonded(true))
	require.NoError(t, s.SaveAddress(rpaPeer))
	require.NoError(t, s.SaveDiversifier(0x1234))
	require.NoError(t, s.SaveIdentityKey(sampleKey(t)))

	rec, fresh, err = s.Load()
	require.NoError(t, err)
	assert.False(t, fresh)
	assert.Equal(t, Record{Bonded: true, Address: rpaPeer, Diversifier: 0x1234, IdentityKey: sampleKey(t)}, rec)
	assert.True(t, rec.ResolvablePeer())
	assert.False(t, rec.Whitelisted())
}

func TestRecordStoreSkipsKeyForStablePeer(t *testing.T) {
	mem := nvm.NewMemory(64)
	s, err := NewRecordStore(mem)
	require.NoError(t, err)
	_, _, err = s.Load()
	require.NoError(t, err)

	require.NoError(t, s.SaveBonded(true))
	require.NoError(t, s.SaveAddress(publicPeer))
	require.NoError(t, s.SaveIdentityKey(sampleKey(t)))

	rec, _, err := s.Load()
	require.NoError(t, err)
	assert.True(t, rec.IdentityKey.IsZero())
	assert.True(t, rec.Whitelisted())
}

func TestNewRecordStoreTooSmall(t *testing.T) {
	_, err := NewRecordStore(nvm.NewMemory(10))
	assert.ErrorIs(t, err, nvm.ErrLayoutOverflow)
}

type harness struct {
	eng         *mocks.MockEngine
	clock       *timer.Manual
	link        *link.Context
	store       *RecordStore
	mem         *nvm.Memory
	c           *Coordinator
	disconnects int
}

type notifier struct {
	calls int
	err   error
}

func (n *notifier) BondingNotify() error {
	n.calls++
	return n.err
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		eng:   mocks.NewMockEngine(t),
		clock: timer.NewManual(),
		mem:   nvm.NewMemory(64),
	}
	h.link = link.NewContext(h.clock)
	h.link.State = link.StateConnected
	h.link.Attach(7, publicPeer)

	var err error
	h.store, err = NewRecordStore(h.mem)
	require.NoError(t, err)
	h.c = NewCoordinator(Config{
		Engine:     h.eng,
		Store:      h.store,
		Link:       h.link,
		Disconnect: func() { h.disconnects++ },
	})
	fresh, err := h.c.Restore()
	require.NoError(t, err)
	require.True(t, fresh)
	return h
}

func TestPairingAuthorization(t *testing.T) {
	h := newHarness(t)

	h.eng.EXPECT().RespondPairingAuth(ble.ConnectionID(7), true).Return(nil).Once()
	h.c.AuthorizePairing(7)

	h.eng.EXPECT().AddWhitelist(publicPeer).Return(nil).Once()
	require.NoError(t, h.c.PairingComplete(ble.PairingComplete{Status: ble.PairingSuccess, Peer: publicPeer}))

	h.eng.EXPECT().RespondPairingAuth(ble.ConnectionID(7), false).Return(errors.New("gone")).Once()
	h.c.AuthorizePairing(7)
}

func TestPairingSuccessPersistsAndNotifies(t *testing.T) {
	h := newHarness(t)
	n := &notifier{}
	h.c.Subscribe(n)

	var changes []bool
	h.c.cfg.Changed = func(bonded bool, _ string) { changes = append(changes, bonded) }

	h.eng.EXPECT().AddWhitelist(publicPeer).Return(nil).Once()
	require.NoError(t, h.c.PairingComplete(ble.PairingComplete{Status: ble.PairingSuccess, Peer: publicPeer}))

	assert.True(t, h.c.Bonded())
	assert.Equal(t, 1, n.calls)
	assert.Equal(t, ble.FilterWhitelist, h.c.FilterPolicy())
	assert.Equal(t, []bool{true}, changes)

	rec, _, err := h.store.Load()
	require.NoError(t, err)
	assert.True(t, rec.Bonded)
	assert.Equal(t, publicPeer, rec.Address)
}

func TestPairingSuccessResolvablePeerSkipsWhitelist(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.c.PairingComplete(ble.PairingComplete{Status: ble.PairingSuccess, Peer: rpaPeer}))
	h.eng.AssertNotCalled(t, "AddWhitelist")
	assert.Equal(t, ble.FilterNone, h.c.FilterPolicy())
}

func TestPairingSuccessErrors(t *testing.T) {
	t.Run("whitelist", func(t *testing.T) {
		h := newHarness(t)
		h.eng.EXPECT().AddWhitelist(publicPeer).Return(errors.New("full"))
		err := h.c.PairingComplete(ble.PairingComplete{Status: ble.PairingSuccess, Peer: publicPeer})
		assert.ErrorIs(t, err, ErrWhitelist)
	})

	t.Run("service persist", func(t *testing.T) {
		h := newHarness(t)
		h.c.Subscribe(&notifier{err: nvm.ErrOutOfRange})
		err := h.c.PairingComplete(ble.PairingComplete{Status: ble.PairingSuccess, Peer: rpaPeer})
		assert.ErrorIs(t, err, ErrPersist)
		assert.ErrorIs(t, err, nvm.ErrOutOfRange)
	})
}

func TestPairingRepeatedAttemptsDisconnects(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.c.PairingComplete(ble.PairingComplete{Status: ble.PairingRepeatedAttempts}))
	assert.Equal(t, 1, h.disconnects)
	assert.False(t, h.link.BondingChanceTimer.Active())
}

func TestPairingFailureUnbondedIsIgnored(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.c.PairingComplete(ble.PairingComplete{Status: ble.PairingConfirmValueFailed}))
	assert.Equal(t, 0, h.disconnects)
	assert.False(t, h.link.BondingChanceTimer.Active())
}

func bonded(t *testing.T) *harness {
	t.Helper()
	h := newHarness(t)
	h.eng.EXPECT().AddWhitelist(publicPeer).Return(nil).Once()
	require.NoError(t, h.c.PairingComplete(ble.PairingComplete{Status: ble.PairingSuccess, Peer: publicPeer}))
	h.link.Encrypted = true
	return h
}

func TestBondingChanceReEncrypted(t *testing.T) {
	h := bonded(t)
	require.NoError(t, h.c.PairingComplete(ble.PairingComplete{Status: ble.PairingTimeout}))
	assert.False(t, h.link.Encrypted)
	require.True(t, h.link.BondingChanceTimer.Active())

	h.clock.Advance(20 * time.Second)
	h.c.EncryptionEnabled()
	h.clock.Advance(20 * time.Second)
	assert.Equal(t, 0, h.disconnects)
}

func TestBondingChanceExpires(t *testing.T) {
	h := bonded(t)
	require.NoError(t, h.c.PairingComplete(ble.PairingComplete{Status: ble.PairingUnspecifiedReason}))

	h.clock.Advance(29 * time.Second)
	assert.Equal(t, 0, h.disconnects)
	h.clock.Advance(time.Second)
	assert.Equal(t, 1, h.disconnects)
	assert.False(t, h.link.BondingChanceTimer.Active())
}

func TestBondingChanceStaleCallback(t *testing.T) {
	h := bonded(t)
	require.NoError(t, h.c.PairingComplete(ble.PairingComplete{Status: ble.PairingUnspecifiedReason}))
	stale := h.link.BondingChanceTimer.Current()
	h.c.EncryptionEnabled()

	require.True(t, h.clock.Deliver(stale))
	assert.Equal(t, 0, h.disconnects)
}

func TestKeysDistributed(t *testing.T) {
	h := newHarness(t)
	k := sampleKey(t)

	// Stable peer: the key is not kept.
	require.NoError(t, h.c.KeysDistributed(ble.KeysDistributed{
		HasDiversifier: true, Diversifier: 0x55AA,
		HasIdentityKey: true, IdentityKey: k,
	}))
	assert.Equal(t, uint16(0x55AA), h.c.Record().Diversifier)
	assert.True(t, h.c.Record().IdentityKey.IsZero())

	h.link.Attach(7, rpaPeer)
	require.NoError(t, h.c.KeysDistributed(ble.KeysDistributed{HasIdentityKey: true, IdentityKey: k}))
	assert.Equal(t, k, h.c.Record().IdentityKey)
	assert.Equal(t, uint16(0x55AA), h.c.Record().Diversifier)

	require.NoError(t, h.c.PairingComplete(ble.PairingComplete{Status: ble.PairingSuccess, Peer: rpaPeer}))
	rec, _, err := h.store.Load()
	require.NoError(t, err)
	assert.Equal(t, k, rec.IdentityKey)
	assert.Equal(t, uint16(0x55AA), rec.Diversifier)
}

func TestPeerMismatch(t *testing.T) {
	h := newHarness(t)
	assert.False(t, h.c.PeerMismatch(rpaPeer), "unbonded")

	h.link.Attach(7, rpaPeer)
	require.NoError(t, h.c.KeysDistributed(ble.KeysDistributed{HasIdentityKey: true, IdentityKey: sampleKey(t)}))
	require.NoError(t, h.c.PairingComplete(ble.PairingComplete{Status: ble.PairingSuccess, Peer: rpaPeer}))

	assert.False(t, h.c.PeerMismatch(rpaPeer))
	other := rpaPeer
	other.MAC[0] ^= 0x01
	assert.True(t, h.c.PeerMismatch(other))
}

func TestApproveDiversifier(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.c.KeysDistributed(ble.KeysDistributed{HasDiversifier: true, Diversifier: 42}))

	h.eng.EXPECT().RespondDiversifier(ble.ConnectionID(7), false).Return(nil).Once()
	h.c.ApproveDiversifier(ble.DiversifierRequest{ID: 7, Diversifier: 42})

	h.eng.EXPECT().AddWhitelist(publicPeer).Return(nil).Once()
	require.NoError(t, h.c.PairingComplete(ble.PairingComplete{Status: ble.PairingSuccess, Peer: publicPeer}))

	h.eng.EXPECT().RespondDiversifier(ble.ConnectionID(7), true).Return(nil).Once()
	h.c.ApproveDiversifier(ble.DiversifierRequest{ID: 7, Diversifier: 42})

	h.eng.EXPECT().RespondDiversifier(ble.ConnectionID(7), false).Return(nil).Once()
	h.c.ApproveDiversifier(ble.DiversifierRequest{ID: 7, Diversifier: 43})
}

func TestRemoveBond(t *testing.T) {
	h := bonded(t)
	require.NoError(t, h.c.RemoveBond())
	assert.False(t, h.c.Bonded())
	assert.Equal(t, ble.FilterNone, h.c.FilterPolicy())
	require.NoError(t, h.c.ConfigureWhitelist())

	rec, _, err := h.store.Load()
	require.NoError(t, err)
	assert.False(t, rec.Bonded)
}

func TestRestoreKeepsInitializedStore(t *testing.T) {
	mem := nvm.NewMemory(64)
	s, err := NewRecordStore(mem)
	require.NoError(t, err)
	_, _, err = s.Load()
	require.NoError(t, err)
	assert.Equal(t, SanityWord, mem.Words()[0])

	c := NewCoordinator(Config{Store: s, Link: link.NewContext(timer.NewManual())})
	fresh, err := c.Restore()
	require.NoError(t, err)
	assert.False(t, fresh)
}
