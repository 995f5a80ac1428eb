package peripheral

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/htp-ble/htp-go/pkg/advertising"
	"github.com/htp-ble/htp-go/pkg/ble"
	"github.com/htp-ble/htp-go/pkg/bonding"
	"github.com/htp-ble/htp-go/pkg/connparams"
	"github.com/htp-ble/htp-go/pkg/gatt"
	"github.com/htp-ble/htp-go/pkg/link"
	"github.com/htp-ble/htp-go/pkg/log"
	"github.com/htp-ble/htp-go/pkg/nvm"
	"github.com/htp-ble/htp-go/pkg/services"
	"github.com/htp-ble/htp-go/pkg/timer"
)

// DefaultMeasurementInterval paces measurement notifications on an
// encrypted link.
const DefaultMeasurementInterval = 40 * time.Second

// ErrIncompleteConfig is returned by New when a required collaborator is nil.
var ErrIncompleteConfig = errors.New("peripheral: incomplete config")

// AdvertisingTiming sets the interval and duration of each advertising mode.
type AdvertisingTiming struct {
	FastInterval time.Duration
	FastTimeout  time.Duration
	SlowInterval time.Duration
	SlowTimeout  time.Duration
}

// Negotiation configures connection-parameter negotiation.
type Negotiation struct {
	Preferred ble.ConnParams
	Fallback  ble.ConnParams

	MaxAttempts       uint8
	PreferredAttempts uint8

	PeripheralPause time.Duration
	CentralPause    time.Duration
	RetryInterval   time.Duration
}

// Config configures a Machine. Zero durations take package defaults.
type Config struct {
	// Engine, Timers and Store are required.
	Engine ble.Engine
	Timers timer.Service
	Store  nvm.Store

	// Indicator plays UI cues. Nil logs them.
	Indicator Indicator

	DeviceName   string
	LocalAddress ble.MAC
	DeviceInfo   services.DeviceInfo
	Battery      services.BatteryConfig

	Advertising          AdvertisingTiming
	ConnParams           Negotiation
	BondingChanceTimeout time.Duration
	MeasurementInterval  time.Duration

	// Logger receives operational logs. Nil discards them.
	Logger *slog.Logger

	// ProtocolLogger receives protocol events. Nil disables them.
	ProtocolLogger log.Logger
}

// Machine is the connection lifecycle state machine. It is not safe for
// concurrent use; run it from a Runner.
type Machine struct {
	cfg       Config
	log       *slog.Logger
	trace     *tracer
	engine    ble.Engine
	indicator Indicator

	link *link.Context
	bond *bonding.Coordinator
	neg  *connparams.Negotiator
	adv  *advertising.Controller
	db   *gatt.Dispatcher

	gap     *services.GAP
	thermo  *services.Thermometer
	battery *services.Battery
	devinfo *services.DeviceInformation

	services []services.Service
	regions  []nvm.Region

	event  string
	halted *FatalError
}

// New wires a machine. It checks the store can hold the bond record and
// every service block, but reads nothing; call Start to boot.
func New(cfg Config) (*Machine, error) {
	if cfg.Engine == nil || cfg.Timers == nil || cfg.Store == nil {
		return nil, fmt.Errorf("%w: engine, timers and store must be set", ErrIncompleteConfig)
	}
	if cfg.DeviceName == "" {
		cfg.DeviceName = services.DefaultDeviceName
	}
	if cfg.MeasurementInterval == 0 {
		cfg.MeasurementInterval = DefaultMeasurementInterval
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	m := &Machine{
		cfg:       cfg,
		log:       logger.With("component", "peripheral"),
		indicator: cfg.Indicator,
		link:      link.NewContext(cfg.Timers),
	}
	if m.indicator == nil {
		m.indicator = LogIndicator{Logger: m.log}
	}
	m.trace = &tracer{logger: cfg.ProtocolLogger, link: m.link}
	m.engine = cfg.Engine
	if cfg.ProtocolLogger != nil {
		m.engine = &tracedEngine{engine: cfg.Engine, t: m.trace}
	}
	for _, s := range m.link.Slots() {
		s.Observe(m.observeTimer)
	}

	records, err := bonding.NewRecordStore(cfg.Store)
	if err != nil {
		return nil, err
	}
	m.bond = bonding.NewCoordinator(bonding.Config{
		Engine:        m.engine,
		Store:         records,
		Link:          m.link,
		ChanceTimeout: cfg.BondingChanceTimeout,
		Disconnect:    m.bondingDisconnect,
		Changed:       m.bondChanged,
		Logger:        logger,
	})

	m.gap = services.NewGAP(cfg.DeviceName)
	m.thermo = services.NewThermometer(m.bond)
	m.battery = services.NewBattery(m.bond, cfg.Battery)
	m.devinfo = services.NewDeviceInformation(cfg.LocalAddress, cfg.DeviceInfo)
	m.services = []services.Service{m.gap, m.thermo, m.battery, m.devinfo}

	alloc := nvm.NewAllocator(cfg.Store, records.End())
	gattServices := make([]gatt.Service, 0, len(m.services))
	m.regions = make([]nvm.Region, len(m.services))
	for i, svc := range m.services {
		m.bond.Subscribe(svc)
		gattServices = append(gattServices, svc)
		if svc.StorageWords() == 0 {
			continue
		}
		region, err := alloc.Reserve(svc.Name(), svc.StorageWords())
		if err != nil {
			return nil, err
		}
		m.regions[i] = region
	}

	m.db, err = gatt.NewServiceDispatcher(gattServices...)
	if err != nil {
		return nil, err
	}

	m.adv = advertising.NewController(advertising.Config{
		Engine:       m.engine,
		Slot:         m.link.AdvertisingTimer,
		FastInterval: cfg.Advertising.FastInterval,
		FastTimeout:  cfg.Advertising.FastTimeout,
		SlowInterval: cfg.Advertising.SlowInterval,
		SlowTimeout:  cfg.Advertising.SlowTimeout,
		Active:       func() bool { return m.link.State.Advertising() },
		Logger:       logger,
	})

	m.neg = connparams.NewNegotiator(connparams.Config{
		Engine:            m.engine,
		Link:              m.link,
		Preferred:         cfg.ConnParams.Preferred,
		Fallback:          cfg.ConnParams.Fallback,
		MaxAttempts:       cfg.ConnParams.MaxAttempts,
		PreferredAttempts: cfg.ConnParams.PreferredAttempts,
		PeripheralPause:   cfg.ConnParams.PeripheralPause,
		CentralPause:      cfg.ConnParams.CentralPause,
		RetryInterval:     cfg.ConnParams.RetryInterval,
		Fatal:             func(err error) { m.fatal(FatalConnParamUpdate, err) },
		Changed:           m.stageChanged,
		Logger:            logger,
	})

	return m, nil
}

// Start runs the boot sequence: restore the bond record and service blocks,
// initialize security, enter Init and register the attribute database.
func (m *Machine) Start() error {
	if m.halted != nil {
		return ErrHalted
	}

	fresh, err := m.bond.Restore()
	if err != nil {
		return m.fatal(storageCode(err), err)
	}
	for i, svc := range m.services {
		if err := svc.Restore(m.regions[i], fresh); err != nil {
			code := FatalNVMRead
			if fresh {
				code = FatalNVMWrite
			}
			return m.fatal(code, fmt.Errorf("%s: %w", svc.Name(), err))
		}
	}

	if err := m.engine.InitSecurity(m.bond.Record().Diversifier); err != nil {
		return m.fatal(FatalGAPSetMode, err)
	}

	m.dataInit()
	m.link.State = link.StateInit
	m.trace.state(log.StateEntityLifecycle, "", link.StateInit.String(), "boot")
	m.log.Info("booted",
		"fresh", fresh,
		"bonded", m.bond.Bonded(),
		"name", string(m.gap.DeviceName()))

	if err := m.engine.RegisterDatabase(); err != nil {
		return m.fatal(FatalDatabaseRegistration, err)
	}
	return nil
}

// Err returns the fatal error that halted the machine, or nil.
func (m *Machine) Err() error {
	if m.halted == nil {
		return nil
	}
	return m.halted
}

// State returns the lifecycle state.
func (m *Machine) State() link.State {
	return m.link.State
}

// Status is a snapshot of the machine for display.
type Status struct {
	State     link.State
	Bonded    bool
	Bond      bonding.Record
	Peer      ble.Address
	Connected bool
	Encrypted bool
	Params    ble.LinkParams
	Attempts  uint8
	Stage     link.Stage
	Name      string
	Reading   services.Reading
	Battery   uint8
}

// Status returns a snapshot of the machine.
func (m *Machine) Status() Status {
	_, connected := m.link.Connection()
	return Status{
		State:     m.link.State,
		Bonded:    m.bond.Bonded(),
		Bond:      m.bond.Record(),
		Peer:      m.link.Peer,
		Connected: connected,
		Encrypted: m.link.Encrypted,
		Params:    m.link.Params,
		Attempts:  m.link.UpdateAttempts,
		Stage:     m.link.Stage,
		Name:      string(m.gap.DeviceName()),
		Reading:   m.thermo.Snapshot(),
		Battery:   m.battery.Level(),
	}
}

// Advertised returns the last advertising payload and where the name went.
func (m *Machine) Advertised() (advertising.Payload, advertising.NamePlacement) {
	return m.adv.LastPayload()
}

// Registrations returns the attribute database ranges.
func (m *Machine) Registrations() []gatt.Registration {
	return m.db.Registrations()
}

// setState runs the transition contract: exit effects of the old state,
// commit, entry effects of the new one.
func (m *Machine) setState(next link.State, reason string) {
	old := m.link.State
	if old == next || m.halted != nil {
		return
	}

	switch old {
	case link.StateInit:
		if err := m.bond.ConfigureWhitelist(); err != nil {
			m.fatal(FatalAddWhitelist, err)
			return
		}
	case link.StateFastAdvertising, link.StateSlowAdvertising:
		m.adv.Exit()
	case link.StateDisconnecting:
		m.dataInit()
	}

	m.link.State = next
	m.log.Info("state change", "from", old, "to", next, "reason", reason)
	m.trace.state(log.StateEntityLifecycle, old.String(), next.String(), reason)

	switch next {
	case link.StateFastAdvertising:
		if m.startAdvertising(true) {
			m.cue(CueBeepTwice)
		}
	case link.StateSlowAdvertising:
		m.startAdvertising(false)
	case link.StateIdle:
		m.cue(CueBeepLong)
	case link.StateConnected:
		if !m.link.Peer.IsResolvablePrivate() {
			if err := m.engine.RequestSecurity(m.link.Peer); err != nil {
				m.log.Warn("security request failed", "peer", m.link.Peer, "error", err)
			}
		}
	case link.StateDisconnecting:
		id, _ := m.link.Connection()
		if err := m.engine.Disconnect(id); err != nil {
			m.log.Warn("disconnect request failed", "id", id, "error", err)
		}
	}
}

// fatal is the single reporting point for unrecoverable conditions. It
// halts the machine and cancels every timer.
func (m *Machine) fatal(code FatalCode, cause error) error {
	if m.halted != nil {
		return m.halted
	}
	m.halted = &FatalError{
		Code:  code,
		State: m.link.State,
		Event: m.event,
		Cause: cause,
	}
	m.log.Error("fatal", "code", code, "state", m.link.State, "event", m.event, "error", cause)
	m.trace.fatal(m.halted)
	for _, s := range m.link.Slots() {
		s.Cancel()
	}
	return m.halted
}

// expect reports whether the machine is in one of states. Any other state
// is fatal and left unchanged.
func (m *Machine) expect(states ...link.State) bool {
	for _, s := range states {
		if m.link.State == s {
			return true
		}
	}
	m.fatal(FatalInvalidState, errInvalidEvent)
	return false
}

func storageCode(err error) FatalCode {
	switch {
	case errors.Is(err, bonding.ErrWhitelist):
		return FatalAddWhitelist
	case errors.Is(err, bonding.ErrLoad):
		return FatalNVMRead
	default:
		return FatalNVMWrite
	}
}

func advertisingCode(err error) FatalCode {
	switch {
	case errors.Is(err, advertising.ErrTxPower):
		return FatalReadTxPowerLevel
	case errors.Is(err, advertising.ErrScanResponseFull):
		return FatalSetScanResponseData
	case errors.Is(err, advertising.ErrDataFull):
		return FatalSetAdvertData
	default:
		return FatalSetAdvertParams
	}
}

func (m *Machine) observeTimer(p timer.Purpose, a timer.Action, h timer.Handle, d time.Duration) {
	m.log.Debug("timer", "purpose", p, "action", a, "handle", h, "duration", d)
	m.trace.timer(p, a, h, d)
}

func (m *Machine) bondChanged(bonded bool, reason string) {
	m.trace.state(log.StateEntityBonding, bondName(!bonded), bondName(bonded), reason)
}

func bondName(bonded bool) string {
	if bonded {
		return "BONDED"
	}
	return "UNBONDED"
}

func (m *Machine) stageChanged(old, next link.Stage, reason string) {
	m.log.Debug("negotiation stage", "from", old, "to", next, "reason", reason)
	m.trace.state(log.StateEntityNegotiation, old.String(), next.String(), reason)
}

// bondingDisconnect drops the link on pairing abuse or an expired bonding
// chance. It does nothing once the link is already going down.
func (m *Machine) bondingDisconnect() {
	if m.link.State != link.StateConnected {
		return
	}
	m.setState(link.StateDisconnecting, "bonding")
}
