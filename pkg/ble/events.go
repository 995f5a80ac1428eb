package ble

// Event is a notification delivered to the application. The set of
// implementations is closed; the state machine switches over them.
type Event interface {
	// Name returns a stable upper-case name for logging.
	Name() string

	event()
}

// DatabaseRegistered confirms RegisterDatabase.
type DatabaseRegistered struct {
	Success bool
}

// AdvertisingCancelled confirms CancelAdvertising, or reports that an
// in-flight connectable advertising request was stopped.
type AdvertisingCancelled struct{}

// ConnectionComplete carries the link parameters of a newly completed connection.
// It precedes Connected.
type ConnectionComplete struct {
	Params LinkParams
}

// Connected confirms a connection attempt.
type Connected struct {
	Success bool
	ID      ConnectionID
	Peer    Address
}

// LinkParamsUpdated reports parameters changed by a connection update.
type LinkParamsUpdated struct {
	Params LinkParams
}

// PairingAuthRequest asks whether a pairing request should proceed.
type PairingAuthRequest struct {
	ID ConnectionID
}

// PairingComplete reports the outcome of pairing.
type PairingComplete struct {
	Status PairingStatus
	Peer   Address
}

// KeysDistributed reports key material received during pairing.
type KeysDistributed struct {
	HasDiversifier bool
	Diversifier    uint16

	HasIdentityKey bool
	IdentityKey    IdentityKey
}

// EncryptionChanged reports a change in link encryption.
type EncryptionChanged struct {
	Success bool
	Enabled bool
}

// DiversifierRequest asks whether a presented diversifier is acceptable.
type DiversifierRequest struct {
	ID          ConnectionID
	Diversifier uint16
}

// ParamUpdateConfirmed reports whether a RequestConnParamUpdate succeeded.
type ParamUpdateConfirmed struct {
	Success bool
}

// ParamUpdateCompleted reports that the link layer finished a connection
// parameter update, initiated by either side. The resulting parameters
// were delivered by a preceding LinkParamsUpdated.
type ParamUpdateCompleted struct{}

// AccessOp is the direction of an attribute access.
type AccessOp uint8

const (
	// AccessRead is a read of an attribute value.
	AccessRead AccessOp = iota + 1

	// AccessWrite is a write of an attribute value.
	AccessWrite

	// AccessOther is any access the application does not serve, such as
	// write-with-prepare.
	AccessOther
)

// String returns the operation name.
func (o AccessOp) String() string {
	switch o {
	case AccessRead:
		return "READ"
	case AccessWrite:
		return "WRITE"
	case AccessOther:
		return "OTHER"
	default:
		return "UNKNOWN"
	}
}

// AttributeAccess is a peer read or write the engine forwards to the application.
type AttributeAccess struct {
	ID     ConnectionID
	Handle uint16
	Op     AccessOp
	Offset uint16
	Value  []byte
}

// Disconnected reports that the link has been torn down.
type Disconnected struct {
	Reason DisconnectReason
}

// BondRemovalRequested is raised by the user to forget the bonded central.
type BondRemovalRequested struct{}

// MeasurementTaken carries a new temperature measurement snapshot.
type MeasurementTaken struct {
	Reading [5]byte
}

// BatteryLow is raised by the system when the supply voltage drops.
type BatteryLow struct{}

func (DatabaseRegistered) Name() string   { return "DATABASE_REGISTERED" }
func (AdvertisingCancelled) Name() string { return "ADVERTISING_CANCELLED" }
func (ConnectionComplete) Name() string   { return "CONNECTION_COMPLETE" }
func (Connected) Name() string            { return "CONNECTED" }
func (LinkParamsUpdated) Name() string    { return "LINK_PARAMS_UPDATED" }
func (PairingAuthRequest) Name() string   { return "PAIRING_AUTH_REQUEST" }
func (PairingComplete) Name() string      { return "PAIRING_COMPLETE" }
func (KeysDistributed) Name() string      { return "KEYS_DISTRIBUTED" }
func (EncryptionChanged) Name() string    { return "ENCRYPTION_CHANGED" }
func (DiversifierRequest) Name() string   { return "DIVERSIFIER_REQUEST" }
func (ParamUpdateConfirmed) Name() string { return "PARAM_UPDATE_CONFIRMED" }
func (ParamUpdateCompleted) Name() string { return "PARAM_UPDATE_COMPLETED" }
func (AttributeAccess) Name() string      { return "ATTRIBUTE_ACCESS" }
func (Disconnected) Name() string         { return "DISCONNECTED" }
func (BondRemovalRequested) Name() string { return "BOND_REMOVAL_REQUESTED" }
func (MeasurementTaken) Name() string     { return "MEASUREMENT_TAKEN" }
func (BatteryLow) Name() string           { return "BATTERY_LOW" }

func (DatabaseRegistered) event()   {}
func (AdvertisingCancelled) event() {}
func (ConnectionComplete) event()   {}
func (Connected) event()            {}
func (LinkParamsUpdated) event()    {}
func (PairingAuthRequest) event()   {}
func (PairingComplete) event()      {}
func (KeysDistributed) event()      {}
func (EncryptionChanged) event()    {}
func (DiversifierRequest) event()   {}
func (ParamUpdateConfirmed) event() {}
func (ParamUpdateCompleted) event() {}
func (AttributeAccess) event()      {}
func (Disconnected) event()         {}
func (BondRemovalRequested) event() {}
func (MeasurementTaken) event()     {}
func (BatteryLow) event()           {}
