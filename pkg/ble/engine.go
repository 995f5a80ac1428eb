package ble

// ConnectionID identifies the single connection the engine hands out.
type ConnectionID uint16

// FilterPolicy selects which centrals may connect while advertising.
type FilterPolicy uint8

const (
	// FilterNone accepts connections from any central.
	FilterNone FilterPolicy = 0

	// FilterWhitelist accepts only centrals on the link-layer whitelist.
	FilterWhitelist FilterPolicy = 1
)

// String returns the filter policy name.
func (f FilterPolicy) String() string {
	switch f {
	case FilterNone:
		return "OPEN"
	case FilterWhitelist:
		return "WHITELIST"
	default:
		return "UNKNOWN"
	}
}

// AdvertisingRequest describes a connectable undirected advertising request.
type AdvertisingRequest struct {
	// Fast selects the high-duty advertising intensity.
	Fast bool

	// Interval is used for both the minimum and maximum advertising interval.
	Interval AdvertisingInterval

	// Filter selects which centrals may connect.
	Filter FilterPolicy

	// Data and ScanResponse are the encoded AD structures, at most 31 octets each.
	Data         []byte
	ScanResponse []byte
}

// Engine is the set of requests the application can issue to the protocol engine.
//
// Requests return an error only when the engine rejects them outright.
// Outcomes are delivered later as Events.
type Engine interface {
	// RegisterDatabase adds the attribute database. Confirmed by DatabaseRegistered.
	RegisterDatabase() error

	// InitSecurity initializes the security manager with the persisted diversifier.
	InitSecurity(diversifier uint16) error

	// TxPowerLevel reads the advertising transmit power in dBm.
	TxPowerLevel() (int8, error)

	// StartAdvertising starts connectable undirected advertising.
	StartAdvertising(req AdvertisingRequest) error

	// CancelAdvertising stops advertising. Confirmed by AdvertisingCancelled.
	CancelAdvertising() error

	// RequestSecurity asks the central to encrypt the link.
	RequestSecurity(peer Address) error

	// RespondAccess answers an AttributeAccess event.
	RespondAccess(id ConnectionID, handle uint16, status Status, value []byte) error

	// Notify sends an unsolicited characteristic value notification.
	Notify(id ConnectionID, handle uint16, value []byte) error

	// RequestConnParamUpdate asks the central for new connection parameters.
	// Confirmed by ParamUpdateConfirmed.
	RequestConnParamUpdate(peer Address, params ConnParams) error

	// Disconnect terminates the link. Confirmed by Disconnected.
	Disconnect(id ConnectionID) error

	// AddWhitelist adds addr to the link-layer whitelist.
	AddWhitelist(addr Address) error

	// ResetWhitelist clears the link-layer whitelist.
	ResetWhitelist() error

	// RespondPairingAuth accepts or rejects a PairingAuthRequest.
	RespondPairingAuth(id ConnectionID, accept bool) error

	// RespondDiversifier approves or revokes a DiversifierRequest.
	RespondDiversifier(id ConnectionID, approve bool) error
}
