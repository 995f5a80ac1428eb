package ble

import "fmt"

// Status is an attribute protocol status returned in an access response.
type Status uint16

// Attribute protocol statuses.
const (
	StatusSuccess             Status = 0x0000
	StatusReadNotPermitted    Status = 0x0002
	StatusWriteNotPermitted   Status = 0x0003
	StatusRequestNotSupported Status = 0x0006
	StatusInvalidOffset       Status = 0x0007
	StatusUnlikelyError       Status = 0x000E

	// StatusImproperClientConfig rejects a client characteristic
	// configuration value the characteristic does not support.
	StatusImproperClientConfig Status = 0x00FD

	// StatusProceed hands the access back to the engine, which serves it
	// from its own copy of the attribute database.
	StatusProceed Status = 0x8000
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "SUCCESS"
	case StatusReadNotPermitted:
		return "READ_NOT_PERMITTED"
	case StatusWriteNotPermitted:
		return "WRITE_NOT_PERMITTED"
	case StatusRequestNotSupported:
		return "REQUEST_NOT_SUPPORTED"
	case StatusInvalidOffset:
		return "INVALID_OFFSET"
	case StatusUnlikelyError:
		return "UNLIKELY_ERROR"
	case StatusImproperClientConfig:
		return "IMPROPER_CLIENT_CONFIG"
	case StatusProceed:
		return "PROCEED"
	default:
		return fmt.Sprintf("STATUS(0x%04X)", uint16(s))
	}
}

// DisconnectReason is the HCI reason code carried by a disconnect-complete
// notification.
type DisconnectReason uint8

// Disconnect reasons.
const (
	ReasonAuthFailure        DisconnectReason = 0x05
	ReasonConnTimeout        DisconnectReason = 0x08
	ReasonRemoteUser         DisconnectReason = 0x13
	ReasonRemoteLowResources DisconnectReason = 0x14
	ReasonRemotePowerOff     DisconnectReason = 0x15
	ReasonLocalHost          DisconnectReason = 0x16
)

// String returns the reason name.
func (r DisconnectReason) String() string {
	switch r {
	case ReasonAuthFailure:
		return "AUTH_FAILURE"
	case ReasonConnTimeout:
		return "CONN_TIMEOUT"
	case ReasonRemoteUser:
		return "REMOTE_USER"
	case ReasonRemoteLowResources:
		return "REMOTE_LOW_RESOURCES"
	case ReasonRemotePowerOff:
		return "REMOTE_POWER_OFF"
	case ReasonLocalHost:
		return "LOCAL_HOST"
	default:
		return fmt.Sprintf("REASON(0x%02X)", uint8(r))
	}
}

// PairingStatus is the outcome of a pairing procedure.
type PairingStatus uint16

// Pairing outcomes. Failure values follow the security manager's
// pairing-failed reason codes.
const (
	PairingSuccess            PairingStatus = 0x00
	PairingPasskeyEntryFailed PairingStatus = 0x01
	PairingAuthRequirements   PairingStatus = 0x03
	PairingConfirmValueFailed PairingStatus = 0x04
	PairingNotSupported       PairingStatus = 0x05
	PairingEncryptionKeySize  PairingStatus = 0x06
	PairingUnspecifiedReason  PairingStatus = 0x08
	PairingRepeatedAttempts   PairingStatus = 0x09
	PairingTimeout            PairingStatus = 0x0100
)

// String returns the pairing status name.
func (s PairingStatus) String() string {
	switch s {
	case PairingSuccess:
		return "SUCCESS"
	case PairingPasskeyEntryFailed:
		return "PASSKEY_ENTRY_FAILED"
	case PairingAuthRequirements:
		return "AUTH_REQUIREMENTS"
	case PairingConfirmValueFailed:
		return "CONFIRM_VALUE_FAILED"
	case PairingNotSupported:
		return "PAIRING_NOT_SUPPORTED"
	case PairingEncryptionKeySize:
		return "ENCRYPTION_KEY_SIZE"
	case PairingUnspecifiedReason:
		return "UNSPECIFIED_REASON"
	case PairingRepeatedAttempts:
		return "REPEATED_ATTEMPTS"
	case PairingTimeout:
		return "TIMEOUT"
	default:
		return fmt.Sprintf("PAIRING(0x%04X)", uint16(s))
	}
}
