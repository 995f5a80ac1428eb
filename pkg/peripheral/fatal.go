package peripheral

import (
	"errors"
	"fmt"

	"github.com/htp-ble/htp-go/pkg/link"
)

// ErrHalted is returned by Handle after a fatal error has been reported.
var ErrHalted = errors.New("peripheral: machine halted")

// FatalCode enumerates the causes of a fatal halt.
type FatalCode uint8

const (
	FatalSetAdvertParams FatalCode = iota + 1
	FatalSetAdvertData
	FatalSetScanResponseData
	FatalConnectionEstablish
	FatalDatabaseRegistration
	FatalNVMRead
	FatalNVMWrite
	FatalReadTxPowerLevel
	FatalDeleteWhitelist
	FatalAddWhitelist
	FatalConnParamUpdate
	FatalInvalidState
	FatalUnexpectedBeepType
	FatalGAPSetMode
	FatalUUIDNotSupported
	FatalSetScanParams
	FatalNVMErase
)

var fatalNames = map[FatalCode]string{
	FatalSetAdvertParams:      "set-advert-params",
	FatalSetAdvertData:        "set-advert-data",
	FatalSetScanResponseData:  "set-scan-rsp-data",
	FatalConnectionEstablish:  "connection-est",
	FatalDatabaseRegistration: "db-registration",
	FatalNVMRead:              "nvm-read",
	FatalNVMWrite:             "nvm-write",
	FatalReadTxPowerLevel:     "read-tx-power-level",
	FatalDeleteWhitelist:      "delete-whitelist",
	FatalAddWhitelist:         "add-whitelist",
	FatalConnParamUpdate:      "con-param-update",
	FatalInvalidState:         "invalid-state",
	FatalUnexpectedBeepType:   "unexpected-beep-type",
	FatalGAPSetMode:           "gap-set-mode",
	FatalUUIDNotSupported:     "uuid-not-supported",
	FatalSetScanParams:        "set-scan-params",
	FatalNVMErase:             "nvm-erase",
}

// String returns the code name.
func (c FatalCode) String() string {
	if s, ok := fatalNames[c]; ok {
		return s
	}
	return fmt.Sprintf("fatal(%d)", uint8(c))
}

// FatalError is the single report produced when the machine halts.
type FatalError struct {
	Code FatalCode

	// State is the lifecycle state when the error was reported.
	State link.State

	// Event is the name of the event being handled, if any.
	Event string

	Cause error
}

func (e *FatalError) Error() string {
	msg := fmt.Sprintf("peripheral: fatal %s in %s", e.Code, e.State)
	if e.Event != "" {
		msg += " handling " + e.Event
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *FatalError) Unwrap() error {
	return e.Cause
}

// errInvalidEvent is the cause for an event outside its valid states.
var errInvalidEvent = errors.New("event not valid in state")
