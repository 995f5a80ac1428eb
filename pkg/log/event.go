package log

import (
	"time"
)

// Event is a protocol log record.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint" json:"timestamp"`

	// ConnectionID is the session UUID of the connection, empty when none.
	ConnectionID string `cbor:"2,keyasint,omitempty" json:"connection_id,omitempty"`

	// Direction indicates message flow relative to the application.
	Direction Direction `cbor:"3,keyasint" json:"direction"`

	// Layer where the event was captured.
	Layer Layer `cbor:"4,keyasint" json:"layer"`

	// Category classifies the event type.
	Category Category `cbor:"5,keyasint" json:"category"`

	// PeerAddr is the connected central's address, if any.
	PeerAddr string `cbor:"6,keyasint,omitempty" json:"peer_addr,omitempty"`

	// Type-specific payload (one of these will be set).
	Message     *MessageEvent     `cbor:"10,keyasint,omitempty" json:"message,omitempty"`
	StateChange *StateChangeEvent `cbor:"11,keyasint,omitempty" json:"state_change,omitempty"`
	Timer       *TimerEvent       `cbor:"12,keyasint,omitempty" json:"timer,omitempty"`
	Error       *ErrorEventData   `cbor:"13,keyasint,omitempty" json:"error,omitempty"`
}

// Direction indicates the direction of message flow.
type Direction uint8

const (
	// DirectionIn is a notification delivered by the engine.
	DirectionIn Direction = 0
	// DirectionOut is a request issued to the engine.
	DirectionOut Direction = 1
	// DirectionInternal is an event inside the application.
	DirectionInternal Direction = 2
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirectionIn:
		return "IN"
	case DirectionOut:
		return "OUT"
	case DirectionInternal:
		return "INTERNAL"
	default:
		return "UNKNOWN"
	}
}

// Layer indicates which part of the system captured the event.
type Layer uint8

const (
	// LayerEngine is the boundary to the protocol engine.
	LayerEngine Layer = 0
	// LayerApp is the application state machine.
	LayerApp Layer = 1
	// LayerTimer is the timer service.
	LayerTimer Layer = 2
)

// String returns the layer name.
func (l Layer) String() string {
	switch l {
	case LayerEngine:
		return "ENGINE"
	case LayerApp:
		return "APP"
	case LayerTimer:
		return "TIMER"
	default:
		return "UNKNOWN"
	}
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryMessage is a notification or request.
	CategoryMessage Category = 0
	// CategoryState is a state change.
	CategoryState Category = 1
	// CategoryTimer is a timer action.
	CategoryTimer Category = 2
	// CategoryError is an error.
	CategoryError Category = 3
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryMessage:
		return "MESSAGE"
	case CategoryState:
		return "STATE"
	case CategoryTimer:
		return "TIMER"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// MessageEvent captures an engine notification or request.
type MessageEvent struct {
	// Name is the notification or request name, e.g. CONNECTED or DISCONNECT.
	Name string `cbor:"1,keyasint" json:"name"`

	// Handle is the attribute handle for access and notification traffic.
	Handle *uint16 `cbor:"2,keyasint,omitempty" json:"handle,omitempty"`

	// Status is the status carried by a response.
	Status string `cbor:"3,keyasint,omitempty" json:"status,omitempty"`

	// Payload is the attribute value or advertising data.
	Payload []byte `cbor:"4,keyasint,omitempty" json:"payload,omitempty"`

	// Detail is a short human readable summary of the remaining fields.
	Detail string `cbor:"5,keyasint,omitempty" json:"detail,omitempty"`

	// Err is set when the engine rejected a request.
	Err string `cbor:"6,keyasint,omitempty" json:"err,omitempty"`
}

// StateChangeEvent captures a state transition.
type StateChangeEvent struct {
	// Entity being changed.
	Entity StateEntity `cbor:"1,keyasint" json:"entity"`

	// OldState is the previous state (may be empty).
	OldState string `cbor:"2,keyasint,omitempty" json:"old_state,omitempty"`

	// NewState is the new state.
	NewState string `cbor:"3,keyasint" json:"new_state"`

	// Reason for the change (if available).
	Reason string `cbor:"4,keyasint,omitempty" json:"reason,omitempty"`
}

// StateEntity indicates what entity changed state.
type StateEntity uint8

const (
	// StateEntityLifecycle is the application lifecycle state.
	StateEntityLifecycle StateEntity = 0
	// StateEntityBonding is the bonding record.
	StateEntityBonding StateEntity = 1
	// StateEntityNegotiation is the connection-parameter negotiation stage.
	StateEntityNegotiation StateEntity = 2
)

// String returns the state entity name.
func (s StateEntity) String() string {
	switch s {
	case StateEntityLifecycle:
		return "LIFECYCLE"
	case StateEntityBonding:
		return "BONDING"
	case StateEntityNegotiation:
		return "NEGOTIATION"
	default:
		return "UNKNOWN"
	}
}

// TimerEvent captures a timer action.
type TimerEvent struct {
	// Purpose is the timer slot's purpose.
	Purpose string `cbor:"1,keyasint" json:"purpose"`

	// Action is what happened to the timer.
	Action TimerAction `cbor:"2,keyasint" json:"action"`

	// Handle is the timer generation.
	Handle string `cbor:"3,keyasint" json:"handle"`

	// Duration is set when the timer is armed. Stored as nanoseconds.
	Duration *time.Duration `cbor:"4,keyasint,omitempty" json:"duration,omitempty"`
}

// TimerAction is what happened to a timer.
type TimerAction uint8

const (
	// TimerArmed means a timer was created.
	TimerArmed TimerAction = 0
	// TimerCancelled means a timer was deleted before expiry.
	TimerCancelled TimerAction = 1
	// TimerFired means a current timer expired and was acted on.
	TimerFired TimerAction = 2
	// TimerStale means an expiry was dropped because its handle was superseded.
	TimerStale TimerAction = 3
)

// String returns the action name.
func (a TimerAction) String() string {
	switch a {
	case TimerArmed:
		return "ARMED"
	case TimerCancelled:
		return "CANCELLED"
	case TimerFired:
		return "FIRED"
	case TimerStale:
		return "STALE"
	default:
		return "UNKNOWN"
	}
}

// ErrorEventData captures errors at any layer.
type ErrorEventData struct {
	// Layer where the error occurred.
	Layer Layer `cbor:"1,keyasint" json:"layer"`

	// Message is the error message.
	Message string `cbor:"2,keyasint" json:"message"`

	// Code is the error code (if applicable).
	Code *int `cbor:"3,keyasint,omitempty" json:"code,omitempty"`

	// Context describes what operation was being performed.
	Context string `cbor:"4,keyasint,omitempty" json:"context,omitempty"`
}
