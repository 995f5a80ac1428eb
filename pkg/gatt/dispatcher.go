package gatt

import (
	"errors"
	"fmt"

	"github.com/htp-ble/htp-go/pkg/ble"
)

// Dispatcher construction errors.
var (
	ErrEmptyRange   = errors.New("gatt: registration range is empty")
	ErrRangeOverlap = errors.New("gatt: registration ranges overlap")
	ErrNoHandler    = errors.New("gatt: registration has no handlers")
)

// Request is a peer access delivered to a service.
type Request struct {
	Conn   ble.ConnectionID
	Handle uint16
	Offset uint16
	Value  []byte
}

// Notification is a characteristic value to send after the response.
type Notification struct {
	Handle uint16
	Value  []byte
}

// Response is a service's answer to a Request.
type Response struct {
	Status ble.Status
	Value  []byte

	// Notify lists notifications to send once the response is out.
	Notify []Notification

	// Err reports a storage failure while serving the access. The
	// response is still sent.
	Err error
}

// Reply returns a response with status and value.
func Reply(status ble.Status, value []byte) Response {
	return Response{Status: status, Value: value}
}

// Handler serves one direction of access for a service.
type Handler func(req Request) Response

// Registration claims the inclusive handle range [Low, High] for a service.
type Registration struct {
	Name  string
	Low   uint16
	High  uint16
	Read  Handler
	Write Handler
}

// Contains reports whether handle lies in the registration's range.
func (r Registration) Contains(handle uint16) bool {
	return handle >= r.Low && handle <= r.High
}

// Service is implemented by anything that serves a handle range.
type Service interface {
	Registration() Registration
}

// Dispatcher routes accesses to registrations in priority order.
type Dispatcher struct {
	regs []Registration
}

// NewDispatcher validates regs and returns a dispatcher that consults them
// in the given order.
func NewDispatcher(regs ...Registration) (*Dispatcher, error) {
	for i, r := range regs {
		if r.Low == 0 || r.High < r.Low {
			return nil, fmt.Errorf("%w: %s [0x%04X, 0x%04X]", ErrEmptyRange, r.Name, r.Low, r.High)
		}
		if r.Read == nil && r.Write == nil {
			return nil, fmt.Errorf("%w: %s", ErrNoHandler, r.Name)
		}
		for _, prev := range regs[:i] {
			if r.Low <= prev.High && prev.Low <= r.High {
				return nil, fmt.Errorf("%w: %s and %s", ErrRangeOverlap, prev.Name, r.Name)
			}
		}
	}
	return &Dispatcher{regs: append([]Registration(nil), regs...)}, nil
}

// NewServiceDispatcher builds a dispatcher from services in priority order.
func NewServiceDispatcher(services ...Service) (*Dispatcher, error) {
	regs := make([]Registration, 0, len(services))
	for _, s := range services {
		regs = append(regs, s.Registration())
	}
	return NewDispatcher(regs...)
}

// Lookup returns the registration owning handle.
func (d *Dispatcher) Lookup(handle uint16) (Registration, bool) {
	for _, r := range d.regs {
		if r.Contains(handle) {
			return r, true
		}
	}
	return Registration{}, false
}

// Read routes a read. Unclaimed handles get StatusReadNotPermitted.
func (d *Dispatcher) Read(req Request) Response {
	r, ok := d.Lookup(req.Handle)
	if !ok || r.Read == nil {
		return Reply(ble.StatusReadNotPermitted, nil)
	}
	return r.Read(req)
}

// Write routes a write. Unclaimed handles get StatusWriteNotPermitted.
func (d *Dispatcher) Write(req Request) Response {
	r, ok := d.Lookup(req.Handle)
	if !ok || r.Write == nil {
		return Reply(ble.StatusWriteNotPermitted, nil)
	}
	return r.Write(req)
}

// Registrations returns the table in priority order.
func (d *Dispatcher) Registrations() []Registration {
	return append([]Registration(nil), d.regs...)
}
