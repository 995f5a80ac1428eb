package main

import (
	"errors"
	"time"

	"github.com/htp-ble/htp-go/internal/sim"
	"github.com/htp-ble/htp-go/pkg/ble"
	"github.com/htp-ble/htp-go/pkg/gatt"
	"github.com/htp-ble/htp-go/pkg/peripheral"
)

// errNotResponding is returned when the event loop does not answer a query.
var errNotResponding = errors.New("peripheral not responding")

// system ties the loop, the machine and the simulated central together for
// the shell and the simulations. Machine state is only read on the loop.
type system struct {
	runner  *peripheral.Runner
	machine *peripheral.Machine
	engine  *sim.Engine
	supply  *supplyVoltage
}

func (s *system) Post(ev ble.Event) error {
	return s.runner.Post(ev)
}

func (s *system) Central() *sim.Engine {
	return s.engine
}

func (s *system) SetSupply(mv uint32) {
	s.supply.Set(mv)
}

func (s *system) Status() (peripheral.Status, error) {
	ch := make(chan peripheral.Status, 1)
	s.runner.PostFunc(func() { ch <- s.machine.Status() })
	select {
	case st := <-ch:
		return st, nil
	case <-time.After(time.Second):
		return peripheral.Status{}, errNotResponding
	}
}

func (s *system) Registrations() ([]gatt.Registration, error) {
	ch := make(chan []gatt.Registration, 1)
	s.runner.PostFunc(func() { ch <- s.machine.Registrations() })
	select {
	case regs := <-ch:
		return regs, nil
	case <-time.After(time.Second):
		return nil, errNotResponding
	}
}
