// Package interactive provides the interactive shell for htp-device. The
// shell plays the central: it connects, pairs and accesses attributes
// through the simulated engine, and raises the device's button and sensor
// events.
package interactive

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/chzyer/readline"

	"github.com/htp-ble/htp-go/internal/sim"
	"github.com/htp-ble/htp-go/pkg/ble"
	"github.com/htp-ble/htp-go/pkg/gatt"
	"github.com/htp-ble/htp-go/pkg/peripheral"
	"github.com/htp-ble/htp-go/pkg/services"
)

// DefaultCentral is the central address used when connect has no argument.
const DefaultCentral = "AB:CD:EF:00:00:01"

// responseWait bounds how long the shell waits for the device to answer an
// access.
const responseWait = 500 * time.Millisecond

// System is the running device as seen by the shell.
type System interface {
	// Post queues a system event for the device.
	Post(ev ble.Event) error

	// Central returns the simulated engine and its central.
	Central() *sim.Engine

	// SetSupply sets the simulated supply voltage.
	SetSupply(mv uint32)

	Status() (peripheral.Status, error)
	Registrations() ([]gatt.Registration, error)
}

// Device handles interactive mode for htp-device.
type Device struct {
	rl  *readline.Instance
	sys System
}

// New creates the shell. Its Stderr should carry the log output.
func New() (*Device, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "central> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}
	return &Device{rl: rl}, nil
}

// Stdout returns a writer that properly coordinates with the readline input.
func (d *Device) Stdout() io.Writer {
	return d.rl.Stdout()
}

// Stderr returns a writer that properly coordinates with the readline input.
// Use this for log output to avoid interfering with the command prompt.
func (d *Device) Stderr() io.Writer {
	return d.rl.Stderr()
}

// Run reads commands until the input ends, quit is entered or ctx is done.
func (d *Device) Run(ctx context.Context, cancel context.CancelFunc, sys System) {
	defer d.rl.Close()
	d.sys = sys

	d.printHelp()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := d.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(d.rl.Stdout(), "Exiting...")
			cancel()
			return
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}
		parts := strings.Fields(input)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		if cmd == "quit" || cmd == "exit" || cmd == "q" {
			fmt.Fprintln(d.rl.Stdout(), "Exiting...")
			cancel()
			return
		}
		if err := d.Exec(cmd, args); err != nil {
			fmt.Fprintf(d.rl.Stdout(), "Error: %v\n", err)
		}
	}
}

// Exec runs one command.
func (d *Device) Exec(cmd string, args []string) error {
	central := d.sys.Central()

	switch cmd {
	case "help", "?":
		d.printHelp()
		return nil

	case "status", "s":
		return d.cmdStatus()
	case "db":
		return d.cmdDatabase()

	case "connect", "c":
		return d.cmdConnect(args)
	case "fail-connect":
		return central.FailConnect()
	case "pair":
		return central.Pair()
	case "reject-pair":
		return central.FailPairing(ble.PairingNotSupported)
	case "encrypt":
		return central.Encrypt()
	case "read", "r":
		return d.cmdRead(args)
	case "write", "w":
		return d.cmdWrite(args)
	case "notify":
		return d.cmdNotify(args)
	case "name":
		return d.cmdName(args)
	case "update":
		return d.cmdUpdate(args)
	case "reject-updates":
		return d.cmdRejectUpdates(args)
	case "disconnect", "d":
		return central.RemoteDisconnect()
	case "linkloss":
		return central.LinkLoss()

	case "measure", "m":
		return d.cmdMeasure(args)
	case "battery":
		return d.cmdBattery(args)
	case "remove-bond":
		return d.sys.Post(ble.BondRemovalRequested{})
	}
	return fmt.Errorf("unknown command: %s (type 'help' for commands)", cmd)
}

func (d *Device) printHelp() {
	fmt.Fprintln(d.rl.Stdout(), `
HTP Central Commands:
  Link:
    connect [addr]         - Connect (default `+DefaultCentral+`, append /random for random)
    fail-connect           - Abort the next connection attempt
    disconnect             - Disconnect from the central
    linkloss               - Drop the link with a supervision timeout
    update <int> <lat> <to> - Central-initiated parameter update (1.25 ms, events, 10 ms)
    reject-updates on|off  - Refuse device parameter requests

  Security:
    pair                   - Start pairing
    reject-pair            - End pairing with failure
    encrypt                - Encrypt with the stored keys

  Attributes:
    read <handle> [offset] - Read an attribute (hex handle, e.g. 0x0003)
    write <handle> <hex>   - Write raw bytes
    notify temp|battery on|off - Configure notifications
    name <text>            - Write the device name
    db                     - List the attribute database

  Device:
    measure [celsius]      - Take a measurement (short button press)
    battery <mV>           - Set the supply voltage and raise battery low
    remove-bond            - Remove the pairing (extra long button press)
    status                 - Show device status

  General:
    help                   - Show this help
    quit                   - Exit`)
}

func (d *Device) cmdStatus() error {
	st, err := d.sys.Status()
	if err != nil {
		return err
	}
	out := d.rl.Stdout()
	fmt.Fprintf(out, "State:      %s\n", st.State)
	fmt.Fprintf(out, "Name:       %s\n", st.Name)
	if st.Bonded {
		fmt.Fprintf(out, "Bonded:     %s (diversifier 0x%04X)\n", st.Bond.Address, st.Bond.Diversifier)
	} else {
		fmt.Fprintln(out, "Bonded:     no")
	}
	if st.Connected {
		fmt.Fprintf(out, "Peer:       %s\n", st.Peer)
		fmt.Fprintf(out, "Encrypted:  %t\n", st.Encrypted)
		fmt.Fprintf(out, "Params:     %s\n", st.Params)
		fmt.Fprintf(out, "Negotiation: %s (attempts %d)\n", st.Stage, st.Attempts)
	}
	fmt.Fprintf(out, "Reading:    %.2f C (counter %d)\n", st.Reading.Celsius(), st.Reading[0])
	fmt.Fprintf(out, "Battery:    %d%%\n", st.Battery)
	return nil
}

func (d *Device) cmdDatabase() error {
	regs, err := d.sys.Registrations()
	if err != nil {
		return err
	}
	for _, r := range regs {
		fmt.Fprintf(d.rl.Stdout(), "  0x%04X-0x%04X  %s\n", r.Low, r.High, r.Name)
	}
	return nil
}

func (d *Device) cmdConnect(args []string) error {
	s := DefaultCentral
	if len(args) > 0 {
		s = args[0]
	}
	peer, err := ble.ParseAddress(s)
	if err != nil {
		return err
	}
	conn, err := d.sys.Central().Connect(peer, sim.DefaultLinkParams)
	if err != nil {
		return err
	}
	fmt.Fprintf(d.rl.Stdout(), "Connected %s (id %d, session %s)\n", conn.Peer, conn.ID, conn.Session)
	return nil
}

func (d *Device) cmdRead(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: read <handle> [offset]")
	}
	handle, err := parseUint16(args[0])
	if err != nil {
		return err
	}
	var offset uint16
	if len(args) > 1 {
		if offset, err = parseUint16(args[1]); err != nil {
			return err
		}
	}
	return d.access(func(c *sim.Engine) error { return c.Read(handle, offset) })
}

func (d *Device) cmdWrite(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: write <handle> <hex>")
	}
	handle, err := parseUint16(args[0])
	if err != nil {
		return err
	}
	value, err := hex.DecodeString(strings.TrimPrefix(args[1], "0x"))
	if err != nil {
		return fmt.Errorf("value: %w", err)
	}
	return d.access(func(c *sim.Engine) error { return c.Write(handle, value) })
}

func (d *Device) cmdNotify(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: notify temp|battery on|off")
	}
	var handle uint16
	switch args[0] {
	case "temp", "temperature":
		handle = gatt.HandleTemperatureConfig
	case "battery":
		handle = gatt.HandleBatteryLevelConfig
	default:
		return fmt.Errorf("unknown characteristic %q", args[0])
	}
	cfg := gatt.ConfigNone
	if on, err := parseOnOff(args[1]); err != nil {
		return err
	} else if on {
		cfg = gatt.ConfigNotification
	}
	return d.access(func(c *sim.Engine) error { return c.Write(handle, cfg.Bytes()) })
}

func (d *Device) cmdName(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: name <text>")
	}
	name := []byte(strings.Join(args, " "))
	return d.access(func(c *sim.Engine) error { return c.Write(gatt.HandleDeviceName, name) })
}

func (d *Device) cmdUpdate(args []string) error {
	if len(args) < 3 {
		return fmt.Errorf("usage: update <interval> <latency> <timeout>")
	}
	var v [3]uint16
	for i := range v {
		n, err := parseUint16(args[i])
		if err != nil {
			return err
		}
		v[i] = n
	}
	return d.sys.Central().UpdateParams(ble.LinkParams{Interval: v[0], Latency: v[1], Timeout: v[2]})
}

func (d *Device) cmdRejectUpdates(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: reject-updates on|off")
	}
	on, err := parseOnOff(args[0])
	if err != nil {
		return err
	}
	d.sys.Central().RejectUpdates(on)
	return nil
}

func (d *Device) cmdMeasure(args []string) error {
	celsius := 36.6
	if len(args) > 0 {
		v, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return err
		}
		celsius = v
	}
	return d.sys.Post(ble.MeasurementTaken{Reading: services.NewReading(celsius)})
}

func (d *Device) cmdBattery(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: battery <mV>")
	}
	mv, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil {
		return err
	}
	d.sys.SetSupply(uint32(mv))
	return d.sys.Post(ble.BatteryLow{})
}

// access runs fn and prints the device's response once it arrives.
func (d *Device) access(fn func(*sim.Engine) error) error {
	central := d.sys.Central()
	before := len(central.Responses())
	if err := fn(central); err != nil {
		return err
	}

	deadline := time.Now().Add(responseWait)
	for time.Now().Before(deadline) {
		if responses := central.Responses(); len(responses) > before {
			r := responses[before]
			fmt.Fprintf(d.rl.Stdout(), "0x%04X %s %s\n", r.Handle, r.Status, hex.EncodeToString(r.Value))
			return nil
		}
		time.Sleep(10 * time.Millisecond)
	}
	return fmt.Errorf("no response within %s", responseWait)
}

func parseUint16(s string) (uint16, error) {
	n, err := strconv.ParseUint(s, 0, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	return uint16(n), nil
}

func parseOnOff(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on", "yes", "true", "1":
		return true, nil
	case "off", "no", "false", "0":
		return false, nil
	}
	return false, fmt.Errorf("expected on or off, got %q", s)
}
