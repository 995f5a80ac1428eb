// Command htp-device runs the health thermometer peripheral against the
// simulated protocol engine.
//
// Usage:
//
//	htp-device [flags]
//
// Flags:
//
//	-config string        Configuration file path
//	-name string          Device name (overrides config)
//	-address string       Local device address (overrides config)
//	-nvm string           NVM image path; empty keeps the store in memory
//	-log-level string     Log level: debug, info, warn, error
//	-protocol-log string  Protocol event log file
//	-monitor string       Listen address for the live event monitor
//	-interactive          Drive the simulated central from a shell
//	-auto                 Connect and pair a simulated central automatically
//
// Examples:
//
//	# Run with defaults and an interactive central
//	htp-device -interactive
//
//	# Persist bonding across runs and record protocol events
//	htp-device -nvm /var/lib/htp/nvm.cbor -protocol-log /tmp/htp.log
//
//	# Watch events live
//	htp-device -auto -monitor :8088
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/htp-ble/htp-go/cmd/htp-device/interactive"
	"github.com/htp-ble/htp-go/internal/sim"
	"github.com/htp-ble/htp-go/pkg/ble"
	"github.com/htp-ble/htp-go/pkg/config"
	"github.com/htp-ble/htp-go/pkg/log"
	"github.com/htp-ble/htp-go/pkg/nvm"
	"github.com/htp-ble/htp-go/pkg/peripheral"
	"github.com/htp-ble/htp-go/pkg/persistence"
	"github.com/htp-ble/htp-go/pkg/timer"
)

// exitFatal is the exit status after the peripheral halts.
const exitFatal = 2

type flags struct {
	ConfigFile  string
	Name        string
	Address     string
	NVMPath     string
	LogLevel    string
	ProtocolLog string
	Monitor     string
	Interactive bool
	Auto        bool
}

var opts flags

func init() {
	flag.StringVar(&opts.ConfigFile, "config", "", "Configuration file path")
	flag.StringVar(&opts.Name, "name", "", "Device name (overrides config)")
	flag.StringVar(&opts.Address, "address", "", "Local device address, e.g. 00:02:5B:00:15:10")
	flag.StringVar(&opts.NVMPath, "nvm", "", "NVM image path (in memory if empty)")
	flag.StringVar(&opts.LogLevel, "log-level", "", "Log level: debug, info, warn, error")
	flag.StringVar(&opts.ProtocolLog, "protocol-log", "", "Protocol event log file")
	flag.StringVar(&opts.Monitor, "monitor", "", "Listen address for the live event monitor")
	flag.BoolVar(&opts.Interactive, "interactive", false, "Drive the simulated central from a shell")
	flag.BoolVar(&opts.Auto, "auto", false, "Connect and pair a simulated central automatically")
}

func main() {
	flag.Parse()
	os.Exit(run())
}

func run() int {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		return 1
	}

	var shell *interactive.Device
	var out io.Writer = os.Stderr
	if opts.Interactive {
		shell, err = interactive.New()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Interactive mode: %v\n", err)
			return 1
		}
		out = shell.Stderr()
	}
	logger := setupLogging(cfg.Logging.Level, out)

	store, err := openStore(cfg.Storage)
	if err != nil {
		logger.Error("open nvm", "error", err)
		return 1
	}

	protocol, closeProtocol, err := setupProtocolLog(cfg.Logging, logger)
	if err != nil {
		logger.Error("protocol log", "error", err)
		return 1
	}
	defer closeProtocol()

	runner := peripheral.NewRunner()
	clock := timer.NewClock(runner.PostFunc)
	defer clock.Stop()

	engine := sim.New(sim.Config{
		Deliver: func(ev ble.Event) {
			if err := runner.Post(ev); err != nil {
				logger.Debug("event dropped", "event", ev.Name(), "error", err)
			}
		},
		Logger: logger,
	})

	supply := &supplyVoltage{}
	supply.Set(cfg.Battery.Millivolts)

	pc := peripheral.Config{
		Engine:         engine,
		Timers:         clock,
		Store:          store,
		Logger:         logger,
		ProtocolLogger: protocol,
	}
	if err := cfg.Apply(&pc); err != nil {
		logger.Error("apply config", "error", err)
		return 1
	}
	pc.Battery.Sensor = supply
	pc.Indicator = peripheral.LogIndicator{Logger: logger}

	machine, err := peripheral.New(pc)
	if err != nil {
		logger.Error("create peripheral", "error", err)
		return 1
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger.Info("HTP thermometer starting",
		"name", cfg.Device.Name,
		"address", cfg.Device.Address,
		"nvm", cfg.Storage.NVMPath)

	done := make(chan error, 1)
	go func() { done <- runner.Run(ctx, machine) }()

	sys := &system{runner: runner, machine: machine, engine: engine, supply: supply}
	go runMeasurements(ctx, sys, cfg.Measurement.Interval, logger)
	if opts.Auto {
		go runAutoCentral(ctx, sys, logger)
	}
	if shell != nil {
		go shell.Run(ctx, cancel, sys)
	}

	err = <-done
	var fe *peripheral.FatalError
	switch {
	case errors.As(err, &fe):
		logger.Error("peripheral halted", "code", fe.Code.String(), "error", fe)
		return exitFatal
	case err != nil && !errors.Is(err, context.Canceled):
		logger.Error("peripheral stopped", "error", err)
		return 1
	}
	logger.Info("Goodbye!")
	return 0
}

func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if opts.ConfigFile != "" {
		loaded, err := config.Load(opts.ConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if opts.Name != "" {
		cfg.Device.Name = opts.Name
	}
	if opts.Address != "" {
		cfg.Device.Address = opts.Address
	}
	if opts.NVMPath != "" {
		cfg.Storage.NVMPath = opts.NVMPath
	}
	if opts.LogLevel != "" {
		cfg.Logging.Level = opts.LogLevel
	}
	if opts.ProtocolLog != "" {
		cfg.Logging.ProtocolLog = opts.ProtocolLog
	}
	if opts.Monitor != "" {
		cfg.Logging.Monitor = opts.Monitor
	}
	return cfg, cfg.Validate()
}

func setupLogging(level string, w io.Writer) *slog.Logger {
	lvl, err := config.ParseLevel(level)
	if err != nil {
		lvl = slog.LevelInfo
	}
	handlerOpts := &slog.HandlerOptions{Level: lvl}
	if lvl == slog.LevelDebug {
		handlerOpts.AddSource = true
	}
	logger := slog.New(slog.NewTextHandler(w, handlerOpts))
	slog.SetDefault(logger)
	return logger
}

// openStore opens the NVM image file, or an in-memory store when no path is
// configured. The file store saves on every write.
func openStore(cfg config.Storage) (nvm.Store, error) {
	if cfg.NVMPath == "" {
		return nvm.NewMemory(cfg.NVMWords), nil
	}
	return persistence.OpenFileStore(cfg.NVMPath, cfg.NVMWords)
}

// setupProtocolLog builds the protocol logger from the file and monitor
// settings. It returns nil when neither is configured.
func setupProtocolLog(cfg config.Logging, logger *slog.Logger) (log.Logger, func(), error) {
	var loggers []log.Logger
	var closers []func()
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	if cfg.ProtocolLog != "" {
		fl, err := log.NewFileLogger(cfg.ProtocolLog)
		if err != nil {
			return nil, nil, err
		}
		loggers = append(loggers, fl)
		closers = append(closers, func() {
			if n := fl.Dropped(); n > 0 {
				logger.Warn("protocol events dropped", "count", n)
			}
			_ = fl.Close()
		})
		logger.Info("protocol log", "path", cfg.ProtocolLog)
	}

	if cfg.Monitor != "" {
		ln, err := net.Listen("tcp", cfg.Monitor)
		if err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("monitor: %w", err)
		}
		b := log.NewBroadcaster()
		mux := http.NewServeMux()
		mux.Handle("/events", b)
		srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Warn("monitor stopped", "error", err)
			}
		}()
		loggers = append(loggers, b)
		closers = append(closers, func() {
			b.Close()
			_ = srv.Close()
		})
		logger.Info("event monitor", "url", "ws://"+ln.Addr().String()+"/events")
	}

	if len(loggers) == 0 {
		return nil, closeAll, nil
	}
	return log.NewMultiLogger(loggers...), closeAll, nil
}

// supplyVoltage is the simulated battery supply.
type supplyVoltage struct {
	mv atomic.Uint32
}

func (s *supplyVoltage) Millivolts() uint32 { return s.mv.Load() }

func (s *supplyVoltage) Set(mv uint32) { s.mv.Store(mv) }
