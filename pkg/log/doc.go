// Package log provides structured protocol logging for the peripheral.
//
// It is separate from operational logging (slog): protocol capture records
// every notification the engine delivers, every request the application
// issues, every lifecycle state change and every timer arm, cancel and
// expiry as a machine-readable trace.
//
// # Basic Usage
//
//	// Console, via slog
//	cfg.ProtocolLogger = log.NewSlogAdapter(slog.Default())
//
//	// Binary file
//	fl, _ := log.NewFileLogger("/var/log/htp/device.hlog")
//	cfg.ProtocolLogger = fl
//
//	// Both, plus a live websocket feed
//	cfg.ProtocolLogger = log.NewMultiLogger(
//	    log.NewSlogAdapter(slog.Default()),
//	    fl,
//	    log.NewBroadcaster(),
//	)
//
// # File Format
//
// Log files are a sequence of CBOR-encoded Events with integer keys, using
// the .hlog extension. The htp-log tool views and summarizes them.
package log
