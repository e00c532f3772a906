// Package log provides structured protocol logging for the gigex client.
//
// This package defines the Logger interface and Event types for capturing
// protocol-level events at each layer (transport, protocol, discovery).
// It is separate from operational logging: protocol capture provides a
// complete machine-readable trace of every frame, command and failure for
// debugging against real boards.
//
// The Logger doubles as the client's error sink. Every failure path in
// the client emits an error event carrying the operation name, the device
// involved when known, the numeric status code and the message, so one
// registration at construction time observes every error.
//
// # Basic Usage
//
// Applications configure logging by providing a Logger implementation:
//
//	// For development: log to console via slog
//	cfg.Logger = log.NewSlogAdapter(slog.Default())
//
//	// For production: write to binary file
//	cfg.Logger, _ = log.NewFileLogger("session.glog")
//
//	// Both: use MultiLogger
//	cfg.Logger = log.NewMultiLogger(
//	    log.NewSlogAdapter(slog.Default()),
//	    fileLogger,
//	)
//
// # File Format
//
// Log files use CBOR encoding with the .glog extension. The gigex-ctl
// log subcommands provide viewing and export.
package log
