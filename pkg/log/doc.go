// Package log provides the structured power-scaling trace.
//
// This package defines the Logger interface and Event types for capturing
// what happens to a device's policy slot: attach, detach and rollback
// transitions, lifecycle signals routed to the active policy, and writes to
// the property surface. It is separate from operational logging (slog); the
// trace is a complete machine-readable record for debugging policies.
//
// # Basic Usage
//
//	// For development: log to console via slog
//	opts = append(opts, pwrscale.WithEventLogger(log.NewSlogAdapter(slog.Default())))
//
//	// For production: write to binary file
//	fl, _ := log.NewFileLogger("/var/log/pwrscale/gpu0.plog")
//
//	// Both: use MultiLogger
//	logger := log.NewMultiLogger(log.NewSlogAdapter(slog.Default()), fl)
//
// # File Format
//
// Trace files are a stream of CBOR-encoded events (.plog). The
// pwrscale-log tool provides viewing, statistics and export.
package log
