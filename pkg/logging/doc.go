// Package logging provides structured logging configuration for blogd.
//
// This package wraps log/slog so that the server, the store observer and the
// CLI share one logger setup.
//
// # Usage
//
//	logger := logging.New(logging.Config{
//	    Level:  logging.LevelInfo,
//	    Format: logging.FormatJSON,
//	})
//
//	logger.Info("server started", "addr", ":8080")
//
// # Request Scope
//
// HTTP middleware stores a per-request logger (carrying the request id) in the
// request context with WithLogger. Handlers retrieve it with FromContext, which
// falls back to a no-op logger so handlers never need a nil check.
//
// # Integration
//
// Components accept a *slog.Logger in their constructor or via an option.
// If no logger is provided, use logging.Nop().
package logging
