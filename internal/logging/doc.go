// Package logging assembles the slog loggers used across thumbgen.
//
// It owns the console and JSON handlers, the extra SUCCESS level that marks a
// finished record, and two handlers for wiring and tests: a no-op handler and
// an in-memory recorder. Components receive a *slog.Logger through their
// constructors and never reach for a package-level logger.
package logging
