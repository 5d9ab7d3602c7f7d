// Package config loads, normalizes, and validates thumbgen configuration.
//
// A Config is built once per process from repository defaults, an optional
// TOML file, and environment overrides (the same variable names the operator
// keeps in .env). Every path is resolved against the configured root so the
// rest of the system only ever sees absolute locations. After Load returns the
// value is treated as read-only and handed to each component's constructor.
package config
