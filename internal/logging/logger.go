// Package logging is the moodisland client's structured log. The state
// store reports failed preference writes and the legacy emoji migration,
// the HTTP client reports failed requests and forced logouts, and the
// terminal client reports mode switches and state changes. Output goes to
// stderr so it never mixes with pages rendered on stdout. -v enables the
// debug level.
package logging

import "context"

// Logger is a context-aware, structured logger.
//
// The variadic args are interpreted as key–value pairs, e.g.:
//
//	log.Warn(ctx, "persist failed", "key", key, "err", err)
type Logger interface {
	// Debug logs diagnostic detail, visible only in verbose mode.
	Debug(ctx context.Context, msg string, args ...any)

	// Info logs an informational message.
	Info(ctx context.Context, msg string, args ...any)

	// Warn logs a warning message for unusual but non-fatal conditions.
	Warn(ctx context.Context, msg string, args ...any)

	// Error logs an error message for failures.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key–value pairs.
	With(args ...any) Logger
}
