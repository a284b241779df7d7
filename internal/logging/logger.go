// Package logging defines the structured-logging interface used by the
// client REPL and the overview server. SlogLogger is the only implementation.
package logging

import "context"

// Logger takes a message plus alternating key and value args, as slog does:
//
//	log.Info(ctx, "overview updated", "version", next, "author", address)
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger carrying args on every record.
	With(args ...any) Logger
}
