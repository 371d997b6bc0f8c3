// Package mlog defines the structured logging contract shared by every
// service-layer package in the stock ledger. Concrete construction (zap,
// no-op) lives in sibling files so callers depend only on the interface.
package mlog

import "context"

// Logger is the common logging interface used across command, query, outbox
// publisher, and ingest code. Implementations must be safe for concurrent use.
type Logger interface {
	Info(args ...any)
	Infof(format string, args ...any)

	Warn(args ...any)
	Warnf(format string, args ...any)

	Error(args ...any)
	Errorf(format string, args ...any)

	Fatal(args ...any)
	Fatalf(format string, args ...any)

	// With returns a child logger that prefixes every entry with the given
	// key/value pairs (e.g. "sku", sku).
	With(fields ...any) Logger

	Sync() error
}

type loggerContextKey struct{}

// ContextWithLogger returns a context carrying the given logger.
func ContextWithLogger(ctx context.Context, logger Logger) context.Context {
	return context.WithValue(ctx, loggerContextKey{}, logger)
}

// FromContext extracts the Logger stored in ctx, or a no-op logger if none
// was attached.
func FromContext(ctx context.Context) Logger {
	if l, ok := ctx.Value(loggerContextKey{}).(Logger); ok {
		return l
	}

	return NopLogger{}
}
