package mlog

// NopLogger discards every log entry. Used as the default when no logger is
// attached to a context, and in unit tests that don't care about output.
type NopLogger struct{}

func (NopLogger) Info(args ...any)                 {}
func (NopLogger) Infof(format string, args ...any)  {}
func (NopLogger) Warn(args ...any)                  {}
func (NopLogger) Warnf(format string, args ...any)  {}
func (NopLogger) Error(args ...any)                 {}
func (NopLogger) Errorf(format string, args ...any) {}
func (NopLogger) Fatal(args ...any)                 {}
func (NopLogger) Fatalf(format string, args ...any) {}
func (NopLogger) With(fields ...any) Logger         { return NopLogger{} }
func (NopLogger) Sync() error                       { return nil }
