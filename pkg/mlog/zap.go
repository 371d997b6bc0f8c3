package mlog

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapLogger adapts *zap.SugaredLogger to the Logger interface.
type ZapLogger struct {
	s *zap.SugaredLogger
}

// NewZapLogger builds a ZapLogger for the given environment name ("production"
// or anything else for development) and log level (empty uses InfoLevel).
func NewZapLogger(envName, logLevel string) (*ZapLogger, error) {
	var cfg zap.Config
	if envName == "production" {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	if logLevel != "" {
		var lvl zapcore.Level
		if err := lvl.Set(logLevel); err == nil {
			cfg.Level = zap.NewAtomicLevelAt(lvl)
		}
	}

	cfg.DisableStacktrace = true
	cfg.OutputPaths = []string{"stdout"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	logger, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, err
	}

	return &ZapLogger{s: logger.Sugar()}, nil
}

func (l *ZapLogger) Info(args ...any)                 { l.s.Info(args...) }
func (l *ZapLogger) Infof(format string, args ...any)  { l.s.Infof(format, args...) }
func (l *ZapLogger) Warn(args ...any)                  { l.s.Warn(args...) }
func (l *ZapLogger) Warnf(format string, args ...any)  { l.s.Warnf(format, args...) }
func (l *ZapLogger) Error(args ...any)                 { l.s.Error(args...) }
func (l *ZapLogger) Errorf(format string, args ...any) { l.s.Errorf(format, args...) }
func (l *ZapLogger) Fatal(args ...any)                 { l.s.Fatal(args...) }
func (l *ZapLogger) Fatalf(format string, args ...any) { l.s.Fatalf(format, args...) }

func (l *ZapLogger) With(fields ...any) Logger {
	return &ZapLogger{s: l.s.With(fields...)}
}

func (l *ZapLogger) Sync() error {
	err := l.s.Sync()
	// Syncing stdout on a terminal routinely returns ENOTTY; the teacher's
	// logger discards it rather than treating it as a shutdown failure.
	if err != nil && os.Getenv("ENV_NAME") != "production" {
		return nil
	}

	return err
}
