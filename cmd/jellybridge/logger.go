package main

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// newLogger builds a production zap logger writing to stderr.
func newLogger(level string, verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	if verbose {
		lvl = zapcore.DebugLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}

// zapLogger adapts zap to the logger interfaces of the library packages.
// Routine messages go to Debug and failures to Warn.
type zapLogger struct {
	l *zap.SugaredLogger
}

func (z zapLogger) Logf(format string, args ...any) {
	z.l.Debugf(format, args...)
}

func (z zapLogger) Warnf(format string, args ...any) {
	z.l.Warnf(format, args...)
}
