package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
)

type Logger interface {
	Debugf(format string, values ...interface{})
	Infof(format string, values ...interface{})
	Warnf(format string, values ...interface{})
	Errorf(format string, values ...interface{})
	Criticalf(format string, values ...interface{})
	Fatalf(format string, values ...interface{})

	// Named returns a logger with name appended to its name.
	Named(name string) Logger
	// With returns a logger that adds the key value pairs to every entry.
	With(keyvals ...interface{}) Logger
	Sync() error
}

var _ Logger = (*zapLogger)(nil)

type zapLogger struct {
	*zap.SugaredLogger
}

// New returns a production JSON logger writing at level to stderr.
func New(level string) (Logger, error) {
	lvl := zapcore.InfoLevel
	if level != "" {
		if err := lvl.UnmarshalText([]byte(level)); err != nil {
			return nil, err
		}
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	l, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return FromZap(l), nil
}

func FromZap(l *zap.Logger) Logger {
	return &zapLogger{l.Sugar()}
}

// Nop returns a logger that discards everything.
func Nop() Logger {
	return FromZap(zap.NewNop())
}

// Test returns a logger that writes through t.Log.
func Test(t testing.TB) Logger {
	return FromZap(zaptest.NewLogger(t))
}

// Criticalf logs at DPanic, which panics in development loggers only.
func (l *zapLogger) Criticalf(format string, values ...interface{}) {
	l.DPanicf(format, values...)
}

func (l *zapLogger) Named(name string) Logger {
	return &zapLogger{l.SugaredLogger.Named(name)}
}

func (l *zapLogger) With(keyvals ...interface{}) Logger {
	return &zapLogger{l.SugaredLogger.With(keyvals...)}
}
