package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log is the process-wide logger. It is a no-op logger until Init is called,
// so packages can log from tests without setup.
var Log = zap.NewNop()

// Options controls how Init builds the logger.
type Options struct {
	Level       string // debug, info, warn, error
	Development bool   // console encoder with caller and stack traces on warn
}

// Init builds the global logger with default options.
func Init() {
	if err := InitWith(Options{Level: "info"}); err != nil {
		Log = zap.NewExample()
	}
}

// InitWith builds the global logger from opts.
func InitWith(opts Options) error {
	var lvl zapcore.Level
	if opts.Level != "" {
		if err := lvl.UnmarshalText([]byte(opts.Level)); err != nil {
			return err
		}
	}

	cfg := zap.NewProductionConfig()
	if opts.Development {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	l, err := cfg.Build()
	if err != nil {
		return err
	}
	Log = l
	return nil
}

// Sync flushes buffered log entries. Errors from syncing stdout/stderr are ignored.
func Sync() {
	_ = Log.Sync()
}
