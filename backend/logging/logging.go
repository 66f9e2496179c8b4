// Package logging holds the process-wide structured logger used by the
// backend packages.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log is usable before Init is called (it discards everything), which keeps
// packages that log testable without any setup.
var Log = zap.NewNop().Sugar()

var level = zap.NewAtomicLevelAt(zapcore.InfoLevel)

// Init builds the production logger. Debug mode lowers the level so that
// per-request and per-gateway messages are emitted.
func Init(debug bool) error {
	config := zap.NewProductionConfig()
	config.Level = level
	config.Encoding = "console"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if debug {
		level.SetLevel(zapcore.DebugLevel)
	}

	logger, err := config.Build()
	if err != nil {
		return err
	}

	Log = logger.Sugar()
	return nil
}

// Sync flushes any buffered log entries
func Sync() {
	_ = Log.Sync()
}
