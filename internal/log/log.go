// Package log is a thin structured-logging facade over zap. Call sites use
// message + alternating key/value pairs; Error prepends the error into the
// key-value list so it always lands under the "err" key.
package log

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelError Level = "error"
)

var (
	mu     sync.Mutex
	logger *zap.SugaredLogger
	level  = zap.NewAtomicLevelAt(zapcore.InfoLevel)
)

func get() *zap.SugaredLogger {
	mu.Lock()
	defer mu.Unlock()
	if logger == nil {
		logger = build()
	}
	return logger
}

func build() *zap.SugaredLogger {
	cfg := zap.NewProductionConfig()
	cfg.Level = level
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.MessageKey = "msg"

	z, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		// Fall back to the no-frills example logger rather than fail startup.
		z = zap.NewExample()
	}
	return z.Sugar()
}

// SetLevel adjusts the minimum level for all subsequent log calls.
func SetLevel(l Level) {
	switch l {
	case LevelDebug:
		level.SetLevel(zapcore.DebugLevel)
	case LevelError:
		level.SetLevel(zapcore.ErrorLevel)
	default:
		level.SetLevel(zapcore.InfoLevel)
	}
}

func Debug(msg string, kv ...any) {
	get().Debugw(msg, kv...)
}

func Info(msg string, kv ...any) {
	get().Infow(msg, kv...)
}

func Error(msg string, err error, kv ...any) {
	extended := append([]any{"err", err}, kv...)
	get().Errorw(msg, extended...)
}

// Sync flushes buffered log entries; call on shutdown.
func Sync() {
	_ = get().Sync()
}
