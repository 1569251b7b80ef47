// Package debug is the generator's structured debug log, backed by
// log/slog. It is silent unless enabled, so library callers pay nothing
// for the instrumentation sprinkled through the pipeline.
package debug

import (
	"io"
	"log/slog"
	"os"
	"sync"
)

var (
	mu      sync.RWMutex
	enabled bool
	logger  = slog.New(slog.NewTextHandler(io.Discard, nil))
)

// Init turns debug logging on or off. When enabled, records go to stderr
// at debug level; when disabled, they are discarded.
func Init(enable bool) {
	mu.Lock()
	defer mu.Unlock()
	enabled = enable
	if enable {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	} else {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
}

// Enabled reports whether debug logging is currently on.
func Enabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return enabled
}

func Debug(msg string, args ...any) {
	mu.RLock()
	l := logger
	mu.RUnlock()
	l.Debug(msg, args...)
}

func Info(msg string, args ...any) {
	mu.RLock()
	l := logger
	mu.RUnlock()
	l.Info(msg, args...)
}

func Warn(msg string, args ...any) {
	mu.RLock()
	l := logger
	mu.RUnlock()
	l.Warn(msg, args...)
}

func Error(msg string, args ...any) {
	mu.RLock()
	l := logger
	mu.RUnlock()
	l.Error(msg, args...)
}

// With returns a child logger carrying the given attributes.
func With(args ...any) *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger.With(args...)
}
