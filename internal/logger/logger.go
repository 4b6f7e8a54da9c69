package logger

import (
	"sync"

	"go.uber.org/zap"
)

var (
	mu   sync.Mutex
	base = zap.NewNop()
)

// Init configures the process-wide logger. Debug enables development output
// with full caller information; otherwise logs are structured JSON at info
// level. Safe to call more than once; the last call wins.
func Init(debug bool) error {
	var (
		l   *zap.Logger
		err error
	)

	if debug {
		l, err = zap.NewDevelopment()
	} else {
		cfg := zap.NewProductionConfig()
		cfg.OutputPaths = []string{"stderr"}
		l, err = cfg.Build()
	}
	if err != nil {
		return err
	}

	mu.Lock()
	base = l
	mu.Unlock()
	return nil
}

// L returns the process-wide logger. Before Init it is a no-op logger, so
// library code can log unconditionally.
func L() *zap.Logger {
	mu.Lock()
	defer mu.Unlock()
	return base
}

// Sync flushes buffered log entries. Call on process exit.
func Sync() {
	mu.Lock()
	l := base
	mu.Unlock()
	_ = l.Sync()
}

// WithField returns a logger with a single string field attached.
func WithField(key, value string) *zap.Logger {
	return L().With(zap.String(key, value))
}
