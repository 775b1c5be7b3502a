// Package logger provides structured logging using Zap.
package logger

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

var (
	sugar atomic.Pointer[zap.SugaredLogger]
	once  sync.Once
)

// Init initializes the global logger for the given environment.
// For "production", it uses a JSON encoder. "test" gets a no-op logger so
// test output stays readable. All other environments use a console encoder.
func Init(env string) {
	once.Do(func() {
		var base *zap.Logger
		var err error

		switch env {
		case "production":
			base, err = zap.NewProduction()
		case "test":
			base = zap.NewNop()
		default:
			base, err = zap.NewDevelopment()
		}

		if err != nil {
			// Fallback to nop logger if initialization fails.
			base = zap.NewNop()
		}

		sugar.Store(base.With(zap.String("service", "fintrack")).Sugar())
	})
}

// Get returns the global sugared logger.
// If Init has not been called, it initializes a development logger.
func Get() *zap.SugaredLogger {
	Init("development")
	return sugar.Load()
}

// Replace swaps the global logger and returns a function restoring the
// previous one.
func Replace(l *zap.Logger) (restore func()) {
	prev := Get()
	sugar.Store(l.Sugar())
	return func() { sugar.Store(prev) }
}

// Sync flushes any buffered log entries. Call this before application exit.
func Sync() {
	if s := sugar.Load(); s != nil {
		_ = s.Sync()
	}
}
