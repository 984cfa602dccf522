// Package logging provides process-wide structured logging for the engine.
//
// This is the host-process analogue of ForgeLogic-nojs's nojs/console
// package (ForgeLogic-nojs/nojs/console/console.go), which shelled out to
// the browser's console object via syscall/js. This engine runs inside a
// host process driving a native-view renderer, not inside a browser, so the
// package-level Log/Warn/Error calls are kept (same call-site shape, same
// three severities) but backed by go.uber.org/zap instead of a JS console
// bridge.
package logging

import "go.uber.org/zap"

var global = zap.NewNop()

// Init installs l as the package-level logger. Call once at process startup;
// engines constructed before Init use the no-op logger.
func Init(l *zap.Logger) {
	if l != nil {
		global = l
	}
}

// Log logs at info level, mirroring console.Log.
func Log(msg string, fields ...zap.Field) {
	global.Info(msg, fields...)
}

// Warn logs at warn level, mirroring console.Warn.
func Warn(msg string, fields ...zap.Field) {
	global.Warn(msg, fields...)
}

// Error logs at error level, mirroring console.Error.
func Error(msg string, fields ...zap.Field) {
	global.Error(msg, fields...)
}

// RateLimited wraps a logger so that repeated identical messages (same key)
// log at most once per `every` calls, per spec.md §7: "if the same pattern
// continues to fail, the engine logs at a reduced rate to avoid log storms."
type RateLimited struct {
	every  int
	counts map[string]int
}

// NewRateLimited creates a rate limiter that lets the first occurrence of a
// given key through, then one in every `every` after it (1st, every+1-th, ...).
func NewRateLimited(every int) *RateLimited {
	if every <= 0 {
		every = 1
	}
	return &RateLimited{every: every, counts: make(map[string]int)}
}

// Allow reports whether the occurrence for key should be logged.
func (r *RateLimited) Allow(key string) bool {
	r.counts[key]++
	return (r.counts[key]-1)%r.every == 0
}
