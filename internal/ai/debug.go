package ai

import "sync/atomic"

// debugLoggingEnabled gates per-tick debug logs of the AI subsystem.
var debugLoggingEnabled atomic.Bool

// EnableDebugLogging switches AI debug logging. Called from main whenever the
// log level is (re)loaded.
func EnableDebugLogging(enabled bool) {
	debugLoggingEnabled.Store(enabled)
}

// IsDebugEnabled reports whether AI debug logging is on.
//
//	if ai.IsDebugEnabled() {
//	    slog.Debug("agent moved", "dest", a.Destination())
//	}
func IsDebugEnabled() bool {
	return debugLoggingEnabled.Load()
}
