package ai

import "sync/atomic"

// debugLoggingEnabled gates debug logs on the tick path, where even a
// disabled slog.Debug call costs more than an atomic load.
var debugLoggingEnabled atomic.Bool

// EnableDebugLogging switches AI debug logs on or off.
// Called once from main after the log level is parsed.
func EnableDebugLogging(enabled bool) {
	debugLoggingEnabled.Store(enabled)
}

// IsDebugEnabled guards debug log calls:
//
//	if ai.IsDebugEnabled() {
//	    slog.Debug("attack strike", "objectID", id)
//	}
func IsDebugEnabled() bool {
	return debugLoggingEnabled.Load()
}
