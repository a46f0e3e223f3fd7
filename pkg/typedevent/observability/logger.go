// Package observability provides structured logging, metrics, and tracing
// for typedevent channels.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// All features are opt-in and have no-op implementations when disabled.
// None of them swallow errors: handler failures are always returned to the
// emitter, logging only mirrors them.
package observability

import (
	"log/slog"
	"time"
)

// EnrichLogger adds channel context to a logger.
// Returns a new logger with channel_id and channel fields.
//
// Example:
//
//	enriched := EnrichLogger(logger, ch.ID(), "plugin.loaded")
//	enriched.Debug("emitting") // includes channel_id, channel
func EnrichLogger(logger *slog.Logger, channelID, channelName string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(
		slog.String("channel_id", channelID),
		slog.String("channel", channelName),
	)
}

// LogRegister logs a handler registration.
// kind is the registration flavour ("handler", "once", "once_pred", "expect", ...).
func LogRegister(logger *slog.Logger, registrationID uint64, kind string) {
	if logger == nil {
		return
	}
	logger.Debug("handler registered",
		slog.Uint64("registration_id", registrationID),
		slog.String("kind", kind),
	)
}

// LogUnregister logs removal of a handler registration.
func LogUnregister(logger *slog.Logger, registrationID uint64) {
	if logger == nil {
		return
	}
	logger.Debug("handler unregistered",
		slog.Uint64("registration_id", registrationID),
	)
}

// LogEmitStart logs the start of an emission.
func LogEmitStart(logger *slog.Logger, emitID string, handlers int) {
	if logger == nil {
		return
	}
	logger.Debug("emit starting",
		slog.String("emit_id", emitID),
		slog.Int("handlers", handlers),
	)
}

// LogEmitComplete logs an emission where every handler returned successfully.
func LogEmitComplete(logger *slog.Logger, emitID string, duration time.Duration, handlers int) {
	if logger == nil {
		return
	}
	logger.Debug("emit completed",
		slog.String("emit_id", emitID),
		slog.Float64("duration_ms", durationMs(duration)),
		slog.Int("handlers_invoked", handlers),
	)
}

// LogEmitError logs an emission aborted by a failing handler at index.
func LogEmitError(logger *slog.Logger, emitID string, err error, duration time.Duration, index int) {
	if logger == nil {
		return
	}
	logger.Warn("emit aborted",
		slog.String("emit_id", emitID),
		slog.String("error", err.Error()),
		slog.Float64("duration_ms", durationMs(duration)),
		slog.Int("handler_index", index),
	)
}

// LogExpectTimeout logs an Expect waiter that gave up without a match.
func LogExpectTimeout(logger *slog.Logger, registrationID uint64, timeout time.Duration) {
	if logger == nil {
		return
	}
	logger.Debug("expect timed out",
		slog.Uint64("registration_id", registrationID),
		slog.Duration("timeout", timeout),
	)
}
