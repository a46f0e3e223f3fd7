package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Waiter outcomes reported to RecordWaiter.
const (
	OutcomeResolved = "resolved"
	OutcomeTimeout  = "timeout"
	OutcomeCanceled = "canceled"
)

// MetricsRecorder records typedevent metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordEmit records a finished emission with the number of handlers in
	// its snapshot, its duration and error status.
	RecordEmit(ctx context.Context, channel string, handlers int, duration time.Duration, err error)

	// RecordHandler records a single handler invocation.
	RecordHandler(ctx context.Context, channel string, duration time.Duration, err error)

	// RecordWaiter records how a transient waiter (expect, async) settled.
	RecordWaiter(ctx context.Context, channel, kind, outcome string)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	emits          metric.Int64Counter
	emitLatency    metric.Float64Histogram
	emitErrors     metric.Int64Counter
	emitHandlers   metric.Int64Histogram
	handlerLatency metric.Float64Histogram
	handlerErrors  metric.Int64Counter
	waiters        metric.Int64Counter
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics returns the default OTel metrics instance.
// Lazily initializes the metrics on first call.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

// newOtelMetrics creates a new OTel metrics instance.
func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("typedevent")

	emits, err := meter.Int64Counter("typedevent.emit.count",
		metric.WithDescription("Number of emissions"),
	)
	if err != nil {
		return nil, err
	}

	emitLatency, err := meter.Float64Histogram("typedevent.emit.latency_ms",
		metric.WithDescription("Emission latency across all handlers in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	emitErrors, err := meter.Int64Counter("typedevent.emit.errors",
		metric.WithDescription("Number of emissions aborted by a handler error"),
	)
	if err != nil {
		return nil, err
	}

	emitHandlers, err := meter.Int64Histogram("typedevent.emit.handlers",
		metric.WithDescription("Handlers registered when an emission started"),
	)
	if err != nil {
		return nil, err
	}

	handlerLatency, err := meter.Float64Histogram("typedevent.handler.latency_ms",
		metric.WithDescription("Handler latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	handlerErrors, err := meter.Int64Counter("typedevent.handler.errors",
		metric.WithDescription("Number of handler errors"),
	)
	if err != nil {
		return nil, err
	}

	waiters, err := meter.Int64Counter("typedevent.waiter.settled",
		metric.WithDescription("Number of settled waiters by outcome"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		emits:          emits,
		emitLatency:    emitLatency,
		emitErrors:     emitErrors,
		emitHandlers:   emitHandlers,
		handlerLatency: handlerLatency,
		handlerErrors:  handlerErrors,
		waiters:        waiters,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the provider
// before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

// RecordEmit records an emission.
func (m *otelMetrics) RecordEmit(ctx context.Context, channel string, handlers int, duration time.Duration, err error) {
	attrs := metric.WithAttributes(attribute.String("channel", channel))

	m.emits.Add(ctx, 1, attrs)
	m.emitLatency.Record(ctx, durationMs(duration), attrs)
	m.emitHandlers.Record(ctx, int64(handlers), attrs)

	if err != nil {
		m.emitErrors.Add(ctx, 1, attrs)
	}
}

// RecordHandler records a handler invocation.
func (m *otelMetrics) RecordHandler(ctx context.Context, channel string, duration time.Duration, err error) {
	attrs := metric.WithAttributes(attribute.String("channel", channel))

	m.handlerLatency.Record(ctx, durationMs(duration), attrs)
	if err != nil {
		m.handlerErrors.Add(ctx, 1, attrs)
	}
}

// RecordWaiter records a settled waiter.
func (m *otelMetrics) RecordWaiter(ctx context.Context, channel, kind, outcome string) {
	m.waiters.Add(ctx, 1, metric.WithAttributes(
		attribute.String("channel", channel),
		attribute.String("kind", kind),
		attribute.String("outcome", outcome),
	))
}

func durationMs(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}
