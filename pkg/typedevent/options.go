package typedevent

import (
	"log/slog"
	"time"

	"github.com/randalmurphal/typedevent/pkg/typedevent/observability"
)

// NoTimeout makes Expect wait without a deadline.
const NoTimeout time.Duration = 0

// channelConfig holds the settings of a channel.
type channelConfig struct {
	name           string
	logger         *slog.Logger
	clock          Clock
	recover        bool
	metrics        observability.MetricsRecorder
	spans          observability.SpanManager
	defaultTimeout time.Duration
}

// defaultChannelConfig returns the settings of a channel built without options.
func defaultChannelConfig() channelConfig {
	return channelConfig{
		clock:   realClock{},
		metrics: observability.NoopMetrics{},
		spans:   observability.NoopSpanManager{},
	}
}

// Option configures a channel.
type Option func(*channelConfig)

// WithName labels the channel in logs, metrics, spans, and errors.
// Default: the channel ID.
func WithName(name string) Option {
	return func(c *channelConfig) {
		c.name = name
	}
}

// WithLogger enables debug logging of registrations and emissions.
// Default: nil (no logging).
func WithLogger(logger *slog.Logger) Option {
	return func(c *channelConfig) {
		c.logger = logger
	}
}

// WithClock replaces the timer facility used for Expect deadlines.
// A nil clock is ignored.
func WithClock(clock Clock) Option {
	return func(c *channelConfig) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithRecover converts handler panics into *PanicError failures.
// Default: panics propagate to the emitter unchanged.
func WithRecover() Option {
	return func(c *channelConfig) {
		c.recover = true
	}
}

// WithMetrics records emission and waiter metrics.
//
// Example:
//
//	ch := typedevent.New[Job, Void](typedevent.WithMetrics(observability.NewMetricsRecorder()))
func WithMetrics(m observability.MetricsRecorder) Option {
	return func(c *channelConfig) {
		if m != nil {
			c.metrics = m
		}
	}
}

// WithSpans enables tracing of emissions and handler invocations.
func WithSpans(s observability.SpanManager) Option {
	return func(c *channelConfig) {
		if s != nil {
			c.spans = s
		}
	}
}

// WithDefaultTimeout sets the deadline used by ExpectDefault.
// Default: NoTimeout.
func WithDefaultTimeout(d time.Duration) Option {
	return func(c *channelConfig) {
		if d > 0 {
			c.defaultTimeout = d
		}
	}
}
