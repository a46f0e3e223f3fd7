package typedevent

import (
	"github.com/randalmurphal/typedevent/pkg/typedevent/config"
	"github.com/randalmurphal/typedevent/pkg/typedevent/observability"
)

// FromConfig converts a channel declaration into options. Metrics and
// tracing use the global OpenTelemetry providers.
//
// Example:
//
//	decl, err := config.FromFile("hooks/ready.yaml")
//	if err != nil {
//	    return err
//	}
//	ready := typedevent.New[Void, Void](append(typedevent.FromConfig(decl), typedevent.WithLogger(logger))...)
func FromConfig(c config.Channel) []Option {
	var opts []Option
	if c.Name != "" {
		opts = append(opts, WithName(c.Name))
	}
	if c.ExpectTimeout > 0 {
		opts = append(opts, WithDefaultTimeout(c.ExpectTimeout.Std()))
	}
	if c.Recover {
		opts = append(opts, WithRecover())
	}
	if c.Metrics {
		opts = append(opts, WithMetrics(observability.NewMetricsRecorder()))
	}
	if c.Tracing {
		opts = append(opts, WithSpans(observability.NewSpanManager()))
	}
	return opts
}
