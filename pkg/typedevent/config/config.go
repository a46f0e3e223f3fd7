package config

import (
	"errors"
	"fmt"
	"time"
)

// ErrChannelNotFound is returned by File.Channel for an undeclared name.
var ErrChannelNotFound = errors.New("channel not declared")

// Channel holds the file-level settings of one channel.
type Channel struct {
	// Name labels logs, metrics, and spans.
	Name string `yaml:"name" json:"name"`

	// ExpectTimeout is the default deadline used by ExpectDefault.
	// Zero means no deadline.
	ExpectTimeout Duration `yaml:"expect_timeout" json:"expect_timeout"`

	// Recover converts handler panics into errors.
	Recover bool `yaml:"recover" json:"recover"`

	// Metrics enables the OpenTelemetry metrics recorder.
	Metrics bool `yaml:"metrics" json:"metrics"`

	// Tracing enables OpenTelemetry spans for emissions.
	Tracing bool `yaml:"tracing" json:"tracing"`
}

// Validate reports settings that cannot be applied.
func (c Channel) Validate() error {
	if c.ExpectTimeout < 0 {
		return fmt.Errorf("channel %q: expect_timeout must not be negative", c.Name)
	}
	return nil
}

// File is a document declaring several channels.
type File struct {
	Channels []Channel `yaml:"channels" json:"channels"`
}

// Channel returns the declaration with the given name.
func (f File) Channel(name string) (Channel, error) {
	for _, c := range f.Channels {
		if c.Name == name {
			return c, nil
		}
	}
	return Channel{}, fmt.Errorf("%w: %s", ErrChannelNotFound, name)
}

// Validate validates every declared channel and rejects duplicate names.
func (f File) Validate() error {
	seen := make(map[string]struct{}, len(f.Channels))
	var errs []error
	for _, c := range f.Channels {
		if _, dup := seen[c.Name]; dup {
			errs = append(errs, fmt.Errorf("channel %q declared twice", c.Name))
		}
		seen[c.Name] = struct{}{}
		if err := c.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Duration is a time.Duration that decodes from a duration string or a
// number of seconds.
type Duration time.Duration

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// parseDuration accepts:
//   - string: parsed with time.ParseDuration
//   - int, int64: interpreted as seconds
//   - float64: interpreted as seconds
func parseDuration(v any) (Duration, error) {
	switch val := v.(type) {
	case nil:
		return 0, nil
	case string:
		if val == "" {
			return 0, nil
		}
		d, err := time.ParseDuration(val)
		if err != nil {
			return 0, fmt.Errorf("parse duration %q: %w", val, err)
		}
		return Duration(d), nil
	case int:
		return Duration(time.Duration(val) * time.Second), nil
	case int64:
		return Duration(time.Duration(val) * time.Second), nil
	case float64:
		return Duration(time.Duration(val * float64(time.Second))), nil
	}
	return 0, fmt.Errorf("unsupported duration value %v (%T)", v, v)
}
