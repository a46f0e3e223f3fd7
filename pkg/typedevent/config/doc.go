/*
Package config loads channel settings from YAML or JSON.

Hosts that declare their hook points in a file can describe the
instrumentation and timeout behaviour of each channel there instead of in code.

# File Format

	name: plugin.loaded
	expect_timeout: 5s
	recover: true
	metrics: true
	tracing: false

expect_timeout accepts a Go duration string ("250ms", "1m30s") or a number of
seconds. A missing or zero value means expect waits without a deadline.

# Loading

	cfg, err := config.FromFile("hooks/plugin_loaded.yaml")
	if err != nil {
	    log.Fatal(err)
	}
	ch := typedevent.New[Plugin, typedevent.Void](typedevent.FromConfig(cfg)...)

Several channels may be declared in one document under a "channels" key and
loaded with FileFromYAML; lookups are by name.
*/
package config
