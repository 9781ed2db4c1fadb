package bootstrap

import (
	"github.com/kbukum/entityhttp/errors"
	"github.com/kbukum/entityhttp/httpclient"
	"github.com/kbukum/entityhttp/observability"
	"github.com/kbukum/entityhttp/util"
	"github.com/kbukum/entityhttp/validation"
)

// Config is the full application file: service and clients, plus the
// telemetry sections.
//
//	name: orders
//	clients:
//	  - entity: NG
//	    base_url: https://ng.example.com
//	tracing:
//	  enabled: true
//	  endpoint: otel-collector:4318
//	metrics:
//	  enabled: true
type Config struct {
	httpclient.FileConfig `yaml:",inline" mapstructure:",squash"`
	Tracing               TracingConfig `yaml:"tracing" mapstructure:"tracing"`
	Metrics               MetricsConfig `yaml:"metrics" mapstructure:"metrics"`
}

// TracingConfig enables span export for every request.
type TracingConfig struct {
	Enabled                    bool `yaml:"enabled" mapstructure:"enabled"`
	observability.TracerConfig `yaml:",inline" mapstructure:",squash"`
}

// MetricsConfig enables request metric export.
type MetricsConfig struct {
	Enabled                   bool `yaml:"enabled" mapstructure:"enabled"`
	observability.MeterConfig `yaml:",inline" mapstructure:",squash"`
}

// ApplyDefaults fills service defaults and any unset telemetry field from
// the observability defaults for this service.
func (c *Config) ApplyDefaults() {
	c.FileConfig.ApplyDefaults()

	td := observability.DefaultTracerConfig(c.Name)
	td.Environment = c.Environment
	t := &c.Tracing.TracerConfig
	t.ServiceName = util.Coalesce(t.ServiceName, td.ServiceName)
	t.ServiceVersion = util.Coalesce(t.ServiceVersion, td.ServiceVersion)
	t.Environment = util.Coalesce(t.Environment, td.Environment)
	t.Endpoint = util.Coalesce(t.Endpoint, td.Endpoint)
	t.Exporter = util.Coalesce(t.Exporter, td.Exporter)
	if t.SampleRate == 0 {
		t.SampleRate = td.SampleRate
	}

	md := observability.DefaultMeterConfig(c.Name)
	md.Environment = c.Environment
	m := &c.Metrics.MeterConfig
	m.ServiceName = util.Coalesce(m.ServiceName, md.ServiceName)
	m.ServiceVersion = util.Coalesce(m.ServiceVersion, md.ServiceVersion)
	m.Environment = util.Coalesce(m.Environment, md.Environment)
	m.Endpoint = util.Coalesce(m.Endpoint, md.Endpoint)
	if m.Interval <= 0 {
		m.Interval = md.Interval
	}
}

// Validate checks the service, clients and telemetry sections.
func (c *Config) Validate() error {
	if err := c.FileConfig.Validate(); err != nil {
		return err
	}
	v := validation.New().WithCode(errors.ErrCodeConfiguration).
		Custom(c.Tracing.SampleRate >= 0 && c.Tracing.SampleRate <= 1, "tracing.sample_rate", "must be between 0 and 1")
	if c.Tracing.Enabled {
		v.OneOf("tracing.exporter", c.Tracing.Exporter, []string{observability.ExporterOTLP, observability.ExporterStdout})
		if c.Tracing.Exporter == observability.ExporterOTLP {
			v.Required("tracing.endpoint", c.Tracing.Endpoint)
		}
	}
	if c.Metrics.Enabled {
		v.Required("metrics.endpoint", c.Metrics.Endpoint)
	}
	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
}
