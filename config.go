// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package uptrace

import (
	"time"

	"github.com/z5labs/uptrace/pipeline"

	"github.com/mitchellh/mapstructure"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Config is the file or env decodable form of the [Builder] options.
// Zero values leave the [Builder] defaults in place.
type Config struct {
	DSN                   string            `config:"dsn"`
	ServiceName           string            `config:"service_name"`
	ServiceVersion        string            `config:"service_version"`
	DeploymentEnvironment string            `config:"deployment_environment"`
	ResourceAttributes    map[string]string `config:"resource_attributes"`

	Tracing TracingConfig `config:"tracing"`
	Metrics MetricsConfig `config:"metrics"`
	Logs    LogsConfig    `config:"logs"`
}

// TracingConfig is the "tracing" section of a [Config].
type TracingConfig struct {
	Disabled    bool          `config:"disabled"`
	Timeout     time.Duration `config:"timeout"`
	PrettyPrint bool          `config:"pretty_print"`

	// SampleRatio configures a parent based trace id ratio sampler
	// when set.
	SampleRatio *float64 `config:"sample_ratio"`

	Batch struct {
		MaxQueueSize       int           `config:"max_queue_size"`
		MaxExportBatchSize int           `config:"max_export_batch_size"`
		ScheduledDelay     time.Duration `config:"scheduled_delay"`
		ExportTimeout      time.Duration `config:"export_timeout"`
	} `config:"batch"`
}

// MetricsConfig is the "metrics" section of a [Config].
type MetricsConfig struct {
	Disabled      bool          `config:"disabled"`
	Timeout       time.Duration `config:"timeout"`
	Interval      time.Duration `config:"interval"`
	ReaderTimeout time.Duration `config:"reader_timeout"`
	Runtime       bool          `config:"runtime"`
	Host          bool          `config:"host"`
}

// LogsConfig is the "logs" section of a [Config].
type LogsConfig struct {
	Enabled bool          `config:"enabled"`
	Timeout time.Duration `config:"timeout"`
}

// DecodeConfig decodes m, e.g. the settings of a viper instance, into a [Config].
// Durations may be given as strings like "5s".
func DecodeConfig(m map[string]any) (Config, error) {
	var cfg Config
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "config",
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		Result:           &cfg,
	})
	if err != nil {
		return cfg, err
	}
	err = dec.Decode(m)
	return cfg, err
}

// Options converts cfg into [Option]s.
func (cfg Config) Options() []Option {
	var opts []Option
	if cfg.DSN != "" {
		opts = append(opts, DSN(cfg.DSN))
	}
	if cfg.ServiceName != "" {
		opts = append(opts, ServiceName(cfg.ServiceName))
	}
	if cfg.ServiceVersion != "" {
		opts = append(opts, ServiceVersion(cfg.ServiceVersion))
	}
	if cfg.DeploymentEnvironment != "" {
		opts = append(opts, DeploymentEnvironment(cfg.DeploymentEnvironment))
	}
	if len(cfg.ResourceAttributes) > 0 {
		kvs := make([]attribute.KeyValue, 0, len(cfg.ResourceAttributes))
		for k, v := range cfg.ResourceAttributes {
			kvs = append(kvs, attribute.String(k, v))
		}
		opts = append(opts, ResourceAttributes(kvs...))
	}

	opts = append(opts, TracingEnabled(!cfg.Tracing.Disabled), PrettyPrint(cfg.Tracing.PrettyPrint))
	if cfg.Tracing.Timeout > 0 {
		opts = append(opts, TraceTimeout(cfg.Tracing.Timeout))
	}
	if cfg.Tracing.SampleRatio != nil {
		opts = append(opts, TraceSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(*cfg.Tracing.SampleRatio))))
	}
	opts = append(opts, BatchConfig(pipeline.BatchConfig{
		MaxQueueSize:       cfg.Tracing.Batch.MaxQueueSize,
		MaxExportBatchSize: cfg.Tracing.Batch.MaxExportBatchSize,
		ScheduledDelay:     cfg.Tracing.Batch.ScheduledDelay,
		ExportTimeout:      cfg.Tracing.Batch.ExportTimeout,
	}))

	opts = append(
		opts,
		MetricsEnabled(!cfg.Metrics.Disabled),
		RuntimeMetrics(cfg.Metrics.Runtime),
		HostMetrics(cfg.Metrics.Host),
	)
	if cfg.Metrics.Timeout > 0 {
		opts = append(opts, MetricsTimeout(cfg.Metrics.Timeout))
	}
	if cfg.Metrics.Interval > 0 {
		opts = append(opts, MetricsInterval(cfg.Metrics.Interval))
	}
	if cfg.Metrics.ReaderTimeout > 0 {
		opts = append(opts, MetricsReaderTimeout(cfg.Metrics.ReaderTimeout))
	}

	opts = append(opts, LogsEnabled(cfg.Logs.Enabled))
	if cfg.Logs.Timeout > 0 {
		opts = append(opts, LogsTimeout(cfg.Logs.Timeout))
	}
	return opts
}
