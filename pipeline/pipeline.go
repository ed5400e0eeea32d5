// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package pipeline defines the contract between the uptrace builder and
// the transport which actually exports telemetry.
//
// The builder resolves everything (endpoint, auth header, timeouts,
// resource and batching) into the config types of this package and hands
// them to a [Transport]. The providers a Transport returns are staged:
// nothing is registered globally until the caller asks for it.
package pipeline

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// HeaderName is the header carrying the raw DSN to Uptrace.
const HeaderName = "uptrace-dsn"

// Export is the part of the config shared by all signals.
type Export struct {
	// Endpoint is a URL, e.g. https://otlp.uptrace.dev:4317.
	// An http scheme means the connection is insecure.
	Endpoint string
	Headers  map[string]string
	Timeout  time.Duration
	Resource *resource.Resource
}

// BatchConfig tunes how records are grouped before being exported.
type BatchConfig struct {
	MaxQueueSize       int
	MaxExportBatchSize int
	ScheduledDelay     time.Duration
	ExportTimeout      time.Duration
}

// WithDefaults returns a copy of bc where every zero field is
// replaced by the corresponding field of def.
func (bc BatchConfig) WithDefaults(def BatchConfig) BatchConfig {
	if bc.MaxQueueSize <= 0 {
		bc.MaxQueueSize = def.MaxQueueSize
	}
	if bc.MaxExportBatchSize <= 0 {
		bc.MaxExportBatchSize = def.MaxExportBatchSize
	}
	if bc.ScheduledDelay <= 0 {
		bc.ScheduledDelay = def.ScheduledDelay
	}
	if bc.ExportTimeout <= 0 {
		bc.ExportTimeout = def.ExportTimeout
	}
	return bc
}

// TraceConfig is the fully resolved config for the trace signal.
type TraceConfig struct {
	Export

	Batch BatchConfig

	// Sampler is optional. A nil Sampler leaves the SDK default in place.
	Sampler sdktrace.Sampler

	// PrettyPrint additionally writes every span to stdout.
	PrettyPrint bool
}

// MetricConfig is the fully resolved config for the metric signal.
type MetricConfig struct {
	Export

	// Interval between two periodic exports.
	Interval time.Duration

	// ReaderTimeout bounds a single periodic collect and export.
	ReaderTimeout time.Duration

	RuntimeMetrics bool
	HostMetrics    bool
}

// LogConfig is the fully resolved config for the log signal.
type LogConfig struct {
	Export

	Batch BatchConfig
}

// Flusher is implemented by every provider a [Transport] returns.
type Flusher interface {
	ForceFlush(context.Context) error
	Shutdown(context.Context) error
}

// TracerProvider is a staged tracer provider.
type TracerProvider interface {
	trace.TracerProvider
	Flusher
}

// MeterProvider is a staged meter provider.
type MeterProvider interface {
	metric.MeterProvider
	Flusher
}

// LoggerProvider is a staged logger provider.
type LoggerProvider interface {
	log.LoggerProvider
	Flusher
}

// Transport constructs providers from resolved configs. Implementations
// must not register anything globally.
type Transport interface {
	BuildTracerProvider(context.Context, TraceConfig) (TracerProvider, error)
	BuildMeterProvider(context.Context, MetricConfig) (MeterProvider, error)
	BuildLoggerProvider(context.Context, LogConfig) (LoggerProvider, error)
}
