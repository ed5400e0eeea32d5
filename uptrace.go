// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package uptrace

import (
	"context"
	"errors"
	"time"

	"github.com/z5labs/uptrace/config"
	"github.com/z5labs/uptrace/dsn"
	"github.com/z5labs/uptrace/internal/ptr"
	"github.com/z5labs/uptrace/internal/try"
	"github.com/z5labs/uptrace/lifecycle"
	"github.com/z5labs/uptrace/otelresource"
	"github.com/z5labs/uptrace/otlp"
	"github.com/z5labs/uptrace/pipeline"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
)

const (
	// EnvDSN is read for the DSN when none is set on the [Builder].
	EnvDSN = "UPTRACE_DSN"

	// EnvDisabled disables the whole pipeline when present, whatever its value.
	EnvDisabled = "UPTRACE_DISABLED"
)

// Defaults used when neither a setter nor the matching OTEL_* env var
// provides a value.
const (
	// DefaultTraceTimeout bounds a single span export.
	DefaultTraceTimeout = 5 * time.Second

	// DefaultMetricsTimeout bounds a single metric export.
	DefaultMetricsTimeout = 10 * time.Second

	// DefaultMetricsInterval is the time between two periodic metric exports.
	DefaultMetricsInterval = 15 * time.Second

	// DefaultMetricsReaderTimeout bounds one periodic collect and export.
	DefaultMetricsReaderTimeout = 5 * time.Second

	// DefaultLogsTimeout bounds a single log record export.
	DefaultLogsTimeout = 10 * time.Second
)

// DefaultBatchConfig is applied field by field to any batch setting
// which is neither set on the [Builder] nor in an OTEL_BSP_* env var.
var DefaultBatchConfig = pipeline.BatchConfig{
	MaxQueueSize:       30000,
	MaxExportBatchSize: 10000,
	ScheduledDelay:     5 * time.Second,
	ExportTimeout:      30 * time.Second,
}

// Builder collects the configuration of a telemetry pipeline.
// It is not safe for concurrent use and may only be built once.
type Builder struct {
	dsn       *string
	dsnReader config.Reader[string]
	disabled  config.Reader[bool]

	serviceName    *string
	serviceVersion *string
	environment    *string
	resource       *resource.Resource
	resourceAttrs  []attribute.KeyValue
	detectors      []otelresource.Source

	tracingEnabled bool
	metricsEnabled bool
	logsEnabled    bool

	batch       *pipeline.BatchConfig
	sampler     sdktrace.Sampler
	prettyPrint bool

	traceTimeout         *time.Duration
	metricsTimeout       *time.Duration
	metricsInterval      *time.Duration
	metricsReaderTimeout *time.Duration
	logsTimeout          *time.Duration
	runtimeMetrics       bool
	hostMetrics          bool

	transport pipeline.Transport
	registry  Registry
	log       *zap.Logger

	consumed bool
}

// Option configures a [Builder].
type Option func(*Builder)

// New returns a [Builder] with tracing and metrics enabled and logs disabled.
func New(opts ...Option) *Builder {
	b := &Builder{
		dsnReader:      config.Env(EnvDSN),
		disabled:       config.IsSet(config.Env(EnvDisabled)),
		tracingEnabled: true,
		metricsEnabled: true,
		registry:       Global(),
		log:            zap.NewNop(),
	}
	return b.apply(opts...)
}

func (b *Builder) apply(opts ...Option) *Builder {
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// WithDSN sets the DSN. It takes precedence over the UPTRACE_DSN env var.
func (b *Builder) WithDSN(s string) *Builder {
	b.dsn = &s
	return b
}

// WithServiceName sets the service.name resource attribute.
func (b *Builder) WithServiceName(name string) *Builder {
	b.serviceName = &name
	return b
}

// WithServiceVersion sets the service.version resource attribute.
func (b *Builder) WithServiceVersion(version string) *Builder {
	b.serviceVersion = &version
	return b
}

// WithDeploymentEnvironment sets the deployment.environment resource attribute.
func (b *Builder) WithDeploymentEnvironment(env string) *Builder {
	b.environment = &env
	return b
}

// WithResource merges res into the detected resource. Its attributes
// override detected ones but not those set with [Builder.WithResourceAttributes]
// or the service setters.
func (b *Builder) WithResource(res *resource.Resource) *Builder {
	b.resource = res
	return b
}

// WithResourceAttributes appends resource attributes.
func (b *Builder) WithResourceAttributes(kvs ...attribute.KeyValue) *Builder {
	b.resourceAttrs = append(b.resourceAttrs, kvs...)
	return b
}

// WithResourceDetectors appends resource sources applied after the
// built-in detectors.
func (b *Builder) WithResourceDetectors(srcs ...otelresource.Source) *Builder {
	b.detectors = append(b.detectors, srcs...)
	return b
}

// WithBatchConfig overrides the batch settings. Zero fields fall back
// to [DefaultBatchConfig].
func (b *Builder) WithBatchConfig(bc pipeline.BatchConfig) *Builder {
	b.batch = &bc
	return b
}

// WithTraceSampler sets the sampler used by the tracer provider.
func (b *Builder) WithTraceSampler(s sdktrace.Sampler) *Builder {
	b.sampler = s
	return b
}

// WithPrettyPrint additionally prints spans to stdout.
func (b *Builder) WithPrettyPrint(enabled bool) *Builder {
	b.prettyPrint = enabled
	return b
}

// WithTracingEnabled toggles the trace signal. Default: enabled
func (b *Builder) WithTracingEnabled(enabled bool) *Builder {
	b.tracingEnabled = enabled
	return b
}

// WithMetricsEnabled toggles the metric signal. Default: enabled
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.metricsEnabled = enabled
	return b
}

// WithLogsEnabled toggles the log signal. Default: disabled
func (b *Builder) WithLogsEnabled(enabled bool) *Builder {
	b.logsEnabled = enabled
	return b
}

// WithRuntimeMetrics starts the Go runtime instrumentation on the meter provider.
func (b *Builder) WithRuntimeMetrics(enabled bool) *Builder {
	b.runtimeMetrics = enabled
	return b
}

// WithHostMetrics starts the host instrumentation on the meter provider.
func (b *Builder) WithHostMetrics(enabled bool) *Builder {
	b.hostMetrics = enabled
	return b
}

// WithTraceTimeout overrides OTEL_EXPORTER_OTLP_TRACES_TIMEOUT and [DefaultTraceTimeout].
func (b *Builder) WithTraceTimeout(d time.Duration) *Builder {
	b.traceTimeout = &d
	return b
}

// WithMetricsTimeout overrides OTEL_EXPORTER_OTLP_METRICS_TIMEOUT and [DefaultMetricsTimeout].
func (b *Builder) WithMetricsTimeout(d time.Duration) *Builder {
	b.metricsTimeout = &d
	return b
}

// WithMetricsInterval overrides OTEL_METRIC_EXPORT_INTERVAL and [DefaultMetricsInterval].
func (b *Builder) WithMetricsInterval(d time.Duration) *Builder {
	b.metricsInterval = &d
	return b
}

// WithMetricsReaderTimeout overrides OTEL_METRIC_EXPORT_TIMEOUT and [DefaultMetricsReaderTimeout].
func (b *Builder) WithMetricsReaderTimeout(d time.Duration) *Builder {
	b.metricsReaderTimeout = &d
	return b
}

// WithLogsTimeout overrides OTEL_EXPORTER_OTLP_LOGS_TIMEOUT and [DefaultLogsTimeout].
func (b *Builder) WithLogsTimeout(d time.Duration) *Builder {
	b.logsTimeout = &d
	return b
}

// WithTransport replaces the default [otlp.Transport].
func (b *Builder) WithTransport(t pipeline.Transport) *Builder {
	b.transport = t
	return b
}

// WithRegistry replaces the registry used by [Handle.Install].
func (b *Builder) WithRegistry(r Registry) *Builder {
	b.registry = r
	return b
}

// WithLogger sets the logger for build and export errors. Default: [zap.NewNop]
func (b *Builder) WithLogger(log *zap.Logger) *Builder {
	b.log = log
	return b
}

// WithDisabledSwitch replaces the presence check of UPTRACE_DISABLED.
func (b *Builder) WithDisabledSwitch(r config.Reader[bool]) *Builder {
	b.disabled = r
	return b
}

// DSN is the functional form of [Builder.WithDSN].
func DSN(s string) Option {
	return func(b *Builder) { b.WithDSN(s) }
}

// ServiceName is the functional form of [Builder.WithServiceName].
func ServiceName(name string) Option {
	return func(b *Builder) { b.WithServiceName(name) }
}

// ServiceVersion is the functional form of [Builder.WithServiceVersion].
func ServiceVersion(version string) Option {
	return func(b *Builder) { b.WithServiceVersion(version) }
}

// DeploymentEnvironment is the functional form of [Builder.WithDeploymentEnvironment].
func DeploymentEnvironment(env string) Option {
	return func(b *Builder) { b.WithDeploymentEnvironment(env) }
}

// Resource is the functional form of [Builder.WithResource].
func Resource(res *resource.Resource) Option {
	return func(b *Builder) { b.WithResource(res) }
}

// ResourceAttributes is the functional form of [Builder.WithResourceAttributes].
func ResourceAttributes(kvs ...attribute.KeyValue) Option {
	return func(b *Builder) { b.WithResourceAttributes(kvs...) }
}

// ResourceDetectors is the functional form of [Builder.WithResourceDetectors].
func ResourceDetectors(srcs ...otelresource.Source) Option {
	return func(b *Builder) { b.WithResourceDetectors(srcs...) }
}

// BatchConfig is the functional form of [Builder.WithBatchConfig].
func BatchConfig(bc pipeline.BatchConfig) Option {
	return func(b *Builder) { b.WithBatchConfig(bc) }
}

// TraceSampler is the functional form of [Builder.WithTraceSampler].
func TraceSampler(s sdktrace.Sampler) Option {
	return func(b *Builder) { b.WithTraceSampler(s) }
}

// PrettyPrint is the functional form of [Builder.WithPrettyPrint].
func PrettyPrint(enabled bool) Option {
	return func(b *Builder) { b.WithPrettyPrint(enabled) }
}

// TracingEnabled is the functional form of [Builder.WithTracingEnabled].
func TracingEnabled(enabled bool) Option {
	return func(b *Builder) { b.WithTracingEnabled(enabled) }
}

// MetricsEnabled is the functional form of [Builder.WithMetricsEnabled].
func MetricsEnabled(enabled bool) Option {
	return func(b *Builder) { b.WithMetricsEnabled(enabled) }
}

// LogsEnabled is the functional form of [Builder.WithLogsEnabled].
func LogsEnabled(enabled bool) Option {
	return func(b *Builder) { b.WithLogsEnabled(enabled) }
}

// RuntimeMetrics is the functional form of [Builder.WithRuntimeMetrics].
func RuntimeMetrics(enabled bool) Option {
	return func(b *Builder) { b.WithRuntimeMetrics(enabled) }
}

// HostMetrics is the functional form of [Builder.WithHostMetrics].
func HostMetrics(enabled bool) Option {
	return func(b *Builder) { b.WithHostMetrics(enabled) }
}

// TraceTimeout is the functional form of [Builder.WithTraceTimeout].
func TraceTimeout(d time.Duration) Option {
	return func(b *Builder) { b.WithTraceTimeout(d) }
}

// MetricsTimeout is the functional form of [Builder.WithMetricsTimeout].
func MetricsTimeout(d time.Duration) Option {
	return func(b *Builder) { b.WithMetricsTimeout(d) }
}

// MetricsInterval is the functional form of [Builder.WithMetricsInterval].
func MetricsInterval(d time.Duration) Option {
	return func(b *Builder) { b.WithMetricsInterval(d) }
}

// MetricsReaderTimeout is the functional form of [Builder.WithMetricsReaderTimeout].
func MetricsReaderTimeout(d time.Duration) Option {
	return func(b *Builder) { b.WithMetricsReaderTimeout(d) }
}

// LogsTimeout is the functional form of [Builder.WithLogsTimeout].
func LogsTimeout(d time.Duration) Option {
	return func(b *Builder) { b.WithLogsTimeout(d) }
}

// Transport is the functional form of [Builder.WithTransport].
func Transport(t pipeline.Transport) Option {
	return func(b *Builder) { b.WithTransport(t) }
}

// UseRegistry is the functional form of [Builder.WithRegistry].
func UseRegistry(r Registry) Option {
	return func(b *Builder) { b.WithRegistry(r) }
}

// Logger is the functional form of [Builder.WithLogger].
func Logger(log *zap.Logger) Option {
	return func(b *Builder) { b.WithLogger(log) }
}

// DisabledSwitch is the functional form of [Builder.WithDisabledSwitch].
func DisabledSwitch(r config.Reader[bool]) Option {
	return func(b *Builder) { b.WithDisabledSwitch(r) }
}

// Build finalizes the configuration and constructs the providers.
//
// An inactive [Handle] is returned, without error, when UPTRACE_DISABLED is
// present, when no signal is enabled or when the DSN is a placeholder.
// Nothing is registered globally, see [Handle.Install].
// The builder is consumed whether or not Build succeeds.
func (b *Builder) Build(ctx context.Context) (*Handle, error) {
	if b.consumed {
		return nil, ErrBuilderConsumed
	}
	b.consumed = true

	log := b.log
	if log == nil {
		log = zap.NewNop()
	}

	if b.disabled != nil && config.MustOr(ctx, false, b.disabled) {
		log.Debug("telemetry pipeline is disabled", zap.String("env", EnvDisabled))
		return newInactiveHandle(), nil
	}
	if !b.tracingEnabled && !b.metricsEnabled && !b.logsEnabled {
		log.Debug("no telemetry signal is enabled")
		return newInactiveHandle(), nil
	}

	raw, err := b.readDSN(ctx)
	if err != nil {
		return nil, err
	}
	d, err := dsn.Parse(raw)
	if err != nil {
		return nil, err
	}
	if d.IsDisabled() {
		log.Debug("dsn is a placeholder, telemetry pipeline is disabled")
		h := newInactiveHandle()
		h.dsn = d
		h.hasDSN = true
		return h, nil
	}

	res := b.resolveResource(ctx, log)

	transport := b.transport
	if transport == nil {
		transport = otlp.NewTransport()
	}

	endpoint := d.OTLPGrpcAddr()
	export := func(timeout time.Duration) pipeline.Export {
		return pipeline.Export{
			Endpoint: endpoint,
			Headers: map[string]string{
				pipeline.HeaderName: raw,
			},
			Timeout:  timeout,
			Resource: res,
		}
	}
	batch := ptr.Deref(ptr.Take(&b.batch), pipeline.BatchConfig{}).WithDefaults(readBatchConfig(ctx, log))

	h := &Handle{
		dsn:      d,
		hasDSN:   true,
		registry: b.registry,
		log:      log,
	}
	if h.registry == nil {
		h.registry = Global()
	}

	var staged []lifecycle.Hook
	rollback := func(partial any, cause error) error {
		hooks := append(staged, lifecycle.Shutdown(partial))
		rerr := shutdownAll(context.WithoutCancel(ctx), hooks)
		if rerr != nil {
			log.Warn("failed to shutdown staged providers", zap.Error(rerr))
		}
		return cause
	}

	if b.tracingEnabled {
		cfg := pipeline.TraceConfig{
			Export:      export(readSetting(ctx, log, DefaultTraceTimeout, config.Optional(b.traceTimeout), otlpTimeoutEnv("TRACES"))),
			Batch:       batch,
			Sampler:     b.sampler,
			PrettyPrint: b.prettyPrint,
		}
		tp, err := stage(ctx, cfg, transport.BuildTracerProvider)
		if err != nil {
			return nil, rollback(tp, TraceBuildError{Cause: err})
		}
		h.tracerProvider = tp
		staged = append(staged, lifecycle.Shutdown(tp))
	}

	if b.metricsEnabled {
		cfg := pipeline.MetricConfig{
			Export:         export(readSetting(ctx, log, DefaultMetricsTimeout, config.Optional(b.metricsTimeout), otlpTimeoutEnv("METRICS"))),
			Interval:       readSetting(ctx, log, DefaultMetricsInterval, config.Optional(b.metricsInterval), envMillis(EnvMetricExportInterval)),
			ReaderTimeout:  readSetting(ctx, log, DefaultMetricsReaderTimeout, config.Optional(b.metricsReaderTimeout), envMillis(EnvMetricExportTimeout)),
			RuntimeMetrics: b.runtimeMetrics,
			HostMetrics:    b.hostMetrics,
		}
		mp, err := stage(ctx, cfg, transport.BuildMeterProvider)
		if err != nil {
			return nil, rollback(mp, MetricsBuildError{Cause: err})
		}
		h.meterProvider = mp
		staged = append(staged, lifecycle.Shutdown(mp))
	}

	if b.logsEnabled {
		cfg := pipeline.LogConfig{
			Export: export(readSetting(ctx, log, DefaultLogsTimeout, config.Optional(b.logsTimeout), otlpTimeoutEnv("LOGS"))),
			Batch:  batch,
		}
		lp, err := stage(ctx, cfg, transport.BuildLoggerProvider)
		if err != nil {
			return nil, rollback(lp, LogsBuildError{Cause: err})
		}
		h.loggerProvider = lp
	}

	log.Info(
		"built telemetry pipeline",
		zap.String("endpoint", endpoint),
		zap.String("project_id", d.ProjectID()),
		zap.Bool("tracing", b.tracingEnabled),
		zap.Bool("metrics", b.metricsEnabled),
		zap.Bool("logs", b.logsEnabled),
	)

	h.active.Store(true)
	return h, nil
}

func stage[C, P any](ctx context.Context, cfg C, build func(context.Context, C) (P, error)) (_ P, err error) {
	defer try.Recover(&err)
	return build(ctx, cfg)
}

// shutdownAll also shuts down a provider a transport returned
// together with an error, and survives it panicking.
func shutdownAll(ctx context.Context, hooks []lifecycle.Hook) (err error) {
	defer try.Recover(&err)
	return lifecycle.MultiHook(hooks...).Run(ctx)
}

func (b *Builder) readDSN(ctx context.Context) (string, error) {
	readers := []config.Reader[string]{config.Optional(ptr.Take(&b.dsn))}
	if b.dsnReader != nil {
		readers = append(readers, b.dsnReader)
	}

	raw, err := config.Read(ctx, config.Or(readers...))
	if errors.Is(err, config.ErrValueNotSet) {
		return "", ErrMissingDSN
	}
	return raw, err
}

func (b *Builder) resolveResource(ctx context.Context, log *zap.Logger) *resource.Resource {
	sources := []otelresource.Source{
		otelresource.HostName(),
		otelresource.Process(),
		otelresource.OS(),
		otelresource.TelemetrySDK(),
		otelresource.FromEnv(),
	}
	sources = append(sources, b.detectors...)
	sources = append(
		sources,
		otelresource.FromResource(b.resource),
		otelresource.Static(b.resourceAttrs...),
		otelresource.Service{
			Name:        ptr.Take(&b.serviceName),
			Version:     ptr.Take(&b.serviceVersion),
			Environment: ptr.Take(&b.environment),
		},
	)
	b.resource = nil
	b.resourceAttrs = nil
	b.detectors = nil

	return otelresource.Resolve(ctx, sources, otelresource.OnError(func(err error) {
		log.Warn("failed to detect resource attributes", zap.Error(err))
	}))
}
