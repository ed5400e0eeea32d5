// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package otlp

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/z5labs/uptrace/pipeline"

	"go.opentelemetry.io/contrib/instrumentation/host"
	"go.opentelemetry.io/contrib/instrumentation/runtime"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"google.golang.org/grpc"
)

const defaultUserAgent = "uptrace-go"

// Option configures a [Transport].
type Option func(*Transport)

// PrettyPrintTo sets where spans are written when pretty printing
// is requested. Defaults to [os.Stdout].
func PrettyPrintTo(w io.Writer) Option {
	return func(t *Transport) {
		t.prettyOut = w
	}
}

// UserAgent overrides the user agent of the gRPC connections.
func UserAgent(ua string) Option {
	return func(t *Transport) {
		t.userAgent = ua
	}
}

// Transport implements [pipeline.Transport] with OTLP/gRPC exporters.
type Transport struct {
	prettyOut io.Writer
	userAgent string
}

// NewTransport returns a fully initialized [Transport].
func NewTransport(opts ...Option) *Transport {
	t := &Transport{
		prettyOut: os.Stdout,
		userAgent: defaultUserAgent,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// BuildTracerProvider implements the [pipeline.Transport] interface.
func (t *Transport) BuildTracerProvider(ctx context.Context, cfg pipeline.TraceConfig) (pipeline.TracerProvider, error) {
	opts := []otlptracegrpc.Option{
		otlptracegrpc.WithEndpointURL(cfg.Endpoint),
		otlptracegrpc.WithHeaders(cfg.Headers),
		otlptracegrpc.WithCompressor("gzip"),
		otlptracegrpc.WithDialOption(grpc.WithUserAgent(t.userAgent)),
	}
	if cfg.Timeout > 0 {
		opts = append(opts, otlptracegrpc.WithTimeout(cfg.Timeout))
	}

	exporter, err := otlptracegrpc.New(ctx, opts...)
	if err != nil {
		return nil, err
	}

	tpOpts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(cfg.Resource),
		sdktrace.WithSpanProcessor(buildBatchSpanProcessor(exporter, cfg.Batch)),
	}
	if cfg.Sampler != nil {
		tpOpts = append(tpOpts, sdktrace.WithSampler(cfg.Sampler))
	}
	if cfg.PrettyPrint {
		stdout, err := stdouttrace.New(
			stdouttrace.WithWriter(t.prettyOut),
			stdouttrace.WithPrettyPrint(),
		)
		if err != nil {
			return nil, errors.Join(err, exporter.Shutdown(ctx))
		}
		tpOpts = append(tpOpts, sdktrace.WithSyncer(stdout))
	}

	return sdktrace.NewTracerProvider(tpOpts...), nil
}

func buildBatchSpanProcessor(exporter sdktrace.SpanExporter, bc pipeline.BatchConfig) sdktrace.SpanProcessor {
	var opts []sdktrace.BatchSpanProcessorOption
	if bc.MaxQueueSize > 0 {
		opts = append(opts, sdktrace.WithMaxQueueSize(bc.MaxQueueSize))
	}
	if bc.MaxExportBatchSize > 0 {
		opts = append(opts, sdktrace.WithMaxExportBatchSize(bc.MaxExportBatchSize))
	}
	if bc.ScheduledDelay > 0 {
		opts = append(opts, sdktrace.WithBatchTimeout(bc.ScheduledDelay))
	}
	if bc.ExportTimeout > 0 {
		opts = append(opts, sdktrace.WithExportTimeout(bc.ExportTimeout))
	}
	return sdktrace.NewBatchSpanProcessor(exporter, opts...)
}

// BuildMeterProvider implements the [pipeline.Transport] interface.
func (t *Transport) BuildMeterProvider(ctx context.Context, cfg pipeline.MetricConfig) (pipeline.MeterProvider, error) {
	opts := []otlpmetricgrpc.Option{
		otlpmetricgrpc.WithEndpointURL(cfg.Endpoint),
		otlpmetricgrpc.WithHeaders(cfg.Headers),
		otlpmetricgrpc.WithCompressor("gzip"),
		otlpmetricgrpc.WithTemporalitySelector(preferDeltaTemporalitySelector),
		otlpmetricgrpc.WithDialOption(grpc.WithUserAgent(t.userAgent)),
	}
	if cfg.Timeout > 0 {
		opts = append(opts, otlpmetricgrpc.WithTimeout(cfg.Timeout))
	}

	exporter, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, err
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(cfg.Resource),
		sdkmetric.WithReader(buildPeriodicReader(exporter, cfg)),
	)

	if cfg.RuntimeMetrics {
		err = runtime.Start(runtime.WithMeterProvider(mp))
		if err != nil {
			return nil, errors.Join(err, mp.Shutdown(ctx))
		}
	}
	if cfg.HostMetrics {
		err = host.Start(host.WithMeterProvider(mp))
		if err != nil {
			return nil, errors.Join(err, mp.Shutdown(ctx))
		}
	}
	return mp, nil
}

func buildPeriodicReader(exporter sdkmetric.Exporter, cfg pipeline.MetricConfig) sdkmetric.Reader {
	var opts []sdkmetric.PeriodicReaderOption
	if cfg.Interval > 0 {
		opts = append(opts, sdkmetric.WithInterval(cfg.Interval))
	}
	if cfg.ReaderTimeout > 0 {
		opts = append(opts, sdkmetric.WithTimeout(cfg.ReaderTimeout))
	}
	return sdkmetric.NewPeriodicReader(exporter, opts...)
}

// preferDeltaTemporalitySelector reports delta for monotonic instruments.
func preferDeltaTemporalitySelector(kind sdkmetric.InstrumentKind) metricdata.Temporality {
	switch kind {
	case sdkmetric.InstrumentKindCounter,
		sdkmetric.InstrumentKindHistogram,
		sdkmetric.InstrumentKindObservableCounter:
		return metricdata.DeltaTemporality
	default:
		return metricdata.CumulativeTemporality
	}
}

// BuildLoggerProvider implements the [pipeline.Transport] interface.
func (t *Transport) BuildLoggerProvider(ctx context.Context, cfg pipeline.LogConfig) (pipeline.LoggerProvider, error) {
	opts := []otlploggrpc.Option{
		otlploggrpc.WithEndpointURL(cfg.Endpoint),
		otlploggrpc.WithHeaders(cfg.Headers),
		otlploggrpc.WithCompressor("gzip"),
		otlploggrpc.WithDialOption(grpc.WithUserAgent(t.userAgent)),
	}
	if cfg.Timeout > 0 {
		opts = append(opts, otlploggrpc.WithTimeout(cfg.Timeout))
	}

	exporter, err := otlploggrpc.New(ctx, opts...)
	if err != nil {
		return nil, err
	}

	lp := sdklog.NewLoggerProvider(
		sdklog.WithResource(cfg.Resource),
		sdklog.WithProcessor(buildBatchLogProcessor(exporter, cfg.Batch)),
	)
	return lp, nil
}

func buildBatchLogProcessor(exporter sdklog.Exporter, bc pipeline.BatchConfig) sdklog.Processor {
	var opts []sdklog.BatchProcessorOption
	if bc.MaxQueueSize > 0 {
		opts = append(opts, sdklog.WithMaxQueueSize(bc.MaxQueueSize))
	}
	if bc.MaxExportBatchSize > 0 {
		opts = append(opts, sdklog.WithExportMaxBatchSize(bc.MaxExportBatchSize))
	}
	if bc.ScheduledDelay > 0 {
		opts = append(opts, sdklog.WithExportInterval(bc.ScheduledDelay))
	}
	if bc.ExportTimeout > 0 {
		opts = append(opts, sdklog.WithExportTimeout(bc.ExportTimeout))
	}
	return sdklog.NewBatchProcessor(exporter, opts...)
}
