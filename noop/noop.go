// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package noop provides exporters which drop everything and a
// [pipeline.Transport] built on them.
//
// The providers returned by [Transport] are real SDK providers, so the full
// lifecycle (batching, flush, shutdown) is exercised without any network.
package noop

import (
	"context"

	"github.com/z5labs/uptrace/pipeline"

	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

type SpanExporter struct{}

func (e SpanExporter) ExportSpans(ctx context.Context, spans []sdktrace.ReadOnlySpan) error {
	return nil
}

func (e SpanExporter) Shutdown(ctx context.Context) error {
	return nil
}

type MetricExporter struct{}

func (e MetricExporter) Temporality(kind sdkmetric.InstrumentKind) metricdata.Temporality {
	return metricdata.CumulativeTemporality
}

func (e MetricExporter) Aggregation(kind sdkmetric.InstrumentKind) sdkmetric.Aggregation {
	return sdkmetric.DefaultAggregationSelector(kind)
}

func (e MetricExporter) Export(ctx context.Context, rm *metricdata.ResourceMetrics) error {
	return nil
}

func (e MetricExporter) ForceFlush(ctx context.Context) error {
	return nil
}

func (e MetricExporter) Shutdown(ctx context.Context) error {
	return nil
}

type LogExporter struct{}

func (e LogExporter) Export(ctx context.Context, records []sdklog.Record) error {
	return nil
}

func (e LogExporter) Shutdown(ctx context.Context) error {
	return nil
}

func (e LogExporter) ForceFlush(ctx context.Context) error {
	return nil
}

// Transport implements [pipeline.Transport] with the exporters of this package.
type Transport struct{}

// BuildTracerProvider implements the [pipeline.Transport] interface.
func (Transport) BuildTracerProvider(ctx context.Context, cfg pipeline.TraceConfig) (pipeline.TracerProvider, error) {
	var bspOpts []sdktrace.BatchSpanProcessorOption
	if cfg.Batch.MaxQueueSize > 0 {
		bspOpts = append(bspOpts, sdktrace.WithMaxQueueSize(cfg.Batch.MaxQueueSize))
	}
	if cfg.Batch.MaxExportBatchSize > 0 {
		bspOpts = append(bspOpts, sdktrace.WithMaxExportBatchSize(cfg.Batch.MaxExportBatchSize))
	}

	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(cfg.Resource),
		sdktrace.WithBatcher(SpanExporter{}, bspOpts...),
	}
	if cfg.Sampler != nil {
		opts = append(opts, sdktrace.WithSampler(cfg.Sampler))
	}
	return sdktrace.NewTracerProvider(opts...), nil
}

// BuildMeterProvider implements the [pipeline.Transport] interface.
func (Transport) BuildMeterProvider(ctx context.Context, cfg pipeline.MetricConfig) (pipeline.MeterProvider, error) {
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(cfg.Resource),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(MetricExporter{})),
	)
	return mp, nil
}

// BuildLoggerProvider implements the [pipeline.Transport] interface.
func (Transport) BuildLoggerProvider(ctx context.Context, cfg pipeline.LogConfig) (pipeline.LoggerProvider, error) {
	lp := sdklog.NewLoggerProvider(
		sdklog.WithResource(cfg.Resource),
		sdklog.WithProcessor(sdklog.NewBatchProcessor(LogExporter{})),
	)
	return lp, nil
}
