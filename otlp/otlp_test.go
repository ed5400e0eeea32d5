// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package otlp

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/z5labs/uptrace/pipeline"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func testExport() pipeline.Export {
	return pipeline.Export{
		// nothing listens here, exporters must not dial until they export
		Endpoint: "http://127.0.0.1:1",
		Headers:  map[string]string{pipeline.HeaderName: "http://token@127.0.0.1:1/1"},
		Timeout:  100 * time.Millisecond,
		Resource: resource.NewSchemaless(attribute.String("service.name", "otlp-test")),
	}
}

func shutdownQuickly(t *testing.T, f pipeline.Flusher) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	// exporting to the unreachable endpoint is expected to fail
	_ = f.Shutdown(ctx)
}

func TestTransport_BuildTracerProvider(t *testing.T) {
	t.Run("will return a tracer provider", func(t *testing.T) {
		t.Run("without connecting to the endpoint", func(t *testing.T) {
			tp, err := NewTransport().BuildTracerProvider(context.Background(), pipeline.TraceConfig{
				Export: testExport(),
				Batch: pipeline.BatchConfig{
					MaxQueueSize:       10,
					MaxExportBatchSize: 5,
					ScheduledDelay:     time.Second,
					ExportTimeout:      time.Second,
				},
				Sampler: sdktrace.AlwaysSample(),
			})
			require.NoError(t, err)
			require.NotNil(t, tp)

			shutdownQuickly(t, tp)
		})

		t.Run("which pretty prints spans if asked to", func(t *testing.T) {
			var buf bytes.Buffer
			transport := NewTransport(PrettyPrintTo(&buf), UserAgent("otlp-test"))

			tp, err := transport.BuildTracerProvider(context.Background(), pipeline.TraceConfig{
				Export:      testExport(),
				PrettyPrint: true,
			})
			require.NoError(t, err)
			defer shutdownQuickly(t, tp)

			_, span := tp.Tracer("otlp-test").Start(context.Background(), "pretty-span")
			span.End()

			require.Contains(t, buf.String(), "pretty-span")
		})
	})
}

func TestTransport_BuildMeterProvider(t *testing.T) {
	t.Run("will return a meter provider", func(t *testing.T) {
		t.Run("with runtime and host metrics", func(t *testing.T) {
			mp, err := NewTransport().BuildMeterProvider(context.Background(), pipeline.MetricConfig{
				Export:         testExport(),
				Interval:       time.Hour,
				ReaderTimeout:  100 * time.Millisecond,
				RuntimeMetrics: true,
				HostMetrics:    true,
			})
			require.NoError(t, err)
			require.NotNil(t, mp)

			shutdownQuickly(t, mp)
		})
	})
}

func TestTransport_BuildLoggerProvider(t *testing.T) {
	t.Run("will return a logger provider", func(t *testing.T) {
		lp, err := NewTransport().BuildLoggerProvider(context.Background(), pipeline.LogConfig{
			Export: testExport(),
			Batch: pipeline.BatchConfig{
				MaxQueueSize:       10,
				MaxExportBatchSize: 5,
				ScheduledDelay:     time.Second,
				ExportTimeout:      time.Second,
			},
		})
		require.NoError(t, err)
		require.NotNil(t, lp)

		shutdownQuickly(t, lp)
	})
}

func TestPreferDeltaTemporalitySelector(t *testing.T) {
	testCases := []struct {
		kind     sdkmetric.InstrumentKind
		expected metricdata.Temporality
	}{
		{kind: sdkmetric.InstrumentKindCounter, expected: metricdata.DeltaTemporality},
		{kind: sdkmetric.InstrumentKindHistogram, expected: metricdata.DeltaTemporality},
		{kind: sdkmetric.InstrumentKindObservableCounter, expected: metricdata.DeltaTemporality},
		{kind: sdkmetric.InstrumentKindUpDownCounter, expected: metricdata.CumulativeTemporality},
		{kind: sdkmetric.InstrumentKindObservableGauge, expected: metricdata.CumulativeTemporality},
	}

	for _, testCase := range testCases {
		t.Run(testCase.kind.String(), func(t *testing.T) {
			require.Equal(t, testCase.expected, preferDeltaTemporalitySelector(testCase.kind))
		})
	}
}
