// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package noop

import (
	"context"
	"testing"

	"github.com/z5labs/uptrace/pipeline"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/sdk/resource"
)

func TestTransport(t *testing.T) {
	ctx := context.Background()
	export := pipeline.Export{Resource: resource.Empty()}

	var transport pipeline.Transport = Transport{}

	t.Run("will build a tracer provider which can be flushed and shutdown", func(t *testing.T) {
		tp, err := transport.BuildTracerProvider(ctx, pipeline.TraceConfig{
			Export: export,
			Batch: pipeline.BatchConfig{
				MaxQueueSize:       10,
				MaxExportBatchSize: 10,
			},
		})
		require.NoError(t, err)

		_, span := tp.Tracer("noop-test").Start(ctx, "span")
		span.End()

		require.NoError(t, tp.ForceFlush(ctx))
		require.NoError(t, tp.Shutdown(ctx))
	})

	t.Run("will build a meter provider which can be flushed and shutdown", func(t *testing.T) {
		mp, err := transport.BuildMeterProvider(ctx, pipeline.MetricConfig{Export: export})
		require.NoError(t, err)

		counter, err := mp.Meter("noop-test").Int64Counter("count")
		require.NoError(t, err)
		counter.Add(ctx, 1)

		require.NoError(t, mp.ForceFlush(ctx))
		require.NoError(t, mp.Shutdown(ctx))
	})

	t.Run("will build a logger provider which can be flushed and shutdown", func(t *testing.T) {
		lp, err := transport.BuildLoggerProvider(ctx, pipeline.LogConfig{Export: export})
		require.NoError(t, err)

		var record log.Record
		record.SetBody(log.StringValue("hello"))
		lp.Logger("noop-test").Emit(ctx, record)

		require.NoError(t, lp.ForceFlush(ctx))
		require.NoError(t, lp.Shutdown(ctx))
	})
}
