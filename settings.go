// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package uptrace

import (
	"context"
	"fmt"
	"time"

	"github.com/z5labs/uptrace/config"
	"github.com/z5labs/uptrace/pipeline"

	"go.uber.org/zap"
)

// Standard OpenTelemetry env vars consulted for settings which
// aren't set on the [Builder]. Durations are in milliseconds.
const (
	EnvExporterTimeout      = "OTEL_EXPORTER_OTLP_TIMEOUT"
	EnvMetricExportInterval = "OTEL_METRIC_EXPORT_INTERVAL"
	EnvMetricExportTimeout  = "OTEL_METRIC_EXPORT_TIMEOUT"
	EnvBSPMaxQueueSize      = "OTEL_BSP_MAX_QUEUE_SIZE"
	EnvBSPMaxExportBatch    = "OTEL_BSP_MAX_EXPORT_BATCH_SIZE"
	EnvBSPScheduleDelay     = "OTEL_BSP_SCHEDULE_DELAY"
	EnvBSPExportTimeout     = "OTEL_BSP_EXPORT_TIMEOUT"
)

// readSetting returns the first set value of readers, or def. A reader
// failing, e.g. on a malformed env var, is logged and def is used.
func readSetting[T any](ctx context.Context, log *zap.Logger, def T, readers ...config.Reader[T]) T {
	v, err := config.Read(ctx, config.Default(def, config.Or(readers...)))
	if err != nil {
		log.Warn("ignoring invalid setting", zap.Error(err))
		return def
	}
	return v
}

func envMillis(name string) config.Reader[time.Duration] {
	return config.Map(config.IntFromString(config.Env(name)), func(ctx context.Context, ms int) (time.Duration, error) {
		if ms < 0 {
			return 0, fmt.Errorf("%s must not be negative: %d", name, ms)
		}
		return time.Duration(ms) * time.Millisecond, nil
	})
}

func envPositiveInt(name string) config.Reader[int] {
	return config.Map(config.IntFromString(config.Env(name)), func(ctx context.Context, n int) (int, error) {
		if n < 0 {
			return 0, fmt.Errorf("%s must not be negative: %d", name, n)
		}
		return n, nil
	})
}

// otlpTimeoutEnv reads the signal specific exporter timeout, e.g.
// OTEL_EXPORTER_OTLP_TRACES_TIMEOUT, falling back to the shared one.
func otlpTimeoutEnv(signal string) config.Reader[time.Duration] {
	return config.Or(
		envMillis("OTEL_EXPORTER_OTLP_"+signal+"_TIMEOUT"),
		envMillis(EnvExporterTimeout),
	)
}

// readBatchConfig is [DefaultBatchConfig] overlaid with the OTEL_BSP_* env vars.
func readBatchConfig(ctx context.Context, log *zap.Logger) pipeline.BatchConfig {
	def := DefaultBatchConfig
	return pipeline.BatchConfig{
		MaxQueueSize:       readSetting(ctx, log, def.MaxQueueSize, envPositiveInt(EnvBSPMaxQueueSize)),
		MaxExportBatchSize: readSetting(ctx, log, def.MaxExportBatchSize, envPositiveInt(EnvBSPMaxExportBatch)),
		ScheduledDelay:     readSetting(ctx, log, def.ScheduledDelay, envMillis(EnvBSPScheduleDelay)),
		ExportTimeout:      readSetting(ctx, log, def.ExportTimeout, envMillis(EnvBSPExportTimeout)),
	}
}
