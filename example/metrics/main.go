// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/z5labs/uptrace"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

func main() {
	log, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, log); err != nil {
		log.Fatal("failed to run example", zap.Error(err))
	}
}

func run(ctx context.Context, log *zap.Logger) error {
	h, err := uptrace.New().
		WithServiceName("myservice").
		WithServiceVersion("1.0.0").
		WithDeploymentEnvironment("testing").
		WithTracingEnabled(false).
		WithRuntimeMetrics(true).
		WithLogger(log).
		Build(ctx)
	if err != nil {
		return err
	}
	defer h.Shutdown(context.Background())
	h.Install()

	histogram, err := otel.Meter("app_or_package_name").Float64Histogram(
		"ex.com.three",
		metric.WithUnit("ms"),
	)
	if err != nil {
		return err
	}

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			histogram.Record(ctx, 1.3)
		}
	}
}
