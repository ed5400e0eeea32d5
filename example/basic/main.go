// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/z5labs/uptrace"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.uber.org/zap"
)

func main() {
	log, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := run(context.Background(), log); err != nil {
		log.Fatal("failed to run example", zap.Error(err))
	}
}

// run expects the DSN in the UPTRACE_DSN env var.
func run(ctx context.Context, log *zap.Logger) error {
	h, err := uptrace.New().
		WithServiceName("myservice").
		WithServiceVersion("1.0.0").
		WithDeploymentEnvironment("testing").
		WithMetricsEnabled(false).
		WithLogger(log).
		Build(ctx)
	if err != nil {
		return err
	}
	defer h.Shutdown(context.Background())
	h.Install()

	tracer := otel.Tracer("app_or_package_name")

	ctx, root := tracer.Start(ctx, "root-span")
	time.Sleep(5 * time.Millisecond)

	_, span := tracer.Start(ctx, "GET /posts/:id")
	time.Sleep(10 * time.Millisecond)
	span.SetAttributes(
		semconv.HTTPRequestMethodGet,
		semconv.HTTPRoute("/posts/:id"),
		semconv.URLFull("http://localhost:8080/posts/123"),
		semconv.HTTPResponseStatusCode(200),
	)
	span.End()

	_, span = tracer.Start(ctx, "SELECT")
	time.Sleep(20 * time.Millisecond)
	span.SetAttributes(
		semconv.DBSystemMySQL,
		attribute.String("db.statement", "SELECT * FROM table"),
	)
	span.End()

	root.End()

	fmt.Println(h.TraceURL(root))
	return nil
}
