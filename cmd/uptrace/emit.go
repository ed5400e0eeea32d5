// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/z5labs/uptrace"
	"github.com/z5labs/uptrace/internal/httpclient"
	"github.com/z5labs/uptrace/internal/ioutil"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel/attribute"
	otellog "go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const instrumentationName = "github.com/z5labs/uptrace/cmd/uptrace"

type emitOptions struct {
	url             string
	shutdownTimeout time.Duration
}

func newEmitCommand(v *viper.Viper, ro *rootOptions) *cobra.Command {
	var opts emitOptions

	cmd := &cobra.Command{
		Use:   "emit",
		Short: "Send a test span, metric and log record and print the trace URL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEmit(cmd.Context(), cmd.OutOrStdout(), v, ro, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.url, "url", "", "Send an instrumented GET request to this URL")
	flags.DurationVar(&opts.shutdownTimeout, "shutdown-timeout", 10*time.Second, "Time allowed for flushing telemetry on exit")
	flags.String("service-name", "uptrace-cli", "Value of the service.name resource attribute")
	flags.Bool("pretty-print", false, "Also print spans to stdout")
	flags.Bool("logs", false, "Also send a log record")
	v.BindPFlag("service_name", flags.Lookup("service-name"))
	v.BindPFlag("tracing.pretty_print", flags.Lookup("pretty-print"))
	v.BindPFlag("logs.enabled", flags.Lookup("logs"))
	return cmd
}

func runEmit(ctx context.Context, out io.Writer, v *viper.Viper, ro *rootOptions, opts emitOptions) (err error) {
	log, err := ro.logger()
	if err != nil {
		return err
	}
	defer log.Sync()

	cfg, err := loadConfig(v)
	if err != nil {
		return err
	}

	b := uptrace.New(cfg.Options()...).WithLogger(log)
	if ro.transport != nil {
		b.WithTransport(ro.transport)
	}
	h, err := b.Build(ctx)
	if err != nil {
		log.Error("failed to build telemetry pipeline", zap.Error(err))
		return err
	}
	if !h.Active() {
		fmt.Fprintln(out, "telemetry is disabled, nothing was sent")
		return nil
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), opts.shutdownTimeout)
		defer cancel()

		serr := h.Shutdown(sctx)
		if serr != nil {
			log.Error("failed to shutdown telemetry pipeline", zap.Error(serr))
		}
		err = errors.Join(err, serr)
	}()
	h.Install()

	tracer := h.TracerProvider().Tracer(instrumentationName)
	spanCtx, span := tracer.Start(ctx, "emit", trace.WithSpanKind(trace.SpanKindInternal))
	defer span.End()

	counter, err := h.MeterProvider().Meter(instrumentationName).Int64Counter(
		"uptrace_cli.emits",
		metric.WithDescription("Number of test emits"),
	)
	if err != nil {
		return err
	}
	counter.Add(spanCtx, 1)

	var rec otellog.Record
	rec.SetTimestamp(time.Now())
	rec.SetSeverity(otellog.SeverityInfo)
	rec.SetBody(otellog.StringValue("test log record"))
	h.LoggerProvider().Logger(instrumentationName).Emit(spanCtx, rec)

	if opts.url != "" {
		status, err := get(spanCtx, log, h, opts.url)
		if err != nil {
			span.RecordError(err)
			return err
		}
		span.SetAttributes(attribute.Int("uptrace_cli.status_code", status))
	}

	fmt.Fprintln(out, h.TraceURL(span))
	return nil
}

func get(ctx context.Context, log *zap.Logger, h *uptrace.Handle, url string) (int, error) {
	client := httpclient.New(
		httpclient.Logger(log),
		httpclient.Timeout(10*time.Second),
		httpclient.TracerProvider(h.TracerProvider()),
		httpclient.MeterProvider(h.MeterProvider()),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return 0, err
	}

	_, err = ioutil.DrainAndClose(resp.Body)
	return resp.StatusCode, err
}
