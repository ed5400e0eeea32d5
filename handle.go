// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package uptrace

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/z5labs/uptrace/dsn"
	"github.com/z5labs/uptrace/lifecycle"
	"github.com/z5labs/uptrace/pipeline"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/log"
	lognoop "go.opentelemetry.io/otel/log/noop"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
)

// Handle owns the providers built by [Builder.Build].
type Handle struct {
	active atomic.Bool

	dsn    dsn.DSN
	hasDSN bool

	tracerProvider pipeline.TracerProvider
	meterProvider  pipeline.MeterProvider
	loggerProvider pipeline.LoggerProvider

	registry    Registry
	log         *zap.Logger
	installOnce sync.Once
}

func newInactiveHandle() *Handle {
	return &Handle{
		log: zap.NewNop(),
	}
}

// Active reports whether the handle owns providers which haven't been shutdown.
func (h *Handle) Active() bool {
	return h.active.Load()
}

// DSN returns the parsed DSN. It is the zero value for a handle
// which was disabled before the DSN was parsed.
func (h *Handle) DSN() dsn.DSN {
	return h.dsn
}

// TracerProvider returns the built tracer provider or a no-op one.
func (h *Handle) TracerProvider() trace.TracerProvider {
	if h.tracerProvider == nil {
		return tracenoop.NewTracerProvider()
	}
	return h.tracerProvider
}

// MeterProvider returns the built meter provider or a no-op one.
func (h *Handle) MeterProvider() metric.MeterProvider {
	if h.meterProvider == nil {
		return metricnoop.NewMeterProvider()
	}
	return h.meterProvider
}

// LoggerProvider returns the built logger provider or a no-op one.
func (h *Handle) LoggerProvider() log.LoggerProvider {
	if h.loggerProvider == nil {
		return lognoop.NewLoggerProvider()
	}
	return h.loggerProvider
}

// Install registers the built providers, a W3C trace context and baggage
// propagator and an error handler with the registry. Only the first
// call has any effect and nothing happens on an inactive handle.
func (h *Handle) Install() {
	if !h.Active() {
		return
	}
	h.installOnce.Do(func() {
		r := h.registry
		if h.tracerProvider != nil {
			r.SetTracerProvider(h.tracerProvider)
		}
		if h.meterProvider != nil {
			r.SetMeterProvider(h.meterProvider)
		}
		if h.loggerProvider != nil {
			r.SetLoggerProvider(h.loggerProvider)
		}
		r.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		))
		r.SetErrorHandler(otel.ErrorHandlerFunc(func(err error) {
			h.log.Error("opentelemetry error", zap.Error(err))
		}))
	})
}

// ForceFlush concurrently flushes every built provider.
func (h *Handle) ForceFlush(ctx context.Context) error {
	if !h.Active() {
		return nil
	}
	return lifecycle.ConcurrentHook(h.hooks(lifecycle.ForceFlush)...).Run(ctx)
}

// Shutdown flushes and stops every built provider. Only the first call
// on an active handle does anything, later calls return nil.
func (h *Handle) Shutdown(ctx context.Context) error {
	if !h.active.CompareAndSwap(true, false) {
		return nil
	}
	return lifecycle.MultiHook(h.hooks(lifecycle.Shutdown)...).Run(ctx)
}

// Close calls [Handle.Shutdown] with a background context.
func (h *Handle) Close() error {
	return h.Shutdown(context.Background())
}

// TraceURL returns the link to the trace of span in the Uptrace UI or
// an empty string if the handle has no DSN.
func (h *Handle) TraceURL(span trace.Span) string {
	if !h.hasDSN || span == nil {
		return ""
	}
	return h.dsn.TraceURL(span.SpanContext().TraceID().String())
}

func (h *Handle) hooks(f func(any) lifecycle.Hook) []lifecycle.Hook {
	hooks := make([]lifecycle.Hook, 0, 3)
	if h.tracerProvider != nil {
		hooks = append(hooks, f(h.tracerProvider))
	}
	if h.meterProvider != nil {
		hooks = append(hooks, f(h.meterProvider))
	}
	if h.loggerProvider != nil {
		hooks = append(hooks, f(h.loggerProvider))
	}
	return hooks
}
