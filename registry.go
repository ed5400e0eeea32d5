// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package uptrace

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/log/global"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// Registry is where [Handle.Install] registers providers.
type Registry interface {
	SetTracerProvider(trace.TracerProvider)
	SetMeterProvider(metric.MeterProvider)
	SetLoggerProvider(log.LoggerProvider)
	SetTextMapPropagator(propagation.TextMapPropagator)
	SetErrorHandler(otel.ErrorHandler)
}

// Global returns the [Registry] backed by the process wide
// OpenTelemetry globals.
func Global() Registry {
	return globalRegistry{}
}

type globalRegistry struct{}

func (globalRegistry) SetTracerProvider(tp trace.TracerProvider) {
	otel.SetTracerProvider(tp)
}

func (globalRegistry) SetMeterProvider(mp metric.MeterProvider) {
	otel.SetMeterProvider(mp)
}

func (globalRegistry) SetLoggerProvider(lp log.LoggerProvider) {
	global.SetLoggerProvider(lp)
}

func (globalRegistry) SetTextMapPropagator(p propagation.TextMapPropagator) {
	otel.SetTextMapPropagator(p)
}

func (globalRegistry) SetErrorHandler(h otel.ErrorHandler) {
	otel.SetErrorHandler(h)
}
