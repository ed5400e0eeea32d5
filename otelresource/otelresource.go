// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package otelresource merges resource attributes from multiple sources
// into a single OpenTelemetry [resource.Resource].
//
// Sources are applied strictly in the order given. When two sources set the
// same key, the later source wins. A failing source contributes nothing and
// never aborts resolution, unless its error wraps [resource.ErrPartialResource]
// in which case the attributes it did return are kept.
package otelresource

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// Source provides resource attributes.
type Source interface {
	Attributes(context.Context) ([]attribute.KeyValue, error)
}

// SourceFunc is a func variant of the [Source] interface.
type SourceFunc func(context.Context) ([]attribute.KeyValue, error)

// Attributes implements the [Source] interface.
func (f SourceFunc) Attributes(ctx context.Context) ([]attribute.KeyValue, error) {
	return f(ctx)
}

// SourceError is reported to the [OnError] handler when a [Source]
// fails to provide its attributes.
type SourceError struct {
	Index int
	Cause error
}

// Error implements the [builtin.error] interface.
func (e SourceError) Error() string {
	return fmt.Sprintf("resource source %d failed: %s", e.Index, e.Cause)
}

// Unwrap implements the implicit interface used by [errors.Is] and [errors.As].
func (e SourceError) Unwrap() error {
	return e.Cause
}

type resolveOptions struct {
	onError func(error)
}

// ResolveOption configures [Resolve].
type ResolveOption func(*resolveOptions)

// OnError registers a handler for errors from individual sources.
func OnError(f func(error)) ResolveOption {
	return func(ro *resolveOptions) {
		ro.onError = f
	}
}

// Resolve applies the given sources in order and returns the merged resource.
func Resolve(ctx context.Context, sources []Source, opts ...ResolveOption) *resource.Resource {
	ro := &resolveOptions{
		onError: func(error) {},
	}
	for _, opt := range opts {
		opt(ro)
	}

	merged := make(map[attribute.Key]attribute.Value)
	for i, src := range sources {
		if src == nil {
			continue
		}

		kvs, err := src.Attributes(ctx)
		if err != nil {
			ro.onError(SourceError{Index: i, Cause: err})

			// a partial resource is still better than nothing
			if !errors.Is(err, resource.ErrPartialResource) {
				continue
			}
		}
		for _, kv := range kvs {
			if !kv.Valid() {
				continue
			}
			merged[kv.Key] = kv.Value
		}
	}

	kvs := make([]attribute.KeyValue, 0, len(merged))
	for k, v := range merged {
		kvs = append(kvs, attribute.KeyValue{Key: k, Value: v})
	}
	return resource.NewWithAttributes(semconv.SchemaURL, kvs...)
}

// FromDetector adapts a [resource.Detector] into a [Source].
func FromDetector(d resource.Detector) Source {
	return SourceFunc(func(ctx context.Context) ([]attribute.KeyValue, error) {
		res, err := d.Detect(ctx)
		if res == nil {
			return nil, err
		}
		return res.Attributes(), err
	})
}

// FromResource returns a [Source] providing the attributes of res.
func FromResource(res *resource.Resource) Source {
	return SourceFunc(func(ctx context.Context) ([]attribute.KeyValue, error) {
		if res == nil {
			return nil, nil
		}
		return res.Attributes(), nil
	})
}

// Static returns a [Source] providing the given attributes.
func Static(kvs ...attribute.KeyValue) Source {
	return SourceFunc(func(ctx context.Context) ([]attribute.KeyValue, error) {
		return kvs, nil
	})
}
