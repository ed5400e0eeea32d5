// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package otelresource

import (
	"context"
	"os"

	"go.opentelemetry.io/contrib/detectors/gcp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// HostName provides the host.name attribute from [os.Hostname].
func HostName() Source {
	return hostName(os.Hostname)
}

func hostName(lookup func() (string, error)) Source {
	return SourceFunc(func(ctx context.Context) ([]attribute.KeyValue, error) {
		name, err := lookup()
		if err != nil {
			return nil, err
		}
		return []attribute.KeyValue{semconv.HostName(name)}, nil
	})
}

func fromOptions(opts ...resource.Option) Source {
	return SourceFunc(func(ctx context.Context) ([]attribute.KeyValue, error) {
		res, err := resource.New(ctx, opts...)
		if res == nil {
			return nil, err
		}
		return res.Attributes(), err
	})
}

// Process provides attributes describing the current process and Go runtime.
func Process() Source {
	return fromOptions(
		resource.WithProcessPID(),
		resource.WithProcessExecutableName(),
		resource.WithProcessRuntimeName(),
		resource.WithProcessRuntimeVersion(),
		resource.WithProcessRuntimeDescription(),
	)
}

// OS provides the os.type and os.description attributes.
func OS() Source {
	return fromOptions(
		resource.WithOSType(),
		resource.WithOSDescription(),
	)
}

// TelemetrySDK provides the telemetry.sdk.* attributes.
func TelemetrySDK() Source {
	return fromOptions(resource.WithTelemetrySDK())
}

// FromEnv provides attributes from the OTEL_RESOURCE_ATTRIBUTES
// and OTEL_SERVICE_NAME environment variables.
func FromEnv() Source {
	return fromOptions(resource.WithFromEnv())
}

// GoogleCloud provides attributes detected from the Google Cloud
// environment the process is running in, if any.
func GoogleCloud() Source {
	return FromDetector(gcp.NewDetector())
}

// Service holds the user supplied service identity. Unset fields
// are not emitted.
type Service struct {
	Name        *string
	Version     *string
	Environment *string
}

// Attributes implements the [Source] interface. The attributes are
// always emitted in the order: service.name, service.version,
// deployment.environment.
func (s Service) Attributes(ctx context.Context) ([]attribute.KeyValue, error) {
	kvs := make([]attribute.KeyValue, 0, 3)
	if s.Name != nil {
		kvs = append(kvs, semconv.ServiceName(*s.Name))
	}
	if s.Version != nil {
		kvs = append(kvs, semconv.ServiceVersion(*s.Version))
	}
	if s.Environment != nil {
		kvs = append(kvs, semconv.DeploymentEnvironment(*s.Environment))
	}
	return kvs, nil
}
