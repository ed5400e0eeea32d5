// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package otlp provides the default [pipeline.Transport], exporting traces,
// metrics and logs to Uptrace using the OpenTelemetry Protocol over gRPC.
//
// Every exporter is configured from the resolved [pipeline.Export]: the
// endpoint URL decides between TLS (https) and an insecure connection
// (http), the DSN travels in the uptrace-dsn header and payloads are gzip
// compressed. Constructing an exporter does not dial; the connection is
// established lazily on first export.
package otlp
