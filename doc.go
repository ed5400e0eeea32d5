// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package uptrace configures OpenTelemetry tracing, metrics and logs
// exporting to Uptrace from a single DSN.
//
// # DSN
//
// A DSN has the form scheme://token@host[:port]/project_id, e.g.
//
//	https://secret@uptrace.dev/1
//
// The OTLP endpoint and the UI address are derived from it, see the
// [dsn] package. The raw DSN is sent to Uptrace in the uptrace-dsn header.
//
// # Basic Usage
//
//	h, err := uptrace.New().
//	    WithDSN("https://secret@uptrace.dev/1").
//	    WithServiceName("myservice").
//	    WithServiceVersion("1.0.0").
//	    Build(ctx)
//	if err != nil {
//	    return err
//	}
//	defer h.Shutdown(context.Background())
//
//	h.Install()
//
// # Disabling
//
// Build returns an inactive [Handle], and no error, when the UPTRACE_DISABLED
// environment variable is present, when every signal is disabled or when the
// DSN still contains the <project_id> or <token> placeholders. An inactive
// handle hands out no-op providers and its Install, ForceFlush and Shutdown
// do nothing.
//
// # Global registration
//
// Build never touches the OpenTelemetry globals. [Handle.Install] registers
// the providers, a trace context and baggage propagator and an error handler
// with a [Registry], by default the one returned by [Global].
package uptrace
