// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package config provides a functional approach to reading and composing configuration values.
//
// The package is built around the concept of a Reader[T], which represents a source of
// configuration values that may or may not be present. Value[T] distinguishes between
// "not set" and "set to zero value", which matters for values with defaults or for
// switches whose mere presence has meaning, like UPTRACE_DISABLED.
//
// # Basic Usage
//
// Read a number from an environment variable with a default:
//
//	queueSize, err := config.Read(ctx,
//	    config.Default(30000, config.IntFromString(config.Env("OTEL_BSP_MAX_QUEUE_SIZE"))),
//	)
//
// Try multiple sources in order, skipping a nil pointer:
//
//	dsn, err := config.Read(ctx,
//	    config.Or(
//	        config.Optional(dsnFlag),
//	        config.Env("UPTRACE_DSN"),
//	    ),
//	)
//
// Turn the presence of a variable into a switch:
//
//	disabled := config.IsSet(config.Env("UPTRACE_DISABLED"))
//
// # Error Handling
//
// Readers distinguish between three states:
//   - Value is set (returns Value with set=true)
//   - Value is not set (returns Value with set=false, no error)
//   - Error occurred (returns error)
//
// The Read function converts "not set" to ErrValueNotSet for convenience.
package config
