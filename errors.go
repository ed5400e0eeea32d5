// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package uptrace

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingDSN is returned by [Builder.Build] when no DSN was given
	// and the UPTRACE_DSN environment variable isn't set.
	ErrMissingDSN = errors.New("uptrace: DSN is missing (use WithDSN or UPTRACE_DSN env var)")

	// ErrBuilderConsumed is returned when [Builder.Build] is called more than once.
	ErrBuilderConsumed = errors.New("uptrace: builder has already been built")
)

// TraceBuildError occurs when the transport fails to build the tracer provider.
type TraceBuildError struct {
	Cause error
}

// Error implements the [builtin.error] interface.
func (e TraceBuildError) Error() string {
	return fmt.Sprintf("uptrace: failed to build tracer provider: %s", e.Cause)
}

// Unwrap implements the implicit interface used by [errors.Is] and [errors.As].
func (e TraceBuildError) Unwrap() error {
	return e.Cause
}

// MetricsBuildError occurs when the transport fails to build the meter provider.
type MetricsBuildError struct {
	Cause error
}

// Error implements the [builtin.error] interface.
func (e MetricsBuildError) Error() string {
	return fmt.Sprintf("uptrace: failed to build meter provider: %s", e.Cause)
}

// Unwrap implements the implicit interface used by [errors.Is] and [errors.As].
func (e MetricsBuildError) Unwrap() error {
	return e.Cause
}

// LogsBuildError occurs when the transport fails to build the logger provider.
type LogsBuildError struct {
	Cause error
}

// Error implements the [builtin.error] interface.
func (e LogsBuildError) Error() string {
	return fmt.Sprintf("uptrace: failed to build logger provider: %s", e.Cause)
}

// Unwrap implements the implicit interface used by [errors.Is] and [errors.As].
func (e LogsBuildError) Unwrap() error {
	return e.Cause
}
