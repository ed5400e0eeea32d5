// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package ptr provides helpers for the optional fields of the builder.
package ptr

// Ref returns a reference to a copy of v.
func Ref[T any](v T) *T {
	return &v
}

// Deref returns the value t points to or, if t is nil, def.
func Deref[T any](t *T, def T) T {
	if t == nil {
		return def
	}
	return *t
}

// Take returns the value p points to and clears p, so the value
// can't be observed through p again.
func Take[T any](p **T) *T {
	v := *p
	*p = nil
	return v
}
