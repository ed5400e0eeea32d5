// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"context"
	"errors"
)

// Value is a config value which may or may not be set.
type Value[T any] struct {
	value T
	set   bool
}

// ValueOf returns a set [Value] holding v.
func ValueOf[T any](v T) Value[T] {
	return Value[T]{value: v, set: true}
}

// Value returns the underlying value and whether it was set.
func (v Value[T]) Value() (T, bool) {
	return v.value, v.set
}

// Reader represents a source of a config value.
type Reader[T any] interface {
	Read(context.Context) (Value[T], error)
}

// ReaderFunc is a func variant of the [Reader] interface.
type ReaderFunc[T any] func(context.Context) (Value[T], error)

// Read implements the [Reader] interface.
func (f ReaderFunc[T]) Read(ctx context.Context) (Value[T], error) {
	return f(ctx)
}

// ReaderOf returns a [Reader] which always returns v as a set value.
func ReaderOf[T any](v T) Reader[T] {
	return ReaderFunc[T](func(ctx context.Context) (Value[T], error) {
		return ValueOf(v), nil
	})
}

// Optional returns a [Reader] which is set only if p isn't nil.
func Optional[T any](p *T) Reader[T] {
	return ReaderFunc[T](func(ctx context.Context) (Value[T], error) {
		if p == nil {
			return Value[T]{}, nil
		}
		return ValueOf(*p), nil
	})
}

// ErrValueNotSet is returned by [Read] when the [Reader] returned an unset value.
var ErrValueNotSet = errors.New("config: value not set")

// Read reads the value from r. An unset value is reported as [ErrValueNotSet].
func Read[T any](ctx context.Context, r Reader[T]) (T, error) {
	var zero T
	val, err := r.Read(ctx)
	if err != nil {
		return zero, err
	}
	v, ok := val.Value()
	if !ok {
		return zero, ErrValueNotSet
	}
	return v, nil
}

// MustOr returns the value read from r or, if it's unset or
// fails to be read, the given default.
func MustOr[T any](ctx context.Context, defaultValue T, r Reader[T]) T {
	v, err := Read(ctx, r)
	if err != nil {
		return defaultValue
	}
	return v
}

// Default returns a [Reader] which replaces an unset value from r with defaultValue.
// Errors from r are still propagated.
func Default[T any](defaultValue T, r Reader[T]) Reader[T] {
	return ReaderFunc[T](func(ctx context.Context) (Value[T], error) {
		val, err := r.Read(ctx)
		if err != nil {
			return Value[T]{}, err
		}
		if _, ok := val.Value(); ok {
			return val, nil
		}
		return ValueOf(defaultValue), nil
	})
}

// Or returns the first set value from the given [Reader]s.
func Or[T any](readers ...Reader[T]) Reader[T] {
	return ReaderFunc[T](func(ctx context.Context) (Value[T], error) {
		for _, r := range readers {
			val, err := r.Read(ctx)
			if err != nil {
				return Value[T]{}, err
			}
			if _, ok := val.Value(); ok {
				return val, nil
			}
		}
		return Value[T]{}, nil
	})
}

// Map transforms a set value from r using f.
func Map[A, B any](r Reader[A], f func(context.Context, A) (B, error)) Reader[B] {
	return ReaderFunc[B](func(ctx context.Context) (Value[B], error) {
		val, err := r.Read(ctx)
		if err != nil {
			return Value[B]{}, err
		}
		a, ok := val.Value()
		if !ok {
			return Value[B]{}, nil
		}
		b, err := f(ctx, a)
		if err != nil {
			return Value[B]{}, err
		}
		return ValueOf(b), nil
	})
}

// IsSet returns a [Reader] which is always set and reports
// whether r produced a set value.
func IsSet[T any](r Reader[T]) Reader[bool] {
	return ReaderFunc[bool](func(ctx context.Context) (Value[bool], error) {
		val, err := r.Read(ctx)
		if err != nil {
			return Value[bool]{}, err
		}
		_, ok := val.Value()
		return ValueOf(ok), nil
	})
}
