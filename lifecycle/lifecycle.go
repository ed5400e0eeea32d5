// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package lifecycle provides composable hooks for flushing and shutting
// down telemetry providers.
package lifecycle

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"
)

// Hook represents an action performed at a specific point in the
// lifetime of a telemetry pipeline, e.g. on shutdown.
type Hook interface {
	Run(context.Context) error
}

// HookFunc is a func variant of the [Hook] interface.
type HookFunc func(context.Context) error

// Run implements the [Hook] interface.
func (f HookFunc) Run(ctx context.Context) error {
	return f(ctx)
}

type multiHook []Hook

func (mh multiHook) Run(ctx context.Context) error {
	errs := make([]error, 0, len(mh))
	for _, h := range mh {
		err := h.Run(ctx)
		if err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	if len(errs) == 1 {
		return errs[0]
	}
	return errors.Join(errs...)
}

// MultiHook returns a [Hook] that's the logical concatenation
// of the provided [Hook]s. They're applied sequentially and every
// hook runs even if a previous one failed.
func MultiHook(hooks ...Hook) Hook {
	return multiHook(hooks)
}

// ConcurrentHook returns a [Hook] which runs all the given hooks at
// once and returns the first error. The context given to the hooks is
// cancelled as soon as one of them fails.
func ConcurrentHook(hooks ...Hook) Hook {
	return HookFunc(func(ctx context.Context) error {
		g, gctx := errgroup.WithContext(ctx)
		for _, h := range hooks {
			g.Go(func() error {
				return h.Run(gctx)
			})
		}
		return g.Wait()
	})
}

type shutdowner interface {
	Shutdown(context.Context) error
}

// Shutdown returns a [Hook] which calls Shutdown on v, if v has one.
func Shutdown(v any) Hook {
	return HookFunc(func(ctx context.Context) error {
		if v == nil {
			return nil
		}

		s, ok := v.(shutdowner)
		if !ok {
			return nil
		}
		return s.Shutdown(ctx)
	})
}

type flusher interface {
	ForceFlush(context.Context) error
}

// ForceFlush returns a [Hook] which calls ForceFlush on v, if v has one.
func ForceFlush(v any) Hook {
	return HookFunc(func(ctx context.Context) error {
		if v == nil {
			return nil
		}

		f, ok := v.(flusher)
		if !ok {
			return nil
		}
		return f.ForceFlush(ctx)
	})
}
