// Copyright 2026 Outreach Corporation. All Rights Reserved.

// Description: Package async has helper utilities for running the
// activities of a service side by side.
//
// Activities are Runners grouped with RunGroup:
//
//	err := async.RunGroup([]async.Runner{server, poller}).Run(ctx)
//
// The group stops every runner once one of them fails and closes each
// runner that implements Closer or io.Closer after it returns.
package async

import (
	"context"
	"io"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/getoutreach/ilslog/pkg/olog"
)

// Runner is the default interface for a runner function
type Runner interface {
	Run(ctx context.Context) error
}

// Closer is the interface for closing a runner function. Implement this for cleaning up things.
type Closer interface {
	Close(ctx context.Context) error
}

// Func is a helper that implements the Runner interface
type Func func(ctx context.Context) error

// Run implements the Runner interface
func (f Func) Run(ctx context.Context) error {
	return f(ctx)
}

// RunClose closes r when it implements Closer or io.Closer.
func RunClose(ctx context.Context, r Runner) error {
	switch r := r.(type) {
	case Closer:
		return r.Close(ctx)
	case io.Closer:
		return r.Close()
	}
	return nil
}

// RunGroup runs every runner of rg and returns the first error. The
// context of the others is canceled by that error, a runner returning
// nil leaves the rest running.
func RunGroup(rg []Runner) Runner {
	return Func(func(ctx context.Context) error {
		g, ctx := errgroup.WithContext(ctx)
		for _, r := range rg {
			g.Go(func() error {
				defer func() {
					if err := RunClose(ctx, r); err != nil {
						olog.New().ErrorContext(ctx, "error when closing", "error", err)
					}
				}()
				return r.Run(ctx)
			})
		}
		return g.Wait()
	})
}

// Sleep waits for duration or until ctx ends, whichever comes first.
// It reports whether the full duration elapsed.
func Sleep(ctx context.Context, duration time.Duration) bool {
	t := time.NewTimer(duration)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}

// MutexWithContext is a lock whose Lock gives up when the context
// ends. Unlike sync.Mutex, Lock can fail and its error must be checked.
type MutexWithContext struct {
	sem *semaphore.Weighted
}

// NewMutexWithContext creates a new MutexWithContext instance.
func NewMutexWithContext() *MutexWithContext {
	return &MutexWithContext{semaphore.NewWeighted(1)}
}

// Lock acquires the mutex. The caller must not proceed when it returns
// an error.
func (m *MutexWithContext) Lock(ctx context.Context) error {
	return m.sem.Acquire(ctx, 1)
}

// Unlock releases the mutex, allowing the next waiter to proceed.
func (m *MutexWithContext) Unlock() {
	m.sem.Release(1)
}
