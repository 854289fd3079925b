// Copyright 2026 Outreach Corporation. All Rights Reserved.

// Description: Tests for the async helpers.

package async_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pkg/errors"
	"gotest.tools/v3/assert"

	"github.com/getoutreach/ilslog/pkg/async"
)

func TestSleepCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	assert.Assert(t, !async.Sleep(ctx, time.Hour))
	assert.Assert(t, time.Since(start) < time.Second)
}

func TestSleepElapsed(t *testing.T) {
	assert.Assert(t, async.Sleep(context.Background(), time.Millisecond))
}

func TestRunGroupKeepsRunningAfterNil(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var runs atomic.Int32
	done := async.Func(func(context.Context) error {
		runs.Add(1)
		return nil
	})
	waiter := async.Func(func(ctx context.Context) error {
		runs.Add(1)
		cancel()
		<-ctx.Done()
		return nil
	})
	assert.NilError(t, async.RunGroup([]async.Runner{done, waiter}).Run(ctx))
	assert.Equal(t, runs.Load(), int32(2))
}

func TestRunGroupStopsOnFirstError(t *testing.T) {
	var closed atomic.Int32
	blocker := &closer{run: func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}, closed: &closed}
	failer := &closer{run: func(context.Context) error {
		return errors.New("failed")
	}, closed: &closed}

	err := async.RunGroup([]async.Runner{blocker, failer}).Run(context.Background())
	assert.ErrorContains(t, err, "failed")
	assert.Equal(t, closed.Load(), int32(2))
}

type closer struct {
	run    func(ctx context.Context) error
	closed *atomic.Int32
}

func (c *closer) Run(ctx context.Context) error { return c.run(ctx) }

func (c *closer) Close(context.Context) error {
	c.closed.Add(1)
	return nil
}

func TestMutexWithContext(t *testing.T) {
	m := async.NewMutexWithContext()
	assert.NilError(t, m.Lock(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.Assert(t, m.Lock(ctx) != nil)

	m.Unlock()
	assert.NilError(t, m.Lock(context.Background()))
	m.Unlock()
}
