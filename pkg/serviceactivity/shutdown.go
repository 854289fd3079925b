// Copyright 2026 Outreach Corporation. All Rights Reserved.

// Description: This file implements the activity turning term signals
// into a graceful shutdown.

package serviceactivity

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/getoutreach/ilslog/pkg/orerr"
)

// nolint:gochecknoglobals
var shutdownSignals = []os.Signal{os.Interrupt, syscall.SIGTERM, syscall.SIGHUP}

var _ ServiceActivity = (*ShutdownService)(nil)

// ShutdownService fails with an orerr.ShutdownError on the first term
// signal, which stops every other activity of the group.
type ShutdownService struct {
	done      chan struct{}
	closeOnce sync.Once
}

// NewShutdownService creates a new shutdown service
func NewShutdownService() *ShutdownService {
	return &ShutdownService{done: make(chan struct{})}
}

// Run implements ServiceActivity.
func (s *ShutdownService) Run(ctx context.Context) error {
	c := make(chan os.Signal, 1)
	signal.Notify(c, shutdownSignals...)
	defer signal.Stop(c)

	select {
	case sig := <-c:
		// a second signal kills a gateway that hangs while stopping
		signal.Reset(shutdownSignals...)
		return orerr.ShutdownError{Err: fmt.Errorf("received %v", sig)}
	case <-ctx.Done():
		return ctx.Err()
	case <-s.done:
		return nil
	}
}

// Close implements ServiceActivity. It releases a Run still waiting.
func (s *ShutdownService) Close(_ context.Context) error {
	s.closeOnce.Do(func() { close(s.done) })
	return nil
}

// IsShutdown reports whether err ended a run because of a signal or a
// canceled context, neither of which is a failure.
func IsShutdown(err error) bool {
	var se orerr.ShutdownError
	return err == nil || errors.As(err, &se) || errors.Is(err, context.Canceled)
}
