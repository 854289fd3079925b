// Copyright 2026 Outreach Corporation. All Rights Reserved.

// Description: This file contains signal and panic handling for CLIs.

package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
)

// nolint:gochecknoglobals
var shutdownSignals = []os.Signal{os.Interrupt, syscall.SIGTERM, syscall.SIGHUP}

// notifyShutdown calls cancel on the first term signal. Later signals
// get the default behavior back, so a command stuck while shutting down
// can still be killed with a second ^C. stop releases the handler.
func notifyShutdown(cancel context.CancelFunc) (stop func()) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, shutdownSignals...)
	done := make(chan struct{})
	go func() {
		select {
		case <-c:
			signal.Reset(shutdownSignals...)
			cancel()
		case <-done:
		}
	}()
	return func() {
		signal.Stop(c)
		close(done)
	}
}

// recoverPanic turns a panic of the command into exit code 2, the code
// the Go runtime uses, after writing the stack to w.
func recoverPanic(w io.Writer, exitCode *int) {
	r := recover()
	if r == nil {
		return
	}
	fmt.Fprintf(w, "stacktrace from panic: %s\n%s\n", r, debug.Stack())
	*exitCode = 2
}
