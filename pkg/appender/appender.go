// Copyright 2026 Outreach Corporation. All Rights Reserved.

// Description: Sink contracts for log events.

// Package appender defines the sinks that receive log events and
// provides the console and in-memory sinks.
package appender

import (
	"context"

	"github.com/getoutreach/ilslog/pkg/logevent"
)

// Appender receives events. Append must not panic and must not block
// for longer than the write it performs.
type Appender interface {
	Append(ev *logevent.Event)
}

// Lifecycle is implemented by appenders that need set up before the
// first event and tear down after the last one.
type Lifecycle interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// Writer is implemented by appenders that can report the failure of a
// single event to the caller.
type Writer interface {
	Write(ctx context.Context, ev *logevent.Event) error
}

// Func adapts a function to an Appender.
type Func func(ev *logevent.Event)

// Append implements Appender.
func (f Func) Append(ev *logevent.Event) {
	f(ev)
}

// Write sends ev to a, using Writer when a implements it.
func Write(ctx context.Context, a Appender, ev *logevent.Event) error {
	if w, ok := a.(Writer); ok {
		return w.Write(ctx, ev)
	}
	a.Append(ev)
	return nil
}
