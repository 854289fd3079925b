// Copyright 2026 Outreach Corporation. All Rights Reserved.

// Description: This file integrates a logging context with go-logr/logr

// Package adapters feeds logrus and logr producers into a logging
// context.
package adapters

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-logr/logr"

	"github.com/getoutreach/ilslog/pkg/logctx"
	"github.com/getoutreach/ilslog/pkg/logevent"
)

// NewLogr returns a logr.Logger dispatching to lc under the logger
// name. WithName appends dotted segments to the name, so level
// configuration applies to logr names the same way it applies to slog
// loggers.
//
// V(0) logs at INFO, V(1) at DEBUG and anything more verbose at TRACE.
func NewLogr(lc *logctx.Context, name string) logr.Logger {
	return logr.New(&logrSink{lc: lc, name: name})
}

// logrSink implements logr.LogSink
type logrSink struct {
	lc   *logctx.Context
	name string

	// values are added to every record.
	values []any
}

// Init implements logr.LogSink. Callers are resolved by the logging
// context, so the call depth is not needed.
func (l *logrSink) Init(logr.RuntimeInfo) {}

func verbosity(level int) logevent.Level {
	switch {
	case level <= 0:
		return logevent.Info
	case level == 1:
		return logevent.Debug
	default:
		return logevent.Trace
	}
}

// Enabled implements logr.LogSink.
func (l *logrSink) Enabled(level int) bool {
	return l.lc.Enabled(l.name, verbosity(level))
}

// Info implements logr.LogSink.
func (l *logrSink) Info(level int, msg string, keysAndValues ...any) {
	l.handle(verbosity(level), msg, keysAndValues)
}

// Error implements logr.LogSink.
func (l *logrSink) Error(err error, msg string, keysAndValues ...any) {
	l.handle(logevent.Error, msg, append([]any{"error", err}, keysAndValues...))
}

func (l *logrSink) handle(lvl logevent.Level, msg string, keysAndValues []any) {
	r := slog.NewRecord(time.Now(), lvl.Slog(), msg, 0)
	r.Add(l.values...)
	r.Add(keysAndValues...)
	//nolint:errcheck // Why: logctx handlers never fail
	_ = l.lc.Handler(l.name).Handle(context.Background(), r)
}

// WithName implements logr.LogSink.
func (l *logrSink) WithName(name string) logr.LogSink {
	next := *l
	if next.name == "" {
		next.name = name
	} else {
		next.name += "." + name
	}
	return &next
}

// WithValues implements logr.LogSink.
func (l *logrSink) WithValues(keysAndValues ...any) logr.LogSink {
	next := *l
	next.values = append(append([]any(nil), l.values...), keysAndValues...)
	return &next
}
