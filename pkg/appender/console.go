// Copyright 2026 Outreach Corporation. All Rights Reserved.

// Description: Writes events to the console.

package appender

import (
	"context"
	"log/slog"

	"github.com/getoutreach/ilslog/pkg/logevent"
	"github.com/getoutreach/ilslog/pkg/olog"
)

// Console writes events through a console handler. It is the sink used
// when no datasource is configured and the fallback of the other
// appenders.
type Console struct {
	h slog.Handler
}

// NewConsole returns a console appender writing through the olog
// console handler.
func NewConsole() *Console {
	return &Console{h: olog.NewConsoleHandler()}
}

// NewConsoleWithHandler returns a console appender writing to h.
func NewConsoleWithHandler(h slog.Handler) *Console {
	return &Console{h: h}
}

// Append implements Appender.
func (c *Console) Append(ev *logevent.Event) {
	_ = c.Write(context.Background(), ev) //nolint:errcheck // Why: nowhere left to report it
}

// Write implements Writer.
func (c *Console) Write(ctx context.Context, ev *logevent.Event) error {
	return c.h.Handle(ctx, Record(ev))
}

// Record converts ev into a slog record carrying its logger, thread,
// MDC and error as attributes.
func Record(ev *logevent.Event) slog.Record {
	r := slog.NewRecord(ev.Time, ev.Level.Slog(), ev.Message, 0)
	r.AddAttrs(slog.String("logger", ev.Logger), slog.String("thread", ev.Thread.Name))
	for k, v := range ev.MDC {
		r.AddAttrs(slog.String(k, v))
	}
	if !ev.Caller.IsZero() {
		r.AddAttrs(slog.String("function", ev.Caller.ShortFunction()), slog.Int("line", ev.Caller.Line))
	}
	if ev.Err != nil {
		r.AddAttrs(slog.String("error", ev.Err.Error()))
	}
	return r
}
