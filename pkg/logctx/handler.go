// Copyright 2026 Outreach Corporation. All Rights Reserved.

// Description: slog handlers bound to a logging context.

package logctx

import (
	"context"
	"log/slog"
	"strings"

	"github.com/getoutreach/ilslog/internal/callerinfo"
	"github.com/getoutreach/ilslog/pkg/logevent"
)

// Logger returns a logger named name whose records are dispatched to c.
func (c *Context) Logger(name string) *slog.Logger {
	return slog.New(c.Handler(name))
}

// Handler returns a slog.Handler for the logger named name.
func (c *Context) Handler(name string) slog.Handler {
	c.levels.register(name)
	return &handler{c: c, logger: name}
}

// handler converts records into events and dispatches them.
type handler struct {
	c      *Context
	logger string
	attrs  []slog.Attr
	groups []string
}

func (h *handler) Enabled(_ context.Context, l slog.Level) bool {
	return h.c.Enabled(h.logger, logevent.FromSlog(l))
}

//nolint:gocritic // Why: signature required by slog.Handler.
func (h *handler) Handle(ctx context.Context, r slog.Record) error {
	ev := logevent.FromRecord(ctx, h.logger, r, h.attrs, h.groups)
	if ev.Caller.IsZero() && !hasCallerMDC(ev) {
		ev.Caller = callerinfo.FirstOutside(0)
	}
	h.c.Dispatch(ev)
	return nil
}

// hasCallerMDC reports whether the MDC already supplies every caller
// field.
func hasCallerMDC(ev *logevent.Event) bool {
	for _, k := range []string{logevent.KeyModule, logevent.KeyFunction, logevent.KeyLine} {
		if _, ok := ev.MDC[k]; !ok {
			return false
		}
	}
	return true
}

func (h *handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	next := *h
	next.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	next.attrs = append(next.attrs, h.attrs...)
	prefix := strings.Join(h.groups, ".")
	for _, a := range attrs {
		if prefix != "" {
			a.Key = prefix + "." + a.Key
		}
		next.attrs = append(next.attrs, a)
	}
	return &next
}

func (h *handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.groups = append(append([]string(nil), h.groups...), name)
	return &next
}
