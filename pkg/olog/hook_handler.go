// Copyright 2026 Outreach Corporation. All Rights Reserved.

// Description: Contains log handler wrapper allowing hook funcs.

package olog

import (
	"context"
	"log/slog"

	"github.com/getoutreach/ilslog/pkg/logevent"
)

// LogHookFunc is called before a record is written and returns
// attributes to append to it. A returned error is passed to the caller
// of Handle.
//
//nolint:gocritic // Why: this is the signature require by the slog handler interface
type LogHookFunc func(context.Context, slog.Record) ([]slog.Attr, error)

type hookHandler struct {
	hooks []LogHookFunc
	slog.Handler
}

// Handle calls every hook before calling the wrapped handler.
//
//nolint:gocritic // Why: this is the signature require by the slog handler interface
func (h *hookHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, hook := range h.hooks {
		attrs, err := hook(ctx, r)
		if err != nil {
			return err
		}

		r.AddAttrs(attrs...)
	}

	return h.Handler.Handle(ctx, r)
}

func (h *hookHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &hookHandler{hooks: h.hooks, Handler: h.Handler.WithAttrs(attrs)}
}

func (h *hookHandler) WithGroup(name string) slog.Handler {
	return &hookHandler{hooks: h.hooks, Handler: h.Handler.WithGroup(name)}
}

// ThreadInfo is a hook adding the thread and diagnostic context carried
// by ctx to the record.
//
//nolint:gocritic // Why: this is the signature require by the slog handler interface
func ThreadInfo(ctx context.Context, _ slog.Record) ([]slog.Attr, error) {
	attrs := []slog.Attr{}
	if t := logevent.ThreadFrom(ctx); t != logevent.DefaultThread {
		attrs = append(attrs, slog.String("thread", t.Name))
	}
	for k, v := range logevent.MDCFrom(ctx) {
		attrs = append(attrs, slog.String(k, v))
	}
	return attrs, nil
}
