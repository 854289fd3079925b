// Copyright 2026 Outreach Corporation. All Rights Reserved.

// Description: Contains logic for determining which handler should be
// used by default.

package olog

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync/atomic"

	charmlog "github.com/charmbracelet/log"
	"golang.org/x/term"
)

var (
	// defaultHandler is the handler type used by every logger returned
	// by this package. See determineDefaultHandler.
	defaultHandler atomic.Int32

	// defaultOut is the output for every handler. Defaults to
	// os.Stderr.
	defaultOut io.Writer = os.Stderr
)

// DefaultHandlerType denotes which handler should be used.
type DefaultHandlerType int

const (
	JSONHandler DefaultHandlerType = iota
	TextHandler
)

// determineDefaultHandler uses the charm text handler when os.Stderr is
// a TTY and the JSON handler otherwise.
func determineDefaultHandler() {
	if term.IsTerminal(int(os.Stderr.Fd())) {
		defaultHandler.Store(int32(TextHandler))
	} else {
		defaultHandler.Store(int32(JSONHandler))
	}
}

//nolint:gochecknoinits // Why: Initializes the default handler.
func init() {
	determineDefaultHandler()
}

// SetDefaultHandler changes the handler type used by every logger,
// including loggers created before the call.
func SetDefaultHandler(t DefaultHandlerType) {
	defaultHandler.Store(int32(t))
}

// writer forwards to the current defaultOut so that SetOutput applies
// to loggers that already exist.
type writer struct{}

func (writer) Write(p []byte) (int, error) {
	return output().Write(p)
}

// createHandler creates a handler that consults lvl on every record and
// renders with the handler type selected when the record is written.
func createHandler(lvl slog.Leveler, m *metadata) slog.Handler {
	var attrs []slog.Attr
	if m.ModulePath != "" {
		attrs = append(attrs, slog.String("module", m.ModulePath))
	}
	opts := &slog.HandlerOptions{
		AddSource: true,
		// The outer handler applies lvl; both renderers accept everything.
		Level: slog.Level(-100),
	}

	var json slog.Handler = slog.NewJSONHandler(writer{}, opts)
	var text slog.Handler = charmlog.NewWithOptions(writer{}, charmlog.Options{
		ReportCaller:    opts.AddSource,
		ReportTimestamp: true,
		Level:           charmlog.DebugLevel,
	})
	if len(attrs) > 0 {
		json = json.WithAttrs(attrs)
		text = text.WithAttrs(attrs)
	}
	return &switchHandler{level: lvl, json: json, text: text}
}

// switchHandler applies a dynamic level and dispatches to the JSON or
// text handler depending on defaultHandler.
type switchHandler struct {
	level slog.Leveler
	json  slog.Handler
	text  slog.Handler
}

func (h *switchHandler) Enabled(_ context.Context, l slog.Level) bool {
	return l >= h.level.Level()
}

//nolint:gocritic // Why: signature required by slog.Handler.
func (h *switchHandler) Handle(ctx context.Context, r slog.Record) error {
	if DefaultHandlerType(defaultHandler.Load()) == JSONHandler {
		return h.json.Handle(ctx, r)
	}
	// charm has no level below debug.
	if r.Level < slog.LevelDebug {
		r.Level = slog.LevelDebug
	}
	return h.text.Handle(ctx, r)
}

func (h *switchHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &switchHandler{level: h.level, json: h.json.WithAttrs(attrs), text: h.text.WithAttrs(attrs)}
}

func (h *switchHandler) WithGroup(name string) slog.Handler {
	return &switchHandler{level: h.level, json: h.json.WithGroup(name), text: h.text.WithGroup(name)}
}
