// Copyright 2026 Outreach Corporation. All Rights Reserved.

// Description: Implements the public API for the olog package.

// Package olog implements the console loggers used by ils for its own
// diagnostics and as the fallback sink of every other appender. Loggers
// returned by this package write straight to the console and never
// route through a logging context, so an appender that fails can
// report the failure without re-entering itself.
//
// Levels are controlled per package or module address, see SetLevel
// and ConfigureLevels.
package olog

import (
	"io"
	"log/slog"
	"runtime"
	"sync"

	"github.com/getoutreach/ilslog/internal/callerinfo"
	"github.com/getoutreach/ilslog/pkg/logevent"
)

var outputLock = new(sync.RWMutex)

// New creates a new logger associated with the module and package of
// its caller. The address is used to look up its level, see SetLevel.
//
// The association is fixed when the logger is created, passing the
// logger to another package does not change it.
func New() *slog.Logger {
	var m metadata
	if pc, _, _, ok := runtime.Caller(1); ok {
		f := callerinfo.ForPC(pc)
		m = metadata{ModulePath: f.Module, PackagePath: f.Package}
	}
	return NewWithHandler(createHandler(newLeveler(globalLevelRegistry, m.addrs()), &m))
}

// Named returns a logger whose level is controlled by the provided
// address instead of the caller's package.
func Named(address string) *slog.Logger {
	m := metadata{PackagePath: address}
	return NewWithHandler(createHandler(newLeveler(globalLevelRegistry, m.addrs()), &m))
}

// NewConsoleHandler returns a handler that writes every record it is
// given, whatever its level. It is used by appenders that have already
// applied their own level decisions.
func NewConsoleHandler() slog.Handler {
	return createHandler(slog.Level(logevent.All), &metadata{})
}

// metadata is metadata associated with every logger created by New().
type metadata struct {
	// ModulePath is the path of the module that created this logger.
	ModulePath string

	// PackagePath is the path of the package that created this logger.
	PackagePath string
}

// addrs returns the level registry addresses of m, most specific
// first.
func (m *metadata) addrs() []string {
	addrs := make([]string, 0, 2)
	if m.PackagePath != "" {
		addrs = append(addrs, m.PackagePath)
	}
	if m.ModulePath != "" && m.ModulePath != m.PackagePath {
		addrs = append(addrs, m.ModulePath)
	}
	return addrs
}

// NewWithHandler returns a new slog.Logger with the provided handler.
//
// Note: A logger created with this function will not be controlled by
// the level registry. This is primarily meant to be used only by tests.
func NewWithHandler(h slog.Handler) *slog.Logger {
	return slog.New(h)
}

// SetOutput sets the output of every logger created by this package,
// including loggers created before the call.
func SetOutput(w io.Writer) {
	outputLock.Lock()
	defer outputLock.Unlock()
	defaultOut = w
}

// output returns the current output writer.
func output() io.Writer {
	outputLock.RLock()
	defer outputLock.RUnlock()
	return defaultOut
}

// NewWithHooks returns a logger like New whose records are augmented by
// hooks before they are written.
//
// Hooks run in the order provided. Attributes returned by a later hook
// are appended after those of earlier hooks.
func NewWithHooks(hooks ...LogHookFunc) *slog.Logger {
	var m metadata
	if pc, _, _, ok := runtime.Caller(1); ok {
		f := callerinfo.ForPC(pc)
		m = metadata{ModulePath: f.Module, PackagePath: f.Package}
	}
	h := createHandler(newLeveler(globalLevelRegistry, m.addrs()), &m)
	return slog.New(&hookHandler{Handler: h, hooks: hooks})
}
