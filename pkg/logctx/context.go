// Copyright 2026 Outreach Corporation. All Rights Reserved.

// Description: An explicitly constructed logging context.

// Package logctx implements the logging context that owns logger
// levels, turbo filters and appender attachments.
//
// A Context is created by its owner and passed to whatever needs it;
// there is no process wide instance. Events are dispatched
// synchronously on the caller's goroutine.
package logctx

import (
	"context"
	"log/slog"
	"sync"

	"github.com/getoutreach/ilslog/pkg/appender"
	"github.com/getoutreach/ilslog/pkg/filter"
	"github.com/getoutreach/ilslog/pkg/logevent"
	"github.com/getoutreach/ilslog/pkg/olog"
	"github.com/getoutreach/ilslog/pkg/orerr"
)

const (
	// ErrNotFound is returned when no appender is attached under a name.
	ErrNotFound = orerr.SentinelError("appender not found")
)

// Context is a logging context. The zero value is not usable, use New.
type Context struct {
	scope    string
	fallback *slog.Logger

	levels *levelRegistry
	turbo  filter.Chain

	mu          sync.RWMutex
	attachments []*attachment
}

// Option configures a Context.
type Option func(*Context)

// WithFallback sets the logger used to report failures of the context
// and its appenders. It must not write to the context itself.
func WithFallback(l *slog.Logger) Option {
	return func(c *Context) {
		c.fallback = l
	}
}

// WithRootLevel sets the initial root level.
func WithRootLevel(l logevent.Level) Option {
	return func(c *Context) {
		c.levels.setRoot(l)
	}
}

// New creates a logging context for scope, e.g. "gateway". The root
// level defaults to INFO.
func New(scope string, opts ...Option) *Context {
	c := &Context{
		scope:  scope,
		levels: newLevelRegistry(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.fallback == nil {
		c.fallback = olog.New().With("scope", scope)
	}
	return c
}

// Scope returns the scope the context was created for.
func (c *Context) Scope() string {
	return c.scope
}

// Fallback returns the logger failures are reported to.
func (c *Context) Fallback() *slog.Logger {
	return c.fallback
}

// SetLevel sets the level of the named logger and of its descendants
// that have no level of their own.
func (c *Context) SetLevel(name string, l logevent.Level) {
	c.levels.set(name, l)
}

// ClearLevel removes the level set on name, which then inherits its
// parent's level.
func (c *Context) ClearLevel(name string) {
	c.levels.clear(name)
}

// Level returns the level set on name itself.
func (c *Context) Level(name string) (logevent.Level, bool) {
	return c.levels.get(name)
}

// EffectiveLevel returns the level that applies to name, walking the
// dotted parents of name up to the root.
func (c *Context) EffectiveLevel(name string) logevent.Level {
	return c.levels.effective(name)
}

// SetRootLevel sets the root level.
func (c *Context) SetRootLevel(l logevent.Level) {
	c.levels.setRoot(l)
}

// RootLevel returns the root level.
func (c *Context) RootLevel() logevent.Level {
	return c.levels.root()
}

// LoggerNames returns every logger name handed out or configured,
// sorted.
func (c *Context) LoggerNames() []string {
	return c.levels.names()
}

// TurboFilters returns the context wide filter chain, evaluated before
// logger levels.
func (c *Context) TurboFilters() *filter.Chain {
	return &c.turbo
}

// InstallTurboFilter adds f under name unless a filter of that name is
// already installed, and returns the installed filter.
func (c *Context) InstallTurboFilter(name string, f filter.TurboFilter) filter.TurboFilter {
	return c.turbo.AddIfAbsent(name, f)
}

// Reset stops and removes every appender and clears the turbo filters
// and levels. Logger names handed out remain known.
func (c *Context) Reset(ctx context.Context) error {
	c.mu.Lock()
	atts := c.attachments
	c.attachments = nil
	c.mu.Unlock()

	var firstErr error
	for i := len(atts) - 1; i >= 0; i-- {
		if err := c.stop(ctx, atts[i]); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	c.turbo.Reset()
	c.levels.reset()
	return firstErr
}

// Close is Reset.
func (c *Context) Close(ctx context.Context) error {
	return c.Reset(ctx)
}

// AppenderNames returns the names of the attached appenders in
// delivery order.
func (c *Context) AppenderNames() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, len(c.attachments))
	for i, a := range c.attachments {
		out[i] = a.name
	}
	return out
}

// Appender returns the appender attached under name.
func (c *Context) Appender(name string) (appender.Appender, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, a := range c.attachments {
		if a.name == name {
			return a.appender, true
		}
	}
	return nil, false
}
