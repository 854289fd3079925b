// Copyright 2026 Outreach Corporation. All Rights Reserved.

// Description: In-process LoggingHost over a logging context.

package host

import (
	"context"
	"sync/atomic"

	"github.com/getoutreach/ilslog/pkg/appender"
	"github.com/getoutreach/ilslog/pkg/async"
	"github.com/getoutreach/ilslog/pkg/config"
	"github.com/getoutreach/ilslog/pkg/filter"
	"github.com/getoutreach/ilslog/pkg/logctx"
	"github.com/getoutreach/ilslog/pkg/logevent"
)

// AppenderConsole is the name the console appender is installed under.
const AppenderConsole = "console"

// Local is a LoggingHost over a *logctx.Context and a parsed logging
// configuration.
type Local struct {
	lc      *logctx.Context
	console appender.Appender
	logging atomic.Pointer[config.Logging]

	// mu serializes resets against appender changes.
	mu *async.MutexWithContext
}

// Option configures a Local.
type Option func(*Local)

// WithConsole replaces the console appender installed on reset.
func WithConsole(a appender.Appender) Option {
	return func(l *Local) {
		l.console = a
	}
}

// NewLocal returns a host for lc configured by logging. A nil logging
// configuration is treated as empty.
func NewLocal(lc *logctx.Context, logging *config.Logging, opts ...Option) *Local {
	l := &Local{
		lc:      lc,
		console: appender.NewConsole(),
		mu:      async.NewMutexWithContext(),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.SetLogging(logging)
	return l
}

// Context returns the logging context.
func (l *Local) Context() *logctx.Context {
	return l.lc
}

// Controls returns the level and turbo filter controls.
func (l *Local) Controls() Controls {
	return l.lc
}

// Logging returns the current logging configuration.
func (l *Local) Logging() *config.Logging {
	return l.logging.Load()
}

// SetLogging replaces the logging configuration used by later resets
// and property lookups.
func (l *Local) SetLogging(logging *config.Logging) {
	if logging == nil {
		logging = config.Empty()
	}
	l.logging.Store(logging)
}

// Reload replaces the logging configuration and applies its levels and
// turbo filters without touching installed appenders.
func (l *Local) Reload(ctx context.Context, logging *config.Logging) error {
	if err := l.mu.Lock(ctx); err != nil {
		return err
	}
	defer l.mu.Unlock()

	l.SetLogging(logging)
	l.Logging().Apply(l.lc)
	return nil
}

// InstallAppender implements LoggingHost.
func (l *Local) InstallAppender(ctx context.Context, name string, a appender.Appender, opts ...logctx.AttachOption) error {
	if err := l.mu.Lock(ctx); err != nil {
		return err
	}
	defer l.mu.Unlock()
	return l.lc.AddAppender(ctx, name, a, opts...)
}

// RemoveAppender implements LoggingHost.
func (l *Local) RemoveAppender(ctx context.Context, name string) error {
	if err := l.mu.Lock(ctx); err != nil {
		return err
	}
	defer l.mu.Unlock()
	return l.lc.RemoveAppender(ctx, name)
}

// ResetContext implements LoggingHost. It resets the logging context,
// re-applies the logging configuration and installs the console
// appender. Crash output is kept off the console.
func (l *Local) ResetContext(ctx context.Context) error {
	if err := l.mu.Lock(ctx); err != nil {
		return err
	}
	defer l.mu.Unlock()

	err := l.lc.Reset(ctx)
	l.Logging().Apply(l.lc)

	if l.console == nil {
		return err
	}
	if cerr := l.lc.AddAppender(ctx, AppenderConsole, l.console,
		logctx.WithFilters(filter.NewSuppressByMarker(logevent.MarkerCrash))); err == nil {
		err = cerr
	}
	return err
}

// ConfigProperty implements LoggingHost.
func (l *Local) ConfigProperty(name string) (string, bool) {
	return l.Logging().Property(name)
}
