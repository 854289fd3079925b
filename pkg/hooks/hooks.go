// Copyright 2026 Outreach Corporation. All Rights Reserved.

// Description: Lifecycle wiring shared by every scope.

// Package hooks wires the ils appenders and filters into a logging host
// when a module scope starts, and detaches them when it stops.
//
// Startup always runs in the same order: the logging context is reset,
// the database appender is installed, the crash appender is installed
// in front of it, and the pattern filter is located (or installed).
// Failures along the way leave the console-only configuration active;
// they are reported and never returned unless ctx is canceled.
package hooks

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/getoutreach/ilslog/pkg/appender"
	"github.com/getoutreach/ilslog/pkg/crash"
	"github.com/getoutreach/ilslog/pkg/filter"
	"github.com/getoutreach/ilslog/pkg/host"
	"github.com/getoutreach/ilslog/pkg/logctx"
	"github.com/getoutreach/ilslog/pkg/logevent"
	"github.com/getoutreach/ilslog/pkg/orerr"
	"github.com/getoutreach/ilslog/pkg/statuscodes"
)

// Names the hooks install appenders and filters under.
const (
	AppenderDatabase = "database"
	AppenderCrash    = "crash"
	FilterPattern    = "pattern"
)

// Scopes, stored in the scope column.
const (
	ScopeGateway  = "gateway"
	ScopeClient   = "client"
	ScopeDesigner = "designer"
)

// ErrNoPatternFilter is returned by pattern operations when the pattern
// filter name is held by a filter of another type.
var ErrNoPatternFilter = orerr.NewErrorStatus(
	orerr.SentinelError("pattern filter unavailable"), statuscodes.Unavailable)

// Hook is the lifecycle of one module scope.
type Hook interface {
	Startup(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

// wiring owns the appenders and filters installed on a host.
type wiring struct {
	host     host.LoggingHost
	controls host.Controls
	fallback *slog.Logger

	mu          sync.Mutex
	crash       *crash.Appender
	crashFilter *filter.Crash
	pattern     *filter.Pattern
	size        int
	threshold   logevent.Level
}

func newWiring(h host.LoggingHost, controls host.Controls, fallback *slog.Logger) wiring {
	return wiring{
		host:      h,
		controls:  controls,
		fallback:  fallback,
		size:      crash.DefaultBufferSize,
		threshold: logevent.Debug,
	}
}

// start runs the startup sequence. open returns the database sink; a
// nil sink or an error leaves database and crash logging disabled.
func (w *wiring) start(ctx context.Context, open func(context.Context) (appender.Appender, error)) error {
	if err := w.host.ResetContext(ctx); err != nil {
		w.fallback.Error("failed to reset logging context", "error", err)
	}

	sink, err := open(ctx)
	if err == nil && sink != nil {
		err = w.host.InstallAppender(ctx, AppenderDatabase, sink,
			logctx.WithFilters(filter.NewSuppressByMarker(logevent.MarkerCrash)))
		if err != nil {
			if lc, ok := sink.(appender.Lifecycle); ok {
				_ = lc.Stop(ctx) //nolint:errcheck // Why: the start failure is reported
			}
			sink = nil
		}
	}
	if err != nil {
		w.fallback.Warn("database logging disabled, using console only", "error", err)
	}

	if sink != nil {
		w.installCrash(ctx, sink)
	}
	w.locatePattern()
	return ctx.Err()
}

func (w *wiring) installCrash(ctx context.Context, sink appender.Appender) {
	w.mu.Lock()
	defer w.mu.Unlock()

	cf := filter.NewCrash(w.threshold, logevent.MarkerCrash)
	ca := crash.New(sink, w.size, crash.WithGatedOnly(), crash.WithFallback(w.fallback))
	if err := w.host.InstallAppender(ctx, AppenderCrash, ca, logctx.EveryLevel(), logctx.WithFilters(cf)); err != nil {
		w.fallback.Warn("crash buffer disabled", "error", err)
		return
	}
	w.crash, w.crashFilter = ca, cf
}

func (w *wiring) locatePattern() {
	f := w.controls.InstallTurboFilter(FilterPattern, filter.NewPattern(logevent.MarkerPattern))
	p, ok := f.(*filter.Pattern)
	if !ok {
		w.fallback.Warn("turbo filter name taken by another filter type", "name", FilterPattern)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.pattern = p
}

// stop removes the crash and database appenders and resets the
// logging context.
func (w *wiring) stop(ctx context.Context) error {
	w.mu.Lock()
	hadCrash := w.crash != nil
	w.crash, w.crashFilter, w.pattern = nil, nil, nil
	w.mu.Unlock()

	var firstErr error
	keep := func(err error) {
		if err != nil && !orerr.IsOneOf(err, logctx.ErrNotFound) && firstErr == nil {
			firstErr = err
		}
	}
	if hadCrash {
		keep(w.host.RemoveAppender(ctx, AppenderCrash))
	}
	keep(w.host.RemoveAppender(ctx, AppenderDatabase))
	keep(w.host.ResetContext(ctx))
	return firstErr
}

// Controls returns the level and filter controls of the host.
func (w *wiring) Controls() host.Controls {
	return w.controls
}

// CrashBuffer returns the installed crash appender, nil when database
// logging is disabled.
func (w *wiring) CrashBuffer() *crash.Appender {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.crash
}

func (w *wiring) crashBufferSize() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.size
}

// setCrashBufferSize replaces the crash buffer, discarding its events.
func (w *wiring) setCrashBufferSize(n int) error {
	if n < 1 {
		return orerr.Errorf(statuscodes.BadRequest, "invalid crash buffer size %d", n)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.size = n
	if w.crash != nil {
		w.crash.SetBufferSize(n)
	}
	return nil
}

func (w *wiring) crashThreshold() logevent.Level {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.threshold
}

func (w *wiring) setCrashThreshold(l logevent.Level) error {
	if !l.Known() {
		return orerr.NewErrorStatus(errors.Wrapf(logevent.ErrUnknownLevel, "%d", int(l)), statuscodes.BadRequest)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.threshold = l
	if w.crashFilter != nil {
		w.crashFilter.SetThreshold(l)
	}
	return nil
}

func (w *wiring) patternFilter() (*filter.Pattern, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.pattern == nil {
		return nil, ErrNoPatternFilter
	}
	return w.pattern, nil
}

// PassCurrentThread lets every event logged on the thread carried by
// ctx bypass its logger level.
func (w *wiring) PassCurrentThread(ctx context.Context) (logevent.Thread, error) {
	p, err := w.patternFilter()
	if err != nil {
		return logevent.Thread{}, err
	}
	return p.PassCurrentThread(ctx)
}

// newClientID returns a 12 character session id.
func newClientID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}
