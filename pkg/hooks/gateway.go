// Copyright 2026 Outreach Corporation. All Rights Reserved.

// Description: The gateway scope hook.

package hooks

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/getoutreach/ilslog/pkg/appender"
	"github.com/getoutreach/ilslog/pkg/config"
	"github.com/getoutreach/ilslog/pkg/dbsink"
	"github.com/getoutreach/ilslog/pkg/host"
	"github.com/getoutreach/ilslog/pkg/logevent"
	"github.com/getoutreach/ilslog/pkg/orerr"
	"github.com/getoutreach/ilslog/pkg/retention"
	"github.com/getoutreach/ilslog/pkg/rpc"
	"github.com/getoutreach/ilslog/pkg/statuscodes"
)

// Errors returned by gateway operations.
var (
	ErrNoDatasource = orerr.NewErrorStatus(
		orerr.SentinelError("no datasource configured"), statuscodes.NotFound)
	ErrDatabaseUnavailable = orerr.NewErrorStatus(
		orerr.SentinelError("database logging is not running"), statuscodes.Unavailable)
)

// Gateway is the hook of the gateway scope. It stores events of every
// scope in the log table and implements rpc.Operations locally.
type Gateway struct {
	wiring
	local *host.Local
	mod   *config.Module

	dbMu      sync.RWMutex
	db        *dbsink.Appender
	retention retention.Policy
}

var (
	_ Hook           = (*Gateway)(nil)
	_ rpc.Operations = (*Gateway)(nil)
)

// NewGateway returns the gateway hook for local, configured by mod.
func NewGateway(local *host.Local, mod *config.Module) *Gateway {
	policy := retention.Default
	if mod.Retention != nil {
		policy = *mod.Retention
	}
	fallback := local.Context().Fallback().With("hook", ScopeGateway)
	return &Gateway{
		wiring:    newWiring(local, local.Controls(), fallback),
		local:     local,
		mod:       mod,
		retention: policy,
	}
}

// Startup implements Hook.
func (g *Gateway) Startup(ctx context.Context) error {
	logging := g.local.Logging()

	size, err := logging.CrashBufferSize()
	if err != nil {
		g.fallback.Warn("using default crash buffer size", "error", err, "size", size)
	}
	threshold, err := logging.CrashThreshold()
	if err != nil {
		g.fallback.Warn("using default crash threshold", "error", err, "threshold", threshold)
	}
	g.mu.Lock()
	g.size, g.threshold = size, threshold
	g.mu.Unlock()

	if p, ok, err := logging.Retention(); err != nil {
		g.fallback.Warn("using configured retention", "error", err)
	} else if ok {
		g.dbMu.Lock()
		g.retention = p
		g.dbMu.Unlock()
	}

	return g.start(ctx, g.openDatabase)
}

func (g *Gateway) openDatabase(ctx context.Context) (appender.Appender, error) {
	name, ok := g.local.ConfigProperty(config.PropDatasource)
	if !ok {
		return nil, ErrNoDatasource
	}
	ds, err := g.mod.Datasource(ctx, name)
	if err != nil {
		return nil, err
	}

	g.dbMu.Lock()
	defer g.dbMu.Unlock()
	policy := g.retention
	db, err := dbsink.Open(ds.Driver, ds.DSN, &dbsink.Options{
		Name:      AppenderDatabase,
		Table:     g.mod.Table,
		Scope:     ScopeGateway,
		Retention: &policy,
		Fallback:  g.fallback,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "datasource %s", name)
	}
	g.db = db
	return &startedDB{Appender: db, g: g}, nil
}

// startedDB clears the gateway's database handle when the appender is
// stopped, so operations report it unavailable.
type startedDB struct {
	*dbsink.Appender
	g *Gateway
}

func (s *startedDB) Stop(ctx context.Context) error {
	s.g.dbMu.Lock()
	if s.g.db == s.Appender {
		s.g.db = nil
	}
	s.g.dbMu.Unlock()
	return s.Appender.Stop(ctx)
}

// Shutdown implements Hook.
func (g *Gateway) Shutdown(ctx context.Context) error {
	return g.stop(ctx)
}

func (g *Gateway) database() (*dbsink.Appender, error) {
	g.dbMu.RLock()
	defer g.dbMu.RUnlock()
	if g.db == nil {
		return nil, ErrDatabaseUnavailable
	}
	return g.db, nil
}

// Purge deletes rows whose retention ended before now.
func (g *Gateway) Purge(ctx context.Context, now time.Time) (int64, error) {
	db, err := g.database()
	if err != nil {
		return 0, err
	}
	return db.Purge(ctx, now)
}

// LoggerNames implements rpc.Operations.
func (g *Gateway) LoggerNames(context.Context) ([]string, error) {
	return g.controls.LoggerNames(), nil
}

// Level implements rpc.Operations. The empty name is the root logger.
func (g *Gateway) Level(_ context.Context, logger string) (logevent.Level, error) {
	if logger == "" {
		return g.local.Context().RootLevel(), nil
	}
	return g.controls.EffectiveLevel(logger), nil
}

// SetLevel implements rpc.Operations. The empty name is the root logger.
func (g *Gateway) SetLevel(_ context.Context, logger string, l logevent.Level) error {
	if logger == "" {
		g.local.Context().SetRootLevel(l)
		return nil
	}
	g.controls.SetLevel(logger, l)
	return nil
}

// CrashBufferSize implements rpc.Operations.
func (g *Gateway) CrashBufferSize(context.Context) (int, error) {
	return g.crashBufferSize(), nil
}

// SetCrashBufferSize implements rpc.Operations.
func (g *Gateway) SetCrashBufferSize(_ context.Context, n int) error {
	return g.setCrashBufferSize(n)
}

// CrashThreshold implements rpc.Operations.
func (g *Gateway) CrashThreshold(context.Context) (logevent.Level, error) {
	return g.crashThreshold(), nil
}

// SetCrashThreshold implements rpc.Operations.
func (g *Gateway) SetCrashThreshold(_ context.Context, l logevent.Level) error {
	return g.setCrashThreshold(l)
}

// AddPattern implements rpc.Operations.
func (g *Gateway) AddPattern(_ context.Context, pattern string) error {
	p, err := g.patternFilter()
	if err != nil {
		return err
	}
	p.AddPattern(pattern)
	return nil
}

// AddThread implements rpc.Operations.
func (g *Gateway) AddThread(_ context.Context, thread string) error {
	p, err := g.patternFilter()
	if err != nil {
		return err
	}
	p.AddThread(thread)
	return nil
}

// ResetPatterns implements rpc.Operations.
func (g *Gateway) ResetPatterns(context.Context) error {
	p, err := g.patternFilter()
	if err != nil {
		return err
	}
	p.Reset()
	return nil
}

// Patterns implements rpc.Operations.
func (g *Gateway) Patterns(context.Context) (rpc.Patterns, error) {
	p, err := g.patternFilter()
	if err != nil {
		return rpc.Patterns{}, err
	}
	return rpc.Patterns{Patterns: p.Patterns(), Threads: p.Threads()}, nil
}

// Datasource implements rpc.Operations.
func (g *Gateway) Datasource(context.Context) (string, error) {
	name, ok := g.local.ConfigProperty(config.PropDatasource)
	if !ok {
		return "", ErrNoDatasource
	}
	return name, nil
}

// Directories implements rpc.Operations.
func (g *Gateway) Directories(context.Context) (config.Directories, error) {
	return g.mod.Directories, nil
}

// Retention implements rpc.Operations.
func (g *Gateway) Retention(context.Context) (retention.Policy, error) {
	g.dbMu.RLock()
	defer g.dbMu.RUnlock()
	return g.retention, nil
}

// SetRetention implements rpc.Operations.
func (g *Gateway) SetRetention(_ context.Context, p retention.Policy) error {
	if err := p.Validate(); err != nil {
		return orerr.NewErrorStatus(err, statuscodes.BadRequest)
	}
	g.dbMu.Lock()
	defer g.dbMu.Unlock()
	g.retention = p
	if g.db != nil {
		return g.db.SetRetention(p)
	}
	return nil
}

// WriteRows implements rpc.Operations.
func (g *Gateway) WriteRows(ctx context.Context, rows []dbsink.Row) error {
	db, err := g.database()
	if err != nil {
		return err
	}
	return db.WriteRows(ctx, rows)
}

