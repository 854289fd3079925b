// Copyright 2026 Outreach Corporation. All Rights Reserved.

// Description: Appender inserting every event as a row of one table.

// Package dbsink implements the appender that writes log events into a
// single database table with fixed columns.
package dbsink

import (
	"context"
	"database/sql"
	"log/slog"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/getoutreach/ilslog/pkg/logevent"
	"github.com/getoutreach/ilslog/pkg/metrics"
	"github.com/getoutreach/ilslog/pkg/olog"
	"github.com/getoutreach/ilslog/pkg/orerr"
	"github.com/getoutreach/ilslog/pkg/retention"
)

const (
	// DefaultTable is the table used when Options.Table is empty.
	DefaultTable = "ils_logs"

	// DefaultTimeout bounds every statement issued by Append.
	DefaultTimeout = 5 * time.Second

	// ErrNotStarted is returned by writes before Start or after Stop.
	ErrNotStarted = orerr.SentinelError("database appender is not started")
)

// Options configures an Appender.
type Options struct {
	// Name labels the metrics of the appender, "database" when empty.
	Name string

	// Table defaults to DefaultTable.
	Table string

	// Scope is stored in the scope column, e.g. "gateway".
	Scope string

	// ClientID is stored when the event MDC has no client.
	ClientID string

	// ProcessID defaults to the pid of the process.
	ProcessID int

	// Retention defaults to retention.Default.
	Retention *retention.Policy

	// Timeout bounds the statements issued by Append, DefaultTimeout
	// when zero.
	Timeout time.Duration

	// Fallback receives insert failures. Defaults to an olog logger.
	Fallback *slog.Logger
}

// Appender inserts one row per event. Statement use is serialized by
// a single lock; an insert blocks the logging goroutine for its
// duration.
type Appender struct {
	db      *sql.DB
	dialect Dialect
	owned   bool

	name     string
	table    string
	timeout  time.Duration
	fallback *slog.Logger

	retMu     sync.RWMutex
	retention retention.Policy
	format    FormatOptions

	mu   sync.Mutex
	stmt *sql.Stmt
}

// New returns an appender writing to db with the dialect d. The caller
// keeps ownership of db.
func New(db *sql.DB, d Dialect, opts *Options) *Appender {
	a := &Appender{
		db:        db,
		dialect:   d,
		name:      opts.Name,
		table:     opts.Table,
		timeout:   opts.Timeout,
		fallback:  opts.Fallback,
		retention: retention.Default,
		format: FormatOptions{
			Scope:     opts.Scope,
			ClientID:  opts.ClientID,
			ProcessID: opts.ProcessID,
		},
	}
	if a.name == "" {
		a.name = "database"
	}
	if a.table == "" {
		a.table = DefaultTable
	}
	if a.timeout == 0 {
		a.timeout = DefaultTimeout
	}
	if a.fallback == nil {
		a.fallback = olog.New()
	}
	if opts.Retention != nil {
		a.retention = *opts.Retention
	}
	return a
}

// Open opens a database with driver and dsn and returns an appender
// that owns it. The connection is not checked until Start.
func Open(driver, dsn string, opts *Options) (*Appender, error) {
	d, err := DialectFor(driver)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open(d.Name, dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s database", d.Name)
	}
	a := New(db, d, opts)
	a.owned = true
	return a, nil
}

// Table returns the table rows are written to.
func (a *Appender) Table() string {
	return a.table
}

// Dialect returns the dialect of the database.
func (a *Appender) Dialect() Dialect {
	return a.dialect
}

// Start creates the table when it is absent and prepares the insert.
func (a *Appender) Start(ctx context.Context) error {
	if err := ValidateTable(a.table); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout*2)
	defer cancel()

	if err := a.db.PingContext(ctx); err != nil {
		return errors.Wrapf(err, "ping %s database", a.dialect.Name)
	}
	if _, err := a.db.ExecContext(ctx, a.dialect.CreateTable(a.table)); err != nil {
		return errors.Wrapf(err, "create table %s", a.table)
	}
	stmt, err := a.db.PrepareContext(ctx, a.dialect.Insert(a.table))
	if err != nil {
		return errors.Wrapf(err, "prepare insert into %s", a.table)
	}

	a.mu.Lock()
	old := a.stmt
	a.stmt = stmt
	a.mu.Unlock()
	if old != nil {
		_ = old.Close() //nolint:errcheck // Why: replaced
	}
	return nil
}

// Stop closes the prepared statement, and the database when the
// appender opened it.
func (a *Appender) Stop(_ context.Context) error {
	a.mu.Lock()
	stmt := a.stmt
	a.stmt = nil
	a.mu.Unlock()

	var err error
	if stmt != nil {
		err = stmt.Close()
	}
	if a.owned {
		if cerr := a.db.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return errors.Wrap(err, "stop database appender")
}

// Retention returns the current retention policy.
func (a *Appender) Retention() retention.Policy {
	a.retMu.RLock()
	defer a.retMu.RUnlock()
	return a.retention
}

// SetRetention replaces the retention policy used for rows written from
// now on.
func (a *Appender) SetRetention(p retention.Policy) error {
	if err := p.Validate(); err != nil {
		return err
	}
	a.retMu.Lock()
	defer a.retMu.Unlock()
	a.retention = p
	return nil
}

// FormatOptions returns the options events are formatted with.
func (a *Appender) FormatOptions() FormatOptions {
	a.retMu.RLock()
	defer a.retMu.RUnlock()
	opts := a.format
	opts.Retention = a.retention
	return opts
}

// Append implements appender.Appender. A failed insert is reported to
// the fallback logger and the event is dropped.
func (a *Appender) Append(ev *logevent.Event) {
	ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
	defer cancel()

	if err := a.Write(ctx, ev); err != nil {
		a.fallback.Error("failed to write log event", "table", a.table, "error", err, "event", ev)
	}
}

// Write implements appender.Writer.
func (a *Appender) Write(ctx context.Context, ev *logevent.Event) error {
	opts := a.FormatOptions()
	row := Format(ev, &opts)
	return a.insert(ctx, &row)
}

// WriteRows inserts rows formatted on another scope. Strings are cut
// to their column widths and the retention is recomputed with the
// current policy. Every row is attempted; the first failure is
// returned.
func (a *Appender) WriteRows(ctx context.Context, rows []Row) error {
	policy := a.Retention()

	var firstErr error
	failed := 0
	for i := range rows {
		r := rows[i]
		truncateRow(&r)
		r.RetainUntil = r.Timestamp
		if l, ok := levelFromInt(r.Level); ok {
			r.RetainUntil = policy.RetainUntil(r.Timestamp, l)
		}
		if err := a.insert(ctx, &r); err != nil {
			failed++
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	if firstErr != nil {
		return errors.Wrapf(firstErr, "%d of %d rows failed", failed, len(rows))
	}
	return nil
}

func (a *Appender) insert(ctx context.Context, r *Row) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stmt == nil {
		metrics.ReportDropped(a.name, metrics.DropNotStarted)
		return ErrNotStarted
	}

	start := time.Now()
	_, err := a.stmt.ExecContext(ctx, a.dialect.args(r)...)
	metrics.ReportInsertLatency(a.dialect.Name, time.Since(start), err)
	if err != nil {
		metrics.ReportDropped(a.name, metrics.DropWriteFailed)
		return errors.Wrapf(err, "insert into %s", a.table)
	}
	metrics.ReportAppended(a.name)
	return nil
}

// Purge deletes the rows whose retention ended before now and returns
// how many were removed.
func (a *Appender) Purge(ctx context.Context, now time.Time) (int64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stmt == nil {
		return 0, ErrNotStarted
	}
	res, err := a.db.ExecContext(ctx, a.dialect.Purge(a.table), a.dialect.timeArg(now))
	if err != nil {
		return 0, errors.Wrapf(err, "purge %s", a.table)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "rows affected")
	}
	return n, nil
}
