// Copyright 2026 Outreach Corporation. All Rights Reserved.

// Description: Tests for the database appender using sqlite.

package dbsink_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"gotest.tools/v3/assert"

	"github.com/getoutreach/ilslog/pkg/dbsink"
	"github.com/getoutreach/ilslog/pkg/logevent"
	"github.com/getoutreach/ilslog/pkg/olog"
	"github.com/getoutreach/ilslog/pkg/retention"
)

func openSink(t *testing.T, opts *dbsink.Options) (*dbsink.Appender, *sql.DB) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ils.db")

	a, err := dbsink.Open("sqlite", path, opts)
	assert.NilError(t, err)
	assert.NilError(t, a.Start(context.Background()))
	t.Cleanup(func() { _ = a.Stop(context.Background()) }) //nolint:errcheck // Why: test cleanup

	db, err := sql.Open("sqlite", path)
	assert.NilError(t, err)
	t.Cleanup(func() { db.Close() })
	return a, db
}

type stored struct {
	Scope, ThreadName, Logger, LevelName, Message, RetainUntil, Timestamp string
	Level                                                                 int
}

func readRows(t *testing.T, db *sql.DB) []stored {
	t.Helper()
	rows, err := db.Query(`SELECT scope, thread_name, logger_name, log_level_name, log_message,
		retain_until, timestamp, log_level FROM ils_logs ORDER BY id`)
	assert.NilError(t, err)
	defer rows.Close()

	var out []stored
	for rows.Next() {
		var s stored
		assert.NilError(t, rows.Scan(&s.Scope, &s.ThreadName, &s.Logger, &s.LevelName, &s.Message,
			&s.RetainUntil, &s.Timestamp, &s.Level))
		out = append(out, s)
	}
	assert.NilError(t, rows.Err())
	return out
}

func TestAppendWritesRow(t *testing.T) {
	a, db := openSink(t, &dbsink.Options{Scope: "gateway"})
	ts := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	a.Append(&logevent.Event{
		Time:    ts,
		Level:   logevent.Error,
		Logger:  "app.db",
		Message: strings.Repeat("m", 9000),
		Thread:  logevent.Thread{ID: 1, Name: "main"},
	})

	rows := readRows(t, db)
	assert.Equal(t, len(rows), 1)
	assert.Equal(t, rows[0].Scope, "gateway")
	assert.Equal(t, rows[0].Logger, "app.db")
	assert.Equal(t, rows[0].LevelName, "ERROR")
	assert.Equal(t, rows[0].Level, 40000)
	assert.Equal(t, len(rows[0].Message), 8000)
	assert.Equal(t, rows[0].Timestamp, "2024-03-01 10:00:00.000")
	assert.Equal(t, rows[0].RetainUntil, "2024-03-31 10:00:00.000")
}

func TestSetRetention(t *testing.T) {
	a, db := openSink(t, &dbsink.Options{})
	ts := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	assert.Assert(t, a.SetRetention(retention.Policy{-1, 0, 0, 0, 0}) != nil)
	assert.NilError(t, a.SetRetention(retention.Policy{1, 2, 3, 4, 5}))
	assert.Equal(t, a.Retention(), retention.Policy{1, 2, 3, 4, 5})

	assert.NilError(t, a.Write(context.Background(), &logevent.Event{Time: ts, Level: logevent.Debug, Logger: "x"}))
	rows := readRows(t, db)
	assert.Equal(t, rows[0].RetainUntil, "2024-03-05 00:00:00.000")
}

func TestWriteRows(t *testing.T) {
	a, db := openSink(t, &dbsink.Options{Scope: "gateway"})
	ts := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	err := a.WriteRows(context.Background(), []dbsink.Row{
		{Scope: "client", ThreadName: strings.Repeat("t", 60), Logger: "remote", Timestamp: ts, Level: logevent.Warn.Int(), LevelName: "WARN", Message: "from client"},
		{Scope: "designer", Logger: "remote", Timestamp: ts, Level: 7, LevelName: "ODD", Message: "unknown level"},
	})
	assert.NilError(t, err)

	rows := readRows(t, db)
	assert.Equal(t, len(rows), 2)
	assert.Equal(t, rows[0].Scope, "client")
	assert.Equal(t, len(rows[0].ThreadName), dbsink.WidthThreadName)
	assert.Equal(t, rows[0].RetainUntil, "2024-03-15 00:00:00.000")
	assert.Equal(t, rows[1].RetainUntil, "2024-03-01 00:00:00.000")
}

func TestPurge(t *testing.T) {
	a, db := openSink(t, &dbsink.Options{})
	old := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	ctx := context.Background()
	assert.NilError(t, a.Write(ctx, &logevent.Event{Time: old, Level: logevent.Error, Message: "expired"}))
	assert.NilError(t, a.Write(ctx, &logevent.Event{Time: now, Level: logevent.Error, Message: "fresh"}))

	n, err := a.Purge(ctx, now)
	assert.NilError(t, err)
	assert.Equal(t, n, int64(1))

	rows := readRows(t, db)
	assert.Equal(t, len(rows), 1)
	assert.Equal(t, rows[0].Message, "fresh")
}

func TestAppendFailureGoesToFallback(t *testing.T) {
	logCapture := olog.NewTestCapturer(t)

	a, err := dbsink.Open("sqlite", filepath.Join(t.TempDir(), "ils.db"), &dbsink.Options{})
	assert.NilError(t, err)

	// never started
	a.Append(&logevent.Event{Level: logevent.Error, Message: "lost"})
	err = a.Write(context.Background(), &logevent.Event{})
	assert.Assert(t, errors.Is(err, dbsink.ErrNotStarted))

	logs := logCapture.GetLogs()
	assert.Equal(t, len(logs), 1)
	assert.Equal(t, logs[0].Message, "failed to write log event")
}

func TestStartRejectsBadTable(t *testing.T) {
	a, err := dbsink.Open("sqlite", filepath.Join(t.TempDir(), "ils.db"), &dbsink.Options{Table: "logs; DROP TABLE x"})
	assert.NilError(t, err)
	assert.Assert(t, errors.Is(a.Start(context.Background()), dbsink.ErrInvalidTable))
}

func TestDialects(t *testing.T) {
	_, err := dbsink.DialectFor("oracle")
	assert.Assert(t, errors.Is(err, dbsink.ErrUnsupportedDriver))

	pg, err := dbsink.DialectFor("postgresql")
	assert.NilError(t, err)
	assert.Assert(t, strings.Contains(pg.Insert("ils_logs"), "$15)"))
	assert.Assert(t, strings.Contains(pg.CreateTable("ils_logs"), "retain_until TIMESTAMPTZ"))

	my, err := dbsink.DialectFor("mysql")
	assert.NilError(t, err)
	assert.Assert(t, strings.Contains(my.CreateTable("ils_logs"), "log_message TEXT"))
	assert.Assert(t, strings.HasSuffix(my.Insert("ils_logs"), "?, ?)"))
}
