// Copyright 2026 Outreach Corporation. All Rights Reserved.

// Description: Tests for row formatting.

package dbsink

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"gotest.tools/v3/assert"

	"github.com/getoutreach/ilslog/internal/callerinfo"
	"github.com/getoutreach/ilslog/pkg/logevent"
	"github.com/getoutreach/ilslog/pkg/retention"
)

func TestTruncate(t *testing.T) {
	msg := strings.Repeat("a", 9000)
	got := Truncate(msg, WidthMessage)
	assert.Equal(t, len(got), 8000)
	assert.Equal(t, got, msg[:8000])

	assert.Equal(t, Truncate("short", 10), "short")
	assert.Equal(t, Truncate("héllo wörld", 5), "héllo")
	assert.Equal(t, Truncate("", 3), "")
}

func TestFormat(t *testing.T) {
	ts := time.UnixMilli(1_700_000_000_000)
	ev := &logevent.Event{
		Time:    ts,
		Level:   logevent.Error,
		Logger:  "app.storage",
		Message: "write failed",
		Thread:  logevent.Thread{ID: 12, Name: "worker-12"},
		Err:     errors.New("disk full"),
		MDC:     map[string]string{logevent.KeyProject: "alpha", logevent.KeyFunction: "flush"},
		Caller: callerinfo.Frame{
			Package:  "github.com/acme/app/storage",
			Function: "github.com/acme/app/storage.(*Disk).Write",
			Line:     88,
		},
	}

	row := Format(ev, &FormatOptions{Scope: "gateway", ClientID: "c-1", ProcessID: 4242, Retention: retention.Default})

	assert.DeepEqual(t, row, Row{
		ProcessID:   4242,
		Thread:      12,
		Project:     "alpha",
		Scope:       "gateway",
		ClientID:    "c-1",
		ThreadName:  "worker-12",
		Module:      "github.com/acme/app/storage",
		Logger:      "app.storage",
		Timestamp:   ts.UTC(),
		Level:       40000,
		LevelName:   "ERROR",
		Message:     "write failed: disk full",
		Function:    "flush",
		Line:        "88",
		RetainUntil: ts.UTC().Add(30 * 24 * time.Hour),
	})
}

func TestFormatGlobalFallback(t *testing.T) {
	logevent.Global.Set(logevent.KeyProject, "global")
	logevent.Global.Set(logevent.KeyClient, "client-from-global")
	defer logevent.Global.Clear()

	row := Format(&logevent.Event{Level: logevent.Info, Logger: strings.Repeat("x", 150)}, &FormatOptions{ClientID: "ignored"})
	assert.Equal(t, row.Project, "global")
	assert.Equal(t, row.ClientID, "client-from-")
	assert.Equal(t, len(row.Logger), WidthLogger)
	assert.Equal(t, row.ProcessID, os.Getpid())
	assert.Equal(t, row.Module, "")
	assert.Equal(t, row.Line, "")
}

func TestLevelFromInt(t *testing.T) {
	for _, l := range logevent.Levels {
		got, ok := levelFromInt(l.Int())
		assert.Assert(t, ok)
		assert.Equal(t, got, l)
	}
	_, ok := levelFromInt(12345)
	assert.Assert(t, !ok)
}
