// Copyright 2026 Outreach Corporation. All Rights Reserved.

// Description: Tests for the logging context.

package logctx_test

import (
	"context"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"gotest.tools/v3/assert"

	"github.com/getoutreach/ilslog/pkg/appender"
	"github.com/getoutreach/ilslog/pkg/filter"
	"github.com/getoutreach/ilslog/pkg/logctx"
	"github.com/getoutreach/ilslog/pkg/logevent"
	"github.com/getoutreach/ilslog/pkg/olog"
)

type lifecycle struct {
	appender.Recorder
	started, stopped int
	startErr         error
}

func (l *lifecycle) Start(context.Context) error {
	l.started++
	return l.startErr
}

func (l *lifecycle) Stop(context.Context) error {
	l.stopped++
	return nil
}

func TestEffectiveLevel(t *testing.T) {
	c := logctx.New("test")
	assert.Equal(t, c.RootLevel(), logevent.Info)

	c.SetLevel("app", logevent.Warn)
	c.SetLevel("app.db.pool", logevent.Trace)

	assert.Equal(t, c.EffectiveLevel("app.db"), logevent.Warn)
	assert.Equal(t, c.EffectiveLevel("app.db.pool.conn"), logevent.Trace)
	assert.Equal(t, c.EffectiveLevel("other"), logevent.Info)

	_, ok := c.Level("app.db")
	assert.Assert(t, !ok)

	c.ClearLevel("app")
	assert.Equal(t, c.EffectiveLevel("app.db"), logevent.Info)
}

func TestLoggerNames(t *testing.T) {
	c := logctx.New("test")
	c.Logger("b.handler")
	c.SetLevel("a.config", logevent.Debug)
	c.Dispatch(&logevent.Event{Logger: "c.dispatched", Level: logevent.Info})

	assert.DeepEqual(t, c.LoggerNames(), []string{"a.config", "b.handler", "c.dispatched"})
}

func TestDispatchLevels(t *testing.T) {
	ctx := context.Background()
	c := logctx.New("test")

	var main, every appender.Recorder
	assert.NilError(t, c.AddAppender(ctx, "main", &main))
	assert.NilError(t, c.AddAppender(ctx, "every", &every, logctx.EveryLevel()))

	log := c.Logger("app")
	log.Debug("below")
	log.Info("at")

	assert.DeepEqual(t, main.Messages(), []string{"at"})
	assert.DeepEqual(t, every.Messages(), []string{"below", "at"})

	evs := every.Events()
	assert.Assert(t, evs[0].Gated)
	assert.Assert(t, !evs[1].Gated)
}

func TestTurboFilters(t *testing.T) {
	ctx := context.Background()
	c := logctx.New("test")

	var rec appender.Recorder
	assert.NilError(t, c.AddAppender(ctx, "rec", &rec))

	p := filter.NewPattern("")
	got := c.InstallTurboFilter("pattern", p)
	assert.Equal(t, got, filter.TurboFilter(p))
	assert.Equal(t, c.InstallTurboFilter("pattern", filter.NewPattern("")), filter.TurboFilter(p))

	log := c.Logger("app.db")
	log.Debug("hidden")
	p.AddPattern("db")
	log.Debug("visible")

	c.TurboFilters().Add("deny", filter.Func(func(ev *logevent.Event) filter.Decision {
		if strings.Contains(ev.Message, "secret") {
			return filter.Deny
		}
		return filter.Neutral
	}))
	c.Logger("other").Error("secret")

	assert.DeepEqual(t, rec.Messages(), []string{"visible"})
}

func TestAttachmentFilters(t *testing.T) {
	ctx := context.Background()
	c := logctx.New("test")

	var rec appender.Recorder
	assert.NilError(t, c.AddAppender(ctx, "rec", &rec, logctx.WithFilters(filter.NewSuppressByMarker(logevent.MarkerCrash))))

	marked := &logevent.Event{Logger: "app", Level: logevent.Error, Message: "marked"}
	marked.Mark(logevent.MarkerCrash)
	c.Dispatch(marked)
	c.Dispatch(&logevent.Event{Logger: "app", Level: logevent.Error, Message: "plain"})

	assert.DeepEqual(t, rec.Messages(), []string{"plain"})
}

func TestAppenderLifecycle(t *testing.T) {
	ctx := context.Background()
	c := logctx.New("test")

	first := &lifecycle{}
	assert.NilError(t, c.AddAppender(ctx, "db", first))
	assert.Equal(t, first.started, 1)

	second := &lifecycle{}
	assert.NilError(t, c.AddAppender(ctx, "db", second))
	assert.Equal(t, first.stopped, 1)
	assert.DeepEqual(t, c.AppenderNames(), []string{"db"})

	failing := &lifecycle{startErr: errors.New("unreachable")}
	assert.ErrorContains(t, c.AddAppender(ctx, "bad", failing), "unreachable")
	_, ok := c.Appender("bad")
	assert.Assert(t, !ok)

	assert.NilError(t, c.RemoveAppender(ctx, "db"))
	assert.Equal(t, second.stopped, 1)
	assert.Assert(t, errors.Is(c.RemoveAppender(ctx, "db"), logctx.ErrNotFound))
}

func TestReset(t *testing.T) {
	ctx := context.Background()
	c := logctx.New("test")

	a := &lifecycle{}
	assert.NilError(t, c.AddAppender(ctx, "a", a))
	c.InstallTurboFilter("pattern", filter.NewPattern(""))
	c.SetLevel("app", logevent.Debug)
	c.SetRootLevel(logevent.Error)

	assert.NilError(t, c.Reset(ctx))
	assert.Equal(t, a.stopped, 1)
	assert.Equal(t, len(c.AppenderNames()), 0)
	assert.Equal(t, c.TurboFilters().Len(), 0)
	assert.Equal(t, c.RootLevel(), logevent.Info)
	assert.Equal(t, c.EffectiveLevel("app"), logevent.Info)
	assert.DeepEqual(t, c.LoggerNames(), []string{"app"})
}

func TestAppenderPanicRecovered(t *testing.T) {
	ctx := context.Background()
	logCapture := olog.NewTestCapturer(t)
	c := logctx.New("test")

	var after appender.Recorder
	assert.NilError(t, c.AddAppender(ctx, "boom", appender.Func(func(*logevent.Event) { panic("broken sink") })))
	assert.NilError(t, c.AddAppender(ctx, "after", &after))

	c.Logger("app").Error("still delivered")

	assert.DeepEqual(t, after.Messages(), []string{"still delivered"})
	logs := logCapture.GetLogs()
	assert.Equal(t, len(logs), 1)
	assert.Equal(t, logs[0].Message, "appender panicked")
	assert.Equal(t, logs[0].Attrs["panic"], "broken sink")
}

func TestHandlerBuildsEvents(t *testing.T) {
	ctx := context.Background()
	c := logctx.New("test")

	var rec appender.Recorder
	assert.NilError(t, c.AddAppender(ctx, "rec", &rec))

	tctx := logevent.WithThread(ctx, logevent.Thread{ID: 4, Name: "worker-4"})
	log := c.Logger("app").With("component", "db").WithGroup("req")
	log.InfoContext(tctx, "query", "id", 7)
	log.ErrorContext(tctx, "failed", "err", errors.New("boom"))

	evs := rec.Events()
	assert.Equal(t, len(evs), 2)
	assert.Equal(t, evs[0].Message, "query component=db req.id=7")
	assert.Equal(t, evs[0].Thread.Name, "worker-4")
	assert.Equal(t, evs[0].Logger, "app")
	assert.Assert(t, strings.HasSuffix(evs[0].Caller.Function, "TestHandlerBuildsEvents"), evs[0].Caller.Function)
	assert.ErrorContains(t, evs[1].Err, "boom")
}

func TestEnabled(t *testing.T) {
	ctx := context.Background()
	c := logctx.New("test")
	c.SetLevel("app", logevent.Warn)

	assert.Assert(t, !c.Enabled("app", logevent.Info))
	assert.Assert(t, c.Enabled("app", logevent.Warn))

	assert.NilError(t, c.AddAppender(ctx, "every", &appender.Recorder{}, logctx.EveryLevel()))
	assert.Assert(t, c.Enabled("app", logevent.Trace))
}
