// Copyright 2026 Outreach Corporation. All Rights Reserved.

// Description: Tests for the console and in-memory appenders.

package appender_test

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"gotest.tools/v3/assert"

	"github.com/getoutreach/ilslog/pkg/appender"
	"github.com/getoutreach/ilslog/pkg/logevent"
	"github.com/getoutreach/ilslog/pkg/olog"
)

func TestConsole(t *testing.T) {
	logCapture := olog.NewTestCapturer(t)

	c := appender.NewConsole()
	c.Append(&logevent.Event{
		Time:    time.Now(),
		Level:   logevent.Error,
		Logger:  "app.db",
		Message: "insert failed",
		Thread:  logevent.Thread{Name: "worker"},
		MDC:     map[string]string{logevent.KeyProject: "alpha"},
		Err:     errors.New("connection refused"),
	})

	logs := logCapture.GetLogs()
	assert.Equal(t, len(logs), 1)
	assert.Equal(t, logs[0].Message, "insert failed")
	assert.Equal(t, logs[0].Attrs["logger"], "app.db")
	assert.Equal(t, logs[0].Attrs["thread"], "worker")
	assert.Equal(t, logs[0].Attrs["project"], "alpha")
	assert.Equal(t, logs[0].Attrs["error"], "connection refused")
}

func TestRecorder(t *testing.T) {
	var r appender.Recorder
	r.Append(&logevent.Event{Message: "a"})
	assert.NilError(t, appender.Write(context.Background(), &r, &logevent.Event{Message: "b"}))

	assert.DeepEqual(t, r.Messages(), []string{"a", "b"})
	assert.Equal(t, r.Len(), 2)
	r.Reset()
	assert.Equal(t, len(r.Events()), 0)
}

type failing struct{ appender.Recorder }

func (f *failing) Write(context.Context, *logevent.Event) error {
	return errors.New("nope")
}

func TestWritePrefersWriter(t *testing.T) {
	f := &failing{}
	err := appender.Write(context.Background(), f, &logevent.Event{})
	assert.ErrorContains(t, err, "nope")
	assert.Equal(t, f.Len(), 0)

	var got []string
	fn := appender.Func(func(ev *logevent.Event) { got = append(got, ev.Message) })
	assert.NilError(t, appender.Write(context.Background(), fn, &logevent.Event{Message: "x"}))
	assert.DeepEqual(t, got, []string{"x"})
}
