// Copyright 2026 Outreach Corporation. All Rights Reserved.

// Description: Tests for the filter chain and the policy filters.

package filter_test

import (
	"context"
	"errors"
	"testing"

	"gotest.tools/v3/assert"

	"github.com/getoutreach/ilslog/pkg/filter"
	"github.com/getoutreach/ilslog/pkg/logevent"
	"github.com/getoutreach/ilslog/pkg/orerr"
	"github.com/getoutreach/ilslog/pkg/statuscodes"
)

func event(logger string, lvl logevent.Level, thread string) *logevent.Event {
	return &logevent.Event{Logger: logger, Level: lvl, Thread: logevent.Thread{ID: 9, Name: thread}}
}

func TestPatternThreadPassThrough(t *testing.T) {
	p := filter.NewPattern("")

	assert.Equal(t, p.Decide(event("app.db", logevent.Debug, "worker")), filter.Neutral)

	p.AddThread("worker")
	assert.Equal(t, p.Decide(event("app.db", logevent.Debug, "worker")), filter.Accept)
	assert.Equal(t, p.Decide(event("app.db", logevent.Debug, "other")), filter.Neutral)

	p.AddThread("9")
	assert.Equal(t, p.Decide(event("app.db", logevent.Debug, "other")), filter.Accept)
}

func TestPatternPassCurrentThread(t *testing.T) {
	p := filter.NewPattern("")
	ctx := logevent.WithThread(context.Background(), logevent.Thread{ID: 3, Name: "rpc-3"})

	th, err := p.PassCurrentThread(ctx)
	assert.NilError(t, err)
	assert.Equal(t, th.Name, "rpc-3")
	assert.DeepEqual(t, p.Threads(), []string{"rpc-3"})
	assert.Equal(t, p.Decide(event("x", logevent.Trace, "rpc-3")), filter.Accept)

	p.RemoveThread("rpc-3")
	assert.Equal(t, p.Decide(event("x", logevent.Trace, "rpc-3")), filter.Neutral)
}

func TestPatternPassCurrentThreadByID(t *testing.T) {
	p := filter.NewPattern("")
	ctx := logevent.WithThread(context.Background(), logevent.Thread{ID: 42})

	th, err := p.PassCurrentThread(ctx)
	assert.NilError(t, err)
	assert.Equal(t, th.Key(), "42")
	assert.DeepEqual(t, p.Threads(), []string{"42"})

	ev := &logevent.Event{Logger: "x", Level: logevent.Trace, Thread: logevent.Thread{ID: 42}}
	assert.Equal(t, p.Decide(ev), filter.Accept)
}

func TestPatternPassCurrentThreadNeedsThread(t *testing.T) {
	p := filter.NewPattern("")

	_, err := p.PassCurrentThread(context.Background())
	assert.Assert(t, errors.Is(err, filter.ErrNoThread))
	assert.Equal(t, orerr.ExtractErrorStatusCode(err), statuscodes.BadRequest)
	assert.Assert(t, p.Threads() == nil)

	ev := &logevent.Event{Logger: "app.http", Level: logevent.Debug, Thread: logevent.DefaultThread}
	assert.Equal(t, p.Decide(ev), filter.Neutral)
}

func TestPatternLoggerSubstring(t *testing.T) {
	p := filter.NewPattern("")
	p.AddPattern("storage")
	p.AddPattern("storage")
	p.AddPattern("")

	assert.DeepEqual(t, p.Patterns(), []string{"storage"})
	assert.Equal(t, p.Decide(event("app.storage.disk", logevent.Debug, "t")), filter.Accept)
	assert.Equal(t, p.Decide(event("app.http", logevent.Debug, "t")), filter.Neutral)
}

func TestPatternMarksAndDeniesSeenEvents(t *testing.T) {
	p := filter.NewPattern("")
	p.AddPattern("app")

	ev := event("app", logevent.Info, "t")
	assert.Equal(t, p.Decide(ev), filter.Accept)
	assert.Assert(t, ev.HasMarker(logevent.MarkerPattern))

	second := filter.NewPattern("")
	second.AddPattern("app")
	assert.Equal(t, second.Decide(ev), filter.Deny)

	unmatched := event("other", logevent.Info, "t")
	assert.Equal(t, p.Decide(unmatched), filter.Neutral)
	assert.Assert(t, !unmatched.HasMarker(logevent.MarkerPattern))
}

func TestPatternReset(t *testing.T) {
	p := filter.NewPattern("")
	p.AddPattern("app")
	p.AddThread("worker")
	p.Reset()

	assert.Equal(t, p.Decide(event("app", logevent.Debug, "worker")), filter.Neutral)
	assert.Equal(t, len(p.Patterns()), 0)
	assert.Equal(t, len(p.Threads()), 0)
}

func TestCrash(t *testing.T) {
	c := filter.NewCrash(logevent.Info, "")

	assert.Equal(t, c.Decide(event("x", logevent.Debug, "t")), filter.Deny)
	assert.Equal(t, c.Decide(event("x", logevent.Info, "t")), filter.Accept)

	marked := event("x", logevent.Error, "t")
	marked.Mark(logevent.MarkerCrash)
	assert.Equal(t, c.Decide(marked), filter.Deny)

	c.SetThreshold(logevent.Trace)
	assert.Equal(t, c.Threshold(), logevent.Trace)
	assert.Equal(t, c.Decide(event("x", logevent.Trace, "t")), filter.Accept)
}

func TestBypass(t *testing.T) {
	b := filter.NewBypass(logevent.Warn)
	assert.Equal(t, b.Decide(event("x", logevent.Error, "t")), filter.Accept)
	assert.Equal(t, b.Decide(event("x", logevent.Warn, "t")), filter.Accept)
	assert.Equal(t, b.Decide(event("x", logevent.Info, "t")), filter.Neutral)

	marked := event("x", logevent.Debug, "t")
	marked.Mark(logevent.MarkerCrash)
	assert.Equal(t, b.Decide(marked), filter.Neutral)
}

func TestSuppressByMarker(t *testing.T) {
	s := filter.NewSuppressByMarker(logevent.MarkerCrash)

	assert.Equal(t, s.Decide(event("x", logevent.Info, "t")), filter.Neutral)

	other := event("x", logevent.Info, "t")
	other.Mark(logevent.MarkerPattern)
	assert.Equal(t, s.Decide(other), filter.Neutral)

	crashed := event("x", logevent.Info, "t")
	crashed.Mark(logevent.MarkerCrash)
	assert.Equal(t, s.Decide(crashed), filter.Deny)
}

func TestChain(t *testing.T) {
	var c filter.Chain
	deny := filter.Func(func(*logevent.Event) filter.Decision { return filter.Deny })
	accept := filter.Func(func(*logevent.Event) filter.Decision { return filter.Accept })
	neutral := filter.Func(func(*logevent.Event) filter.Decision { return filter.Neutral })

	assert.Equal(t, c.Decide(event("x", logevent.Info, "t")), filter.Neutral)

	c.Add("n", neutral)
	c.Add("a", accept)
	c.Add("d", deny)
	assert.DeepEqual(t, c.Names(), []string{"n", "a", "d"})
	assert.Equal(t, c.Decide(event("x", logevent.Info, "t")), filter.Accept)

	assert.Assert(t, c.Remove("a"))
	assert.Assert(t, !c.Remove("a"))
	assert.Equal(t, c.Decide(event("x", logevent.Info, "t")), filter.Deny)

	p := filter.NewPattern("")
	got := c.AddIfAbsent("pattern", p)
	assert.Equal(t, got, filter.TurboFilter(p))
	got = c.AddIfAbsent("pattern", filter.NewPattern(""))
	assert.Equal(t, got, filter.TurboFilter(p))

	f, ok := c.Get("pattern")
	assert.Assert(t, ok)
	assert.Equal(t, f, filter.TurboFilter(p))

	c.Reset()
	assert.Equal(t, c.Len(), 0)
}

func TestDecisionString(t *testing.T) {
	assert.Equal(t, filter.Accept.String(), "ACCEPT")
	assert.Equal(t, filter.Deny.String(), "DENY")
	assert.Equal(t, filter.Neutral.String(), "NEUTRAL")
	assert.Equal(t, filter.Decide(event("x", logevent.Info, "t")), filter.Neutral)
}
