// Copyright 2026 Outreach Corporation. All Rights Reserved.

// Description: The log event handed to filters and appenders.

// Package logevent contains the log event data model shared by the
// filters, buffers and appenders of ils.
package logevent

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/getoutreach/ilslog/internal/callerinfo"
	"github.com/getoutreach/ilslog/pkg/maps"
)

// Marker tags an event as already handled by some part of the logging
// pipeline.
type Marker string

// Well known markers.
const (
	// MarkerCrash is applied to events re-emitted by a crash flush.
	MarkerCrash Marker = "ils.crash"
	// MarkerPattern is applied to events evaluated by a pattern filter.
	MarkerPattern Marker = "ils.pattern"
)

// Event is a single log event. Appenders treat an event as read-only,
// except for Mark.
type Event struct {
	Time    time.Time
	Level   Level
	Logger  string
	Message string
	Thread  Thread

	// Err is the error attached to the event, if any. A non-nil Err
	// triggers a crash buffer flush.
	Err error

	MDC map[string]string

	// Caller is the first frame outside of the logging packages. It is
	// zero when it could not be resolved.
	Caller callerinfo.Frame

	// Gated is true when the logger threshold rejected the event and it
	// was only delivered to level independent appenders.
	Gated bool

	mu      sync.Mutex
	markers map[Marker]struct{}
}

// Mark tags the event with m.
func (e *Event) Mark(m Marker) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.markers == nil {
		e.markers = make(map[Marker]struct{}, 1)
	}
	e.markers[m] = struct{}{}
}

// HasMarker reports whether the event carries m. An empty marker is
// never present.
func (e *Event) HasMarker(m Marker) bool {
	if e == nil || m == "" {
		return false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.markers[m]
	return ok
}

// Markers returns the markers on the event, sorted.
func (e *Event) Markers() []Marker {
	e.mu.Lock()
	defer e.mu.Unlock()
	return maps.SortedKeys(e.markers)
}

// Property returns the diagnostic value for key, consulting the event
// MDC first and then Global.
func (e *Event) Property(key string) (string, bool) {
	if v, ok := e.MDC[key]; ok {
		return v, true
	}
	return Global.Get(key)
}

// LogValue implements slog.LogValuer.
func (e *Event) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("logger", e.Logger),
		slog.String("level", e.Level.String()),
		slog.String("thread", e.Thread.Name),
		slog.String("message", e.Message),
	}
	if e.Err != nil {
		attrs = append(attrs, slog.String("error", e.Err.Error()))
	}
	return slog.GroupValue(attrs...)
}

// FromRecord builds an event from a slog record. Attributes named after
// an MDC key are stored in MDC, the first error valued attribute becomes
// Err, and every other attribute is appended to the message as
// key=value. groups prefixes the keys of record attributes.
func FromRecord(ctx context.Context, logger string, r slog.Record, pre []slog.Attr, groups []string) *Event {
	ev := &Event{
		Time:   r.Time,
		Level:  FromSlog(r.Level),
		Logger: logger,
		Thread: ThreadFrom(ctx),
	}
	if ev.Time.IsZero() {
		ev.Time = time.Now()
	}

	if mdc := MDCFrom(ctx); len(mdc) > 0 {
		ev.MDC = maps.Merge(nil, mdc, true)
	}

	var b strings.Builder
	b.WriteString(r.Message)

	prefix := strings.Join(groups, ".")
	add := func(a slog.Attr, prefix string) {
		ev.addAttr(&b, prefix, a)
	}
	for _, a := range pre {
		add(a, "")
	}
	r.Attrs(func(a slog.Attr) bool {
		add(a, prefix)
		return true
	})
	ev.Message = b.String()

	if r.PC != 0 {
		ev.Caller = callerinfo.FromPC(r.PC)
	}
	return ev
}

func (e *Event) addAttr(b *strings.Builder, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}

	key := a.Key
	if prefix != "" {
		key = prefix + "." + key
	}

	if a.Value.Kind() == slog.KindGroup {
		for _, ga := range a.Value.Group() {
			sub := key
			if a.Key == "" {
				sub = prefix
			}
			e.addAttr(b, sub, ga)
		}
		return
	}

	if prefix == "" && IsMDCKey(a.Key) {
		if e.MDC == nil {
			e.MDC = make(map[string]string, 1)
		}
		e.MDC[a.Key] = a.Value.String()
		return
	}

	if err, ok := a.Value.Any().(error); ok && a.Value.Kind() == slog.KindAny && e.Err == nil {
		e.Err = err
		return
	}

	fmt.Fprintf(b, " %s=%s", key, a.Value.String())
}
