// Copyright 2026 Outreach Corporation. All Rights Reserved.

// Description: Buffers recent events and writes them out on an error.

// Package crash implements an appender that keeps recent events in
// memory and forwards them to a sink only once an event carrying an
// error is observed.
package crash

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/getoutreach/ilslog/pkg/appender"
	"github.com/getoutreach/ilslog/pkg/logevent"
	"github.com/getoutreach/ilslog/pkg/metrics"
	"github.com/getoutreach/ilslog/pkg/olog"
	"github.com/getoutreach/ilslog/pkg/ring"
)

// DefaultBufferSize is used when the configured size is not positive.
const DefaultBufferSize = 100

// Appender buffers events and flushes them to its sink when an event
// with a non-nil Err arrives. Flushed events are marked, and marked
// events are never buffered again, so a sink that logs while writing
// cannot cause another flush of the same events.
type Appender struct {
	sink      appender.Appender
	marker    logevent.Marker
	gatedOnly bool
	fallback  *slog.Logger

	mu  sync.RWMutex
	buf *ring.Buffer

	flushing atomic.Bool
}

// Option configures an Appender.
type Option func(*Appender)

// WithMarker sets the marker applied to flushed events. Defaults to
// logevent.MarkerCrash.
func WithMarker(m logevent.Marker) Option {
	return func(a *Appender) {
		a.marker = m
	}
}

// WithGatedOnly forwards only the events that the logger level kept
// from the other appenders. Events that were already delivered are
// dropped from the flush.
func WithGatedOnly() Option {
	return func(a *Appender) {
		a.gatedOnly = true
	}
}

// WithFallback sets the logger that receives write failures.
func WithFallback(l *slog.Logger) Option {
	return func(a *Appender) {
		a.fallback = l
	}
}

// New returns a crash appender forwarding to sink with room for size
// events.
func New(sink appender.Appender, size int, opts ...Option) *Appender {
	if size < 1 {
		size = DefaultBufferSize
	}
	a := &Appender{
		sink:   sink,
		marker: logevent.MarkerCrash,
		buf:    ring.New(size),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.fallback == nil {
		a.fallback = olog.New()
	}
	return a
}

func (a *Appender) buffer() *ring.Buffer {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.buf
}

// Marker returns the marker applied to flushed events.
func (a *Appender) Marker() logevent.Marker {
	return a.marker
}

// Append implements appender.Appender.
func (a *Appender) Append(ev *logevent.Event) {
	if ev.HasMarker(a.marker) {
		return
	}
	a.buffer().Add(ev)
	if ev.Err != nil {
		a.Flush(context.Background())
	}
}

// Flush forwards the buffered events to the sink, oldest first, marking
// each of them, and then clears the buffer. A failed write is reported
// and the flush moves on to the next event. Flush returns the number of
// events forwarded.
//
// A flush already in progress makes Flush return 0 immediately. Events
// added while a flush runs may be cleared without being forwarded.
func (a *Appender) Flush(ctx context.Context) int {
	if !a.flushing.CompareAndSwap(false, true) {
		return 0
	}
	defer a.flushing.Store(false)

	buf := a.buffer()
	forwarded := 0
	for _, ev := range buf.Values() {
		ev.Mark(a.marker)
		if a.gatedOnly && !ev.Gated {
			continue
		}
		if err := a.forward(ctx, ev); err != nil {
			a.fallback.Error("failed to flush crash buffer event", "error", err, "event", ev)
			continue
		}
		forwarded++
	}
	buf.Clear()

	metrics.ReportCrashFlush(forwarded)
	return forwarded
}

func (a *Appender) forward(ctx context.Context, ev *logevent.Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("sink panicked: %v", r)
		}
	}()
	return appender.Write(ctx, a.sink, ev)
}

// SetBufferSize replaces the buffer with an empty one of size n. The
// events buffered so far are discarded.
func (a *Appender) SetBufferSize(n int) {
	if n < 1 {
		n = DefaultBufferSize
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.buf = ring.New(n)
}

// BufferSize returns the capacity of the buffer.
func (a *Appender) BufferSize() int {
	return a.buffer().Cap()
}

// Buffered returns the number of events waiting in the buffer.
func (a *Appender) Buffered() int {
	return a.buffer().Len()
}

// Snapshot returns a copy of the buffered events, oldest first.
func (a *Appender) Snapshot() []*logevent.Event {
	return a.buffer().Values()
}
