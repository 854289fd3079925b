// Copyright 2026 Outreach Corporation. All Rights Reserved.

// Description: Level and marker based filters.

package filter

import (
	"sync/atomic"

	"github.com/getoutreach/ilslog/pkg/logevent"
)

// threshold is a level that can be changed while filters are being
// evaluated.
type threshold struct {
	v atomic.Int64
}

func (t *threshold) get() logevent.Level {
	return logevent.Level(t.v.Load())
}

func (t *threshold) set(l logevent.Level) {
	t.v.Store(int64(l))
}

// Crash selects the events that feed a crash buffer: those at or above
// a threshold that the crash path has not already seen.
type Crash struct {
	marker logevent.Marker
	floor  threshold
}

// NewCrash returns a crash filter. An empty marker uses
// logevent.MarkerCrash.
func NewCrash(floor logevent.Level, marker logevent.Marker) *Crash {
	if marker == "" {
		marker = logevent.MarkerCrash
	}
	c := &Crash{marker: marker}
	c.floor.set(floor)
	return c
}

// Decide implements TurboFilter.
func (c *Crash) Decide(ev *logevent.Event) Decision {
	if ev.Level < c.floor.get() {
		return Deny
	}
	if ev.HasMarker(c.marker) {
		return Deny
	}
	return Accept
}

// Threshold returns the minimum level accepted.
func (c *Crash) Threshold() logevent.Level {
	return c.floor.get()
}

// SetThreshold changes the minimum level accepted.
func (c *Crash) SetThreshold(l logevent.Level) {
	c.floor.set(l)
}

// Bypass accepts every event at or above a threshold, whatever its
// logger's level. It never denies.
type Bypass struct {
	floor threshold
}

// NewBypass returns a bypass filter.
func NewBypass(floor logevent.Level) *Bypass {
	b := &Bypass{}
	b.floor.set(floor)
	return b
}

// Decide implements TurboFilter.
func (b *Bypass) Decide(ev *logevent.Event) Decision {
	if ev.Level >= b.floor.get() {
		return Accept
	}
	return Neutral
}

// Threshold returns the bypass level.
func (b *Bypass) Threshold() logevent.Level {
	return b.floor.get()
}

// SetThreshold changes the bypass level.
func (b *Bypass) SetThreshold(l logevent.Level) {
	b.floor.set(l)
}

// SuppressByMarker denies events that carry a marker. It is attached to
// the regular appenders so crash flush output is only written once.
type SuppressByMarker struct {
	Marker logevent.Marker
}

// NewSuppressByMarker returns a filter denying events marked m. An
// empty marker uses logevent.MarkerCrash.
func NewSuppressByMarker(m logevent.Marker) *SuppressByMarker {
	if m == "" {
		m = logevent.MarkerCrash
	}
	return &SuppressByMarker{Marker: m}
}

// Decide implements TurboFilter.
func (s *SuppressByMarker) Decide(ev *logevent.Event) Decision {
	if ev.HasMarker(s.Marker) {
		return Deny
	}
	return Neutral
}
