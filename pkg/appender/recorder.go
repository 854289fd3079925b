// Copyright 2026 Outreach Corporation. All Rights Reserved.

// Description: Keeps events in memory.

package appender

import (
	"sync"

	"github.com/getoutreach/ilslog/pkg/logevent"
)

// Recorder keeps every event it receives.
type Recorder struct {
	mu     sync.Mutex
	events []*logevent.Event
}

// Append implements Appender.
func (r *Recorder) Append(ev *logevent.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

// Events returns the recorded events in order.
func (r *Recorder) Events() []*logevent.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*logevent.Event(nil), r.events...)
}

// Messages returns the messages of the recorded events in order.
func (r *Recorder) Messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, ev := range r.events {
		out[i] = ev.Message
	}
	return out
}

// Len returns the number of recorded events.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

// Reset drops the recorded events.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}
