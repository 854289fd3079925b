// Copyright 2026 Outreach Corporation. All Rights Reserved.

// Description: Provides a bounded buffer of recent log events

// Package ring implements a fixed capacity buffer that keeps the most
// recent log events, overwriting the oldest once full.
package ring

import (
	"sync"

	"github.com/getoutreach/ilslog/pkg/logevent"
)

// Buffer holds the last Cap() events in insertion order. Every method
// is individually atomic; sequences of calls are not.
type Buffer struct {
	mu    sync.Mutex
	items []*logevent.Event
	// next is the slot the next Add writes to.
	next int
	size int
}

// New returns an empty buffer. A capacity below 1 is treated as 1.
func New(capacity int) *Buffer {
	if capacity < 1 {
		capacity = 1
	}
	return &Buffer{items: make([]*logevent.Event, capacity)}
}

// Add stores ev, evicting the oldest event when the buffer is full.
func (b *Buffer) Add(ev *logevent.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.items[b.next] = ev
	b.next = (b.next + 1) % len(b.items)
	if b.size < len(b.items) {
		b.size++
	}
}

// Values returns a copy of the buffered events, oldest first.
func (b *Buffer) Values() []*logevent.Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastN(b.size)
}

// LastN returns a copy of the newest n events, oldest first.
func (b *Buffer) LastN(n int) []*logevent.Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	if n > b.size {
		n = b.size
	}
	return b.lastN(n)
}

func (b *Buffer) lastN(n int) []*logevent.Event {
	if n <= 0 {
		return nil
	}
	out := make([]*logevent.Event, n)
	start := (b.next - n + len(b.items)) % len(b.items)
	for i := 0; i < n; i++ {
		out[i] = b.items[(start+i)%len(b.items)]
	}
	return out
}

// Len returns the number of buffered events.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.size
}

// Cap returns the capacity of the buffer.
func (b *Buffer) Cap() int {
	return len(b.items)
}

// Clear drops every buffered event.
func (b *Buffer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.items {
		b.items[i] = nil
	}
	b.next = 0
	b.size = 0
}
