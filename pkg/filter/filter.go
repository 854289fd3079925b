// Copyright 2026 Outreach Corporation. All Rights Reserved.

// Description: Filter decisions and the ordered filter chain.

// Package filter contains the policy filters that decide whether an
// event bypasses, or is suppressed regardless of, a logger's level.
package filter

import (
	"sync"

	"github.com/getoutreach/ilslog/pkg/logevent"
)

// Decision is the outcome of a filter.
type Decision int

const (
	// Neutral defers to the next filter, and finally to the logger level.
	Neutral Decision = iota
	// Accept forces the event through regardless of level.
	Accept
	// Deny suppresses the event regardless of level.
	Deny
)

// String implements fmt.Stringer.
func (d Decision) String() string {
	switch d {
	case Accept:
		return "ACCEPT"
	case Deny:
		return "DENY"
	default:
		return "NEUTRAL"
	}
}

// TurboFilter decides the fate of an event. It is used both as a
// context wide filter evaluated before level checks and as a per
// appender filter.
type TurboFilter interface {
	Decide(ev *logevent.Event) Decision
}

// Func adapts a function to a TurboFilter.
type Func func(ev *logevent.Event) Decision

// Decide implements TurboFilter.
func (f Func) Decide(ev *logevent.Event) Decision {
	return f(ev)
}

// Decide evaluates filters in order and returns the first non-neutral
// decision.
func Decide(ev *logevent.Event, filters ...TurboFilter) Decision {
	for _, f := range filters {
		if d := f.Decide(ev); d != Neutral {
			return d
		}
	}
	return Neutral
}

type named struct {
	name string
	f    TurboFilter
}

// Chain is an ordered set of named filters. The zero value is an empty
// chain ready to use.
type Chain struct {
	mu      sync.RWMutex
	filters []named
}

// Decide implements TurboFilter.
func (c *Chain) Decide(ev *logevent.Event) Decision {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, n := range c.filters {
		if d := n.f.Decide(ev); d != Neutral {
			return d
		}
	}
	return Neutral
}

// Add appends f under name, replacing any filter already registered
// under that name in place.
func (c *Chain) Add(name string, f TurboFilter) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.filters {
		if c.filters[i].name == name {
			c.filters[i].f = f
			return
		}
	}
	c.filters = append(c.filters, named{name: name, f: f})
}

// AddIfAbsent adds f under name unless a filter of that name exists. It
// returns the filter registered under name afterwards.
func (c *Chain) AddIfAbsent(name string, f TurboFilter) TurboFilter {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, n := range c.filters {
		if n.name == name {
			return n.f
		}
	}
	c.filters = append(c.filters, named{name: name, f: f})
	return f
}

// Get returns the filter registered under name.
func (c *Chain) Get(name string) (TurboFilter, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, n := range c.filters {
		if n.name == name {
			return n.f, true
		}
	}
	return nil, false
}

// Remove deletes the filter registered under name.
func (c *Chain) Remove(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, n := range c.filters {
		if n.name == name {
			c.filters = append(c.filters[:i:i], c.filters[i+1:]...)
			return true
		}
	}
	return false
}

// Names returns the filter names in evaluation order.
func (c *Chain) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, len(c.filters))
	for i, n := range c.filters {
		out[i] = n.name
	}
	return out
}

// Len returns the number of filters.
func (c *Chain) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.filters)
}

// Reset removes every filter.
func (c *Chain) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filters = nil
}
