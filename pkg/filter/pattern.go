// Copyright 2026 Outreach Corporation. All Rights Reserved.

// Description: Pass-through of events by logger pattern or thread.

package filter

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"github.com/getoutreach/ilslog/pkg/logevent"
	"github.com/getoutreach/ilslog/pkg/maps"
	"github.com/getoutreach/ilslog/pkg/orerr"
	"github.com/getoutreach/ilslog/pkg/statuscodes"
)

// ErrNoThread is returned by PassCurrentThread when the context carries
// no thread.
var ErrNoThread = orerr.NewErrorStatus(
	orerr.SentinelError("context carries no thread"), statuscodes.BadRequest)

// Pattern accepts events from allowed threads, or from loggers whose
// name contains one of the registered substrings, so that they bypass
// their logger's level during a live debugging session.
//
// Every event accepted by the filter is marked, and a marked event is
// denied, so a second Pattern filter evaluating the same event does not
// treat it as new.
type Pattern struct {
	marker logevent.Marker

	mu       sync.RWMutex
	patterns []string
	threads  map[string]struct{}
}

// NewPattern returns an empty pattern filter. An empty marker uses
// logevent.MarkerPattern.
func NewPattern(marker logevent.Marker) *Pattern {
	if marker == "" {
		marker = logevent.MarkerPattern
	}
	return &Pattern{marker: marker, threads: make(map[string]struct{})}
}

// Marker returns the marker applied by the filter.
func (p *Pattern) Marker() logevent.Marker {
	return p.marker
}

// Decide implements TurboFilter.
func (p *Pattern) Decide(ev *logevent.Event) Decision {
	if ev.HasMarker(p.marker) {
		return Deny
	}

	p.mu.RLock()
	matched := p.threadAllowed(ev.Thread) || p.loggerMatches(ev.Logger)
	p.mu.RUnlock()

	if !matched {
		return Neutral
	}
	ev.Mark(p.marker)
	return Accept
}

func (p *Pattern) threadAllowed(t logevent.Thread) bool {
	if len(p.threads) == 0 {
		return false
	}
	if _, ok := p.threads[t.Name]; ok && t.Name != "" {
		return true
	}
	_, ok := p.threads[strconv.FormatInt(t.ID, 10)]
	return ok
}

func (p *Pattern) loggerMatches(logger string) bool {
	for _, s := range p.patterns {
		if strings.Contains(logger, s) {
			return true
		}
	}
	return false
}

// AddPattern allows every logger whose name contains s. Empty and
// duplicate patterns are ignored.
func (p *Pattern) AddPattern(s string) {
	if s == "" {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, existing := range p.patterns {
		if existing == s {
			return
		}
	}
	p.patterns = append(p.patterns, s)
}

// AddThread allows the thread with the given name or decimal id.
func (p *Pattern) AddThread(nameOrID string) {
	if nameOrID == "" {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.threads[nameOrID] = struct{}{}
}

// PassCurrentThread allows the thread attached to ctx with
// logevent.WithThread and returns it. An unnamed thread is allowed by
// its id.
func (p *Pattern) PassCurrentThread(ctx context.Context) (logevent.Thread, error) {
	t, ok := logevent.LookupThread(ctx)
	if !ok {
		return logevent.Thread{}, ErrNoThread
	}
	p.AddThread(t.Key())
	return t, nil
}

// RemoveThread revokes a thread previously allowed.
func (p *Pattern) RemoveThread(nameOrID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.threads, nameOrID)
}

// Patterns returns the registered logger patterns in insertion order.
func (p *Pattern) Patterns() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]string(nil), p.patterns...)
}

// Threads returns the allowed threads, sorted.
func (p *Pattern) Threads() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return maps.SortedKeys(p.threads)
}

// Reset removes every pattern and thread.
func (p *Pattern) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.patterns = nil
	p.threads = make(map[string]struct{})
}
