// Copyright 2026 Outreach Corporation. All Rights Reserved.

// Description: Context carried thread identity and mapped diagnostic
// context.

package logevent

import (
	"context"
	"strconv"
	"sync"

	"github.com/getoutreach/ilslog/pkg/maps"
)

// MDC keys read by the database sink.
const (
	KeyProject  = "project"
	KeyClient   = "client"
	KeyModule   = "module"
	KeyFunction = "function"
	KeyLine     = "line"
)

// IsMDCKey reports whether key is one of the well known MDC keys.
func IsMDCKey(key string) bool {
	switch key {
	case KeyProject, KeyClient, KeyModule, KeyFunction, KeyLine:
		return true
	}
	return false
}

// Thread identifies the logical thread of execution an event was
// emitted from. Goroutines have no identity of their own, so callers
// that want thread level pass-through attach one with WithThread.
type Thread struct {
	ID   int64
	Name string
}

// Matches reports whether s names this thread, either by name or by
// decimal id.
func (t Thread) Matches(s string) bool {
	return s != "" && (s == t.Name || s == strconv.FormatInt(t.ID, 10))
}

// Key returns the name of the thread, or its decimal id when unnamed.
func (t Thread) Key() string {
	if t.Name != "" {
		return t.Name
	}
	return strconv.FormatInt(t.ID, 10)
}

// DefaultThread is reported for events logged without a thread in
// their context.
var DefaultThread = Thread{ID: 0, Name: "main"}

type threadKey struct{}

type mdcKey struct{}

// WithThread attaches thread identity to ctx.
func WithThread(ctx context.Context, t Thread) context.Context {
	return context.WithValue(ctx, threadKey{}, t)
}

// ThreadFrom returns the thread attached to ctx, or DefaultThread.
func ThreadFrom(ctx context.Context) Thread {
	if t, ok := LookupThread(ctx); ok {
		return t
	}
	return DefaultThread
}

// LookupThread returns the thread attached to ctx with WithThread and
// whether there was one.
func LookupThread(ctx context.Context) (Thread, bool) {
	if ctx == nil {
		return Thread{}, false
	}
	t, ok := ctx.Value(threadKey{}).(Thread)
	return t, ok
}

// WithMDC returns a context carrying key=value in addition to the
// diagnostic values already present in ctx.
func WithMDC(ctx context.Context, key, value string) context.Context {
	next := maps.Merge(MDCFrom(ctx), map[string]string{key: value}, true)
	return context.WithValue(ctx, mdcKey{}, next)
}

// MDCFrom returns the diagnostic values attached to ctx. The returned
// map must not be modified.
func MDCFrom(ctx context.Context) map[string]string {
	if ctx == nil {
		return nil
	}
	m, _ := ctx.Value(mdcKey{}).(map[string]string) //nolint:errcheck // Why: nil map is fine
	return m
}

// Diagnostics is a process wide diagnostic context. It is the fallback
// for MDC keys that an event does not carry itself.
type Diagnostics struct {
	mu     sync.RWMutex
	values map[string]string
}

// Global is the process wide diagnostic context.
//
//nolint:gochecknoglobals // Why: mirrors the host's static diagnostic context.
var Global = &Diagnostics{}

// Set stores key=value.
func (d *Diagnostics) Set(key, value string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.values == nil {
		d.values = make(map[string]string)
	}
	d.values[key] = value
}

// Get returns the value stored for key.
func (d *Diagnostics) Get(key string) (string, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	v, ok := d.values[key]
	return v, ok
}

// Remove deletes key.
func (d *Diagnostics) Remove(key string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.values, key)
}

// Clear removes every value.
func (d *Diagnostics) Clear() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.values = nil
}
