// Copyright 2026 Outreach Corporation. All Rights Reserved.

// Description: Appender attachments and event dispatch.

package logctx

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/getoutreach/ilslog/pkg/appender"
	"github.com/getoutreach/ilslog/pkg/filter"
	"github.com/getoutreach/ilslog/pkg/logevent"
	"github.com/getoutreach/ilslog/pkg/metrics"
)

// attachment is an appender attached to a context.
type attachment struct {
	name     string
	appender appender.Appender
	filters  []filter.TurboFilter

	// everyLevel attachments also receive events rejected by the logger
	// level.
	everyLevel bool
}

// AttachOption configures an attachment.
type AttachOption func(*attachment)

// WithFilters adds filters evaluated for the attachment only. A Deny
// from any of them skips the appender.
func WithFilters(f ...filter.TurboFilter) AttachOption {
	return func(a *attachment) {
		a.filters = append(a.filters, f...)
	}
}

// EveryLevel makes the attachment receive the events the logger level
// rejected as well. Such events are flagged Gated.
func EveryLevel() AttachOption {
	return func(a *attachment) {
		a.everyLevel = true
	}
}

// AddAppender attaches a under name, starting it first when it
// implements appender.Lifecycle. An appender already attached under name
// is stopped and replaced in place.
func (c *Context) AddAppender(ctx context.Context, name string, a appender.Appender, opts ...AttachOption) error {
	if lc, ok := a.(appender.Lifecycle); ok {
		if err := lc.Start(ctx); err != nil {
			return errors.Wrapf(err, "start appender %s", name)
		}
	}

	att := &attachment{name: name, appender: a}
	for _, opt := range opts {
		opt(att)
	}

	var replaced *attachment
	c.mu.Lock()
	// copy on write so Dispatch can iterate a snapshot without a lock
	next := make([]*attachment, len(c.attachments), len(c.attachments)+1)
	copy(next, c.attachments)
	for i, existing := range next {
		if existing.name == name {
			replaced = existing
			next[i] = att
			break
		}
	}
	if replaced == nil {
		next = append(next, att)
	}
	c.attachments = next
	c.mu.Unlock()

	if replaced != nil {
		return c.stop(ctx, replaced)
	}
	return nil
}

// RemoveAppender detaches and stops the appender attached under name.
func (c *Context) RemoveAppender(ctx context.Context, name string) error {
	var removed *attachment
	c.mu.Lock()
	next := make([]*attachment, 0, len(c.attachments))
	for _, a := range c.attachments {
		if a.name == name && removed == nil {
			removed = a
			continue
		}
		next = append(next, a)
	}
	c.attachments = next
	c.mu.Unlock()

	if removed == nil {
		return errors.Wrap(ErrNotFound, name)
	}
	return c.stop(ctx, removed)
}

func (c *Context) stop(ctx context.Context, a *attachment) error {
	lc, ok := a.appender.(appender.Lifecycle)
	if !ok {
		return nil
	}
	if err := lc.Stop(ctx); err != nil {
		c.fallback.Warn("failed to stop appender", "appender", a.name, "error", err)
		return errors.Wrapf(err, "stop appender %s", a.name)
	}
	return nil
}

func (c *Context) snapshot() []*attachment {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.attachments
}

// Dispatch delivers ev. The turbo filters are consulted first: Deny
// drops the event, Accept delivers it regardless of level. Otherwise
// the event is delivered when its level is at or above the logger's
// effective level. An event rejected this way still reaches EveryLevel
// attachments, flagged Gated. Attachment filters apply last.
func (c *Context) Dispatch(ev *logevent.Event) {
	c.levels.register(ev.Logger)

	d := c.turbo.Decide(ev)
	if d == filter.Deny {
		return
	}
	pass := d == filter.Accept || ev.Level >= c.levels.effective(ev.Logger)
	ev.Gated = !pass

	for _, att := range c.snapshot() {
		if !pass && !att.everyLevel {
			continue
		}
		if filter.Decide(ev, att.filters...) == filter.Deny {
			continue
		}
		c.deliver(att, ev)
	}
}

// Enabled reports whether an event of level l logged to name could
// reach any appender.
func (c *Context) Enabled(name string, l logevent.Level) bool {
	if l >= c.levels.effective(name) || c.turbo.Len() > 0 {
		return true
	}
	for _, att := range c.snapshot() {
		if att.everyLevel {
			return true
		}
	}
	return false
}

func (c *Context) deliver(att *attachment, ev *logevent.Event) {
	defer func() {
		if r := recover(); r != nil {
			metrics.ReportDropped(att.name, metrics.DropPanic)
			c.fallback.Error("appender panicked", "appender", att.name, "panic", fmt.Sprint(r), "event", ev)
		}
	}()
	att.appender.Append(ev)
}
