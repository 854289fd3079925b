// Copyright 2026 Outreach Corporation. All Rights Reserved.

// Description: An appender that ships rows to the gateway.

package rpc

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/getoutreach/ilslog/pkg/dbsink"
	"github.com/getoutreach/ilslog/pkg/logevent"
	"github.com/getoutreach/ilslog/pkg/metrics"
	"github.com/getoutreach/ilslog/pkg/olog"
	"github.com/getoutreach/ilslog/pkg/orerr"
	"github.com/getoutreach/ilslog/pkg/retention"
)

// DefaultRemoteTimeout bounds a single Append.
const DefaultRemoteTimeout = 10 * time.Second

// RemoteOptions configure a RemoteAppender.
type RemoteOptions struct {
	// Name labels the appender in metrics, "database" when empty.
	Name string

	// Scope and ClientID fill the scope and client_id columns.
	Scope    string
	ClientID string

	// Timeout bounds Append, DefaultRemoteTimeout when zero.
	Timeout time.Duration

	// Fallback receives delivery failures. Defaults to an olog logger.
	Fallback *slog.Logger
}

// RemoteAppender formats events into rows locally and stores them
// through the WriteRows operation of the gateway.
type RemoteAppender struct {
	ops      Operations
	name     string
	timeout  time.Duration
	fallback *slog.Logger

	mu     sync.RWMutex
	format dbsink.FormatOptions
}

// NewRemoteAppender returns an appender storing rows through ops.
func NewRemoteAppender(ops Operations, opts *RemoteOptions) *RemoteAppender {
	a := &RemoteAppender{
		ops:      ops,
		name:     opts.Name,
		timeout:  opts.Timeout,
		fallback: opts.Fallback,
		format: dbsink.FormatOptions{
			Scope:     opts.Scope,
			ClientID:  opts.ClientID,
			Retention: retention.Default,
		},
	}
	if a.name == "" {
		a.name = "database"
	}
	if a.timeout == 0 {
		a.timeout = DefaultRemoteTimeout
	}
	if a.fallback == nil {
		a.fallback = olog.New()
	}
	return a
}

// SetRetention changes the policy used for the retain_until column.
// The gateway recomputes it with its own policy on insert.
func (a *RemoteAppender) SetRetention(p retention.Policy) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.format.Retention = p
}

func (a *RemoteAppender) formatOptions() dbsink.FormatOptions {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.format
}

// Append implements appender.Appender. Failures are reported to the
// fallback logger and the event is dropped.
func (a *RemoteAppender) Append(ev *logevent.Event) {
	ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
	defer cancel()

	if err := a.Write(ctx, ev); err != nil {
		a.fallback.Error("failed to ship log event", "error", err, "event", ev)
	}
}

// Write implements appender.Writer.
func (a *RemoteAppender) Write(ctx context.Context, ev *logevent.Event) error {
	opts := a.formatOptions()
	row := dbsink.Format(ev, &opts)
	if err := a.ops.WriteRows(ctx, []dbsink.Row{row}); err != nil {
		reason := metrics.DropWriteFailed
		if orerr.IsRetryable(err) {
			reason = metrics.DropUnavailable
		}
		metrics.ReportDropped(a.name, reason)
		return err
	}
	metrics.ReportAppended(a.name)
	return nil
}
