// Copyright 2026 Outreach Corporation. All Rights Reserved.

// Description: This file implements the logging file watcher activity.

package serviceactivity

import (
	"context"
	"time"

	"github.com/getoutreach/ilslog/pkg/config"
	"github.com/getoutreach/ilslog/pkg/olog"
)

// Reloader applies a new logging configuration. host.Local implements
// it.
type Reloader interface {
	Reload(ctx context.Context, logging *config.Logging) error
}

var _ ServiceActivity = (*LoggingPoller)(nil)

// LoggingPoller reapplies the logging file each time it changes.
type LoggingPoller struct {
	path     string
	interval time.Duration
	target   Reloader

	done chan struct{}
}

// NewLoggingPoller returns an activity watching path every interval.
func NewLoggingPoller(path string, interval time.Duration, target Reloader) *LoggingPoller {
	if interval <= 0 {
		interval = config.DefaultPollInterval
	}
	return &LoggingPoller{path: path, interval: interval, target: target, done: make(chan struct{})}
}

// Run implements ServiceActivity. The first change seen is the file
// as it was at startup, which is applied again.
func (p *LoggingPoller) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-p.done:
			cancel()
		case <-ctx.Done():
		}
	}()

	log := olog.New()
	var lastErr string
	config.Poll(ctx, p.path, p.interval, func(l *config.Logging, err error) bool {
		if err != nil {
			// a missing file is reported once, not every interval
			if err.Error() != lastErr {
				log.WarnContext(ctx, "failed to read logging configuration", "path", p.path, "error", err)
			}
			lastErr = err.Error()
			return true
		}
		lastErr = ""
		if err := p.target.Reload(ctx, l); err != nil {
			log.WarnContext(ctx, "failed to apply logging configuration", "path", p.path, "error", err)
			return true
		}
		log.InfoContext(ctx, "applied logging configuration", "path", p.path)
		return true
	})
	return nil
}

// Close implements ServiceActivity.
func (p *LoggingPoller) Close(_ context.Context) error {
	select {
	case <-p.done:
	default:
		close(p.done)
	}
	return nil
}
