// Copyright 2026 Outreach Corporation. All Rights Reserved.

// Description: This file implements the log table purge activity.

package serviceactivity

import (
	"context"
	"time"

	"github.com/getoutreach/ilslog/pkg/async"
	"github.com/getoutreach/ilslog/pkg/metrics"
	"github.com/getoutreach/ilslog/pkg/olog"
)

// DefaultPurgeInterval is used when NewPurger is given no interval.
const DefaultPurgeInterval = time.Hour

// Purgeable deletes the rows whose retention ended before now.
// hooks.Gateway implements it.
type Purgeable interface {
	Purge(ctx context.Context, now time.Time) (int64, error)
}

var _ ServiceActivity = (*Purger)(nil)

// Purger purges the log table on an interval.
type Purger struct {
	target   Purgeable
	interval time.Duration
	now      func() time.Time
}

// NewPurger returns an activity purging target every interval.
func NewPurger(target Purgeable, interval time.Duration) *Purger {
	if interval <= 0 {
		interval = DefaultPurgeInterval
	}
	return &Purger{target: target, interval: interval, now: time.Now}
}

// Run implements ServiceActivity. Failures are logged and the next
// purge is attempted on schedule.
func (p *Purger) Run(ctx context.Context) error {
	log := olog.New()
	for {
		if !async.Sleep(ctx, p.interval) {
			return nil
		}
		n, err := p.target.Purge(ctx, p.now())
		if err != nil {
			log.WarnContext(ctx, "failed to purge expired log rows", "error", err)
			continue
		}
		metrics.ReportPurged(n)
		if n > 0 {
			log.DebugContext(ctx, "purged expired log rows", "rows", n)
		}
	}
}

// Close implements ServiceActivity.
func (p *Purger) Close(_ context.Context) error {
	return nil
}
