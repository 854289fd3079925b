// Copyright 2026 Outreach Corporation. All Rights Reserved.

// Description: Watches the logging configuration file for changes.

package config

import (
	"context"
	"os"
	"time"

	"github.com/pkg/errors"

	"github.com/getoutreach/ilslog/pkg/async"
)

// Poll watches the logging file at path and calls fn with the parsed
// configuration every time its modification time advances.
//
//   - if ctx ends, Poll exits. Otherwise it blocks until fn returns false
//   - stat and parse failures are passed to fn with a nil configuration
//   - interval controls how often the file is checked
func Poll(ctx context.Context, path string, interval time.Duration, fn func(*Logging, error) bool) {
	var lastModTime time.Time
	for ctx.Err() == nil {
		stat, err := os.Stat(path)
		switch {
		case err != nil:
			if !fn(nil, errors.Wrapf(err, "stat %s", path)) {
				return
			}
		case stat.ModTime().After(lastModTime):
			lastModTime = stat.ModTime()
			l, err := LoadLogging(path)
			if !fn(l, err) {
				return
			}
		}

		async.Sleep(ctx, interval)
	}
}
