// Copyright 2026 Outreach Corporation. All Rights Reserved.

// Description: Contains a dynamic log level implementation that
// implements the slog.Leveler interface.

package olog

import (
	"log/slog"
	"sync/atomic"
)

// level is the level used by loggers without a registry override.
// Defaults to "0" which is the info level.
var level atomic.Int64

// _ ensures that leveler implements slog.Leveler.
var _ slog.Leveler = &leveler{}

// leveler returns the registry level of the first matching address,
// falling back to the global level.
type leveler struct {
	levelRegistry *levelRegistry

	// addrs are the registry addresses of the logger, most specific
	// first.
	addrs []string
}

// Level implements slog.Leveler.
func (l *leveler) Level() slog.Level {
	if addrLevel, ok := l.levelRegistry.Get(l.addrs...); ok {
		return addrLevel
	}
	return slog.Level(level.Load())
}

// newLeveler creates a new leveler with the provided addresses.
func newLeveler(lr *levelRegistry, addrs []string) slog.Leveler {
	return &leveler{lr, addrs}
}

// SetGlobalLevel sets the level used by loggers that have no address
// override. This impacts loggers that have previously been created.
func SetGlobalLevel(l slog.Level) {
	level.Store(int64(l))
}

// GlobalLevel returns the level set by SetGlobalLevel.
func GlobalLevel() slog.Level {
	return slog.Level(level.Load())
}

// SetLevel overrides the level of every logger associated with one of
// the addresses (a module or package path).
func SetLevel(l slog.Level, address ...string) {
	globalLevelRegistry.Set(l, address...)
}

// ClearLevels removes every address override.
func ClearLevels() {
	globalLevelRegistry.Clear()
}
