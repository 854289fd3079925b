// Copyright 2026 Outreach Corporation. All Rights Reserved.

// Description: Implements the registry of per address log-level
// overrides consulted by every logger created by this package.

package olog

import (
	"log/slog"
	"sync"
)

// globalLevelRegistry is the registry used by New, Named and
// NewWithHooks.
var globalLevelRegistry = newRegistry()

// levelRegistry maps logger addresses to level overrides.
type levelRegistry struct {
	mu sync.RWMutex

	byAddress map[string]slog.Level
}

// newRegistry create a fully initialized registry.
func newRegistry() *levelRegistry {
	return &levelRegistry{
		byAddress: make(map[string]slog.Level),
	}
}

// Set sets the log-level for the provided addresses.
func (lr *levelRegistry) Set(level slog.Level, address ...string) {
	lr.mu.Lock()
	defer lr.mu.Unlock()

	for _, addr := range address {
		lr.byAddress[addr] = level
	}
}

// Get returns the level of the first address that has an override.
func (lr *levelRegistry) Get(address ...string) (slog.Level, bool) {
	lr.mu.RLock()
	defer lr.mu.RUnlock()

	for _, addr := range address {
		if level, ok := lr.byAddress[addr]; ok {
			return level, true
		}
	}
	return 0, false
}

// Clear removes every override.
func (lr *levelRegistry) Clear() {
	lr.mu.Lock()
	defer lr.mu.Unlock()
	lr.byAddress = make(map[string]slog.Level)
}
