// Copyright 2026 Outreach Corporation. All Rights Reserved.

// Description: Hierarchical logger levels.

package logctx

import (
	"strings"
	"sync"

	"github.com/getoutreach/ilslog/pkg/logevent"
	"github.com/getoutreach/ilslog/pkg/maps"
)

// levelRegistry stores the levels set on dotted logger names.
type levelRegistry struct {
	mu sync.RWMutex

	rootLevel logevent.Level
	byName    map[string]logevent.Level
	// known is every logger name that was handed out or configured.
	known map[string]struct{}
}

func newLevelRegistry() *levelRegistry {
	return &levelRegistry{
		rootLevel: logevent.Info,
		byName:    make(map[string]logevent.Level),
		known:     make(map[string]struct{}),
	}
}

func (lr *levelRegistry) set(name string, l logevent.Level) {
	lr.mu.Lock()
	defer lr.mu.Unlock()
	if name == "" {
		lr.rootLevel = l
		return
	}
	lr.byName[name] = l
	lr.known[name] = struct{}{}
}

func (lr *levelRegistry) clear(name string) {
	lr.mu.Lock()
	defer lr.mu.Unlock()
	delete(lr.byName, name)
}

func (lr *levelRegistry) get(name string) (logevent.Level, bool) {
	lr.mu.RLock()
	defer lr.mu.RUnlock()
	if name == "" {
		return lr.rootLevel, true
	}
	l, ok := lr.byName[name]
	return l, ok
}

func (lr *levelRegistry) effective(name string) logevent.Level {
	lr.mu.RLock()
	defer lr.mu.RUnlock()
	for name != "" {
		if l, ok := lr.byName[name]; ok {
			return l
		}
		i := strings.LastIndexByte(name, '.')
		if i < 0 {
			break
		}
		name = name[:i]
	}
	return lr.rootLevel
}

func (lr *levelRegistry) setRoot(l logevent.Level) {
	lr.mu.Lock()
	defer lr.mu.Unlock()
	lr.rootLevel = l
}

func (lr *levelRegistry) root() logevent.Level {
	lr.mu.RLock()
	defer lr.mu.RUnlock()
	return lr.rootLevel
}

func (lr *levelRegistry) register(name string) {
	if name == "" {
		return
	}
	lr.mu.RLock()
	_, ok := lr.known[name]
	lr.mu.RUnlock()
	if ok {
		return
	}

	lr.mu.Lock()
	defer lr.mu.Unlock()
	lr.known[name] = struct{}{}
}

func (lr *levelRegistry) names() []string {
	lr.mu.RLock()
	defer lr.mu.RUnlock()
	return maps.SortedKeys(lr.known)
}

func (lr *levelRegistry) reset() {
	lr.mu.Lock()
	defer lr.mu.Unlock()
	lr.rootLevel = logevent.Info
	lr.byName = make(map[string]logevent.Level)
}
