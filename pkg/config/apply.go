// Copyright 2026 Outreach Corporation. All Rights Reserved.

// Description: Applies a logging configuration to a logging context.

package config

import (
	"github.com/getoutreach/ilslog/pkg/filter"
	"github.com/getoutreach/ilslog/pkg/logctx"
	"github.com/getoutreach/ilslog/pkg/logevent"
)

// Apply sets the configured levels on lc and installs the declared
// turbo filters. Problems recorded while parsing are reported to the
// fallback logger of lc.
//
// Pattern filters already installed under the same name keep their
// live state and gain the declared patterns and threads. Bypass and
// crash filters are replaced.
func (l *Logging) Apply(lc *logctx.Context) {
	for _, err := range l.Problems {
		lc.Fallback().Warn("ignoring logging configuration entry", "error", err)
	}

	if l.Root != nil {
		lc.SetRootLevel(*l.Root)
	}
	for _, ll := range l.Loggers {
		lc.SetLevel(ll.Name, ll.Level)
	}

	for i := range l.TurboFilters {
		tf := &l.TurboFilters[i]
		switch tf.Type {
		case FilterTypePattern:
			installed := lc.InstallTurboFilter(tf.Name, filter.NewPattern(tf.Marker))
			p, ok := installed.(*filter.Pattern)
			if !ok {
				lc.Fallback().Warn("turbo filter name taken by another filter type", "name", tf.Name)
				continue
			}
			for _, s := range tf.Patterns {
				p.AddPattern(s)
			}
			for _, s := range tf.Threads {
				p.AddThread(s)
			}
		case FilterTypeBypass:
			lc.TurboFilters().Add(tf.Name, filter.NewBypass(tf.Level))
		case FilterTypeCrash:
			marker := tf.Marker
			if marker == "" {
				marker = logevent.MarkerCrash
			}
			lc.TurboFilters().Add(tf.Name, filter.NewCrash(tf.Level, marker))
		}
	}
}
