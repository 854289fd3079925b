// Copyright 2026 Outreach Corporation. All Rights Reserved.

// Description: The narrow interface lifecycle hooks use to reach the
// logging system of their host.

// Package host binds module hooks to a logging system.
//
// Hooks only ever talk to a LoggingHost and to its Controls, so the same
// hook code runs against the in-process binding (Local) and against
// any other binding a deployment provides.
package host

import (
	"context"

	"github.com/getoutreach/ilslog/pkg/appender"
	"github.com/getoutreach/ilslog/pkg/filter"
	"github.com/getoutreach/ilslog/pkg/logctx"
	"github.com/getoutreach/ilslog/pkg/logevent"
)

// LoggingHost installs and removes appenders on a logging system.
type LoggingHost interface {
	// InstallAppender attaches a under name, replacing any appender
	// already installed with that name.
	InstallAppender(ctx context.Context, name string, a appender.Appender, opts ...logctx.AttachOption) error

	// RemoveAppender detaches and stops the named appender.
	RemoveAppender(ctx context.Context, name string) error

	// ResetContext returns the logging system to its configured state.
	ResetContext(ctx context.Context) error

	// ConfigProperty returns a property of the logging configuration.
	ConfigProperty(name string) (string, bool)
}

// Controls are the level and turbo filter operations of a logging
// system. *logctx.Context implements Controls.
type Controls interface {
	LoggerNames() []string
	Level(name string) (logevent.Level, bool)
	EffectiveLevel(name string) logevent.Level
	SetLevel(name string, l logevent.Level)
	InstallTurboFilter(name string, f filter.TurboFilter) filter.TurboFilter
}

var _ Controls = (*logctx.Context)(nil)
