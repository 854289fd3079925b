// Copyright 2026 Outreach Corporation. All Rights Reserved.

// Description: This file integrates a logging context with logrus

package adapters

import (
	"context"
	"log/slog"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/getoutreach/ilslog/pkg/logctx"
	"github.com/getoutreach/ilslog/pkg/logevent"
)

// LoggerField is the logrus field that overrides the logger name of an
// entry.
const LoggerField = "logger"

// LogrusHook dispatches logrus entries to a logging context. Fields
// named after MDC keys become MDC values, the error field becomes the
// event error, and the remaining fields are appended to the message.
type LogrusHook struct {
	lc   *logctx.Context
	name string
}

var _ logrus.Hook = (*LogrusHook)(nil)

// NewLogrusHook returns a hook dispatching under the logger name.
func NewLogrusHook(lc *logctx.Context, name string) *LogrusHook {
	return &LogrusHook{lc: lc, name: name}
}

// Levels implements logrus.Hook.
func (h *LogrusHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

// FromLogrusLevel maps a logrus level. Panic and fatal are ERROR.
func FromLogrusLevel(l logrus.Level) logevent.Level {
	switch l {
	case logrus.PanicLevel, logrus.FatalLevel, logrus.ErrorLevel:
		return logevent.Error
	case logrus.WarnLevel:
		return logevent.Warn
	case logrus.InfoLevel:
		return logevent.Info
	case logrus.DebugLevel:
		return logevent.Debug
	default:
		return logevent.Trace
	}
}

// Fire implements logrus.Hook.
func (h *LogrusHook) Fire(entry *logrus.Entry) error {
	name := h.name
	if s, ok := entry.Data[LoggerField].(string); ok && s != "" {
		name = s
	}

	var pc uintptr
	if entry.Caller != nil {
		pc = entry.Caller.PC
	}
	r := slog.NewRecord(entry.Time, FromLogrusLevel(entry.Level).Slog(), entry.Message, pc)

	keys := make([]string, 0, len(entry.Data))
	for k := range entry.Data {
		if k != LoggerField {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		v := entry.Data[k]
		if k == logrus.ErrorKey {
			r.AddAttrs(slog.Any("error", v))
			continue
		}
		r.AddAttrs(slog.Any(k, v))
	}

	ctx := entry.Context
	if ctx == nil {
		ctx = context.Background()
	}
	return h.lc.Handler(name).Handle(ctx, r)
}
