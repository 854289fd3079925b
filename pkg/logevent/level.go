// Copyright 2026 Outreach Corporation. All Rights Reserved.

// Description: Severity levels shared by every ils component.

package logevent

import (
	"log/slog"
	"strings"

	"github.com/pkg/errors"
)

// ErrUnknownLevel is returned by ParseLevel for names that are not a
// known severity.
var ErrUnknownLevel = errors.New("unknown log level")

// Level is the severity of an event. The numeric values line up with
// slog.Level so a Level can be converted in both directions.
type Level int

// Severities, lowest to highest. Off and All are only meaningful as
// logger thresholds.
const (
	All   Level = -100
	Trace Level = -8
	Debug Level = Level(slog.LevelDebug)
	Info  Level = Level(slog.LevelInfo)
	Warn  Level = Level(slog.LevelWarn)
	Error Level = Level(slog.LevelError)
	Off   Level = 100
)

// Levels lists the five event severities in retention order (ERROR
// first).
var Levels = [...]Level{Error, Warn, Info, Debug, Trace}

// FromSlog converts a slog level, snapping values in between the named
// levels down to the closest named level.
func FromSlog(l slog.Level) Level {
	switch {
	case l >= slog.LevelError:
		return Error
	case l >= slog.LevelWarn:
		return Warn
	case l >= slog.LevelInfo:
		return Info
	case l >= slog.LevelDebug:
		return Debug
	default:
		return Trace
	}
}

// Slog returns the slog equivalent of l.
func (l Level) Slog() slog.Level {
	return slog.Level(l)
}

// Int returns the integer persisted in the log_level column.
func (l Level) Int() int {
	switch l {
	case Error:
		return 40000
	case Warn:
		return 30000
	case Info:
		return 20000
	case Debug:
		return 10000
	case Trace:
		return 5000
	case Off:
		return 1<<31 - 1
	case All:
		return -1 << 31
	default:
		return int(l)
	}
}

// String implements fmt.Stringer.
func (l Level) String() string {
	switch l {
	case Error:
		return "ERROR"
	case Warn:
		return "WARN"
	case Info:
		return "INFO"
	case Debug:
		return "DEBUG"
	case Trace:
		return "TRACE"
	case Off:
		return "OFF"
	case All:
		return "ALL"
	default:
		return slog.Level(l).String()
	}
}

// Known reports whether l is one of the five event severities.
func (l Level) Known() bool {
	for _, k := range Levels {
		if k == l {
			return true
		}
	}
	return false
}

// ParseLevel parses a level name, ignoring case.
func ParseLevel(s string) (Level, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ERROR":
		return Error, nil
	case "WARN", "WARNING":
		return Warn, nil
	case "INFO":
		return Info, nil
	case "DEBUG":
		return Debug, nil
	case "TRACE":
		return Trace, nil
	case "OFF":
		return Off, nil
	case "ALL":
		return All, nil
	}
	return Info, errors.Wrapf(ErrUnknownLevel, "%q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Level) UnmarshalText(b []byte) error {
	parsed, err := ParseLevel(string(b))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
