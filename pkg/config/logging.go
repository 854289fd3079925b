// Copyright 2026 Outreach Corporation. All Rights Reserved.

// Description: Parses the xml logging configuration.

package config

import (
	"bytes"
	"os"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/pkg/errors"
	"github.com/spf13/cast"

	"github.com/getoutreach/ilslog/pkg/crash"
	"github.com/getoutreach/ilslog/pkg/logevent"
	"github.com/getoutreach/ilslog/pkg/retention"
)

// Properties read from the logging configuration.
const (
	PropDatasource      = "ils.datasource"
	PropCrashBufferSize = "ils.crashBufferSize"
	PropCrashThreshold  = "ils.crashThreshold"
	PropRetention       = "ils.retention"
)

// DefaultCrashThreshold is the lowest level the crash buffer keeps
// when ils.crashThreshold is not configured.
const DefaultCrashThreshold = logevent.Debug

// Turbo filter types understood in <turboFilter type="...">.
const (
	FilterTypePattern = "pattern"
	FilterTypeBypass  = "bypass"
	FilterTypeCrash   = "crash"
)

// LoggerLevel is a <logger name level> element.
type LoggerLevel struct {
	Name  string
	Level logevent.Level
}

// TurboFilter is a <turboFilter> element.
type TurboFilter struct {
	Name   string
	Type   string
	Level  logevent.Level
	Marker logevent.Marker

	// Patterns and Threads are the <pattern> and <thread> children of
	// a pattern filter.
	Patterns []string
	Threads  []string
}

// Logging is a parsed logging configuration.
//
// Parsing is lenient: an element with an unusable value is skipped and
// recorded in Problems, everything else still applies.
type Logging struct {
	Properties map[string]string

	// Root is the root level, nil when <root> is absent or invalid.
	Root *logevent.Level

	Loggers      []LoggerLevel
	TurboFilters []TurboFilter

	Problems []error
}

// Empty returns the configuration used when no logging file could be
// read: no properties, no levels and no filters.
func Empty() *Logging {
	return &Logging{Properties: map[string]string{}}
}

// LoadLogging reads and parses the logging file at path.
func LoadLogging(path string) (*Logging, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	l, err := ParseLogging(data)
	return l, errors.Wrapf(err, "parse %s", path)
}

// ParseLogging parses a logging configuration document. Only malformed
// xml is returned as an error.
func ParseLogging(data []byte) (*Logging, error) {
	doc, err := xmlquery.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	l := Empty()
	for _, n := range xmlquery.Find(doc, "//property") {
		name := strings.TrimSpace(n.SelectAttr("name"))
		if name == "" {
			l.problem(errors.New("property without a name"))
			continue
		}
		l.Properties[name] = strings.TrimSpace(n.SelectAttr("value"))
	}

	if n := xmlquery.FindOne(doc, "//root"); n != nil {
		if lvl, err := logevent.ParseLevel(n.SelectAttr("level")); err != nil {
			l.problem(errors.Wrap(err, "root"))
		} else {
			l.Root = &lvl
		}
	}

	for _, n := range xmlquery.Find(doc, "//logger") {
		name := strings.TrimSpace(n.SelectAttr("name"))
		lvl, err := logevent.ParseLevel(n.SelectAttr("level"))
		if name == "" || err != nil {
			l.problem(errors.Errorf("logger %q: invalid level %q", name, n.SelectAttr("level")))
			continue
		}
		l.Loggers = append(l.Loggers, LoggerLevel{Name: name, Level: lvl})
	}

	for _, n := range xmlquery.Find(doc, "//turboFilter") {
		if tf, err := parseTurboFilter(n); err != nil {
			l.problem(err)
		} else {
			l.TurboFilters = append(l.TurboFilters, tf)
		}
	}
	return l, nil
}

func parseTurboFilter(n *xmlquery.Node) (TurboFilter, error) {
	tf := TurboFilter{
		Name:   strings.TrimSpace(n.SelectAttr("name")),
		Type:   strings.ToLower(strings.TrimSpace(n.SelectAttr("type"))),
		Marker: logevent.Marker(strings.TrimSpace(n.SelectAttr("marker"))),
	}
	if tf.Name == "" {
		tf.Name = tf.Type
	}

	switch tf.Type {
	case FilterTypePattern:
		for _, c := range n.SelectElements("pattern") {
			if s := strings.TrimSpace(c.InnerText()); s != "" {
				tf.Patterns = append(tf.Patterns, s)
			}
		}
		for _, c := range n.SelectElements("thread") {
			if s := strings.TrimSpace(c.InnerText()); s != "" {
				tf.Threads = append(tf.Threads, s)
			}
		}
	case FilterTypeBypass, FilterTypeCrash:
		lvl, err := logevent.ParseLevel(n.SelectAttr("level"))
		if err != nil {
			return tf, errors.Wrapf(err, "turboFilter %s", tf.Name)
		}
		tf.Level = lvl
	default:
		return tf, errors.Errorf("turboFilter %s: unknown type %q", tf.Name, tf.Type)
	}
	return tf, nil
}

func (l *Logging) problem(err error) {
	l.Problems = append(l.Problems, err)
}

// Property returns the named property.
func (l *Logging) Property(name string) (string, bool) {
	v, ok := l.Properties[name]
	return v, ok && v != ""
}

// Datasource returns the ils.datasource property.
func (l *Logging) Datasource() (string, bool) {
	return l.Property(PropDatasource)
}

// CrashBufferSize returns ils.crashBufferSize, or crash.DefaultBufferSize
// when unset. The value is decimal, leading zeros included. An
// unparsable value returns the default and an error.
func (l *Logging) CrashBufferSize() (int, error) {
	v, ok := l.Property(PropCrashBufferSize)
	if !ok {
		return crash.DefaultBufferSize, nil
	}
	n, err := cast.ToIntE(strings.TrimLeft(strings.TrimSpace(v), "0"))
	if err != nil || n < 1 {
		return crash.DefaultBufferSize, errors.Errorf("%s: invalid buffer size %q", PropCrashBufferSize, v)
	}
	return n, nil
}

// CrashThreshold returns ils.crashThreshold, or DefaultCrashThreshold
// when unset or invalid.
func (l *Logging) CrashThreshold() (logevent.Level, error) {
	v, ok := l.Property(PropCrashThreshold)
	if !ok {
		return DefaultCrashThreshold, nil
	}
	lvl, err := logevent.ParseLevel(v)
	if err != nil {
		return DefaultCrashThreshold, errors.Wrap(err, PropCrashThreshold)
	}
	return lvl, nil
}

// Retention returns ils.retention. The second value is false when the
// property is unset or invalid; the error is set in the latter case.
func (l *Logging) Retention() (retention.Policy, bool, error) {
	v, ok := l.Property(PropRetention)
	if !ok {
		return retention.Default, false, nil
	}
	p, err := retention.Parse(v)
	if err != nil {
		return retention.Default, false, errors.Wrap(err, PropRetention)
	}
	return p, true, nil
}
