// Copyright 2026 Outreach Corporation. All Rights Reserved.

// Description: Per severity retention of persisted log rows.

// Package retention computes how long a persisted log row is kept.
package retention

import (
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/getoutreach/ilslog/pkg/logevent"
)

// Day is the retention unit.
const Day = 86_400_000 * time.Millisecond

// ErrInvalid is returned for policies that cannot be parsed or contain
// negative days.
var ErrInvalid = errors.New("invalid retention policy")

// Policy holds the retention in days for ERROR, WARN, INFO, DEBUG and
// TRACE, in that order.
type Policy [5]int

// Default is the policy used when none is configured.
//
//nolint:gochecknoglobals // Why: read only default.
var Default = Policy{30, 14, 7, 1, 1}

func index(l logevent.Level) int {
	for i, k := range logevent.Levels {
		if k == l {
			return i
		}
	}
	return -1
}

// Days returns the retention for l. ok is false for levels that are not
// one of the five severities.
func (p Policy) Days(l logevent.Level) (days int, ok bool) {
	i := index(l)
	if i < 0 {
		return 0, false
	}
	return p[i], true
}

// With returns a copy of p with the retention for l replaced.
func (p Policy) With(l logevent.Level, days int) Policy {
	if i := index(l); i >= 0 {
		p[i] = days
	}
	return p
}

// RetainUntil returns the time a row logged at t with level l may be
// purged. Levels outside the five severities get no extension and t is
// returned unchanged.
func (p Policy) RetainUntil(t time.Time, l logevent.Level) time.Time {
	days, ok := p.Days(l)
	if !ok {
		return t
	}
	return t.Add(time.Duration(days) * Day)
}

// Validate returns an error when any entry is negative.
func (p Policy) Validate() error {
	for i, d := range p {
		if d < 0 {
			return errors.Wrapf(ErrInvalid, "%s retention is negative (%d)", logevent.Levels[i], d)
		}
	}
	return nil
}

// String formats p as comma separated days, e.g. "30,14,7,1,1".
func (p Policy) String() string {
	parts := make([]string, len(p))
	for i, d := range p {
		parts[i] = strconv.Itoa(d)
	}
	return strings.Join(parts, ",")
}

// Parse parses the String form of a policy.
func Parse(s string) (Policy, error) {
	var p Policy
	parts := strings.Split(s, ",")
	if len(parts) != len(p) {
		return p, errors.Wrapf(ErrInvalid, "expected %d values, got %q", len(p), s)
	}
	for i, raw := range parts {
		d, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return p, errors.Wrapf(ErrInvalid, "%s: %v", logevent.Levels[i], err)
		}
		p[i] = d
	}
	return p, p.Validate()
}

// MarshalText implements encoding.TextMarshaler.
func (p Policy) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Policy) UnmarshalText(b []byte) error {
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
