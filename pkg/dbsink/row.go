// Copyright 2026 Outreach Corporation. All Rights Reserved.

// Description: Formats events into the fixed log table row.

package dbsink

import (
	"os"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/getoutreach/ilslog/pkg/logevent"
	"github.com/getoutreach/ilslog/pkg/retention"
)

// Column widths, in characters.
const (
	WidthProject    = 25
	WidthScope      = 10
	WidthClientID   = 12
	WidthThreadName = 50
	WidthModule     = 250
	WidthLogger     = 100
	WidthLevelName  = 10
	WidthMessage    = 8000
	WidthFunction   = 100
	WidthLine       = 10
)

// Columns are the inserted columns, in order. The id column is
// generated by the database.
//
//nolint:gochecknoglobals // Why: fixed table layout.
var Columns = []string{
	"process_id",
	"thread",
	"project",
	"scope",
	"client_id",
	"thread_name",
	"module",
	"logger_name",
	"timestamp",
	"log_level",
	"log_level_name",
	"log_message",
	"function_name",
	"line_number",
	"retain_until",
}

// Row is one log table row.
type Row struct {
	ProcessID   int       `json:"processId"`
	Thread      int64     `json:"thread"`
	Project     string    `json:"project"`
	Scope       string    `json:"scope"`
	ClientID    string    `json:"clientId"`
	ThreadName  string    `json:"threadName"`
	Module      string    `json:"module"`
	Logger      string    `json:"logger"`
	Timestamp   time.Time `json:"timestamp"`
	Level       int       `json:"level"`
	LevelName   string    `json:"levelName"`
	Message     string    `json:"message"`
	Function    string    `json:"function"`
	Line        string    `json:"line"`
	RetainUntil time.Time `json:"retainUntil"`
}

// Args returns the row values in Columns order.
func (r *Row) Args() []any {
	return []any{
		r.ProcessID,
		r.Thread,
		r.Project,
		r.Scope,
		r.ClientID,
		r.ThreadName,
		r.Module,
		r.Logger,
		r.Timestamp,
		r.Level,
		r.LevelName,
		r.Message,
		r.Function,
		r.Line,
		r.RetainUntil,
	}
}

// FormatOptions are the per scope values of a formatted row.
type FormatOptions struct {
	Scope     string
	ClientID  string
	ProcessID int
	Retention retention.Policy
}

// levelFromInt maps a persisted level back to its Level.
func levelFromInt(i int) (logevent.Level, bool) {
	for _, l := range logevent.Levels {
		if l.Int() == i {
			return l, true
		}
	}
	return 0, false
}

// Format converts ev into a row. project, client, module, function and
// line come from the event MDC, then from logevent.Global, and for
// module, function and line finally from the event's caller frame.
// Every string is cut to its column width.
func Format(ev *logevent.Event, opts *FormatOptions) Row {
	prop := func(key string) string {
		v, _ := ev.Property(key) //nolint:errcheck // Why: missing is empty
		return v
	}

	module, function, line := prop(logevent.KeyModule), prop(logevent.KeyFunction), prop(logevent.KeyLine)
	if !ev.Caller.IsZero() {
		if module == "" {
			module = ev.Caller.Package
		}
		if function == "" {
			function = ev.Caller.ShortFunction()
		}
		if line == "" && ev.Caller.Line > 0 {
			line = strconv.Itoa(ev.Caller.Line)
		}
	}

	clientID := prop(logevent.KeyClient)
	if clientID == "" {
		clientID = opts.ClientID
	}

	pid := opts.ProcessID
	if pid == 0 {
		pid = os.Getpid()
	}

	msg := ev.Message
	if ev.Err != nil {
		msg += ": " + ev.Err.Error()
	}

	ts := ev.Time.UTC()
	return Row{
		ProcessID:   pid,
		Thread:      ev.Thread.ID,
		Project:     Truncate(prop(logevent.KeyProject), WidthProject),
		Scope:       Truncate(opts.Scope, WidthScope),
		ClientID:    Truncate(clientID, WidthClientID),
		ThreadName:  Truncate(ev.Thread.Name, WidthThreadName),
		Module:      Truncate(module, WidthModule),
		Logger:      Truncate(ev.Logger, WidthLogger),
		Timestamp:   ts,
		Level:       ev.Level.Int(),
		LevelName:   Truncate(ev.Level.String(), WidthLevelName),
		Message:     Truncate(msg, WidthMessage),
		Function:    Truncate(function, WidthFunction),
		Line:        Truncate(line, WidthLine),
		RetainUntil: opts.Retention.RetainUntil(ts, ev.Level),
	}
}

// Truncate returns the first n characters of s.
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

// truncateRow cuts every string of a row formatted elsewhere to its
// column width.
func truncateRow(r *Row) {
	r.Project = Truncate(r.Project, WidthProject)
	r.Scope = Truncate(r.Scope, WidthScope)
	r.ClientID = Truncate(r.ClientID, WidthClientID)
	r.ThreadName = Truncate(r.ThreadName, WidthThreadName)
	r.Module = Truncate(r.Module, WidthModule)
	r.Logger = Truncate(r.Logger, WidthLogger)
	r.LevelName = Truncate(r.LevelName, WidthLevelName)
	r.Message = Truncate(r.Message, WidthMessage)
	r.Function = Truncate(r.Function, WidthFunction)
	r.Line = Truncate(r.Line, WidthLine)
}
