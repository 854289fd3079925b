// Copyright 2026 Outreach Corporation. All Rights Reserved.

// Description: Provides helpers for interacting with the logger in
// tests.

package olog

import (
	"fmt"
	"log/slog"
	"sync"
	"testing"

	jsoniter "github.com/json-iterator/go"
)

// TestLogLine is a log line that was captured by a test capturer.
type TestLogLine struct {
	// Level is the log level of the log.
	Level slog.Level

	// Message is the message that was logged.
	Message string

	// Attrs is a map of attributes that were logged. This does not
	// include the time or source attributes since they are generally not
	// stable across runs.
	Attrs map[string]any
}

// TestLogCapturer parses the output of the JSON handler and stores it.
type TestLogCapturer struct {
	logsMu sync.Mutex
	logs   []TestLogLine
}

// GetLogs returns every log line captured so far and drains them.
func (t *TestLogCapturer) GetLogs() []TestLogLine {
	t.logsMu.Lock()
	defer t.logsMu.Unlock()

	out := make([]TestLogLine, len(t.logs))
	copy(out, t.logs)
	t.logs = make([]TestLogLine, 0)

	return out
}

// Messages returns the messages of the captured lines and drains them.
func (t *TestLogCapturer) Messages() []string {
	logs := t.GetLogs()
	out := make([]string, len(logs))
	for i := range logs {
		out[i] = logs[i].Message
	}
	return out
}

// Write implements io.Writer and parses the provided log line as a
// TestLogLine.
func (t *TestLogCapturer) Write(p []byte) (n int, err error) {
	var out map[string]any
	if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(p, &out); err != nil {
		return 0, err
	}

	ll := TestLogLine{Attrs: make(map[string]any)}
	for k, v := range out {
		switch k {
		case "level":
			s, _ := v.(string) //nolint:errcheck // Why: parsed below
			if err := ll.Level.UnmarshalText([]byte(s)); err != nil {
				return 0, fmt.Errorf("failed to parse log level: %w", err)
			}
		case "msg":
			ll.Message, _ = v.(string) //nolint:errcheck // Why: empty message is fine
		case "time", "source": // Ignored fields.
		default:
			ll.Attrs[k] = v
		}
	}

	t.logsMu.Lock()
	t.logs = append(t.logs, ll)
	t.logsMu.Unlock()

	return len(p), nil
}

// NewTestCapturer redirects every logger of this package to a capturer
// using the JSON handler until the test finishes.
//
// Note (parallel tests): This will not work with parallel tests due to
// the usage of globals in this package.
func NewTestCapturer(t testing.TB) *TestLogCapturer {
	tc := &TestLogCapturer{logs: make([]TestLogLine, 0)}

	origOut := output()
	origHandler := DefaultHandlerType(defaultHandler.Load())
	SetOutput(tc)
	SetDefaultHandler(JSONHandler)

	t.Cleanup(func() {
		SetOutput(origOut)
		SetDefaultHandler(origHandler)
	})

	return tc
}
