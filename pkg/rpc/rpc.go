// Copyright 2026 Outreach Corporation. All Rights Reserved.

// Description: The operations the gateway exposes to remote scopes.

// Package rpc exposes gateway logging operations over http.
//
// Every operation is a POST to /rpc/{method} with a JSON Params body.
// Successful calls answer {"result": ...}; failures answer
// {"error": "...", "code": "..."} with the http status derived from the
// error's status code.
package rpc

import (
	"context"

	"github.com/getoutreach/ilslog/pkg/config"
	"github.com/getoutreach/ilslog/pkg/dbsink"
	"github.com/getoutreach/ilslog/pkg/logevent"
	"github.com/getoutreach/ilslog/pkg/retention"
)

// Operations are the gateway operations available to remote scopes and
// to the scripting surface.
type Operations interface {
	LoggerNames(ctx context.Context) ([]string, error)
	// Level returns the effective level of a logger.
	Level(ctx context.Context, logger string) (logevent.Level, error)
	SetLevel(ctx context.Context, logger string, l logevent.Level) error

	CrashBufferSize(ctx context.Context) (int, error)
	SetCrashBufferSize(ctx context.Context, n int) error
	CrashThreshold(ctx context.Context) (logevent.Level, error)
	SetCrashThreshold(ctx context.Context, l logevent.Level) error

	AddPattern(ctx context.Context, pattern string) error
	AddThread(ctx context.Context, thread string) error
	ResetPatterns(ctx context.Context) error
	Patterns(ctx context.Context) (Patterns, error)

	Datasource(ctx context.Context) (string, error)
	Directories(ctx context.Context) (config.Directories, error)
	Retention(ctx context.Context) (retention.Policy, error)
	SetRetention(ctx context.Context, p retention.Policy) error

	// WriteRows stores rows formatted by a remote scope.
	WriteRows(ctx context.Context, rows []dbsink.Row) error
}

// Patterns is the state of the pattern filter.
type Patterns struct {
	Patterns []string `json:"patterns"`
	Threads  []string `json:"threads"`
}

// Method names, the last path segment of /rpc/{method}.
const (
	MethodLoggerNames        = "loggerNames"
	MethodLevel              = "level"
	MethodSetLevel           = "setLevel"
	MethodCrashBufferSize    = "crashBufferSize"
	MethodSetCrashBufferSize = "setCrashBufferSize"
	MethodCrashThreshold     = "crashThreshold"
	MethodSetCrashThreshold  = "setCrashThreshold"
	MethodAddPattern         = "addPattern"
	MethodAddThread          = "addThread"
	MethodResetPatterns      = "resetPatterns"
	MethodPatterns           = "patterns"
	MethodDatasource         = "datasource"
	MethodDirectories        = "directories"
	MethodRetention          = "retention"
	MethodSetRetention       = "setRetention"
	MethodWriteRows          = "writeRows"
)

// Params is the request body of every method. Each method reads the
// fields it needs.
type Params struct {
	Logger    string            `json:"logger,omitempty"`
	Level     *logevent.Level   `json:"level,omitempty"`
	Size      int               `json:"size,omitempty"`
	Pattern   string            `json:"pattern,omitempty"`
	Thread    string            `json:"thread,omitempty"`
	Retention *retention.Policy `json:"retention,omitempty"`
	Rows      []dbsink.Row      `json:"rows,omitempty"`
}

type response struct {
	Result any    `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
	Code   string `json:"code,omitempty"`
}
