// Copyright 2026 Outreach Corporation. All Rights Reserved.

// Description: Static information about the running binary.

// Package app has the static app info
package app

import (
	"log/slog"
	"os"
	"runtime/debug"
)

// Version needs to be set at build time using -ldflags "-X github.com/getoutreach/ilslog/pkg/app.Version=something"
// nolint:gochecknoglobals
var Version = "dev"

// nolint:gochecknoglobals
var appName = "ils"

// Info returns the static app info. It is logged once at startup and
// reported by the version command.
func Info() *Data {
	mainModule := ""
	if buildInfo, ok := debug.ReadBuildInfo(); ok {
		mainModule = buildInfo.Main.Path
	}

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}

	return &Data{
		Name:       appName,
		Version:    Version,
		MainModule: mainModule,
		Hostname:   hostname,
		PID:        os.Getpid(),
	}
}

// SetName sets the app name
//
// Should only be called from tests and app initialization
func SetName(name string) {
	appName = name
}

// Data provides the global app info
type Data struct {
	Name    string
	Version string

	MainModule string

	Hostname string
	PID      int
}

// LogValue implements slog.LogValuer.
func (d *Data) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("name", d.Name),
		slog.String("version", d.Version),
	}
	if d.MainModule != "" {
		attrs = append(attrs, slog.String("module", d.MainModule))
	}
	attrs = append(attrs, slog.String("host", d.Hostname), slog.Int("pid", d.PID))
	return slog.GroupValue(attrs...)
}
