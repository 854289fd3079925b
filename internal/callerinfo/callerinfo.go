// Copyright 2026 Outreach Corporation. All Rights Reserved.

// Description: Resolves the first stack frame that does not belong to
// the logging subsystem.

// Package callerinfo walks the call stack to find the code that
// actually emitted a log event, skipping frames that belong to logging
// packages (slog, logrus, logr and the ils dispatch path).
package callerinfo

import (
	"runtime"
	"runtime/debug"
	"strings"
	"sync"
)

// maxDepth bounds the stack walk. Deeper call chains report an empty
// frame rather than paying for an unbounded walk on every log call.
const maxDepth = 32

// Frame describes a single resolved stack frame.
type Frame struct {
	// Module is the go module that contains Package, empty when build
	// information is unavailable.
	Module string

	// Package is the import path of the function's package.
	Package string

	// Function is the fully qualified function name.
	Function string

	// File is the absolute path of the source file.
	File string

	// Line is the line number within File.
	Line int
}

// IsZero reports whether no frame was resolved.
func (f Frame) IsZero() bool {
	return f.Function == ""
}

// ShortFunction returns the function name without its package path,
// e.g. "dbsink.(*Appender).Write".
func (f Frame) ShortFunction() string {
	name := f.Function
	if i := strings.LastIndex(name, "/"); i != -1 {
		name = name[i+1:]
	}
	return name
}

// nolint:gochecknoglobals // Why: process wide caches.
var (
	// frameByPC caches the resolved frame for a program counter.
	frameByPC sync.Map

	skipMu sync.RWMutex
	// skipPrefixes are the package prefixes treated as part of the
	// logging subsystem.
	skipPrefixes = []string{
		"runtime",
		"log/slog",
		"github.com/sirupsen/logrus",
		"github.com/go-logr/logr",
		"github.com/getoutreach/ilslog/internal/callerinfo",
		"github.com/getoutreach/ilslog/pkg/logevent",
		"github.com/getoutreach/ilslog/pkg/logctx",
		"github.com/getoutreach/ilslog/pkg/adapters",
	}

	modulesOnce sync.Once
	modules     []string
)

// RegisterSkip marks additional package prefixes as belonging to the
// logging subsystem. Wrappers around the logctx handlers should register
// themselves so that their frames are not reported as the caller.
func RegisterSkip(prefixes ...string) {
	skipMu.Lock()
	defer skipMu.Unlock()
	skipPrefixes = append(skipPrefixes, prefixes...)
}

func skipped(pkg string) bool {
	skipMu.RLock()
	defer skipMu.RUnlock()

	for _, p := range skipPrefixes {
		if pkg == p || strings.HasPrefix(pkg, p+"/") {
			return true
		}
	}
	return false
}

// FirstOutside returns the first frame above the caller of FirstOutside
// whose package is not part of the logging subsystem. skip has the same
// meaning as for runtime.Callers relative to the caller: 0 starts at the
// caller of FirstOutside.
func FirstOutside(skip int) Frame {
	pcs := make([]uintptr, maxDepth)
	// 1: runtime.Callers
	// 2: FirstOutside
	n := runtime.Callers(2+skip, pcs)
	for _, pc := range pcs[:n] {
		f := ForPC(pc)
		if f.IsZero() || skipped(f.Package) {
			continue
		}
		return f
	}
	return Frame{}
}

// ForPC resolves the frame for a single return program counter, as
// recorded by runtime.Callers or slog.Record.PC.
func ForPC(pc uintptr) Frame {
	if pc == 0 {
		return Frame{}
	}
	if f, ok := frameByPC.Load(pc); ok {
		return f.(Frame)
	}

	frames := runtime.CallersFrames([]uintptr{pc})
	rf, _ := frames.Next()
	pkg := parsePackageName(rf.Function)
	f := Frame{
		Module:   moduleFor(pkg),
		Package:  pkg,
		Function: rf.Function,
		File:     rf.File,
		Line:     rf.Line,
	}

	frameByPC.Store(pc, f)
	return f
}

// FromPC behaves like FirstOutside but starts from an already captured
// program counter. If that frame belongs to the logging subsystem the
// current stack is walked instead.
func FromPC(pc uintptr) Frame {
	if f := ForPC(pc); !f.IsZero() && !skipped(f.Package) {
		return f
	}
	return FirstOutside(1)
}

// parsePackageName extracts the package path out of a fully qualified
// function name such as "github.com/x/y/pkg.(*T).Method".
func parsePackageName(funcName string) string {
	slash := strings.LastIndex(funcName, "/")
	if slash < 0 {
		slash = 0
	}
	if dot := strings.Index(funcName[slash:], "."); dot >= 0 {
		return funcName[:slash+dot]
	}
	return funcName
}

// moduleFor returns the longest known module path that prefixes pkg.
func moduleFor(pkg string) string {
	modulesOnce.Do(loadModules)

	best := ""
	for _, m := range modules {
		if (pkg == m || strings.HasPrefix(pkg, m+"/")) && len(m) > len(best) {
			best = m
		}
	}
	return best
}

func loadModules() {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	if bi.Main.Path != "" {
		modules = append(modules, bi.Main.Path)
	}
	for _, dep := range bi.Deps {
		modules = append(modules, dep.Path)
	}
}
