// Copyright 2026 Outreach Corporation. All Rights Reserved.

// Description: The system.ils scripting functions.

// Package script exposes the ils operations as loosely typed functions
// for scripting consoles.
//
// Functions live in the system.ils namespace and accept arguments of
// any type that converts to the expected one, e.g. "20" or 20.0 for a
// buffer size:
//
//	fns := script.New(ops, hook)
//	v, err := fns.Call(ctx, "system.ils.getLevel", "app.db")
package script

import (
	"context"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cast"

	"github.com/getoutreach/ilslog/pkg/host"
	"github.com/getoutreach/ilslog/pkg/logevent"
	"github.com/getoutreach/ilslog/pkg/orerr"
	"github.com/getoutreach/ilslog/pkg/retention"
	"github.com/getoutreach/ilslog/pkg/rpc"
	"github.com/getoutreach/ilslog/pkg/statuscodes"
)

// Namespace prefixes every function name.
const Namespace = "system.ils"

// Errors returned by Call.
var (
	ErrArity   = orerr.NewErrorStatus(orerr.SentinelError("wrong number of arguments"), statuscodes.BadRequest)
	ErrUnknown = orerr.NewErrorStatus(orerr.SentinelError("unknown function"), statuscodes.NotFound)
	ErrArg     = orerr.NewErrorStatus(orerr.SentinelError("invalid argument"), statuscodes.BadRequest)
)

// Local is the scope the functions run in. Local levels and the
// current thread are always resolved in it, everything else goes
// through the gateway operations.
type Local interface {
	Controls() host.Controls
	PassCurrentThread(ctx context.Context) (logevent.Thread, error)
}

// Func is one scripting function.
type Func struct {
	// Name is the short name, without the namespace.
	Name string
	// Params names the arguments, in order.
	Params []string
	// Doc is a one line description.
	Doc string

	call func(ctx context.Context, args []any) (any, error)
}

// Functions is the system.ils namespace bound to a scope.
type Functions struct {
	ops   rpc.Operations
	local Local
	funcs map[string]*Func
}

// New returns the functions running operations against ops and local
// lookups against local.
func New(ops rpc.Operations, local Local) *Functions {
	f := &Functions{ops: ops, local: local, funcs: make(map[string]*Func)}
	f.register()
	return f
}

func (f *Functions) add(name, doc string, params []string, call func(ctx context.Context, args []any) (any, error)) {
	f.funcs[name] = &Func{Name: name, Params: params, Doc: doc, call: call}
}

// Funcs returns every function, sorted by name.
func (f *Functions) Funcs() []*Func {
	out := make([]*Func, 0, len(f.funcs))
	for _, fn := range f.funcs {
		out = append(out, fn)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Names returns the fully qualified function names, sorted.
func (f *Functions) Names() []string {
	fns := f.Funcs()
	out := make([]string, len(fns))
	for i, fn := range fns {
		out[i] = Namespace + "." + fn.Name
	}
	return out
}

// Call runs the named function. name is either fully qualified or the
// short name.
func (f *Functions) Call(ctx context.Context, name string, args ...any) (any, error) {
	short := strings.TrimPrefix(name, Namespace+".")
	fn, ok := f.funcs[short]
	if !ok {
		return nil, errors.Wrap(ErrUnknown, name)
	}
	if len(args) != len(fn.Params) {
		return nil, errors.Wrapf(ErrArity, "%s takes %d, got %d", short, len(fn.Params), len(args))
	}
	return fn.call(ctx, args)
}

func (f *Functions) register() {
	f.add("getLoggers", "names of every known logger", nil,
		func(ctx context.Context, _ []any) (any, error) {
			return f.ops.LoggerNames(ctx)
		})
	f.add("getLevel", "effective level of a gateway logger", []string{"logger"},
		func(ctx context.Context, args []any) (any, error) {
			l, err := f.ops.Level(ctx, cast.ToString(args[0]))
			return levelResult(l, err)
		})
	f.add("setLevel", "set the level of a gateway logger", []string{"logger", "level"},
		func(ctx context.Context, args []any) (any, error) {
			l, err := toLevel(args[1])
			if err != nil {
				return nil, err
			}
			return nil, f.ops.SetLevel(ctx, cast.ToString(args[0]), l)
		})
	f.add("getLocalLevel", "effective level of a logger in this scope", []string{"logger"},
		func(_ context.Context, args []any) (any, error) {
			return f.local.Controls().EffectiveLevel(cast.ToString(args[0])).String(), nil
		})
	f.add("setLocalLevel", "set the level of a logger in this scope", []string{"logger", "level"},
		func(_ context.Context, args []any) (any, error) {
			l, err := toLevel(args[1])
			if err != nil {
				return nil, err
			}
			f.local.Controls().SetLevel(cast.ToString(args[0]), l)
			return nil, nil
		})
	f.add("getCrashBufferSize", "capacity of the crash buffer", nil,
		func(ctx context.Context, _ []any) (any, error) {
			return f.ops.CrashBufferSize(ctx)
		})
	f.add("setCrashBufferSize", "resize the crash buffer, discarding its events", []string{"size"},
		func(ctx context.Context, args []any) (any, error) {
			n, err := cast.ToIntE(args[0])
			if err != nil {
				return nil, errors.Wrapf(ErrArg, "size: %v", err)
			}
			return nil, f.ops.SetCrashBufferSize(ctx, n)
		})
	f.add("getCrashThreshold", "lowest level kept by the crash buffer", nil,
		func(ctx context.Context, _ []any) (any, error) {
			return levelResult(f.ops.CrashThreshold(ctx))
		})
	f.add("setCrashThreshold", "set the lowest level kept by the crash buffer", []string{"level"},
		func(ctx context.Context, args []any) (any, error) {
			l, err := toLevel(args[0])
			if err != nil {
				return nil, err
			}
			return nil, f.ops.SetCrashThreshold(ctx, l)
		})
	f.add("addPattern", "let loggers containing pattern bypass their level", []string{"pattern"},
		func(ctx context.Context, args []any) (any, error) {
			return nil, f.ops.AddPattern(ctx, cast.ToString(args[0]))
		})
	f.add("addThread", "let a thread, by name or id, bypass logger levels", []string{"thread"},
		func(ctx context.Context, args []any) (any, error) {
			return nil, f.ops.AddThread(ctx, cast.ToString(args[0]))
		})
	f.add("passCurrentThread", "let the calling thread bypass logger levels in this scope", nil,
		func(ctx context.Context, _ []any) (any, error) {
			t, err := f.local.PassCurrentThread(ctx)
			if err != nil {
				return nil, err
			}
			return t.Key(), nil
		})
	f.add("resetPatterns", "remove every pattern and thread", nil,
		func(ctx context.Context, _ []any) (any, error) {
			return nil, f.ops.ResetPatterns(ctx)
		})
	f.add("getPatterns", "registered patterns and threads", nil,
		func(ctx context.Context, _ []any) (any, error) {
			p, err := f.ops.Patterns(ctx)
			if err != nil {
				return nil, err
			}
			return map[string][]string{"patterns": p.Patterns, "threads": p.Threads}, nil
		})
	f.add("getDatasource", "datasource of the log table", nil,
		func(ctx context.Context, _ []any) (any, error) {
			return f.ops.Datasource(ctx)
		})
	f.add("getDirectories", "installation directories of the gateway", nil,
		func(ctx context.Context, _ []any) (any, error) {
			d, err := f.ops.Directories(ctx)
			if err != nil {
				return nil, err
			}
			return map[string]string{"install": d.Install, "data": d.Data, "logs": d.Logs}, nil
		})
	f.add("getRetention", "retention days for ERROR, WARN, INFO, DEBUG and TRACE", nil,
		func(ctx context.Context, _ []any) (any, error) {
			p, err := f.ops.Retention(ctx)
			if err != nil {
				return nil, err
			}
			return p[:], nil
		})
	f.add("setRetention", "set the retention days per level", []string{"days"},
		func(ctx context.Context, args []any) (any, error) {
			p, err := toPolicy(args[0])
			if err != nil {
				return nil, err
			}
			return nil, f.ops.SetRetention(ctx, p)
		})
}

func levelResult(l logevent.Level, err error) (any, error) {
	if err != nil {
		return nil, err
	}
	return l.String(), nil
}

// toLevel accepts a level name or a persisted level integer.
func toLevel(v any) (logevent.Level, error) {
	if s, ok := v.(string); ok {
		l, err := logevent.ParseLevel(s)
		if err != nil {
			return 0, errors.Wrapf(ErrArg, "level %q", s)
		}
		return l, nil
	}
	i, err := cast.ToIntE(v)
	if err != nil {
		return 0, errors.Wrapf(ErrArg, "level %v", v)
	}
	for _, l := range logevent.Levels {
		if l.Int() == i {
			return l, nil
		}
	}
	return 0, errors.Wrapf(ErrArg, "level %d", i)
}

// toPolicy accepts "30,14,7,1,1" or a list of five day counts.
func toPolicy(v any) (retention.Policy, error) {
	if s, ok := v.(string); ok {
		p, err := retention.Parse(s)
		if err != nil {
			return p, errors.Wrapf(ErrArg, "retention: %v", err)
		}
		return p, nil
	}

	var p retention.Policy
	days, err := cast.ToIntSliceE(v)
	if err != nil || len(days) != len(p) {
		return p, errors.Wrapf(ErrArg, "retention %v", v)
	}
	copy(p[:], days)
	if err := p.Validate(); err != nil {
		return p, errors.Wrapf(ErrArg, "retention: %v", err)
	}
	return p, nil
}
