// Copyright 2026 Outreach Corporation. All Rights Reserved.

// Description: Tests for the scripting functions.

package script_test

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"gotest.tools/v3/assert"

	"github.com/getoutreach/ilslog/pkg/appender"
	"github.com/getoutreach/ilslog/pkg/config"
	"github.com/getoutreach/ilslog/pkg/filter"
	"github.com/getoutreach/ilslog/pkg/hooks"
	"github.com/getoutreach/ilslog/pkg/host"
	"github.com/getoutreach/ilslog/pkg/logctx"
	"github.com/getoutreach/ilslog/pkg/logevent"
	"github.com/getoutreach/ilslog/pkg/olog"
	"github.com/getoutreach/ilslog/pkg/script"
)

func newFunctions(t *testing.T) (*script.Functions, *hooks.Gateway) {
	t.Helper()
	olog.NewTestCapturer(t)

	l, err := config.ParseLogging([]byte(`<configuration>
  <property name="ils.datasource" value="main"/>
</configuration>`))
	assert.NilError(t, err)

	mod := config.DefaultModule()
	mod.Directories = config.Directories{Install: "/opt/ils", Data: "/opt/ils/data", Logs: "/opt/ils/logs"}
	local := host.NewLocal(logctx.New(hooks.ScopeGateway), l, host.WithConsole(&appender.Recorder{}))
	g := hooks.NewGateway(local, mod)
	assert.NilError(t, g.Startup(context.Background()))
	return script.New(g, g), g
}

func TestNames(t *testing.T) {
	fns, _ := newFunctions(t)
	names := fns.Names()
	assert.Equal(t, len(names), 18)
	assert.Equal(t, names[0], "system.ils.addPattern")
}

func TestLevels(t *testing.T) {
	ctx := context.Background()
	fns, g := newFunctions(t)

	_, err := fns.Call(ctx, "system.ils.setLevel", "app.db", "debug")
	assert.NilError(t, err)
	v, err := fns.Call(ctx, "getLevel", "app.db.pool")
	assert.NilError(t, err)
	assert.Equal(t, v, "DEBUG")

	_, err = fns.Call(ctx, "setLocalLevel", "app.ui", 30000)
	assert.NilError(t, err)
	v, err = fns.Call(ctx, "getLocalLevel", "app.ui")
	assert.NilError(t, err)
	assert.Equal(t, v, "WARN")
	assert.Equal(t, g.Controls().EffectiveLevel("app.ui"), logevent.Warn)

	_, err = fns.Call(ctx, "setLevel", "app", "LOUD")
	assert.Assert(t, errors.Is(err, script.ErrArg))
}

func TestCrashSettings(t *testing.T) {
	ctx := context.Background()
	fns, _ := newFunctions(t)

	_, err := fns.Call(ctx, "setCrashBufferSize", "25")
	assert.NilError(t, err)
	v, err := fns.Call(ctx, "getCrashBufferSize")
	assert.NilError(t, err)
	assert.Equal(t, v, 25)

	_, err = fns.Call(ctx, "setCrashThreshold", "error")
	assert.NilError(t, err)
	v, err = fns.Call(ctx, "getCrashThreshold")
	assert.NilError(t, err)
	assert.Equal(t, v, "ERROR")

	_, err = fns.Call(ctx, "setCrashBufferSize", "many")
	assert.Assert(t, errors.Is(err, script.ErrArg))
}

func TestPassCurrentThreadWithoutThread(t *testing.T) {
	fns, _ := newFunctions(t)

	_, err := fns.Call(context.Background(), "passCurrentThread")
	assert.Assert(t, errors.Is(err, filter.ErrNoThread))

	ctx := logevent.WithThread(context.Background(), logevent.Thread{ID: 77})
	v, err := fns.Call(ctx, "passCurrentThread")
	assert.NilError(t, err)
	assert.Equal(t, v, "77")
}

func TestPatterns(t *testing.T) {
	ctx := logevent.WithThread(context.Background(), logevent.Thread{ID: 3, Name: "console"})
	fns, _ := newFunctions(t)

	_, err := fns.Call(ctx, "addPattern", "app.db")
	assert.NilError(t, err)
	_, err = fns.Call(ctx, "addThread", 12)
	assert.NilError(t, err)
	v, err := fns.Call(ctx, "passCurrentThread")
	assert.NilError(t, err)
	assert.Equal(t, v, "console")

	v, err = fns.Call(ctx, "getPatterns")
	assert.NilError(t, err)
	assert.DeepEqual(t, v, map[string][]string{
		"patterns": {"app.db"},
		"threads":  {"12", "console"},
	})

	_, err = fns.Call(ctx, "resetPatterns")
	assert.NilError(t, err)
	v, err = fns.Call(ctx, "getPatterns")
	assert.NilError(t, err)
	assert.DeepEqual(t, v, map[string][]string{"patterns": nil, "threads": nil})
}

func TestConfiguration(t *testing.T) {
	ctx := context.Background()
	fns, _ := newFunctions(t)

	v, err := fns.Call(ctx, "getDatasource")
	assert.NilError(t, err)
	assert.Equal(t, v, "main")

	v, err = fns.Call(ctx, "getDirectories")
	assert.NilError(t, err)
	assert.Equal(t, v.(map[string]string)["logs"], "/opt/ils/logs")

	_, err = fns.Call(ctx, "setRetention", []any{60, "30", 7, 1, 1})
	assert.NilError(t, err)
	v, err = fns.Call(ctx, "getRetention")
	assert.NilError(t, err)
	assert.DeepEqual(t, v, []int{60, 30, 7, 1, 1})

	_, err = fns.Call(ctx, "setRetention", "1,2,3")
	assert.Assert(t, errors.Is(err, script.ErrArg))
}

func TestCallErrors(t *testing.T) {
	ctx := context.Background()
	fns, _ := newFunctions(t)

	_, err := fns.Call(ctx, "system.ils.nope")
	assert.Assert(t, errors.Is(err, script.ErrUnknown))

	_, err = fns.Call(ctx, "getLevel")
	assert.Assert(t, errors.Is(err, script.ErrArity))
}
