package callerinfo

import (
	"runtime"
	"strings"
	"testing"

	"gotest.tools/v3/assert"
)

func TestParsePackageName(t *testing.T) {
	assert.Equal(t,
		parsePackageName("github.com/getoutreach/ilslog/pkg/dbsink.(*Appender).Write"),
		"github.com/getoutreach/ilslog/pkg/dbsink")
	assert.Equal(t,
		parsePackageName("github.com/getoutreach/ilslog/internal/callerinfo.TestParsePackageName"),
		"github.com/getoutreach/ilslog/internal/callerinfo")
	assert.Equal(t, parsePackageName("log/slog.(*Logger).log"), "log/slog")
	assert.Equal(t, parsePackageName("main.main"), "main")
}

func TestFirstOutsideSkipsRegisteredPackages(t *testing.T) {
	// the test package itself is part of callerinfo, which is skipped,
	// so the first frame outside is the testing framework.
	f := FirstOutside(0)
	assert.Equal(t, f.Package, "testing")
}

func TestForPC(t *testing.T) {
	pcs := make([]uintptr, 1)
	// 1: runtime.Callers
	n := runtime.Callers(1, pcs)
	assert.Equal(t, n, 1)

	f := ForPC(pcs[0])
	assert.Equal(t, f.Function, "github.com/getoutreach/ilslog/internal/callerinfo.TestForPC")
	assert.Equal(t, f.Package, "github.com/getoutreach/ilslog/internal/callerinfo")
	assert.Check(t, strings.HasSuffix(f.File, "callerinfo_test.go"))
	assert.Check(t, f.Line > 0)

	// second lookup is served from the cache
	cached, ok := frameByPC.Load(pcs[0])
	assert.Assert(t, ok)
	assert.Equal(t, cached.(Frame), f)

	assert.Equal(t, ForPC(0), Frame{})
}

func TestRegisterSkip(t *testing.T) {
	assert.Check(t, !skipped("github.com/example/wrapper"))
	RegisterSkip("github.com/example/wrapper")
	assert.Check(t, skipped("github.com/example/wrapper"))
	assert.Check(t, skipped("github.com/example/wrapper/sub"))
	assert.Check(t, !skipped("github.com/example/wrapperother"))
}

func TestShortFunction(t *testing.T) {
	f := Frame{Function: "github.com/getoutreach/ilslog/pkg/dbsink.(*Appender).Write"}
	assert.Equal(t, f.ShortFunction(), "dbsink.(*Appender).Write")
	assert.Check(t, strings.HasPrefix(Frame{Function: "main.main"}.ShortFunction(), "main"))
}
