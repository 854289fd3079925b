// Copyright 2026 Outreach Corporation. All Rights Reserved.

// Description: Tests for the cfg package.

package cfg_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"gotest.tools/v3/assert"

	"github.com/getoutreach/ilslog/pkg/cfg"
)

type sample struct {
	Table string `yaml:"table"`
	Size  int    `yaml:"size"`
}

func TestLoadFromDir(t *testing.T) {
	dir := t.TempDir()
	assert.NilError(t, os.WriteFile(filepath.Join(dir, "ils.yaml"), []byte("table: logs\nsize: 5\n"), 0o600))
	t.Setenv(cfg.EnvConfigDir, dir)

	var s sample
	assert.NilError(t, cfg.Load("ils.yaml", &s))
	assert.Equal(t, s, sample{Table: "logs", Size: 5})
	assert.Equal(t, cfg.Dir(), dir)
}

func TestSetDefaultReader(t *testing.T) {
	orig := cfg.DefaultReader()
	defer cfg.SetDefaultReader(orig)

	cfg.SetDefaultReader(func(string) ([]byte, error) {
		return []byte("table: from-reader"), nil
	})

	var s sample
	assert.NilError(t, cfg.Load("anything.yaml", &s))
	assert.Equal(t, s.Table, "from-reader")
}

func TestLoadErrors(t *testing.T) {
	r := cfg.DirReader(t.TempDir())

	var s sample
	assert.ErrorContains(t, r.Load("missing.yaml", &s), "read missing.yaml")

	bad := cfg.Reader(func(string) ([]byte, error) { return []byte("size: [oops"), nil })
	assert.ErrorContains(t, bad.Load("bad.yaml", &s), "parse bad.yaml")
}

func TestEnvString(t *testing.T) {
	t.Setenv("ILS_TEST_VALUE", "hello")
	v, err := cfg.EnvString("ILS_TEST_VALUE")
	assert.NilError(t, err)
	assert.Equal(t, v, "hello")

	_, err = cfg.EnvString("ILS_TEST_UNSET_VALUE")
	assert.ErrorContains(t, err, "not set")
}

func TestEnvSecret(t *testing.T) {
	t.Setenv("ILS_TEST_DSN", "postgres://user:pw@host/db")
	v, err := cfg.EnvSecret("ILS_TEST_DSN")
	assert.NilError(t, err)
	assert.Equal(t, fmt.Sprint(v), "redacted")
	assert.Equal(t, string(v), "postgres://user:pw@host/db")

	t.Setenv("ILS_TEST_DSN", "")
	_, err = cfg.EnvSecret("ILS_TEST_DSN")
	assert.ErrorContains(t, err, "is empty")
}

func TestSecret(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dsn")
	assert.NilError(t, os.WriteFile(path, []byte("postgres://user:pw@host/db\n"), 0o600))

	data, err := cfg.Secret{Path: path}.Data(context.Background())
	assert.NilError(t, err)
	assert.Equal(t, string(data), "postgres://user:pw@host/db")
	assert.Equal(t, fmt.Sprintf("%v", data), "redacted")

	_, err = cfg.Secret{}.Data(context.Background())
	assert.ErrorContains(t, err, "no path")
}
