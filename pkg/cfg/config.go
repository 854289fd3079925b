// Copyright 2026 Outreach Corporation. All Rights Reserved.

// Description: Loads yaml configuration files.

// Package cfg loads strongly typed configuration from yaml files.
//
// Every package that needs config defines a struct for it and loads it
// through a Reader:
//
//	var c ModuleConfig
//	if err := cfg.Load("ils.yaml", &c); err != nil {
//	    return err
//	}
//
// The default reader looks for files in the directory named by the
// ILS_CONFIG_DIR environment variable, or DefaultDir when it is unset.
// Tests and other callers override it with SetDefaultReader.
package cfg

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// EnvConfigDir names the environment variable overriding DefaultDir.
const EnvConfigDir = "ILS_CONFIG_DIR"

// DefaultDir is the directory configuration is read from by default.
const DefaultDir = "/etc/ils"

// Dir returns the directory the default reader reads from.
func Dir() string {
	if dir, err := EnvString(EnvConfigDir); err == nil && dir != "" {
		return dir
	}
	if runtime.GOOS == "windows" {
		return "C:" + filepath.FromSlash(DefaultDir)
	}
	return DefaultDir
}

// nolint:gochecknoglobals
var defaultReader = Reader(func(fileName string) ([]byte, error) {
	return DirReader(Dir())(fileName)
})

// Reader reads the config from the provided file
type Reader func(fileName string) ([]byte, error)

// DirReader returns a reader for files in dir. Absolute file names are
// read as is.
func DirReader(dir string) Reader {
	return func(fileName string) ([]byte, error) {
		if !filepath.IsAbs(fileName) {
			fileName = filepath.Join(dir, fileName)
		}
		return os.ReadFile(fileName)
	}
}

// Load reads fileName and parses it as yaml into ptr.
func (r Reader) Load(fileName string, ptr interface{}) error {
	data, err := r(fileName)
	if err != nil {
		return errors.Wrapf(err, "read %s", fileName)
	}

	return errors.Wrapf(yaml.Unmarshal(data, ptr), "parse %s", fileName)
}

// Load uses the default config reader to load config
func Load(fileName string, ptr interface{}) error {
	return defaultReader.Load(fileName, ptr)
}

// SetDefaultReader sets the default reader.  Only meant for tests and
// dev environment overrides
func SetDefaultReader(f Reader) {
	defaultReader = f
}

// DefaultReader returns the current default reader. Only meant for
// tests and dev environment overrides
func DefaultReader() Reader {
	return defaultReader
}
