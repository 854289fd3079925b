// Copyright 2026 Outreach Corporation. All Rights Reserved.

// Description: Implements level configuration for the console loggers.

package olog

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/getoutreach/ilslog/pkg/logevent"
)

// LevelConfig overrides the level of the console loggers of one module
// or package.
type LevelConfig struct {
	// Address is a module or package path.
	Address string `yaml:"address"`
	// Level is one of TRACE, DEBUG, INFO, WARN, ERROR or OFF.
	Level string `yaml:"level"`
}

// Config is the console logging section of a configuration file.
type Config struct {
	// Level is the global level, INFO when empty.
	Level  string        `yaml:"level"`
	Levels []LevelConfig `yaml:"levels"`
}

// Configure applies c. Entries with an unknown level are reported and
// skipped; the returned error describes the first of them.
func Configure(c *Config) error {
	var firstErr error
	if c.Level != "" {
		l, err := logevent.ParseLevel(c.Level)
		if err != nil {
			firstErr = err
		} else {
			SetGlobalLevel(l.Slog())
		}
	}

	for _, lc := range c.Levels {
		l, err := logevent.ParseLevel(lc.Level)
		if err != nil {
			New().Error("unknown level", "level", lc.Level, "address", lc.Address)
			if firstErr == nil {
				firstErr = errors.Wrapf(err, "address %s", lc.Address)
			}
			continue
		}
		globalLevelRegistry.Set(l.Slog(), lc.Address)
	}
	return firstErr
}

// ConfigureFromFile loads a Config from the `console` key of the yaml
// file at path and applies it.
func ConfigureFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "reading %s", path)
	}

	var doc struct {
		Console Config `yaml:"console"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return errors.Wrapf(err, "unmarshalling %s", path)
	}
	return Configure(&doc.Console)
}
