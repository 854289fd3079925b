// Copyright 2026 Outreach Corporation. All Rights Reserved.

// Description: Module configuration.

// Package config holds the module configuration (yaml) and the logging
// configuration (a logback shaped xml file) of an ils deployment.
package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/getoutreach/ilslog/pkg/cfg"
	"github.com/getoutreach/ilslog/pkg/dbsink"
	"github.com/getoutreach/ilslog/pkg/olog"
	"github.com/getoutreach/ilslog/pkg/orerr"
	"github.com/getoutreach/ilslog/pkg/retention"
	"github.com/getoutreach/ilslog/pkg/statuscodes"
)

// ModuleFile is the name of the module configuration file.
const ModuleFile = "ils.yaml"

// Defaults applied by LoadModule.
const (
	DefaultListen       = ":8088"
	DefaultPollInterval = 30 * time.Second
	DefaultLoggingFile  = "logback.xml"
)

// EnvDSNPrefix prefixes the environment variables overriding a
// datasource dsn, e.g. ILS_DSN_MAIN for the datasource "main".
const EnvDSNPrefix = "ILS_DSN_"

// ErrUnknownDatasource is returned for datasource names missing from
// the module configuration.
var ErrUnknownDatasource = orerr.NewErrorStatus(
	orerr.SentinelError("unknown datasource"), statuscodes.NotFound)

// Datasource is a named database connection.
type Datasource struct {
	// Driver is one of sqlite, postgres or mysql.
	Driver string `yaml:"driver"`
	// DSN is the connection string passed to the driver.
	DSN string `yaml:"dsn"`
	// Secret, when set, holds the dsn in a file and takes precedence
	// over DSN.
	Secret cfg.Secret `yaml:"secret"`
}

// Directories are the installation paths reported to remote callers.
type Directories struct {
	Install string `yaml:"install" json:"install"`
	Data    string `yaml:"data" json:"data"`
	Logs    string `yaml:"logs" json:"logs"`
}

// Module is the module configuration.
type Module struct {
	Datasources map[string]Datasource `yaml:"datasources"`

	// Table is the log table, dbsink.DefaultTable when empty.
	Table string `yaml:"table"`

	// Retention is the retention policy in days per level, in the
	// form "30,14,7,1,1".
	Retention *retention.Policy `yaml:"retention"`

	// Listen is the address the gateway serves rpc and metrics on.
	Listen string `yaml:"listen"`

	// Gateway is the base url client and designer scopes reach the
	// gateway on.
	Gateway string `yaml:"gateway"`

	Directories Directories `yaml:"directories"`

	// Logging is the path of the logging configuration file. Relative
	// paths are resolved against the data directory.
	Logging string `yaml:"logging"`

	// PollInterval is how often the logging file is checked for
	// changes. Zero disables polling.
	PollInterval time.Duration `yaml:"pollInterval"`

	// PurgeInterval is how often rows past their retention are
	// deleted, hourly when zero. A negative interval disables purging.
	PurgeInterval time.Duration `yaml:"purgeInterval"`

	// Console configures the console loggers.
	Console olog.Config `yaml:"console"`
}

// LoadModule reads the module configuration through r and fills in
// defaults for everything left unset.
func LoadModule(r cfg.Reader, fileName string) (*Module, error) {
	var m Module
	if err := r.Load(fileName, &m); err != nil {
		return nil, err
	}
	m.applyDefaults()
	return &m, nil
}

// DefaultModule returns a module configuration with every default
// applied and no datasources.
func DefaultModule() *Module {
	var m Module
	m.applyDefaults()
	return &m
}

func (m *Module) applyDefaults() {
	if m.Table == "" {
		m.Table = dbsink.DefaultTable
	}
	if m.Retention == nil {
		p := retention.Default
		m.Retention = &p
	}
	if m.Listen == "" {
		m.Listen = DefaultListen
	}
	if m.PollInterval < 0 {
		m.PollInterval = 0
	}

	m.Directories = m.Directories.withDefaults()
	if m.Logging == "" {
		m.Logging = DefaultLoggingFile
	}
	if !filepath.IsAbs(m.Logging) {
		m.Logging = filepath.Join(m.Directories.Data, m.Logging)
	}
}

// withDefaults derives unset directories from the running executable:
// the install directory is the parent of the directory holding it.
func (d Directories) withDefaults() Directories {
	if d.Install == "" {
		d.Install = "."
		if exe, err := os.Executable(); err == nil {
			d.Install = filepath.Dir(filepath.Dir(exe))
		}
	}
	if d.Data == "" {
		d.Data = filepath.Join(d.Install, "data")
	}
	if d.Logs == "" {
		d.Logs = filepath.Join(d.Install, "logs")
	}
	return d
}

// Datasource returns the named datasource with its dsn resolved.
func (m *Module) Datasource(ctx context.Context, name string) (Datasource, error) {
	ds, ok := m.Datasources[name]
	if !ok {
		return Datasource{}, errors.Wrap(ErrUnknownDatasource, name)
	}
	if v, err := cfg.EnvSecret(EnvDSN(name)); err == nil {
		ds.DSN = string(v)
		return ds, nil
	}
	if ds.Secret.Path != "" {
		data, err := ds.Secret.Data(ctx)
		if err != nil {
			return Datasource{}, errors.Wrapf(err, "datasource %s", name)
		}
		ds.DSN = string(data)
	}
	return ds, nil
}

// EnvDSN returns the environment variable overriding the dsn of the
// named datasource.
func EnvDSN(name string) string {
	return EnvDSNPrefix + strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r - 'a' + 'A'
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		}
		return '_'
	}, name)
}
