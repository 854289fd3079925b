// Copyright 2026 Outreach Corporation. All Rights Reserved.

// Description: Entrypoint of the ils command.

// Command ils runs the logging gateway and calls the system.ils
// functions of a running gateway.
package main

import (
	"context"
	"net"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/getoutreach/ilslog/pkg/app"
	"github.com/getoutreach/ilslog/pkg/cfg"
	ilscli "github.com/getoutreach/ilslog/pkg/cli"
	"github.com/getoutreach/ilslog/pkg/config"
	"github.com/getoutreach/ilslog/pkg/olog"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ilscli.HookInUrfaveCLI(ctx, cancel, newApp(), olog.New())
}

func newApp() *cli.App {
	return &cli.App{
		Name:                 "ils",
		Usage:                "Run and control the ils logging gateway",
		Version:              app.Info().Version,
		EnableBashCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config-dir",
				Usage:   "directory the module configuration is read from",
				EnvVars: []string{cfg.EnvConfigDir},
			},
			&cli.StringFlag{
				Name:  "module",
				Usage: "module configuration file name",
				Value: config.ModuleFile,
			},
		},
		Before: func(c *cli.Context) error {
			if dir := c.String("config-dir"); dir != "" {
				cfg.SetDefaultReader(cfg.DirReader(dir))
			}
			return nil
		},
		Commands: []*cli.Command{
			gatewayCommand(),
			callCommand(),
			functionsCommand(),
		},
	}
}

// loadModule reads the module configuration, falling back to the
// defaults when the file does not exist.
func loadModule(c *cli.Context) (*config.Module, error) {
	mod, err := config.LoadModule(cfg.DefaultReader(), c.String("module"))
	if errors.Is(err, os.ErrNotExist) {
		olog.New().DebugContext(c.Context, "using the default module configuration", "error", err)
		return config.DefaultModule(), nil
	}
	return mod, err
}

// gatewayURL is the base url of the gateway: the flag, then the module
// configuration, then the local listen address.
func gatewayURL(flag string, mod *config.Module) string {
	switch {
	case flag != "":
		return flag
	case mod.Gateway != "":
		return mod.Gateway
	}
	host, port, err := net.SplitHostPort(mod.Listen)
	if err != nil {
		return "http://" + strings.TrimPrefix(mod.Listen, ":")
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "127.0.0.1"
	}
	return "http://" + net.JoinHostPort(host, port)
}
