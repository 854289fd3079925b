// Copyright 2026 Outreach Corporation. All Rights Reserved.

// Description: The gateway command.

package main

import (
	"context"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/getoutreach/ilslog/pkg/config"
	"github.com/getoutreach/ilslog/pkg/hooks"
	"github.com/getoutreach/ilslog/pkg/host"
	"github.com/getoutreach/ilslog/pkg/logctx"
	"github.com/getoutreach/ilslog/pkg/olog"
	"github.com/getoutreach/ilslog/pkg/rpc"
	"github.com/getoutreach/ilslog/pkg/run"
	"github.com/getoutreach/ilslog/pkg/serviceactivity"
)

func gatewayCommand() *cli.Command {
	return &cli.Command{
		Name:  "gateway",
		Usage: "Run the logging gateway",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "listen",
				Usage: "address to serve rpc and metrics on, overrides the module configuration",
			},
		},
		Action: func(c *cli.Context) error {
			mod, err := loadModule(c)
			if err != nil {
				return err
			}
			if c.IsSet("listen") {
				mod.Listen = c.String("listen")
			}
			return runGateway(c.Context, mod)
		},
	}
}

// runGateway wires the gateway scope and serves it until ctx ends or a
// signal arrives.
func runGateway(ctx context.Context, mod *config.Module) error {
	log := olog.New()
	if err := olog.Configure(&mod.Console); err != nil {
		log.WarnContext(ctx, "ignoring invalid console configuration", "error", err)
	}

	logging, err := config.LoadLogging(mod.Logging)
	if err != nil {
		log.WarnContext(ctx, "using an empty logging configuration", "path", mod.Logging, "error", err)
		logging = config.Empty()
	}

	lc := logctx.New(hooks.ScopeGateway)
	local := host.NewLocal(lc, logging)
	gw := hooks.NewGateway(local, mod)
	if err := gw.Startup(ctx); err != nil {
		return errors.Wrap(err, "start gateway hooks")
	}
	defer func() {
		stopCtx := context.WithoutCancel(ctx)
		if err := gw.Shutdown(stopCtx); err != nil {
			log.WarnContext(stopCtx, "failed to shut down gateway hooks", "error", err)
		}
		if err := lc.Close(stopCtx); err != nil {
			log.WarnContext(stopCtx, "failed to close logging context", "error", err)
		}
	}()

	lc.Logger("ils.gateway").InfoContext(ctx, "gateway started", "listen", mod.Listen)

	opts := []run.Option{
		run.OptHTTPAddr(mod.Listen),
		run.OptHTTPAppHandler(rpc.NewHandler(gw)),
	}
	if mod.PollInterval > 0 {
		opts = append(opts, run.OptAddRunner("logging-poller",
			serviceactivity.NewLoggingPoller(mod.Logging, mod.PollInterval, local)))
	}
	if mod.PurgeInterval >= 0 {
		opts = append(opts, run.OptAddRunner("purger",
			serviceactivity.NewPurger(gw, mod.PurgeInterval)))
	}
	return run.Run(ctx, "ils-gateway", opts...)
}
