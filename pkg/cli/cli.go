// Copyright 2026 Outreach Corporation. All Rights Reserved.

// Description: See package comment

// Package cli contains the utilities ils command line tools are built
// with: signal handling, panic reporting, exit codes and shell
// completion around an urfave/cli application.
package cli

import (
	"context"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/getoutreach/ilslog/pkg/app"
)

// HookInUrfaveCLI runs a with os.Args and exits the process with the
// resulting code. ^C and other term signals cancel ctx through cancel.
func HookInUrfaveCLI(ctx context.Context, cancel context.CancelFunc, a *cli.App, logger *slog.Logger) {
	stop := notifyShutdown(cancel)
	code := Run(ctx, a, os.Args, logger)
	stop()
	os.Exit(code)
}

// Run runs a with args and returns the process exit code: 0 on
// success, 1 when the command failed and 2 when it panicked. Exit
// codes carried by a cli.ExitCoder are kept.
func Run(ctx context.Context, a *cli.App, args []string, logger *slog.Logger) (exitCode int) {
	// completion output is read by the shell, so nothing else runs
	if a.EnableBashCompletion && isCompletion(args) {
		if err := generateShellCompletion(ctx, a, args); err != nil {
			logger.ErrorContext(ctx, "failed to generate completion", "error", err)
		}
		return 0
	}

	app.SetName(a.Name)

	// urfave calls OsExiter from within RunContext for ExitCoder errors
	cli.OsExiter = func(code int) { exitCode = code }
	defer recoverPanic(errWriter(a), &exitCode)

	if err := a.RunContext(ctx, args); err != nil {
		logger.ErrorContext(ctx, "failed to run", "error", err)
		if exitCode == 0 {
			exitCode = 1
		}
	}
	return exitCode
}
