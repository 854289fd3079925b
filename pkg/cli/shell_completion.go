// Copyright 2026 Outreach Corporation. All Rights Reserved.

// Description: This file contains shell completion helpers.

package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"
)

// Completion flags. The bash one is the hidden flag urfave creates, see
// https://cli.urfave.org/v2/#bash-completion. The fish one prints
// ToFishCompletion.
const (
	bashCompletionFlag = "--generate-bash-completion"
	fishCompletionFlag = "--generate-fish-completion"
)

// isCompletion reports whether args ask for shell completion.
func isCompletion(args []string) bool {
	last := args[len(args)-1]
	return last == bashCompletionFlag || last == fishCompletionFlag
}

// generateShellCompletion writes the completion requested by the last
// of args. It fails when args do not ask for completion.
func generateShellCompletion(ctx context.Context, a *cli.App, args []string) error {
	switch args[len(args)-1] {
	case bashCompletionFlag:
		return a.RunContext(ctx, args)
	case fishCompletionFlag:
		completion, err := a.ToFishCompletion()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(writer(a), completion)
		return err
	}
	return fmt.Errorf("not a completion request: %v", args)
}

func writer(a *cli.App) io.Writer {
	if a.Writer != nil {
		return a.Writer
	}
	return os.Stdout
}

func errWriter(a *cli.App) io.Writer {
	if a.ErrWriter != nil {
		return a.ErrWriter
	}
	return os.Stderr
}
