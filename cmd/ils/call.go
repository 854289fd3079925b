// Copyright 2026 Outreach Corporation. All Rights Reserved.

// Description: The call and functions commands.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/getoutreach/ilslog/pkg/config"
	"github.com/getoutreach/ilslog/pkg/hooks"
	"github.com/getoutreach/ilslog/pkg/host"
	"github.com/getoutreach/ilslog/pkg/logctx"
	"github.com/getoutreach/ilslog/pkg/logevent"
	"github.com/getoutreach/ilslog/pkg/olog"
	"github.com/getoutreach/ilslog/pkg/rpc"
	"github.com/getoutreach/ilslog/pkg/script"
)

// nolint:gochecknoglobals
var json = jsoniter.ConfigCompatibleWithStandardLibrary

// callThread names the thread a call runs on.
func callThread() logevent.Thread {
	return logevent.Thread{ID: int64(os.Getpid()), Name: "ils-call"}
}

func gatewayFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "gateway",
		Usage:   "base url of the gateway, defaults to the module configuration",
		EnvVars: []string{"ILS_GATEWAY"},
	}
}

func callCommand() *cli.Command {
	return &cli.Command{
		Name:      "call",
		Usage:     "Call a " + script.Namespace + " function",
		ArgsUsage: "<function> [args...]",
		Flags:     []cli.Flag{gatewayFlag()},
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return errors.New("missing function name")
			}
			fns, stop, err := clientFunctions(c)
			if err != nil {
				return err
			}
			defer stop()

			tail := c.Args().Tail()
			args := make([]any, len(tail))
			for i, a := range tail {
				args[i] = a
			}
			ctx := logevent.WithThread(c.Context, callThread())
			v, err := fns.Call(ctx, c.Args().First(), args...)
			if err != nil {
				return err
			}
			return printResult(c.App.Writer, v)
		},
	}
}

func functionsCommand() *cli.Command {
	return &cli.Command{
		Name:  "functions",
		Usage: "List the " + script.Namespace + " functions",
		Action: func(c *cli.Context) error {
			for _, f := range script.New(nil, nil).Funcs() {
				fmt.Fprintf(c.App.Writer, "%s.%s(%s)\n\t%s\n", script.Namespace, f.Name, strings.Join(f.Params, ", "), f.Doc)
			}
			return nil
		},
	}
}

// clientFunctions wires a client scope against the gateway and returns
// the functions bound to it. stop shuts the scope down.
func clientFunctions(c *cli.Context) (fns *script.Functions, stop func(), err error) {
	mod, err := loadModule(c)
	if err != nil {
		return nil, nil, err
	}

	ops := rpc.NewClient(gatewayURL(c.String("gateway"), mod))
	lc := logctx.New(hooks.ScopeClient)
	remote := hooks.NewClient(host.NewLocal(lc, config.Empty()), ops)
	if err := remote.Startup(c.Context); err != nil {
		return nil, nil, errors.Wrap(err, "start client hooks")
	}

	stop = func() {
		ctx := context.WithoutCancel(c.Context)
		if err := remote.Shutdown(ctx); err != nil {
			olog.New().WarnContext(ctx, "failed to shut down client hooks", "error", err)
		}
	}
	return script.New(ops, remote), stop, nil
}

// printResult writes v as indented json. Functions without a result
// print nothing.
func printResult(w io.Writer, v any) error {
	if v == nil {
		return nil
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode result")
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}
