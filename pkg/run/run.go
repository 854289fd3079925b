// Copyright 2026 Outreach Corporation. All Rights Reserved.

// Description: Entrypoint to run the gateway service

// Package run provides a function that can be invoked inside of main to set up
// the components every ils service runs: signal handling and an http server
// exposing health, metrics and the application handler.
//
// clients should provide any runners they require as part of the app to the
// Run function with OptAddRunner, and then call `Run` in their main function.
package run

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/getoutreach/ilslog/pkg/app"
	"github.com/getoutreach/ilslog/pkg/async"
	"github.com/getoutreach/ilslog/pkg/olog"
	"github.com/getoutreach/ilslog/pkg/serviceactivity"
)

// DefaultHTTPAddr is the address served when OptHTTPAddr is not given.
const DefaultHTTPAddr = "127.0.0.1:8088"

// runOpts are the options to pass to Run to configure your service
type runOpts struct {
	httpAppHandler http.Handler
	log            *slog.Logger
	httpAddr       string
	runners        []async.Runner
}

// Option is the interface for an option
type Option interface {
	apply(*runOpts) error
}

// optionFunc is a function that implements Option
type optionFunc func(*runOpts) error

// apply implements Option.
func (s optionFunc) apply(o *runOpts) error {
	return s(o)
}

// OptLogger sets the logger. Otherwise it defaults to olog.New
func OptLogger(l *slog.Logger) Option {
	return optionFunc(func(o *runOpts) error {
		o.log = l
		return nil
	})
}

// OptHTTPAppHandler sets the http handler for the app. Otherwise it defaults to NotFound
func OptHTTPAppHandler(appHandler http.Handler) Option {
	return optionFunc(func(o *runOpts) error {
		o.httpAppHandler = appHandler
		return nil
	})
}

// OptAddRunner adds a runnable the service needs to run. If the runnable
// exits, so does the service
func OptAddRunner(name string, r serviceactivity.ServiceActivity) Option {
	return optionFunc(func(o *runOpts) error {
		o.runners = append(o.runners, &namedRunner{name: name, act: r, opts: o})
		return nil
	})
}

// OptHTTPAddr sets the address of the http server
func OptHTTPAddr(addr string) Option {
	return optionFunc(func(o *runOpts) error {
		o.httpAddr = addr
		return nil
	})
}

// namedRunner logs the start and exit of an activity.
type namedRunner struct {
	name string
	act  serviceactivity.ServiceActivity
	opts *runOpts
}

func (n *namedRunner) Run(ctx context.Context) error {
	log := n.opts.log
	log.InfoContext(ctx, fmt.Sprintf("starting %s", n.name), "runner.name", n.name)
	err := n.act.Run(ctx)
	if err != nil && !serviceactivity.IsShutdown(err) {
		log.WarnContext(ctx, fmt.Sprintf("exited %s with error", n.name), "runner.name", n.name, "error", err)
	}
	log.InfoContext(ctx, fmt.Sprintf("exited %s", n.name), "runner.name", n.name)
	return err
}

func (n *namedRunner) Close(ctx context.Context) error {
	return n.act.Close(ctx)
}

// Handler returns the http handler served by Run: liveness on
// /healthz/live, prometheus metrics on /metrics and app for everything
// else.
func Handler(appHandler http.Handler) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz/live", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok")) //nolint:errcheck // Why: best effort
	})
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.Handle("/", appHandler)
	return mux
}

// Run runs your service.
//
// If [ctx] ends, your app will stop.
// [name] is the name of your service
// [options] are functional options that allow you to add more runnables (e.g.
// the logging file poller), or to configure the http server and the
// logger used in this method. See types in this package prefixed with `Opt`
func Run(
	ctx context.Context,
	name string,
	options ...Option,
) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// default options
	opts := &runOpts{
		httpAppHandler: http.NotFoundHandler(),
		log:            olog.New(),
		httpAddr:       DefaultHTTPAddr,
	}

	for _, o := range options {
		err := o.apply(opts)
		if err != nil {
			return err
		}
	}

	log := opts.log
	app.SetName(name)

	log.InfoContext(ctx, "starting", "app", app.Info())

	// always required runners
	acts := []async.Runner{
		serviceactivity.NewShutdownService(),
		serviceactivity.NewHTTPService(opts.httpAddr, Handler(opts.httpAppHandler)),
	}

	// add runners from options
	acts = append(acts, opts.runners...)

	err := async.RunGroup(acts).Run(ctx)
	if serviceactivity.IsShutdown(err) {
		log.InfoContext(ctx, "stopped", "reason", fmt.Sprint(err))
		return nil
	}
	return fmt.Errorf("%w lead to shutdown", err)
}
