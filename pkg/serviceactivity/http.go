// Copyright 2026 Outreach Corporation. All Rights Reserved.

// Description: This file implements the http server activity.

package serviceactivity

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/pkg/errors"

	"github.com/getoutreach/ilslog/pkg/olog"
)

// ShutdownTimeout bounds the graceful shutdown of the http server.
const ShutdownTimeout = 10 * time.Second

var _ ServiceActivity = (*HTTPService)(nil)

// HTTPService serves a handler until its context ends.
type HTTPService struct {
	addr    string
	handler http.Handler

	srv      *http.Server
	listener net.Listener
}

// NewHTTPService returns an activity serving handler on addr.
func NewHTTPService(addr string, handler http.Handler) *HTTPService {
	return &HTTPService{addr: addr, handler: handler}
}

// Listen binds the listener ahead of Run, so callers can learn the
// bound address. Run listens itself when Listen was not called.
func (s *HTTPService) Listen() (net.Addr, error) {
	l, err := net.Listen("tcp", s.addr)
	if err != nil {
		return nil, errors.Wrapf(err, "listen on %s", s.addr)
	}
	s.listener = l
	return l.Addr(), nil
}

// Run implements ServiceActivity.
func (s *HTTPService) Run(ctx context.Context) error {
	if s.listener == nil {
		if _, err := s.Listen(); err != nil {
			return err
		}
	}

	s.srv = &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() {
		olog.New().InfoContext(ctx, "serving http", "addr", s.listener.Addr().String())
		errc <- s.srv.Serve(s.listener)
	}()

	select {
	case err := <-errc:
		return errors.Wrap(err, "http server")
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), ShutdownTimeout)
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "http server shutdown")
	}
	return ctx.Err()
}

// Close implements ServiceActivity.
func (s *HTTPService) Close(_ context.Context) error {
	if s.srv == nil && s.listener != nil {
		return s.listener.Close()
	}
	return nil
}
