// Copyright 2026 Outreach Corporation. All Rights Reserved.

// Description: Tests for the service entrypoint.

package run

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pkg/errors"
	"gotest.tools/v3/assert"

	"github.com/getoutreach/ilslog/pkg/async"
)

// activity adapts a function into a service activity.
type activity func(ctx context.Context) error

func (a activity) Run(ctx context.Context) error { return a(ctx) }
func (a activity) Close(context.Context) error   { return nil }

func freeAddr(t *testing.T) string {
	t.Helper()
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	assert.NilError(t, err)
	addr := lis.Addr().String()
	assert.NilError(t, lis.Close())
	return addr
}

func TestRun(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	addr := freeAddr(t)

	ready := make(chan struct{})
	errc := make(chan error, 1)
	go func() {
		errc <- Run(ctx, "ils-test", OptHTTPAddr(addr), OptAddRunner("ready-signal", activity(func(ctx context.Context) error {
			close(ready)
			<-ctx.Done()
			return nil
		})))
	}()
	<-ready

	var resp *http.Response
	for i := 0; i < 50; i++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, "http://"+addr+"/healthz/live", http.NoBody)
		assert.NilError(t, err)
		if resp, err = http.DefaultClient.Do(req); err == nil {
			break
		}
		async.Sleep(ctx, 10*time.Millisecond)
	}
	assert.Assert(t, resp != nil, "server never came up")
	resp.Body.Close()
	assert.Equal(t, resp.StatusCode, http.StatusOK)

	cancel()
	assert.NilError(t, <-errc)
}

func TestRunFailingRunner(t *testing.T) {
	err := Run(context.Background(), "ils-test", OptHTTPAddr(freeAddr(t)), OptAddRunner("broken", activity(func(context.Context) error {
		return errors.New("no database")
	})))
	assert.ErrorContains(t, err, "no database")
}

func TestHandler(t *testing.T) {
	h := Handler(http.NotFoundHandler())
	for path, want := range map[string]int{
		"/healthz/live": http.StatusOK,
		"/metrics":      http.StatusOK,
		"/rpc/level":    http.StatusNotFound,
	} {
		rec := httptest.NewRecorder()
		req, err := http.NewRequest(http.MethodGet, path, http.NoBody)
		assert.NilError(t, err)
		h.ServeHTTP(rec, req)
		assert.Equal(t, rec.Code, want, path)
	}
}
