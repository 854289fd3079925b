// Copyright 2026 Outreach Corporation. All Rights Reserved.

// Description: The client and designer scope hooks.

package hooks

import (
	"context"

	"github.com/getoutreach/ilslog/pkg/appender"
	"github.com/getoutreach/ilslog/pkg/host"
	"github.com/getoutreach/ilslog/pkg/rpc"
)

// Remote is the hook of a scope that stores its events through the
// gateway. Client and designer scopes share it.
type Remote struct {
	wiring
	scope    string
	clientID string
	local    *host.Local
	ops      rpc.Operations
}

var _ Hook = (*Remote)(nil)

// NewClient returns the hook of a client scope reaching the gateway
// through ops.
func NewClient(local *host.Local, ops rpc.Operations) *Remote {
	return newRemote(ScopeClient, local, ops)
}

// NewDesigner returns the hook of a designer scope reaching the gateway
// through ops.
func NewDesigner(local *host.Local, ops rpc.Operations) *Remote {
	return newRemote(ScopeDesigner, local, ops)
}

func newRemote(scope string, local *host.Local, ops rpc.Operations) *Remote {
	id := newClientID()
	fallback := local.Context().Fallback().With("hook", scope, "client_id", id)
	return &Remote{
		wiring:   newWiring(local, local.Controls(), fallback),
		scope:    scope,
		clientID: id,
		local:    local,
		ops:      ops,
	}
}

// Scope returns the scope name stored with every row.
func (r *Remote) Scope() string {
	return r.scope
}

// ClientID returns the session id stored with every row.
func (r *Remote) ClientID() string {
	return r.clientID
}

// Operations returns the gateway operations.
func (r *Remote) Operations() rpc.Operations {
	return r.ops
}

// Startup implements Hook. The crash buffer size and threshold come
// from the gateway, or from the local logging configuration when the
// gateway cannot be reached.
func (r *Remote) Startup(ctx context.Context) error {
	logging := r.local.Logging()

	size, err := r.ops.CrashBufferSize(ctx)
	if err != nil {
		r.fallback.Warn("using local crash buffer size", "error", err)
		size, err = logging.CrashBufferSize()
		if err != nil {
			r.fallback.Warn("using default crash buffer size", "error", err, "size", size)
		}
	}
	threshold, err := r.ops.CrashThreshold(ctx)
	if err != nil {
		r.fallback.Warn("using local crash threshold", "error", err)
		threshold, err = logging.CrashThreshold()
		if err != nil {
			r.fallback.Warn("using default crash threshold", "error", err, "threshold", threshold)
		}
	}
	r.mu.Lock()
	r.size, r.threshold = size, threshold
	r.mu.Unlock()

	return r.start(ctx, r.openRemote)
}

func (r *Remote) openRemote(ctx context.Context) (appender.Appender, error) {
	a := rpc.NewRemoteAppender(r.ops, &rpc.RemoteOptions{
		Name:     AppenderDatabase,
		Scope:    r.scope,
		ClientID: r.clientID,
		Fallback: r.fallback,
	})
	if p, err := r.ops.Retention(ctx); err == nil {
		a.SetRetention(p)
	} else if p, ok, err := r.local.Logging().Retention(); err == nil && ok {
		a.SetRetention(p)
	}
	return a, nil
}

// Shutdown implements Hook.
func (r *Remote) Shutdown(ctx context.Context) error {
	return r.stop(ctx)
}

