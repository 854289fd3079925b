// Copyright 2026 Outreach Corporation. All Rights Reserved.

// Description: Serves Operations over http.

package rpc

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"

	"github.com/getoutreach/ilslog/pkg/metrics"
	"github.com/getoutreach/ilslog/pkg/olog"
	"github.com/getoutreach/ilslog/pkg/orerr"
	"github.com/getoutreach/ilslog/pkg/statuscodes"
)

// Errors reported to callers with a client error status.
var (
	ErrUnknownMethod = orerr.NewErrorStatus(orerr.SentinelError("unknown method"), statuscodes.NotFound)
	ErrBadRequest    = orerr.NewErrorStatus(orerr.SentinelError("bad request"), statuscodes.BadRequest)
)

// maxBody bounds request bodies. WriteRows batches of a full crash
// buffer with long messages stay well below it.
const maxBody = 32 << 20

// nolint:gochecknoglobals
var json = jsoniter.ConfigCompatibleWithStandardLibrary

type method func(ctx context.Context, ops Operations, p *Params) (any, error)

// nolint:gochecknoglobals
var methods = map[string]method{
	MethodLoggerNames: func(ctx context.Context, ops Operations, _ *Params) (any, error) {
		return ops.LoggerNames(ctx)
	},
	MethodLevel: func(ctx context.Context, ops Operations, p *Params) (any, error) {
		return ops.Level(ctx, p.Logger)
	},
	MethodSetLevel: func(ctx context.Context, ops Operations, p *Params) (any, error) {
		if p.Level == nil {
			return nil, errors.Wrap(ErrBadRequest, "level is required")
		}
		return nil, ops.SetLevel(ctx, p.Logger, *p.Level)
	},
	MethodCrashBufferSize: func(ctx context.Context, ops Operations, _ *Params) (any, error) {
		return ops.CrashBufferSize(ctx)
	},
	MethodSetCrashBufferSize: func(ctx context.Context, ops Operations, p *Params) (any, error) {
		if p.Size < 1 {
			return nil, errors.Wrap(ErrBadRequest, "size must be positive")
		}
		return nil, ops.SetCrashBufferSize(ctx, p.Size)
	},
	MethodCrashThreshold: func(ctx context.Context, ops Operations, _ *Params) (any, error) {
		return ops.CrashThreshold(ctx)
	},
	MethodSetCrashThreshold: func(ctx context.Context, ops Operations, p *Params) (any, error) {
		if p.Level == nil {
			return nil, errors.Wrap(ErrBadRequest, "level is required")
		}
		return nil, ops.SetCrashThreshold(ctx, *p.Level)
	},
	MethodAddPattern: func(ctx context.Context, ops Operations, p *Params) (any, error) {
		if p.Pattern == "" {
			return nil, errors.Wrap(ErrBadRequest, "pattern is required")
		}
		return nil, ops.AddPattern(ctx, p.Pattern)
	},
	MethodAddThread: func(ctx context.Context, ops Operations, p *Params) (any, error) {
		if p.Thread == "" {
			return nil, errors.Wrap(ErrBadRequest, "thread is required")
		}
		return nil, ops.AddThread(ctx, p.Thread)
	},
	MethodResetPatterns: func(ctx context.Context, ops Operations, _ *Params) (any, error) {
		return nil, ops.ResetPatterns(ctx)
	},
	MethodPatterns: func(ctx context.Context, ops Operations, _ *Params) (any, error) {
		return ops.Patterns(ctx)
	},
	MethodDatasource: func(ctx context.Context, ops Operations, _ *Params) (any, error) {
		return ops.Datasource(ctx)
	},
	MethodDirectories: func(ctx context.Context, ops Operations, _ *Params) (any, error) {
		return ops.Directories(ctx)
	},
	MethodRetention: func(ctx context.Context, ops Operations, _ *Params) (any, error) {
		return ops.Retention(ctx)
	},
	MethodSetRetention: func(ctx context.Context, ops Operations, p *Params) (any, error) {
		if p.Retention == nil {
			return nil, errors.Wrap(ErrBadRequest, "retention is required")
		}
		return nil, ops.SetRetention(ctx, *p.Retention)
	},
	MethodWriteRows: func(ctx context.Context, ops Operations, p *Params) (any, error) {
		return nil, ops.WriteRows(ctx, p.Rows)
	},
}

// Handler serves Operations on POST /rpc/{method}.
type Handler struct {
	ops Operations
	log *slog.Logger
	mux *http.ServeMux
}

// NewHandler returns a handler dispatching to ops.
func NewHandler(ops Operations) *Handler {
	h := &Handler{ops: ops, log: olog.New(), mux: http.NewServeMux()}
	h.mux.HandleFunc("POST /rpc/{method}", h.serve)
	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) serve(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	name := r.PathValue("method")

	result, err := h.call(r, name)
	if _, known := methods[name]; known {
		metrics.ReportRPCLatency(name, metrics.SideServer, time.Since(start), err)
	}

	resp := response{Result: result}
	code := statuscodes.OK
	if err != nil {
		code = orerr.ExtractErrorStatusCode(err)
		resp = response{Error: err.Error(), Code: code.String()}
		if code.Category() == statuscodes.CategoryServerError {
			h.log.ErrorContext(r.Context(), "rpc failed", "method", name, "error", err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code.HTTPStatus())
	if err := json.NewEncoder(w).Encode(&resp); err != nil {
		h.log.WarnContext(r.Context(), "failed to write rpc response", "method", name, "error", err)
	}
}

func (h *Handler) call(r *http.Request, name string) (any, error) {
	m, ok := methods[name]
	if !ok {
		return nil, errors.Wrap(ErrUnknownMethod, name)
	}

	var p Params
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBody))
	if err != nil {
		return nil, errors.Wrap(ErrBadRequest, err.Error())
	}
	if len(body) > 0 {
		if err := json.Unmarshal(body, &p); err != nil {
			return nil, errors.Wrap(ErrBadRequest, err.Error())
		}
	}
	return m(r.Context(), h.ops, &p)
}
