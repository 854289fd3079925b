// Copyright 2026 Outreach Corporation. All Rights Reserved.

// Description: Calls a remote Handler.

package rpc

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"

	"github.com/getoutreach/ilslog/pkg/config"
	"github.com/getoutreach/ilslog/pkg/dbsink"
	"github.com/getoutreach/ilslog/pkg/logevent"
	"github.com/getoutreach/ilslog/pkg/metrics"
	"github.com/getoutreach/ilslog/pkg/olog"
	"github.com/getoutreach/ilslog/pkg/orerr"
	"github.com/getoutreach/ilslog/pkg/retention"
	"github.com/getoutreach/ilslog/pkg/statuscodes"
)

// Client implements Operations against a remote gateway.
type Client struct {
	base string
	http *retryablehttp.Client
}

var _ Operations = (*Client)(nil)

// ClientOption configures a Client.
type ClientOption func(*retryablehttp.Client)

// WithRetries sets the number of retries of a failed call.
func WithRetries(n int) ClientOption {
	return func(c *retryablehttp.Client) {
		c.RetryMax = n
	}
}

// WithTimeout bounds every attempt.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *retryablehttp.Client) {
		c.HTTPClient.Timeout = d
	}
}

// WithHTTPClient replaces the underlying http client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *retryablehttp.Client) {
		c.HTTPClient = hc
	}
}

// NewClient returns a client for the gateway at baseURL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := retryablehttp.NewClient()
	c.RetryMax = 3
	c.RetryWaitMin = 100 * time.Millisecond
	c.RetryWaitMax = 2 * time.Second
	c.Logger = olog.New()
	c.CheckRetry = checkRetry
	for _, opt := range opts {
		opt(c)
	}
	return &Client{base: strings.TrimRight(baseURL, "/"), http: c}
}

// checkRetry retries transport failures and an unavailable gateway.
// Operation errors are returned to the caller as is.
func checkRetry(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	if err != nil {
		return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
	}
	switch resp.StatusCode {
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout, http.StatusTooManyRequests:
		return true, nil
	}
	return false, nil
}

func (c *Client) call(ctx context.Context, method string, p *Params, out any) (err error) {
	start := time.Now()
	defer func() {
		metrics.ReportRPCLatency(method, metrics.SideClient, time.Since(start), err)
	}()

	if p == nil {
		p = &Params{}
	}
	body, err := json.Marshal(p)
	if err != nil {
		return errors.Wrapf(err, "encode %s", method)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.base+"/rpc/"+method, bytes.NewReader(body))
	if err != nil {
		return errors.Wrapf(err, "create %s request", method)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return orerr.New(errors.Wrapf(err, "call %s", method), orerr.WithRetry(), orerr.WithStatus(statuscodes.Unavailable))
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrapf(err, "read %s response", method)
	}

	var r struct {
		Result jsoniter.RawMessage `json:"result"`
		Error  string              `json:"error"`
		Code   string              `json:"code"`
	}
	if err := json.Unmarshal(data, &r); err != nil {
		return orerr.NewErrorStatus(errors.Wrapf(err, "decode %s response", method),
			statuscodes.FromHTTPStatus(resp.StatusCode))
	}

	if resp.StatusCode != http.StatusOK {
		code, ok := statuscodes.FromString(r.Code)
		if !ok {
			code = statuscodes.FromHTTPStatus(resp.StatusCode)
		}
		msg := r.Error
		if msg == "" {
			msg = resp.Status
		}
		err := orerr.Errorf(code, "%s: %s", method, msg)
		if code == statuscodes.Unavailable {
			err = orerr.Retryable(err)
		}
		return err
	}

	if out == nil || len(r.Result) == 0 {
		return nil
	}
	return errors.Wrapf(json.Unmarshal(r.Result, out), "decode %s result", method)
}

// LoggerNames implements Operations.
func (c *Client) LoggerNames(ctx context.Context) ([]string, error) {
	var out []string
	return out, c.call(ctx, MethodLoggerNames, nil, &out)
}

// Level implements Operations.
func (c *Client) Level(ctx context.Context, logger string) (logevent.Level, error) {
	var out logevent.Level
	return out, c.call(ctx, MethodLevel, &Params{Logger: logger}, &out)
}

// SetLevel implements Operations.
func (c *Client) SetLevel(ctx context.Context, logger string, l logevent.Level) error {
	return c.call(ctx, MethodSetLevel, &Params{Logger: logger, Level: &l}, nil)
}

// CrashBufferSize implements Operations.
func (c *Client) CrashBufferSize(ctx context.Context) (int, error) {
	var out int
	return out, c.call(ctx, MethodCrashBufferSize, nil, &out)
}

// SetCrashBufferSize implements Operations.
func (c *Client) SetCrashBufferSize(ctx context.Context, n int) error {
	return c.call(ctx, MethodSetCrashBufferSize, &Params{Size: n}, nil)
}

// CrashThreshold implements Operations.
func (c *Client) CrashThreshold(ctx context.Context) (logevent.Level, error) {
	var out logevent.Level
	return out, c.call(ctx, MethodCrashThreshold, nil, &out)
}

// SetCrashThreshold implements Operations.
func (c *Client) SetCrashThreshold(ctx context.Context, l logevent.Level) error {
	return c.call(ctx, MethodSetCrashThreshold, &Params{Level: &l}, nil)
}

// AddPattern implements Operations.
func (c *Client) AddPattern(ctx context.Context, pattern string) error {
	return c.call(ctx, MethodAddPattern, &Params{Pattern: pattern}, nil)
}

// AddThread implements Operations.
func (c *Client) AddThread(ctx context.Context, thread string) error {
	return c.call(ctx, MethodAddThread, &Params{Thread: thread}, nil)
}

// ResetPatterns implements Operations.
func (c *Client) ResetPatterns(ctx context.Context) error {
	return c.call(ctx, MethodResetPatterns, nil, nil)
}

// Patterns implements Operations.
func (c *Client) Patterns(ctx context.Context) (Patterns, error) {
	var out Patterns
	return out, c.call(ctx, MethodPatterns, nil, &out)
}

// Datasource implements Operations.
func (c *Client) Datasource(ctx context.Context) (string, error) {
	var out string
	return out, c.call(ctx, MethodDatasource, nil, &out)
}

// Directories implements Operations.
func (c *Client) Directories(ctx context.Context) (config.Directories, error) {
	var out config.Directories
	return out, c.call(ctx, MethodDirectories, nil, &out)
}

// Retention implements Operations.
func (c *Client) Retention(ctx context.Context) (retention.Policy, error) {
	var out retention.Policy
	return out, c.call(ctx, MethodRetention, nil, &out)
}

// SetRetention implements Operations.
func (c *Client) SetRetention(ctx context.Context, p retention.Policy) error {
	return c.call(ctx, MethodSetRetention, &Params{Retention: &p}, nil)
}

// WriteRows implements Operations.
func (c *Client) WriteRows(ctx context.Context, rows []dbsink.Row) error {
	if len(rows) == 0 {
		return nil
	}
	return c.call(ctx, MethodWriteRows, &Params{Rows: rows}, nil)
}
