// Copyright 2026 Outreach Corporation. All Rights Reserved.

// Description: Error utilities shared by the ils packages.

// Package orerr implements error utilities shared by the ils packages:
// constant sentinel errors, status codes carried by errors and the
// retryable flag the rpc client sets on gateway failures.
package orerr

import (
	"errors"

	"github.com/getoutreach/ilslog/pkg/statuscodes"
)

// A SentinelError is a constant error. Compare it with errors.Is, it
// is usually wrapped by NewErrorStatus.
type SentinelError string

// Error returns s as a string.
func (s SentinelError) Error() string {
	return string(s)
}

// ShutdownError is returned by the activity that noticed a shutdown
// signal. Err describes the signal.
type ShutdownError struct {
	Err error
}

// Error implements the err interface.
func (e ShutdownError) Error() string {
	if e.Err == nil {
		return "process has shutdown"
	}
	return "process has shutdown: " + e.Err.Error()
}

// Unwrap returns the inner error.
func (e ShutdownError) Unwrap() error {
	return e.Err
}

// ErrOption decorates an error.
type ErrOption func(err error) error

// New applies opts to err in order. A nil err stays nil.
func New(err error, opts ...ErrOption) error {
	if err == nil {
		return nil
	}
	for _, opt := range opts {
		err = opt(err)
	}
	return err
}

// WithRetry marks the error as retryable.
func WithRetry() ErrOption {
	return Retryable
}

// WithStatus attaches code to the error.
func WithStatus(code statuscodes.StatusCode) ErrOption {
	return func(err error) error {
		return NewErrorStatus(err, code)
	}
}

type retryable struct {
	err error
}

// Retryable marks err as a failure that may succeed when the call is
// made again, for example an unreachable gateway.
func Retryable(err error) error {
	return &retryable{err}
}

// IsRetryable reports whether err, or an error it wraps, was marked
// with Retryable.
func IsRetryable(err error) bool {
	var re *retryable
	return errors.As(err, &re)
}

func (r *retryable) Error() string {
	return r.err.Error()
}

func (r *retryable) Unwrap() error {
	return r.err
}

// IsOneOf reports whether err matches any of errs under errors.Is.
func IsOneOf(err error, errs ...error) bool {
	for _, e := range errs {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}
