// Copyright 2026 Outreach Corporation. All Rights Reserved.

// Description: Status codes carried by errors.

package orerr

import (
	"errors"

	pkgerrors "github.com/pkg/errors"

	"github.com/getoutreach/ilslog/pkg/statuscodes"
)

// StatusCodeProvider is implemented by errors that carry a status code.
// The rpc handler turns the code into the http status of a failed call.
type StatusCodeProvider interface {
	StatusCode() statuscodes.StatusCode
}

// StatusCodeWrapper attaches a status code to an error.
type StatusCodeWrapper struct {
	wrappedErr error
	code       statuscodes.StatusCode
}

func (w *StatusCodeWrapper) Error() string {
	return w.wrappedErr.Error()
}

// StatusCode implements StatusCodeProvider.
func (w *StatusCodeWrapper) StatusCode() statuscodes.StatusCode {
	return w.code
}

func (w *StatusCodeWrapper) Unwrap() error {
	return w.wrappedErr
}

// NewErrorStatus wraps errToWrap with errCode.
func NewErrorStatus(errToWrap error, errCode statuscodes.StatusCode) error {
	return &StatusCodeWrapper{wrappedErr: errToWrap, code: errCode}
}

// Errorf formats a new error carrying code.
func Errorf(code statuscodes.StatusCode, format string, args ...any) error {
	return NewErrorStatus(pkgerrors.Errorf(format, args...), code)
}

// IsErrorStatusCode reports whether the outermost code carried by err
// is code.
func IsErrorStatusCode(err error, code statuscodes.StatusCode) bool {
	var scp StatusCodeProvider
	if errors.As(err, &scp) {
		return scp.StatusCode() == code
	}
	return false
}

// ExtractErrorStatusCode returns the outermost code carried by err, OK
// for a nil error and UnknownError for errors without a code.
func ExtractErrorStatusCode(err error) statuscodes.StatusCode {
	if err == nil {
		return statuscodes.OK
	}
	var scp StatusCodeProvider
	if errors.As(err, &scp) {
		return scp.StatusCode()
	}
	return statuscodes.UnknownError
}
