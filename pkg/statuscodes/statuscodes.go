// Copyright 2026 Outreach Corporation. All Rights Reserved.

// Description: Implements the statuscodes package.

// Package statuscodes buckets errors into a handful of codes so that
// the rpc transport and the metrics can classify a failure without
// understanding the specific error.
package statuscodes

import (
	"fmt"
	"net/http"
)

type StatusCode int

// Notes:
//  1. Keep OK not as zero so you know someone affirmatively picked it
//  2. Don't overlap with HTTP error codes so people know that these are different
const (
	OK StatusCode = 600

	// Client-caused error responses
	BadRequest StatusCode = 700
	NotFound   StatusCode = 703
	Conflict   StatusCode = 704

	// Server-caused error responses
	InternalServerError StatusCode = 800
	NotImplemented      StatusCode = 801
	Unavailable         StatusCode = 802
	UnknownError        StatusCode = 803
)

var names = map[StatusCode]string{
	OK:                  "OK",
	BadRequest:          "BadRequest",
	NotFound:            "NotFound",
	Conflict:            "Conflict",
	InternalServerError: "InternalServerError",
	NotImplemented:      "NotImplemented",
	Unavailable:         "Unavailable",
	UnknownError:        "UnknownError",
}

// String implements fmt.Stringer.
func (re StatusCode) String() string {
	if s, ok := names[re]; ok {
		return s
	}
	return fmt.Sprintf("StatusCode(%d)", int(re))
}

type StatusCategory int

const (
	CategoryOK          StatusCategory = 1
	CategoryClientError StatusCategory = 2
	CategoryServerError StatusCategory = 3
)

// String implements fmt.Stringer.
func (c StatusCategory) String() string {
	switch c {
	case CategoryOK:
		return "CategoryOK"
	case CategoryClientError:
		return "CategoryClientError"
	default:
		return "CategoryServerError"
	}
}

// Category returns the category a code belongs to.
func (re StatusCode) Category() StatusCategory {
	if re >= 600 && re <= 699 {
		return CategoryOK
	}
	if re >= 700 && re <= 799 {
		return CategoryClientError
	}
	return CategoryServerError
}

// HTTPStatus returns the HTTP status used to transport the code.
func (re StatusCode) HTTPStatus() int {
	switch re {
	case OK:
		return http.StatusOK
	case BadRequest:
		return http.StatusBadRequest
	case NotFound:
		return http.StatusNotFound
	case Conflict:
		return http.StatusConflict
	case NotImplemented:
		return http.StatusNotImplemented
	case Unavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// FromHTTPStatus is the inverse of HTTPStatus.
func FromHTTPStatus(status int) StatusCode {
	switch {
	case status >= 200 && status < 300:
		return OK
	case status == http.StatusBadRequest:
		return BadRequest
	case status == http.StatusNotFound:
		return NotFound
	case status == http.StatusConflict:
		return Conflict
	case status == http.StatusNotImplemented:
		return NotImplemented
	case status == http.StatusServiceUnavailable, status == http.StatusBadGateway, status == http.StatusGatewayTimeout:
		return Unavailable
	case status == http.StatusInternalServerError:
		return InternalServerError
	default:
		return UnknownError
	}
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (re *StatusCode) UnmarshalText(text []byte) error {
	code, ok := FromString(string(text))
	if !ok {
		return fmt.Errorf("invalid StatusCode '%s'", string(text))
	}
	*re = code
	return nil
}

// FromString parses the String form of a code.
func FromString(s string) (StatusCode, bool) {
	for code, name := range names {
		if name == s {
			return code, true
		}
	}
	return UnknownError, false
}
