// Copyright 2026 Outreach Corporation. All Rights Reserved.

// Description: Tests for level parsing and conversion.

package logevent

import (
	"log/slog"
	"testing"

	"github.com/pkg/errors"
	"gotest.tools/v3/assert"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{in: "error", want: Error},
		{in: "WARN", want: Warn},
		{in: "Warning", want: Warn},
		{in: " info ", want: Info},
		{in: "debug", want: Debug},
		{in: "TRACE", want: Trace},
		{in: "off", want: Off},
		{in: "all", want: All},
		{in: "verbose", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Assert(t, errors.Is(err, ErrUnknownLevel))
				return
			}
			assert.NilError(t, err)
			assert.Equal(t, got, tt.want)
		})
	}
}

func TestLevelInt(t *testing.T) {
	assert.Equal(t, Error.Int(), 40000)
	assert.Equal(t, Warn.Int(), 30000)
	assert.Equal(t, Info.Int(), 20000)
	assert.Equal(t, Debug.Int(), 10000)
	assert.Equal(t, Trace.Int(), 5000)
}

func TestFromSlog(t *testing.T) {
	assert.Equal(t, FromSlog(slog.LevelError+2), Error)
	assert.Equal(t, FromSlog(slog.LevelWarn), Warn)
	assert.Equal(t, FromSlog(slog.LevelInfo+1), Info)
	assert.Equal(t, FromSlog(slog.LevelDebug), Debug)
	assert.Equal(t, FromSlog(slog.Level(-8)), Trace)
	assert.Equal(t, Warn.Slog(), slog.LevelWarn)
}

func TestLevelText(t *testing.T) {
	b, err := Debug.MarshalText()
	assert.NilError(t, err)
	assert.Equal(t, string(b), "DEBUG")

	var l Level
	assert.NilError(t, l.UnmarshalText([]byte("trace")))
	assert.Equal(t, l, Trace)
	assert.Assert(t, l.UnmarshalText([]byte("nope")) != nil)
	assert.Assert(t, Trace.Known())
	assert.Assert(t, !Off.Known())
}
