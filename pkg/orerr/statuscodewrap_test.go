package orerr_test

import (
	"testing"

	"github.com/pkg/errors"
	"gotest.tools/v3/assert"

	"github.com/getoutreach/ilslog/pkg/orerr"
	"github.com/getoutreach/ilslog/pkg/statuscodes"
)

func TestStatusCodeWrapper(t *testing.T) {
	base := errors.New("no such logger")
	err := errors.Wrap(orerr.NewErrorStatus(base, statuscodes.NotFound), "lookup")

	assert.Assert(t, orerr.IsErrorStatusCode(err, statuscodes.NotFound))
	assert.Equal(t, orerr.ExtractErrorStatusCode(err), statuscodes.NotFound)
	assert.Equal(t, orerr.ExtractErrorStatusCode(base), statuscodes.UnknownError)
	assert.Equal(t, orerr.ExtractErrorStatusCode(nil), statuscodes.OK)
	assert.Assert(t, errors.Is(err, base))
	assert.Equal(t, err.Error(), "lookup: no such logger")
}

func TestErrorf(t *testing.T) {
	err := orerr.Errorf(statuscodes.BadRequest, "invalid crash buffer size %d", 0)
	assert.Equal(t, err.Error(), "invalid crash buffer size 0")
	assert.Equal(t, orerr.ExtractErrorStatusCode(err), statuscodes.BadRequest)
}
