package errors

import (
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapKeepsInnerCode(t *testing.T) {
	inner := SchemaMismatch("missing columns: Events")
	wrapped := Wrap(inner, "load dataset")

	assert.Equal(t, CodeSchemaMismatch, GetCode(wrapped))
	assert.True(t, HasCode(wrapped, CodeSchemaMismatch))
	assert.Equal(t, "load dataset: missing columns: Events", wrapped.Error())
}

func TestWrapForeignError(t *testing.T) {
	wrapped := Wrapf(io.ErrUnexpectedEOF, "read %s", "data.csv")

	assert.Equal(t, CodeInternalError, GetCode(wrapped))
	assert.ErrorIs(t, wrapped, io.ErrUnexpectedEOF)
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, "noop"))
	assert.Nil(t, Wrapf(nil, "noop %d", 1))
	assert.Nil(t, WithCode(CodeNotFound, nil))
}

func TestHasCodeThroughStdlibWrapping(t *testing.T) {
	err := fmt.Errorf("request failed: %w", DataUnavailable("dataset file not found", io.EOF))

	assert.True(t, HasCode(err, CodeDataUnavailable))
	assert.False(t, HasCode(err, CodeSchemaMismatch))
	assert.Equal(t, "UNKNOWN", GetCode(io.EOF))
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		err  *AppError
		code string
	}{
		{InvalidFilterRange(2021, 2019), CodeInvalidFilterRange},
		{EmptyResult("hierarchy"), CodeEmptyResult},
		{ConfigInvalid("bad"), CodeConfigInvalid},
		{InvalidInput("bad"), CodeInvalidInput},
		{NotFound("panel"), CodeNotFound},
		{InternalError("boom"), CodeInternalError},
	}

	for _, test := range tests {
		assert.Equal(t, test.code, test.err.Code)
	}
	assert.Equal(t, "year range lower bound 2021 exceeds upper bound 2019", InvalidFilterRange(2021, 2019).Error())
	assert.Equal(t, "panel not found", NotFound("panel").Error())
}
