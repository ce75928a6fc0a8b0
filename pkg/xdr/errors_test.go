package xdr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/marmos91/xdrkit/pkg/xdr/wideint"
	"github.com/stretchr/testify/assert"
)

func TestError_KindMatching(t *testing.T) {
	err := fmt.Errorf("decode Point: %w", readErrorf("invalid padding at offset 4"))

	assert.True(t, errors.Is(err, &Error{Kind: ReadError}))
	assert.False(t, errors.Is(err, &Error{Kind: WriteError}))
	assert.True(t, IsReadError(err))
	assert.False(t, IsDefinitionError(err))
	assert.False(t, IsReadError(errors.New("plain")))
}

func TestError_Message(t *testing.T) {
	err := definitionErrorf("duplicate name %q", "Foo")
	assert.Equal(t, `xdr definition error: duplicate name "Foo"`, err.Error())

	cause := errors.New("boom")
	wrapped := NewError(WriteError, cause, "encode %s", "Bar")
	assert.Equal(t, "xdr write error: encode Bar: boom", wrapped.Error())
	assert.ErrorIs(t, wrapped, cause)
}

func TestError_WideIntCauseReachable(t *testing.T) {
	_, err := decodeHex(t, Int128, "")
	assert.True(t, IsReadError(err))

	err = UnsignedInt128.Write(-1, NewWriter())
	assert.True(t, IsWriteError(err))

	_, err = UnsignedHyper.New(-1)
	var rangeErr *wideint.RangeError
	assert.ErrorAs(t, err, &rangeErr)
}
