package xdr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpaque(t *testing.T) {
	typ := NewOpaque(3)

	assert.Equal(t, "01020300", encodeHex(t, typ, []byte{1, 2, 3}))

	v, err := decodeHex(t, typ, "01020300")
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, v)

	_, err = decodeHex(t, typ, "01020309")
	assert.True(t, IsReadError(err), "non-zero padding must be rejected")

	assert.False(t, typ.IsValid([]byte{1, 2}))
	assert.True(t, IsWriteError(typ.Write([]byte{1, 2, 3, 4}, NewWriter())))
}

func TestVarOpaque(t *testing.T) {
	typ := NewVarOpaque(4)

	assert.Equal(t, "00000002"+"aabb0000", encodeHex(t, typ, []byte{0xaa, 0xbb}))
	assert.Equal(t, "00000000", encodeHex(t, typ, []byte{}))

	v, err := decodeHex(t, typ, "00000002aabb0000")
	require.NoError(t, err)
	assert.Equal(t, []byte{0xaa, 0xbb}, v)

	t.Run("LengthAboveMax", func(t *testing.T) {
		_, err := decodeHex(t, typ, "00000005"+"0102030405000000")
		require.Error(t, err)
		assert.True(t, IsReadError(err))

		err = typ.Write([]byte{1, 2, 3, 4, 5}, NewWriter())
		assert.True(t, IsWriteError(err))
	})

	t.Run("BadPadding", func(t *testing.T) {
		_, err := decodeHex(t, typ, "00000001"+"aa000100")
		assert.True(t, IsReadError(err))
	})
}

func TestString(t *testing.T) {
	typ := NewString(8)

	assert.Equal(t, "00000005"+"68656c6c6f000000", encodeHex(t, typ, "hello"))
	assert.Equal(t, "00000002"+"68690000", encodeHex(t, typ, []byte("hi")))

	v, err := decodeHex(t, typ, "0000000568656c6c6f000000")
	require.NoError(t, err)
	assert.Equal(t, "hello", v)

	_, err = decodeHex(t, typ, "0000000168010000")
	assert.True(t, IsReadError(err), "non-zero padding must be rejected")

	// The ceiling counts bytes, not runes.
	assert.True(t, typ.IsValid("ééé"))
	assert.False(t, typ.IsValid("ééééé"))
	assert.False(t, typ.IsValid(5))
}

func TestArray(t *testing.T) {
	typ := NewArray(Int, 2)

	assert.Equal(t, "0000000100000002", encodeHex(t, typ, []any{1, 2}))

	v, err := decodeHex(t, typ, "0000000100000002")
	require.NoError(t, err)
	assert.Equal(t, []any{int32(1), int32(2)}, v)

	assert.True(t, IsWriteError(typ.Write([]any{1}, NewWriter())))
	assert.False(t, typ.IsValid([]any{1, 2, 3}))
	assert.False(t, typ.IsValid([]any{1, "x"}))
	assert.False(t, typ.IsValid([]int{1, 2}))
}

func TestVarArray(t *testing.T) {
	typ := NewVarArray(Int, 2)

	assert.Equal(t, "00000002"+"0000000a0000000b", encodeHex(t, typ, []any{10, 11}))
	assert.Equal(t, "00000000", encodeHex(t, typ, []any{}))

	v, err := decodeHex(t, typ, "000000020000000a0000000b")
	require.NoError(t, err)
	assert.Equal(t, []any{int32(10), int32(11)}, v)

	t.Run("CountAboveMax", func(t *testing.T) {
		_, err := decodeHex(t, typ, "00000003"+"000000010000000200000003")
		require.Error(t, err)
		assert.True(t, IsReadError(err))

		err = typ.Write([]any{1, 2, 3}, NewWriter())
		assert.True(t, IsWriteError(err))
	})

	t.Run("HugeCountTruncatedInput", func(t *testing.T) {
		big := NewVarArray(Int, MaxLength)
		_, err := decodeHex(t, big, "ffffffff00000001")
		assert.True(t, IsReadError(err))
	})

	t.Run("BadElement", func(t *testing.T) {
		w := NewWriter()
		defer w.Release()
		err := typ.Write([]any{1, "two"}, w)
		assert.True(t, IsWriteError(err))
		assert.Contains(t, err.Error(), "element 1")
		assert.Equal(t, 0, w.Len(), "count and first element are rolled back")

		require.NoError(t, typ.Write([]any{3}, w))
		assert.Equal(t, []byte{0, 0, 0, 1, 0, 0, 0, 3}, w.Bytes())
	})
}

func TestOption(t *testing.T) {
	typ := NewOption(Int)

	assert.Equal(t, "00000000", encodeHex(t, typ, nil))
	assert.Equal(t, "0000000100000007", encodeHex(t, typ, 7))

	v, err := decodeHex(t, typ, "00000000")
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = decodeHex(t, typ, "0000000100000007")
	require.NoError(t, err)
	assert.Equal(t, int32(7), v)

	_, err = decodeHex(t, typ, "00000002")
	assert.True(t, IsReadError(err), "presence flag is a bool")

	assert.True(t, typ.IsValid(nil))
	assert.False(t, typ.IsValid("x"))

	t.Run("FailedChildDropsFlag", func(t *testing.T) {
		w := NewWriter()
		defer w.Release()
		assert.True(t, IsWriteError(typ.Write("x", w)))
		assert.Equal(t, 0, w.Len())
	})
}

func TestNestedComposite(t *testing.T) {
	typ := NewVarArray(NewOption(NewString(4)), MaxLength)
	in := []any{"ab", nil, "abcd"}

	got := encodeHex(t, typ, in)
	assert.Equal(t, "00000003"+"00000001"+"00000002"+"61620000"+"00000000"+"00000001"+"00000004"+"61626364", got)

	v, err := decodeHex(t, typ, got)
	require.NoError(t, err)
	assert.Equal(t, in, v)
}
