package xdr

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}

func TestPadding(t *testing.T) {
	tests := []struct {
		n    int
		want int
	}{
		{0, 0}, {1, 3}, {2, 2}, {3, 1}, {4, 0}, {5, 3}, {8, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Padding(tt.n), "Padding(%d)", tt.n)
	}
}

func TestReader_ReadFixed(t *testing.T) {
	t.Run("PayloadAndPadding", func(t *testing.T) {
		r := NewReader(mustHex(t, "aabbcc00"))
		b, err := r.ReadFixed(3)
		require.NoError(t, err)
		assert.Equal(t, []byte{0xaa, 0xbb, 0xcc}, b)
		assert.True(t, r.EOF())
	})

	t.Run("NonZeroPaddingRejected", func(t *testing.T) {
		r := NewReader(mustHex(t, "aabbcc01"))
		_, err := r.ReadFixed(3)
		require.Error(t, err)
		assert.True(t, IsReadError(err))
		assert.Contains(t, err.Error(), "invalid padding")
	})

	t.Run("MissingPadding", func(t *testing.T) {
		r := NewReader(mustHex(t, "aabbcc"))
		_, err := r.ReadFixed(3)
		assert.True(t, IsReadError(err))
	})

	t.Run("ReturnsCopy", func(t *testing.T) {
		src := mustHex(t, "01020304")
		r := NewReader(src)
		b, err := r.ReadFixed(4)
		require.NoError(t, err)
		b[0] = 0xff
		assert.Equal(t, byte(0x01), src[0])
	})
}

func TestReader_Overrun(t *testing.T) {
	r := NewReader([]byte{0, 0, 0})
	_, err := r.ReadInt32()
	require.Error(t, err)
	assert.True(t, IsReadError(err))
	assert.Equal(t, 0, r.Offset(), "failed read must not move the cursor")
}

func TestReader_Numbers(t *testing.T) {
	r := NewReader(mustHex(t, "fffffffe"+"00000002"+"8000000000000000"+"ffffffffffffffff"+"3f800000"+"4000000000000000"))

	i32, err := r.ReadInt32()
	require.NoError(t, err)
	assert.Equal(t, int32(-2), i32)

	u32, err := r.ReadUint32()
	require.NoError(t, err)
	assert.Equal(t, uint32(2), u32)

	i64, err := r.ReadInt64()
	require.NoError(t, err)
	assert.Equal(t, int64(-1<<63), i64)

	u64, err := r.ReadUint64()
	require.NoError(t, err)
	assert.Equal(t, uint64(1<<64-1), u64)

	f32, err := r.ReadFloat32()
	require.NoError(t, err)
	assert.Equal(t, float32(1), f32)

	f64, err := r.ReadFloat64()
	require.NoError(t, err)
	assert.Equal(t, float64(2), f64)

	assert.True(t, r.EOF())
	assert.Equal(t, 0, r.Remaining())
	assert.NoError(t, r.EnsureConsumed())
}

func TestReader_EnsureConsumed(t *testing.T) {
	r := NewReader(mustHex(t, "0000000100000002"))
	_, err := r.ReadInt32()
	require.NoError(t, err)

	err = r.EnsureConsumed()
	require.Error(t, err)
	assert.True(t, IsReadError(err))
	assert.Contains(t, err.Error(), "not entirely consumed")
}

func TestWriter_Basics(t *testing.T) {
	w := NewWriter()
	defer w.Release()

	w.WriteInt32(-2)
	w.WriteUint32(2)
	w.WriteFixed([]byte{0xaa, 0xbb, 0xcc})
	w.WriteInt64(-1)
	w.WriteFloat32(1)
	w.WriteFloat64(2)

	want := "fffffffe" + "00000002" + "aabbcc00" + "ffffffffffffffff" + "3f800000" + "4000000000000000"
	assert.Equal(t, want, hex.EncodeToString(w.Bytes()))
	assert.Equal(t, len(want)/2, w.Len())
}

func TestWriter_BytesIsTrimmedCopy(t *testing.T) {
	w := NewWriter()
	w.WriteUint32(7)

	b := w.Bytes()
	assert.Len(t, b, 4)
	assert.Equal(t, len(b), cap(b))

	b[3] = 0
	assert.Equal(t, []byte{0, 0, 0, 7}, w.Bytes())
}

func TestWriter_GrowsInChunks(t *testing.T) {
	w := NewWriter()
	defer w.Release()
	assert.Equal(t, 0, w.Cap()%ChunkSize)
	assert.GreaterOrEqual(t, w.Cap(), ChunkSize)

	payload := make([]byte, ChunkSize)
	for i := range payload {
		payload[i] = byte(i)
	}
	w.WriteFixed(payload)
	w.WriteUint32(0xdeadbeef)

	assert.Equal(t, ChunkSize+4, w.Len())
	assert.GreaterOrEqual(t, w.Cap(), w.Len())
	assert.Equal(t, 0, w.Cap()%ChunkSize, "capacity must stay a chunk multiple")

	out := w.Bytes()
	assert.Equal(t, payload, out[:ChunkSize])
	assert.Equal(t, []byte{0xde, 0xad, 0xbe, 0xef}, out[ChunkSize:])
}

func TestWriter_TruncateAndRelease(t *testing.T) {
	w := NewWriter()
	w.WriteUint32(1)
	w.WriteUint32(2)
	w.Truncate(4)
	assert.Equal(t, []byte{0, 0, 0, 1}, w.Bytes())

	w.Release()
	assert.Equal(t, 0, w.Len())

	// Reusable after release.
	w.WriteUint32(3)
	assert.Equal(t, []byte{0, 0, 0, 3}, w.Bytes())
}
