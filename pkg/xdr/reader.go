package xdr

import (
	"encoding/binary"
	"math"
)

// Reader is a cursor over an immutable byte slice.
//
// Every read advances the cursor; reading past the end is a ReadError. A
// Reader is owned by a single decode call and is not safe for concurrent use.
type Reader struct {
	buf    []byte
	offset int
}

// NewReader creates a Reader positioned at the start of data. The slice is
// never modified.
func NewReader(data []byte) *Reader {
	return &Reader{buf: data}
}

// Padding returns the number of zero bytes that follow n bytes of payload:
// (4 - n%4) % 4.
func Padding(n int) int {
	return (4 - n%4) % 4
}

// take advances the cursor by n bytes and returns them without copying.
func (r *Reader) take(n int) ([]byte, error) {
	if n < 0 || n > len(r.buf)-r.offset {
		return nil, readErrorf("attempt to read %d bytes at offset %d outside the boundary of a %d byte buffer", n, r.offset, len(r.buf))
	}
	b := r.buf[r.offset : r.offset+n]
	r.offset += n
	return b, nil
}

// ReadFixed reads n payload bytes followed by their XDR padding. Every
// padding byte must be zero.
//
// The returned slice is a copy and may be retained by the caller.
func (r *Reader) ReadFixed(n int) ([]byte, error) {
	data, err := r.take(n)
	if err != nil {
		return nil, err
	}
	pad := Padding(n)
	if pad > 0 {
		padBytes, err := r.take(pad)
		if err != nil {
			return nil, err
		}
		for _, b := range padBytes {
			if b != 0 {
				return nil, readErrorf("invalid padding at offset %d", r.offset-pad)
			}
		}
	}
	out := make([]byte, n)
	copy(out, data)
	return out, nil
}

// ReadInt32 reads a big-endian signed 32-bit integer.
func (r *Reader) ReadInt32() (int32, error) {
	v, err := r.ReadUint32()
	return int32(v), err
}

// ReadUint32 reads a big-endian unsigned 32-bit integer.
func (r *Reader) ReadUint32() (uint32, error) {
	b, err := r.take(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

// ReadInt64 reads a big-endian signed 64-bit integer.
func (r *Reader) ReadInt64() (int64, error) {
	v, err := r.ReadUint64()
	return int64(v), err
}

// ReadUint64 reads a big-endian unsigned 64-bit integer.
func (r *Reader) ReadUint64() (uint64, error) {
	b, err := r.take(8)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b), nil
}

// ReadFloat32 reads a big-endian IEEE-754 single precision float.
func (r *Reader) ReadFloat32() (float32, error) {
	v, err := r.ReadUint32()
	return math.Float32frombits(v), err
}

// ReadFloat64 reads a big-endian IEEE-754 double precision float.
func (r *Reader) ReadFloat64() (float64, error) {
	v, err := r.ReadUint64()
	return math.Float64frombits(v), err
}

// EOF reports whether every byte has been consumed.
func (r *Reader) EOF() bool {
	return r.offset == len(r.buf)
}

// Offset returns the cursor position.
func (r *Reader) Offset() int {
	return r.offset
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.buf) - r.offset
}

// EnsureConsumed fails when unread bytes remain. Top-level decodes call it to
// detect input that was encoded as a different type.
func (r *Reader) EnsureConsumed() error {
	if !r.EOF() {
		return readErrorf("invalid XDR contract typecast: source buffer not entirely consumed (%d of %d bytes left)", r.Remaining(), len(r.buf))
	}
	return nil
}
