package xdr

import (
	"encoding/binary"
	"math"

	"github.com/marmos91/xdrkit/pkg/bufpool"
)

// ChunkSize is the growth increment of a Writer's backing buffer.
const ChunkSize = bufpool.ChunkSize

// Writer is a growable byte sink.
//
// The backing buffer is over-allocated: capacity is always a multiple of
// ChunkSize and never smaller than the number of bytes written. A Writer
// accumulates across any number of writes by one caller and is not safe for
// concurrent use.
type Writer struct {
	buf []byte
}

// NewWriter creates a Writer with one chunk of capacity.
func NewWriter() *Writer {
	return NewWriterSize(ChunkSize)
}

// NewWriterSize creates a Writer with capacity for at least n bytes.
func NewWriterSize(n int) *Writer {
	return &Writer{buf: bufpool.Get(n)}
}

// grow makes room for n more bytes and returns the slice to fill.
func (w *Writer) grow(n int) []byte {
	if w.buf == nil {
		w.buf = bufpool.Get(n)
	}
	start := len(w.buf)
	need := start + n
	if need > cap(w.buf) {
		next := bufpool.Get(bufpool.RoundUp(need))
		next = append(next, w.buf...)
		bufpool.Put(w.buf)
		w.buf = next
	}
	w.buf = w.buf[:need]
	return w.buf[start:need]
}

// WriteFixed writes data followed by zero padding up to a 4-byte boundary.
func (w *Writer) WriteFixed(data []byte) {
	pad := Padding(len(data))
	dst := w.grow(len(data) + pad)
	n := copy(dst, data)
	clear(dst[n:])
}

// WriteInt32 writes a big-endian signed 32-bit integer.
func (w *Writer) WriteInt32(v int32) {
	w.WriteUint32(uint32(v))
}

// WriteUint32 writes a big-endian unsigned 32-bit integer.
func (w *Writer) WriteUint32(v uint32) {
	binary.BigEndian.PutUint32(w.grow(4), v)
}

// WriteInt64 writes a big-endian signed 64-bit integer.
func (w *Writer) WriteInt64(v int64) {
	w.WriteUint64(uint64(v))
}

// WriteUint64 writes a big-endian unsigned 64-bit integer.
func (w *Writer) WriteUint64(v uint64) {
	binary.BigEndian.PutUint64(w.grow(8), v)
}

// WriteFloat32 writes a big-endian IEEE-754 single precision float.
func (w *Writer) WriteFloat32(v float32) {
	w.WriteUint32(math.Float32bits(v))
}

// WriteFloat64 writes a big-endian IEEE-754 double precision float.
func (w *Writer) WriteFloat64(v float64) {
	w.WriteUint64(math.Float64bits(v))
}

// Len returns the number of bytes written so far.
func (w *Writer) Len() int {
	return len(w.buf)
}

// Cap returns the current capacity of the backing buffer.
func (w *Writer) Cap() int {
	return cap(w.buf)
}

// Bytes returns a copy of exactly the bytes written, never the spare
// capacity. The Writer remains usable afterwards.
func (w *Writer) Bytes() []byte {
	out := make([]byte, len(w.buf))
	copy(out, w.buf)
	return out
}

// Truncate discards everything written after the first n bytes.
func (w *Writer) Truncate(n int) {
	if n < 0 || n > len(w.buf) {
		return
	}
	w.buf = w.buf[:n]
}

// Release hands the backing buffer back to the pool. The Writer is empty
// afterwards and may be reused.
func (w *Writer) Release() {
	bufpool.Put(w.buf)
	w.buf = nil
}
