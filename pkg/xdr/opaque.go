package xdr

import (
	"fmt"
)

// ============================================================================
// Fixed-length opaque data (RFC 4506 Section 4.9)
// ============================================================================

// OpaqueType is a fixed n-byte blob: [data:n bytes][padding:0-3 bytes].
type OpaqueType struct {
	length int
}

// NewOpaque returns the descriptor for opaque[n].
func NewOpaque(n uint32) *OpaqueType {
	return &OpaqueType{length: int(n)}
}

// Length returns the fixed byte length.
func (t *OpaqueType) Length() int { return t.length }

func (t *OpaqueType) String() string { return fmt.Sprintf("opaque[%d]", t.length) }

func (t *OpaqueType) Read(r *Reader) (any, error) {
	return r.ReadFixed(t.length)
}

func (t *OpaqueType) Write(v any, w *Writer) error {
	b, ok := v.([]byte)
	if !ok || len(b) != t.length {
		return writeErrorf("%s expects exactly %d bytes, got %s", t, t.length, describeLen(v))
	}
	w.WriteFixed(b)
	return nil
}

func (t *OpaqueType) IsValid(v any) bool {
	b, ok := v.([]byte)
	return ok && len(b) == t.length
}

// ============================================================================
// Variable-length opaque data (RFC 4506 Section 4.10)
// ============================================================================

// VarOpaqueType is [length:uint32][data:length bytes][padding:0-3 bytes]
// with length bounded by a declared maximum.
type VarOpaqueType struct {
	max uint32
}

// NewVarOpaque returns the descriptor for opaque<max>.
func NewVarOpaque(max uint32) *VarOpaqueType {
	return &VarOpaqueType{max: max}
}

// MaxLength returns the declared ceiling.
func (t *VarOpaqueType) MaxLength() uint32 { return t.max }

func (t *VarOpaqueType) String() string { return fmt.Sprintf("opaque<%d>", t.max) }

func (t *VarOpaqueType) Read(r *Reader) (any, error) {
	return readVarBytes(r, t.max, "opaque")
}

func (t *VarOpaqueType) Write(v any, w *Writer) error {
	b, ok := v.([]byte)
	if !ok {
		return writeErrorf("%v (%T) is not opaque data", v, v)
	}
	return writeVarBytes(w, b, t.max, "opaque")
}

func (t *VarOpaqueType) IsValid(v any) bool {
	b, ok := v.([]byte)
	return ok && uint64(len(b)) <= uint64(t.max)
}

// ============================================================================
// String (RFC 4506 Section 4.11)
// ============================================================================

// StringType has the same wire shape as VarOpaqueType and decodes to a Go
// string. The maximum is a byte count, not a character count.
type StringType struct {
	max uint32
}

// NewString returns the descriptor for string<max>.
func NewString(max uint32) *StringType {
	return &StringType{max: max}
}

// MaxLength returns the declared ceiling in bytes.
func (t *StringType) MaxLength() uint32 { return t.max }

func (t *StringType) String() string { return fmt.Sprintf("string<%d>", t.max) }

func (t *StringType) Read(r *Reader) (any, error) {
	b, err := readVarBytes(r, t.max, "string")
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (t *StringType) Write(v any, w *Writer) error {
	switch s := v.(type) {
	case string:
		return writeVarBytes(w, []byte(s), t.max, "string")
	case []byte:
		return writeVarBytes(w, s, t.max, "string")
	default:
		return writeErrorf("%v (%T) is not a string", v, v)
	}
}

func (t *StringType) IsValid(v any) bool {
	switch s := v.(type) {
	case string:
		return uint64(len(s)) <= uint64(t.max)
	case []byte:
		return uint64(len(s)) <= uint64(t.max)
	default:
		return false
	}
}

// ============================================================================
// Shared helpers
// ============================================================================

func readVarBytes(r *Reader, max uint32, what string) ([]byte, error) {
	length, err := r.ReadUint32()
	if err != nil {
		return nil, fmt.Errorf("read %s length: %w", what, err)
	}
	if length > max {
		return nil, readErrorf("saw %d length %s, max allowed is %d", length, what, max)
	}
	data, err := r.ReadFixed(int(length))
	if err != nil {
		return nil, fmt.Errorf("read %s data: %w", what, err)
	}
	return data, nil
}

func writeVarBytes(w *Writer, b []byte, max uint32, what string) error {
	if uint64(len(b)) > uint64(max) {
		return writeErrorf("got %d bytes, max allowed %s length is %d", len(b), what, max)
	}
	w.WriteUint32(uint32(len(b)))
	w.WriteFixed(b)
	return nil
}

func describeLen(v any) string {
	if b, ok := v.([]byte); ok {
		return fmt.Sprintf("%d bytes", len(b))
	}
	return fmt.Sprintf("%T", v)
}
