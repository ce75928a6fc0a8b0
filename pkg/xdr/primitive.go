package xdr

import (
	"math"
)

// Primitive descriptors. They are stateless and comparable.
var (
	Bool        Type = boolType{}
	Void        Type = voidType{}
	Int         Type = intType{}
	UnsignedInt Type = uintType{}
	Float       Type = floatType{}
	Double      Type = doubleType{}
)

// ============================================================================
// Bool
// ============================================================================

type boolType struct{}

func (boolType) String() string { return "bool" }

func (boolType) Read(r *Reader) (any, error) {
	v, err := r.ReadInt32()
	if err != nil {
		return nil, err
	}
	switch v {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return nil, readErrorf("got %d when trying to read a bool", v)
	}
}

func (t boolType) Write(v any, w *Writer) error {
	b, ok := v.(bool)
	if !ok {
		return writeErrorf("%v (%T) is not a bool", v, v)
	}
	if b {
		w.WriteInt32(1)
	} else {
		w.WriteInt32(0)
	}
	return nil
}

func (boolType) IsValid(v any) bool {
	_, ok := v.(bool)
	return ok
}

// ============================================================================
// Void
// ============================================================================

type voidType struct{}

func (voidType) String() string { return "void" }

func (voidType) Read(*Reader) (any, error) { return nil, nil }

func (voidType) Write(v any, _ *Writer) error {
	if v != nil {
		return writeErrorf("void expects no value, got %v (%T)", v, v)
	}
	return nil
}

func (voidType) IsValid(v any) bool { return v == nil }

// ============================================================================
// Int / UnsignedInt
// ============================================================================

type intType struct{}

func (intType) String() string { return "int" }

func (intType) Read(r *Reader) (any, error) {
	return r.ReadInt32()
}

func (intType) Write(v any, w *Writer) error {
	n, ok := toInt64(v)
	if !ok || n < math.MinInt32 || n > math.MaxInt32 {
		return writeErrorf("%v (%T) is not an int", v, v)
	}
	w.WriteInt32(int32(n))
	return nil
}

func (intType) IsValid(v any) bool {
	n, ok := toInt64(v)
	return ok && n >= math.MinInt32 && n <= math.MaxInt32
}

type uintType struct{}

func (uintType) String() string { return "unsigned int" }

func (uintType) Read(r *Reader) (any, error) {
	return r.ReadUint32()
}

func (uintType) Write(v any, w *Writer) error {
	n, ok := toInt64(v)
	if !ok || n < 0 || n > math.MaxUint32 {
		return writeErrorf("%v (%T) is not an unsigned int", v, v)
	}
	w.WriteUint32(uint32(n))
	return nil
}

func (uintType) IsValid(v any) bool {
	n, ok := toInt64(v)
	return ok && n >= 0 && n <= math.MaxUint32
}

// toInt64 converts Go integer kinds and integral floats. Values that do not
// fit an int64 (large uint64, non-integral or non-finite floats) fail.
func toInt64(v any) (int64, bool) {
	switch x := v.(type) {
	case int:
		return int64(x), true
	case int8:
		return int64(x), true
	case int16:
		return int64(x), true
	case int32:
		return int64(x), true
	case int64:
		return x, true
	case uint:
		return int64(x), uint64(x) <= math.MaxInt64
	case uint8:
		return int64(x), true
	case uint16:
		return int64(x), true
	case uint32:
		return int64(x), true
	case uint64:
		return int64(x), x <= math.MaxInt64
	case float32:
		return floatToInt64(float64(x))
	case float64:
		return floatToInt64(x)
	default:
		return 0, false
	}
}

func floatToInt64(f float64) (int64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}

// ============================================================================
// Float / Double
// ============================================================================

type floatType struct{}

func (floatType) String() string { return "float" }

func (floatType) Read(r *Reader) (any, error) {
	return r.ReadFloat32()
}

func (floatType) Write(v any, w *Writer) error {
	switch x := v.(type) {
	case float32:
		w.WriteFloat32(x)
	case float64:
		w.WriteFloat32(float32(x))
	default:
		return writeErrorf("%v (%T) is not a float", v, v)
	}
	return nil
}

func (floatType) IsValid(v any) bool {
	switch v.(type) {
	case float32, float64:
		return true
	}
	return false
}

type doubleType struct{}

func (doubleType) String() string { return "double" }

func (doubleType) Read(r *Reader) (any, error) {
	return r.ReadFloat64()
}

func (doubleType) Write(v any, w *Writer) error {
	switch x := v.(type) {
	case float64:
		w.WriteFloat64(x)
	case float32:
		w.WriteFloat64(float64(x))
	default:
		return writeErrorf("%v (%T) is not a double", v, v)
	}
	return nil
}

func (doubleType) IsValid(v any) bool {
	switch v.(type) {
	case float32, float64:
		return true
	}
	return false
}
