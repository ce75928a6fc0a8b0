package wideint

import (
	"math"
	"math/big"
)

// Value is an immutable integer carrying its declared width and signedness.
// The backing integer always lies within Bounds(Size(), Unsigned()).
type Value struct {
	size     int
	unsigned bool
	v        *big.Int
}

// New builds a Value of the given width from one or more parts (see Encode).
func New(size int, unsigned bool, parts ...any) (*Value, error) {
	if err := checkSize(size); err != nil {
		return nil, err
	}
	n, err := Encode(parts, size, unsigned)
	if err != nil {
		return nil, err
	}
	return &Value{size: size, unsigned: unsigned, v: n}, nil
}

// MustNew is like New but panics on error. Intended for constants and tests.
func MustNew(size int, unsigned bool, parts ...any) *Value {
	v, err := New(size, unsigned, parts...)
	if err != nil {
		panic(err)
	}
	return v
}

// FromBig wraps n without slicing. n must already lie in range.
func FromBig(size int, unsigned bool, n *big.Int) (*Value, error) {
	if err := checkSize(size); err != nil {
		return nil, err
	}
	if n == nil {
		return nil, &TypeError{Value: n}
	}
	min, max := Bounds(size, unsigned)
	if n.Cmp(min) < 0 || n.Cmp(max) > 0 {
		return nil, rangeErrorf("value %s out of range [%s, %s] for %s", n, min, max, label(size, unsigned))
	}
	return &Value{size: size, unsigned: unsigned, v: new(big.Int).Set(n)}, nil
}

// Min returns the smallest value of the width/signedness pair.
func Min(size int, unsigned bool) *Value {
	min, _ := Bounds(size, unsigned)
	return &Value{size: size, unsigned: unsigned, v: min}
}

// Max returns the largest value of the width/signedness pair.
func Max(size int, unsigned bool) *Value {
	_, max := Bounds(size, unsigned)
	return &Value{size: size, unsigned: unsigned, v: max}
}

func checkSize(size int) error {
	switch size {
	case 64, 128, 256:
		return nil
	default:
		return rangeErrorf("unsupported integer width %d", size)
	}
}

// Size returns the declared width in bits.
func (x *Value) Size() int { return x.size }

// Unsigned reports whether the value is of an unsigned type.
func (x *Value) Unsigned() bool { return x.unsigned }

// Big returns a copy of the backing integer.
func (x *Value) Big() *big.Int { return new(big.Int).Set(x.v) }

// Sign returns -1, 0 or +1.
func (x *Value) Sign() int { return x.v.Sign() }

func (x *Value) String() string { return x.v.String() }

// Slice splits the value into size/sliceBits signed parts, lowest first.
func (x *Value) Slice(sliceBits int) ([]*big.Int, error) {
	return Decompose(x.v, x.size, sliceBits)
}

// Int64 returns the value as an int64 when it fits.
func (x *Value) Int64() (int64, error) {
	if !x.v.IsInt64() {
		return 0, rangeErrorf("%s overflows int64", x.v)
	}
	return x.v.Int64(), nil
}

// Uint64 returns the value as a uint64 when it fits.
func (x *Value) Uint64() (uint64, error) {
	if !x.v.IsUint64() {
		return 0, rangeErrorf("%s overflows uint64", x.v)
	}
	return x.v.Uint64(), nil
}

// Float64 returns the nearest float64, saturating to ±Inf.
func (x *Value) Float64() float64 {
	f, _ := new(big.Float).SetInt(x.v).Float64()
	if math.IsNaN(f) {
		return 0
	}
	return f
}

// Cmp compares the numeric values of x and y, ignoring width.
func (x *Value) Cmp(y *Value) int { return x.v.Cmp(y.v) }

// Equal reports whether x and y have the same width, signedness and value.
func (x *Value) Equal(y *Value) bool {
	if x == nil || y == nil {
		return x == y
	}
	return x.size == y.size && x.unsigned == y.unsigned && x.v.Cmp(y.v) == 0
}
