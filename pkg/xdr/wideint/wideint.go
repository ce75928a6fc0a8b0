// Package wideint converts between arbitrary-precision integers and the
// fixed-width parts used to carry 64, 128 and 256 bit XDR integers.
//
// Parts are ordered lowest slice first: parts[0] holds the least significant
// slice and parts[len-1] the most significant one. The wire order (most
// significant chunk first) is handled by the xdr package, not here.
//
// This package performs no I/O.
package wideint

import (
	"fmt"
	"math/big"
)

// RangeError reports an invalid width or a value outside the representable
// range of a width/signedness pair.
type RangeError struct {
	Message string
}

func (e *RangeError) Error() string {
	return "wideint: " + e.Message
}

// TypeError reports a part that cannot be interpreted as an integer.
type TypeError struct {
	Value any
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("wideint: cannot convert %v (%T) to an integer", e.Value, e.Value)
}

func rangeErrorf(format string, args ...any) error {
	return &RangeError{Message: fmt.Sprintf(format, args...)}
}

// Bounds returns the inclusive [min, max] range for an integer of the given
// width: [0, 2^width-1] when unsigned, [-2^(width-1), 2^(width-1)-1] otherwise.
func Bounds(width int, unsigned bool) (min, max *big.Int) {
	one := big.NewInt(1)
	if unsigned {
		max = new(big.Int).Lsh(one, uint(width))
		max.Sub(max, one)
		return new(big.Int), max
	}
	half := new(big.Int).Lsh(one, uint(width-1))
	min = new(big.Int).Neg(half)
	max = new(big.Int).Sub(half, one)
	return min, max
}

// Encode combines parts into a single integer of totalBits.
//
// Each part is reduced modulo 2^slice where slice = totalBits/len(parts), so
// -1 stands for a slice of all ones. Part i is shifted left by i*slice. The
// combined bits are read back as a two's complement value unless unsigned.
//
// A single part is the value itself and is range checked without wrapping,
// so a negative single part is rejected for unsigned types. Multi-part
// values rely on the per-slice wraparound instead.
func Encode(parts []any, totalBits int, unsigned bool) (*big.Int, error) {
	if len(parts) == 0 {
		return nil, rangeErrorf("no parts supplied for a %d-bit integer", totalBits)
	}
	if totalBits%len(parts) != 0 {
		return nil, rangeErrorf("%d parts do not evenly divide %d bits", len(parts), totalBits)
	}
	slice := totalBits / len(parts)
	switch slice {
	case 32, 64, 128, 256:
	default:
		return nil, rangeErrorf("expected slices of 32, 64, 128 or 256 bits, got %d bits x %d parts", totalBits, len(parts))
	}

	values := make([]*big.Int, len(parts))
	for i, p := range parts {
		v, err := ToBig(p)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}

	min, max := Bounds(totalBits, unsigned)
	if len(values) == 1 {
		if unsigned && values[0].Sign() < 0 {
			return nil, rangeErrorf("expected a positive value, got %s", values[0])
		}
		// A single part is the value itself and must not wrap.
		if values[0].Cmp(min) < 0 || values[0].Cmp(max) > 0 {
			return nil, rangeErrorf("value %s out of range [%s, %s] for %s", values[0], min, max, label(totalBits, unsigned))
		}
		return values[0], nil
	}

	result := new(big.Int)
	for i, v := range values {
		chunk := truncUnsigned(v, slice)
		chunk.Lsh(chunk, uint(i*slice))
		result.Or(result, chunk)
	}
	if !unsigned {
		result = truncSigned(result, totalBits)
	}

	if result.Cmp(min) < 0 || result.Cmp(max) > 0 {
		return nil, rangeErrorf("value %s out of range [%s, %s] for %s", result, min, max, label(totalBits, unsigned))
	}
	return result, nil
}

// Decompose splits value into totalBits/sliceBits slices, lowest first. Each
// slice is re-signed at sliceBits.
func Decompose(value *big.Int, totalBits, sliceBits int) ([]*big.Int, error) {
	if value == nil {
		return nil, &TypeError{Value: value}
	}
	switch sliceBits {
	case 32, 64, 128:
	default:
		return nil, rangeErrorf("expected slices of 32, 64 or 128 bits, got %d", sliceBits)
	}
	if totalBits%sliceBits != 0 {
		return nil, rangeErrorf("cannot slice %d bits into %d-bit parts", totalBits, sliceBits)
	}
	total := totalBits / sliceBits
	if total == 1 {
		return []*big.Int{new(big.Int).Set(value)}, nil
	}
	if total != 2 && total != 4 && total != 8 {
		return nil, rangeErrorf("invalid slice of %d bits for a %d-bit integer", sliceBits, totalBits)
	}

	rest := new(big.Int).Set(value)
	parts := make([]*big.Int, total)
	for i := range parts {
		parts[i] = truncSigned(rest, sliceBits)
		// Rsh on a negative big.Int rounds toward -inf, matching an
		// arithmetic shift.
		rest.Rsh(rest, uint(sliceBits))
	}
	return parts, nil
}

// ToBig converts a supported Go value to a new *big.Int.
//
// Accepted: all signed and unsigned integer kinds, *big.Int, big.Int,
// *Value, and strings parsed with big.Int.SetString base 0.
func ToBig(v any) (*big.Int, error) {
	switch x := v.(type) {
	case int:
		return big.NewInt(int64(x)), nil
	case int8:
		return big.NewInt(int64(x)), nil
	case int16:
		return big.NewInt(int64(x)), nil
	case int32:
		return big.NewInt(int64(x)), nil
	case int64:
		return big.NewInt(x), nil
	case uint:
		return new(big.Int).SetUint64(uint64(x)), nil
	case uint8:
		return new(big.Int).SetUint64(uint64(x)), nil
	case uint16:
		return new(big.Int).SetUint64(uint64(x)), nil
	case uint32:
		return new(big.Int).SetUint64(uint64(x)), nil
	case uint64:
		return new(big.Int).SetUint64(x), nil
	case *big.Int:
		if x == nil {
			return nil, &TypeError{Value: v}
		}
		return new(big.Int).Set(x), nil
	case big.Int:
		return new(big.Int).Set(&x), nil
	case *Value:
		if x == nil {
			return nil, &TypeError{Value: v}
		}
		return x.Big(), nil
	case string:
		n, ok := new(big.Int).SetString(x, 0)
		if !ok {
			return nil, &TypeError{Value: v}
		}
		return n, nil
	default:
		return nil, &TypeError{Value: v}
	}
}

// truncUnsigned returns v mod 2^bits as a non-negative integer.
func truncUnsigned(v *big.Int, bits int) *big.Int {
	mod := new(big.Int).Lsh(big.NewInt(1), uint(bits))
	r := new(big.Int).Mod(v, mod) // Euclidean: always in [0, mod)
	return r
}

// truncSigned returns the two's complement reading of the low bits of v.
func truncSigned(v *big.Int, bits int) *big.Int {
	r := truncUnsigned(v, bits)
	if r.Bit(bits-1) == 1 {
		r.Sub(r, new(big.Int).Lsh(big.NewInt(1), uint(bits)))
	}
	return r
}

func label(size int, unsigned bool) string {
	if unsigned {
		return fmt.Sprintf("u%d", size)
	}
	return fmt.Sprintf("i%d", size)
}
