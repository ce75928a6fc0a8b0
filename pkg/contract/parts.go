package contract

import (
	"fmt"
	"math/big"

	"github.com/marmos91/xdrkit/pkg/xdr"
	"github.com/marmos91/xdrkit/pkg/xdr/wideint"
)

// partFields lists the fields of each *Parts struct, lowest slice first.
var partFields = map[string][]string{
	"UInt128Parts": {"lo", "hi"},
	"Int128Parts":  {"lo", "hi"},
	"UInt256Parts": {"lo_lo", "lo_hi", "hi_lo", "hi_hi"},
	"Int256Parts":  {"lo_lo", "lo_hi", "hi_lo", "hi_hi"},
}

var two64 = new(big.Int).Lsh(big.NewInt(1), 64)

// I128 returns an SCV_I128 value.
func I128(v *wideint.Value) (*xdr.UnionValue, error) {
	return wideVal(v, 128, false, "Int128Parts", "SCV_I128")
}

// U128 returns an SCV_U128 value.
func U128(v *wideint.Value) (*xdr.UnionValue, error) {
	return wideVal(v, 128, true, "UInt128Parts", "SCV_U128")
}

// I256 returns an SCV_I256 value.
func I256(v *wideint.Value) (*xdr.UnionValue, error) {
	return wideVal(v, 256, false, "Int256Parts", "SCV_I256")
}

// U256 returns an SCV_U256 value.
func U256(v *wideint.Value) (*xdr.UnionValue, error) {
	return wideVal(v, 256, true, "UInt256Parts", "SCV_U256")
}

// wideVal splits v into 64-bit parts. Only the most significant part of a
// signed type keeps its sign; every other part is unsigned.
func wideVal(v *wideint.Value, size int, unsigned bool, structName, member string) (*xdr.UnionValue, error) {
	if v == nil {
		return nil, fmt.Errorf("%s: nil value", member)
	}
	if v.Size() != size || v.Unsigned() != unsigned {
		return nil, fmt.Errorf("%s needs a %d-bit %s value, got %d-bit unsigned=%t",
			member, size, signedness(unsigned), v.Size(), v.Unsigned())
	}

	slices, err := v.Slice(64)
	if err != nil {
		return nil, err
	}

	names := partFields[structName]
	fields := make(map[string]any, len(names))
	for i, name := range names {
		part := slices[i]
		top := i == len(names)-1
		if top && !unsigned {
			fields[name] = part.Int64()
			continue
		}
		if part.Sign() < 0 {
			part = new(big.Int).Add(part, two64)
		}
		fields[name] = part.Uint64()
	}

	parts, err := mustStruct(structName).New(fields)
	if err != nil {
		return nil, err
	}
	return Val().New(member, parts)
}

// BigFromParts converts an Int128Parts, UInt128Parts, Int256Parts or
// UInt256Parts struct value (or an SCVal carrying one) back into an integer.
func BigFromParts(v any) (*big.Int, error) {
	if uv, ok := v.(*xdr.UnionValue); ok {
		v = uv.Value()
	}
	sv, ok := v.(xdr.StructLike)
	if !ok {
		return nil, fmt.Errorf("%v (%T) is not an integer parts struct", v, v)
	}

	name := sv.XDRName()
	names, ok := partFields[name]
	if !ok {
		return nil, fmt.Errorf("%s is not an integer parts struct", name)
	}

	parts := make([]any, len(names))
	for i, field := range names {
		p, ok := sv.Lookup(field)
		if !ok {
			return nil, fmt.Errorf("%s.%s is not set", name, field)
		}
		parts[i] = p
	}

	size := 64 * len(names)
	unsigned := name[0] == 'U'
	return wideint.Encode(parts, size, unsigned)
}

func signedness(unsigned bool) string {
	if unsigned {
		return "unsigned"
	}
	return "signed"
}
