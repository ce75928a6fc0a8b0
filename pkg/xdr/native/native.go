// Package native bridges schema-driven values and plain Go structs.
//
// Plain structs are encoded by reflection with github.com/rasky/go-xdr: field
// order is wire order, int32/uint32/int64/uint64/bool/float types map to the
// XDR primitives, string and []byte are length-prefixed, [N]byte is fixed
// opaque data and slices are variable-length arrays. Because both codecs emit
// canonical XDR, a Go struct and a schema struct with the same layout
// produce identical bytes and can be converted into each other.
package native

import (
	"bytes"
	"fmt"

	goxdr "github.com/rasky/go-xdr/xdr2"

	"github.com/marmos91/xdrkit/pkg/xdr"
)

// Marshal encodes a Go value with the reflection codec.
func Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := goxdr.Marshal(&buf, v); err != nil {
		return nil, xdr.NewError(xdr.WriteError, err, "marshal %T", v)
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes data into the Go value pointed to by v. Like
// xdr.FromXDR, the input must be consumed entirely.
func Unmarshal(data []byte, v any) error {
	r := bytes.NewReader(data)
	if _, err := goxdr.Unmarshal(r, v); err != nil {
		return xdr.NewError(xdr.ReadError, err, "unmarshal %T", v)
	}
	if r.Len() != 0 {
		return xdr.NewError(xdr.ReadError, nil,
			"invalid XDR contract typecast: source buffer not entirely consumed (%d of %d bytes left)", r.Len(), len(data))
	}
	return nil
}

// ToValue encodes a Go value and decodes the bytes through t, producing the
// schema representation (for example a *xdr.StructValue).
func ToValue(t xdr.Type, goValue any) (any, error) {
	data, err := Marshal(goValue)
	if err != nil {
		return nil, err
	}
	v, err := xdr.FromXDR(t, data, xdr.FormatRaw)
	if err != nil {
		return nil, fmt.Errorf("decode %T as %s: %w", goValue, xdr.TypeName(t), err)
	}
	return v, nil
}

// FromValue encodes a schema value with t and decodes the bytes into the Go
// value pointed to by out.
func FromValue(t xdr.Type, value any, out any) error {
	data, err := xdr.ToXDR(t, value, xdr.FormatRaw)
	if err != nil {
		return err
	}
	if err := Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s into %T: %w", xdr.TypeName(t), out, err)
	}
	return nil
}
