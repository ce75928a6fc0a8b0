package xdr

import (
	"fmt"
	"math/big"

	"github.com/marmos91/xdrkit/pkg/xdr/wideint"
)

// Wide integer descriptors. Hyper and UnsignedHyper are the RFC 4506 64-bit
// types; the 128 and 256 bit variants are carried as 2 or 4 64-bit chunks,
// most significant chunk first.
var (
	Hyper          = WideInt(64, false)
	UnsignedHyper  = WideInt(64, true)
	Int128         = WideInt(128, false)
	UnsignedInt128 = WideInt(128, true)
	Int256         = WideInt(256, false)
	UnsignedInt256 = WideInt(256, true)
)

// WideIntType encodes integers of 64, 128 or 256 bits. Values are read as
// *wideint.Value.
type WideIntType struct {
	size     int
	unsigned bool
}

// WideInt returns the descriptor for the given width and signedness.
// It panics on widths other than 64, 128 and 256.
func WideInt(size int, unsigned bool) *WideIntType {
	switch size {
	case 64, 128, 256:
	default:
		panic(fmt.Sprintf("xdr: unsupported wide integer width %d", size))
	}
	return &WideIntType{size: size, unsigned: unsigned}
}

// Size returns the width in bits.
func (t *WideIntType) Size() int { return t.size }

// Unsigned reports whether the type is unsigned.
func (t *WideIntType) Unsigned() bool { return t.unsigned }

func (t *WideIntType) String() string {
	switch {
	case t.size == 64 && t.unsigned:
		return "unsigned hyper"
	case t.size == 64:
		return "hyper"
	case t.unsigned:
		return fmt.Sprintf("uint%d", t.size)
	default:
		return fmt.Sprintf("int%d", t.size)
	}
}

// New builds a value of this type from parts, lowest slice first.
func (t *WideIntType) New(parts ...any) (*wideint.Value, error) {
	return wideint.New(t.size, t.unsigned, parts...)
}

// MinValue returns the smallest representable value.
func (t *WideIntType) MinValue() *wideint.Value { return wideint.Min(t.size, t.unsigned) }

// MaxValue returns the largest representable value.
func (t *WideIntType) MaxValue() *wideint.Value { return wideint.Max(t.size, t.unsigned) }

func (t *WideIntType) Read(r *Reader) (any, error) {
	if t.size == 64 {
		if t.unsigned {
			v, err := r.ReadUint64()
			if err != nil {
				return nil, err
			}
			return wideint.FromBig(64, true, new(big.Int).SetUint64(v))
		}
		v, err := r.ReadInt64()
		if err != nil {
			return nil, err
		}
		return wideint.FromBig(64, false, big.NewInt(v))
	}

	// Wire order is most significant first; parts are lowest first.
	count := t.size / 64
	parts := make([]any, count)
	for i := count - 1; i >= 0; i-- {
		v, err := r.ReadUint64()
		if err != nil {
			return nil, err
		}
		parts[i] = v
	}
	v, err := wideint.New(t.size, t.unsigned, parts...)
	if err != nil {
		return nil, &Error{Kind: ReadError, Message: "decode " + t.String(), Err: err}
	}
	return v, nil
}

func (t *WideIntType) Write(v any, w *Writer) error {
	n, err := t.toBig(v)
	if err != nil {
		return &Error{Kind: WriteError, Message: fmt.Sprintf("%v (%T) is not a %s", v, v, t), Err: err}
	}

	if t.size == 64 {
		if t.unsigned {
			w.WriteUint64(n.Uint64())
		} else {
			w.WriteInt64(n.Int64())
		}
		return nil
	}

	parts, err := wideint.Decompose(n, t.size, 64)
	if err != nil {
		return &Error{Kind: WriteError, Message: "encode " + t.String(), Err: err}
	}
	for i := len(parts) - 1; i >= 0; i-- {
		if t.unsigned {
			w.WriteUint64(uint64(parts[i].Int64()))
		} else {
			w.WriteInt64(parts[i].Int64())
		}
	}
	return nil
}

func (t *WideIntType) IsValid(v any) bool {
	_, err := t.toBig(v)
	return err == nil
}

// toBig accepts a *wideint.Value of exactly this type, or any integer the
// wideint package can convert that lies within range.
func (t *WideIntType) toBig(v any) (*big.Int, error) {
	if x, ok := v.(*wideint.Value); ok {
		if x == nil {
			return nil, fmt.Errorf("nil value")
		}
		if x.Size() != t.size || x.Unsigned() != t.unsigned {
			return nil, fmt.Errorf("value has width %d unsigned=%t", x.Size(), x.Unsigned())
		}
		return x.Big(), nil
	}
	if _, ok := v.(string); ok {
		// Strings are accepted by the wideint constructors, not by Write.
		return nil, fmt.Errorf("strings must be converted with New")
	}
	n, err := wideint.ToBig(v)
	if err != nil {
		return nil, err
	}
	min, max := wideint.Bounds(t.size, t.unsigned)
	if n.Cmp(min) < 0 || n.Cmp(max) > 0 {
		return nil, fmt.Errorf("%s out of range [%s, %s]", n, min, max)
	}
	return n, nil
}
