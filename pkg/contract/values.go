package contract

import (
	"errors"
	"fmt"

	"github.com/marmos91/xdrkit/pkg/xdr"
)

// ErrInvalidSymbol is returned for symbols that are too long or use
// characters outside [a-zA-Z0-9_].
var ErrInvalidSymbol = errors.New("invalid symbol")

// Bool returns an SCV_BOOL value.
func Bool(b bool) *xdr.UnionValue {
	return Val().MustNew("SCV_BOOL", b)
}

// Void returns the SCV_VOID value.
func Void() *xdr.UnionValue {
	return Val().MustNew("SCV_VOID", nil)
}

// U32 returns an SCV_U32 value.
func U32(n uint32) *xdr.UnionValue {
	return Val().MustNew("SCV_U32", n)
}

// I32 returns an SCV_I32 value.
func I32(n int32) *xdr.UnionValue {
	return Val().MustNew("SCV_I32", n)
}

// U64 returns an SCV_U64 value.
func U64(n uint64) *xdr.UnionValue {
	return Val().MustNew("SCV_U64", n)
}

// I64 returns an SCV_I64 value.
func I64(n int64) *xdr.UnionValue {
	return Val().MustNew("SCV_I64", n)
}

// Bytes returns an SCV_BYTES value.
func Bytes(b []byte) *xdr.UnionValue {
	return Val().MustNew("SCV_BYTES", b)
}

// String returns an SCV_STRING value.
func String(s string) *xdr.UnionValue {
	return Val().MustNew("SCV_STRING", s)
}

// Symbol returns an SCV_SYMBOL value after checking the symbol alphabet and
// length.
func Symbol(s string) (*xdr.UnionValue, error) {
	if err := ValidateSymbol(s); err != nil {
		return nil, err
	}
	return Val().New("SCV_SYMBOL", s)
}

// ValidateSymbol checks that s is at most SymbolLimit bytes of
// [a-zA-Z0-9_].
func ValidateSymbol(s string) error {
	if len(s) > SymbolLimit {
		return fmt.Errorf("%w: %q is longer than %d bytes", ErrInvalidSymbol, s, SymbolLimit)
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '_':
		default:
			return fmt.Errorf("%w: %q has character %q at %d", ErrInvalidSymbol, s, c, i)
		}
	}
	return nil
}

// Vec returns an SCV_VEC value holding items.
func Vec(items ...*xdr.UnionValue) *xdr.UnionValue {
	vec := make([]any, len(items))
	for i, item := range items {
		vec[i] = item
	}
	return Val().MustNew("SCV_VEC", vec)
}

// MapEntry is one key/value pair of an SCV_MAP.
type MapEntry struct {
	Key *xdr.UnionValue
	Val *xdr.UnionValue
}

// Map returns an SCV_MAP value. Entries are kept in the given order.
func Map(entries ...MapEntry) *xdr.UnionValue {
	entry := mustStruct("SCMapEntry")
	out := make([]any, len(entries))
	for i, e := range entries {
		out[i] = entry.MustNew(map[string]any{"key": e.Key, "val": e.Val})
	}
	return Val().MustNew("SCV_MAP", out)
}

// ContractError returns an SCV_ERROR value for a contract-defined code.
func ContractError(code uint32) *xdr.UnionValue {
	scErr := mustUnion("SCError").MustNew("SCE_CONTRACT", code)
	return Val().MustNew("SCV_ERROR", scErr)
}

// HostError returns an SCV_ERROR value for a host error type and code, for
// example ("SCE_STORAGE", "SCEC_MISSING_VALUE").
func HostError(errType, code string) (*xdr.UnionValue, error) {
	if errType == "SCE_CONTRACT" {
		return nil, fmt.Errorf("SCE_CONTRACT errors carry a contract code, use ContractError")
	}
	codes, err := Types().Enum("SCErrorCode")
	if err != nil {
		return nil, err
	}
	c, err := codes.FromName(code)
	if err != nil {
		return nil, err
	}
	scErr, err := mustUnion("SCError").New(errType, c)
	if err != nil {
		return nil, err
	}
	return Val().New("SCV_ERROR", scErr)
}

// ContractAddress returns an SCV_ADDRESS value for a contract id.
func ContractAddress(id [32]byte) *xdr.UnionValue {
	addr := mustUnion("SCAddress").MustNew("SC_ADDRESS_TYPE_CONTRACT", id[:])
	return Val().MustNew("SCV_ADDRESS", addr)
}

// AccountAddress returns an SCV_ADDRESS value for an ed25519 account key.
func AccountAddress(ed25519 [32]byte) *xdr.UnionValue {
	key := mustUnion("PublicKey").MustNew("PUBLIC_KEY_TYPE_ED25519", ed25519[:])
	addr := mustUnion("SCAddress").MustNew("SC_ADDRESS_TYPE_ACCOUNT", key)
	return Val().MustNew("SCV_ADDRESS", addr)
}

// TypeOf returns the SCValType member name of an SCVal.
func TypeOf(v *xdr.UnionValue) string {
	if m, ok := v.Switch().(*xdr.EnumValue); ok {
		return m.Name()
	}
	return ""
}
