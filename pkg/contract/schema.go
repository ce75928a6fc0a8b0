// Package contract declares the smart-contract value model of the ledger
// ABI as an XDR schema: SCVal and everything it can carry.
//
// The schema is built with the schema package, so it exercises forward
// references (SCVal refers to SCVec and SCMap before they are declared) and
// recursion (SCVec holds SCVals, SCMap holds SCMapEntry holding SCVals).
package contract

import (
	"sync"

	"github.com/marmos91/xdrkit/pkg/xdr"
	"github.com/marmos91/xdrkit/pkg/xdr/schema"
)

// SymbolLimit is the maximum length of an SCSymbol in bytes.
const SymbolLimit = 32

// SCValType members in declaration order.
var scValTypes = []xdr.EnumMember{
	{Name: "SCV_BOOL", Value: 0},
	{Name: "SCV_VOID", Value: 1},
	{Name: "SCV_ERROR", Value: 2},
	{Name: "SCV_U32", Value: 3},
	{Name: "SCV_I32", Value: 4},
	{Name: "SCV_U64", Value: 5},
	{Name: "SCV_I64", Value: 6},
	{Name: "SCV_TIMEPOINT", Value: 7},
	{Name: "SCV_DURATION", Value: 8},
	{Name: "SCV_U128", Value: 9},
	{Name: "SCV_I128", Value: 10},
	{Name: "SCV_U256", Value: 11},
	{Name: "SCV_I256", Value: 12},
	{Name: "SCV_BYTES", Value: 13},
	{Name: "SCV_STRING", Value: 14},
	{Name: "SCV_SYMBOL", Value: 15},
	{Name: "SCV_VEC", Value: 16},
	{Name: "SCV_MAP", Value: 17},
	{Name: "SCV_ADDRESS", Value: 18},
}

// Define declares the contract schema into b. It can be used with
// schema.Config to merge the contract types into another namespace.
func Define(b *schema.Builder) {
	b.Const("SCSYMBOL_LIMIT", SymbolLimit)

	b.Typedef("Hash", b.Opaque(schema.N(32)))
	b.Typedef("uint256", b.Opaque(schema.N(32)))
	b.Typedef("TimePoint", xdr.UnsignedHyper)
	b.Typedef("Duration", xdr.UnsignedHyper)

	b.Enum("PublicKeyType", []xdr.EnumMember{
		{Name: "PUBLIC_KEY_TYPE_ED25519", Value: 0},
	})
	b.Union("PublicKey", xdr.UnionConfig{
		SwitchOn:   b.Lookup("PublicKeyType"),
		SwitchName: "type",
		Switches: []xdr.SwitchCase{
			{Match: "PUBLIC_KEY_TYPE_ED25519", Arm: xdr.Arm("ed25519")},
		},
		Arms: map[string]xdr.Type{"ed25519": b.Lookup("uint256")},
	})
	b.Typedef("AccountID", b.Lookup("PublicKey"))

	b.Enum("SCAddressType", []xdr.EnumMember{
		{Name: "SC_ADDRESS_TYPE_ACCOUNT", Value: 0},
		{Name: "SC_ADDRESS_TYPE_CONTRACT", Value: 1},
	})
	b.Union("SCAddress", xdr.UnionConfig{
		SwitchOn:   b.Lookup("SCAddressType"),
		SwitchName: "type",
		Switches: []xdr.SwitchCase{
			{Match: "SC_ADDRESS_TYPE_ACCOUNT", Arm: xdr.Arm("accountId")},
			{Match: "SC_ADDRESS_TYPE_CONTRACT", Arm: xdr.Arm("contractId")},
		},
		Arms: map[string]xdr.Type{
			"accountId":  b.Lookup("AccountID"),
			"contractId": b.Lookup("Hash"),
		},
	})

	b.Enum("SCErrorType", []xdr.EnumMember{
		{Name: "SCE_CONTRACT", Value: 0},
		{Name: "SCE_WASM_VM", Value: 1},
		{Name: "SCE_CONTEXT", Value: 2},
		{Name: "SCE_STORAGE", Value: 3},
		{Name: "SCE_OBJECT", Value: 4},
		{Name: "SCE_CRYPTO", Value: 5},
		{Name: "SCE_EVENTS", Value: 6},
		{Name: "SCE_BUDGET", Value: 7},
		{Name: "SCE_VALUE", Value: 8},
		{Name: "SCE_AUTH", Value: 9},
	})
	b.Enum("SCErrorCode", []xdr.EnumMember{
		{Name: "SCEC_ARITH_DOMAIN", Value: 0},
		{Name: "SCEC_INDEX_BOUNDS", Value: 1},
		{Name: "SCEC_INVALID_INPUT", Value: 2},
		{Name: "SCEC_MISSING_VALUE", Value: 3},
		{Name: "SCEC_EXISTING_VALUE", Value: 4},
		{Name: "SCEC_EXCEEDED_LIMIT", Value: 5},
		{Name: "SCEC_INVALID_ACTION", Value: 6},
		{Name: "SCEC_INTERNAL_ERROR", Value: 7},
		{Name: "SCEC_UNEXPECTED_TYPE", Value: 8},
		{Name: "SCEC_UNEXPECTED_SIZE", Value: 9},
	})
	// Contract errors carry the contract's own code, every other error type
	// carries a host error code.
	b.Union("SCError", xdr.UnionConfig{
		SwitchOn:   b.Lookup("SCErrorType"),
		SwitchName: "type",
		Switches: []xdr.SwitchCase{
			{Match: "SCE_CONTRACT", Arm: xdr.Arm("contractCode")},
		},
		Arms: map[string]xdr.Type{
			"contractCode": xdr.UnsignedInt,
			"code":         b.Lookup("SCErrorCode"),
		},
		DefaultArm: xdr.Arm("code"),
	})

	b.Struct("UInt128Parts", []xdr.Field{
		{Name: "hi", Type: xdr.UnsignedHyper},
		{Name: "lo", Type: xdr.UnsignedHyper},
	})
	b.Struct("Int128Parts", []xdr.Field{
		{Name: "hi", Type: xdr.Hyper},
		{Name: "lo", Type: xdr.UnsignedHyper},
	})
	b.Struct("UInt256Parts", []xdr.Field{
		{Name: "hi_hi", Type: xdr.UnsignedHyper},
		{Name: "hi_lo", Type: xdr.UnsignedHyper},
		{Name: "lo_hi", Type: xdr.UnsignedHyper},
		{Name: "lo_lo", Type: xdr.UnsignedHyper},
	})
	b.Struct("Int256Parts", []xdr.Field{
		{Name: "hi_hi", Type: xdr.Hyper},
		{Name: "hi_lo", Type: xdr.UnsignedHyper},
		{Name: "lo_hi", Type: xdr.UnsignedHyper},
		{Name: "lo_lo", Type: xdr.UnsignedHyper},
	})

	b.Enum("SCValType", scValTypes)
	b.Union("SCVal", xdr.UnionConfig{
		SwitchOn:   b.Lookup("SCValType"),
		SwitchName: "type",
		Switches: []xdr.SwitchCase{
			{Match: "SCV_BOOL", Arm: xdr.Arm("b")},
			{Match: "SCV_VOID", Arm: xdr.VoidArm},
			{Match: "SCV_ERROR", Arm: xdr.Arm("error")},
			{Match: "SCV_U32", Arm: xdr.Arm("u32")},
			{Match: "SCV_I32", Arm: xdr.Arm("i32")},
			{Match: "SCV_U64", Arm: xdr.Arm("u64")},
			{Match: "SCV_I64", Arm: xdr.Arm("i64")},
			{Match: "SCV_TIMEPOINT", Arm: xdr.Arm("timepoint")},
			{Match: "SCV_DURATION", Arm: xdr.Arm("duration")},
			{Match: "SCV_U128", Arm: xdr.Arm("u128")},
			{Match: "SCV_I128", Arm: xdr.Arm("i128")},
			{Match: "SCV_U256", Arm: xdr.Arm("u256")},
			{Match: "SCV_I256", Arm: xdr.Arm("i256")},
			{Match: "SCV_BYTES", Arm: xdr.Arm("bytes")},
			{Match: "SCV_STRING", Arm: xdr.Arm("str")},
			{Match: "SCV_SYMBOL", Arm: xdr.Arm("sym")},
			{Match: "SCV_VEC", Arm: xdr.Arm("vec")},
			{Match: "SCV_MAP", Arm: xdr.Arm("map")},
			{Match: "SCV_ADDRESS", Arm: xdr.Arm("address")},
		},
		Arms: map[string]xdr.Type{
			"b":         xdr.Bool,
			"error":     b.Lookup("SCError"),
			"u32":       xdr.UnsignedInt,
			"i32":       xdr.Int,
			"u64":       xdr.UnsignedHyper,
			"i64":       xdr.Hyper,
			"timepoint": b.Lookup("TimePoint"),
			"duration":  b.Lookup("Duration"),
			"u128":      b.Lookup("UInt128Parts"),
			"i128":      b.Lookup("Int128Parts"),
			"u256":      b.Lookup("UInt256Parts"),
			"i256":      b.Lookup("Int256Parts"),
			"bytes":     b.Lookup("SCBytes"),
			"str":       b.Lookup("SCString"),
			"sym":       b.Lookup("SCSymbol"),
			"vec":       b.Option(b.Lookup("SCVec")),
			"map":       b.Option(b.Lookup("SCMap")),
			"address":   b.Lookup("SCAddress"),
		},
	})

	b.Typedef("SCVec", b.VarArray(b.Lookup("SCVal"), schema.Unbounded))
	b.Typedef("SCMap", b.VarArray(b.Lookup("SCMapEntry"), schema.Unbounded))
	b.Struct("SCMapEntry", []xdr.Field{
		{Name: "key", Type: b.Lookup("SCVal")},
		{Name: "val", Type: b.Lookup("SCVal")},
	})

	b.Typedef("SCBytes", b.VarOpaque(schema.Unbounded))
	b.Typedef("SCString", b.String(schema.Unbounded))
	b.Typedef("SCSymbol", b.String(schema.ConstLen("SCSYMBOL_LIMIT")))
}

// Build resolves a fresh, independent copy of the contract schema. Values
// built against one copy are accepted by every other copy.
func Build() (*schema.Namespace, error) {
	return schema.Config(Define, nil)
}

var types = sync.OnceValue(func() *schema.Namespace {
	return schema.MustConfig(Define, nil)
})

// Types returns the shared contract namespace, built on first use.
func Types() *schema.Namespace {
	return types()
}

// Val returns the SCVal union of the shared namespace.
func Val() *xdr.Union {
	u, _ := Types().Union("SCVal")
	return u
}

// ValType returns the SCValType enum of the shared namespace.
func ValType() *xdr.Enum {
	e, _ := Types().Enum("SCValType")
	return e
}

func mustStruct(name string) *xdr.Struct {
	s, err := Types().Struct(name)
	if err != nil {
		panic(err)
	}
	return s
}

func mustUnion(name string) *xdr.Union {
	u, err := Types().Union(name)
	if err != nil {
		panic(err)
	}
	return u
}
