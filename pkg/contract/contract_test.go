package contract

import (
	"encoding/hex"
	"errors"
	"math/big"
	"strings"
	"testing"

	"github.com/marmos91/xdrkit/pkg/xdr"
	"github.com/marmos91/xdrkit/pkg/xdr/wideint"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func toHex(t *testing.T, v any) string {
	t.Helper()
	b, err := xdr.ToXDR(Val(), v, xdr.FormatHex)
	require.NoError(t, err)
	return string(b)
}

func fromHex(t *testing.T, s string) *xdr.UnionValue {
	t.Helper()
	raw, err := hex.DecodeString(s)
	require.NoError(t, err)
	v, err := xdr.FromXDR(Val(), raw, xdr.FormatRaw)
	require.NoError(t, err)
	return v.(*xdr.UnionValue)
}

func TestTypes(t *testing.T) {
	ns := Types()
	assert.Same(t, ns, Types(), "namespace is memoized")

	for _, name := range []string{
		"SCVal", "SCValType", "SCVec", "SCMap", "SCMapEntry", "SCError", "SCAddress",
		"PublicKey", "Int128Parts", "UInt128Parts", "Int256Parts", "UInt256Parts",
		"Hash", "SCSymbol", "SCString", "SCBytes",
	} {
		_, ok := ns.Lookup(name)
		assert.True(t, ok, "%s should be defined", name)
	}

	limit, ok := ns.Const("SCSYMBOL_LIMIT")
	require.True(t, ok)
	assert.Equal(t, int64(SymbolLimit), limit)

	assert.Len(t, ValType().Members(), len(scValTypes))
	assert.Len(t, Val().Cases(), len(scValTypes))
}

func TestScalars(t *testing.T) {
	tests := []struct {
		name string
		val  *xdr.UnionValue
		want string
	}{
		{"Bool", Bool(true), "00000000" + "00000001"},
		{"Void", Void(), "00000001"},
		{"U32", U32(7), "00000003" + "00000007"},
		{"I32", I32(-1), "00000004" + "ffffffff"},
		{"U64", U64(1 << 40), "00000005" + "0000010000000000"},
		{"I64", I64(-2), "00000006" + "fffffffffffffffe"},
		{"Bytes", Bytes([]byte{1, 2, 3}), "0000000d" + "00000003" + "01020300"},
		{"String", String("hi"), "0000000e" + "00000002" + "68690000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := toHex(t, tt.val)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, toHex(t, fromHex(t, got)))
		})
	}
}

func TestSymbol(t *testing.T) {
	sym, err := Symbol("hello")
	require.NoError(t, err)
	assert.Equal(t, "0000000f"+"00000005"+"68656c6c6f000000", toHex(t, sym))
	assert.Equal(t, "SCV_SYMBOL", TypeOf(sym))

	_, err = Symbol(strings.Repeat("a", SymbolLimit+1))
	assert.True(t, errors.Is(err, ErrInvalidSymbol))

	_, err = Symbol("not-valid")
	assert.True(t, errors.Is(err, ErrInvalidSymbol))

	// The wire ceiling is enforced independently of the helper.
	raw := "0000000f" + "00000021" + strings.Repeat("61", 33) + "000000"
	data, err := hex.DecodeString(raw)
	require.NoError(t, err)
	_, err = xdr.FromXDR(Val(), data, xdr.FormatRaw)
	assert.True(t, xdr.IsReadError(err))
}

func TestVecAndMap(t *testing.T) {
	vec := Vec(U32(1), Bool(false))
	assert.Equal(t,
		"00000010"+"00000001"+"00000002"+"0000000300000001"+"0000000000000000",
		toHex(t, vec))

	key, err := Symbol("k")
	require.NoError(t, err)
	m := Map(MapEntry{Key: key, Val: Vec(I32(3))})
	got := toHex(t, m)
	assert.Equal(t,
		"00000011"+"00000001"+"00000001"+
			"0000000f"+"00000001"+"6b000000"+
			"00000010"+"00000001"+"00000001"+"0000000400000003",
		got)

	back := fromHex(t, got)
	assert.Equal(t, "SCV_MAP", TypeOf(back))
	entries := back.Value().([]any)
	require.Len(t, entries, 1)
	entry := entries[0].(*xdr.StructValue)
	assert.Equal(t, "k", entry.Get("key").(*xdr.UnionValue).Value())

	empty := Vec()
	assert.Equal(t, "00000010"+"00000001"+"00000000", toHex(t, empty))
}

func TestWideIntegers(t *testing.T) {
	tests := []struct {
		name string
		make func(*wideint.Value) (*xdr.UnionValue, error)
		val  *wideint.Value
		want string
	}{
		{"I128MinusOne", I128, wideint.MustNew(128, false, -1), "0000000a" + "ffffffffffffffff" + "ffffffffffffffff"},
		{"I128Min", I128, wideint.Min(128, false), "0000000a" + "8000000000000000" + "0000000000000000"},
		{"I128HighAndLow", I128, wideint.MustNew(128, false, 5, 1), "0000000a" + "0000000000000001" + "0000000000000005"},
		{"U128Max", U128, wideint.Max(128, true), "00000009" + "ffffffffffffffff" + "ffffffffffffffff"},
		{"I256MinusTwo", I256, wideint.MustNew(256, false, -2), "0000000c" + strings.Repeat("ff", 31) + "fe"},
		{"U256Low", U256, wideint.MustNew(256, true, 9), "0000000b" + strings.Repeat("00", 31) + "09"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := tt.make(tt.val)
			require.NoError(t, err)

			got := toHex(t, v)
			assert.Equal(t, tt.want, got)

			n, err := BigFromParts(v)
			require.NoError(t, err)
			assert.Equal(t, 0, n.Cmp(tt.val.Big()), "built: got %s want %s", n, tt.val)

			n, err = BigFromParts(fromHex(t, got))
			require.NoError(t, err)
			assert.Equal(t, 0, n.Cmp(tt.val.Big()), "decoded: got %s want %s", n, tt.val)
		})
	}
}

func TestWideIntegers_Errors(t *testing.T) {
	_, err := I128(wideint.MustNew(64, false, 1))
	assert.Error(t, err)

	_, err = U128(wideint.MustNew(128, false, 1))
	assert.Error(t, err, "signedness must match")

	_, err = I256(nil)
	assert.Error(t, err)

	_, err = BigFromParts(U32(1))
	assert.Error(t, err)

	_, err = BigFromParts("nope")
	assert.Error(t, err)

	incomplete := mustStruct("Int128Parts").MustNew(map[string]any{"hi": 1})
	_, err = BigFromParts(incomplete)
	assert.Error(t, err)
}

func TestErrors(t *testing.T) {
	assert.Equal(t, "00000002"+"00000000"+"00000005", toHex(t, ContractError(5)))

	host, err := HostError("SCE_STORAGE", "SCEC_MISSING_VALUE")
	require.NoError(t, err)
	got := toHex(t, host)
	assert.Equal(t, "00000002"+"00000003"+"00000003", got)

	back := fromHex(t, got).Value().(*xdr.UnionValue)
	assert.Equal(t, "code", back.ArmName(), "non-contract errors use the default arm")
	assert.Equal(t, "SCEC_MISSING_VALUE", back.Value().(*xdr.EnumValue).Name())

	_, err = HostError("SCE_CONTRACT", "SCEC_ARITH_DOMAIN")
	assert.Error(t, err)
	_, err = HostError("SCE_STORAGE", "NOT_A_CODE")
	assert.Error(t, err)
}

func TestAddresses(t *testing.T) {
	var id [32]byte
	id[31] = 0x01

	got := toHex(t, ContractAddress(id))
	assert.Equal(t, "00000012"+"00000001"+strings.Repeat("00", 31)+"01", got)

	got = toHex(t, AccountAddress(id))
	assert.Equal(t, "00000012"+"00000000"+"00000000"+strings.Repeat("00", 31)+"01", got)

	addr := fromHex(t, got).Value().(*xdr.UnionValue)
	key := addr.Value().(*xdr.UnionValue)
	assert.Equal(t, id[:], key.Value())
}

func TestBuild_IndependentCopy(t *testing.T) {
	ns, err := Build()
	require.NoError(t, err)
	require.NotSame(t, Types(), ns)

	other, err := ns.Union("SCVal")
	require.NoError(t, err)
	require.NotSame(t, Val(), other)

	v := Vec(U32(1), String("x"))
	assert.True(t, other.IsValid(v))

	shared := toHex(t, v)
	copied, err := xdr.ToXDR(other, v, xdr.FormatHex)
	require.NoError(t, err)
	assert.Equal(t, shared, string(copied))

	// Values decoded by the copy are accepted by the shared schema.
	decoded, err := xdr.FromXDR(other, copied, xdr.FormatHex)
	require.NoError(t, err)
	assert.Equal(t, shared, toHex(t, decoded))

	i128, err := I128(wideint.MustNew(128, false, big.NewInt(-7)))
	require.NoError(t, err)
	assert.True(t, other.IsValid(i128))
	n, err := BigFromParts(i128)
	require.NoError(t, err)
	assert.Equal(t, int64(-7), n.Int64())
}
