package schema

import (
	"encoding/hex"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/marmos91/xdrkit/pkg/xdr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encode(t *testing.T, typ xdr.Type, v any) string {
	t.Helper()
	b, err := xdr.ToXDR(typ, v, xdr.FormatHex)
	require.NoError(t, err)
	return string(b)
}

func decode(t *testing.T, typ xdr.Type, s string) any {
	t.Helper()
	raw, err := hex.DecodeString(s)
	require.NoError(t, err)
	v, err := xdr.FromXDR(typ, raw, xdr.FormatRaw)
	require.NoError(t, err)
	return v
}

func TestConfig_ForwardReference(t *testing.T) {
	ns, err := Config(func(b *Builder) {
		b.Struct("A", []xdr.Field{
			{Name: "b", Type: b.Lookup("B")},
			{Name: "flag", Type: xdr.Bool},
		})
		b.Struct("B", []xdr.Field{
			{Name: "x", Type: xdr.Int},
		})
	}, nil)
	require.NoError(t, err)

	a, err := ns.Struct("A")
	require.NoError(t, err)
	bt, err := ns.Struct("B")
	require.NoError(t, err)

	fields := a.Fields()
	require.Len(t, fields, 2)
	assert.Same(t, bt, fields[0].Type, "reference must be replaced by its target")

	v := a.MustNew(map[string]any{
		"b":    bt.MustNew(map[string]any{"x": 7}),
		"flag": true,
	})
	assert.Equal(t, "0000000700000001", encode(t, a, v))
}

func TestConfig_MutualRecursion(t *testing.T) {
	ns, err := Config(func(b *Builder) {
		b.Struct("Tree", []xdr.Field{
			{Name: "value", Type: xdr.Int},
			{Name: "children", Type: b.Lookup("Forest")},
		})
		b.Typedef("Forest", b.VarArray(b.Lookup("Tree"), Unbounded))
	}, nil)
	require.NoError(t, err)

	tree, err := ns.Struct("Tree")
	require.NoError(t, err)

	leaf := tree.MustNew(map[string]any{"value": 2, "children": []any{}})
	root := tree.MustNew(map[string]any{"value": 1, "children": []any{leaf}})

	got := encode(t, tree, root)
	assert.Equal(t, "00000001"+"00000001"+"00000002"+"00000000", got)

	back := decode(t, tree, got).(*xdr.StructValue)
	children := back.Get("children").([]any)
	require.Len(t, children, 1)
	assert.Equal(t, int32(2), children[0].(*xdr.StructValue).Get("value"))
}

func TestConfig_UnionStructRecursion(t *testing.T) {
	ns, err := Config(func(b *Builder) {
		b.Union("Expr", xdr.UnionConfig{
			SwitchOn: b.Lookup("ExprKind"),
			Switches: []xdr.SwitchCase{
				{Match: "lit", Arm: xdr.Arm("lit")},
				{Match: "neg", Arm: xdr.Arm("neg")},
			},
			Arms: map[string]xdr.Type{
				"lit": xdr.Int,
				"neg": b.Lookup("Neg"),
			},
		})
		b.Struct("Neg", []xdr.Field{{Name: "inner", Type: b.Lookup("Expr")}})
		b.Enum("ExprKind", []xdr.EnumMember{{Name: "lit", Value: 0}, {Name: "neg", Value: 1}})
	}, nil)
	require.NoError(t, err)

	expr, err := ns.Union("Expr")
	require.NoError(t, err)
	neg, err := ns.Struct("Neg")
	require.NoError(t, err)

	lit := expr.MustNew("lit", 3)
	v := expr.MustNew("neg", neg.MustNew(map[string]any{"inner": lit}))

	got := encode(t, expr, v)
	assert.Equal(t, "00000001"+"00000000"+"00000003", got)

	back := decode(t, expr, got).(*xdr.UnionValue)
	inner := back.Value().(*xdr.StructValue).Get("inner").(*xdr.UnionValue)
	assert.Equal(t, int32(3), inner.Value())
}

func TestConfig_Consts(t *testing.T) {
	ns, err := Config(func(b *Builder) {
		b.Const("NAME_LIMIT", 4)
		b.Typedef("Name", b.String(ConstLen("NAME_LIMIT")))
		b.Typedef("Hash", b.Opaque(N(32)))
		b.Typedef("Names", b.Array(b.Lookup("Name"), ConstLen("NAME_LIMIT")))
		b.Typedef("Blob", b.VarOpaque(Unbounded))
	}, nil)
	require.NoError(t, err)

	v, ok := ns.Const("NAME_LIMIT")
	require.True(t, ok)
	assert.Equal(t, int64(4), v)

	name, _ := ns.Lookup("Name")
	assert.Equal(t, uint32(4), name.(*xdr.StringType).MaxLength())

	hash, _ := ns.Lookup("Hash")
	assert.Equal(t, 32, hash.(*xdr.OpaqueType).Length())

	names, _ := ns.Lookup("Names")
	assert.Equal(t, 4, names.(*xdr.ArrayType).Length())

	blob, _ := ns.Lookup("Blob")
	assert.Equal(t, uint32(xdr.MaxLength), blob.(*xdr.VarOpaqueType).MaxLength())

	assert.False(t, name.IsValid("toolong"))
	assert.True(t, name.IsValid("ok"))
}

func TestConfig_DefinitionErrors(t *testing.T) {
	tests := []struct {
		name string
		fn   func(b *Builder)
	}{
		{"DuplicateName", func(b *Builder) {
			b.Struct("A", []xdr.Field{{Name: "x", Type: xdr.Int}})
			b.Enum("A", nil)
		}},
		{"ConstNameClash", func(b *Builder) {
			b.Const("A", 1)
			b.Typedef("A", xdr.Int)
		}},
		{"UnknownName", func(b *Builder) {
			b.Struct("A", []xdr.Field{{Name: "x", Type: b.Lookup("Missing")}})
		}},
		{"TypedefCycle", func(b *Builder) {
			b.Typedef("A", b.Lookup("B"))
			b.Typedef("B", b.Lookup("A"))
		}},
		{"TypedefSelfOption", func(b *Builder) {
			b.Typedef("A", b.Option(b.Lookup("A")))
		}},
		{"UnknownConst", func(b *Builder) {
			b.Typedef("A", b.String(ConstLen("NOPE")))
		}},
		{"NegativeConstLength", func(b *Builder) {
			b.Const("NEG", -1)
			b.Typedef("A", b.VarOpaque(ConstLen("NEG")))
		}},
		{"FixedUnbounded", func(b *Builder) {
			b.Typedef("A", b.Opaque(Unbounded))
		}},
		{"EnumNotBijective", func(b *Builder) {
			b.Enum("E", []xdr.EnumMember{{Name: "a", Value: 0}, {Name: "b", Value: 0}})
		}},
		{"UnionUnknownArm", func(b *Builder) {
			b.Union("U", xdr.UnionConfig{
				SwitchOn: xdr.Int,
				Switches: []xdr.SwitchCase{{Match: 0, Arm: xdr.Arm("missing")}},
			})
		}},
		{"MissingFieldType", func(b *Builder) {
			b.Struct("A", []xdr.Field{{Name: "x"}})
		}},
		{"EmptyName", func(b *Builder) {
			b.Typedef("", xdr.Int)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ns, err := Config(tt.fn, nil)
			require.Error(t, err)
			assert.Nil(t, ns)
			assert.True(t, xdr.IsDefinitionError(err), "got %v", err)
		})
	}
}

func TestConfig_MergeIntoNamespace(t *testing.T) {
	ns, err := Config(func(b *Builder) {
		b.Enum("Color", []xdr.EnumMember{{Name: "red", Value: 0}, {Name: "green", Value: 1}})
		b.Const("MAX_PIXELS", 2)
	}, nil)
	require.NoError(t, err)

	same, err := Config(func(b *Builder) {
		b.Struct("Pixel", []xdr.Field{{Name: "color", Type: b.Lookup("Color")}})
		b.Typedef("Row", b.VarArray(b.Lookup("Pixel"), ConstLen("MAX_PIXELS")))
	}, ns)
	require.NoError(t, err)
	assert.Same(t, ns, same)

	if diff := cmp.Diff([]string{"Color", "Pixel", "Row"}, ns.Names()); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"MAX_PIXELS"}, ns.Consts()); diff != "" {
		t.Errorf("Consts() mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 3, ns.Len())

	kind, ok := ns.KindOf("Row")
	require.True(t, ok)
	assert.Equal(t, KindTypedef, kind)

	color, err := ns.Enum("Color")
	require.NoError(t, err)
	pixel, err := ns.Struct("Pixel")
	require.NoError(t, err)
	assert.Same(t, color, pixel.Fields()[0].Type)

	t.Run("RedefinitionRejected", func(t *testing.T) {
		_, err := Config(func(b *Builder) {
			b.Typedef("Color", xdr.Int)
		}, ns)
		assert.True(t, xdr.IsDefinitionError(err))
	})

	t.Run("FailureBindsNothing", func(t *testing.T) {
		_, err := Config(func(b *Builder) {
			b.Typedef("Fine", xdr.Int)
			b.Typedef("Broken", b.Lookup("Nowhere"))
		}, ns)
		require.Error(t, err)
		_, ok := ns.Lookup("Fine")
		assert.False(t, ok)
		assert.Equal(t, 3, ns.Len())
	})
}

func TestConfig_NestedReferencesInXDRComposites(t *testing.T) {
	ns, err := Config(func(b *Builder) {
		b.Typedef("MaybeItems", xdr.NewOption(xdr.NewVarArray(b.Lookup("Item"), 3)))
		b.Typedef("Item", xdr.UnsignedInt)
	}, nil)
	require.NoError(t, err)

	typ, _ := ns.Lookup("MaybeItems")
	assert.Equal(t, "00000001"+"00000002"+"00000001"+"00000002", encode(t, typ, []any{1, 2}))
	assert.Equal(t, "00000000", encode(t, typ, nil))
}

func TestConfig_IndependentCopiesInteroperate(t *testing.T) {
	define := func(b *Builder) {
		b.Enum("Kind", []xdr.EnumMember{{Name: "a", Value: 0}, {Name: "b", Value: 1}})
		b.Struct("Pair", []xdr.Field{
			{Name: "kind", Type: b.Lookup("Kind")},
			{Name: "n", Type: xdr.Hyper},
		})
	}
	ns1 := MustConfig(define, nil)
	ns2 := MustConfig(define, nil)

	kind1, _ := ns1.Enum("Kind")
	pair1, _ := ns1.Struct("Pair")
	pair2, _ := ns2.Struct("Pair")
	require.NotSame(t, pair1, pair2)
	assert.True(t, xdr.SameType(pair1, pair2))

	v := pair1.MustNew(map[string]any{"kind": kind1.MustMember("b"), "n": int64(-1)})
	assert.True(t, pair2.IsValid(v))
	assert.Equal(t, encode(t, pair1, v), encode(t, pair2, v))
}

func TestNamespace_Accessors(t *testing.T) {
	ns := MustConfig(func(b *Builder) {
		b.Typedef("Alias", xdr.Int)
	}, nil)

	_, err := ns.Struct("Alias")
	assert.Error(t, err)
	_, err = ns.Enum("Missing")
	assert.Error(t, err)
	_, err = ns.Union("Alias")
	assert.Error(t, err)

	_, ok := ns.Const("Alias")
	assert.False(t, ok)
}

func TestReference_Unresolved(t *testing.T) {
	var ref *Reference
	MustConfig(func(b *Builder) {
		ref = b.Lookup("Anything")
	}, nil)

	_, err := ref.Read(xdr.NewReader(nil))
	assert.True(t, xdr.IsDefinitionError(err))
	assert.True(t, xdr.IsDefinitionError(ref.Write(1, xdr.NewWriter())))
	assert.False(t, ref.IsValid(1))
	assert.Equal(t, "Anything", ref.String())
}
