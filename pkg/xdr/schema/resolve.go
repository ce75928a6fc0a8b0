package schema

import (
	"fmt"
	"math"

	"github.com/marmos91/xdrkit/internal/logger"
	"github.com/marmos91/xdrkit/pkg/xdr"
)

// resolver turns recorded definitions into types.
//
// Resolution runs in two passes. The first creates every enum and an empty
// shell for every struct and union, so that any by-name reference to them
// resolves immediately. The second resolves typedefs (memoized by name) and
// defines the struct and union bodies. Typedefs are the only definitions
// that resolve through other names, so a cycle can only be a typedef cycle.
type resolver struct {
	b      *Builder
	types  map[string]xdr.Type
	active map[string]bool
}

func newResolver(b *Builder) *resolver {
	return &resolver{
		b:      b,
		types:  make(map[string]xdr.Type, len(b.defs)),
		active: make(map[string]bool),
	}
}

func (r *resolver) kinds() map[string]DefinitionKind {
	out := make(map[string]DefinitionKind, len(r.b.defs))
	for name, d := range r.b.defs {
		out[name] = d.kind
	}
	return out
}

func (r *resolver) resolveAll() error {
	for _, name := range r.b.order {
		d := r.b.defs[name]
		switch d.kind {
		case KindEnum:
			e, err := xdr.NewEnum(name, d.members)
			if err != nil {
				return err
			}
			r.types[name] = e
		case KindStruct:
			r.types[name] = xdr.DeclareStruct(name)
		case KindUnion:
			r.types[name] = xdr.DeclareUnion(name)
		}
	}

	for _, name := range r.b.order {
		d := r.b.defs[name]
		var err error
		switch d.kind {
		case KindStruct:
			err = r.defineStruct(d)
		case KindUnion:
			err = r.defineUnion(d)
		case KindTypedef:
			_, err = r.resolveName(name)
		}
		if err != nil {
			return err
		}
		logger.Debug("resolved definition", logger.Definition(name), logger.Kind(string(d.kind)))
	}
	return nil
}

func (r *resolver) defineStruct(d *definition) error {
	fields := make([]xdr.Field, len(d.fields))
	for i, f := range d.fields {
		t, err := r.resolveType(f.Type)
		if err != nil {
			return fmt.Errorf("struct %s field %s: %w", d.name, f.Name, err)
		}
		fields[i] = xdr.Field{Name: f.Name, Type: t}
	}
	return r.types[d.name].(*xdr.Struct).Define(fields)
}

func (r *resolver) defineUnion(d *definition) error {
	cfg := d.union

	switchOn, err := r.resolveType(cfg.SwitchOn)
	if err != nil {
		return fmt.Errorf("union %s discriminant: %w", d.name, err)
	}
	cfg.SwitchOn = switchOn

	arms := make(map[string]xdr.Type, len(cfg.Arms))
	for name, t := range cfg.Arms {
		resolved, err := r.resolveType(t)
		if err != nil {
			return fmt.Errorf("union %s arm %s: %w", d.name, name, err)
		}
		arms[name] = resolved
	}
	cfg.Arms = arms

	return r.types[d.name].(*xdr.Union).Define(cfg)
}

// resolveName returns the type bound to name, resolving typedefs on demand.
func (r *resolver) resolveName(name string) (xdr.Type, error) {
	if t, ok := r.types[name]; ok {
		return t, nil
	}

	d, ok := r.b.defs[name]
	if !ok {
		if t, ok := r.b.ns.Lookup(name); ok {
			return t, nil
		}
		return nil, xdr.NewError(xdr.DefinitionError, nil, "unknown type %q", name)
	}

	// Only typedefs reach this point; everything else was bound in the
	// first pass.
	if r.active[name] {
		return nil, xdr.NewError(xdr.DefinitionError, nil, "typedef %s refers to itself", name)
	}
	r.active[name] = true
	defer delete(r.active, name)

	t, err := r.resolveType(d.target)
	if err != nil {
		return nil, fmt.Errorf("typedef %s: %w", name, err)
	}
	r.types[name] = t
	return t, nil
}

// resolveType replaces References, including those nested in array and
// option descriptors built directly with the xdr package.
func (r *resolver) resolveType(t xdr.Type) (xdr.Type, error) {
	switch x := t.(type) {
	case nil:
		return nil, xdr.NewError(xdr.DefinitionError, nil, "missing type")

	case *Reference:
		return r.resolveReference(x)

	case *xdr.ArrayType:
		child, err := r.resolveType(x.Child())
		if err != nil || child == x.Child() {
			return x, err
		}
		return xdr.NewArray(child, uint32(x.Length())), nil

	case *xdr.VarArrayType:
		child, err := r.resolveType(x.Child())
		if err != nil || child == x.Child() {
			return x, err
		}
		return xdr.NewVarArray(child, x.MaxLength()), nil

	case *xdr.OptionType:
		child, err := r.resolveType(x.Child())
		if err != nil || child == x.Child() {
			return x, err
		}
		return xdr.NewOption(child), nil

	default:
		return t, nil
	}
}

func (r *resolver) resolveReference(ref *Reference) (xdr.Type, error) {
	switch ref.kind {
	case refByName:
		return r.resolveName(ref.name)

	case refOption:
		child, err := r.resolveType(ref.child)
		if err != nil {
			return nil, err
		}
		return xdr.NewOption(child), nil

	case refArray, refVarArray:
		child, err := r.resolveType(ref.child)
		if err != nil {
			return nil, err
		}
		n, err := r.length(ref.length, ref.kind == refArray)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ref, err)
		}
		if ref.kind == refArray {
			return xdr.NewArray(child, n), nil
		}
		return xdr.NewVarArray(child, n), nil

	case refString, refOpaque, refVarOpaque:
		n, err := r.length(ref.length, ref.kind == refOpaque)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ref, err)
		}
		switch ref.kind {
		case refString:
			return xdr.NewString(n), nil
		case refOpaque:
			return xdr.NewOpaque(n), nil
		default:
			return xdr.NewVarOpaque(n), nil
		}

	default:
		return nil, xdr.NewError(xdr.DefinitionError, nil, "unknown reference kind %d", ref.kind)
	}
}

// length resolves a declared length. Fixed-size types need an explicit one.
func (r *resolver) length(l Len, fixed bool) (uint32, error) {
	switch {
	case l.unbounded:
		if fixed {
			return 0, xdr.NewError(xdr.DefinitionError, nil, "fixed-size type needs an explicit length")
		}
		return xdr.MaxLength, nil

	case l.constName != "":
		v, ok := r.b.consts[l.constName]
		if !ok {
			v, ok = r.b.ns.Const(l.constName)
		}
		if !ok {
			return 0, xdr.NewError(xdr.DefinitionError, nil, "unknown constant %q", l.constName)
		}
		if v < 0 || v > math.MaxUint32 {
			return 0, xdr.NewError(xdr.DefinitionError, nil, "constant %s = %d is not a valid length", l.constName, v)
		}
		return uint32(v), nil

	default:
		return l.n, nil
	}
}
