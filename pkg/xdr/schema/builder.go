// Package schema builds XDR type namespaces declaratively.
//
// A schema is recorded through a Builder and resolved in one go, so
// definitions may refer to names declared later in the same block, and
// structs and unions may refer to each other recursively:
//
//	ns, err := schema.Config(func(b *schema.Builder) {
//		b.Struct("Node", []xdr.Field{
//			{Name: "value", Type: xdr.Int},
//			{Name: "children", Type: b.VarArray(b.Lookup("Node"), schema.Unbounded)},
//		})
//	}, nil)
//
// Resolution binds every name to a concrete xdr.Type. References created by
// the Builder are only placeholders and never survive resolution.
package schema

import (
	"errors"

	"github.com/marmos91/xdrkit/internal/logger"
	"github.com/marmos91/xdrkit/pkg/xdr"
)

// DefinitionKind says how a name was declared.
type DefinitionKind string

const (
	KindEnum    DefinitionKind = "enum"
	KindStruct  DefinitionKind = "struct"
	KindUnion   DefinitionKind = "union"
	KindTypedef DefinitionKind = "typedef"
)

// definition is one recorded declaration, resolved later.
type definition struct {
	name    string
	kind    DefinitionKind
	members []xdr.EnumMember
	fields  []xdr.Field
	union   xdr.UnionConfig
	target  xdr.Type
}

// Builder records declarations. It is only valid inside the callback passed
// to Config.
type Builder struct {
	ns     *Namespace
	defs   map[string]*definition
	order  []string
	consts map[string]int64
	errs   []error
}

func newBuilder(ns *Namespace) *Builder {
	return &Builder{
		ns:     ns,
		defs:   make(map[string]*definition),
		consts: make(map[string]int64),
	}
}

// claim reserves a name, recording a DefinitionError on duplicates.
func (b *Builder) claim(name string) bool {
	if name == "" {
		b.errs = append(b.errs, xdr.NewError(xdr.DefinitionError, nil, "empty definition name"))
		return false
	}
	_, def := b.defs[name]
	_, cst := b.consts[name]
	if def || cst || b.ns.has(name) {
		b.errs = append(b.errs, xdr.NewError(xdr.DefinitionError, nil, "%s is already defined", name))
		return false
	}
	return true
}

func (b *Builder) add(d *definition) {
	if !b.claim(d.name) {
		return
	}
	b.defs[d.name] = d
	b.order = append(b.order, d.name)
}

// Enum declares an enum.
func (b *Builder) Enum(name string, members []xdr.EnumMember) {
	b.add(&definition{name: name, kind: KindEnum, members: members})
}

// Struct declares a struct. Field types may be References.
func (b *Builder) Struct(name string, fields []xdr.Field) {
	b.add(&definition{name: name, kind: KindStruct, fields: fields})
}

// Union declares a union. SwitchOn and the arm types may be References.
func (b *Builder) Union(name string, cfg xdr.UnionConfig) {
	b.add(&definition{name: name, kind: KindUnion, union: cfg})
}

// Typedef binds name to another type.
func (b *Builder) Typedef(name string, t xdr.Type) {
	b.add(&definition{name: name, kind: KindTypedef, target: t})
}

// Const declares a named integer constant, usable as a length through
// ConstLen.
func (b *Builder) Const(name string, value int64) {
	if !b.claim(name) {
		return
	}
	b.consts[name] = value
}

// Lookup refers to a type by name. The name may be declared later in the same
// Config block or already bound in the target namespace.
func (b *Builder) Lookup(name string) *Reference {
	return &Reference{kind: refByName, name: name}
}

// String is string<l>.
func (b *Builder) String(l Len) *Reference {
	return &Reference{kind: refString, length: l}
}

// Opaque is opaque[l].
func (b *Builder) Opaque(l Len) *Reference {
	return &Reference{kind: refOpaque, length: l}
}

// VarOpaque is opaque<l>.
func (b *Builder) VarOpaque(l Len) *Reference {
	return &Reference{kind: refVarOpaque, length: l}
}

// Array is t[l].
func (b *Builder) Array(t xdr.Type, l Len) *Reference {
	return &Reference{kind: refArray, child: t, length: l}
}

// VarArray is t<l>.
func (b *Builder) VarArray(t xdr.Type, l Len) *Reference {
	return &Reference{kind: refVarArray, child: t, length: l}
}

// Option is *t.
func (b *Builder) Option(t xdr.Type) *Reference {
	return &Reference{kind: refOption, child: t}
}

// Config records the declarations made by fn and resolves them into ns. A nil
// ns starts a new namespace. On error nothing is bound.
func Config(fn func(*Builder), ns *Namespace) (*Namespace, error) {
	if ns == nil {
		ns = NewNamespace()
	}

	b := newBuilder(ns)
	fn(b)
	if len(b.errs) > 0 {
		return nil, errors.Join(b.errs...)
	}

	r := newResolver(b)
	if err := r.resolveAll(); err != nil {
		logger.Debug("schema resolution failed", logger.Err(err))
		return nil, err
	}

	ns.commit(r.types, r.kinds(), b.consts)
	logger.Debug("schema resolved",
		logger.KeyNamespace, ns.Len(),
		"definitions", len(b.order),
		"consts", len(b.consts))
	return ns, nil
}

// MustConfig is like Config but panics on error. Intended for package-level
// schemas.
func MustConfig(fn func(*Builder), ns *Namespace) *Namespace {
	ns, err := Config(fn, ns)
	if err != nil {
		panic(err)
	}
	return ns
}
