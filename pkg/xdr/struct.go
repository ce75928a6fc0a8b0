package xdr

import (
	"fmt"
	"strings"
)

// Field is one named member of a struct.
type Field struct {
	Name string
	Type Type
}

// Struct is an ordered list of named fields. Field order is the wire
// contract: fields are read and written in declaration order.
//
// A Struct may be declared before its fields are known (DeclareStruct) so
// that mutually recursive types can refer to each other. Define must then be
// called exactly once before the struct is used.
type Struct struct {
	name    string
	fields  []Field
	index   map[string]int
	defined bool
}

// NewStruct declares and defines a struct in one step.
func NewStruct(name string, fields []Field) (*Struct, error) {
	s := DeclareStruct(name)
	if err := s.Define(fields); err != nil {
		return nil, err
	}
	return s, nil
}

// MustStruct is like NewStruct but panics on error.
func MustStruct(name string, fields []Field) *Struct {
	s, err := NewStruct(name, fields)
	if err != nil {
		panic(err)
	}
	return s
}

// DeclareStruct returns an empty struct shell that can be referenced before
// its fields are defined.
func DeclareStruct(name string) *Struct {
	return &Struct{name: name}
}

// Define sets the struct's fields. It fails if the struct is already defined,
// a field name repeats or a field has no type.
func (s *Struct) Define(fields []Field) error {
	if s.defined {
		return definitionErrorf("struct %s is already defined", s.name)
	}
	index := make(map[string]int, len(fields))
	for i, f := range fields {
		if f.Type == nil {
			return definitionErrorf("struct %s: field %q has no type", s.name, f.Name)
		}
		if _, dup := index[f.Name]; dup {
			return definitionErrorf("struct %s: duplicate field %q", s.name, f.Name)
		}
		index[f.Name] = i
	}
	s.fields = append([]Field(nil), fields...)
	s.index = index
	s.defined = true
	return nil
}

// XDRName implements Named.
func (s *Struct) XDRName() string { return s.name }

// XDRKind implements Named.
func (s *Struct) XDRKind() Kind { return KindStruct }

func (s *Struct) String() string { return s.name }

// Fields returns the declared fields in order.
func (s *Struct) Fields() []Field {
	return append([]Field(nil), s.fields...)
}

// Defined reports whether Define has been called.
func (s *Struct) Defined() bool { return s.defined }

// New creates a value of this struct from a field map. Unknown field names
// are rejected; omitted fields stay unset and must be filled before writing.
func (s *Struct) New(fields map[string]any) (*StructValue, error) {
	if !s.defined {
		return nil, definitionErrorf("struct %s is declared but not defined", s.name)
	}
	v := &StructValue{typ: s, values: make([]any, len(s.fields)), set: make([]bool, len(s.fields))}
	for name, val := range fields {
		if err := v.Set(name, val); err != nil {
			return nil, err
		}
	}
	return v, nil
}

// MustNew is like New but panics on error.
func (s *Struct) MustNew(fields map[string]any) *StructValue {
	v, err := s.New(fields)
	if err != nil {
		panic(err)
	}
	return v
}

func (s *Struct) Read(r *Reader) (any, error) {
	if !s.defined {
		return nil, definitionErrorf("struct %s is declared but not defined", s.name)
	}
	v := &StructValue{typ: s, values: make([]any, len(s.fields)), set: make([]bool, len(s.fields))}
	for i, f := range s.fields {
		fv, err := f.Type.Read(r)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", s.name, f.Name, err)
		}
		v.values[i] = fv
		v.set[i] = true
	}
	return v, nil
}

func (s *Struct) Write(v any, w *Writer) error {
	if !s.defined {
		return definitionErrorf("struct %s is declared but not defined", s.name)
	}
	if !s.IsValid(v) {
		return writeErrorf("%v (%T) is not a %s", v, v, s.name)
	}
	sv := v.(StructLike)
	start := w.Len()
	for _, f := range s.fields {
		fv, ok := sv.Lookup(f.Name)
		if !ok {
			w.Truncate(start)
			return writeErrorf("%s.%s: field is not set", s.name, f.Name)
		}
		if err := f.Type.Write(fv, w); err != nil {
			w.Truncate(start)
			return fmt.Errorf("%s.%s: %w", s.name, f.Name, err)
		}
	}
	return nil
}

// IsValid accepts values of this struct, including values built by another
// copy of the same declared struct.
func (s *Struct) IsValid(v any) bool {
	sv, ok := v.(StructLike)
	if !ok {
		return false
	}
	if x, ok := sv.(*StructValue); ok && x != nil && x.typ == s {
		return true
	}
	return isCompatible(sv, s.name, KindStruct)
}

// StructLike is what Struct.Write needs from a value: a declared name and
// field lookup by name. *StructValue implements it; so can values from other
// codecs that want to interoperate.
type StructLike interface {
	Named
	Lookup(field string) (any, bool)
}

// StructValue holds the field values of one struct instance.
type StructValue struct {
	typ    *Struct
	values []any
	set    []bool
}

// Type returns the struct descriptor that created the value.
func (v *StructValue) Type() *Struct { return v.typ }

// XDRName implements Named.
func (v *StructValue) XDRName() string {
	if v == nil || v.typ == nil {
		return ""
	}
	return v.typ.name
}

// XDRKind implements Named.
func (v *StructValue) XDRKind() Kind { return KindStruct }

// Lookup returns a field's value and whether it has been set.
func (v *StructValue) Lookup(field string) (any, bool) {
	if v == nil {
		return nil, false
	}
	i, ok := v.typ.index[field]
	if !ok || !v.set[i] {
		return nil, false
	}
	return v.values[i], true
}

// Get returns a field's value, or nil if it is unknown or unset.
func (v *StructValue) Get(field string) any {
	val, _ := v.Lookup(field)
	return val
}

// Has reports whether the field exists and is set.
func (v *StructValue) Has(field string) bool {
	_, ok := v.Lookup(field)
	return ok
}

// Set assigns a field. Unknown fields are an error; the value itself is
// checked when the struct is written.
func (v *StructValue) Set(field string, val any) error {
	i, ok := v.typ.index[field]
	if !ok {
		return fmt.Errorf("%s has no field %q", v.typ.name, field)
	}
	v.values[i] = val
	v.set[i] = true
	return nil
}

// Fields returns the set fields in declaration order.
func (v *StructValue) Fields() []FieldValue {
	out := make([]FieldValue, 0, len(v.values))
	for i, f := range v.typ.fields {
		if v.set[i] {
			out = append(out, FieldValue{Name: f.Name, Value: v.values[i]})
		}
	}
	return out
}

// FieldValue pairs a field name with its value.
type FieldValue struct {
	Name  string
	Value any
}

func (v *StructValue) String() string {
	var b strings.Builder
	b.WriteString(v.typ.name)
	b.WriteString("{")
	for i, f := range v.Fields() {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s: %v", f.Name, f.Value)
	}
	b.WriteString("}")
	return b.String()
}
