package xdr

import (
	"fmt"
	"sort"
)

// EnumMember declares one name/value pair of an enum.
type EnumMember struct {
	Name  string
	Value int32
}

// EnumValue is one member of an enum. Members are created once, when the
// enum is defined, and shared by every value read from the wire.
type EnumValue struct {
	enum  string
	name  string
	value int32
}

// Name returns the member name.
func (e *EnumValue) Name() string { return e.name }

// Value returns the member's integer value.
func (e *EnumValue) Value() int32 { return e.value }

// XDRName returns the declared name of the enum the member belongs to.
func (e *EnumValue) XDRName() string {
	if e == nil {
		return ""
	}
	return e.enum
}

// XDRKind implements Named.
func (e *EnumValue) XDRKind() Kind { return KindEnum }

// Equal reports whether e and o are the same member of the same declared
// enum, even when they come from different copies of the schema.
func (e *EnumValue) Equal(o *EnumValue) bool {
	if e == nil || o == nil {
		return e == o
	}
	return e.enum == o.enum && e.name == o.name && e.value == o.value
}

func (e *EnumValue) String() string {
	return e.enum + "." + e.name
}

// Enum is a closed, bijective mapping between member names and int32 values,
// encoded as a signed 32-bit integer.
type Enum struct {
	name    string
	members []*EnumValue
	byName  map[string]*EnumValue
	byValue map[int32]*EnumValue
}

// NewEnum builds an enum. Duplicate names or values are a DefinitionError.
func NewEnum(name string, members []EnumMember) (*Enum, error) {
	e := &Enum{
		name:    name,
		members: make([]*EnumValue, 0, len(members)),
		byName:  make(map[string]*EnumValue, len(members)),
		byValue: make(map[int32]*EnumValue, len(members)),
	}
	for _, m := range members {
		if _, dup := e.byName[m.Name]; dup {
			return nil, definitionErrorf("enum %s: duplicate member name %q", name, m.Name)
		}
		if prev, dup := e.byValue[m.Value]; dup {
			return nil, definitionErrorf("enum %s: members %q and %q share value %d", name, prev.name, m.Name, m.Value)
		}
		v := &EnumValue{enum: name, name: m.Name, value: m.Value}
		e.members = append(e.members, v)
		e.byName[m.Name] = v
		e.byValue[m.Value] = v
	}
	return e, nil
}

// MustEnum is like NewEnum but panics on error.
func MustEnum(name string, members []EnumMember) *Enum {
	e, err := NewEnum(name, members)
	if err != nil {
		panic(err)
	}
	return e
}

// XDRName implements Named.
func (e *Enum) XDRName() string { return e.name }

// XDRKind implements Named.
func (e *Enum) XDRKind() Kind { return KindEnum }

func (e *Enum) String() string { return e.name }

// Members returns the members in declaration order.
func (e *Enum) Members() []*EnumValue {
	out := make([]*EnumValue, len(e.members))
	copy(out, e.members)
	return out
}

// Values returns the member values in ascending order.
func (e *Enum) Values() []int32 {
	out := make([]int32, 0, len(e.byValue))
	for v := range e.byValue {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// FromName returns the member with the given name.
func (e *Enum) FromName(name string) (*EnumValue, error) {
	v, ok := e.byName[name]
	if !ok {
		return nil, fmt.Errorf("%s has no member named %q", e.name, name)
	}
	return v, nil
}

// FromValue returns the member with the given value.
func (e *Enum) FromValue(value int32) (*EnumValue, error) {
	v, ok := e.byValue[value]
	if !ok {
		return nil, fmt.Errorf("%s has no member with value %d", e.name, value)
	}
	return v, nil
}

// MustMember returns the named member and panics when it does not exist.
// Intended for schema constants.
func (e *Enum) MustMember(name string) *EnumValue {
	v, err := e.FromName(name)
	if err != nil {
		panic(err)
	}
	return v
}

func (e *Enum) Read(r *Reader) (any, error) {
	raw, err := r.ReadInt32()
	if err != nil {
		return nil, err
	}
	v, ok := e.byValue[raw]
	if !ok {
		return nil, readErrorf("unknown %s member for value %d", e.name, raw)
	}
	return v, nil
}

func (e *Enum) Write(v any, w *Writer) error {
	if !e.IsValid(v) {
		return writeErrorf("unknown %v (%T) is not a %s", v, v, e.name)
	}
	w.WriteInt32(v.(*EnumValue).value)
	return nil
}

// IsValid accepts members of this enum, including members produced by
// another copy of the same declared enum.
func (e *Enum) IsValid(v any) bool {
	m, ok := v.(*EnumValue)
	if !ok || m == nil {
		return false
	}
	if !isCompatible(m, e.name, KindEnum) {
		return false
	}
	own, ok := e.byValue[m.value]
	return ok && own.name == m.name
}

// discriminant returns the int32 carried by a member of this enum, also
// accepting a member name.
func (e *Enum) discriminant(v any) (int32, bool) {
	switch x := v.(type) {
	case string:
		m, ok := e.byName[x]
		if !ok {
			return 0, false
		}
		return m.value, true
	case *EnumValue:
		if !e.IsValid(x) {
			return 0, false
		}
		return x.value, true
	default:
		return 0, false
	}
}
