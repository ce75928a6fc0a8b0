package xdr

import (
	"errors"
	"fmt"
)

// ============================================================================
// Discriminated unions (RFC 4506 Section 4.15)
// ============================================================================

// ArmRef names the arm selected by a switch case. The zero ArmRef means
// "no arm" and is only meaningful as UnionConfig.DefaultArm.
type ArmRef struct {
	name string
	void bool
}

// Arm refers to the arm with the given name in UnionConfig.Arms.
func Arm(name string) ArmRef { return ArmRef{name: name} }

// VoidArm selects an arm that carries no payload.
var VoidArm = ArmRef{void: true}

// IsZero reports whether the ArmRef selects nothing.
func (a ArmRef) IsZero() bool { return a.name == "" && !a.void }

// IsVoid reports whether the ArmRef selects a payload-less arm.
func (a ArmRef) IsVoid() bool { return a.void }

// Name returns the arm name, or "" for void arms.
func (a ArmRef) Name() string { return a.name }

func (a ArmRef) String() string {
	if a.void {
		return "void"
	}
	return a.name
}

// SwitchCase maps one discriminant to an arm. Match is an enum member (name
// or *EnumValue) when the union switches on an enum, an integer otherwise.
type SwitchCase struct {
	Match any
	Arm   ArmRef
}

// UnionConfig describes a union body.
type UnionConfig struct {
	// SwitchOn is the discriminant type: an *Enum, Int or UnsignedInt.
	SwitchOn Type

	// SwitchName names the discriminant, for diagnostics only.
	SwitchName string

	// Switches is the explicit switch table.
	Switches []SwitchCase

	// Arms maps arm names to payload types.
	Arms map[string]Type

	// DefaultArm is used when no switch case matches. Zero means none.
	DefaultArm ArmRef
}

// Union selects one of several arms through a discriminant.
//
// Like Struct, a Union may be declared first and defined later so that arm
// types can refer back to it.
type Union struct {
	name       string
	switchOn   Type
	switchName string
	enum       *Enum
	switches   map[int64]ArmRef
	arms       map[string]Type
	defaultArm ArmRef
	defined    bool
}

// NewUnion declares and defines a union in one step.
func NewUnion(name string, cfg UnionConfig) (*Union, error) {
	u := DeclareUnion(name)
	if err := u.Define(cfg); err != nil {
		return nil, err
	}
	return u, nil
}

// MustUnion is like NewUnion but panics on error.
func MustUnion(name string, cfg UnionConfig) *Union {
	u, err := NewUnion(name, cfg)
	if err != nil {
		panic(err)
	}
	return u
}

// DeclareUnion returns an undefined union shell.
func DeclareUnion(name string) *Union {
	return &Union{name: name}
}

// Define sets the union body. Every switch case must map to a declared arm
// (or void), and enum discriminants must name members of the enum.
func (u *Union) Define(cfg UnionConfig) error {
	if u.defined {
		return definitionErrorf("union %s is already defined", u.name)
	}

	var enum *Enum
	switch st := cfg.SwitchOn.(type) {
	case *Enum:
		enum = st
	case nil:
		return definitionErrorf("union %s: missing discriminant type", u.name)
	default:
		if st != Int && st != UnsignedInt {
			return definitionErrorf("union %s: discriminant must be an enum, int or unsigned int, got %s", u.name, TypeName(st))
		}
	}

	arms := make(map[string]Type, len(cfg.Arms))
	for name, t := range cfg.Arms {
		if t == nil {
			return definitionErrorf("union %s: arm %q has no type", u.name, name)
		}
		arms[name] = t
	}
	checkArm := func(a ArmRef) error {
		if a.void {
			return nil
		}
		if _, ok := arms[a.name]; !ok {
			return definitionErrorf("union %s: unknown arm %q", u.name, a.name)
		}
		return nil
	}

	switches := make(map[int64]ArmRef, len(cfg.Switches))
	for _, sc := range cfg.Switches {
		if sc.Arm.IsZero() {
			return definitionErrorf("union %s: switch case %v has no arm", u.name, sc.Match)
		}
		if err := checkArm(sc.Arm); err != nil {
			return err
		}
		key, err := switchKey(enum, cfg.SwitchOn, sc.Match)
		if err != nil {
			return definitionErrorf("union %s: %v", u.name, err)
		}
		if _, dup := switches[key]; dup {
			return definitionErrorf("union %s: duplicate switch case %v", u.name, sc.Match)
		}
		switches[key] = sc.Arm
	}
	if !cfg.DefaultArm.IsZero() {
		if err := checkArm(cfg.DefaultArm); err != nil {
			return err
		}
	}

	u.switchOn = cfg.SwitchOn
	u.switchName = cfg.SwitchName
	u.enum = enum
	u.switches = switches
	u.arms = arms
	u.defaultArm = cfg.DefaultArm
	u.defined = true
	return nil
}

// switchKey normalizes a discriminant to an int64 key.
func switchKey(enum *Enum, switchOn Type, match any) (int64, error) {
	if enum != nil {
		d, ok := enum.discriminant(match)
		if !ok {
			return 0, fmt.Errorf("%v is not a member of %s", match, enum.name)
		}
		return int64(d), nil
	}
	n, ok := toInt64(match)
	if !ok || !switchOn.IsValid(n) {
		return 0, fmt.Errorf("%v (%T) is not a valid %s discriminant", match, match, TypeName(switchOn))
	}
	return n, nil
}

// XDRName implements Named.
func (u *Union) XDRName() string { return u.name }

// XDRKind implements Named.
func (u *Union) XDRKind() Kind { return KindUnion }

func (u *Union) String() string { return u.name }

// Defined reports whether Define has been called.
func (u *Union) Defined() bool { return u.defined }

// SwitchOn returns the discriminant type.
func (u *Union) SwitchOn() Type { return u.switchOn }

// SwitchName returns the discriminant's declared name.
func (u *Union) SwitchName() string { return u.switchName }

// ArmType returns the payload type of the named arm.
func (u *Union) ArmType(arm string) (Type, bool) {
	t, ok := u.arms[arm]
	return t, ok
}

// ArmFor resolves the arm selected by a discriminant, falling back to the
// default arm.
func (u *Union) ArmFor(switchValue any) (ArmRef, error) {
	if !u.defined {
		return ArmRef{}, definitionErrorf("union %s is declared but not defined", u.name)
	}
	key, err := switchKey(u.enum, u.switchOn, switchValue)
	if err != nil {
		return ArmRef{}, fmt.Errorf("%s: %w", u.name, err)
	}
	return u.armForKey(key)
}

func (u *Union) armForKey(key int64) (ArmRef, error) {
	if a, ok := u.switches[key]; ok {
		return a, nil
	}
	if !u.defaultArm.IsZero() {
		return u.defaultArm, nil
	}
	return ArmRef{}, fmt.Errorf("%s: no arm for discriminant %d", u.name, key)
}

// New builds a union value. The arm is resolved from the discriminant and
// the payload must be nil for void arms.
func (u *Union) New(switchValue any, value any) (*UnionValue, error) {
	uv := &UnionValue{typ: u}
	if err := uv.Set(switchValue, value); err != nil {
		return nil, err
	}
	return uv, nil
}

// MustNew is like New but panics on error.
func (u *Union) MustNew(switchValue any, value any) *UnionValue {
	uv, err := u.New(switchValue, value)
	if err != nil {
		panic(err)
	}
	return uv
}

// Case builds a value "as" the named enum member of the discriminant.
func (u *Union) Case(member string, value any) (*UnionValue, error) {
	if u.enum == nil {
		return nil, fmt.Errorf("%s does not switch on an enum", u.name)
	}
	m, err := u.enum.FromName(member)
	if err != nil {
		return nil, err
	}
	return u.New(m, value)
}

// Cases returns the member names of an enum discriminant, in declaration
// order, for which Case can build a value.
func (u *Union) Cases() []string {
	if u.enum == nil {
		return nil
	}
	names := make([]string, 0, len(u.enum.members))
	for _, m := range u.enum.members {
		if _, err := u.armForKey(int64(m.value)); err == nil {
			names = append(names, m.name)
		}
	}
	return names
}

func (u *Union) readSwitch(r *Reader) (any, int64, error) {
	sv, err := u.switchOn.Read(r)
	if err != nil {
		return nil, 0, fmt.Errorf("read %s discriminant: %w", u.name, err)
	}
	switch x := sv.(type) {
	case *EnumValue:
		return x, int64(x.value), nil
	case int32:
		return x, int64(x), nil
	case uint32:
		return x, int64(x), nil
	default:
		return nil, 0, readErrorf("%s: unexpected discriminant %v (%T)", u.name, sv, sv)
	}
}

func (u *Union) Read(r *Reader) (any, error) {
	if !u.defined {
		return nil, definitionErrorf("union %s is declared but not defined", u.name)
	}
	sv, key, err := u.readSwitch(r)
	if err != nil {
		return nil, err
	}
	arm, err := u.armForKey(key)
	if err != nil {
		return nil, &Error{Kind: ReadError, Message: "bad union switch", Err: err}
	}
	uv := &UnionValue{typ: u, name: u.name, sw: sv, arm: arm}
	if !arm.void {
		v, err := u.arms[arm.name].Read(r)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", u.name, arm.name, err)
		}
		uv.value = v
	}
	return uv, nil
}

func (u *Union) Write(v any, w *Writer) error {
	if !u.defined {
		return definitionErrorf("union %s is declared but not defined", u.name)
	}
	if !u.IsValid(v) {
		return writeErrorf("%v (%T) is not a %s", v, v, u.name)
	}
	ul := v.(UnionLike)
	sw := ul.Switch()
	key, err := switchKey(u.enum, u.switchOn, sw)
	if err != nil {
		return &Error{Kind: WriteError, Message: "bad union switch", Err: err}
	}
	arm, err := u.armForKey(key)
	if err != nil {
		return &Error{Kind: WriteError, Message: "bad union switch", Err: err}
	}
	start := w.Len()
	if err := u.switchOn.Write(sw, w); err != nil {
		return fmt.Errorf("write %s discriminant: %w", u.name, err)
	}
	if arm.void {
		return nil
	}
	payload, err := ul.Get(arm.name)
	if err != nil {
		w.Truncate(start)
		return &Error{Kind: WriteError, Message: u.name, Err: err}
	}
	if err := u.arms[arm.name].Write(payload, w); err != nil {
		w.Truncate(start)
		return fmt.Errorf("%s.%s: %w", u.name, arm.name, err)
	}
	return nil
}

// IsValid accepts values of this union, including values built by another
// copy of the same declared union.
func (u *Union) IsValid(v any) bool {
	ul, ok := v.(UnionLike)
	if !ok {
		return false
	}
	if x, ok := ul.(*UnionValue); ok && x != nil && x.typ == u {
		return true
	}
	return isCompatible(ul, u.name, KindUnion)
}

// UnionLike is what Union.Write needs from a value.
type UnionLike interface {
	Named
	Switch() any
	Get(arm string) (any, error)
}

// ErrArmNotSet is returned when a union value is accessed under an arm other
// than the active one.
var ErrArmNotSet = errors.New("arm not set")

// UnionValue is one instance of a union: a discriminant, the arm it selects
// and that arm's payload.
type UnionValue struct {
	typ   *Union
	name  string
	sw    any
	arm   ArmRef
	value any
}

// Type returns the union descriptor that created the value.
func (v *UnionValue) Type() *Union { return v.typ }

// XDRName implements Named.
func (v *UnionValue) XDRName() string {
	if v == nil || v.typ == nil {
		return ""
	}
	return v.typ.name
}

// XDRKind implements Named.
func (v *UnionValue) XDRKind() Kind { return KindUnion }

// Switch returns the discriminant.
func (v *UnionValue) Switch() any { return v.sw }

// Arm returns the active arm.
func (v *UnionValue) Arm() ArmRef { return v.arm }

// ArmName returns the active arm's name, or "" when it is void.
func (v *UnionValue) ArmName() string { return v.arm.name }

// Value returns the active arm's payload (nil for void arms).
func (v *UnionValue) Value() any { return v.value }

// Get returns the payload when arm is the active arm.
func (v *UnionValue) Get(arm string) (any, error) {
	if v == nil || v.arm.void || v.arm.name != arm {
		return nil, fmt.Errorf("%s.%s: %w", v.XDRName(), arm, ErrArmNotSet)
	}
	return v.value, nil
}

// Set switches the value to a new discriminant and payload. The payload is
// checked against the arm type.
func (v *UnionValue) Set(switchValue any, value any) error {
	u := v.typ
	if !u.defined {
		return definitionErrorf("union %s is declared but not defined", u.name)
	}
	key, err := switchKey(u.enum, u.switchOn, switchValue)
	if err != nil {
		return fmt.Errorf("%s: %w", u.name, err)
	}
	arm, err := u.armForKey(key)
	if err != nil {
		return err
	}
	if arm.void {
		if value != nil {
			return fmt.Errorf("%s: arm for %v carries no value", u.name, switchValue)
		}
	} else if !u.arms[arm.name].IsValid(value) {
		return fmt.Errorf("%s.%s: %v (%T) is not valid for the arm type", u.name, arm.name, value, value)
	}

	// Store the canonical discriminant: enum members for enum switches.
	if u.enum != nil {
		m := u.enum.byValue[int32(key)]
		switchValue = m
	} else if u.switchOn == UnsignedInt {
		switchValue = uint32(key)
	} else {
		switchValue = int32(key)
	}

	v.name = u.name
	v.sw = switchValue
	v.arm = arm
	v.value = value
	return nil
}

func (v *UnionValue) String() string {
	if v.arm.void {
		return fmt.Sprintf("%s(%v)", v.XDRName(), v.sw)
	}
	return fmt.Sprintf("%s(%v: %v)", v.XDRName(), v.sw, v.value)
}
