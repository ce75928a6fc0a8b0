package schema

import (
	"fmt"
	"sort"
	"sync"

	"github.com/marmos91/xdrkit/pkg/xdr"
)

// Namespace binds declared names to resolved types and constants. It is
// filled by Config and safe for concurrent readers.
type Namespace struct {
	mu     sync.RWMutex
	types  map[string]xdr.Type
	kinds  map[string]DefinitionKind
	consts map[string]int64
}

// NewNamespace returns an empty namespace.
func NewNamespace() *Namespace {
	return &Namespace{
		types:  make(map[string]xdr.Type),
		kinds:  make(map[string]DefinitionKind),
		consts: make(map[string]int64),
	}
}

// Lookup returns the type bound to name.
func (ns *Namespace) Lookup(name string) (xdr.Type, bool) {
	ns.mu.RLock()
	defer ns.mu.RUnlock()
	t, ok := ns.types[name]
	return t, ok
}

// KindOf returns how name was declared.
func (ns *Namespace) KindOf(name string) (DefinitionKind, bool) {
	ns.mu.RLock()
	defer ns.mu.RUnlock()
	k, ok := ns.kinds[name]
	return k, ok
}

// Struct returns the struct bound to name.
func (ns *Namespace) Struct(name string) (*xdr.Struct, error) {
	t, ok := ns.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%s is not defined", name)
	}
	s, ok := t.(*xdr.Struct)
	if !ok {
		return nil, fmt.Errorf("%s is a %s, not a struct", name, xdr.TypeName(t))
	}
	return s, nil
}

// Enum returns the enum bound to name.
func (ns *Namespace) Enum(name string) (*xdr.Enum, error) {
	t, ok := ns.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%s is not defined", name)
	}
	e, ok := t.(*xdr.Enum)
	if !ok {
		return nil, fmt.Errorf("%s is a %s, not an enum", name, xdr.TypeName(t))
	}
	return e, nil
}

// Union returns the union bound to name.
func (ns *Namespace) Union(name string) (*xdr.Union, error) {
	t, ok := ns.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%s is not defined", name)
	}
	u, ok := t.(*xdr.Union)
	if !ok {
		return nil, fmt.Errorf("%s is a %s, not a union", name, xdr.TypeName(t))
	}
	return u, nil
}

// Const returns a named constant.
func (ns *Namespace) Const(name string) (int64, bool) {
	ns.mu.RLock()
	defer ns.mu.RUnlock()
	v, ok := ns.consts[name]
	return v, ok
}

// Names returns every bound type name, sorted.
func (ns *Namespace) Names() []string {
	ns.mu.RLock()
	defer ns.mu.RUnlock()
	names := make([]string, 0, len(ns.types))
	for name := range ns.types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Consts returns every constant name, sorted.
func (ns *Namespace) Consts() []string {
	ns.mu.RLock()
	defer ns.mu.RUnlock()
	names := make([]string, 0, len(ns.consts))
	for name := range ns.consts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of bound types.
func (ns *Namespace) Len() int {
	ns.mu.RLock()
	defer ns.mu.RUnlock()
	return len(ns.types)
}

// has reports whether name is taken by a type or a constant.
func (ns *Namespace) has(name string) bool {
	ns.mu.RLock()
	defer ns.mu.RUnlock()
	_, t := ns.types[name]
	_, c := ns.consts[name]
	return t || c
}

// commit binds a batch of resolved names at once.
func (ns *Namespace) commit(types map[string]xdr.Type, kinds map[string]DefinitionKind, consts map[string]int64) {
	ns.mu.Lock()
	defer ns.mu.Unlock()
	for name, t := range types {
		ns.types[name] = t
		ns.kinds[name] = kinds[name]
	}
	for name, v := range consts {
		ns.consts[name] = v
	}
}
