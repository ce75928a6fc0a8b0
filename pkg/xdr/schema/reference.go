package schema

import (
	"fmt"

	"github.com/marmos91/xdrkit/pkg/xdr"
)

// refKind identifies what a Reference stands for.
type refKind int

const (
	refByName refKind = iota
	refArray
	refVarArray
	refOption
	refString
	refOpaque
	refVarOpaque
)

// Len is a declared length: a literal, a named constant or unbounded.
type Len struct {
	n         uint32
	constName string
	unbounded bool
}

// N is a literal length.
func N(n uint32) Len { return Len{n: n} }

// ConstLen is a length taken from a named constant, resolved together with
// the schema.
func ConstLen(name string) Len { return Len{constName: name} }

// Unbounded is the default ceiling for variable-length types (xdr.MaxLength).
var Unbounded = Len{unbounded: true}

func (l Len) String() string {
	switch {
	case l.unbounded:
		return ""
	case l.constName != "":
		return l.constName
	default:
		return fmt.Sprint(l.n)
	}
}

// Reference is a placeholder for a type that is only known once the whole
// schema has been recorded. It implements xdr.Type so that it can be placed
// anywhere a type is expected; resolution replaces it with its target.
//
// A Reference that escapes resolution is not usable: its Read and Write fail
// with a DefinitionError.
type Reference struct {
	kind   refKind
	name   string
	child  xdr.Type
	length Len
}

// Name returns the referenced name for by-name references.
func (r *Reference) Name() string { return r.name }

func (r *Reference) String() string {
	switch r.kind {
	case refByName:
		return r.name
	case refArray:
		return fmt.Sprintf("%s[%s]", xdr.TypeName(r.child), r.length)
	case refVarArray:
		return fmt.Sprintf("%s<%s>", xdr.TypeName(r.child), r.length)
	case refOption:
		return "*" + xdr.TypeName(r.child)
	case refString:
		return fmt.Sprintf("string<%s>", r.length)
	case refOpaque:
		return fmt.Sprintf("opaque[%s]", r.length)
	case refVarOpaque:
		return fmt.Sprintf("opaque<%s>", r.length)
	default:
		return "reference"
	}
}

func (r *Reference) unresolved() error {
	return xdr.NewError(xdr.DefinitionError, nil, "unresolved reference %s", r)
}

func (r *Reference) Read(*xdr.Reader) (any, error) { return nil, r.unresolved() }

func (r *Reference) Write(any, *xdr.Writer) error { return r.unresolved() }

func (r *Reference) IsValid(any) bool { return false }
