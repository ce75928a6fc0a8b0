// Package xdr implements a schema-driven XDR (RFC 4506) codec.
//
// Every type descriptor implements Type: it reads a value from a Reader,
// writes a value to a Writer and reports whether a Go value is acceptable.
// Composite and structured types delegate to their children, bottoming out
// at the primitives and the wideint package.
//
// Key characteristics of the wire format:
//   - Big-endian byte order for all multi-byte integers
//   - Every value occupies a multiple of 4 bytes
//   - Opaque data and strings are zero padded, and the padding is verified
//     on decode
//   - Variable-length data is preceded by an unsigned 32-bit length
//
// Descriptors are immutable once built and safe to share between goroutines.
// Readers and Writers belong to a single call.
//
// Reference: RFC 4506 - XDR: External Data Representation Standard
// https://tools.ietf.org/html/rfc4506
package xdr

// Type is the contract shared by every XDR type descriptor.
type Type interface {
	// Read decodes one value.
	Read(r *Reader) (any, error)

	// Write encodes v. Invalid values produce a WriteError.
	Write(v any, w *Writer) error

	// IsValid reports whether v can be written by this type.
	IsValid(v any) bool
}

// Kind identifies the structured kinds that carry a declared name.
type Kind int

const (
	KindStruct Kind = iota + 1
	KindEnum
	KindUnion
)

func (k Kind) String() string {
	switch k {
	case KindStruct:
		return "struct"
	case KindEnum:
		return "enum"
	case KindUnion:
		return "union"
	default:
		return "unknown"
	}
}

// Named is implemented by struct, enum and union descriptors and by the
// values they produce. Two descriptors with the same declared name and kind
// are treated as the same type.
type Named interface {
	XDRName() string
	XDRKind() Kind
}

// MaxLength is the ceiling used for variable-length types declared without
// an explicit maximum.
const MaxLength = 1<<32 - 1

// TypeName returns the declared name of t for structured types and a short
// description for everything else. Used in logs, metrics and errors.
func TypeName(t Type) string {
	switch x := t.(type) {
	case nil:
		return "<nil>"
	case Named:
		return x.XDRName()
	case interface{ String() string }:
		return x.String()
	default:
		return "type"
	}
}
