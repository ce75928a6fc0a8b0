package xdr

import (
	"errors"
	"fmt"
)

// ErrorKind classifies codec failures.
type ErrorKind int

const (
	// ReadError covers malformed input: buffer overrun, non-zero padding,
	// unknown enum values, length prefixes above the declared maximum and
	// input left over after a top-level decode.
	ReadError ErrorKind = iota + 1

	// WriteError covers values that cannot be encoded by the target type:
	// invalid values, shape mismatches, out of range or non-integral numbers.
	WriteError

	// DefinitionError covers schema construction problems: duplicate names,
	// unresolved references and types used before they are defined.
	DefinitionError
)

func (k ErrorKind) String() string {
	switch k {
	case ReadError:
		return "read error"
	case WriteError:
		return "write error"
	case DefinitionError:
		return "definition error"
	default:
		return "unknown error"
	}
}

// Error is the error type returned by every codec operation.
type Error struct {
	Kind    ErrorKind
	Message string

	// Err is the underlying cause, if any (for example a *wideint.RangeError).
	Err error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("xdr %s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("xdr %s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error of the same kind with an empty message, so
// errors.Is(err, &Error{Kind: ReadError}) works as a kind check.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Message == "" || t.Message == e.Message)
}

func readErrorf(format string, args ...any) error {
	return &Error{Kind: ReadError, Message: fmt.Sprintf(format, args...)}
}

func writeErrorf(format string, args ...any) error {
	return &Error{Kind: WriteError, Message: fmt.Sprintf(format, args...)}
}

func definitionErrorf(format string, args ...any) error {
	return &Error{Kind: DefinitionError, Message: fmt.Sprintf(format, args...)}
}

// NewError builds an *Error of the given kind. Used by packages layered on
// top of the codec (the schema builder in particular).
func NewError(kind ErrorKind, cause error, format string, args ...any) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: cause}
}

func kindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// IsReadError reports whether err is (or wraps) a read error.
func IsReadError(err error) bool { return kindOf(err) == ReadError }

// IsWriteError reports whether err is (or wraps) a write error.
func IsWriteError(err error) bool { return kindOf(err) == WriteError }

// IsDefinitionError reports whether err is (or wraps) a definition error.
func IsDefinitionError(err error) bool { return kindOf(err) == DefinitionError }
