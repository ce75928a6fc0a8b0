package logger

import (
	"encoding/hex"
	"log/slog"
)

// Standard field keys for structured logging.
// Use these keys consistently so codec and CLI logs can be queried together.
const (
	// ========================================================================
	// Tracing
	// ========================================================================
	KeyTraceID = "trace_id" // OpenTelemetry trace ID for log correlation
	KeySpanID  = "span_id"  // OpenTelemetry span ID

	// ========================================================================
	// Operation
	// ========================================================================
	KeyOperation  = "operation"   // encode, decode, validate, convert
	KeyType       = "type"        // Declared XDR type name
	KeyKind       = "kind"        // struct, enum, union, typedef, const
	KeyFormat     = "format"      // raw, hex, base64
	KeyDefinition = "definition"  // Schema definition being resolved
	KeyNamespace  = "namespace"   // Number of names bound in a schema namespace
	KeyDurationMs = "duration_ms" // Operation duration in milliseconds

	// ========================================================================
	// Payload
	// ========================================================================
	KeySize   = "size"   // Input size in bytes
	KeyBytes  = "bytes"  // Encoded output size in bytes
	KeyLimit  = "limit"  // Configured maximum input size
	KeyOffset = "offset" // Reader offset at failure
	KeyData   = "data"   // Payload excerpt (hex)

	// ========================================================================
	// Errors
	// ========================================================================
	KeyError     = "error"      // Error message
	KeyErrorKind = "error_kind" // read error, write error, definition error

	// ========================================================================
	// Configuration
	// ========================================================================
	KeyPath   = "path"   // Config or input file path
	KeySource = "source" // file, env, defaults
)

// maxDataExcerpt bounds the payload bytes rendered by Data.
const maxDataExcerpt = 32

// ============================================================================
// Field constructors for type safety
// These functions provide type-safe construction of slog.Attr values.
// ============================================================================

// Operation returns a slog.Attr for the codec operation.
func Operation(op string) slog.Attr {
	return slog.String(KeyOperation, op)
}

// TypeName returns a slog.Attr for a declared XDR type name.
func TypeName(name string) slog.Attr {
	return slog.String(KeyType, name)
}

// Kind returns a slog.Attr for a definition kind.
func Kind(kind string) slog.Attr {
	return slog.String(KeyKind, kind)
}

// Format returns a slog.Attr for an encoding format.
func Format(format string) slog.Attr {
	return slog.String(KeyFormat, format)
}

// Definition returns a slog.Attr for a schema definition name.
func Definition(name string) slog.Attr {
	return slog.String(KeyDefinition, name)
}

// Size returns a slog.Attr for an input size.
func Size(n int) slog.Attr {
	return slog.Int(KeySize, n)
}

// Bytes returns a slog.Attr for an encoded size.
func Bytes(n int) slog.Attr {
	return slog.Int(KeyBytes, n)
}

// Limit returns a slog.Attr for a configured size limit.
func Limit(n int64) slog.Attr {
	return slog.Int64(KeyLimit, n)
}

// Data returns a slog.Attr with the first bytes of a payload as hex.
func Data(b []byte) slog.Attr {
	if len(b) > maxDataExcerpt {
		return slog.String(KeyData, hex.EncodeToString(b[:maxDataExcerpt])+"...")
	}
	return slog.String(KeyData, hex.EncodeToString(b))
}

// Path returns a slog.Attr for a file path.
func Path(p string) slog.Attr {
	return slog.String(KeyPath, p)
}

// DurationMs returns a slog.Attr for operation duration
func DurationMs(ms float64) slog.Attr {
	return slog.Float64(KeyDurationMs, ms)
}

// Err returns a slog.Attr for an error
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String(KeyError, err.Error())
}

// ErrorKind returns a slog.Attr for an error classification.
func ErrorKind(kind string) slog.Attr {
	return slog.String(KeyErrorKind, kind)
}
