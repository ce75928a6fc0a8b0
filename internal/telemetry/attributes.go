package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Attribute keys for codec spans.
const (
	AttrOperation = "xdr.operation" // encode, decode, validate
	AttrType      = "xdr.type"      // Declared XDR type name
	AttrFormat    = "xdr.format"    // raw, hex, base64
	AttrSize      = "xdr.size"      // Raw XDR payload size in bytes
	AttrErrorKind = "xdr.error_kind"
)

// SpanPrefix prefixes codec span names: "xdr.encode", "xdr.decode".
const SpanPrefix = "xdr."

// Attribute constructors for the keys above.
func Operation(op string) attribute.KeyValue { return attribute.String(AttrOperation, op) }
func Type(name string) attribute.KeyValue { return attribute.String(AttrType, name) }
func Format(f string) attribute.KeyValue { return attribute.String(AttrFormat, f) }
func Size(n int) attribute.KeyValue { return attribute.Int(AttrSize, n) }
func ErrorKind(k string) attribute.KeyValue { return attribute.String(AttrErrorKind, k) }

// StartCodecSpan starts an internal span for one codec operation.
func StartCodecSpan(ctx context.Context, op, typeName, format string) (context.Context, trace.Span) {
	return StartSpan(ctx, SpanPrefix+op,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(Operation(op), Type(typeName), Format(format)),
	)
}
