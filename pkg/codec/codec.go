// Package codec wraps the XDR helpers with input limits, text formats,
// structured logging, tracing and metrics. It is what the CLI uses; library users
// who need none of that can call xdr.ToXDR and xdr.FromXDR directly.
package codec

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/marmos91/xdrkit/internal/logger"
	"github.com/marmos91/xdrkit/internal/telemetry"
	"github.com/marmos91/xdrkit/pkg/metrics"
	"github.com/marmos91/xdrkit/pkg/xdr"
)

// Operation names used in logs and metric labels.
const (
	OpEncode   = "encode"
	OpDecode   = "decode"
	OpValidate = "validate"
)

// Options configures a Codec.
type Options struct {
	// Metrics receives per-operation observations. Nil disables metrics.
	Metrics metrics.CodecMetrics

	// MaxInputSize rejects Decode and Validate input longer than this many
	// bytes (measured before text decoding). Zero means no limit.
	MaxInputSize int64

	// Format is the text rendering used for input and output. Empty means raw.
	Format xdr.Format
}

// Codec encodes and decodes values of arbitrary schema types.
// A Codec is immutable and safe for concurrent use.
type Codec struct {
	metrics  metrics.CodecMetrics
	maxInput int64
	format   xdr.Format
}

// New creates a Codec.
func New(opts Options) *Codec {
	format := opts.Format
	if format == "" {
		format = xdr.FormatRaw
	}
	return &Codec{
		metrics:  opts.Metrics,
		maxInput: opts.MaxInputSize,
		format:   format,
	}
}

// Format returns the text format used by the codec.
func (c *Codec) Format() xdr.Format { return c.format }

// WithFormat returns a copy of c using a different format.
func (c *Codec) WithFormat(format xdr.Format) *Codec {
	clone := *c
	clone.format = format
	return &clone
}

// Encode writes v with t and renders it in the codec's format.
func (c *Codec) Encode(ctx context.Context, t xdr.Type, v any) ([]byte, error) {
	ctx, op := c.begin(ctx, OpEncode, t)
	if err := ctx.Err(); err != nil {
		return nil, c.finish(ctx, op, 0, err)
	}

	raw, err := xdr.ToXDR(t, v, xdr.FormatRaw)
	if err != nil {
		return nil, c.finish(ctx, op, 0, err)
	}
	out, err := c.format.Encode(raw)
	return out, c.finish(ctx, op, len(raw), err)
}

// Decode parses data in the codec's format as one value of type t. The
// input must be consumed entirely.
func (c *Codec) Decode(ctx context.Context, t xdr.Type, data []byte) (any, error) {
	ctx, op := c.begin(ctx, OpDecode, t)
	v, n, err := c.decode(ctx, t, data)
	return v, c.finish(ctx, op, n, err)
}

// Validate reports why data is not a valid encoding of t, or nil if it is.
func (c *Codec) Validate(ctx context.Context, t xdr.Type, data []byte) error {
	ctx, op := c.begin(ctx, OpValidate, t)
	_, n, err := c.decode(ctx, t, data)
	return c.finish(ctx, op, n, err)
}

func (c *Codec) decode(ctx context.Context, t xdr.Type, data []byte) (any, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	if c.maxInput > 0 && int64(len(data)) > c.maxInput {
		return nil, 0, xdr.NewError(xdr.ReadError, nil,
			"input of %d bytes exceeds the limit of %d bytes", len(data), c.maxInput)
	}

	raw, err := c.format.Decode(data)
	if err != nil {
		return nil, 0, err
	}
	v, err := xdr.FromXDR(t, raw, xdr.FormatRaw)
	return v, len(raw), err
}

// operation is the per-call state shared by begin and finish.
type operation struct {
	lc   *logger.LogContext
	span trace.Span
}

func (c *Codec) begin(ctx context.Context, op string, t xdr.Type) (context.Context, operation) {
	if ctx == nil {
		ctx = context.Background()
	}
	name := xdr.TypeName(t)
	ctx, span := telemetry.StartCodecSpan(ctx, op, name, string(c.format))

	lc := logger.NewLogContext(op).WithType(name).WithFormat(string(c.format)).
		WithTrace(telemetry.TraceID(ctx), telemetry.SpanID(ctx))
	return logger.WithContext(ctx, lc), operation{lc: lc, span: span}
}

// finish logs, traces and records the outcome of one operation and returns
// err unchanged.
func (c *Codec) finish(ctx context.Context, op operation, size int, err error) error {
	defer op.span.End()

	lc := op.lc
	kind := ErrorKind(err)
	metrics.ObserveOperation(c.metrics, lc.Operation, lc.TypeName, time.Since(lc.StartTime), kind)

	if err != nil {
		telemetry.SetAttributes(ctx, telemetry.ErrorKind(kind))
		telemetry.RecordError(ctx, err)
		logger.DebugCtx(ctx, "codec operation failed",
			logger.ErrorKind(kind), logger.Err(err), logger.DurationMs(lc.DurationMs()))
		return err
	}

	telemetry.SetAttributes(ctx, telemetry.Size(size))
	metrics.RecordBytes(c.metrics, lc.Operation, size)
	logger.DebugCtx(ctx, "codec operation completed",
		logger.Size(size), logger.DurationMs(lc.DurationMs()))
	return nil
}

// ErrorKind returns a short label for err: "read", "write", "definition",
// "canceled" or "other". Nil errors return "".
func ErrorKind(err error) string {
	if err == nil {
		return ""
	}
	var e *xdr.Error
	if errors.As(err, &e) {
		switch e.Kind {
		case xdr.ReadError:
			return "read"
		case xdr.WriteError:
			return "write"
		case xdr.DefinitionError:
			return "definition"
		}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return "canceled"
	}
	return "other"
}
