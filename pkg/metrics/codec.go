package metrics

import (
	"time"
)

// CodecMetrics provides observability for encode, decode and validate
// operations.
//
// This interface is optional - pass nil to disable metrics collection with
// zero overhead.
//
// Example usage:
//
//	// With metrics enabled
//	metrics.InitRegistry()
//	c := codec.New(codec.Options{Metrics: metrics.NewCodecMetrics()})
//
//	// Without metrics
//	c := codec.New(codec.Options{})
type CodecMetrics interface {
	// ObserveOperation records a completed operation.
	//
	// Parameters:
	//   - operation: "encode", "decode" or "validate"
	//   - typeName: Declared name of the type (e.g., "SCVal")
	//   - duration: Time taken
	//   - errorKind: Error kind if the operation failed (e.g., "read"), empty if successful
	ObserveOperation(operation, typeName string, duration time.Duration, errorKind string)

	// RecordBytes records the size of the XDR payload handled.
	//
	// Parameters:
	//   - operation: "encode", "decode" or "validate"
	//   - bytes: Raw XDR size before any text rendering
	RecordBytes(operation string, bytes int)
}

// NewCodecMetrics creates a new Prometheus-backed CodecMetrics instance.
//
// Returns nil if metrics are not enabled (InitRegistry not called) or if the
// Prometheus implementation has not been linked in.
func NewCodecMetrics() CodecMetrics {
	if !IsEnabled() || newPrometheusCodecMetrics == nil {
		return nil
	}
	return newPrometheusCodecMetrics()
}

// newPrometheusCodecMetrics is implemented in pkg/metrics/prometheus/codec.go
// This indirection avoids import cycles while keeping the API clean
var newPrometheusCodecMetrics func() CodecMetrics

// RegisterCodecMetricsConstructor registers the Prometheus codec metrics constructor.
// Called by pkg/metrics/prometheus/codec.go during package initialization.
func RegisterCodecMetricsConstructor(constructor func() CodecMetrics) {
	newPrometheusCodecMetrics = constructor
}

// ObserveOperation records an operation on m if it is non-nil.
//
// Example usage:
//
//	start := time.Now()
//	data, err := xdr.ToXDR(t, v, format)
//	metrics.ObserveOperation(m, "encode", "SCVal", time.Since(start), kind)
func ObserveOperation(m CodecMetrics, operation, typeName string, duration time.Duration, errorKind string) {
	if m != nil {
		m.ObserveOperation(operation, typeName, duration, errorKind)
	}
}

// RecordBytes records a payload size on m if it is non-nil.
func RecordBytes(m CodecMetrics, operation string, bytes int) {
	if m != nil {
		m.RecordBytes(operation, bytes)
	}
}
