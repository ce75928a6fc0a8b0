package prometheus

import (
	"time"

	"github.com/marmos91/xdrkit/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func init() {
	metrics.RegisterCodecMetricsConstructor(NewCodecMetrics)
}

// codecMetrics is the Prometheus implementation of metrics.CodecMetrics.
type codecMetrics struct {
	operationsTotal   *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	errorsTotal       *prometheus.CounterVec
	payloadBytes      *prometheus.HistogramVec
}

// NewCodecMetrics creates a new Prometheus-backed CodecMetrics instance.
//
// Returns nil if metrics are not enabled (InitRegistry not called).
func NewCodecMetrics() metrics.CodecMetrics {
	if !metrics.IsEnabled() {
		return nil
	}

	reg := metrics.GetRegistry()

	return &codecMetrics{
		operationsTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "xdrkit_codec_operations_total",
				Help: "Total number of codec operations by operation, type and status",
			},
			[]string{"operation", "type", "status"},
		),
		operationDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "xdrkit_codec_operation_duration_milliseconds",
				Help: "Duration of codec operations in milliseconds",
				Buckets: []float64{
					0.01, // 10us - scalars
					0.05,
					0.1,
					0.5,
					1, // 1ms - nested values
					5,
					10,
					50,
					100, // 100ms - very large vectors
				},
			},
			[]string{"operation"},
		),
		errorsTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "xdrkit_codec_errors_total",
				Help: "Total number of failed codec operations by error kind",
			},
			[]string{"operation", "kind"},
		),
		payloadBytes: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "xdrkit_codec_payload_bytes",
				Help: "Distribution of raw XDR payload sizes",
				Buckets: []float64{
					4,       // single word
					32,      // small structs
					256,     // 256B
					4096,    // 4KB
					65536,   // 64KB
					1048576, // 1MB
				},
			},
			[]string{"operation"},
		),
	}
}

func (m *codecMetrics) ObserveOperation(operation, typeName string, duration time.Duration, errorKind string) {
	if m == nil {
		return
	}
	status := "success"
	if errorKind != "" {
		status = "error"
		m.errorsTotal.WithLabelValues(operation, errorKind).Inc()
	}
	m.operationsTotal.WithLabelValues(operation, typeName, status).Inc()
	m.operationDuration.WithLabelValues(operation).Observe(float64(duration.Microseconds()) / 1000)
}

func (m *codecMetrics) RecordBytes(operation string, bytes int) {
	if m == nil {
		return
	}
	m.payloadBytes.WithLabelValues(operation).Observe(float64(bytes))
}
