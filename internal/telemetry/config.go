package telemetry

// Config holds OpenTelemetry tracing configuration.
type Config struct {
	// Enabled turns on span export. When false every span is a no-op.
	Enabled bool

	// ServiceName is reported as service.name on every span
	ServiceName string

	// ServiceVersion is reported as service.version
	ServiceVersion string

	// Endpoint is the OTLP gRPC collector address (e.g., "localhost:4317")
	Endpoint string

	// Insecure disables TLS towards the collector
	Insecure bool

	// SampleRate is the fraction of operations traced (0.0 to 1.0)
	SampleRate float64
}

// DefaultConfig returns tracing disabled, pointed at a local collector.
func DefaultConfig() Config {
	return Config{
		Enabled:        false,
		ServiceName:    "xdrkit",
		ServiceVersion: "dev",
		Endpoint:       "localhost:4317",
		Insecure:       true,
		SampleRate:     1.0,
	}
}
