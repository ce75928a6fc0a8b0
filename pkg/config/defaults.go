package config

import (
	"strings"

	"github.com/marmos91/xdrkit/internal/bytesize"
	"github.com/marmos91/xdrkit/pkg/xdr"
)

// DefaultMaxInputSize bounds decode input when nothing else is configured.
const DefaultMaxInputSize = bytesize.MiB

// ApplyDefaults sets default values for any unspecified configuration fields.
//
// Default Strategy:
//   - Zero values (0, "", false) are replaced with defaults
//   - Explicit values are preserved
//   - Enumerated strings are normalized
func ApplyDefaults(cfg *Config) {
	applyLoggingDefaults(&cfg.Logging)
	applyTelemetryDefaults(&cfg.Telemetry)
	applyCodecDefaults(&cfg.Codec)
}

// applyLoggingDefaults sets logging defaults and normalizes values.
func applyLoggingDefaults(cfg *LoggingConfig) {
	if cfg.Level == "" {
		cfg.Level = "INFO"
	}
	cfg.Level = strings.ToUpper(cfg.Level)

	if cfg.Format == "" {
		cfg.Format = "text"
	}
	cfg.Format = strings.ToLower(cfg.Format)

	if cfg.Output == "" {
		cfg.Output = "stderr"
	}
}

// applyTelemetryDefaults fills the collector endpoint. Insecure and
// SampleRate have non-zero defaults that an explicit false or 0 must be
// able to override, so they are only set by GetDefaultConfig.
func applyTelemetryDefaults(cfg *TelemetryConfig) {
	if cfg.Endpoint == "" {
		cfg.Endpoint = "localhost:4317"
	}
}

// applyCodecDefaults sets codec defaults.
func applyCodecDefaults(cfg *CodecConfig) {
	cfg.Format = strings.ToLower(strings.TrimSpace(cfg.Format))
	if cfg.Format == "" {
		cfg.Format = string(xdr.FormatBase64)
	}
	if cfg.MaxInputSize == 0 {
		cfg.MaxInputSize = DefaultMaxInputSize
	}
}

// GetDefaultConfig returns a Config struct with all default values applied.
//
// This is useful for:
//   - Generating sample configuration files
//   - Testing
//   - Documentation
func GetDefaultConfig() *Config {
	cfg := &Config{
		Telemetry: TelemetryConfig{Insecure: true, SampleRate: 1.0},
	}
	ApplyDefaults(cfg)
	return cfg
}
