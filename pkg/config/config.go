package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/marmos91/xdrkit/internal/bytesize"
	"github.com/marmos91/xdrkit/pkg/xdr"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config represents the xdrkit configuration.
//
// Configuration sources (in order of precedence):
//  1. CLI flags (highest priority)
//  2. Environment variables (XDRKIT_*)
//  3. Configuration file (YAML)
//  4. Default values (lowest priority)
type Config struct {
	// Logging controls log output behavior
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`

	// Metrics controls collection of codec metrics
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics"`

	// Telemetry controls OpenTelemetry tracing of codec operations
	Telemetry TelemetryConfig `mapstructure:"telemetry" yaml:"telemetry"`

	// Codec holds defaults for encode, decode and validate commands
	Codec CodecConfig `mapstructure:"codec" yaml:"codec"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	// Level is the minimum log level to output
	// Valid values: DEBUG, INFO, WARN, ERROR (case-insensitive, normalized to uppercase)
	Level string `mapstructure:"level" validate:"required,oneof=DEBUG INFO WARN ERROR debug info warn error" yaml:"level" jsonschema:"enum=DEBUG,enum=INFO,enum=WARN,enum=ERROR"`

	// Format specifies the log output format
	// Valid values: text, json
	Format string `mapstructure:"format" validate:"required,oneof=text json" yaml:"format" jsonschema:"enum=text,enum=json"`

	// Output specifies where logs are written
	// Valid values: stdout, stderr, or a file path. Defaults to stderr so that
	// encoded data written to stdout stays clean.
	Output string `mapstructure:"output" validate:"required" yaml:"output" jsonschema_description:"stdout or stderr or a file path"`
}

// MetricsConfig controls Prometheus metrics collection.
// When Enabled is false, no metrics are collected (zero overhead).
type MetricsConfig struct {
	// Enabled controls whether codec operations are measured
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`

	// Output is the file the metrics are written to, in Prometheus text
	// format, when a command finishes. Empty means stderr.
	Output string `mapstructure:"output" yaml:"output,omitempty" jsonschema_description:"File receiving metrics in Prometheus text format"`
}

// TelemetryConfig controls span export to an OTLP collector.
type TelemetryConfig struct {
	// Enabled turns on tracing
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`

	// Endpoint is the OTLP gRPC collector address
	Endpoint string `mapstructure:"endpoint" validate:"required_if=Enabled true" yaml:"endpoint" jsonschema_description:"OTLP gRPC endpoint such as localhost:4317"`

	// Insecure disables TLS towards the collector
	Insecure bool `mapstructure:"insecure" yaml:"insecure"`

	// SampleRate is the fraction of operations traced
	SampleRate float64 `mapstructure:"sample_rate" validate:"gte=0,lte=1" yaml:"sample_rate" jsonschema:"minimum=0,maximum=1"`
}

// CodecConfig holds codec defaults.
type CodecConfig struct {
	// Format is the text rendering of XDR data on input and output
	// Valid values: raw, hex, base64
	Format string `mapstructure:"format" validate:"required,oneof=raw hex base64" yaml:"format" jsonschema:"enum=raw,enum=hex,enum=base64"`

	// MaxInputSize rejects larger inputs before decoding
	// Supports human-readable formats: "64Ki", "1Mi", "4MB"
	// Default: 1Mi
	MaxInputSize bytesize.ByteSize `mapstructure:"max_input_size" validate:"gt=0" yaml:"max_input_size" jsonschema_description:"Maximum input size such as 1Mi or 65536"`
}

// XDRFormat returns the configured format as an xdr.Format.
func (c CodecConfig) XDRFormat() (xdr.Format, error) {
	return xdr.ParseFormat(c.Format)
}

// Load loads configuration from file, environment, and defaults.
//
// Configuration precedence (highest to lowest):
//  1. Environment variables (XDRKIT_*)
//  2. Configuration file
//  3. Default values
//
// A missing configuration file is not an error: defaults and environment
// variables are used instead.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setupViper(v, configPath)
	setViperDefaults(v)

	if _, err := readConfigFile(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, viper.DecodeHook(configDecodeHooks())); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// MustLoad loads configuration with helpful error messages.
// Unlike Load, it requires the configuration file to exist.
func MustLoad(configPath string) (*Config, error) {
	if configPath == "" {
		if !DefaultConfigExists() {
			return nil, fmt.Errorf("no configuration file found at default location: %s\n\n"+
				"Please initialize a configuration file first:\n"+
				"  xdrkit config init\n\n"+
				"Or specify a custom config file:\n"+
				"  xdrkit <command> --config /path/to/config.yaml",
				GetDefaultConfigPath())
		}
		configPath = GetDefaultConfigPath()
	} else if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("configuration file not found: %s\n\n"+
			"Please create the configuration file:\n"+
			"  xdrkit config init --config %s",
			configPath, configPath)
	}

	cfg, err := Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to the specified file path in YAML.
func SaveConfig(cfg *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// setupViper configures viper with environment variables and config file settings.
func setupViper(v *viper.Viper, configPath string) {
	// Example: XDRKIT_CODEC_FORMAT=hex
	v.SetEnvPrefix("XDRKIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		return
	}

	// $XDG_CONFIG_HOME/xdrkit/config.yaml
	v.AddConfigPath(getConfigDir())
	v.SetConfigName("config")
	v.SetConfigType("yaml")
}

// setViperDefaults registers every key so that environment variables apply
// even when no configuration file exists.
func setViperDefaults(v *viper.Viper) {
	d := GetDefaultConfig()
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.output", d.Logging.Output)
	v.SetDefault("metrics.enabled", d.Metrics.Enabled)
	v.SetDefault("metrics.output", d.Metrics.Output)
	v.SetDefault("telemetry.enabled", d.Telemetry.Enabled)
	v.SetDefault("telemetry.endpoint", d.Telemetry.Endpoint)
	v.SetDefault("telemetry.insecure", d.Telemetry.Insecure)
	v.SetDefault("telemetry.sample_rate", d.Telemetry.SampleRate)
	v.SetDefault("codec.format", d.Codec.Format)
	v.SetDefault("codec.max_input_size", uint64(d.Codec.MaxInputSize))
}

// readConfigFile reads the configuration file if it exists.
// Returns (fileFound, error) where fileFound indicates if a config file was found.
func readConfigFile(v *viper.Viper) (bool, error) {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return false, nil
		}
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read config file: %w", err)
	}

	return true, nil
}

// configDecodeHooks returns the decode hooks for custom config types.
func configDecodeHooks() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		byteSizeDecodeHook(),
	)
}

// byteSizeDecodeHook converts strings and numbers to bytesize.ByteSize, so
// config files and environment variables can use sizes like "1Mi" or "64KB".
func byteSizeDecodeHook() mapstructure.DecodeHookFunc {
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != reflect.TypeOf(bytesize.ByteSize(0)) {
			return data, nil
		}

		switch v := data.(type) {
		case string:
			return bytesize.Parse(v)
		case int:
			if v < 0 {
				return nil, fmt.Errorf("negative byte size %d", v)
			}
			return bytesize.ByteSize(v), nil
		case int64:
			if v < 0 {
				return nil, fmt.Errorf("negative byte size %d", v)
			}
			return bytesize.ByteSize(v), nil
		case uint64:
			return bytesize.ByteSize(v), nil
		case float64:
			// YAML often deserializes numbers as float64
			if v < 0 {
				return nil, fmt.Errorf("negative byte size %v", v)
			}
			return bytesize.ByteSize(v), nil
		default:
			return data, nil
		}
	}
}

// getConfigDir returns the configuration directory path.
//
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config, or falls back to current
// directory (.) if home directory cannot be determined.
func getConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "xdrkit")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}

	return filepath.Join(home, ".config", "xdrkit")
}

// GetDefaultConfigPath returns the default configuration file path.
func GetDefaultConfigPath() string {
	return filepath.Join(getConfigDir(), "config.yaml")
}

// DefaultConfigExists checks if a config file exists at the default location.
func DefaultConfigExists() bool {
	_, err := os.Stat(GetDefaultConfigPath())
	return err == nil
}

// GetConfigDir returns the configuration directory path (exposed for init command).
func GetConfigDir() string {
	return getConfigDir()
}
