// Package commands implements the xdrkit command line.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/marmos91/xdrkit/internal/cli/output"
	"github.com/marmos91/xdrkit/internal/logger"
	"github.com/marmos91/xdrkit/internal/telemetry"
	"github.com/marmos91/xdrkit/pkg/codec"
	"github.com/marmos91/xdrkit/pkg/config"
	"github.com/marmos91/xdrkit/pkg/metrics"
	_ "github.com/marmos91/xdrkit/pkg/metrics/prometheus"
	"github.com/marmos91/xdrkit/pkg/xdr"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
)

var (
	// Version information injected at build time.
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// app holds flag values and the state built from them before a command runs.
type app struct {
	configPath string
	format     string
	output     string
	logLevel   string
	noColor    bool
	metricsOut string

	cfg      *config.Config
	codec    *codec.Codec
	shutdown func(context.Context) error
}

// Execute builds the command tree and runs it with os.Args.
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd returns a fresh command tree. Each call has its own flag state,
// which keeps tests independent.
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "xdrkit",
		Short: "Encode, decode and inspect XDR smart-contract values",
		Long: `xdrkit works with XDR (RFC 4506) encodings of the smart-contract ABI
value model: SCVal and the types it is built from.

Data is read and written as raw bytes, hex or base64 (--format). Logs go to
stderr so that encoded output on stdout can be piped.

Use "xdrkit [command] --help" for more information about a command.`,
		SilenceUsage:       true,
		SilenceErrors:      true,
		PersistentPreRunE:  a.setup,
		PersistentPostRunE: a.teardown,
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "Config file (default: $XDG_CONFIG_HOME/xdrkit/config.yaml)")
	flags.StringVarP(&a.format, "format", "f", "", "Data format (raw|hex|base64), overrides codec.format")
	flags.StringVarP(&a.output, "output", "o", "table", "Listing format (table|json|yaml)")
	flags.StringVar(&a.logLevel, "log-level", "", "Log level (DEBUG|INFO|WARN|ERROR), overrides logging.level")
	flags.BoolVar(&a.noColor, "no-color", false, "Disable colored output")
	flags.StringVar(&a.metricsOut, "metrics-out", "", "Enable metrics and write them to this file in Prometheus text format ('-' for stderr)")

	root.AddCommand(
		newVersionCmd(),
		newTypesCmd(a),
		newDescribeCmd(a),
		newEncodeCmd(a),
		newValidateCmd(a),
		newConvertCmd(a),
		newConfigCmd(a),
		newCompletionCmd(),
	)
	root.CompletionOptions.DisableDefaultCmd = true

	return root
}

// setup loads configuration, applies flag overrides and initializes the
// logger, metrics and codec.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}

	if a.format != "" {
		cfg.Codec.Format = strings.ToLower(a.format)
	}
	if a.logLevel != "" {
		cfg.Logging.Level = strings.ToUpper(a.logLevel)
	}
	if a.metricsOut != "" {
		cfg.Metrics.Enabled = true
		if a.metricsOut != "-" {
			cfg.Metrics.Output = a.metricsOut
		}
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}

	if err := logger.Init(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	}); err != nil {
		return err
	}

	var m metrics.CodecMetrics
	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
		m = metrics.NewCodecMetrics()
	}

	format, err := cfg.Codec.XDRFormat()
	if err != nil {
		return err
	}

	a.shutdown, err = telemetry.Init(cmd.Context(), telemetry.Config{
		Enabled:        cfg.Telemetry.Enabled,
		ServiceName:    "xdrkit",
		ServiceVersion: Version,
		Endpoint:       cfg.Telemetry.Endpoint,
		Insecure:       cfg.Telemetry.Insecure,
		SampleRate:     cfg.Telemetry.SampleRate,
	})
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.codec = codec.New(codec.Options{
		Metrics:      m,
		MaxInputSize: cfg.Codec.MaxInputSize.Int64(),
		Format:       format,
	})

	logger.Debug("configuration loaded",
		logger.Path(a.configPath), logger.Format(string(format)), logger.Limit(cfg.Codec.MaxInputSize.Int64()))
	return nil
}

// teardown flushes spans and writes metrics after a command ran.
func (a *app) teardown(cmd *cobra.Command, args []string) error {
	var errs []error
	if a.shutdown != nil {
		if err := a.shutdown(cmd.Context()); err != nil {
			errs = append(errs, fmt.Errorf("failed to flush traces: %w", err))
		}
	}
	if err := a.dumpMetrics(cmd); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// printer returns an output.Printer for listing commands.
func (a *app) printer(cmd *cobra.Command) (*output.Printer, error) {
	format, err := output.ParseFormat(a.output)
	if err != nil {
		return nil, err
	}
	return output.NewPrinter(cmd.OutOrStdout(), format, !a.noColor), nil
}

// dumpMetrics writes the xdrkit metric families when metrics are enabled.
func (a *app) dumpMetrics(cmd *cobra.Command) error {
	if a.cfg == nil || !a.cfg.Metrics.Enabled || !metrics.IsEnabled() {
		return nil
	}

	families, err := metrics.GetRegistry().Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}

	var w io.Writer = cmd.ErrOrStderr()
	if path := a.cfg.Metrics.Output; path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create metrics file: %w", err)
		}
		defer func() { _ = f.Close() }()
		w = f
	}

	for _, mf := range families {
		if !strings.HasPrefix(mf.GetName(), "xdrkit_") {
			continue
		}
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
	}
	return nil
}

// readInput reads the file named by args[i], or stdin when it is absent or
// "-".
func readInput(cmd *cobra.Command, args []string, i int) ([]byte, error) {
	if len(args) > i && args[i] != "-" {
		data, err := os.ReadFile(args[i])
		if err != nil {
			return nil, fmt.Errorf("failed to read input: %w", err)
		}
		return data, nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return nil, fmt.Errorf("failed to read stdin: %w", err)
	}
	return data, nil
}

// writeData writes encoded data, adding a newline after text formats.
func writeData(w io.Writer, format xdr.Format, data []byte) error {
	if _, err := w.Write(data); err != nil {
		return err
	}
	if format != xdr.FormatRaw {
		_, err := io.WriteString(w, "\n")
		return err
	}
	return nil
}
