package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/marmos91/xdrkit/internal/bytesize"
	"github.com/marmos91/xdrkit/internal/cli/output"
	"github.com/marmos91/xdrkit/internal/cli/prompt"
	"github.com/marmos91/xdrkit/pkg/config"
	"github.com/spf13/cobra"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
		Long: `Create, inspect and validate the xdrkit configuration file.

The default location is $XDG_CONFIG_HOME/xdrkit/config.yaml
(~/.config/xdrkit/config.yaml when XDG_CONFIG_HOME is unset).`,
		// Config commands must work with a missing or broken file.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	}

	cmd.AddCommand(
		newConfigInitCmd(a),
		newConfigShowCmd(a),
		newConfigSchemaCmd(),
		newConfigValidateCmd(a),
	)
	return cmd
}

func (a *app) configFile() string {
	if a.configPath != "" {
		return a.configPath
	}
	return config.GetDefaultConfigPath()
}

func newConfigInitCmd(a *app) *cobra.Command {
	var (
		force       bool
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a configuration file with default values",
		Long: `Write a configuration file with default values.

Examples:
  # Create the default config file
  xdrkit config init

  # Choose values interactively
  xdrkit config init --interactive

  # Overwrite an existing file
  xdrkit config init --config ./xdrkit.yaml --force`,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.configFile()

			if _, err := os.Stat(path); err == nil {
				ok, err := prompt.ConfirmWithForce(fmt.Sprintf("%s exists. Overwrite", path), force)
				if err != nil {
					if prompt.IsAborted(err) {
						return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", path)
					}
					return err
				}
				if !ok {
					return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", path)
				}
			}

			cfg := config.GetDefaultConfig()
			if interactive {
				if err := askConfig(cfg); err != nil {
					return err
				}
			}
			if err := config.Validate(cfg); err != nil {
				return err
			}

			if err := config.SaveConfig(cfg, path); err != nil {
				return err
			}

			p, err := a.printer(cmd)
			if err != nil {
				return err
			}
			p.Success(fmt.Sprintf("Configuration written to %s", path))
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Prompt for each setting")
	return cmd
}

// askConfig fills cfg from interactive prompts, starting from its current
// values.
func askConfig(cfg *config.Config) error {
	var err error

	cfg.Codec.Format, err = prompt.Select("Data format", []prompt.Option{
		{Label: "base64", Value: "base64", Description: "Standard padded base64"},
		{Label: "hex", Value: "hex", Description: "Lowercase hexadecimal"},
		{Label: "raw", Value: "raw", Description: "Binary XDR bytes"},
	}, cfg.Codec.Format)
	if err != nil {
		return err
	}

	size, err := prompt.Input("Maximum input size", cfg.Codec.MaxInputSize.String(), func(s string) error {
		_, err := bytesize.Parse(s)
		return err
	})
	if err != nil {
		return err
	}
	if cfg.Codec.MaxInputSize, err = bytesize.Parse(size); err != nil {
		return err
	}

	cfg.Logging.Level, err = prompt.Select("Log level", []prompt.Option{
		{Label: "DEBUG", Value: "DEBUG"},
		{Label: "INFO", Value: "INFO"},
		{Label: "WARN", Value: "WARN"},
		{Label: "ERROR", Value: "ERROR"},
	}, cfg.Logging.Level)
	if err != nil {
		return err
	}

	cfg.Metrics.Enabled, err = prompt.Confirm("Collect codec metrics")
	return err
}

func newConfigShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Long: `Print the configuration after defaults and XDRKIT_* environment
variables have been applied, as YAML (or JSON with --output json).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			if a.output == string(output.FormatJSON) {
				return output.PrintJSON(cmd.OutOrStdout(), cfg)
			}
			return output.PrintYAML(cmd.OutOrStdout(), cfg)
		},
	}
}

func newConfigSchemaCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Generate JSON schema for configuration",
		Long: `Generate a JSON schema for the xdrkit configuration file.

The schema can be used for editor completion and to validate configuration
files with external tools.

Examples:
  # Print schema to stdout
  xdrkit config schema

  # Save schema to file
  xdrkit config schema --file config.schema.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := json.MarshalIndent(config.JSONSchema(), "", "  ")
			if err != nil {
				return fmt.Errorf("failed to generate schema: %w", err)
			}

			if file != "" {
				if err := os.WriteFile(file, data, 0644); err != nil {
					return fmt.Errorf("failed to write schema file: %w", err)
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "JSON schema written to %s\n", file)
				return nil
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Output file (default: stdout)")
	return cmd
}

func newConfigValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		Long: `Validate the xdrkit configuration file.

Checks for syntax errors and invalid values. Unlike other commands, a
missing file is an error.

Examples:
  xdrkit config validate
  xdrkit config validate --config ./xdrkit.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.MustLoad(a.configPath)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "Configuration file: %s\n", a.configFile())
			_, _ = fmt.Fprintln(w, "Validation: OK")
			_, _ = fmt.Fprintln(w)

			return output.SimpleTable(w, [][2]string{
				{"Log level", cfg.Logging.Level},
				{"Log format", cfg.Logging.Format},
				{"Data format", cfg.Codec.Format},
				{"Max input size", cfg.Codec.MaxInputSize.String()},
				{"Metrics", fmt.Sprintf("%t", cfg.Metrics.Enabled)},
			})
		},
	}
}
