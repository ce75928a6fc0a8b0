package commands

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"slices"

	"github.com/marmos91/xdrkit/internal/cli/output"
	"github.com/marmos91/xdrkit/internal/logger"
	"github.com/marmos91/xdrkit/pkg/xdr"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// fileResult is the outcome of validating one input file.
type fileResult struct {
	File  string `json:"file" yaml:"file"`
	Valid bool   `json:"valid" yaml:"valid"`
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}

// ValidationReport lists per-file results in argument order.
type ValidationReport []fileResult

func (r ValidationReport) Headers() []string { return []string{"FILE", "RESULT", "ERROR"} }

func (r ValidationReport) Rows() [][]string {
	rows := make([][]string, 0, len(r))
	for _, res := range r {
		status := "valid"
		if !res.Valid {
			status = "invalid"
		}
		rows = append(rows, []string{res.File, status, res.Error})
	}
	return rows
}

func newValidateCmd(a *app) *cobra.Command {
	var (
		quiet bool
		jobs  int
	)

	cmd := &cobra.Command{
		Use:   "validate <type> [file...]",
		Short: "Check that input is a valid encoding of a type",
		Long: `Check that the input decodes as exactly one value of the given type.

Input is read from stdin when no file is given or the file is "-". With
several files they are checked concurrently and a report is printed (see
--output); "-" is not accepted among them. The exit status is non-zero when any input is invalid.

Examples:
  xdrkit validate SCVal payload.b64
  echo AAAAAwAAAAc= | xdrkit validate SCVal
  xdrkit validate SCVal --format hex --quiet < value.hex
  xdrkit validate SCVal fixtures/*.xdr --format raw -o json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := lookupType(args[0])
			if err != nil {
				return err
			}

			if len(args) <= 2 {
				return a.validateOne(cmd, t, args, quiet)
			}

			if slices.Contains(args[1:], "-") {
				return fmt.Errorf("stdin (\"-\") cannot be combined with other files")
			}

			report := a.validateFiles(cmd.Context(), t, args[1:], jobs)
			if !quiet {
				p, err := a.printer(cmd)
				if err != nil {
					return err
				}
				if err := p.Print(report); err != nil {
					return err
				}
			}

			invalid := 0
			for _, res := range report {
				if !res.Valid {
					invalid++
				}
			}
			if invalid > 0 {
				return fmt.Errorf("%d of %d inputs are not valid %s", invalid, len(report), args[0])
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Print nothing on success")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", runtime.GOMAXPROCS(0), "Files validated concurrently")
	return cmd
}

func (a *app) validateOne(cmd *cobra.Command, t xdr.Type, args []string, quiet bool) error {
	data, err := readInput(cmd, args, 1)
	if err != nil {
		return err
	}

	if err := a.codec.Validate(cmd.Context(), t, data); err != nil {
		logger.Info("input rejected", logger.TypeName(args[0]), logger.Size(len(data)), logger.Err(err))
		return fmt.Errorf("invalid %s: %w", args[0], err)
	}

	if !quiet {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "valid %s\n", args[0])
	}
	return nil
}

// validateFiles checks every file with at most jobs running at once. Invalid
// input is reported, not returned, so one bad file does not stop the rest.
func (a *app) validateFiles(ctx context.Context, t xdr.Type, files []string, jobs int) ValidationReport {
	report := make(ValidationReport, len(files))

	g, ctx := errgroup.WithContext(ctx)
	if jobs > 0 {
		g.SetLimit(jobs)
	}

	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			res := fileResult{File: file}
			data, err := os.ReadFile(file)
			if err == nil {
				err = a.codec.Validate(ctx, t, data)
			}
			if err != nil {
				res.Error = err.Error()
				logger.Debug("input rejected", logger.Path(file), logger.Err(err))
			} else {
				res.Valid = true
			}
			report[i] = res
			return nil
		})
	}
	_ = g.Wait()

	return report
}

var _ output.TableRenderer = ValidationReport(nil)
