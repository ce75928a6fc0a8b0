package commands

import (
	"github.com/marmos91/xdrkit/pkg/xdr"
	"github.com/spf13/cobra"
)

func newConvertCmd(a *app) *cobra.Command {
	var to string

	cmd := &cobra.Command{
		Use:   "convert <type> [file]",
		Short: "Re-encode a value in another format",
		Long: `Decode the input as one value of the given type and write it again in the
format given by --to. The input format is --format (or codec.format).

Examples:
  # base64 to hex
  xdrkit convert SCVal --to hex < value.b64

  # hex file to raw bytes
  xdrkit convert SCVal value.hex --format hex --to raw > value.xdr`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := xdr.ParseFormat(to)
			if err != nil {
				return err
			}
			t, err := lookupType(args[0])
			if err != nil {
				return err
			}
			data, err := readInput(cmd, args, 1)
			if err != nil {
				return err
			}

			v, err := a.codec.Decode(cmd.Context(), t, data)
			if err != nil {
				return err
			}

			out := a.codec.WithFormat(target)
			encoded, err := out.Encode(cmd.Context(), t, v)
			if err != nil {
				return err
			}
			return writeData(cmd.OutOrStdout(), target, encoded)
		},
	}

	cmd.Flags().StringVarP(&to, "to", "t", "hex", "Output format (raw|hex|base64)")
	return cmd
}
