package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/marmos91/xdrkit/internal/cli/output"
	"github.com/marmos91/xdrkit/pkg/xdr"
	"github.com/spf13/cobra"
)

// describeType returns a table for structured types, or nil for types with
// no inner layout.
func describeType(t xdr.Type) (*output.TableData, error) {
	switch x := t.(type) {
	case *xdr.Struct:
		table := output.NewTableData("Field", "Type")
		for _, f := range x.Fields() {
			table.AddRow(f.Name, xdr.TypeName(f.Type))
		}
		return table, nil

	case *xdr.Enum:
		table := output.NewTableData("Member", "Value")
		for _, m := range x.Members() {
			table.AddRow(m.Name(), strconv.Itoa(int(m.Value())))
		}
		return table, nil

	case *xdr.Union:
		table := output.NewTableData("Case", "Arm", "Type")
		for _, c := range x.Cases() {
			arm, err := x.ArmFor(c)
			if err != nil {
				return nil, err
			}
			typ := "void"
			if !arm.IsVoid() {
				at, _ := x.ArmType(arm.Name())
				typ = xdr.TypeName(at)
			}
			table.AddRow(c, arm.String(), typ)
		}
		return table, nil
	}
	return nil, nil
}

func newDescribeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "describe <type>",
		Short: "Show the layout of a type",
		Long: `Show the fields of a struct, the members of an enum or the arms of a union.

Examples:
  xdrkit describe SCVal
  xdrkit describe Int128Parts -o yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := lookupType(args[0])
			if err != nil {
				return err
			}

			table, err := describeType(t)
			if err != nil {
				return err
			}
			if table == nil {
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", args[0], xdr.TypeName(t))
				return err
			}

			if u, ok := t.(*xdr.Union); ok && a.output == "table" {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "union %s switch (%s %s)\n\n",
					u.XDRName(), xdr.TypeName(u.SwitchOn()), u.SwitchName())
			}

			p, err := a.printer(cmd)
			if err != nil {
				return err
			}
			if p.Format() == output.FormatTable {
				return p.Print(table)
			}
			return p.Print(tableRecords(table))
		},
	}
}

// tableRecords turns a table into a list of maps keyed by lower-cased
// header, for JSON and YAML output.
func tableRecords(t *output.TableData) []map[string]string {
	headers := t.Headers()
	records := make([]map[string]string, 0, len(t.Rows()))
	for _, row := range t.Rows() {
		rec := make(map[string]string, len(headers))
		for i, h := range headers {
			if i < len(row) {
				rec[strings.ToLower(h)] = row[i]
			}
		}
		records = append(records, rec)
	}
	return records
}
