package commands

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/marmos91/xdrkit/pkg/contract"
	"github.com/marmos91/xdrkit/pkg/xdr"
	"github.com/marmos91/xdrkit/pkg/xdr/schema"
	"github.com/spf13/cobra"
)

// builtins are the primitive types addressable by name on the command line.
var builtins = map[string]xdr.Type{
	"bool":    xdr.Bool,
	"int":     xdr.Int,
	"uint":    xdr.UnsignedInt,
	"hyper":   xdr.Hyper,
	"uhyper":  xdr.UnsignedHyper,
	"int128":  xdr.Int128,
	"uint128": xdr.UnsignedInt128,
	"int256":  xdr.Int256,
	"uint256": xdr.UnsignedInt256,
	"float":   xdr.Float,
	"double":  xdr.Double,
	"string":  xdr.NewString(xdr.MaxLength),
	"opaque":  xdr.NewVarOpaque(xdr.MaxLength),
}

// lookupType resolves a contract type name, falling back to the builtins.
func lookupType(name string) (xdr.Type, error) {
	if t, ok := contract.Types().Lookup(name); ok {
		return t, nil
	}
	if t, ok := builtins[strings.ToLower(name)]; ok {
		return t, nil
	}
	return nil, fmt.Errorf("unknown type %q (run 'xdrkit types' for the list)", name)
}

type typeRow struct {
	Name   string `json:"name" yaml:"name"`
	Kind   string `json:"kind" yaml:"kind"`
	Detail string `json:"detail" yaml:"detail"`
}

// TypeList is the result of the types command.
type TypeList []typeRow

func (l TypeList) Headers() []string { return []string{"NAME", "KIND", "DETAIL"} }

func (l TypeList) Rows() [][]string {
	rows := make([][]string, 0, len(l))
	for _, r := range l {
		rows = append(rows, []string{r.Name, r.Kind, r.Detail})
	}
	return rows
}

// listTypes describes every name bound in ns, optionally filtered by kind,
// followed by its constants.
func listTypes(ns *schema.Namespace, kind string, builtin bool) TypeList {
	var list TypeList
	for _, name := range ns.Names() {
		k, _ := ns.KindOf(name)
		if kind != "" && string(k) != kind {
			continue
		}
		t, _ := ns.Lookup(name)
		list = append(list, typeRow{Name: name, Kind: string(k), Detail: detail(t)})
	}

	if kind == "" || kind == "const" {
		for _, name := range ns.Consts() {
			v, _ := ns.Const(name)
			list = append(list, typeRow{Name: name, Kind: "const", Detail: strconv.FormatInt(v, 10)})
		}
	}

	if builtin && (kind == "" || kind == "builtin") {
		names := make([]string, 0, len(builtins))
		for name := range builtins {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			list = append(list, typeRow{Name: name, Kind: "builtin", Detail: xdr.TypeName(builtins[name])})
		}
	}
	return list
}

func detail(t xdr.Type) string {
	switch x := t.(type) {
	case *xdr.Struct:
		return fmt.Sprintf("%d fields", len(x.Fields()))
	case *xdr.Enum:
		return fmt.Sprintf("%d members", len(x.Members()))
	case *xdr.Union:
		return "switch " + x.SwitchName() + " " + xdr.TypeName(x.SwitchOn())
	default:
		return xdr.TypeName(t)
	}
}

func newTypesCmd(a *app) *cobra.Command {
	var (
		kind    string
		builtin bool
	)

	cmd := &cobra.Command{
		Use:   "types",
		Short: "List the contract ABI types",
		Long: `List every type and constant of the contract ABI schema.

Examples:
  # All definitions
  xdrkit types

  # Only unions, as JSON
  xdrkit types --kind union -o json

  # Include primitive types usable with validate and convert
  xdrkit types --builtin`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch kind {
			case "", "struct", "enum", "union", "typedef", "const", "builtin":
			default:
				return fmt.Errorf("invalid kind %q (valid: struct, enum, union, typedef, const, builtin)", kind)
			}

			p, err := a.printer(cmd)
			if err != nil {
				return err
			}
			return p.Print(listTypes(contract.Types(), kind, builtin))
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "", "Only list definitions of this kind")
	cmd.Flags().BoolVar(&builtin, "builtin", false, "Also list primitive types")
	return cmd
}
