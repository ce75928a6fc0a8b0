package commands

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/marmos91/xdrkit/pkg/contract"
	"github.com/marmos91/xdrkit/pkg/xdr"
	"github.com/marmos91/xdrkit/pkg/xdr/wideint"
	"github.com/spf13/cobra"
)

// scalarKinds lists the literal kinds accepted by encode.
var scalarKinds = []string{
	"bool", "void", "u32", "i32", "u64", "i64",
	"u128", "i128", "u256", "i256",
	"bytes", "string", "symbol", "error",
}

// buildScalar turns a command line literal into an SCVal.
func buildScalar(kind string, args []string) (*xdr.UnionValue, error) {
	if kind == "void" {
		if len(args) != 0 {
			return nil, fmt.Errorf("void takes no value")
		}
		return contract.Void(), nil
	}
	if len(args) != 1 {
		return nil, fmt.Errorf("%s takes exactly one value", kind)
	}
	lit := args[0]

	switch kind {
	case "bool":
		b, err := strconv.ParseBool(lit)
		if err != nil {
			return nil, fmt.Errorf("invalid bool %q", lit)
		}
		return contract.Bool(b), nil
	case "u32":
		n, err := strconv.ParseUint(lit, 0, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid u32 %q: %w", lit, err)
		}
		return contract.U32(uint32(n)), nil
	case "i32":
		n, err := strconv.ParseInt(lit, 0, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid i32 %q: %w", lit, err)
		}
		return contract.I32(int32(n)), nil
	case "u64":
		n, err := strconv.ParseUint(lit, 0, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid u64 %q: %w", lit, err)
		}
		return contract.U64(n), nil
	case "i64":
		n, err := strconv.ParseInt(lit, 0, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid i64 %q: %w", lit, err)
		}
		return contract.I64(n), nil
	case "u128":
		return wide(lit, 128, true, contract.U128)
	case "i128":
		return wide(lit, 128, false, contract.I128)
	case "u256":
		return wide(lit, 256, true, contract.U256)
	case "i256":
		return wide(lit, 256, false, contract.I256)
	case "bytes":
		b, err := hex.DecodeString(strings.TrimPrefix(lit, "0x"))
		if err != nil {
			return nil, fmt.Errorf("invalid hex bytes %q", lit)
		}
		return contract.Bytes(b), nil
	case "string":
		return contract.String(lit), nil
	case "symbol":
		return contract.Symbol(lit)
	case "error":
		n, err := strconv.ParseUint(lit, 0, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid contract error code %q: %w", lit, err)
		}
		return contract.ContractError(uint32(n)), nil
	}
	return nil, fmt.Errorf("unknown kind %q (valid: %s)", kind, strings.Join(scalarKinds, ", "))
}

func wide(lit string, size int, unsigned bool, build func(*wideint.Value) (*xdr.UnionValue, error)) (*xdr.UnionValue, error) {
	v, err := wideint.New(size, unsigned, lit)
	if err != nil {
		return nil, err
	}
	return build(v)
}

func newEncodeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "encode <kind> [value]",
		Short: "Encode a scalar SCVal",
		Long: `Encode a scalar smart-contract value given on the command line.

Kinds: ` + strings.Join(scalarKinds, ", ") + `

Integers accept decimal, 0x hex and 0o octal literals. Bytes are given as hex.

Examples:
  xdrkit encode u32 7 --format hex
  xdrkit encode i128 -- -170141183460469231731687303715884105728
  xdrkit encode symbol transfer`,
		Args:      cobra.RangeArgs(1, 2),
		ValidArgs: scalarKinds,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := buildScalar(args[0], args[1:])
			if err != nil {
				return err
			}
			data, err := a.codec.Encode(cmd.Context(), contract.Val(), v)
			if err != nil {
				return err
			}
			return writeData(cmd.OutOrStdout(), a.codec.Format(), data)
		},
	}
}
