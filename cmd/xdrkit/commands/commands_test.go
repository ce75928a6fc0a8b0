package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/marmos91/xdrkit/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes a fresh command tree with an isolated config directory and
// returns what was written to stdout.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	var out, errOut bytes.Buffer
	root := NewRootCmd()
	root.SetArgs(args)
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&out)
	root.SetErr(&errOut)

	err := root.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, "", "version", "--short")
	require.NoError(t, err)
	assert.Equal(t, Version+"\n", out)

	out, err = run(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "Go version:")
}

func TestEncode(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"U32Hex", []string{"encode", "u32", "7", "--format", "hex"}, "0000000300000007\n"},
		{"U32Base64Default", []string{"encode", "u32", "7"}, "AAAAAwAAAAc=\n"},
		{"Void", []string{"encode", "void", "-f", "hex"}, "00000001\n"},
		{"Bool", []string{"encode", "bool", "true", "-f", "hex"}, "0000000000000001\n"},
		{"I128MinusOne", []string{"encode", "i128", "-f", "hex", "--", "-1"}, "0000000a" + strings.Repeat("ff", 16) + "\n"},
		{"U256Hex", []string{"encode", "u256", "0x09", "-f", "hex"}, "0000000b" + strings.Repeat("00", 31) + "09\n"},
		{"Symbol", []string{"encode", "symbol", "hello", "-f", "hex"}, "0000000f0000000568656c6c6f000000\n"},
		{"Bytes", []string{"encode", "bytes", "0x010203", "-f", "hex"}, "0000000d0000000301020300\n"},
		{"ContractError", []string{"encode", "error", "5", "-f", "hex"}, "000000020000000000000005\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, "", tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestEncode_Errors(t *testing.T) {
	for _, args := range [][]string{
		{"encode", "u32", "-f", "hex", "--", "-1"},
		{"encode", "u32", "4294967296"},
		{"encode", "symbol", "not-a-symbol"},
		{"encode", "u128", "-f", "hex", "--", "-1"},
		{"encode", "bytes", "xyz"},
		{"encode", "void", "1"},
		{"encode", "u32"},
		{"encode", "float", "1"},
	} {
		t.Run(strings.Join(args[1:], "_"), func(t *testing.T) {
			_, err := run(t, "", args...)
			assert.Error(t, err)
		})
	}
}

func TestValidate(t *testing.T) {
	out, err := run(t, "0000000300000007\n", "validate", "SCVal", "--format", "hex")
	require.NoError(t, err)
	assert.Equal(t, "valid SCVal\n", out)

	out, err = run(t, "0000000300000007", "validate", "SCVal", "-f", "hex", "--quiet")
	require.NoError(t, err)
	assert.Empty(t, out)

	_, err = run(t, "000000030000000700000000", "validate", "SCVal", "-f", "hex")
	assert.Error(t, err, "trailing bytes")

	_, err = run(t, "00000063", "validate", "SCVal", "-f", "hex")
	assert.Error(t, err, "unknown discriminant")

	_, err = run(t, "", "validate", "NoSuchType")
	assert.Error(t, err)

	t.Run("File", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "value.xdr")
		require.NoError(t, os.WriteFile(path, []byte{0, 0, 0, 1}, 0644))

		out, err := run(t, "", "validate", "SCVal", path, "-f", "raw")
		require.NoError(t, err)
		assert.Equal(t, "valid SCVal\n", out)
	})

	t.Run("Builtin", func(t *testing.T) {
		out, err := run(t, "ffffffff", "validate", "int", "-f", "hex")
		require.NoError(t, err)
		assert.Equal(t, "valid int\n", out)
	})
}

func TestValidate_ManyFiles(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.hex")
	bad := filepath.Join(dir, "bad.hex")
	void := filepath.Join(dir, "void.hex")
	require.NoError(t, os.WriteFile(good, []byte("0000000300000007\n"), 0644))
	require.NoError(t, os.WriteFile(bad, []byte("00000003"), 0644))
	require.NoError(t, os.WriteFile(void, []byte("00000001"), 0644))

	out, err := run(t, "", "validate", "SCVal", good, void, "-f", "hex", "-o", "json", "-j", "2")
	require.NoError(t, err)

	var report []fileResult
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	require.Len(t, report, 2)
	assert.Equal(t, good, report[0].File)
	assert.True(t, report[0].Valid)
	assert.True(t, report[1].Valid)

	out, err = run(t, "", "validate", "SCVal", good, bad, filepath.Join(dir, "missing.hex"), "-f", "hex", "-o", "json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 of 3 inputs")

	report = nil
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	require.Len(t, report, 3)
	assert.True(t, report[0].Valid)
	assert.False(t, report[1].Valid)
	assert.NotEmpty(t, report[1].Error)
	assert.False(t, report[2].Valid)
}

func TestValidate_StdinAmongFiles(t *testing.T) {
	good := filepath.Join(t.TempDir(), "good.hex")
	require.NoError(t, os.WriteFile(good, []byte("0000000300000007\n"), 0644))

	out, err := run(t, "0000000300000007\n", "validate", "SCVal", good, "-", "-f", "hex")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stdin")
	assert.Empty(t, out)
}

func TestConvert(t *testing.T) {
	out, err := run(t, "0000000300000007", "convert", "SCVal", "-f", "hex", "--to", "base64")
	require.NoError(t, err)
	assert.Equal(t, "AAAAAwAAAAc=\n", out)

	out, err = run(t, "AAAAAwAAAAc=\n", "convert", "SCVal", "--to", "raw")
	require.NoError(t, err)
	assert.Equal(t, string([]byte{0, 0, 0, 3, 0, 0, 0, 7}), out)

	_, err = run(t, "0000000300000007", "convert", "SCVal", "-f", "hex", "--to", "yaml")
	assert.Error(t, err)

	_, err = run(t, "00000003", "convert", "SCVal", "-f", "hex")
	assert.Error(t, err, "truncated input")
}

func TestTypes(t *testing.T) {
	out, err := run(t, "", "types", "--kind", "enum", "-o", "json")
	require.NoError(t, err)

	var rows []typeRow
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.NotEmpty(t, rows)

	names := make([]string, 0, len(rows))
	for _, r := range rows {
		assert.Equal(t, "enum", r.Kind)
		names = append(names, r.Name)
	}
	assert.Contains(t, names, "SCValType")

	out, err = run(t, "", "types", "--kind", "builtin", "--builtin", "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"uint256"`)

	_, err = run(t, "", "types", "--kind", "bogus")
	assert.Error(t, err)
}

func TestDescribe(t *testing.T) {
	out, err := run(t, "", "describe", "SCMapEntry", "-o", "json")
	require.NoError(t, err)

	var records []map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &records))
	require.Len(t, records, 2)
	assert.Equal(t, "key", records[0]["field"])
	assert.Equal(t, "SCVal", records[0]["type"])

	out, err = run(t, "", "describe", "SCVal")
	require.NoError(t, err)
	assert.Contains(t, out, "union SCVal switch")
	assert.Contains(t, out, "SCV_VOID")

	out, err = run(t, "", "describe", "uint")
	require.NoError(t, err)
	assert.Equal(t, "uint = unsigned int\n", out)
}

func TestConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "xdrkit.yaml")

	_, err := run(t, "", "config", "validate", "--config", path)
	assert.Error(t, err, "validate needs an existing file")

	out, err := run(t, "", "config", "init", "--config", path, "--no-color")
	require.NoError(t, err)
	assert.Contains(t, out, path)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.GetDefaultConfig(), cfg)

	_, err = run(t, "", "config", "init", "--config", path, "--force")
	require.NoError(t, err)

	out, err = run(t, "", "config", "validate", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Validation: OK")
	assert.Contains(t, out, "base64")

	out, err = run(t, "", "config", "show", "--config", path, "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"Format": "base64"`)

	t.Run("Broken", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(bad, []byte("codec:\n  format: ebcdic\n"), 0644))

		_, err := run(t, "", "config", "validate", "--config", bad)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "codec.format")

		_, err = run(t, "", "encode", "void", "--config", bad)
		assert.Error(t, err)
	})
}

func TestConfigFileSetsFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "xdrkit.yaml")
	require.NoError(t, os.WriteFile(path, []byte("codec:\n  format: hex\n"), 0644))

	out, err := run(t, "", "encode", "u32", "7", "--config", path)
	require.NoError(t, err)
	assert.Equal(t, "0000000300000007\n", out)

	t.Run("EnvOverridesFile", func(t *testing.T) {
		t.Setenv("XDRKIT_CODEC_FORMAT", "base64")
		out, err := run(t, "", "encode", "u32", "7", "--config", path)
		require.NoError(t, err)
		assert.Equal(t, "AAAAAwAAAAc=\n", out)
	})

	t.Run("MaxInputSize", func(t *testing.T) {
		small := filepath.Join(t.TempDir(), "small.yaml")
		require.NoError(t, os.WriteFile(small, []byte("codec:\n  format: hex\n  max_input_size: 4\n"), 0644))

		_, err := run(t, "0000000300000007", "validate", "SCVal", "--config", small)
		assert.Error(t, err)
	})
}

func TestConfigSchema(t *testing.T) {
	out, err := run(t, "", "config", "schema")
	require.NoError(t, err)

	var schema map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &schema))
	assert.Equal(t, "xdrkit configuration", schema["title"])

	file := filepath.Join(t.TempDir(), "schema.json")
	out, err = run(t, "", "config", "schema", "--file", file)
	require.NoError(t, err)
	assert.Contains(t, out, file)

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"codec"`)
}

func TestMetricsOut(t *testing.T) {
	file := filepath.Join(t.TempDir(), "metrics.prom")

	_, err := run(t, "", "encode", "u32", "7", "--metrics-out", file)
	require.NoError(t, err)

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, "xdrkit_codec_operations_total")
	assert.Contains(t, text, `operation="encode"`)
	assert.NotContains(t, text, "go_goroutines")
}

func TestCompletion(t *testing.T) {
	out, err := run(t, "", "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "xdrkit")

	_, err = run(t, "", "completion", "tcsh")
	assert.Error(t, err)
}
