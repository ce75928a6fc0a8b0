package bytesize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    ByteSize
		wantErr bool
	}{
		{"zero", "0", 0, false},
		{"plain", "4096", 4096, false},
		{"bytes suffix", "12B", 12, false},
		{"kibibytes", "64Ki", 64 * 1024, false},
		{"mebibytes long", "1MiB", 1 << 20, false},
		{"gibibytes", "2Gi", 2 << 30, false},
		{"kilobytes", "1KB", 1000, false},
		{"megabytes short", "3M", 3_000_000, false},
		{"case insensitive", "1mi", 1 << 20, false},
		{"surrounding space", "  8 Ki ", 8 * 1024, false},
		{"fraction", "1.5Ki", 1536, false},

		{"empty", "", 0, true},
		{"blank", "   ", 0, true},
		{"unknown unit", "1Xi", 0, true},
		{"terabytes unsupported", "1Ti", 0, true},
		{"negative", "-1Ki", 0, true},
		{"unit only", "Mi", 0, true},
		{"overflow", "18446744073709551615Ki", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMarshalText(t *testing.T) {
	tests := []struct {
		in   ByteSize
		want string
	}{
		{0, "0"},
		{1000, "1000"},
		{1024, "1Ki"},
		{1536, "1536"},
		{MiB, "1Mi"},
		{3 * GiB, "3Gi"},
	}
	for _, tt := range tests {
		got, err := tt.in.MarshalText()
		require.NoError(t, err)
		assert.Equal(t, tt.want, string(got))

		var back ByteSize
		require.NoError(t, back.UnmarshalText(got))
		assert.Equal(t, tt.in, back)
	}
}

func TestYAML(t *testing.T) {
	type doc struct {
		Limit ByteSize `yaml:"limit"`
	}
	out, err := yaml.Marshal(doc{Limit: MiB})
	require.NoError(t, err)
	assert.Equal(t, "limit: 1Mi\n", string(out))
}

func TestString(t *testing.T) {
	assert.Equal(t, "512B", ByteSize(512).String())
	assert.Equal(t, "2.00KiB", (2 * KiB).String())
	assert.Equal(t, "1.50MiB", ByteSize(1.5*float64(MiB)).String())
	assert.Equal(t, "1.00GiB", GiB.String())
}

func TestInt64(t *testing.T) {
	assert.Equal(t, int64(1024), KiB.Int64())
	assert.Equal(t, int64(1<<63-1), ByteSize(1<<64-1).Int64())
}
