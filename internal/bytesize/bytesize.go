// Package bytesize parses and prints human-readable sizes such as "1Mi",
// "64KB" or "4096". It is used for input limits in the configuration file.
package bytesize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ByteSize is a size in bytes.
//
// Accepted input:
//   - Plain numbers: 1024, 1048576
//   - Binary units (x1024): Ki/KiB, Mi/MiB, Gi/GiB
//   - Decimal units (x1000): K/KB, M/MB, G/GB
//   - Bytes: B
type ByteSize uint64

const (
	B  ByteSize = 1
	KB ByteSize = 1000
	MB ByteSize = 1000 * KB
	GB ByteSize = 1000 * MB

	KiB ByteSize = 1024
	MiB ByteSize = 1024 * KiB
	GiB ByteSize = 1024 * MiB
)

var pattern = regexp.MustCompile(`(?i)^\s*(\d+(?:\.\d+)?)\s*([a-z]*)\s*$`)

var units = map[string]ByteSize{
	"":    B,
	"b":   B,
	"k":   KB,
	"kb":  KB,
	"m":   MB,
	"mb":  MB,
	"g":   GB,
	"gb":  GB,
	"ki":  KiB,
	"kib": KiB,
	"mi":  MiB,
	"mib": MiB,
	"gi":  GiB,
	"gib": GiB,
}

// exactUnits is the order in which MarshalText looks for an exact suffix.
var exactUnits = []struct {
	suffix string
	size   ByteSize
}{
	{"Gi", GiB},
	{"Mi", MiB},
	{"Ki", KiB},
}

// Parse parses a human-readable size.
func Parse(s string) (ByteSize, error) {
	if strings.TrimSpace(s) == "" {
		return 0, fmt.Errorf("empty byte size")
	}

	m := pattern.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("invalid byte size %q", s)
	}

	mult, ok := units[strings.ToLower(m[2])]
	if !ok {
		return 0, fmt.Errorf("unknown byte size unit %q", m[2])
	}

	if strings.Contains(m[1], ".") {
		f, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return 0, fmt.Errorf("invalid byte size %q: %w", s, err)
		}
		return ByteSize(f * float64(mult)), nil
	}

	n, err := strconv.ParseUint(m[1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid byte size %q: %w", s, err)
	}
	if n != 0 && uint64(mult) > ^uint64(0)/n {
		return 0, fmt.Errorf("byte size %q overflows", s)
	}
	return ByteSize(n) * mult, nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (b *ByteSize) UnmarshalText(text []byte) error {
	size, err := Parse(string(text))
	if err != nil {
		return err
	}
	*b = size
	return nil
}

// MarshalText implements encoding.TextMarshaler. Sizes that are an exact
// multiple of a binary unit use its suffix, so the output parses back to
// the same value.
func (b ByteSize) MarshalText() ([]byte, error) {
	for _, u := range exactUnits {
		if b != 0 && b%u.size == 0 {
			return []byte(strconv.FormatUint(uint64(b/u.size), 10) + u.suffix), nil
		}
	}
	return []byte(strconv.FormatUint(uint64(b), 10)), nil
}

// MarshalYAML writes the same form as MarshalText.
func (b ByteSize) MarshalYAML() (any, error) {
	text, err := b.MarshalText()
	return string(text), err
}

// String returns a rounded human-readable form, for logs.
func (b ByteSize) String() string {
	switch {
	case b >= GiB:
		return fmt.Sprintf("%.2fGiB", float64(b)/float64(GiB))
	case b >= MiB:
		return fmt.Sprintf("%.2fMiB", float64(b)/float64(MiB))
	case b >= KiB:
		return fmt.Sprintf("%.2fKiB", float64(b)/float64(KiB))
	default:
		return fmt.Sprintf("%dB", uint64(b))
	}
}

// Int64 returns the size as an int64, saturating at the maximum.
func (b ByteSize) Int64() int64 {
	const maxInt64 = 1<<63 - 1
	if uint64(b) > maxInt64 {
		return maxInt64
	}
	return int64(b)
}
