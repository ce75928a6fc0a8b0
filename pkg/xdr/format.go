package xdr

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"
)

// Format selects how encoded bytes are presented.
type Format string

const (
	// FormatRaw is the binary XDR encoding.
	FormatRaw Format = "raw"
	// FormatHex is lowercase hexadecimal.
	FormatHex Format = "hex"
	// FormatBase64 is standard, padded base64.
	FormatBase64 Format = "base64"
)

// Formats lists every supported format.
var Formats = []Format{FormatRaw, FormatHex, FormatBase64}

// ParseFormat parses a format name, case-insensitively. The empty string
// selects FormatRaw.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatRaw:
		return FormatRaw, nil
	case FormatHex:
		return FormatHex, nil
	case FormatBase64:
		return FormatBase64, nil
	default:
		return "", fmt.Errorf("unsupported format %q (valid: raw, hex, base64)", s)
	}
}

// Encode renders raw XDR bytes in the format.
func (f Format) Encode(raw []byte) ([]byte, error) {
	switch f {
	case FormatRaw, "":
		return raw, nil
	case FormatHex:
		out := make([]byte, hex.EncodedLen(len(raw)))
		hex.Encode(out, raw)
		return out, nil
	case FormatBase64:
		out := make([]byte, base64.StdEncoding.EncodedLen(len(raw)))
		base64.StdEncoding.Encode(out, raw)
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported format %q", string(f))
	}
}

// Decode turns formatted input back into raw XDR bytes. Surrounding
// whitespace is ignored for the text formats.
func (f Format) Decode(data []byte) ([]byte, error) {
	switch f {
	case FormatRaw, "":
		return data, nil
	case FormatHex:
		src := []byte(strings.TrimSpace(string(data)))
		out := make([]byte, hex.DecodedLen(len(src)))
		n, err := hex.Decode(out, src)
		if err != nil {
			return nil, &Error{Kind: ReadError, Message: "invalid hex input", Err: err}
		}
		return out[:n], nil
	case FormatBase64:
		src := []byte(strings.TrimSpace(string(data)))
		out := make([]byte, base64.StdEncoding.DecodedLen(len(src)))
		n, err := base64.StdEncoding.Decode(out, src)
		if err != nil {
			return nil, &Error{Kind: ReadError, Message: "invalid base64 input", Err: err}
		}
		return out[:n], nil
	default:
		return nil, fmt.Errorf("unsupported format %q", string(f))
	}
}

// ToXDR encodes v with t and renders it in the given format.
func ToXDR(t Type, v any, format Format) ([]byte, error) {
	w := NewWriter()
	defer w.Release()
	if err := t.Write(v, w); err != nil {
		return nil, err
	}
	return format.Encode(w.Bytes())
}

// FromXDR decodes one value of type t. The input must be consumed entirely.
func FromXDR(t Type, data []byte, format Format) (any, error) {
	raw, err := format.Decode(data)
	if err != nil {
		return nil, err
	}
	r := NewReader(raw)
	v, err := t.Read(r)
	if err != nil {
		return nil, err
	}
	if err := r.EnsureConsumed(); err != nil {
		return nil, err
	}
	return v, nil
}

// ValidateXDR reports whether data decodes cleanly as one value of type t.
func ValidateXDR(t Type, data []byte, format Format) bool {
	_, err := FromXDR(t, data, format)
	return err == nil
}
