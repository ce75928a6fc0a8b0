package xdr

import (
	"fmt"
)

// ============================================================================
// Optional data (RFC 4506 Section 4.19)
// ============================================================================

// OptionType is a bool presence flag followed by at most one value. Absence
// is represented by nil.
type OptionType struct {
	child Type
}

// NewOption returns the descriptor for *child.
func NewOption(child Type) *OptionType {
	return &OptionType{child: child}
}

// Child returns the wrapped type.
func (t *OptionType) Child() Type { return t.child }

func (t *OptionType) String() string { return "*" + TypeName(t.child) }

func (t *OptionType) Read(r *Reader) (any, error) {
	present, err := Bool.Read(r)
	if err != nil {
		return nil, fmt.Errorf("read option flag: %w", err)
	}
	if !present.(bool) {
		return nil, nil
	}
	return t.child.Read(r)
}

func (t *OptionType) Write(v any, w *Writer) error {
	if v == nil {
		w.WriteInt32(0)
		return nil
	}
	start := w.Len()
	w.WriteInt32(1)
	if err := t.child.Write(v, w); err != nil {
		w.Truncate(start)
		return err
	}
	return nil
}

func (t *OptionType) IsValid(v any) bool {
	return v == nil || t.child.IsValid(v)
}
