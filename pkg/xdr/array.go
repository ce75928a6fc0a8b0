package xdr

import (
	"fmt"
)

// ArrayType is a fixed-length array: exactly n elements, no length prefix.
type ArrayType struct {
	child  Type
	length int
}

// NewArray returns the descriptor for child[n].
func NewArray(child Type, n uint32) *ArrayType {
	return &ArrayType{child: child, length: int(n)}
}

// Child returns the element type.
func (t *ArrayType) Child() Type { return t.child }

// Length returns the element count.
func (t *ArrayType) Length() int { return t.length }

func (t *ArrayType) String() string { return fmt.Sprintf("%s[%d]", TypeName(t.child), t.length) }

func (t *ArrayType) Read(r *Reader) (any, error) {
	return readElements(r, t.child, t.length)
}

func (t *ArrayType) Write(v any, w *Writer) error {
	items, ok := v.([]any)
	if !ok {
		return writeErrorf("%v (%T) is not an array", v, v)
	}
	if len(items) != t.length {
		return writeErrorf("got array of size %d, expected %d", len(items), t.length)
	}
	return writeElements(w, w.Len(), t.child, items)
}

func (t *ArrayType) IsValid(v any) bool {
	items, ok := v.([]any)
	return ok && len(items) == t.length && allValid(t.child, items)
}

// VarArrayType is [count:uint32] followed by count elements, with count
// bounded by a declared maximum.
type VarArrayType struct {
	child Type
	max   uint32
}

// NewVarArray returns the descriptor for child<max>.
func NewVarArray(child Type, max uint32) *VarArrayType {
	return &VarArrayType{child: child, max: max}
}

// Child returns the element type.
func (t *VarArrayType) Child() Type { return t.child }

// MaxLength returns the declared ceiling.
func (t *VarArrayType) MaxLength() uint32 { return t.max }

func (t *VarArrayType) String() string { return fmt.Sprintf("%s<%d>", TypeName(t.child), t.max) }

func (t *VarArrayType) Read(r *Reader) (any, error) {
	count, err := r.ReadUint32()
	if err != nil {
		return nil, fmt.Errorf("read array length: %w", err)
	}
	if count > t.max {
		return nil, readErrorf("saw %d length var array, max allowed is %d", count, t.max)
	}
	return readElements(r, t.child, int(count))
}

func (t *VarArrayType) Write(v any, w *Writer) error {
	items, ok := v.([]any)
	if !ok {
		return writeErrorf("%v (%T) is not an array", v, v)
	}
	if uint64(len(items)) > uint64(t.max) {
		return writeErrorf("got array of size %d, max allowed is %d", len(items), t.max)
	}
	start := w.Len()
	w.WriteUint32(uint32(len(items)))
	return writeElements(w, start, t.child, items)
}

func (t *VarArrayType) IsValid(v any) bool {
	items, ok := v.([]any)
	return ok && uint64(len(items)) <= uint64(t.max) && allValid(t.child, items)
}

func readElements(r *Reader, child Type, n int) ([]any, error) {
	// Most elements take at least 4 bytes; do not let a hostile count
	// preallocate beyond what the remaining input could hold.
	hint := min(n, r.Remaining()/4+1)
	items := make([]any, 0, hint)
	for i := 0; i < n; i++ {
		v, err := child.Read(r)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		items = append(items, v)
	}
	return items, nil
}

// writeElements rolls w back to start if any element fails.
func writeElements(w *Writer, start int, child Type, items []any) error {
	for i, item := range items {
		if err := child.Write(item, w); err != nil {
			w.Truncate(start)
			return fmt.Errorf("element %d: %w", i, err)
		}
	}
	return nil
}

func allValid(child Type, items []any) bool {
	for _, item := range items {
		if !child.IsValid(item) {
			return false
		}
	}
	return true
}
