package xdr

// isCompatible is the structural fallback used by the structured types'
// IsValid: a value built by another copy of the same schema is accepted when
// it advertises the same declared name and kind.
func isCompatible(v any, name string, kind Kind) bool {
	n, ok := v.(Named)
	if !ok {
		return false
	}
	return n.XDRKind() == kind && n.XDRName() == name
}

// SameType reports whether a and b are the same declared type: identical
// descriptors, or structured descriptors with equal name and kind.
func SameType(a, b Type) bool {
	if a == b {
		return true
	}
	na, ok := a.(Named)
	if !ok {
		return false
	}
	nb, ok := b.(Named)
	if !ok {
		return false
	}
	return na.XDRKind() == nb.XDRKind() && na.XDRName() == nb.XDRName()
}
