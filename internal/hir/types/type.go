package hir_types

// Type is a static type of the native backend. Scalars are 32-bit.
type Type interface {
	Type() string
	SameAs(t Type) bool
	// CanBeImplicitlyCastedTo reports whether a binary operator may promote
	// a value of this type to t.
	CanBeImplicitlyCastedTo(t Type) bool
	// CanBeExplicitlyCastedTo reports whether a store into a typed binding
	// may convert a value of this type to t.
	CanBeExplicitlyCastedTo(t Type) bool
}

func IsScalar(t Type) bool {
	switch t.(type) {
	case *IntType, *FloatType:
		return true
	}
	return false
}
