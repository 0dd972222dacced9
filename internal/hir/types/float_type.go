package hir_types

import "fmt"

type FloatType struct {
	Bits int
}

func (f *FloatType) Type() string {
	return fmt.Sprintf("f%d", f.Bits)
}

func (f *FloatType) SameAs(t Type) bool {
	if floatType, ok := t.(*FloatType); ok {
		return f.Bits == floatType.Bits
	}

	return false
}

func (f *FloatType) CanBeImplicitlyCastedTo(t Type) bool {
	return false
}

// CanBeExplicitlyCastedTo allows truncation into int bindings.
func (f *FloatType) CanBeExplicitlyCastedTo(t Type) bool {
	switch t.(type) {
	case *IntType, *FloatType:
		return true
	}
	return false
}
