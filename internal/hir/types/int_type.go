package hir_types

import "fmt"

type IntType struct {
	Signed bool
	Bits   int
}

func (i *IntType) Type() string {
	if i.Signed {
		return fmt.Sprintf("i%d", i.Bits)
	}
	return fmt.Sprintf("u%d", i.Bits)
}

func (i *IntType) SameAs(t Type) bool {
	intType, ok := t.(*IntType)
	if !ok {
		return false
	}

	return i.Signed == intType.Signed && i.Bits == intType.Bits
}

func (i *IntType) CanBeImplicitlyCastedTo(t Type) bool {
	_, ok := t.(*FloatType)
	return ok
}

func (i *IntType) CanBeExplicitlyCastedTo(t Type) bool {
	switch t.(type) {
	case *IntType, *FloatType:
		return true
	}
	return false
}
