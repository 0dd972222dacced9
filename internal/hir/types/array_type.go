package hir_types

import "fmt"

type ArrayType struct {
	ItemType Type
	Size     int
}

func (a *ArrayType) Type() string {
	return fmt.Sprintf("[%d]%s", a.Size, a.ItemType.Type())
}

func (a *ArrayType) SameAs(t Type) bool {
	if arrayType, ok := t.(*ArrayType); ok {
		return a.Size == arrayType.Size && a.ItemType.SameAs(arrayType.ItemType)
	}

	return false
}

func (a *ArrayType) CanBeImplicitlyCastedTo(t Type) bool {
	return false
}

func (a *ArrayType) CanBeExplicitlyCastedTo(t Type) bool {
	return false
}
