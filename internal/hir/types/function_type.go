package hir_types

import (
	"fmt"
	"strings"
)

// FunctionType is one specialization of a source function for a tuple of
// argument types. ReturnType stays nil until the first return is analyzed.
type FunctionType struct {
	Name       string
	SourceName string
	Args       []FunctionArgType
	ReturnType Type
}

type FunctionArgType struct {
	Name string
	Type
}

func (f *FunctionType) Type() string {
	args := make([]string, len(f.Args))
	for i, arg := range f.Args {
		args[i] = arg.Type.Type()
	}

	ret := "?"
	if f.ReturnType != nil {
		ret = f.ReturnType.Type()
	}

	return fmt.Sprintf("fun(%s) %s", strings.Join(args, ", "), ret)
}

func (f *FunctionType) SameAs(t Type) bool {
	funcType, ok := t.(*FunctionType)
	return ok && funcType.Name == f.Name
}

func (f *FunctionType) CanBeImplicitlyCastedTo(t Type) bool {
	return false
}

func (f *FunctionType) CanBeExplicitlyCastedTo(t Type) bool {
	return false
}
