package ast

import "fmt"

type ValueType int

const (
	NoType ValueType = iota
	IntType
	FloatType
)

func (t ValueType) String() string {
	switch t {
	case NoType:
		return "untyped"
	case IntType:
		return "int"
	case FloatType:
		return "float"
	default:
		panic(fmt.Sprintf("ValueType.String(): received illegal value type: %d", t))
	}
}
