package interpreter

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/kievzenit/nagato/internal/ast"
)

type ValueKind int

const (
	IntValue ValueKind = iota
	FloatValue
)

func (k ValueKind) String() string {
	switch k {
	case IntValue:
		return "int"
	case FloatValue:
		return "float"
	default:
		panic(fmt.Sprintf("ValueKind.String(): received illegal value kind: %d", k))
	}
}

// Value is either an Int or a Float; the field not selected by Kind is zero.
type Value struct {
	Kind ValueKind

	Int   int32
	Float float32
}

func IntOf(i int32) Value {
	return Value{Kind: IntValue, Int: i}
}

func FloatOf(f float32) Value {
	return Value{Kind: FloatValue, Float: f}
}

func boolOf(b bool) Value {
	if b {
		return IntOf(1)
	}
	return IntOf(0)
}

// ZeroOf is the value a declaration without an initializer starts with.
func ZeroOf(t ast.ValueType) Value {
	if t == ast.FloatType {
		return FloatOf(0)
	}
	return IntOf(0)
}

func (v Value) IsFloat() bool { return v.Kind == FloatValue }

func (v Value) Truthy() bool {
	if v.Kind == FloatValue {
		return v.Float != 0
	}
	return v.Int != 0
}

func (v Value) AsFloat() float32 {
	if v.Kind == FloatValue {
		return v.Float
	}
	return float32(v.Int)
}

// AsInt truncates toward zero. NaN becomes 0 and out of range floats saturate.
func (v Value) AsInt() int32 {
	if v.Kind == IntValue {
		return v.Int
	}

	f := float64(v.Float)
	switch {
	case math.IsNaN(f):
		return 0
	case f >= math.MaxInt32:
		return math.MaxInt32
	case f <= math.MinInt32:
		return math.MinInt32
	}
	return int32(f)
}

// Coerce converts v to t. NoType leaves v untouched.
func (v Value) Coerce(t ast.ValueType) Value {
	switch t {
	case ast.IntType:
		return IntOf(v.AsInt())
	case ast.FloatType:
		return FloatOf(v.AsFloat())
	}
	return v
}

func (v Value) Type() ast.ValueType {
	if v.Kind == FloatValue {
		return ast.FloatType
	}
	return ast.IntType
}

func (v Value) String() string {
	if v.Kind == IntValue {
		return strconv.FormatInt(int64(v.Int), 10)
	}
	return formatFloat(v.Float)
}

func formatFloat(f float32) string {
	switch {
	case math.IsNaN(float64(f)):
		return "NaN"
	case math.IsInf(float64(f), 1):
		return "+Inf"
	case math.IsInf(float64(f), -1):
		return "-Inf"
	}

	s := strconv.FormatFloat(float64(f), 'f', -1, 32)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func formatArray(items []Value) string {
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = item.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
