package hir

import (
	"reflect"

	types "github.com/kievzenit/nagato/internal/hir/types"
	"github.com/kievzenit/nagato/internal/lexer"
)

type ExprHir interface {
	ExprHirNode()
	ExprType() types.Type
}

func IsNilExpr(expr ExprHir) bool {
	if expr == nil {
		return true
	}

	return reflect.ValueOf(expr).IsNil()
}

type IntExprHir struct {
	types.Type
	Value int32
}

type FloatExprHir struct {
	types.Type
	Value float32
}

// IdentExprHir names a scalar or array binding. Global bindings live in
// module globals, the rest in stack slots of the enclosing function.
type IdentExprHir struct {
	types.Type
	Name   string
	Global bool
}

type ArraySubscriptExprHir struct {
	types.Type
	Array *IdentExprHir
	Index ExprHir
}

type CallExprHir struct {
	types.Type
	Name string
	Args []ExprHir
}

type CastExprHir interface {
	ExprHir
	CastExprHirNode()
}

// UpCastExprHir promotes an int to a float.
type UpCastExprHir struct {
	NewType types.Type
	OldType types.Type
	Expr    ExprHir
}

// DownCastExprHir truncates a float toward zero.
type DownCastExprHir struct {
	NewType types.Type
	OldType types.Type
	Expr    ExprHir
}

type UnaryOp int

const (
	Neg UnaryOp = iota
	Plus
	Not
)

func UnaryOpFromTokenKind(kind lexer.TokenKind) UnaryOp {
	switch kind {
	case lexer.MINUS:
		return Neg
	case lexer.PLUS:
		return Plus
	case lexer.XMARK:
		return Not
	default:
		panic("unexpected token kind")
	}
}

type UnaryExprHir struct {
	types.Type
	Op    UnaryOp
	Right ExprHir
}

type BinaryOp int

const (
	Add BinaryOp = iota
	Sub
	Mul
	Div
	Mod
	Eq
	Ne
	Lt
	Gt
	Le
	Ge
	Land
	Lor
)

func BinOpFromTokenKind(kind lexer.TokenKind) BinaryOp {
	switch kind {
	case lexer.PLUS:
		return Add
	case lexer.MINUS:
		return Sub
	case lexer.ASTERISK:
		return Mul
	case lexer.SLASH:
		return Div
	case lexer.PERCENT:
		return Mod
	case lexer.LT:
		return Lt
	case lexer.GT:
		return Gt
	case lexer.LEQ:
		return Le
	case lexer.GEQ:
		return Ge
	case lexer.EQ:
		return Eq
	case lexer.NEQ:
		return Ne
	case lexer.LAND:
		return Land
	case lexer.LOR:
		return Lor
	default:
		panic("unexpected token kind")
	}
}

func (op BinaryOp) IsComparison() bool {
	return op >= Eq && op <= Ge
}

func (op BinaryOp) IsLogical() bool {
	return op == Land || op == Lor
}

// BinaryExprHir has operands of one type, except for && and || whose
// operands are tested separately. Type is the result type, which is int for
// comparisons and logical operators.
type BinaryExprHir struct {
	types.Type
	Left  ExprHir
	Op    BinaryOp
	Right ExprHir
}

func (IntExprHir) ExprHirNode()            {}
func (FloatExprHir) ExprHirNode()          {}
func (IdentExprHir) ExprHirNode()          {}
func (ArraySubscriptExprHir) ExprHirNode() {}
func (CallExprHir) ExprHirNode()           {}
func (UpCastExprHir) ExprHirNode()         {}
func (DownCastExprHir) ExprHirNode()       {}
func (UnaryExprHir) ExprHirNode()          {}
func (BinaryExprHir) ExprHirNode()         {}

func (e IntExprHir) ExprType() types.Type            { return e.Type }
func (e FloatExprHir) ExprType() types.Type          { return e.Type }
func (e IdentExprHir) ExprType() types.Type          { return e.Type }
func (e ArraySubscriptExprHir) ExprType() types.Type { return e.Type }
func (e CallExprHir) ExprType() types.Type           { return e.Type }
func (e UpCastExprHir) ExprType() types.Type         { return e.NewType }
func (e DownCastExprHir) ExprType() types.Type       { return e.NewType }
func (e UnaryExprHir) ExprType() types.Type          { return e.Type }
func (e BinaryExprHir) ExprType() types.Type         { return e.Type }

func (UpCastExprHir) CastExprHirNode()   {}
func (DownCastExprHir) CastExprHirNode() {}
