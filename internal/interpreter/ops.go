package interpreter

import (
	"fmt"

	"github.com/kievzenit/nagato/internal/compiler_errors"
	"github.com/kievzenit/nagato/internal/lexer"
)

// binaryOp applies a non-logical operator. Mixed operands are promoted to
// float for this operation only.
func (i *Interpreter) binaryOp(op *lexer.Token, left, right Value) (Value, error) {
	if op.Kind == lexer.PERCENT {
		return i.modulo(op, left, right)
	}

	if !left.IsFloat() && !right.IsFloat() {
		return i.intOp(op, left.Int, right.Int)
	}

	return i.floatOp(op, left.AsFloat(), right.AsFloat())
}

func (i *Interpreter) modulo(op *lexer.Token, left, right Value) (Value, error) {
	if left.IsFloat() || right.IsFloat() {
		return Value{}, i.errorf(compiler_errors.TypeKind, op,
			"operator '%%' requires int operands, got %s and %s", left.Kind, right.Kind)
	}

	if right.Int == 0 {
		return Value{}, i.errorf(compiler_errors.DivisionByZeroKind, op, "modulo by zero")
	}

	return IntOf(left.Int % right.Int), nil
}

// intOp wraps on overflow; division truncates toward zero.
func (i *Interpreter) intOp(op *lexer.Token, a, b int32) (Value, error) {
	switch op.Kind {
	case lexer.PLUS:
		return IntOf(a + b), nil
	case lexer.MINUS:
		return IntOf(a - b), nil
	case lexer.ASTERISK:
		return IntOf(a * b), nil
	case lexer.SLASH:
		if b == 0 {
			return Value{}, i.errorf(compiler_errors.DivisionByZeroKind, op, "integer division by zero")
		}
		return IntOf(a / b), nil
	case lexer.EQ:
		return boolOf(a == b), nil
	case lexer.NEQ:
		return boolOf(a != b), nil
	case lexer.LT:
		return boolOf(a < b), nil
	case lexer.LEQ:
		return boolOf(a <= b), nil
	case lexer.GT:
		return boolOf(a > b), nil
	case lexer.GEQ:
		return boolOf(a >= b), nil
	}

	panic(fmt.Sprintf("intOp(): unknown operator %s", op.Kind))
}

func (i *Interpreter) floatOp(op *lexer.Token, a, b float32) (Value, error) {
	switch op.Kind {
	case lexer.PLUS:
		return FloatOf(a + b), nil
	case lexer.MINUS:
		return FloatOf(a - b), nil
	case lexer.ASTERISK:
		return FloatOf(a * b), nil
	case lexer.SLASH:
		if b == 0 {
			return Value{}, i.errorf(compiler_errors.DivisionByZeroKind, op, "float division by zero")
		}
		return FloatOf(a / b), nil
	case lexer.EQ:
		return boolOf(a == b), nil
	case lexer.NEQ:
		return boolOf(a != b), nil
	case lexer.LT:
		return boolOf(a < b), nil
	case lexer.LEQ:
		return boolOf(a <= b), nil
	case lexer.GT:
		return boolOf(a > b), nil
	case lexer.GEQ:
		return boolOf(a >= b), nil
	}

	panic(fmt.Sprintf("floatOp(): unknown operator %s", op.Kind))
}
