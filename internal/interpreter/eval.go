package interpreter

import (
	"fmt"

	"github.com/kievzenit/nagato/internal/ast"
	"github.com/kievzenit/nagato/internal/compiler_errors"
	"github.com/kievzenit/nagato/internal/lexer"
)

func (i *Interpreter) evalExpr(env *Environment, expr ast.Expr) (Value, error) {
	switch expr := expr.(type) {
	case *ast.IntExpr:
		return IntOf(expr.Value), nil
	case *ast.FloatExpr:
		return FloatOf(expr.Value), nil
	case *ast.IdentExpr:
		return i.evalIdentExpr(env, expr)
	case *ast.ArraySubscriptExpr:
		return i.evalArraySubscriptExpr(env, expr)
	case *ast.CallExpr:
		return i.evalCallExpr(env, expr)
	case *ast.UnaryExpr:
		return i.evalUnaryExpr(env, expr)
	case *ast.BinaryExpr:
		return i.evalBinaryExpr(env, expr)
	}

	panic(fmt.Sprintf("evalExpr(): unknown expression %T", expr))
}

func (i *Interpreter) evalIdentExpr(env *Environment, expr *ast.IdentExpr) (Value, error) {
	b, ok := env.lookup(expr.Value)
	if !ok {
		return Value{}, i.errorf(compiler_errors.RuntimeKind, expr.FirstToken(),
			"undefined variable '%s'", expr.Value)
	}

	if b.isArray() {
		return Value{}, i.errorf(compiler_errors.TypeKind, expr.FirstToken(),
			"array '%s' used as a scalar value", expr.Value)
	}

	return b.value, nil
}

func (i *Interpreter) evalArraySubscriptExpr(env *Environment, expr *ast.ArraySubscriptExpr) (Value, error) {
	b, index, err := i.resolveElement(env, expr.Name, expr.Index, expr.FirstToken())
	if err != nil {
		return Value{}, err
	}

	return b.array[index], nil
}

// resolveElement finds array name and evaluates its index, truncating float
// indices toward zero.
func (i *Interpreter) resolveElement(env *Environment, name string, indexExpr ast.Expr, token *lexer.Token) (*binding, int, error) {
	b, ok := env.lookup(name)
	if !ok {
		return nil, 0, i.errorf(compiler_errors.RuntimeKind, token, "undefined array '%s'", name)
	}
	if !b.isArray() {
		return nil, 0, i.errorf(compiler_errors.TypeKind, token, "'%s' is not an array", name)
	}

	indexValue, err := i.evalExpr(env, indexExpr)
	if err != nil {
		return nil, 0, err
	}

	index := indexValue.AsInt()
	if index < 0 || int(index) >= len(b.array) {
		return nil, 0, i.errorf(compiler_errors.RuntimeKind, indexExpr.FirstToken(),
			"index %d out of bounds for array '%s' of size %d", index, name, len(b.array))
	}

	return b, int(index), nil
}

func (i *Interpreter) evalCallExpr(env *Environment, expr *ast.CallExpr) (Value, error) {
	fn, ok := i.global.Function(expr.Name)
	if !ok {
		return Value{}, i.errorf(compiler_errors.RuntimeKind, expr.FirstToken(),
			"undefined function '%s'", expr.Name)
	}

	if len(expr.Args) != len(fn.Args) {
		return Value{}, i.errorf(compiler_errors.RuntimeKind, expr.FirstToken(),
			"function '%s' expects %d argument(s), got %d", fn.Name, len(fn.Args), len(expr.Args))
	}

	args := make([]Value, len(expr.Args))
	for idx, arg := range expr.Args {
		value, err := i.evalExpr(env, arg)
		if err != nil {
			return Value{}, err
		}
		args[idx] = value
	}

	if i.depth >= i.opts.MaxCallDepth {
		return Value{}, i.errorf(compiler_errors.RuntimeKind, expr.FirstToken(),
			"maximum recursion depth of %d exceeded", i.opts.MaxCallDepth)
	}

	callEnv := NewCallEnvironment()
	for idx, param := range fn.Args {
		callEnv.Declare(param.Name, param.Type, args[idx])
	}

	i.depth++
	sig, err := i.execScopeStmt(callEnv, fn.Body)
	i.depth--
	if err != nil {
		return Value{}, err
	}

	if sig.Kind != Return {
		return Value{}, i.errorf(compiler_errors.RuntimeKind, expr.FirstToken(),
			"function '%s' ended without returning a value", fn.Name)
	}
	if !sig.HasValue {
		return Value{}, i.errorf(compiler_errors.RuntimeKind, expr.FirstToken(),
			"function '%s' returned without a value", fn.Name)
	}

	return sig.Value, nil
}

func (i *Interpreter) evalUnaryExpr(env *Environment, expr *ast.UnaryExpr) (Value, error) {
	operand, err := i.evalExpr(env, expr.Right)
	if err != nil {
		return Value{}, err
	}

	switch expr.Op.Kind {
	case lexer.MINUS:
		if operand.IsFloat() {
			return FloatOf(-operand.Float), nil
		}
		return IntOf(-operand.Int), nil
	case lexer.PLUS:
		return operand, nil
	case lexer.XMARK:
		return boolOf(!operand.Truthy()), nil
	}

	panic(fmt.Sprintf("evalUnaryExpr(): unknown operator %s", expr.Op.Kind))
}

func (i *Interpreter) evalBinaryExpr(env *Environment, expr *ast.BinaryExpr) (Value, error) {
	left, err := i.evalExpr(env, expr.Left)
	if err != nil {
		return Value{}, err
	}

	switch expr.Op.Kind {
	case lexer.LAND:
		if !left.Truthy() {
			return IntOf(0), nil
		}
		return i.evalTruth(env, expr.Right)
	case lexer.LOR:
		if left.Truthy() {
			return IntOf(1), nil
		}
		return i.evalTruth(env, expr.Right)
	}

	right, err := i.evalExpr(env, expr.Right)
	if err != nil {
		return Value{}, err
	}

	return i.binaryOp(expr.Op, left, right)
}

func (i *Interpreter) evalTruth(env *Environment, expr ast.Expr) (Value, error) {
	value, err := i.evalExpr(env, expr)
	if err != nil {
		return Value{}, err
	}
	return boolOf(value.Truthy()), nil
}
