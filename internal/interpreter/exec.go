package interpreter

import (
	"fmt"

	"github.com/kievzenit/nagato/internal/ast"
	"github.com/kievzenit/nagato/internal/compiler_errors"
)

func (i *Interpreter) execStmt(env *Environment, stmt ast.Stmt) (Signal, error) {
	switch stmt := stmt.(type) {
	case *ast.ScopeStmt:
		return i.execScopeStmt(env, stmt)
	case *ast.VarDeclStmt:
		return normal, i.execVarDeclStmt(env, stmt)
	case *ast.ArrayDeclStmt:
		env.DeclareArray(stmt.Name, stmt.ItemType, stmt.Size)
		return normal, nil
	case *ast.AssignStmt:
		return normal, i.execAssignStmt(env, stmt)
	case *ast.ArrayAssignStmt:
		return normal, i.execArrayAssignStmt(env, stmt)
	case *ast.ExprStmt:
		return normal, i.execExprStmt(env, stmt)
	case *ast.IfStmt:
		return i.execIfStmt(env, stmt)
	case *ast.WhileStmt:
		return i.execWhileStmt(env, stmt)
	case *ast.ForStmt:
		return i.execForStmt(env, stmt)
	case *ast.ReturnStmt:
		return i.execReturnStmt(env, stmt)
	case *ast.BreakStmt:
		return Signal{Kind: Break}, nil
	case *ast.ContinueStmt:
		return Signal{Kind: Continue}, nil
	case *ast.FuncDeclStmt:
		return normal, i.errorf(compiler_errors.RuntimeKind, stmt.FirstToken(),
			"function '%s' defined outside of top level", stmt.Name)
	}

	panic(fmt.Sprintf("execStmt(): unknown statement %T", stmt))
}

// execScopeStmt stops at the first non-normal signal and hands it up.
func (i *Interpreter) execScopeStmt(env *Environment, scope *ast.ScopeStmt) (Signal, error) {
	for _, stmt := range scope.Stmts {
		sig, err := i.execStmt(env, stmt)
		if err != nil || sig.Kind != Normal {
			return sig, err
		}
	}

	return normal, nil
}

func (i *Interpreter) execVarDeclStmt(env *Environment, stmt *ast.VarDeclStmt) error {
	value := ZeroOf(stmt.ExplicitType)
	if stmt.Value != nil {
		v, err := i.evalExpr(env, stmt.Value)
		if err != nil {
			return err
		}
		value = v
	}

	env.Declare(stmt.Name, stmt.ExplicitType, value)
	return nil
}

func (i *Interpreter) execAssignStmt(env *Environment, stmt *ast.AssignStmt) error {
	value, err := i.evalExpr(env, stmt.Value)
	if err != nil {
		return err
	}

	if !env.Assign(stmt.Name, value) {
		return i.errorf(compiler_errors.TypeKind, stmt.FirstToken(),
			"cannot assign a scalar to array '%s'", stmt.Name)
	}

	return nil
}

func (i *Interpreter) execArrayAssignStmt(env *Environment, stmt *ast.ArrayAssignStmt) error {
	b, index, err := i.resolveElement(env, stmt.Name, stmt.Index, stmt.FirstToken())
	if err != nil {
		return err
	}

	value, err := i.evalExpr(env, stmt.Value)
	if err != nil {
		return err
	}

	b.array[index] = value.Coerce(b.declared)
	return nil
}

// execExprStmt prints a lone identifier and evaluates anything else for its
// side effects.
func (i *Interpreter) execExprStmt(env *Environment, stmt *ast.ExprStmt) error {
	ident, ok := stmt.Expr.(*ast.IdentExpr)
	if !ok {
		_, err := i.evalExpr(env, stmt.Expr)
		return err
	}

	b, ok := env.lookup(ident.Value)
	if !ok {
		return i.errorf(compiler_errors.RuntimeKind, ident.FirstToken(),
			"undefined variable '%s'", ident.Value)
	}

	if b.isArray() {
		i.print(formatArray(b.array))
	} else {
		i.print(b.value.String())
	}

	return nil
}

func (i *Interpreter) execIfStmt(env *Environment, stmt *ast.IfStmt) (Signal, error) {
	cond, err := i.evalExpr(env, stmt.Cond)
	if err != nil {
		return normal, err
	}

	if cond.Truthy() {
		return i.execScopeStmt(env, stmt.Body)
	}

	if stmt.Else != nil {
		return i.execScopeStmt(env, stmt.Else)
	}

	return normal, nil
}

func (i *Interpreter) execWhileStmt(env *Environment, stmt *ast.WhileStmt) (Signal, error) {
	for {
		cond, err := i.evalExpr(env, stmt.Cond)
		if err != nil {
			return normal, err
		}
		if !cond.Truthy() {
			return normal, nil
		}

		sig, err := i.execScopeStmt(env, stmt.Body)
		if err != nil {
			return normal, err
		}

		switch sig.Kind {
		case Break:
			return normal, nil
		case Return:
			return sig, nil
		}
	}
}

func (i *Interpreter) execForStmt(env *Environment, stmt *ast.ForStmt) (Signal, error) {
	if stmt.Init != nil {
		if _, err := i.execStmt(env, stmt.Init); err != nil {
			return normal, err
		}
	}

	for {
		if stmt.Cond != nil {
			cond, err := i.evalExpr(env, stmt.Cond)
			if err != nil {
				return normal, err
			}
			if !cond.Truthy() {
				return normal, nil
			}
		}

		sig, err := i.execScopeStmt(env, stmt.Body)
		if err != nil {
			return normal, err
		}

		switch sig.Kind {
		case Break:
			return normal, nil
		case Return:
			return sig, nil
		}

		if stmt.Post != nil {
			if _, err := i.execStmt(env, stmt.Post); err != nil {
				return normal, err
			}
		}
	}
}

func (i *Interpreter) execReturnStmt(env *Environment, stmt *ast.ReturnStmt) (Signal, error) {
	if stmt.Expr == nil {
		return Signal{Kind: Return}, nil
	}

	value, err := i.evalExpr(env, stmt.Expr)
	if err != nil {
		return normal, err
	}

	return Signal{
		Kind:     Return,
		Value:    value,
		HasValue: true,
	}, nil
}
