package hir

import types "github.com/kievzenit/nagato/internal/hir/types"

type StmtHir interface {
	StmtHirNode()
}

type ExprStmtHir struct {
	Expr ExprHir
}

// PrintStmtHir is a statement made of a lone identifier.
type PrintStmtHir struct {
	Ident *IdentExprHir
}

type ScopeStmtHir struct {
	Stmts []StmtHir
}

type FuncDeclStmtHir struct {
	*types.FunctionType
	Locals []*LocalHir
	Body   *ScopeStmtHir
}

// LocalHir is a stack slot of a function, parameters first.
type LocalHir struct {
	Name string
	types.Type
}

// VarDeclStmtHir stores Value, or zero when Value is nil.
type VarDeclStmtHir struct {
	Ident *IdentExprHir
	Value ExprHir
}

// ArrayDeclStmtHir resets every element of Ident to zero.
type ArrayDeclStmtHir struct {
	Ident *IdentExprHir
}

type AssignStmtHir struct {
	Ident *IdentExprHir
	Value ExprHir
}

type ArrayAssignStmtHir struct {
	Target *ArraySubscriptExprHir
	Value  ExprHir
}

type IfStmtHir struct {
	Cond ExprHir
	Body *ScopeStmtHir
	Else *ScopeStmtHir
}

type WhileStmtHir struct {
	Cond ExprHir
	Body *ScopeStmtHir
}

// ForStmtHir leaves Init, Cond and Post nil when the clause is omitted.
type ForStmtHir struct {
	Init StmtHir
	Cond ExprHir
	Post StmtHir
	Body *ScopeStmtHir
}

// ReturnStmtHir with a nil Expr only appears in top-level code.
type ReturnStmtHir struct {
	Expr ExprHir
}

type ContinueStmtHir struct{}

type BreakStmtHir struct{}

func (ExprStmtHir) StmtHirNode()        {}
func (PrintStmtHir) StmtHirNode()       {}
func (ScopeStmtHir) StmtHirNode()       {}
func (FuncDeclStmtHir) StmtHirNode()    {}
func (VarDeclStmtHir) StmtHirNode()     {}
func (ArrayDeclStmtHir) StmtHirNode()   {}
func (AssignStmtHir) StmtHirNode()      {}
func (ArrayAssignStmtHir) StmtHirNode() {}
func (IfStmtHir) StmtHirNode()          {}
func (WhileStmtHir) StmtHirNode()       {}
func (ForStmtHir) StmtHirNode()         {}
func (ReturnStmtHir) StmtHirNode()      {}
func (ContinueStmtHir) StmtHirNode()    {}
func (BreakStmtHir) StmtHirNode()       {}
