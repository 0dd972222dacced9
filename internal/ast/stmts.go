package ast

import "github.com/kievzenit/nagato/internal/lexer"

type ScopeStmt struct {
	StartToken *lexer.Token

	Stmts []Stmt
}

type FuncDeclStmt struct {
	StartToken *lexer.Token

	Name string
	Args []FuncArg
	Body *ScopeStmt
}

// FuncArg is a parameter; Type is NoType unless the source spelled one.
type FuncArg struct {
	Name string
	Type ValueType
}

type VarDeclStmt struct {
	StartToken *lexer.Token

	Name         string
	ExplicitType ValueType
	Value        Expr
}

type ArrayDeclStmt struct {
	StartToken *lexer.Token

	Name     string
	Size     int
	ItemType ValueType
}

type AssignStmt struct {
	StartToken *lexer.Token

	Name  string
	Value Expr
}

type ArrayAssignStmt struct {
	StartToken *lexer.Token

	Name  string
	Index Expr
	Value Expr
}

type WhileStmt struct {
	StartToken *lexer.Token

	Cond Expr
	Body *ScopeStmt
}

// ForStmt leaves Init, Cond and Post nil when the clause is omitted.
type ForStmt struct {
	StartToken *lexer.Token

	Init Stmt
	Cond Expr
	Post Stmt
	Body *ScopeStmt
}

type IfStmt struct {
	StartToken *lexer.Token

	Cond Expr
	Body *ScopeStmt
	Else *ScopeStmt
}

type ExprStmt struct {
	Expr Expr
}

type ReturnStmt struct {
	StartToken *lexer.Token

	Expr Expr
}

type BreakStmt struct {
	StartToken *lexer.Token
}

type ContinueStmt struct {
	StartToken *lexer.Token
}

func (s *ScopeStmt) AstNode()       {}
func (f *FuncDeclStmt) AstNode()    {}
func (v *VarDeclStmt) AstNode()     {}
func (a *ArrayDeclStmt) AstNode()   {}
func (a *AssignStmt) AstNode()      {}
func (a *ArrayAssignStmt) AstNode() {}
func (e *ExprStmt) AstNode()        {}
func (i *IfStmt) AstNode()          {}
func (w *WhileStmt) AstNode()       {}
func (f *ForStmt) AstNode()         {}
func (r *ReturnStmt) AstNode()      {}
func (b *BreakStmt) AstNode()       {}
func (c *ContinueStmt) AstNode()    {}

func (s *ScopeStmt) FirstToken() *lexer.Token       { return s.StartToken }
func (f *FuncDeclStmt) FirstToken() *lexer.Token    { return f.StartToken }
func (v *VarDeclStmt) FirstToken() *lexer.Token     { return v.StartToken }
func (a *ArrayDeclStmt) FirstToken() *lexer.Token   { return a.StartToken }
func (a *AssignStmt) FirstToken() *lexer.Token      { return a.StartToken }
func (a *ArrayAssignStmt) FirstToken() *lexer.Token { return a.StartToken }
func (e *ExprStmt) FirstToken() *lexer.Token        { return e.Expr.FirstToken() }
func (i *IfStmt) FirstToken() *lexer.Token          { return i.StartToken }
func (w *WhileStmt) FirstToken() *lexer.Token       { return w.StartToken }
func (f *ForStmt) FirstToken() *lexer.Token         { return f.StartToken }
func (r *ReturnStmt) FirstToken() *lexer.Token      { return r.StartToken }
func (b *BreakStmt) FirstToken() *lexer.Token       { return b.StartToken }
func (c *ContinueStmt) FirstToken() *lexer.Token    { return c.StartToken }

func (s *ScopeStmt) StmtNode()       {}
func (f *FuncDeclStmt) StmtNode()    {}
func (v *VarDeclStmt) StmtNode()     {}
func (a *ArrayDeclStmt) StmtNode()   {}
func (a *AssignStmt) StmtNode()      {}
func (a *ArrayAssignStmt) StmtNode() {}
func (e *ExprStmt) StmtNode()        {}
func (i *IfStmt) StmtNode()          {}
func (w *WhileStmt) StmtNode()       {}
func (f *ForStmt) StmtNode()         {}
func (r *ReturnStmt) StmtNode()      {}
func (b *BreakStmt) StmtNode()       {}
func (c *ContinueStmt) StmtNode()    {}
