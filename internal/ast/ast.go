package ast

import "github.com/kievzenit/nagato/internal/lexer"

type AstNode interface {
	AstNode()
	FirstToken() *lexer.Token
}

// Program is the root of every parse. Stmts keeps source order; function
// definitions sit among the top-level statements.
type Program struct {
	StartToken *lexer.Token

	Stmts []Stmt
}

type Stmt interface {
	AstNode
	StmtNode()
}

type Expr interface {
	AstNode
	ExprNode()
}

func (p *Program) AstNode() {}
func (p *Program) FirstToken() *lexer.Token {
	return p.StartToken
}

// Functions returns the function definitions of p in source order.
func (p *Program) Functions() []*FuncDeclStmt {
	funcs := make([]*FuncDeclStmt, 0)
	for _, stmt := range p.Stmts {
		if funcDecl, ok := stmt.(*FuncDeclStmt); ok {
			funcs = append(funcs, funcDecl)
		}
	}
	return funcs
}
