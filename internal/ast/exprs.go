package ast

import "github.com/kievzenit/nagato/internal/lexer"

type IntExpr struct {
	StartToken *lexer.Token

	Value int32
}

type FloatExpr struct {
	StartToken *lexer.Token

	Value float32
}

type IdentExpr struct {
	StartToken *lexer.Token

	Value string
}

type CallExpr struct {
	StartToken *lexer.Token

	Name string
	Args []Expr
}

type ArraySubscriptExpr struct {
	StartToken *lexer.Token

	Name  string
	Index Expr
}

type UnaryExpr struct {
	StartToken *lexer.Token

	Op    *lexer.Token
	Right Expr
}

type BinaryExpr struct {
	StartToken *lexer.Token

	Left  Expr
	Op    *lexer.Token
	Right Expr
}

func (IntExpr) AstNode()            {}
func (FloatExpr) AstNode()          {}
func (IdentExpr) AstNode()          {}
func (CallExpr) AstNode()           {}
func (ArraySubscriptExpr) AstNode() {}
func (UnaryExpr) AstNode()          {}
func (BinaryExpr) AstNode()         {}

func (e *IntExpr) FirstToken() *lexer.Token            { return e.StartToken }
func (e *FloatExpr) FirstToken() *lexer.Token          { return e.StartToken }
func (e *IdentExpr) FirstToken() *lexer.Token          { return e.StartToken }
func (e *CallExpr) FirstToken() *lexer.Token           { return e.StartToken }
func (e *ArraySubscriptExpr) FirstToken() *lexer.Token { return e.StartToken }
func (e *UnaryExpr) FirstToken() *lexer.Token          { return e.StartToken }
func (e *BinaryExpr) FirstToken() *lexer.Token         { return e.StartToken }

func (IntExpr) ExprNode()            {}
func (FloatExpr) ExprNode()          {}
func (IdentExpr) ExprNode()          {}
func (CallExpr) ExprNode()           {}
func (ArraySubscriptExpr) ExprNode() {}
func (UnaryExpr) ExprNode()          {}
func (BinaryExpr) ExprNode()         {}
