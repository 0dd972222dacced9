package parser

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/kievzenit/nagato/internal/ast"
	"github.com/kievzenit/nagato/internal/compiler_errors"
	"github.com/kievzenit/nagato/internal/lexer"
)

// precedenceLevels lists the binary operators from the loosest binding level
// to the tightest. Every level folds left; unary operators sit below the last one.
var precedenceLevels = [][]lexer.TokenKind{
	{lexer.LOR},
	{lexer.LAND},
	{lexer.EQ, lexer.NEQ},
	{lexer.LT, lexer.LEQ, lexer.GT, lexer.GEQ},
	{lexer.PLUS, lexer.MINUS},
	{lexer.ASTERISK, lexer.SLASH, lexer.PERCENT},
}

type Parser struct {
	fileName string

	scanner lexer.TokenScanner
	eh      compiler_errors.ErrorHandler

	curr *lexer.Token

	loopDepth int
	funcNames map[string]bool
}

func NewParser(fileName string, scanner lexer.TokenScanner, eh compiler_errors.ErrorHandler) *Parser {
	return &Parser{
		fileName:  fileName,
		scanner:   scanner,
		eh:        eh,
		curr:      scanner.Read(),
		funcNames: make(map[string]bool),
	}
}

// Parse consumes the whole token stream. Errors are reported to the error
// handler, which aborts through FailNow.
func (p *Parser) Parse() *ast.Program {
	program := &ast.Program{
		StartToken: p.curr,

		Stmts: make([]ast.Stmt, 0),
	}

	for p.curr.Kind != lexer.EOF {
		program.Stmts = append(program.Stmts, p.parseTopStmt())
	}

	return program
}

// IsIncomplete reports whether err is a parse error caused by the input ending
// before the construct being parsed was finished.
func IsIncomplete(err error) bool {
	var e *compiler_errors.Error
	if !errors.As(err, &e) {
		return false
	}

	return e.Kind == compiler_errors.ParseKind && e.Incomplete
}

func (p *Parser) parseTopStmt() ast.Stmt {
	if p.curr.Kind == lexer.FUNC {
		return p.parseFuncDeclStmt()
	}

	return p.parseStmt()
}

func (p *Parser) parseFuncDeclStmt() *ast.FuncDeclStmt {
	const production = "function definition"

	p.expect(lexer.FUNC, production)
	startToken := p.curr
	p.read()

	p.expect(lexer.IDENT, production)
	nameToken := p.curr
	name := p.curr.Value
	p.read()

	if p.funcNames[name] {
		p.fail(nameToken, production, fmt.Sprintf("function '%s' is already defined", name))
	}
	p.funcNames[name] = true

	p.expect(lexer.LPAREN, production)
	p.read()

	args := make([]ast.FuncArg, 0)
	seen := make(map[string]bool)
	for p.curr.Kind != lexer.RPAREN {
		argType := ast.NoType
		if p.isCurrAny(lexer.INT_TYPE, lexer.FLOAT_TYPE) {
			argType = p.parseValueType(production)
		}

		p.expect(lexer.IDENT, production)
		if seen[p.curr.Value] {
			p.fail(p.curr, production, fmt.Sprintf("duplicate parameter '%s'", p.curr.Value))
		}
		seen[p.curr.Value] = true

		args = append(args, ast.FuncArg{
			Name: p.curr.Value,
			Type: argType,
		})
		p.read()

		if p.curr.Kind == lexer.COMMA {
			p.read()
			if p.curr.Kind == lexer.RPAREN {
				p.unexpected(production)
			}
			continue
		}

		p.expectAny(production, lexer.COMMA, lexer.RPAREN)
	}

	p.expect(lexer.RPAREN, production)
	p.read()

	outerLoopDepth := p.loopDepth
	p.loopDepth = 0
	body := p.parseScopeStmt("function body")
	p.loopDepth = outerLoopDepth

	return &ast.FuncDeclStmt{
		StartToken: startToken,

		Name: name,
		Args: args,
		Body: body,
	}
}

func (p *Parser) parseStmt() ast.Stmt {
	switch p.curr.Kind {
	case lexer.IF, lexer.WHILE, lexer.FOR:
		return p.parseControlStmt()
	case lexer.RETURN, lexer.CONTINUE, lexer.BREAK:
		return p.parseJumpStmt()
	case lexer.INT_TYPE, lexer.FLOAT_TYPE:
		return p.parseDeclStmt(true)
	case lexer.FUNC:
		p.fail(p.curr, "statement", "function definitions are only allowed at top level")
	}

	return p.parseSimpleStmt(true)
}

func (p *Parser) parseControlStmt() ast.Stmt {
	switch p.curr.Kind {
	case lexer.IF:
		return p.parseIfStmt()
	case lexer.WHILE:
		return p.parseWhileStmt()
	case lexer.FOR:
		return p.parseForStmt()
	}

	p.unexpected("statement")
	panic("unreachable")
}

func (p *Parser) parseJumpStmt() ast.Stmt {
	switch p.curr.Kind {
	case lexer.RETURN:
		return p.parseReturnStmt()
	case lexer.CONTINUE:
		return p.parseContinueStmt()
	case lexer.BREAK:
		return p.parseBreakStmt()
	}

	p.unexpected("statement")
	panic("unreachable")
}

func (p *Parser) parseReturnStmt() *ast.ReturnStmt {
	const production = "return statement"

	p.expect(lexer.RETURN, production)
	startToken := p.curr
	p.read()

	if p.curr.Kind == lexer.SEMICOLON {
		p.read()
		return &ast.ReturnStmt{
			StartToken: startToken,
		}
	}

	expr := p.parseExpr()
	p.expect(lexer.SEMICOLON, production)
	p.read()

	return &ast.ReturnStmt{
		StartToken: startToken,

		Expr: expr,
	}
}

func (p *Parser) parseContinueStmt() *ast.ContinueStmt {
	const production = "continue statement"

	p.expect(lexer.CONTINUE, production)
	startToken := p.curr
	if p.loopDepth == 0 {
		p.fail(startToken, production, "continue outside of a loop")
	}
	p.read()

	p.expect(lexer.SEMICOLON, production)
	p.read()

	return &ast.ContinueStmt{
		StartToken: startToken,
	}
}

func (p *Parser) parseBreakStmt() *ast.BreakStmt {
	const production = "break statement"

	p.expect(lexer.BREAK, production)
	startToken := p.curr
	if p.loopDepth == 0 {
		p.fail(startToken, production, "break outside of a loop")
	}
	p.read()

	p.expect(lexer.SEMICOLON, production)
	p.read()

	return &ast.BreakStmt{
		StartToken: startToken,
	}
}

func (p *Parser) parseIfStmt() *ast.IfStmt {
	const production = "if statement"

	p.expect(lexer.IF, production)
	startToken := p.curr
	p.read()

	cond := p.parseParenExpr(production)
	body := p.parseScopeStmt("if body")

	if p.curr.Kind != lexer.ELSE {
		return &ast.IfStmt{
			StartToken: startToken,

			Cond: cond,
			Body: body,
		}
	}

	elseToken := p.curr
	p.read()

	var elseBody *ast.ScopeStmt
	if p.curr.Kind == lexer.IF {
		elseIf := p.parseIfStmt()
		elseBody = &ast.ScopeStmt{
			StartToken: elseToken,

			Stmts: []ast.Stmt{elseIf},
		}
	} else {
		elseBody = p.parseScopeStmt("else body")
	}

	return &ast.IfStmt{
		StartToken: startToken,

		Cond: cond,
		Body: body,
		Else: elseBody,
	}
}

func (p *Parser) parseWhileStmt() *ast.WhileStmt {
	const production = "while statement"

	p.expect(lexer.WHILE, production)
	startToken := p.curr
	p.read()

	cond := p.parseParenExpr(production)
	body := p.parseLoopBody("while body")

	return &ast.WhileStmt{
		StartToken: startToken,

		Cond: cond,
		Body: body,
	}
}

func (p *Parser) parseForStmt() *ast.ForStmt {
	const production = "for statement"

	p.expect(lexer.FOR, production)
	startToken := p.curr
	p.read()

	p.expect(lexer.LPAREN, production)
	p.read()

	var init ast.Stmt
	if p.curr.Kind != lexer.SEMICOLON {
		if p.isCurrAny(lexer.INT_TYPE, lexer.FLOAT_TYPE) {
			init = p.parseDeclStmt(false)
		} else {
			init = p.parseSimpleStmt(false)
		}
	}
	p.expect(lexer.SEMICOLON, production)
	p.read()

	var cond ast.Expr
	if p.curr.Kind != lexer.SEMICOLON {
		cond = p.parseExpr()
	}
	p.expect(lexer.SEMICOLON, production)
	p.read()

	var post ast.Stmt
	if p.curr.Kind != lexer.RPAREN {
		post = p.parseSimpleStmt(false)
	}
	p.expect(lexer.RPAREN, production)
	p.read()

	body := p.parseLoopBody("for body")

	return &ast.ForStmt{
		StartToken: startToken,

		Init: init,
		Cond: cond,
		Post: post,
		Body: body,
	}
}

func (p *Parser) parseLoopBody(production string) *ast.ScopeStmt {
	p.loopDepth++
	body := p.parseScopeStmt(production)
	p.loopDepth--

	return body
}

func (p *Parser) parseScopeStmt(production string) *ast.ScopeStmt {
	p.expect(lexer.LBRACE, production)
	startToken := p.curr
	p.read()

	stmts := make([]ast.Stmt, 0)
	for p.curr.Kind != lexer.RBRACE && p.curr.Kind != lexer.EOF {
		stmts = append(stmts, p.parseStmt())
	}

	p.expect(lexer.RBRACE, production)
	p.read()

	return &ast.ScopeStmt{
		StartToken: startToken,

		Stmts: stmts,
	}
}

// parseDeclStmt handles both `int x = e` and `int xs[N]`.
func (p *Parser) parseDeclStmt(expectSemicolon bool) ast.Stmt {
	const production = "declaration"

	startToken := p.curr
	declType := p.parseValueType(production)

	p.expect(lexer.IDENT, production)
	name := p.curr.Value
	p.read()

	if p.curr.Kind == lexer.LBRACKET {
		p.read()

		p.expect(lexer.INT, "array declaration")
		sizeToken := p.curr
		if sizeToken.Int <= 0 {
			p.fail(sizeToken, "array declaration", fmt.Sprintf("array size must be positive, got %d", sizeToken.Int))
		}
		p.read()

		p.expect(lexer.RBRACKET, "array declaration")
		p.read()

		if expectSemicolon {
			p.expect(lexer.SEMICOLON, "array declaration")
			p.read()
		}

		return &ast.ArrayDeclStmt{
			StartToken: startToken,

			Name:     name,
			Size:     int(sizeToken.Int),
			ItemType: declType,
		}
	}

	var value ast.Expr
	if p.curr.Kind == lexer.ASSIGN {
		p.read()
		value = p.parseExpr()
	}

	if expectSemicolon {
		p.expect(lexer.SEMICOLON, production)
		p.read()
	}

	return &ast.VarDeclStmt{
		StartToken: startToken,

		Name:         name,
		ExplicitType: declType,
		Value:        value,
	}
}

// parseSimpleStmt parses an expression and turns it into an assignment when
// an `=` follows an identifier or a subscript.
func (p *Parser) parseSimpleStmt(expectSemicolon bool) ast.Stmt {
	const production = "statement"

	parenthesized := p.curr.Kind == lexer.LPAREN
	expr := p.parseExpr()

	var stmt ast.Stmt = &ast.ExprStmt{
		Expr: expr,
	}

	if p.curr.Kind == lexer.ASSIGN {
		assignToken := p.curr
		p.read()

		if parenthesized {
			p.fail(assignToken, "assignment", "left side of '=' must be a variable or an array element")
		}

		value := p.parseExpr()

		switch target := expr.(type) {
		case *ast.IdentExpr:
			stmt = &ast.AssignStmt{
				StartToken: target.StartToken,

				Name:  target.Value,
				Value: value,
			}
		case *ast.ArraySubscriptExpr:
			stmt = &ast.ArrayAssignStmt{
				StartToken: target.StartToken,

				Name:  target.Name,
				Index: target.Index,
				Value: value,
			}
		default:
			p.fail(assignToken, "assignment", "left side of '=' must be a variable or an array element")
		}
	}

	if expectSemicolon {
		p.expect(lexer.SEMICOLON, production)
		p.read()
	}

	return stmt
}

func (p *Parser) parseValueType(production string) ast.ValueType {
	p.expectAny(production, lexer.INT_TYPE, lexer.FLOAT_TYPE)

	valueType := ast.IntType
	if p.curr.Kind == lexer.FLOAT_TYPE {
		valueType = ast.FloatType
	}
	p.read()

	return valueType
}

func (p *Parser) parseExpr() ast.Expr {
	return p.parseBinaryExpr(0)
}

func (p *Parser) parseBinaryExpr(level int) ast.Expr {
	if level == len(precedenceLevels) {
		return p.parseUnaryExpr()
	}

	left := p.parseBinaryExpr(level + 1)
	for p.isCurrAny(precedenceLevels[level]...) {
		op := p.curr
		p.read()

		right := p.parseBinaryExpr(level + 1)

		left = &ast.BinaryExpr{
			StartToken: left.FirstToken(),

			Left:  left,
			Op:    op,
			Right: right,
		}
	}

	return left
}

func (p *Parser) parseUnaryExpr() ast.Expr {
	if p.isCurrAny(lexer.MINUS, lexer.PLUS, lexer.XMARK) {
		op := p.curr
		p.read()

		right := p.parseUnaryExpr()

		return &ast.UnaryExpr{
			StartToken: op,

			Op:    op,
			Right: right,
		}
	}

	return p.parsePostfixExpr()
}

func (p *Parser) parsePostfixExpr() ast.Expr {
	if p.curr.Kind != lexer.IDENT {
		return p.parsePrimaryExpr()
	}

	switch p.scanner.Peek().Kind {
	case lexer.LPAREN:
		return p.parseCallExpr()
	case lexer.LBRACKET:
		return p.parseArraySubscriptExpr()
	}

	return p.parseIdentExpr()
}

func (p *Parser) parsePrimaryExpr() ast.Expr {
	switch p.curr.Kind {
	case lexer.LPAREN:
		return p.parseParenExpr("parenthesized expression")
	case lexer.IDENT:
		return p.parseIdentExpr()
	case lexer.INT:
		return p.parseIntegerExpr()
	case lexer.FLOAT:
		return p.parseFloatExpr()
	}

	p.unexpected("expression")
	panic("unreachable")
}

func (p *Parser) parseParenExpr(production string) ast.Expr {
	p.expect(lexer.LPAREN, production)
	p.read()

	expr := p.parseExpr()

	p.expect(lexer.RPAREN, production)
	p.read()

	return expr
}

func (p *Parser) parseCallExpr() *ast.CallExpr {
	const production = "function call"

	p.expect(lexer.IDENT, production)
	startToken := p.curr
	name := p.curr.Value
	p.read()

	p.expect(lexer.LPAREN, production)
	p.read()

	args := make([]ast.Expr, 0)
	for p.curr.Kind != lexer.RPAREN {
		args = append(args, p.parseExpr())
		if p.curr.Kind == lexer.COMMA {
			p.read()
			if p.curr.Kind == lexer.RPAREN {
				p.unexpected(production)
			}
			continue
		}

		p.expectAny(production, lexer.COMMA, lexer.RPAREN)
	}

	p.expect(lexer.RPAREN, production)
	p.read()

	return &ast.CallExpr{
		StartToken: startToken,

		Name: name,
		Args: args,
	}
}

func (p *Parser) parseArraySubscriptExpr() *ast.ArraySubscriptExpr {
	const production = "array subscript"

	p.expect(lexer.IDENT, production)
	startToken := p.curr
	name := p.curr.Value
	p.read()

	p.expect(lexer.LBRACKET, production)
	p.read()

	index := p.parseExpr()

	p.expect(lexer.RBRACKET, production)
	p.read()

	return &ast.ArraySubscriptExpr{
		StartToken: startToken,

		Name:  name,
		Index: index,
	}
}

func (p *Parser) parseIdentExpr() *ast.IdentExpr {
	p.expect(lexer.IDENT, "identifier")

	startToken := p.curr
	ident := p.curr.Value
	p.read()

	return &ast.IdentExpr{
		StartToken: startToken,

		Value: ident,
	}
}

func (p *Parser) parseIntegerExpr() *ast.IntExpr {
	p.expect(lexer.INT, "integer literal")
	startToken := p.curr
	p.read()

	return &ast.IntExpr{
		StartToken: startToken,

		Value: startToken.Int,
	}
}

func (p *Parser) parseFloatExpr() *ast.FloatExpr {
	p.expect(lexer.FLOAT, "float literal")
	startToken := p.curr
	p.read()

	return &ast.FloatExpr{
		StartToken: startToken,

		Value: startToken.Float,
	}
}

func (p *Parser) read() *lexer.Token {
	p.curr = p.scanner.Read()
	return p.curr
}

func (p *Parser) expect(kind lexer.TokenKind, production string) {
	if p.curr.Kind != kind {
		p.fail(p.curr, production, fmt.Sprintf(
			"unexpected token: '%s', expected: '%s'",
			p.curr.Kind.String(),
			kind.String()))
	}
}

func (p *Parser) expectAny(production string, kinds ...lexer.TokenKind) {
	found := p.isCurrAny(kinds...)
	if found {
		return
	}

	expectedKinds := make([]string, len(kinds))
	for i, kind := range kinds {
		expectedKinds[i] = kind.String()
	}

	p.fail(p.curr, production, fmt.Sprintf(
		"unexpected token: '%s', expected one of: '%s'",
		p.curr.Kind.String(),
		strings.Join(expectedKinds, "', '")))
}

func (p *Parser) isCurrAny(kinds ...lexer.TokenKind) bool {
	return slices.Contains(kinds, p.curr.Kind)
}

func (p *Parser) unexpected(production string) {
	p.fail(p.curr, production, fmt.Sprintf("unexpected token: '%s'", p.curr.Kind.String()))
}

func (p *Parser) fail(token *lexer.Token, production string, message string) {
	p.eh.AddError(&compiler_errors.Error{
		Kind:       compiler_errors.ParseKind,
		Message:    message,
		Production: production,
		Incomplete: token.Kind == lexer.EOF,

		FileName: p.fileName,
		Line:     token.Metadata.Line,
		Column:   token.Metadata.Column,
		Length:   token.Metadata.Length,
	})
	p.eh.FailNow()
}
