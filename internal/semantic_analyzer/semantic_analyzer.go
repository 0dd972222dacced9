package semantic_analyzer

import (
	"fmt"

	"github.com/kievzenit/nagato/internal/ast"
	"github.com/kievzenit/nagato/internal/compiler_errors"
	"github.com/kievzenit/nagato/internal/hir"
	types "github.com/kievzenit/nagato/internal/hir/types"
	"github.com/kievzenit/nagato/internal/lexer"
)

// scope is either the global scope of top-level code or the scope of one
// function specialization. Blocks do not open scopes and scopes never chain.
type scope struct {
	global    bool
	variables map[string]*varDefinition
	order     []string
}

type varDefinition struct {
	Type types.Type
	// Declared is set once a declaration or a typed parameter fixed the type;
	// stores into the variable are then converted to it.
	Declared bool
}

func newScope(global bool) *scope {
	return &scope{
		global:    global,
		variables: make(map[string]*varDefinition),
		order:     make([]string, 0),
	}
}

func (s *scope) lookupVar(name string) (*varDefinition, bool) {
	v, ok := s.variables[name]
	return v, ok
}

func (s *scope) defineVar(name string, v *varDefinition) {
	if _, ok := s.variables[name]; ok {
		panic("cannot redefine variable")
	}
	s.variables[name] = v
	s.order = append(s.order, name)
}

type specialization struct {
	*types.FunctionType
	decl *ast.FuncDeclStmt

	analyzing bool
	// guessedReturn is set when a self-recursive call was typed before the
	// first return fixed the return type.
	guessedReturn bool
}

// SemanticAnalyzer types a parsed program for the native backend. Every
// variable has one type per scope and every function is specialized per
// tuple of argument types; programs that cannot be typed this way are
// rejected with SemanticError.
type SemanticAnalyzer struct {
	fileName string
	eh       compiler_errors.ErrorHandler
	program  *ast.Program
	tr       *TypeResolver

	funcs           map[string]*ast.FuncDeclStmt
	specializations map[string]*specialization
	funcDecls       []*hir.FuncDeclStmtHir

	scope       *scope
	currentSpec *specialization
}

func NewSemanticAnalyzer(
	fileName string,
	eh compiler_errors.ErrorHandler,
	program *ast.Program) *SemanticAnalyzer {
	return &SemanticAnalyzer{
		fileName: fileName,
		eh:       eh,
		program:  program,
		tr:       NewTypeResolver(),

		funcs:           make(map[string]*ast.FuncDeclStmt),
		specializations: make(map[string]*specialization),
		funcDecls:       make([]*hir.FuncDeclStmtHir, 0),
	}
}

func (sa *SemanticAnalyzer) Analyze() *hir.FileHir {
	for _, fn := range sa.program.Functions() {
		sa.funcs[fn.Name] = fn
	}

	global := newScope(true)
	sa.scope = global

	mainStmts := make([]hir.StmtHir, 0)
	for _, stmt := range sa.program.Stmts {
		if _, ok := stmt.(*ast.FuncDeclStmt); ok {
			continue
		}
		mainStmts = append(mainStmts, sa.analyzeStmt(stmt))
	}

	globals := make([]*hir.GlobalVarHir, 0, len(global.order))
	for _, name := range global.order {
		globals = append(globals, &hir.GlobalVarHir{
			Name: name,
			Type: global.variables[name].Type,
		})
	}

	prototypes := make([]*types.FunctionType, 0, len(sa.funcDecls))
	for _, funcDecl := range sa.funcDecls {
		prototypes = append(prototypes, funcDecl.FunctionType)
	}

	return &hir.FileHir{
		FuncPrototypes: prototypes,
		Globals:        globals,

		FuncDecls: sa.funcDecls,
		Main:      &hir.ScopeStmtHir{Stmts: mainStmts},
	}
}

func (sa *SemanticAnalyzer) fail(kind compiler_errors.Kind, token *lexer.Token, format string, args ...any) {
	err := compiler_errors.New(kind, 0, 0, format, args...)
	err.FileName = sa.fileName
	if token != nil {
		err.Line = token.Metadata.Line
		err.Column = token.Metadata.Column
		err.Length = token.Metadata.Length
	}

	sa.eh.AddError(err)
	sa.eh.FailNow()
}

func (sa *SemanticAnalyzer) ident(name string, t types.Type) *hir.IdentExprHir {
	return &hir.IdentExprHir{
		Type:   t,
		Name:   name,
		Global: sa.scope.global,
	}
}

func (sa *SemanticAnalyzer) specialize(decl *ast.FuncDeclStmt, argTypes []types.Type) *specialization {
	name := fmt.Sprintf("%s.%s", decl.Name, sa.tr.Signature(argTypes))
	if sp, ok := sa.specializations[name]; ok {
		return sp
	}

	args := make([]types.FunctionArgType, len(decl.Args))
	for i, arg := range decl.Args {
		args[i] = types.FunctionArgType{
			Name: arg.Name,
			Type: argTypes[i],
		}
	}

	sp := &specialization{
		FunctionType: &types.FunctionType{
			Name:       name,
			SourceName: decl.Name,
			Args:       args,
		},
		decl: decl,
	}
	sa.specializations[name] = sp

	sa.analyzeSpecialization(sp)
	if sp.ReturnType == nil {
		sa.fail(compiler_errors.SemanticKind, decl.FirstToken(),
			"function '%s' never returns a value", decl.Name)
	}

	return sp
}

func (sa *SemanticAnalyzer) analyzeSpecialization(sp *specialization) {
	outerScope, outerSpec := sa.scope, sa.currentSpec
	defer func() {
		sa.scope, sa.currentSpec = outerScope, outerSpec
	}()

	sp.analyzing = true
	funcDecl := sa.analyzeFuncBody(sp)
	if sp.guessedReturn {
		// the recursive calls were typed with a guess; redo the body now
		// that the return type is known
		sp.guessedReturn = false
		funcDecl = sa.analyzeFuncBody(sp)
		if sp.guessedReturn {
			sa.fail(compiler_errors.SemanticKind, sp.decl.FirstToken(),
				"cannot infer the return type of recursive function '%s'", sp.decl.Name)
		}
	}
	sp.analyzing = false

	sa.funcDecls = append(sa.funcDecls, funcDecl)
}

func (sa *SemanticAnalyzer) analyzeFuncBody(sp *specialization) *hir.FuncDeclStmtHir {
	sa.scope = newScope(false)
	sa.currentSpec = sp

	for i, arg := range sp.decl.Args {
		sa.scope.defineVar(arg.Name, &varDefinition{
			Type:     sp.Args[i].Type,
			Declared: arg.Type != ast.NoType,
		})
	}

	body := sa.analyzeScopeStmt(sp.decl.Body)

	locals := make([]*hir.LocalHir, 0, len(sa.scope.order))
	for _, name := range sa.scope.order {
		locals = append(locals, &hir.LocalHir{
			Name: name,
			Type: sa.scope.variables[name].Type,
		})
	}

	return &hir.FuncDeclStmtHir{
		FunctionType: sp.FunctionType,
		Locals:       locals,
		Body:         body,
	}
}

func (sa *SemanticAnalyzer) analyzeStmt(stmt ast.Stmt) hir.StmtHir {
	switch stmt := stmt.(type) {
	case *ast.ScopeStmt:
		return sa.analyzeScopeStmt(stmt)
	case *ast.VarDeclStmt:
		return sa.analyzeVarDeclStmt(stmt)
	case *ast.ArrayDeclStmt:
		return sa.analyzeArrayDeclStmt(stmt)
	case *ast.AssignStmt:
		return sa.analyzeAssignStmt(stmt)
	case *ast.ArrayAssignStmt:
		return sa.analyzeArrayAssignStmt(stmt)
	case *ast.ExprStmt:
		return sa.analyzeExprStmt(stmt)
	case *ast.IfStmt:
		return sa.analyzeIfStmt(stmt)
	case *ast.WhileStmt:
		return &hir.WhileStmtHir{
			Cond: sa.analyzeExpr(stmt.Cond),
			Body: sa.analyzeScopeStmt(stmt.Body),
		}
	case *ast.ForStmt:
		return sa.analyzeForStmt(stmt)
	case *ast.ReturnStmt:
		return sa.analyzeReturnStmt(stmt)
	case *ast.BreakStmt:
		return &hir.BreakStmtHir{}
	case *ast.ContinueStmt:
		return &hir.ContinueStmtHir{}
	case *ast.FuncDeclStmt:
		sa.fail(compiler_errors.SemanticKind, stmt.FirstToken(),
			"function '%s' defined outside of top level", stmt.Name)
	}

	panic("not implemented")
}

func (sa *SemanticAnalyzer) analyzeScopeStmt(scopeStmt *ast.ScopeStmt) *hir.ScopeStmtHir {
	stmts := make([]hir.StmtHir, 0, len(scopeStmt.Stmts))
	for _, stmt := range scopeStmt.Stmts {
		stmts = append(stmts, sa.analyzeStmt(stmt))
	}

	return &hir.ScopeStmtHir{
		Stmts: stmts,
	}
}

func (sa *SemanticAnalyzer) analyzeVarDeclStmt(varDeclStmt *ast.VarDeclStmt) *hir.VarDeclStmtHir {
	declType := sa.tr.GetType(varDeclStmt.ExplicitType)

	var value hir.ExprHir
	if varDeclStmt.Value != nil {
		value = sa.convert(sa.analyzeExpr(varDeclStmt.Value), declType)
	}

	varDef, defined := sa.scope.lookupVar(varDeclStmt.Name)
	if !defined {
		sa.scope.defineVar(varDeclStmt.Name, &varDefinition{
			Type:     declType,
			Declared: true,
		})
	} else {
		if !varDef.Type.SameAs(declType) {
			sa.fail(compiler_errors.SemanticKind, varDeclStmt.FirstToken(),
				"variable '%s' redeclared as %s, it was %s",
				varDeclStmt.Name, declType.Type(), varDef.Type.Type())
		}
		varDef.Declared = true
	}

	return &hir.VarDeclStmtHir{
		Ident: sa.ident(varDeclStmt.Name, declType),
		Value: value,
	}
}

func (sa *SemanticAnalyzer) analyzeArrayDeclStmt(arrayDeclStmt *ast.ArrayDeclStmt) *hir.ArrayDeclStmtHir {
	arrayType := sa.tr.ArrayOf(sa.tr.GetType(arrayDeclStmt.ItemType), arrayDeclStmt.Size)

	varDef, defined := sa.scope.lookupVar(arrayDeclStmt.Name)
	if !defined {
		sa.scope.defineVar(arrayDeclStmt.Name, &varDefinition{
			Type:     arrayType,
			Declared: true,
		})
	} else if !varDef.Type.SameAs(arrayType) {
		sa.fail(compiler_errors.SemanticKind, arrayDeclStmt.FirstToken(),
			"array '%s' redeclared as %s, it was %s",
			arrayDeclStmt.Name, arrayType.Type(), varDef.Type.Type())
	}

	return &hir.ArrayDeclStmtHir{
		Ident: sa.ident(arrayDeclStmt.Name, arrayType),
	}
}

func (sa *SemanticAnalyzer) analyzeAssignStmt(assignStmt *ast.AssignStmt) *hir.AssignStmtHir {
	value := sa.analyzeExpr(assignStmt.Value)

	varDef, defined := sa.scope.lookupVar(assignStmt.Name)
	if !defined {
		sa.scope.defineVar(assignStmt.Name, &varDefinition{
			Type: value.ExprType(),
		})

		return &hir.AssignStmtHir{
			Ident: sa.ident(assignStmt.Name, value.ExprType()),
			Value: value,
		}
	}

	if !types.IsScalar(varDef.Type) {
		sa.fail(compiler_errors.TypeKind, assignStmt.FirstToken(),
			"cannot assign a scalar to array '%s'", assignStmt.Name)
	}

	if !varDef.Declared && !varDef.Type.SameAs(value.ExprType()) {
		sa.fail(compiler_errors.SemanticKind, assignStmt.FirstToken(),
			"variable '%s' changes type from %s to %s; declare it to convert on assignment",
			assignStmt.Name, varDef.Type.Type(), value.ExprType().Type())
	}

	return &hir.AssignStmtHir{
		Ident: sa.ident(assignStmt.Name, varDef.Type),
		Value: sa.convert(value, varDef.Type),
	}
}

func (sa *SemanticAnalyzer) analyzeArrayAssignStmt(arrayAssignStmt *ast.ArrayAssignStmt) *hir.ArrayAssignStmtHir {
	target := sa.analyzeArraySubscript(arrayAssignStmt.Name, arrayAssignStmt.Index, arrayAssignStmt.FirstToken())
	value := sa.analyzeExpr(arrayAssignStmt.Value)

	return &hir.ArrayAssignStmtHir{
		Target: target,
		Value:  sa.convert(value, target.ExprType()),
	}
}

func (sa *SemanticAnalyzer) analyzeExprStmt(exprStmt *ast.ExprStmt) hir.StmtHir {
	identExpr, ok := exprStmt.Expr.(*ast.IdentExpr)
	if !ok {
		return &hir.ExprStmtHir{
			Expr: sa.analyzeExpr(exprStmt.Expr),
		}
	}

	varDef, defined := sa.scope.lookupVar(identExpr.Value)
	if !defined {
		sa.fail(compiler_errors.SemanticKind, identExpr.FirstToken(),
			"variable '%s' is used before it is assigned", identExpr.Value)
	}

	return &hir.PrintStmtHir{
		Ident: sa.ident(identExpr.Value, varDef.Type),
	}
}

func (sa *SemanticAnalyzer) analyzeIfStmt(ifStmt *ast.IfStmt) *hir.IfStmtHir {
	ifStmtHir := &hir.IfStmtHir{
		Cond: sa.analyzeExpr(ifStmt.Cond),
		Body: sa.analyzeScopeStmt(ifStmt.Body),
	}

	if ifStmt.Else != nil {
		ifStmtHir.Else = sa.analyzeScopeStmt(ifStmt.Else)
	}

	return ifStmtHir
}

// analyzeForStmt visits the clauses in execution order so that the step may
// use variables first assigned in the body.
func (sa *SemanticAnalyzer) analyzeForStmt(forStmt *ast.ForStmt) *hir.ForStmtHir {
	forStmtHir := &hir.ForStmtHir{}

	if forStmt.Init != nil {
		forStmtHir.Init = sa.analyzeStmt(forStmt.Init)
	}
	if forStmt.Cond != nil {
		forStmtHir.Cond = sa.analyzeExpr(forStmt.Cond)
	}
	forStmtHir.Body = sa.analyzeScopeStmt(forStmt.Body)
	if forStmt.Post != nil {
		forStmtHir.Post = sa.analyzeStmt(forStmt.Post)
	}

	return forStmtHir
}

func (sa *SemanticAnalyzer) analyzeReturnStmt(returnStmt *ast.ReturnStmt) *hir.ReturnStmtHir {
	sp := sa.currentSpec

	if returnStmt.Expr == nil {
		if sp != nil {
			sa.fail(compiler_errors.SemanticKind, returnStmt.FirstToken(),
				"function '%s' must return a value", sp.decl.Name)
		}
		return &hir.ReturnStmtHir{}
	}

	value := sa.analyzeExpr(returnStmt.Expr)
	if sp == nil {
		return &hir.ReturnStmtHir{Expr: value}
	}

	if sp.ReturnType == nil {
		sp.ReturnType = value.ExprType()
	} else if !sp.ReturnType.SameAs(value.ExprType()) {
		sa.fail(compiler_errors.SemanticKind, returnStmt.FirstToken(),
			"function '%s' returns both %s and %s",
			sp.decl.Name, sp.ReturnType.Type(), value.ExprType().Type())
	}

	return &hir.ReturnStmtHir{Expr: value}
}

// convert casts expr to t. A nil t leaves expr untouched.
func (sa *SemanticAnalyzer) convert(expr hir.ExprHir, t types.Type) hir.ExprHir {
	if t == nil || expr.ExprType().SameAs(t) {
		return expr
	}

	if expr.ExprType().CanBeImplicitlyCastedTo(t) {
		return &hir.UpCastExprHir{
			NewType: t,
			OldType: expr.ExprType(),
			Expr:    expr,
		}
	}

	if expr.ExprType().CanBeExplicitlyCastedTo(t) {
		return &hir.DownCastExprHir{
			NewType: t,
			OldType: expr.ExprType(),
			Expr:    expr,
		}
	}

	panic("cannot cast " + expr.ExprType().Type() + " to " + t.Type())
}

func (sa *SemanticAnalyzer) analyzeExpr(expr ast.Expr) hir.ExprHir {
	switch expr := expr.(type) {
	case *ast.IntExpr:
		return &hir.IntExprHir{
			Type:  sa.tr.IntType(),
			Value: expr.Value,
		}
	case *ast.FloatExpr:
		return &hir.FloatExprHir{
			Type:  sa.tr.FloatType(),
			Value: expr.Value,
		}
	case *ast.IdentExpr:
		return sa.analyzeIdentExpr(expr)
	case *ast.ArraySubscriptExpr:
		return sa.analyzeArraySubscript(expr.Name, expr.Index, expr.FirstToken())
	case *ast.CallExpr:
		return sa.analyzeCallExpr(expr)
	case *ast.UnaryExpr:
		return sa.analyzeUnaryExpr(expr)
	case *ast.BinaryExpr:
		return sa.analyzeBinaryExpr(expr)
	}

	panic("not implemented")
}

func (sa *SemanticAnalyzer) analyzeIdentExpr(identExpr *ast.IdentExpr) *hir.IdentExprHir {
	varDef, defined := sa.scope.lookupVar(identExpr.Value)
	if !defined {
		sa.fail(compiler_errors.SemanticKind, identExpr.FirstToken(),
			"variable '%s' is used before it is assigned", identExpr.Value)
	}

	if !types.IsScalar(varDef.Type) {
		sa.fail(compiler_errors.TypeKind, identExpr.FirstToken(),
			"array '%s' used as a scalar value", identExpr.Value)
	}

	return sa.ident(identExpr.Value, varDef.Type)
}

func (sa *SemanticAnalyzer) analyzeArraySubscript(name string, index ast.Expr, token *lexer.Token) *hir.ArraySubscriptExprHir {
	varDef, defined := sa.scope.lookupVar(name)
	if !defined {
		sa.fail(compiler_errors.SemanticKind, token, "array '%s' is used before it is declared", name)
	}

	arrayType, ok := varDef.Type.(*types.ArrayType)
	if !ok {
		sa.fail(compiler_errors.TypeKind, token, "'%s' is not an array", name)
	}

	return &hir.ArraySubscriptExprHir{
		Type:  arrayType.ItemType,
		Array: sa.ident(name, arrayType),
		Index: sa.convert(sa.analyzeExpr(index), sa.tr.IntType()),
	}
}

func (sa *SemanticAnalyzer) analyzeCallExpr(callExpr *ast.CallExpr) *hir.CallExprHir {
	decl, ok := sa.funcs[callExpr.Name]
	if !ok {
		sa.fail(compiler_errors.SemanticKind, callExpr.FirstToken(),
			"function '%s' is not defined", callExpr.Name)
	}

	if len(callExpr.Args) != len(decl.Args) {
		sa.fail(compiler_errors.SemanticKind, callExpr.FirstToken(),
			"function '%s' expects %d argument(s), got %d",
			decl.Name, len(decl.Args), len(callExpr.Args))
	}

	args := make([]hir.ExprHir, len(callExpr.Args))
	argTypes := make([]types.Type, len(callExpr.Args))
	for i, arg := range callExpr.Args {
		argExpr := sa.analyzeExpr(arg)
		if paramType := sa.tr.GetType(decl.Args[i].Type); paramType != nil {
			argExpr = sa.convert(argExpr, paramType)
		}

		args[i] = argExpr
		argTypes[i] = argExpr.ExprType()
	}

	sp := sa.specialize(decl, argTypes)

	returnType := sp.ReturnType
	if returnType == nil {
		if sp != sa.currentSpec || !sp.analyzing {
			sa.fail(compiler_errors.SemanticKind, callExpr.FirstToken(),
				"cannot infer the return type of '%s' before one of its returns", decl.Name)
		}

		sp.guessedReturn = true
		returnType = sa.tr.IntType()
	}

	return &hir.CallExprHir{
		Type: returnType,
		Name: sp.Name,
		Args: args,
	}
}

func (sa *SemanticAnalyzer) analyzeUnaryExpr(unaryExpr *ast.UnaryExpr) *hir.UnaryExprHir {
	right := sa.analyzeExpr(unaryExpr.Right)
	op := hir.UnaryOpFromTokenKind(unaryExpr.Op.Kind)

	resultType := right.ExprType()
	if op == hir.Not {
		resultType = sa.tr.IntType()
	}

	return &hir.UnaryExprHir{
		Type:  resultType,
		Op:    op,
		Right: right,
	}
}

func (sa *SemanticAnalyzer) analyzeBinaryExpr(binaryExpr *ast.BinaryExpr) *hir.BinaryExprHir {
	left := sa.analyzeExpr(binaryExpr.Left)
	right := sa.analyzeExpr(binaryExpr.Right)
	op := hir.BinOpFromTokenKind(binaryExpr.Op.Kind)

	if op.IsLogical() {
		return &hir.BinaryExprHir{
			Type:  sa.tr.IntType(),
			Left:  left,
			Op:    op,
			Right: right,
		}
	}

	if op == hir.Mod && (!left.ExprType().SameAs(sa.tr.IntType()) || !right.ExprType().SameAs(sa.tr.IntType())) {
		sa.fail(compiler_errors.TypeKind, binaryExpr.Op,
			"operator '%%' requires int operands, got %s and %s",
			left.ExprType().Type(), right.ExprType().Type())
	}

	if left.ExprType().CanBeImplicitlyCastedTo(right.ExprType()) {
		left = sa.convert(left, right.ExprType())
	}
	if right.ExprType().CanBeImplicitlyCastedTo(left.ExprType()) {
		right = sa.convert(right, left.ExprType())
	}

	resultType := left.ExprType()
	if op.IsComparison() {
		resultType = sa.tr.IntType()
	}

	return &hir.BinaryExprHir{
		Type:  resultType,
		Left:  left,
		Op:    op,
		Right: right,
	}
}
