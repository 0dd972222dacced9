package parser

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/kievzenit/nagato/internal/ast"
	"github.com/kievzenit/nagato/internal/compiler_errors"
	"github.com/kievzenit/nagato/internal/lexer"
	"github.com/sanity-io/litter"
)

func parse(src string) (program *ast.Program, err error) {
	defer compiler_errors.Recover(&err)

	eh := compiler_errors.NewErrorHandler()
	tokens := lexer.NewLexer([]byte(src), eh).Tokenize()
	p := NewParser("test.ng", lexer.NewTokenScanner(tokens), eh)

	return p.Parse(), nil
}

func mustParse(t *testing.T, src string) *ast.Program {
	t.Helper()

	program, err := parse(src)
	if err != nil {
		t.Fatalf("parse(%q): unexpected error: %v", src, err)
	}
	return program
}

// sexpr renders an expression fully parenthesized so tests can compare shape.
func sexpr(e ast.Expr) string {
	switch e := e.(type) {
	case *ast.IntExpr:
		return fmt.Sprint(e.Value)
	case *ast.FloatExpr:
		return fmt.Sprint(e.Value)
	case *ast.IdentExpr:
		return e.Value
	case *ast.UnaryExpr:
		return fmt.Sprintf("(%s %s)", e.Op.Value, sexpr(e.Right))
	case *ast.BinaryExpr:
		return fmt.Sprintf("(%s %s %s)", e.Op.Value, sexpr(e.Left), sexpr(e.Right))
	case *ast.CallExpr:
		args := make([]string, len(e.Args))
		for i, arg := range e.Args {
			args[i] = sexpr(arg)
		}
		return fmt.Sprintf("%s(%s)", e.Name, strings.Join(args, " "))
	case *ast.ArraySubscriptExpr:
		return fmt.Sprintf("%s[%s]", e.Name, sexpr(e.Index))
	}
	return fmt.Sprintf("<%T>", e)
}

func TestExpressionPrecedence(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"additive left assoc", "a - b - c;", "(- (- a b) c)"},
		{"multiplicative binds tighter", "1 + 2 * 3;", "(+ 1 (* 2 3))"},
		{"parens", "(1 + 2) * 3;", "(* (+ 1 2) 3)"},
		{"modulo level", "a % b * c;", "(* (% a b) c)"},
		{"relational over equality", "a < b == c > d;", "(== (< a b) (> c d))"},
		{"and over or", "a || b && c;", "(|| a (&& b c))"},
		{"comparison over and", "a == 1 && b != 2;", "(&& (== a 1) (!= b 2))"},
		{"unary minus", "-a * b;", "(* (- a) b)"},
		{"unary chain", "!-+x;", "(! (- (+ x)))"},
		{"double negation", "- -x;", "(- (- x))"},
		{"call", "f(1, a + 2, g());", "f(1 (+ a 2) g())"},
		{"subscript", "xs[i + 1] * 2;", "(* xs[(+ i 1)] 2)"},
		{"float literal", "x + 0.5;", "(+ x 0.5)"},
		{"relational chain", "a <= b >= c;", "(>= (<= a b) c)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			program := mustParse(t, tt.input)

			stmt, ok := program.Stmts[0].(*ast.ExprStmt)
			if !ok {
				t.Fatalf("expected expression statement, got %s", litter.Sdump(program.Stmts[0]))
			}

			if got := sexpr(stmt.Expr); got != tt.expected {
				t.Errorf("got %s, want %s", got, tt.expected)
			}
		})
	}
}

func TestStatements(t *testing.T) {
	src := `
func add(int a, b) {
	return a + b;
}
int x = 5;
float y;
int xs[3];
xs[0] = x;
x = add(x, 2);
if (x > 1) { x; } else if (x < 0) { y; } else { xs; }
while (x) { x = x - 1; continue; }
for (int i = 0; i < 3; i = i + 1) { break; }
for (;;) { break; }
return x;
`
	program := mustParse(t, src)

	if len(program.Stmts) != 11 {
		t.Fatalf("expected 11 top-level statements, got %d", len(program.Stmts))
	}

	fn := program.Stmts[0].(*ast.FuncDeclStmt)
	if fn.Name != "add" || len(fn.Args) != 2 {
		t.Fatalf("unexpected function: %s", litter.Sdump(fn))
	}
	if fn.Args[0].Type != ast.IntType || fn.Args[1].Type != ast.NoType {
		t.Errorf("unexpected parameter types: %v %v", fn.Args[0].Type, fn.Args[1].Type)
	}

	decl := program.Stmts[1].(*ast.VarDeclStmt)
	if decl.Name != "x" || decl.ExplicitType != ast.IntType || decl.Value == nil {
		t.Errorf("unexpected declaration: %s", litter.Sdump(decl))
	}

	floatDecl := program.Stmts[2].(*ast.VarDeclStmt)
	if floatDecl.ExplicitType != ast.FloatType || floatDecl.Value != nil {
		t.Errorf("unexpected declaration: %s", litter.Sdump(floatDecl))
	}

	arr := program.Stmts[3].(*ast.ArrayDeclStmt)
	if arr.Name != "xs" || arr.Size != 3 || arr.ItemType != ast.IntType {
		t.Errorf("unexpected array declaration: %s", litter.Sdump(arr))
	}

	if _, ok := program.Stmts[4].(*ast.ArrayAssignStmt); !ok {
		t.Errorf("expected array assignment, got %T", program.Stmts[4])
	}
	if _, ok := program.Stmts[5].(*ast.AssignStmt); !ok {
		t.Errorf("expected assignment, got %T", program.Stmts[5])
	}

	ifStmt := program.Stmts[6].(*ast.IfStmt)
	if ifStmt.Else == nil || len(ifStmt.Else.Stmts) != 1 {
		t.Fatalf("expected else-if chain, got %s", litter.Sdump(ifStmt.Else))
	}
	nested, ok := ifStmt.Else.Stmts[0].(*ast.IfStmt)
	if !ok || nested.Else == nil {
		t.Errorf("expected nested if with else, got %T", ifStmt.Else.Stmts[0])
	}

	forStmt := program.Stmts[8].(*ast.ForStmt)
	if forStmt.Init == nil || forStmt.Cond == nil || forStmt.Post == nil {
		t.Errorf("expected all for clauses, got %s", litter.Sdump(forStmt))
	}

	emptyFor := program.Stmts[9].(*ast.ForStmt)
	if emptyFor.Init != nil || emptyFor.Cond != nil || emptyFor.Post != nil {
		t.Errorf("expected no for clauses, got %s", litter.Sdump(emptyFor))
	}

	ret := program.Stmts[10].(*ast.ReturnStmt)
	if ret.Expr == nil {
		t.Errorf("expected return value")
	}

	if funcs := program.Functions(); len(funcs) != 1 || funcs[0] != fn {
		t.Errorf("Functions() = %v", funcs)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		incomplete bool
	}{
		{"missing semicolon", "int x = 5 int y;", false},
		{"break outside loop", "break;", false},
		{"continue outside loop", "if (1) { continue; }", false},
		{"break in function outside loop", "while (1) { } func f() { break; }", false},
		{"nested function", "func f() { func g() { return 1; } return 1; }", false},
		{"function inside block", "if (1) { func g() { return 1; } }", false},
		{"duplicate function", "func f() { return 1; } func f() { return 2; }", false},
		{"duplicate parameter", "func f(a, a) { return a; }", false},
		{"zero array size", "int xs[0];", false},
		{"array size not literal", "int xs[n];", false},
		{"if without braces", "if (x) x = 1;", false},
		{"while without braces", "while (x) x = 1;", false},
		{"chained assignment", "a = b = 1;", false},
		{"assign to literal", "1 = 2;", false},
		{"assign to call", "f() = 2;", false},
		{"parenthesized target", "(x) = 1;", false},
		{"parenthesized subscript target", "(xs[0]) = 1;", false},
		{"trailing comma in call", "f(1,);", false},
		{"trailing comma in params", "func f(a,) { return a; }", false},
		{"bare block", "{ x; }", false},
		{"unclosed block", "while (1) {", true},
		{"unclosed paren", "x = (1 + 2", true},
		{"dangling operator", "x = 1 +", true},
		{"missing body", "func f()", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parse(tt.input)
			if err == nil {
				t.Fatalf("expected parse error for %q", tt.input)
			}

			if !errors.Is(err, compiler_errors.ErrParse) {
				t.Fatalf("expected parse error, got %v", err)
			}

			if got := IsIncomplete(err); got != tt.incomplete {
				t.Errorf("IsIncomplete() = %v, want %v (%v)", got, tt.incomplete, err)
			}
		})
	}
}

func TestParseErrorPosition(t *testing.T) {
	_, err := parse("int x = 1;\nint y = ;")
	if err == nil {
		t.Fatal("expected error")
	}

	var e *compiler_errors.Error
	if !errors.As(err, &e) {
		t.Fatalf("expected *compiler_errors.Error, got %T", err)
	}

	if e.Line != 2 || e.Column != 9 {
		t.Errorf("got position %d:%d, want 2:9", e.Line, e.Column)
	}
	if e.Production != "expression" {
		t.Errorf("got production %q, want %q", e.Production, "expression")
	}
	if !strings.HasPrefix(err.Error(), "test.ng:2:9: ParseError:") {
		t.Errorf("unexpected message: %s", err)
	}
}
