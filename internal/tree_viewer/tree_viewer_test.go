package tree_viewer

import (
	"strings"
	"testing"

	"github.com/kievzenit/nagato/internal/ast"
	"github.com/kievzenit/nagato/internal/compiler_errors"
	"github.com/kievzenit/nagato/internal/lexer"
	"github.com/kievzenit/nagato/internal/parser"
)

func parse(t *testing.T, src string) *ast.Program {
	t.Helper()

	program, err := func() (program *ast.Program, err error) {
		defer compiler_errors.Recover(&err)

		eh := compiler_errors.NewErrorHandler()
		tokens := lexer.NewLexer([]byte(src), eh).Tokenize()
		return parser.NewParser("test.ng", lexer.NewTokenScanner(tokens), eh).Parse(), nil
	}()
	if err != nil {
		t.Fatalf("parse(%q): unexpected error: %v", src, err)
	}
	return program
}

func TestMakeTree(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		labels    []string
		edgeCount int
	}{
		{
			"expression",
			"x = 1 + 2;",
			[]string{`"0: Program"`, `"1: Assign x"`, `"2: Binary(+)"`, `"3: Int(1)"`, `"4: Int(2)"`},
			4,
		},
		{
			"function and call",
			"func f(int a, b) { return a; } f(1, 2);",
			[]string{`"0: Program"`, `"1: Function f(int a, b)"`, `"2: Scope"`, `"3: Return"`, `"4: Ident(a)"`, `"5: Function Call [f]"`},
			7,
		},
		{
			"control flow",
			"for (;;) { break; } if (x) { x = 1; } else { y; }",
			[]string{`"1: For"`, `"3: Break"`, `"4: If"`, `"5: Ident(x)"`, `"7: Assign x"`, `"10: Ident(y)"`},
			10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tv := NewTreeViewer()
			tv.MakeTree(parse(t, tt.input))
			out := tv.String()

			if !strings.HasPrefix(strings.TrimSpace(out), "digraph") {
				t.Errorf("expected a digraph, got:\n%s", out)
			}

			for _, label := range tt.labels {
				if !strings.Contains(out, label) {
					t.Errorf("output does not contain %s:\n%s", label, out)
				}
			}

			if got := strings.Count(out, "->"); got != tt.edgeCount {
				t.Errorf("got %d edges, want %d:\n%s", got, tt.edgeCount, out)
			}
		})
	}
}

func TestMakeTreeResets(t *testing.T) {
	tv := NewTreeViewer()
	tv.MakeTree(parse(t, "x = 1; y = 2; z = 3;"))
	tv.MakeTree(parse(t, "a;"))

	out := tv.String()
	if strings.Contains(out, "Assign") {
		t.Errorf("graph kept nodes of a previous tree:\n%s", out)
	}
	if !strings.Contains(out, `"1: Ident(a)"`) {
		t.Errorf("node numbering was not reset:\n%s", out)
	}
}
