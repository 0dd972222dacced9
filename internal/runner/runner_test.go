package runner

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/kievzenit/nagato/internal/compiler_errors"
	"github.com/kievzenit/nagato/internal/interpreter"
	"github.com/kievzenit/nagato/internal/lexer"
)

func TestRun(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		kind     compiler_errors.Kind
		fails    bool
	}{
		{name: "prints", input: "a = 1; b = 2; c = a + b; c;", expected: "3\n"},
		{name: "lex error", input: "a = 1 @ 2;", kind: compiler_errors.LexKind, fails: true},
		{name: "parse error", input: "a = ;", kind: compiler_errors.ParseKind, fails: true},
		{name: "runtime error", input: "a = b;", kind: compiler_errors.RuntimeKind, fails: true},
		{name: "type error", input: "a = 1.5 % 2;", kind: compiler_errors.TypeKind, fails: true},
		{name: "division by zero", input: "a = 5; b = 0; c = a / b;", kind: compiler_errors.DivisionByZeroKind, fails: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			_, err := Run([]byte(tt.input), Options{FileName: "prog.ng", Stdout: &out})

			if !tt.fails {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if out.String() != tt.expected {
					t.Errorf("got %q, want %q", out.String(), tt.expected)
				}
				return
			}

			kind, ok := compiler_errors.KindOf(err)
			if !ok || kind != tt.kind {
				t.Fatalf("got %v, want %s", err, tt.kind)
			}
			if !strings.HasPrefix(err.Error(), "prog.ng:") {
				t.Errorf("error is missing file name: %s", err)
			}
			if out.Len() != 0 {
				t.Errorf("expected no output, got %q", out.String())
			}
		})
	}
}

func TestRunFinalValue(t *testing.T) {
	result, err := Run([]byte("x = 20; return x + 1;"), Options{Stdout: &bytes.Buffer{}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !result.Returned || result.Value != interpreter.IntOf(21) {
		t.Errorf("got %+v", result)
	}
}

func TestRunTrace(t *testing.T) {
	var trace bytes.Buffer
	_, err := Run([]byte("func f() { return 1; } return f();"), Options{Stdout: &bytes.Buffer{}, Trace: &trace})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{"parsing <input>", "1 functions", "program returned 1"} {
		if !strings.Contains(trace.String(), want) {
			t.Errorf("trace %q does not contain %q", trace.String(), want)
		}
	}
}

func TestRunMaxCallDepth(t *testing.T) {
	src := []byte("func f(n) { if (n == 0) { return 0; } return f(n - 1); } r = f(50);")

	if _, err := Run(src, Options{Stdout: &bytes.Buffer{}, MaxCallDepth: 100}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := Run(src, Options{Stdout: &bytes.Buffer{}, MaxCallDepth: 20})
	if !errors.Is(err, compiler_errors.ErrRuntime) {
		t.Fatalf("expected runtime error, got %v", err)
	}
}

func TestTokens(t *testing.T) {
	tokens, err := Tokens("t.ng", []byte("x = 1; # note"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(tokens) != 6 || tokens[4].Kind != lexer.COMMENT || tokens[5].Kind != lexer.EOF {
		t.Errorf("unexpected tokens: %v", tokens)
	}

	_, err = Tokens("t.ng", []byte("x = $;"))
	if !errors.Is(err, compiler_errors.ErrLex) || !strings.HasPrefix(err.Error(), "t.ng:1:5:") {
		t.Errorf("got %v", err)
	}
}

func TestSession(t *testing.T) {
	var out bytes.Buffer
	s := NewSession(Options{Stdout: &out})

	if _, _, err := s.Exec("x = 3;"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, incomplete, err := s.Exec("func sq(v) {")
	if err == nil || !incomplete {
		t.Fatalf("expected incomplete input, got %v (incomplete=%v)", err, incomplete)
	}

	if _, incomplete, err := s.Exec("func sq(v) {\n return v * v;\n}\ny = sq(x); y;"); err != nil || incomplete {
		t.Fatalf("unexpected error: %v", err)
	}

	_, incomplete, err = s.Exec("z = 1 / 0;")
	if incomplete || !errors.Is(err, compiler_errors.ErrDivisionByZero) {
		t.Fatalf("got %v (incomplete=%v)", err, incomplete)
	}

	_, incomplete, err = s.Exec("z = ;")
	if incomplete || !errors.Is(err, compiler_errors.ErrParse) {
		t.Fatalf("got %v (incomplete=%v)", err, incomplete)
	}

	if out.String() != "9\n" {
		t.Errorf("got output %q", out.String())
	}

	globals := s.Globals()
	if len(globals) != 2 || globals[0].Name != "x" || globals[1].Name != "y" {
		t.Errorf("unexpected globals: %+v", globals)
	}
}

func TestSessionWriteGlobals(t *testing.T) {
	s := NewSession(Options{Stdout: io.Discard})
	if _, _, err := s.Exec("beta = 2.5; alpha = 1; int xs[2]; xs[1] = 7;"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var out bytes.Buffer
	if err := s.WriteGlobals(&out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "alpha = 1\nbeta = 2.5\nxs = [0, 7]\n"
	if out.String() != want {
		t.Errorf("got listing %q, want %q", out.String(), want)
	}
}
