package interpreter

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/kievzenit/nagato/internal/ast"
	"github.com/kievzenit/nagato/internal/compiler_errors"
	"github.com/kievzenit/nagato/internal/lexer"
	"github.com/kievzenit/nagato/internal/parser"
)

func parseProgram(t *testing.T, src string) *ast.Program {
	t.Helper()

	program, err := func() (program *ast.Program, err error) {
		defer compiler_errors.Recover(&err)

		eh := compiler_errors.NewErrorHandler()
		tokens := lexer.NewLexer([]byte(src), eh).Tokenize()
		return parser.NewParser("test.ng", lexer.NewTokenScanner(tokens), eh).Parse(), nil
	}()
	if err != nil {
		t.Fatalf("parse(%q): %v", src, err)
	}

	return program
}

func run(t *testing.T, src string, opts Options) (string, Result, error) {
	t.Helper()

	var out bytes.Buffer
	opts.Stdout = &out

	result, err := NewInterpreter(opts).Run(parseProgram(t, src))
	return out.String(), result, err
}

func mustRun(t *testing.T, src string) string {
	t.Helper()

	out, _, err := run(t, src, Options{})
	if err != nil {
		t.Fatalf("run(%q): unexpected error: %v", src, err)
	}
	return out
}

func lines(values ...string) string {
	if len(values) == 0 {
		return ""
	}
	return strings.Join(values, "\n") + "\n"
}

func TestPrograms(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"sum", "a = 1; b = 2; c = a + b; c;", lines("3")},
		{"integer division", "e = (1 + 1) / 2; e;", lines("1")},
		{"truncating division", "e = 7 / 2; e;", lines("3")},
		{"function call", "func add(a, b) { c = a + b; return c; } x = add(2, 3); x;", lines("5")},
		{"if else", "a = 1; b = 2; if (a < b) { c = a + b; c; } else { c = a - b; c; }", lines("3")},
		{"else branch", "a = 3; b = 2; if (a < b) { c = a + b; c; } else { c = a - b; c; }", lines("1")},
		{"for sum", "sum = 0; for (int i = 0; i < 10; i = i + 1) { sum = sum + i; } sum;", lines("45")},
		{"while countdown", "n = 3; while (n > 0) { n; n = n - 1; }", lines("3", "2", "1")},
		{"else if chain", `
x = 5;
if (x < 0) { r = 0; } else if (x < 10) { r = 1; } else { r = 2; }
r;`, lines("1")},
		{"hoisted function", "x = twice(4); x; func twice(n) { return n * 2; }", lines("8")},
		{"nested calls", "func inc(n) { return n + 1; } x = inc(inc(inc(0))); x;", lines("3")},
		{"print inside function", "func show(v) { v; return 0; } r = show(7);", lines("7")},
		{"print in loop body", "for (i = 0; i < 2; i = i + 1) { i; }", lines("0", "1")},
		{"parenthesized identifier prints", "x = 4; (x); ((x));", lines("4", "4")},
		{"float arithmetic", "f = 1.5 + 1; f;", lines("2.5")},
		{"float quarter", "f = 1.0 / 4.0; f;", lines("0.25")},
		{"float whole number", "f = 5.0 * 2; f;", lines("10.0")},
		{"promotion in comparison", "r = 1 < 1.5; r;", lines("1")},
		{"comparison results", "a = 2 == 2; b = 2 != 2; c = 3 >= 4; a; b; c;", lines("1", "0", "0")},
		{"logical not", "a = !0; b = !7; c = !0.0; a; b; c;", lines("1", "0", "1")},
		{"logical values", "a = 3 && 4; b = 0 || 0.5; a; b;", lines("1", "1")},
		{"short circuit and", "r = 0 && missing(); r;", lines("0")},
		{"short circuit or", "r = 1 || missing(); r;", lines("1")},
		{"unary minus", "a = -3; b = -a; c = - -2.5; a; b; c;", lines("-3", "3", "2.5")},
		{"int wraps", "a = 2147483647 + 1; a;", lines("-2147483648")},
		{"min int division", "a = -2147483647 - 1; b = a / -1; c = a % -1; b; c;", lines("-2147483648", "0")},
		{"typed int truncates", "int x = 2.7; x; x = -3.9; x;", lines("2", "-3")},
		{"typed float promotes", "float f = 1; f; f = 3; f;", lines("1.0", "3.0")},
		{"untyped takes value type", "a = 1; a = 2.5; a; a = 4; a;", lines("2.5", "4")},
		{"declaration default", "int x; float y; x; y;", lines("0", "0.0")},
		{"typed parameter", "func half(float v) { return v / 2; } r = half(3); r;", lines("1.5")},
		{"arrays", "int xs[3]; xs[1] = 5; xs; v = xs[1] + xs[0]; v;", lines("[0, 5, 0]", "5")},
		{"float array coerces", "float fs[2]; fs[1] = 2; fs;", lines("[0.0, 2.0]")},
		{"int array truncates", "int xs[1]; xs[0] = 9.9; xs;", lines("[9]")},
		{"float index truncates", "int xs[3]; xs[1.9] = 4; xs;", lines("[0, 4, 0]")},
		{"local array", "func f() { int a[2]; a[0] = 3; return a[0] + a[1]; } r = f(); r;", lines("3")},
		{"redeclaration rebinds", "int x = 1; float x = 2; x;", lines("2.0")},
		{"comments ignored", "# header\nx = 1; # trailing\nx;", lines("1")},
		{"empty program", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mustRun(t, tt.input); got != tt.expected {
				t.Errorf("output mismatch\n got: %q\nwant: %q", got, tt.expected)
			}
		})
	}
}

func TestFibonacci(t *testing.T) {
	const fib = `
func fib(n) {
	if (n < 2) {
		return n;
	} else {
		return fib(n - 1) + fib(n - 2);
	}
}
`
	want := []int{0, 1, 1, 2, 3, 5, 8, 13, 21, 34, 55}

	for n, expected := range want {
		src := fmt.Sprintf("%s r = fib(%d); r;", fib, n)
		if got := mustRun(t, src); got != lines(fmt.Sprint(expected)) {
			t.Errorf("fib(%d) = %q, want %d", n, got, expected)
		}
	}
}

func TestIntegerDivisionIdentity(t *testing.T) {
	operands := []int32{-7, -3, -1, 1, 2, 3, 7, 10}

	for _, a := range operands {
		for _, b := range operands {
			src := fmt.Sprintf("q = %d / %d; r = %d %% %d; same = q * %d + r == %d; q; r; same;", a, b, a, b, b, a)

			expected := lines(fmt.Sprint(a/b), fmt.Sprint(a%b), "1")
			if got := mustRun(t, src); got != expected {
				t.Errorf("%d / %d and %d %% %d: got %q, want %q", a, b, a, b, got, expected)
			}
		}
	}
}

func TestRunErrors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		sentinel error
		output   string
	}{
		{"int division by zero", "a = 5; b = 0; c = a / b;", compiler_errors.ErrDivisionByZero, ""},
		{"int modulo by zero", "a = 5 % 0;", compiler_errors.ErrDivisionByZero, ""},
		{"float division by zero", "a = 1.5 / 0;", compiler_errors.ErrDivisionByZero, ""},
		{"int by float zero", "a = 1 / 0.0;", compiler_errors.ErrDivisionByZero, ""},
		{"float modulo", "a = 5.0 % 2;", compiler_errors.ErrType, ""},
		{"float modulo by zero is a type error", "a = 5 % 0.0;", compiler_errors.ErrType, ""},
		{"aborts remaining statements", "a = 1; a; b = a / 0; a;", compiler_errors.ErrDivisionByZero, lines("1")},
		{"undefined variable", "x = y + 1;", compiler_errors.ErrRuntime, ""},
		{"undefined print", "y;", compiler_errors.ErrRuntime, ""},
		{"undefined function", "x = nope(1);", compiler_errors.ErrRuntime, ""},
		{"arity mismatch", "func f(a) { return a; } x = f(1, 2);", compiler_errors.ErrRuntime, ""},
		{"missing return", "func f(a) { a = a + 1; } x = f(1);", compiler_errors.ErrRuntime, ""},
		{"empty return in function", "func f() { return; } x = f();", compiler_errors.ErrRuntime, ""},
		{"index out of bounds", "int xs[3]; xs[3] = 1;", compiler_errors.ErrRuntime, ""},
		{"negative index", "int xs[3]; v = xs[0 - 1];", compiler_errors.ErrRuntime, ""},
		{"array as scalar", "int xs[2]; v = xs + 1;", compiler_errors.ErrType, ""},
		{"array as argument", "func f(a) { return a; } int xs[2]; v = f(xs);", compiler_errors.ErrType, ""},
		{"assign scalar to array", "int xs[2]; xs = 1;", compiler_errors.ErrType, ""},
		{"subscript scalar", "x = 1; v = x[0];", compiler_errors.ErrType, ""},
		{"undefined array", "v = xs[0];", compiler_errors.ErrRuntime, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := run(t, tt.input, Options{})
			if err == nil {
				t.Fatalf("expected error for %q", tt.input)
			}

			if !errors.Is(err, tt.sentinel) {
				t.Errorf("got %v, want %v", err, tt.sentinel)
			}

			if out != tt.output {
				t.Errorf("output mismatch\n got: %q\nwant: %q", out, tt.output)
			}
		})
	}
}

func TestErrorPosition(t *testing.T) {
	_, _, err := run(t, "a = 1;\nb = a / 0;", Options{FileName: "div.ng"})

	var e *compiler_errors.Error
	if !errors.As(err, &e) {
		t.Fatalf("expected *compiler_errors.Error, got %v", err)
	}

	if e.Kind != compiler_errors.DivisionByZeroKind || e.Line != 2 || e.Column != 7 {
		t.Errorf("got %s at %d:%d, want DivisionByZero at 2:7", e.Kind, e.Line, e.Column)
	}
	if !strings.HasPrefix(err.Error(), "div.ng:2:7: DivisionByZero:") {
		t.Errorf("unexpected message: %s", err)
	}
}

func TestScopesAreIsolated(t *testing.T) {
	t.Run("function cannot see globals", func(t *testing.T) {
		_, _, err := run(t, "g = 1; func f() { return g; } x = f();", Options{})
		if !errors.Is(err, compiler_errors.ErrRuntime) {
			t.Fatalf("expected runtime error, got %v", err)
		}
	})

	t.Run("caller cannot see locals", func(t *testing.T) {
		_, _, err := run(t, "func f(p) { local = p; return p; } x = f(1); local;", Options{})
		if !errors.Is(err, compiler_errors.ErrRuntime) {
			t.Fatalf("expected runtime error, got %v", err)
		}
	})

	t.Run("parameters shadow nothing", func(t *testing.T) {
		out := mustRun(t, "a = 10; func f(a) { a = a + 1; return a; } r = f(1); a; r;")
		if out != lines("10", "2") {
			t.Errorf("got %q", out)
		}
	})

	t.Run("frames are independent", func(t *testing.T) {
		src := `
func depth(n) {
	local = n;
	if (n > 0) {
		inner = depth(n - 1);
	}
	return local;
}
r = depth(5); r;`
		if out := mustRun(t, src); out != lines("5") {
			t.Errorf("got %q", out)
		}
	})
}

func TestControlFlowSignals(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"break stops loop", "i = 0; while (1) { if (i == 3) { break; } i = i + 1; } i;", lines("3")},
		{"continue skips rest", "s = 0; for (i = 0; i < 5; i = i + 1) { if (i % 2) { continue; } s = s + i; } s;", lines("6")},
		{"continue runs step", "n = 0; for (i = 0; i < 3; i = i + 1) { n = n + 1; continue; } n; i;", lines("3", "3")},
		{"break inner only", `
c = 0;
for (i = 0; i < 3; i = i + 1) {
	for (j = 0; j < 10; j = j + 1) {
		if (j == 2) { break; }
		c = c + 1;
	}
}
c;`, lines("6")},
		{"return through loops", `
func find(limit) {
	for (i = 0; ; i = i + 1) {
		while (1) {
			if (i * i >= limit) { return i; }
			break;
		}
	}
}
r = find(20); r;`, lines("5")},
		{"omitted for clauses", "i = 0; for (;;) { i = i + 1; if (i == 4) { break; } } i;", lines("4")},
		{"omitted init and step", "i = 0; for (; i < 3;) { i = i + 1; } i;", lines("3")},
		{"early return skips rest", "func f() { return 1; x; } r = f(); r;", lines("1")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mustRun(t, tt.input); got != tt.expected {
				t.Errorf("output mismatch\n got: %q\nwant: %q", got, tt.expected)
			}
		})
	}
}

func TestTopLevelReturn(t *testing.T) {
	out, result, err := run(t, "x = 4; x; if (x > 1) { return x * 2; } y;", Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out != lines("4") {
		t.Errorf("got output %q", out)
	}
	if !result.Returned || !result.HasValue || result.Value != IntOf(8) {
		t.Errorf("got result %+v", result)
	}

	_, result, err = run(t, "return;", Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Returned || result.HasValue {
		t.Errorf("got result %+v", result)
	}
}

func TestRecursionDepth(t *testing.T) {
	const countdown = `
func down(n) {
	if (n == 0) { return 0; }
	return down(n - 1);
}
`
	if _, _, err := run(t, countdown+"r = down(10);", Options{MaxCallDepth: 11}); err != nil {
		t.Fatalf("unexpected error within limit: %v", err)
	}

	_, _, err := run(t, countdown+"r = down(10);", Options{MaxCallDepth: 10})
	if !errors.Is(err, compiler_errors.ErrRuntime) {
		t.Fatalf("expected runtime error, got %v", err)
	}

	_, _, err = run(t, "func forever(n) { return forever(n + 1); } r = forever(0);", Options{})
	if !errors.Is(err, compiler_errors.ErrRuntime) || !strings.Contains(err.Error(), "recursion depth") {
		t.Fatalf("expected recursion depth error, got %v", err)
	}
}

func TestDeterministic(t *testing.T) {
	src := `
func fib(n) { if (n < 2) { return n; } return fib(n - 1) + fib(n - 2); }
int xs[4];
for (i = 0; i < 4; i = i + 1) { xs[i] = fib(i + 5); }
xs;
return xs[3];`

	firstOut, firstResult, err := run(t, src, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := 0; i < 3; i++ {
		out, result, err := run(t, src, Options{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out != firstOut || result != firstResult {
			t.Fatalf("run differs: %q %+v vs %q %+v", out, result, firstOut, firstResult)
		}
	}
}

func TestReassignmentInPlace(t *testing.T) {
	var out bytes.Buffer
	interp := NewInterpreter(Options{Stdout: &out})

	if _, err := interp.Run(parseProgram(t, "a = 1; a = a + 1; a = a * 10; int xs[2];")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	globals := interp.Globals()
	if len(globals) != 2 {
		t.Fatalf("expected 2 globals, got %+v", globals)
	}
	if globals[0].Name != "a" || globals[0].Value != IntOf(20) {
		t.Errorf("got %+v", globals[0])
	}
	if globals[1].Name != "xs" || globals[1].String() != "[0, 0]" {
		t.Errorf("got %+v", globals[1])
	}
}

func TestExecKeepsState(t *testing.T) {
	var out bytes.Buffer
	interp := NewInterpreter(Options{Stdout: &out})

	steps := []string{
		"x = 2;",
		"func sq(v) { return v * v; }",
		"y = sq(x); y;",
	}
	for _, step := range steps {
		if _, err := interp.Exec(parseProgram(t, step)); err != nil {
			t.Fatalf("Exec(%q): %v", step, err)
		}
	}

	if out.String() != lines("4") {
		t.Errorf("got %q", out.String())
	}

	if _, err := interp.Run(parseProgram(t, "x;")); !errors.Is(err, compiler_errors.ErrRuntime) {
		t.Errorf("Run should start from a fresh environment, got %v", err)
	}
}

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		value    float32
		expected string
	}{
		{0, "0.0"},
		{2, "2.0"},
		{0.5, "0.5"},
		{-1.25, "-1.25"},
		{0.1, "0.1"},
		{float32(math.Inf(1)), "+Inf"},
		{float32(math.Inf(-1)), "-Inf"},
	}

	for _, tt := range tests {
		if got := FloatOf(tt.value).String(); got != tt.expected {
			t.Errorf("FloatOf(%v).String() = %q, want %q", tt.value, got, tt.expected)
		}
	}
}
