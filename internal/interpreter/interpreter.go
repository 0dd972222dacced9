package interpreter

import (
	"fmt"
	"io"
	"os"

	"github.com/kievzenit/nagato/internal/ast"
	"github.com/kievzenit/nagato/internal/compiler_errors"
	"github.com/kievzenit/nagato/internal/lexer"
)

const DefaultMaxCallDepth = 1000

type Options struct {
	// Stdout receives one line per bare-identifier statement. Defaults to os.Stdout.
	Stdout io.Writer

	// MaxCallDepth bounds the number of active calls. Zero means DefaultMaxCallDepth.
	MaxCallDepth int

	FileName string
}

// Result describes how a program finished. Returned is set when a top-level
// return stopped it; HasValue when that return carried an expression.
type Result struct {
	Returned bool
	HasValue bool
	Value    Value
}

type Interpreter struct {
	opts Options

	global *Environment
	depth  int
}

func NewInterpreter(opts Options) *Interpreter {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.MaxCallDepth <= 0 {
		opts.MaxCallDepth = DefaultMaxCallDepth
	}

	return &Interpreter{
		opts:   opts,
		global: NewGlobalEnvironment(),
	}
}

// Run executes program against a fresh global environment.
func (i *Interpreter) Run(program *ast.Program) (Result, error) {
	i.global = NewGlobalEnvironment()
	return i.Exec(program)
}

// Exec executes program against the current global environment, keeping
// variables and functions from earlier calls. Functions are registered
// before any statement runs.
func (i *Interpreter) Exec(program *ast.Program) (Result, error) {
	i.depth = 0

	for _, fn := range program.Functions() {
		i.global.DefineFunction(fn)
	}

	for _, stmt := range program.Stmts {
		if _, ok := stmt.(*ast.FuncDeclStmt); ok {
			continue
		}

		sig, err := i.execStmt(i.global, stmt)
		if err != nil {
			return Result{}, err
		}

		if sig.Kind == Return {
			return Result{
				Returned: true,
				HasValue: sig.HasValue,
				Value:    sig.Value,
			}, nil
		}
	}

	return Result{}, nil
}

// Globals returns a snapshot of the global variables sorted by name.
func (i *Interpreter) Globals() []Variable {
	return i.global.Variables()
}

func (i *Interpreter) print(text string) {
	fmt.Fprintln(i.opts.Stdout, text)
}

func (i *Interpreter) errorf(kind compiler_errors.Kind, token *lexer.Token, format string, args ...any) error {
	err := compiler_errors.New(kind, 0, 0, format, args...)
	err.FileName = i.opts.FileName

	if token != nil {
		err.Line = token.Metadata.Line
		err.Column = token.Metadata.Column
		err.Length = token.Metadata.Length
	}

	return err
}
