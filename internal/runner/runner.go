package runner

import (
	"fmt"
	"io"

	"github.com/kievzenit/nagato/internal/ast"
	"github.com/kievzenit/nagato/internal/compiler_errors"
	"github.com/kievzenit/nagato/internal/interpreter"
	"github.com/kievzenit/nagato/internal/lexer"
	"github.com/kievzenit/nagato/internal/parser"
)

type Options struct {
	FileName string

	Stdout       io.Writer
	MaxCallDepth int

	// Trace, when set, receives one line per pipeline stage.
	Trace io.Writer

	// Verify makes Compile check the emitted module.
	Verify bool
}

func (o Options) interpreterOptions() interpreter.Options {
	return interpreter.Options{
		Stdout:       o.Stdout,
		MaxCallDepth: o.MaxCallDepth,
		FileName:     o.FileName,
	}
}

func (o Options) tracef(format string, args ...any) {
	if o.Trace == nil {
		return
	}
	fmt.Fprintf(o.Trace, "[nagato] "+format+"\n", args...)
}

// Tokens lexes source, comments included.
func Tokens(fileName string, source []byte) (tokens []lexer.Token, err error) {
	defer func() { err = withFileName(err, fileName) }()
	defer compiler_errors.Recover(&err)

	l := lexer.NewLexer(source, compiler_errors.NewErrorHandler())
	return l.Tokenize(), nil
}

func Parse(fileName string, source []byte) (program *ast.Program, err error) {
	defer func() { err = withFileName(err, fileName) }()
	defer compiler_errors.Recover(&err)

	eh := compiler_errors.NewErrorHandler()
	tokens := lexer.NewLexer(source, eh).Tokenize()
	p := parser.NewParser(fileName, lexer.NewTokenScanner(tokens), eh)

	return p.Parse(), nil
}

// Run lexes, parses and evaluates source in a fresh environment.
func Run(source []byte, opts Options) (interpreter.Result, error) {
	opts.tracef("parsing %s (%d bytes)", displayName(opts.FileName), len(source))

	program, err := Parse(opts.FileName, source)
	if err != nil {
		return interpreter.Result{}, err
	}

	opts.tracef("parsed %d top-level statements, %d functions", len(program.Stmts), len(program.Functions()))

	result, err := interpreter.NewInterpreter(opts.interpreterOptions()).Run(program)
	if err != nil {
		return interpreter.Result{}, err
	}

	if result.Returned {
		opts.tracef("program returned %s", describe(result))
	} else {
		opts.tracef("program finished")
	}

	return result, nil
}

func describe(result interpreter.Result) string {
	if !result.HasValue {
		return "no value"
	}
	return result.Value.String()
}

func displayName(fileName string) string {
	if fileName == "" {
		return "<input>"
	}
	return fileName
}

func withFileName(err error, fileName string) error {
	if err == nil || fileName == "" {
		return err
	}
	return compiler_errors.WithFileName(err, fileName)
}
