package runner

import (
	"fmt"

	"github.com/kievzenit/nagato/internal/ast"
	"github.com/kievzenit/nagato/internal/compiler_errors"
	"github.com/kievzenit/nagato/internal/emitter"
	"github.com/kievzenit/nagato/internal/hir"
	"github.com/kievzenit/nagato/internal/semantic_analyzer"
	"github.com/kievzenit/nagato/internal/tree_viewer"
)

func Analyze(fileName string, program *ast.Program) (fileHir *hir.FileHir, err error) {
	defer func() { err = withFileName(err, fileName) }()
	defer compiler_errors.Recover(&err)

	eh := compiler_errors.NewErrorHandler()
	return semantic_analyzer.NewSemanticAnalyzer(fileName, eh, program).Analyze(), nil
}

// Compile type-checks source and lowers it to textual LLVM IR whose main runs
// the top-level code.
func Compile(source []byte, opts Options) (string, error) {
	opts.tracef("parsing %s (%d bytes)", displayName(opts.FileName), len(source))

	program, err := Parse(opts.FileName, source)
	if err != nil {
		return "", err
	}

	fileHir, err := Analyze(opts.FileName, program)
	if err != nil {
		return "", err
	}

	opts.tracef("typed %d globals, %d function specializations", len(fileHir.Globals), len(fileHir.FuncDecls))

	e := emitter.NewEmitter(fileHir, emitter.Options{MaxCallDepth: opts.MaxCallDepth})
	defer e.Dispose()

	module := e.Emit()
	if opts.Verify {
		if err := e.Verify(); err != nil {
			return "", fmt.Errorf("invalid module: %w", err)
		}
		opts.tracef("module verified")
	}

	return module.String(), nil
}

// Graph renders the syntax tree of source in Graphviz DOT.
func Graph(fileName string, source []byte) (string, error) {
	program, err := Parse(fileName, source)
	if err != nil {
		return "", err
	}

	tv := tree_viewer.NewTreeViewer()
	tv.MakeTree(program)
	return tv.String(), nil
}
