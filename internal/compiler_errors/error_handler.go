package compiler_errors

import (
	"errors"
	"fmt"
	"io"
)

type CompilerError interface {
	GetMessage() string
}

type PositionedError interface {
	CompilerError
	GetFileName() string
	GetLine() int
	GetColumn() int
	GetLength() int
}

type ErrorHandler interface {
	AddError(err CompilerError)
	FailNow()
	HasErrors() bool
	Errors() []CompilerError
}

// bailout is the panic value FailNow unwinds with; Recover turns it back into an error.
type bailout struct {
	err error
}

type CompilerErrorHandler struct {
	errors []CompilerError
}

func NewErrorHandler() ErrorHandler {
	return &CompilerErrorHandler{
		errors: make([]CompilerError, 0),
	}
}

func (eh *CompilerErrorHandler) AddError(err CompilerError) {
	eh.errors = append(eh.errors, err)
}

func (eh *CompilerErrorHandler) HasErrors() bool {
	return len(eh.errors) > 0
}

func (eh *CompilerErrorHandler) Errors() []CompilerError {
	return eh.errors
}

func (eh *CompilerErrorHandler) FailNow() {
	panic(&bailout{err: eh.first()})
}

func (eh *CompilerErrorHandler) first() error {
	if len(eh.errors) == 0 {
		return errors.New("compilation aborted")
	}

	if err, ok := eh.errors[0].(error); ok {
		return err
	}

	return errors.New(eh.errors[0].GetMessage())
}

// Recover must be deferred directly. It stops a FailNow unwind and stores the
// first reported error in *errp; any other panic is re-raised.
func Recover(errp *error) {
	r := recover()
	if r == nil {
		return
	}

	b, ok := r.(*bailout)
	if !ok {
		panic(r)
	}

	*errp = b.err
}

// Report writes every collected error in the build-log format used by the CLI.
func Report(w io.Writer, errs ...error) {
	fmt.Fprintln(w, "Build failed with errors:")

	for _, err := range errs {
		fmt.Fprintf(w, "ERROR: %s\n", err)
	}
}
