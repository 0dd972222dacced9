package compiler_errors

import (
	"errors"
	"fmt"
)

var (
	// ErrLex indicates an unrecognized character or malformed literal.
	ErrLex = errors.New("lex error")

	// ErrParse indicates a grammar violation.
	ErrParse = errors.New("parse error")

	// ErrRuntime indicates an undefined name, a bad index, a missing return or
	// an exhausted call depth.
	ErrRuntime = errors.New("runtime error")

	// ErrType indicates an operator applied to operands it does not accept.
	ErrType = errors.New("type error")

	// ErrDivisionByZero indicates a division or modulo by zero.
	ErrDivisionByZero = errors.New("division by zero")

	// ErrSemantic indicates a program the native backend cannot type statically.
	ErrSemantic = errors.New("semantic error")
)

type Kind int

const (
	LexKind Kind = iota
	ParseKind
	RuntimeKind
	TypeKind
	DivisionByZeroKind
	SemanticKind
)

func (k Kind) String() string {
	switch k {
	case LexKind:
		return "LexError"
	case ParseKind:
		return "ParseError"
	case RuntimeKind:
		return "RuntimeError"
	case TypeKind:
		return "TypeError"
	case DivisionByZeroKind:
		return "DivisionByZero"
	case SemanticKind:
		return "SemanticError"
	default:
		panic(fmt.Sprintf("Kind.String(): received illegal error kind: %d", k))
	}
}

func (k Kind) sentinel() error {
	switch k {
	case LexKind:
		return ErrLex
	case ParseKind:
		return ErrParse
	case RuntimeKind:
		return ErrRuntime
	case TypeKind:
		return ErrType
	case DivisionByZeroKind:
		return ErrDivisionByZero
	case SemanticKind:
		return ErrSemantic
	}
	return nil
}

// Error is the single concrete error type produced by every pipeline stage.
// Line and Column are 1-based; zero means the position is unknown.
type Error struct {
	Kind    Kind
	Message string

	// Production names the grammar rule being parsed, parse errors only.
	Production string
	// Incomplete is set when the input ended before the production was finished.
	Incomplete bool

	FileName string
	Line     int
	Column   int
	Length   int
}

func New(kind Kind, line, column int, format string, args ...any) *Error {
	return &Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Line:    line,
		Column:  column,
	}
}

func (e *Error) GetMessage() string  { return e.Message }
func (e *Error) GetFileName() string { return e.FileName }
func (e *Error) GetLine() int        { return e.Line }
func (e *Error) GetColumn() int      { return e.Column }
func (e *Error) GetLength() int      { return e.Length }

func (e *Error) Error() string {
	msg := e.Message
	if e.Production != "" {
		msg = fmt.Sprintf("%s (in %s)", msg, e.Production)
	}

	switch {
	case e.Line > 0 && e.FileName != "":
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.FileName, e.Line, e.Column, e.Kind, msg)
	case e.Line > 0:
		return fmt.Sprintf("%d:%d: %s: %s", e.Line, e.Column, e.Kind, msg)
	default:
		return fmt.Sprintf("%s: %s", e.Kind, msg)
	}
}

func (e *Error) Unwrap() error {
	return e.Kind.sentinel()
}

// KindOf reports the kind of err, or false when err did not come from the pipeline.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// WithFileName stamps fileName on err when it is a pipeline error without one.
func WithFileName(err error, fileName string) error {
	var e *Error
	if errors.As(err, &e) && e.FileName == "" {
		e.FileName = fileName
	}
	return err
}
