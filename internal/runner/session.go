package runner

import (
	"fmt"
	"io"

	"github.com/kievzenit/nagato/internal/interpreter"
	"github.com/kievzenit/nagato/internal/parser"
)

// Session evaluates source chunks one after another against the same global
// environment. A chunk that fails leaves earlier bindings in place.
type Session struct {
	opts   Options
	interp *interpreter.Interpreter
}

func NewSession(opts Options) *Session {
	return &Session{
		opts:   opts,
		interp: interpreter.NewInterpreter(opts.interpreterOptions()),
	}
}

// Exec runs one chunk. Incomplete reports that the chunk ended in the middle
// of a construct and should be extended with more input rather than reported.
func (s *Session) Exec(source string) (result interpreter.Result, incomplete bool, err error) {
	program, err := Parse(s.opts.FileName, []byte(source))
	if err != nil {
		return interpreter.Result{}, parser.IsIncomplete(err), err
	}

	result, err = s.interp.Exec(program)
	return result, false, err
}

func (s *Session) Globals() []interpreter.Variable {
	return s.interp.Globals()
}

// WriteGlobals lists every global binding as `name = value`, one per line.
func (s *Session) WriteGlobals(w io.Writer) error {
	for _, variable := range s.Globals() {
		if _, err := fmt.Fprintf(w, "%s = %s\n", variable.Name, variable); err != nil {
			return err
		}
	}
	return nil
}
