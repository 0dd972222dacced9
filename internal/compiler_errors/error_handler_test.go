package compiler_errors

import (
	"bytes"
	"errors"
	"testing"
)

type messageOnly string

func (m messageOnly) GetMessage() string { return string(m) }

func failWith(eh ErrorHandler, errs ...CompilerError) (err error) {
	defer Recover(&err)

	for _, e := range errs {
		eh.AddError(e)
	}
	eh.FailNow()
	return nil
}

func TestErrorHandlerCollects(t *testing.T) {
	eh := NewErrorHandler()
	if eh.HasErrors() {
		t.Fatalf("new handler reports errors")
	}

	first := New(ParseKind, 3, 7, "unexpected '%s'", ")")
	second := New(TypeKind, 4, 1, "bad operand")
	err := failWith(eh, first, second)

	if !eh.HasErrors() || len(eh.Errors()) != 2 {
		t.Fatalf("expected 2 collected errors, got %d", len(eh.Errors()))
	}
	if err != first {
		t.Errorf("FailNow unwound with %v, want the first error", err)
	}
	if !errors.Is(err, ErrParse) || errors.Is(err, ErrType) {
		t.Errorf("error %v does not match its kind", err)
	}
	if err.Error() != "3:7: ParseError: unexpected ')'" {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestErrorHandlerPlainMessage(t *testing.T) {
	err := failWith(NewErrorHandler(), messageOnly("stopped"))
	if err == nil || err.Error() != "stopped" {
		t.Errorf("got %v, want \"stopped\"", err)
	}

	if err := failWith(NewErrorHandler()); err == nil {
		t.Errorf("FailNow without errors returned nil")
	}
}

func TestRecoverRepanics(t *testing.T) {
	defer func() {
		if r := recover(); r != "boom" {
			t.Errorf("recovered %v, want boom", r)
		}
	}()

	func() (err error) {
		defer Recover(&err)
		panic("boom")
	}()
}

func TestReport(t *testing.T) {
	var out bytes.Buffer
	Report(&out, WithFileName(New(RuntimeKind, 1, 2, "undefined variable 'x'"), "a.ng"))

	want := "Build failed with errors:\nERROR: a.ng:1:2: RuntimeError: undefined variable 'x'\n"
	if out.String() != want {
		t.Errorf("got %q, want %q", out.String(), want)
	}
}
