package interpreter

import (
	"strings"
	"testing"

	"egg/interpreter-go/pkg/runtime"
)

type capturePrinter struct {
	lines []string
}

func (c *capturePrinter) print(val runtime.Value) error {
	c.lines = append(c.lines, runtime.FormatValue(val))
	return nil
}

func newCapturingInterpreter() (*Interpreter, *capturePrinter) {
	out := &capturePrinter{}
	return New(WithPrinter(out.print)), out
}

func mustRun(t *testing.T, source string) runtime.Value {
	t.Helper()
	interp, _ := newCapturingInterpreter()
	val, err := interp.Run(source)
	if err != nil {
		t.Fatalf("run %q: unexpected error: %v", source, err)
	}
	return val
}

func expectNumber(t *testing.T, val runtime.Value, want float64) {
	t.Helper()
	num, ok := val.(runtime.NumberValue)
	if !ok {
		t.Fatalf("expected number %v, got %#v", want, val)
	}
	if num.Val != want {
		t.Fatalf("expected %v, got %v", want, num.Val)
	}
}

func expectString(t *testing.T, val runtime.Value, want string) {
	t.Helper()
	str, ok := val.(runtime.StringValue)
	if !ok {
		t.Fatalf("expected string %q, got %#v", want, val)
	}
	if str.Val != want {
		t.Fatalf("expected %q, got %q", want, str.Val)
	}
}

func expectBool(t *testing.T, val runtime.Value, want bool) {
	t.Helper()
	b, ok := val.(runtime.BoolValue)
	if !ok {
		t.Fatalf("expected bool %v, got %#v", want, val)
	}
	if b.Val != want {
		t.Fatalf("expected %v, got %v", want, b.Val)
	}
}

func expectRunError(t *testing.T, source string, kind runtime.ErrorKind, message string) *runtime.Error {
	t.Helper()
	interp, _ := newCapturingInterpreter()
	_, err := interp.Run(source)
	if err == nil {
		t.Fatalf("run %q: expected %s, got nil", source, kind)
	}
	langErr, ok := err.(*runtime.Error)
	if !ok {
		t.Fatalf("run %q: expected *runtime.Error, got %T (%v)", source, err, err)
	}
	if langErr.Kind != kind {
		t.Fatalf("run %q: expected kind %s, got %s (%v)", source, kind, langErr.Kind, err)
	}
	if !strings.Contains(langErr.Message, message) {
		t.Fatalf("run %q: expected message containing %q, got %q", source, message, langErr.Message)
	}
	return langErr
}
