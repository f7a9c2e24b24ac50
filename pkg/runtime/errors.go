package runtime

import (
	"errors"
	"fmt"

	"egg/interpreter-go/pkg/ast"
)

// ErrorKind classifies language-level failures.
type ErrorKind string

const (
	SyntaxError    ErrorKind = "SyntaxError"
	ReferenceError ErrorKind = "ReferenceError"
	TypeError      ErrorKind = "TypeError"
	RangeError     ErrorKind = "RangeError"
)

// Error is raised by the parser and the evaluator. It is never recovered
// inside the interpreter.
type Error struct {
	Kind    ErrorKind
	Message string
	Span    ast.Span
	// Trace holds the spans of the Egg function calls the error unwound
	// through, innermost first.
	Trace []ast.Span
}

// MaxTrace bounds the number of call sites recorded in Error.Trace.
const MaxTrace = 8

// AddFrame records a call site the error propagated through.
func (e *Error) AddFrame(span Span) {
	if e == nil || span == (ast.Span{}) || len(e.Trace) >= MaxTrace {
		return
	}
	e.Trace = append(e.Trace, span)
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func NewError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Errorf(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WithSpan fills in the span when the error does not carry one yet.
func (e *Error) WithSpan(span Span) *Error {
	if e == nil || e.Span != (ast.Span{}) {
		return e
	}
	e.Span = span
	return e
}

// Span aliases ast.Span so callers need not import ast for error locations.
type Span = ast.Span

// KindOf returns the language error kind carried by err.
func KindOf(err error) (ErrorKind, bool) {
	var langErr *Error
	if errors.As(err, &langErr) && langErr != nil {
		return langErr.Kind, true
	}
	return "", false
}

// IsKind reports whether err carries the given language error kind.
func IsKind(err error, kind ErrorKind) bool {
	got, ok := KindOf(err)
	return ok && got == kind
}
