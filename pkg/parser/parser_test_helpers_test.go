package parser

import (
	"encoding/json"
	"testing"

	"egg/interpreter-go/pkg/ast"
	"egg/interpreter-go/pkg/runtime"
)

func checkSpan(t testing.TB, label string, span ast.Span, startLine, startCol, endLine, endCol int) {
	t.Helper()
	if span.Start.Line != startLine || span.Start.Column != startCol {
		t.Fatalf("%s start span mismatch: got (%d,%d), want (%d,%d)", label, span.Start.Line, span.Start.Column, startLine, startCol)
	}
	if span.End.Line != endLine || span.End.Column != endCol {
		t.Fatalf("%s end span mismatch: got (%d,%d), want (%d,%d)", label, span.End.Line, span.End.Column, endLine, endCol)
	}
}

func assertNodesEqual(t testing.TB, expected, actual ast.Node) {
	t.Helper()
	if ast.Equal(expected, actual) {
		return
	}
	wantPretty, _ := json.MarshalIndent(expected, "", "  ")
	gotPretty, _ := json.MarshalIndent(actual, "", "  ")
	t.Fatalf("tree mismatch\nexpected: %s\n   actual: %s", wantPretty, gotPretty)
}

func mustParse(t testing.TB, source string) ast.Node {
	t.Helper()
	node, err := Parse(source)
	if err != nil {
		t.Fatalf("Parse(%q) error: %v", source, err)
	}
	return node
}

func expectSyntaxError(t testing.TB, source, message string) *runtime.Error {
	t.Helper()
	_, err := Parse(source)
	if err == nil {
		t.Fatalf("expected SyntaxError for %q", source)
	}
	langErr, ok := err.(*runtime.Error)
	if !ok {
		t.Fatalf("expected *runtime.Error for %q, got %T", source, err)
	}
	if langErr.Kind != runtime.SyntaxError {
		t.Fatalf("expected SyntaxError for %q, got %s", source, langErr.Kind)
	}
	if message != "" && langErr.Message != message {
		t.Fatalf("unexpected message for %q: got %q, want %q", source, langErr.Message, message)
	}
	return langErr
}
