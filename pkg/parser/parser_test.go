package parser

import (
	"math"
	"strings"
	"testing"

	"egg/interpreter-go/pkg/ast"
)

func TestParseApplication(t *testing.T) {
	got := mustParse(t, "+(a, 10)")
	assertNodesEqual(t, ast.Call("+", ast.ID("a"), ast.Num(10)), got)
}

func TestParseAtoms(t *testing.T) {
	cases := []struct {
		source string
		want   ast.Node
	}{
		{`"hello world"`, ast.Str("hello world")},
		{`""`, ast.Str("")},
		{"42", ast.Num(42)},
		{"007", ast.Num(7)},
		{"x", ast.ID("x")},
		{"<=>", ast.ID("<=>")},
		{"10abc", ast.ID("10abc")},
		{"10_x", ast.ID("10_x")},
		{"  spaced  ", ast.ID("spaced")},
	}
	for _, tc := range cases {
		assertNodesEqual(t, tc.want, mustParse(t, tc.source))
	}
}

func TestParseNumberTakesPriorityOverIdentifier(t *testing.T) {
	node := mustParse(t, "10")
	lit, ok := node.(*ast.Literal)
	if !ok {
		t.Fatalf("expected literal, got %T", node)
	}
	if n, ok := lit.NumberValue(); !ok || n != 10 {
		t.Fatalf("expected number 10, got %#v", lit.Value)
	}
}

func TestParseNumberFollowedByDelimiter(t *testing.T) {
	assertNodesEqual(t, ast.Call("f", ast.Num(1), ast.Num(2)), mustParse(t, "f(1,2)"))
	assertNodesEqual(t, ast.Apply(ast.Num(5)), mustParse(t, "5()"))
}

func TestParseHugeNumberSaturates(t *testing.T) {
	source := "1"
	for i := 0; i < 400; i++ {
		source += "0"
	}
	lit := mustParse(t, source).(*ast.Literal)
	if n, _ := lit.NumberValue(); !math.IsInf(n, 1) {
		t.Fatalf("expected +Inf, got %v", n)
	}
}

func TestParseChainedApplication(t *testing.T) {
	got := mustParse(t, "multiplier(2)(1)")
	want := ast.Apply(ast.Call("multiplier", ast.Num(2)), ast.Num(1))
	assertNodesEqual(t, want, got)
}

func TestParseNestedProgram(t *testing.T) {
	source := `
do(define(x, 10),
   if(>(x, 5),
      print("large"),
      print("small")))
`
	want := ast.Call("do",
		ast.Call("define", ast.ID("x"), ast.Num(10)),
		ast.Call("if",
			ast.Call(">", ast.ID("x"), ast.Num(5)),
			ast.Call("print", ast.Str("large")),
			ast.Call("print", ast.Str("small")),
		),
	)
	assertNodesEqual(t, want, mustParse(t, source))
}

func TestParseEmptyArgumentList(t *testing.T) {
	assertNodesEqual(t, ast.Call("a"), mustParse(t, "a ( )"))
}

func TestParseAcceptsTrailingComma(t *testing.T) {
	assertNodesEqual(t, ast.Call("f", ast.Num(1)), mustParse(t, "f(1,)"))
}

func TestParseSkipsComments(t *testing.T) {
	assertNodesEqual(t, ast.ID("x"), mustParse(t, "# hello\nx"))
	assertNodesEqual(t, ast.Call("a"), mustParse(t, "a # one\n   # two\n()"))
	assertNodesEqual(t, ast.Call("f", ast.Num(1)), mustParse(t, "f(1 # trailing\n) # done"))
}

func TestParseHashInsideStringIsNotComment(t *testing.T) {
	assertNodesEqual(t, ast.Str("a # b"), mustParse(t, `"a # b"`))
}

func TestParseSyntaxErrors(t *testing.T) {
	expectSyntaxError(t, "f(1, 2", "Expected ',' or ')'")
	expectSyntaxError(t, "f(1 2)", "Expected ',' or ')'")
	expectSyntaxError(t, "f(", "Unexpected syntax: ")
	expectSyntaxError(t, "", "Unexpected syntax: ")
	expectSyntaxError(t, "   # only a comment", "Unexpected syntax: ")
	expectSyntaxError(t, ")", "Unexpected syntax: )")
	expectSyntaxError(t, `"unterminated`, `Unexpected syntax: "unterminated`)
	expectSyntaxError(t, "x y", "Unexpected text after program")
	expectSyntaxError(t, "f(1))", "Unexpected text after program")
	expectSyntaxError(t, "f(,)", "Unexpected syntax: ,)")
}

func TestParseErrorCarriesLocation(t *testing.T) {
	err := expectSyntaxError(t, "do(\n  f(1 2))", "Expected ',' or ')'")
	if err.Span.Start.Line != 2 || err.Span.Start.Column != 7 {
		t.Fatalf("unexpected error location: %+v", err.Span.Start)
	}
}

func TestParseRecordsSpans(t *testing.T) {
	node := mustParse(t, "f(1,\n  \"s\")")
	app := node.(*ast.Application)
	checkSpan(t, "application", app.Span(), 1, 1, 2, 7)
	checkSpan(t, "operator", app.Operator.Span(), 1, 1, 1, 2)
	checkSpan(t, "first argument", app.Arguments[0].Span(), 1, 3, 1, 4)
	checkSpan(t, "second argument", app.Arguments[1].Span(), 2, 3, 2, 6)
}

func TestParseExpressionReturnsRest(t *testing.T) {
	node, rest, err := ParseExpression("f(1) g(2)")
	if err != nil {
		t.Fatalf("ParseExpression error: %v", err)
	}
	assertNodesEqual(t, ast.Call("f", ast.Num(1)), node)
	if rest != "g(2)" {
		t.Fatalf("expected rest %q, got %q", "g(2)", rest)
	}
}

func TestHasContent(t *testing.T) {
	if HasContent("  # comment\n\t") {
		t.Fatalf("expected comment-only text to have no content")
	}
	if !HasContent(" x") {
		t.Fatalf("expected identifier to count as content")
	}
}

func TestFormatRoundTrip(t *testing.T) {
	sources := []string{
		"+(a, 10)",
		`do(define(x, 10), if(>(x, 5), print("large"), print("small")))`,
		"multiplier(2)(1)(3)",
		"fun(a, b, +(a, b))(1, 2)",
		"do()",
		"f(1" + strings.Repeat("0", 400) + ")",
		`# comment
do(define(pow, fun(base, exp,
     if(==(exp, 0),
        1,
        *(base, pow(base, -(exp, 1)))))),
   print(pow(2, 10)))`,
	}
	for _, source := range sources {
		tree := mustParse(t, source)
		assertNodesEqual(t, tree, mustParse(t, ast.Format(tree)))
		assertNodesEqual(t, tree, mustParse(t, ast.Pretty(tree)))
	}
}
