package main

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
)

func callTool(t *testing.T, handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]any) (string, bool) {
	t.Helper()
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	result, err := handler(context.Background(), req)
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if len(result.Content) != 1 {
		t.Fatalf("expected one content item, got %d", len(result.Content))
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected text content, got %T", result.Content[0])
	}
	return text.Text, result.IsError
}

func TestMCPEvalReturnsOutputAndValue(t *testing.T) {
	text, isErr := callTool(t, handleEggEval, map[string]any{
		"source": `do(print("a"), print("b"), *(6, 7))`,
	})
	if isErr {
		t.Fatalf("unexpected tool error %q", text)
	}
	if text != "a\nb\n=> 42" {
		t.Fatalf("unexpected eval text %q", text)
	}
}

func TestMCPEvalReportsLanguageErrors(t *testing.T) {
	text, isErr := callTool(t, handleEggEval, map[string]any{"source": "do(print(1), nope)"})
	if !isErr {
		t.Fatalf("expected tool error, got %q", text)
	}
	if !strings.HasPrefix(text, "1\n") || !strings.Contains(text, "ReferenceError: Undefined binding: nope") {
		t.Fatalf("unexpected error text %q", text)
	}
}

func TestMCPEvalRequiresSource(t *testing.T) {
	_, isErr := callTool(t, handleEggEval, map[string]any{})
	if !isErr {
		t.Fatalf("expected missing source to be a tool error")
	}
}

func TestMCPParseFormats(t *testing.T) {
	text, isErr := callTool(t, handleEggParse, map[string]any{"source": "f(1)"})
	if isErr || !strings.Contains(text, `"type": "Application"`) {
		t.Fatalf("unexpected json parse result %q (error=%v)", text, isErr)
	}
	text, isErr = callTool(t, handleEggParse, map[string]any{"source": "f(1)", "format": "yaml"})
	if isErr || !strings.Contains(text, "type: Application") {
		t.Fatalf("unexpected yaml parse result %q (error=%v)", text, isErr)
	}
	text, isErr = callTool(t, handleEggParse, map[string]any{"source": "f(1)", "format": "egg"})
	if !isErr || !strings.Contains(text, "unknown format") {
		t.Fatalf("expected unknown format error, got %q", text)
	}
	text, isErr = callTool(t, handleEggParse, map[string]any{"source": "f(1"})
	if !isErr || !strings.Contains(text, "SyntaxError") {
		t.Fatalf("expected syntax error, got %q", text)
	}
}

func TestMCPFormat(t *testing.T) {
	text, isErr := callTool(t, handleEggFormat, map[string]any{"source": "+( 1 ,2 )"})
	if isErr || text != "+(1, 2)" {
		t.Fatalf("unexpected formatted text %q (error=%v)", text, isErr)
	}
}

func TestNewMCPServerBuilds(t *testing.T) {
	if newMCPServer() == nil {
		t.Fatalf("expected server")
	}
}

func TestMCPEvalContainsRunawayRecursion(t *testing.T) {
	text, isErr := callTool(t, handleEggEval, map[string]any{"source": "do(define(f, fun(f())), f())"})
	if !isErr || !strings.Contains(text, "RangeError: Maximum call depth exceeded") {
		t.Fatalf("expected RangeError tool result, got %q (error=%v)", text, isErr)
	}
}
