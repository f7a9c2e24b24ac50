package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"egg/interpreter-go/pkg/ast"
	"egg/interpreter-go/pkg/driver"
	"egg/interpreter-go/pkg/interpreter"
	"egg/interpreter-go/pkg/parser"
	"egg/interpreter-go/pkg/runtime"
)

func runMCP(args []string) int {
	if len(args) > 0 {
		fmt.Fprintf(os.Stderr, "egg mcp does not take arguments (received %s)\n", strings.Join(args, " "))
		return exitFailure
	}
	log.SetOutput(os.Stderr)
	log.Printf("egg mcp: serving %s over stdio", cliToolVersion)
	if err := server.ServeStdio(newMCPServer()); err != nil {
		log.Printf("egg mcp: %v", err)
		return exitHost
	}
	return exitOK
}

func newMCPServer() *server.MCPServer {
	s := server.NewMCPServer(
		"egg",
		cliToolVersion,
		server.WithToolCapabilities(false),
	)

	s.AddTool(
		mcp.NewTool("egg_eval",
			mcp.WithDescription("Run an Egg program in a fresh interpreter. Returns printed lines followed by the result value."),
			mcp.WithString("source",
				mcp.Required(),
				mcp.Description("Egg program text, e.g. do(define(x, 2), *(x, 21))"),
			),
		),
		handleEggEval,
	)

	s.AddTool(
		mcp.NewTool("egg_parse",
			mcp.WithDescription("Parse an Egg program and return its syntax tree."),
			mcp.WithString("source",
				mcp.Required(),
				mcp.Description("Egg program text"),
			),
			mcp.WithString("format",
				mcp.Description("Tree encoding: json (default) or yaml"),
			),
		),
		handleEggParse,
	)

	s.AddTool(
		mcp.NewTool("egg_format",
			mcp.WithDescription("Pretty-print an Egg program in canonical layout."),
			mcp.WithString("source",
				mcp.Required(),
				mcp.Description("Egg program text"),
			),
		),
		handleEggFormat,
	)

	return s
}

func handleEggEval(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	source, err := request.RequireString("source")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	var lines []string
	interp := interpreter.New(interpreter.WithPrinter(func(val runtime.Value) error {
		lines = append(lines, runtime.FormatValue(val))
		return nil
	}))
	value, err := interp.Run(source)
	if err != nil {
		lines = append(lines, driver.DescribeDiagnostic(driver.DiagnosticFromError(err, "")))
		return mcp.NewToolResultError(strings.Join(lines, "\n")), nil
	}
	lines = append(lines, "=> "+runtime.FormatValue(value))
	return mcp.NewToolResultText(strings.Join(lines, "\n")), nil
}

func handleEggParse(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	node, errResult := parseToolSource(request)
	if errResult != nil {
		return errResult, nil
	}
	format := request.GetString("format", "json")
	if format != "json" && format != "yaml" {
		return mcp.NewToolResultError(fmt.Sprintf("unknown format %q (expected json or yaml)", format)), nil
	}
	out, err := renderAST(node, format)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(out), nil
}

func handleEggFormat(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	node, errResult := parseToolSource(request)
	if errResult != nil {
		return errResult, nil
	}
	return mcp.NewToolResultText(ast.Pretty(node)), nil
}

func parseToolSource(request mcp.CallToolRequest) (ast.Node, *mcp.CallToolResult) {
	source, err := request.RequireString("source")
	if err != nil {
		return nil, mcp.NewToolResultError(err.Error())
	}
	node, err := parser.Parse(source)
	if err != nil {
		return nil, mcp.NewToolResultError(driver.DescribeDiagnostic(driver.DiagnosticFromError(err, "")))
	}
	return node, nil
}
