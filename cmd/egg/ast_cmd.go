package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"egg/interpreter-go/pkg/ast"
	"egg/interpreter-go/pkg/driver"
	"egg/interpreter-go/pkg/parser"
)

func runAST(args []string) int {
	format := "json"
	var positional []string
	for idx := 0; idx < len(args); idx++ {
		value, skip, ok, err := takeFlagValue("--format", args[idx], args[idx+1:])
		if err != nil {
			fmt.Fprintf(os.Stderr, "egg ast: %v\n", err)
			return exitFailure
		}
		if ok {
			format = value
			idx += skip
			continue
		}
		positional = append(positional, args[idx])
	}
	if len(positional) != 1 {
		fmt.Fprintln(os.Stderr, "egg ast requires exactly one program path")
		return exitFailure
	}

	node, code := parseFile("egg ast", positional[0])
	if node == nil {
		return code
	}
	out, err := renderAST(node, format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "egg ast: %v\n", err)
		return exitFailure
	}
	fmt.Fprint(os.Stdout, out)
	return exitOK
}

func renderAST(node ast.Node, format string) (string, error) {
	switch format {
	case "json":
		data, err := json.MarshalIndent(node, "", "  ")
		if err != nil {
			return "", fmt.Errorf("encode json: %w", err)
		}
		return string(data) + "\n", nil
	case "yaml":
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(node); err != nil {
			return "", fmt.Errorf("encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return "", fmt.Errorf("encode yaml: %w", err)
		}
		return buf.String(), nil
	case "egg":
		return ast.Pretty(node) + "\n", nil
	default:
		return "", fmt.Errorf("unknown format %q (expected json, yaml, or egg)", format)
	}
}

func runFmt(args []string) int {
	write := false
	var positional []string
	for _, arg := range args {
		switch arg {
		case "-w", "--write":
			write = true
		default:
			positional = append(positional, arg)
		}
	}
	if len(positional) != 1 {
		fmt.Fprintln(os.Stderr, "egg fmt requires exactly one program path")
		return exitFailure
	}
	path := positional[0]
	if write && path == "-" {
		fmt.Fprintln(os.Stderr, "egg fmt: -w cannot rewrite stdin")
		return exitFailure
	}

	node, code := parseFile("egg fmt", path)
	if node == nil {
		return code
	}
	formatted := ast.Pretty(node) + "\n"
	if !write {
		fmt.Fprint(os.Stdout, formatted)
		return exitOK
	}
	info, err := os.Stat(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "egg fmt: %v\n", err)
		return exitHost
	}
	if err := os.WriteFile(path, []byte(formatted), info.Mode().Perm()); err != nil {
		fmt.Fprintf(os.Stderr, "egg fmt: write %s: %v\n", path, err)
		return exitHost
	}
	return exitOK
}

// parseFile reads and parses path, reporting failures. A nil node means the
// returned exit code should be used.
func parseFile(label, path string) (ast.Node, int) {
	source, err := readSource(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", label, err)
		return nil, exitHost
	}
	node, err := parser.Parse(source)
	if err != nil {
		fmt.Fprintln(os.Stderr, driver.DescribeDiagnostic(driver.DiagnosticFromError(err, displayPath(path))))
		return nil, exitFailure
	}
	return node, exitOK
}
