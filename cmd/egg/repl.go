package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"egg/interpreter-go/pkg/driver"
	"egg/interpreter-go/pkg/interpreter"
	"egg/interpreter-go/pkg/parser"
	"egg/interpreter-go/pkg/runtime"
)

const (
	replPrompt         = "egg> "
	replContinuePrompt = "...  "
)

func runRepl(args []string) int {
	if len(args) > 0 {
		fmt.Fprintf(os.Stderr, "egg repl does not take arguments (received %s)\n", strings.Join(args, " "))
		return exitFailure
	}
	return replLoop(os.Stdin, os.Stdout, os.Stderr)
}

// replLoop evaluates expressions read from in. Bindings persist for the
// session; a line may hold several expressions, and an unfinished expression
// continues on the next line.
func replLoop(in io.Reader, out, errOut io.Writer) int {
	interp := interpreter.New(interpreter.WithOutput(out))
	env := interp.NewRunEnvironment()

	scanner := bufio.NewScanner(in)
	var pending string
	fmt.Fprint(out, replPrompt)
	for scanner.Scan() {
		line := scanner.Text()
		if pending == "" {
			switch strings.TrimSpace(line) {
			case ":quit", ":exit":
				return exitOK
			case ":reset":
				env = interp.NewRunEnvironment()
				fmt.Fprint(out, replPrompt)
				continue
			case ":env":
				describeReplEnvironment(out, interp, env)
				fmt.Fprint(out, replPrompt)
				continue
			}
			if path, ok := strings.CutPrefix(strings.TrimSpace(line), ":load "); ok {
				loadReplFile(interp, env, strings.TrimSpace(path), out, errOut)
				fmt.Fprint(out, replPrompt)
				continue
			}
		}
		pending += line + "\n"
		pending = evaluatePending(interp, env, pending, out, errOut)
		if pending != "" {
			fmt.Fprint(out, replContinuePrompt)
		} else {
			fmt.Fprint(out, replPrompt)
		}
	}
	fmt.Fprintln(out)
	if err := scanner.Err(); err != nil {
		fmt.Fprintf(errOut, "egg repl: %v\n", err)
		return exitHost
	}
	if parser.HasContent(pending) {
		_, _, err := parser.ParseExpression(pending)
		reportReplError(errOut, err)
		return exitFailure
	}
	return exitOK
}

// evaluatePending runs every complete expression in text and returns the
// unfinished remainder, or "" when nothing is left to continue.
func evaluatePending(interp *interpreter.Interpreter, env *runtime.Environment, text string, out, errOut io.Writer) string {
	for parser.HasContent(text) {
		node, rest, err := parser.ParseExpression(text)
		if err != nil {
			if incompleteInput(err, text) {
				return text
			}
			reportReplError(errOut, err)
			return ""
		}
		value, err := interp.Evaluate(node, env)
		if err != nil {
			reportReplError(errOut, err)
			return ""
		}
		fmt.Fprintf(out, "=> %s\n", runtime.FormatValue(value))
		text = rest
	}
	return ""
}

// incompleteInput reports whether a syntax error was raised at the very end of
// text, meaning more input could complete the expression.
func incompleteInput(err error, text string) bool {
	if !runtime.IsKind(err, runtime.SyntaxError) {
		return false
	}
	var langErr *runtime.Error
	errors.As(err, &langErr)
	return langErr.Span.Start.Offset >= len(text)
}

// loadReplFile evaluates a whole program file in the session environment so
// its definitions stay available.
func loadReplFile(interp *interpreter.Interpreter, env *runtime.Environment, path string, out, errOut io.Writer) {
	source, err := readSource(path)
	if err != nil {
		fmt.Fprintf(errOut, "egg repl: %v\n", err)
		return
	}
	value, err := interp.EvaluateSource(source, env)
	if err != nil {
		fmt.Fprintln(errOut, driver.DescribeDiagnostic(driver.DiagnosticFromError(err, displayPath(path))))
		return
	}
	fmt.Fprintf(out, "=> %s\n", runtime.FormatValue(value))
}

func describeReplEnvironment(out io.Writer, interp *interpreter.Interpreter, env *runtime.Environment) {
	fmt.Fprintf(out, "special forms: %s\n", strings.Join(interp.SpecialFormNames(), " "))
	fmt.Fprintf(out, "builtins: %s\n", strings.Join(interp.GlobalEnvironment().Keys(), " "))
	session := env.Keys()
	if len(session) == 0 {
		fmt.Fprintln(out, "session: (empty)")
		return
	}
	fmt.Fprintf(out, "session: %s\n", strings.Join(session, " "))
}

func reportReplError(w io.Writer, err error) {
	if err == nil {
		return
	}
	fmt.Fprintln(w, driver.DescribeDiagnostic(driver.DiagnosticFromError(err, "")))
}
