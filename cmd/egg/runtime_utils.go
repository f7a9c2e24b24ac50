package main

import (
	"fmt"
	"io"
	"os"

	"egg/interpreter-go/pkg/interpreter"
	"egg/interpreter-go/pkg/runtime"
)

// outputRecorder mirrors print output to stdout and keeps it for the journal.
type outputRecorder struct {
	lines []string
}

func (r *outputRecorder) print(val runtime.Value) error {
	line := runtime.FormatValue(val)
	r.lines = append(r.lines, line)
	_, err := fmt.Fprintln(os.Stdout, line)
	return err
}

func newInterpreter() (*interpreter.Interpreter, *outputRecorder) {
	recorder := &outputRecorder{}
	return interpreter.New(interpreter.WithPrinter(recorder.print)), recorder
}

func readSource(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

func displayPath(path string) string {
	if path == "-" {
		return "<stdin>"
	}
	return path
}
