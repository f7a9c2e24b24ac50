package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"egg/interpreter-go/pkg/driver"
	"egg/interpreter-go/pkg/journal"
	"egg/interpreter-go/pkg/parser"
	"egg/interpreter-go/pkg/runtime"
)

func runEntry(args []string) int {
	opts, err := parseRunOptions(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "egg run: %v\n", err)
		return exitFailure
	}
	manifest, err := loadWorkspaceManifest()
	if err != nil {
		fmt.Fprintf(os.Stderr, "egg run: %v\n", err)
		return exitHost
	}

	var path string
	switch len(opts.positional) {
	case 0:
		if manifest == nil || manifest.Entry == "" {
			printUsage()
			return exitFailure
		}
		if path, err = manifest.ResolveEntry(); err != nil {
			fmt.Fprintf(os.Stderr, "egg run: %v\n", err)
			return exitFailure
		}
	case 1:
		path = opts.positional[0]
	default:
		fmt.Fprintf(os.Stderr, "egg run: expected a single program, got %s\n", strings.Join(opts.positional, " "))
		return exitFailure
	}

	source, err := readSource(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "egg run: %v\n", err)
		return exitHost
	}
	return executeProgram("egg run", source, path, opts, manifest)
}

func runEval(args []string) int {
	opts, err := parseRunOptions(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "egg eval: %v\n", err)
		return exitFailure
	}
	if len(opts.positional) == 0 {
		fmt.Fprintln(os.Stderr, "egg eval requires source text")
		return exitFailure
	}
	manifest, err := loadWorkspaceManifest()
	if err != nil {
		fmt.Fprintf(os.Stderr, "egg eval: %v\n", err)
		return exitHost
	}
	source := strings.Join(opts.positional, " ")
	return executeProgram("egg eval", source, "", opts, manifest)
}

func runCheck(args []string) int {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "egg check requires exactly one program path")
		return exitFailure
	}
	path := args[0]
	source, err := readSource(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "egg check: %v\n", err)
		return exitHost
	}
	if _, err := parser.Parse(source); err != nil {
		fmt.Fprintln(os.Stderr, driver.DescribeDiagnostic(driver.DiagnosticFromError(err, displayPath(path))))
		return exitFailure
	}
	fmt.Fprintf(os.Stdout, "%s: ok\n", displayPath(path))
	return exitOK
}

// executeProgram runs source, reports its outcome, and journals it unless
// journaling is disabled.
func executeProgram(label, source, path string, opts runOptions, manifest *driver.Manifest) int {
	interp, recorder := newInterpreter()
	started := time.Now()
	value, runErr := interp.Run(source)
	elapsed := time.Since(started)

	code := exitOK
	if runErr != nil {
		fmt.Fprintln(os.Stderr, driver.DescribeDiagnostic(driver.DiagnosticFromError(runErr, displayPath(path))))
		if _, ok := runtime.KindOf(runErr); ok {
			code = exitFailure
		} else {
			code = exitHost
		}
	} else if opts.showResult {
		fmt.Fprintln(os.Stdout, runtime.FormatValue(value))
	}

	if !opts.noJournal {
		entry := newJournalEntry(started, elapsed, path, source, recorder.lines, value, runErr)
		if err := recordRun(opts.journalPath, manifest, entry); err != nil {
			fmt.Fprintf(os.Stderr, "%s: journal: %v\n", label, err)
		}
	}
	return code
}

// newJournalEntry describes one finished run. Language errors keep their kind
// even when wrapped; host errors only carry a message.
func newJournalEntry(started time.Time, elapsed time.Duration, path, source string, output []string, value runtime.Value, runErr error) journal.Entry {
	entry := journal.Entry{
		Started:    started,
		SourcePath: path,
		Source:     source,
		Output:     output,
		Duration:   elapsed,
	}
	if runErr == nil {
		entry.Result = runtime.FormatValue(value)
		return entry
	}
	var langErr *runtime.Error
	if errors.As(runErr, &langErr) {
		entry.ErrorKind = string(langErr.Kind)
		entry.ErrorMessage = langErr.Message
	} else {
		entry.ErrorMessage = runErr.Error()
	}
	return entry
}

func recordRun(flag string, manifest *driver.Manifest, entry journal.Entry) error {
	path, err := resolveJournalPath(flag, manifest)
	if err != nil {
		return err
	}
	j, err := journal.Open(path)
	if err != nil {
		return err
	}
	defer j.Close()
	if _, err := j.Record(context.Background(), entry); err != nil {
		return fmt.Errorf("%s: %w", j.Path(), err)
	}
	return nil
}
