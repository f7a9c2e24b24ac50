package driver

import (
	"errors"
	"fmt"
	"strings"

	"egg/interpreter-go/pkg/runtime"
)

// DiagnosticSeverity captures diagnostic levels.
type DiagnosticSeverity string

const (
	SeverityError   DiagnosticSeverity = "error"
	SeverityWarning DiagnosticSeverity = "warning"
)

// DiagnosticLocation references a source span for diagnostics.
type DiagnosticLocation struct {
	Path      string
	Line      int
	Column    int
	EndLine   int
	EndColumn int
}

// DiagnosticNote points at a related location, such as a call site the
// error unwound through.
type DiagnosticNote struct {
	Message  string
	Location DiagnosticLocation
}

// Diagnostic is the CLI-facing rendering of an error.
type Diagnostic struct {
	Severity DiagnosticSeverity
	Kind     string
	Message  string
	Location DiagnosticLocation
	Notes    []DiagnosticNote
}

// DiagnosticFromError converts err into a diagnostic for the program at path.
// Errors that carry no Egg kind keep an empty Kind.
func DiagnosticFromError(err error, path string) Diagnostic {
	diag := Diagnostic{Severity: SeverityError, Location: DiagnosticLocation{Path: path}}
	if err == nil {
		return diag
	}
	var langErr *runtime.Error
	if !errors.As(err, &langErr) || langErr == nil {
		diag.Message = err.Error()
		return diag
	}
	diag.Kind = string(langErr.Kind)
	diag.Message = langErr.Message
	diag.Location = locationFromSpan(path, langErr.Span)
	for _, frame := range langErr.Trace {
		loc := locationFromSpan(path, frame)
		if loc == diag.Location {
			continue
		}
		diag.Notes = append(diag.Notes, DiagnosticNote{Message: "called from here", Location: loc})
	}
	return diag
}

func locationFromSpan(path string, span runtime.Span) DiagnosticLocation {
	return DiagnosticLocation{
		Path:      path,
		Line:      span.Start.Line,
		Column:    span.Start.Column,
		EndLine:   span.End.Line,
		EndColumn: span.End.Column,
	}
}

// DescribeDiagnostic formats a diagnostic for CLI output.
func DescribeDiagnostic(diag Diagnostic) string {
	message := strings.TrimSpace(diag.Message)
	if diag.Kind != "" {
		message = diag.Kind + ": " + message
	}
	prefix := "error: "
	if diag.Severity == SeverityWarning {
		prefix = "warning: "
	}
	var b strings.Builder
	if location := formatDiagnosticLocation(diag.Location); location != "" {
		fmt.Fprintf(&b, "%s%s %s", prefix, location, message)
	} else {
		fmt.Fprintf(&b, "%s%s", prefix, message)
	}
	for _, note := range diag.Notes {
		if noteLoc := formatDiagnosticLocation(note.Location); noteLoc != "" {
			fmt.Fprintf(&b, "\nnote: %s %s", noteLoc, note.Message)
		} else {
			fmt.Fprintf(&b, "\nnote: %s", note.Message)
		}
	}
	return b.String()
}

func formatDiagnosticLocation(loc DiagnosticLocation) string {
	path := strings.TrimSpace(loc.Path)
	line := loc.Line
	column := loc.Column
	switch {
	case path != "" && line > 0 && column > 0:
		return fmt.Sprintf("%s:%d:%d", path, line, column)
	case path != "" && line > 0:
		return fmt.Sprintf("%s:%d", path, line)
	case path != "":
		return path
	case line > 0 && column > 0:
		return fmt.Sprintf("line %d, column %d", line, column)
	case line > 0:
		return fmt.Sprintf("line %d", line)
	default:
		return ""
	}
}
