package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"egg/interpreter-go/pkg/journal"
)

const defaultHistoryLimit = 20

func runHistory(args []string) int {
	limit := defaultHistoryLimit
	var journalFlag string
	for idx := 0; idx < len(args); idx++ {
		arg := args[idx]
		if value, skip, ok, err := takeFlagValue("--limit", arg, args[idx+1:]); ok {
			if err == nil {
				limit, err = parseLimit(value)
			}
			if err != nil {
				fmt.Fprintf(os.Stderr, "egg history: %v\n", err)
				return exitFailure
			}
			idx += skip
			continue
		}
		if value, skip, ok, err := takeFlagValue("--journal", arg, args[idx+1:]); ok {
			if err != nil {
				fmt.Fprintf(os.Stderr, "egg history: %v\n", err)
				return exitFailure
			}
			journalFlag = value
			idx += skip
			continue
		}
		fmt.Fprintf(os.Stderr, "egg history: unexpected argument %s\n", arg)
		return exitFailure
	}

	manifest, err := loadWorkspaceManifest()
	if err != nil {
		fmt.Fprintf(os.Stderr, "egg history: %v\n", err)
		return exitHost
	}
	path, err := resolveJournalPath(journalFlag, manifest)
	if err != nil {
		fmt.Fprintf(os.Stderr, "egg history: %v\n", err)
		return exitHost
	}
	if _, err := os.Stat(path); err != nil {
		fmt.Fprintf(os.Stdout, "egg history: no runs recorded (%s)\n", path)
		return exitOK
	}

	j, err := journal.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "egg history: %v\n", err)
		return exitHost
	}
	defer j.Close()

	entries, err := j.Recent(context.Background(), limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "egg history: %v\n", err)
		return exitHost
	}
	for _, entry := range entries {
		fmt.Fprintln(os.Stdout, formatHistoryEntry(entry))
	}
	return exitOK
}

func formatHistoryEntry(entry journal.Entry) string {
	source := entry.SourcePath
	if source == "" {
		source = summarizeSource(entry.Source)
	}
	outcome := "=> " + entry.Result
	if entry.Failed() {
		outcome = "!! " + entry.ErrorMessage
		if entry.ErrorKind != "" {
			outcome = "!! " + entry.ErrorKind + ": " + entry.ErrorMessage
		}
	}
	return fmt.Sprintf("#%d %s %s %s (%s)",
		entry.ID,
		entry.Started.Local().Format(time.DateTime),
		source,
		outcome,
		entry.Duration.Round(time.Microsecond),
	)
}

func summarizeSource(source string) string {
	collapsed := strings.Join(strings.Fields(source), " ")
	if len(collapsed) > 40 {
		return collapsed[:37] + "..."
	}
	return collapsed
}
