package main

import (
	"fmt"
	"os"
)

func printUsage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  egg [run] [--journal <db>|--no-journal] [--show-result] [<file.egg>|-]")
	fmt.Fprintln(os.Stderr, "  egg eval [--journal <db>|--no-journal] [--show-result] <source>")
	fmt.Fprintln(os.Stderr, "  egg check <file.egg>")
	fmt.Fprintln(os.Stderr, "  egg ast [--format json|yaml|egg] <file.egg>")
	fmt.Fprintln(os.Stderr, "  egg fmt [-w] <file.egg>")
	fmt.Fprintln(os.Stderr, "  egg repl                (:env, :load <file>, :reset, :quit)")
	fmt.Fprintln(os.Stderr, "  egg test [paths]")
	fmt.Fprintln(os.Stderr, "  egg deps install")
	fmt.Fprintln(os.Stderr, "  egg deps update [suite ...]")
	fmt.Fprintln(os.Stderr, "  egg history [--journal <db>] [--limit n]")
	fmt.Fprintln(os.Stderr, "  egg mcp")
	fmt.Fprintln(os.Stderr, "  egg version")
}
