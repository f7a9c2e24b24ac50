package main

import (
	"fmt"
	"os"
)

const cliToolVersion = "egg-cli 0.1.0"

// Exit codes shared by every subcommand.
const (
	exitOK      = 0
	exitFailure = 1
	exitHost    = 2
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		return runEntry(nil)
	}

	switch args[0] {
	case "--help", "-h", "help":
		printUsage()
		return exitOK
	case "--version", "-V", "version":
		fmt.Fprintln(os.Stdout, cliToolVersion)
		return exitOK
	case "run":
		return runEntry(args[1:])
	case "eval":
		return runEval(args[1:])
	case "check":
		return runCheck(args[1:])
	case "ast":
		return runAST(args[1:])
	case "fmt":
		return runFmt(args[1:])
	case "repl":
		return runRepl(args[1:])
	case "test":
		return runTest(args[1:])
	case "deps":
		return runDeps(args[1:])
	case "history":
		return runHistory(args[1:])
	case "mcp":
		return runMCP(args[1:])
	default:
		return runEntry(args)
	}
}
