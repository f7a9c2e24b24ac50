package main

import (
	"fmt"
	"strconv"
	"strings"
)

// takeFlagValue handles both "--name value" and "--name=value". It returns the
// value, the number of extra args consumed, and whether arg matched.
func takeFlagValue(name, arg string, rest []string) (string, int, bool, error) {
	if arg == name {
		if len(rest) == 0 {
			return "", 0, true, fmt.Errorf("%s requires a value", name)
		}
		return rest[0], 1, true, nil
	}
	if strings.HasPrefix(arg, name+"=") {
		return strings.TrimPrefix(arg, name+"="), 0, true, nil
	}
	return "", 0, false, nil
}

type runOptions struct {
	journalPath string
	noJournal   bool
	showResult  bool
	positional  []string
}

func parseRunOptions(args []string) (runOptions, error) {
	var opts runOptions
	for idx := 0; idx < len(args); idx++ {
		arg := args[idx]
		if arg == "--" {
			opts.positional = append(opts.positional, args[idx+1:]...)
			break
		}
		if value, skip, ok, err := takeFlagValue("--journal", arg, args[idx+1:]); ok {
			if err != nil {
				return opts, err
			}
			opts.journalPath = value
			idx += skip
			continue
		}
		switch arg {
		case "--no-journal":
			opts.noJournal = true
		case "--show-result":
			opts.showResult = true
		default:
			if strings.HasPrefix(arg, "--") {
				return opts, fmt.Errorf("unknown flag %s", arg)
			}
			opts.positional = append(opts.positional, arg)
		}
	}
	if opts.noJournal && opts.journalPath != "" {
		return opts, fmt.Errorf("--journal and --no-journal are mutually exclusive")
	}
	return opts, nil
}

func parseLimit(value string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || n < 0 {
		return 0, fmt.Errorf("--limit expects a non-negative integer, got %q", value)
	}
	return n, nil
}
