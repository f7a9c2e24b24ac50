package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"egg/interpreter-go/pkg/driver"
	"egg/interpreter-go/pkg/interpreter"
)

const defaultFixtureDir = "fixtures"

type testCliConfig struct {
	Targets []string
	Filter  string
	Verbose bool
}

func runTest(args []string) int {
	config, err := parseTestArguments(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "egg test: %v\n", err)
		return exitFailure
	}

	targets, err := resolveTestTargets(config.Targets)
	if err != nil {
		fmt.Fprintf(os.Stderr, "egg test: %v\n", err)
		return exitFailure
	}

	var files []string
	for _, target := range targets {
		found, err := driver.CollectFixtureFiles(target)
		if err != nil {
			fmt.Fprintf(os.Stderr, "egg test: %v\n", err)
			return exitHost
		}
		files = append(files, found...)
	}
	if len(files) == 0 {
		fmt.Fprintln(os.Stdout, "egg test: no fixture files found")
		return exitOK
	}

	started := time.Now()
	passed, failed := 0, 0
	for _, file := range files {
		fixtures, err := driver.LoadFixtureFile(file)
		if err != nil {
			fmt.Fprintf(os.Stderr, "egg test: %v\n", err)
			return exitHost
		}
		for _, fixture := range fixtures {
			if config.Filter != "" && !strings.Contains(fixture.Name, config.Filter) {
				continue
			}
			result := interpreter.RunFixture(fixture)
			label := fmt.Sprintf("%s: %s", relativeTo(file), fixture.Name)
			if result.Passed() {
				passed++
				if config.Verbose {
					fmt.Fprintf(os.Stdout, "PASS %s\n", label)
				}
				continue
			}
			failed++
			fmt.Fprintf(os.Stdout, "FAIL %s\n", label)
			for _, failure := range result.Failures {
				fmt.Fprintf(os.Stdout, "    %s\n", failure)
			}
		}
	}

	fmt.Fprintf(os.Stdout, "%d passed, %d failed (%s)\n", passed, failed, time.Since(started).Round(time.Millisecond))
	if failed > 0 {
		return exitFailure
	}
	return exitOK
}

func parseTestArguments(args []string) (testCliConfig, error) {
	var config testCliConfig
	for idx := 0; idx < len(args); idx++ {
		arg := args[idx]
		value, skip, ok, err := takeFlagValue("--filter", arg, args[idx+1:])
		if err != nil {
			return config, err
		}
		if ok {
			config.Filter = value
			idx += skip
			continue
		}
		switch {
		case arg == "-v" || arg == "--verbose":
			config.Verbose = true
		case strings.HasPrefix(arg, "-"):
			return config, fmt.Errorf("unknown flag %s", arg)
		default:
			config.Targets = append(config.Targets, arg)
		}
	}
	return config, nil
}

// resolveTestTargets falls back to the manifest's suites, then to ./fixtures.
func resolveTestTargets(explicit []string) ([]string, error) {
	if len(explicit) > 0 {
		return explicit, nil
	}
	manifest, err := loadWorkspaceManifest()
	if err != nil {
		return nil, err
	}
	if manifest != nil && len(manifest.Suites) > 0 {
		lock, err := loadLockfileForManifest(manifest)
		if err != nil {
			return nil, err
		}
		return suiteDirectories(manifest, lock)
	}
	base := defaultFixtureDir
	if manifest != nil {
		base = filepath.Join(manifest.Root(), defaultFixtureDir)
	}
	if info, err := os.Stat(base); err == nil && info.IsDir() {
		return []string{base}, nil
	}
	return nil, nil
}

func relativeTo(path string) string {
	cwd, err := os.Getwd()
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(cwd, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}
