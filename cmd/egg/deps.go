package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"egg/interpreter-go/pkg/driver"
)

func runDeps(args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "egg deps requires a subcommand (install, update)")
		return exitFailure
	}
	switch args[0] {
	case "install":
		if len(args) > 1 {
			fmt.Fprintf(os.Stderr, "egg deps install does not take arguments (received %s)\n", strings.Join(args[1:], " "))
			return exitFailure
		}
		return runDepsCommand(nil, false)
	case "update":
		return runDepsCommand(args[1:], true)
	default:
		fmt.Fprintf(os.Stderr, "unknown deps subcommand %q\n", args[0])
		return exitFailure
	}
}

func runDepsCommand(targets []string, update bool) int {
	manifest, err := loadWorkspaceManifest()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read manifest: %v\n", err)
		return exitFailure
	}
	if manifest == nil {
		fmt.Fprintf(os.Stderr, "unable to locate %s\n", driver.ManifestFileName)
		return exitFailure
	}
	cacheDir, err := resolveEggHome()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to resolve EGG_HOME: %v\n", err)
		return exitHost
	}

	lockPath := lockfilePath(manifest)
	lock, err := driver.LoadLockfile(lockPath)
	lockCreated := false
	switch {
	case err == nil:
		if lock.Root != manifest.Name {
			fmt.Fprintf(os.Stderr, "lockfile root %q does not match manifest name %q\n", lock.Root, manifest.Name)
			return exitFailure
		}
	case errors.Is(err, os.ErrNotExist):
		lock = driver.NewLockfile(manifest.Name, cliToolVersion)
		lockCreated = true
	default:
		fmt.Fprintf(os.Stderr, "failed to read lockfile: %v\n", err)
		return exitFailure
	}
	lock.Path = lockPath
	lock.Tool = cliToolVersion

	refresh := make(map[string]bool)
	if update {
		if len(targets) == 0 {
			for _, suite := range manifest.Suites {
				refresh[suite.Name] = true
			}
		}
		for _, target := range targets {
			suite, ok := manifest.FindSuite(target)
			if !ok {
				fmt.Fprintf(os.Stderr, "suite %q not declared in manifest\n", target)
				return exitFailure
			}
			refresh[suite.Name] = true
		}
	}

	fmt.Fprintf(os.Stdout, "Manifest: %s\n", manifest.Path)
	fmt.Fprintf(os.Stdout, "Cache directory: %s\n", cacheDir)

	changed, err := installSuites(os.Stdout, manifest, lock, newGitFetcher(cacheDir), refresh)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to resolve suites: %v\n", err)
		return exitHost
	}

	if changed || lockCreated {
		action := "Updated"
		if lockCreated {
			action = "Created"
		}
		if err := driver.WriteLockfile(lock, lockPath); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write lockfile: %v\n", err)
			return exitHost
		}
		fmt.Fprintf(os.Stdout, "%s %s: %s\n", action, driver.LockfileName, lock.Path)
	} else {
		fmt.Fprintf(os.Stdout, "%s already up to date: %s\n", driver.LockfileName, lock.Path)
	}
	fmt.Fprintln(os.Stdout, "Suites installed.")
	return exitOK
}

// installSuites fetches every git suite that is unlocked, missing from the
// cache, or listed in refresh. Locked entries for suites no longer in the
// manifest are dropped.
func installSuites(log io.Writer, manifest *driver.Manifest, lock *driver.Lockfile, fetcher *gitFetcher, refresh map[string]bool) (bool, error) {
	changed := false

	declared := make(map[string]bool, len(manifest.Suites))
	for _, suite := range manifest.Suites {
		if suite.IsGit() {
			declared[suite.Name] = true
		}
	}
	kept := lock.Suites[:0]
	for _, locked := range lock.Suites {
		if declared[locked.Name] {
			kept = append(kept, locked)
		} else {
			changed = true
		}
	}
	lock.Suites = kept

	for _, suite := range manifest.Suites {
		if !suite.IsGit() {
			fmt.Fprintf(log, "  %s: local %s\n", suite.Name, suite.Path)
			continue
		}
		if locked, ok := lock.Find(suite.Name); ok && !refresh[suite.Name] && fetcher != nil {
			checkout := gitSuiteCheckoutDir(fetcher.cacheDir, suite.Name, locked.Commit)
			if info, err := os.Stat(checkout); err == nil && info.IsDir() {
				fmt.Fprintf(log, "  %s: locked at %s\n", suite.Name, shortCommit(locked.Commit))
				continue
			}
			pinned := *suite
			pinned.Rev, pinned.Tag, pinned.Branch = locked.Commit, "", ""
			suite = &pinned
		}
		entry, err := fetcher.Fetch(suite)
		if err != nil {
			return changed, err
		}
		if previous, ok := lock.Find(entry.Name); !ok || *previous != *entry {
			changed = true
		}
		lock.Put(entry)
		fmt.Fprintf(log, "  %s: fetched %s\n", entry.Name, shortCommit(entry.Commit))
	}
	return changed, nil
}

func shortCommit(commit string) string {
	if len(commit) > 12 {
		return commit[:12]
	}
	return commit
}
