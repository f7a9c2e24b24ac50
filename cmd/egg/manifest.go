package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"egg/interpreter-go/pkg/driver"
)

func findManifest(start string) (string, error) {
	return driver.FindManifest(start)
}

// loadWorkspaceManifest returns the manifest governing the working directory,
// or nil when there is none.
func loadWorkspaceManifest() (*driver.Manifest, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("determine working directory: %w", err)
	}
	path, err := findManifest(cwd)
	if err != nil {
		if errors.Is(err, driver.ErrManifestNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return driver.LoadManifest(path)
}

func resolveEggHome() (string, error) {
	if home := strings.TrimSpace(os.Getenv("EGG_HOME")); home != "" {
		abs, err := filepath.Abs(home)
		if err != nil {
			return "", fmt.Errorf("resolve EGG_HOME %q: %w", home, err)
		}
		return abs, nil
	}
	userHome, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve user home: %w", err)
	}
	return filepath.Join(userHome, ".egg"), nil
}

// resolveJournalPath picks the journal database: an explicit flag wins, then
// EGG_JOURNAL, then the manifest's journal entry, then EGG_HOME/journal.db.
func resolveJournalPath(flag string, manifest *driver.Manifest) (string, error) {
	if flag = strings.TrimSpace(flag); flag != "" {
		return filepath.Abs(flag)
	}
	if env := strings.TrimSpace(os.Getenv("EGG_JOURNAL")); env != "" {
		return filepath.Abs(env)
	}
	if path := manifest.ResolveJournal(); path != "" {
		return path, nil
	}
	home, err := resolveEggHome()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "journal.db"), nil
}

func lockfilePath(manifest *driver.Manifest) string {
	return filepath.Join(manifest.Root(), driver.LockfileName)
}

func loadLockfileForManifest(manifest *driver.Manifest) (*driver.Lockfile, error) {
	if manifest == nil {
		return nil, nil
	}
	lock, err := driver.LoadLockfile(lockfilePath(manifest))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if manifestHasGitSuites(manifest) {
				return nil, fmt.Errorf("%s missing for %q; run `egg deps install`", driver.LockfileName, manifest.Name)
			}
			return nil, nil
		}
		return nil, err
	}
	return lock, nil
}

func manifestHasGitSuites(manifest *driver.Manifest) bool {
	for _, suite := range manifest.Suites {
		if suite.IsGit() {
			return true
		}
	}
	return false
}

// suiteDirectories resolves every manifest suite to the directory holding its
// fixtures. Git suites come from the cache checkout pinned in the lockfile.
func suiteDirectories(manifest *driver.Manifest, lock *driver.Lockfile) ([]string, error) {
	var dirs []string
	var home string
	for _, suite := range manifest.Suites {
		if !suite.IsGit() {
			dir, err := manifest.SuiteDir(suite.Name)
			if err != nil {
				return nil, err
			}
			dirs = append(dirs, dir)
			continue
		}
		locked, ok := lock.Find(suite.Name)
		if !ok {
			return nil, fmt.Errorf("suite %q is not locked; run `egg deps install`", suite.Name)
		}
		if home == "" {
			var err error
			if home, err = resolveEggHome(); err != nil {
				return nil, err
			}
		}
		dir := gitSuiteCheckoutDir(home, suite.Name, locked.Commit)
		if suite.Dir != "" {
			dir = filepath.Join(dir, filepath.FromSlash(suite.Dir))
		}
		dirs = append(dirs, dir)
	}
	return dirs, nil
}
