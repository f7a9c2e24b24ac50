package main

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"egg/interpreter-go/pkg/driver"
)

// gitFetcher checks git fixture suites out under <cache>/suites/<name>/<commit>.
type gitFetcher struct {
	cacheDir string
}

func newGitFetcher(cacheDir string) *gitFetcher {
	if cacheDir == "" {
		return nil
	}
	return &gitFetcher{cacheDir: cacheDir}
}

func gitSuiteCheckoutDir(cacheDir, name, commit string) string {
	return filepath.Join(cacheDir, "suites", sanitizePathSegment(name), sanitizePathSegment(commit))
}

// Fetch resolves the suite's pinned revision, checks it out into the cache,
// and returns the lockfile entry describing it.
func (g *gitFetcher) Fetch(suite *driver.SuiteSpec) (*driver.LockedSuite, error) {
	if g == nil {
		return nil, errors.New("git fetcher unavailable")
	}
	url := strings.TrimSpace(suite.Git)
	if url == "" {
		return nil, fmt.Errorf("suite %q: git URL required", suite.Name)
	}

	baseDir := filepath.Join(g.cacheDir, "suites", sanitizePathSegment(suite.Name))
	commit, err := ensureGitCheckout(baseDir, url, suite)
	if err != nil {
		return nil, fmt.Errorf("suite %q: %w", suite.Name, err)
	}

	checkoutDir := filepath.Join(baseDir, sanitizePathSegment(commit))
	checksum, err := dirChecksum(checkoutDir)
	if err != nil {
		return nil, fmt.Errorf("suite %q: checksum: %w", suite.Name, err)
	}
	return &driver.LockedSuite{
		Name:     suite.Name,
		Source:   fmt.Sprintf("git+%s@%s", url, commit),
		Commit:   commit,
		Checksum: "sha256:" + checksum,
	}, nil
}

// ensureGitCheckout clones url and leaves the resolved commit checked out in
// baseDir/<commit>. An existing checkout of an explicit rev is reused.
func ensureGitCheckout(baseDir, url string, suite *driver.SuiteSpec) (string, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return "", err
	}

	revision, err := gitRevisionFromSuite(suite)
	if err != nil {
		return "", err
	}
	if rev := strings.TrimSpace(suite.Rev); rev != "" && plumbing.IsHash(rev) {
		existing := filepath.Join(baseDir, sanitizePathSegment(rev))
		if _, err := os.Stat(existing); err == nil {
			return rev, nil
		}
	}

	tmpDir, err := os.MkdirTemp(baseDir, "git-fetch-*")
	if err != nil {
		return "", err
	}
	if err := os.RemoveAll(tmpDir); err != nil {
		return "", err
	}

	repo, err := git.PlainClone(tmpDir, false, &git.CloneOptions{URL: url})
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", fmt.Errorf("git clone %s: %w", url, err)
	}

	hash, err := repo.ResolveRevision(revision)
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", fmt.Errorf("resolve revision %s: %w", revision, err)
	}
	commit := hash.String()
	targetDir := filepath.Join(baseDir, sanitizePathSegment(commit))
	if _, err := os.Stat(targetDir); err == nil {
		_ = os.RemoveAll(tmpDir)
		return commit, nil
	}

	worktree, err := repo.Worktree()
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", err
	}
	if err := worktree.Checkout(&git.CheckoutOptions{Hash: *hash, Force: true}); err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", fmt.Errorf("git checkout %s: %w", revision, err)
	}
	if err := os.RemoveAll(filepath.Join(tmpDir, ".git")); err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", err
	}
	if err := os.Rename(tmpDir, targetDir); err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", err
	}
	return commit, nil
}

// gitRevisionFromSuite maps rev/tag/branch to a revision; a suite without a
// pin follows the remote HEAD.
func gitRevisionFromSuite(suite *driver.SuiteSpec) (plumbing.Revision, error) {
	if rev := strings.TrimSpace(suite.Rev); rev != "" {
		return plumbing.Revision(rev), nil
	}
	if tag := strings.TrimSpace(suite.Tag); tag != "" {
		return plumbing.Revision("refs/tags/" + tag), nil
	}
	if branch := strings.TrimSpace(suite.Branch); branch != "" {
		return plumbing.Revision("refs/remotes/origin/" + branch), nil
	}
	return plumbing.Revision("HEAD"), nil
}

func dirChecksum(path string) (string, error) {
	h := sha256.New()
	err := filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(path, p)
		if err != nil {
			return err
		}
		h.Write([]byte(filepath.ToSlash(rel)))
		h.Write(data)
		return nil
	})
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func sanitizePathSegment(segment string) string {
	segment = strings.TrimSpace(segment)
	if segment == "" {
		return "head"
	}
	var b strings.Builder
	for _, r := range segment {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '.' || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}
