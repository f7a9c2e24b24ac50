package main

import (
	"path/filepath"
	"strings"
	"testing"
)

const sampleFixtures = `
fixtures:
  - name: adds
    source: +(1, 2)
    expect:
      value: "3"
  - name: prints
    source: print("egg")
    expect:
      value: egg
      output: ["egg"]
  - name: undefined
    source: nope
    expect:
      error: ReferenceError
      message: Undefined binding
`

func TestTestCommandRunsDefaultFixtureDir(t *testing.T) {
	dir := enterWorkspace(t)
	writeFile(t, filepath.Join(dir, "fixtures", "sample.yml"), sampleFixtures)

	code, stdout, stderr := captureCLI(t, []string{"test"})
	if code != 0 {
		t.Fatalf("expected exit code 0, got %d (stdout=%q stderr=%q)", code, stdout, stderr)
	}
	if !strings.Contains(stdout, "3 passed, 0 failed") {
		t.Fatalf("unexpected summary %q", stdout)
	}
}

func TestTestCommandReportsFailures(t *testing.T) {
	dir := enterWorkspace(t)
	path := filepath.Join(dir, "cases", "bad.yml")
	writeFile(t, path, `
fixtures:
  - name: wrong sum
    source: +(2, 2)
    expect:
      value: "5"
`)
	code, stdout, _ := captureCLI(t, []string{"test", path})
	if code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}
	if !strings.Contains(stdout, "FAIL") || !strings.Contains(stdout, "wrong sum") {
		t.Fatalf("expected failing fixture to be named, got %q", stdout)
	}
	if !strings.Contains(stdout, `expected "5", got "4"`) {
		t.Fatalf("expected value mismatch detail, got %q", stdout)
	}
	if !strings.Contains(stdout, "0 passed, 1 failed") {
		t.Fatalf("unexpected summary %q", stdout)
	}
}

func TestTestCommandFilterAndVerbose(t *testing.T) {
	dir := enterWorkspace(t)
	writeFile(t, filepath.Join(dir, "fixtures", "sample.yml"), sampleFixtures)

	code, stdout, _ := captureCLI(t, []string{"test", "--filter", "print", "-v"})
	if code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	if !strings.Contains(stdout, "PASS") || !strings.Contains(stdout, "prints") {
		t.Fatalf("expected verbose pass line, got %q", stdout)
	}
	if !strings.Contains(stdout, "1 passed, 0 failed") {
		t.Fatalf("expected filter to select one fixture, got %q", stdout)
	}
}

func TestTestCommandUsesLocalManifestSuites(t *testing.T) {
	dir := enterWorkspace(t)
	writeFile(t, filepath.Join(dir, "egg.yml"), `
name: demo
suites:
  - name: core
    path: suites/core
`)
	writeFile(t, filepath.Join(dir, "suites", "core", "sample.yml"), sampleFixtures)

	code, stdout, stderr := captureCLI(t, []string{"test"})
	if code != 0 || !strings.Contains(stdout, "3 passed, 0 failed") {
		t.Fatalf("expected manifest suite to run, got code=%d stdout=%q stderr=%q", code, stdout, stderr)
	}
}

func TestTestCommandWithoutFixtures(t *testing.T) {
	enterWorkspace(t)
	code, stdout, _ := captureCLI(t, []string{"test"})
	if code != 0 || !strings.Contains(stdout, "no fixture files found") {
		t.Fatalf("expected empty run notice, got code=%d stdout=%q", code, stdout)
	}
}

func TestTestCommandRejectsBadFixtureFile(t *testing.T) {
	dir := enterWorkspace(t)
	path := filepath.Join(dir, "broken.yml")
	writeFile(t, path, "fixtures:\n  - name: empty\n")
	code, _, stderr := captureCLI(t, []string{"test", path})
	if code != 2 || !strings.Contains(stderr, "has no source") {
		t.Fatalf("expected load error, got code=%d stderr=%q", code, stderr)
	}
}

func TestParseTestArguments(t *testing.T) {
	config, err := parseTestArguments([]string{"--filter=arith", "--verbose", "a", "b"})
	if err != nil {
		t.Fatalf("parseTestArguments: %v", err)
	}
	if config.Filter != "arith" || !config.Verbose || len(config.Targets) != 2 {
		t.Fatalf("unexpected config %#v", config)
	}
	if _, err := parseTestArguments([]string{"--bogus"}); err == nil {
		t.Fatalf("expected unknown flag error")
	}
}
