package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
)

func TestReplKeepsBindingsAcrossLines(t *testing.T) {
	in := strings.NewReader("define(x, 4)\n*(x,\n  2)\n1 2\n")
	var out, errOut bytes.Buffer
	if code := replLoop(in, &out, &errOut); code != 0 {
		t.Fatalf("expected exit code 0, got %d (stderr=%q)", code, errOut.String())
	}
	got := out.String()
	for _, want := range []string{"egg> => 4\n", "egg> ...  => 8\n", "=> 1\n=> 2\n"} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected %q in output %q", want, got)
		}
	}
	if errOut.Len() != 0 {
		t.Fatalf("unexpected errors %q", errOut.String())
	}
}

func TestReplPrintWritesToOutput(t *testing.T) {
	in := strings.NewReader("print(\"hi\")\n")
	var out, errOut bytes.Buffer
	replLoop(in, &out, &errOut)
	if !strings.Contains(out.String(), "hi\n=> hi\n") {
		t.Fatalf("expected printed line before result, got %q", out.String())
	}
}

func TestReplResetDropsBindings(t *testing.T) {
	in := strings.NewReader("define(x, 1)\n:reset\nx\n:quit\nx\n")
	var out, errOut bytes.Buffer
	if code := replLoop(in, &out, &errOut); code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	if !strings.Contains(errOut.String(), "ReferenceError: Undefined binding: x") {
		t.Fatalf("expected reference error after reset, got %q", errOut.String())
	}
	if strings.Count(errOut.String(), "ReferenceError") != 1 {
		t.Fatalf("expected :quit to stop evaluation, got %q", errOut.String())
	}
}

func TestReplErrorsDoNotEndSession(t *testing.T) {
	in := strings.NewReader("f(1 2)\n+(1, 1)\n")
	var out, errOut bytes.Buffer
	if code := replLoop(in, &out, &errOut); code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	if !strings.Contains(errOut.String(), "SyntaxError: Expected ',' or ')'") {
		t.Fatalf("expected syntax error, got %q", errOut.String())
	}
	if !strings.Contains(out.String(), "=> 2\n") {
		t.Fatalf("expected evaluation after the error, got %q", out.String())
	}
}

func TestReplReportsUnfinishedInputAtEOF(t *testing.T) {
	in := strings.NewReader("do(1,\n")
	var out, errOut bytes.Buffer
	if code := replLoop(in, &out, &errOut); code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}
	if !strings.Contains(errOut.String(), "SyntaxError") {
		t.Fatalf("expected syntax error for unfinished input, got %q", errOut.String())
	}
}

func TestReplEnvListsBindings(t *testing.T) {
	in := strings.NewReader(":env\ndefine(total, 3)\ndefine(step, 1)\n:env\n")
	var out, errOut bytes.Buffer
	if code := replLoop(in, &out, &errOut); code != 0 {
		t.Fatalf("expected exit code 0, got %d (stderr=%q)", code, errOut.String())
	}
	got := out.String()
	for _, want := range []string{
		"special forms: define do fun if set while\n",
		"session: (empty)\n",
		"session: step total\n",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected %q in output %q", want, got)
		}
	}
	if !strings.Contains(got, "builtins: ") || !strings.Contains(got, " print ") {
		t.Fatalf("expected builtins listing, got %q", got)
	}
}

func TestReplLoadKeepsDefinitions(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lib.egg")
	writeFile(t, path, "do(define(square, fun(n, *(n, n))), square(3))")

	in := strings.NewReader(":load " + path + "\nsquare(5)\n:load " + filepath.Join(dir, "missing.egg") + "\n")
	var out, errOut bytes.Buffer
	if code := replLoop(in, &out, &errOut); code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	if !strings.Contains(out.String(), "=> 9\n") || !strings.Contains(out.String(), "=> 25\n") {
		t.Fatalf("expected loaded definitions to be usable, got %q", out.String())
	}
	if !strings.Contains(errOut.String(), "egg repl: read ") {
		t.Fatalf("expected read error for missing file, got %q", errOut.String())
	}
}

func TestReplSurvivesRunawayRecursion(t *testing.T) {
	in := strings.NewReader("do(define(f, fun(f())), f())\n+(1, 1)\n")
	var out, errOut bytes.Buffer
	if code := replLoop(in, &out, &errOut); code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	if !strings.Contains(errOut.String(), "RangeError: Maximum call depth exceeded") {
		t.Fatalf("expected RangeError, got %q", errOut.String())
	}
	if !strings.Contains(out.String(), "=> 2\n") {
		t.Fatalf("expected session to continue, got %q", out.String())
	}
}
