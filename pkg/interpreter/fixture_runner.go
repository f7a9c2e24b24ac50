package interpreter

import (
	"fmt"
	"strings"

	"egg/interpreter-go/pkg/driver"
	"egg/interpreter-go/pkg/runtime"
)

// FixtureResult reports how a fixture run compared with its expectation.
type FixtureResult struct {
	Fixture driver.Fixture
	Value   runtime.Value
	Output  []string
	Err     error
	// Failures lists every mismatch; empty means the fixture passed.
	Failures []string
}

// Passed reports whether the fixture met its expectation.
func (r FixtureResult) Passed() bool {
	return len(r.Failures) == 0
}

// RunFixture evaluates f in a fresh interpreter, capturing printed values.
func RunFixture(f driver.Fixture) FixtureResult {
	result := FixtureResult{Fixture: f}
	interp := New(WithPrinter(func(val runtime.Value) error {
		result.Output = append(result.Output, runtime.FormatValue(val))
		return nil
	}))
	result.Value, result.Err = interp.Run(f.Source)

	expect := f.Expect
	if expect.ExpectsError() {
		result.checkError(expect)
	} else if result.Err != nil {
		result.fail("unexpected error: %v", result.Err)
	} else if expect.Value != nil {
		if got := runtime.FormatValue(result.Value); got != *expect.Value {
			result.fail("value: expected %q, got %q", *expect.Value, got)
		}
	}
	if expect.Output != nil {
		result.checkOutput(expect.Output)
	}
	return result
}

func (r *FixtureResult) checkError(expect driver.Expectation) {
	if r.Err == nil {
		r.fail("expected %s, got value %q", describeExpectedError(expect), runtime.FormatValue(r.Value))
		return
	}
	if expect.Error != "" {
		kind, ok := runtime.KindOf(r.Err)
		if !ok {
			r.fail("expected %s, got host error: %v", expect.Error, r.Err)
			return
		}
		if string(kind) != expect.Error {
			r.fail("error kind: expected %s, got %s", expect.Error, kind)
		}
	}
	if expect.Message != "" && !strings.Contains(r.Err.Error(), expect.Message) {
		r.fail("error message: expected %q in %q", expect.Message, r.Err.Error())
	}
}

func (r *FixtureResult) checkOutput(want []string) {
	if len(want) != len(r.Output) {
		r.fail("output: expected %d lines %q, got %d lines %q", len(want), want, len(r.Output), r.Output)
		return
	}
	for idx := range want {
		if want[idx] != r.Output[idx] {
			r.fail("output line %d: expected %q, got %q", idx+1, want[idx], r.Output[idx])
		}
	}
}

func (r *FixtureResult) fail(format string, args ...any) {
	r.Failures = append(r.Failures, fmt.Sprintf(format, args...))
}

func describeExpectedError(expect driver.Expectation) string {
	switch {
	case expect.Error != "" && expect.Message != "":
		return fmt.Sprintf("%s %q", expect.Error, expect.Message)
	case expect.Error != "":
		return expect.Error
	default:
		return fmt.Sprintf("error %q", expect.Message)
	}
}
