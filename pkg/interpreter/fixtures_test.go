package interpreter

import (
	"path/filepath"
	"strings"
	"testing"

	"egg/interpreter-go/pkg/driver"
)

func repositoryFixturesDir() string {
	return filepath.Join("..", "..", "fixtures")
}

func TestRepositoryFixtures(t *testing.T) {
	files, err := driver.CollectFixtureFiles(repositoryFixturesDir())
	if err != nil {
		t.Fatalf("collect fixtures: %v", err)
	}
	if len(files) == 0 {
		t.Fatalf("no fixture files found under %s", repositoryFixturesDir())
	}
	for _, file := range files {
		fixtures, err := driver.LoadFixtureFile(file)
		if err != nil {
			t.Fatalf("load %s: %v", file, err)
		}
		for _, fixture := range fixtures {
			fixture := fixture
			t.Run(filepath.Base(file)+"/"+fixture.Name, func(t *testing.T) {
				result := RunFixture(fixture)
				if !result.Passed() {
					t.Fatalf("fixture failed:\n%s", strings.Join(result.Failures, "\n"))
				}
			})
		}
	}
}

func TestRunFixtureReportsMismatches(t *testing.T) {
	want := "3"
	result := RunFixture(driver.Fixture{
		Name:   "mismatch",
		Source: `do(print("a"), +(1, 1))`,
		Expect: driver.Expectation{Value: &want, Output: []string{"b"}},
	})
	if result.Passed() {
		t.Fatalf("expected mismatching fixture to fail")
	}
	if len(result.Failures) != 2 {
		t.Fatalf("expected value and output failures, got %v", result.Failures)
	}
}

func TestRunFixtureExpectedErrorMissing(t *testing.T) {
	result := RunFixture(driver.Fixture{
		Name:   "no error",
		Source: "1",
		Expect: driver.Expectation{Error: "TypeError"},
	})
	if result.Passed() || !strings.Contains(result.Failures[0], "expected TypeError") {
		t.Fatalf("expected missing error failure, got %v", result.Failures)
	}
}

func TestRunFixtureWrongErrorKind(t *testing.T) {
	result := RunFixture(driver.Fixture{
		Name:   "wrong kind",
		Source: "missing",
		Expect: driver.Expectation{Error: "TypeError"},
	})
	if result.Passed() || !strings.Contains(result.Failures[0], "got ReferenceError") {
		t.Fatalf("expected kind mismatch, got %v", result.Failures)
	}
}
