package framework

import (
	"fmt"
	"strings"
)

// Results is the outcome of a suite run. Tests holds every check that ran, such as
// "albums/delete". A group like "albums" appears only if it failed outside of any of its checks,
// for instance because the fixture could not be reset.
type Results struct {
	Tests    []TestResult
	Failures []TestResult
	Skipped  []TestResult
}

type TestResult struct {
	TestID  TestID
	Errors  []error
	Skipped bool
}

func (r Results) OK() bool {
	return len(r.Failures) == 0
}

// Passed returns the number of checks that ran to completion without failing.
func (r Results) Passed() int {
	return len(r.Tests) - len(r.Failures)
}

// Summary is the one-line outcome printed at the end of a run.
func (r Results) Summary() string {
	if r.OK() {
		return fmt.Sprintf("All checks passed (%d passed, %d skipped)", r.Passed(), len(r.Skipped))
	}
	return fmt.Sprintf("%d of %d checks failed (%d skipped):", len(r.Failures), len(r.Tests), len(r.Skipped))
}

// TestID is the path of a check, starting with its group: {"albums", "patch title"}.
type TestID struct {
	Path []string
}

// Plus returns a new TestID for a subtest of this one.
func (t TestID) Plus(name string) TestID {
	return TestID{Path: append(append([]string(nil), t.Path...), name)}
}

func (t TestID) String() string {
	return strings.Join(t.Path, "/")
}
