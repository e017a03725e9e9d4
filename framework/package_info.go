// Package framework contains the low-level test infrastructure that does not know anything
// about albums.
//
// The general model is:
//
// 1. A suite is a tree of named checks. Each check gets a Context, which is similar to Go's
// *testing.T: it accumulates failures, can stop early with FailNow, can be skipped, and can
// start subtests with Run. Because it implements Errorf and FailNow, it can be passed directly
// to the testify assert and require packages.
//
// 2. Each Context has its own capturing debug logger. Whatever a check logs there is handed to
// the TestLogger when the check finishes, so that it can be shown only for failed checks.
//
// 3. Checks can be selected or excluded by regular expressions on their path (see RegexFilters).
//
// The domain-specific code is responsible for providing a domain-specific test API on top of
// the Context; see the albumtests package.
package framework
