package framework

import (
	"errors"
	"fmt"
	"runtime/debug"
	"strings"
)

type environment struct {
	results    Results
	testLogger TestLogger
	filter     Filter
}

// Context is the state of one running check, or of a group of checks. It provides the same
// basic operations as Go's *testing.T (Errorf, FailNow, Skip, Run), so it can be passed to the
// testify assert and require packages, but it can be used outside of the Go test runner.
type Context struct {
	env         *environment
	id          TestID
	debugLogger CapturingLogger
	failed      bool
	skipped     bool
	skipReason  string
	errors      []error
	cleanups    []func()
	hasSubtests bool
}

// Run executes the top-level action and returns the accumulated results of it and of all the
// subtests it starts with Context.Run.
func Run(
	filter func(TestID) bool,
	testLogger TestLogger,
	action func(*Context),
) Results {
	if testLogger == nil {
		testLogger = nullTestLogger{}
	}
	env := &environment{
		filter:     filter,
		testLogger: testLogger,
	}
	c := &Context{env: env}
	c.run(action)
	return env.results
}

func (c *Context) run(action func(*Context)) {
	defer func() {
		if r := recover(); r != nil {
			if c.skipped {
				c.runCleanups()
				c.env.results.Skipped = append(c.env.results.Skipped,
					TestResult{TestID: c.id, Skipped: true})
				return
			}
			c.failed = true
			var addError error
			if _, ok := r.(*Context); ok {
				if len(c.errors) == 0 {
					addError = errors.New("test failed with no failure message")
				}
			} else {
				addError = fmt.Errorf("unexpected panic in test: %+v\n%s", r, string(debug.Stack()))
			}
			if addError != nil {
				c.errors = append(c.errors, addError)
				c.env.testLogger.TestError(c.id, addError)
			}
		}
		c.runCleanups()
		if (len(c.id.Path) == 0 || c.hasSubtests) && !c.failed {
			return // only leaf checks count, unless a group itself blew up
		}
		result := TestResult{TestID: c.id, Errors: c.errors}
		c.env.results.Tests = append(c.env.results.Tests, result)
		if c.failed {
			c.env.results.Failures = append(c.env.results.Failures, result)
		}
	}()

	action(c)
}

func (c *Context) runCleanups() {
	for i := len(c.cleanups) - 1; i >= 0; i-- {
		c.cleanups[i]()
	}
	c.cleanups = nil
}

// ID returns the path of the current check.
func (c *Context) ID() TestID {
	return c.id
}

// Run runs a subtest with its own Context. A failure in the subtest does not stop or fail the
// parent.
func (c *Context) Run(name string, action func(*Context)) {
	id := c.id.Plus(name)
	c.hasSubtests = true

	c.env.testLogger.TestStarted(id)
	if c.env.filter != nil && !c.env.filter(id) {
		c.env.testLogger.TestSkipped(id, "excluded by filter parameters")
		c.env.results.Skipped = append(c.env.results.Skipped, TestResult{TestID: id, Skipped: true})
		return
	}
	c1 := &Context{
		id:  id,
		env: c.env,
	}
	c1.run(action)
	if c1.skipped {
		c.env.testLogger.TestSkipped(id, c1.skipReason)
	} else {
		c.env.testLogger.TestFinished(id, c1.failed, c1.debugLogger.Output())
	}
}

// Errorf records a failure without stopping the check.
func (c *Context) Errorf(format string, args ...interface{}) {
	c.failed = true
	err := reformatError(fmt.Errorf(format, args...))
	c.errors = append(c.errors, err)
	c.env.testLogger.TestError(c.id, err)
}

// FailNow stops the check immediately. Any previously recorded errors are kept.
func (c *Context) FailNow() {
	panic(c)
}

// Failed returns true if the check has failed so far.
func (c *Context) Failed() bool {
	return c.failed
}

func (c *Context) Skip() {
	c.skipped = true
	panic(c)
}

func (c *Context) SkipWithReason(reason string) {
	c.skipReason = reason
	c.Skip()
}

// Defer schedules a function to run when the check ends, whether it passed or not. Deferred
// functions run in reverse order.
func (c *Context) Defer(fn func()) {
	c.cleanups = append(c.cleanups, fn)
}

func (c *Context) Debug(message string, args ...interface{}) {
	c.debugLogger.Printf(message, args...)
}

func (c *Context) DebugLogger() Logger {
	return &c.debugLogger
}

// reformatError strips the "Error Trace" section that testify puts into its messages, since the
// file locations refer to the harness rather than to anything in the service under test.
func reformatError(err error) error {
	lines := strings.Split(err.Error(), "\n")
	var out []string
	inTrace := false
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "Error Trace:"):
			inTrace = true
			continue
		case inTrace && isLabel(trimmed):
			inTrace = false
		case inTrace:
			continue
		}
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
	}
	if len(out) == 0 {
		return err
	}
	return errors.New(strings.Join(out, "\n"))
}

func isLabel(line string) bool {
	fields := strings.Fields(line)
	return len(fields) > 0 && strings.HasSuffix(fields[0], ":")
}
