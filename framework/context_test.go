package framework

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingTestLogger struct {
	started  []string
	errors   []string
	finished map[string]bool
	skipped  map[string]string
	output   map[string]CapturedOutput
}

func newRecordingTestLogger() *recordingTestLogger {
	return &recordingTestLogger{
		finished: make(map[string]bool),
		skipped:  make(map[string]string),
		output:   make(map[string]CapturedOutput),
	}
}

func (r *recordingTestLogger) TestStarted(id TestID) {
	r.started = append(r.started, id.String())
}

func (r *recordingTestLogger) TestError(id TestID, err error) {
	r.errors = append(r.errors, id.String()+": "+err.Error())
}

func (r *recordingTestLogger) TestFinished(id TestID, failed bool, debugOutput CapturedOutput) {
	r.finished[id.String()] = failed
	r.output[id.String()] = debugOutput
}

func (r *recordingTestLogger) TestSkipped(id TestID, reason string) {
	r.skipped[id.String()] = reason
}

func ids(results []TestResult) []string {
	ret := []string{}
	for _, r := range results {
		ret = append(ret, r.TestID.String())
	}
	return ret
}

func TestOnlyLeafChecksAreRecorded(t *testing.T) {
	results := Run(nil, nil, func(c *Context) {
		c.Run("group", func(c *Context) {
			c.Run("a", func(c *Context) {})
			c.Run("b", func(c *Context) {})
		})
		c.Run("c", func(c *Context) {})
	})

	assert.Equal(t, []string{"group/a", "group/b", "c"}, ids(results.Tests))
	assert.Len(t, results.Failures, 0)
	assert.True(t, results.OK())
	assert.Equal(t, 3, results.Passed())
}

func TestErrorfFailsWithoutStopping(t *testing.T) {
	reachedEnd := false
	results := Run(nil, nil, func(c *Context) {
		c.Run("x", func(c *Context) {
			c.Errorf("first %d", 1)
			c.Errorf("second")
			assert.True(t, c.Failed())
			reachedEnd = true
		})
	})

	assert.True(t, reachedEnd)
	require.Equal(t, []string{"x"}, ids(results.Failures))
	require.Len(t, results.Failures[0].Errors, 2)
	assert.Equal(t, "first 1", results.Failures[0].Errors[0].Error())
}

func TestFailNowStopsCheckButNotSiblings(t *testing.T) {
	reachedEnd := false
	results := Run(nil, nil, func(c *Context) {
		c.Run("stops", func(c *Context) {
			require.Fail(c, "nope")
			reachedEnd = true
		})
		c.Run("runs", func(c *Context) {})
	})

	assert.False(t, reachedEnd)
	assert.Equal(t, []string{"stops", "runs"}, ids(results.Tests))
	assert.Equal(t, []string{"stops"}, ids(results.Failures))
}

func TestFailNowWithoutMessage(t *testing.T) {
	results := Run(nil, nil, func(c *Context) {
		c.Run("x", func(c *Context) { c.FailNow() })
	})

	require.Len(t, results.Failures, 1)
	assert.Equal(t, "test failed with no failure message", results.Failures[0].Errors[0].Error())
}

func TestUnexpectedPanicIsFailure(t *testing.T) {
	results := Run(nil, nil, func(c *Context) {
		c.Run("x", func(c *Context) { panic(errors.New("boom")) })
	})

	require.Len(t, results.Failures, 1)
	assert.Contains(t, results.Failures[0].Errors[0].Error(), "unexpected panic in test: boom")
}

func TestSkip(t *testing.T) {
	logger := newRecordingTestLogger()
	results := Run(nil, logger, func(c *Context) {
		c.Run("x", func(c *Context) { c.SkipWithReason("not today") })
	})

	assert.Len(t, results.Tests, 0)
	assert.Equal(t, []string{"x"}, ids(results.Skipped))
	assert.Equal(t, "not today", logger.skipped["x"])
}

func TestFilter(t *testing.T) {
	ran := []string{}
	logger := newRecordingTestLogger()
	filter := func(id TestID) bool { return id.String() != "b" }
	results := Run(filter, logger, func(c *Context) {
		c.Run("a", func(c *Context) { ran = append(ran, "a") })
		c.Run("b", func(c *Context) { ran = append(ran, "b") })
	})

	assert.Equal(t, []string{"a"}, ran)
	assert.Equal(t, []string{"b"}, ids(results.Skipped))
	assert.Equal(t, "excluded by filter parameters", logger.skipped["b"])
}

func TestDeferredFunctionsRunInReverseOrder(t *testing.T) {
	var order []int
	Run(nil, nil, func(c *Context) {
		c.Run("x", func(c *Context) {
			c.Defer(func() { order = append(order, 1) })
			c.Defer(func() { order = append(order, 2) })
			c.FailNow()
		})
	})

	assert.Equal(t, []int{2, 1}, order)
}

func TestDebugOutputGoesToTestLogger(t *testing.T) {
	logger := newRecordingTestLogger()
	Run(nil, logger, func(c *Context) {
		c.Run("x", func(c *Context) {
			c.Debug("hello %s", "there")
			c.DebugLogger().Printf("again")
			c.Errorf("bad")
		})
	})

	assert.Equal(t, []string{"x"}, logger.started)
	assert.True(t, logger.finished["x"])
	output := logger.output["x"]
	require.Len(t, output, 2)
	assert.Equal(t, "hello there", output[0].Message)
	assert.Equal(t, "again", output[1].Message)
	assert.Equal(t, []string{"x: bad"}, logger.errors)
}

func TestResultsSummary(t *testing.T) {
	check := func(name string) TestResult { return TestResult{TestID: TestID{Path: []string{"albums", name}}} }

	passed := Results{Tests: []TestResult{check("list"), check("read")}, Skipped: []TestResult{check("delete")}}
	assert.Equal(t, "All checks passed (2 passed, 1 skipped)", passed.Summary())

	failed := passed
	failed.Failures = []TestResult{check("read")}
	assert.Equal(t, "1 of 2 checks failed (1 skipped):", failed.Summary())
}

func TestRecordedErrorMatchesLoggedError(t *testing.T) {
	logger := newRecordingTestLogger()
	results := Run(nil, logger, func(c *Context) {
		c.Run("albums", func(c *Context) {
			assert.Equal(c, 100, 1, "unexpected number of records in the collection")
		})
	})

	require.Len(t, results.Failures, 1)
	require.Len(t, results.Failures[0].Errors, 1)
	recorded := results.Failures[0].Errors[0].Error()
	assert.NotContains(t, recorded, "Error Trace")
	assert.Contains(t, recorded, "expected: 100")
	assert.Contains(t, recorded, "unexpected number of records in the collection")
	assert.Equal(t, []string{"albums: " + recorded}, logger.errors)
}

func TestReformatErrorRemovesTrace(t *testing.T) {
	err := errors.New("\n\tError Trace:\tcontext.go:10\n\t            \tother.go:20\n\tError:      \tNot equal\n\tMessages:   \tsomething")
	assert.Equal(t, "Error:      \tNot equal\nMessages:   \tsomething", reformatError(err).Error())

	plain := errors.New("plain")
	assert.Equal(t, "plain", reformatError(plain).Error())
}
