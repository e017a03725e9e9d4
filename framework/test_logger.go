package framework

// TestLogger receives progress notifications while a suite runs. Each check is reported with
// TestStarted followed by either TestFinished or TestSkipped; TestError may come in between, once
// per failed assertion, with the assertion trace already removed.
type TestLogger interface {
	TestStarted(id TestID)
	TestError(id TestID, err error)
	// TestFinished carries the requests and responses the check logged, whether or not it failed.
	TestFinished(id TestID, failed bool, debugOutput CapturedOutput)
	// TestSkipped is called for checks excluded by -run or -skip as well as for checks that skipped
	// themselves.
	TestSkipped(id TestID, reason string)
}

type nullTestLogger struct{}

func (n nullTestLogger) TestStarted(TestID)                        {}
func (n nullTestLogger) TestError(TestID, error)                   {}
func (n nullTestLogger) TestFinished(TestID, bool, CapturedOutput) {}
func (n nullTestLogger) TestSkipped(TestID, string)                {}
