package albumtests

import (
	"context"
	"time"

	"github.com/crudcheck/albums-contract-tests/client"
	"github.com/crudcheck/albums-contract-tests/config"
	"github.com/crudcheck/albums-contract-tests/framework"
)

// ResetFunc restores the service's fixture to its initial state.
type ResetFunc func(ctx context.Context) error

// SuiteConfig is everything the checks need to know about the service under test.
type SuiteConfig struct {
	// Client performs the requests.
	Client *client.AlbumsClient

	// Checks holds the record ids and values used by the checks.
	Checks config.ChecksConfig

	// FixtureCount is the expected length of the collection.
	FixtureCount int

	// RequestTimeout bounds each request. Zero means no limit beyond the HTTP client's own.
	RequestTimeout time.Duration

	// ResetFixture, if not nil, is called before every check.
	ResetFixture ResetFunc
}

type environment struct {
	config SuiteConfig
}

// T represents a check, or a group of checks, in the albums suite.
//
// It implements the same basic functionality as Go's testing.T, but in an environment that is
// outside of the Go test runner, and with debug logging that is shown if the check fails. Those
// features are provided by our lower-level framework package.
//
// To make assertions, you can use the assert and require packages, passing the *T as if it were
// a *testing.T. The request helpers in this package also have assertions built in, causing the
// check to fail immediately if the service does something unexpected.
type T struct {
	context *framework.Context
	env     *environment
	client  *client.AlbumsClient
}

func newTestScope(c *framework.Context, env *environment) *T {
	return &T{
		context: c,
		env:     env,
		client:  env.config.Client.WithLogger(c.DebugLogger()),
	}
}

// Errorf is called by assertions to log a check failure. It does not cause an immediate exit.
func (t *T) Errorf(format string, args ...interface{}) {
	t.context.Errorf(format, args...)
}

// FailNow is called by assertions when a check should fail and immediately exit. The methods in
// the require package call FailNow.
func (t *T) FailNow() {
	t.context.FailNow()
}

// Run runs a subtest with its own T. If a fixture reset hook is configured, it is called first.
func (t *T) Run(name string, action func(*T)) {
	t.context.Run(name, func(c *framework.Context) {
		t1 := newTestScope(c, t.env)
		t1.resetFixture()
		action(t1)
	})
}

func (t *T) resetFixture() {
	if t.env.config.ResetFixture == nil {
		return
	}
	if err := t.env.config.ResetFixture(t.Context()); err != nil {
		t.Errorf("could not reset the fixture before the check: %s", err)
		t.FailNow()
	}
	t.Debug("Fixture reset")
}

// Debug logs some debug output for the check. The output will be passed to the test logger at
// the end of the check.
func (t *T) Debug(format string, args ...interface{}) {
	t.context.Debug(format, args...)
}

// Client returns the client for the service under test. Requests made through it are written
// to this check's debug output.
func (t *T) Client() *client.AlbumsClient {
	return t.client
}

// Checks returns the record ids and values used by the checks.
func (t *T) Checks() config.ChecksConfig {
	return t.env.config.Checks
}

// FixtureCount returns the expected length of the collection.
func (t *T) FixtureCount() int {
	return t.env.config.FixtureCount
}

// Context returns a context for one request. It is cancelled when the check ends.
func (t *T) Context() context.Context {
	timeout := t.env.config.RequestTimeout
	if timeout <= 0 {
		ctx, cancel := context.WithCancel(context.Background())
		t.context.Defer(cancel)
		return ctx
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	t.context.Defer(cancel)
	return ctx
}
