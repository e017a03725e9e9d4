package main

import (
	"flag"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/crudcheck/albums-contract-tests/framework"

	"github.com/alessio/shellescape"
)

const defaultPort = 8111

type commandParams struct {
	serviceURL string
	configFile string
	envFile    string
	mock       bool
	port       int
	host       string
	filters    framework.RegexFilters
	timeout    time.Duration
	debug      bool
	debugAll   bool

	flags *flag.FlagSet
}

func (c *commandParams) Read(args []string, errOut io.Writer) bool {
	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)
	fs.SetOutput(errOut)
	fs.StringVar(&c.serviceURL, "url", "", "base URL of the albums service (overrides config and ALBUMS_BASE_URL)")
	fs.StringVar(&c.configFile, "config", "", "YAML configuration file")
	fs.StringVar(&c.envFile, "env-file", "", "file of environment variables to load (default .env)")
	fs.BoolVar(&c.mock, "mock", false, "run the checks against the built-in mock service")
	fs.StringVar(&c.host, "host", "localhost", "external hostname of the mock service listener")
	fs.IntVar(&c.port, "port", defaultPort, "port that the mock service listener will use")
	fs.Var(&c.filters.MustMatch, "run", "regex pattern(s) to select checks to run, matched per level like go test -run")
	fs.Var(&c.filters.MustNotMatch, "skip", "regex pattern(s) to select checks not to run")
	fs.DurationVar(&c.timeout, "timeout", 0, "time limit for each request (overrides config and HTTP_TIMEOUT)")
	fs.BoolVar(&c.debug, "debug", false, "enable debug logging for failed checks")
	fs.BoolVar(&c.debugAll, "debug-all", false, "enable debug logging for all checks")

	if err := fs.Parse(args[1:]); err != nil {
		return false
	}
	if fs.NArg() != 0 {
		fmt.Fprintf(errOut, "unexpected arguments: %s\n", strings.Join(fs.Args(), " "))
		fs.Usage()
		return false
	}
	if c.mock && c.serviceURL != "" {
		fmt.Fprintln(errOut, "-url and -mock cannot be used together")
		fs.Usage()
		return false
	}
	c.flags = fs
	return true
}

type commandBuilder []string

func (b *commandBuilder) add(args ...string) {
	for _, a := range args {
		*b = append(*b, shellescape.Quote(a))
	}
}

func (b commandBuilder) String() string {
	return strings.Join(b, " ")
}

// rerunCommand builds a command line that repeats this run with the same options, but only for
// the given checks.
func (c *commandParams) rerunCommand(program string, failures []framework.TestResult) string {
	var b commandBuilder
	b.add(program)
	c.flags.Visit(func(f *flag.Flag) {
		if f.Name == "run" || f.Name == "skip" {
			return
		}
		b.add("-" + f.Name + "=" + f.Value.String())
	})
	for _, failure := range failures {
		b.add("-run", exactPathPattern(failure.TestID))
	}
	return b.String()
}

// exactPathPattern returns a -run pattern that selects only the check with this id.
func exactPathPattern(id framework.TestID) string {
	parts := make([]string, 0, len(id.Path))
	for _, name := range id.Path {
		parts = append(parts, "^"+regexp.QuoteMeta(name)+"$")
	}
	return strings.Join(parts, "/")
}
