package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/crudcheck/albums-contract-tests/albumtests"
	"github.com/crudcheck/albums-contract-tests/client"
	"github.com/crudcheck/albums-contract-tests/config"
	"github.com/crudcheck/albums-contract-tests/framework"
	"github.com/crudcheck/albums-contract-tests/framework/harness"
	"github.com/crudcheck/albums-contract-tests/mockservice"
	"github.com/crudcheck/albums-contract-tests/transport"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func main() {
	os.Exit(run(os.Args, os.Stdout, os.Stderr))
}

func run(args []string, out, errOut io.Writer) int {
	var params commandParams
	if !params.Read(args, errOut) {
		return 1
	}

	if err := config.LoadDotEnv(params.envFile); err != nil {
		fmt.Fprintf(errOut, "Invalid environment file: %s\n", err)
		return 1
	}
	cfg, err := config.Load(params.configFile)
	if err != nil {
		fmt.Fprintf(errOut, "Invalid configuration: %s\n", err)
		return 1
	}
	if params.serviceURL != "" {
		cfg.BaseURL = params.serviceURL
	}
	if params.timeout > 0 {
		cfg.RequestTimeout = params.timeout
	}

	mainDebugLogger := framework.NullLogger()
	if params.debugAll {
		mainDebugLogger = framework.StdLogger(out, "")
	}

	clientConfig := transport.DefaultClientConfig()
	clientConfig.Timeout = cfg.RequestTimeout
	httpClient := transport.NewHTTPClient(&clientConfig)
	tr := transport.NewHTTPTransport(httpClient)

	var resetFixture albumtests.ResetFunc
	if params.mock {
		h, err := harness.NewTestHarness(params.host, params.port, mainDebugLogger)
		if err != nil {
			fmt.Fprintf(errOut, "Could not start mock service: %s\n", err)
			return 1
		}
		defer func() { _ = h.Close() }()

		service := mockservice.NewService(mockservice.Options{
			FixtureCount: cfg.FixtureCount,
			Logger:       mockServiceLogger(params.debugAll),
		})
		endpoint := h.NewMockEndpoint(service, "mock albums service", mainDebugLogger)
		defer endpoint.Close()

		cfg.BaseURL = endpoint.BaseURL()
		resetFixture = func(context.Context) error {
			service.Reset()
			return nil
		}
	} else if cfg.FixtureResetURL != "" {
		resetFixture = albumtests.RemoteReset(tr, cfg.FixtureResetURL)
	}

	albumsClient := client.NewAlbumsClient(cfg.BaseURL, tr, mainDebugLogger)

	if err := harness.AwaitService(httpClient, albumsClient.CollectionURL(), cfg.StatusQueryTimeout, out); err != nil {
		fmt.Fprintf(errOut, "Service error: %s\n", err)
		return 1
	}

	fmt.Fprintln(out)
	framework.PrintFilterDescription(out, params.filters)

	runID := uuid.NewString()
	fmt.Fprintf(out, "Running test suite against %s (run %s)\n", cfg.BaseURL, runID)
	mainDebugLogger.Printf("Fixture reset before each check: %t", resetFixture != nil)

	testLogger := &ConsoleTestLogger{
		Out:                  out,
		DebugOutputOnFailure: params.debug || params.debugAll,
		DebugOutputOnSuccess: params.debugAll,
	}

	results := albumtests.RunTestSuite(albumtests.SuiteConfig{
		Client:         albumsClient,
		Checks:         cfg.Checks,
		FixtureCount:   cfg.FixtureCount,
		RequestTimeout: cfg.RequestTimeout,
		ResetFixture:   resetFixture,
	}, params.filters.AsFilter, testLogger)

	fmt.Fprintln(out)
	printResults(out, results)
	if !results.OK() {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "To run only the failed checks again:")
		fmt.Fprintf(out, "  %s\n", params.rerunCommand(args[0], results.Failures))
		return 1
	}
	return 0
}

func mockServiceLogger(verbose bool) *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
