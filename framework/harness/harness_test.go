package harness

import (
	"bytes"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/crudcheck/albums-contract-tests/framework"

	"github.com/launchdarkly/go-test-helpers/v2/httphelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHarness(t *testing.T) *TestHarness {
	h, err := NewTestHarness("localhost", 0, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = h.Close() })
	return h
}

func TestEndpointReceivesSubpath(t *testing.T) {
	h := newHarness(t)
	var gotPath, gotBody string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		data, _ := io.ReadAll(r.Body)
		gotBody = string(data)
		w.WriteHeader(201)
	})
	var logger framework.CapturingLogger
	e := h.NewMockEndpoint(handler, "albums", &logger)
	defer e.Close()

	assert.True(t, strings.HasPrefix(e.BaseURL(), "http://localhost:"))

	resp, err := http.Post(e.BaseURL()+"/albums", "application/x-www-form-urlencoded",
		bytes.NewBufferString("title=x"))
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, 201, resp.StatusCode)
	assert.Equal(t, "/albums", gotPath)
	assert.Equal(t, "title=x", gotBody)

	output := logger.Output()
	require.Len(t, output, 1)
	assert.Equal(t, "albums received POST /albums: title=x", output[0].Message)
}

func TestEndpointBaseURLWithoutSubpath(t *testing.T) {
	h := newHarness(t)
	var gotPath string
	e := h.NewMockEndpoint(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
	}), "root", nil)
	defer e.Close()

	resp, err := http.Get(e.BaseURL())
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "/", gotPath)
}

func TestUnknownAndClosedEndpointsReturn404(t *testing.T) {
	h := newHarness(t)
	var logger framework.CapturingLogger
	e := h.NewMockEndpoint(httphelpers.HandlerWithStatus(200), "closing", &logger)
	url := e.BaseURL()
	e.Close()

	resp, err := http.Get(url)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, 404, resp.StatusCode)

	assert.Len(t, logger.Output(), 0)

	resp, err = http.Get(strings.Replace(url, "/endpoints/", "/nothing/", 1))
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, 404, resp.StatusCode)
}

func TestEndpointLogsRequestsWithoutBody(t *testing.T) {
	h := newHarness(t)
	var logger framework.CapturingLogger
	e := h.NewMockEndpoint(httphelpers.HandlerWithStatus(200), "quiet", &logger)
	defer e.Close()

	for i := 0; i < 3; i++ {
		resp, err := http.Get(e.BaseURL() + "/albums/1")
		require.NoError(t, err)
		_ = resp.Body.Close()
	}
	output := logger.Output()
	require.Len(t, output, 3)
	for _, m := range output {
		assert.Equal(t, "quiet received GET /albums/1", m.Message)
	}
}

func TestEndpointsGetDistinctURLs(t *testing.T) {
	h := newHarness(t)
	e1 := h.NewMockEndpoint(httphelpers.HandlerWithStatus(200), "one", nil)
	e2 := h.NewMockEndpoint(httphelpers.HandlerWithStatus(204), "two", nil)
	defer e1.Close()
	defer e2.Close()

	assert.NotEqual(t, e1.BaseURL(), e2.BaseURL())
	resp, err := http.Get(e2.BaseURL())
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, 204, resp.StatusCode)
}
