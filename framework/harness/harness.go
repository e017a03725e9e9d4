// Package harness runs the HTTP listener that hosts mock endpoints, such as the bundled album
// backend, and knows how to wait for a service to become reachable.
package harness

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/crudcheck/albums-contract-tests/framework"
)

const endpointPathPrefix = "/endpoints/"
const httpListenerTimeout = time.Second * 10

// TestHarness owns an HTTP listener and dispatches requests to the mock endpoints registered on
// it. Each endpoint gets its own base path, /endpoints/{n}.
type TestHarness struct {
	externalBaseURL string
	server          *http.Server
	port            int
	endpoints       map[string]*MockEndpoint
	lastEndpointID  int
	logger          framework.Logger
	lock            sync.Mutex
}

// NewTestHarness starts listening on the specified port and waits until the listener answers.
// A port of zero picks a free port. The external hostname is only used to build the URLs that
// are reported by MockEndpoint.BaseURL.
func NewTestHarness(
	externalHostname string,
	port int,
	debugLogger framework.Logger,
) (*TestHarness, error) {
	if debugLogger == nil {
		debugLogger = framework.NullLogger()
	}

	h := &TestHarness{
		endpoints: make(map[string]*MockEndpoint),
		logger:    debugLogger,
	}

	server, actualPort, err := startServer(port, http.HandlerFunc(h.serveHTTP))
	if err != nil {
		return nil, err
	}
	h.server = server
	h.port = actualPort
	h.externalBaseURL = fmt.Sprintf("http://%s:%d", externalHostname, actualPort)

	return h, nil
}

// Port returns the port the harness is actually listening on.
func (h *TestHarness) Port() int {
	return h.port
}

// Close shuts down the listener.
func (h *TestHarness) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()
	return h.server.Shutdown(ctx)
}

func (h *TestHarness) serveHTTP(w http.ResponseWriter, req *http.Request) {
	if !strings.HasPrefix(req.URL.Path, endpointPathPrefix) {
		h.logger.Printf("Received request for unrecognized URL path %s", req.URL.Path)
		w.WriteHeader(404)
		return
	}
	path := strings.TrimPrefix(req.URL.Path, endpointPathPrefix)
	var endpointID string
	slashPos := strings.Index(path, "/")
	if slashPos >= 0 {
		endpointID = path[0:slashPos]
		path = path[slashPos:]
	} else {
		endpointID = path
		path = "/"
	}

	h.lock.Lock()
	e := h.endpoints[endpointID]
	h.lock.Unlock()
	if e == nil {
		h.logger.Printf("Received request for unrecognized endpoint %s", req.URL.Path)
		w.WriteHeader(404)
		return
	}

	var body []byte
	if req.Body != nil {
		data, err := io.ReadAll(req.Body)
		_ = req.Body.Close()
		if err != nil {
			h.logger.Printf("Unexpected error trying to read request body: %s", err)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		body = data
	}

	ctx, canceller := context.WithCancel(req.Context())
	if !e.accept(&canceller, req.Method, path, body) {
		canceller()
		w.WriteHeader(404)
		return
	}
	defer func() {
		e.untrack(&canceller)
		canceller()
	}()

	transformedReq := req.WithContext(ctx)
	url := *req.URL
	url.Path = path
	url.RawPath = ""
	transformedReq.URL = &url
	transformedReq.RequestURI = url.RequestURI()
	transformedReq.Body = io.NopCloser(bytes.NewReader(body))
	transformedReq.ContentLength = int64(len(body))

	e.handler.ServeHTTP(w, transformedReq)
}

func startServer(port int, handler http.Handler) (*http.Server, int, error) {
	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return nil, 0, fmt.Errorf("could not listen on port %d: %w", port, err)
	}
	actualPort := listener.Addr().(*net.TCPAddr).Port

	server := &http.Server{
		Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == "HEAD" && r.URL.Path == "/" {
				w.WriteHeader(200) // we use this to test whether our own listener is active yet
				return
			}
			handler.ServeHTTP(w, r)
		}),
		ReadHeaderTimeout: httpListenerTimeout,
	}
	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			panic(err)
		}
	}()

	// Wait till the server is definitely listening for requests before we run any tests
	deadline := time.NewTimer(httpListenerTimeout)
	defer deadline.Stop()
	ticker := time.NewTicker(time.Millisecond * 10)
	defer ticker.Stop()
	for {
		select {
		case <-deadline.C:
			_ = server.Close()
			return nil, 0, fmt.Errorf("could not detect own listener at port %d", actualPort)
		case <-ticker.C:
			resp, err := http.DefaultClient.Head(fmt.Sprintf("http://localhost:%d", actualPort))
			if err == nil {
				_ = resp.Body.Close()
				if resp.StatusCode == 200 {
					return server, actualPort, nil
				}
			}
		}
	}
}
