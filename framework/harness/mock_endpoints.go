package harness

import (
	"context"
	"net/http"
	"strconv"
	"sync"

	"github.com/crudcheck/albums-contract-tests/framework"
)

// MockEndpoint represents an endpoint that can receive requests.
type MockEndpoint struct {
	owner       *TestHarness
	id          string
	description string
	basePath    string
	handler     http.Handler
	cancels     []*context.CancelFunc
	closed      bool
	logger      framework.Logger
	lock        sync.Mutex
	closing     sync.Once
}

// NewMockEndpoint adds a new endpoint that can receive requests.
//
// The specified handler will be called for all incoming requests to the endpoint's base URL or
// any subpath of it. For instance, if the generated base URL (as reported by
// MockEndpoint.BaseURL()) is http://localhost:8111/endpoints/3, then it also receives requests
// to http://localhost:8111/endpoints/3/albums/5.
//
// When the handler is called, the harness rewrites the request URL first so that the handler
// sees only the subpath. It also attaches a Context to the request whose Done channel will be
// closed if Close is called on the endpoint. Every accepted request is reported to the
// endpoint's logger, which falls back to the harness logger if nil.
func (h *TestHarness) NewMockEndpoint(
	handler http.Handler,
	description string,
	logger framework.Logger,
) *MockEndpoint {
	if logger == nil {
		logger = h.logger
	}
	e := &MockEndpoint{
		owner:       h,
		description: description,
		handler:     handler,
		logger:      logger,
	}
	h.lock.Lock()
	h.lastEndpointID++
	e.id = strconv.Itoa(h.lastEndpointID)
	e.basePath = endpointPathPrefix + e.id
	h.endpoints[e.id] = e
	h.lock.Unlock()

	return e
}

// BaseURL returns the base URL of the mock endpoint.
func (e *MockEndpoint) BaseURL() string {
	return e.owner.externalBaseURL + e.basePath
}

func (e *MockEndpoint) accept(cancel *context.CancelFunc, method, path string, body []byte) bool {
	e.lock.Lock()
	defer e.lock.Unlock()
	if e.closed {
		return false
	}
	e.cancels = append(e.cancels, cancel)
	if len(body) == 0 {
		e.logger.Printf("%s received %s %s", e.description, method, path)
	} else {
		e.logger.Printf("%s received %s %s: %s", e.description, method, path, body)
	}
	return true
}

func (e *MockEndpoint) untrack(cancel *context.CancelFunc) {
	e.lock.Lock()
	for i, c := range e.cancels {
		if c == cancel { // can't compare functions with ==, but can compare pointers
			e.cancels = append(e.cancels[:i], e.cancels[i+1:]...)
			break
		}
	}
	e.lock.Unlock()
}

// Close unregisters the endpoint. Any subsequent requests to it will receive 404 errors.
// It also cancels the Context for every active request to that endpoint.
func (e *MockEndpoint) Close() {
	e.closing.Do(func() {
		e.owner.lock.Lock()
		delete(e.owner.endpoints, e.id)
		e.owner.lock.Unlock()

		e.lock.Lock()
		cancellers := e.cancels
		e.cancels = nil
		e.closed = true
		e.lock.Unlock()

		for _, cancel := range cancellers {
			(*cancel)()
		}
	})
}
