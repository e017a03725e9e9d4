// Package transport is the seam between the checks and the network. The checks only ever see
// a Transport, so they can run against the real service over HTTPS or against an in-process
// handler without changing anything else.
package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
)

// Request is a single HTTP request. Body may be nil.
type Request struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte
}

// Response is the part of an HTTP response that the checks look at.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Transport sends a request and returns the status and body of the response. An error means
// that no response was received at all; HTTP error statuses are not errors.
type Transport interface {
	Send(ctx context.Context, req Request) (Response, error)
}

// Func adapts an ordinary function to the Transport interface.
type Func func(ctx context.Context, req Request) (Response, error)

func (f Func) Send(ctx context.Context, req Request) (Response, error) {
	return f(ctx, req)
}

// HTTPTransport is the Transport that does real HTTP requests with an *http.Client.
type HTTPTransport struct {
	client *http.Client
}

// NewHTTPTransport wraps an *http.Client. If client is nil, NewHTTPClient(nil) is used.
func NewHTTPTransport(client *http.Client) *HTTPTransport {
	if client == nil {
		client = NewHTTPClient(nil)
	}
	return &HTTPTransport{client: client}
}

// Client returns the underlying *http.Client.
func (t *HTTPTransport) Client() *http.Client {
	return t.client
}

func (t *HTTPTransport) Send(ctx context.Context, req Request) (Response, error) {
	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, body)
	if err != nil {
		return Response{}, err
	}
	for k, vv := range req.Header {
		for _, v := range vv {
			httpReq.Header.Add(k, v)
		}
	}
	resp, err := t.client.Do(httpReq)
	if err != nil {
		return Response{}, err
	}
	defer func() { _ = resp.Body.Close() }()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, fmt.Errorf("error reading response body: %w", err)
	}
	return Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       data,
	}, nil
}
