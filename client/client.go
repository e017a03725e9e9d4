// Package client contains AlbumsClient, which performs the HTTP operations of the albums
// collection through a transport.Transport and returns the raw responses to the checks.
package client

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/crudcheck/albums-contract-tests/framework"
	"github.com/crudcheck/albums-contract-tests/servicedef"
	"github.com/crudcheck/albums-contract-tests/transport"

	"github.com/google/uuid"
)

// DefaultCollection is the path segment of the albums collection.
const DefaultCollection = "albums"

const (
	formContentType = "application/x-www-form-urlencoded"
	requestIDHeader = "X-Request-Id"
)

// AlbumsClient knows the URLs of the collection and detail endpoints and how to encode request
// bodies. It does not interpret responses; that is up to the checks.
type AlbumsClient struct {
	baseURL    string
	collection string
	transport  transport.Transport
	logger     framework.Logger
}

// NewAlbumsClient creates an AlbumsClient for the service at baseURL, for instance
// "https://jsonplaceholder.typicode.com". A nil logger discards output.
func NewAlbumsClient(baseURL string, tr transport.Transport, logger framework.Logger) *AlbumsClient {
	if logger == nil {
		logger = framework.NullLogger()
	}
	return &AlbumsClient{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		collection: DefaultCollection,
		transport:  tr,
		logger:     logger,
	}
}

// WithLogger returns a copy of the client that logs to a different destination. The checks use
// this so each one gets the requests it made in its own debug output.
func (c *AlbumsClient) WithLogger(logger framework.Logger) *AlbumsClient {
	c1 := *c
	if logger != nil {
		c1.logger = logger
	}
	return &c1
}

// BaseURL returns the base URL of the service, without a trailing slash.
func (c *AlbumsClient) BaseURL() string {
	return c.baseURL
}

// CollectionURL returns the URL of the collection endpoint.
func (c *AlbumsClient) CollectionURL() string {
	return c.baseURL + "/" + c.collection
}

// DetailURL returns the URL of the record with the given id.
func (c *AlbumsClient) DetailURL(id int) string {
	return c.CollectionURL() + "/" + strconv.Itoa(id)
}

// List does GET on the collection.
func (c *AlbumsClient) List(ctx context.Context) (transport.Response, error) {
	return c.send(ctx, http.MethodGet, c.CollectionURL(), nil)
}

// Get does GET on one record.
func (c *AlbumsClient) Get(ctx context.Context, id int) (transport.Response, error) {
	return c.send(ctx, http.MethodGet, c.DetailURL(id), nil)
}

// Create does POST on the collection with a form-encoded body.
func (c *AlbumsClient) Create(ctx context.Context, params servicedef.AlbumParams) (transport.Response, error) {
	return c.send(ctx, http.MethodPost, c.CollectionURL(), &params)
}

// Replace does PUT on one record with a form-encoded body.
func (c *AlbumsClient) Replace(ctx context.Context, id int, params servicedef.AlbumParams) (transport.Response, error) {
	return c.send(ctx, http.MethodPut, c.DetailURL(id), &params)
}

// Patch does PATCH on one record with a form-encoded body containing only the defined fields.
func (c *AlbumsClient) Patch(ctx context.Context, id int, params servicedef.AlbumParams) (transport.Response, error) {
	return c.send(ctx, http.MethodPatch, c.DetailURL(id), &params)
}

// Delete does DELETE on one record.
func (c *AlbumsClient) Delete(ctx context.Context, id int) (transport.Response, error) {
	return c.send(ctx, http.MethodDelete, c.DetailURL(id), nil)
}

func (c *AlbumsClient) send(
	ctx context.Context,
	method, url string,
	params *servicedef.AlbumParams,
) (transport.Response, error) {
	req := transport.Request{
		Method: method,
		URL:    url,
		Header: make(http.Header),
	}
	req.Header.Set(requestIDHeader, uuid.NewString())
	if params != nil {
		req.Body = []byte(params.Form().Encode())
		req.Header.Set("Content-Type", formContentType)
		c.logger.Printf("%s %s %s", method, url, params)
	} else {
		c.logger.Printf("%s %s", method, url)
	}

	resp, err := c.transport.Send(ctx, req)
	if err != nil {
		c.logger.Printf("%s %s failed: %s", method, url, err)
		return resp, fmt.Errorf("%s %s: %w", method, url, err)
	}
	c.logger.Printf("Got status %d: %s", resp.StatusCode, string(resp.Body))
	return resp, nil
}
