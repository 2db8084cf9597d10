package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/kbukum/restkit/httpclient"
)

const contentTypeJSON = "application/json"

// Client is a JSON-focused REST client that wraps the base HTTP client.
// Requests default to Accept: application/json; bodies encoded from values
// are sent as application/json.
type Client struct {
	http *httpclient.Client
}

// New creates a REST client from the given config.
func New(cfg httpclient.Config, opts ...httpclient.Option) (*Client, error) {
	headers := make(map[httpclient.HeaderField]string, len(cfg.DefaultHeaders)+1)
	for k, v := range cfg.DefaultHeaders {
		headers[k] = v
	}
	if _, ok := headers[httpclient.HeaderAccept]; !ok {
		headers[httpclient.HeaderAccept] = contentTypeJSON
	}
	cfg.DefaultHeaders = headers

	c, err := httpclient.New(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Client{http: c}, nil
}

// NewFromClient creates a REST client from an existing HTTP client.
func NewFromClient(c *httpclient.Client) *Client {
	return &Client{http: c}
}

// HTTP returns the underlying HTTP client.
func (c *Client) HTTP() *httpclient.Client {
	return c.http
}

// Close closes the underlying HTTP client.
func (c *Client) Close() error {
	return c.http.Close()
}

// RequestOption configures a single endpoint.
type RequestOption func(*httpclient.Endpoint)

// WithQuery appends a query item. Items keep the order they are added in.
func WithQuery(name, value string) RequestOption {
	return func(e *httpclient.Endpoint) {
		*e = e.WithQuery(name, value)
	}
}

// WithHeader sets one of the supported header fields.
func WithHeader(field httpclient.HeaderField, value string) RequestOption {
	return func(e *httpclient.Endpoint) {
		*e = e.WithHeader(field, value)
	}
}

// WithBearer sets Authorization: Bearer <token>.
func WithBearer(token string) RequestOption {
	return WithHeader(httpclient.HeaderAuthorization, "Bearer "+token)
}

// WithHost overrides the client's default host.
func WithHost(host string) RequestOption {
	return func(e *httpclient.Endpoint) { e.Host = host }
}

// WithScheme overrides the client's default scheme.
func WithScheme(scheme httpclient.Scheme) RequestOption {
	return func(e *httpclient.Endpoint) { e.Scheme = scheme }
}

// Endpoint builds a descriptor for use with httpclient.Go or
// httpclient.Stream.
func Endpoint(method httpclient.Method, path string, body []byte, opts ...RequestOption) httpclient.Endpoint {
	ep := httpclient.Endpoint{Path: path, Method: method, Body: body}
	for _, opt := range opts {
		opt(&ep)
	}
	return ep
}

// Response wraps a typed REST response.
type Response[T any] struct {
	// StatusCode is the HTTP status code.
	StatusCode int
	// Headers are the response headers.
	Headers map[string]string
	// Data is the decoded response body.
	Data T
}

// Get performs a GET request and decodes the JSON response into type T.
func Get[T any](ctx context.Context, c *Client, path string, opts ...RequestOption) (*Response[T], error) {
	return do[T](ctx, c, Endpoint(httpclient.MethodGet, path, nil, opts...))
}

// Post performs a POST request with a JSON body and decodes the response into type T.
func Post[T any](ctx context.Context, c *Client, path string, body any, opts ...RequestOption) (*Response[T], error) {
	return withBody[T](ctx, c, httpclient.MethodPost, path, body, opts)
}

// Put performs a PUT request with a JSON body and decodes the response into type T.
func Put[T any](ctx context.Context, c *Client, path string, body any, opts ...RequestOption) (*Response[T], error) {
	return withBody[T](ctx, c, httpclient.MethodPut, path, body, opts)
}

// Patch performs a PATCH request with a JSON body and decodes the response into type T.
func Patch[T any](ctx context.Context, c *Client, path string, body any, opts ...RequestOption) (*Response[T], error) {
	return withBody[T](ctx, c, httpclient.MethodPatch, path, body, opts)
}

// Delete performs a DELETE request and decodes the response into type T.
func Delete[T any](ctx context.Context, c *Client, path string, opts ...RequestOption) (*Response[T], error) {
	return do[T](ctx, c, Endpoint(httpclient.MethodDelete, path, nil, opts...))
}

// Upload sends file as multipart/form-data and decodes the response into type T.
func Upload[T any](ctx context.Context, c *Client, path string, file httpclient.MultipartFile, opts ...RequestOption) (*Response[T], error) {
	return do[T](ctx, c, Endpoint(httpclient.Multipart(file), path, nil, opts...))
}

// EncodeJSON marshals body unless it already is raw bytes.
func EncodeJSON(body any) ([]byte, error) {
	switch b := body.(type) {
	case nil:
		return nil, nil
	case []byte:
		return b, nil
	case json.RawMessage:
		return b, nil
	}
	data, err := json.Marshal(body)
	if err != nil {
		return nil, httpclient.ToError(fmt.Errorf("httpclient/rest: encode body: %w", err))
	}
	return data, nil
}

func withBody[T any](ctx context.Context, c *Client, method httpclient.Method, path string, body any, opts []RequestOption) (*Response[T], error) {
	data, err := EncodeJSON(body)
	if err != nil {
		return nil, err
	}
	ep := Endpoint(method, path, data, opts...)
	if _, ok := ep.Headers[httpclient.HeaderContentType]; !ok && data != nil {
		ep = ep.WithHeader(httpclient.HeaderContentType, contentTypeJSON)
	}
	return do[T](ctx, c, ep)
}

func do[T any](ctx context.Context, c *Client, ep httpclient.Endpoint) (*Response[T], error) {
	env := httpclient.DoEnvelope[T](ctx, c.http, ep)
	data, ok := env.Value()
	if !ok {
		return nil, env.Err()
	}
	return &Response[T]{
		StatusCode: env.StatusCode,
		Headers:    env.Headers,
		Data:       data,
	}, nil
}

// StatusText is a convenience for logging a response status.
func (r *Response[T]) StatusText() string {
	return http.StatusText(r.StatusCode)
}
