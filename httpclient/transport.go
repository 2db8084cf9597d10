package httpclient

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"golang.org/x/net/http2"
)

// RawResponse is an undecoded HTTP response.
type RawResponse struct {
	StatusCode int
	Headers    map[string]string
	Body       []byte
}

// Transport sends a prepared request. A returned error is a transport
// failure; any HTTP status, including 5xx, is a RawResponse.
type Transport interface {
	RoundTrip(ctx context.Context, req *PreparedRequest) (*RawResponse, error)
}

// TransportFunc adapts a function to Transport.
type TransportFunc func(ctx context.Context, req *PreparedRequest) (*RawResponse, error)

func (f TransportFunc) RoundTrip(ctx context.Context, req *PreparedRequest) (*RawResponse, error) {
	return f(ctx, req)
}

// SessionConfig tunes the pooled net/http transport behind a Session.
type SessionConfig struct {
	Timeout             time.Duration
	MaxIdleConns        int
	MaxIdleConnsPerHost int
	IdleConnTimeout     time.Duration
	DisableHTTP2        bool
}

// Session is a pooled HTTP/1.1 and HTTP/2 transport. It is safe for
// concurrent use and must be closed to release idle connections.
type Session struct {
	client    *http.Client
	transport *http.Transport
}

var _ Transport = (*Session)(nil)

// NewSession creates a session. Zero fields take the package defaults.
func NewSession(cfg SessionConfig) (*Session, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.MaxIdleConns <= 0 {
		cfg.MaxIdleConns = defaultMaxIdleConns
	}
	if cfg.MaxIdleConnsPerHost <= 0 {
		cfg.MaxIdleConnsPerHost = defaultMaxIdleConnsPerHost
	}
	if cfg.IdleConnTimeout <= 0 {
		cfg.IdleConnTimeout = defaultIdleConnTimeout
	}

	t := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          cfg.MaxIdleConns,
		MaxIdleConnsPerHost:   cfg.MaxIdleConnsPerHost,
		IdleConnTimeout:       cfg.IdleConnTimeout,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	if !cfg.DisableHTTP2 {
		if err := http2.ConfigureTransport(t); err != nil {
			return nil, fmt.Errorf("httpclient: configure http2: %w", err)
		}
	}

	return &Session{
		client:    &http.Client{Transport: t, Timeout: cfg.Timeout},
		transport: t,
	}, nil
}

// RoundTrip sends req and reads the whole body.
func (s *Session) RoundTrip(ctx context.Context, req *PreparedRequest) (*RawResponse, error) {
	httpReq, err := req.HTTPRequest(ctx)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	return &RawResponse{
		StatusCode: resp.StatusCode,
		Headers:    flattenHeader(resp.Header),
		Body:       body,
	}, nil
}

// Close drops idle connections.
func (s *Session) Close() {
	s.transport.CloseIdleConnections()
}

// flattenHeader keeps the first value of each header.
func flattenHeader(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k, v := range h {
		if len(v) > 0 {
			out[k] = v[0]
		}
	}
	return out
}
