package httpclient

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/kbukum/restkit/validation"
)

// PreparedRequest is a fully built request. The executor sends the same
// value on every attempt.
type PreparedRequest struct {
	// ID identifies the call in logs and spans.
	ID     string
	URL    string
	Method string
	Header http.Header
	Body   []byte
}

// HTTPRequest returns a net/http request with a fresh body reader.
func (r *PreparedRequest) HTTPRequest(ctx context.Context) (*http.Request, error) {
	var body io.Reader = http.NoBody
	if r.Body != nil {
		body = bytes.NewReader(r.Body)
	}
	req, err := http.NewRequestWithContext(ctx, r.Method, r.URL, body)
	if err != nil {
		return nil, err
	}
	req.Header = r.Header.Clone()
	if req.Header == nil {
		req.Header = make(http.Header)
	}
	return req, nil
}

// Build turns an endpoint into a request. It fails with KindInvalidURL
// when no absolute http(s) URL can be formed, and with a reason error
// when a header is outside the closed set or its value spans lines.
func Build(ep Endpoint) (*PreparedRequest, error) {
	if err := checkEndpoint(ep); err != nil {
		return nil, err
	}
	rawURL, err := buildURL(ep)
	if err != nil {
		return nil, err
	}

	header := make(http.Header, len(ep.Headers)+1)
	for field, value := range ep.Headers {
		header.Set(string(field), value)
	}

	req := &PreparedRequest{
		ID:     uuid.NewString(),
		URL:    rawURL,
		Method: ep.Method.Verb(),
		Header: header,
	}

	switch {
	case ep.Method.IsMultipart():
		file, _ := ep.Method.File()
		boundary := newBoundary()
		body, err := encodeMultipart(file, boundary)
		if err != nil {
			return nil, ToError(err)
		}
		req.Body = body
		header.Set(string(HeaderContentType), multipartContentType(boundary))
	case ep.Method.HasBody():
		req.Body = ep.Body
	}
	return req, nil
}

// checkEndpoint runs the descriptor's validate tags. Header failures
// become reason errors, everything else makes the URL invalid.
func checkEndpoint(ep Endpoint) error {
	err := ep.Validate()
	if err == nil {
		return nil
	}
	var verr *validation.Error
	if !errors.As(err, &verr) || len(verr.Fields) == 0 {
		return &Error{Kind: KindInvalidURL, Err: err}
	}
	for _, f := range verr.Fields {
		if !strings.HasPrefix(f.Field, "headers") {
			return &Error{Kind: KindInvalidURL, Err: err}
		}
	}
	header := verr.Fields[0]
	return &Error{Kind: KindReason, Reason: "invalid header " + header.Field + ": " + header.Message, Err: err}
}

func buildURL(ep Endpoint) (string, error) {
	scheme := ep.Scheme
	if scheme == "" {
		scheme = SchemeHTTPS
	}
	if !validHost(ep.Host) {
		return "", &Error{Kind: KindInvalidURL}
	}

	u := url.URL{
		Scheme:   string(scheme),
		Host:     ep.Host,
		Path:     ep.Path,
		RawQuery: encodeQuery(ep.Query),
	}
	s := u.String()

	parsed, err := url.Parse(s)
	if err != nil || parsed.Host == "" || parsed.Hostname() == "" {
		return "", &Error{Kind: KindInvalidURL, Err: err}
	}
	return s, nil
}

// validHost accepts a hostname, IPv4 or bracketed IPv6 address, with an
// optional port.
func validHost(host string) bool {
	if host == "" {
		return false
	}
	for _, r := range host {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '-', r == '.', r == '_', r == ':', r == '[', r == ']':
		default:
			return false
		}
	}
	return true
}

// encodeQuery keeps item order; url.Values would sort by name. Spaces
// go out as %20.
func encodeQuery(items []QueryItem) string {
	if len(items) == 0 {
		return ""
	}
	var b strings.Builder
	for i, item := range items {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(queryEscape(item.Name))
		b.WriteByte('=')
		b.WriteString(queryEscape(item.Value))
	}
	return b.String()
}

// queryEscape is url.QueryEscape with "+" for space replaced. A literal
// plus is already %2B at that point.
func queryEscape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
