package httpclient

import (
	"bytes"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"regexp"
	"strings"
	"testing"
)

func TestBuild_URL(t *testing.T) {
	tests := []struct {
		name string
		ep   Endpoint
		want string
	}{
		{
			name: "defaults to https",
			ep:   Endpoint{Host: "api.example.com", Path: "/users"},
			want: "https://api.example.com/users",
		},
		{
			name: "http with port",
			ep:   Endpoint{Scheme: SchemeHTTP, Host: "localhost:8080", Path: "/v1/items"},
			want: "http://localhost:8080/v1/items",
		},
		{
			name: "query order and duplicates kept",
			ep: Endpoint{Host: "api.example.com", Path: "/search", Query: []QueryItem{
				{Name: "q", Value: "a b"}, {Name: "page", Value: "2"}, {Name: "q", Value: "c&d"},
			}},
			want: "https://api.example.com/search?q=a%20b&page=2&q=c%26d",
		},
		{
			name: "empty path",
			ep:   Endpoint{Host: "api.example.com"},
			want: "https://api.example.com",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := Build(tt.ep)
			if err != nil {
				t.Fatalf("Build() error: %v", err)
			}
			if req.URL != tt.want {
				t.Errorf("URL = %q, want %q", req.URL, tt.want)
			}
			if req.ID == "" {
				t.Error("expected request ID")
			}
		})
	}
}

func TestBuild_InvalidURL(t *testing.T) {
	tests := []struct {
		name string
		ep   Endpoint
	}{
		{"empty host", Endpoint{Path: "/x"}},
		{"bad scheme", Endpoint{Scheme: "ftp", Host: "example.com"}},
		{"relative path", Endpoint{Host: "example.com", Path: "users"}},
		{"space in host", Endpoint{Host: "exa mple.com"}},
		{"path in host", Endpoint{Host: "example.com/users"}},
		{"bad host char", Endpoint{Host: "exa<mple.com"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(tt.ep)
			if !IsInvalidURL(err) {
				t.Fatalf("Build() error = %v, want invalid URL", err)
			}
			if !errors.Is(err, ErrInvalidURL) {
				t.Error("errors.Is(err, ErrInvalidURL) = false")
			}
			if err.Error() != "Invalid URL" {
				t.Errorf("Error() = %q", err.Error())
			}
		})
	}
}

func TestBuild_BodyByMethod(t *testing.T) {
	body := []byte(`{"a":1}`)
	tests := []struct {
		method   Method
		verb     string
		wantBody bool
	}{
		{MethodGet, http.MethodGet, false},
		{Method{}, http.MethodGet, false},
		{MethodDelete, http.MethodDelete, false},
		{MethodPost, http.MethodPost, true},
		{MethodPut, http.MethodPut, true},
		{MethodPatch, http.MethodPatch, true},
	}
	for _, tt := range tests {
		t.Run(tt.verb, func(t *testing.T) {
			req, err := Build(Endpoint{Host: "example.com", Method: tt.method, Body: body})
			if err != nil {
				t.Fatalf("Build() error: %v", err)
			}
			if req.Method != tt.verb {
				t.Errorf("Method = %s, want %s", req.Method, tt.verb)
			}
			if tt.wantBody && !bytes.Equal(req.Body, body) {
				t.Errorf("Body = %q, want %q", req.Body, body)
			}
			if !tt.wantBody && req.Body != nil {
				t.Errorf("Body = %q, want none", req.Body)
			}
		})
	}
}

func TestBuild_Headers(t *testing.T) {
	req, err := Build(Endpoint{
		Host: "example.com",
		Headers: map[HeaderField]string{
			HeaderAccept:        "application/json",
			HeaderAuthorization: "Bearer abc",
		},
	})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if got := req.Header.Get("Accept"); got != "application/json" {
		t.Errorf("Accept = %q", got)
	}
	if got := req.Header.Get("Authorization"); got != "Bearer abc" {
		t.Errorf("Authorization = %q", got)
	}
}

func TestBuild_HeaderInjectionRejected(t *testing.T) {
	_, err := Build(Endpoint{
		Host:    "example.com",
		Headers: map[HeaderField]string{HeaderAccept: "a\r\nX-Evil: 1"},
	})
	if _, ok := Reason(err); !ok {
		t.Fatalf("expected reason error, got %v", err)
	}
}

func TestBuild_HeaderOutsideSetRejected(t *testing.T) {
	_, err := Build(Endpoint{
		Host:    "api.example.com",
		Path:    "/x",
		Headers: map[HeaderField]string{"X-Not-Allowed": "1"},
	})
	reason, ok := Reason(err)
	if !ok {
		t.Fatalf("expected reason error, got %v", err)
	}
	if !strings.Contains(reason, "X-Not-Allowed") {
		t.Errorf("reason = %q", reason)
	}
}

func TestBuild_URLFailureWinsOverHeader(t *testing.T) {
	_, err := Build(Endpoint{
		Host:    "example.com",
		Path:    "x",
		Headers: map[HeaderField]string{"X-Other": "1"},
	})
	if !IsInvalidURL(err) {
		t.Errorf("Build() error = %v, want invalid URL", err)
	}
}

func TestEncodeQuery_Escaping(t *testing.T) {
	got := encodeQuery([]QueryItem{{Name: "q", Value: "a b+c"}, {Name: "k v", Value: "x=y"}})
	if want := "q=a%20b%2Bc&k%20v=x%3Dy"; got != want {
		t.Errorf("encodeQuery = %q, want %q", got, want)
	}
}

var boundaryPattern = regexp.MustCompile(`^Boundary\+[0-9A-F]{16}$`)

func TestBuild_MultipartSingleSection(t *testing.T) {
	ep := Endpoint{
		Host:    "example.com",
		Path:    "/upload",
		Method:  Multipart(MultipartFile{FileName: "f.txt", Data: []byte("hi"), MimeType: "text/plain"}),
		Headers: map[HeaderField]string{HeaderContentType: "application/json"},
		Body:    []byte("ignored"),
	}
	req, err := Build(ep)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if req.Method != http.MethodPost {
		t.Errorf("Method = %s, want POST", req.Method)
	}

	ct := req.Header.Get("Content-Type")
	mediaType, params, err := mime.ParseMediaType(ct)
	if err != nil {
		t.Fatalf("ParseMediaType(%q): %v", ct, err)
	}
	if mediaType != "multipart/form-data" {
		t.Errorf("media type = %q", mediaType)
	}
	boundary := params["boundary"]
	if !boundaryPattern.MatchString(boundary) {
		t.Errorf("boundary %q does not match Boundary+<16 hex>", boundary)
	}
	if !strings.HasPrefix(string(req.Body), "--"+boundary+"\r\n") {
		t.Errorf("body does not open with the boundary: %q", req.Body)
	}
	if !strings.HasSuffix(string(req.Body), "--"+boundary+"--\r\n") {
		t.Errorf("body does not close with the boundary: %q", req.Body)
	}
	if strings.Contains(string(req.Body), "ignored") {
		t.Error("multipart body must ignore Endpoint.Body")
	}

	parts := readParts(t, req.Body, boundary)
	if len(parts) != 1 {
		t.Fatalf("got %d sections, want 1", len(parts))
	}
	if parts[0].name != "file" || parts[0].filename != "f.txt" || parts[0].data != "hi" {
		t.Errorf("unexpected file section %+v", parts[0])
	}
}

func TestBuild_MultipartRoundTrip(t *testing.T) {
	file := MultipartFile{
		FileName: "f.txt",
		Data:     []byte("hi"),
		MimeType: "text/plain",
		Fields:   map[string]string{"a": "1"},
	}
	req, err := Build(Endpoint{Host: "example.com", Method: Multipart(file)})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	_, params, _ := mime.ParseMediaType(req.Header.Get("Content-Type"))

	parts := readParts(t, req.Body, params["boundary"])
	if len(parts) != 2 {
		t.Fatalf("got %d sections, want 2", len(parts))
	}
	if parts[0].name != "a" || parts[0].data != "1" {
		t.Errorf("field section = %+v", parts[0])
	}
	f := parts[1]
	if f.name != "file" || f.filename != "f.txt" || f.contentType != "text/plain" || f.data != "hi" {
		t.Errorf("file section = %+v", f)
	}
}

func TestBuild_MultipartBoundariesDiffer(t *testing.T) {
	ep := Endpoint{Host: "example.com", Method: Multipart(MultipartFile{FileName: "a", Data: []byte("x")})}
	r1, _ := Build(ep)
	r2, _ := Build(ep)
	if r1.Header.Get("Content-Type") == r2.Header.Get("Content-Type") {
		t.Error("expected a fresh boundary per request")
	}
}

func TestPreparedRequest_HTTPRequestReplays(t *testing.T) {
	req, err := Build(Endpoint{Host: "example.com", Method: MethodPost, Body: []byte("payload")})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	for i := 0; i < 2; i++ {
		hr, err := req.HTTPRequest(t.Context())
		if err != nil {
			t.Fatalf("HTTPRequest() error: %v", err)
		}
		b, _ := io.ReadAll(hr.Body)
		if string(b) != "payload" {
			t.Errorf("attempt %d body = %q", i+1, b)
		}
	}
}

func TestEndpoint_Validate(t *testing.T) {
	if err := (Endpoint{Host: "example.com", Path: "/x"}).Validate(); err != nil {
		t.Errorf("Validate() error: %v", err)
	}
	bad := Endpoint{Host: "example.com", Path: "x", Headers: map[HeaderField]string{"X-Other": "1"}}
	if err := bad.Validate(); err == nil {
		t.Error("expected validation error")
	}
}

func TestEndpoint_WithQueryDoesNotAlias(t *testing.T) {
	base := Endpoint{Host: "example.com", Query: make([]QueryItem, 0, 4)}
	a := base.WithQuery("a", "1")
	b := base.WithQuery("b", "2")
	if a.Query[0].Name != "a" || b.Query[0].Name != "b" {
		t.Errorf("queries alias: a=%v b=%v", a.Query, b.Query)
	}
}

type section struct {
	name, filename, contentType, data string
}

func readParts(t *testing.T, body []byte, boundary string) []section {
	t.Helper()
	mr := multipart.NewReader(bytes.NewReader(body), boundary)
	var out []section
	for {
		p, err := mr.NextPart()
		if err == io.EOF {
			return out
		}
		if err != nil {
			t.Fatalf("NextPart: %v", err)
		}
		data, _ := io.ReadAll(p)
		out = append(out, section{
			name:        p.FormName(),
			filename:    p.FileName(),
			contentType: p.Header.Get("Content-Type"),
			data:        string(data),
		})
	}
}
