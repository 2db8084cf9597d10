package httpclient

import (
	"net/http"

	"github.com/kbukum/restkit/validation"
)

// Scheme is the URL scheme of an endpoint.
type Scheme string

const (
	SchemeHTTP  Scheme = "http"
	SchemeHTTPS Scheme = "https"
)

// HeaderField is one of the request headers an endpoint may set.
type HeaderField string

const (
	HeaderContentType   HeaderField = "Content-Type"
	HeaderAccept        HeaderField = "Accept"
	HeaderAuthorization HeaderField = "Authorization"
)

// QueryItem is a single name=value pair. Endpoint.Query keeps items in the
// order they were added, duplicates included.
type QueryItem struct {
	Name  string
	Value string
}

// MultipartFile is the payload of a multipart upload: one file plus
// optional plain form fields.
type MultipartFile struct {
	FileName string
	Data     []byte
	MimeType string
	Fields   map[string]string
}

// Method is the HTTP method of an endpoint. The zero value is GET.
// A multipart method always goes out as POST and carries its file.
type Method struct {
	verb string
	file *MultipartFile
}

var (
	MethodGet    = Method{verb: http.MethodGet}
	MethodPost   = Method{verb: http.MethodPost}
	MethodPut    = Method{verb: http.MethodPut}
	MethodPatch  = Method{verb: http.MethodPatch}
	MethodDelete = Method{verb: http.MethodDelete}
)

// Multipart returns the upload method for file.
func Multipart(file MultipartFile) Method {
	f := file
	return Method{verb: http.MethodPost, file: &f}
}

// Verb returns the HTTP verb sent on the wire.
func (m Method) Verb() string {
	if m.verb == "" {
		return http.MethodGet
	}
	return m.verb
}

// IsMultipart reports whether m is an upload.
func (m Method) IsMultipart() bool { return m.file != nil }

// File returns the upload payload of a multipart method.
func (m Method) File() (MultipartFile, bool) {
	if m.file == nil {
		return MultipartFile{}, false
	}
	return *m.file, true
}

// HasBody reports whether requests with this method carry Endpoint.Body.
func (m Method) HasBody() bool {
	switch m.Verb() {
	case http.MethodGet, http.MethodDelete:
		return false
	}
	return m.file == nil
}

func (m Method) String() string {
	if m.file != nil {
		return "MULTIPART"
	}
	return m.Verb()
}

// Endpoint describes one REST call as data.
type Endpoint struct {
	Scheme  Scheme                 `validate:"omitempty,oneof=http https"`
	Host    string                 `validate:"omitempty,nocrlf"`
	Path    string                 `validate:"omitempty,startswith=/"`
	Query   []QueryItem
	Method  Method
	Headers map[HeaderField]string `validate:"dive,keys,oneof=Content-Type Accept Authorization,endkeys,nocrlf"`
	Body    []byte
}

// Validate checks the descriptor fields that do not need URL parsing.
func (e Endpoint) Validate() error {
	return validation.Struct(e)
}

// WithQuery returns a copy of e with item appended to the query.
func (e Endpoint) WithQuery(name, value string) Endpoint {
	q := make([]QueryItem, len(e.Query), len(e.Query)+1)
	copy(q, e.Query)
	e.Query = append(q, QueryItem{Name: name, Value: value})
	return e
}

// WithHeader returns a copy of e with field set to value.
func (e Endpoint) WithHeader(field HeaderField, value string) Endpoint {
	h := make(map[HeaderField]string, len(e.Headers)+1)
	for k, v := range e.Headers {
		h[k] = v
	}
	h[field] = value
	e.Headers = h
	return e
}
