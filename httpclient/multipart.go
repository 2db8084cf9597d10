package httpclient

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// newBoundary returns "Boundary+" followed by 16 upper-case hex digits.
func newBoundary() string {
	id := uuid.New()
	return fmt.Sprintf("Boundary+%X", id[:8])
}

func multipartContentType(boundary string) string {
	return "multipart/form-data; boundary=" + boundary
}

// encodeMultipart writes one section per form field, sorted by name, then
// the file section named "file", then the closing delimiter.
func encodeMultipart(file MultipartFile, boundary string) ([]byte, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := w.SetBoundary(boundary); err != nil {
		return nil, fmt.Errorf("httpclient: multipart boundary: %w", err)
	}

	names := make([]string, 0, len(file.Fields))
	for name := range file.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := w.WriteField(name, file.Fields[name]); err != nil {
			return nil, fmt.Errorf("httpclient: write field %q: %w", name, err)
		}
	}

	mimeType := file.MimeType
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="file"; filename="%s"`, escapeQuotes(file.FileName)))
	h.Set("Content-Type", mimeType)
	part, err := w.CreatePart(h)
	if err != nil {
		return nil, fmt.Errorf("httpclient: create file part: %w", err)
	}
	if _, err := part.Write(file.Data); err != nil {
		return nil, fmt.Errorf("httpclient: write file part: %w", err)
	}

	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("httpclient: close multipart: %w", err)
	}
	return buf.Bytes(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
