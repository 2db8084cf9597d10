package httpclient

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"time"
)

// Decoder turns a response body into the caller's type. target is always
// a non-nil pointer.
type Decoder interface {
	Decode(data []byte, target any) error
}

// DecoderFunc adapts a function to Decoder.
type DecoderFunc func(data []byte, target any) error

func (f DecoderFunc) Decode(data []byte, target any) error { return f(data, target) }

// Empty is a target for endpoints that answer without a body. It accepts
// an empty payload or any JSON document.
type Empty struct{}

var (
	errMalformedPayload = errors.New("malformed payload")
	errTimeField        = errors.New("time.Time is not a supported date field, use httpclient.Date")
)

// JSONDecoder decodes JSON. Dates must use Date; targets containing
// time.Time are refused so only the yyyy-MM-dd convention applies.
// A *[]byte target receives the raw body.
type JSONDecoder struct{}

func (JSONDecoder) Decode(data []byte, target any) error {
	if raw, ok := target.(*[]byte); ok {
		*raw = append((*raw)[:0], data...)
		return nil
	}
	if _, ok := target.(*Empty); ok && len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := checkShape(reflect.TypeOf(target)); err != nil {
		return fmt.Errorf("decode %T: %w", target, err)
	}
	if err := json.Unmarshal(data, target); err != nil {
		var syntax *json.SyntaxError
		if errors.As(err, &syntax) {
			return fmt.Errorf("decode %T: %w at offset %d: %v", target, errMalformedPayload, syntax.Offset, syntax)
		}
		return fmt.Errorf("decode %T: %w", target, err)
	}
	return nil
}

// decodeFailure maps a decoder error into the taxonomy.
func decodeFailure(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return &Error{Kind: KindReason, Reason: "decode: " + err.Error(), Err: err}
}

var (
	timeType        = reflect.TypeOf(time.Time{})
	unmarshalerType = reflect.TypeOf((*json.Unmarshaler)(nil)).Elem()
	shapeCache      sync.Map // reflect.Type -> shapeResult
)

type shapeResult struct{ err error }

// checkShape walks the target type once per type and remembers the verdict.
func checkShape(t reflect.Type) error {
	if t == nil {
		return nil
	}
	if cached, ok := shapeCache.Load(t); ok {
		return cached.(shapeResult).err
	}
	err := walkShape(t, map[reflect.Type]bool{})
	shapeCache.Store(t, shapeResult{err: err})
	return err
}

func walkShape(t reflect.Type, seen map[reflect.Type]bool) error {
	if seen[t] {
		return nil
	}
	seen[t] = true

	if t == timeType {
		return errTimeField
	}
	if t.Kind() != reflect.Pointer && reflect.PointerTo(t).Implements(unmarshalerType) {
		return nil
	}

	switch t.Kind() {
	case reflect.Pointer, reflect.Slice, reflect.Array:
		return walkShape(t.Elem(), seen)
	case reflect.Map:
		return walkShape(t.Elem(), seen)
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if !f.IsExported() && !f.Anonymous {
				continue
			}
			if f.Tag.Get("json") == "-" {
				continue
			}
			if err := walkShape(f.Type, seen); err != nil {
				return fmt.Errorf("field %s: %w", f.Name, err)
			}
		}
	}
	return nil
}

// DateLayout is the only accepted date format.
const DateLayout = "2006-01-02"

// Date is a calendar day encoded as "yyyy-MM-dd" in UTC.
type Date struct {
	time.Time
}

// NewDate returns the date at midnight UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses s strictly as yyyy-MM-dd.
func ParseDate(s string) (Date, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return Date{}, fmt.Errorf("date %q does not match yyyy-MM-dd", s)
	}
	return Date{t}, nil
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
