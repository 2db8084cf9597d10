package httpclient

import "time"

// Result is either a value or an *Error, never both.
type Result[T any] struct {
	value T
	err   *Error
}

// Ok wraps a successful value.
func Ok[T any](v T) Result[T] {
	return Result[T]{value: v}
}

// Fail wraps err through ToError. A nil err becomes an unknown error.
func Fail[T any](err error) Result[T] {
	e := ToError(err)
	if e == nil {
		e = &Error{Kind: KindUnknown}
	}
	return Result[T]{err: e}
}

// Get returns the value or the error.
func (r Result[T]) Get() (T, error) {
	if r.err != nil {
		var zero T
		return zero, r.err
	}
	return r.value, nil
}

// Value returns the value and whether the result succeeded.
func (r Result[T]) Value() (T, bool) {
	return r.value, r.err == nil
}

// Err returns the failure, or nil.
func (r Result[T]) Err() error {
	if r.err == nil {
		return nil
	}
	return r.err
}

// IsOk reports whether r holds a value.
func (r Result[T]) IsOk() bool { return r.err == nil }

// Envelope carries everything known about one call or attempt: the
// request, the raw response and the interpreted result.
type Envelope[T any] struct {
	Request *PreparedRequest
	// StatusCode is 0 when no response arrived.
	StatusCode int
	Headers    map[string]string
	Result     Result[T]
	// Data is the raw response body.
	Data []byte
	// Attempt is 1-based; 0 means no transport attempt was made.
	Attempt  int
	Duration time.Duration
}

// Value projects Result.Value.
func (e Envelope[T]) Value() (T, bool) { return e.Result.Value() }

// Err projects Result.Err.
func (e Envelope[T]) Err() error { return e.Result.Err() }

// Status returns the status code, if a response arrived.
func (e Envelope[T]) Status() (int, bool) {
	return e.StatusCode, e.StatusCode != 0
}
