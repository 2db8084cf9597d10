package httpclient

import (
	"errors"
)

// Kind classifies an *Error. The set is closed.
type Kind int

const (
	// KindUnknown is a failure with no further information.
	KindUnknown Kind = iota
	// KindInvalidURL means the endpoint could not be turned into a URL.
	KindInvalidURL
	// KindUnauthorized means the server answered 401.
	KindUnauthorized
	// KindNetwork wraps a transport failure: DNS, refused, reset, timeout,
	// cancellation.
	KindNetwork
	// KindReason carries a free-text reason such as "server error".
	KindReason
)

func (k Kind) String() string {
	switch k {
	case KindInvalidURL:
		return "invalid_url"
	case KindUnauthorized:
		return "unauthorized"
	case KindNetwork:
		return "network"
	case KindReason:
		return "error"
	default:
		return "unknown"
	}
}

// Reasons produced by the client itself.
const (
	ReasonNoConnectivity  = "no connectivity"
	ReasonServerError     = "server error"
	ReasonInvalidResponse = "invalid response"
)

// Error is the only error type returned by Client calls.
type Error struct {
	Kind Kind
	// Reason is set for KindReason.
	Reason string
	// Err is the wrapped cause: the transport error for KindNetwork, the
	// mapped error for a KindReason built by ToError.
	Err error
}

// Sentinels for errors.Is. A sentinel with an empty Reason matches any
// error of its kind.
var (
	ErrInvalidURL      = &Error{Kind: KindInvalidURL}
	ErrUnknown         = &Error{Kind: KindUnknown}
	ErrUnauthorized    = &Error{Kind: KindUnauthorized}
	ErrNetwork         = &Error{Kind: KindNetwork}
	ErrNoConnectivity  = &Error{Kind: KindReason, Reason: ReasonNoConnectivity}
	ErrServerError     = &Error{Kind: KindReason, Reason: ReasonServerError}
	ErrInvalidResponse = &Error{Kind: KindReason, Reason: ReasonInvalidResponse}
)

func (e *Error) Error() string {
	switch e.Kind {
	case KindInvalidURL:
		return "Invalid URL"
	case KindUnauthorized:
		return "Unauthorized"
	case KindNetwork:
		if e.Err != nil {
			return e.Err.Error()
		}
		return "Network error"
	case KindReason:
		return e.Reason
	default:
		return "Unknown error"
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches sentinels by kind, and by reason when the sentinel has one.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	return t.Reason == "" || t.Reason == e.Reason
}

// NewNetworkError wraps a transport failure.
func NewNetworkError(err error) *Error {
	return &Error{Kind: KindNetwork, Err: err}
}

// NewReasonError creates a KindReason error.
func NewReasonError(reason string) *Error {
	return &Error{Kind: KindReason, Reason: reason}
}

// ToError maps any error into the taxonomy. Nil stays nil, an *Error
// anywhere in the chain is returned as is, anything else becomes a
// KindReason carrying the error's text.
func ToError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return &Error{Kind: KindReason, Reason: err.Error(), Err: err}
}

func kindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// IsUnauthorized reports whether err is a 401.
func IsUnauthorized(err error) bool {
	k, ok := kindOf(err)
	return ok && k == KindUnauthorized
}

// IsNetwork reports whether err is a transport failure.
func IsNetwork(err error) bool {
	k, ok := kindOf(err)
	return ok && k == KindNetwork
}

// IsInvalidURL reports whether err came from building the URL.
func IsInvalidURL(err error) bool {
	k, ok := kindOf(err)
	return ok && k == KindInvalidURL
}

// Reason returns the reason text of a KindReason error.
func Reason(err error) (string, bool) {
	var e *Error
	if errors.As(err, &e) && e.Kind == KindReason {
		return e.Reason, true
	}
	return "", false
}
