package httpclient

// Category is the coarse class of an HTTP status code.
type Category int

const (
	CategoryInformational Category = iota
	CategorySuccess
	CategoryRedirect
	CategoryClientError
	CategoryServerError
	CategoryUnauthorized
	CategorySystemError
)

func (c Category) String() string {
	switch c {
	case CategoryInformational:
		return "informational"
	case CategorySuccess:
		return "success"
	case CategoryRedirect:
		return "redirect"
	case CategoryClientError:
		return "client_error"
	case CategoryServerError:
		return "server_error"
	case CategoryUnauthorized:
		return "unauthorized"
	default:
		return "system_error"
	}
}

// IsFailure reports whether the client fails a call in this category
// without decoding the body.
func (c Category) IsFailure() bool {
	switch c {
	case CategoryClientError, CategoryServerError, CategoryUnauthorized:
		return true
	}
	return false
}

// Classify maps a status code to its category. 401 is singled out of the
// 4xx range; anything outside 100..599 is a system error.
func Classify(status int) Category {
	switch {
	case status == 401:
		return CategoryUnauthorized
	case status >= 100 && status < 200:
		return CategoryInformational
	case status >= 200 && status < 300:
		return CategorySuccess
	case status >= 300 && status < 400:
		return CategoryRedirect
	case status >= 400 && status < 500:
		return CategoryClientError
	case status >= 500 && status < 600:
		return CategoryServerError
	default:
		return CategorySystemError
	}
}

// failure maps a failing category to its error, nil otherwise.
func (c Category) failure() *Error {
	switch c {
	case CategoryUnauthorized:
		return &Error{Kind: KindUnauthorized}
	case CategoryClientError, CategoryServerError:
		return NewReasonError(ReasonServerError)
	}
	return nil
}
