package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// HTTPError is an error that knows how it should be rendered to an API client.
type HTTPError struct {
	StatusCode int
	Code       int
	Message    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Code, e.Message)
}

// NewHTTPError returns a 400 error with the given application code.
func NewHTTPError(code int, message string) *HTTPError {
	return &HTTPError{StatusCode: http.StatusBadRequest, Code: code, Message: message}
}

// NewHTTPErrorWithStatus returns an error rendered with an explicit HTTP status.
func NewHTTPErrorWithStatus(status, code int, message string) *HTTPError {
	return &HTTPError{StatusCode: status, Code: code, Message: message}
}

// AsHTTPError unwraps err into an *HTTPError when possible.
func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	if errors.As(err, &he) {
		return he, true
	}
	return nil, false
}
