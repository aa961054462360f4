package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across adapters.
var (
	// ErrEtagUnavailable indicates neither the page metadata nor the content
	// endpoint reported an entity tag, so a conditional patch cannot be sent.
	ErrEtagUnavailable = errors.New("etag unavailable")

	// ErrNotAuthenticated indicates no cached account exists.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrNotFound indicates a requested item does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates invalid input was provided.
	ErrInvalidInput = errors.New("invalid input")
)

// AuthError reports a failed token acquisition.
// Payload carries the provider's diagnostic response when one was returned.
type AuthError struct {
	Op      string
	Payload string
	Err     error
}

func (e *AuthError) Error() string {
	msg := "auth: " + e.Op + " failed"
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Payload != "" {
		msg += ": " + e.Payload
	}
	return msg
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// HTTPError reports a non-2xx response from the remote API.
// Err is an optional classification (see microsoft.WrapError).
type HTTPError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
	Err        error
}

func (e *HTTPError) Error() string {
	msg := fmt.Sprintf("%s %s: status %d", e.Method, e.URL, e.StatusCode)
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

// ValidationError reports bad caller input detected before any network call.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation: " + e.Message
	}
	return "validation: " + e.Field + ": " + e.Message
}

// Unwrap lets callers match ValidationError with errors.Is(err, ErrInvalidInput).
func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// StatusCode returns the HTTP status carried by err, or 0 when err is not an HTTPError.
func StatusCode(err error) int {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode
	}
	return 0
}
