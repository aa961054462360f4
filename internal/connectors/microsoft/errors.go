package microsoft

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/custodia-labs/onenote-cli/internal/core/domain"
)

// Error types for Microsoft Graph API responses.
var (
	// ErrUnauthorised indicates the access token is invalid or expired.
	ErrUnauthorised = errors.New("microsoft: unauthorised")

	// ErrForbidden indicates the user lacks permission for the requested resource.
	ErrForbidden = errors.New("microsoft: forbidden")

	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("microsoft: not found")

	// ErrRateLimited indicates the request was throttled by Microsoft Graph.
	ErrRateLimited = errors.New("microsoft: rate limited")

	// ErrConflict indicates the resource changed in a way that conflicts with the request.
	ErrConflict = errors.New("microsoft: conflict")

	// ErrPreconditionFailed indicates the If-Match entity tag no longer matches.
	// The page changed since its ETag was read; re-read and resubmit.
	ErrPreconditionFailed = errors.New("microsoft: precondition failed")

	// ErrBadRequest indicates the request was malformed.
	ErrBadRequest = errors.New("microsoft: bad request")

	// ErrServerError indicates a server-side error from Microsoft Graph.
	ErrServerError = errors.New("microsoft: server error")
)

// maxErrorBody bounds how much of an error response is kept.
const maxErrorBody = 64 * 1024

// WrapError converts an HTTP status code to an appropriate error.
func WrapError(statusCode int) error {
	switch statusCode {
	case http.StatusUnauthorized:
		return ErrUnauthorised
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusConflict:
		return ErrConflict
	case http.StatusPreconditionFailed:
		return ErrPreconditionFailed
	case http.StatusTooManyRequests:
		return ErrRateLimited
	case http.StatusBadRequest:
		return ErrBadRequest
	default:
		if statusCode >= 500 {
			return ErrServerError
		}
		return nil
	}
}

// NewHTTPError builds a domain.HTTPError from a failed response.
// The response body is read (bounded) but not closed.
func NewHTTPError(resp *http.Response) *domain.HTTPError {
	httpErr := &domain.HTTPError{
		StatusCode: resp.StatusCode,
		Err:        WrapError(resp.StatusCode),
	}
	if resp.Request != nil {
		httpErr.Method = resp.Request.Method
		if resp.Request.URL != nil {
			httpErr.URL = resp.Request.URL.String()
		}
	}
	if resp.Body != nil {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		httpErr.Body = strings.TrimSpace(string(body))
	}
	return httpErr
}

// IsSuccess reports whether the status code is 2xx.
func IsSuccess(statusCode int) bool {
	return statusCode >= 200 && statusCode < 300
}

// IsUnauthorised checks if the status code indicates an authentication failure.
func IsUnauthorised(statusCode int) bool {
	return statusCode == http.StatusUnauthorized
}

// IsPreconditionFailed checks if the status code indicates a stale ETag.
func IsPreconditionFailed(statusCode int) bool {
	return statusCode == http.StatusPreconditionFailed
}

// IsRateLimited checks if the status code indicates rate limiting.
func IsRateLimited(statusCode int) bool {
	return statusCode == http.StatusTooManyRequests
}

// IsNotFound checks if the status code indicates a missing resource.
func IsNotFound(statusCode int) bool {
	return statusCode == http.StatusNotFound
}
