package payu

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrClient is returned for 4xx responses without a more specific kind.
	ErrClient = errors.New("payu client error")

	// ErrUnauthorized is returned for HTTP 401 (missing or expired access token).
	ErrUnauthorized = errors.New("payu unauthorized")

	// ErrForbidden is returned for HTTP 403.
	ErrForbidden = errors.New("payu forbidden")

	// ErrNotFound is returned for HTTP 404.
	ErrNotFound = errors.New("payu resource not found")

	// ErrRateLimited is returned for HTTP 429.
	ErrRateLimited = errors.New("payu rate limited")

	// ErrServer is returned for 5xx and any other unexpected status.
	ErrServer = errors.New("payu server error")

	// ErrNetwork is returned when the request never got a response.
	ErrNetwork = errors.New("payu network error")

	// ErrValidation is returned when request parameters fail validation.
	ErrValidation = errors.New("Validation failed")

	// ErrMissingAccessToken is returned for authorized calls made before OAuthToken.
	ErrMissingAccessToken = errors.New("access_token is required for this request (call OAuthToken first or set AccessToken)")
)

// ResponseError describes a non-2xx/3xx response from the API.
type ResponseError struct {
	Message       string
	HTTPStatus    int
	CorrelationID string
	RawBody       []byte
	// ParsedBody is the decoded JSON body, or the raw body as string when it
	// is not JSON.
	ParsedBody any

	kind error
}

func (e *ResponseError) Error() string {
	return e.Message
}

func (e *ResponseError) Unwrap() error {
	return e.kind
}

// StatusCode returns status.statusCode from the PayU error body, if any.
func (e *ResponseError) StatusCode() string {
	code, _ := statusFields(e.ParsedBody)
	return code
}

// NetworkError wraps transport failures (timeouts, refused connections).
type NetworkError struct {
	Message  string
	Original error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %v", e.Message, e.Original)
}

func (e *NetworkError) Unwrap() []error {
	return []error{ErrNetwork, e.Original}
}

// ValidationError carries per-field messages keyed by the JSON field path,
// e.g. "products[0].unitPrice".
type ValidationError struct {
	Errors map[string][]string
	Input  any
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return ErrValidation.Error()
	}
	parts := make([]string, 0, len(e.Errors))
	for _, field := range sortedKeys(e.Errors) {
		parts = append(parts, field+" "+strings.Join(e.Errors[field], ", "))
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func kindForStatus(status int) error {
	switch {
	case status == http.StatusUnauthorized:
		return ErrUnauthorized
	case status == http.StatusForbidden:
		return ErrForbidden
	case status == http.StatusNotFound:
		return ErrNotFound
	case status == http.StatusTooManyRequests:
		return ErrRateLimited
	case status >= 400 && status < 500:
		return ErrClient
	default:
		return ErrServer
	}
}

// IsRetryable reports whether err is worth retrying: network failures, 429 and 5xx.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrNetwork) || errors.Is(err, ErrServer) || errors.Is(err, ErrRateLimited)
}
