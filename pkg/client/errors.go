package client

import (
	"errors"
	"fmt"
)

// Kind classifies where a request failed.
type Kind int

const (
	// KindHTTP is a non-2xx response from the API.
	KindHTTP Kind = iota
	// KindNetwork is a transport failure, timeout or cancellation.
	KindNetwork
	// KindConfig means no base URL is configured; nothing was sent.
	KindConfig
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindConfig:
		return "config"
	default:
		return "http"
	}
}

const (
	msgMissingBaseURL = "Missing FOLIO_API_BASE_URL. Please configure environment variables."
	msgNetwork        = "Network error contacting API"
	msgRequestFailed  = "Request failed"
)

// APIError is the single error type returned by the gateway.
type APIError struct {
	Kind Kind
	// Status is the HTTP status code, or 0 for config and network errors.
	Status int
	// Message is human readable: the server's detail when it is a string.
	Message string
	// Detail is the raw detail payload for programmatic use. For network
	// errors it is the cause description.
	Detail any
}

func (e *APIError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("%s error: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("HTTP %d: %s", e.Status, e.Message)
}

// Unauthorized reports whether the error should reach the unauthorized handler.
func (e *APIError) Unauthorized() bool {
	return e.Kind == KindHTTP && (e.Status == 401 || e.Status == 403)
}

// AsAPIError unwraps err to an *APIError.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsStatus returns true if err (or any wrapped error) is an APIError with the given status code.
func IsStatus(err error, code int) bool {
	if apiErr, ok := AsAPIError(err); ok {
		return apiErr.Status == code
	}
	return false
}

// IsKind returns true if err (or any wrapped error) is an APIError of kind k.
func IsKind(err error, k Kind) bool {
	if apiErr, ok := AsAPIError(err); ok {
		return apiErr.Kind == k
	}
	return false
}

// Message returns the user-facing message for err, or fallback when there
// is none. An empty server detail also yields fallback.
func Message(err error, fallback string) string {
	if apiErr, ok := AsAPIError(err); ok {
		if apiErr.Message == "" {
			return fallback
		}
		return apiErr.Message
	}
	if err != nil && err.Error() != "" {
		return err.Error()
	}
	return fallback
}
