package client

import (
	"errors"
	"fmt"
)

// Typed errors for API calls. Callers use errors.Is() for reliable error
// detection instead of fragile string matching.
var (
	// ErrBadRequest indicates the request was malformed or invalid (HTTP 400).
	ErrBadRequest = errors.New("bad request")

	// ErrUnauthorized indicates missing, invalid, or expired credentials (HTTP 401).
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates the request was rejected due to insufficient permissions (HTTP 403).
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound indicates the requested resource does not exist (HTTP 404).
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates the request conflicts with current state,
	// e.g. a duplicate like (HTTP 409).
	ErrConflict = errors.New("conflict")

	// ErrServer indicates the server failed to process the request (HTTP 5xx).
	ErrServer = errors.New("server error")

	// ErrNetwork indicates the request never produced an HTTP response.
	ErrNetwork = errors.New("network error")

	// ErrValidation indicates the input was rejected client-side before
	// any request was issued.
	ErrValidation = errors.New("validation failed")
)

// APIError is a non-2xx response decoded into a typed error. It unwraps to
// the sentinel matching its status code, so both errors.Is(err, ErrConflict)
// and inspection of the server-provided message work.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api error %d", e.Status)
}

func (e *APIError) Unwrap() error {
	switch {
	case e.Status == 400:
		return ErrBadRequest
	case e.Status == 401:
		return ErrUnauthorized
	case e.Status == 403:
		return ErrForbidden
	case e.Status == 404:
		return ErrNotFound
	case e.Status == 409:
		return ErrConflict
	case e.Status >= 500:
		return ErrServer
	}
	return nil
}

// IsAuthError reports whether the error is an authentication/authorization
// failure for which re-login might help.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrForbidden)
}

// IsNetworkError reports whether the request failed without a usable
// response: transport failure or server 5xx.
func IsNetworkError(err error) bool {
	return errors.Is(err, ErrNetwork) || errors.Is(err, ErrServer)
}

// ServerMessage extracts the server-provided error message, or returns
// fallback when the error carries none.
func ServerMessage(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
