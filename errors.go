package goAuthClient

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrClientClosed is an exported constant or variable used by the client SDK.
	ErrClientClosed = errors.New("client closed")
	// ErrClientNotReady is an exported constant or variable used by the client SDK.
	ErrClientNotReady = errors.New("client not ready")
	// ErrNotAuthenticated is an exported constant or variable used by the client SDK.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrInvalidCredentials is an exported constant or variable used by the client SDK.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAccountExists is an exported constant or variable used by the client SDK.
	ErrAccountExists = errors.New("account already exists")
	// ErrRegistrationFailed is an exported constant or variable used by the client SDK.
	ErrRegistrationFailed = errors.New("registration failed")
	// ErrValidation is an exported constant or variable used by the client SDK.
	ErrValidation = errors.New("request validation failed")
	// ErrUnauthorized is an exported constant or variable used by the client SDK.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden is an exported constant or variable used by the client SDK.
	ErrForbidden = errors.New("forbidden")
	// ErrUserNotFound is an exported constant or variable used by the client SDK.
	ErrUserNotFound = errors.New("user not found")
	// ErrServer is an exported constant or variable used by the client SDK.
	ErrServer = errors.New("server error")
	// ErrSessionExpired is an exported constant or variable used by the client SDK.
	ErrSessionExpired = errors.New("session expired")
	// ErrExchangeIncomplete is an exported constant or variable used by the client SDK.
	ErrExchangeIncomplete = errors.New("server response missing credential pair")
)

// APIError defines a public type used by goAuthClient APIs.
//
// APIError instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
//
// An APIError carries the server-reported failure alongside a sentinel reachable
// through errors.Is: ErrValidation, ErrInvalidCredentials, ErrUnauthorized,
// ErrForbidden, ErrUserNotFound, ErrAccountExists, or ErrServer.
type APIError struct {
	Status  int
	Message string
	Path    string
	TraceID string
	// Fields maps request field names to server-side validation messages.
	Fields map[string]string

	sentinel error
}

// Error describes the error operation and its observable behavior.
func (e *APIError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "account service: status %d", e.Status)
	if e.Message != "" {
		fmt.Fprintf(&b, ": %s", e.Message)
	}
	if len(e.Fields) > 0 {
		fmt.Fprintf(&b, " (%d field errors)", len(e.Fields))
	}
	return b.String()
}

// Unwrap describes the unwrap operation and its observable behavior.
func (e *APIError) Unwrap() error {
	return e.sentinel
}

// newAPIError maps an HTTP status and decoded server error body to an
// *APIError with the matching sentinel. authEndpoint selects the login/
// registration taxonomy where a 401 means bad credentials, not an expired
// session.
func newAPIError(status int, body serverError, path string, authEndpoint bool) *APIError {
	e := &APIError{
		Status:  status,
		Message: body.Message,
		Path:    path,
		TraceID: body.TraceID,
		Fields:  body.ValidationErrors,
	}
	switch {
	case status == 400:
		e.sentinel = ErrValidation
	case status == 401 && authEndpoint:
		e.sentinel = ErrInvalidCredentials
	case status == 401:
		e.sentinel = ErrUnauthorized
	case status == 403:
		e.sentinel = ErrForbidden
	case status == 404:
		e.sentinel = ErrUserNotFound
	case status == 409:
		e.sentinel = ErrAccountExists
	default:
		e.sentinel = ErrServer
	}
	return e
}
