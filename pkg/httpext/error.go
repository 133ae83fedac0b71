package httpext

import (
	"fmt"
)

// ErrorResponse represents a standardised JSON error body as returned by
// OAuth2-style endpoints (RFC 6749 section 5.2).
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
	ErrorURI         string `json:"error_uri,omitempty"`
}

// TransportError reports a failure before any HTTP status was obtained:
// connection refused, timeout, request or response body encoding problems.
type TransportError struct {
	Endpoint string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport failure for %s: %v", e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// AuthError reports that the server rejected the caller's credentials:
// a 401/403 response, a rejected authorization code, or a rejected refresh
// token. StatusCode is zero when no request was made (for example,
// refreshing without a stored refresh token).
type AuthError struct {
	Endpoint    string
	StatusCode  int
	Code        string // OAuth2 error code, e.g. "invalid_grant"
	Description string
	Body        string
}

func (e *AuthError) Error() string {
	switch {
	case e.Code != "" && e.Description != "":
		return fmt.Sprintf("authorization rejected by %s: %s (%s)", e.Endpoint, e.Code, e.Description)
	case e.Code != "":
		return fmt.Sprintf("authorization rejected by %s: %s", e.Endpoint, e.Code)
	case e.StatusCode != 0:
		return fmt.Sprintf("authorization rejected by %s: status %d", e.Endpoint, e.StatusCode)
	default:
		return fmt.Sprintf("authorization rejected by %s: %s", e.Endpoint, e.Description)
	}
}

// APIError reports any other non-2xx response. The raw body is kept so
// callers can diagnose failures without enabling verbose logging.
type APIError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s returned status %d: %s", e.Endpoint, e.StatusCode, e.Body)
}
