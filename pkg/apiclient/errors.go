package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidBaseURL indicates the client was constructed with an unusable base URL.
	ErrInvalidBaseURL = errors.New("apiclient: invalid base URL")

	// ErrInvalidBody indicates the request body could not be serialized to JSON.
	ErrInvalidBody = errors.New("apiclient: invalid request body")
)

// AuthError reports that the server rejected the call's credential: a 401,
// or a 403 whose body marks the credential as expired or invalid.
type AuthError struct {
	Status int
	Body   []byte
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("apiclient: authentication failed (status %d)", e.Status)
}

// APIError reports a non-2xx response that is not an authentication failure.
// The body is preserved verbatim so callers can surface server-provided
// error details.
type APIError struct {
	Status int
	Body   []byte
}

func (e *APIError) Error() string {
	detail := errorDetail(e.Body)
	if detail == "" {
		return fmt.Sprintf("apiclient: request failed (status %d)", e.Status)
	}
	return fmt.Sprintf("apiclient: request failed (status %d): %s", e.Status, detail)
}

// IsClientError reports whether the status is in the 4xx range.
func (e *APIError) IsClientError() bool { return e.Status >= 400 && e.Status < 500 }

// IsServerError reports whether the status is in the 5xx range.
func (e *APIError) IsServerError() bool { return e.Status >= 500 }

// TransportError reports that the request never produced an HTTP response:
// DNS failure, refused connection, or the per-call timeout.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("apiclient: transport failure: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// apiErrorBody is the wire shape of storefront error responses.
type apiErrorBody struct {
	Detail string `json:"detail"`
	Code   string `json:"code"`
	Error  string `json:"error"`
}

// credentialRejected reports whether a 403 body describes an expired or
// invalid credential rather than an unrelated authorization failure.
func credentialRejected(body []byte) bool {
	var eb apiErrorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return false
	}
	switch eb.Code {
	case "token_not_valid", "token_expired", "authentication_failed":
		return true
	}
	detail := strings.ToLower(eb.Detail)
	if !strings.Contains(detail, "token") && !strings.Contains(detail, "credential") {
		return false
	}
	return strings.Contains(detail, "expired") || strings.Contains(detail, "invalid") ||
		strings.Contains(detail, "not valid")
}

func errorDetail(body []byte) string {
	var eb apiErrorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return ""
	}
	if eb.Detail != "" {
		return eb.Detail
	}
	return eb.Error
}
