package httperror

import "net/http"

// Application error codes surfaced to API clients.
const (
	CodeInvalidInput       = "INVALID_INPUT"
	CodeNotFound           = "NOT_FOUND"
	CodeInternalError      = "INTERNAL_ERROR"
	CodeAuthRequired       = "AUTH_REQUIRED"
	CodeEmailExists        = "EMAIL_EXISTS"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
)

// HTTPError is the typed error every workflow returns to the boundary
// layer. Handlers map it straight onto the response envelope; anything
// that is not an *HTTPError becomes a generic 500.
type HTTPError struct {
	StatusCode int
	Code       string
	Message    string
	// Details maps a field name to a human-readable message, used for
	// flows that intentionally name the offending field.
	Details map[string]string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// =====================================================
// CONSTRUCTORS
// =====================================================

func BadRequest(message string) *HTTPError {
	return &HTTPError{
		StatusCode: http.StatusBadRequest,
		Code:       CodeInvalidInput,
		Message:    message,
	}
}

// BadRequestField names the invalid field in the error details.
func BadRequestField(message, field string) *HTTPError {
	return &HTTPError{
		StatusCode: http.StatusBadRequest,
		Code:       CodeInvalidInput,
		Message:    message,
		Details:    map[string]string{field: message},
	}
}

func Conflict(message, code, field string) *HTTPError {
	return &HTTPError{
		StatusCode: http.StatusBadRequest,
		Code:       code,
		Message:    message,
		Details:    map[string]string{field: message},
	}
}

func NotFound(message string) *HTTPError {
	return &HTTPError{
		StatusCode: http.StatusNotFound,
		Code:       CodeNotFound,
		Message:    message,
	}
}

// NotFoundField is used by flows that deliberately disclose which field
// the lookup failed on (e.g. password reset naming the email).
func NotFoundField(message, field string) *HTTPError {
	return &HTTPError{
		StatusCode: http.StatusNotFound,
		Code:       CodeNotFound,
		Message:    message,
		Details:    map[string]string{field: message},
	}
}

// Unauthorized always carries the same uniform message so callers cannot
// tell a missing session from an expired one or a wrong role.
func Unauthorized() *HTTPError {
	return &HTTPError{
		StatusCode: http.StatusUnauthorized,
		Code:       CodeAuthRequired,
		Message:    "Authorization required.",
	}
}

// AccessDenied covers credential failures where the message must not leak
// which part of the credential was wrong.
func AccessDenied(message string) *HTTPError {
	return &HTTPError{
		StatusCode: http.StatusUnauthorized,
		Code:       CodeInvalidCredentials,
		Message:    message,
	}
}

func Internal(message string) *HTTPError {
	return &HTTPError{
		StatusCode: http.StatusInternalServerError,
		Code:       CodeInternalError,
		Message:    message,
	}
}
