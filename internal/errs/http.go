// Package errs defines the error types returned to API clients.
//
// Every error that leaves the service is rendered as an HTTPError so
// clients always receive the same JSON shape, whatever failed:
//
//	{"code":"NOT_FOUND","message":"Car not found","status":404,...}
//
// Internal error details never travel in these values; the global error
// handler logs the original error and sends only the sanitized shape.
package errs

import "strings"

// FieldError represents a field-level validation error.
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// ActionType is a string enum describing what the client should do next.
type ActionType string

const (
	ActionTypeRedirect ActionType = "redirect"
)

// Action is an optional instruction for the client.
type Action struct {
	Type    ActionType `json:"type"`
	Message string     `json:"message"`
	Value   string     `json:"value"`
}

// HTTPError is the error type for API responses. It is serialized directly
// to JSON by the global error handler.
//
//   - Code: machine-friendly code (e.g. "BAD_REQUEST")
//   - Message: human-friendly message
//   - Status: HTTP status code
//   - Override: the message is safe to show to end users as-is
//   - Errors: per-field validation errors
//   - Action: optional client instruction
type HTTPError struct {
	Code     string       `json:"code"`
	Message  string       `json:"message"`
	Status   int          `json:"status"`
	Override bool         `json:"override"`
	Errors   []FieldError `json:"errors"`
	Action   *Action      `json:"action"`
}

func (e *HTTPError) Error() string {
	return e.Message
}

// Is reports whether target is also an *HTTPError. Status and code are not
// compared.
func (e *HTTPError) Is(target error) bool {
	_, ok := target.(*HTTPError)
	return ok
}

// MakeUpperCaseWithUnderscores converts "Bad Request" into "BAD_REQUEST".
func MakeUpperCaseWithUnderscores(str string) string {
	return strings.ToUpper(strings.ReplaceAll(str, " ", "_"))
}
