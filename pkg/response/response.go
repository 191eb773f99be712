package response

import "net/http"

// Result is the envelope every handler returns. Status doubles as the HTTP
// status code, so controllers can write `c.JSON(res.Status, res)` directly.
type Result struct {
	Message string         `json:"message"`
	Payload interface{}    `json:"payload"`
	Status  int            `json:"status"`
	Extra   map[string]any `json:"extra,omitempty"`
}

// Found wraps a successful lookup. count is reported under extra for list
// responses.
func Found(message string, payload interface{}, count int) Result {
	return Result{
		Message: message,
		Payload: payload,
		Status:  http.StatusOK,
		Extra:   map[string]any{"count": count},
	}
}

// FoundOne wraps a successful single-record lookup.
func FoundOne(message string, payload interface{}) Result {
	return Result{Message: message, Payload: payload, Status: http.StatusOK}
}

// NotFound marks an expected negative lookup. It is a normal outcome, not an
// error.
func NotFound(message string) Result {
	return Result{Message: message, Payload: nil, Status: http.StatusNotFound}
}

// Created wraps a newly persisted record.
func Created(message string, payload interface{}) Result {
	return Result{Message: message, Payload: payload, Status: http.StatusCreated}
}

// Updated wraps the outcome of an update; changes echoes the applied patch.
func Updated(message string, payload interface{}, changes interface{}) Result {
	return Result{
		Message: message,
		Payload: payload,
		Status:  http.StatusOK,
		Extra:   map[string]any{"changes": changes},
	}
}

// Deleted wraps the outcome of a delete or truncate; record carries the
// pre-deletion state when one was fetched.
func Deleted(message string, payload interface{}, record interface{}) Result {
	return Result{
		Message: message,
		Payload: payload,
		Status:  http.StatusOK,
		Extra:   map[string]any{"record": record},
	}
}

// Forbidden marks a denied action.
func Forbidden(message string) Result {
	return Result{Message: message, Payload: nil, Status: http.StatusUnauthorized}
}

// BadRequest marks a malformed payload surfaced through the same envelope.
func BadRequest(message string) Result {
	return Result{Message: message, Payload: nil, Status: http.StatusBadRequest}
}

// Valid wraps a positive token-validation outcome.
func Valid(message string, payload interface{}) Result {
	return Result{Message: message, Payload: payload, Status: http.StatusOK}
}

// Invalid marks a failed token validation. Like NotFound it is an expected
// negative result.
func Invalid(message string, payload interface{}) Result {
	return Result{Message: message, Payload: payload, Status: http.StatusUnauthorized}
}

// Error marks an infrastructure failure. Only the message is exposed.
func Error(detail string) Result {
	return Result{Message: "Error occurred", Payload: detail, Status: http.StatusInternalServerError}
}
