package errors

import "net/http"

// ErrorDetail is the error body of an API error response.
type ErrorDetail struct {
	Message       string         `json:"message"`
	InternalError string         `json:"internal_error,omitempty"`
	Details       map[string]any `json:"details,omitempty"`
}

// ErrorResponse is the uniform error envelope returned by the API.
type ErrorResponse struct {
	Success bool        `json:"success"`
	Error   ErrorDetail `json:"error"`
}

// NewErrorResponse builds the response envelope for an error. The hint is the
// user-facing message; the raw error string is only included for server-side
// classifications where it aids debugging.
func NewErrorResponse(err error) *ErrorResponse {
	message := Hint(err)
	if message == "" {
		message = "An unexpected error occurred"
	}

	detail := ErrorDetail{
		Message: message,
		Details: ReportableDetails(err),
	}
	if IsValidation(err) || IsNotFound(err) || IsAlreadyExists(err) {
		detail.InternalError = err.Error()
	}

	return &ErrorResponse{Success: false, Error: detail}
}

// HTTPStatusFromError maps a classification marker to an HTTP status code.
func HTTPStatusFromError(err error) int {
	switch {
	case IsValidation(err):
		return http.StatusBadRequest
	case IsNotFound(err):
		return http.StatusNotFound
	case IsAlreadyExists(err):
		return http.StatusConflict
	case IsPermissionDenied(err):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
