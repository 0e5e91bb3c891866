package errors

// ErrorResponse is the envelope every gateway endpoint returns on
// failure, rendered by the error-handler middleware.
type ErrorResponse struct {
	Success bool        `json:"success"`
	Error   ErrorDetail `json:"error"`
}

// ErrorDetail contains error information. Display carries the hint
// chain; Details only ever holds values marked reportable.
type ErrorDetail struct {
	Display       string         `json:"message"`
	InternalError string         `json:"internal_error,omitempty"`
	Details       map[string]any `json:"details,omitempty"`
}
