package models

// Response is the uniform success envelope returned by every endpoint.
type Response struct {
	// Status mirrors the HTTP status code of the response.
	Status int `json:"status"`

	// Data is the operation-specific payload.
	Data any `json:"data"`

	// Message is a short human-readable description of the outcome.
	Message string `json:"message"`

	// Success is always true for this envelope.
	Success bool `json:"success"`
}

// ErrorResponse is the uniform failure envelope. It is produced only by
// the central error mapper; handlers never write error bodies directly.
type ErrorResponse struct {
	// Status mirrors the HTTP status code of the response.
	Status int `json:"status"`

	// Message is a short human-readable description of the failure.
	Message string `json:"message"`

	// Errors optionally lists field-level validation messages.
	Errors []string `json:"errors"`

	// Success is always false for this envelope.
	Success bool `json:"success"`
}

// NewResponse constructs a success envelope with the given status code,
// payload and message.
func NewResponse(status int, data any, message string) Response {
	return Response{
		Status:  status,
		Data:    data,
		Message: message,
		Success: true,
	}
}

// NewErrorResponse constructs a failure envelope with the given status
// code and message. The Errors slice is never nil so that it serializes
// as an empty JSON array.
func NewErrorResponse(status int, message string, errs ...string) ErrorResponse {
	if errs == nil {
		errs = []string{}
	}
	return ErrorResponse{
		Status:  status,
		Message: message,
		Errors:  errs,
		Success: false,
	}
}
