package common

// MessageResponse is the success body returned by public endpoints
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the error body returned by public endpoints
type ErrorResponse struct {
	Error string `json:"error"`
}

// ValidationError represents a validation error detail
type ValidationError struct {
	Field string `json:"field"`
	Tag   string `json:"tag"`
	Value string `json:"value,omitempty"`
}

// NewMessageResponse creates a new success response with a simple message
func NewMessageResponse(message string) MessageResponse {
	return MessageResponse{Message: message}
}

// NewErrorResponse creates a new error response
func NewErrorResponse(message string) ErrorResponse {
	return ErrorResponse{Error: message}
}
