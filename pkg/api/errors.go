package api

import "fmt"

// ErrorType represents the category of an API error.
type ErrorType string

const (
	ErrorTypeServerError    ErrorType = "server_error"
	ErrorTypeInvalidRequest ErrorType = "invalid_request"
	ErrorTypeNotFound       ErrorType = "not_found"
	ErrorTypeToolError      ErrorType = "tool_error"
	ErrorTypeTimeout        ErrorType = "timeout"
	ErrorTypeCancelled      ErrorType = "cancelled"
	ErrorTypeAuthentication ErrorType = "authentication_error"
	ErrorTypeRateLimited    ErrorType = "rate_limit_exceeded"
)

// APIError represents a structured API error with type, code, param, and message.
type APIError struct {
	Type    ErrorType `json:"type"`
	Code    string    `json:"code,omitempty"`
	Param   string    `json:"param,omitempty"`
	Message string    `json:"message"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Param != "" {
		return fmt.Sprintf("%s: %s (param: %s)", e.Type, e.Message, e.Param)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// ErrorResponse wraps an APIError for JSON serialization as the top-level error response.
type ErrorResponse struct {
	Error *APIError `json:"error"`
}

// NewInvalidRequestError creates an APIError for invalid request parameters.
func NewInvalidRequestError(param, message string) *APIError {
	return &APIError{
		Type:    ErrorTypeInvalidRequest,
		Param:   param,
		Message: message,
	}
}

// NewNotFoundError creates an APIError for resources that cannot be found.
func NewNotFoundError(message string) *APIError {
	return &APIError{
		Type:    ErrorTypeNotFound,
		Message: message,
	}
}

// NewServerError creates an APIError for internal server errors.
func NewServerError(message string) *APIError {
	return &APIError{
		Type:    ErrorTypeServerError,
		Message: message,
	}
}

// NewToolError creates an APIError for a tool that failed during the
// tool loop.
func NewToolError(message string) *APIError {
	return &APIError{
		Type:    ErrorTypeToolError,
		Message: message,
	}
}

// NewTimeoutError creates an APIError for a request that ran out of time.
func NewTimeoutError(message string) *APIError {
	return &APIError{
		Type:    ErrorTypeTimeout,
		Message: message,
	}
}

// NewCancelledError creates an APIError for a request that was cancelled
// before it completed.
func NewCancelledError(message string) *APIError {
	return &APIError{
		Type:    ErrorTypeCancelled,
		Message: message,
	}
}

// NewAuthenticationError creates an APIError for missing or invalid
// credentials.
func NewAuthenticationError(message string) *APIError {
	return &APIError{
		Type:    ErrorTypeAuthentication,
		Message: message,
	}
}

// NewRateLimitError creates an APIError for a caller over its request
// budget.
func NewRateLimitError(message string) *APIError {
	return &APIError{
		Type:    ErrorTypeRateLimited,
		Message: message,
	}
}
