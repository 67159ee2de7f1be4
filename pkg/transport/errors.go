package transport

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rhuss/coursebot/pkg/api"
	"github.com/rhuss/coursebot/pkg/engine"
)

// StatusClientClosedRequest is reported for asks cancelled by the client
// or through the in-flight registry.
const StatusClientClosedRequest = 499

// HTTPStatusFromError maps an APIError type to the corresponding HTTP
// status code.
func HTTPStatusFromError(err *api.APIError) int {
	switch err.Type {
	case api.ErrorTypeInvalidRequest:
		return http.StatusBadRequest
	case api.ErrorTypeNotFound:
		return http.StatusNotFound
	case api.ErrorTypeToolError:
		return http.StatusBadGateway
	case api.ErrorTypeTimeout:
		return http.StatusGatewayTimeout
	case api.ErrorTypeCancelled:
		return StatusClientClosedRequest
	case api.ErrorTypeAuthentication:
		return http.StatusUnauthorized
	case api.ErrorTypeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// APIErrorFrom converts an error returned by an Asker into an APIError.
func APIErrorFrom(err error) *api.APIError {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	var toolErr *engine.ToolError
	switch {
	case errors.Is(err, engine.ErrEmptyQuery):
		return api.NewInvalidRequestError("query", "query is required")
	case errors.As(err, &toolErr):
		return api.NewToolError(toolErr.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return api.NewTimeoutError("request timed out")
	case errors.Is(err, context.Canceled):
		return api.NewCancelledError("request cancelled")
	default:
		return api.NewServerError(err.Error())
	}
}

// WriteErrorResponse writes a JSON error response using the ErrorResponse
// wrapper format from pkg/api. It sets the Content-Type header and writes
// the HTTP status code.
func WriteErrorResponse(w http.ResponseWriter, apiErr *api.APIError, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(api.ErrorResponse{Error: apiErr})
}

// WriteAPIError writes an APIError response, deriving the HTTP status code
// from the error type.
func WriteAPIError(w http.ResponseWriter, apiErr *api.APIError) {
	WriteErrorResponse(w, apiErr, HTTPStatusFromError(apiErr))
}
