package api

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// ValidationConfig holds configurable limits for request validation.
type ValidationConfig struct {
	MaxQueryLength   int
	MaxHistoryLength int
}

// DefaultValidationConfig returns a ValidationConfig with sensible defaults.
func DefaultValidationConfig() ValidationConfig {
	return ValidationConfig{
		MaxQueryLength:   16 * 1024,
		MaxHistoryLength: 256 * 1024,
	}
}

// ValidateRequest checks an AskRequest for validity. It returns an
// *APIError describing the first validation failure, or nil if the
// request is valid. Limits of zero are not enforced.
func ValidateRequest(req *AskRequest, cfg ValidationConfig) *APIError {
	if strings.TrimSpace(req.Query) == "" {
		return NewInvalidRequestError("query", "query is required")
	}
	if !utf8.ValidString(req.Query) {
		return NewInvalidRequestError("query", "query must be valid UTF-8")
	}
	if cfg.MaxQueryLength > 0 && len(req.Query) > cfg.MaxQueryLength {
		return NewInvalidRequestError("query",
			fmt.Sprintf("query exceeds maximum of %d bytes", cfg.MaxQueryLength))
	}
	if !utf8.ValidString(req.History) {
		return NewInvalidRequestError("history", "history must be valid UTF-8")
	}
	if cfg.MaxHistoryLength > 0 && len(req.History) > cfg.MaxHistoryLength {
		return NewInvalidRequestError("history",
			fmt.Sprintf("history exceeds maximum of %d bytes", cfg.MaxHistoryLength))
	}
	return nil
}
