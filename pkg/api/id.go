package api

import (
	"strings"

	"github.com/google/uuid"
)

const askIDPrefix = "ask_"

// NewAskID generates a new ask ID: "ask_" followed by a random UUID.
func NewAskID() string {
	return askIDPrefix + uuid.NewString()
}

// ValidateAskID reports whether id is an "ask_" prefixed UUID.
func ValidateAskID(id string) bool {
	rest, ok := strings.CutPrefix(id, askIDPrefix)
	if !ok {
		return false
	}
	_, err := uuid.Parse(rest)
	return err == nil && len(rest) == 36
}
