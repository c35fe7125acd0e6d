package history

import (
	"errors"
	"net/http"
)

// Domain errors for history operations.
var (
	// ErrCorrupt marks a persisted ledger that could not be decoded.
	// It is logged and recovered from, never returned to callers.
	ErrCorrupt         = errors.New("persisted history is corrupt")
	ErrNotFound        = errors.New("history entry not found")
	ErrInvalidLanguage = errors.New("lang must be primary or secondary")
)

// MapHTTPStatus maps history errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrInvalidLanguage) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
