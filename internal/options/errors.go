package options

import (
	"errors"
	"net/http"
)

// Domain errors for option validation.
var (
	ErrInvalidAspectRatio = errors.New("aspect ratio must be one of 1:1, 16:9, 9:16, 4:3, 3:4, 21:9")
	ErrInvalidSubjectMode = errors.New("subject mode must be HUMAN or OBJECT")
	ErrUnknownKey         = errors.New("unknown preservation key")
	ErrUnknownPreset      = errors.New("preset must be default, max, or reset")
)

// MapHTTPStatus maps option errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrInvalidAspectRatio) ||
		errors.Is(err, ErrInvalidSubjectMode) ||
		errors.Is(err, ErrUnknownKey) ||
		errors.Is(err, ErrUnknownPreset) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
