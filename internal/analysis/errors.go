package analysis

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/nanohunter/internal/options"
	"github.com/JaimeStill/nanohunter/pkg/imaging"
)

// Domain errors for analysis operations.
var (
	ErrNoImage         = errors.New("an image is required")
	ErrFileTooLarge    = errors.New("file exceeds maximum upload size")
	ErrUnsupportedType = errors.New("file is not a supported image type")
	ErrInvalidOptions  = errors.New("options must be a JSON object of preservation flags")
	// ErrGeneration wraps any failure of the vision model or of its reply.
	ErrGeneration = errors.New("prompt generation failed")
)

// MapHTTPStatus maps analysis, imaging, and option errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNoImage), errors.Is(err, ErrInvalidOptions):
		return http.StatusBadRequest
	case errors.Is(err, ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrUnsupportedType):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, ErrGeneration):
		return http.StatusBadGateway
	case errors.Is(err, imaging.ErrDecode), errors.Is(err, imaging.ErrEnvironment):
		return imaging.MapHTTPStatus(err)
	}

	if status := options.MapHTTPStatus(err); status != http.StatusInternalServerError {
		return status
	}
	return http.StatusInternalServerError
}
