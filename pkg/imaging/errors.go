package imaging

import (
	"errors"
	"net/http"
)

var (
	// ErrDecode indicates the input bytes are not a decodable raster image.
	// Callers should ask for a different image.
	ErrDecode = errors.New("image could not be decoded")
	// ErrEnvironment indicates the scratch surface or encoder failed.
	// It reflects a host defect and must not be retried.
	ErrEnvironment = errors.New("image surface unavailable")
)

// MapHTTPStatus maps imaging errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrDecode) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
