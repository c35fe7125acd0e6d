package vision

import "errors"

var (
	// ErrEmptyResponse indicates the model answered without any text.
	ErrEmptyResponse = errors.New("vision model returned no content")
	// ErrUnknownProvider indicates the configured provider is not supported.
	ErrUnknownProvider = errors.New("unknown vision provider")
	// ErrNoImages indicates a request was made without any image attached.
	ErrNoImages = errors.New("vision request requires at least one image")
)
