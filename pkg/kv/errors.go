package kv

import "errors"

var (
	// ErrNotFound indicates no value is stored at the requested key.
	ErrNotFound = errors.New("key not found")
	// ErrEmptyKey indicates an empty key was provided.
	ErrEmptyKey = errors.New("key must not be empty")
	// ErrInvalidKey indicates the key contains a path traversal segment.
	ErrInvalidKey = errors.New("key contains invalid path segment")
	// ErrUnknownBackend indicates the configured backend name is not supported.
	ErrUnknownBackend = errors.New("unknown store backend")
)
