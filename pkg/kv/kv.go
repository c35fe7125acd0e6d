// Package kv provides a small string key-value persistence contract with
// memory, file, Redis, PostgreSQL, and Azure Blob Storage implementations.
package kv

import (
	"context"
	"strings"

	"github.com/JaimeStill/nanohunter/pkg/lifecycle"
)

// Store is the persistence contract consumed by domain systems.
type Store interface {
	// Get returns the value stored at key. Returns ErrNotFound if the key is absent.
	Get(ctx context.Context, key string) (string, error)
	// Set stores value at key, replacing any previous value.
	Set(ctx context.Context, key, value string) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}

// System is a Store that participates in application lifecycle coordination.
type System interface {
	Store
	// Start registers any startup and shutdown hooks the backend requires.
	Start(lc *lifecycle.Coordinator) error
}

func validateKey(key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if strings.Contains(key, "..") {
		return ErrInvalidKey
	}
	return nil
}

func qualify(namespace, sep, key string) string {
	if namespace == "" {
		return key
	}
	return namespace + sep + key
}
