package kv

import (
	"context"
	"sync"

	"github.com/JaimeStill/nanohunter/pkg/lifecycle"
)

type memory struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemory creates a process-local store. Values do not survive a restart.
func NewMemory() System {
	return &memory{values: make(map[string]string)}
}

func (m *memory) Start(lc *lifecycle.Coordinator) error {
	return nil
}

func (m *memory) Get(ctx context.Context, key string) (string, error) {
	if err := validateKey(key); err != nil {
		return "", err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.values[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (m *memory) Set(ctx context.Context, key, value string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	m.mu.Lock()
	m.values[key] = value
	m.mu.Unlock()
	return nil
}

func (m *memory) Delete(ctx context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	m.mu.Lock()
	delete(m.values, key)
	m.mu.Unlock()
	return nil
}
