package kv

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"

	"github.com/JaimeStill/nanohunter/pkg/lifecycle"
)

const (
	lockFileName = ".lock"
	valueExt     = ".kv"
)

type file struct {
	mu     sync.RWMutex
	dir    string
	logger *slog.Logger
}

// NewFile creates a store that keeps one file per key under dir.
// Writes go through a temp file and rename, and a lock file in dir
// serializes access across processes sharing the directory. Each call
// opens its own handle on the lock file, so one reader releasing its
// shared lock never drops the lock held by another.
func NewFile(dir string, logger *slog.Logger) (System, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}

	return &file{
		dir:    dir,
		logger: logger.With("system", "kv", "backend", BackendFile),
	}, nil
}

func (f *file) Start(lc *lifecycle.Coordinator) error {
	f.logger.Info("file store ready", "dir", f.dir)
	return nil
}

func (f *file) Get(ctx context.Context, key string) (string, error) {
	if err := validateKey(key); err != nil {
		return "", err
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	lock, err := f.acquire(false)
	if err != nil {
		return "", err
	}
	defer lock.Unlock()

	data, err := os.ReadFile(f.path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("read %s: %w", key, err)
	}

	return string(data), nil
}

func (f *file) Set(ctx context.Context, key, value string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	lock, err := f.acquire(true)
	if err != nil {
		return err
	}
	defer lock.Unlock()

	tmp, err := os.CreateTemp(f.dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.WriteString(value); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", key, err)
	}

	if err := os.Rename(tmpPath, f.path(key)); err != nil {
		return fmt.Errorf("commit %s: %w", key, err)
	}

	return nil
}

func (f *file) Delete(ctx context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	lock, err := f.acquire(true)
	if err != nil {
		return err
	}
	defer lock.Unlock()

	if err := os.Remove(f.path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// acquire takes a shared or exclusive lock on a fresh handle to the lock file.
func (f *file) acquire(exclusive bool) (*flock.Flock, error) {
	lock := flock.New(filepath.Join(f.dir, lockFileName))

	var err error
	if exclusive {
		err = lock.Lock()
	} else {
		err = lock.RLock()
	}
	if err != nil {
		return nil, fmt.Errorf("lock store: %w", err)
	}
	return lock, nil
}

func (f *file) path(key string) string {
	return filepath.Join(f.dir, url.PathEscape(key)+valueExt)
}
