package kv

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"

	"github.com/gofrs/flock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFile(t *testing.T) *file {
	t.Helper()
	sys, err := NewFile(t.TempDir(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return sys.(*file)
}

func TestFileReadersHoldIndependentLocks(t *testing.T) {
	f := newTestFile(t)
	writer := flock.New(filepath.Join(f.dir, lockFileName))

	first, err := f.acquire(false)
	require.NoError(t, err)
	second, err := f.acquire(false)
	require.NoError(t, err)

	require.NoError(t, first.Unlock())

	locked, err := writer.TryLock()
	require.NoError(t, err)
	assert.False(t, locked, "a writer must wait while any reader still holds the lock")

	require.NoError(t, second.Unlock())

	locked, err = writer.TryLock()
	require.NoError(t, err)
	assert.True(t, locked, "the lock should be free once every reader is done")
	require.NoError(t, writer.Unlock())
}

func TestFileConcurrentAccessReleasesLock(t *testing.T) {
	f := newTestFile(t)
	ctx := context.Background()
	require.NoError(t, f.Set(ctx, "history", "seed"))

	var wg sync.WaitGroup
	for i := range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if i%4 == 0 {
				assert.NoError(t, f.Set(ctx, "history", "updated"))
				return
			}
			v, err := f.Get(ctx, "history")
			assert.NoError(t, err)
			assert.Contains(t, []string{"seed", "updated"}, v)
		}()
	}
	wg.Wait()

	writer := flock.New(filepath.Join(f.dir, lockFileName))
	locked, err := writer.TryLock()
	require.NoError(t, err)
	assert.True(t, locked, "no handle should keep the lock after the calls return")
	require.NoError(t, writer.Unlock())
}
