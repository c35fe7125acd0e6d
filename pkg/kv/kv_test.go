package kv_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/nanohunter/pkg/kv"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func backends(t *testing.T) map[string]func(t *testing.T) kv.Store {
	t.Helper()
	return map[string]func(t *testing.T) kv.Store{
		"memory": func(t *testing.T) kv.Store {
			return kv.NewMemory()
		},
		"file": func(t *testing.T) kv.Store {
			s, err := kv.NewFile(t.TempDir(), discardLogger())
			require.NoError(t, err)
			return s
		},
		"redis": func(t *testing.T) kv.Store {
			mr := miniredis.RunT(t)
			client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
			t.Cleanup(func() { client.Close() })
			return kv.NewRedisFromClient(client, "test", discardLogger())
		},
	}
}

func TestStoreContract(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			t.Run("missing key", func(t *testing.T) {
				s := open(t)
				_, err := s.Get(ctx, "absent")
				assert.ErrorIs(t, err, kv.ErrNotFound)
			})

			t.Run("set then get", func(t *testing.T) {
				s := open(t)
				require.NoError(t, s.Set(ctx, "history", `[{"id":1}]`))

				v, err := s.Get(ctx, "history")
				require.NoError(t, err)
				assert.Equal(t, `[{"id":1}]`, v)
			})

			t.Run("set overwrites", func(t *testing.T) {
				s := open(t)
				require.NoError(t, s.Set(ctx, "k", "first"))
				require.NoError(t, s.Set(ctx, "k", "second"))

				v, err := s.Get(ctx, "k")
				require.NoError(t, err)
				assert.Equal(t, "second", v)
			})

			t.Run("delete removes key", func(t *testing.T) {
				s := open(t)
				require.NoError(t, s.Set(ctx, "k", "v"))
				require.NoError(t, s.Delete(ctx, "k"))

				_, err := s.Get(ctx, "k")
				assert.ErrorIs(t, err, kv.ErrNotFound)
			})

			t.Run("delete absent key", func(t *testing.T) {
				s := open(t)
				assert.NoError(t, s.Delete(ctx, "never-set"))
			})

			t.Run("empty value", func(t *testing.T) {
				s := open(t)
				require.NoError(t, s.Set(ctx, "k", ""))

				v, err := s.Get(ctx, "k")
				require.NoError(t, err)
				assert.Empty(t, v)
			})

			t.Run("invalid keys", func(t *testing.T) {
				s := open(t)
				assert.ErrorIs(t, s.Set(ctx, "", "v"), kv.ErrEmptyKey)
				assert.ErrorIs(t, s.Set(ctx, "../escape", "v"), kv.ErrInvalidKey)

				_, err := s.Get(ctx, "")
				assert.ErrorIs(t, err, kv.ErrEmptyKey)
				assert.ErrorIs(t, s.Delete(ctx, "a/../b"), kv.ErrInvalidKey)
			})

			t.Run("concurrent writers", func(t *testing.T) {
				s := open(t)

				var wg sync.WaitGroup
				for i := range 16 {
					wg.Go(func() {
						key := fmt.Sprintf("k%d", i%4)
						assert.NoError(t, s.Set(ctx, key, fmt.Sprintf("v%d", i)))
					})
				}
				wg.Wait()

				for i := range 4 {
					_, err := s.Get(ctx, fmt.Sprintf("k%d", i))
					assert.NoError(t, err)
				}
			})
		})
	}
}

func TestFileStoreSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	first, err := kv.NewFile(dir, discardLogger())
	require.NoError(t, err)
	require.NoError(t, first.Set(ctx, "nanohunter_history", "[]"))

	second, err := kv.NewFile(dir, discardLogger())
	require.NoError(t, err)

	v, err := second.Get(ctx, "nanohunter_history")
	require.NoError(t, err)
	assert.Equal(t, "[]", v)
}

func TestRedisStoreNamespacesKeys(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	s := kv.NewRedisFromClient(client, "nanohunter", discardLogger())
	require.NoError(t, s.Set(ctx, "history", "[]"))

	got, err := mr.Get("nanohunter:history")
	require.NoError(t, err)
	assert.Equal(t, "[]", got)
	assert.False(t, mr.Exists("history"))
}

func TestOpenSelectsBackend(t *testing.T) {
	t.Run("memory", func(t *testing.T) {
		s, err := kv.Open(&kv.Config{Backend: kv.BackendMemory}, nil, discardLogger())
		require.NoError(t, err)
		assert.NotNil(t, s)
	})

	t.Run("file", func(t *testing.T) {
		s, err := kv.Open(&kv.Config{Backend: kv.BackendFile, Dir: t.TempDir()}, nil, discardLogger())
		require.NoError(t, err)
		assert.NotNil(t, s)
	})

	t.Run("redis", func(t *testing.T) {
		mr := miniredis.RunT(t)
		cfg := &kv.Config{Backend: kv.BackendRedis, RedisURL: "redis://" + mr.Addr()}

		s, err := kv.Open(cfg, nil, discardLogger())
		require.NoError(t, err)
		require.NoError(t, s.Set(context.Background(), "k", "v"))
	})

	t.Run("postgres without database", func(t *testing.T) {
		_, err := kv.Open(&kv.Config{Backend: kv.BackendPostgres, Table: "kv_entries"}, nil, discardLogger())
		assert.Error(t, err)
	})

	t.Run("azure connection string", func(t *testing.T) {
		cfg := &kv.Config{
			Backend:          kv.BackendAzure,
			Container:        "nanohunter",
			ConnectionString: azuriteConnString,
		}
		s, err := kv.Open(cfg, nil, discardLogger())
		require.NoError(t, err)
		assert.NotNil(t, s)
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := kv.Open(&kv.Config{Backend: "etcd"}, nil, discardLogger())
		assert.ErrorIs(t, err, kv.ErrUnknownBackend)
	})
}

const azuriteConnString = "DefaultEndpointsProtocol=http;AccountName=devstoreaccount1;AccountKey=Eby8vdM02xNOcqFlqUwJPLlmEtlCDXJ1OUzFT50uSRZ6IFsuFq2UVErCz4I6tq/K1SZFPTOtr/KBHBeksoGMGw==;BlobEndpoint=http://127.0.0.1:10000/devstoreaccount1;"
