package kv

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/JaimeStill/nanohunter/pkg/lifecycle"
)

const redisPingTimeout = 5 * time.Second

type redisStore struct {
	client    redis.UniversalClient
	namespace string
	logger    *slog.Logger
}

// NewRedis creates a store from a redis:// or rediss:// URL.
// Keys are stored as <namespace>:<key>.
func NewRedis(cfg *Config, logger *slog.Logger) (System, error) {
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	return NewRedisFromClient(redis.NewClient(opts), cfg.Namespace, logger), nil
}

// NewRedisFromClient wraps an existing client. The store closes the
// client on shutdown.
func NewRedisFromClient(client redis.UniversalClient, namespace string, logger *slog.Logger) System {
	return &redisStore{
		client:    client,
		namespace: namespace,
		logger:    logger.With("system", "kv", "backend", BackendRedis),
	}
}

func (r *redisStore) Start(lc *lifecycle.Coordinator) error {
	r.logger.Info("starting redis store")

	lc.OnStartup(func() {
		ctx, cancel := context.WithTimeout(lc.Context(), redisPingTimeout)
		defer cancel()

		if err := r.client.Ping(ctx).Err(); err != nil {
			r.logger.Error("redis ping failed", "error", err)
			return
		}

		r.logger.Info("redis connection established")
	})

	lc.OnShutdown(func() {
		<-lc.Context().Done()

		if err := r.client.Close(); err != nil {
			r.logger.Error("redis close failed", "error", err)
			return
		}

		r.logger.Info("redis connection closed")
	})

	return nil
}

func (r *redisStore) Get(ctx context.Context, key string) (string, error) {
	if err := validateKey(key); err != nil {
		return "", err
	}

	v, err := r.client.Get(ctx, r.qualify(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("get %s: %w", key, err)
	}

	return v, nil
}

func (r *redisStore) Set(ctx context.Context, key, value string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	if err := r.client.Set(ctx, r.qualify(key), value, 0).Err(); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

func (r *redisStore) Delete(ctx context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	if err := r.client.Del(ctx, r.qualify(key)).Err(); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func (r *redisStore) qualify(key string) string {
	return qualify(r.namespace, ":", key)
}
