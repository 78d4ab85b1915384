package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisTTL matches the lifetime of an idle storefront cart.
const DefaultRedisTTL = 30 * 24 * time.Hour

// RedisConfig contains configuration for the Redis slot store.
type RedisConfig struct {
	URL string
	TTL time.Duration // zero means DefaultRedisTTL
}

// RedisStorage keeps each slot as a string value with a sliding TTL.
type RedisStorage struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStorage parses the URL, connects and pings the server.
func NewRedisStorage(ctx context.Context, cfg RedisConfig) (*RedisStorage, error) {
	if cfg.URL == "" {
		return nil, ErrRedisURLRequired
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, wrapStorageError(codeUnavailable, "redis ping failed", err)
	}

	return NewRedisStorageFromClient(client, cfg.TTL), nil
}

// NewRedisStorageFromClient wraps an existing client.
func NewRedisStorageFromClient(client *redis.Client, ttl time.Duration) *RedisStorage {
	if ttl <= 0 {
		ttl = DefaultRedisTTL
	}
	return &RedisStorage{client: client, ttl: ttl}
}

func (s *RedisStorage) Get(ctx context.Context, key string) ([]byte, error) {
	blob, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSlotNotFound
		}
		return nil, wrapStorageError(codeUnavailable, "failed to read slot", err)
	}
	return blob, nil
}

func (s *RedisStorage) Put(ctx context.Context, key string, blob []byte) error {
	if key == "" {
		return ErrEmptyKey
	}
	if err := s.client.Set(ctx, key, blob, s.ttl).Err(); err != nil {
		return wrapStorageError(codeUnavailable, "failed to write slot", err)
	}
	return nil
}

func (s *RedisStorage) Close() error {
	return s.client.Close()
}
