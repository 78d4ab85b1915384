package storage

import (
	"context"

	"github.com/dukerupert/vitrine/internal"
)

// Storage persists opaque blobs under named slots.
// A Put fully replaces the slot; there is no read-modify-write atomicity
// across callers sharing a key.
type Storage interface {
	// Get returns the blob stored under key, or ErrSlotNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put overwrites the slot.
	Put(ctx context.Context, key string, blob []byte) error

	// Close releases backend resources.
	Close() error
}

// NewStorage creates a Storage implementation based on configuration.
// The postgres backend expects its schema to be migrated by the caller.
func NewStorage(ctx context.Context, cfg internal.StorageConfig) (Storage, error) {
	switch cfg.Provider {
	case "memory", "":
		return NewMemoryStorage(), nil
	case "local":
		return NewLocalStorage(cfg.LocalPath)
	case "postgres":
		return NewPostgresStorage(ctx, cfg.DatabaseURL)
	case "redis":
		return NewRedisStorage(ctx, RedisConfig{URL: cfg.RedisURL, TTL: cfg.RedisTTL})
	default:
		return nil, ErrUnknownProvider(cfg.Provider)
	}
}
