package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStorage keeps slots in the cart_slots table.
type PostgresStorage struct {
	pool *pgxpool.Pool
}

// NewPostgresStorage opens a pgx pool and verifies the connection.
func NewPostgresStorage(ctx context.Context, databaseURL string) (*PostgresStorage, error) {
	if databaseURL == "" {
		return nil, ErrDatabaseURLRequired
	}

	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, wrapStorageError(codeUnavailable, "database ping failed", err)
	}

	return NewPostgresStorageFromPool(pool), nil
}

// NewPostgresStorageFromPool wraps an existing pool. Close closes the pool.
func NewPostgresStorageFromPool(pool *pgxpool.Pool) *PostgresStorage {
	return &PostgresStorage{pool: pool}
}

const (
	getSlotSQL = `SELECT blob FROM cart_slots WHERE slot_key = $1`

	putSlotSQL = `
INSERT INTO cart_slots (slot_key, blob, updated_at)
VALUES ($1, $2, NOW())
ON CONFLICT (slot_key) DO UPDATE
SET blob = EXCLUDED.blob, updated_at = EXCLUDED.updated_at`
)

func (s *PostgresStorage) Get(ctx context.Context, key string) ([]byte, error) {
	var blob []byte
	err := s.pool.QueryRow(ctx, getSlotSQL, key).Scan(&blob)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSlotNotFound
		}
		return nil, wrapStorageError(codeUnavailable, "failed to read slot", err)
	}
	return blob, nil
}

func (s *PostgresStorage) Put(ctx context.Context, key string, blob []byte) error {
	if key == "" {
		return ErrEmptyKey
	}
	if _, err := s.pool.Exec(ctx, putSlotSQL, key, blob); err != nil {
		return wrapStorageError(codeUnavailable, "failed to write slot", err)
	}
	return nil
}

func (s *PostgresStorage) Close() error {
	s.pool.Close()
	return nil
}
