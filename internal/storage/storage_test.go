package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/dukerupert/vitrine/internal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runSlotContract exercises the behaviour every backend must share.
func runSlotContract(t *testing.T, newStore func(t *testing.T) Storage) {
	ctx := context.Background()

	t.Run("missing slot is not found", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Get(ctx, "cart:missing")
		require.Error(t, err)
		assert.True(t, IsNotFound(err))
		assert.ErrorIs(t, err, ErrSlotNotFound)
	})

	t.Run("put then get round trips", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Put(ctx, "cart", []byte(`{"P1":{"quantity":2}}`)))

		got, err := s.Get(ctx, "cart")
		require.NoError(t, err)
		assert.JSONEq(t, `{"P1":{"quantity":2}}`, string(got))
	})

	t.Run("put fully replaces", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Put(ctx, "cart", []byte(`{"P1":{"quantity":2},"P2":{"quantity":1}}`)))
		require.NoError(t, s.Put(ctx, "cart", []byte(`{}`)))

		got, err := s.Get(ctx, "cart")
		require.NoError(t, err)
		assert.Equal(t, "{}", string(got))
	})

	t.Run("slots are independent", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Put(ctx, "cart:a", []byte("a")))
		require.NoError(t, s.Put(ctx, "cart:b", []byte("b")))

		a, err := s.Get(ctx, "cart:a")
		require.NoError(t, err)
		b, err := s.Get(ctx, "cart:b")
		require.NoError(t, err)
		assert.Equal(t, "a", string(a))
		assert.Equal(t, "b", string(b))
	})

	t.Run("empty key is rejected", func(t *testing.T) {
		s := newStore(t)
		err := s.Put(ctx, "", []byte("x"))
		assert.ErrorIs(t, err, ErrEmptyKey)
	})
}

func TestMemoryStorage(t *testing.T) {
	runSlotContract(t, func(t *testing.T) Storage {
		return NewMemoryStorage()
	})
}

func TestMemoryStorage_ReturnsCopies(t *testing.T) {
	s := NewMemoryStorage()
	blob := []byte("abc")
	require.NoError(t, s.Put(context.Background(), "cart", blob))
	blob[0] = 'z'

	got, err := s.Get(context.Background(), "cart")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}

func TestLocalStorage(t *testing.T) {
	runSlotContract(t, func(t *testing.T) Storage {
		s, err := NewLocalStorage(t.TempDir())
		require.NoError(t, err)
		return s
	})
}

func TestLocalStorage_KeyCannotEscapeBase(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocalStorage(dir)
	require.NoError(t, err)

	assert.Equal(t, dir, parentDir(s.path("../../etc/passwd")))
	assert.Equal(t, dir, parentDir(s.path("cart:abc/def")))
}

func parentDir(p string) string {
	for i := len(p) - 1; i >= 0; i-- {
		if p[i] == '/' {
			return p[:i]
		}
	}
	return ""
}

func TestNewStorage(t *testing.T) {
	ctx := context.Background()

	t.Run("memory by default", func(t *testing.T) {
		s, err := NewStorage(ctx, internal.StorageConfig{})
		require.NoError(t, err)
		assert.IsType(t, &MemoryStorage{}, s)
	})

	t.Run("local", func(t *testing.T) {
		s, err := NewStorage(ctx, internal.StorageConfig{Provider: "local", LocalPath: t.TempDir()})
		require.NoError(t, err)
		assert.IsType(t, &LocalStorage{}, s)
	})

	t.Run("postgres requires url", func(t *testing.T) {
		_, err := NewStorage(ctx, internal.StorageConfig{Provider: "postgres"})
		assert.ErrorIs(t, err, ErrDatabaseURLRequired)
	})

	t.Run("redis requires url", func(t *testing.T) {
		_, err := NewStorage(ctx, internal.StorageConfig{Provider: "redis"})
		assert.ErrorIs(t, err, ErrRedisURLRequired)
	})

	t.Run("unknown provider", func(t *testing.T) {
		_, err := NewStorage(ctx, internal.StorageConfig{Provider: "dynamo"})
		require.Error(t, err)
		var se *StorageError
		require.True(t, errors.As(err, &se))
		assert.Equal(t, "invalid", se.ErrorCode())
	})
}

func TestStorageError_Unwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := wrapStorageError(codeUnavailable, "failed to read slot", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "failed to read slot: connection refused", err.Error())
	assert.Equal(t, "unavailable", err.ErrorCode())
	assert.False(t, IsNotFound(err))
}
