package storage

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
)

// LocalStorage implements Storage with one file per slot.
// This is the default for development and single-node deployments.
type LocalStorage struct {
	basePath string // Directory holding slot files (e.g., "./data/carts")
}

// NewLocalStorage creates a local filesystem slot store.
// basePath is created if it doesn't exist.
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	return &LocalStorage{basePath: basePath}, nil
}

// path maps a slot key to a file name. Keys such as "cart:<session>" are
// escaped so they never leave basePath.
func (s *LocalStorage) path(key string) string {
	return filepath.Join(s.basePath, url.PathEscape(key)+".json")
}

// Get reads a slot file.
func (s *LocalStorage) Get(ctx context.Context, key string) ([]byte, error) {
	blob, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrSlotNotFound
		}
		return nil, wrapStorageError(codeInternal, "failed to read slot", err)
	}
	return blob, nil
}

// Put writes the slot through a temp file and rename so readers never see
// a partial blob.
func (s *LocalStorage) Put(ctx context.Context, key string, blob []byte) error {
	if key == "" {
		return ErrEmptyKey
	}

	tmp, err := os.CreateTemp(s.basePath, ".slot-*")
	if err != nil {
		return wrapStorageError(codeInternal, "failed to create temp file", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(blob); err != nil {
		tmp.Close()
		return wrapStorageError(codeInternal, "failed to write slot", err)
	}
	if err := tmp.Close(); err != nil {
		return wrapStorageError(codeInternal, "failed to write slot", err)
	}

	if err := os.Rename(tmp.Name(), s.path(key)); err != nil {
		return wrapStorageError(codeInternal, "failed to replace slot", err)
	}
	return nil
}

func (s *LocalStorage) Close() error { return nil }
