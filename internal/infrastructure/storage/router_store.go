package storage

import (
	"context"
	"strings"

	"cable-inspector/internal/domain/port"
	apperrors "cable-inspector/internal/errors"
)

// RouterStore выбирает хранилище по префиксу пути:
// azblob:// уходит в облако, всё остальное в локальную файловую систему.
type RouterStore struct {
	local  port.BlobStore
	remote port.BlobStore
}

// NewRouterStore создаёт маршрутизатор; remote может быть nil, если облако не настроено
func NewRouterStore(local, remote port.BlobStore) *RouterStore {
	return &RouterStore{local: local, remote: remote}
}

func (s *RouterStore) pick(path string) (port.BlobStore, error) {
	if !strings.HasPrefix(path, AzureScheme) {
		return s.local, nil
	}
	if s.remote == nil {
		return nil, apperrors.NewValidationError("azure storage is not configured", nil)
	}
	return s.remote, nil
}

// Get читает файл из подходящего хранилища
func (s *RouterStore) Get(ctx context.Context, path string) ([]byte, error) {
	store, err := s.pick(path)
	if err != nil {
		return nil, err
	}
	return store.Get(ctx, path)
}

// Put пишет файл в подходящее хранилище
func (s *RouterStore) Put(ctx context.Context, path string, data []byte, contentType string) error {
	store, err := s.pick(path)
	if err != nil {
		return err
	}
	return store.Put(ctx, path, data, contentType)
}

// Проверка реализации интерфейса
var _ port.BlobStore = (*RouterStore)(nil)
