package port

import "context"

// BlobStore интерфейс хранилища файлов изображений.
// Путь может быть локальным или вида azblob://container/blob.
type BlobStore interface {
	// Get читает содержимое файла
	Get(ctx context.Context, path string) ([]byte, error)

	// Put записывает содержимое файла
	Put(ctx context.Context, path string, data []byte, contentType string) error
}
