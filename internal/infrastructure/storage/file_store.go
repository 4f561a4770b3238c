package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"cable-inspector/internal/domain/port"
	apperrors "cable-inspector/internal/errors"
)

// FileStore читает и пишет изображения в локальной файловой системе.
// Относительные пути разрешаются от BaseDir.
type FileStore struct {
	BaseDir string
}

// NewFileStore создаёт файловое хранилище с базовым каталогом baseDir
func NewFileStore(baseDir string) *FileStore {
	return &FileStore{BaseDir: baseDir}
}

func (s *FileStore) resolve(path string) string {
	if filepath.IsAbs(path) || s.BaseDir == "" {
		return path
	}
	return filepath.Join(s.BaseDir, path)
}

// Get читает файл целиком
func (s *FileStore) Get(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.resolve(path))
	if err != nil {
		return nil, apperrors.NewIOError(fmt.Sprintf("could not read %s", path), err)
	}
	return data, nil
}

// Put записывает файл, создавая недостающие каталоги
func (s *FileStore) Put(ctx context.Context, path string, data []byte, contentType string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	full := s.resolve(path)
	if dir := filepath.Dir(full); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return apperrors.NewIOError(fmt.Sprintf("could not create directory for %s", path), err)
		}
	}

	if err := os.WriteFile(full, data, 0o644); err != nil {
		return apperrors.NewIOError(fmt.Sprintf("could not write %s", path), err)
	}
	return nil
}

// Проверка реализации интерфейса
var _ port.BlobStore = (*FileStore)(nil)
