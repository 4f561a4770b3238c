package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"

	"cable-inspector/internal/domain/port"
	apperrors "cable-inspector/internal/errors"
)

// AzureScheme задаёт префикс путей, которые обслуживает AzureStore.
const AzureScheme = "azblob://"

// AzureStore хранит изображения в Azure Blob Storage.
type AzureStore struct {
	client *azblob.Client
}

// NewAzureStore подключается к аккаунту по shared key
func NewAzureStore(accountName, accountKey string) (*AzureStore, error) {
	credential, err := azblob.NewSharedKeyCredential(accountName, accountKey)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid azure credentials", err)
	}

	client, err := azblob.NewClientWithSharedKeyCredential(
		fmt.Sprintf("https://%s.blob.core.windows.net", accountName),
		credential,
		nil,
	)
	if err != nil {
		return nil, apperrors.NewInternalError("could not create azure client", err)
	}

	return &AzureStore{client: client}, nil
}

// ParseBlobPath разбирает путь вида azblob://container/dir/blob.png
func ParseBlobPath(path string) (containerName, blobName string, err error) {
	if !strings.HasPrefix(path, AzureScheme) {
		return "", "", apperrors.NewValidationError(fmt.Sprintf("not a blob path: %s", path), nil)
	}

	rest := strings.TrimPrefix(path, AzureScheme)
	containerName, blobName, found := strings.Cut(rest, "/")
	if !found || containerName == "" || blobName == "" {
		return "", "", apperrors.NewValidationError(fmt.Sprintf("blob path must be %scontainer/blob: %s", AzureScheme, path), nil)
	}
	return containerName, blobName, nil
}

// Get скачивает блоб целиком
func (s *AzureStore) Get(ctx context.Context, path string) ([]byte, error) {
	containerName, blobName, err := ParseBlobPath(path)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.DownloadStream(ctx, containerName, blobName, nil)
	if err != nil {
		return nil, apperrors.NewIOError("download failed", err)
	}

	body := resp.Body
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, apperrors.NewIOError("download failed", err)
	}
	return data, nil
}

// Put загружает блоб с указанным Content-Type
func (s *AzureStore) Put(ctx context.Context, path string, data []byte, contentType string) error {
	containerName, blobName, err := ParseBlobPath(path)
	if err != nil {
		return err
	}

	opts := &azblob.UploadBufferOptions{}
	if contentType != "" {
		opts.HTTPHeaders = &blob.HTTPHeaders{BlobContentType: &contentType}
	}

	if _, err := s.client.UploadBuffer(ctx, containerName, blobName, data, opts); err != nil {
		return apperrors.NewIOError("upload failed", err)
	}
	return nil
}

// Проверка реализации интерфейса
var _ port.BlobStore = (*AzureStore)(nil)
