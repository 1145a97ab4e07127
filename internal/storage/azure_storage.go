package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
)

// BlobStorage downloads model artifacts from blob storage.
type BlobStorage interface {
	DownloadArtifact(ctx context.Context, blobName string) ([]byte, error)
}

type azureStorage struct {
	client    *azblob.Client
	container string
}

// NewAzureStorage creates a blob storage client for one artifact container.
func NewAzureStorage(accountName, accountKey, container string) (BlobStorage, error) {
	credential, err := azblob.NewSharedKeyCredential(accountName, accountKey)
	if err != nil {
		return nil, err
	}

	client, err := azblob.NewClientWithSharedKeyCredential(
		fmt.Sprintf("https://%s.blob.core.windows.net", accountName),
		credential,
		nil,
	)
	if err != nil {
		return nil, err
	}

	return &azureStorage{client: client, container: container}, nil
}

func (s *azureStorage) DownloadArtifact(ctx context.Context, blobName string) ([]byte, error) {
	downloadResponse, err := s.client.DownloadStream(ctx, s.container, blobName, nil)
	if err != nil {
		return nil, fmt.Errorf("download of %s failed: %w", blobName, err)
	}

	retryReader := downloadResponse.Body
	defer retryReader.Close()

	data, err := io.ReadAll(retryReader)
	if err != nil {
		return nil, fmt.Errorf("read of %s failed: %w", blobName, err)
	}
	return data, nil
}
