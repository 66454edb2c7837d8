package blob

import (
	"context"
	"fmt"
	"io"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
	"github.com/de-tools/variation-atlas/pkg/models/domain"
)

type containerClient interface {
	Download(ctx context.Context, container, name string) (io.ReadCloser, error)
	Upload(ctx context.Context, container, name string, data []byte) error
}

type sdkContainerClient struct {
	client *azblob.Client
}

func (c sdkContainerClient) Download(ctx context.Context, container, name string) (io.ReadCloser, error) {
	resp, err := c.client.DownloadStream(ctx, container, name, nil)
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

func (c sdkContainerClient) Upload(ctx context.Context, container, name string, data []byte) error {
	_, err := c.client.UploadBuffer(ctx, container, name, data, nil)
	return err
}

type azureStore struct {
	client    containerClient
	container string
}

// NewAzureStore authenticates with the default Azure credential chain (environment,
// managed identity, Azure CLI).
func NewAzureStore(profile domain.StorageProfile) (Store, error) {
	if profile.AccountURL == "" || profile.Container == "" {
		return nil, fmt.Errorf("account_url and container are required in storage profile %s", profile.Name)
	}

	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Azure credential: %w", err)
	}
	client, err := azblob.NewClient(profile.AccountURL, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create blob client for %s: %w", profile.AccountURL, err)
	}

	return &azureStore{client: sdkContainerClient{client: client}, container: profile.Container}, nil
}

func (s *azureStore) Get(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, ErrInvalidKey
	}
	body, err := s.client.Download(ctx, s.container, key)
	if err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound, bloberror.ContainerNotFound) {
			return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, s.container, key)
		}
		return nil, fmt.Errorf("failed to download %s/%s: %w", s.container, key, err)
	}
	defer func() { _ = body.Close() }()

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s/%s: %w", s.container, key, err)
	}
	return data, nil
}

func (s *azureStore) Put(ctx context.Context, key string, data []byte) error {
	if key == "" {
		return ErrInvalidKey
	}
	if err := s.client.Upload(ctx, s.container, key, data); err != nil {
		return fmt.Errorf("failed to upload %s/%s: %w", s.container, key, err)
	}
	return nil
}
