package blob

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockContainer struct {
	mock.Mock
}

func (m *mockContainer) Download(ctx context.Context, container, name string) (io.ReadCloser, error) {
	args := m.Called(ctx, container, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

func (m *mockContainer) Upload(ctx context.Context, container, name string, data []byte) error {
	args := m.Called(ctx, container, name, data)
	return args.Error(0)
}

func TestAzureStore_Get(t *testing.T) {
	client := new(mockContainer)
	client.On("Download", mock.Anything, "sheets", "jan.xlsx").
		Return(io.NopCloser(bytes.NewReader([]byte("xlsx"))), nil)
	client.On("Download", mock.Anything, "sheets", "gone.xlsx").
		Return(nil, &azcore.ResponseError{ErrorCode: string(bloberror.BlobNotFound), StatusCode: 404})
	store := &azureStore{client: client, container: "sheets"}

	data, err := store.Get(context.Background(), "jan.xlsx")
	require.NoError(t, err)
	assert.Equal(t, []byte("xlsx"), data)

	_, err = store.Get(context.Background(), "gone.xlsx")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAzureStore_Put(t *testing.T) {
	client := new(mockContainer)
	client.On("Upload", mock.Anything, "sheets", "a.xlsx", []byte("data")).Return(nil)
	client.On("Upload", mock.Anything, "sheets", "b.xlsx", []byte("data")).Return(assert.AnError)
	store := &azureStore{client: client, container: "sheets"}

	require.NoError(t, store.Put(context.Background(), "a.xlsx", []byte("data")))
	assert.ErrorIs(t, store.Put(context.Background(), "b.xlsx", []byte("data")), assert.AnError)
	client.AssertExpectations(t)
}
