package blob

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockS3 struct {
	mock.Mock
}

func (m *mockS3) GetObject(ctx context.Context, params *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.GetObjectOutput), args.Error(1)
}

func (m *mockS3) PutObject(ctx context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.PutObjectOutput), args.Error(1)
}

func objectInput(key string) interface{} {
	return mock.MatchedBy(func(in *s3.GetObjectInput) bool {
		return aws.ToString(in.Bucket) == "exports" && aws.ToString(in.Key) == key
	})
}

func TestS3Store_Get(t *testing.T) {
	// Given
	client := new(mockS3)
	client.On("GetObject", mock.Anything, objectInput("jan.xlsx")).
		Return(&s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader([]byte("xlsx")))}, nil)
	store := newS3Store(client, "exports")

	// When
	data, err := store.Get(context.Background(), "jan.xlsx")

	// Then
	require.NoError(t, err)
	assert.Equal(t, []byte("xlsx"), data)
	client.AssertExpectations(t)
}

func TestS3Store_GetErrors(t *testing.T) {
	client := new(mockS3)
	client.On("GetObject", mock.Anything, objectInput("missing.xlsx")).Return(nil, &types.NoSuchKey{})
	client.On("GetObject", mock.Anything, objectInput("denied.xlsx")).Return(nil, assert.AnError)
	store := newS3Store(client, "exports")

	_, err := store.Get(context.Background(), "missing.xlsx")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.Get(context.Background(), "denied.xlsx")
	assert.ErrorIs(t, err, assert.AnError)
	assert.NotErrorIs(t, err, ErrNotFound)

	_, err = store.Get(context.Background(), "")
	assert.ErrorIs(t, err, ErrInvalidKey)
}

func TestS3Store_Put(t *testing.T) {
	client := new(mockS3)
	client.On("PutObject", mock.Anything, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
		return aws.ToString(in.Bucket) == "exports" && aws.ToString(in.Key) == "uploads/a.xlsx" && in.Body != nil
	})).Return(&s3.PutObjectOutput{}, nil)
	store := newS3Store(client, "exports")

	err := store.Put(context.Background(), "uploads/a.xlsx", []byte("data"))

	require.NoError(t, err)
	client.AssertExpectations(t)
}
