package blob

import (
	"context"
	"errors"
	"fmt"

	"github.com/de-tools/variation-atlas/pkg/models/domain"
)

var (
	ErrNotFound   = errors.New("blob not found")
	ErrInvalidKey = errors.New("invalid blob key")
)

// Store keeps uploaded spreadsheets as opaque byte payloads addressed by key.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, data []byte) error
}

// New opens the store described by profile. A profile without a type is a local directory.
func New(ctx context.Context, profile domain.StorageProfile) (Store, error) {
	switch profile.Type {
	case domain.ProfileTypeFS, "":
		return NewFileStore(profile.Root)
	case domain.ProfileTypeS3:
		return NewS3Store(ctx, profile)
	case domain.ProfileTypeAzure:
		return NewAzureStore(profile)
	default:
		return nil, fmt.Errorf("unsupported storage type %q in profile %s", profile.Type, profile.Name)
	}
}
