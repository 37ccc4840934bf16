// Package blob stores the optional byte content attached to documents. The
// local driver writes to disk, the minio and s3 drivers talk to an object
// store.
package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/ahmetcoskunkizilkaya/doclocker/internal/config"
	"github.com/ahmetcoskunkizilkaya/doclocker/internal/signing"
	"github.com/google/uuid"
)

var ErrNotFound = errors.New("blob not found")

type Storage interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	// URL returns a link that allows downloading key for ttl.
	URL(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// Key names a fresh object for a document's content.
func Key(documentID uuid.UUID) string {
	return fmt.Sprintf("documents/%s/%s", documentID, uuid.NewString())
}

// New builds the driver selected by BLOB_DRIVER.
func New(ctx context.Context, cfg *config.Config) (Storage, error) {
	switch cfg.BlobDriver {
	case config.BlobDriverMinio:
		s, err := NewMinio(cfg)
		if err != nil {
			return nil, err
		}
		if err := s.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return s, nil
	case config.BlobDriverS3:
		return NewS3(ctx, cfg)
	default:
		secret := cfg.BlobURLSecret
		if secret == "" {
			secret = cfg.JWTSecret
		}
		return NewLocal(cfg.BlobLocalPath, cfg.PublicBaseURL, signing.NewURLSigner([]byte(secret)))
	}
}
