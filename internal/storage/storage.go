package storage

import (
	"context"
	"io"
	"time"
)

// Service stores audio blobs in remote object storage.
type Service interface {
	UploadObject(ctx context.Context, bucket, key, contentType string, body io.Reader) (string, error)
	DeleteObject(ctx context.Context, bucket, key string) error
	GetObjectURL(ctx context.Context, bucket, key string, expires time.Duration) (string, error)
}
