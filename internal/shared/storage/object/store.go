package object

import (
	"context"
	"io"
	"time"
)

// ObjectStore defines the contract for the blob side of the ingestion
// pipeline: bucket provisioning, durable writes, presigned retrieval.
type ObjectStore interface {
	// EnsureBucket makes sure the destination bucket exists with the expected
	// access policy. Safe to call concurrently; "already exists" is success.
	EnsureBucket(ctx context.Context) error

	// Put stages data at stagingPath, then writes it durably under storageKey
	// with the given content type and descriptive metadata. The staging file
	// is removed on all exit paths.
	Put(ctx context.Context, storageKey, stagingPath string, data []byte, contentType string, meta map[string]string) error

	// PresignedGet issues a time-bounded read URL for the object at storageKey.
	PresignedGet(ctx context.Context, storageKey string, ttl time.Duration) (string, error)

	// Open reads back a stored object.
	Open(ctx context.Context, storageKey string) (io.ReadCloser, error)
}
