package minio

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"time"

	miniogo "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"healthdocs-backend/internal/shared/storage/object"
)

// DocumentPrefix is the key namespace readable via signed access. Objects
// outside it are never exposed by the bucket policy.
const DocumentPrefix = "user-documents/"

// Store implements ObjectStore backed by a MinIO (or S3-compatible) server.
type Store struct {
	client *miniogo.Client
	bucket string
	region string
}

// Options configures a MinIO-backed store.
type Options struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
	Region    string
}

// New creates a MinIO-backed object store.
func New(opts Options) (*Store, error) {
	if opts.Bucket == "" {
		return nil, fmt.Errorf("minio bucket is required")
	}

	client, err := miniogo.New(opts.Endpoint, &miniogo.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}

	return &Store{
		client: client,
		bucket: opts.Bucket,
		region: opts.Region,
	}, nil
}

// EnsureBucket creates the bucket with a prefix-restricted read policy if it
// does not exist yet. Concurrent first callers racing to create the same
// bucket all observe success.
func (s *Store) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("minio bucket exists %s: %w", s.bucket, err)
	}
	if exists {
		return nil
	}

	err = s.client.MakeBucket(ctx, s.bucket, miniogo.MakeBucketOptions{Region: s.region})
	if err != nil {
		switch miniogo.ToErrorResponse(err).Code {
		case "BucketAlreadyOwnedByYou", "BucketAlreadyExists":
			// Another in-flight request created it first.
			return nil
		}
		return fmt.Errorf("minio make bucket %s: %w", s.bucket, err)
	}

	policy := fmt.Sprintf(`{
  "Version": "2012-10-17",
  "Statement": [
    {
      "Effect": "Allow",
      "Principal": {"AWS": ["*"]},
      "Action": ["s3:GetObject"],
      "Resource": ["arn:aws:s3:::%s/*"],
      "Condition": {
        "StringLike": {"s3:prefix": %q}
      }
    }
  ]
}`, s.bucket, DocumentPrefix)

	if err := s.client.SetBucketPolicy(ctx, s.bucket, policy); err != nil {
		return fmt.Errorf("minio set bucket policy %s: %w", s.bucket, err)
	}
	return nil
}

// Put stages data on local disk, then uploads the staged file under
// storageKey. Metadata keys are attached as X-Amz-Meta-* object tags.
func (s *Store) Put(ctx context.Context, storageKey, stagingPath string, data []byte, contentType string, meta map[string]string) error {
	if err := os.WriteFile(stagingPath, data, 0o600); err != nil {
		return fmt.Errorf("stage upload %s: %w", stagingPath, err)
	}
	defer os.Remove(stagingPath)

	_, err := s.client.FPutObject(ctx, s.bucket, storageKey, stagingPath, miniogo.PutObjectOptions{
		ContentType:  contentType,
		UserMetadata: meta,
	})
	if err != nil {
		return fmt.Errorf("minio put object bucket=%s key=%s: %w", s.bucket, storageKey, err)
	}
	return nil
}

// PresignedGet issues a signed, read-only URL valid for ttl.
func (s *Store) PresignedGet(ctx context.Context, storageKey string, ttl time.Duration) (string, error) {
	signed, err := s.client.PresignedGetObject(ctx, s.bucket, storageKey, ttl, url.Values{})
	if err != nil {
		return "", fmt.Errorf("minio presign bucket=%s key=%s: %w", s.bucket, storageKey, err)
	}
	return signed.String(), nil
}

// Open reads back a stored object.
func (s *Store) Open(ctx context.Context, storageKey string) (io.ReadCloser, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, storageKey, miniogo.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("minio get object bucket=%s key=%s: %w", s.bucket, storageKey, err)
	}
	return obj, nil
}

var _ object.ObjectStore = (*Store)(nil)
