package local

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"healthdocs-backend/internal/shared/storage/object"
)

// Store implements ObjectStore using the local filesystem. It exists for
// development and tests; pseudo-presigned URLs carry an expiry but grant
// nothing beyond local file access.
type Store struct {
	baseDir string
	bucket  string
}

// New creates a local object store rooted at baseDir.
func New(baseDir, bucket string) *Store {
	return &Store{baseDir: baseDir, bucket: bucket}
}

// EnsureBucket creates the root directory if absent.
func (s *Store) EnsureBucket(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Join(s.baseDir, s.bucket), 0o755); err != nil {
		return fmt.Errorf("mkdir bucket: %w", err)
	}
	return nil
}

// Put stages data at stagingPath, then moves it into the store under
// storageKey. The staging file is removed on all exit paths.
func (s *Store) Put(ctx context.Context, storageKey, stagingPath string, data []byte, contentType string, meta map[string]string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.WriteFile(stagingPath, data, 0o600); err != nil {
		return fmt.Errorf("stage upload %s: %w", stagingPath, err)
	}
	defer os.Remove(stagingPath)

	fullPath, err := s.resolve(storageKey)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}

	staged, err := os.Open(stagingPath)
	if err != nil {
		return fmt.Errorf("open staged file: %w", err)
	}
	defer staged.Close()

	dst, err := os.OpenFile(fullPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("open file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, staged); err != nil {
		return fmt.Errorf("write body: %w", err)
	}
	_ = contentType
	_ = meta
	return nil
}

// PresignedGet returns a pseudo-signed URL carrying the expiry deadline.
func (s *Store) PresignedGet(ctx context.Context, storageKey string, ttl time.Duration) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if _, err := s.resolve(storageKey); err != nil {
		return "", err
	}
	expires := time.Now().Add(ttl).Unix()
	u := url.URL{
		Scheme:   "local",
		Host:     s.bucket,
		Path:     "/" + storageKey,
		RawQuery: "expires=" + strconv.FormatInt(expires, 10),
	}
	return u.String(), nil
}

// Open opens a stored object for reading.
func (s *Store) Open(ctx context.Context, storageKey string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fullPath, err := s.resolve(storageKey)
	if err != nil {
		return nil, err
	}
	return os.Open(fullPath)
}

func (s *Store) resolve(storageKey string) (string, error) {
	clean := filepath.Clean(storageKey)
	if strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", fmt.Errorf("invalid storage key")
	}
	return filepath.Join(s.baseDir, s.bucket, clean), nil
}

var _ object.ObjectStore = (*Store)(nil)
