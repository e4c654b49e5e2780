package documents

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path"
	"strconv"
	"time"

	"healthdocs-backend/internal/analyses"
	"healthdocs-backend/internal/shared/storage/object"
	"healthdocs-backend/internal/shared/telemetry"
	"healthdocs-backend/internal/shared/util"
	"healthdocs-backend/internal/users"
)

const (
	defaultUploadURLTTL = time.Hour
	defaultListURLTTL   = 15 * time.Minute
)

// Service drives the ingestion pipeline: blob first, metadata second, with a
// documented inconsistency window in between (a blob written right before a
// failed metadata insert is orphaned; reconciliation is a separate concern).
type Service struct {
	Store    object.ObjectStore
	Docs     Repo
	Users    users.Repo
	Analyses analyses.Repo

	Bucket          string
	UploadURLTTL    time.Duration
	ListURLTTL      time.Duration
	AnalysisVersion string
}

// UploadRequest is the validated input of one ingestion.
type UploadRequest struct {
	UserID       int64
	Filename     string
	ContentType  string
	Data         []byte
	DocumentType string
	Tags         []string
}

// Upload ingests one file: validates, verifies the user, provisions the
// bucket, writes the blob, issues an access URL, and records metadata. Steps
// run strictly in sequence with no retries.
func (s *Service) Upload(ctx context.Context, req UploadRequest) (Document, error) {
	if len(req.Data) == 0 {
		return Document{}, fmt.Errorf("%w: file payload is empty", ErrInvalidInput)
	}
	if req.UserID <= 0 {
		return Document{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	filename, err := util.SanitizeFileName(req.Filename)
	if err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if _, err := s.Users.GetByID(ctx, req.UserID); err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return Document{}, ErrUserNotFound
		}
		return Document{}, fmt.Errorf("look up user %d: %w", req.UserID, err)
	}

	if err := s.Store.EnsureBucket(ctx); err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	key := deriveKey(req.UserID, filename)

	contentType := req.ContentType
	if contentType == "" {
		contentType = http.DetectContentType(req.Data)
	}

	meta := map[string]string{
		"Original-Filename": filename,
		"User-Id":           strconv.FormatInt(req.UserID, 10),
	}
	// Blob before metadata: a Document row must never exist without its object.
	if err := s.Store.Put(ctx, key.StorageKey, key.StagingPath, req.Data, contentType, meta); err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	// URL issuance failure does not fail the upload: the blob and metadata are
	// authoritative and the URL can be regenerated on any listing.
	signedURL, err := s.Store.PresignedGet(ctx, key.StorageKey, s.uploadTTL())
	if err != nil {
		telemetry.Warn("upload.presign_failed", map[string]any{
			"storage_key": key.StorageKey,
			"error":       err.Error(),
		})
		signedURL = ""
	}

	doc := Document{
		UserID:        req.UserID,
		Filename:      filename,
		FileID:        key.FileID,
		SizeBytes:     int64(len(req.Data)),
		MimeType:      contentType,
		FileExtension: path.Ext(filename),
		StorageKey:    key.StorageKey,
		Bucket:        s.Bucket,
		URL:           signedURL,
		DocumentType:  req.DocumentType,
		Tags:          req.Tags,
		UploadedAt:    time.Now().UTC(),
	}

	created, err := s.Docs.Create(ctx, doc)
	if err != nil {
		// The blob already exists; this leaves an orphaned object with no
		// record. Logged so an operator can reconcile out of band.
		telemetry.Error("upload.metadata_failed", map[string]any{
			"storage_key": key.StorageKey,
			"user_id":     req.UserID,
			"error":       err.Error(),
		})
		return Document{}, fmt.Errorf("create document record: %w", err)
	}

	if req.DocumentType != "" {
		if _, err := s.Analyses.Create(ctx, analyses.Analysis{
			UserID:       created.UserID,
			DocumentID:   created.ID,
			Status:       analyses.StatusPending,
			AnalysisType: req.DocumentType,
			Version:      s.AnalysisVersion,
		}); err != nil {
			return Document{}, fmt.Errorf("enqueue analysis: %w", err)
		}
	}

	return created, nil
}

// List returns a user's documents newest first, each with a freshly issued
// short-lived URL. A single failed issuance degrades that item only.
func (s *Service) List(ctx context.Context, userID int64) ([]DocumentView, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	docs, err := s.Docs.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}

	views := make([]DocumentView, 0, len(docs))
	for _, doc := range docs {
		signedURL, err := s.Store.PresignedGet(ctx, doc.StorageKey, s.listTTL())
		if err != nil {
			telemetry.Warn("list.presign_failed", map[string]any{
				"storage_key": doc.StorageKey,
				"document_id": doc.ID,
				"error":       err.Error(),
			})
			signedURL = ""
		}
		doc.URL = signedURL
		views = append(views, toView(doc))
	}
	return views, nil
}

// Delete soft-deletes a document. The blob stays; physical deletion is not
// this service's concern.
func (s *Service) Delete(ctx context.Context, userID, documentID int64) error {
	if userID <= 0 {
		return fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	return s.Docs.SoftDelete(ctx, userID, documentID)
}

func (s *Service) uploadTTL() time.Duration {
	if s.UploadURLTTL > 0 {
		return s.UploadURLTTL
	}
	return defaultUploadURLTTL
}

func (s *Service) listTTL() time.Duration {
	if s.ListURLTTL > 0 {
		return s.ListURLTTL
	}
	return defaultListURLTTL
}
