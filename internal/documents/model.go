package documents

import (
	"time"

	"healthdocs-backend/internal/analyses"
)

// Document represents one ingested file owned by a user.
//
// StorageKey is the authoritative link to the blob; a row existing and not
// soft-deleted implies the object store holds that key. URL is only the last
// presigned URL handed out and is regenerated on every listing.
type Document struct {
	ID            int64
	UserID        int64
	Filename      string
	FileID        string
	SizeBytes     int64
	MimeType      string
	FileExtension string
	StorageKey    string
	Bucket        string
	URL           string
	DocumentType  string
	Tags          []string
	IsDeleted     bool
	UploadedAt    time.Time

	// Analyses is populated on listings only.
	Analyses []analyses.Summary
}
