package documents

import (
	"strings"
	"time"

	"healthdocs-backend/internal/analyses"
)

// DocumentResponse is the public projection returned after an upload.
type DocumentResponse struct {
	ID           int64     `json:"id"`
	FileID       string    `json:"fileId"`
	Filename     string    `json:"filename"`
	URL          string    `json:"url,omitempty"`
	DocumentType string    `json:"documentType,omitempty"`
	UploadedAt   time.Time `json:"uploadedAt"`
}

// DocumentView is the listing projection: stored fields plus a freshly issued
// URL and the document's analysis summaries.
type DocumentView struct {
	ID           int64              `json:"id"`
	FileID       string             `json:"fileId"`
	Filename     string             `json:"filename"`
	SizeBytes    int64              `json:"sizeBytes"`
	MimeType     string             `json:"mimeType"`
	StorageKey   string             `json:"storageKey"`
	URL          string             `json:"url,omitempty"`
	DocumentType string             `json:"documentType,omitempty"`
	Tags         []string           `json:"tags"`
	UploadedAt   time.Time          `json:"uploadedAt"`
	Analyses     []analyses.Summary `json:"analyses"`
}

func toResponse(doc Document) DocumentResponse {
	return DocumentResponse{
		ID:           doc.ID,
		FileID:       doc.FileID,
		Filename:     doc.Filename,
		URL:          doc.URL,
		DocumentType: doc.DocumentType,
		UploadedAt:   doc.UploadedAt,
	}
}

func toView(doc Document) DocumentView {
	tags := doc.Tags
	if tags == nil {
		tags = []string{}
	}
	summaries := doc.Analyses
	if summaries == nil {
		summaries = []analyses.Summary{}
	}
	return DocumentView{
		ID:           doc.ID,
		FileID:       doc.FileID,
		Filename:     doc.Filename,
		SizeBytes:    doc.SizeBytes,
		MimeType:     doc.MimeType,
		StorageKey:   doc.StorageKey,
		URL:          doc.URL,
		DocumentType: doc.DocumentType,
		Tags:         tags,
		UploadedAt:   doc.UploadedAt,
		Analyses:     summaries,
	}
}

// ParseTags splits a comma-separated tag string into an ordered list of
// non-empty trimmed strings, deduplicated by first occurrence.
func ParseTags(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	seen := make(map[string]struct{})
	var out []string
	for _, part := range strings.Split(raw, ",") {
		tag := strings.TrimSpace(part)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}
