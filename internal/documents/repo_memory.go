package documents

import (
	"context"
	"sort"
	"sync"

	"healthdocs-backend/internal/analyses"
)

// AnalysisSource provides the analysis summaries joined onto listings. The
// Postgres repo does this join in SQL; the memory repo delegates here.
type AnalysisSource interface {
	SummariesByDocument(ctx context.Context, documentID int64) ([]analyses.Summary, error)
}

// MemoryRepo is an in-memory implementation of Repo for dev and tests.
type MemoryRepo struct {
	mu       sync.RWMutex
	nextID   int64
	data     map[int64][]Document // userID -> documents
	analyses AnalysisSource
}

// NewMemoryRepo constructs a MemoryRepo joining summaries from src.
func NewMemoryRepo(src AnalysisSource) *MemoryRepo {
	return &MemoryRepo{
		nextID:   1,
		data:     make(map[int64][]Document),
		analyses: src,
	}
}

// Create stores a document, assigning the next id.
func (r *MemoryRepo) Create(ctx context.Context, doc Document) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	doc.ID = r.nextID
	r.nextID++
	r.data[doc.UserID] = append(r.data[doc.UserID], doc)
	return doc, nil
}

// ListByUser returns a user's documents newest first, excluding soft-deleted.
func (r *MemoryRepo) ListByUser(ctx context.Context, userID int64) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	var docs []Document
	for _, doc := range r.data[userID] {
		if !doc.IsDeleted {
			docs = append(docs, doc)
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(docs, func(i, j int) bool {
		return docs[i].UploadedAt.After(docs[j].UploadedAt)
	})

	for i := range docs {
		if r.analyses == nil {
			continue
		}
		summaries, err := r.analyses.SummariesByDocument(ctx, docs[i].ID)
		if err != nil {
			return nil, err
		}
		docs[i].Analyses = summaries
	}
	return docs, nil
}

// SoftDelete marks a document logically removed.
func (r *MemoryRepo) SoftDelete(ctx context.Context, userID, documentID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	docs := r.data[userID]
	for i := range docs {
		if docs[i].ID == documentID && !docs[i].IsDeleted {
			docs[i].IsDeleted = true
			r.data[userID] = docs
			return nil
		}
	}
	return ErrNotFound
}

var _ Repo = (*MemoryRepo)(nil)
