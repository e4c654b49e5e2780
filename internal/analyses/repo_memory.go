package analyses

import (
	"context"
	"sync"
	"time"
)

// MemoryRepo is an in-memory implementation of Repo for dev and tests.
type MemoryRepo struct {
	mu     sync.RWMutex
	nextID int64
	data   []Analysis
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{nextID: 1}
}

// Create stores an analysis, assigning the next id.
func (r *MemoryRepo) Create(ctx context.Context, analysis Analysis) (Analysis, error) {
	if err := ctx.Err(); err != nil {
		return Analysis{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	analysis.ID = r.nextID
	r.nextID++
	if analysis.Status == "" {
		analysis.Status = StatusPending
	}
	if analysis.CreatedAt.IsZero() {
		analysis.CreatedAt = time.Now().UTC()
	}
	r.data = append(r.data, analysis)
	return analysis, nil
}

// SummariesByDocument lists analysis summaries for a document, oldest first.
func (r *MemoryRepo) SummariesByDocument(ctx context.Context, documentID int64) ([]Summary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Summary
	for _, a := range r.data {
		if a.DocumentID == documentID {
			out = append(out, Summary{
				ID:           a.ID,
				Status:       a.Status,
				AnalysisType: a.AnalysisType,
				CompletedAt:  a.CompletedAt,
			})
		}
	}
	return out, nil
}

var _ Repo = (*MemoryRepo)(nil)
