package analyses

import "context"

// Repo defines persistence operations for analyses.
type Repo interface {
	Create(ctx context.Context, analysis Analysis) (Analysis, error)
	SummariesByDocument(ctx context.Context, documentID int64) ([]Summary, error)
}
