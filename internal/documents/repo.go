package documents

import "context"

// Repo defines persistence operations for documents.
type Repo interface {
	// Create inserts a document and returns it with the assigned id.
	Create(ctx context.Context, doc Document) (Document, error)
	// ListByUser returns a user's documents newest first, excluding
	// soft-deleted ones, each joined with its analysis summaries.
	ListByUser(ctx context.Context, userID int64) ([]Document, error)
	// SoftDelete marks a document logically removed. The row and the blob stay.
	SoftDelete(ctx context.Context, userID, documentID int64) error
}
