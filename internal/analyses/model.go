package analyses

import "time"

// Analysis statuses. This service only ever creates records in StatusPending;
// later transitions belong to the downstream analysis worker.
const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Analysis is a unit of downstream work enqueued against a document.
type Analysis struct {
	ID           int64
	UserID       int64
	DocumentID   int64
	Status       string
	AnalysisType string
	Version      string
	CompletedAt  *time.Time
	CreatedAt    time.Time
}

// Summary is the projection of an Analysis joined onto document listings.
type Summary struct {
	ID           int64      `json:"id"`
	Status       string     `json:"status"`
	AnalysisType string     `json:"analysisType"`
	CompletedAt  *time.Time `json:"completedAt"`
}
