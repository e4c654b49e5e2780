package analyses

import (
	"context"
	"database/sql"
	"time"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts an analysis and returns it with the assigned id.
func (r *PGRepo) Create(ctx context.Context, analysis Analysis) (Analysis, error) {
	const query = `
INSERT INTO analyses (user_id, document_id, status, analysis_type, version, created_at)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id`

	if analysis.Status == "" {
		analysis.Status = StatusPending
	}
	if analysis.CreatedAt.IsZero() {
		analysis.CreatedAt = time.Now().UTC()
	}

	err := r.DB.QueryRowContext(
		ctx,
		query,
		analysis.UserID,
		analysis.DocumentID,
		analysis.Status,
		analysis.AnalysisType,
		analysis.Version,
		analysis.CreatedAt,
	).Scan(&analysis.ID)
	if err != nil {
		return Analysis{}, err
	}
	return analysis, nil
}

// SummariesByDocument lists analysis summaries for a document, oldest first.
func (r *PGRepo) SummariesByDocument(ctx context.Context, documentID int64) ([]Summary, error) {
	const query = `
SELECT id, status, analysis_type, completed_at
FROM analyses
WHERE document_id = $1
ORDER BY id`

	rows, err := r.DB.QueryContext(ctx, query, documentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var s Summary
		var completedAt sql.NullTime
		if err := rows.Scan(&s.ID, &s.Status, &s.AnalysisType, &completedAt); err != nil {
			return nil, err
		}
		if completedAt.Valid {
			s.CompletedAt = &completedAt.Time
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

var _ Repo = (*PGRepo)(nil)
