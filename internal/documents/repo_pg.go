package documents

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"healthdocs-backend/internal/analyses"
)

// ErrForeignKey marks an insert referencing a nonexistent parent row. Given
// prior validation this indicates an internal-consistency fault.
var ErrForeignKey = errors.New("referential integrity violation")

const pgForeignKeyViolation = "23503"

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a document and returns it with the assigned id.
func (r *PGRepo) Create(ctx context.Context, doc Document) (Document, error) {
	const query = `
INSERT INTO documents (
    user_id,
    filename,
    file_id,
    size_bytes,
    mime_type,
    file_extension,
    storage_key,
    bucket,
    url,
    document_type,
    tags,
    is_deleted,
    uploaded_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, FALSE, $12)
RETURNING id`

	tags := doc.Tags
	if tags == nil {
		tags = []string{}
	}
	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return Document{}, fmt.Errorf("marshal tags: %w", err)
	}

	err = r.DB.QueryRowContext(
		ctx,
		query,
		doc.UserID,
		doc.Filename,
		doc.FileID,
		doc.SizeBytes,
		doc.MimeType,
		doc.FileExtension,
		doc.StorageKey,
		doc.Bucket,
		nullableString(doc.URL),
		nullableString(doc.DocumentType),
		tagsJSON,
		doc.UploadedAt,
	).Scan(&doc.ID)
	if err != nil {
		return Document{}, mapPGError(err)
	}
	return doc, nil
}

// ListByUser returns a user's documents newest first with analysis summaries.
func (r *PGRepo) ListByUser(ctx context.Context, userID int64) ([]Document, error) {
	const query = `
SELECT d.id, d.user_id, d.filename, d.file_id, d.size_bytes, d.mime_type,
       d.file_extension, d.storage_key, d.bucket, d.url, d.document_type,
       d.tags, d.uploaded_at,
       a.id, a.status, a.analysis_type, a.completed_at
FROM documents d
LEFT JOIN analyses a ON a.document_id = d.id
WHERE d.user_id = $1 AND d.is_deleted = FALSE
ORDER BY d.uploaded_at DESC, d.id DESC, a.id ASC`

	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Document
	index := make(map[int64]int)
	for rows.Next() {
		var doc Document
		var urlVal sql.NullString
		var docType sql.NullString
		var tagsJSON []byte
		var analysisID sql.NullInt64
		var analysisStatus sql.NullString
		var analysisType sql.NullString
		var completedAt sql.NullTime
		if err := rows.Scan(
			&doc.ID,
			&doc.UserID,
			&doc.Filename,
			&doc.FileID,
			&doc.SizeBytes,
			&doc.MimeType,
			&doc.FileExtension,
			&doc.StorageKey,
			&doc.Bucket,
			&urlVal,
			&docType,
			&tagsJSON,
			&doc.UploadedAt,
			&analysisID,
			&analysisStatus,
			&analysisType,
			&completedAt,
		); err != nil {
			return nil, err
		}

		pos, ok := index[doc.ID]
		if !ok {
			if urlVal.Valid {
				doc.URL = urlVal.String
			}
			if docType.Valid {
				doc.DocumentType = docType.String
			}
			if len(tagsJSON) > 0 {
				if err := json.Unmarshal(tagsJSON, &doc.Tags); err != nil {
					return nil, fmt.Errorf("unmarshal tags: %w", err)
				}
			}
			out = append(out, doc)
			pos = len(out) - 1
			index[doc.ID] = pos
		}

		if analysisID.Valid {
			summary := analyses.Summary{
				ID:           analysisID.Int64,
				Status:       analysisStatus.String,
				AnalysisType: analysisType.String,
			}
			if completedAt.Valid {
				summary.CompletedAt = &completedAt.Time
			}
			out[pos].Analyses = append(out[pos].Analyses, summary)
		}
	}
	return out, rows.Err()
}

// SoftDelete marks a document logically removed.
func (r *PGRepo) SoftDelete(ctx context.Context, userID, documentID int64) error {
	const query = `
UPDATE documents
SET is_deleted = TRUE
WHERE id = $1 AND user_id = $2 AND is_deleted = FALSE`
	res, err := r.DB.ExecContext(ctx, query, documentID, userID)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func mapPGError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
		return fmt.Errorf("%w: %s", ErrForeignKey, pgErr.ConstraintName)
	}
	return err
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

var _ Repo = (*PGRepo)(nil)
