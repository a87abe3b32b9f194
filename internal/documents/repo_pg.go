package documents

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new document.
func (r *PGRepo) Create(ctx context.Context, doc Document) error {
	const query = `
INSERT INTO documents (id, case_id, file_name, file_type, file_size, storage_key, uploaded_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.DB.ExecContext(
		ctx,
		query,
		doc.ID,
		doc.CaseID,
		doc.FileName,
		doc.FileType,
		doc.FileSize,
		doc.StorageKey,
		doc.UploadedAt,
	)
	return err
}

// GetByID fetches a document by ID.
func (r *PGRepo) GetByID(ctx context.Context, documentID string) (Document, error) {
	const query = `
SELECT id, case_id, file_name, file_type, file_size, storage_key, uploaded_at
FROM documents
WHERE id = $1`

	var doc Document
	err := r.DB.QueryRowContext(ctx, query, documentID).Scan(
		&doc.ID,
		&doc.CaseID,
		&doc.FileName,
		&doc.FileType,
		&doc.FileSize,
		&doc.StorageKey,
		&doc.UploadedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Document{}, ErrNotFound
		}
		return Document{}, err
	}
	return doc, nil
}

// ListByCase lists documents for a case in upload order.
func (r *PGRepo) ListByCase(ctx context.Context, caseID string) ([]Document, error) {
	const query = `
SELECT id, case_id, file_name, file_type, file_size, storage_key, uploaded_at
FROM documents
WHERE case_id = $1
ORDER BY uploaded_at ASC`

	rows, err := r.DB.QueryContext(ctx, query, caseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Document
	for rows.Next() {
		var doc Document
		if err := rows.Scan(
			&doc.ID,
			&doc.CaseID,
			&doc.FileName,
			&doc.FileType,
			&doc.FileSize,
			&doc.StorageKey,
			&doc.UploadedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

// CountByCase counts documents attached to a case.
func (r *PGRepo) CountByCase(ctx context.Context, caseID string) (int, error) {
	const query = `SELECT COUNT(*) FROM documents WHERE case_id = $1`

	var count int
	if err := r.DB.QueryRowContext(ctx, query, caseID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// Delete removes a document row.
func (r *PGRepo) Delete(ctx context.Context, documentID string) error {
	const query = `DELETE FROM documents WHERE id = $1`

	_, err := r.DB.ExecContext(ctx, query, documentID)
	return err
}

var _ Repo = (*PGRepo)(nil)
