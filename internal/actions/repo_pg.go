package actions

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a suggested action.
func (r *PGRepo) Create(ctx context.Context, action SuggestedAction) error {
	const query = `
INSERT INTO suggested_actions (id, extracted_data_id, title, description, rationale, priority, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.DB.ExecContext(
		ctx,
		query,
		action.ID,
		action.ExtractedDataID,
		action.Title,
		action.Description,
		action.Rationale,
		action.Priority,
		action.Status,
		action.CreatedAt,
		action.UpdatedAt,
	)
	return err
}

// UpdateStatus sets an action's status and returns the updated row.
// Re-applying a terminal status is an idempotent overwrite.
func (r *PGRepo) UpdateStatus(ctx context.Context, actionID, status string, updatedAt time.Time) (SuggestedAction, error) {
	const query = `
UPDATE suggested_actions
SET status = $1, updated_at = $2
WHERE id = $3
RETURNING id, extracted_data_id, title, description, rationale, priority, status, created_at, updated_at`

	var action SuggestedAction
	err := r.DB.QueryRowContext(ctx, query, status, updatedAt, actionID).Scan(
		&action.ID,
		&action.ExtractedDataID,
		&action.Title,
		&action.Description,
		&action.Rationale,
		&action.Priority,
		&action.Status,
		&action.CreatedAt,
		&action.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return SuggestedAction{}, ErrNotFound
		}
		return SuggestedAction{}, err
	}
	return action, nil
}

// Delete removes an action and returns the deleted row.
func (r *PGRepo) Delete(ctx context.Context, actionID string) (SuggestedAction, error) {
	const query = `
DELETE FROM suggested_actions
WHERE id = $1
RETURNING id, extracted_data_id, title, description, rationale, priority, status, created_at, updated_at`

	var action SuggestedAction
	err := r.DB.QueryRowContext(ctx, query, actionID).Scan(
		&action.ID,
		&action.ExtractedDataID,
		&action.Title,
		&action.Description,
		&action.Rationale,
		&action.Priority,
		&action.Status,
		&action.CreatedAt,
		&action.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return SuggestedAction{}, ErrNotFound
		}
		return SuggestedAction{}, err
	}
	return action, nil
}

// ListByCase returns a case's actions newest-first, joined transitively
// through extracted_data and documents.
func (r *PGRepo) ListByCase(ctx context.Context, caseID string) ([]SuggestedAction, error) {
	const query = `
SELECT a.id, a.extracted_data_id, a.title, a.description, a.rationale, a.priority, a.status, a.created_at, a.updated_at
FROM suggested_actions a
JOIN extracted_data e ON e.id = a.extracted_data_id
JOIN documents d ON d.id = e.document_id
WHERE d.case_id = $1
ORDER BY a.created_at DESC`

	rows, err := r.DB.QueryContext(ctx, query, caseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SuggestedAction
	for rows.Next() {
		var action SuggestedAction
		if err := rows.Scan(
			&action.ID,
			&action.ExtractedDataID,
			&action.Title,
			&action.Description,
			&action.Rationale,
			&action.Priority,
			&action.Status,
			&action.CreatedAt,
			&action.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, action)
	}
	return out, rows.Err()
}

// ListApproved returns every approved action with case and document context,
// most recently decided first.
func (r *PGRepo) ListApproved(ctx context.Context) ([]ApprovedView, error) {
	const query = `
SELECT a.id, a.extracted_data_id, a.title, a.description, a.rationale, a.priority, a.status, a.created_at, a.updated_at,
       c.id, c.name, c.case_number, d.id, d.file_name
FROM suggested_actions a
JOIN extracted_data e ON e.id = a.extracted_data_id
JOIN documents d ON d.id = e.document_id
JOIN cases c ON c.id = d.case_id
WHERE a.status = 'approved'
ORDER BY a.updated_at DESC`

	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ApprovedView
	for rows.Next() {
		var view ApprovedView
		if err := rows.Scan(
			&view.Action.ID,
			&view.Action.ExtractedDataID,
			&view.Action.Title,
			&view.Action.Description,
			&view.Action.Rationale,
			&view.Action.Priority,
			&view.Action.Status,
			&view.Action.CreatedAt,
			&view.Action.UpdatedAt,
			&view.CaseID,
			&view.CaseName,
			&view.CaseNumber,
			&view.DocumentID,
			&view.DocumentName,
		); err != nil {
			return nil, err
		}
		out = append(out, view)
	}
	return out, rows.Err()
}

// CountPendingByCase counts a case's pending actions.
func (r *PGRepo) CountPendingByCase(ctx context.Context, caseID string) (int, error) {
	const query = `
SELECT COUNT(*)
FROM suggested_actions a
JOIN extracted_data e ON e.id = a.extracted_data_id
JOIN documents d ON d.id = e.document_id
WHERE d.case_id = $1 AND a.status = 'pending'`

	var count int
	if err := r.DB.QueryRowContext(ctx, query, caseID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

var _ Repo = (*PGRepo)(nil)
