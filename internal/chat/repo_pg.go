package chat

import (
	"context"
	"database/sql"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create appends a chat message.
func (r *PGRepo) Create(ctx context.Context, msg Message) error {
	const query = `
INSERT INTO chat_messages (id, case_id, role, content, is_analysis, created_at)
VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.DB.ExecContext(
		ctx,
		query,
		msg.ID,
		msg.CaseID,
		msg.Role,
		msg.Content,
		msg.IsAnalysis,
		msg.CreatedAt,
	)
	return err
}

// ListByCase returns a case's messages ordered by timestamp ascending.
func (r *PGRepo) ListByCase(ctx context.Context, caseID string) ([]Message, error) {
	const query = `
SELECT id, case_id, role, content, is_analysis, created_at
FROM chat_messages
WHERE case_id = $1
ORDER BY created_at ASC`

	rows, err := r.DB.QueryContext(ctx, query, caseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Message
	for rows.Next() {
		var msg Message
		if err := rows.Scan(
			&msg.ID,
			&msg.CaseID,
			&msg.Role,
			&msg.Content,
			&msg.IsAnalysis,
			&msg.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, msg)
	}
	return out, rows.Err()
}

// Delete removes a chat message row.
func (r *PGRepo) Delete(ctx context.Context, messageID string) error {
	const query = `DELETE FROM chat_messages WHERE id = $1`

	_, err := r.DB.ExecContext(ctx, query, messageID)
	return err
}

var _ Repo = (*PGRepo)(nil)
