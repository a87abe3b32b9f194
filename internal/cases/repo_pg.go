package cases

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// PGRepo implements Repo on Postgres.
type PGRepo struct {
	DB *sql.DB
}

// NewPGRepo constructs a PGRepo.
func NewPGRepo(db *sql.DB) *PGRepo {
	return &PGRepo{DB: db}
}

func (r *PGRepo) Create(ctx context.Context, cs Case) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO cases (id, user_id, name, case_number, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, cs.ID, cs.UserID, cs.Name, nullable(cs.CaseNumber), cs.Status, cs.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert case: %w", err)
	}
	return nil
}

func (r *PGRepo) GetByID(ctx context.Context, caseID string) (Case, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT id, user_id, name, case_number, status, created_at
		FROM cases
		WHERE id = $1
	`, caseID)
	return scanCase(row)
}

func (r *PGRepo) ListByUser(ctx context.Context, userID string) ([]Case, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, user_id, name, case_number, status, created_at
		FROM cases
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list cases: %w", err)
	}
	defer rows.Close()

	out := make([]Case, 0)
	for rows.Next() {
		cs, err := scanCase(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, cs)
	}
	return out, rows.Err()
}

func (r *PGRepo) Delete(ctx context.Context, caseID string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM cases WHERE id = $1`, caseID)
	if err != nil {
		return fmt.Errorf("delete case: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCase(row rowScanner) (Case, error) {
	var cs Case
	var caseNumber sql.NullString
	err := row.Scan(&cs.ID, &cs.UserID, &cs.Name, &caseNumber, &cs.Status, &cs.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Case{}, ErrNotFound
	}
	if err != nil {
		return Case{}, fmt.Errorf("scan case: %w", err)
	}
	cs.CaseNumber = caseNumber.String
	return cs, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
