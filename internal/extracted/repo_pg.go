package extracted

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

// PGRepo implements Repo using Postgres. List fields live in jsonb columns.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts an extraction result.
func (r *PGRepo) Create(ctx context.Context, data ExtractedData) error {
	const query = `
INSERT INTO extracted_data (id, document_id, case_number, parties, deadlines, key_facts, confidence, extracted_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	parties, err := marshalList(data.Parties)
	if err != nil {
		return err
	}
	deadlines, err := marshalList(data.Deadlines)
	if err != nil {
		return err
	}
	keyFacts, err := marshalList(data.KeyFacts)
	if err != nil {
		return err
	}

	var caseNumber sql.NullString
	if data.CaseNumber != "" {
		caseNumber = sql.NullString{String: data.CaseNumber, Valid: true}
	}

	_, err = r.DB.ExecContext(
		ctx,
		query,
		data.ID,
		data.DocumentID,
		caseNumber,
		parties,
		deadlines,
		keyFacts,
		data.Confidence,
		data.ExtractedAt,
	)
	return err
}

// ListByCase returns a case's extractions newest-first, with document context.
func (r *PGRepo) ListByCase(ctx context.Context, caseID string) ([]WithDocument, error) {
	const query = `
SELECT e.id, e.document_id, e.case_number, e.parties, e.deadlines, e.key_facts, e.confidence, e.extracted_at,
       d.file_name, d.case_id
FROM extracted_data e
JOIN documents d ON d.id = e.document_id
WHERE d.case_id = $1
ORDER BY e.extracted_at DESC`

	rows, err := r.DB.QueryContext(ctx, query, caseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []WithDocument
	for rows.Next() {
		var item WithDocument
		if err := scanExtracted(rows, &item.Extracted, &item.DocumentName, &item.CaseID); err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

// ListDeadlines flattens every extraction's deadlines across all cases.
func (r *PGRepo) ListDeadlines(ctx context.Context) ([]DeadlineView, error) {
	const query = `
SELECT e.deadlines, d.file_name, c.id, c.name, c.case_number
FROM extracted_data e
JOIN documents d ON d.id = e.document_id
JOIN cases c ON c.id = d.case_id`

	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DeadlineView
	for rows.Next() {
		var (
			rawDeadlines []byte
			documentName string
			caseID       string
			caseName     string
			caseNumber   string
		)
		if err := rows.Scan(&rawDeadlines, &documentName, &caseID, &caseName, &caseNumber); err != nil {
			return nil, err
		}

		var deadlines []Deadline
		if len(rawDeadlines) > 0 {
			if err := json.Unmarshal(rawDeadlines, &deadlines); err != nil {
				return nil, fmt.Errorf("decode deadlines: %w", err)
			}
		}
		for _, d := range deadlines {
			out = append(out, DeadlineView{
				Deadline:     d,
				CaseID:       caseID,
				CaseName:     caseName,
				CaseNumber:   caseNumber,
				DocumentName: documentName,
			})
		}
	}
	return out, rows.Err()
}

// Delete removes an extraction row.
func (r *PGRepo) Delete(ctx context.Context, extractedID string) error {
	const query = `DELETE FROM extracted_data WHERE id = $1`

	_, err := r.DB.ExecContext(ctx, query, extractedID)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExtracted(row rowScanner, data *ExtractedData, documentName, caseID *string) error {
	var (
		caseNumber   sql.NullString
		rawParties   []byte
		rawDeadlines []byte
		rawKeyFacts  []byte
	)
	if err := row.Scan(
		&data.ID,
		&data.DocumentID,
		&caseNumber,
		&rawParties,
		&rawDeadlines,
		&rawKeyFacts,
		&data.Confidence,
		&data.ExtractedAt,
		documentName,
		caseID,
	); err != nil {
		return err
	}
	if caseNumber.Valid {
		data.CaseNumber = caseNumber.String
	}
	if err := unmarshalList(rawParties, &data.Parties); err != nil {
		return err
	}
	if err := unmarshalList(rawDeadlines, &data.Deadlines); err != nil {
		return err
	}
	if err := unmarshalList(rawKeyFacts, &data.KeyFacts); err != nil {
		return err
	}
	return nil
}

func marshalList(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode jsonb: %w", err)
	}
	if string(raw) == "null" {
		return []byte("[]"), nil
	}
	return raw, nil
}

func unmarshalList(raw []byte, v any) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode jsonb: %w", err)
	}
	return nil
}

var _ Repo = (*PGRepo)(nil)
