package extracted

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func newMock(t *testing.T) (*PGRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return &PGRepo{DB: db}, mock
}

func TestPGRepoCreateEncodesLists(t *testing.T) {
	repo, mock := newMock(t)
	now := time.Now().UTC()

	data := ExtractedData{
		ID:         "ext-1",
		DocumentID: "doc-1",
		CaseNumber: "2024-CV-77",
		Parties:    []string{"State", "J. Smith"},
		Deadlines: []Deadline{
			{Date: "2024-09-15", Description: "Answer due", Priority: "high"},
		},
		KeyFacts:    []string{"Service completed"},
		Confidence:  0.9,
		ExtractedAt: now,
	}

	mock.ExpectExec("INSERT INTO extracted_data").
		WithArgs(
			data.ID,
			data.DocumentID,
			sqlmock.AnyArg(), // case_number nullable
			[]byte(`["State","J. Smith"]`),
			[]byte(`[{"date":"2024-09-15","description":"Answer due","priority":"high"}]`),
			[]byte(`["Service completed"]`),
			data.Confidence,
			data.ExtractedAt,
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Create(context.Background(), data); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoCreateNilListsBecomeEmptyArrays(t *testing.T) {
	repo, mock := newMock(t)

	data := ExtractedData{
		ID:          "ext-1",
		DocumentID:  "doc-1",
		Confidence:  0.85,
		ExtractedAt: time.Now().UTC(),
	}

	mock.ExpectExec("INSERT INTO extracted_data").
		WithArgs(
			data.ID,
			data.DocumentID,
			sqlmock.AnyArg(),
			[]byte(`[]`),
			[]byte(`[]`),
			[]byte(`[]`),
			data.Confidence,
			data.ExtractedAt,
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Create(context.Background(), data); err != nil {
		t.Fatalf("Create: %v", err)
	}
}

func TestPGRepoListByCaseDecodesJSONB(t *testing.T) {
	repo, mock := newMock(t)
	now := time.Now().UTC()

	cols := []string{"id", "document_id", "case_number", "parties", "deadlines", "key_facts", "confidence", "extracted_at", "file_name", "case_id"}
	mock.ExpectQuery("FROM extracted_data").
		WithArgs("case-1").
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow("ext-1", "doc-1", "2024-CV-77",
				[]byte(`["State"]`),
				[]byte(`[{"date":"2024-09-15","description":"Answer due","priority":"high"}]`),
				[]byte(`["Service completed"]`),
				0.9, now, "complaint.pdf", "case-1"))

	views, err := repo.ListByCase(context.Background(), "case-1")
	if err != nil {
		t.Fatalf("ListByCase: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("views = %d", len(views))
	}
	v := views[0]
	if v.DocumentName != "complaint.pdf" || v.CaseID != "case-1" {
		t.Errorf("view = %+v", v)
	}
	if len(v.Extracted.Deadlines) != 1 || v.Extracted.Deadlines[0].Description != "Answer due" {
		t.Errorf("deadlines = %+v", v.Extracted.Deadlines)
	}
}

func TestPGRepoListDeadlinesFlattens(t *testing.T) {
	repo, mock := newMock(t)

	cols := []string{"deadlines", "file_name", "case_id", "case_name", "case_number"}
	mock.ExpectQuery("FROM extracted_data").
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow([]byte(`[{"date":"2024-09-15","description":"Answer due","priority":"high"},{"date":"2024-10-01","description":"Hearing","priority":"medium"}]`),
				"complaint.pdf", "case-1", "Smith matter", "2024-CV-77").
			AddRow([]byte(`[]`), "notes.txt", "case-2", "Doe matter", ""))

	list, err := repo.ListDeadlines(context.Background())
	if err != nil {
		t.Fatalf("ListDeadlines: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("deadlines = %d, want rows flattened", len(list))
	}
	if list[0].CaseName != "Smith matter" || list[0].Description != "Answer due" {
		t.Errorf("first = %+v", list[0])
	}
	if list[1].Date != "2024-10-01" {
		t.Errorf("second = %+v", list[1])
	}
}
