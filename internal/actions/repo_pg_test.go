package actions

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

var actionColumns = []string{
	"id", "extracted_data_id", "title", "description", "rationale",
	"priority", "status", "created_at", "updated_at",
}

func newMock(t *testing.T) (*PGRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return &PGRepo{DB: db}, mock
}

func TestPGRepoUpdateStatusReturnsRow(t *testing.T) {
	repo, mock := newMock(t)
	now := time.Now().UTC()

	mock.ExpectQuery("UPDATE suggested_actions").
		WithArgs(StatusApproved, now, "action-1").
		WillReturnRows(sqlmock.NewRows(actionColumns).
			AddRow("action-1", "ext-1", "File answer", "desc", "why", "high", StatusApproved, now, now))

	got, err := repo.UpdateStatus(context.Background(), "action-1", StatusApproved, now)
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if got.Status != StatusApproved || got.ID != "action-1" {
		t.Errorf("action = %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoUpdateStatusUnknownAction(t *testing.T) {
	repo, mock := newMock(t)
	now := time.Now().UTC()

	mock.ExpectQuery("UPDATE suggested_actions").
		WithArgs(StatusRejected, now, "missing").
		WillReturnRows(sqlmock.NewRows(actionColumns))

	if _, err := repo.UpdateStatus(context.Background(), "missing", StatusRejected, now); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestPGRepoDeleteReturnsRow(t *testing.T) {
	repo, mock := newMock(t)
	now := time.Now().UTC()

	mock.ExpectQuery("DELETE FROM suggested_actions").
		WithArgs("action-1").
		WillReturnRows(sqlmock.NewRows(actionColumns).
			AddRow("action-1", "ext-1", "File answer", "desc", "why", "high", StatusPending, now, now))

	got, err := repo.Delete(context.Background(), "action-1")
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if got.ID != "action-1" {
		t.Errorf("action = %+v", got)
	}
}

func TestPGRepoListApprovedJoinsContext(t *testing.T) {
	repo, mock := newMock(t)
	now := time.Now().UTC()

	cols := append(append([]string{}, actionColumns...),
		"case_id", "case_name", "case_number", "document_id", "file_name")
	mock.ExpectQuery("FROM suggested_actions").
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow("action-1", "ext-1", "File answer", "desc", "why", "high", StatusApproved, now, now,
				"case-1", "Smith matter", "2024-CV-77", "doc-1", "complaint.pdf"))

	views, err := repo.ListApproved(context.Background())
	if err != nil {
		t.Fatalf("ListApproved: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("views = %d", len(views))
	}
	v := views[0]
	if v.CaseName != "Smith matter" || v.DocumentName != "complaint.pdf" || v.Action.Status != StatusApproved {
		t.Errorf("view = %+v", v)
	}
}

func TestPGRepoCountPendingByCase(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery("SELECT COUNT").
		WithArgs("case-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	n, err := repo.CountPendingByCase(context.Background(), "case-1")
	if err != nil {
		t.Fatalf("CountPendingByCase: %v", err)
	}
	if n != 3 {
		t.Errorf("count = %d", n)
	}
}
