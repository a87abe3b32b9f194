package actions

import (
	"context"
	"errors"
	"testing"
	"time"
)

// memStub is a minimal Repo for exercising the service.
type memStub struct {
	byID map[string]SuggestedAction
}

func newMemStub(seed ...SuggestedAction) *memStub {
	m := &memStub{byID: map[string]SuggestedAction{}}
	for _, a := range seed {
		m.byID[a.ID] = a
	}
	return m
}

func (m *memStub) Create(_ context.Context, a SuggestedAction) error {
	m.byID[a.ID] = a
	return nil
}

func (m *memStub) UpdateStatus(_ context.Context, id, status string, updatedAt time.Time) (SuggestedAction, error) {
	a, ok := m.byID[id]
	if !ok {
		return SuggestedAction{}, ErrNotFound
	}
	a.Status = status
	a.UpdatedAt = updatedAt
	m.byID[id] = a
	return a, nil
}

func (m *memStub) Delete(_ context.Context, id string) (SuggestedAction, error) {
	a, ok := m.byID[id]
	if !ok {
		return SuggestedAction{}, ErrNotFound
	}
	delete(m.byID, id)
	return a, nil
}

func (m *memStub) ListByCase(_ context.Context, _ string) ([]SuggestedAction, error) {
	return nil, nil
}

func (m *memStub) ListApproved(_ context.Context) ([]ApprovedView, error) {
	return nil, nil
}

func (m *memStub) CountPendingByCase(_ context.Context, _ string) (int, error) {
	return 0, nil
}

func pendingAction(id string) SuggestedAction {
	return SuggestedAction{
		ID:              id,
		ExtractedDataID: "ext-1",
		Title:           "File answer",
		Priority:        "high",
		Status:          StatusPending,
		CreatedAt:       time.Now().UTC(),
		UpdatedAt:       time.Now().UTC(),
	}
}

func TestSetStatusApprove(t *testing.T) {
	svc := &Service{Repo: newMemStub(pendingAction("a-1"))}

	got, err := svc.SetStatus(context.Background(), "a-1", StatusApproved)
	if err != nil {
		t.Fatalf("SetStatus: %v", err)
	}
	if got.Status != StatusApproved {
		t.Errorf("status = %q", got.Status)
	}
}

func TestSetStatusIsIdempotentOverwrite(t *testing.T) {
	svc := &Service{Repo: newMemStub(pendingAction("a-1"))}

	if _, err := svc.SetStatus(context.Background(), "a-1", StatusApproved); err != nil {
		t.Fatalf("first SetStatus: %v", err)
	}
	got, err := svc.SetStatus(context.Background(), "a-1", StatusRejected)
	if err != nil {
		t.Fatalf("second SetStatus: %v", err)
	}
	if got.Status != StatusRejected {
		t.Errorf("status = %q, want terminal statuses to overwrite", got.Status)
	}
}

func TestSetStatusRejectsInvalidValues(t *testing.T) {
	svc := &Service{Repo: newMemStub(pendingAction("a-1"))}

	for _, status := range []string{StatusPending, "done", ""} {
		if _, err := svc.SetStatus(context.Background(), "a-1", status); !errors.Is(err, ErrInvalidStatus) {
			t.Errorf("SetStatus(%q) err = %v, want ErrInvalidStatus", status, err)
		}
	}
}

func TestSetStatusUnknownAction(t *testing.T) {
	svc := &Service{Repo: newMemStub()}

	if _, err := svc.SetStatus(context.Background(), "missing", StatusApproved); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestDeleteReturnsRemovedAction(t *testing.T) {
	repo := newMemStub(pendingAction("a-1"))
	svc := &Service{Repo: repo}

	got, err := svc.Delete(context.Background(), "a-1")
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if got.ID != "a-1" {
		t.Errorf("deleted = %+v", got)
	}
	if _, err := svc.Delete(context.Background(), "a-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete err = %v, want ErrNotFound", err)
	}
}
