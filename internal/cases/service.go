package cases

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"casefile-backend/internal/actions"
	"casefile-backend/internal/documents"
	"casefile-backend/internal/shared/storage/object"
	"casefile-backend/internal/shared/telemetry"
)

// ErrInvalidInput marks a rejected create request.
var ErrInvalidInput = errors.New("invalid input")

// Service contains business logic for case management.
type Service struct {
	Repo    Repo
	Docs    documents.Repo
	Actions actions.Repo
	Store   object.ObjectStore
}

// Create registers a new active case for the user.
func (s *Service) Create(ctx context.Context, userID, name, caseNumber string) (Case, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Case{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	cs := Case{
		ID:         uuid.NewString(),
		UserID:     userID,
		Name:       name,
		CaseNumber: strings.TrimSpace(caseNumber),
		Status:     StatusActive,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.Repo.Create(ctx, cs); err != nil {
		return Case{}, err
	}
	return cs, nil
}

// Get returns a single case.
func (s *Service) Get(ctx context.Context, caseID string) (Case, error) {
	return s.Repo.GetByID(ctx, caseID)
}

// List returns the user's cases newest-first, each annotated with its
// document count and the number of actions still awaiting review.
func (s *Service) List(ctx context.Context, userID string) ([]Summary, error) {
	list, err := s.Repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]Summary, 0, len(list))
	for _, cs := range list {
		docCount, err := s.Docs.CountByCase(ctx, cs.ID)
		if err != nil {
			return nil, err
		}
		pending, err := s.Actions.CountPendingByCase(ctx, cs.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, Summary{Case: cs, DocumentCount: docCount, PendingApprovals: pending})
	}
	return out, nil
}

// Delete removes a case along with its stored document blobs. Database rows
// for documents, messages, extractions and actions go with the case.
func (s *Service) Delete(ctx context.Context, caseID string) error {
	if _, err := s.Repo.GetByID(ctx, caseID); err != nil {
		return err
	}

	docs, err := s.Docs.ListByCase(ctx, caseID)
	if err != nil {
		return err
	}
	for _, doc := range docs {
		if err := s.Store.Delete(ctx, doc.StorageKey); err != nil {
			// Keep going: an orphaned blob is preferable to a half-deleted case.
			telemetry.Error("cases.blob_delete_failed", map[string]any{
				"case_id":     caseID,
				"document_id": doc.ID,
				"error":       err.Error(),
			})
		}
	}

	return s.Repo.Delete(ctx, caseID)
}
